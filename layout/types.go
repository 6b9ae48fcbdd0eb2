package layout

// 该文件定义布局结果与资源描述，供布局计算、渲染与调试 JSON 共用。所有坐标与尺寸单位为 mm，字号单位为 pt。

// Result 保存布局后的页面与资源信息。
type Result struct {
	Pages     []Page       `json:"pages"`
	Resources ResourceSet  `json:"resources"`
	Meta      DocumentMeta `json:"meta"`
	Skipped   []string     `json:"skipped,omitempty"` // SkipInvalid 时被跳过的 SSID
}

// ResourceSet 记录页面引用的字体。
type ResourceSet struct {
	Fonts map[string]FontResource `json:"fonts"`
}

// FontResource 描述字体资源，src 可以是文件路径、内置 embed:* 名称或 builtin:* 形式。
type FontResource struct {
	Name   string `json:"name"`
	Src    string `json:"src"`
	Style  string `json:"style"`
	Family string `json:"family"` // 渲染器使用的 Family 名称
}

// Color 采用 0-255 的 RGB 数值。
type Color struct {
	R int `json:"r"`
	G int `json:"g"`
	B int `json:"b"`
}

// Page 记录页面尺寸、边距与最终可以直接渲染的元素。
type Page struct {
	SSID    string      `json:"ssid"`
	Width   float64     `json:"width"`
	Height  float64     `json:"height"`
	Margin  Margin      `json:"margin"`
	Vectors []VectorBox `json:"vectors"`
	Icons   []IconBox   `json:"icons"`
	Texts   []TextBox   `json:"texts"`
	Glyphs  []GlyphBox  `json:"glyphs,omitempty"`
	Rects   []Rect      `json:"rects,omitempty"`
}

// Margin 以毫米为单位。
type Margin struct {
	Top    float64 `json:"top"`
	Right  float64 `json:"right"`
	Bottom float64 `json:"bottom"`
	Left   float64 `json:"left"`
}

// TextBox 表示一个已经排好坐标的文本块，Y 为首行顶部。
type TextBox struct {
	Content  string     `json:"content"`
	X        float64    `json:"x"`
	Y        float64    `json:"y"`
	Width    float64    `json:"width"`
	Font     string     `json:"font"`
	FontSize float64    `json:"fontSize"`
	Color    Color      `json:"color"`
	Lines    []TextLine `json:"lines"`
	Height   float64    `json:"height"`
}

// TextLine 表示排版后的一行文本内容及其宽高。
type TextLine struct {
	Content   string  `json:"content"`
	Width     float64 `json:"width"`
	Height    float64 `json:"height"`
	GapBefore float64 `json:"gapBefore,omitempty"`
}

// GlyphBox 是单独着色的一个字符（用于密码），Y 为所在行顶部。
type GlyphBox struct {
	Char     string  `json:"char"`
	Display  string  `json:"display"`
	Class    string  `json:"class"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Width    float64 `json:"width"`
	Font     string  `json:"font"`
	FontSize float64 `json:"fontSize"`
	Color    Color   `json:"color"`
}

// VectorBox 将一个只含 viewBox 相对坐标的 SVG 放置到页面上的矩形区域。
type VectorBox struct {
	SVG     string     `json:"svg"`
	ViewBox [4]float64 `json:"viewBox"`
	X       float64    `json:"x"`
	Y       float64    `json:"y"`
	Width   float64    `json:"width"`
	Height  float64    `json:"height"`
}

// IconBox 表示一个正方形图标。
type IconBox struct {
	Name  string  `json:"name"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Size  float64 `json:"size"`
	Color Color   `json:"color"`
}

// Rect 表示一个（可带圆角的）矩形。
type Rect struct {
	X           float64 `json:"x"`
	Y           float64 `json:"y"`
	Width       float64 `json:"width"`
	Height      float64 `json:"height"`
	Radius      float64 `json:"radius,omitempty"`
	StrokeColor Color   `json:"strokeColor"`
	StrokeWidth float64 `json:"strokeWidth"`
	FillColor   *Color  `json:"fillColor,omitempty"` // 为空表示不填充
}

// DocumentMeta 保存 PDF 元信息。
type DocumentMeta struct {
	Title    string   `json:"title"`
	Author   string   `json:"author"`
	Subject  string   `json:"subject"`
	Creator  string   `json:"creator"`
	Keywords []string `json:"keywords"`
}
