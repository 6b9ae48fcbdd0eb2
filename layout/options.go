package layout

import (
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/ByLCY/wificard/credential"
)

// ComposeOptions 配置页面合成所需的依赖。所有字段在一次运行中只读。
type ComposeOptions struct {
	Metrics   Metrics       // 字体度量（通常由渲染器提供）
	Graphics  GraphicSource // 二维码等矢量图来源
	Palette   Palette       // 密码字符配色
	Localizer Translator    // 固定文案翻译，nil 时原样输出
	PageSize  PageSize      // 零值表示 A4
	Fonts     map[string]FontResource
	Footer    string // 页脚模板，支持 ${ssid} 等占位符；为空则不输出页脚
	// SkipInvalid 为 true 时跳过无法排版的记录并记录日志；否则第一条失败的记录即终止整个文档。
	SkipInvalid bool
	Logger      *zap.Logger
}

// GraphicSource 为一条记录生成已换算为 viewBox 单位的矢量图。
type GraphicSource interface {
	Graphic(rec credential.Record) (*VectorBox, error)
}

// Translator 翻译固定文案。
type Translator interface {
	T(key string) string
}

// 字体资源名称。
const (
	FontMain  = "main"
	FontBold  = "bold"
	FontMono  = "mono"
	FontSpace = "space"
)

// DefaultFonts 返回内置 Go 字体组成的字体表。
func DefaultFonts() map[string]FontResource {
	return map[string]FontResource{
		FontMain:  {Name: FontMain, Src: "embed:go-regular", Family: FontMain},
		FontBold:  {Name: FontBold, Src: "embed:go-bold", Style: "bold", Family: FontBold},
		FontMono:  {Name: FontMono, Src: "embed:go-mono", Family: FontMono},
		FontSpace: {Name: FontSpace, Src: "embed:go-mono", Family: FontSpace},
	}
}

// PageSize 以毫米记录纸张尺寸。
type PageSize struct {
	Name   string  `json:"name"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// 常用纸张尺寸。
var (
	A4     = PageSize{Name: "A4", Width: 210, Height: 297}
	A5     = PageSize{Name: "A5", Width: 148, Height: 210}
	Letter = PageSize{Name: "Letter", Width: 215.9, Height: 279.4}
)

var pageSizes = map[string]PageSize{"a4": A4, "a5": A5, "letter": Letter}

// PageSizeByName 按名称（大小写不敏感）查找纸张尺寸，空字符串表示 A4。
func PageSizeByName(name string) (PageSize, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" {
		return A4, nil
	}
	if ps, ok := pageSizes[key]; ok {
		return ps, nil
	}
	names := make([]string, 0, len(pageSizes))
	for _, ps := range pageSizes {
		names = append(names, ps.Name)
	}
	sort.Strings(names)
	return PageSize{}, fmt.Errorf("未知纸张尺寸 %q（可选：%s）", name, strings.Join(names, ", "))
}
