package canvasrenderer

import (
	"bytes"
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"unicode"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/pdf"
	"go.uber.org/zap"
	"golang.org/x/image/font/sfnt"

	"github.com/ByLCY/wificard/fonts"
	"github.com/ByLCY/wificard/layout"
	"github.com/ByLCY/wificard/renderer"
)

const (
	defaultStrokeWidth = 0.2
	fallbackFont       = "go-regular"
)

// Renderer draws layout results via github.com/tdewolff/canvas.
type Renderer struct {
	baseDir string
	log     *zap.Logger

	// injected resources
	fontBlobs map[string][]byte // by unique name

	fontMu         sync.Mutex
	fontFamilies   map[string]*fontFamilyEntry
	fallbackFamily *canvas.FontFamily
}

var (
	_ renderer.Renderer = (*Renderer)(nil)
	_ layout.Metrics    = (*Renderer)(nil)
)

type fontFamilyEntry struct {
	family *canvas.FontFamily
	style  canvas.FontStyle
}

// Options configures the canvas renderer.
type Options struct {
	BaseDir string
	Fonts   map[string]Resource // 通过 built-in:<name> 引用的字体
	Logger  *zap.Logger
}

// Resource 是已读入内存的字体文件。
type Resource struct {
	Bytes []byte
}

// NewRenderer creates a canvas-based renderer rooted at baseDir for resolving font paths.
func NewRenderer(baseDir string) *Renderer { return NewRendererWithOptions(Options{BaseDir: baseDir}) }

// NewRendererWithOptions creates a renderer with injected resources and optional baseDir.
func NewRendererWithOptions(opts Options) *Renderer {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	r := &Renderer{
		baseDir:      opts.BaseDir,
		log:          log,
		fontBlobs:    map[string][]byte{},
		fontFamilies: map[string]*fontFamilyEntry{},
	}
	for name, res := range opts.Fonts {
		if name == "" || len(res.Bytes) == 0 {
			log.Warn("忽略空字体资源", zap.String("font", name))
			continue
		}
		r.fontBlobs[name] = res.Bytes
	}
	return r
}

// TextWidth 实现 layout.Metrics：返回 text 以 font、sizePt 渲染时的宽度（mm）。
// 每次调用都按入参重新取字体面，不依赖任何“当前字体”状态。
func (r *Renderer) TextWidth(text string, font layout.FontResource, sizePt float64) (float64, error) {
	if sizePt <= 0 {
		return 0, fmt.Errorf("字号必须为正数，实际 %g", sizePt)
	}
	face, err := r.fontFace(font, sizePt, layout.Color{})
	if err != nil {
		return 0, err
	}
	return face.TextWidth(text), nil
}

// Render renders the result into a PDF byte slice.
func (r *Renderer) Render(result *layout.Result) ([]byte, error) {
	if result == nil {
		return nil, fmt.Errorf("渲染结果为空")
	}
	if len(result.Pages) == 0 {
		return nil, fmt.Errorf("缺少可渲染的页面")
	}

	var buf bytes.Buffer
	writer := pdf.New(&buf, result.Pages[0].Width, result.Pages[0].Height, nil)
	r.applyMeta(writer, result.Meta)
	for i, page := range result.Pages {
		if i > 0 {
			writer.NewPage(page.Width, page.Height)
		}
		c := canvas.New(page.Width, page.Height)
		ctx := canvas.NewContext(c)
		ctx.SetCoordSystem(canvas.CartesianIV) // 使坐标与布局保持左上角为原点

		if err := r.drawPage(ctx, page, result.Resources); err != nil {
			return nil, fmt.Errorf("渲染页面 %q 失败: %w", page.SSID, err)
		}
		c.RenderTo(writer)
		r.log.Debug("页面渲染完成", zap.Int("page", i+1), zap.String("ssid", page.SSID))
	}

	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("写入 PDF 失败: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *Renderer) applyMeta(writer *pdf.PDF, meta layout.DocumentMeta) {
	if writer == nil {
		return
	}
	keywords := strings.Join(meta.Keywords, ", ")
	writer.SetInfo(meta.Title, meta.Subject, keywords, meta.Author, meta.Creator)
}

func (r *Renderer) drawPage(ctx *canvas.Context, page layout.Page, resources layout.ResourceSet) error {
	// 说明框作为背景先绘制
	if err := r.drawRects(ctx, page.Rects); err != nil {
		return err
	}
	if err := r.drawVectors(ctx, page.Vectors); err != nil {
		return err
	}
	if err := r.drawIcons(ctx, page.Icons); err != nil {
		return err
	}
	for _, textBox := range page.Texts {
		fontRes := resolveFontResource(textBox.Font, resources.Fonts)
		if err := r.drawTextBox(ctx, textBox, fontRes); err != nil {
			return err
		}
	}
	return r.drawGlyphs(ctx, page.Glyphs, resources.Fonts)
}

func (r *Renderer) drawTextBox(ctx *canvas.Context, tb layout.TextBox, fontRes layout.FontResource) error {
	// TextBox 坐标为 mm，字号为 pt。
	face, err := r.fontFace(fontRes, tb.FontSize, tb.Color)
	if err != nil {
		return err
	}

	lines := tb.Lines
	if len(lines) == 0 {
		lines = []layout.TextLine{{Content: tb.Content, Width: tb.Width, Height: tb.FontSize * layout.PtToMm}}
	}

	metrics := face.Metrics()
	cursorY := tb.Y
	for _, line := range lines {
		cursorY += line.GapBefore
		textLine := canvas.NewTextLine(face, line.Content, canvas.Left)
		// 基线位置：行顶部加上字体上升部（mm）
		ctx.DrawText(tb.X, cursorY+metrics.Ascent, textLine)
		lineHeight := line.Height
		if lineHeight <= 0 {
			lineHeight = tb.FontSize * layout.PtToMm
		}
		cursorY += lineHeight
	}
	return nil
}

// drawGlyphs 逐个绘制着色的密码字符；空格画成开口框，避免依赖字体是否包含 ␣。
func (r *Renderer) drawGlyphs(ctx *canvas.Context, glyphs []layout.GlyphBox, fonts map[string]layout.FontResource) error {
	for _, g := range glyphs {
		face, err := r.fontFace(resolveFontResource(g.Font, fonts), g.FontSize, g.Color)
		if err != nil {
			return err
		}
		baseline := g.Y + face.Metrics().Ascent
		if g.Char == " " {
			sizeMM := g.FontSize * layout.PtToMm
			p := &canvas.Path{}
			p.MoveTo(g.Width*0.15, -sizeMM*0.25)
			p.LineTo(g.Width*0.15, 0)
			p.LineTo(g.Width*0.85, 0)
			p.LineTo(g.Width*0.85, -sizeMM*0.25)
			ctx.SetFillColor(color.RGBA{0, 0, 0, 0})
			ctx.SetStrokeColor(colorFromLayout(g.Color))
			ctx.SetStrokeWidth(sizeMM * 0.06)
			ctx.DrawPath(g.X, baseline, p)
			continue
		}
		ctx.DrawText(g.X, baseline, canvas.NewTextLine(face, g.Display, canvas.Left))
	}
	return nil
}

// drawRects 绘制（圆角）矩形
func (r *Renderer) drawRects(ctx *canvas.Context, rects []layout.Rect) error {
	for _, rc := range rects {
		w := rc.StrokeWidth
		if w <= 0 {
			w = defaultStrokeWidth
		}
		if rc.FillColor != nil {
			ctx.SetFillColor(colorFromLayout(*rc.FillColor))
		} else {
			ctx.SetFillColor(color.RGBA{0, 0, 0, 0})
		}
		ctx.SetStrokeColor(colorFromLayout(rc.StrokeColor))
		ctx.SetStrokeWidth(w)
		shape := canvas.Rectangle(rc.Width, rc.Height)
		if rc.Radius > 0 {
			shape = canvas.RoundedRectangle(rc.Width, rc.Height, rc.Radius)
		}
		ctx.DrawPath(rc.X, rc.Y, shape)
	}
	return nil
}

// MissingGlyphs 返回 text 中 font 没有字形的字符（去重，按出现顺序）。
// 空白字符不检查。
func (r *Renderer) MissingGlyphs(text string, font layout.FontResource) ([]rune, error) {
	data, err := r.loadFontBytes(font)
	if err != nil {
		return nil, err
	}
	f, err := sfnt.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("解析字体 %s 失败: %w", font.Name, err)
	}
	var (
		buf     sfnt.Buffer
		missing []rune
		seen    = map[rune]bool{}
	)
	for _, ch := range text {
		if seen[ch] || unicode.IsSpace(ch) {
			continue
		}
		seen[ch] = true
		idx, err := f.GlyphIndex(&buf, ch)
		if err != nil {
			return nil, fmt.Errorf("读取字体 %s 的字形失败: %w", font.Name, err)
		}
		if idx == 0 {
			missing = append(missing, ch)
		}
	}
	return missing, nil
}

func (r *Renderer) fontFace(font layout.FontResource, size float64, col layout.Color) (*canvas.FontFace, error) {
	family, style, err := r.ensureFontFamily(font)
	if err != nil {
		return nil, err
	}
	return family.Face(size, colorFromLayout(col), style, canvas.FontNormal), nil
}

func (r *Renderer) ensureFontFamily(font layout.FontResource) (*canvas.FontFamily, canvas.FontStyle, error) {
	key := fontCacheKey(font)
	r.fontMu.Lock()
	defer r.fontMu.Unlock()

	if entry, ok := r.fontFamilies[key]; ok {
		return entry.family, entry.style, nil
	}

	style := parseFontStyle(font.Style)
	familyName := font.Family
	if familyName == "" {
		familyName = font.Name
	}
	if familyName == "" {
		familyName = layout.FontMain
	}
	family := canvas.NewFontFamily(familyName)

	if err := r.loadFontIntoFamily(family, font, style); err != nil {
		fallback, fbStyle, fbErr := r.fallback()
		if fbErr != nil {
			return nil, canvas.FontRegular, err
		}
		r.log.Warn("字体加载失败，使用内置字体", zap.String("font", font.Name), zap.String("src", font.Src), zap.Error(err))
		r.fontFamilies[key] = &fontFamilyEntry{family: fallback, style: fbStyle}
		return fallback, fbStyle, nil
	}

	entry := &fontFamilyEntry{family: family, style: style}
	r.fontFamilies[key] = entry
	return family, style, nil
}

func (r *Renderer) loadFontIntoFamily(family *canvas.FontFamily, font layout.FontResource, style canvas.FontStyle) error {
	data, err := r.loadFontBytes(font)
	if err != nil {
		return err
	}
	return family.LoadFont(data, 0, style)
}

func (r *Renderer) loadFontBytes(font layout.FontResource) ([]byte, error) {
	if font.Src == "" {
		return nil, fmt.Errorf("字体 %s 缺少 src", font.Name)
	}
	src := font.Src
	if strings.HasPrefix(src, "built-in:") || strings.HasPrefix(src, "builtin:") {
		name := strings.TrimPrefix(strings.TrimPrefix(src, "built-in:"), "builtin:")
		if blob, ok := r.fontBlobs[name]; ok {
			return blob, nil
		}
		return nil, fmt.Errorf("找不到内置字体资源 built-in:%s", name)
	}
	if strings.HasPrefix(src, "embed:") {
		return fonts.Load(src)
	}
	path := src
	if r.baseDir == "" && !filepath.IsAbs(path) {
		return nil, fmt.Errorf("未指定资源目录时不允许直接使用字体路径：%s（请改用 built-in: 或 embed:）", src)
	}
	if !filepath.IsAbs(path) {
		path = filepath.Join(r.baseDir, path)
	}
	return os.ReadFile(path)
}

func (r *Renderer) fallback() (*canvas.FontFamily, canvas.FontStyle, error) {
	if r.fallbackFamily != nil {
		return r.fallbackFamily, canvas.FontRegular, nil
	}
	data, err := fonts.Load(fallbackFont)
	if err != nil {
		return nil, canvas.FontRegular, err
	}
	family := canvas.NewFontFamily("wificard-fallback")
	if err := family.LoadFont(data, 0, canvas.FontRegular); err != nil {
		return nil, canvas.FontRegular, err
	}
	r.fallbackFamily = family
	return family, canvas.FontRegular, nil
}

func resolveFontResource(name string, fonts map[string]layout.FontResource) layout.FontResource {
	if font, ok := fonts[name]; ok {
		return font
	}
	if font, ok := fonts[layout.FontMain]; ok {
		return font
	}
	for _, font := range fonts {
		return font
	}
	return layout.FontResource{}
}

func parseFontStyle(style string) canvas.FontStyle {
	if style == "" {
		return canvas.FontRegular
	}
	s := strings.ToLower(style)
	var result canvas.FontStyle
	switch {
	case strings.Contains(s, "black"):
		result = canvas.FontBlack
	case strings.Contains(s, "extrabold"):
		result = canvas.FontExtraBold
	case strings.Contains(s, "semibold"), strings.Contains(s, "demibold"):
		result = canvas.FontSemiBold
	case strings.Contains(s, "bold"):
		result = canvas.FontBold
	case strings.Contains(s, "medium"):
		result = canvas.FontMedium
	case strings.Contains(s, "light"):
		result = canvas.FontLight
	default:
		result = canvas.FontRegular
	}
	if strings.Contains(s, "italic") || strings.Contains(s, "oblique") {
		result |= canvas.FontItalic
	}
	return result
}

func fontCacheKey(font layout.FontResource) string {
	return fmt.Sprintf("%s|%s|%s", font.Name, font.Src, font.Style)
}

func colorFromLayout(c layout.Color) color.Color {
	return canvas.RGBA(float64(c.R)/255.0, float64(c.G)/255.0, float64(c.B)/255.0, 1.0)
}
