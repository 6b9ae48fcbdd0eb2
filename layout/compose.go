package layout

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"go.uber.org/zap"

	"github.com/ByLCY/wificard/binding"
	"github.com/ByLCY/wificard/credential"
	"github.com/ByLCY/wificard/i18n"
)

// 页面几何常量，字号单位 pt，其余单位 mm。
const (
	pageMargin      = 20.0
	interlinePt     = 4.0
	mainFontSize    = 25
	aboutFontSize   = 14
	monoFontSize    = 25
	footerFontSize  = 10
	ssidMaxLines    = 2
	hintMaxLines    = 2
	boxStrokeWidth  = 0.2
	creatorName     = "wificard"
	iconWifi        = "wifi"
	iconLock        = "lock"
	iconNoPassword  = "lock-open"
	iconSecurity    = "shield"
	iconHidden      = "hidden"
	boxRadiusFactor = 0.25
)

var (
	black      = Color{}
	white      = Color{R: 255, G: 255, B: 255}
	footerGray = Color{R: 0x75, G: 0x75, B: 0x75}
)

// RecordError 标记哪一条记录排版失败。
type RecordError struct {
	Index int
	SSID  string
	Err   error
}

func (e *RecordError) Error() string {
	return fmt.Sprintf("记录 #%d (%q): %v", e.Index+1, e.SSID, e.Err)
}

func (e *RecordError) Unwrap() error { return e.Err }

// Compose 为每条凭据生成一页：二维码、SSID、着色的密码以及底部的安全性/隐藏网络说明框。
func Compose(records []credential.Record, opts ComposeOptions) (*Result, error) {
	if opts.Metrics == nil {
		return nil, fmt.Errorf("layout: 缺少字体度量 Metrics")
	}
	if opts.Graphics == nil {
		return nil, fmt.Errorf("layout: 缺少二维码来源 Graphics")
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("layout: 没有可排版的记录")
	}
	log := opts.logger()
	if opts.Fonts == nil {
		opts.Fonts = DefaultFonts()
	}
	for _, name := range []string{FontMain, FontBold, FontMono, FontSpace} {
		if _, ok := opts.Fonts[name]; !ok {
			return nil, fmt.Errorf("layout: 字体 %s 未定义", name)
		}
	}
	if opts.Palette.Name == "" {
		opts.Palette, _ = PaletteByName(DefaultPaletteName)
	}
	if opts.PageSize.Width <= 0 || opts.PageSize.Height <= 0 {
		opts.PageSize = A4
	}

	var (
		pages   []Page
		skipped []string
		errs    []error
	)
	for i, rec := range records {
		page, err := composePage(rec, &opts)
		if err != nil {
			recErr := &RecordError{Index: i, SSID: rec.SSID, Err: err}
			if !opts.SkipInvalid {
				return nil, recErr
			}
			log.Warn("跳过无法排版的记录", zap.Int("index", i), zap.String("ssid", rec.SSID), zap.Error(err))
			skipped = append(skipped, rec.SSID)
			errs = append(errs, recErr)
			continue
		}
		log.Debug("页面排版完成", zap.String("ssid", rec.SSID), zap.Int("glyphs", len(page.Glyphs)))
		pages = append(pages, page)
	}
	if len(pages) == 0 {
		return nil, fmt.Errorf("layout: 所有记录均排版失败: %w", errors.Join(errs...))
	}

	ssids := make([]string, len(pages))
	for i, p := range pages {
		ssids[i] = p.SSID
	}
	return &Result{
		Pages:     pages,
		Resources: ResourceSet{Fonts: opts.Fonts},
		Meta: DocumentMeta{
			Title:    translate(opts.Localizer, i18n.MsgTitle),
			Subject:  strings.Join(ssids, ", "),
			Creator:  creatorName,
			Keywords: ssids,
		},
		Skipped: skipped,
	}, nil
}

// labelFonts 记录每条固定文案使用的字体（文档标题只写入元数据，不绘制）。
var labelFonts = map[string]string{
	i18n.MsgNoPassword: FontMain,
	i18n.MsgSecurity:   FontBold,
	i18n.MsgNone:       FontMain,
	i18n.MsgHidden:     FontBold,
	i18n.MsgHiddenHint: FontMain,
}

// LabelFonts 返回绘制在页面上的固定文案及其字体名称。
func LabelFonts() map[string]string {
	out := make(map[string]string, len(labelFonts))
	for k, v := range labelFonts {
		out[k] = v
	}
	return out
}

func translate(t Translator, key string) string {
	if t == nil {
		return key
	}
	return t.T(key)
}

// pageContext 跟踪单页排版时的纵向游标。
type pageContext struct {
	opts      *ComposeOptions
	page      *Page
	left      float64
	width     float64
	interline float64
	cursorY   float64
}

func composePage(rec credential.Record, opts *ComposeOptions) (Page, error) {
	if err := rec.Validate(); err != nil {
		return Page{}, err
	}
	size := opts.PageSize
	margin := Margin{Top: pageMargin, Right: pageMargin, Bottom: pageMargin, Left: pageMargin}
	page := Page{SSID: rec.SSID, Width: size.Width, Height: size.Height, Margin: margin}
	ctx := &pageContext{
		opts:      opts,
		page:      &page,
		left:      margin.Left,
		width:     size.Width - margin.Left - margin.Right,
		interline: interlinePt * PtToMm,
		cursorY:   margin.Top,
	}
	if ctx.width <= 0 {
		return Page{}, fmt.Errorf("页面宽度 %gmm 不足以容纳边距", size.Width)
	}

	if err := ctx.addQRCode(rec); err != nil {
		return Page{}, err
	}
	if err := ctx.addIconText(iconWifi, rec.SSID, FontMain, mainFontSize, ssidMaxLines); err != nil {
		return Page{}, fmt.Errorf("SSID: %w", err)
	}
	if rec.Security.IsOpen() || !rec.HasPassword() {
		if err := ctx.addIconText(iconNoPassword, translate(opts.Localizer, i18n.MsgNoPassword), FontMain, mainFontSize, 1); err != nil {
			return Page{}, fmt.Errorf("无密码提示: %w", err)
		}
	} else if err := ctx.addPassword(rec.Password); err != nil {
		return Page{}, fmt.Errorf("密码: %w", err)
	}
	boxTop, err := ctx.addInfoBoxes(rec)
	if err != nil {
		return Page{}, err
	}
	if ctx.cursorY > boxTop {
		opts.logger().Warn("页面内容与底部说明框重叠",
			zap.String("ssid", rec.SSID), zap.Float64("contentBottom", ctx.cursorY), zap.Float64("boxTop", boxTop))
	}
	if err := ctx.addFooter(rec); err != nil {
		return Page{}, fmt.Errorf("页脚: %w", err)
	}
	return page, nil
}

func (o *ComposeOptions) logger() *zap.Logger {
	if o.Logger == nil {
		return zap.NewNop()
	}
	return o.Logger
}

func (ctx *pageContext) font(name string) FontResource {
	return ctx.opts.Fonts[name]
}

func (ctx *pageContext) fit(text, fontName string, width float64, maxSize, maxLines int) (*LineLayout, error) {
	return Fit(text, width, maxSize, maxLines, MetricsWidth(ctx.opts.Metrics, ctx.font(fontName)))
}

// addQRCode 放置正方形二维码，边长等于内容宽度。
func (ctx *pageContext) addQRCode(rec credential.Record) error {
	g, err := ctx.opts.Graphics.Graphic(rec)
	if err != nil {
		return fmt.Errorf("生成二维码失败: %w", err)
	}
	box := *g
	box.X, box.Y = ctx.left, ctx.cursorY
	box.Width, box.Height = ctx.width, ctx.width
	ctx.page.Vectors = append(ctx.page.Vectors, box)
	ctx.cursorY += box.Height + ctx.interline
	return nil
}

// addIconText 在左侧放置图标，右侧放置适配后的文本，然后推进游标。
func (ctx *pageContext) addIconText(icon, text, fontName string, maxSize, maxLines int) error {
	iconSize := float64(maxSize) * PtToMm
	textX := ctx.left + iconSize + ctx.interline
	textW := ctx.width - iconSize - ctx.interline
	lay, err := ctx.fit(text, fontName, textW, maxSize, maxLines)
	if err != nil {
		return err
	}
	tb := ctx.textBox(lay, text, fontName, textX, ctx.cursorY, textW, black)
	ctx.page.Icons = append(ctx.page.Icons, IconBox{Name: icon, X: ctx.left, Y: ctx.cursorY, Size: iconSize, Color: black})
	ctx.page.Texts = append(ctx.page.Texts, tb)
	ctx.cursorY += math.Max(iconSize, tb.Height) + ctx.interline
	return nil
}

// addPassword 逐字符排版密码，每个字符按类别着色；超出内容宽度时按字符换行。
func (ctx *pageContext) addPassword(password string) error {
	classes, err := credential.ClassifyAll(password)
	if err != nil {
		return err
	}
	iconSize := float64(monoFontSize) * PtToMm
	x0 := ctx.left + iconSize + ctx.interline
	maxX := ctx.left + ctx.width
	lineH := float64(monoFontSize) * PtToMm
	x, y := x0, ctx.cursorY
	rows := 1
	for i, r := range []rune(password) {
		cl := classes[i]
		fontName := FontMono
		if cl.Class == credential.ClassSpace {
			fontName = FontSpace
		}
		w, err := ctx.opts.Metrics.TextWidth(cl.Display, ctx.font(fontName), monoFontSize)
		if err != nil {
			return fmt.Errorf("测量字符 %q 失败: %w", r, err)
		}
		if x+w > maxX && x > x0 {
			x = x0
			y += lineH + ctx.interline
			rows++
		}
		ctx.page.Glyphs = append(ctx.page.Glyphs, GlyphBox{
			Char:     string(r),
			Display:  cl.Display,
			Class:    cl.Class.String(),
			X:        x,
			Y:        y,
			Width:    w,
			Font:     fontName,
			FontSize: monoFontSize,
			Color:    ctx.opts.Palette.Color(cl.Class),
		})
		x += w
	}
	ctx.page.Icons = append(ctx.page.Icons, IconBox{Name: iconLock, X: ctx.left, Y: ctx.cursorY, Size: iconSize, Color: black})
	textH := float64(rows)*lineH + float64(rows-1)*ctx.interline
	ctx.cursorY += math.Max(iconSize, textH) + ctx.interline
	return nil
}

// addInfoBoxes 在页面底部绘制安全性说明框，隐藏网络时在右侧追加隐藏网络说明框。返回说明框顶部坐标。
func (ctx *pageContext) addInfoBoxes(rec credential.Record) (float64, error) {
	page := ctx.page
	il := ctx.interline
	mainMM := float64(mainFontSize) * PtToMm
	aboutMM := float64(aboutFontSize) * PtToMm

	rectW := page.Width/2 - il - (page.Margin.Left+page.Margin.Right)/2
	contentH := math.Max(mainMM+aboutMM+il, 3*aboutMM+2*il)
	rectH := contentH + 2*il
	rectY := page.Height - page.Margin.Bottom - rectH
	iconSize := contentH
	textW := rectW - 3*il - iconSize
	if textW <= 0 {
		return 0, fmt.Errorf("说明框宽度 %gmm 不足", rectW)
	}

	addBox := func(x float64, icon string) float64 {
		fill := white
		page.Rects = append(page.Rects, Rect{
			X: x, Y: rectY, Width: rectW, Height: rectH,
			Radius:      rectH * boxRadiusFactor,
			StrokeColor: black,
			StrokeWidth: boxStrokeWidth,
			FillColor:   &fill,
		})
		page.Icons = append(page.Icons, IconBox{Name: icon, X: x + il, Y: rectY + il, Size: iconSize, Color: black})
		return x + 2*il + iconSize
	}
	addText := func(text, fontName string, x, y float64, maxSize, maxLines int) error {
		lay, err := ctx.fit(text, fontName, textW, maxSize, maxLines)
		if err != nil {
			return err
		}
		page.Texts = append(page.Texts, ctx.textBox(lay, text, fontName, x, y, textW, black))
		return nil
	}

	x1 := page.Margin.Left
	tx := addBox(x1, iconSecurity)
	if err := addText(translate(ctx.opts.Localizer, i18n.MsgSecurity), FontBold, tx, rectY+il, aboutFontSize, 1); err != nil {
		return 0, fmt.Errorf("安全性标题: %w", err)
	}
	value := rec.Security.String()
	if rec.Security == credential.Open {
		value = translate(ctx.opts.Localizer, i18n.MsgNone)
	}
	if err := addText(value, FontMain, tx, rectY+il+aboutMM, mainFontSize, 1); err != nil {
		return 0, fmt.Errorf("安全性: %w", err)
	}

	if rec.Hidden {
		x2 := page.Width/2 + il
		tx := addBox(x2, iconHidden)
		if err := addText(translate(ctx.opts.Localizer, i18n.MsgHidden), FontBold, tx, rectY+il, aboutFontSize, 1); err != nil {
			return 0, fmt.Errorf("隐藏网络标题: %w", err)
		}
		hint := translate(ctx.opts.Localizer, i18n.MsgHiddenHint)
		if err := addText(hint, FontMain, tx, rectY+il+aboutMM+il, aboutFontSize, hintMaxLines); err != nil {
			return 0, fmt.Errorf("隐藏网络说明: %w", err)
		}
	}
	return rectY, nil
}

// addFooter 在下边距内输出单行页脚。
func (ctx *pageContext) addFooter(rec credential.Record) error {
	if strings.TrimSpace(ctx.opts.Footer) == "" {
		return nil
	}
	text := strings.TrimSpace(binding.Interpolate(ctx.opts.Footer, binding.RecordFields(rec)))
	if text == "" {
		return nil
	}
	lay, err := ctx.fit(text, FontMain, ctx.width, footerFontSize, 1)
	if err != nil {
		return err
	}
	y := ctx.page.Height - ctx.page.Margin.Bottom + ctx.interline
	ctx.page.Texts = append(ctx.page.Texts, ctx.textBox(lay, text, FontMain, ctx.left, y, ctx.width, footerGray))
	return nil
}

// textBox 把适配结果转换为 TextBox；行高等于字号，行间距为 interline。
func (ctx *pageContext) textBox(lay *LineLayout, content, fontName string, x, y, width float64, color Color) TextBox {
	fontMM := float64(lay.FontSize) * PtToMm
	lines := make([]TextLine, len(lay.Lines))
	total := 0.0
	for i, ln := range lay.Lines {
		ln.Height = fontMM
		if i > 0 {
			ln.GapBefore = ctx.interline
		}
		total += ln.GapBefore + ln.Height
		lines[i] = ln
	}
	return TextBox{
		Content:  content,
		X:        x,
		Y:        y,
		Width:    width,
		Font:     fontName,
		FontSize: float64(lay.FontSize),
		Color:    color,
		Lines:    lines,
		Height:   total,
	}
}
