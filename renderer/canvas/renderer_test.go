package canvasrenderer

import (
	"bytes"
	"math"
	"testing"

	"github.com/ByLCY/wificard/credential"
	"github.com/ByLCY/wificard/fonts"
	"github.com/ByLCY/wificard/layout"
	"github.com/ByLCY/wificard/qr"
)

func TestTextWidthGrowsWithSize(t *testing.T) {
	r := NewRenderer(".")
	font := layout.DefaultFonts()[layout.FontMain]

	small, err := r.TextWidth("Security", font, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	large, err := r.TextWidth("Security", font, 20)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if small <= 0 || math.Abs(large-2*small) > 0.01*large {
		t.Fatalf("width should scale linearly with size: 10pt=%g 20pt=%g", small, large)
	}
}

// 交替查询不同字号时，每次结果只取决于本次入参。
func TestTextWidthIgnoresPreviousQueries(t *testing.T) {
	r := NewRenderer(".")
	font := layout.DefaultFonts()[layout.FontBold]

	first, _ := r.TextWidth("Hidden Wi-Fi", font, 14)
	if _, err := r.TextWidth("Hidden Wi-Fi", font, 30); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	again, _ := r.TextWidth("Hidden Wi-Fi", font, 14)
	if first != again {
		t.Fatalf("width changed between identical queries: %g vs %g", first, again)
	}
}

func TestMonoGlyphsShareAdvance(t *testing.T) {
	r := NewRenderer(".")
	mono := layout.DefaultFonts()[layout.FontMono]
	i, _ := r.TextWidth("i", mono, 25)
	w, _ := r.TextWidth("W", mono, 25)
	if i <= 0 || math.Abs(i-w) > 1e-6 {
		t.Fatalf("monospace advances differ: i=%g W=%g", i, w)
	}
}

func TestTextWidthRejectsBadSize(t *testing.T) {
	r := NewRenderer(".")
	if _, err := r.TextWidth("x", layout.DefaultFonts()[layout.FontMain], 0); err == nil {
		t.Fatal("expected error for zero size")
	}
}

func TestUnknownFontFallsBack(t *testing.T) {
	r := NewRenderer("")
	w, err := r.TextWidth("abc", layout.FontResource{Name: "missing", Src: "embed:no-such-font"}, 12)
	if err != nil {
		t.Fatalf("fallback font should be used: %v", err)
	}
	if w <= 0 {
		t.Fatalf("invalid width %g", w)
	}
}

// 当文本宽度与容器宽度恰好相等时，应保持单行且字号不变。
func TestFitWithExactMeasuredWidth(t *testing.T) {
	r := NewRenderer(".")
	font := layout.DefaultFonts()[layout.FontMain]
	limit, err := r.TextWidth("SAMPLE-A SAMPLE-B", font, 14)
	if err != nil {
		t.Fatalf("measure error: %v", err)
	}
	lay, err := layout.Fit("SAMPLE-A SAMPLE-B", limit, 14, 2, layout.MetricsWidth(r, font))
	if err != nil {
		t.Fatalf("Fit error: %v", err)
	}
	if lay.FontSize != 14 || len(lay.Lines) != 1 {
		t.Fatalf("expected one 14pt line, got %dpt %q", lay.FontSize, lay.Contents())
	}
}

func TestRenderProducesPDF(t *testing.T) {
	r := NewRenderer(".")
	records := []credential.Record{
		{SSID: "Home", Security: credential.WPA2PSK, Password: "Pa ss1!xyz"},
		{SSID: "Cafe", Security: credential.Open, Hidden: true},
	}
	res, err := layout.Compose(records, layout.ComposeOptions{Metrics: r, Graphics: qr.Source{}})
	if err != nil {
		t.Fatalf("compose error: %v", err)
	}
	data, err := r.Render(res)
	if err != nil {
		t.Fatalf("render error: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF-")) {
		t.Fatalf("output is not a PDF: %q", data[:min(len(data), 16)])
	}
}

func TestRenderRejectsEmptyResult(t *testing.T) {
	r := NewRenderer(".")
	if _, err := r.Render(nil); err == nil {
		t.Fatal("expected error for nil result")
	}
	if _, err := r.Render(&layout.Result{}); err == nil {
		t.Fatal("expected error for empty result")
	}
}

func TestRenderUnknownIcon(t *testing.T) {
	r := NewRenderer(".")
	res := &layout.Result{Pages: []layout.Page{{
		Width: 100, Height: 100,
		Icons: []layout.IconBox{{Name: "rocket", Size: 10}},
	}}}
	if _, err := r.Render(res); err == nil {
		t.Fatal("expected error for unknown icon")
	}
	for _, name := range IconNames() {
		if _, ok := icons[name]; !ok {
			t.Fatalf("icon %s listed but not defined", name)
		}
	}
}

func TestVectorShapesMapViewBoxOntoBox(t *testing.T) {
	v := layout.VectorBox{
		SVG:     `<svg viewBox="0 0 10 10"><g style="fill:#000000"><rect x="0" y="0" width="10" height="5"/></g><rect x="5" y="5" width="5" height="5" fill="none"/></svg>`,
		ViewBox: [4]float64{0, 0, 10, 10},
		Width:   40,
		Height:  20,
	}
	shapes, err := vectorShapes(v)
	if err != nil {
		t.Fatalf("vectorShapes error: %v", err)
	}
	if len(shapes) != 1 {
		t.Fatalf("expected a single fill group, got %d", len(shapes))
	}
	if shapes[0].path.Empty() {
		t.Fatal("filled rect produced an empty path")
	}

	v.ViewBox = [4]float64{0, 0, 0, 10}
	if _, err := vectorShapes(v); err == nil {
		t.Fatal("expected error for degenerate view box")
	}
	v.ViewBox = [4]float64{0, 0, 10, 10}
	v.SVG = "<svg"
	if _, err := vectorShapes(v); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestBuiltInFontResources(t *testing.T) {
	data, err := fonts.Load("go-mono")
	if err != nil {
		t.Fatalf("读取内置字体失败: %v", err)
	}
	r := NewRendererWithOptions(Options{Fonts: map[string]Resource{"custom": {Bytes: data}, "empty": {}}})

	w, err := r.TextWidth("abc", layout.FontResource{Name: "custom", Src: "built-in:custom"}, 12)
	if err != nil || w <= 0 {
		t.Fatalf("built-in 字体应可用: w=%g err=%v", w, err)
	}
	if _, err := r.loadFontBytes(layout.FontResource{Name: "empty", Src: "built-in:empty"}); err == nil {
		t.Fatal("空字体资源不应被注册")
	}
	if _, err := r.loadFontBytes(layout.FontResource{Name: "nope", Src: "built-in:nope"}); err == nil {
		t.Fatal("期望找不到 built-in 字体")
	}
}

func TestMissingGlyphs(t *testing.T) {
	r := NewRenderer("")
	regular := layout.FontResource{Name: "main", Src: "embed:go-regular"}

	missing, err := r.MissingGlyphs("Sécurité N'apparaît", regular)
	if err != nil {
		t.Fatalf("检查字形失败: %v", err)
	}
	if len(missing) != 0 {
		t.Fatalf("Go 字体应覆盖法文，缺少 %q", string(missing))
	}

	missing, err = r.MissingGlyphs("安全性 Wi-Fi 安全", regular)
	if err != nil {
		t.Fatalf("检查字形失败: %v", err)
	}
	if string(missing) != "安全性" {
		t.Fatalf("期望缺少 %q（去重），实际 %q", "安全性", string(missing))
	}

	if _, err := r.MissingGlyphs("x", layout.FontResource{Name: "bad", Src: "embed:no-such-font"}); err == nil {
		t.Fatal("期望未知字体报错")
	}
}
