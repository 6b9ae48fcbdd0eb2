package layout

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"unicode/utf8"
)

// charWidth 是一个线性度量：每个字符宽 perChar×size。
func charWidth(perChar float64) WidthFunc {
	return func(text string, size int) (float64, error) {
		return float64(utf8.RuneCountInString(text)) * perChar * float64(size), nil
	}
}

func TestFitSecurityLabel(t *testing.T) {
	oracle := func(text string, size int) (float64, error) { return 90, nil }
	lay, err := Fit("Security", 100, 14, 1, oracle)
	if err != nil {
		t.Fatalf("Fit 失败: %v", err)
	}
	if lay.FontSize != 14 {
		t.Fatalf("字号应为 14，实际 %d", lay.FontSize)
	}
	if got := lay.Contents(); len(got) != 1 || got[0] != "Security" {
		t.Fatalf("行内容不符: %q", got)
	}
}

func TestFitPrefersSingleLine(t *testing.T) {
	// 10 个字符，每字符 1mm/pt：字号 10 时恰好 100mm。
	lay, err := Fit("abcd efghi", 100, 12, 3, charWidth(1))
	if err != nil {
		t.Fatalf("Fit 失败: %v", err)
	}
	// 字号 12、11 时单行超宽，但折行可放下：先命中折行。
	if lay.FontSize != 12 || len(lay.Lines) != 2 {
		t.Fatalf("期望 12pt 两行，实际 %dpt %d 行", lay.FontSize, len(lay.Lines))
	}

	lay, err = Fit("abcd efghi", 100, 12, 1, charWidth(1))
	if err != nil {
		t.Fatalf("Fit 失败: %v", err)
	}
	if lay.FontSize != 10 || len(lay.Lines) != 1 || lay.Lines[0].Content != "abcd efghi" {
		t.Fatalf("期望 10pt 单行，实际 %dpt %q", lay.FontSize, lay.Contents())
	}
}

func TestFitSingleLineWinsAtSameSize(t *testing.T) {
	lay, err := Fit("a b c", 1000, 5, 3, charWidth(1))
	if err != nil {
		t.Fatalf("Fit 失败: %v", err)
	}
	if len(lay.Lines) != 1 {
		t.Fatalf("宽度充足时应输出单行，实际 %q", lay.Contents())
	}
}

func TestFitMonotonicInWidth(t *testing.T) {
	text := "The quick brown fox jumps over the lazy dog"
	prev := 0
	for width := 20.0; width <= 400; width += 10 {
		lay, err := Fit(text, width, 30, 2, charWidth(0.4))
		if err != nil {
			continue
		}
		if lay.FontSize < prev {
			t.Fatalf("宽度 %g 时字号 %d 小于更窄宽度的 %d", width, lay.FontSize, prev)
		}
		prev = lay.FontSize
	}
	if prev == 0 {
		t.Fatal("没有任何宽度得到结果")
	}
}

func TestFitMonotonicInLines(t *testing.T) {
	text := "one two three four five six"
	prev := 0
	for lines := 1; lines <= 6; lines++ {
		lay, err := Fit(text, 60, 40, lines, charWidth(0.5))
		if err != nil {
			t.Fatalf("maxLines=%d 时失败: %v", lines, err)
		}
		if lay.FontSize < prev {
			t.Fatalf("maxLines=%d 时字号 %d 小于 %d", lines, lay.FontSize, prev)
		}
		if len(lay.Lines) > lines {
			t.Fatalf("行数 %d 超过上限 %d", len(lay.Lines), lines)
		}
		prev = lay.FontSize
	}
}

func TestFitLinesRespectWidth(t *testing.T) {
	widthOf := charWidth(0.35)
	lay, err := Fit("Not shown in the Wi-Fi list.", 40, 14, 2, widthOf)
	if err != nil {
		t.Fatalf("Fit 失败: %v", err)
	}
	for _, ln := range lay.Lines {
		w, _ := widthOf(ln.Content, lay.FontSize)
		if w > 40 {
			t.Fatalf("行 %q 宽度 %g 超过 40", ln.Content, w)
		}
		if ln.Width != w {
			t.Fatalf("行宽记录 %g 与度量 %g 不符", ln.Width, w)
		}
	}
	if got := strings.Join(lay.Contents(), " "); got != "Not shown in the Wi-Fi list." {
		t.Fatalf("折行丢失内容: %q", got)
	}
}

func TestFitTokenTooWideFailsSize(t *testing.T) {
	// "xxxxxxxxxx" 单独成行在 size>5 时超宽，不能被强行放入。
	lay, err := Fit("a xxxxxxxxxx", 50, 8, 3, charWidth(1))
	if err != nil {
		t.Fatalf("Fit 失败: %v", err)
	}
	if lay.FontSize != 5 {
		t.Fatalf("期望 5pt，实际 %d", lay.FontSize)
	}
}

func TestFitExhausted(t *testing.T) {
	_, err := Fit("impossible", 1, 10, 2, charWidth(1))
	if !errors.Is(err, ErrLayoutExhausted) {
		t.Fatalf("期望 ErrLayoutExhausted，实际 %v", err)
	}
}

func TestFitInvalidInput(t *testing.T) {
	cases := []struct {
		text     string
		width    float64
		maxSize  int
		maxLines int
		widthOf  WidthFunc
	}{
		{"", 10, 10, 1, charWidth(1)},
		{"   ", 10, 10, 1, charWidth(1)},
		{"x", 0, 10, 1, charWidth(1)},
		{"x", 10, 0, 1, charWidth(1)},
		{"x", 10, 10, 0, charWidth(1)},
		{"x", 10, 10, 1, nil},
	}
	for i, c := range cases {
		if _, err := Fit(c.text, c.width, c.maxSize, c.maxLines, c.widthOf); !errors.Is(err, ErrInvalidFit) {
			t.Fatalf("用例 %d: 期望 ErrInvalidFit，实际 %v", i, err)
		}
	}
}

func TestFitPropagatesOracleError(t *testing.T) {
	boom := errors.New("boom")
	_, err := Fit("x", 10, 3, 1, func(string, int) (float64, error) { return 0, boom })
	if !errors.Is(err, boom) {
		t.Fatalf("应透传度量错误，实际 %v", err)
	}
}

// statefulOracle 模拟带状态的后端：只有在请求的字号等于上次设置值时才返回正确宽度。
type statefulOracle struct {
	current int
	calls   []string
}

func (o *statefulOracle) setFont(size int) { o.current = size }

func (o *statefulOracle) width(text string, size int) (float64, error) {
	o.setFont(size)
	o.calls = append(o.calls, fmt.Sprintf("%d:%s", size, text))
	return float64(len(text)) * float64(o.current) * 0.5, nil
}

func TestFitPassesExplicitSizeEveryCall(t *testing.T) {
	o := &statefulOracle{}
	lay, err := Fit("alpha beta gamma", 30, 6, 2, o.width)
	if err != nil {
		t.Fatalf("Fit 失败: %v", err)
	}
	for _, call := range o.calls {
		var size int
		if _, err := fmt.Sscanf(call, "%d:", &size); err != nil {
			t.Fatalf("无法解析调用记录 %q", call)
		}
		if size < lay.FontSize || size > 6 {
			t.Fatalf("调用 %q 使用了超出尝试范围的字号", call)
		}
	}
	last := o.calls[len(o.calls)-1]
	if !strings.HasPrefix(last, fmt.Sprintf("%d:", lay.FontSize)) {
		t.Fatalf("最后一次测量 %q 应使用最终字号 %d", last, lay.FontSize)
	}
}
