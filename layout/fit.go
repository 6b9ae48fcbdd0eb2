package layout

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrLayoutExhausted 表示即使字号降到 1 也无法在给定宽度与行数内放下文本。
	ErrLayoutExhausted = errors.New("layout exhausted")
	// ErrInvalidFit 表示 Fit 的输入不满足约束。
	ErrInvalidFit = errors.New("invalid fit request")
)

// WidthFunc 是字体度量回调：返回 text 在 fontSize（pt）下的渲染宽度（mm）。
// 每次调用都显式携带字号，调用方不得依赖上一次调用遗留的字体状态。
type WidthFunc func(text string, fontSize int) (float64, error)

// LineLayout 是一次成功适配的结果：所用字号与各行内容。
type LineLayout struct {
	FontSize int        `json:"fontSize"`
	Lines    []TextLine `json:"lines"`
}

// Contents 返回各行文本。
func (l *LineLayout) Contents() []string {
	out := make([]string, len(l.Lines))
	for i, ln := range l.Lines {
		out[i] = ln.Content
	}
	return out
}

// Fit 从 maxFontSize 向下逐级尝试，返回能在 width 内、最多 maxLines 行放下 text 的最大字号。
// 每个字号先尝试单行，再尝试按空白贪心折行。
func Fit(text string, width float64, maxFontSize, maxLines int, widthOf WidthFunc) (*LineLayout, error) {
	switch {
	case text == "":
		return nil, fmt.Errorf("%w: 文本为空", ErrInvalidFit)
	case width <= 0:
		return nil, fmt.Errorf("%w: 宽度必须为正数，实际 %g", ErrInvalidFit, width)
	case maxFontSize < 1:
		return nil, fmt.Errorf("%w: 最大字号必须 ≥ 1，实际 %d", ErrInvalidFit, maxFontSize)
	case maxLines < 1:
		return nil, fmt.Errorf("%w: 最大行数必须 ≥ 1，实际 %d", ErrInvalidFit, maxLines)
	case widthOf == nil:
		return nil, fmt.Errorf("%w: 缺少字体度量", ErrInvalidFit)
	}

	tokens := strings.Fields(text)
	if len(tokens) == 0 {
		return nil, fmt.Errorf("%w: 文本只包含空白", ErrInvalidFit)
	}
	for size := maxFontSize; size >= 1; size-- {
		w, err := widthOf(text, size)
		if err != nil {
			return nil, fmt.Errorf("测量文本宽度失败: %w", err)
		}
		if w <= width {
			return &LineLayout{
				FontSize: size,
				Lines:    []TextLine{{Content: text, Width: w}},
			}, nil
		}
		lines, ok, err := wrapTokens(tokens, width, size, maxLines, widthOf)
		if err != nil {
			return nil, err
		}
		if ok {
			return &LineLayout{FontSize: size, Lines: lines}, nil
		}
	}
	return nil, fmt.Errorf("%w: %q 无法在 %gmm × %d 行内排下", ErrLayoutExhausted, text, width, maxLines)
}

// wrapTokens 在给定字号下做贪心折行；单个记号本身超宽或行数超限时返回 ok=false。
func wrapTokens(tokens []string, width float64, size, maxLines int, widthOf WidthFunc) ([]TextLine, bool, error) {
	var lines []TextLine
	current := ""
	currentWidth := 0.0
	for _, token := range tokens {
		candidate := token
		if current != "" {
			candidate = current + " " + token
		}
		w, err := widthOf(candidate, size)
		if err != nil {
			return nil, false, fmt.Errorf("测量文本宽度失败: %w", err)
		}
		if w <= width {
			current, currentWidth = candidate, w
			continue
		}
		if current == "" {
			// 记号单独成行仍然超宽
			return nil, false, nil
		}
		lines = append(lines, TextLine{Content: current, Width: currentWidth})
		if len(lines) >= maxLines {
			return nil, false, nil
		}
		tw, err := widthOf(token, size)
		if err != nil {
			return nil, false, fmt.Errorf("测量文本宽度失败: %w", err)
		}
		if tw > width {
			return nil, false, nil
		}
		current, currentWidth = token, tw
	}
	if current != "" {
		lines = append(lines, TextLine{Content: current, Width: currentWidth})
	}
	if len(lines) > maxLines {
		return nil, false, nil
	}
	return lines, true, nil
}

// Metrics 是渲染后端提供的字体度量接口，字体与字号作为显式参数传入。
type Metrics interface {
	// TextWidth 返回 text 以 font、sizePt 渲染时的宽度（mm）。
	TextWidth(text string, font FontResource, sizePt float64) (float64, error)
}

// MetricsWidth 将 Metrics 适配为 Fit 所需的 WidthFunc。
func MetricsWidth(m Metrics, font FontResource) WidthFunc {
	return func(text string, fontSize int) (float64, error) {
		return m.TextWidth(text, font, float64(fontSize))
	}
}
