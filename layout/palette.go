package layout

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ByLCY/wificard/credential"
)

// Palette 按字符类别给出密码字符的颜色。Palette 是值类型，在进程启动时选定后只读传递。
type Palette struct {
	Name   string
	colors [credential.ClassCount]Color
}

// Color 返回类别对应的颜色；未知类别返回黑色。
func (p Palette) Color(c credential.Class) Color {
	if c < 0 || int(c) >= len(p.colors) {
		return Color{}
	}
	return p.colors[c]
}

func newPalette(name string, upper, lower, digit, special Color) Palette {
	p := Palette{Name: name}
	p.colors[credential.ClassUpper] = upper
	p.colors[credential.ClassLower] = lower
	p.colors[credential.ClassDigit] = digit
	p.colors[credential.ClassPunctuation] = special
	p.colors[credential.ClassSpace] = special
	return p
}

var palettes = map[string]Palette{
	"everyone": newPalette("everyone",
		Color{0x0c, 0x52, 0x75}, Color{0x09, 0x7d, 0xb8}, Color{0xb3, 0x30, 0x00}, Color{0x09, 0xb8, 0x32}),
	"deuteranopia": newPalette("deuteranopia",
		Color{0x55, 0x5e, 0x75}, Color{0x5f, 0x7d, 0xbb}, Color{0x00, 0x51, 0xb0}, Color{0xaa, 0x99, 0x40}),
	"protanopia": newPalette("protanopia",
		Color{0x55, 0x5e, 0x75}, Color{0x5f, 0x7d, 0xbb}, Color{0x00, 0x51, 0xb0}, Color{0xaa, 0x99, 0x40}),
	"tritanopia": newPalette("tritanopia",
		Color{0x00, 0x70, 0x6e}, Color{0x00, 0xa9, 0xa5}, Color{0xfd, 0x00, 0x13}, Color{0xcd, 0x5e, 0x8e}),
	"black-white": newPalette("black-white",
		Color{0x00, 0x00, 0x00}, Color{0x25, 0x25, 0x25}, Color{0x50, 0x50, 0x50}, Color{0x75, 0x75, 0x75}),
}

// DefaultPaletteName 是未指定时使用的调色板。
const DefaultPaletteName = "everyone"

// PaletteByName 按名称（大小写、下划线不敏感）查找调色板。
func PaletteByName(name string) (Palette, error) {
	key := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), "_", "-")
	if key == "" {
		key = DefaultPaletteName
	}
	p, ok := palettes[key]
	if !ok {
		return Palette{}, fmt.Errorf("未知调色板 %q（可选：%s）", name, strings.Join(PaletteNames(), ", "))
	}
	return p, nil
}

// PaletteNames 返回所有调色板名称（已排序）。
func PaletteNames() []string {
	names := make([]string, 0, len(palettes))
	for name := range palettes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
