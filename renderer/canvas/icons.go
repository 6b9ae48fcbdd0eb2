package canvasrenderer

import (
	"fmt"
	"image/color"
	"sort"

	"github.com/tdewolff/canvas"

	"github.com/ByLCY/wificard/layout"
)

// 图标定义在 24×24 的网格中，y 轴向下。
const iconGrid = 24.0

type iconDef struct {
	fill   string // 填充部分
	stroke string // 描边部分
	width  float64
}

var icons = map[string]iconDef{
	"wifi": {
		fill:   "M12 20.5m-1.8 0a1.8 1.8 0 1 0 3.6 0a1.8 1.8 0 1 0 -3.6 0z",
		stroke: "M2.5 9.5A13.5 13.5 0 0 1 21.5 9.5M6 13A8.5 8.5 0 0 1 18 13M9.2 16.4A4 4 0 0 1 14.8 16.4",
		width:  2,
	},
	"lock": {
		fill:   "M4.5 11h15v11h-15z",
		stroke: "M8 11V7.5a4 4 0 0 1 8 0V11",
		width:  2,
	},
	"lock-open": {
		fill:   "M4.5 11h15v11h-15z",
		stroke: "M8 11V7.5a4 4 0 0 1 8 0V8",
		width:  2,
	},
	"shield": {
		stroke: "M12 2L20 5V11C20 16 16.5 20.5 12 22C7.5 20.5 4 16 4 11V5Z",
		fill:   "M9 11.5L11 13.5L15.5 9L16.5 10L11 15.5L8 12.5Z",
		width:  1.8,
	},
	"hidden": {
		fill:   "M12 12m-3 0a3 3 0 1 0 6 0a3 3 0 1 0 -6 0z",
		stroke: "M2 12C4.5 7.5 8 5 12 5S19.5 7.5 22 12C19.5 16.5 16 19 12 19S4.5 16.5 2 12ZM3 3L21 21",
		width:  1.8,
	},
}

// IconNames 返回可用的图标名称。
func IconNames() []string {
	out := make([]string, 0, len(icons))
	for name := range icons {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

func (r *Renderer) drawIcons(ctx *canvas.Context, boxes []layout.IconBox) error {
	for _, ic := range boxes {
		def, ok := icons[ic.Name]
		if !ok {
			return fmt.Errorf("未知图标 %q", ic.Name)
		}
		if ic.Size <= 0 {
			continue
		}
		k := ic.Size / iconGrid
		scale := canvas.Identity.Scale(k, k)
		col := colorFromLayout(ic.Color)
		if def.stroke != "" {
			p, err := canvas.ParseSVGPath(def.stroke)
			if err != nil {
				return fmt.Errorf("图标 %s 路径无效: %w", ic.Name, err)
			}
			ctx.SetFillColor(color.RGBA{0, 0, 0, 0})
			ctx.SetStrokeColor(col)
			ctx.SetStrokeWidth(def.width * k)
			ctx.DrawPath(ic.X, ic.Y, p.Transform(scale))
		}
		if def.fill != "" {
			p, err := canvas.ParseSVGPath(def.fill)
			if err != nil {
				return fmt.Errorf("图标 %s 路径无效: %w", ic.Name, err)
			}
			ctx.SetFillColor(col)
			ctx.SetStrokeColor(color.RGBA{0, 0, 0, 0})
			ctx.DrawPath(ic.X, ic.Y, p.Transform(scale))
		}
	}
	return nil
}
