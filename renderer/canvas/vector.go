package canvasrenderer

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"github.com/beevik/etree"
	"github.com/tdewolff/canvas"

	"github.com/ByLCY/wificard/layout"
)

// drawVectors 把只含 viewBox 坐标的 SVG 映射到页面上的放置框。支持 <rect> 与 <path>，按 fill 颜色合并为路径后一次绘制。
func (r *Renderer) drawVectors(ctx *canvas.Context, vectors []layout.VectorBox) error {
	for _, v := range vectors {
		shapes, err := vectorShapes(v)
		if err != nil {
			return err
		}
		for _, s := range shapes {
			ctx.SetFillColor(s.fill)
			ctx.SetStrokeColor(color.RGBA{0, 0, 0, 0})
			ctx.DrawPath(v.X, v.Y, s.path)
		}
	}
	return nil
}

type vectorShape struct {
	fill color.Color
	path *canvas.Path
}

// vectorShapes 解析 SVG 并返回已缩放到放置框（以框左上角为原点，单位 mm）的路径。
func vectorShapes(v layout.VectorBox) ([]vectorShape, error) {
	vb := v.ViewBox
	if vb[2] <= 0 || vb[3] <= 0 {
		return nil, fmt.Errorf("矢量图 viewBox 无效: %v", vb)
	}
	if v.Width <= 0 || v.Height <= 0 {
		return nil, fmt.Errorf("矢量图放置框无效: %gx%g", v.Width, v.Height)
	}
	doc := etree.NewDocument()
	if err := doc.ReadFromString(v.SVG); err != nil {
		return nil, fmt.Errorf("解析矢量图失败: %w", err)
	}
	root := doc.Root()
	if root == nil {
		return nil, fmt.Errorf("矢量图缺少根元素")
	}
	sx, sy := v.Width/vb[2], v.Height/vb[3]
	toBox := canvas.Identity.Scale(sx, sy).Translate(-vb[0], -vb[1])

	var (
		order  []string
		groups = map[string]*vectorShape{}
	)
	var walk func(el *etree.Element, inherited string) error
	walk = func(el *etree.Element, inherited string) error {
		fill := elementFill(el, inherited)
		var p *canvas.Path
		switch el.Tag {
		case "rect":
			x, y := attrFloat(el, "x"), attrFloat(el, "y")
			w, h := attrFloat(el, "width"), attrFloat(el, "height")
			if w > 0 && h > 0 {
				p = canvas.Rectangle(w, h).Translate(x, y)
			}
		case "path":
			d := el.SelectAttrValue("d", "")
			if d != "" {
				parsed, err := canvas.ParseSVGPath(d)
				if err != nil {
					return fmt.Errorf("解析路径失败: %w", err)
				}
				p = parsed
			}
		}
		if p != nil && fill != "none" {
			g, ok := groups[fill]
			if !ok {
				g = &vectorShape{fill: parseFill(fill), path: &canvas.Path{}}
				groups[fill] = g
				order = append(order, fill)
			}
			g.path = g.path.Append(p.Transform(toBox))
		}
		for _, child := range el.ChildElements() {
			if err := walk(child, fill); err != nil {
				return err
			}
		}
		return nil
	}
	if err := walk(root, "#000000"); err != nil {
		return nil, err
	}
	out := make([]vectorShape, 0, len(order))
	for _, key := range order {
		out = append(out, *groups[key])
	}
	return out, nil
}

// elementFill 依次读取 fill 属性与 style 中的 fill 声明，缺省继承父元素。
func elementFill(el *etree.Element, inherited string) string {
	fill := inherited
	if v := strings.TrimSpace(el.SelectAttrValue("fill", "")); v != "" {
		fill = v
	}
	for _, decl := range strings.Split(el.SelectAttrValue("style", ""), ";") {
		k, v, ok := strings.Cut(decl, ":")
		if ok && strings.TrimSpace(k) == "fill" {
			fill = strings.TrimSpace(v)
		}
	}
	return strings.ToLower(fill)
}

func parseFill(v string) color.Color {
	switch v {
	case "white":
		return canvas.White
	case "black", "":
		return canvas.Black
	}
	if strings.HasPrefix(v, "#") {
		return canvas.Hex(v)
	}
	return canvas.Black
}

func attrFloat(el *etree.Element, key string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(el.SelectAttrValue(key, "0")), 64)
	if err != nil {
		return 0
	}
	return f
}
