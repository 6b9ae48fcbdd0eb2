// Package vector rewrites SVG documents whose geometry is expressed in physical
// units into documents that only use view-box relative numbers, so the graphic can
// be placed into a box of any size without distortion.
package vector

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/beevik/etree"

	"github.com/ByLCY/wificard/layout"
)

var (
	// ErrMissingDimensions is returned when the root has neither a viewBox nor a
	// usable declared width/height.
	ErrMissingDimensions = errors.New("svg has no viewBox and no declared size")
	// ErrInvalidViewBox is returned for a viewBox that is not four numbers with a
	// positive extent.
	ErrInvalidViewBox = errors.New("invalid viewBox")
)

// Attribute keys measured along each axis.
var (
	widthAxisKeys  = map[string]bool{"width": true, "x": true, "x1": true, "x2": true, "cx": true, "rx": true, "dx": true}
	heightAxisKeys = map[string]bool{"height": true, "y": true, "y1": true, "y2": true, "cy": true, "ry": true, "dy": true}
)

// ViewBox is the intrinsic coordinate space of a graphic.
type ViewBox struct {
	MinX, MinY, Width, Height float64
}

func (v ViewBox) String() string {
	return strings.Join([]string{
		formatNumber(v.MinX), formatNumber(v.MinY), formatNumber(v.Width), formatNumber(v.Height),
	}, " ")
}

// Array returns the view box as [minX, minY, width, height].
func (v ViewBox) Array() [4]float64 { return [4]float64{v.MinX, v.MinY, v.Width, v.Height} }

// ScaleFactor converts resolved physical lengths into view-box units.
type ScaleFactor struct {
	KW, KH float64
}

// diagonal is the factor for lengths that belong to neither axis. It equals
// KW and KH when the scaling is uniform.
func (k ScaleFactor) diagonal() float64 { return math.Sqrt(k.KW * k.KH) }

// Rescaled is the rewritten document.
type Rescaled struct {
	SVG         []byte
	ViewBox     ViewBox
	Scale       ScaleFactor
	Synthesized bool // the view box was derived from the declared size
}

// Rescale rewrites every unit-suffixed attribute of the document into view-box
// units and drops the root's absolute width and height.
func Rescale(svg []byte) (*Rescaled, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(svg); err != nil {
		return nil, fmt.Errorf("parse svg: %w", err)
	}
	root := doc.Root()
	if root == nil {
		return nil, errors.New("parse svg: empty document")
	}

	vb, hasViewBox, err := readViewBox(root)
	if err != nil {
		return nil, err
	}
	width, hasWidth, err := readDeclared(root, "width")
	if err != nil {
		return nil, err
	}
	height, hasHeight, err := readDeclared(root, "height")
	if err != nil {
		return nil, err
	}

	out := &Rescaled{Scale: ScaleFactor{KW: 1, KH: 1}}
	switch {
	case !hasViewBox && (!hasWidth || !hasHeight):
		return nil, ErrMissingDimensions
	case !hasViewBox:
		if width <= 0 || height <= 0 {
			return nil, fmt.Errorf("%w: declared size %gx%g", ErrMissingDimensions, width, height)
		}
		vb = ViewBox{Width: width, Height: height}
		root.CreateAttr("viewBox", vb.String())
		out.Synthesized = true
	default:
		if hasWidth {
			if width <= 0 {
				return nil, fmt.Errorf("%w: declared width %g", ErrMissingDimensions, width)
			}
			out.Scale.KW = vb.Width / width
		}
		if hasHeight {
			if height <= 0 {
				return nil, fmt.Errorf("%w: declared height %g", ErrMissingDimensions, height)
			}
			out.Scale.KH = vb.Height / height
		}
	}
	out.ViewBox = vb

	root.RemoveAttr("width")
	root.RemoveAttr("height")
	rewriteElement(root, out.Scale)

	data, err := doc.WriteToBytes()
	if err != nil {
		return nil, fmt.Errorf("serialize svg: %w", err)
	}
	out.SVG = data
	return out, nil
}

func readViewBox(root *etree.Element) (ViewBox, bool, error) {
	attr := root.SelectAttr("viewBox")
	if attr == nil || strings.TrimSpace(attr.Value) == "" {
		return ViewBox{}, false, nil
	}
	nums, err := layout.ParseNumberList(attr.Value)
	if err != nil {
		return ViewBox{}, false, fmt.Errorf("%w %q: %v", ErrInvalidViewBox, attr.Value, err)
	}
	if len(nums) != 4 || nums[2] <= 0 || nums[3] <= 0 {
		return ViewBox{}, false, fmt.Errorf("%w %q", ErrInvalidViewBox, attr.Value)
	}
	return ViewBox{MinX: nums[0], MinY: nums[1], Width: nums[2], Height: nums[3]}, true, nil
}

func readDeclared(root *etree.Element, key string) (float64, bool, error) {
	attr := root.SelectAttr(key)
	if attr == nil || strings.TrimSpace(attr.Value) == "" {
		return 0, false, nil
	}
	mm, err := layout.ResolveMM(attr.Value)
	if err != nil {
		return 0, false, fmt.Errorf("declared %s: %w", key, err)
	}
	return mm, true, nil
}

func rewriteElement(el *etree.Element, k ScaleFactor) {
	for i := range el.Attr {
		a := &el.Attr[i]
		if a.Space != "" {
			continue
		}
		l, err := layout.ResolveLength(a.Value)
		if err != nil || !l.HasUnit() {
			continue
		}
		v := l.ToMM()
		switch {
		case widthAxisKeys[a.Key]:
			v *= k.KW
		case heightAxisKeys[a.Key]:
			v *= k.KH
		default:
			// r, stroke-width, font-size: no single axis
			v *= k.diagonal()
		}
		a.Value = formatNumber(v)
	}
	for _, child := range el.ChildElements() {
		rewriteElement(child, k)
	}
}

// formatNumber prints v without a unit and without float noise.
func formatNumber(v float64) string {
	v = math.Round(v*1e9) / 1e9
	if v == 0 {
		return "0"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
