package vector

import (
	"strings"
	"testing"

	"github.com/beevik/etree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, svg []byte) *etree.Element {
	t.Helper()
	doc := etree.NewDocument()
	require.NoError(t, doc.ReadFromBytes(svg))
	require.NotNil(t, doc.Root())
	return doc.Root()
}

func TestRescaleScalesAxesIndependently(t *testing.T) {
	in := `<svg xmlns="http://www.w3.org/2000/svg" width="200mm" height="100mm" viewBox="0 0 400 100">` +
		`<rect x="10mm" y="5mm" width="3mm" height="4mm" stroke-width="1mm"/></svg>`

	out, err := Rescale([]byte(in))
	require.NoError(t, err)
	assert.Equal(t, ScaleFactor{KW: 2, KH: 1}, out.Scale)
	assert.False(t, out.Synthesized)

	root := parse(t, out.SVG)
	assert.Nil(t, root.SelectAttr("width"))
	assert.Nil(t, root.SelectAttr("height"))
	assert.Equal(t, "0 0 400 100", root.SelectAttrValue("viewBox", ""))

	rect := root.SelectElement("rect")
	require.NotNil(t, rect)
	assert.Equal(t, "20", rect.SelectAttrValue("x", ""))
	assert.Equal(t, "5", rect.SelectAttrValue("y", ""))
	assert.Equal(t, "6", rect.SelectAttrValue("width", ""))
	assert.Equal(t, "4", rect.SelectAttrValue("height", ""))
	assert.Equal(t, "1.414213562", rect.SelectAttrValue("stroke-width", ""), "non-axis lengths use the geometric mean of both factors")
}

func TestRescaleScalesNonAxisLengthsWithGeometry(t *testing.T) {
	in := `<svg xmlns="http://www.w3.org/2000/svg" width="20mm" height="20mm" viewBox="0 0 40 40">` +
		`<circle cx="10mm" cy="10mm" r="5mm" stroke-width="1mm"/></svg>`

	out, err := Rescale([]byte(in))
	require.NoError(t, err)
	assert.Equal(t, ScaleFactor{KW: 2, KH: 2}, out.Scale)

	circle := parse(t, out.SVG).SelectElement("circle")
	require.NotNil(t, circle)
	assert.Equal(t, "20", circle.SelectAttrValue("cx", ""))
	assert.Equal(t, "20", circle.SelectAttrValue("cy", ""))
	assert.Equal(t, "10", circle.SelectAttrValue("r", ""), "radius must keep its size relative to the center")
	assert.Equal(t, "2", circle.SelectAttrValue("stroke-width", ""))
}

func TestRescaleIdentityOnlyStripsUnits(t *testing.T) {
	in := `<svg width="50mm" height="30mm" viewBox="0 0 50 30"><g><line x1="1.5mm" y1="2mm" x2="10mm" y2="20mm"/></g></svg>`

	out, err := Rescale([]byte(in))
	require.NoError(t, err)
	assert.Equal(t, ScaleFactor{KW: 1, KH: 1}, out.Scale)

	line := parse(t, out.SVG).FindElement("//line")
	require.NotNil(t, line)
	assert.Equal(t, "1.5", line.SelectAttrValue("x1", ""))
	assert.Equal(t, "2", line.SelectAttrValue("y1", ""))
	assert.Equal(t, "10", line.SelectAttrValue("x2", ""))
	assert.Equal(t, "20", line.SelectAttrValue("y2", ""))
}

func TestRescaleSynthesizesViewBox(t *testing.T) {
	in := `<svg width="37mm" height="21mm"><rect x="1mm" y="2mm" width="1mm" height="1mm"/></svg>`

	out, err := Rescale([]byte(in))
	require.NoError(t, err)
	assert.True(t, out.Synthesized)
	assert.Equal(t, ViewBox{Width: 37, Height: 21}, out.ViewBox)
	assert.Equal(t, ScaleFactor{KW: 1, KH: 1}, out.Scale)

	root := parse(t, out.SVG)
	assert.Equal(t, "0 0 37 21", root.SelectAttrValue("viewBox", ""))
	rect := root.SelectElement("rect")
	assert.Equal(t, "1", rect.SelectAttrValue("x", ""))
	assert.Equal(t, "2", rect.SelectAttrValue("y", ""))
}

func TestRescaleResolvesMixedUnitsToMillimeters(t *testing.T) {
	in := `<svg width="1in" height="72pt"><rect x="0.5in" y="36pt" width="1cm" height="10mm"/></svg>`

	out, err := Rescale([]byte(in))
	require.NoError(t, err)
	assert.InDelta(t, 25.4, out.ViewBox.Width, 1e-9)
	assert.InDelta(t, 25.4, out.ViewBox.Height, 1e-9)

	rect := parse(t, out.SVG).SelectElement("rect")
	assert.Equal(t, "12.7", rect.SelectAttrValue("x", ""))
	assert.Equal(t, "12.7", rect.SelectAttrValue("y", ""))
	assert.Equal(t, "10", rect.SelectAttrValue("width", ""))
}

func TestRescaleWithoutDeclaredSizeKeepsUnitScale(t *testing.T) {
	in := `<svg viewBox="0 0 10 10"><rect x="2" y="3mm" width="4" height="4"/></svg>`

	out, err := Rescale([]byte(in))
	require.NoError(t, err)
	assert.Equal(t, ScaleFactor{KW: 1, KH: 1}, out.Scale)

	rect := parse(t, out.SVG).SelectElement("rect")
	assert.Equal(t, "2", rect.SelectAttrValue("x", ""), "unit-less values are already in view-box units")
	assert.Equal(t, "3", rect.SelectAttrValue("y", ""))
}

func TestRescaleMissingDimensions(t *testing.T) {
	for name, in := range map[string]string{
		"nothing":                       `<svg><rect x="1mm"/></svg>`,
		"only width":                    `<svg width="10mm"><rect/></svg>`,
		"only height":                   `<svg height="10mm"><rect/></svg>`,
		"zero size":                     `<svg width="0mm" height="10mm"><rect/></svg>`,
		"zero width with view box":      `<svg width="0mm" height="10mm" viewBox="0 0 10 10"><rect/></svg>`,
		"negative width with view box":  `<svg width="-10mm" height="10mm" viewBox="0 0 10 10"><rect/></svg>`,
		"negative height with view box": `<svg width="10mm" height="-10mm" viewBox="0 0 10 10"><rect/></svg>`,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := Rescale([]byte(in))
			assert.ErrorIs(t, err, ErrMissingDimensions)
		})
	}
}

func TestRescaleRejectsBadInput(t *testing.T) {
	_, err := Rescale([]byte(`<svg viewBox="0 0 10"><rect/></svg>`))
	assert.ErrorIs(t, err, ErrInvalidViewBox)

	_, err = Rescale([]byte(`<svg viewBox="0 0 -1 10"/>`))
	assert.ErrorIs(t, err, ErrInvalidViewBox)

	_, err = Rescale([]byte(`not xml at all <`))
	assert.Error(t, err)
}

func TestRescaleLeavesNoUnitSuffix(t *testing.T) {
	in := `<svg width="20mm" height="20mm" viewBox="0 0 40 40"><circle cx="5mm" cy="5mm" r="2mm"/><text x="1cm" y="1cm" font-size="3pt">hi</text></svg>`

	out, err := Rescale([]byte(in))
	require.NoError(t, err)
	s := string(out.SVG)
	for _, unit := range []string{`mm"`, `cm"`, `pt"`} {
		assert.False(t, strings.Contains(s, unit), "unit %s left in %s", unit, s)
	}
}
