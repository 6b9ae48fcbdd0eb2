// Package qr encodes credential records as WIFI: QR codes and emits them as SVG
// documents sized in millimeters.
package qr

import (
	"bytes"
	"fmt"
	"strings"

	svg "github.com/ajstarks/svgo"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/ByLCY/wificard/credential"
	"github.com/ByLCY/wificard/layout"
	"github.com/ByLCY/wificard/vector"
)

// ModuleMM is the printed size of one QR module in the emitted SVG.
const ModuleMM = 1

var payloadEscaper = strings.NewReplacer(
	`\`, `\\`,
	`;`, `\;`,
	`,`, `\,`,
	`"`, `\"`,
	`:`, `\:`,
)

// Payload returns the WIFI: string understood by phone cameras.
func Payload(rec credential.Record) string {
	var b strings.Builder
	b.WriteString("WIFI:S:")
	b.WriteString(payloadEscaper.Replace(rec.SSID))
	b.WriteString(";T:")
	b.WriteString(rec.Security.QRType())
	b.WriteString(";")
	if !rec.Security.IsOpen() && rec.HasPassword() {
		b.WriteString("P:")
		b.WriteString(payloadEscaper.Replace(rec.Password))
		b.WriteString(";")
	}
	if rec.Hidden {
		b.WriteString("H:true;")
	}
	b.WriteString(";")
	return b.String()
}

// Encode renders payload as an SVG document. The root carries width/height in mm
// and no viewBox; every dark run of modules is a <rect> with mm coordinates.
func Encode(payload string) ([]byte, error) {
	code, err := qrcode.New(payload, qrcode.Low)
	if err != nil {
		return nil, fmt.Errorf("qr: encode payload: %w", err)
	}
	code.DisableBorder = true
	bitmap := code.Bitmap()
	n := len(bitmap)
	if n == 0 {
		return nil, fmt.Errorf("qr: empty bitmap")
	}

	var buf bytes.Buffer
	canvas := svg.New(&buf)
	canvas.Startunit(n*ModuleMM, n*ModuleMM, "mm")
	canvas.Gstyle("fill:#000000;stroke:none")
	for y, row := range bitmap {
		for x := 0; x < len(row); {
			if !row[x] {
				x++
				continue
			}
			start := x
			for x < len(row) && row[x] {
				x++
			}
			// svgo's Rect takes unit-less ints; the rescaler needs mm here
			fmt.Fprintf(canvas.Writer, "<rect x=\"%dmm\" y=\"%dmm\" width=\"%dmm\" height=\"%dmm\"/>\n",
				start*ModuleMM, y*ModuleMM, (x-start)*ModuleMM, ModuleMM)
		}
	}
	canvas.Gend()
	canvas.End()
	return buf.Bytes(), nil
}

// Graphic encodes rec and rescales the result to view-box units so it can be
// placed on a page of any size.
func Graphic(rec credential.Record) (*layout.VectorBox, error) {
	raw, err := Encode(Payload(rec))
	if err != nil {
		return nil, err
	}
	out, err := vector.Rescale(raw)
	if err != nil {
		return nil, fmt.Errorf("qr: rescale: %w", err)
	}
	return &layout.VectorBox{SVG: string(out.SVG), ViewBox: out.ViewBox.Array()}, nil
}

// Source adapts Graphic to layout.GraphicSource.
type Source struct{}

// Graphic implements layout.GraphicSource.
func (Source) Graphic(rec credential.Record) (*layout.VectorBox, error) { return Graphic(rec) }
