package layout

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2/lexer"
)

// This file defines unit-safe types and helpers for lengths. Millimeters are the
// canonical layout unit: page geometry, text widths and rescaled vector graphics
// all resolve to mm.

// ErrInvalidLength is returned when a length token cannot be resolved.
var ErrInvalidLength = errors.New("invalid length")

// Unit represents the original unit of a length value.
type Unit int

const (
	UnitNone Unit = iota // unit-less user units
	UnitMM               // millimeters
	UnitCM               // centimeters
	UnitIN               // inches
	UnitPT               // points
	UnitPC               // picas
	UnitPX               // CSS pixels (1/96 in)
	UnitQ                // quarter-millimeters
)

// Conversion constants between pt and mm.
const (
	PtToMm = 25.4 / 72
	MmToPt = 1.0 / PtToMm
)

// mmPerUnit gives the size of one unit in millimeters. UnitNone maps to 1 so that
// bare numbers resolve to themselves.
var mmPerUnit = map[Unit]float64{
	UnitNone: 1,
	UnitMM:   1,
	UnitCM:   10,
	UnitIN:   25.4,
	UnitPT:   PtToMm,
	UnitPC:   12 * PtToMm,
	UnitPX:   25.4 / 96,
	UnitQ:    0.25,
}

var unitSuffixes = map[string]Unit{
	"mm": UnitMM,
	"cm": UnitCM,
	"in": UnitIN,
	"pt": UnitPT,
	"pc": UnitPC,
	"px": UnitPX,
	"q":  UnitQ,
}

// UnitToString returns a short string for a Unit value.
func UnitToString(u Unit) string {
	switch u {
	case UnitMM:
		return "mm"
	case UnitCM:
		return "cm"
	case UnitIN:
		return "in"
	case UnitPT:
		return "pt"
	case UnitPC:
		return "pc"
	case UnitPX:
		return "px"
	case UnitQ:
		return "Q"
	default:
		return ""
	}
}

// Length preserves a numeric value with its unit.
type Length struct {
	Value float64 `json:"value"`
	Unit  Unit    `json:"unit"`
}

func (l Length) IsZero() bool { return l.Value == 0 }

// HasUnit reports whether the length carried an explicit physical unit.
func (l Length) HasUnit() bool { return l.Unit != UnitNone }

// To converts this length to the target unit. A unit-less length is returned as-is.
func (l Length) To(target Unit) float64 {
	if l.Unit == UnitNone || target == UnitNone {
		return l.Value
	}
	from, ok := mmPerUnit[l.Unit]
	if !ok {
		return l.Value
	}
	to, ok := mmPerUnit[target]
	if !ok {
		return l.Value
	}
	return l.Value * from / to
}

func (l Length) ToMM() float64 { return l.To(UnitMM) }
func (l Length) ToPT() float64 { return l.To(UnitPT) }

func (l Length) String() string {
	return strconv.FormatFloat(l.Value, 'f', -1, 64) + UnitToString(l.Unit)
}

// Millimeters builds a Length in mm.
func Millimeters(v float64) Length { return Length{Value: v, Unit: UnitMM} }

// Points builds a Length in pt.
func Points(v float64) Length { return Length{Value: v, Unit: UnitPT} }

var (
	lengthLexer = lexer.MustSimple([]lexer.SimpleRule{
		{Name: "Number", Pattern: `[-+]?(?:\d+\.?\d*|\.\d+)(?:[eE][-+]?\d+)?`},
		{Name: "Unit", Pattern: `(?i:mm|cm|in|pt|pc|px|q)`},
		{Name: "Separator", Pattern: `[\s,]+`},
	})

	lengthTokenNames   = invertSymbols(lengthLexer.Symbols())
	numberTokenType    = mustTokenType("Number")
	unitTokenType      = mustTokenType("Unit")
	separatorTokenType = mustTokenType("Separator")
)

// ResolveLength parses a length token such as "12", "3.5mm" or "1e1pt".
func ResolveLength(token string) (Length, error) {
	tokens, err := lexLength(strings.TrimSpace(token))
	if err != nil {
		return Length{}, fmt.Errorf("%w %q: %v", ErrInvalidLength, token, err)
	}
	switch {
	case len(tokens) == 1 && tokens[0].Type == numberTokenType:
		v, err := strconv.ParseFloat(tokens[0].Value, 64)
		if err != nil {
			return Length{}, fmt.Errorf("%w %q: %v", ErrInvalidLength, token, err)
		}
		return Length{Value: v, Unit: UnitNone}, nil
	case len(tokens) == 2 && tokens[0].Type == numberTokenType && tokens[1].Type == unitTokenType:
		v, err := strconv.ParseFloat(tokens[0].Value, 64)
		if err != nil {
			return Length{}, fmt.Errorf("%w %q: %v", ErrInvalidLength, token, err)
		}
		return Length{Value: v, Unit: unitSuffixes[strings.ToLower(tokens[1].Value)]}, nil
	default:
		return Length{}, fmt.Errorf("%w %q", ErrInvalidLength, token)
	}
}

// ResolveMM parses a length token and converts it to millimeters.
func ResolveMM(token string) (float64, error) {
	l, err := ResolveLength(token)
	if err != nil {
		return 0, err
	}
	return l.ToMM(), nil
}

// ParseNumberList splits a whitespace/comma separated list of bare numbers, as used
// by SVG viewBox attributes.
func ParseNumberList(value string) ([]float64, error) {
	tokens, err := lexLength(strings.TrimSpace(value))
	if err != nil {
		return nil, fmt.Errorf("%w %q: %v", ErrInvalidLength, value, err)
	}
	out := make([]float64, 0, len(tokens))
	for _, tok := range tokens {
		if tok.Type == separatorTokenType {
			continue
		}
		if tok.Type != numberTokenType {
			return nil, fmt.Errorf("%w %q: unexpected %s %q", ErrInvalidLength, value, lengthTokenNames[tok.Type], tok.Value)
		}
		v, err := strconv.ParseFloat(tok.Value, 64)
		if err != nil {
			return nil, fmt.Errorf("%w %q: %v", ErrInvalidLength, value, err)
		}
		out = append(out, v)
	}
	return out, nil
}

func lexLength(s string) ([]lexer.Token, error) {
	if s == "" {
		return nil, errors.New("empty token")
	}
	lex, err := lengthLexer.Lex("", strings.NewReader(s))
	if err != nil {
		return nil, err
	}
	all, err := lexer.ConsumeAll(lex)
	if err != nil {
		return nil, err
	}
	tokens := all[:0]
	for _, tok := range all {
		if tok.EOF() {
			break
		}
		tokens = append(tokens, tok)
	}
	return tokens, nil
}

func invertSymbols(symbols map[string]lexer.TokenType) map[lexer.TokenType]string {
	out := make(map[lexer.TokenType]string, len(symbols))
	for name, typ := range symbols {
		out[typ] = name
	}
	return out
}

func mustTokenType(name string) lexer.TokenType {
	typ, ok := lengthLexer.Symbols()[name]
	if !ok {
		panic(fmt.Sprintf("unknown token type %s", name))
	}
	return typ
}
