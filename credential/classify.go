package credential

import "fmt"

// Class is the style category of a password character.
type Class int

const (
	ClassUnsupported Class = iota
	ClassDigit
	ClassLower
	ClassUpper
	ClassSpace
	ClassPunctuation

	// ClassCount is the number of classes, for table sizing.
	ClassCount
)

func (c Class) String() string {
	switch c {
	case ClassDigit:
		return "digit"
	case ClassLower:
		return "lower"
	case ClassUpper:
		return "upper"
	case ClassSpace:
		return "space"
	case ClassPunctuation:
		return "punctuation"
	default:
		return "unsupported"
	}
}

// SpaceDisplay is drawn in place of a space so it stays visible on paper.
const SpaceDisplay = "␣"

// Classification is the result of Classify.
type Classification struct {
	Class   Class
	Display string
}

// Supported reports whether the character can be rendered.
func (c Classification) Supported() bool { return c.Class != ClassUnsupported }

// Classify maps a rune to its style class. It never fails: characters outside
// printable ASCII come back as ClassUnsupported.
func Classify(r rune) Classification {
	switch {
	case r >= '0' && r <= '9':
		return Classification{Class: ClassDigit, Display: string(r)}
	case r >= 'a' && r <= 'z':
		return Classification{Class: ClassLower, Display: string(r)}
	case r >= 'A' && r <= 'Z':
		return Classification{Class: ClassUpper, Display: string(r)}
	case r == ' ':
		return Classification{Class: ClassSpace, Display: SpaceDisplay}
	case r > ' ' && r < 0x7f:
		return Classification{Class: ClassPunctuation, Display: string(r)}
	default:
		return Classification{Class: ClassUnsupported, Display: string(r)}
	}
}

// UnsupportedCharacterError reports a password character without a style class.
type UnsupportedCharacterError struct {
	Char  rune
	Index int
}

func (e *UnsupportedCharacterError) Error() string {
	return fmt.Sprintf("character %q (U+%04X) at position %d is not supported in passwords", e.Char, e.Char, e.Index)
}

// ClassifyAll classifies every rune of s, stopping at the first unsupported one.
func ClassifyAll(s string) ([]Classification, error) {
	out := make([]Classification, 0, len(s))
	i := 0
	for _, r := range s {
		c := Classify(r)
		if !c.Supported() {
			return nil, &UnsupportedCharacterError{Char: r, Index: i}
		}
		out = append(out, c)
		i++
	}
	return out, nil
}
