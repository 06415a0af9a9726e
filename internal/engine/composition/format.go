package composition

import "fmt"

// UnderlineStyle describes how composition text is underlined.
type UnderlineStyle uint8

const (
	UnderlineNone UnderlineStyle = iota
	UnderlineSolid
	UnderlineDotted
	UnderlineDashed
	UnderlineWavy
)

// String returns the lowercase style name.
func (s UnderlineStyle) String() string {
	switch s {
	case UnderlineNone:
		return "none"
	case UnderlineSolid:
		return "solid"
	case UnderlineDotted:
		return "dotted"
	case UnderlineDashed:
		return "dashed"
	case UnderlineWavy:
		return "wavy"
	default:
		return "unknown"
	}
}

// ParseUnderlineStyle parses a style name. Unknown names yield UnderlineNone
// and false.
func ParseUnderlineStyle(s string) (UnderlineStyle, bool) {
	switch s {
	case "none", "":
		return UnderlineNone, true
	case "solid":
		return UnderlineSolid, true
	case "dotted":
		return UnderlineDotted, true
	case "dashed":
		return UnderlineDashed, true
	case "wavy":
		return UnderlineWavy, true
	default:
		return UnderlineNone, false
	}
}

// UnderlineThickness describes the weight of a composition underline.
type UnderlineThickness uint8

const (
	ThicknessNone UnderlineThickness = iota
	ThicknessThin
	ThicknessThick
)

// String returns the lowercase thickness name.
func (t UnderlineThickness) String() string {
	switch t {
	case ThicknessNone:
		return "none"
	case ThicknessThin:
		return "thin"
	case ThicknessThick:
		return "thick"
	default:
		return "unknown"
	}
}

// ParseUnderlineThickness parses a thickness name. Unknown names yield
// ThicknessNone and false.
func ParseUnderlineThickness(s string) (UnderlineThickness, bool) {
	switch s {
	case "none", "":
		return ThicknessNone, true
	case "thin":
		return ThicknessThin, true
	case "thick":
		return ThicknessThick, true
	default:
		return ThicknessNone, false
	}
}

// Style is the formatting applied to a span of composition text.
type Style struct {
	Underline UnderlineStyle
	Thickness UnderlineThickness
}

// Underline returns the conventional thin solid underline used for
// unconverted composition text.
func Underline() Style {
	return Style{Underline: UnderlineSolid, Thickness: ThicknessThin}
}

// FormatRange applies a Style to [Start, End) of the composition text.
type FormatRange struct {
	Start int
	End   int
	Style Style
}

// String returns a human-readable representation of the format range.
func (f FormatRange) String() string {
	return fmt.Sprintf("[%d:%d) %s/%s", f.Start, f.End, f.Style.Underline, f.Style.Thickness)
}
