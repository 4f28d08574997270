package receipt

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Kind identifies a draw instruction.
type Kind int

const (
	KindRect Kind = iota + 1
	KindRoundedRect
	KindLine
	KindText
	KindImage
)

func (k Kind) String() string {
	switch k {
	case KindRect:
		return "rect"
	case KindRoundedRect:
		return "rounded-rect"
	case KindLine:
		return "line"
	case KindText:
		return "text"
	case KindImage:
		return "image"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Sections group elements by the part of the receipt they belong to.
const (
	SectionHeader  = "header"
	SectionIssuer  = "issuer"
	SectionPayment = "payment"
	SectionWords   = "words"
	SectionFooter  = "footer"
)

// Align is the horizontal alignment of a text block.
type Align string

const (
	AlignLeft   Align = "L"
	AlignCenter Align = "C"
	AlignRight  Align = "R"
)

// Color is an RGB colour.
type Color struct {
	R, G, B int
}

var (
	white     = Color{255, 255, 255}
	black     = Color{0, 0, 0}
	labelGrey = Color{0x55, 0x55, 0x55}
	textGrey  = Color{0x44, 0x44, 0x44}
	ruleGrey  = Color{0xCC, 0xCC, 0xCC}
)

// ParseColor parses "#rrggbb" or "rrggbb".
func ParseColor(s string) (Color, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) != 6 {
		return Color{}, fmt.Errorf("receipt: invalid colour %q", s)
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("receipt: invalid colour %q: %w", s, err)
	}
	return Color{R: int(v >> 16 & 0xff), G: int(v >> 8 & 0xff), B: int(v & 0xff)}, nil
}

// Font selects a Helvetica variant.
type Font struct {
	Bold bool
	Size float64
}

// Element is one draw instruction at absolute page coordinates (points, origin top-left).
// Elements are drawn in slice order, so later elements sit above earlier ones.
type Element struct {
	Kind    Kind
	Section string

	X, Y, W, H float64
	// X2, Y2 end a line.
	X2, Y2 float64
	Radius float64

	Fill      bool
	FillColor Color
	Stroke    bool
	Color     Color
	LineWidth float64

	Text  string
	Font  Font
	Align Align

	Image string
	// Opacity of 0 means fully opaque.
	Opacity float64
	// Rotate is counter-clockwise degrees about (OriginX, OriginY).
	Rotate           float64
	OriginX, OriginY float64
}

// Image is a PNG encoded raster referenced by image elements.
type Image struct {
	Name   string
	Data   []byte
	Width  int
	Height int
}

// Document is a composed receipt ready to be rendered.
type Document struct {
	Title    string
	Created  time.Time
	Page     Page
	Elements []Element
	Images   map[string]*Image
}

// Texts returns the text of every text element in draw order.
func (d *Document) Texts() []string {
	var out []string
	for _, el := range d.Elements {
		if el.Kind == KindText {
			out = append(out, el.Text)
		}
	}
	return out
}

// Find returns the elements of the given kind within a section.
func (d *Document) Find(section string, kind Kind) []Element {
	var out []Element
	for _, el := range d.Elements {
		if el.Section == section && el.Kind == kind {
			out = append(out, el)
		}
	}
	return out
}
