package receipt

import (
	"fmt"
	"strings"
)

// The layout is designed on a Letter page with a 30pt margin and scaled
// uniformly onto the configured page.
const (
	designMargin        = 30.0
	designContentWidth  = 552.0
	designContentBottom = 660.0
)

// Page describes the output page in points.
type Page struct {
	Name   string
	Width  float64
	Height float64
	Margin float64
}

var pageSizes = map[string]Page{
	"letter": {Name: "letter", Width: 612, Height: 792},
	"a4":     {Name: "a4", Width: 595.28, Height: 841.89},
	"legal":  {Name: "legal", Width: 612, Height: 1008},
}

// PageFor returns a named page size with the given margin. The layout must fit.
func PageFor(name string, margin float64) (Page, error) {
	p, ok := pageSizes[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return Page{}, fmt.Errorf("receipt: unknown page size %q", name)
	}
	if margin < 0 || 2*margin >= p.Width {
		return Page{}, fmt.Errorf("receipt: invalid margin %.2f for %s", margin, p.Name)
	}
	p.Margin = margin
	if bottom := p.Y(designContentBottom); bottom > p.Height-p.Margin {
		return Page{}, fmt.Errorf("receipt: layout does not fit %s with margin %.2f", p.Name, margin)
	}
	return p, nil
}

// Scale is the ratio between page content width and the design width.
func (p Page) Scale() float64 {
	return (p.Width - 2*p.Margin) / designContentWidth
}

// X maps a design x coordinate onto the page.
func (p Page) X(x float64) float64 {
	return p.Margin + (x-designMargin)*p.Scale()
}

// Y maps a design y coordinate onto the page.
func (p Page) Y(y float64) float64 {
	return p.Margin + (y-designMargin)*p.Scale()
}

// L scales a design length (width, height, font size, line width).
func (p Page) L(v float64) float64 {
	return v * p.Scale()
}
