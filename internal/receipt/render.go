package receipt

import (
	"bytes"
	"fmt"
	"io"
	"sort"

	"github.com/go-pdf/fpdf"
)

const fontFamily = "Helvetica"

// Renderer draws composed documents as PDF.
type Renderer struct {
	creator string
}

// NewRenderer returns a Renderer that stamps creator into the PDF metadata.
func NewRenderer(creator string) *Renderer {
	return &Renderer{creator: creator}
}

// Render writes doc as a single page PDF to w.
func (r *Renderer) Render(doc *Document, w io.Writer) error {
	if doc == nil {
		return fmt.Errorf("receipt: nothing to render")
	}

	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           fpdf.SizeType{Wd: doc.Page.Width, Ht: doc.Page.Height},
	})
	pdf.SetMargins(doc.Page.Margin, doc.Page.Margin, doc.Page.Margin)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetCellMargin(0)
	pdf.SetCatalogSort(true)
	pdf.SetTitle(doc.Title, true)
	pdf.SetCreator(r.creator, true)
	if !doc.Created.IsZero() {
		pdf.SetCreationDate(doc.Created)
		pdf.SetModificationDate(doc.Created)
	}
	pdf.AddPage()

	names := make([]string, 0, len(doc.Images))
	for name := range doc.Images {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		img := doc.Images[name]
		pdf.RegisterImageOptionsReader(name, fpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(img.Data))
	}
	if err := pdf.Error(); err != nil {
		return fmt.Errorf("receipt: register images: %w", err)
	}

	tr := pdf.UnicodeTranslatorFromDescriptor("")
	for _, el := range doc.Elements {
		draw(pdf, tr, el)
		if err := pdf.Error(); err != nil {
			return fmt.Errorf("receipt: draw %s in %s: %w", el.Kind, el.Section, err)
		}
	}

	return pdf.Output(w)
}

func draw(pdf *fpdf.Fpdf, tr func(string) string, el Element) {
	switch el.Kind {
	case KindRect:
		style := ""
		if el.Fill {
			pdf.SetFillColor(el.FillColor.R, el.FillColor.G, el.FillColor.B)
			style += "F"
		}
		if el.Stroke {
			stroke(pdf, el)
			style += "D"
		}
		pdf.Rect(el.X, el.Y, el.W, el.H, style)
	case KindRoundedRect:
		stroke(pdf, el)
		pdf.RoundedRect(el.X, el.Y, el.W, el.H, el.Radius, "1234", "D")
	case KindLine:
		stroke(pdf, el)
		pdf.Line(el.X, el.Y, el.X2, el.Y2)
	case KindText:
		style := ""
		if el.Font.Bold {
			style = "B"
		}
		pdf.SetFont(fontFamily, style, el.Font.Size)
		pdf.SetTextColor(el.Color.R, el.Color.G, el.Color.B)
		pdf.SetXY(el.X, el.Y)
		pdf.MultiCell(el.W, el.Font.Size*1.15, tr(el.Text), "", string(el.Align), false)
	case KindImage:
		opts := fpdf.ImageOptions{ImageType: "PNG"}
		if el.Rotate != 0 {
			pdf.TransformBegin()
			pdf.TransformRotate(el.Rotate, el.OriginX, el.OriginY)
		}
		if el.Opacity > 0 && el.Opacity < 1 {
			pdf.SetAlpha(el.Opacity, "Normal")
		}
		pdf.ImageOptions(el.Image, el.X, el.Y, el.W, el.H, false, opts, 0, "")
		if el.Opacity > 0 && el.Opacity < 1 {
			pdf.SetAlpha(1, "Normal")
		}
		if el.Rotate != 0 {
			pdf.TransformEnd()
		}
	}
}

func stroke(pdf *fpdf.Fpdf, el Element) {
	pdf.SetDrawColor(el.Color.R, el.Color.G, el.Color.B)
	pdf.SetLineWidth(el.LineWidth)
}
