package receipt

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"txreceipt/internal/models"
	"txreceipt/internal/money"
)

// Placeholder is printed in place of any missing display value.
const Placeholder = "-"

const timestampLayout = "1/2/2006, 3:04:05 PM"

// GridRow is a label/value row of the issuer or customer grid. A non-empty
// Field takes the value from the transaction attribute of that name.
type GridRow struct {
	Label string
	Value string
	Field string
}

// Layout is the static content of the receipt.
type Layout struct {
	Page              Page
	Brand             Color
	BankName          string
	Subtitle          string
	Tagline           string
	Copyright         string
	ServiceReason     string
	PayerAccount      string
	AccountMaskPrefix string
	VATRate           decimal.Decimal
	Issuer            []GridRow
	Customer          []GridRow
	Location          *time.Location
}

// Input is everything one receipt is composed from. Nil images are skipped.
type Input struct {
	Transaction *models.Transaction
	Fees        money.FeeBreakdown
	Words       string
	Logo        *Image
	Stamp       *Image
	QR          *Image
}

// Engine composes receipts. It holds no per-receipt state.
type Engine struct {
	layout    Layout
	formatter *money.Formatter
}

// NewEngine returns an Engine for the layout.
func NewEngine(layout Layout, formatter *money.Formatter) *Engine {
	if layout.Location == nil {
		layout.Location = time.UTC
	}
	return &Engine{layout: layout, formatter: formatter}
}

// Compose lays out a receipt. It is deterministic for a given input.
func (e *Engine) Compose(in Input) (*Document, error) {
	if in.Transaction == nil {
		return nil, errors.New("receipt: transaction is required")
	}
	tx := in.Transaction

	c := &composer{page: e.layout.Page, images: map[string]*Image{}}
	e.header(c, in)
	e.grids(c, tx)
	e.payment(c, in)
	e.words(c, in)
	e.footer(c)

	created := tx.CreatedAt
	if tx.TxDate != nil {
		created = *tx.TxDate
	}
	return &Document{
		Title:    fmt.Sprintf("Receipt %s", tx.TxID),
		Created:  created,
		Page:     e.layout.Page,
		Elements: c.elements,
		Images:   c.images,
	}, nil
}

func (e *Engine) header(c *composer, in Input) {
	c.section = SectionHeader
	c.rect(30, 30, 552, 50, e.layout.Brand)
	c.image(in.Logo, "logo", 45, 38, 35, 1, 0)
	c.text(e.layout.BankName, 80, 40, 490, Font{Bold: true, Size: 14}, white, AlignLeft)
	c.text(e.layout.Subtitle, 80, 58, 490, Font{Size: 9}, white, AlignLeft)
}

func (e *Engine) grids(c *composer, tx *models.Transaction) {
	const topY = 100.0
	c.section = SectionIssuer
	c.text("Company Address & Other Information", 30, topY, 280, Font{Bold: true, Size: 9}, black, AlignLeft)
	c.text("Customer Information", 320, topY, 262, Font{Bold: true, Size: 9}, black, AlignLeft)

	for i, row := range e.layout.Issuer {
		y := topY + 18 + float64(i)*11
		c.text(row.Label, 30, y, 80, Font{Size: 7.5}, labelGrey, AlignLeft)
		c.text(gridValue(row, tx), 110, y, 200, Font{Bold: true, Size: 7.5}, black, AlignLeft)
	}
	for i, row := range e.layout.Customer {
		y := topY + 18 + float64(i)*11
		c.text(row.Label, 320, y, 100, Font{Size: 7.5}, labelGrey, AlignLeft)
		c.text(gridValue(row, tx), 420, y, 162, Font{Bold: true, Size: 7.5}, black, AlignLeft)
	}
}

func (e *Engine) payment(c *composer, in Input) {
	const boxY = 245.0
	brand := e.layout.Brand

	c.section = SectionPayment
	c.strokeRect(30, boxY, 552, 280, 0.5, brand)
	c.text("Payment / Transaction Information", 30, boxY+10, 552, Font{Bold: true, Size: 11}, brand, AlignCenter)
	c.line(30, boxY+25, 582, boxY+25, 0.5, brand)

	// stamp sits beneath the table text
	c.image(in.Stamp, "stamp", 240, 340, 110, 0.7, 5)

	rows := e.paymentRows(in)
	for i, row := range rows {
		rowY := boxY + 35 + float64(i)*22
		c.text(row[0], 45, rowY, 250, Font{Size: 9}, textGrey, AlignLeft)
		c.text(row[1], 300, rowY, 265, Font{Bold: true, Size: 9}, black, AlignRight)
		if i < len(rows)-1 {
			c.line(40, rowY+16, 570, rowY+16, 0.1, ruleGrey)
		}
	}
}

func (e *Engine) paymentRows(in Input) [][2]string {
	tx := in.Transaction
	f := in.Fees
	return [][2]string{
		{"Payer", orPlaceholder(strings.ToUpper(tx.Sender))},
		{"Account", orPlaceholder(e.layout.PayerAccount)},
		{"Receiver", orPlaceholder(strings.ToUpper(tx.Receiver))},
		{"Account", money.MaskAccount(e.layout.AccountMaskPrefix, tx.Account)},
		{"Payment Date & Time", e.timestamp(tx.TxDate)},
		{"Reference No.", orPlaceholder(tx.TxID)},
		{"Reason / Type of service", orPlaceholder(e.layout.ServiceReason)},
		{"Transferred Amount", e.formatter.Amount(f.Principal)},
		{"Commission or Service Charge", e.formatter.Amount(f.Commission)},
		{fmt.Sprintf("%s%% VAT on Commission", e.layout.VATRate.Mul(decimal.NewFromInt(100)).String()), e.formatter.Amount(f.VAT)},
		{"Total amount debited", e.formatter.Amount(f.Total)},
	}
}

func (e *Engine) words(c *composer, in Input) {
	const footerY = 545.0
	c.section = SectionWords
	c.text("Amount in Word", 45, footerY+12, 85, Font{Size: 8.5}, textGrey, AlignLeft)
	c.strokeRect(130, footerY, 280, 35, 0.5, e.layout.Brand)
	c.text(orPlaceholder(in.Words), 135, footerY+12, 270, Font{Bold: true, Size: 7.5}, black, AlignCenter)
	c.image(in.QR, "qr", 435, footerY-5, 55, 1, 0)
}

func (e *Engine) footer(c *composer) {
	c.section = SectionFooter
	c.roundedRect(100, 620, 412, 40, 6, 0.5, e.layout.Brand)
	c.text(e.layout.Tagline, 100, 630, 412, Font{Bold: true, Size: 10}, e.layout.Brand, AlignCenter)
	c.text(e.layout.Copyright, 100, 645, 412, Font{Size: 7.5}, labelGrey, AlignCenter)
}

func (e *Engine) timestamp(t *time.Time) string {
	if t == nil || t.IsZero() {
		return Placeholder
	}
	return t.In(e.layout.Location).Format(timestampLayout)
}

func gridValue(row GridRow, tx *models.Transaction) string {
	if row.Field == "" {
		return orPlaceholder(row.Value)
	}
	v := tx.Attribute(row.Field)
	if row.Field == "sender" || row.Field == "receiver" {
		v = strings.ToUpper(v)
	}
	return orPlaceholder(v)
}

func orPlaceholder(s string) string {
	if strings.TrimSpace(s) == "" {
		return Placeholder
	}
	return s
}

// composer accumulates elements, mapping design coordinates onto the page.
type composer struct {
	page     Page
	section  string
	elements []Element
	images   map[string]*Image
}

func (c *composer) add(el Element) {
	el.Section = c.section
	c.elements = append(c.elements, el)
}

func (c *composer) rect(x, y, w, h float64, fill Color) {
	p := c.page
	c.add(Element{Kind: KindRect, X: p.X(x), Y: p.Y(y), W: p.L(w), H: p.L(h), Fill: true, FillColor: fill})
}

func (c *composer) strokeRect(x, y, w, h, lw float64, color Color) {
	p := c.page
	c.add(Element{Kind: KindRect, X: p.X(x), Y: p.Y(y), W: p.L(w), H: p.L(h), Stroke: true, Color: color, LineWidth: p.L(lw)})
}

func (c *composer) roundedRect(x, y, w, h, r, lw float64, color Color) {
	p := c.page
	c.add(Element{Kind: KindRoundedRect, X: p.X(x), Y: p.Y(y), W: p.L(w), H: p.L(h), Radius: p.L(r), Stroke: true, Color: color, LineWidth: p.L(lw)})
}

func (c *composer) line(x1, y1, x2, y2, lw float64, color Color) {
	p := c.page
	c.add(Element{Kind: KindLine, X: p.X(x1), Y: p.Y(y1), X2: p.X(x2), Y2: p.Y(y2), Stroke: true, Color: color, LineWidth: p.L(lw)})
}

func (c *composer) text(s string, x, y, w float64, font Font, color Color, align Align) {
	p := c.page
	font.Size = p.L(font.Size)
	c.add(Element{Kind: KindText, X: p.X(x), Y: p.Y(y), W: p.L(w), Text: s, Font: font, Color: color, Align: align})
}

// image places img with width w keeping its aspect ratio. A nil image is skipped.
func (c *composer) image(img *Image, name string, x, y, w, opacity, rotate float64) {
	if img == nil || img.Width <= 0 || img.Height <= 0 {
		return
	}
	p := c.page
	h := w * float64(img.Height) / float64(img.Width)
	el := Element{
		Kind:    KindImage,
		X:       p.X(x),
		Y:       p.Y(y),
		W:       p.L(w),
		H:       p.L(h),
		Image:   name,
		Opacity: opacity,
		Rotate:  rotate,
	}
	if rotate != 0 {
		el.OriginX = el.X + el.W/2
		el.OriginY = el.Y + el.H/2
	}
	c.images[name] = &Image{Name: name, Data: img.Data, Width: img.Width, Height: img.Height}
	c.add(el)
}
