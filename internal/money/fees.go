package money

import "github.com/shopspring/decimal"

// Fees holds the charges applied on top of every transfer.
type Fees struct {
	Commission decimal.Decimal
	VATRate    decimal.Decimal
}

// NewFees builds Fees from plain float configuration values.
func NewFees(commission, vatRate float64) Fees {
	return Fees{
		Commission: decimal.NewFromFloat(commission),
		VATRate:    decimal.NewFromFloat(vatRate),
	}
}

// FeeBreakdown is recomputed on every render and never stored.
type FeeBreakdown struct {
	Principal  decimal.Decimal
	Commission decimal.Decimal
	VAT        decimal.Decimal
	Total      decimal.Decimal
}

// Apply computes commission, VAT on commission and the total debited amount.
func (f Fees) Apply(principal decimal.Decimal) FeeBreakdown {
	commission := f.Commission.Round(2)
	vat := commission.Mul(f.VATRate).Round(2)
	return FeeBreakdown{
		Principal:  principal,
		Commission: commission,
		VAT:        vat,
		Total:      principal.Add(commission).Add(vat),
	}
}
