package money

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// ErrNegativeAmount is returned when words are requested for a negative total.
var ErrNegativeAmount = errors.New("money: amount must not be negative")

var hundred = decimal.NewFromInt(100)

// Formatter renders amounts for one currency and locale.
type Formatter struct {
	currency string
	printer  *message.Printer
	point    string
}

// NewFormatter returns a Formatter. An unparsable locale falls back to English.
func NewFormatter(currency, locale string) *Formatter {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.English
	}
	p := message.NewPrinter(tag)
	return &Formatter{
		currency: strings.ToUpper(strings.TrimSpace(currency)),
		printer:  p,
		point:    decimalPoint(p),
	}
}

// decimalPoint returns the printer's fraction separator, read off a sample
// number so the whole and fraction parts can be printed separately.
func decimalPoint(p *message.Printer) string {
	r := []rune(p.Sprint(number.Decimal(1.5, number.Scale(1))))
	if len(r) < 3 {
		return "."
	}
	return string(r[1 : len(r)-1])
}

// Amount formats d with thousands grouping and exactly two fraction digits,
// followed by the currency code: "1,000.00 ETB". The digits come from the
// decimal itself, so totals past float64 precision print exactly.
func (f *Formatter) Amount(d decimal.Decimal) string {
	r := d.Round(2)
	sign := ""
	if r.IsNegative() {
		sign = "-"
		r = r.Abs()
	}
	fixed := r.StringFixed(2)
	frac := fixed[strings.IndexByte(fixed, '.')+1:]
	whole := f.printer.Sprint(number.Decimal(r.IntPart()))
	return fmt.Sprintf("%s%s%s%s %s", sign, whole, f.point, frac, f.currency)
}

// Split separates a non-negative amount into whole units and cents. Cents are
// rounded half away from zero; a result of 100 is carried into the units.
func Split(total decimal.Decimal) (units int64, cents int64, err error) {
	if total.IsNegative() {
		return 0, 0, ErrNegativeAmount
	}
	whole := total.Truncate(0)
	c := total.Sub(whole).Mul(hundred).Round(0).IntPart()
	u := whole.IntPart()
	if c >= 100 {
		u++
		c = 0
	}
	return u, c, nil
}

// Words spells a total in upper case, prefixed by the currency code:
// "ETB ONE THOUSAND, THREE & FORTY-FIVE CENTS" or "ETB TEN ONLY".
func (f *Formatter) Words(total decimal.Decimal) (string, error) {
	units, cents, err := Split(total)
	if err != nil {
		return "", err
	}
	suffix := " ONLY"
	if cents > 0 {
		suffix = fmt.Sprintf(" & %s CENTS", Cardinal(cents))
	}
	return strings.ToUpper(fmt.Sprintf("%s %s%s", f.currency, Cardinal(units), suffix)), nil
}

// MaskAccount keeps the last four characters of account behind prefix, or
// returns "-" when there is no account.
func MaskAccount(prefix, account string) string {
	account = strings.ReplaceAll(strings.TrimSpace(account), " ", "")
	if account == "" {
		return "-"
	}
	r := []rune(account)
	if len(r) > 4 {
		r = r[len(r)-4:]
	}
	return prefix + string(r)
}
