package money

import (
	"math"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestCardinal(t *testing.T) {
	cases := map[int64]string{
		0:             "zero",
		7:             "seven",
		13:            "thirteen",
		20:            "twenty",
		21:            "twenty-one",
		56:            "fifty-six",
		100:           "one hundred",
		110:           "one hundred ten",
		999:           "nine hundred ninety-nine",
		1000:          "one thousand",
		1001:          "one thousand, one",
		1003:          "one thousand, three",
		1234:          "one thousand, two hundred thirty-four",
		2_000_500:     "two million, five hundred",
		1_000_000_000: "one billion",
		-5:            "minus five",
	}
	for n, want := range cases {
		assert.Equal(t, want, Cardinal(n), "n=%d", n)
	}
	assert.Contains(t, Cardinal(math.MaxInt64), "nine quintillion")
	assert.Contains(t, Cardinal(math.MinInt64), "minus nine quintillion")
}

func TestFeesApply(t *testing.T) {
	fees := NewFees(3.00, 0.15)

	b := fees.Apply(d("1000.00"))
	assert.Equal(t, "3.00", b.Commission.StringFixed(2))
	assert.Equal(t, "0.45", b.VAT.StringFixed(2))
	assert.Equal(t, "1003.45", b.Total.StringFixed(2))

	for _, a := range []string{"0", "0.01", "12.34", "99999.99", "123456789.10"} {
		b := fees.Apply(d(a))
		assert.True(t, b.Total.Equal(d(a).Add(d("3.45"))), "amount %s", a)
	}
}

func TestFormatterAmount(t *testing.T) {
	f := NewFormatter("etb", "en")
	fees := NewFees(3, 0.15).Apply(d("1000.00"))

	assert.Equal(t, "1,000.00 ETB", f.Amount(fees.Principal))
	assert.Equal(t, "3.00 ETB", f.Amount(fees.Commission))
	assert.Equal(t, "0.45 ETB", f.Amount(fees.VAT))
	assert.Equal(t, "1,003.45 ETB", f.Amount(fees.Total))
	assert.Equal(t, "1,234,567.50 ETB", f.Amount(d("1234567.5")))
	assert.Equal(t, "0.00 ETB", f.Amount(decimal.Zero))
	assert.Equal(t, "-12.35 ETB", f.Amount(d("-12.345")))
}

func TestFormatterAmountBeyondFloatPrecision(t *testing.T) {
	f := NewFormatter("ETB", "en")

	fees := NewFees(3, 0.15).Apply(d("90071992547406.54"))
	assert.Equal(t, "90,071,992,547,409.99 ETB", f.Amount(fees.Total))
	words, err := f.Words(fees.Total)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(words, "FOUR HUNDRED NINE & NINETY-NINE CENTS"), words)

	assert.Equal(t, "1,234,567,890,123,456.78 ETB", f.Amount(d("1234567890123456.78")))
	assert.Equal(t, "9,999,999,999,999,999.99 ETB", f.Amount(d("9999999999999999.99")))
}

func TestFormatterAmountLocale(t *testing.T) {
	f := NewFormatter("eur", "de")
	assert.Equal(t, "1.234.567,50 EUR", f.Amount(d("1234567.5")))
}

func TestFormatterWords(t *testing.T) {
	f := NewFormatter("ETB", "en")

	w, err := f.Words(d("1234.56"))
	require.NoError(t, err)
	assert.Equal(t, "ETB ONE THOUSAND, TWO HUNDRED THIRTY-FOUR & FIFTY-SIX CENTS", w)

	w, err = f.Words(d("1003.45"))
	require.NoError(t, err)
	assert.Equal(t, "ETB ONE THOUSAND, THREE & FORTY-FIVE CENTS", w)

	w, err = f.Words(d("250.00"))
	require.NoError(t, err)
	assert.Equal(t, "ETB TWO HUNDRED FIFTY ONLY", w)
	assert.NotContains(t, w, "CENTS")
}

func TestFormatterWordsCentsRollover(t *testing.T) {
	f := NewFormatter("ETB", "en")

	w, err := f.Words(d("10.995"))
	require.NoError(t, err)
	assert.Equal(t, "ETB ELEVEN ONLY", w)
	assert.NotContains(t, w, "HUNDRED CENTS")

	w, err = f.Words(decimal.NewFromFloat(999.9999))
	require.NoError(t, err)
	assert.Equal(t, "ETB ONE THOUSAND ONLY", w)
}

func TestSplit(t *testing.T) {
	u, c, err := Split(d("10.995"))
	require.NoError(t, err)
	assert.Equal(t, int64(11), u)
	assert.Equal(t, int64(0), c)

	u, c, err = Split(d("10.994"))
	require.NoError(t, err)
	assert.Equal(t, int64(10), u)
	assert.Equal(t, int64(99), c)

	_, _, err = Split(d("-1"))
	assert.ErrorIs(t, err, ErrNegativeAmount)
}

func TestWordsRejectsNegative(t *testing.T) {
	_, err := NewFormatter("ETB", "en").Words(d("-0.50"))
	assert.ErrorIs(t, err, ErrNegativeAmount)
}

func TestMaskAccount(t *testing.T) {
	assert.Equal(t, "1****4821", MaskAccount("1****", "4821"))
	assert.Equal(t, "1****4821", MaskAccount("1****", "1000 2233 4821"))
	assert.Equal(t, "1****21", MaskAccount("1****", "21"))
	assert.Equal(t, "-", MaskAccount("1****", "  "))
}
