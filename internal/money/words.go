package money

import "strings"

var lessThanTwenty = [...]string{
	"zero", "one", "two", "three", "four", "five", "six", "seven", "eight", "nine",
	"ten", "eleven", "twelve", "thirteen", "fourteen", "fifteen", "sixteen",
	"seventeen", "eighteen", "nineteen",
}

var tens = [...]string{
	"zero", "ten", "twenty", "thirty", "forty", "fifty", "sixty", "seventy", "eighty", "ninety",
}

var scales = []struct {
	value uint64
	name  string
}{
	{1_000_000_000_000_000_000, "quintillion"},
	{1_000_000_000_000_000, "quadrillion"},
	{1_000_000_000_000, "trillion"},
	{1_000_000_000, "billion"},
	{1_000_000, "million"},
	{1_000, "thousand"},
}

// Cardinal spells an integer in English. Scale groups are separated by commas
// and tens are hyphenated: 1234 -> "one thousand, two hundred thirty-four".
func Cardinal(n int64) string {
	if n < 0 {
		return "minus " + spell(uint64(-(n+1))+1)
	}
	return spell(uint64(n))
}

func spell(n uint64) string {
	if n == 0 {
		return lessThanTwenty[0]
	}

	var words []string
	for _, s := range scales {
		if n >= s.value {
			words = append(words, underThousand(n/s.value)+" "+s.name+",")
			n %= s.value
		}
	}
	if n > 0 {
		words = append(words, underThousand(n))
	}
	return strings.TrimSuffix(strings.Join(words, " "), ",")
}

func underThousand(n uint64) string {
	var parts []string
	if n >= 100 {
		parts = append(parts, lessThanTwenty[n/100]+" hundred")
		n %= 100
	}
	switch {
	case n == 0:
	case n < 20:
		parts = append(parts, lessThanTwenty[n])
	default:
		word := tens[n/10]
		if r := n % 10; r > 0 {
			word += "-" + lessThanTwenty[r]
		}
		parts = append(parts, word)
	}
	return strings.Join(parts, " ")
}
