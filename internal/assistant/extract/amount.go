package extract

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"assistant-console/internal/models"
)

const (
	numberPart = `(\d{1,3}(?:[,'.]\d{2,3})+(?:[.,]\d{1,2})?|\d+(?:[.,]\d{1,2})?)`
	scalePart  = `(?:\s?(k|m|bn)\b|\s(thousand|million|billion)\b)?`
)

var (
	symbolAmountPattern = regexp.MustCompile(`(?i)(-\s?)?([$€£₹¥])\s?` + numberPart + scalePart)
	codeAmountPattern   = regexp.MustCompile(`(?i)(-\s?)?\b(usd|eur|gbp|inr|jpy|aed|rs\.?)\s?` + numberPart + scalePart)
	wordAmountPattern   = regexp.MustCompile(`(?i)(-\s?)?\b` + numberPart + scalePart + `\s?(usd|eur|gbp|inr|jpy|aed|dollars?|euros?|pounds?|rupees?|yen|dirhams?)\b`)
)

var currencyCodes = map[string]string{
	"$": "USD", "€": "EUR", "£": "GBP", "₹": "INR", "¥": "JPY",
	"usd": "USD", "eur": "EUR", "gbp": "GBP", "inr": "INR", "jpy": "JPY", "aed": "AED",
	"rs": "INR", "rs.": "INR",
	"dollar": "USD", "dollars": "USD", "euro": "EUR", "euros": "EUR",
	"pound": "GBP", "pounds": "GBP", "rupee": "INR", "rupees": "INR",
	"yen": "JPY", "dirham": "AED", "dirhams": "AED",
}

var scaleFactors = map[string]float64{
	"k": 1e3, "thousand": 1e3,
	"m": 1e6, "million": 1e6,
	"bn": 1e9, "billion": 1e9,
}

// ExtractAmount finds a monetary amount with its ISO currency code. Negative
// amounts are absence.
func ExtractAmount(text string) (models.ParsedAmount, bool) {
	if m := symbolAmountPattern.FindStringSubmatch(text); m != nil {
		return buildAmount(m[0], m[1], m[2], m[3], m[4]+m[5])
	}
	if m := codeAmountPattern.FindStringSubmatch(text); m != nil {
		return buildAmount(m[0], m[1], m[2], m[3], m[4]+m[5])
	}
	if m := wordAmountPattern.FindStringSubmatch(text); m != nil {
		return buildAmount(m[0], m[1], m[5], m[2], m[3]+m[4])
	}
	return models.ParsedAmount{}, false
}

func buildAmount(original, sign, currency, number, scale string) (models.ParsedAmount, bool) {
	if sign != "" {
		return models.ParsedAmount{}, false
	}
	code, ok := currencyCodes[strings.ToLower(currency)]
	if !ok {
		return models.ParsedAmount{}, false
	}
	value, ok := parseNumber(number)
	if !ok {
		return models.ParsedAmount{}, false
	}
	if factor, ok := scaleFactors[strings.ToLower(scale)]; ok {
		value *= factor
	}
	if value < 0 || math.IsNaN(value) || math.IsInf(value, 0) {
		return models.ParsedAmount{}, false
	}
	return models.ParsedAmount{Amount: value, Currency: code, OriginalText: strings.TrimSpace(original)}, true
}

// parseNumber strips thousands separators. When both ',' and '.' appear the last
// one is the decimal mark; a lone separator followed by one or two digits is decimal.
func parseNumber(raw string) (float64, bool) {
	s := strings.ReplaceAll(raw, "'", "")

	lastComma := strings.LastIndex(s, ",")
	lastDot := strings.LastIndex(s, ".")
	decimal := byte(0)
	switch {
	case lastComma >= 0 && lastDot >= 0:
		if lastComma > lastDot {
			decimal = ','
		} else {
			decimal = '.'
		}
	case lastComma >= 0:
		if strings.Count(s, ",") == 1 && len(s)-lastComma-1 <= 2 {
			decimal = ','
		}
	case lastDot >= 0:
		if strings.Count(s, ".") == 1 && len(s)-lastDot-1 <= 2 {
			decimal = '.'
		}
	}

	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= '0' && c <= '9':
			b.WriteByte(c)
		case c == decimal:
			b.WriteByte('.')
		}
	}
	value, err := strconv.ParseFloat(b.String(), 64)
	if err != nil {
		return 0, false
	}
	return value, true
}
