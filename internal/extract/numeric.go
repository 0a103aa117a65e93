package extract

import (
	"regexp"
	"strconv"
	"strings"
)

// UnitUSD is the only currency unit the extractor reports.
const UnitUSD = "USD"

// Money is a monetary amount found in free text, normalized to absolute USD.
type Money struct {
	Value float64
	Raw   string
	Scale string
	Unit  string
}

const numberPattern = `([0-9]{1,3}(?:[,.][0-9]{3})*(?:\.[0-9]+)?)`

var (
	// $12,345 / $12.3 billion / $ 4 bn
	currencyRe = regexp.MustCompile(`(?i)\$\s*` + numberPattern + `(?:\s*(million|billion|thousand|m|bn)\b)?`)
	// 12,345 million / 7.5 billion of dollars
	scaledRe = regexp.MustCompile(`(?i)` + numberPattern + `\s*(million|billion|thousand|m|bn)\b\s*(?:of|in)?\s*(dollars)?`)
	// revenue was 282,836
	keywordRe = regexp.MustCompile(`(?i)(revenue|total revenue|net revenue|net sales)[^\d\n\r]{0,30}([0-9][0-9,.]+)`)

	percentSignRe = regexp.MustCompile(`([0-9]{1,3}(?:\.[0-9]+)?)\s*%`)
	percentWordRe = regexp.MustCompile(`(?i)([0-9]{1,3}(?:\.[0-9]+)?)\s*(percent|percentage)`)
)

// ParseMoney returns the first monetary amount in text. Patterns are tried in
// order of specificity: currency symbol, scale word, then a number shortly
// after a revenue keyword. The first pattern with a parsable match wins.
func ParseMoney(text string) (Money, bool) {
	for _, m := range currencyRe.FindAllStringSubmatch(text, -1) {
		num, ok := parseNumber(m[1])
		if !ok {
			continue
		}
		scale := strings.ToLower(m[2])
		return Money{Value: num * scaleFactor(scale), Raw: m[0], Scale: scale, Unit: UnitUSD}, true
	}
	for _, m := range scaledRe.FindAllStringSubmatch(text, -1) {
		num, ok := parseNumber(m[1])
		if !ok {
			continue
		}
		scale := strings.ToLower(m[2])
		return Money{Value: num * scaleFactor(scale), Raw: m[0], Scale: scale, Unit: UnitUSD}, true
	}
	for _, m := range keywordRe.FindAllStringSubmatch(text, -1) {
		num, ok := parseNumber(m[2])
		if !ok {
			continue
		}
		return Money{Value: num, Raw: m[2], Scale: "", Unit: UnitUSD}, true
	}
	return Money{}, false
}

// ParsePercent returns the first percentage in text, either "45.6%" or
// "12 percent".
func ParsePercent(text string) (float64, bool) {
	for _, re := range []*regexp.Regexp{percentSignRe, percentWordRe} {
		if m := re.FindStringSubmatch(text); m != nil {
			if v, err := strconv.ParseFloat(m[1], 64); err == nil {
				return v, true
			}
		}
	}
	return 0, false
}

func scaleFactor(scale string) float64 {
	switch {
	case strings.Contains(scale, "million") || scale == "m":
		return 1e6
	case strings.Contains(scale, "billion") || scale == "bn":
		return 1e9
	case strings.Contains(scale, "thousand"):
		return 1e3
	}
	return 1
}

// parseNumber drops thousands separators and parses the rest as a decimal.
// Inputs like "1.234.567" do not survive and are reported as unparsable.
func parseNumber(s string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
