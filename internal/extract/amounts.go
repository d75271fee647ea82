package extract

import (
	"regexp"
	"strconv"
	"strings"
)

// amountPattern matches monetary values with a leading currency marker, such
// as "$1,500.00", "USD 20,000", or "€500".
var amountPattern = regexp.MustCompile(`(\$|USD|€|EUR|£|GBP)\s?(\d{1,3}(?:,\d{3})*(?:\.\d{2})?)`)

var currencyNames = map[string]string{
	"$":   "USD",
	"USD": "USD",
	"€":   "EUR",
	"EUR": "EUR",
	"£":   "GBP",
	"GBP": "GBP",
}

// AmountExtractor finds monetary values and their currencies in clause text.
type AmountExtractor struct{}

// NewAmountExtractor returns the monetary extraction tool.
func NewAmountExtractor() *AmountExtractor { return &AmountExtractor{} }

// Name implements Extractor.
func (a *AmountExtractor) Name() string { return "extract_amount" }

// Extract returns the monetary amounts found in the text, or nil when none.
func (a *AmountExtractor) Extract(text string) (map[string]any, error) {
	matches := amountPattern.FindAllStringSubmatch(text, -1)
	if len(matches) == 0 {
		return nil, nil
	}

	amounts := make([]map[string]any, 0, len(matches))
	for _, m := range matches {
		value, err := strconv.ParseFloat(strings.ReplaceAll(m[2], ",", ""), 64)
		if err != nil {
			continue
		}
		amounts = append(amounts, map[string]any{
			"value":    value,
			"currency": currencyNames[m[1]],
		})
	}
	if len(amounts) == 0 {
		return nil, nil
	}
	return map[string]any{"amounts": amounts}, nil
}
