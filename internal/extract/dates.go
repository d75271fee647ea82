package extract

import (
	"regexp"
	"strconv"
	"time"
)

var (
	isoDatePattern     = regexp.MustCompile(`\b\d{4}-\d{2}-\d{2}\b`)
	slashDatePattern   = regexp.MustCompile(`\b\d{1,2}/\d{1,2}/\d{4}\b`)
	writtenDatePattern = regexp.MustCompile(`\b(January|February|March|April|May|June|July|August|September|October|November|December)\s+\d{1,2},\s+\d{4}\b`)
	relativeDayPattern = regexp.MustCompile(`(?i)\bwithin\s+(\d+)\s+(?:calendar\s+|business\s+)?days?\b`)
)

// DateNormalizer finds explicit dates and relative day counts in clause text
// and normalizes explicit dates to ISO 8601.
type DateNormalizer struct{}

// NewDateNormalizer returns the date normalization tool.
func NewDateNormalizer() *DateNormalizer { return &DateNormalizer{} }

// Name implements Extractor.
func (d *DateNormalizer) Name() string { return "normalize_date" }

// Extract returns normalized dates and relative day counts, or nil when the
// text mentions neither.
func (d *DateNormalizer) Extract(text string) (map[string]any, error) {
	var dates []string

	dates = append(dates, isoDatePattern.FindAllString(text, -1)...)
	for _, raw := range slashDatePattern.FindAllString(text, -1) {
		if parsed, err := time.Parse("1/2/2006", raw); err == nil {
			dates = append(dates, parsed.Format("2006-01-02"))
		}
	}
	for _, raw := range writtenDatePattern.FindAllString(text, -1) {
		if parsed, err := time.Parse("January 2, 2006", raw); err == nil {
			dates = append(dates, parsed.Format("2006-01-02"))
		}
	}

	var relativeDays []int
	for _, match := range relativeDayPattern.FindAllStringSubmatch(text, -1) {
		if days, err := strconv.Atoi(match[1]); err == nil {
			relativeDays = append(relativeDays, days)
		}
	}

	if len(dates) == 0 && len(relativeDays) == 0 {
		return nil, nil
	}
	result := map[string]any{}
	if len(dates) > 0 {
		result["dates"] = dates
	}
	if len(relativeDays) > 0 {
		result["relative_days"] = relativeDays
	}
	return result, nil
}
