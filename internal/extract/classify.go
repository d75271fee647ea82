package extract

import "strings"

// categoryKeywords maps clause categories to the keywords that signal them.
// Order matters: the first category whose keywords appear wins a tie on count.
var categoryKeywords = []struct {
	category string
	keywords []string
}{
	{"penalty", []string{"penalty", "penalties", "liquidated damages", "late fee", "interest on overdue"}},
	{"payment", []string{"payment", "invoice", "due date", "fees", "compensation", "payable"}},
	{"confidentiality", []string{"confidential", "non-disclosure", "proprietary information", "trade secret"}},
	{"termination", []string{"terminate", "termination", "expiration", "cancellation"}},
	{"liability", []string{"liability", "indemnif", "damages", "hold harmless", "warranty"}},
}

// ClauseClassifier assigns a coarse category label to clause text.
type ClauseClassifier struct{}

// NewClauseClassifier returns the clause classification tool.
func NewClauseClassifier() *ClauseClassifier { return &ClauseClassifier{} }

// Name implements Extractor.
func (c *ClauseClassifier) Name() string { return "classify_clause" }

// Extract returns the best-matching category for the text. Text matching no
// category is labeled "general" rather than returning nil, since a label is
// always defined.
func (c *ClauseClassifier) Extract(text string) (map[string]any, error) {
	lower := strings.ToLower(text)

	best := "general"
	bestCount := 0
	for _, group := range categoryKeywords {
		count := 0
		for _, kw := range group.keywords {
			if strings.Contains(lower, kw) {
				count++
			}
		}
		if count > bestCount {
			best = group.category
			bestCount = count
		}
	}
	return map[string]any{"category": best}, nil
}
