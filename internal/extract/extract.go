// Package extract provides the auxiliary extraction tools the generator may
// invoke over evidence text: date normalization, monetary amount extraction,
// and clause classification. Every tool shares the same capability shape and
// fails soft: finding nothing returns nil, never an error that would abort
// generation.
package extract

// Extractor is the common tool capability: text in, structured data or nil
// out. A nil result means the tool found nothing in the text.
type Extractor interface {
	Name() string
	Extract(text string) (map[string]any, error)
}

// DefaultSet returns the standard tool set used by the generator.
func DefaultSet() []Extractor {
	return []Extractor{
		NewDateNormalizer(),
		NewAmountExtractor(),
		NewClauseClassifier(),
	}
}
