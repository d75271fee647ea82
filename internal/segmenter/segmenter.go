// Package segmenter splits raw contract text into an ordered sequence of
// addressable clauses. Segmentation is deterministic: the same document always
// produces the same clauses with the same IDs.
package segmenter

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/mwiater/covenant/internal/contract"
)

// ErrEmptyDocument is returned when a document has no extractable text.
var ErrEmptyDocument = errors.New("document contains no extractable text")

var (
	// numberedClausePattern matches clause starts such as "1.", "2)", "3.1.4".
	numberedClausePattern = regexp.MustCompile(`(?m)^[ \t]*\d+(\.\d+)*[.)][ \t]`)
	// sectionHeadingPattern matches explicit section or article headings.
	sectionHeadingPattern = regexp.MustCompile(`(?mi)^[ \t]*(section|article|clause)[ \t]+[0-9ivxlcdm]`)
	// paragraphBreakPattern matches blank-line paragraph separators.
	paragraphBreakPattern = regexp.MustCompile(`\n[ \t]*\n`)
)

// Segment splits a document into clauses whose spans partition the document
// content exactly: concatenating all spans in order reconstructs the input
// with no gaps or overlaps. No clause's trimmed text exceeds maxChars and no
// clause is empty after trimming; surrounding whitespace stays inside the
// spans (so the partition holds) but does not count toward the cap. Clause
// IDs are derived from the document ID and ordinal.
func Segment(doc contract.Document, maxChars int) ([]contract.Clause, error) {
	if strings.TrimSpace(doc.Content) == "" {
		return nil, fmt.Errorf("segment %s: %w", doc.ID, ErrEmptyDocument)
	}
	if maxChars <= 0 {
		return nil, fmt.Errorf("segment %s: maxChars must be greater than zero", doc.ID)
	}

	bounds := boundaries(doc.Content)
	bounds = dropBlankSegments(doc.Content, bounds)
	bounds = enforceMaxLength(doc.Content, bounds, maxChars)

	clauses := make([]contract.Clause, 0, len(bounds)-1)
	for i := 0; i < len(bounds)-1; i++ {
		start, end := bounds[i], bounds[i+1]
		ordinal := i + 1
		clauses = append(clauses, contract.Clause{
			ID:      fmt.Sprintf("%s:%d", doc.ID, ordinal),
			Ordinal: ordinal,
			Text:    doc.Content[start:end],
			Span:    contract.Span{Start: start, End: end},
		})
	}
	return clauses, nil
}

// boundaries returns sorted, deduplicated split offsets, always including 0
// and len(content). Splits occur at structural markers: numbered clauses,
// section headings, and paragraph breaks.
func boundaries(content string) []int {
	set := map[int]struct{}{0: {}, len(content): {}}

	for _, loc := range numberedClausePattern.FindAllStringIndex(content, -1) {
		set[loc[0]] = struct{}{}
	}
	for _, loc := range sectionHeadingPattern.FindAllStringIndex(content, -1) {
		set[loc[0]] = struct{}{}
	}
	for _, loc := range paragraphBreakPattern.FindAllStringIndex(content, -1) {
		// split after the blank line so the separator stays with the
		// preceding clause
		set[loc[1]] = struct{}{}
	}

	bounds := make([]int, 0, len(set))
	for b := range set {
		bounds = append(bounds, b)
	}
	sort.Ints(bounds)
	return bounds
}

// enforceMaxLength subdivides any segment whose trimmed text is longer than
// maxChars, preferring whitespace split points and falling back to a hard cut
// on a rune boundary. Length is measured on the trimmed text, so whitespace
// runs merged by dropBlankSegments never push a clause over the cap and
// splitting never produces a blank segment. Runs after dropBlankSegments.
func enforceMaxLength(content string, bounds []int, maxChars int) []int {
	out := []int{bounds[0]}
	for i := 0; i < len(bounds)-1; i++ {
		start, end := bounds[i], bounds[i+1]
		for {
			seg := content[start:end]
			lead := len(seg) - len(strings.TrimLeft(seg, " \t\r\n"))
			trimmed := strings.TrimRight(seg[lead:], " \t\r\n")
			if len(trimmed) <= maxChars {
				break
			}
			cut := splitPoint(content, start+lead, start+lead+maxChars)
			out = append(out, cut)
			start = cut
		}
		out = append(out, end)
	}
	return out
}

// splitPoint finds the last whitespace byte in (start, limit], falling back
// to the nearest rune boundary at the limit when the segment has no spaces.
func splitPoint(content string, start, limit int) int {
	for i := limit; i > start; i-- {
		if content[i-1] == ' ' || content[i-1] == '\n' || content[i-1] == '\t' || content[i-1] == '\r' {
			return i
		}
	}
	cut := limit
	for cut > start && !utf8.RuneStart(content[cut]) {
		cut--
	}
	if cut == start {
		return limit
	}
	return cut
}

// dropBlankSegments merges whitespace-only segments into their neighbor so
// every clause trims non-empty while spans remain gapless.
func dropBlankSegments(content string, bounds []int) []int {
	out := []int{bounds[0]}
	for i := 0; i < len(bounds)-1; i++ {
		start, end := bounds[i], bounds[i+1]
		if strings.TrimSpace(content[start:end]) == "" {
			// extend the previous clause across this blank run; a leading
			// blank run attaches to the first real clause instead
			continue
		}
		out = append(out, end)
	}
	// trailing blank run attaches to the last clause
	if out[len(out)-1] != len(content) {
		out[len(out)-1] = len(content)
	}
	return out
}
