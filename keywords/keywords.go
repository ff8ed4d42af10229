// Package keywords derives salient terms from arbitrary text.
// Extraction is pure: the same input always yields the same output.
package keywords

import (
	"sort"
	"strings"
)

const defaultMax = 5

// stopWords are common English words that carry no topical signal.
// Tokens of length <= 3 are dropped before this set is consulted.
var stopWords = map[string]bool{
	"this": true, "that": true, "with": true, "from": true,
	"have": true, "will": true, "your": true, "about": true,
	"there": true, "their": true, "would": true, "could": true,
	"should": true, "been": true, "were": true, "they": true,
	"them": true, "then": true, "than": true, "when": true,
	"what": true, "where": true, "which": true, "while": true,
	"over": true, "under": true, "after": true, "before": true,
	"into": true, "through": true, "because": true, "these": true,
	"those": true, "some": true, "such": true, "only": true,
	"very": true, "just": true, "also": true, "more": true,
	"most": true, "other": true, "each": true, "both": true,
	"being": true, "does": true, "doing": true, "until": true,
}

// Extract returns up to max distinct keywords from text, ranked by
// descending frequency with ties broken by first occurrence. A max
// of <= 0 means the default of 5.
func Extract(text string, max int) []string {
	if max <= 0 {
		max = defaultMax
	}

	tokens := tokenize(text)

	type entry struct {
		word  string
		count int
		first int
	}
	seen := make(map[string]*entry)
	var order []*entry
	for i, tok := range tokens {
		if len(tok) <= 3 || stopWords[tok] {
			continue
		}
		if e, ok := seen[tok]; ok {
			e.count++
			continue
		}
		e := &entry{word: tok, count: 1, first: i}
		seen[tok] = e
		order = append(order, e)
	}

	sort.SliceStable(order, func(i, j int) bool {
		if order[i].count != order[j].count {
			return order[i].count > order[j].count
		}
		return order[i].first < order[j].first
	})

	if len(order) > max {
		order = order[:max]
	}
	out := make([]string, 0, len(order))
	for _, e := range order {
		out = append(out, e.word)
	}
	return out
}

// tokenize lower-cases, strips punctuation and splits on whitespace
func tokenize(text string) []string {
	var sb strings.Builder
	sb.Grow(len(text))
	for _, r := range strings.ToLower(text) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			sb.WriteRune(r)
		default:
			sb.WriteByte(' ')
		}
	}
	return strings.Fields(sb.String())
}
