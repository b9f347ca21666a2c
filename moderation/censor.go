// Package moderation masks forbidden words in message content before it
// reaches the conversation log. Matching is accent- and case-insensitive
// and ignores punctuation, so split or disguised words are still caught.
package moderation

import (
	"unicode"

	"chat-hub/errors"

	goahocorasick "github.com/anknown/ahocorasick"
)

type Censor struct {
	matcher     *goahocorasick.Machine
	replacement rune
}

// NewCensor builds an Aho-Corasick automaton over the normalized word
// list. An empty list is refused: a censor that censors nothing is a
// configuration mistake, not a valid setup.
func NewCensor(words []string, replacement rune) (*Censor, error) {
	if len(words) == 0 {
		return nil, errors.ErrEmptyWords
	}

	patterns := make([][]rune, 0, len(words))
	for _, w := range words {
		if p := normalize([]rune(w)); len(p) > 0 {
			patterns = append(patterns, p)
		}
	}
	if len(patterns) == 0 {
		return nil, errors.ErrEmptyWords
	}

	m := new(goahocorasick.Machine)
	if err := m.Build(patterns); err != nil {
		return nil, err
	}
	return &Censor{matcher: m, replacement: replacement}, nil
}

// Apply replaces every matched span with the replacement rune, keeping
// the original length and spacing intact.
func (c *Censor) Apply(text string) string {
	original := []rune(text)
	normalized, origIdx := normalizeMapped(original)
	if len(normalized) == 0 {
		return text
	}

	spans := c.matcher.MultiPatternSearch(normalized, false)
	if len(spans) == 0 {
		return text
	}

	for _, span := range spans {
		start := span.Pos
		end := start + len(span.Word)
		if start < 0 || end > len(origIdx) {
			continue
		}
		for i := origIdx[start]; i <= origIdx[end-1]; i++ {
			original[i] = c.replacement
		}
	}
	return string(original)
}

// normalizeMapped lowercases and strips noise runes while remembering
// where each surviving rune sat in the original text.
func normalizeMapped(input []rune) ([]rune, []int) {
	norm := make([]rune, 0, len(input))
	origIdx := make([]int, 0, len(input))
	for i, r := range input {
		if isNoise(r) {
			continue
		}
		norm = append(norm, unicode.ToLower(r))
		origIdx = append(origIdx, i)
	}
	return norm, origIdx
}

func normalize(input []rune) []rune {
	out, _ := normalizeMapped(input)
	return out
}

func isNoise(r rune) bool {
	return unicode.IsPunct(r) || unicode.IsSpace(r) || unicode.IsSymbol(r)
}
