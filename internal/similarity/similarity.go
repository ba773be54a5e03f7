// Package similarity measures how close a perturbed text stays to its
// original using dictionary-segmented token overlap.
package similarity

import (
	"math"
	"unicode/utf8"
)

const maxWordRunes = 4

// Tokenizer segments text by greedy longest match against a fixed dictionary.
// Runes not covered by a 2-4 rune dictionary word become single-rune tokens.
type Tokenizer struct {
	dict map[string]struct{}
}

func NewTokenizer(dictionary []string) *Tokenizer {
	dict := make(map[string]struct{}, len(dictionary))
	for _, w := range dictionary {
		dict[w] = struct{}{}
	}
	return &Tokenizer{dict: dict}
}

func (t *Tokenizer) Tokenize(text string) []string {
	runes := []rune(text)
	var tokens []string
	for i := 0; i < len(runes); {
		matched := false
		for n := maxWordRunes; n > 1; n-- {
			if i+n > len(runes) {
				continue
			}
			word := string(runes[i : i+n])
			if _, ok := t.dict[word]; ok {
				tokens = append(tokens, word)
				i += n
				matched = true
				break
			}
		}
		if !matched {
			tokens = append(tokens, string(runes[i]))
			i++
		}
	}
	return tokens
}

// Jaccard returns |A∩B| / |A∪B| over the token sets of a and b, or 0 when
// either text has no tokens.
func (t *Tokenizer) Jaccard(a, b string) float64 {
	setA := toSet(t.Tokenize(a))
	setB := toSet(t.Tokenize(b))
	if len(setA) == 0 || len(setB) == 0 {
		return 0
	}

	inter := 0
	for tok := range setA {
		if _, ok := setB[tok]; ok {
			inter++
		}
	}
	union := len(setA) + len(setB) - inter
	return float64(inter) / float64(union)
}

func toSet(tokens []string) map[string]struct{} {
	set := make(map[string]struct{}, len(tokens))
	for _, tok := range tokens {
		set[tok] = struct{}{}
	}
	return set
}

// DefaultMaxDiffRatio bounds the length difference, relative to the original,
// at which LengthRatio reaches 0.
const DefaultMaxDiffRatio = 0.3

// LengthRatio scores rune-length closeness as
// 1 - min(1, |orig-aug| / (orig*DefaultMaxDiffRatio)). An empty original scores 0.
func LengthRatio(original, augmented string) float64 {
	origLen := utf8.RuneCountInString(original)
	if origLen == 0 {
		return 0
	}
	augLen := utf8.RuneCountInString(augmented)
	diff := math.Abs(float64(origLen-augLen)) / (float64(origLen) * DefaultMaxDiffRatio)
	return 1 - math.Min(1, diff)
}
