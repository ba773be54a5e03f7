package perturb

import (
	"strings"
	"unicode/utf8"

	"github.com/K0NGR3SS/fraudprobe/internal/rng"
)

// Synonym swaps one keyword through the mapping table of the escape
// direction. Text whose fraud keys outnumber its normal keys is treated as
// fraud. Only the first occurrence of the first matching key is replaced.
func (e *Engine) Synonym(text string) string {
	mappings := e.lex.NormalToFraud
	if countKeys(text, e.lex.FraudToNormal) > countKeys(text, e.lex.NormalToFraud) {
		mappings = e.lex.FraudToNormal
	}

	result := text
	for _, m := range mappings {
		if strings.Contains(result, m.From) {
			result = strings.Replace(result, m.From, rng.Choice(e.rng, m.To), 1)
			break
		}
	}

	if result == text {
		result = text + "。"
	}
	return result
}

// RemoveWord deletes every occurrence of the first removable keyword found.
// When nothing was removed, or too little text is left, it deletes the first
// "的" of the original instead. The result is never empty.
func (e *Engine) RemoveWord(text string) string {
	result := text
	for _, word := range e.lex.RemoveWords {
		if strings.Contains(result, word) {
			result = strings.ReplaceAll(result, word, "")
			break
		}
	}
	result = strings.Join(strings.Fields(result), " ")

	if result == text || utf8.RuneCountInString(result) < 3 {
		result = strings.Replace(text, "的", "", 1)
	}
	if result == "" {
		return text + "。"
	}
	return result
}
