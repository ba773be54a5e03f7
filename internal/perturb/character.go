package perturb

import (
	"strings"

	"github.com/K0NGR3SS/fraudprobe/internal/rng"
)

// Typo breaks two-rune target words with a space so substring and pattern
// matches miss them, and swaps exclamation marks for full stops. Text left
// unchanged gets a space at a random interior position.
func (e *Engine) Typo(text string) string {
	result := text
	for _, word := range e.lex.TypoTargets {
		if !strings.Contains(result, word) {
			continue
		}
		runes := []rune(word)
		if len(runes) == 2 {
			result = strings.ReplaceAll(result, word, string(runes[0])+" "+string(runes[1]))
		}
	}

	result = strings.NewReplacer("！", "。", "!", "。").Replace(result)

	if result == text {
		runes := []rune(text)
		if len(runes) > 3 {
			idx := rng.Between(e.rng, 1, len(runes)-2)
			result = string(runes[:idx]) + " " + string(runes[idx:])
		}
	}
	return result
}

// ExtraChar appends a random emoticon, punctuation mark or filler word.
func (e *Engine) ExtraChar(text string) string {
	return text + rng.Choice(e.rng, e.lex.ExtraChars)
}
