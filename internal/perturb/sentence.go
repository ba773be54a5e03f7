package perturb

import (
	"github.com/K0NGR3SS/fraudprobe/internal/rng"
)

// Rephrase applies the first matching rewrite rule of the escape direction to
// every match. Without a match it prepends a polite opener or appends a
// closing phrase, chosen by coin flip.
func (e *Engine) Rephrase(text string) string {
	rules := e.normalToFraud
	if containsAny(text, e.lex.RephraseFraudKeywords) {
		rules = e.fraudToNormal
	}

	result := text
	for _, r := range rules {
		if r.re.MatchString(result) {
			result = r.re.ReplaceAllString(result, r.replace)
			break
		}
	}

	if result == text {
		if rng.Coin(e.rng) {
			result = rng.Choice(e.rng, e.lex.RephrasePrefixes) + result
		} else {
			result = result + rng.Choice(e.rng, e.lex.RephraseSuffixes)
		}
	}
	return result
}

// AddContext prepends a procedural, reassuring context to fraud-looking text
// and an urgent one to everything else.
func (e *Engine) AddContext(text string) string {
	contexts := e.lex.AlarmingContexts
	if containsAny(text, e.lex.ContextFraudKeywords) {
		contexts = e.lex.BenignContexts
	}
	return rng.Choice(e.rng, contexts) + text
}
