package attack

import (
	"strings"
	"unicode/utf8"

	"github.com/K0NGR3SS/fraudprobe/internal/lexicon"
	"github.com/K0NGR3SS/fraudprobe/internal/models"
	"github.com/K0NGR3SS/fraudprobe/internal/rng"
)

const (
	paddingMinRunes = 10
	paddingMaxRunes = 20
	insertMinRunes  = 15
	forcedOpener    = "咨询一下："
	forcedCloser    = "，请问具体怎么操作？谢谢"
)

// Targeted runs the rule-aware attack aimed at the detector's own scoring:
// fraud text loses a fraud phrase and gains normal vocabulary, normal text
// gains a fraud phrase, loses a courtesy word and may get an urgent prefix.
func (a *Attacker) Targeted(text string, label models.Label) string {
	if label == models.LabelFraud {
		return a.targetFraud(text)
	}
	return a.targetNormal(text)
}

func (a *Attacker) targetFraud(text string) string {
	result := a.replaceFirstPresent(text, a.lex.TargetedReplacements)

	padding := []rune(a.lex.NormalPadding)
	n := min(rng.Between(a.rng, paddingMinRunes, paddingMaxRunes), len(padding))
	result += string(padding[:n])

	if result == text {
		result = forcedOpener + text + forcedCloser
	}
	return result
}

func (a *Attacker) targetNormal(text string) string {
	result := text
	if utf8.RuneCountInString(result) > insertMinRunes {
		result = insertAt(result, a.middlePosition(result), rng.Choice(a.rng, a.lex.FraudInserts))
	}

	for _, w := range a.lex.StrippedNormalWords {
		if strings.Contains(result, w) {
			result = strings.ReplaceAll(result, w, "")
			break
		}
	}

	if rng.Coin(a.rng) {
		result = rng.Choice(a.rng, a.lex.UrgentPrefixes) + result
	}
	return result
}

func (a *Attacker) replaceFirstPresent(text string, mappings []lexicon.Mapping) string {
	for _, m := range mappings {
		if strings.Contains(text, m.From) {
			return strings.ReplaceAll(text, m.From, rng.Choice(a.rng, m.To))
		}
	}
	return text
}
