// Package perturb rewrites text at character, word and sentence granularity.
// Rewrites are direction-aware: text that already reads as fraud is pushed
// toward benign wording and benign text toward alarming wording. Every
// operation has a fallback so that most inputs come back changed.
package perturb

import (
	"math/rand/v2"
	"regexp"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/K0NGR3SS/fraudprobe/internal/lexicon"
	"github.com/K0NGR3SS/fraudprobe/internal/models"
)

type rule struct {
	re      *regexp.Regexp
	replace string
}

type Engine struct {
	lex           lexicon.PerturbLexicon
	fraudToNormal []rule
	normalToFraud []rule
	rng           *rand.Rand
}

func NewEngine(lex lexicon.PerturbLexicon, r *rand.Rand) (*Engine, error) {
	if r == nil {
		return nil, eris.New("perturb: nil random source")
	}
	f2n, err := compileRules(lex.RephraseFraudToNormal)
	if err != nil {
		return nil, err
	}
	n2f, err := compileRules(lex.RephraseNormalToFraud)
	if err != nil {
		return nil, err
	}
	return &Engine{lex: lex, fraudToNormal: f2n, normalToFraud: n2f, rng: r}, nil
}

func compileRules(rules []lexicon.Rule) ([]rule, error) {
	out := make([]rule, 0, len(rules))
	for _, r := range rules {
		re, err := regexp.Compile(r.Pattern)
		if err != nil {
			return nil, eris.Wrapf(err, "perturb: compile rule %q", r.Pattern)
		}
		out = append(out, rule{re: re, replace: r.Replace})
	}
	return out, nil
}

// Apply dispatches t to its granularity.
func (e *Engine) Apply(text string, t models.PerturbationType) string {
	level, _ := models.LevelOf(t)
	switch level {
	case models.LevelCharacter:
		return e.Character(text, t)
	case models.LevelWord:
		return e.Word(text, t)
	case models.LevelSentence:
		return e.Sentence(text, t)
	default:
		return text
	}
}

// Character applies a character-level type; other types return text as is.
func (e *Engine) Character(text string, t models.PerturbationType) string {
	switch t {
	case models.PerturbTypo:
		return e.Typo(text)
	case models.PerturbExtraChar:
		return e.ExtraChar(text)
	default:
		return text
	}
}

func (e *Engine) Word(text string, t models.PerturbationType) string {
	switch t {
	case models.PerturbSynonym:
		return e.Synonym(text)
	case models.PerturbRemoveWord:
		return e.RemoveWord(text)
	default:
		return text
	}
}

func (e *Engine) Sentence(text string, t models.PerturbationType) string {
	switch t {
	case models.PerturbRephrase:
		return e.Rephrase(text)
	case models.PerturbAddPrefix:
		return e.AddContext(text)
	default:
		return text
	}
}

func containsAny(text string, words []string) bool {
	for _, w := range words {
		if strings.Contains(text, w) {
			return true
		}
	}
	return false
}

func countKeys(text string, mappings []lexicon.Mapping) int {
	n := 0
	for _, m := range mappings {
		if strings.Contains(text, m.From) {
			n++
		}
	}
	return n
}
