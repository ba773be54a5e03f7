// Package attack drives perturbations against a classifier and judges whether
// each one flipped the prediction while keeping the text similar enough.
package attack

import (
	"math/rand/v2"
	"strings"
	"unicode/utf8"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/K0NGR3SS/fraudprobe/internal/classifier"
	"github.com/K0NGR3SS/fraudprobe/internal/lexicon"
	"github.com/K0NGR3SS/fraudprobe/internal/models"
	"github.com/K0NGR3SS/fraudprobe/internal/perturb"
	"github.com/K0NGR3SS/fraudprobe/internal/rng"
	"github.com/K0NGR3SS/fraudprobe/internal/similarity"
)

// Options tune success scoring and padding.
type Options struct {
	// MinSimilarity gates success: results below it never count, even when
	// the prediction changed.
	MinSimilarity float64
	// Adversarial text of at most MinLength runes is padded with the filler.
	MinLength int
}

func DefaultOptions() Options {
	return Options{MinSimilarity: 0.3, MinLength: 50}
}

type Attacker struct {
	predictor classifier.Predictor
	engine    *perturb.Engine
	tokenizer *similarity.Tokenizer
	lex       lexicon.AttackLexicon
	rng       *rand.Rand
	opts      Options
}

func New(p classifier.Predictor, engine *perturb.Engine, tok *similarity.Tokenizer, lex lexicon.AttackLexicon, r *rand.Rand, opts Options) *Attacker {
	return &Attacker{
		predictor: p,
		engine:    engine,
		tokenizer: tok,
		lex:       lex,
		rng:       r,
		opts:      opts,
	}
}

func (a *Attacker) Options() Options { return a.opts }

// TypeTargeted marks results of the rule-aware attack.
const TypeTargeted models.PerturbationType = "targeted"

// Generate perturbs text in the direction that escapes label and scores the
// outcome. Classifier failures degrade the result instead of failing it.
func (a *Attacker) Generate(text string, label models.Label, t models.PerturbationType) models.AttackResult {
	return a.evaluate(text, a.perturb(text, label, t), label, t)
}

// GenerateTargeted scores the rule-aware attack the same way Generate scores
// a perturbation type.
func (a *Attacker) GenerateTargeted(text string, label models.Label) models.AttackResult {
	return a.evaluate(text, a.Targeted(text, label), label, TypeTargeted)
}

func (a *Attacker) evaluate(text, adv string, label models.Label, t models.PerturbationType) models.AttackResult {
	if adv == text {
		adv = text + "。"
	}
	if utf8.RuneCountInString(adv) <= a.opts.MinLength {
		adv += a.lex.Filler
	}

	res := models.AttackResult{
		OriginalText:     text,
		AdversarialText:  adv,
		PerturbationType: t,
		SimilarityScore:  a.tokenizer.Jaccard(text, adv),
	}

	orig, err := a.predictOne(text)
	if err == nil {
		res.OriginalPrediction = orig
		res.AdversarialPrediction, err = a.predictOne(adv)
	}
	if err != nil {
		zap.L().Warn("attack: prediction failed, using label and its complement",
			zap.String("type", string(t)), zap.Error(err))
		res.OriginalPrediction = label
		res.AdversarialPrediction = label.Flip()
		res.Degraded = true
	}

	res.Success = res.SimilarityScore >= a.opts.MinSimilarity && res.Changed()
	return res
}

func (a *Attacker) predictOne(text string) (models.Label, error) {
	labels, err := a.predictor.Predict([]string{text})
	if err != nil {
		return 0, eris.Wrap(err, "attack: predict")
	}
	if len(labels) != 1 {
		return 0, eris.Errorf("attack: predictor returned %d labels for 1 text", len(labels))
	}
	return labels[0], nil
}

// perturb picks the rewrite: semantic rewrites for fraud samples, lexical
// insertion for normal samples, the engine's operation for the type's
// granularity otherwise.
func (a *Attacker) perturb(text string, label models.Label, t models.PerturbationType) string {
	switch {
	case label == models.LabelFraud && (t == models.PerturbSynonym || t == models.PerturbRephrase):
		return a.fraudToNormal(text, t)
	case label == models.LabelNormal && (t == models.PerturbTypo || t == models.PerturbAddPrefix):
		return a.normalToFraud(text, t)
	default:
		return a.engine.Apply(text, t)
	}
}

func (a *Attacker) fraudToNormal(text string, t models.PerturbationType) string {
	switch t {
	case models.PerturbSynonym:
		for _, kw := range a.lex.FraudSynonymKeywords {
			if !strings.Contains(text, kw) {
				continue
			}
			if candidates, ok := lexicon.Lookup(a.lex.FraudSynonyms, kw); ok {
				return strings.ReplaceAll(text, kw, rng.Choice(a.rng, candidates))
			}
		}
		return text
	case models.PerturbRephrase:
		return rng.Choice(a.rng, a.lex.BenignPrefixes) + text + rng.Choice(a.rng, a.lex.BenignSuffixes)
	default:
		return text
	}
}

func (a *Attacker) normalToFraud(text string, t models.PerturbationType) string {
	switch t {
	case models.PerturbTypo:
		if rng.Coin(a.rng) {
			return insertAt(text, a.middlePosition(text), a.lex.HiddenKeyword)
		}
		return text
	case models.PerturbAddPrefix:
		result := rng.Choice(a.rng, a.lex.SuspiciousPrefixes) + text
		for _, w := range a.lex.StrippedNormalWords {
			result = strings.ReplaceAll(result, w, "")
		}
		return result
	default:
		return text
	}
}

// middlePosition picks a rune offset between a third and a half of text.
func (a *Attacker) middlePosition(text string) int {
	n := utf8.RuneCountInString(text)
	return rng.Between(a.rng, n/3, n/2)
}

func insertAt(text string, pos int, insert string) string {
	runes := []rune(text)
	if pos > len(runes) {
		pos = len(runes)
	}
	return string(runes[:pos]) + insert + string(runes[pos:])
}
