package models

import "github.com/rotisserie/eris"

type Level string

const (
	LevelCharacter Level = "character"
	LevelWord      Level = "word"
	LevelSentence  Level = "sentence"
)

type PerturbationType string

const (
	PerturbTypo       PerturbationType = "typo"        // split alarming terms, soften punctuation
	PerturbExtraChar  PerturbationType = "extra_char"  // append emoticon / filler token
	PerturbSynonym    PerturbationType = "synonym"     // swap keywords through mapping tables
	PerturbRemoveWord PerturbationType = "remove_word" // drop a keyword
	PerturbRephrase   PerturbationType = "rephrase"    // regex rewrite rules
	PerturbAddPrefix  PerturbationType = "add_prefix"  // prepend context
)

// Levels lists granularities in catalog order.
var Levels = []Level{LevelCharacter, LevelWord, LevelSentence}

var catalog = map[Level][]PerturbationType{
	LevelCharacter: {PerturbTypo, PerturbExtraChar},
	LevelWord:      {PerturbSynonym, PerturbRemoveWord},
	LevelSentence:  {PerturbRephrase, PerturbAddPrefix},
}

// TypesOf returns the perturbation types of a granularity.
func TypesOf(level Level) []PerturbationType {
	return append([]PerturbationType(nil), catalog[level]...)
}

// AllPerturbationTypes returns every type in catalog order.
func AllPerturbationTypes() []PerturbationType {
	var out []PerturbationType
	for _, level := range Levels {
		out = append(out, catalog[level]...)
	}
	return out
}

// LevelOf returns the granularity a type belongs to.
func LevelOf(t PerturbationType) (Level, bool) {
	for _, level := range Levels {
		for _, pt := range catalog[level] {
			if pt == t {
				return level, true
			}
		}
	}
	return "", false
}

func ParsePerturbationType(s string) (PerturbationType, error) {
	t := PerturbationType(s)
	if _, ok := LevelOf(t); !ok {
		return "", eris.Errorf("models: unknown perturbation type %q", s)
	}
	return t, nil
}

// AttackResult records one (sample, perturbation type) attempt.
type AttackResult struct {
	OriginalText          string           `json:"original_text" yaml:"original_text"`
	AdversarialText       string           `json:"adversarial_text" yaml:"adversarial_text"`
	PerturbationType      PerturbationType `json:"perturbation_type" yaml:"perturbation_type"`
	OriginalPrediction    Label            `json:"original_prediction" yaml:"original_prediction"`
	AdversarialPrediction Label            `json:"adversarial_prediction" yaml:"adversarial_prediction"`
	SimilarityScore       float64          `json:"similarity_score" yaml:"similarity_score"`
	Success               bool             `json:"success" yaml:"success"`
	Degraded              bool             `json:"degraded,omitempty" yaml:"degraded,omitempty"`
}

// Changed reports whether the perturbation flipped the prediction.
func (r AttackResult) Changed() bool {
	return r.OriginalPrediction != r.AdversarialPrediction
}

// TypeStats aggregates the results of one perturbation type.
type TypeStats struct {
	Type          PerturbationType `json:"type" yaml:"type"`
	Total         int              `json:"total" yaml:"total"`
	Successes     int              `json:"successes" yaml:"successes"`
	Changes       int              `json:"changes" yaml:"changes"`
	SuccessRate   float64          `json:"success_rate" yaml:"success_rate"`
	ChangeRate    float64          `json:"change_rate" yaml:"change_rate"`
	AvgSimilarity float64          `json:"avg_similarity" yaml:"avg_similarity"`
}
