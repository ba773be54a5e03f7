// Package lexicon holds the keyword, pattern and rewrite tables shared by the
// detector, the dataset loader and the perturbation engine. Tables are plain
// data; callers receive a *Lexicon and never mutate it.
package lexicon

import (
	_ "embed"
	"os"
	"regexp"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultYAML []byte

// Mapping rewrites From into one of To.
type Mapping struct {
	From string   `yaml:"from"`
	To   []string `yaml:"to"`
}

// Rule is a regular-expression rewrite. Replace uses regexp.Expand syntax.
type Rule struct {
	Pattern string `yaml:"pattern"`
	Replace string `yaml:"replace"`
}

// FillerGroup is a named set of template fillers.
type FillerGroup struct {
	Name   string   `yaml:"name"`
	Values []string `yaml:"values"`
}

type ClassifierLexicon struct {
	FraudKeywords  []string `yaml:"fraud_keywords"`
	NormalKeywords []string `yaml:"normal_keywords"`
	FraudPatterns  []string `yaml:"fraud_patterns"`
}

type DatasetLexicon struct {
	LabelFraudKeywords  []string      `yaml:"label_fraud_keywords"`
	LabelNormalKeywords []string      `yaml:"label_normal_keywords"`
	Dictionary          []string      `yaml:"dictionary"`
	FraudTemplates      []string      `yaml:"fraud_templates"`
	NormalTemplates     []string      `yaml:"normal_templates"`
	Fillers             []FillerGroup `yaml:"fillers"`
}

type PerturbLexicon struct {
	TypoTargets           []string  `yaml:"typo_targets"`
	ExtraChars            []string  `yaml:"extra_chars"`
	FraudToNormal         []Mapping `yaml:"fraud_to_normal"`
	NormalToFraud         []Mapping `yaml:"normal_to_fraud"`
	RemoveWords           []string  `yaml:"remove_words"`
	RephraseFraudKeywords []string  `yaml:"rephrase_fraud_keywords"`
	RephraseFraudToNormal []Rule    `yaml:"rephrase_fraud_to_normal"`
	RephraseNormalToFraud []Rule    `yaml:"rephrase_normal_to_fraud"`
	RephrasePrefixes      []string  `yaml:"rephrase_prefixes"`
	RephraseSuffixes      []string  `yaml:"rephrase_suffixes"`
	ContextFraudKeywords  []string  `yaml:"context_fraud_keywords"`
	BenignContexts        []string  `yaml:"benign_contexts"`
	AlarmingContexts      []string  `yaml:"alarming_contexts"`
}

type AttackLexicon struct {
	FraudSynonymKeywords []string  `yaml:"fraud_synonym_keywords"`
	FraudSynonyms        []Mapping `yaml:"fraud_synonyms"`
	BenignPrefixes       []string  `yaml:"benign_prefixes"`
	BenignSuffixes       []string  `yaml:"benign_suffixes"`
	HiddenKeyword        string    `yaml:"hidden_keyword"`
	SuspiciousPrefixes   []string  `yaml:"suspicious_prefixes"`
	StrippedNormalWords  []string  `yaml:"stripped_normal_words"`
	Filler               string    `yaml:"filler"`
	TargetedReplacements []Mapping `yaml:"targeted_replacements"`
	NormalPadding        string    `yaml:"normal_padding"`
	FraudInserts         []string  `yaml:"fraud_inserts"`
	UrgentPrefixes       []string  `yaml:"urgent_prefixes"`
}

// Lexicon is the full set of tables.
type Lexicon struct {
	Classifier ClassifierLexicon `yaml:"classifier"`
	Dataset    DatasetLexicon    `yaml:"dataset"`
	Perturb    PerturbLexicon    `yaml:"perturb"`
	Attack     AttackLexicon     `yaml:"attack"`
}

// Default returns a fresh copy of the embedded tables.
func Default() *Lexicon {
	lex, err := Parse(defaultYAML)
	if err != nil {
		panic("lexicon: embedded default is invalid: " + err.Error())
	}
	return lex
}

// Load reads a lexicon file, or returns the default when path is empty.
func Load(path string) (*Lexicon, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "lexicon: read %s", path)
	}
	return Parse(data)
}

// Parse decodes and validates lexicon YAML.
func Parse(data []byte) (*Lexicon, error) {
	var lex Lexicon
	if err := yaml.Unmarshal(data, &lex); err != nil {
		return nil, eris.Wrap(err, "lexicon: parse")
	}
	if err := lex.Validate(); err != nil {
		return nil, err
	}
	return &lex, nil
}

// Validate checks that every table the engines draw from is populated and
// that every pattern compiles.
func (l *Lexicon) Validate() error {
	required := []struct {
		name string
		size int
	}{
		{"classifier.fraud_keywords", len(l.Classifier.FraudKeywords)},
		{"classifier.normal_keywords", len(l.Classifier.NormalKeywords)},
		{"dataset.dictionary", len(l.Dataset.Dictionary)},
		{"dataset.fraud_templates", len(l.Dataset.FraudTemplates)},
		{"dataset.normal_templates", len(l.Dataset.NormalTemplates)},
		{"dataset.fillers", len(l.Dataset.Fillers)},
		{"perturb.extra_chars", len(l.Perturb.ExtraChars)},
		{"perturb.rephrase_prefixes", len(l.Perturb.RephrasePrefixes)},
		{"perturb.rephrase_suffixes", len(l.Perturb.RephraseSuffixes)},
		{"perturb.benign_contexts", len(l.Perturb.BenignContexts)},
		{"perturb.alarming_contexts", len(l.Perturb.AlarmingContexts)},
		{"attack.benign_prefixes", len(l.Attack.BenignPrefixes)},
		{"attack.benign_suffixes", len(l.Attack.BenignSuffixes)},
		{"attack.suspicious_prefixes", len(l.Attack.SuspiciousPrefixes)},
		{"attack.fraud_inserts", len(l.Attack.FraudInserts)},
		{"attack.urgent_prefixes", len(l.Attack.UrgentPrefixes)},
		{"attack.filler", len(l.Attack.Filler)},
		{"attack.hidden_keyword", len(l.Attack.HiddenKeyword)},
		{"attack.normal_padding", len([]rune(l.Attack.NormalPadding))},
	}
	for _, req := range required {
		if req.size == 0 {
			return eris.Errorf("lexicon: %s is empty", req.name)
		}
	}
	for _, p := range l.Classifier.FraudPatterns {
		if _, err := regexp.Compile(p); err != nil {
			return eris.Wrapf(err, "lexicon: compile pattern %q", p)
		}
	}
	for _, r := range append(append([]Rule(nil), l.Perturb.RephraseFraudToNormal...), l.Perturb.RephraseNormalToFraud...) {
		if _, err := regexp.Compile(r.Pattern); err != nil {
			return eris.Wrapf(err, "lexicon: compile rule %q", r.Pattern)
		}
	}
	for _, group := range [][]Mapping{l.Perturb.FraudToNormal, l.Perturb.NormalToFraud, l.Attack.FraudSynonyms, l.Attack.TargetedReplacements} {
		for _, m := range group {
			if len(m.To) == 0 {
				return eris.Errorf("lexicon: mapping for %q has no candidates", m.From)
			}
		}
	}
	for _, f := range l.Dataset.Fillers {
		if len(f.Values) == 0 {
			return eris.Errorf("lexicon: filler group %q has no values", f.Name)
		}
	}
	return nil
}

// Lookup returns the candidates mapped from word.
func Lookup(mappings []Mapping, word string) ([]string, bool) {
	for _, m := range mappings {
		if m.From == word {
			return m.To, true
		}
	}
	return nil, false
}
