// Package classifier implements the rule-based fraud-dialog detector under
// attack. Scores include a random term drawn from an injected generator, so a
// detector is reproducible only for a given seed and call order.
package classifier

import (
	"math/rand/v2"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/rotisserie/eris"

	"github.com/K0NGR3SS/fraudprobe/internal/lexicon"
	"github.com/K0NGR3SS/fraudprobe/internal/models"
)

// DefaultThreshold is the score above which text is labeled fraud.
const DefaultThreshold = 0.4

// Component weights of the fraud score.
const (
	keywordHit     = 0.2
	patternHit     = 0.15
	normalHit      = 0.4
	longTextScore  = 0.2
	shortTextScore = 0.6
	exclaimScore   = 0.2
	longTextRunes  = 50
	randomSpread   = 0.2

	keywordWeight = 0.2
	patternWeight = 0.2
	lengthWeight  = 0.15
	exclaimWeight = 0.1
	normalWeight  = 0.35
)

// Predictor labels texts. The attack orchestrator depends only on this.
type Predictor interface {
	Predict(texts []string) ([]models.Label, error)
}

// Proba is a (normal, fraud) probability pair.
type Proba struct {
	Normal float64 `json:"normal"`
	Fraud  float64 `json:"fraud"`
}

// Evaluation summarises accuracy over labeled samples.
type Evaluation struct {
	Accuracy    float64        `json:"accuracy"`
	Predictions []models.Label `json:"predictions"`
	Scores      []float64      `json:"scores"`
	Correct     int            `json:"correct_count"`
	Total       int            `json:"total_count"`
}

type Detector struct {
	fraudKeywords  []string
	normalKeywords []string
	patterns       []*regexp.Regexp
	threshold      float64
	rng            *rand.Rand
}

func NewDetector(lex lexicon.ClassifierLexicon, threshold float64, rng *rand.Rand) (*Detector, error) {
	if threshold < 0 || threshold > 1 {
		return nil, eris.Errorf("classifier: threshold %.2f outside [0,1]", threshold)
	}
	if rng == nil {
		return nil, eris.New("classifier: nil random source")
	}

	patterns := make([]*regexp.Regexp, 0, len(lex.FraudPatterns))
	for _, p := range lex.FraudPatterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, eris.Wrapf(err, "classifier: compile pattern %q", p)
		}
		patterns = append(patterns, re)
	}

	return &Detector{
		fraudKeywords:  append([]string(nil), lex.FraudKeywords...),
		normalKeywords: append([]string(nil), lex.NormalKeywords...),
		patterns:       patterns,
		threshold:      threshold,
		rng:            rng,
	}, nil
}

func (d *Detector) Threshold() float64 { return d.threshold }

// Score returns the fraud-likeness of text clamped to [0,1]. Each call
// consumes one value from the random source.
func (d *Detector) Score(text string) float64 {
	keyword := 0.0
	for _, kw := range d.fraudKeywords {
		if strings.Contains(text, kw) {
			keyword += keywordHit
		}
	}

	pattern := 0.0
	for _, re := range d.patterns {
		if re.MatchString(text) {
			pattern += patternHit
		}
	}

	normal := 0.0
	for _, kw := range d.normalKeywords {
		if strings.Contains(text, kw) {
			normal += normalHit
		}
	}

	length := shortTextScore
	if utf8.RuneCountInString(text) > longTextRunes {
		length = longTextScore
	}

	exclaim := 0.0
	if strings.ContainsAny(text, "!！") {
		exclaim = exclaimScore
	}

	noise := -randomSpread + 2*randomSpread*d.rng.Float64()

	total := keyword*keywordWeight +
		pattern*patternWeight +
		length*lengthWeight +
		exclaim*exclaimWeight -
		normal*normalWeight +
		noise

	return min(max(total, 0), 1)
}

func (d *Detector) label(score float64) models.Label {
	if score > d.threshold {
		return models.LabelFraud
	}
	return models.LabelNormal
}

// Predict returns one label per text.
func (d *Detector) Predict(texts []string) ([]models.Label, error) {
	out := make([]models.Label, len(texts))
	for i, text := range texts {
		out[i] = d.label(d.Score(text))
	}
	return out, nil
}

func (d *Detector) PredictProba(texts []string) ([]Proba, error) {
	out := make([]Proba, len(texts))
	for i, text := range texts {
		fraud := d.Score(text)
		out[i] = Proba{Normal: 1 - fraud, Fraud: fraud}
	}
	return out, nil
}

// Evaluate scores every sample once and reports accuracy against its label.
func (d *Detector) Evaluate(samples []models.Sample) Evaluation {
	ev := Evaluation{
		Predictions: make([]models.Label, len(samples)),
		Scores:      make([]float64, len(samples)),
		Total:       len(samples),
	}
	for i, s := range samples {
		score := d.Score(s.Text)
		ev.Scores[i] = score
		ev.Predictions[i] = d.label(score)
		if ev.Predictions[i] == s.Label {
			ev.Correct++
		}
	}
	if ev.Total > 0 {
		ev.Accuracy = float64(ev.Correct) / float64(ev.Total)
	}
	return ev
}
