package dataset

import (
	"math/rand/v2"
	"strings"

	"github.com/K0NGR3SS/fraudprobe/internal/lexicon"
	"github.com/K0NGR3SS/fraudprobe/internal/models"
	"github.com/K0NGR3SS/fraudprobe/internal/rng"
)

const placeholder = "{}"

// Synthesize generates n template samples, half fraud (rounded down) and the
// rest normal. Each placeholder takes a random value from a random filler group.
func Synthesize(lex lexicon.DatasetLexicon, n int, r *rand.Rand) []models.Sample {
	if n <= 0 {
		return nil
	}
	numFraud := n / 2
	out := make([]models.Sample, 0, n)
	for i := 0; i < numFraud; i++ {
		out = append(out, models.Sample{
			Text:   fillTemplate(lex, rng.Choice(r, lex.FraudTemplates), r),
			Label:  models.LabelFraud,
			Source: models.SourceSynthetic,
		})
	}
	for i := numFraud; i < n; i++ {
		out = append(out, models.Sample{
			Text:   fillTemplate(lex, rng.Choice(r, lex.NormalTemplates), r),
			Label:  models.LabelNormal,
			Source: models.SourceSynthetic,
		})
	}
	return out
}

// fillTemplate replaces only the placeholders of template itself; braces
// inside filler values are left as they are.
func fillTemplate(lex lexicon.DatasetLexicon, template string, r *rand.Rand) string {
	text := template
	for range strings.Count(template, placeholder) {
		group := rng.Choice(r, lex.Fillers)
		text = strings.Replace(text, placeholder, rng.Choice(r, group.Values), 1)
	}
	return text
}
