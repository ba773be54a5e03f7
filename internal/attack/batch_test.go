package attack

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/K0NGR3SS/fraudprobe/internal/models"
)

func result(success, changed bool, sim float64) models.AttackResult {
	r := models.AttackResult{SimilarityScore: sim, Success: success}
	if changed {
		r.AdversarialPrediction = models.LabelFraud
	}
	return r
}

func TestAnalyze(t *testing.T) {
	b := &Batch{
		Types: []models.PerturbationType{models.PerturbTypo, models.PerturbSynonym, models.PerturbRephrase},
		Results: map[models.PerturbationType][]models.AttackResult{
			models.PerturbTypo: {
				result(true, true, 0.8),
				result(false, true, 0.2),
				result(false, false, 0.5),
				result(false, false, 0.5),
			},
			models.PerturbSynonym: {
				result(false, false, 1),
			},
		},
	}

	stats := Analyze(b)
	assert.Len(t, stats, 2)

	typo := stats[0]
	assert.Equal(t, models.PerturbTypo, typo.Type)
	assert.Equal(t, 4, typo.Total)
	assert.Equal(t, 1, typo.Successes)
	assert.Equal(t, 2, typo.Changes)
	assert.InDelta(t, 0.25, typo.SuccessRate, 1e-9)
	assert.InDelta(t, 0.5, typo.ChangeRate, 1e-9)
	assert.InDelta(t, 0.5, typo.AvgSimilarity, 1e-9)

	assert.Equal(t, models.PerturbSynonym, stats[1].Type)
	assert.Zero(t, stats[1].SuccessRate)
}

func TestBest(t *testing.T) {
	_, ok := Best(nil)
	assert.False(t, ok)

	_, ok = Best([]models.TypeStats{{Type: models.PerturbTypo}, {Type: models.PerturbSynonym}})
	assert.False(t, ok)

	best, ok := Best([]models.TypeStats{
		{Type: models.PerturbTypo, SuccessRate: 0.2},
		{Type: models.PerturbSynonym, SuccessRate: 0.5},
		{Type: models.PerturbRephrase, SuccessRate: 0.5},
	})
	assert.True(t, ok)
	assert.Equal(t, models.PerturbSynonym, best.Type)
}

func TestSuccessExamples(t *testing.T) {
	b := &Batch{Results: map[models.PerturbationType][]models.AttackResult{
		models.PerturbTypo: {
			{OriginalText: "a", Success: true},
			{OriginalText: "b"},
			{OriginalText: "c", Success: true},
			{OriginalText: "d", Success: true},
		},
	}}

	got := SuccessExamples(b, models.PerturbTypo, 2)
	assert.Len(t, got, 2)
	assert.Equal(t, "a", got[0].OriginalText)
	assert.Equal(t, "c", got[1].OriginalText)
	assert.Empty(t, SuccessExamples(b, models.PerturbSynonym, 3))
}

func TestVulnerable(t *testing.T) {
	scores := []float64{0.05, 0.35, 0.4, 0.55, 0.45, 0.9}
	assert.Equal(t, []int{1, 2, 4}, Vulnerable(scores, 0.4, 0.1))
	assert.Empty(t, Vulnerable(scores, 0.4, 0))
}

func TestPrioritize(t *testing.T) {
	samples := []models.Sample{{Text: "a"}, {Text: "b"}, {Text: "c"}, {Text: "d"}}

	got := Prioritize(samples, []int{2, 0, 9})
	texts := make([]string, len(got))
	for i, s := range got {
		texts[i] = s.Text
	}
	assert.Equal(t, []string{"c", "a", "b", "d"}, texts)
	assert.Len(t, Prioritize(samples, nil), 4)
}
