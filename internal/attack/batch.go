package attack

import (
	"math"
	"slices"

	"go.uber.org/zap"

	"github.com/K0NGR3SS/fraudprobe/internal/models"
)

// Batch holds results per perturbation type, each in sample order.
type Batch struct {
	Types   []models.PerturbationType
	Results map[models.PerturbationType][]models.AttackResult
}

// Len returns the total number of results.
func (b *Batch) Len() int {
	n := 0
	for _, rs := range b.Results {
		n += len(rs)
	}
	return n
}

// RunBatch attacks every sample with every type, samples outermost. progress,
// when non-nil, is called before each sample.
func (a *Attacker) RunBatch(samples []models.Sample, types []models.PerturbationType, progress func(done, total int)) *Batch {
	if len(types) == 0 {
		types = models.AllPerturbationTypes()
	}

	b := &Batch{
		Types:   append([]models.PerturbationType(nil), types...),
		Results: make(map[models.PerturbationType][]models.AttackResult, len(types)),
	}
	for _, t := range types {
		b.Results[t] = make([]models.AttackResult, 0, len(samples))
	}

	zap.L().Info("attack: starting batch",
		zap.Int("samples", len(samples)),
		zap.Int("types", len(types)))

	for i, s := range samples {
		if progress != nil {
			progress(i, len(samples))
		}
		if i%10 == 0 {
			zap.L().Debug("attack: progress", zap.Int("done", i), zap.Int("total", len(samples)))
		}
		for _, t := range types {
			b.Results[t] = append(b.Results[t], a.Generate(s.Text, s.Label, t))
		}
	}
	return b
}

// Analyze aggregates each type's results in batch order. Types without
// results are skipped.
func Analyze(b *Batch) []models.TypeStats {
	var out []models.TypeStats
	for _, t := range b.Types {
		rs := b.Results[t]
		if len(rs) == 0 {
			continue
		}
		st := models.TypeStats{Type: t, Total: len(rs)}
		var simSum float64
		for _, r := range rs {
			if r.Success {
				st.Successes++
			}
			if r.Changed() {
				st.Changes++
			}
			simSum += r.SimilarityScore
		}
		total := float64(st.Total)
		st.SuccessRate = float64(st.Successes) / total
		st.ChangeRate = float64(st.Changes) / total
		st.AvgSimilarity = simSum / total
		out = append(out, st)
	}
	return out
}

// Best returns the first type with the highest positive success rate.
func Best(stats []models.TypeStats) (models.TypeStats, bool) {
	var best models.TypeStats
	found := false
	for _, st := range stats {
		if st.SuccessRate > best.SuccessRate {
			best = st
			found = true
		}
	}
	return best, found
}

// SuccessExamples returns up to limit successful results of t.
func SuccessExamples(b *Batch, t models.PerturbationType, limit int) []models.AttackResult {
	var out []models.AttackResult
	for _, r := range b.Results[t] {
		if len(out) >= limit {
			break
		}
		if r.Success {
			out = append(out, r)
		}
	}
	return out
}

// Vulnerable returns the indices whose score lies strictly within margin of
// threshold; these are the samples easiest to flip.
func Vulnerable(scores []float64, threshold, margin float64) []int {
	var out []int
	for i, s := range scores {
		if math.Abs(s-threshold) < margin {
			out = append(out, i)
		}
	}
	return out
}

// Prioritize reorders samples so the vulnerable indices come first, keeping
// relative order within both groups.
func Prioritize(samples []models.Sample, vulnerable []int) []models.Sample {
	out := make([]models.Sample, 0, len(samples))
	for _, i := range vulnerable {
		if i >= 0 && i < len(samples) {
			out = append(out, samples[i])
		}
	}
	for i, s := range samples {
		if !slices.Contains(vulnerable, i) {
			out = append(out, s)
		}
	}
	return out
}
