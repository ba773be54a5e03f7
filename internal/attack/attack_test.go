package attack

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/K0NGR3SS/fraudprobe/internal/classifier"
	"github.com/K0NGR3SS/fraudprobe/internal/dataset"
	"github.com/K0NGR3SS/fraudprobe/internal/lexicon"
	"github.com/K0NGR3SS/fraudprobe/internal/models"
	"github.com/K0NGR3SS/fraudprobe/internal/perturb"
	"github.com/K0NGR3SS/fraudprobe/internal/rng"
	"github.com/K0NGR3SS/fraudprobe/internal/similarity"
)

const (
	fraudText  = "恭喜您中奖了请点击链接领取奖品"
	normalText = "客服您好我想查询一下我的订单状态"
)

// stubPredictor answers from a fixed queue, one label per call.
type stubPredictor struct {
	labels []models.Label
	err    error
}

func (s *stubPredictor) Predict(texts []string) ([]models.Label, error) {
	if s.err != nil {
		return nil, s.err
	}
	out := make([]models.Label, len(texts))
	for i := range texts {
		out[i] = s.labels[0]
		s.labels = s.labels[1:]
	}
	return out, nil
}

func newAttacker(t *testing.T, seed uint64, p classifier.Predictor, opts Options) *Attacker {
	t.Helper()
	lex := lexicon.Default()
	r := rng.New(seed)
	if p == nil {
		d, err := classifier.NewDetector(lex.Classifier, classifier.DefaultThreshold, r)
		require.NoError(t, err)
		p = d
	}
	engine, err := perturb.NewEngine(lex.Perturb, r)
	require.NoError(t, err)
	return New(p, engine, similarity.NewTokenizer(lex.Dataset.Dictionary), lex.Attack, r, opts)
}

func TestAddPrefixOnNormalSample(t *testing.T) {
	prefixes := lexicon.Default().Attack.SuspiciousPrefixes

	for seed := uint64(0); seed < 20; seed++ {
		a := newAttacker(t, seed, nil, DefaultOptions())

		rewritten := a.perturb(normalText, models.LabelNormal, models.PerturbAddPrefix)
		prefix := strings.TrimSuffix(rewritten, normalText)
		assert.NotEqual(t, rewritten, prefix, "original must survive as suffix")
		assert.Contains(t, prefixes, prefix)

		res := a.Generate(normalText, models.LabelNormal, models.PerturbAddPrefix)
		assert.True(t, hasAnyPrefix(res.AdversarialText, prefixes))
		assert.Contains(t, res.AdversarialText, normalText)
	}
}

func TestAddPrefixStripsCourtesyWords(t *testing.T) {
	a := newAttacker(t, 1, nil, DefaultOptions())
	out := a.perturb("感谢您的咨询请问还有什么问题", models.LabelNormal, models.PerturbAddPrefix)
	assert.NotContains(t, out, "感谢")
	assert.NotContains(t, out, "咨询")
	assert.NotContains(t, out, "请问")
	assert.True(t, strings.HasSuffix(out, "您的还有什么问题"))
}

func TestSynonymOnFraudSample(t *testing.T) {
	candidates := []string{"获赠", "收到", "获得"}
	for seed := uint64(0); seed < 20; seed++ {
		a := newAttacker(t, seed, nil, DefaultOptions())
		res := a.Generate(fraudText, models.LabelFraud, models.PerturbSynonym)

		assert.NotContains(t, res.AdversarialText, "中奖")
		var hit bool
		for _, c := range candidates {
			if strings.HasPrefix(res.AdversarialText, strings.Replace(fraudText, "中奖", c, 1)) {
				hit = true
			}
		}
		assert.True(t, hit, "got %q", res.AdversarialText)
	}
}

func TestRephraseOnFraudSampleWrapsText(t *testing.T) {
	a := newAttacker(t, 3, nil, DefaultOptions())
	lex := lexicon.Default().Attack

	out := a.perturb(fraudText, models.LabelFraud, models.PerturbRephrase)
	assert.True(t, hasAnyPrefix(out, lex.BenignPrefixes))
	assert.True(t, hasAnySuffix(out, lex.BenignSuffixes))
	assert.Contains(t, out, fraudText)
}

func TestTypoOnNormalSampleHidesKeyword(t *testing.T) {
	inserted := 0
	for seed := uint64(0); seed < 30; seed++ {
		a := newAttacker(t, seed, nil, DefaultOptions())
		out := a.perturb(normalText, models.LabelNormal, models.PerturbTypo)
		if out == normalText {
			continue
		}
		inserted++
		assert.Equal(t, normalText, strings.Replace(out, " 点击 链接 ", "", 1))
	}
	assert.Positive(t, inserted)
}

func TestOtherCombinationsUseGranularityEngine(t *testing.T) {
	a := newAttacker(t, 4, nil, DefaultOptions())
	// fraud + remove_word goes through the word-level engine
	assert.Equal(t, "恭喜您中奖了请链接领取奖品", a.perturb(fraudText, models.LabelFraud, models.PerturbRemoveWord))
	// normal + rephrase goes through the sentence-level engine
	assert.Equal(t, "客服您好我想核实一下我的订单情况", a.perturb(normalText, models.LabelNormal, models.PerturbRephrase))
}

func TestGenerateForcesChangeAndPadsShortText(t *testing.T) {
	a := newAttacker(t, 5, nil, DefaultOptions())
	filler := lexicon.Default().Attack.Filler

	// typo leaves a two-rune text untouched
	res := a.Generate("你好", models.LabelFraud, models.PerturbTypo)
	assert.Equal(t, "你好。"+filler, res.AdversarialText)

	long := strings.Repeat("您的快递已经发货请注意查收", 5)
	res = a.Generate(long, models.LabelFraud, models.PerturbExtraChar)
	assert.False(t, strings.HasSuffix(res.AdversarialText, filler))
	assert.NotEqual(t, long, res.AdversarialText)
}

func TestGenerateDegradesOnClassifierError(t *testing.T) {
	p := &stubPredictor{err: errors.New("model offline")}
	a := newAttacker(t, 6, p, DefaultOptions())

	res := a.Generate(fraudText, models.LabelFraud, models.PerturbSynonym)
	assert.True(t, res.Degraded)
	assert.Equal(t, models.LabelFraud, res.OriginalPrediction)
	assert.Equal(t, models.LabelNormal, res.AdversarialPrediction)
	assert.Equal(t, res.SimilarityScore >= 0.3, res.Success)
}

func TestSuccessGate(t *testing.T) {
	flip := func() *stubPredictor {
		return &stubPredictor{labels: []models.Label{models.LabelNormal, models.LabelFraud}}
	}

	open := newAttacker(t, 7, flip(), Options{MinSimilarity: 0, MinLength: 50})
	res := open.Generate(normalText, models.LabelNormal, models.PerturbAddPrefix)
	assert.True(t, res.Success)

	closed := newAttacker(t, 7, flip(), Options{MinSimilarity: 1.01, MinLength: 50})
	res = closed.Generate(normalText, models.LabelNormal, models.PerturbAddPrefix)
	assert.True(t, res.Changed())
	assert.False(t, res.Success)

	same := &stubPredictor{labels: []models.Label{models.LabelFraud, models.LabelFraud}}
	res = newAttacker(t, 7, same, Options{MinSimilarity: 0, MinLength: 50}).
		Generate(normalText, models.LabelNormal, models.PerturbAddPrefix)
	assert.False(t, res.Success)
}

func TestBatchOverExamples(t *testing.T) {
	a := newAttacker(t, 42, nil, DefaultOptions())
	samples := dataset.Examples()

	var calls []int
	b := a.RunBatch(samples, models.AllPerturbationTypes(), func(done, total int) {
		calls = append(calls, done)
		assert.Equal(t, 6, total)
	})

	assert.Equal(t, 36, b.Len())
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5}, calls)
	for _, pt := range models.AllPerturbationTypes() {
		rs := b.Results[pt]
		require.Len(t, rs, 6)
		for i, r := range rs {
			assert.Equal(t, samples[i].Text, r.OriginalText)
			assert.Equal(t, pt, r.PerturbationType)
			assert.NotEqual(t, r.OriginalText, r.AdversarialText)
		}
	}
}

func TestSuccessInvariantAcrossSeeds(t *testing.T) {
	opts := DefaultOptions()
	for seed := uint64(0); seed < 25; seed++ {
		a := newAttacker(t, seed, nil, opts)
		b := a.RunBatch(dataset.Examples(), nil, nil)
		for _, rs := range b.Results {
			for _, r := range rs {
				assert.GreaterOrEqual(t, r.SimilarityScore, 0.0)
				assert.LessOrEqual(t, r.SimilarityScore, 1.0)
				if r.Success {
					assert.GreaterOrEqual(t, r.SimilarityScore, opts.MinSimilarity)
					assert.NotEqual(t, r.OriginalPrediction, r.AdversarialPrediction)
				}
			}
		}
	}
}

func TestTargetedFraud(t *testing.T) {
	a := newAttacker(t, 8, nil, DefaultOptions())
	padding := []rune(lexicon.Default().Attack.NormalPadding)

	out := a.Targeted(fraudText, models.LabelFraud)
	assert.NotContains(t, out, "点击链接")
	assert.Contains(t, out, string(padding[:10]))
	assert.Greater(t, len([]rune(out)), len([]rune(fraudText))+9)
}

func TestTargetedNormal(t *testing.T) {
	lex := lexicon.Default().Attack
	for seed := uint64(0); seed < 10; seed++ {
		a := newAttacker(t, seed, nil, DefaultOptions())
		out := a.Targeted("感谢您的咨询如果还有其他问题请随时联系我们", models.LabelNormal)

		var inserted bool
		for _, ins := range lex.FraudInserts {
			if strings.Contains(out, ins) {
				inserted = true
			}
		}
		assert.True(t, inserted, "got %q", out)
		assert.NotContains(t, out, "感谢")
	}

	a := newAttacker(t, 1, nil, DefaultOptions())
	short := a.Targeted("你好", models.LabelNormal)
	assert.True(t, short == "你好" || hasAnyPrefix(short, lex.UrgentPrefixes))
}

func TestGenerateTargeted(t *testing.T) {
	a := newAttacker(t, 9, nil, DefaultOptions())
	res := a.GenerateTargeted(fraudText, models.LabelFraud)

	assert.Equal(t, TypeTargeted, res.PerturbationType)
	assert.Equal(t, fraudText, res.OriginalText)
	assert.NotContains(t, res.AdversarialText, "点击链接")
	if res.Success {
		assert.NotEqual(t, res.OriginalPrediction, res.AdversarialPrediction)
	}
}

func hasAnyPrefix(s string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}

func hasAnySuffix(s string, suffixes []string) bool {
	for _, p := range suffixes {
		if strings.HasSuffix(s, p) {
			return true
		}
	}
	return false
}
