package commands

import (
	"math/rand/v2"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/K0NGR3SS/fraudprobe/internal/attack"
	"github.com/K0NGR3SS/fraudprobe/internal/classifier"
	"github.com/K0NGR3SS/fraudprobe/internal/config"
	"github.com/K0NGR3SS/fraudprobe/internal/dataset"
	"github.com/K0NGR3SS/fraudprobe/internal/lexicon"
	"github.com/K0NGR3SS/fraudprobe/internal/models"
	"github.com/K0NGR3SS/fraudprobe/internal/perturb"
	"github.com/K0NGR3SS/fraudprobe/internal/rng"
	"github.com/K0NGR3SS/fraudprobe/internal/similarity"
)

// runtime wires one run's components around a single seeded generator.
type runtime struct {
	rng      *rand.Rand
	loader   *dataset.Loader
	detector *classifier.Detector
	attacker *attack.Attacker
}

func newRuntime(c *config.Config, seed uint64, threshold, minSimilarity float64) (*runtime, error) {
	lex, err := lexicon.Load(c.Lexicon.Path)
	if err != nil {
		return nil, err
	}

	r := rng.New(seed)
	detector, err := classifier.NewDetector(lex.Classifier, threshold, r)
	if err != nil {
		return nil, err
	}
	engine, err := perturb.NewEngine(lex.Perturb, r)
	if err != nil {
		return nil, err
	}
	opts := attack.Options{MinSimilarity: minSimilarity, MinLength: c.Attack.MinLength}
	attacker := attack.New(detector, engine, similarity.NewTokenizer(lex.Dataset.Dictionary), lex.Attack, r, opts)

	zap.L().Debug("runtime ready",
		zap.Uint64("seed", seed),
		zap.Float64("threshold", threshold),
		zap.Float64("min_similarity", minSimilarity))

	return &runtime{
		rng:      r,
		loader:   dataset.NewLoader(lex.Dataset),
		detector: detector,
		attacker: attacker,
	}, nil
}

// runtimeFromFlags applies the --seed, --threshold and --min-similarity
// overrides a command registered with addRuntimeFlags.
func runtimeFromFlags(cmd *cobra.Command) (*runtime, error) {
	seed := cfg.Experiment.Seed
	if cmd.Flags().Changed("seed") {
		seed, _ = cmd.Flags().GetUint64("seed")
	}
	threshold := cfg.Model.Threshold
	if cmd.Flags().Changed("threshold") {
		threshold, _ = cmd.Flags().GetFloat64("threshold")
	}
	minSim := cfg.Attack.MinSimilarity
	if cmd.Flags().Changed("min-similarity") {
		minSim, _ = cmd.Flags().GetFloat64("min-similarity")
	}
	if threshold < 0 || threshold > 1 {
		return nil, eris.Errorf("--threshold must be within [0, 1], got %v", threshold)
	}
	if minSim < 0 || minSim > 1 {
		return nil, eris.Errorf("--min-similarity must be within [0, 1], got %v", minSim)
	}
	return newRuntime(cfg, seed, threshold, minSim)
}

func addRuntimeFlags(cmd *cobra.Command) {
	cmd.Flags().Uint64("seed", 0, "random seed (default experiment.seed)")
	cmd.Flags().Float64("threshold", 0, "fraud decision threshold (default model.threshold)")
	cmd.Flags().Float64("min-similarity", 0, "similarity a successful attack must keep (default attack.min_similarity)")
}

// loadSamples picks the dataset mode from --custom, --extended and --data.
func loadSamples(cmd *cobra.Command, rt *runtime) ([]models.Sample, error) {
	path := cfg.Data.Path
	if cmd.Flags().Changed("data") {
		path, _ = cmd.Flags().GetString("data")
	}
	n := cfg.Experiment.SampleSize
	if cmd.Flags().Changed("samples") {
		n, _ = cmd.Flags().GetInt("samples")
		if n <= 0 {
			return nil, eris.Errorf("--samples must be positive, got %d", n)
		}
	}
	custom, _ := cmd.Flags().GetBool("custom")
	extended, _ := cmd.Flags().GetBool("extended")

	switch {
	case custom || cfg.Data.UseCustom:
		return rt.loader.LoadCustom(cfg.Data.CustomPath, path, n, rt.rng), nil
	case extended:
		return rt.loader.LoadExtended(path, n, rt.rng), nil
	default:
		return rt.loader.Load(path, n, rt.rng), nil
	}
}

func addDataFlags(cmd *cobra.Command) {
	cmd.Flags().String("data", "", "dataset path (default data.path)")
	cmd.Flags().IntP("samples", "n", 0, "number of samples (default experiment.sample_size)")
	cmd.Flags().Bool("extended", false, "top the dataset up with synthetic samples")
	cmd.Flags().Bool("custom", false, "use data.custom_path when it exists")
}
