package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/K0NGR3SS/fraudprobe/internal/models"
)

func chdirTemp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })
	return dir
}

func TestLoadDefaults(t *testing.T) {
	chdirTemp(t)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "PromptAttack_Fraud_Detection_Extended", cfg.Experiment.Name)
	assert.Equal(t, uint64(42), cfg.Experiment.Seed)
	assert.Equal(t, 100, cfg.Experiment.SampleSize)
	assert.Equal(t, 50, cfg.Experiment.SampleSizeSmall)
	assert.Equal(t, "./data/fraud_dialog_dataset.csv", cfg.Data.Path)
	assert.Equal(t, "./data/custom_fraud_data.csv", cfg.Data.CustomPath)
	assert.False(t, cfg.Data.UseCustom)
	assert.InDelta(t, 0.4, cfg.Model.Threshold, 0.001)
	assert.InDelta(t, 0.3, cfg.Attack.MinSimilarity, 0.001)
	assert.Equal(t, 50, cfg.Attack.MinLength)
	assert.InDelta(t, 0.1, cfg.Attack.VulnerableMargin, 0.001)
	assert.Equal(t, "./results", cfg.Output.Dir)
	assert.Equal(t, "text", cfg.Output.Format)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Empty(t, cfg.Store.Path)
	assert.Empty(t, cfg.Slack.WebhookURL)
	assert.Empty(t, cfg.Lexicon.Path)

	types, err := cfg.PerturbationTypes()
	require.NoError(t, err)
	assert.Equal(t, models.AllPerturbationTypes(), types)
	assert.NoError(t, cfg.Validate())
}

func TestLoadFromYAML(t *testing.T) {
	dir := chdirTemp(t)

	yaml := `
experiment:
  seed: 7
  sample_size: 20
model:
  threshold: 0.5
attack:
  perturbation_types:
    character: [typo]
    sentence: [add_prefix]
log:
  level: debug
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "fraudprobe.yaml"), []byte(yaml), 0644))

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, uint64(7), cfg.Experiment.Seed)
	assert.Equal(t, 20, cfg.Experiment.SampleSize)
	assert.InDelta(t, 0.5, cfg.Model.Threshold, 0.001)
	assert.Equal(t, "debug", cfg.Log.Level)
	// Defaults still apply for unset values
	assert.Equal(t, "./results", cfg.Output.Dir)

	types, err := cfg.PerturbationTypes()
	require.NoError(t, err)
	assert.Contains(t, types, models.PerturbTypo)
	assert.Contains(t, types, models.PerturbAddPrefix)
	assert.NotContains(t, types, models.PerturbExtraChar)
}

func TestLoadExplicitPath(t *testing.T) {
	dir := chdirTemp(t)
	path := filepath.Join(dir, "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte("output:\n  format: json\n"), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "json", cfg.Output.Format)

	_, err = Load(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}

func TestLoadMalformedFile(t *testing.T) {
	dir := chdirTemp(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "fraudprobe.yaml"), []byte("model: [unclosed"), 0644))

	_, err := Load("")
	assert.Error(t, err)
}

func TestLoadEnvOverrides(t *testing.T) {
	chdirTemp(t)
	t.Setenv("FRAUDPROBE_MODEL_THRESHOLD", "0.55")
	t.Setenv("FRAUDPROBE_EXPERIMENT_SEED", "9")
	t.Setenv("FRAUDPROBE_OUTPUT_FORMAT", "yaml")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.InDelta(t, 0.55, cfg.Model.Threshold, 0.001)
	assert.Equal(t, uint64(9), cfg.Experiment.Seed)
	assert.Equal(t, "yaml", cfg.Output.Format)
}

func validConfig(t *testing.T) *Config {
	t.Helper()
	chdirTemp(t)
	cfg, err := Load("")
	require.NoError(t, err)
	return cfg
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"threshold above one", func(c *Config) { c.Model.Threshold = 1.5 }, "model.threshold"},
		{"negative threshold", func(c *Config) { c.Model.Threshold = -0.1 }, "model.threshold"},
		{"min similarity", func(c *Config) { c.Attack.MinSimilarity = 2 }, "attack.min_similarity"},
		{"format", func(c *Config) { c.Output.Format = "xml" }, "output.format"},
		{"sample size", func(c *Config) { c.Experiment.SampleSize = 0 }, "experiment.sample_size"},
		{"min length", func(c *Config) { c.Attack.MinLength = -1 }, "attack.min_length"},
		{"vulnerable margin", func(c *Config) { c.Attack.VulnerableMargin = -0.1 }, "attack.vulnerable_margin"},
		{"unknown type", func(c *Config) {
			c.Attack.PerturbationTypes = map[string][]string{"word": {"paraphrase"}}
		}, "perturbation"},
		{"unknown level", func(c *Config) {
			c.Attack.PerturbationTypes = map[string][]string{"paragraph": {"typo"}}
		}, "level"},
		{"type under wrong level", func(c *Config) {
			c.Attack.PerturbationTypes = map[string][]string{"word": {"typo"}}
		}, "not a word perturbation"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig(t)
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestCreateDirs(t *testing.T) {
	dir := t.TempDir()
	cfg := &Config{Output: OutputConfig{
		Dir:            filepath.Join(dir, "results"),
		AdversarialDir: filepath.Join(dir, "results", "adversarial_samples"),
		LogsDir:        filepath.Join(dir, "results", "logs"),
	}}
	require.NoError(t, cfg.CreateDirs())

	for _, d := range []string{cfg.Output.Dir, cfg.Output.AdversarialDir, cfg.Output.LogsDir} {
		info, err := os.Stat(d)
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	}
}

func TestInitLogger(t *testing.T) {
	t.Cleanup(func() { zap.ReplaceGlobals(zap.NewNop()) })

	require.NoError(t, InitLogger(LogConfig{Level: "debug", Format: "console"}))
	assert.True(t, zap.L().Core().Enabled(zap.DebugLevel))

	require.NoError(t, InitLogger(LogConfig{Level: "warn", Format: "json"}))
	assert.False(t, zap.L().Core().Enabled(zap.InfoLevel))

	assert.Error(t, InitLogger(LogConfig{Level: "loud", Format: "json"}))
}
