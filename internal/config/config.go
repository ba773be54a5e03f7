package config

import (
	"errors"
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"

	"github.com/K0NGR3SS/fraudprobe/internal/models"
)

// Config holds the full application configuration.
type Config struct {
	Experiment ExperimentConfig `yaml:"experiment" mapstructure:"experiment"`
	Data       DataConfig       `yaml:"data" mapstructure:"data"`
	Model      ModelConfig      `yaml:"model" mapstructure:"model"`
	Attack     AttackConfig     `yaml:"attack" mapstructure:"attack"`
	Lexicon    LexiconConfig    `yaml:"lexicon" mapstructure:"lexicon"`
	Output     OutputConfig     `yaml:"output" mapstructure:"output"`
	Log        LogConfig        `yaml:"log" mapstructure:"log"`
	Store      StoreConfig      `yaml:"store" mapstructure:"store"`
	Slack      SlackConfig      `yaml:"slack" mapstructure:"slack"`
}

type ExperimentConfig struct {
	Name            string `yaml:"name" mapstructure:"name"`
	Seed            uint64 `yaml:"seed" mapstructure:"seed"`
	SampleSize      int    `yaml:"sample_size" mapstructure:"sample_size"`
	SampleSizeSmall int    `yaml:"sample_size_small" mapstructure:"sample_size_small"`
}

// DataConfig locates the dialog datasets.
type DataConfig struct {
	Path       string `yaml:"path" mapstructure:"path"`
	CustomPath string `yaml:"custom_path" mapstructure:"custom_path"`
	UseCustom  bool   `yaml:"use_custom" mapstructure:"use_custom"`
}

type ModelConfig struct {
	Threshold float64 `yaml:"threshold" mapstructure:"threshold"`
}

// AttackConfig tunes success scoring and lists the perturbation types per
// granularity.
type AttackConfig struct {
	MinSimilarity     float64             `yaml:"min_similarity" mapstructure:"min_similarity"`
	MinLength         int                 `yaml:"min_length" mapstructure:"min_length"`
	VulnerableMargin  float64             `yaml:"vulnerable_margin" mapstructure:"vulnerable_margin"`
	PerturbationTypes map[string][]string `yaml:"perturbation_types" mapstructure:"perturbation_types"`
}

// LexiconConfig points at a replacement lexicon file; empty uses the
// embedded one.
type LexiconConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

type OutputConfig struct {
	Dir            string `yaml:"dir" mapstructure:"dir"`
	AdversarialDir string `yaml:"adversarial_dir" mapstructure:"adversarial_dir"`
	LogsDir        string `yaml:"logs_dir" mapstructure:"logs_dir"`
	Format         string `yaml:"format" mapstructure:"format"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// StoreConfig enables run history when Path is set.
type StoreConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

type SlackConfig struct {
	WebhookURL string `yaml:"webhook_url" mapstructure:"webhook_url"`
	Channel    string `yaml:"channel" mapstructure:"channel"`
}

var outputFormats = map[string]bool{"text": true, "json": true, "yaml": true}

// Load reads configuration from file and environment. An empty path looks
// for fraudprobe.yaml in the working directory and tolerates its absence.
func Load(path string) (*Config, error) {
	v := viper.New()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("fraudprobe")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("FRAUDPROBE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("experiment.name", "PromptAttack_Fraud_Detection_Extended")
	v.SetDefault("experiment.seed", 42)
	v.SetDefault("experiment.sample_size", 100)
	v.SetDefault("experiment.sample_size_small", 50)
	v.SetDefault("data.path", "./data/fraud_dialog_dataset.csv")
	v.SetDefault("data.custom_path", "./data/custom_fraud_data.csv")
	v.SetDefault("data.use_custom", false)
	v.SetDefault("model.threshold", 0.4)
	v.SetDefault("attack.min_similarity", 0.3)
	v.SetDefault("attack.min_length", 50)
	v.SetDefault("attack.vulnerable_margin", 0.1)
	v.SetDefault("attack.perturbation_types", map[string][]string{
		string(models.LevelCharacter): typeNames(models.LevelCharacter),
		string(models.LevelWord):      typeNames(models.LevelWord),
		string(models.LevelSentence):  typeNames(models.LevelSentence),
	})
	v.SetDefault("lexicon.path", "")
	v.SetDefault("output.dir", "./results")
	v.SetDefault("output.adversarial_dir", "./results/adversarial_samples")
	v.SetDefault("output.logs_dir", "./results/logs")
	v.SetDefault("output.format", "text")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("store.path", "")
	v.SetDefault("slack.webhook_url", "")
	v.SetDefault("slack.channel", "")
}

func typeNames(level models.Level) []string {
	types := models.TypesOf(level)
	out := make([]string, len(types))
	for i, t := range types {
		out[i] = string(t)
	}
	return out
}

func (c *Config) Validate() error {
	if c.Model.Threshold < 0 || c.Model.Threshold > 1 {
		return eris.Errorf("invalid model.threshold: %v", c.Model.Threshold)
	}
	if c.Attack.MinSimilarity < 0 || c.Attack.MinSimilarity > 1 {
		return eris.Errorf("invalid attack.min_similarity: %v", c.Attack.MinSimilarity)
	}
	if !outputFormats[c.Output.Format] {
		return eris.Errorf("invalid output.format: %s", c.Output.Format)
	}
	if c.Attack.MinLength < 0 {
		return eris.Errorf("invalid attack.min_length: %d", c.Attack.MinLength)
	}
	if c.Attack.VulnerableMargin < 0 {
		return eris.Errorf("invalid attack.vulnerable_margin: %v", c.Attack.VulnerableMargin)
	}
	if c.Experiment.SampleSize <= 0 {
		return eris.Errorf("invalid experiment.sample_size: %d", c.Experiment.SampleSize)
	}
	if _, err := c.PerturbationTypes(); err != nil {
		return err
	}
	return nil
}

// PerturbationTypes flattens the configured types in granularity order
// (character, word, sentence), keeping the listed order within each level.
func (c *Config) PerturbationTypes() ([]models.PerturbationType, error) {
	for level := range c.Attack.PerturbationTypes {
		if !knownLevel(level) {
			return nil, eris.Errorf("invalid attack.perturbation_types level: %s", level)
		}
	}

	var out []models.PerturbationType
	for _, level := range models.Levels {
		for _, name := range c.Attack.PerturbationTypes[string(level)] {
			t, err := models.ParsePerturbationType(name)
			if err != nil {
				return nil, eris.Wrap(err, "config: attack.perturbation_types")
			}
			if got, _ := models.LevelOf(t); got != level {
				return nil, eris.Errorf("config: %s is not a %s perturbation", t, level)
			}
			out = append(out, t)
		}
	}
	return out, nil
}

func knownLevel(level string) bool {
	for _, l := range models.Levels {
		if string(l) == level {
			return true
		}
	}
	return false
}

// CreateDirs makes the output directories.
func (c *Config) CreateDirs() error {
	for _, dir := range []string{c.Output.Dir, c.Output.AdversarialDir, c.Output.LogsDir} {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return eris.Wrapf(err, "config: create %s", dir)
		}
	}
	return nil
}
