// Package report renders experiment summaries and adversarial sample dumps.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/K0NGR3SS/fraudprobe/internal/attack"
	"github.com/K0NGR3SS/fraudprobe/internal/models"
)

const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

var extensions = map[string]string{
	FormatText: "txt",
	FormatJSON: "json",
	FormatYAML: "yaml",
}

// ValidFormat reports whether format can be rendered.
func ValidFormat(format string) bool {
	_, ok := extensions[format]
	return ok
}

// Summary is the outcome of one attack run.
type Summary struct {
	RunID             string                  `json:"run_id" yaml:"run_id"`
	Experiment        string                  `json:"experiment" yaml:"experiment"`
	CreatedAt         time.Time               `json:"created_at" yaml:"created_at"`
	TotalSamples      int                     `json:"total_samples" yaml:"total_samples"`
	FraudSamples      int                     `json:"fraud_samples" yaml:"fraud_samples"`
	NormalSamples     int                     `json:"normal_samples" yaml:"normal_samples"`
	BaselineAccuracy  float64                 `json:"baseline_accuracy" yaml:"baseline_accuracy"`
	VulnerableSamples int                     `json:"vulnerable_samples" yaml:"vulnerable_samples"`
	Stats             []models.TypeStats      `json:"stats" yaml:"stats"`
	Best              models.PerturbationType `json:"best_type,omitempty" yaml:"best_type,omitempty"`
	BestRate          float64                 `json:"best_rate" yaml:"best_rate"`
}

// New builds the summary of a run over samples and assigns it a fresh run ID.
func New(experiment string, samples []models.Sample, baselineAccuracy float64, vulnerable int, stats []models.TypeStats) *Summary {
	s := &Summary{
		RunID:             uuid.NewString(),
		Experiment:        experiment,
		CreatedAt:         time.Now().UTC(),
		TotalSamples:      len(samples),
		BaselineAccuracy:  baselineAccuracy,
		VulnerableSamples: vulnerable,
		Stats:             stats,
	}
	for _, smp := range samples {
		if smp.Label == models.LabelFraud {
			s.FraudSamples++
		} else {
			s.NormalSamples++
		}
	}
	s.SetBest()
	return s
}

// SetBest records the best type from Stats; an empty Best means no type
// succeeded.
func (s *Summary) SetBest() {
	best, ok := attack.Best(s.Stats)
	if !ok {
		s.Best, s.BestRate = "", 0
		return
	}
	s.Best, s.BestRate = best.Type, best.SuccessRate
}

// Write renders s to w in format.
func Write(w io.Writer, s *Summary, format string) error {
	switch format {
	case FormatText:
		return writeText(w, s)
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return eris.Wrap(enc.Encode(s), "report: encode json")
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(s); err != nil {
			return eris.Wrap(err, "report: encode yaml")
		}
		return eris.Wrap(enc.Close(), "report: close yaml encoder")
	default:
		return eris.Errorf("report: unknown format %q", format)
	}
}

func writeText(w io.Writer, s *Summary) error {
	var b strings.Builder
	fmt.Fprintf(&b, "%s report (samples: %d)\n", s.Experiment, s.TotalSamples)
	b.WriteString(strings.Repeat("=", 60) + "\n")
	fmt.Fprintf(&b, "Run: %s\n", s.RunID)
	fmt.Fprintf(&b, "Total samples: %d (fraud %d, normal %d)\n", s.TotalSamples, s.FraudSamples, s.NormalSamples)
	fmt.Fprintf(&b, "Baseline accuracy: %.4f\n", s.BaselineAccuracy)
	fmt.Fprintf(&b, "Vulnerable samples: %d\n\n", s.VulnerableSamples)

	b.WriteString("Results by perturbation type:\n")
	for _, st := range s.Stats {
		fmt.Fprintf(&b, "  %s: success_rate=%.4f, change_rate=%.4f, successes=%d/%d\n",
			st.Type, st.SuccessRate, st.ChangeRate, st.Successes, st.Total)
	}

	if s.Best != "" {
		fmt.Fprintf(&b, "\nBest attack method: %s (success rate: %.4f)\n", s.Best, s.BestRate)
	} else {
		b.WriteString("\nBest attack method: none (no perturbation succeeded)\n")
	}

	_, err := io.WriteString(w, b.String())
	return eris.Wrap(err, "report: write text")
}

// FileName is the report file name for a run over n samples.
func FileName(n int, format string) string {
	return fmt.Sprintf("optimized_results_%dsamples.%s", n, extensions[format])
}

// WriteFile writes s into dir and returns the path written.
func WriteFile(dir string, s *Summary, format string) (string, error) {
	if !ValidFormat(format) {
		return "", eris.Errorf("report: unknown format %q", format)
	}
	path := filepath.Join(dir, FileName(s.TotalSamples, format))

	f, err := os.Create(path)
	if err != nil {
		return "", eris.Wrapf(err, "report: create %s", path)
	}
	defer f.Close()

	if err := Write(f, s, format); err != nil {
		return "", err
	}
	return path, eris.Wrapf(f.Sync(), "report: sync %s", path)
}
