package report

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/K0NGR3SS/fraudprobe/internal/attack"
	"github.com/K0NGR3SS/fraudprobe/internal/similarity"
)

var sampleHeader = []string{
	"type", "original_prediction", "adversarial_prediction",
	"similarity", "length_ratio", "success", "original_text", "adversarial_text",
}

// WriteSamples dumps every adversarial result as tab-separated rows, types in
// batch order, with the rune-length ratio next to the token similarity. Tabs
// and newlines inside texts are flattened to spaces.
func WriteSamples(w io.Writer, b *attack.Batch) error {
	if _, err := fmt.Fprintln(w, strings.Join(sampleHeader, "\t")); err != nil {
		return eris.Wrap(err, "report: write sample header")
	}
	for _, t := range b.Types {
		for _, r := range b.Results[t] {
			_, err := fmt.Fprintf(w, "%s\t%d\t%d\t%.4f\t%.4f\t%t\t%s\t%s\n",
				r.PerturbationType, r.OriginalPrediction, r.AdversarialPrediction,
				r.SimilarityScore, similarity.LengthRatio(r.OriginalText, r.AdversarialText), r.Success,
				flatten(r.OriginalText), flatten(r.AdversarialText))
			if err != nil {
				return eris.Wrap(err, "report: write sample")
			}
		}
	}
	return nil
}

// WriteSamplesFile writes the dump for runID into dir.
func WriteSamplesFile(dir, runID string, b *attack.Batch) (string, error) {
	path := filepath.Join(dir, fmt.Sprintf("adversarial_%s.tsv", runID))
	f, err := os.Create(path)
	if err != nil {
		return "", eris.Wrapf(err, "report: create %s", path)
	}
	defer f.Close()

	if err := WriteSamples(f, b); err != nil {
		return "", err
	}
	return path, nil
}

var flattener = strings.NewReplacer("\t", " ", "\r\n", " ", "\n", " ", "\r", " ")

func flatten(s string) string {
	return flattener.Replace(s)
}
