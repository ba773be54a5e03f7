// Package dataset loads labeled dialogues from CSV or plain-text files and
// synthesizes extra samples from templates.
package dataset

import (
	"bufio"
	"encoding/csv"
	"errors"
	"io"
	"math/rand/v2"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/jszwec/csvutil"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/K0NGR3SS/fraudprobe/internal/lexicon"
	"github.com/K0NGR3SS/fraudprobe/internal/models"
	"github.com/K0NGR3SS/fraudprobe/internal/rng"
)

// minTextRunes is the length a line or cell must exceed to count as a dialogue.
const minTextRunes = 10

type Loader struct {
	lex lexicon.DatasetLexicon
}

func NewLoader(lex lexicon.DatasetLexicon) *Loader {
	return &Loader{lex: lex}
}

type csvRow struct {
	Text  string `csv:"text"`
	Label string `csv:"label"`
}

// Load reads samples from path and, when sampleSize is positive and smaller
// than the file, draws a random subset. Any read failure or an empty file
// yields the built-in examples instead.
func (l *Loader) Load(path string, sampleSize int, r *rand.Rand) []models.Sample {
	samples, err := l.Read(path)
	if err != nil {
		zap.L().Warn("dataset: load failed, using built-in examples",
			zap.String("path", path), zap.Error(err))
		samples = Examples()
	} else if len(samples) == 0 {
		zap.L().Warn("dataset: no samples in file, using built-in examples", zap.String("path", path))
		samples = Examples()
	}

	if sampleSize > 0 && len(samples) > sampleSize {
		samples = rng.Sample(r, samples, sampleSize)
	}

	fraud, normal := Stats(samples)
	zap.L().Info("dataset: loaded",
		zap.Int("samples", len(samples)),
		zap.Int("fraud", fraud),
		zap.Int("normal", normal))
	return samples
}

// Read parses path without any fallback.
func (l *Loader) Read(path string) ([]models.Sample, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrap(err, "dataset: open")
	}
	defer f.Close()

	if strings.EqualFold(filepath.Ext(path), ".csv") {
		return l.readCSV(f)
	}
	return l.readLines(f)
}

func (l *Loader) readCSV(r io.Reader) ([]models.Sample, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrap(err, "dataset: read csv header")
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	if slices.Contains(header, "text") && slices.Contains(header, "label") {
		return l.decodeLabeled(reader, header)
	}
	return l.scanUnlabeled(reader)
}

func (l *Loader) decodeLabeled(reader *csv.Reader, header []string) ([]models.Sample, error) {
	dec, err := csvutil.NewDecoder(reader, header...)
	if err != nil {
		return nil, eris.Wrap(err, "dataset: csv decoder")
	}

	var out []models.Sample
	for {
		var row csvRow
		if err := dec.Decode(&row); err == io.EOF {
			break
		} else if err != nil {
			return nil, eris.Wrapf(err, "dataset: decode row %d", len(out)+2)
		}
		out = append(out, models.Sample{
			Text:   ParseDialog(row.Text),
			Label:  parseLabel(l.lex, row.Label, row.Text),
			Source: models.SourceFile,
		})
	}
	return out, nil
}

// scanUnlabeled takes the first sufficiently long cell of every row.
func (l *Loader) scanUnlabeled(reader *csv.Reader) ([]models.Sample, error) {
	var out []models.Sample
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, eris.Wrap(err, "dataset: read csv row")
		}
		for _, cell := range record {
			if utf8.RuneCountInString(cell) > minTextRunes {
				out = append(out, models.Sample{
					Text:   ParseDialog(cell),
					Label:  ExtractLabel(l.lex, cell),
					Source: models.SourceFile,
				})
				break
			}
		}
	}
	return out, nil
}

func (l *Loader) readLines(r io.Reader) ([]models.Sample, error) {
	var out []models.Sample
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for sc.Scan() {
		line := sc.Text()
		if utf8.RuneCountInString(strings.TrimSpace(line)) <= minTextRunes {
			continue
		}
		out = append(out, models.Sample{
			Text:   ParseDialog(line),
			Label:  ExtractLabel(l.lex, line),
			Source: models.SourceFile,
		})
	}
	if err := sc.Err(); err != nil {
		return nil, eris.Wrap(err, "dataset: scan lines")
	}
	return out, nil
}

// LoadExtended loads path and tops it up with synthetic samples to n, or
// truncates it to n. A non-positive n returns the loaded samples as is.
func (l *Loader) LoadExtended(path string, n int, r *rand.Rand) []models.Sample {
	base := l.Load(path, 0, r)
	if n <= 0 {
		return base
	}
	if len(base) >= n {
		return base[:n]
	}

	synthetic := Synthesize(l.lex, n-len(base), r)
	zap.L().Info("dataset: added synthetic samples",
		zap.Int("original", len(base)),
		zap.Int("synthetic", len(synthetic)))
	return append(base, synthetic...)
}

// LoadCustom loads customPath when it exists and otherwise the extended
// dataset built from defaultPath.
func (l *Loader) LoadCustom(customPath, defaultPath string, n int, r *rand.Rand) []models.Sample {
	if _, err := os.Stat(customPath); err != nil {
		zap.L().Warn("dataset: custom data not found, using extended dataset",
			zap.String("path", customPath))
		return l.LoadExtended(defaultPath, n, r)
	}
	return l.Load(customPath, 0, r)
}

// WriteCSV writes samples with a text,label header.
func WriteCSV(w io.Writer, samples []models.Sample) error {
	cw := csv.NewWriter(w)
	if err := csvutil.NewEncoder(cw).Encode(samples); err != nil {
		return eris.Wrap(err, "dataset: encode csv")
	}
	cw.Flush()
	return eris.Wrap(cw.Error(), "dataset: flush csv")
}
