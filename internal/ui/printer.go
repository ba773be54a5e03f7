// Package ui renders experiment output on the console.
package ui

import (
	"fmt"
	"strconv"
	"unicode/utf8"

	"github.com/pterm/pterm"

	"github.com/K0NGR3SS/fraudprobe/internal/attack"
	"github.com/K0NGR3SS/fraudprobe/internal/classifier"
	"github.com/K0NGR3SS/fraudprobe/internal/models"
	"github.com/K0NGR3SS/fraudprobe/internal/report"
	"github.com/K0NGR3SS/fraudprobe/internal/store"
)

const (
	previewRunes    = 30
	exampleRunes    = 50
	exampleTypes    = 3
	examplesPerType = 2
)

// PrintBaseline shows the baseline accuracy and the first limit samples.
func PrintBaseline(samples []models.Sample, eval *classifier.Evaluation, limit int) {
	pterm.DefaultSection.Println("Baseline")
	pterm.Info.Printf("Accuracy: %.4f (%d/%d)\n", eval.Accuracy, eval.Correct, eval.Total)

	data := [][]string{{"#", "Label", "Predicted", "Score", "Text"}}
	for i, s := range samples {
		if i >= limit {
			break
		}
		pred := labelStyle(eval.Predictions[i])
		if eval.Predictions[i] != s.Label {
			pred += pterm.FgRed.Sprint(" ✗")
		}
		data = append(data, []string{
			strconv.Itoa(i + 1),
			labelStyle(s.Label),
			pred,
			fmt.Sprintf("%.3f", eval.Scores[i]),
			Truncate(s.Text, previewRunes),
		})
	}
	_ = pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}

// PrintResults shows per-type success and change rates.
func PrintResults(stats []models.TypeStats) {
	pterm.DefaultSection.Println("Attack results")
	if len(stats) == 0 {
		pterm.Warning.Println("No perturbation types were run.")
		return
	}

	data := [][]string{{"Type", "Level", "Success", "Success rate", "Change rate", "Avg similarity"}}
	for _, st := range stats {
		level, _ := models.LevelOf(st.Type)
		data = append(data, []string{
			pterm.FgCyan.Sprint(st.Type),
			string(level),
			fmt.Sprintf("%d/%d", st.Successes, st.Total),
			rateStyle(st.SuccessRate),
			fmt.Sprintf("%.2f%%", st.ChangeRate*100),
			fmt.Sprintf("%.3f", st.AvgSimilarity),
		})
	}
	_ = pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}

// PrintConclusion names the best method, or says the classifier held.
func PrintConclusion(s *report.Summary) {
	pterm.DefaultSection.Println("Conclusion")
	if s.Best == "" {
		pterm.Success.Println("No perturbation flipped the classifier. It held against every attack type.")
		return
	}
	pterm.Warning.Printf("Best attack method: %s (success rate %.2f%%)\n", s.Best, s.BestRate*100)
	if level, ok := models.LevelOf(s.Best); ok {
		pterm.Info.Printf("The classifier is most sensitive to %s-level perturbations.\n", level)
	}
}

// PrintExamples shows up to two successful attacks for each of the first
// three types of the batch.
func PrintExamples(b *attack.Batch) {
	pterm.DefaultSection.Println("Successful examples")
	shown := 0
	for i, t := range b.Types {
		if i >= exampleTypes {
			break
		}
		for _, r := range attack.SuccessExamples(b, t, examplesPerType) {
			PrintAttackResult(r)
			shown++
		}
	}
	if shown == 0 {
		pterm.Info.Println("No successful attacks to show.")
	}
}

// PrintAttackResult shows one result as a boxed before/after.
func PrintAttackResult(r models.AttackResult) {
	status := pterm.FgGreen.Sprint("flipped")
	if !r.Success {
		status = pterm.FgGray.Sprint("held")
	}
	if r.Degraded {
		status += pterm.FgYellow.Sprint(" (degraded)")
	}

	body := fmt.Sprintf("Original:    %s\nAdversarial: %s\nPrediction:  %s → %s\nSimilarity:  %.3f",
		Truncate(r.OriginalText, exampleRunes),
		Truncate(r.AdversarialText, exampleRunes),
		labelStyle(r.OriginalPrediction), labelStyle(r.AdversarialPrediction),
		r.SimilarityScore)

	pterm.DefaultBox.
		WithTitle(fmt.Sprintf("%s %s", pterm.FgCyan.Sprint(r.PerturbationType), status)).
		Println(body)
}

// PrintRuns lists stored runs.
func PrintRuns(runs []store.Run) {
	if len(runs) == 0 {
		pterm.Info.Println("No runs recorded yet.")
		return
	}

	data := [][]string{{"Run ID", "Experiment", "Created", "Samples", "Baseline", "Best", "Best rate"}}
	for _, r := range runs {
		best := string(r.BestType)
		if best == "" {
			best = "-"
		}
		data = append(data, []string{
			r.ID,
			r.Experiment,
			r.CreatedAt.Local().Format("2006-01-02 15:04"),
			strconv.Itoa(r.TotalSamples),
			fmt.Sprintf("%.4f", r.BaselineAccuracy),
			best,
			rateStyle(r.BestRate),
		})
	}
	_ = pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}

func StartSpinner(text string) *pterm.SpinnerPrinter {
	spinner, _ := pterm.DefaultSpinner.Start(text)
	return spinner
}

// Truncate shortens s to n runes, marking the cut with an ellipsis.
func Truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n]) + "..."
}

func labelStyle(l models.Label) string {
	if l == models.LabelFraud {
		return pterm.FgRed.Sprint(l.String())
	}
	return pterm.FgGreen.Sprint(l.String())
}

func rateStyle(rate float64) string {
	s := fmt.Sprintf("%.2f%%", rate*100)
	switch {
	case rate >= 0.5:
		return pterm.FgRed.Sprint(s)
	case rate > 0:
		return pterm.FgYellow.Sprint(s)
	default:
		return pterm.FgGray.Sprint(s)
	}
}
