package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/pterm/pterm"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/K0NGR3SS/fraudprobe/internal/attack"
	"github.com/K0NGR3SS/fraudprobe/internal/models"
	"github.com/K0NGR3SS/fraudprobe/internal/notifications"
	"github.com/K0NGR3SS/fraudprobe/internal/report"
	"github.com/K0NGR3SS/fraudprobe/internal/store"
	"github.com/K0NGR3SS/fraudprobe/internal/ui"
)

const baselinePreview = 5

var attackCmd = &cobra.Command{
	Use:   "attack",
	Short: "Run the full attack experiment",
	Long: `Loads the dataset, measures baseline accuracy, orders the samples closest to the
decision threshold first, runs every configured perturbation type against every sample and
reports success rates per type. Reports are written under output.dir.`,
	RunE: runAttack,
}

func runAttack(cmd *cobra.Command, args []string) error {
	rt, err := runtimeFromFlags(cmd)
	if err != nil {
		return err
	}

	types, err := cfg.PerturbationTypes()
	if err != nil {
		return err
	}
	if names, _ := cmd.Flags().GetStringSlice("types"); len(names) > 0 {
		if types, err = parseTypes(names); err != nil {
			return err
		}
	}
	format := cfg.Output.Format
	if cmd.Flags().Changed("format") {
		format, _ = cmd.Flags().GetString("format")
		if !report.ValidFormat(format) {
			return eris.Errorf("invalid --format: %s", format)
		}
	}

	samples, err := loadSamples(cmd, rt)
	if err != nil {
		return err
	}
	eval := rt.detector.Evaluate(samples)
	ui.PrintBaseline(samples, &eval, baselinePreview)

	vulnerable := attack.Vulnerable(eval.Scores, rt.detector.Threshold(), cfg.Attack.VulnerableMargin)
	pterm.Info.Printf("Vulnerable samples (within %.2f of threshold): %d\n", cfg.Attack.VulnerableMargin, len(vulnerable))
	ordered := attack.Prioritize(samples, vulnerable)

	spinner := ui.StartSpinner(fmt.Sprintf("Attacking %d samples with %d perturbation types...", len(ordered), len(types)))
	batch := rt.attacker.RunBatch(ordered, types, func(done, total int) {
		spinner.UpdateText(fmt.Sprintf("Attacking sample %d/%d...", done+1, total))
	})
	spinner.Success(fmt.Sprintf("Generated %d adversarial samples", batch.Len()))

	stats := attack.Analyze(batch)
	summary := report.New(cfg.Experiment.Name, samples, eval.Accuracy, len(vulnerable), stats)

	ui.PrintResults(stats)
	ui.PrintConclusion(summary)
	ui.PrintExamples(batch)

	if err := writeReports(summary, batch, format); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), time.Minute)
	defer cancel()

	if cfg.Store.Path != "" {
		if err := saveRun(ctx, cfg.Store.Path, summary); err != nil {
			return err
		}
	}
	if cfg.Slack.WebhookURL != "" {
		notifier := notifications.NewWebhookNotifier(cfg.Slack.WebhookURL, cfg.Slack.Channel)
		if err := notifier.SendSummary(ctx, summary); err != nil {
			zap.L().Warn("webhook notification failed", zap.Error(err))
			pterm.Warning.Println("Webhook notification failed; see log for details.")
		}
	}
	return nil
}

func writeReports(summary *report.Summary, batch *attack.Batch, format string) error {
	if err := cfg.CreateDirs(); err != nil {
		return err
	}

	path, err := report.WriteFile(cfg.Output.Dir, summary, format)
	if err != nil {
		return err
	}
	pterm.Success.Printf("Report saved to %s\n", path)

	path, err = report.WriteSamplesFile(cfg.Output.AdversarialDir, summary.RunID, batch)
	if err != nil {
		return err
	}
	pterm.Success.Printf("Adversarial samples saved to %s\n", path)
	return nil
}

func saveRun(ctx context.Context, dbPath string, summary *report.Summary) error {
	st, err := openStore(ctx, dbPath)
	if err != nil {
		return err
	}
	defer st.Close()

	if err := st.SaveRun(ctx, summary); err != nil {
		return err
	}
	zap.L().Info("run saved", zap.String("run_id", summary.RunID), zap.String("db", dbPath))
	return nil
}

func openStore(ctx context.Context, dbPath string) (*store.SQLiteStore, error) {
	st, err := store.NewSQLite(dbPath)
	if err != nil {
		return nil, err
	}
	if err := st.Migrate(ctx); err != nil {
		st.Close()
		return nil, err
	}
	return st, nil
}

func parseTypes(names []string) ([]models.PerturbationType, error) {
	out := make([]models.PerturbationType, 0, len(names))
	for _, n := range names {
		t, err := models.ParsePerturbationType(n)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

func init() {
	addRuntimeFlags(attackCmd)
	addDataFlags(attackCmd)
	attackCmd.Flags().StringSlice("types", nil, "perturbation types to run (default attack.perturbation_types)")
	attackCmd.Flags().String("format", "", "report format: text, json or yaml (default output.format)")
	rootCmd.AddCommand(attackCmd)
}
