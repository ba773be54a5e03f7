package commands

import (
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/K0NGR3SS/fraudprobe/internal/attack"
	"github.com/K0NGR3SS/fraudprobe/internal/dataset"
	"github.com/K0NGR3SS/fraudprobe/internal/ui"
)

var baselineCmd = &cobra.Command{
	Use:   "baseline",
	Short: "Score the dataset without attacking it",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := runtimeFromFlags(cmd)
		if err != nil {
			return err
		}
		samples, err := loadSamples(cmd, rt)
		if err != nil {
			return err
		}
		fraud, normal := dataset.Stats(samples)
		pterm.Info.Printf("Loaded %d samples (fraud %d, normal %d)\n", len(samples), fraud, normal)

		eval := rt.detector.Evaluate(samples)
		limit, _ := cmd.Flags().GetInt("limit")
		ui.PrintBaseline(samples, &eval, limit)

		vulnerable := attack.Vulnerable(eval.Scores, rt.detector.Threshold(), cfg.Attack.VulnerableMargin)
		pterm.Info.Printf("Vulnerable samples (within %.2f of threshold): %d\n", cfg.Attack.VulnerableMargin, len(vulnerable))
		return nil
	},
}

func init() {
	addRuntimeFlags(baselineCmd)
	addDataFlags(baselineCmd)
	baselineCmd.Flags().Int("limit", baselinePreview, "number of samples to show")
	rootCmd.AddCommand(baselineCmd)
}
