package commands

import (
	"io"
	"os"

	"github.com/pterm/pterm"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/K0NGR3SS/fraudprobe/internal/dataset"
	"github.com/K0NGR3SS/fraudprobe/internal/lexicon"
	"github.com/K0NGR3SS/fraudprobe/internal/rng"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Write a synthetic labeled dataset as CSV",
	RunE: func(cmd *cobra.Command, args []string) error {
		count, _ := cmd.Flags().GetInt("count")
		if count <= 0 {
			return eris.Errorf("--count must be positive, got %d", count)
		}
		seed := cfg.Experiment.Seed
		if cmd.Flags().Changed("seed") {
			seed, _ = cmd.Flags().GetUint64("seed")
		}

		lex, err := lexicon.Load(cfg.Lexicon.Path)
		if err != nil {
			return err
		}
		samples := dataset.Synthesize(lex.Dataset, count, rng.New(seed))

		out, _ := cmd.Flags().GetString("out")
		var w io.Writer = cmd.OutOrStdout()
		if out != "-" {
			f, err := os.Create(out)
			if err != nil {
				return eris.Wrapf(err, "create %s", out)
			}
			defer f.Close()
			w = f
		}

		if err := dataset.WriteCSV(w, samples); err != nil {
			return err
		}
		if out != "-" {
			fraud, normal := dataset.Stats(samples)
			pterm.Success.Printf("Wrote %d samples (fraud %d, normal %d) to %s\n", len(samples), fraud, normal, out)
		}
		return nil
	},
}

func init() {
	generateCmd.Flags().Int("count", 100, "number of samples to generate")
	generateCmd.Flags().StringP("out", "o", "-", "output file, - for stdout")
	generateCmd.Flags().Uint64("seed", 0, "random seed (default experiment.seed)")
	rootCmd.AddCommand(generateCmd)
}
