package commands

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/K0NGR3SS/fraudprobe/internal/report"
	"github.com/K0NGR3SS/fraudprobe/internal/ui"
)

var historyCmd = &cobra.Command{
	Use:   "history [run-id]",
	Short: "List stored runs, or print one run's report",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dbPath := cfg.Store.Path
		if cmd.Flags().Changed("db") {
			dbPath, _ = cmd.Flags().GetString("db")
		}
		if dbPath == "" {
			return eris.New("run history is disabled; set store.path or pass --db")
		}

		ctx := cmd.Context()
		st, err := openStore(ctx, dbPath)
		if err != nil {
			return err
		}
		defer st.Close()

		if len(args) == 1 {
			run, err := st.GetRun(ctx, args[0])
			if err != nil {
				return err
			}
			return report.Write(cmd.OutOrStdout(), run.Summary, cfg.Output.Format)
		}

		limit, _ := cmd.Flags().GetInt("limit")
		runs, err := st.ListRuns(ctx, limit)
		if err != nil {
			return err
		}
		ui.PrintRuns(runs)
		return nil
	},
}

func init() {
	historyCmd.Flags().String("db", "", "history database (default store.path)")
	historyCmd.Flags().Int("limit", 20, "maximum runs to list")
	rootCmd.AddCommand(historyCmd)
}
