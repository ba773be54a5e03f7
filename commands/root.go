package commands

import (
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/K0NGR3SS/fraudprobe/internal/config"
	"github.com/K0NGR3SS/fraudprobe/internal/ui"
)

var (
	cfgFile string
	cfg     *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "fraudprobe",
	Short: "fraudprobe measures how easily a fraud-dialog detector is fooled",
	Long: `fraudprobe scores labeled dialogue with a keyword and pattern fraud detector, perturbs
the text at character, word and sentence level, and reports which perturbations flip the
prediction while keeping the text similar to the original.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(cfgFile)
		if err != nil {
			return err
		}
		if lvl, _ := cmd.Flags().GetString("log-level"); lvl != "" {
			loaded.Log.Level = lvl
		}
		if err := loaded.Validate(); err != nil {
			return err
		}
		if err := config.InitLogger(loaded.Log); err != nil {
			return err
		}
		cfg = loaded
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

func Execute() {
	ui.PrintBanner()

	if err := rootCmd.Execute(); err != nil {
		zap.L().Error("command failed", zap.Error(err))
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default ./fraudprobe.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "override log.level (debug, info, warn, error)")
}
