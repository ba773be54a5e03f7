package commands

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/K0NGR3SS/fraudprobe/internal/models"
	"github.com/K0NGR3SS/fraudprobe/internal/ui"
)

var perturbCmd = &cobra.Command{
	Use:   "perturb <text>",
	Short: "Attack a single text and show the result",
	Example: `  fraudprobe perturb --label fraud --type synonym 恭喜您中奖了请点击链接领取奖品
  fraudprobe perturb --label normal --targeted 客服您好我想查询一下我的订单状态`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rawLabel, _ := cmd.Flags().GetString("label")
		label, err := models.ParseLabel(rawLabel)
		if err != nil {
			return err
		}
		rt, err := runtimeFromFlags(cmd)
		if err != nil {
			return err
		}

		if targeted, _ := cmd.Flags().GetBool("targeted"); targeted {
			ui.PrintAttackResult(rt.attacker.GenerateTargeted(args[0], label))
			return nil
		}

		names, _ := cmd.Flags().GetStringSlice("type")
		if len(names) == 0 {
			return eris.New("either --type or --targeted is required")
		}
		types, err := parseTypes(names)
		if err != nil {
			return err
		}
		for _, t := range types {
			ui.PrintAttackResult(rt.attacker.Generate(args[0], label, t))
		}
		return nil
	},
}

func init() {
	addRuntimeFlags(perturbCmd)
	perturbCmd.Flags().StringP("label", "l", "fraud", "true label of the text: fraud/1 or normal/0")
	perturbCmd.Flags().StringSliceP("type", "t", nil, "perturbation types to apply")
	perturbCmd.Flags().Bool("targeted", false, "run the rule-aware targeted attack instead")
	rootCmd.AddCommand(perturbCmd)
}
