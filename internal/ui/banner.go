package ui

import (
	"github.com/pterm/pterm"
)

func PrintBanner() {
	logo := `
    ____                      __                 __
   / __/________ ___  ______/ /___  _________  / /_  ___
  / /_/ ___/ __ '/ / / / __  / __ \/ ___/ __ \/ __ \/ _ \
 / __/ /  / /_/ / /_/ / /_/ / /_/ / /  / /_/ / /_/ /  __/
/_/ /_/   \__,_/\__,_/\__,_/ .___/_/   \____/_.___/\___/
                          /_/
`
	pterm.FgRed.Println(logo)
	pterm.DefaultCenter.Println(pterm.FgGray.Sprint("Adversarial robustness probe for fraud-dialog detection"))
	pterm.Println()

	pterm.DefaultBox.
		WithTitle(pterm.FgYellow.Sprint("RESEARCH USE ONLY")).
		WithTitleBottomCenter().
		WithRightPadding(2).
		WithLeftPadding(2).
		Println("Generated adversarial texts are for evaluating detectors you operate.\nDo not use them to evade production fraud controls.")

	pterm.Println()
}
