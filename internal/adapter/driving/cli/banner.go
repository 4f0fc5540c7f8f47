package cli

import (
	"fmt"

	"github.com/diillson/cohort-retention-go/pkg/version"
	"github.com/fatih/color"
)

// displayWelcomeBanner exibe o banner de boas-vindas com informações de versão.
func displayWelcomeBanner(versionStr string) {
	banner := `
          /$$$$$$            /$$                             /$$
         /$$__  $$          | $$                            | $$
        | $$  \__/  /$$$$$$ | $$$$$$$   /$$$$$$   /$$$$$$  /$$$$$$
        | $$       /$$__  $$| $$__  $$ /$$__  $$ /$$__  $$|_  $$_/
        | $$      | $$  \ $$| $$  \ $$| $$  \ $$| $$  \__/  | $$
        | $$    $$| $$  | $$| $$  | $$| $$  | $$| $$        | $$ /$$
        |  $$$$$$/|  $$$$$$/| $$  | $$|  $$$$$$/| $$        |  $$$$/
         \______/  \______/ |__/  |__/ \______/ |__/         \___/
        `
	red := color.New(color.FgRed, color.Bold).SprintFunc()
	blue := color.New(color.FgBlue, color.Bold).SprintFunc()

	fmt.Println(red(banner))

	formattedVersion := version.FormatVersion()
	fmt.Println(blue(fmt.Sprintf("Cohort Retention Report CLI (v%s)", formattedVersion)))
}
