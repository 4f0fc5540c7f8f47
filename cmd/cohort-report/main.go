package main

import (
	"fmt"
	"os"

	"github.com/diillson/cohort-retention-go/internal/adapter/driven/config"
	"github.com/diillson/cohort-retention-go/internal/adapter/driven/export"
	"github.com/diillson/cohort-retention-go/internal/adapter/driving/cli"
	"github.com/diillson/cohort-retention-go/internal/application/usecase"
	"github.com/diillson/cohort-retention-go/pkg/console"
	"github.com/diillson/cohort-retention-go/pkg/version"
)

func main() {
	// Inicializa o aplicativo CLI
	app := cli.NewCLIApp(version.Version)

	// Inicializa os repositórios
	exportRepo := export.NewExportRepository()
	configRepo := config.NewConfigRepository()
	consoleImpl := console.NewConsole()

	// Inicializa o caso de uso
	reportUseCase := usecase.NewReportUseCase(
		exportRepo,
		configRepo,
		consoleImpl,
	)

	app.SetReportUseCase(reportUseCase)

	if err := app.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
