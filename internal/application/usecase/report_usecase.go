package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/diillson/cohort-retention-go/internal/adapter/driven/store"
	"github.com/diillson/cohort-retention-go/internal/domain/cohort"
	"github.com/diillson/cohort-retention-go/internal/domain/entity"
	"github.com/diillson/cohort-retention-go/internal/domain/repository"
	"github.com/diillson/cohort-retention-go/internal/shared/types"
)

const (
	defaultTable           = "subjects"
	defaultActivationField = "activated_at"
)

// Layouts aceitos para --start-at e start_at do arquivo de configuração.
var startAtLayouts = []string{"2006-01-02", time.RFC3339}

// ReportUseCase handles the cohort report generation flow: source selection,
// engine construction, console display and export fan-out.
type ReportUseCase struct {
	exportRepo repository.ExportRepository
	configRepo repository.ConfigRepository
	console    types.ConsoleInterface
}

// NewReportUseCase creates a new report use case.
func NewReportUseCase(
	exportRepo repository.ExportRepository,
	configRepo repository.ConfigRepository,
	console types.ConsoleInterface,
) *ReportUseCase {
	return &ReportUseCase{
		exportRepo: exportRepo,
		configRepo: configRepo,
		console:    console,
	}
}

// RunReport executa a funcionalidade principal: gera e exibe o relatório de
// retenção por coorte e o exporta nos formatos pedidos.
func (uc *ReportUseCase) RunReport(ctx context.Context, args *types.CLIArgs) error {
	if err := uc.applyConfigFile(args); err != nil {
		return err
	}
	// Default aplicado depois da mesclagem, para o arquivo poder definir os tipos
	if len(args.ReportType) == 0 {
		args.ReportType = []string{"csv"}
	}

	engineCfg, err := resolveEngineConfig(args)
	if err != nil {
		return err
	}

	source, predicate, cleanup, err := uc.buildSource(args)
	if err != nil {
		return err
	}
	defer cleanup()

	engine, err := cohort.NewEngine(source, predicate, engineCfg)
	if err != nil {
		return err
	}

	status := uc.console.Status("Generating cohort report...")
	matrix, err := engine.GenerateReport(ctx)
	status.Stop()
	if err != nil {
		return err
	}

	uc.console.DisplayMatrix(matrix)

	if args.ReportName == "" {
		return nil
	}

	report := entity.ReportData{
		Matrix:      matrix,
		Interval:    string(engine.Config().Interval),
		StartAt:     engine.Config().StartAt,
		GeneratedAt: time.Now(),
	}

	progress := uc.console.ProgressWithTotal(len(args.ReportType))
	defer progress.Stop()

	for _, reportType := range args.ReportType {
		switch reportType {
		case "csv":
			path, err := uc.exportRepo.ExportToCSV(report, args.ReportName, args.Dir, args.Separator)
			if err != nil {
				uc.console.LogError("Failed to export report to CSV: %s", err)
			} else {
				uc.console.LogSuccess("Successfully exported report to CSV: %s", path)
			}
		case "json":
			path, err := uc.exportRepo.ExportToJSON(report, args.ReportName, args.Dir)
			if err != nil {
				uc.console.LogError("Failed to export report to JSON: %s", err)
			} else {
				uc.console.LogSuccess("Successfully exported report to JSON: %s", path)
			}
		case "pdf":
			path, err := uc.exportRepo.ExportToPDF(report, args.ReportName, args.Dir)
			if err != nil {
				uc.console.LogError("Failed to export report to PDF: %s", err)
			} else {
				uc.console.LogSuccess("Successfully exported report to PDF: %s", path)
			}
		default:
			uc.console.LogWarning("Unknown report type '%s' (valid: csv, json, pdf)", reportType)
		}
		progress.Increment()
	}

	return nil
}

// applyConfigFile mescla o arquivo de configuração nos argumentos da CLI.
// Flags explícitas têm precedência sobre o arquivo.
func (uc *ReportUseCase) applyConfigFile(args *types.CLIArgs) error {
	if args.ConfigFile == "" {
		return nil
	}
	cfg, err := uc.configRepo.LoadConfigFile(args.ConfigFile)
	if err != nil {
		return err
	}

	if args.DSN == "" {
		args.DSN = cfg.DSN
	}
	if args.Input == "" {
		args.Input = cfg.Input
	}
	if args.Table == "" {
		args.Table = cfg.Table
	}
	if args.EventsTable == "" {
		args.EventsTable = cfg.EventsTable
	}
	if args.Interval == "" {
		args.Interval = cfg.Interval
	}
	if args.StartAt == "" {
		args.StartAt = cfg.StartAt
	}
	if args.TimestampField == "" {
		args.TimestampField = cfg.TimestampField
	}
	if args.ActivationField == "" {
		args.ActivationField = cfg.ActivationField
	}
	if args.ReportName == "" {
		args.ReportName = cfg.ReportName
	}
	if len(args.ReportType) == 0 && len(cfg.ReportType) > 0 {
		args.ReportType = cfg.ReportType
	}
	if args.Dir == "" {
		args.Dir = cfg.Dir
	}
	if args.Separator == "" {
		args.Separator = cfg.Separator
	}
	return nil
}

// resolveEngineConfig traduz os argumentos em uma cohort.Config validada.
// Campos vazios ficam com os defaults do engine.
func resolveEngineConfig(args *types.CLIArgs) (cohort.Config, error) {
	cfg := cohort.Config{TimestampField: args.TimestampField}

	if args.Interval != "" {
		unit, err := cohort.ParseIntervalUnit(args.Interval)
		if err != nil {
			return cohort.Config{}, err
		}
		cfg.Interval = unit
	}

	if args.StartAt != "" {
		startAt, err := parseStartAt(args.StartAt)
		if err != nil {
			return cohort.Config{}, err
		}
		cfg.StartAt = startAt
	}

	return cfg, nil
}

func parseStartAt(value string) (time.Time, error) {
	for _, layout := range startAtLayouts {
		if ts, err := time.Parse(layout, value); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid start date %q: use YYYY-MM-DD or RFC 3339", value)
}

// buildSource escolhe a fonte de sujeitos e o predicado de ativação conforme
// os argumentos: banco MySQL/MariaDB (--dsn) ou arquivo CSV (--input).
func (uc *ReportUseCase) buildSource(args *types.CLIArgs) (repository.SubjectRepository, cohort.ActivationPredicate, func(), error) {
	activationField := args.ActivationField
	if activationField == "" {
		activationField = defaultActivationField
	}

	switch {
	case args.DSN != "":
		table := args.Table
		if table == "" {
			table = defaultTable
		}
		mysqlStore, err := store.OpenMySQLSubjectStore(args.DSN, table, activationField)
		if err != nil {
			return nil, nil, nil, err
		}

		predicate := cohort.FieldActivation(activationField)
		if args.EventsTable != "" {
			// Ativação por tabela de eventos: um evento do sujeito dentro da
			// janela conta como ativado.
			predicate, err = store.NewEventActivation(
				mysqlStore.DB(), args.EventsTable, "subject_id", "occurred_at",
				func(err error) { uc.console.LogWarning("%s", err) })
			if err != nil {
				mysqlStore.Close()
				return nil, nil, nil, err
			}
		}
		return mysqlStore, predicate, func() { mysqlStore.Close() }, nil

	case args.Input != "":
		memStore, err := store.LoadSubjectsCSV(args.Input)
		if err != nil {
			return nil, nil, nil, err
		}
		return memStore, cohort.FieldActivation(activationField), func() {}, nil
	}

	return nil, nil, nil, types.ErrNoSubjectSource
}
