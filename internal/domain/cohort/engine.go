package cohort

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/diillson/cohort-retention-go/internal/domain/entity"
	"github.com/diillson/cohort-retention-go/internal/domain/repository"
	"github.com/diillson/cohort-retention-go/internal/shared/types"
)

// ActivationPredicate decide se um sujeito "ativou" dentro da janela dada.
// Deve ser puro em relação ao resultado do relatório; pode consultar storage.
type ActivationPredicate func(subject entity.Subject, windowStart, windowEnd time.Time) bool

// DefaultTimestampField é o campo de coorte usado quando nenhum é configurado.
const DefaultTimestampField = "created_at"

const defaultLookbackDays = 30

// Config fixa os parâmetros do relatório na construção do Engine.
type Config struct {
	StartAt        time.Time
	Interval       IntervalUnit
	TimestampField string
}

// DefaultConfig retorna a configuração padrão: intervalo diário começando
// 30 dias atrás, coortes pelo campo "created_at".
func DefaultConfig() Config {
	return Config{
		StartAt:        time.Now().AddDate(0, 0, -defaultLookbackDays),
		Interval:       Day,
		TimestampField: DefaultTimestampField,
	}
}

// Engine computes the cohort retention triangle: subjects are bucketed into
// interval-sized cohorts and, for each later interval offset, the activation
// predicate is evaluated over the cohort to produce a percentage cell.
//
// O relatório é calculado uma única vez e cacheado; o Engine não é seguro
// para uso concorrente (o cache é escrito sem lock).
type Engine struct {
	source    repository.SubjectRepository
	predicate ActivationPredicate
	cfg       Config

	// nil até a primeira chamada de GenerateReport ou ToCSV
	cached entity.ReportMatrix
}

// NewEngine valida a configuração e cria um Engine. Campos zero em cfg
// recebem os valores padrão de DefaultConfig.
func NewEngine(source repository.SubjectRepository, predicate ActivationPredicate, cfg Config) (*Engine, error) {
	defaults := DefaultConfig()
	if cfg.Interval == "" {
		cfg.Interval = defaults.Interval
	}
	interval, err := ParseIntervalUnit(string(cfg.Interval))
	if err != nil {
		return nil, err
	}
	cfg.Interval = interval
	if cfg.StartAt.IsZero() {
		cfg.StartAt = defaults.StartAt
	}
	if cfg.TimestampField == "" {
		cfg.TimestampField = defaults.TimestampField
	}

	return &Engine{source: source, predicate: predicate, cfg: cfg}, nil
}

// Config retorna a configuração efetiva (após defaults e normalização).
func (e *Engine) Config() Config {
	return e.cfg
}

// GenerateReport retorna a matriz triangular do relatório. O resultado é
// cacheado: chamadas subsequentes não reavaliam o predicado nem a fonte.
func (e *Engine) GenerateReport(ctx context.Context) (entity.ReportMatrix, error) {
	return e.ensureComputed(ctx)
}

// ToCSV serializa o relatório juntando células com separator e linhas com
// "\n", sem newline final. Células contendo o separador não são escapadas;
// para CSV de arquivo use o exportador, que escapa via encoding/csv.
func (e *Engine) ToCSV(ctx context.Context, separator string) (string, error) {
	if separator == "" {
		separator = ","
	}
	matrix, err := e.ensureComputed(ctx)
	if err != nil {
		return "", err
	}
	lines := make([]string, 0, len(matrix))
	for _, row := range matrix {
		lines = append(lines, strings.Join(row, separator))
	}
	return strings.Join(lines, "\n"), nil
}

func (e *Engine) ensureComputed(ctx context.Context) (entity.ReportMatrix, error) {
	if e.cached != nil {
		return e.cached, nil
	}

	if e.source == nil {
		return nil, &types.ValidationError{Reason: "subject source is required"}
	}
	if e.predicate == nil {
		return nil, &types.ValidationError{Reason: "activation predicate is required"}
	}
	total, err := e.source.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("counting subjects: %w", err)
	}
	if total == 0 {
		return nil, &types.ValidationError{Reason: "subject source is empty"}
	}

	intervals := e.numberOfIntervals()
	matrix := make(entity.ReportMatrix, 0, intervals)

	header := make([]string, 0, intervals+1)
	header = append(header, "")
	for i := 0; i < intervals; i++ {
		header = append(header, fmt.Sprintf("%s %d", e.cfg.Interval.Label(), i))
	}
	matrix = append(matrix, header)

	for r := 0; r < intervals-1; r++ {
		row, err := e.buildRow(ctx, r, intervals)
		if err != nil {
			return nil, err
		}
		matrix = append(matrix, row)
	}

	e.cached = matrix
	return matrix, nil
}

// numberOfIntervals limita tanto o número de linhas (intervals-1) quanto o
// número máximo de colunas por linha.
func (e *Engine) numberOfIntervals() int {
	if e.cfg.Interval == Day {
		return 30
	}
	return 6
}

// buildRow monta a linha da coorte r. A composição da coorte é fixada na
// janela inicial da linha; só a janela de ativação avança por coluna.
func (e *Engine) buildRow(ctx context.Context, r, intervals int) ([]string, error) {
	unit := e.cfg.Interval
	cohortStart := unit.BeginningOf(unit.Advance(e.cfg.StartAt, r))
	cohortEnd := unit.EndOf(cohortStart)

	members, err := e.source.Query(ctx, e.cfg.TimestampField, cohortStart, cohortEnd)
	if err != nil {
		return nil, fmt.Errorf("querying cohort starting %s: %w",
			cohortStart.Format("2006-01-02"), err)
	}

	row := make([]string, 0, intervals-r)
	row = append(row, fmt.Sprintf("%d/%d", int(cohortStart.Month()), cohortStart.Day()))

	for c := 0; c < intervals-r-1; c++ {
		windowStart := unit.BeginningOf(unit.Advance(e.cfg.StartAt, r+c))
		windowEnd := unit.EndOf(windowStart)
		row = append(row, e.percentageCell(members, windowStart, windowEnd))
	}

	return row, nil
}

// percentageCell avalia o predicado sobre cada membro da coorte e formata o
// percentual com uma casa decimal. Coorte vazia nunca divide por zero:
// vira a célula sentinela "-".
func (e *Engine) percentageCell(members []entity.Subject, windowStart, windowEnd time.Time) string {
	if len(members) == 0 {
		return "-"
	}
	activated := 0
	for _, subject := range members {
		if e.predicate(subject, windowStart, windowEnd) {
			activated++
		}
	}
	pct := float64(activated) / float64(len(members)) * 100
	return fmt.Sprintf("%.1f%%", pct)
}

// FieldActivation retorna o predicado canônico: o sujeito ativa quando seu
// timestamp nomeado cai dentro da janela de ativação (inclusive).
func FieldActivation(field string) ActivationPredicate {
	return func(subject entity.Subject, windowStart, windowEnd time.Time) bool {
		ts, ok := subject.Timestamp(field)
		if !ok {
			return false
		}
		return !ts.Before(windowStart) && !ts.After(windowEnd)
	}
}
