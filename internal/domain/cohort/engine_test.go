package cohort_test

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/diillson/cohort-retention-go/internal/adapter/driven/store"
	"github.com/diillson/cohort-retention-go/internal/domain/cohort"
	"github.com/diillson/cohort-retention-go/internal/domain/entity"
	"github.com/diillson/cohort-retention-go/internal/shared/types"
)

// countingSource embrulha um SubjectRepository contando chamadas.
type countingSource struct {
	inner      *store.MemorySubjectStore
	queryCalls int
	countCalls int
}

func (s *countingSource) Query(ctx context.Context, field string, start, end time.Time) ([]entity.Subject, error) {
	s.queryCalls++
	return s.inner.Query(ctx, field, start, end)
}

func (s *countingSource) Count(ctx context.Context) (int, error) {
	s.countCalls++
	return s.inner.Count(ctx)
}

func subjectAt(id string, createdAt time.Time) entity.Subject {
	return entity.Subject{
		ID:         id,
		Timestamps: map[string]time.Time{"created_at": createdAt},
	}
}

func weeklyFixture(t *testing.T) (*store.MemorySubjectStore, cohort.Config) {
	t.Helper()

	// Segunda-feira; 10 sujeitos criados dentro da primeira semana
	startAt := time.Date(2023, 1, 2, 0, 0, 0, 0, time.UTC)
	subjects := make([]entity.Subject, 0, 10)
	for i := 0; i < 10; i++ {
		subjects = append(subjects,
			subjectAt(fmt.Sprintf("s%d", i), startAt.Add(time.Duration(i)*12*time.Hour)))
	}

	cfg := cohort.Config{
		StartAt:        startAt,
		Interval:       cohort.Week,
		TimestampField: "created_at",
	}
	return store.NewMemorySubjectStore(subjects...), cfg
}

// weeklyPredicate ativa 4 sujeitos na semana 0 e 2 na semana 1.
func weeklyPredicate(subject entity.Subject, windowStart, _ time.Time) bool {
	index, err := strconv.Atoi(strings.TrimPrefix(subject.ID, "s"))
	if err != nil {
		return false
	}
	switch windowStart {
	case time.Date(2023, 1, 2, 0, 0, 0, 0, time.UTC):
		return index < 4
	case time.Date(2023, 1, 9, 0, 0, 0, 0, time.UTC):
		return index < 2
	}
	return false
}

func TestGenerateReportWeekly(t *testing.T) {
	source, cfg := weeklyFixture(t)
	engine, err := cohort.NewEngine(source, weeklyPredicate, cfg)
	require.NoError(t, err)

	matrix, err := engine.GenerateReport(context.Background())
	require.NoError(t, err)

	// Cabeçalho: "" + 6 rótulos de semana
	require.Len(t, matrix, 6) // header + 5 linhas de coorte
	assert.Equal(t, []string{"", "Week 0", "Week 1", "Week 2", "Week 3", "Week 4", "Week 5"}, matrix[0])

	// Coorte da primeira semana: 10 sujeitos, 4 ativados na semana 0, 2 na 1
	assert.Equal(t, []string{"1/2", "40.0%", "20.0%", "0.0%", "0.0%", "0.0%"}, matrix[1])

	// Coortes seguintes estão vazias: células "-" e encolhimento triangular
	assert.Equal(t, []string{"1/9", "-", "-", "-", "-"}, matrix[2])
	assert.Equal(t, []string{"1/16", "-", "-", "-"}, matrix[3])
	assert.Equal(t, []string{"1/23", "-", "-"}, matrix[4])
	assert.Equal(t, []string{"1/30", "-"}, matrix[5])
}

func TestGenerateReportTriangularShape(t *testing.T) {
	source, cfg := weeklyFixture(t)
	engine, err := cohort.NewEngine(source, weeklyPredicate, cfg)
	require.NoError(t, err)

	matrix, err := engine.GenerateReport(context.Background())
	require.NoError(t, err)

	intervals := 6
	require.Len(t, matrix[0], intervals+1)
	for r, row := range matrix[1:] {
		assert.Len(t, row, intervals-r, "row %d", r)
	}
	// A última linha tem exatamente rótulo + um percentual
	assert.Len(t, matrix[len(matrix)-1], 2)
}

func TestGenerateReportDailyHeader(t *testing.T) {
	startAt := time.Date(2023, 3, 1, 0, 0, 0, 0, time.UTC)
	source := store.NewMemorySubjectStore(subjectAt("s0", startAt))
	engine, err := cohort.NewEngine(source, cohort.FieldActivation("created_at"), cohort.Config{
		StartAt:  startAt,
		Interval: cohort.Day,
	})
	require.NoError(t, err)

	matrix, err := engine.GenerateReport(context.Background())
	require.NoError(t, err)

	require.Len(t, matrix[0], 31)
	assert.Equal(t, "Day 0", matrix[0][1])
	assert.Equal(t, "Day 29", matrix[0][30])
	assert.Len(t, matrix, 30) // header + 29 linhas
	assert.Equal(t, "3/1", matrix[1][0])
}

func TestGenerateReportIsIdempotent(t *testing.T) {
	memStore, cfg := weeklyFixture(t)
	source := &countingSource{inner: memStore}

	predicateCalls := 0
	predicate := func(subject entity.Subject, windowStart, windowEnd time.Time) bool {
		predicateCalls++
		return weeklyPredicate(subject, windowStart, windowEnd)
	}

	engine, err := cohort.NewEngine(source, predicate, cfg)
	require.NoError(t, err)

	first, err := engine.GenerateReport(context.Background())
	require.NoError(t, err)

	callsAfterFirst := predicateCalls
	queriesAfterFirst := source.queryCalls
	require.Greater(t, callsAfterFirst, 0)

	second, err := engine.GenerateReport(context.Background())
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, callsAfterFirst, predicateCalls, "predicate must not be re-evaluated")
	assert.Equal(t, queriesAfterFirst, source.queryCalls, "source must not be re-queried")
}

func TestToCSVRoundTrip(t *testing.T) {
	source, cfg := weeklyFixture(t)
	engine, err := cohort.NewEngine(source, weeklyPredicate, cfg)
	require.NoError(t, err)

	matrix, err := engine.GenerateReport(context.Background())
	require.NoError(t, err)

	csv, err := engine.ToCSV(context.Background(), ",")
	require.NoError(t, err)
	assert.False(t, strings.HasSuffix(csv, "\n"), "no trailing newline")

	var reconstructed entity.ReportMatrix
	for _, line := range strings.Split(csv, "\n") {
		reconstructed = append(reconstructed, strings.Split(line, ","))
	}
	assert.Equal(t, matrix, reconstructed)
}

func TestToCSVCustomSeparator(t *testing.T) {
	source, cfg := weeklyFixture(t)
	engine, err := cohort.NewEngine(source, weeklyPredicate, cfg)
	require.NoError(t, err)

	csv, err := engine.ToCSV(context.Background(), ";")
	require.NoError(t, err)

	lines := strings.Split(csv, "\n")
	require.Len(t, lines, 6)
	assert.Equal(t, ";Week 0;Week 1;Week 2;Week 3;Week 4;Week 5", lines[0])
	assert.Equal(t, "1/2;40.0%;20.0%;0.0%;0.0%;0.0%", lines[1])
}

func TestToCSVComputesWhenNotYetGenerated(t *testing.T) {
	memStore, cfg := weeklyFixture(t)
	source := &countingSource{inner: memStore}
	engine, err := cohort.NewEngine(source, weeklyPredicate, cfg)
	require.NoError(t, err)

	// ToCSV antes de GenerateReport computa e popula o cache
	_, err = engine.ToCSV(context.Background(), ",")
	require.NoError(t, err)
	queriesAfterCSV := source.queryCalls
	require.Greater(t, queriesAfterCSV, 0)

	_, err = engine.GenerateReport(context.Background())
	require.NoError(t, err)
	assert.Equal(t, queriesAfterCSV, source.queryCalls)
}

func TestGenerateReportEmptyCohortsYieldSentinel(t *testing.T) {
	// Um único sujeito anterior ao início da análise: nenhuma coorte o contém
	source := store.NewMemorySubjectStore(
		subjectAt("s0", time.Date(2022, 12, 1, 0, 0, 0, 0, time.UTC)))
	engine, err := cohort.NewEngine(source, cohort.FieldActivation("created_at"), cohort.Config{
		StartAt:  time.Date(2023, 1, 2, 0, 0, 0, 0, time.UTC),
		Interval: cohort.Week,
	})
	require.NoError(t, err)

	matrix, err := engine.GenerateReport(context.Background())
	require.NoError(t, err)

	for _, row := range matrix[1:] {
		for _, cell := range row[1:] {
			assert.Equal(t, "-", cell)
		}
	}
}

func TestNewEngineRejectsInvalidInterval(t *testing.T) {
	source := store.NewMemorySubjectStore()
	_, err := cohort.NewEngine(source, cohort.FieldActivation("created_at"), cohort.Config{
		Interval: "fortnight",
	})
	require.Error(t, err)

	var confErr *types.ConfigurationError
	require.ErrorAs(t, err, &confErr)
	assert.Contains(t, err.Error(), "day, week, month")
}

func TestNewEngineAppliesDefaults(t *testing.T) {
	source := store.NewMemorySubjectStore(subjectAt("s0", time.Now()))
	engine, err := cohort.NewEngine(source, cohort.FieldActivation("created_at"), cohort.Config{})
	require.NoError(t, err)

	cfg := engine.Config()
	assert.Equal(t, cohort.Day, cfg.Interval)
	assert.Equal(t, "created_at", cfg.TimestampField)
	assert.WithinDuration(t, time.Now().AddDate(0, 0, -30), cfg.StartAt, time.Minute)
}

func TestGenerateReportRejectsEmptySource(t *testing.T) {
	engine, err := cohort.NewEngine(store.NewMemorySubjectStore(),
		cohort.FieldActivation("created_at"), cohort.Config{Interval: cohort.Week})
	require.NoError(t, err)

	_, err = engine.GenerateReport(context.Background())
	require.Error(t, err)

	var valErr *types.ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Contains(t, err.Error(), "empty")
}

func TestGenerateReportRejectsMissingCollaborators(t *testing.T) {
	engine, err := cohort.NewEngine(nil, cohort.FieldActivation("created_at"), cohort.Config{})
	require.NoError(t, err)
	_, err = engine.GenerateReport(context.Background())
	var valErr *types.ValidationError
	require.ErrorAs(t, err, &valErr)

	engine, err = cohort.NewEngine(store.NewMemorySubjectStore(subjectAt("s0", time.Now())), nil, cohort.Config{})
	require.NoError(t, err)
	_, err = engine.GenerateReport(context.Background())
	require.ErrorAs(t, err, &valErr)
}

func TestFieldActivation(t *testing.T) {
	windowStart := time.Date(2023, 1, 2, 0, 0, 0, 0, time.UTC)
	windowEnd := time.Date(2023, 1, 8, 23, 59, 59, 999999999, time.UTC)
	predicate := cohort.FieldActivation("activated_at")

	inside := entity.Subject{ID: "a", Timestamps: map[string]time.Time{
		"activated_at": time.Date(2023, 1, 5, 12, 0, 0, 0, time.UTC)}}
	assert.True(t, predicate(inside, windowStart, windowEnd))

	// Limites são inclusivos
	onStart := entity.Subject{ID: "b", Timestamps: map[string]time.Time{"activated_at": windowStart}}
	assert.True(t, predicate(onStart, windowStart, windowEnd))
	onEnd := entity.Subject{ID: "c", Timestamps: map[string]time.Time{"activated_at": windowEnd}}
	assert.True(t, predicate(onEnd, windowStart, windowEnd))

	after := entity.Subject{ID: "d", Timestamps: map[string]time.Time{
		"activated_at": time.Date(2023, 1, 9, 0, 0, 0, 0, time.UTC)}}
	assert.False(t, predicate(after, windowStart, windowEnd))

	missing := entity.Subject{ID: "e", Timestamps: map[string]time.Time{}}
	assert.False(t, predicate(missing, windowStart, windowEnd))
}
