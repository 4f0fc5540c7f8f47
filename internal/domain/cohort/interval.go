package cohort

import (
	"strings"
	"time"

	"github.com/diillson/cohort-retention-go/internal/shared/types"
)

// IntervalUnit é a granularidade da análise de coortes: day, week ou month.
type IntervalUnit string

const (
	Day   IntervalUnit = "day"
	Week  IntervalUnit = "week"
	Month IntervalUnit = "month"
)

var validIntervals = []string{"day", "week", "month"}

// ParseIntervalUnit valida e normaliza a unidade de intervalo (case-insensitive).
func ParseIntervalUnit(value string) (IntervalUnit, error) {
	switch IntervalUnit(strings.ToLower(value)) {
	case Day:
		return Day, nil
	case Week:
		return Week, nil
	case Month:
		return Month, nil
	}
	return "", &types.ConfigurationError{Field: "interval", Value: value, Valid: validIntervals}
}

// Label returns the capitalized unit name used in header columns ("Day", "Week", "Month").
func (u IntervalUnit) Label() string {
	if u == "" {
		return ""
	}
	return strings.ToUpper(string(u[:1])) + string(u[1:])
}

// Advance move t em n intervalos. Para meses o dia é grampeado ao último dia
// do mês de destino (31 de janeiro + 1 mês = 28/29 de fevereiro).
func (u IntervalUnit) Advance(t time.Time, n int) time.Time {
	switch u {
	case Week:
		return t.AddDate(0, 0, 7*n)
	case Month:
		return addMonthsClamped(t, n)
	default:
		return t.AddDate(0, 0, n)
	}
}

// BeginningOf trunca t para o primeiro instante do intervalo que o contém.
// Semanas começam na segunda-feira.
func (u IntervalUnit) BeginningOf(t time.Time) time.Time {
	year, month, day := t.Date()
	switch u {
	case Week:
		midnight := time.Date(year, month, day, 0, 0, 0, 0, t.Location())
		offset := (int(midnight.Weekday()) + 6) % 7
		return midnight.AddDate(0, 0, -offset)
	case Month:
		return time.Date(year, month, 1, 0, 0, 0, 0, t.Location())
	default:
		return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
	}
}

// EndOf retorna o último instante do intervalo que contém t.
func (u IntervalUnit) EndOf(t time.Time) time.Time {
	return u.Advance(u.BeginningOf(t), 1).Add(-time.Nanosecond)
}

func addMonthsClamped(t time.Time, n int) time.Time {
	firstOfMonth := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	target := firstOfMonth.AddDate(0, n, 0)
	day := t.Day()
	if last := target.AddDate(0, 1, -1).Day(); day > last {
		day = last
	}
	return time.Date(target.Year(), target.Month(), day,
		t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}
