package entity

import "time"

// ReportMatrix is the cohort triangle: row 0 is the header, each following
// row is [cohort label, pct 0, pct 1, ...] with one cell fewer per row.
type ReportMatrix [][]string

// ReportData embrulha a matriz com os metadados usados na exibição e exportação.
type ReportData struct {
	Matrix      ReportMatrix `json:"matrix"`
	Interval    string       `json:"interval"`
	StartAt     time.Time    `json:"start_at"`
	GeneratedAt time.Time    `json:"generated_at"`
}
