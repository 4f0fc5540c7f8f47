package repository

import (
	"github.com/diillson/cohort-retention-go/internal/domain/entity"
)

type ExportRepository interface {
	ExportToCSV(report entity.ReportData, filename string, outputDir string, separator string) (string, error)
	ExportToJSON(report entity.ReportData, filename string, outputDir string) (string, error)
	ExportToPDF(report entity.ReportData, filename string, outputDir string) (string, error)
}
