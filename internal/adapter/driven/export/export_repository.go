package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/diillson/cohort-retention-go/internal/domain/entity"
	"github.com/diillson/cohort-retention-go/internal/domain/repository"
	"github.com/jung-kurt/gofpdf"
)

// ExportRepositoryImpl implementa o ExportRepository.
type ExportRepositoryImpl struct{}

// NewExportRepository cria uma nova implementação do ExportRepository.
func NewExportRepository() repository.ExportRepository {
	return &ExportRepositoryImpl{}
}

// ExportToCSV grava a matriz do relatório em arquivo CSV. Diferente da
// serialização in-memory do engine, aqui o encoding/csv escapa células que
// contêm o separador.
func (r *ExportRepositoryImpl) ExportToCSV(report entity.ReportData, filename, outputDir, separator string) (string, error) {
	outputFilename, err := generateFilename(filename, outputDir, "csv")
	if err != nil {
		return "", err
	}

	file, err := os.Create(outputFilename)
	if err != nil {
		return "", fmt.Errorf("error creating CSV file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if separator != "" {
		writer.Comma = []rune(separator)[0]
	}
	defer writer.Flush()

	for _, row := range report.Matrix {
		if err := writer.Write(row); err != nil {
			return "", fmt.Errorf("error writing CSV row: %w", err)
		}
	}

	return filepath.Abs(outputFilename)
}

// ExportToJSON grava o relatório (matriz + metadados) em arquivo JSON.
func (r *ExportRepositoryImpl) ExportToJSON(report entity.ReportData, filename, outputDir string) (string, error) {
	outputFilename, err := generateFilename(filename, outputDir, "json")
	if err != nil {
		return "", err
	}

	file, err := os.Create(outputFilename)
	if err != nil {
		return "", fmt.Errorf("error creating JSON file: %w", err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(report); err != nil {
		return "", fmt.Errorf("error encoding JSON data: %w", err)
	}

	return filepath.Abs(outputFilename)
}

// ExportToPDF grava o triângulo de coortes como tabela em um PDF paisagem.
func (r *ExportRepositoryImpl) ExportToPDF(report entity.ReportData, filename, outputDir string) (string, error) {
	outputFilename, err := generateFilename(filename, outputDir, "pdf")
	if err != nil {
		return "", err
	}

	pdf := gofpdf.New("L", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	headerColor := [3]int{40, 40, 40}
	headerTextColor := [3]int{255, 255, 255}
	bodyTextColor := [3]int{50, 50, 50}

	pdf.SetFillColor(headerColor[0], headerColor[1], headerColor[2])
	pdf.SetTextColor(headerTextColor[0], headerTextColor[1], headerTextColor[2])
	pdf.SetFont("Arial", "B", 14)
	title := fmt.Sprintf("  Cohort Retention Report (%s intervals, from %s)",
		report.Interval, report.StartAt.Format("2006-01-02"))
	pdf.CellFormat(0, 12, tr(title), "", 1, "L", true, 0, "")
	pdf.Ln(6)

	if len(report.Matrix) == 0 {
		pdf.SetFont("Arial", "", 10)
		pdf.SetTextColor(bodyTextColor[0], bodyTextColor[1], bodyTextColor[2])
		pdf.Cell(0, 8, "No report data")
	} else {
		pageWidth, _ := pdf.GetPageSize()
		left, _, right, _ := pdf.GetMargins()
		cellWidth := (pageWidth - left - right) / float64(len(report.Matrix[0]))
		if cellWidth > 24 {
			cellWidth = 24
		}

		pdf.SetFont("Arial", "B", 8)
		pdf.SetFillColor(220, 220, 220)
		pdf.SetTextColor(bodyTextColor[0], bodyTextColor[1], bodyTextColor[2])
		for _, cell := range report.Matrix[0] {
			pdf.CellFormat(cellWidth, 7, tr(cell), "1", 0, "C", true, 0, "")
		}
		pdf.Ln(-1)

		pdf.SetFont("Arial", "", 8)
		for _, row := range report.Matrix[1:] {
			for i, cell := range row {
				align := "R"
				if i == 0 {
					align = "L"
				}
				pdf.CellFormat(cellWidth, 6, tr(cell), "1", 0, align, false, 0, "")
			}
			pdf.Ln(-1)
		}
	}

	pdf.SetFont("Arial", "I", 7)
	pdf.Ln(6)
	pdf.Cell(0, 5, fmt.Sprintf("Generated at %s", report.GeneratedAt.Format(time.RFC3339)))

	if err := pdf.OutputFileAndClose(outputFilename); err != nil {
		return "", fmt.Errorf("error writing PDF file: %w", err)
	}

	return filepath.Abs(outputFilename)
}

func generateFilename(base, dir, ext string) (string, error) {
	if dir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("could not get current working directory: %w", err)
		}
		dir = cwd
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("error creating output directory '%s': %w", dir, err)
	}
	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("%s_%s.%s", base, timestamp, ext)
	return filepath.Join(dir, filename), nil
}
