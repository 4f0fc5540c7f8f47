package store

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/diillson/cohort-retention-go/internal/domain/entity"
)

// Layouts aceitos para as colunas de timestamp do arquivo de entrada.
var csvTimeLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// LoadSubjectsCSV lê sujeitos de um arquivo CSV para um MemorySubjectStore.
// A primeira linha é o cabeçalho: a coluna "id" seguida de colunas de
// timestamp (ex.: "created_at", "activated_at"). Células vazias significam
// ausência do timestamp.
func LoadSubjectsCSV(path string) (*MemorySubjectStore, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open subjects file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read subjects file: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("subjects file %s is empty", path)
	}

	header := records[0]
	idIndex := -1
	for i, name := range header {
		if strings.EqualFold(strings.TrimSpace(name), "id") {
			idIndex = i
			break
		}
	}
	if idIndex < 0 {
		return nil, fmt.Errorf("subjects file %s has no \"id\" column", path)
	}

	subjects := make([]entity.Subject, 0, len(records)-1)
	for line, record := range records[1:] {
		subject := entity.Subject{
			ID:         strings.TrimSpace(record[idIndex]),
			Timestamps: make(map[string]time.Time, len(header)-1),
		}
		for i, cell := range record {
			if i == idIndex {
				continue
			}
			cell = strings.TrimSpace(cell)
			if cell == "" {
				continue
			}
			ts, err := parseCSVTime(cell)
			if err != nil {
				return nil, fmt.Errorf("line %d, column %q: %w", line+2, header[i], err)
			}
			subject.Timestamps[strings.TrimSpace(header[i])] = ts
		}
		subjects = append(subjects, subject)
	}

	return NewMemorySubjectStore(subjects...), nil
}

func parseCSVTime(value string) (time.Time, error) {
	for _, layout := range csvTimeLayouts {
		if ts, err := time.Parse(layout, value); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", value)
}
