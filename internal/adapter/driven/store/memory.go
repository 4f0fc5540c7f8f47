package store

import (
	"context"
	"time"

	"github.com/diillson/cohort-retention-go/internal/domain/entity"
)

// MemorySubjectStore é um SubjectRepository em memória, usado em testes e
// para cargas a partir de arquivos.
type MemorySubjectStore struct {
	subjects []entity.Subject
}

// NewMemorySubjectStore cria o store com os sujeitos dados.
func NewMemorySubjectStore(subjects ...entity.Subject) *MemorySubjectStore {
	return &MemorySubjectStore{subjects: subjects}
}

// Add acrescenta sujeitos ao store.
func (s *MemorySubjectStore) Add(subjects ...entity.Subject) {
	s.subjects = append(s.subjects, subjects...)
}

// Query filtra os sujeitos cujo campo de timestamp cai em [start, end].
func (s *MemorySubjectStore) Query(_ context.Context, timestampField string, start, end time.Time) ([]entity.Subject, error) {
	var matched []entity.Subject
	for _, subject := range s.subjects {
		ts, ok := subject.Timestamp(timestampField)
		if !ok {
			continue
		}
		if !ts.Before(start) && !ts.After(end) {
			matched = append(matched, subject)
		}
	}
	return matched, nil
}

// Count retorna o total de sujeitos no store.
func (s *MemorySubjectStore) Count(_ context.Context) (int, error) {
	return len(s.subjects), nil
}
