package repository

import (
	"context"
	"time"

	"github.com/diillson/cohort-retention-go/internal/domain/entity"
)

// SubjectRepository defines the interface for fetching cohort subjects.
type SubjectRepository interface {
	// Query retorna os sujeitos cujo campo de timestamp indicado cai
	// dentro de [startInclusive, endInclusive].
	Query(ctx context.Context, timestampField string, startInclusive, endInclusive time.Time) ([]entity.Subject, error)

	// Count retorna o total de sujeitos disponíveis na fonte.
	Count(ctx context.Context) (int, error)
}
