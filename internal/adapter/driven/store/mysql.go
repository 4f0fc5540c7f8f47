package store

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/diillson/cohort-retention-go/internal/domain/cohort"
	"github.com/diillson/cohort-retention-go/internal/domain/entity"

	_ "github.com/go-sql-driver/mysql"
)

// Formato DATETIME do MySQL; os limites chegam em UTC.
const datetimeLayout = "2006-01-02 15:04:05.999999"

var identPattern = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

// MySQLSubjectStore implementa repository.SubjectRepository sobre uma tabela
// MySQL/MariaDB com uma coluna de id e colunas de timestamp. extraFields são
// colunas de timestamp adicionais carregadas em cada sujeito (ex.: o campo
// de ativação).
type MySQLSubjectStore struct {
	db          *sql.DB
	table       string
	idColumn    string
	extraFields []string
}

// OpenMySQLSubjectStore abre uma conexão a partir de um DSN (URL ou nativo)
// e cria o store para a tabela indicada.
func OpenMySQLSubjectStore(dsn, table string, extraFields ...string) (*MySQLSubjectStore, error) {
	normalized, err := NormalizeDSN(dsn)
	if err != nil {
		return nil, err
	}
	db, err := sql.Open("mysql", normalized)
	if err != nil {
		return nil, fmt.Errorf("open mysql: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	store, err := NewMySQLSubjectStore(db, table, extraFields...)
	if err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

// NewMySQLSubjectStore cria o store sobre uma conexão existente.
func NewMySQLSubjectStore(db *sql.DB, table string, extraFields ...string) (*MySQLSubjectStore, error) {
	if !identPattern.MatchString(table) {
		return nil, fmt.Errorf("invalid table name %q", table)
	}
	for _, field := range extraFields {
		if !identPattern.MatchString(field) {
			return nil, fmt.Errorf("invalid column name %q", field)
		}
	}
	return &MySQLSubjectStore{db: db, table: table, idColumn: "id", extraFields: extraFields}, nil
}

// DB expõe a conexão subjacente (usada por predicados apoiados em SQL).
func (s *MySQLSubjectStore) DB() *sql.DB {
	return s.db
}

// Close fecha a conexão subjacente.
func (s *MySQLSubjectStore) Close() error {
	return s.db.Close()
}

// Query retorna os sujeitos cujo campo de timestamp cai em [start, end].
func (s *MySQLSubjectStore) Query(ctx context.Context, timestampField string, start, end time.Time) ([]entity.Subject, error) {
	if !identPattern.MatchString(timestampField) {
		return nil, fmt.Errorf("invalid timestamp column %q", timestampField)
	}

	columns := []string{s.idColumn, timestampField}
	for _, field := range s.extraFields {
		if field != timestampField {
			columns = append(columns, field)
		}
	}

	// Identificadores validados na construção; só os limites viram placeholders.
	query := fmt.Sprintf("SELECT %s FROM %s WHERE %s BETWEEN ? AND ?",
		strings.Join(columns, ", "), s.table, timestampField)

	rows, err := s.db.QueryContext(ctx, query,
		start.UTC().Format(datetimeLayout), end.UTC().Format(datetimeLayout))
	if err != nil {
		return nil, fmt.Errorf("query subjects: %w", err)
	}
	defer rows.Close()

	var subjects []entity.Subject
	for rows.Next() {
		var id string
		var ts time.Time
		extras := make([]sql.NullTime, len(columns)-2)
		dest := make([]interface{}, 0, len(columns))
		dest = append(dest, &id, &ts)
		for i := range extras {
			dest = append(dest, &extras[i])
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scan subject: %w", err)
		}

		timestamps := make(map[string]time.Time, len(columns)-1)
		timestamps[timestampField] = ts
		for i, field := range columns[2:] {
			if extras[i].Valid {
				timestamps[field] = extras[i].Time
			}
		}
		subjects = append(subjects, entity.Subject{ID: id, Timestamps: timestamps})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate subjects: %w", err)
	}
	return subjects, nil
}

// Count retorna o total de linhas da tabela de sujeitos.
func (s *MySQLSubjectStore) Count(ctx context.Context) (int, error) {
	query := fmt.Sprintf("SELECT COUNT(*) FROM %s", s.table)
	var total int
	if err := s.db.QueryRowContext(ctx, query).Scan(&total); err != nil {
		return 0, fmt.Errorf("count subjects: %w", err)
	}
	return total, nil
}

// NewEventActivation retorna um predicado apoiado em uma tabela de eventos:
// o sujeito ativa quando existe ao menos um evento dele dentro da janela.
// Erros de consulta são reportados via onError (se não nil) e contam como
// não ativado.
func NewEventActivation(db *sql.DB, table, subjectColumn, timestampColumn string, onError func(error)) (cohort.ActivationPredicate, error) {
	for _, ident := range []string{table, subjectColumn, timestampColumn} {
		if !identPattern.MatchString(ident) {
			return nil, fmt.Errorf("invalid identifier %q", ident)
		}
	}
	query := fmt.Sprintf("SELECT EXISTS(SELECT 1 FROM %s WHERE %s = ? AND %s BETWEEN ? AND ?)",
		table, subjectColumn, timestampColumn)

	return func(subject entity.Subject, windowStart, windowEnd time.Time) bool {
		var exists bool
		err := db.QueryRow(query, subject.ID,
			windowStart.UTC().Format(datetimeLayout),
			windowEnd.UTC().Format(datetimeLayout)).Scan(&exists)
		if err != nil {
			if onError != nil {
				onError(fmt.Errorf("activation lookup for subject %s: %w", subject.ID, err))
			}
			return false
		}
		return exists
	}, nil
}
