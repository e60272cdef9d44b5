package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"portfolio-api/internal/apperr"
	"portfolio-api/internal/repository"
)

// Store provides uniform create/read/update/delete operations for one entity
// type, described by its repository.Schema. Constraint violations surface as
// 400 Conflict errors carrying the first line of the driver message; lookups
// by id that match nothing surface as 404.
type Store[T any] struct {
	db         *sql.DB
	schema     repository.Schema[T]
	transforms map[string]func(string) (string, error)
}

// Option configures a Store.
type Option[T any] func(*Store[T])

// WithTransform registers a write-side value transform for one column,
// applied on Create and Update before the value is persisted. Used to hash
// the password column.
func WithTransform[T any](column string, fn func(string) (string, error)) Option[T] {
	return func(s *Store[T]) {
		s.transforms[column] = fn
	}
}

func NewStore[T any](db *sql.DB, schema repository.Schema[T], opts ...Option[T]) *Store[T] {
	s := &Store[T]{
		db:         db,
		schema:     schema,
		transforms: make(map[string]func(string) (string, error)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store[T]) Init(ctx context.Context) error {
	for _, ddl := range s.schema.DDL {
		if _, err := s.db.ExecContext(ctx, ddl); err != nil {
			return fmt.Errorf("init %s table: %w", s.schema.Table, err)
		}
	}
	return nil
}

// Create inserts a new row with a fresh id and equal created_at/updated_at,
// then returns the freshly loaded row. fields holds the entity's public
// columns; omitted columns stay NULL and may trip NOT NULL constraints.
func (s *Store[T]) Create(ctx context.Context, fields repository.Fields) (*T, error) {
	cols, args, err := s.columnArgs(fields, true)
	if err != nil {
		return nil, err
	}

	id := uuid.NewString()
	now := time.Now().UTC()
	cols = append([]string{"id", "created_at", "updated_at"}, cols...)
	args = append([]any{id, now, now}, args...)

	query := fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s)",
		s.schema.Table,
		strings.Join(cols, ", "),
		placeholders(len(cols)),
	)
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return nil, s.translate("insert", err)
	}

	created, err := s.Get(ctx, repository.Fields{"id": id})
	if err != nil {
		return nil, err
	}
	if created == nil {
		return nil, fmt.Errorf("reload %s %s: row missing after insert", s.schema.Table, id)
	}
	return created, nil
}

// Get returns the first row matching the filter, or nil when nothing matches.
// Absence is not an error.
func (s *Store[T]) Get(ctx context.Context, filter repository.Fields) (*T, error) {
	where, args, err := s.whereClause(filter)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf("SELECT %s FROM %s%s LIMIT 1", s.selectColumns(), s.schema.Table, where)
	entity, err := s.schema.Scan(s.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan %s: %w", s.schema.Table, err)
	}
	return entity, nil
}

// GetAll returns every row, newest first.
func (s *Store[T]) GetAll(ctx context.Context) ([]T, error) {
	return s.GetFiltered(ctx, nil)
}

// GetFiltered returns rows matching the filter, newest first.
func (s *Store[T]) GetFiltered(ctx context.Context, filter repository.Fields) ([]T, error) {
	where, args, err := s.whereClause(filter)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(
		"SELECT %s FROM %s%s ORDER BY created_at DESC",
		s.selectColumns(), s.schema.Table, where,
	)
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", s.schema.Table, err)
	}
	defer rows.Close()

	var entities []T
	for rows.Next() {
		entity, err := s.schema.Scan(rows)
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", s.schema.Table, err)
		}
		entities = append(entities, *entity)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s: %w", s.schema.Table, err)
	}
	return entities, nil
}

// Update loads the row by id, applies every provided field in one UPDATE with
// a refreshed updated_at, and returns the updated row. Registered transforms
// run on their column's value first.
func (s *Store[T]) Update(ctx context.Context, id string, fields repository.Fields) (*T, error) {
	existing, err := s.Get(ctx, repository.Fields{"id": id})
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, apperr.NotFound()
	}

	cols, args, err := s.columnArgs(fields, true)
	if err != nil {
		return nil, err
	}
	assignments := make([]string, 0, len(cols)+1)
	for _, col := range cols {
		assignments = append(assignments, col+" = ?")
	}
	assignments = append(assignments, "updated_at = ?")
	args = append(args, time.Now().UTC(), id)

	query := fmt.Sprintf(
		"UPDATE %s SET %s WHERE id = ?",
		s.schema.Table,
		strings.Join(assignments, ", "),
	)
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return nil, s.translate("update", err)
	}

	return s.Get(ctx, repository.Fields{"id": id})
}

// Delete removes the row by id, failing with 404 when it does not exist.
func (s *Store[T]) Delete(ctx context.Context, id string) error {
	existing, err := s.Get(ctx, repository.Fields{"id": id})
	if err != nil {
		return err
	}
	if existing == nil {
		return apperr.NotFound()
	}

	query := fmt.Sprintf("DELETE FROM %s WHERE id = ?", s.schema.Table)
	if _, err := s.db.ExecContext(ctx, query, id); err != nil {
		return s.translate("delete", err)
	}
	return nil
}

func (s *Store[T]) selectColumns() string {
	cols := append([]string{"id", "created_at", "updated_at"}, s.schema.Columns...)
	return strings.Join(cols, ", ")
}

// columnArgs validates the field keys against the schema and returns them in
// a stable order alongside their values. Transforms apply only on writes, not
// on filters.
func (s *Store[T]) columnArgs(fields repository.Fields, write bool) ([]string, []any, error) {
	cols := make([]string, 0, len(fields))
	for col := range fields {
		if !s.schema.HasColumn(col) {
			return nil, nil, fmt.Errorf("%s has no column %q", s.schema.Table, col)
		}
		cols = append(cols, col)
	}
	sort.Strings(cols)

	args := make([]any, 0, len(cols))
	for _, col := range cols {
		value := fields[col]
		if fn, ok := s.transforms[col]; ok && write {
			raw, ok := value.(string)
			if !ok {
				return nil, nil, fmt.Errorf("%s column %q requires a string value", s.schema.Table, col)
			}
			transformed, err := fn(raw)
			if err != nil {
				return nil, nil, fmt.Errorf("transform %s.%s: %w", s.schema.Table, col, err)
			}
			value = transformed
		}
		args = append(args, value)
	}
	return cols, args, nil
}

func (s *Store[T]) whereClause(filter repository.Fields) (string, []any, error) {
	if len(filter) == 0 {
		return "", nil, nil
	}
	cols, args, err := s.columnArgs(filter, false)
	if err != nil {
		return "", nil, err
	}
	clauses := make([]string, 0, len(cols))
	for _, col := range cols {
		clauses = append(clauses, col+" = ?")
	}
	return " WHERE " + strings.Join(clauses, " AND "), args, nil
}

// translate maps driver constraint violations to Conflict, keeping only the
// first line of the driver message.
func (s *Store[T]) translate(op string, err error) error {
	msg := err.Error()
	if strings.Contains(strings.ToLower(msg), "constraint") {
		if i := strings.IndexByte(msg, '\n'); i >= 0 {
			msg = msg[:i]
		}
		return apperr.Conflict(msg)
	}
	return fmt.Errorf("%s %s: %w", op, s.schema.Table, err)
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}
