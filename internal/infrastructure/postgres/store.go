package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/oksasatya/go-posts-api/internal/domain/repository"
	"github.com/oksasatya/go-posts-api/pkg/apperror"
)

// Field is one column assignment of a write.
type Field struct {
	Column string
	Value  any
}

// Store implements the generic CRUD operations for one entity schema.
type Store[T any] struct {
	db     DB
	schema Schema[T]
}

func NewStore[T any](db DB, schema Schema[T]) *Store[T] {
	return &Store[T]{db: db, schema: schema}
}

func (s *Store[T]) checkID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return apperror.InvalidIdentifier(fmt.Sprintf("invalid %s id", s.schema.Entity))
	}
	return nil
}

func (s *Store[T]) notFound() error {
	return apperror.NotFound(s.schema.Entity + " not found")
}

func (s *Store[T]) GetByID(ctx context.Context, id string) (*T, error) {
	if err := s.checkID(id); err != nil {
		return nil, err
	}
	return s.getByID(ctx, s.db, id)
}

func (s *Store[T]) getByID(ctx context.Context, q querier, id string) (*T, error) {
	sql := fmt.Sprintf("SELECT %s FROM %s WHERE id = $1", s.schema.selectList(""), s.schema.Table)
	t, err := s.schema.Scan(q.QueryRow(ctx, sql, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, s.notFound()
		}
		return nil, translate(err)
	}
	return t, nil
}

func (s *Store[T]) List(ctx context.Context, lq repository.ListQuery) ([]T, error) {
	lq = lq.Normalize(repository.DefaultLimit)
	w, err := s.schema.where("", lq.Filters, lq.Search)
	if err != nil {
		return nil, err
	}
	order, err := orderClause(lq.OrderBy, s.schema.DefaultOrder, s.schema.resolveOrder(""))
	if err != nil {
		return nil, err
	}
	where := w.sql()
	limit := w.next(lq.Limit)
	offset := w.next(lq.Skip)
	sql := fmt.Sprintf("SELECT %s FROM %s%s%s LIMIT %s OFFSET %s",
		s.schema.selectList(""), s.schema.Table, where, order, limit, offset)

	rows, err := s.db.Query(ctx, sql, w.args...)
	if err != nil {
		return nil, translate(err)
	}
	defer rows.Close()

	out := make([]T, 0, lq.Limit)
	for rows.Next() {
		t, err := s.schema.Scan(rows)
		if err != nil {
			return nil, translate(err)
		}
		out = append(out, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, translate(err)
	}
	return out, nil
}

func (s *Store[T]) Count(ctx context.Context, lq repository.ListQuery) (int, error) {
	w, err := s.schema.where("", lq.Filters, lq.Search)
	if err != nil {
		return 0, err
	}
	var n int
	sql := fmt.Sprintf("SELECT COUNT(*) FROM %s%s", s.schema.Table, w.sql())
	if err := s.db.QueryRow(ctx, sql, w.args...).Scan(&n); err != nil {
		return 0, translate(err)
	}
	return n, nil
}

// Create inserts a row. When the schema has an owner column other than its own
// id, ownerID is injected into the insert.
func (s *Store[T]) Create(ctx context.Context, fields []Field, ownerID string) (*T, error) {
	if err := s.checkWrite(fields, true); err != nil {
		return nil, err
	}
	all := append([]Field(nil), fields...)
	if owner := s.schema.OwnerColumn; owner != "" && owner != "id" {
		if ownerID == "" {
			return nil, apperror.Validation("invalid value for field " + owner)
		}
		if _, err := uuid.Parse(ownerID); err != nil {
			return nil, apperror.InvalidIdentifier("invalid owner id")
		}
		all = append(all, Field{Column: owner, Value: ownerID})
	}

	cols := make([]string, 0, len(all))
	phs := make([]string, 0, len(all))
	args := make([]any, 0, len(all))
	for i, f := range all {
		cols = append(cols, f.Column)
		phs = append(phs, fmt.Sprintf("$%d", i+1))
		args = append(args, f.Value)
	}
	sql := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) RETURNING %s",
		s.schema.Table, strings.Join(cols, ", "), strings.Join(phs, ", "), s.schema.selectList(""))

	t, err := s.schema.Scan(s.db.QueryRow(ctx, sql, args...))
	if err != nil {
		return nil, translate(err)
	}
	return t, nil
}

// Update overwrites every required column.
func (s *Store[T]) Update(ctx context.Context, id string, fields []Field, callerID string) (*T, error) {
	return s.write(ctx, id, fields, callerID, true)
}

// PartialUpdate writes only the given fields; with no fields it returns the
// current row once the caller is authorized.
func (s *Store[T]) PartialUpdate(ctx context.Context, id string, fields []Field, callerID string) (*T, error) {
	return s.write(ctx, id, fields, callerID, false)
}

func (s *Store[T]) write(ctx context.Context, id string, fields []Field, callerID string, full bool) (*T, error) {
	if err := s.checkID(id); err != nil {
		return nil, err
	}
	if err := s.checkWrite(fields, full); err != nil {
		return nil, err
	}

	var out *T
	err := inTx(ctx, s.db, func(tx pgx.Tx) error {
		if err := s.authorize(ctx, tx, id, callerID); err != nil {
			return err
		}
		if len(fields) == 0 {
			t, err := s.getByID(ctx, tx, id)
			out = t
			return err
		}

		sets := make([]string, 0, len(fields)+1)
		args := make([]any, 0, len(fields)+1)
		for _, f := range fields {
			args = append(args, f.Value)
			sets = append(sets, fmt.Sprintf("%s = $%d", f.Column, len(args)))
		}
		sets = append(sets, "updated_at = now()")
		args = append(args, id)
		sql := fmt.Sprintf("UPDATE %s SET %s WHERE id = $%d RETURNING %s",
			s.schema.Table, strings.Join(sets, ", "), len(args), s.schema.selectList(""))

		t, err := s.schema.Scan(tx.QueryRow(ctx, sql, args...))
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return s.notFound()
			}
			return translate(err)
		}
		out = t
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Store[T]) Delete(ctx context.Context, id string, callerID string) error {
	if err := s.checkID(id); err != nil {
		return err
	}
	return inTx(ctx, s.db, func(tx pgx.Tx) error {
		if err := s.authorize(ctx, tx, id, callerID); err != nil {
			return err
		}
		sql := fmt.Sprintf("DELETE FROM %s WHERE id = $1", s.schema.Table)
		tag, err := tx.Exec(ctx, sql, id)
		if err != nil {
			return translate(err)
		}
		if tag.RowsAffected() == 0 {
			return s.notFound()
		}
		return nil
	})
}

// authorize locks the row and checks that callerID owns it.
func (s *Store[T]) authorize(ctx context.Context, q querier, id, callerID string) error {
	var owner string
	sql := fmt.Sprintf("SELECT %s FROM %s WHERE id = $1 FOR UPDATE", s.schema.OwnerColumn, s.schema.Table)
	if err := q.QueryRow(ctx, sql, id).Scan(&owner); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return s.notFound()
		}
		return translate(err)
	}
	if callerID == "" || !strings.EqualFold(owner, callerID) {
		return apperror.Forbidden(fmt.Sprintf("not allowed to modify this %s", s.schema.Entity))
	}
	return nil
}

func (s *Store[T]) checkWrite(fields []Field, full bool) error {
	seen := make(map[string]bool, len(fields))
	for _, f := range fields {
		col, ok := s.schema.column(f.Column)
		if !ok || !col.Writable {
			return apperror.Query("invalid field " + f.Column)
		}
		if f.Value == nil {
			return apperror.Validation("invalid value for field " + f.Column)
		}
		seen[f.Column] = true
	}
	if full {
		for _, col := range s.schema.Columns {
			if col.Required && !seen[col.Name] {
				return apperror.Validation("invalid value for field " + col.Name)
			}
		}
	}
	return nil
}
