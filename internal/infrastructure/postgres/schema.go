package postgres

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/oksasatya/go-posts-api/pkg/apperror"
)

type ColumnKind int

const (
	ColText ColumnKind = iota
	ColUUID
	ColBool
	ColTime
)

// Column describes one selectable column of an entity table.
// Writable columns may appear in write payloads; Required ones must appear in full updates.
type Column struct {
	Name     string
	Kind     ColumnKind
	Writable bool
	Required bool
}

// Schema is the per-entity strategy consumed by Store: table, columns in scan
// order, the column identifying the owner and a scan function.
type Schema[T any] struct {
	Entity       string
	Table        string
	Columns      []Column
	OwnerColumn  string
	DefaultOrder string
	Scan         func(row pgx.Row) (*T, error)
	// Search adds the free-text condition for term. Nil means the entity
	// ignores ListQuery.Search.
	Search func(w *whereBuilder, alias, term string)
}

func (s Schema[T]) column(name string) (Column, bool) {
	for _, c := range s.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return Column{}, false
}

func (s Schema[T]) selectList(alias string) string {
	names := make([]string, 0, len(s.Columns))
	for _, c := range s.Columns {
		names = append(names, qualify(alias, c.Name))
	}
	return strings.Join(names, ", ")
}

// where builds the filter and search conditions of q.
func (s Schema[T]) where(alias string, filters map[string]string, search string) (*whereBuilder, error) {
	w := &whereBuilder{}
	if err := s.applyFilters(w, alias, filters); err != nil {
		return nil, err
	}
	if term := strings.TrimSpace(search); term != "" && s.Search != nil {
		s.Search(w, alias, term)
	}
	return w, nil
}

// applyFilters adds one equality condition per filter, in key order.
func (s Schema[T]) applyFilters(w *whereBuilder, alias string, filters map[string]string) error {
	keys := make([]string, 0, len(filters))
	for k := range filters {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		col, ok := s.column(k)
		if !ok || k == "password" {
			return apperror.Query(fmt.Sprintf("invalid filter field %s", k))
		}
		v, err := parseValue(col, filters[k])
		if err != nil {
			return apperror.Query(fmt.Sprintf("invalid value for filter %s", k))
		}
		w.add(qualify(alias, col.Name)+" = %s", v)
	}
	return nil
}

// orderClause resolves "col" or "-col" through resolve and returns an ORDER BY clause.
func orderClause(orderBy, def string, resolve func(name string) (string, bool)) (string, error) {
	orderBy = strings.TrimSpace(orderBy)
	if orderBy == "" {
		if def == "" {
			return "", nil
		}
		return " ORDER BY " + def, nil
	}
	dir := "ASC"
	if strings.HasPrefix(orderBy, "-") {
		dir = "DESC"
		orderBy = orderBy[1:]
	}
	expr, ok := resolve(orderBy)
	if !ok {
		return "", apperror.Query(fmt.Sprintf("invalid order_by field %s", orderBy))
	}
	return " ORDER BY " + expr + " " + dir, nil
}

func (s Schema[T]) resolveOrder(alias string) func(string) (string, bool) {
	return func(name string) (string, bool) {
		if name == "password" {
			return "", false
		}
		if _, ok := s.column(name); !ok {
			return "", false
		}
		return qualify(alias, name), true
	}
}

func parseValue(col Column, raw string) (any, error) {
	switch col.Kind {
	case ColUUID:
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, err
		}
		return id.String(), nil
	case ColBool:
		return strconv.ParseBool(raw)
	case ColTime:
		return time.Parse(time.RFC3339, raw)
	default:
		return raw, nil
	}
}

func qualify(alias, name string) string {
	if alias == "" {
		return name
	}
	return alias + "." + name
}

// whereBuilder accumulates AND-ed conditions and their positional arguments.
type whereBuilder struct {
	conds []string
	args  []any
}

// add appends a condition; every %s in format is replaced by the placeholder of v.
func (w *whereBuilder) add(format string, v any) {
	w.args = append(w.args, v)
	ph := "$" + strconv.Itoa(len(w.args))
	w.conds = append(w.conds, strings.ReplaceAll(format, "%s", ph))
}

// next reserves a placeholder for v without adding a condition.
func (w *whereBuilder) next(v any) string {
	w.args = append(w.args, v)
	return "$" + strconv.Itoa(len(w.args))
}

func (w *whereBuilder) sql() string {
	if len(w.conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(w.conds, " AND ")
}
