// Package memory keeps users, posts and votes in process memory. It honours
// the same ownership, uniqueness and cascade rules as the postgres backend.
package memory

import (
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/oksasatya/go-posts-api/internal/domain/entity"
	"github.com/oksasatya/go-posts-api/internal/domain/repository"
	"github.com/oksasatya/go-posts-api/pkg/apperror"
)

type voteKey struct {
	postID string
	userID string
}

type userRow struct {
	entity.User
	seq int64
}

type postRow struct {
	entity.Post
	seq int64
}

// Store is the shared state behind the memory repositories.
type Store struct {
	mu    sync.RWMutex
	seq   int64
	users map[string]*userRow
	posts map[string]*postRow
	votes map[voteKey]struct{}
	now   func() time.Time
}

func NewStore() *Store {
	return &Store{
		users: make(map[string]*userRow),
		posts: make(map[string]*postRow),
		votes: make(map[voteKey]struct{}),
		now:   func() time.Time { return time.Now().UTC() },
	}
}

func (s *Store) nextSeq() int64 {
	s.seq++
	return s.seq
}

func checkID(entityName, id string) (string, error) {
	u, err := uuid.Parse(id)
	if err != nil {
		return "", apperror.InvalidIdentifier("invalid " + entityName + " id")
	}
	return u.String(), nil
}

// field describes a filterable and sortable attribute of a row.
type field[T any] struct {
	kind  string // text, uuid, bool, time
	value func(T) string
	less  func(a, b T) bool
}

func matchFilters[T any](fields map[string]field[T], filters map[string]string) (func(T) bool, error) {
	type cond struct {
		f    field[T]
		want string
	}
	conds := make([]cond, 0, len(filters))
	keys := make([]string, 0, len(filters))
	for k := range filters {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		f, ok := fields[k]
		if !ok {
			return nil, apperror.Query("invalid filter field " + k)
		}
		want, err := normalizeValue(f.kind, filters[k])
		if err != nil {
			return nil, apperror.Query("invalid value for filter " + k)
		}
		conds = append(conds, cond{f: f, want: want})
	}
	return func(row T) bool {
		for _, c := range conds {
			if c.f.value(row) != c.want {
				return false
			}
		}
		return true
	}, nil
}

func normalizeValue(kind, raw string) (string, error) {
	switch kind {
	case "uuid":
		u, err := uuid.Parse(raw)
		if err != nil {
			return "", err
		}
		return u.String(), nil
	case "bool":
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return "", err
		}
		return strconv.FormatBool(b), nil
	case "time":
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return "", err
		}
		return t.UTC().Format(time.RFC3339Nano), nil
	default:
		return raw, nil
	}
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

// sortRows orders rows by orderBy ("col" or "-col"), falling back to def.
func sortRows[T any](rows []T, fields map[string]field[T], orderBy string, def func(a, b T) bool) error {
	less := def
	orderBy = strings.TrimSpace(orderBy)
	if orderBy != "" {
		desc := strings.HasPrefix(orderBy, "-")
		name := strings.TrimPrefix(orderBy, "-")
		f, ok := fields[name]
		if !ok || f.less == nil {
			return apperror.Query("invalid order_by field " + name)
		}
		less = f.less
		if desc {
			asc := less
			less = func(a, b T) bool { return asc(b, a) }
		}
	}
	sort.SliceStable(rows, func(i, j int) bool { return less(rows[i], rows[j]) })
	return nil
}

func page[T any](rows []T, q repository.ListQuery) []T {
	if q.Skip >= len(rows) {
		return []T{}
	}
	end := q.Skip + q.Limit
	if end > len(rows) {
		end = len(rows)
	}
	return rows[q.Skip:end]
}

func forbidden(entityName string) error {
	return apperror.Forbidden("not allowed to modify this " + entityName)
}
