package repository

import "context"

const (
	DefaultLimit = 100
	MaxLimit     = 100
)

// ListQuery describes filtering, ordering and pagination for List operations.
// Filters are equality matches keyed by column name. OrderBy is a column name,
// prefixed with "-" for descending order.
type ListQuery struct {
	Filters map[string]string
	OrderBy string
	Search  string
	Skip    int
	Limit   int
}

// Normalize clamps pagination to sane bounds, using def when no limit was given.
func (q ListQuery) Normalize(def int) ListQuery {
	if q.Skip < 0 {
		q.Skip = 0
	}
	if q.Limit <= 0 {
		q.Limit = def
	}
	if q.Limit > MaxLimit {
		q.Limit = MaxLimit
	}
	return q
}

// CRUD is the capability set shared by every entity repository.
// In is a full write payload, Patch a sparse one.
type CRUD[T any, In any, Patch any] interface {
	GetByID(ctx context.Context, id string) (*T, error)
	List(ctx context.Context, q ListQuery) ([]T, error)
	Count(ctx context.Context, q ListQuery) (int, error)
	Create(ctx context.Context, in In, ownerID string) (*T, error)
	Update(ctx context.Context, id string, in In, callerID string) (*T, error)
	PartialUpdate(ctx context.Context, id string, patch Patch, callerID string) (*T, error)
	Delete(ctx context.Context, id string, callerID string) error
}
