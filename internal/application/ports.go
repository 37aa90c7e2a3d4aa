package application

import (
	"context"
	"io"

	"github.com/oksasatya/go-posts-api/internal/domain/entity"
)

// EventPublisher queues background jobs such as emails.
type EventPublisher interface {
	PublishJSON(ctx context.Context, body any) error
}

// ObjectStore stores uploaded files and returns their public URL.
type ObjectStore interface {
	Upload(ctx context.Context, objectPath, contentType string, r io.Reader) (string, error)
}

// PostIndex is a full-text index of posts.
type PostIndex interface {
	Index(ctx context.Context, p entity.Post) error
	Remove(ctx context.Context, id string) error
	Search(ctx context.Context, query string, from, size int) (ids []string, total int, err error)
}

// PostCache caches aggregated posts by id.
type PostCache interface {
	Get(ctx context.Context, id string) (*entity.PostWithVotes, bool, error)
	Set(ctx context.Context, pv *entity.PostWithVotes) error
	Invalidate(ctx context.Context, id string) error
	// InvalidateAll drops every cached post, used when a cascade touches
	// posts the caller cannot enumerate.
	InvalidateAll(ctx context.Context) error
}
