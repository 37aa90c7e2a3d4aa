package repository

import (
	"context"

	"github.com/oksasatya/go-posts-api/internal/domain/entity"
)

type PostRepository interface {
	CRUD[entity.Post, entity.PostInput, entity.PostPatch]
	GetWithVotes(ctx context.Context, id string) (*entity.PostWithVotes, error)
	// ListWithVotes returns one page of matching posts and the total number of matches.
	ListWithVotes(ctx context.Context, q ListQuery) ([]entity.PostWithVotes, int, error)
}
