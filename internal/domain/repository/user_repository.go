package repository

import (
	"context"

	"github.com/oksasatya/go-posts-api/internal/domain/entity"
)

// UserRepository defines the interface for user-related database operations.
// A user owns itself: callerID must equal the user's id for writes.
type UserRepository interface {
	CRUD[entity.User, entity.UserInput, entity.UserPatch]
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	SetAvatar(ctx context.Context, id string, url string) (*entity.User, error)
}
