package entity

import (
	"time"
)

// User is the aggregate root for the user domain.
// Password holds the bcrypt hash, never the plaintext.
type User struct {
	ID        string
	Email     string
	Password  string
	AvatarURL string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// UserInput is a full write of the user's writable fields.
// Password is plaintext here; repositories hash it before persisting.
type UserInput struct {
	Email    string
	Password string
}

// UserPatch carries only the fields the caller supplied.
type UserPatch struct {
	Email    *string
	Password *string
}

func (p UserPatch) Empty() bool {
	return p.Email == nil && p.Password == nil
}
