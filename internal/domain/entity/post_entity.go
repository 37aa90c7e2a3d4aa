package entity

import "time"

// Post is owned by exactly one user (UserID) for its whole lifetime.
type Post struct {
	ID        string
	Title     string
	Content   string
	Published bool
	UserID    string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type PostInput struct {
	Title     string
	Content   string
	Published bool
}

type PostPatch struct {
	Title     *string
	Content   *string
	Published *bool
}

func (p PostPatch) Empty() bool {
	return p.Title == nil && p.Content == nil && p.Published == nil
}

// PostOwner is the public projection of a post's author.
type PostOwner struct {
	ID    string
	Email string
}

// PostWithVotes is a post joined with its author and the number of votes it received.
type PostWithVotes struct {
	Post  Post
	Owner PostOwner
	Votes int64
}
