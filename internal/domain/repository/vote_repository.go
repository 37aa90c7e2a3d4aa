package repository

import "context"

// VoteTx is the set of vote operations available inside one transaction.
type VoteTx interface {
	PostExists(ctx context.Context, postID string) (bool, error)
	Exists(ctx context.Context, postID, userID string) (bool, error)
	Insert(ctx context.Context, postID, userID string) error
	Delete(ctx context.Context, postID, userID string) error
}

type VoteRepository interface {
	// InTx runs fn in a single transaction, committing when fn returns nil.
	InTx(ctx context.Context, fn func(tx VoteTx) error) error
}
