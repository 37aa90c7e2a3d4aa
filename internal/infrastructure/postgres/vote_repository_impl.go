package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/oksasatya/go-posts-api/internal/domain/repository"
	"github.com/oksasatya/go-posts-api/pkg/apperror"
)

type VoteRepository struct {
	db DB
}

func NewVoteRepository(db DB) *VoteRepository {
	return &VoteRepository{db: db}
}

func (r *VoteRepository) InTx(ctx context.Context, fn func(tx repository.VoteTx) error) error {
	return inTx(ctx, r.db, func(tx pgx.Tx) error {
		return fn(voteTx{q: tx})
	})
}

type voteTx struct {
	q querier
}

func (t voteTx) PostExists(ctx context.Context, postID string) (bool, error) {
	var ok bool
	err := t.q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM posts WHERE id = $1)`, postID).Scan(&ok)
	if err != nil {
		return false, translate(err)
	}
	return ok, nil
}

func (t voteTx) Exists(ctx context.Context, postID, userID string) (bool, error) {
	var ok bool
	err := t.q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM votes WHERE post_id = $1 AND user_id = $2)`, postID, userID).Scan(&ok)
	if err != nil {
		return false, translate(err)
	}
	return ok, nil
}

func (t voteTx) Insert(ctx context.Context, postID, userID string) error {
	_, err := t.q.Exec(ctx, `INSERT INTO votes (post_id, user_id) VALUES ($1, $2)`, postID, userID)
	switch {
	case err == nil:
		return nil
	case isCode(err, codeUniqueViolation):
		return apperror.Wrap(apperror.KindAlreadyVoted, "you can't vote on a post more than once", err)
	case isCode(err, codeForeignKeyViolation):
		// the post was deleted after the existence check
		return apperror.Wrap(apperror.KindNotFound, "post not found", err)
	default:
		return translate(err)
	}
}

func (t voteTx) Delete(ctx context.Context, postID, userID string) error {
	tag, err := t.q.Exec(ctx, `DELETE FROM votes WHERE post_id = $1 AND user_id = $2`, postID, userID)
	if err != nil {
		return translate(err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.New(apperror.KindVoteNotFound, "vote does not exist")
	}
	return nil
}

var _ repository.VoteRepository = (*VoteRepository)(nil)
