package memory

import (
	"context"

	"github.com/oksasatya/go-posts-api/internal/domain/repository"
	"github.com/oksasatya/go-posts-api/pkg/apperror"
)

type VoteRepository struct {
	s *Store
}

func NewVoteRepository(s *Store) *VoteRepository {
	return &VoteRepository{s: s}
}

// InTx holds the store lock for the whole of fn, so the check and the write
// it performs are atomic. Writes are applied immediately; fn must not rely on
// rollback.
func (r *VoteRepository) InTx(_ context.Context, fn func(tx repository.VoteTx) error) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return fn(voteTx{s: r.s})
}

type voteTx struct {
	s *Store
}

func (t voteTx) PostExists(_ context.Context, postID string) (bool, error) {
	_, ok := t.s.posts[postID]
	return ok, nil
}

func (t voteTx) Exists(_ context.Context, postID, userID string) (bool, error) {
	_, ok := t.s.votes[voteKey{postID: postID, userID: userID}]
	return ok, nil
}

func (t voteTx) Insert(_ context.Context, postID, userID string) error {
	if _, ok := t.s.posts[postID]; !ok {
		return apperror.NotFound("post not found")
	}
	k := voteKey{postID: postID, userID: userID}
	if _, ok := t.s.votes[k]; ok {
		return apperror.New(apperror.KindAlreadyVoted, "you can't vote on a post more than once")
	}
	t.s.votes[k] = struct{}{}
	return nil
}

func (t voteTx) Delete(_ context.Context, postID, userID string) error {
	k := voteKey{postID: postID, userID: userID}
	if _, ok := t.s.votes[k]; !ok {
		return apperror.New(apperror.KindVoteNotFound, "vote does not exist")
	}
	delete(t.s.votes, k)
	return nil
}

var _ repository.VoteRepository = (*VoteRepository)(nil)
