package application

import (
	"context"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	repo "github.com/oksasatya/go-posts-api/internal/domain/repository"
	"github.com/oksasatya/go-posts-api/pkg/apperror"
	"github.com/oksasatya/go-posts-api/pkg/helpers"
)

const (
	VoteAdded   = "Vote added successfully"
	VoteDeleted = "Vote deleted successfully"
)

type VoteService struct {
	Repo   repo.VoteRepository
	Cache  PostCache
	Logger logrus.FieldLogger
}

func NewVoteService(r repo.VoteRepository, cache PostCache, logger logrus.FieldLogger) *VoteService {
	return &VoteService{Repo: r, Cache: cache, Logger: logger}
}

// SetVote adds (status true) or removes (status false) the caller's vote on a
// post. The existence checks and the write share one transaction.
func (s *VoteService) SetVote(ctx context.Context, postID, userID string, status bool) (string, error) {
	pid, err := uuid.Parse(postID)
	if err != nil {
		return "", apperror.InvalidIdentifier("invalid post id")
	}
	postID = pid.String()

	err = s.Repo.InTx(ctx, func(tx repo.VoteTx) error {
		ok, err := tx.PostExists(ctx, postID)
		if err != nil {
			return err
		}
		if !ok {
			return apperror.NotFound("post not found")
		}
		voted, err := tx.Exists(ctx, postID, userID)
		if err != nil {
			return err
		}
		if status {
			if voted {
				return apperror.New(apperror.KindAlreadyVoted, "you can't vote on a post more than once")
			}
			return tx.Insert(ctx, postID, userID)
		}
		if !voted {
			return apperror.New(apperror.KindVoteNotFound, "vote does not exist")
		}
		return tx.Delete(ctx, postID, userID)
	})
	if err != nil {
		return "", err
	}

	invalidate(ctx, s.Cache, s.Logger, postID)
	if status {
		helpers.MetricVotesAdded.Add(1)
		return VoteAdded, nil
	}
	helpers.MetricVotesRemoved.Add(1)
	return VoteDeleted, nil
}
