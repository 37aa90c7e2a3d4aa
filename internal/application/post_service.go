package application

import (
	"context"
	"errors"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-posts-api/internal/domain/entity"
	repo "github.com/oksasatya/go-posts-api/internal/domain/repository"
	"github.com/oksasatya/go-posts-api/pkg/apperror"
	"github.com/oksasatya/go-posts-api/pkg/helpers"
)

// DefaultPostLimit is the page size of post listings when none is given.
const DefaultPostLimit = 25

// PostPage is one page of aggregated posts plus the total number of matches.
type PostPage struct {
	Items []entity.PostWithVotes
	Total int
	Skip  int
	Limit int
}

// SearchPage is one page of full-text search results.
type SearchPage struct {
	Items []entity.Post
	Total int
	Skip  int
	Limit int
}

type PostService struct {
	Repo   repo.PostRepository
	Index  PostIndex
	Cache  PostCache
	Logger logrus.FieldLogger
}

func NewPostService(r repo.PostRepository, index PostIndex, cache PostCache, logger logrus.FieldLogger) *PostService {
	return &PostService{Repo: r, Index: index, Cache: cache, Logger: logger}
}

func (s *PostService) Create(ctx context.Context, in entity.PostInput, ownerID string) (*entity.Post, error) {
	p, err := s.Repo.Create(ctx, in, ownerID)
	if err != nil {
		return nil, err
	}
	helpers.MetricPostsCreated.Add(1)
	s.index(ctx, p)
	return p, nil
}

// Get returns the post with its owner and vote count, served from the cache
// when possible.
func (s *PostService) Get(ctx context.Context, id string) (*entity.PostWithVotes, error) {
	if s.Cache != nil {
		pv, ok, err := s.Cache.Get(ctx, id)
		if err != nil {
			s.warn(err, "post cache read failed", id)
		} else if ok {
			return pv, nil
		}
	}
	pv, err := s.Repo.GetWithVotes(ctx, id)
	if err != nil {
		return nil, err
	}
	if s.Cache != nil {
		if err := s.Cache.Set(ctx, pv); err != nil {
			s.warn(err, "post cache write failed", id)
		}
	}
	return pv, nil
}

func (s *PostService) List(ctx context.Context, q repo.ListQuery) (PostPage, error) {
	q = q.Normalize(DefaultPostLimit)
	items, total, err := s.Repo.ListWithVotes(ctx, q)
	if err != nil {
		return PostPage{}, err
	}
	return PostPage{Items: items, Total: total, Skip: q.Skip, Limit: q.Limit}, nil
}

// ListByOwner lists the posts written by ownerID.
func (s *PostService) ListByOwner(ctx context.Context, ownerID string, q repo.ListQuery) (PostPage, error) {
	filters := make(map[string]string, len(q.Filters)+1)
	for k, v := range q.Filters {
		filters[k] = v
	}
	filters["user_id"] = ownerID
	q.Filters = filters
	return s.List(ctx, q)
}

func (s *PostService) Update(ctx context.Context, id string, in entity.PostInput, callerID string) (*entity.Post, error) {
	p, err := s.Repo.Update(ctx, id, in, callerID)
	if err != nil {
		return nil, err
	}
	invalidate(ctx, s.Cache, s.Logger, p.ID)
	s.index(ctx, p)
	return p, nil
}

func (s *PostService) PartialUpdate(ctx context.Context, id string, patch entity.PostPatch, callerID string) (*entity.Post, error) {
	p, err := s.Repo.PartialUpdate(ctx, id, patch, callerID)
	if err != nil {
		return nil, err
	}
	if !patch.Empty() {
		invalidate(ctx, s.Cache, s.Logger, p.ID)
		s.index(ctx, p)
	}
	return p, nil
}

func (s *PostService) Delete(ctx context.Context, id string, callerID string) error {
	if err := s.Repo.Delete(ctx, id, callerID); err != nil {
		return err
	}
	invalidate(ctx, s.Cache, s.Logger, id)
	if s.Index != nil {
		if err := s.Index.Remove(ctx, id); err != nil {
			s.warn(err, "post index delete failed", id)
		}
	}
	return nil
}

// Search queries the full-text index and falls back to a SQL substring search
// when no index is configured or the index fails.
func (s *PostService) Search(ctx context.Context, query string, skip, limit int) (SearchPage, error) {
	q := repo.ListQuery{Search: strings.TrimSpace(query), Skip: skip, Limit: limit}.Normalize(DefaultPostLimit)
	if q.Search == "" {
		return SearchPage{}, apperror.Query("search query is required")
	}
	if s.Index != nil {
		page, err := s.searchIndex(ctx, q)
		if err == nil {
			return page, nil
		}
		s.warn(err, "post index search failed, using sql", "")
	}
	items, err := s.Repo.List(ctx, q)
	if err != nil {
		return SearchPage{}, err
	}
	total, err := s.Repo.Count(ctx, q)
	if err != nil {
		return SearchPage{}, err
	}
	return SearchPage{Items: items, Total: total, Skip: q.Skip, Limit: q.Limit}, nil
}

func (s *PostService) searchIndex(ctx context.Context, q repo.ListQuery) (SearchPage, error) {
	ids, total, err := s.Index.Search(ctx, q.Search, q.Skip, q.Limit)
	if err != nil {
		return SearchPage{}, err
	}
	items := make([]entity.Post, 0, len(ids))
	for _, id := range ids {
		p, err := s.Repo.GetByID(ctx, id)
		if errors.Is(err, apperror.ErrNotFound) || errors.Is(err, apperror.ErrInvalidIdentifier) {
			continue // stale index entry
		}
		if err != nil {
			return SearchPage{}, err
		}
		items = append(items, *p)
	}
	return SearchPage{Items: items, Total: total, Skip: q.Skip, Limit: q.Limit}, nil
}

func (s *PostService) index(ctx context.Context, p *entity.Post) {
	if s.Index == nil {
		return
	}
	if err := s.Index.Index(ctx, *p); err != nil {
		s.warn(err, "post index write failed", p.ID)
	}
}

func (s *PostService) warn(err error, msg, postID string) {
	if s.Logger == nil {
		return
	}
	s.Logger.WithError(err).WithField("post_id", postID).Warn(msg)
}

func invalidate(ctx context.Context, cache PostCache, logger logrus.FieldLogger, postID string) {
	if cache == nil {
		return
	}
	if err := cache.Invalidate(ctx, postID); err != nil && logger != nil {
		logger.WithError(err).WithField("post_id", postID).Warn("post cache invalidation failed")
	}
}
