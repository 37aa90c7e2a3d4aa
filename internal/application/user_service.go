package application

import (
	"context"
	"io"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-posts-api/config"
	"github.com/oksasatya/go-posts-api/internal/domain/entity"
	repo "github.com/oksasatya/go-posts-api/internal/domain/repository"
	"github.com/oksasatya/go-posts-api/pkg/apperror"
	"github.com/oksasatya/go-posts-api/pkg/helpers"
	"github.com/oksasatya/go-posts-api/pkg/mailer"
	mailtpl "github.com/oksasatya/go-posts-api/pkg/mailer/templates"
)

var avatarExt = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

type UserService struct {
	Repo    repo.UserRepository
	Cfg     *config.Config
	Logger  logrus.FieldLogger
	Events  EventPublisher
	Avatars ObjectStore
	Cache   PostCache
}

func NewUserService(r repo.UserRepository, cfg *config.Config, logger logrus.FieldLogger, events EventPublisher, avatars ObjectStore, cache PostCache) *UserService {
	return &UserService{Repo: r, Cfg: cfg, Logger: logger, Events: events, Avatars: avatars, Cache: cache}
}

// Signup creates an account. An already authenticated caller may not sign up again.
func (s *UserService) Signup(ctx context.Context, caller *entity.User, in entity.UserInput) (*entity.User, error) {
	if caller != nil {
		return nil, apperror.Forbidden("already logged in")
	}
	u, err := s.Repo.Create(ctx, in, "")
	if err != nil {
		return nil, err
	}
	helpers.MetricUsersCreated.Add(1)
	s.notify(ctx, u.Email, mailtpl.Welcome, mailtpl.Data(s.Cfg, mailtpl.Welcome, u.Email))
	return u, nil
}

func (s *UserService) Get(ctx context.Context, id string) (*entity.User, error) {
	return s.Repo.GetByID(ctx, id)
}

func (s *UserService) List(ctx context.Context, q repo.ListQuery) ([]entity.User, error) {
	return s.Repo.List(ctx, q.Normalize(repo.DefaultLimit))
}

func (s *UserService) Update(ctx context.Context, id string, in entity.UserInput, callerID string) (*entity.User, error) {
	before, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	u, err := s.Repo.Update(ctx, id, in, callerID)
	if err != nil {
		return nil, err
	}
	if u.Email != before.Email {
		s.flushPosts(ctx)
	}
	return u, nil
}

func (s *UserService) PartialUpdate(ctx context.Context, id string, patch entity.UserPatch, callerID string) (*entity.User, error) {
	if patch.Email == nil {
		return s.Repo.PartialUpdate(ctx, id, patch, callerID)
	}
	before, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	u, err := s.Repo.PartialUpdate(ctx, id, patch, callerID)
	if err != nil {
		return nil, err
	}
	if u.Email != before.Email {
		s.flushPosts(ctx)
	}
	return u, nil
}

// flushPosts drops cached posts, which embed their owner's email.
func (s *UserService) flushPosts(ctx context.Context) {
	if s.Cache == nil {
		return
	}
	if err := s.Cache.InvalidateAll(ctx); err != nil && s.Logger != nil {
		s.Logger.WithError(err).Warn("post cache flush failed")
	}
}

// Delete removes the account; posts and votes go with it.
func (s *UserService) Delete(ctx context.Context, id string, callerID string) error {
	u, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.Repo.Delete(ctx, id, callerID); err != nil {
		return err
	}
	s.flushPosts(ctx)
	s.notify(ctx, u.Email, mailtpl.AccountDeleted,
		mailtpl.Data(s.Cfg, mailtpl.AccountDeleted, u.Email, mailtpl.WithTime(time.Now())))
	return nil
}

// UploadAvatar stores the image and records its URL on the user.
func (s *UserService) UploadAvatar(ctx context.Context, userID string, r io.Reader, contentType string) (*entity.User, error) {
	if s.Avatars == nil {
		return nil, apperror.Unavailable("avatar uploads are not configured")
	}
	ct := strings.ToLower(strings.TrimSpace(strings.SplitN(contentType, ";", 2)[0]))
	ext, ok := avatarExt[ct]
	if !ok {
		return nil, apperror.Validation("avatar must be a png, jpeg, gif or webp image")
	}
	if _, err := s.Repo.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	objectPath := path.Join("avatars", userID, uuid.NewString()+ext)
	url, err := s.Avatars.Upload(ctx, objectPath, ct, r)
	if err != nil {
		return nil, apperror.Wrap(apperror.KindInternal, "upload avatar", err)
	}
	return s.Repo.SetAvatar(ctx, userID, url)
}

// notify queues an email job. Failures are logged, never returned.
func (s *UserService) notify(ctx context.Context, to, template string, data map[string]any) {
	if s.Events == nil || s.Cfg == nil || !s.Cfg.MailSendEnabled {
		return
	}
	job := mailer.EmailJob{To: to, Template: template, Data: data}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := s.Events.PublishJSON(c, job); err != nil {
		if s.Logger != nil {
			helpers.LogError(s.Logger, "publish email job failed", err, logrus.Fields{"template": template})
		}
		return
	}
	helpers.MetricEmailsQueued.Add(1)
}
