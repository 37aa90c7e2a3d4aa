package router

import (
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-posts-api/config"
	"github.com/oksasatya/go-posts-api/internal/application"
	"github.com/oksasatya/go-posts-api/internal/container"
	"github.com/oksasatya/go-posts-api/internal/infrastructure/cache"
	"github.com/oksasatya/go-posts-api/internal/infrastructure/search"
	"github.com/oksasatya/go-posts-api/internal/infrastructure/storage"
	handlers "github.com/oksasatya/go-posts-api/internal/interface/http"
	"github.com/oksasatya/go-posts-api/internal/interface/middleware"
	"github.com/oksasatya/go-posts-api/internal/router/modules"
)

// Deps holds what the HTTP modules are built from.
type Deps struct {
	Config  *config.Config
	Auth    *application.AuthService
	Users   *application.UserService
	Posts   *application.PostService
	Votes   *application.VoteService
	Limiter *middleware.Limiter
}

func buildDeps() Deps {
	cfg := container.GetConfig()
	logger := loggerOrNil(container.GetLogger())
	userRepo, postRepo, voteRepo := container.Repositories()

	var (
		postCache application.PostCache
		index     application.PostIndex
		avatars   application.ObjectStore
		events    application.EventPublisher
		limiter   *middleware.Limiter
	)
	if rdb := container.GetRedis(); rdb != nil {
		postCache = cache.NewPostCache(rdb, cfg.PostCacheTTL)
		if cfg.RateLimitEnabled {
			limiter = middleware.NewLimiter(rdb)
		}
	}
	if es := container.GetES(); es != nil {
		index = search.NewPostIndex(es, cfg.ESPostsIndex)
	}
	if gcs := container.GetGCS(); gcs != nil && cfg.GCSBucket != "" {
		avatars = storage.NewGCSStore(gcs, cfg.GCSBucket)
	}
	if pub := container.GetRabbitPub(); pub != nil {
		events = pub
	}

	return Deps{
		Config:  cfg,
		Auth:    application.NewAuthService(userRepo, container.GetJWT(), logger),
		Users:   application.NewUserService(userRepo, cfg, logger, events, avatars, postCache),
		Posts:   application.NewPostService(postRepo, index, postCache, logger),
		Votes:   application.NewVoteService(voteRepo, postCache, logger),
		Limiter: limiter,
	}
}

func loggerOrNil(l *logrus.Logger) logrus.FieldLogger {
	if l == nil {
		return nil
	}
	return l
}

// InitModules wires every module from the container singletons.
// This function should be called once during application startup.
func InitModules(r *Registry) {
	AddModules(r, buildDeps())
}

// AddModules registers the API modules built from d.
func AddModules(r *Registry, d Deps) {
	r.Add(modules.NewStatusModule())
	r.Add(modules.NewAuthModule(handlers.NewAuthHandler(d.Auth, d.Config.CookieDomain, d.Config.CookieSecure), d.Limiter))
	r.Add(modules.NewUserModule(handlers.NewUserHandler(d.Users, d.Config.AvatarMaxBytes), d.Auth, d.Limiter, d.Config.RateLimitPerMin))
	r.Add(modules.NewPostModule(handlers.NewPostHandler(d.Posts), d.Auth, d.Limiter, d.Config.RateLimitPerMin))
	r.Add(modules.NewVoteModule(handlers.NewVoteHandler(d.Votes), d.Auth, d.Limiter))
	if d.Config.DebugMetricsEnabled {
		r.Add(modules.NewDebugModule(d.Limiter))
	}
}
