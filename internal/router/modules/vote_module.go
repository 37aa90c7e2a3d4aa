package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-posts-api/internal/application"
	handlers "github.com/oksasatya/go-posts-api/internal/interface/http"
	"github.com/oksasatya/go-posts-api/internal/interface/middleware"
)

type VoteModule struct {
	Handler *handlers.VoteHandler
	Auth    *application.AuthService
	Limiter *middleware.Limiter
}

func NewVoteModule(h *handlers.VoteHandler, auth *application.AuthService, limiter *middleware.Limiter) *VoteModule {
	return &VoteModule{Handler: h, Auth: auth, Limiter: limiter}
}

func (m *VoteModule) Register(rg *gin.RouterGroup) {
	rg.POST("/vote",
		middleware.Auth(m.Auth),
		m.Limiter.Limit(60, time.Minute, middleware.KeyByUserID(), nil), // 60 votes/min per user
		m.Handler.Vote,
	)
}
