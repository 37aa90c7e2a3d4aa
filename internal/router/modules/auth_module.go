package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/go-posts-api/internal/interface/http"
	"github.com/oksasatya/go-posts-api/internal/interface/middleware"
)

// AuthModule exposes POST /login and POST /logout.
type AuthModule struct {
	Handler *handlers.AuthHandler
	Limiter *middleware.Limiter
}

func NewAuthModule(h *handlers.AuthHandler, limiter *middleware.Limiter) *AuthModule {
	return &AuthModule{Handler: h, Limiter: limiter}
}

func (m *AuthModule) Register(rg *gin.RouterGroup) {
	loginLimiter := m.Limiter.Limit(10, time.Minute, middleware.KeyByIPAndPath(), nil) // 10 req/min per IP

	rg.POST("/login", loginLimiter, m.Handler.Login)
	rg.POST("/logout", m.Handler.Logout)
}
