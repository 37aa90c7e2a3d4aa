package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-posts-api/internal/application"
	handlers "github.com/oksasatya/go-posts-api/internal/interface/http"
	"github.com/oksasatya/go-posts-api/internal/interface/middleware"
)

// UserModule wires the user routes.
// Public: POST /users (signup, refused for logged in callers)
// Protected: everything else under /users
type UserModule struct {
	Handler *handlers.UserHandler
	Auth    *application.AuthService
	Limiter *middleware.Limiter
	PerMin  int
}

func NewUserModule(h *handlers.UserHandler, auth *application.AuthService, limiter *middleware.Limiter, perMin int) *UserModule {
	return &UserModule{Handler: h, Auth: auth, Limiter: limiter, PerMin: perMin}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	signupLimiter := m.Limiter.Limit(10, time.Minute, middleware.KeyByIPAndPath(), nil)
	rg.POST("/users", signupLimiter, middleware.OptionalAuth(m.Auth), m.Handler.Signup)

	auth := rg.Group("/users")
	auth.Use(
		middleware.Auth(m.Auth),
		m.Limiter.Limit(m.PerMin, time.Minute, middleware.KeyByUserID(), nil),
	)
	{
		auth.GET("", m.Handler.List)
		auth.GET("/me", m.Handler.Me)
		auth.PUT("/me/avatar", m.Handler.UploadAvatar)
		auth.GET("/:id", m.Handler.Get)
		auth.PUT("/:id", m.Handler.Update)
		auth.PATCH("/:id", m.Handler.PartialUpdate)
		auth.DELETE("/:id", m.Handler.Delete)
	}
}
