package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-posts-api/internal/application"
	handlers "github.com/oksasatya/go-posts-api/internal/interface/http"
	"github.com/oksasatya/go-posts-api/internal/interface/middleware"
)

type PostModule struct {
	Handler *handlers.PostHandler
	Auth    *application.AuthService
	Limiter *middleware.Limiter
	PerMin  int
}

func NewPostModule(h *handlers.PostHandler, auth *application.AuthService, limiter *middleware.Limiter, perMin int) *PostModule {
	return &PostModule{Handler: h, Auth: auth, Limiter: limiter, PerMin: perMin}
}

func (m *PostModule) Register(rg *gin.RouterGroup) {
	auth := rg.Group("/posts")
	auth.Use(
		middleware.Auth(m.Auth),
		m.Limiter.Limit(m.PerMin, time.Minute, middleware.KeyByUserID(), nil),
	)
	{
		auth.GET("", m.Handler.List)
		auth.POST("", m.Handler.Create)
		auth.GET("/me", m.Handler.Mine)
		auth.GET("/search", m.Handler.Search)
		auth.GET("/:id", m.Handler.Get)
		auth.PUT("/:id", m.Handler.Update)
		auth.PATCH("/:id", m.Handler.PartialUpdate)
		auth.DELETE("/:id", m.Handler.Delete)
	}
}
