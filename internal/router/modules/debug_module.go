package modules

import (
	"expvar"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-posts-api/internal/interface/middleware"
)

type DebugModule struct {
	Limiter *middleware.Limiter
}

func NewDebugModule(limiter *middleware.Limiter) *DebugModule { return &DebugModule{Limiter: limiter} }

func (m *DebugModule) Register(rg *gin.RouterGroup) {
	// expvar counters, rate limited per IP except for private networks
	rl := m.Limiter.Limit(120, time.Minute, middleware.KeyByIP(), middleware.AllowPrivateIP())
	rg.GET("/debug/vars", rl, gin.WrapH(expvar.Handler()))
}
