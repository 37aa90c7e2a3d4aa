package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/go-posts-api/internal/interface/http"
)

type StatusModule struct{}

func NewStatusModule() *StatusModule { return &StatusModule{} }

func (m *StatusModule) Register(rg *gin.RouterGroup) {
	rg.GET("/status", handlers.Status)
}
