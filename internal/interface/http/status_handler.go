package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-posts-api/pkg/response"
)

func Status(c *gin.Context) {
	response.Success(c, http.StatusOK, gin.H{"status": "OK"})
}
