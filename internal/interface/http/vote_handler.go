package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-posts-api/internal/application"
	"github.com/oksasatya/go-posts-api/internal/interface/middleware"
	"github.com/oksasatya/go-posts-api/pkg/response"
)

type VoteHandler struct {
	Svc *application.VoteService
}

func NewVoteHandler(svc *application.VoteService) *VoteHandler {
	return &VoteHandler{Svc: svc}
}

type voteRequest struct {
	PostID string `json:"post_id" binding:"required"`
	Status *bool  `json:"status" binding:"required"`
}

// Vote adds the caller's vote when status is true and removes it otherwise.
func (h *VoteHandler) Vote(c *gin.Context) {
	var req voteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Invalid(c, err)
		return
	}
	msg, err := h.Svc.SetVote(c.Request.Context(), req.PostID, c.GetString(middleware.CtxUserIDKey), *req.Status)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Message(c, http.StatusCreated, msg)
}
