package handlers

import (
	"bufio"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-posts-api/internal/application"
	"github.com/oksasatya/go-posts-api/internal/domain/entity"
	"github.com/oksasatya/go-posts-api/internal/interface/middleware"
	"github.com/oksasatya/go-posts-api/pkg/apperror"
	"github.com/oksasatya/go-posts-api/pkg/response"
)

type UserHandler struct {
	Svc            *application.UserService
	AvatarMaxBytes int64
}

func NewUserHandler(svc *application.UserService, avatarMaxBytes int64) *UserHandler {
	return &UserHandler{Svc: svc, AvatarMaxBytes: avatarMaxBytes}
}

type userRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,pwd"`
}

func (r userRequest) input() entity.UserInput {
	return entity.UserInput{Email: r.Email, Password: r.Password}
}

type userPatchRequest struct {
	Email    *string `json:"email" binding:"omitempty,email"`
	Password *string `json:"password" binding:"omitempty,pwd"`
}

func (h *UserHandler) Signup(c *gin.Context) {
	var req userRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Invalid(c, err)
		return
	}
	u, err := h.Svc.Signup(c.Request.Context(), middleware.CurrentUser(c), req.input())
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusCreated, toUser(u))
}

func (h *UserHandler) Me(c *gin.Context) {
	u := middleware.CurrentUser(c)
	if u == nil {
		response.Fail(c, apperror.Unauthenticated("not authenticated"))
		return
	}
	response.Success(c, http.StatusOK, toUser(u))
}

func (h *UserHandler) List(c *gin.Context) {
	q, err := parseListQuery(c)
	if err != nil {
		response.Fail(c, err)
		return
	}
	users, err := h.Svc.List(c.Request.Context(), q)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, toUsers(users))
}

func (h *UserHandler) Get(c *gin.Context) {
	u, err := h.Svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, toUser(u))
}

func (h *UserHandler) Update(c *gin.Context) {
	var req userRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Invalid(c, err)
		return
	}
	u, err := h.Svc.Update(c.Request.Context(), c.Param("id"), req.input(), c.GetString(middleware.CtxUserIDKey))
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, toUser(u))
}

func (h *UserHandler) PartialUpdate(c *gin.Context) {
	var req userPatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Invalid(c, err)
		return
	}
	patch := entity.UserPatch{Email: req.Email, Password: req.Password}
	u, err := h.Svc.PartialUpdate(c.Request.Context(), c.Param("id"), patch, c.GetString(middleware.CtxUserIDKey))
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, toUser(u))
}

func (h *UserHandler) Delete(c *gin.Context) {
	if err := h.Svc.Delete(c.Request.Context(), c.Param("id"), c.GetString(middleware.CtxUserIDKey)); err != nil {
		response.Fail(c, err)
		return
	}
	response.NoContent(c)
}

// UploadAvatar reads the multipart "avatar" file. The content type is sniffed
// from the file itself.
func (h *UserHandler) UploadAvatar(c *gin.Context) {
	if h.AvatarMaxBytes > 0 {
		// room for the multipart envelope around the file
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.AvatarMaxBytes+64<<10)
	}
	fh, err := c.FormFile("avatar")
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge) || (err == nil && h.AvatarMaxBytes > 0 && fh.Size > h.AvatarMaxBytes):
		response.Fail(c, apperror.Validation(fmt.Sprintf("avatar must be at most %d bytes", h.AvatarMaxBytes)))
		return
	case err != nil:
		response.Fail(c, apperror.Validation("avatar file is required"))
		return
	}
	f, err := fh.Open()
	if err != nil {
		response.Fail(c, apperror.Wrap(apperror.KindInternal, "open avatar", err))
		return
	}
	defer f.Close()

	br := bufio.NewReaderSize(f, 512)
	head, _ := br.Peek(512)
	u, err := h.Svc.UploadAvatar(c.Request.Context(), c.GetString(middleware.CtxUserIDKey), br, http.DetectContentType(head))
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, toUser(u))
}
