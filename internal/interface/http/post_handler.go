package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-posts-api/internal/application"
	"github.com/oksasatya/go-posts-api/internal/domain/entity"
	"github.com/oksasatya/go-posts-api/internal/interface/middleware"
	"github.com/oksasatya/go-posts-api/pkg/response"
)

type PostHandler struct {
	Svc *application.PostService
}

func NewPostHandler(svc *application.PostService) *PostHandler {
	return &PostHandler{Svc: svc}
}

// postRequest is used by create and full update. published defaults to true.
type postRequest struct {
	Title     string `json:"title" binding:"required"`
	Content   string `json:"content" binding:"required"`
	Published *bool  `json:"published"`
}

func (r postRequest) input() entity.PostInput {
	in := entity.PostInput{Title: r.Title, Content: r.Content, Published: true}
	if r.Published != nil {
		in.Published = *r.Published
	}
	return in
}

type postPatchRequest struct {
	Title     *string `json:"title"`
	Content   *string `json:"content"`
	Published *bool   `json:"published"`
}

func (h *PostHandler) List(c *gin.Context) {
	q, err := parseListQuery(c)
	if err != nil {
		response.Fail(c, err)
		return
	}
	page, err := h.Svc.List(c.Request.Context(), q)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, toPostList(c, page))
}

// Mine lists the caller's own posts.
func (h *PostHandler) Mine(c *gin.Context) {
	q, err := parseListQuery(c)
	if err != nil {
		response.Fail(c, err)
		return
	}
	page, err := h.Svc.ListByOwner(c.Request.Context(), c.GetString(middleware.CtxUserIDKey), q)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, toPostList(c, page))
}

func (h *PostHandler) Search(c *gin.Context) {
	values := c.Request.URL.Query()
	skip, err := intParam(values, "skip")
	if err != nil {
		response.Fail(c, err)
		return
	}
	limit, err := intParam(values, "limit")
	if err != nil {
		response.Fail(c, err)
		return
	}
	page, err := h.Svc.Search(c.Request.Context(), c.Query("q"), skip, limit)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, searchResponse{
		Data:     toPosts(page.Items),
		Metadata: buildMetadata(c, len(page.Items), page.Total, page.Skip, page.Limit),
	})
}

func (h *PostHandler) Create(c *gin.Context) {
	var req postRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Invalid(c, err)
		return
	}
	p, err := h.Svc.Create(c.Request.Context(), req.input(), c.GetString(middleware.CtxUserIDKey))
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusCreated, toPost(p))
}

func (h *PostHandler) Get(c *gin.Context) {
	pv, err := h.Svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, toPostVotes(pv))
}

func (h *PostHandler) Update(c *gin.Context) {
	var req postRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Invalid(c, err)
		return
	}
	p, err := h.Svc.Update(c.Request.Context(), c.Param("id"), req.input(), c.GetString(middleware.CtxUserIDKey))
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, toPost(p))
}

func (h *PostHandler) PartialUpdate(c *gin.Context) {
	var req postPatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Invalid(c, err)
		return
	}
	patch := entity.PostPatch{Title: req.Title, Content: req.Content, Published: req.Published}
	p, err := h.Svc.PartialUpdate(c.Request.Context(), c.Param("id"), patch, c.GetString(middleware.CtxUserIDKey))
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, toPost(p))
}

func (h *PostHandler) Delete(c *gin.Context) {
	if err := h.Svc.Delete(c.Request.Context(), c.Param("id"), c.GetString(middleware.CtxUserIDKey)); err != nil {
		response.Fail(c, err)
		return
	}
	response.NoContent(c)
}

func toPostList(c *gin.Context, page application.PostPage) postListResponse {
	data := make([]postVotesResponse, 0, len(page.Items))
	for i := range page.Items {
		data = append(data, toPostVotes(&page.Items[i]))
	}
	return postListResponse{
		Data:     data,
		Metadata: buildMetadata(c, len(data), page.Total, page.Skip, page.Limit),
	}
}
