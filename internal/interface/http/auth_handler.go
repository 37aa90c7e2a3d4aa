package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-posts-api/internal/application"
	"github.com/oksasatya/go-posts-api/pkg/helpers"
	"github.com/oksasatya/go-posts-api/pkg/response"
)

type AuthHandler struct {
	Svc     *application.AuthService
	Cookies *helpers.CookieManager
}

func NewAuthHandler(svc *application.AuthService, cookieDomain string, cookieSecure bool) *AuthHandler {
	return &AuthHandler{Svc: svc, Cookies: helpers.NewCookie(cookieDomain, cookieSecure)}
}

// loginRequest accepts an OAuth2 password form or the same fields as JSON.
// username carries the email.
type loginRequest struct {
	Username string `form:"username" json:"username" binding:"required"`
	Password string `form:"password" json:"password" binding:"required"`
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBind(&req); err != nil {
		response.Invalid(c, err)
		return
	}
	tok, err := h.Svc.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		response.Fail(c, err)
		return
	}
	h.Cookies.SetAccess(c, tok.AccessToken, time.Now().Add(time.Duration(tok.ExpireIn)*time.Second))
	response.Success(c, http.StatusOK, tok)
}

// Logout clears the access token cookie. Bearer tokens stay valid until they expire.
func (h *AuthHandler) Logout(c *gin.Context) {
	h.Cookies.Clear(c)
	response.NoContent(c)
}
