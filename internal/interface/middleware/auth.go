package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-posts-api/internal/application"
	"github.com/oksasatya/go-posts-api/internal/domain/entity"
	"github.com/oksasatya/go-posts-api/pkg/response"
)

const (
	CtxUserIDKey    = "userID"
	CtxUserEmailKey = "userEmail"
	ctxUserKey      = "currentUser"
)

// Auth requires a valid access token for an existing user. It sets userID,
// userEmail and the loaded user in the Gin context on success.
func Auth(auth *application.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		u, err := auth.CurrentUser(c.Request.Context(), extractToken(c))
		if err != nil {
			response.Fail(c, err)
			return
		}
		setUser(c, u)
		c.Next()
	}
}

// OptionalAuth identifies the caller when a valid token is present and lets
// anonymous requests through otherwise.
func OptionalAuth(auth *application.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token := extractToken(c); token != "" {
			if u, err := auth.CurrentUser(c.Request.Context(), token); err == nil {
				setUser(c, u)
			}
		}
		c.Next()
	}
}

func setUser(c *gin.Context, u *entity.User) {
	c.Set(CtxUserIDKey, u.ID)
	c.Set(CtxUserEmailKey, u.Email)
	c.Set(ctxUserKey, u)
}

// CurrentUser returns the user stored by Auth or OptionalAuth, or nil.
func CurrentUser(c *gin.Context) *entity.User {
	if v, ok := c.Get(ctxUserKey); ok {
		if u, ok := v.(*entity.User); ok {
			return u
		}
	}
	return nil
}
