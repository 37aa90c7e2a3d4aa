package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-posts-api/pkg/helpers"
)

// extractToken reads "Authorization: Bearer <token>" and falls back to the
// access_token cookie.
func extractToken(c *gin.Context) string {
	if h := strings.TrimSpace(c.GetHeader("Authorization")); h != "" {
		scheme, token, ok := strings.Cut(h, " ")
		if ok && strings.EqualFold(scheme, "Bearer") {
			return strings.TrimSpace(token)
		}
		return ""
	}
	if token, err := c.Cookie(helpers.AccessTokenCookie); err == nil {
		return token
	}
	return ""
}
