package middleware

import (
	"net"
	"strings"

	"github.com/gin-gonic/gin"
)

const ctxRealIPKey = "real_ip"

// RealIP stores the client IP under "real_ip". When trustProxy is set the
// CF-Connecting-IP header and then the left-most X-Forwarded-For entry take
// precedence over the socket address.
func RealIP(trustProxy bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := ""
		if trustProxy {
			ip = proxyIP(c)
		}
		if ip == "" {
			ip = c.ClientIP()
		}
		c.Set(ctxRealIPKey, ip)
		c.Next()
	}
}

func proxyIP(c *gin.Context) string {
	if ip := net.ParseIP(strings.TrimSpace(c.GetHeader("CF-Connecting-IP"))); ip != nil {
		return ip.String()
	}
	if xff := c.GetHeader("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		if ip := net.ParseIP(strings.TrimSpace(first)); ip != nil {
			return ip.String()
		}
	}
	return ""
}
