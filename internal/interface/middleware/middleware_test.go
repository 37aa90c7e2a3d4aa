package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/oksasatya/go-posts-api/internal/application"
	"github.com/oksasatya/go-posts-api/internal/domain/entity"
	"github.com/oksasatya/go-posts-api/internal/infrastructure/memory"
	"github.com/oksasatya/go-posts-api/pkg/helpers"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newAuth(t *testing.T) (*application.AuthService, *entity.User) {
	t.Helper()
	jwt, err := helpers.NewJWTManager("test-secret", "HS256", time.Minute)
	if err != nil {
		t.Fatalf("NewJWTManager: %v", err)
	}
	users := memory.NewUserRepository(memory.NewStore())
	u, err := users.Create(context.Background(), entity.UserInput{Email: "a@x.com", Password: "pw12345678"}, "")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	return application.NewAuthService(users, jwt, nil), u
}

func token(t *testing.T, auth *application.AuthService, u *entity.User) string {
	t.Helper()
	tok, err := auth.IssueToken(u.ID, u.Email)
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}
	return tok.AccessToken
}

func whoami(c *gin.Context) {
	c.String(http.StatusOK, c.GetString(CtxUserIDKey))
}

func do(r http.Handler, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthAcceptsBearerToken(t *testing.T) {
	auth, u := newAuth(t)
	r := gin.New()
	r.GET("/me", Auth(auth), whoami)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token(t, auth, u))
	w := do(r, req)
	if w.Code != http.StatusOK || w.Body.String() != u.ID {
		t.Fatalf("got %d %q", w.Code, w.Body.String())
	}
}

func TestAuthFallsBackToCookie(t *testing.T) {
	auth, u := newAuth(t)
	r := gin.New()
	r.GET("/me", Auth(auth), whoami)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.AddCookie(&http.Cookie{Name: helpers.AccessTokenCookie, Value: token(t, auth, u)})
	w := do(r, req)
	if w.Code != http.StatusOK || w.Body.String() != u.ID {
		t.Fatalf("got %d %q", w.Code, w.Body.String())
	}
}

func TestAuthRejectsMissingOrMalformedToken(t *testing.T) {
	auth, u := newAuth(t)
	r := gin.New()
	r.GET("/me", Auth(auth), whoami)

	headers := []string{"", "Bearer nope", "Basic " + token(t, auth, u)}
	for _, h := range headers {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		if h != "" {
			req.Header.Set("Authorization", h)
		}
		w := do(r, req)
		if w.Code != http.StatusUnauthorized {
			t.Fatalf("header %q: expected 401, got %d", h, w.Code)
		}
		if w.Header().Get("WWW-Authenticate") != "Bearer" {
			t.Fatalf("header %q: missing WWW-Authenticate", h)
		}
	}
}

func TestAuthRejectsTokenOfDeletedUser(t *testing.T) {
	auth, u := newAuth(t)
	tok := token(t, auth, u)
	if err := auth.Users.Delete(context.Background(), u.ID, u.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	r := gin.New()
	r.GET("/me", Auth(auth), whoami)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	if w := do(r, req); w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestOptionalAuthTreatsBadTokenAsAnonymous(t *testing.T) {
	auth, u := newAuth(t)
	r := gin.New()
	r.GET("/signup", OptionalAuth(auth), func(c *gin.Context) {
		if cu := CurrentUser(c); cu != nil {
			c.String(http.StatusOK, cu.Email)
			return
		}
		c.String(http.StatusOK, "anonymous")
	})

	req := httptest.NewRequest(http.MethodGet, "/signup", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	if w := do(r, req); w.Body.String() != "anonymous" {
		t.Fatalf("expected anonymous, got %q", w.Body.String())
	}

	req = httptest.NewRequest(http.MethodGet, "/signup", nil)
	req.Header.Set("Authorization", "Bearer "+token(t, auth, u))
	if w := do(r, req); w.Body.String() != u.Email {
		t.Fatalf("expected %s, got %q", u.Email, w.Body.String())
	}
}

func TestRequestIDEchoesValidHeader(t *testing.T) {
	r := gin.New()
	r.Use(RequestIDMiddleware())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, c.GetString("request_id")) })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	w := do(r, req)
	if w.Body.String() != "abc-123" || w.Header().Get(RequestIDHeader) != "abc-123" {
		t.Fatalf("request id not echoed: body=%q header=%q", w.Body.String(), w.Header().Get(RequestIDHeader))
	}

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "bad id with spaces")
	w = do(r, req)
	if got := w.Header().Get(RequestIDHeader); got == "" || got == "bad id with spaces" {
		t.Fatalf("expected a generated id, got %q", got)
	}
}

func TestRealIPIgnoresForwardedHeaderUnlessTrusted(t *testing.T) {
	for _, tc := range []struct {
		trust bool
		want  string
	}{
		{false, "192.0.2.1"},
		{true, "203.0.113.7"},
	} {
		r := gin.New()
		_ = r.SetTrustedProxies(nil)
		r.Use(RealIP(tc.trust))
		r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, ipFromCtx(c)) })

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "192.0.2.1:5000"
		req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
		if w := do(r, req); w.Body.String() != tc.want {
			t.Fatalf("trust=%v: got %q want %q", tc.trust, w.Body.String(), tc.want)
		}
	}
}

func newLimited(t *testing.T, rdb redis.Cmdable, allow AllowFunc) *gin.Engine {
	t.Helper()
	r := gin.New()
	r.GET("/limited", NewLimiter(rdb).Limit(2, time.Minute, KeyByIPAndPath(), allow), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return r
}

func limitedRequest(remote string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/limited", nil)
	req.RemoteAddr = remote
	return req
}

func TestRateLimitRejectsAfterMax(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	r := newLimited(t, rdb, nil)

	for i := 0; i < 2; i++ {
		if w := do(r, limitedRequest("198.51.100.1:1")); w.Code != http.StatusOK {
			t.Fatalf("request %d: expected 200, got %d", i, w.Code)
		}
	}
	w := do(r, limitedRequest("198.51.100.1:1"))
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", w.Code)
	}
	if w.Header().Get("X-RateLimit-Remaining") != "0" || w.Header().Get("Retry-After") == "" {
		t.Fatalf("unexpected headers: %v", w.Header())
	}

	if w := do(r, limitedRequest("198.51.100.2:1")); w.Code != http.StatusOK {
		t.Fatalf("other client should not be limited, got %d", w.Code)
	}
}

func TestRateLimitBypassesPrivateClients(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	r := newLimited(t, rdb, AllowPrivateIP())

	for i := 0; i < 5; i++ {
		if w := do(r, limitedRequest("10.1.2.3:1")); w.Code != http.StatusOK {
			t.Fatalf("request %d: expected 200, got %d", i, w.Code)
		}
	}
}

func TestRateLimitFailsOpen(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	t.Cleanup(func() { _ = rdb.Close() })
	mr.Close()
	r := newLimited(t, rdb, nil)

	for i := 0; i < 3; i++ {
		if w := do(r, limitedRequest("198.51.100.1:1")); w.Code != http.StatusOK {
			t.Fatalf("request %d: expected 200, got %d", i, w.Code)
		}
	}
}

func TestNilLimiterPassesThrough(t *testing.T) {
	var l *Limiter
	r := gin.New()
	r.GET("/limited", l.Limit(1, time.Minute, KeyByIP(), nil), func(c *gin.Context) { c.Status(http.StatusOK) })
	for i := 0; i < 3; i++ {
		if w := do(r, limitedRequest("198.51.100.1:1")); w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
	}
}
