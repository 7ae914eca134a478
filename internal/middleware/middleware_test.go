package middleware

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/AI-Alan/Agent-Mira-Case-Study/internal/auth"
	"github.com/AI-Alan/Agent-Mira-Case-Study/internal/config"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func perform(r *gin.Engine, method, path string, header http.Header) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	for k, v := range header {
		req.Header[k] = v
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, RequestIDFromContext(c))
	})

	rec := perform(r, http.MethodGet, "/", nil)
	generated := rec.Header().Get(RequestIDHeader)
	if generated == "" || rec.Body.String() != generated {
		t.Fatalf("expected generated request id echoed, header=%q body=%q", generated, rec.Body.String())
	}

	rec = perform(r, http.MethodGet, "/", http.Header{RequestIDHeader: {"rid-123"}})
	if got := rec.Header().Get(RequestIDHeader); got != "rid-123" {
		t.Fatalf("expected caller request id to be kept, got %q", got)
	}
}

func TestLoggingMiddleware(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := slog.New(slog.NewTextHandler(buf, nil))

	r := gin.New()
	r.Use(RequestID(), Logging(logger), Metrics())
	r.GET("/ok", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/fail", func(c *gin.Context) { c.Status(http.StatusInternalServerError) })

	perform(r, http.MethodGet, "/ok", http.Header{RequestIDHeader: {"rid-123"}})
	if !strings.Contains(buf.String(), "request_id=rid-123") {
		t.Fatalf("expected log output to contain request id, got %s", buf.String())
	}
	if !strings.Contains(buf.String(), "level=INFO") {
		t.Fatalf("expected info level for success, got %s", buf.String())
	}

	buf.Reset()
	perform(r, http.MethodGet, "/fail", nil)
	if !strings.Contains(buf.String(), "level=ERROR") || !strings.Contains(buf.String(), "status=500") {
		t.Fatalf("expected error entry for 500, got %s", buf.String())
	}
}

func TestRateLimit(t *testing.T) {
	r := gin.New()
	r.Use(RateLimit(config.RateLimitConfig{Enabled: true, RequestsPerMinute: 1, Burst: 2}))
	r.GET("/chat", func(c *gin.Context) { c.Status(http.StatusOK) })

	for i := 0; i < 2; i++ {
		if rec := perform(r, http.MethodGet, "/chat", nil); rec.Code != http.StatusOK {
			t.Fatalf("request %d: expected 200 within burst, got %d", i, rec.Code)
		}
	}
	rec := perform(r, http.MethodGet, "/chat", nil)
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429 once the burst is spent, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "rate limit exceeded") {
		t.Fatalf("unexpected body %s", rec.Body.String())
	}

	// another client has its own bucket
	req := httptest.NewRequest(http.MethodGet, "/chat", nil)
	req.RemoteAddr = "203.0.113.9:4000"
	other := httptest.NewRecorder()
	r.ServeHTTP(other, req)
	if other.Code != http.StatusOK {
		t.Fatalf("expected separate bucket per IP, got %d", other.Code)
	}
}

func TestRateLimit_Disabled(t *testing.T) {
	r := gin.New()
	r.Use(RateLimit(config.RateLimitConfig{Enabled: false, RequestsPerMinute: 1, Burst: 1}))
	r.GET("/chat", func(c *gin.Context) { c.Status(http.StatusOK) })

	for i := 0; i < 5; i++ {
		if rec := perform(r, http.MethodGet, "/chat", nil); rec.Code != http.StatusOK {
			t.Fatalf("expected disabled limiter to pass, got %d", rec.Code)
		}
	}
}

func TestIPLimiter_SweepsIdleVisitors(t *testing.T) {
	l := newIPLimiter(60, 1)
	now := time.Now()
	l.now = func() time.Time { return now }

	l.allow("198.51.100.1")
	if len(l.visitors) != 1 {
		t.Fatalf("expected one visitor, got %d", len(l.visitors))
	}

	now = now.Add(visitorIdle + sweepEvery)
	l.allow("198.51.100.2")
	if _, ok := l.visitors["198.51.100.1"]; ok {
		t.Fatalf("expected idle visitor to be swept")
	}
}

func TestJWTMiddleware(t *testing.T) {
	manager := auth.NewJWTManager("secret", 0)
	token, err := manager.GenerateToken("user-1", "user@example.com")
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	r := gin.New()
	r.GET("/me", JWT(manager), func(c *gin.Context) {
		if UserIDFromContext(c) != "user-1" {
			t.Fatalf("expected user id in context")
		}
		c.Status(http.StatusOK)
	})

	tests := map[string]struct {
		header     string
		expectCode int
	}{
		"missing header": {expectCode: http.StatusUnauthorized},
		"invalid header": {header: "Basic token", expectCode: http.StatusUnauthorized},
		"empty bearer":   {header: "Bearer ", expectCode: http.StatusUnauthorized},
		"invalid token":  {header: "Bearer invalid", expectCode: http.StatusUnauthorized},
		"success":        {header: "Bearer " + token, expectCode: http.StatusOK},
		"lowercase":      {header: "bearer " + token, expectCode: http.StatusOK},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			header := http.Header{}
			if tt.header != "" {
				header.Set("Authorization", tt.header)
			}
			rec := perform(r, http.MethodGet, "/me", header)
			if rec.Code != tt.expectCode {
				t.Fatalf("expected %d, got %d", tt.expectCode, rec.Code)
			}
		})
	}
}
