package middleware_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cliquepay/cliquepay_backend/internal/apperrors"
	"github.com/cliquepay/cliquepay_backend/internal/dto"
	"github.com/cliquepay/cliquepay_backend/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockIdentityResolver struct {
	mock.Mock
}

func (m *MockIdentityResolver) Resolve(ctx context.Context, credential string) (string, error) {
	args := m.Called(ctx, credential)
	return args.String(0), args.Error(1)
}

type observation struct {
	route, method, status string
}

type fakeObserver struct {
	seen []observation
}

func (f *fakeObserver) ObserveHTTP(route, method, status string, seconds float64) {
	f.seen = append(f.seen, observation{route, method, status})
}

func newRouter(handlers ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(handlers...)
	return r
}

func TestAuthMiddleware(t *testing.T) {
	resolver := new(MockIdentityResolver)
	resolver.On("Resolve", mock.Anything, "good").Return("u-1", nil)
	resolver.On("Resolve", mock.Anything, "bad").Return("", fmt.Errorf("%w: invalid token", apperrors.ErrUnauthorized))
	resolver.On("Resolve", mock.Anything, "broken").Return("", apperrors.NewPersistenceError("lookup failed", nil))

	r := newRouter(middleware.StructuredLoggingMiddleware(slog.New(slog.NewTextHandler(io.Discard, nil))), middleware.AuthMiddleware(resolver))
	r.GET("/who", func(c *gin.Context) {
		userID, ok := middleware.GetUserIDFromContext(c)
		require.True(t, ok)
		c.String(http.StatusOK, userID)
	})

	tests := []struct {
		name   string
		header string
		status int
		body   string
		kind   string
	}{
		{"valid token", "Bearer good", http.StatusOK, "u-1", ""},
		{"lowercase scheme", "bearer good", http.StatusOK, "u-1", ""},
		{"missing header", "", http.StatusUnauthorized, "", "unauthorized"},
		{"wrong scheme", "Basic good", http.StatusUnauthorized, "", "unauthorized"},
		{"rejected token", "Bearer bad", http.StatusUnauthorized, "", "unauthorized"},
		{"resolver failure", "Bearer broken", http.StatusInternalServerError, "", "persistence_error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/who", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.status, w.Code)
			assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
			if tt.body != "" {
				assert.Equal(t, tt.body, w.Body.String())
			}
			if tt.kind != "" {
				var resp dto.ErrorResponse
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
				assert.Equal(t, tt.kind, resp.Kind)
				assert.NotEmpty(t, resp.Error)
			}
		})
	}
}

func TestStructuredLoggingMiddleware_KeepsRequestID(t *testing.T) {
	r := newRouter(middleware.StructuredLoggingMiddleware(slog.New(slog.NewTextHandler(io.Discard, nil))))
	r.GET("/ping", func(c *gin.Context) {
		assert.NotSame(t, slog.Default(), middleware.GetLoggerFromCtx(c.Request.Context()))
		c.Status(http.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("X-Request-ID", "req-42")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, "req-42", w.Header().Get("X-Request-ID"))
}

func TestMetricsMiddleware_UsesRouteTemplate(t *testing.T) {
	observer := &fakeObserver{}
	r := newRouter(middleware.MetricsMiddleware(observer))
	r.GET("/expenses/:expenseID", func(c *gin.Context) { c.Status(http.StatusOK) })

	for _, path := range []string{"/expenses/e-1", "/expenses/e-2", "/nowhere"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	require.Len(t, observer.seen, 3)
	assert.Equal(t, observation{"/expenses/:expenseID", "GET", "200"}, observer.seen[0])
	assert.Equal(t, observer.seen[0], observer.seen[1])
	assert.Equal(t, observation{"unmatched", "GET", "404"}, observer.seen[2])
}

func TestRateLimit_PerClientIP(t *testing.T) {
	limiterInstance, err := middleware.NewRateLimiter("1-M")
	require.NoError(t, err)

	r := newRouter(middleware.RateLimit(limiterInstance))
	r.GET("/open", func(c *gin.Context) { c.Status(http.StatusOK) })

	first := httptest.NewRecorder()
	r.ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/open", nil))
	second := httptest.NewRecorder()
	r.ServeHTTP(second, httptest.NewRequest(http.MethodGet, "/open", nil))

	assert.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, "1", first.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
	var resp dto.ErrorResponse
	require.NoError(t, json.Unmarshal(second.Body.Bytes(), &resp))
	assert.Equal(t, "rate_limited", resp.Kind)

	_, err = middleware.NewRateLimiter("lots")
	assert.Error(t, err)
}
