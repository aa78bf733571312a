package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/cliquepay/cliquepay_backend/internal/utils"
	"github.com/gin-gonic/gin"
)

// untrackedPrefixes are infrastructure routes that never reach PostHog.
var untrackedPrefixes = []string{"/health", "/metrics", "/swagger"}

// apiRequestEvent is the PostHog event captured for every successful API call.
const apiRequestEvent = "api_request"

func tracked(path string) bool {
	for _, prefix := range untrackedPrefixes {
		if strings.HasPrefix(path, prefix) {
			return false
		}
	}
	return true
}

// PosthogMiddleware reports each successful authenticated request to PostHog,
// keyed by the route template so expense and payment ids stay out of event
// names.
func PosthogMiddleware(posthogClient *utils.PosthogClientWrapper) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !posthogClient.IsInitialized() || !tracked(c.Request.URL.Path) {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()

		if len(c.Errors) > 0 || c.Writer.Status() >= http.StatusBadRequest {
			return
		}
		userID, ok := GetUserIDFromContext(c)
		if !ok {
			return
		}
		route := c.FullPath()
		if route == "" {
			return
		}

		props := map[string]any{
			"route":       route,
			"method":      c.Request.Method,
			"status_code": c.Writer.Status(),
			"latency_ms":  time.Since(start).Milliseconds(),
		}
		if requestID := c.Writer.Header().Get("X-Request-ID"); requestID != "" {
			props["request_id"] = requestID
		}
		for _, param := range c.Params {
			props[param.Key] = param.Value
		}

		posthogClient.Enqueue(userID, apiRequestEvent, props)
	}
}

// PosthogEvent sends a named product event for the authenticated caller, such
// as "expense_created" or "payment_recorded".
func PosthogEvent(c *gin.Context, posthogClient *utils.PosthogClientWrapper, eventName string, properties map[string]any) {
	if !posthogClient.IsInitialized() {
		return
	}
	userID, ok := GetUserIDFromContext(c)
	if !ok {
		return
	}

	if properties == nil {
		properties = make(map[string]any)
	}
	properties["route"] = c.FullPath()
	properties["method"] = c.Request.Method

	posthogClient.Enqueue(userID, eventName, properties)
}
