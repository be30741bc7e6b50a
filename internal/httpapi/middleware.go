package httpapi

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"discussionForum/internal/auth"
)

const (
	requestIDHeader = "X-Request-Id"
	requestIDKey    = "request_id"
)

// RequestID tags every request with an id, reusing the caller's when given.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

// Logging writes one structured line per request.
func Logging(logs *zap.SugaredLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logs.Infow("http request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
			"request_id", c.GetString(requestIDKey),
		)
	}
}

// Session resolves an optional bearer token into a principal on the request
// context. A token that is present but invalid is rejected outright, except on
// the routes listed in ignoreOn, which never look at the header.
func Session(tokens *auth.TokenIssuer, ignoreOn ...string) gin.HandlerFunc {
	ignore := make(map[string]struct{}, len(ignoreOn))
	for _, route := range ignoreOn {
		ignore[route] = struct{}{}
	}
	return func(c *gin.Context) {
		if _, ok := ignore[c.Request.Method+" "+c.FullPath()]; ok {
			c.Next()
			return
		}
		header := c.GetHeader("Authorization")
		if header == "" {
			c.Next()
			return
		}
		p, err := tokens.ParseBearer(header)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, response{
				Error:    "invalid session",
				ReturnTo: c.Request.URL.RequestURI(),
			})
			return
		}
		c.Request = c.Request.WithContext(auth.WithPrincipal(c.Request.Context(), p))
		c.Next()
	}
}
