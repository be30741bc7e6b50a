package httpapi

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"discussionForum/internal/forum"
)

type response struct {
	Message  string `json:"message,omitempty"`
	Data     any    `json:"data,omitempty"`
	Error    string `json:"error,omitempty"`
	Field    string `json:"field,omitempty"`
	ReturnTo string `json:"return_to,omitempty"`
}

type contentRequest struct {
	Content string `json:"content"`
}

func ok(c *gin.Context, status int, message string, data any) {
	c.JSON(status, response{Message: message, Data: data})
}

// fail maps the forum error taxonomy to a status code and envelope.
func fail(c *gin.Context, logs *zap.SugaredLogger, err error) {
	var verr *forum.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusUnprocessableEntity, response{Error: verr.Message, Field: verr.Field})
	case errors.Is(err, forum.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, response{Error: "invalid credentials"})
	case errors.Is(err, forum.ErrUnauthenticated):
		c.JSON(http.StatusUnauthorized, response{Error: err.Error(), ReturnTo: c.Request.URL.RequestURI()})
	case errors.Is(err, forum.ErrForbidden):
		c.JSON(http.StatusForbidden, response{Error: err.Error()})
	case errors.Is(err, forum.ErrNotFound):
		c.JSON(http.StatusNotFound, response{Error: "not found"})
	default:
		logs.Errorw("request failed", "error", err, "path", c.Request.URL.Path, "request_id", c.GetString(requestIDKey))
		c.JSON(http.StatusInternalServerError, response{Error: "internal server error"})
	}
}

// pathID parses the :id route parameter. Ids that cannot name a record are not found.
func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusNotFound, response{Error: "not found"})
		return 0, false
	}
	return id, true
}

func badInput(c *gin.Context) {
	c.JSON(http.StatusBadRequest, response{Error: "invalid input"})
}
