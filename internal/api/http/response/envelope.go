// Package response writes the JSON envelope every endpoint answers with.
package response

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/terraverde/terraverde-api/internal/apperror"
)

// ctxExposeErrors is the gin context key telling Fail whether upstream
// error messages may be shown to the caller.
const ctxExposeErrors = "expose_errors"

type Envelope struct {
	Success   bool   `json:"success"`
	Data      any    `json:"data"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

func now() string {
	return time.Now().UTC().Format(time.RFC3339)
}

// OK writes a successful envelope.
func OK(c *gin.Context, status int, data any, message string) {
	c.JSON(status, Envelope{
		Success:   true,
		Data:      data,
		Message:   message,
		Timestamp: now(),
	})
}

// Fail writes an error envelope whose status is derived from err and aborts
// the handler chain.
func Fail(c *gin.Context, err error) {
	status := apperror.Status(err)
	c.AbortWithStatusJSON(status, Envelope{
		Success:   false,
		Data:      nil,
		Message:   apperror.Message(err, c.GetBool(ctxExposeErrors)),
		Timestamp: now(),
	})
}

// ExposeErrors stores the error pass-through policy for Fail.
func ExposeErrors(expose bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(ctxExposeErrors, expose)
		c.Next()
	}
}

// NotFound is used as the engine's NoRoute handler.
func NotFound(c *gin.Context) {
	Fail(c, apperror.NotFound("route %s %s not found", c.Request.Method, c.Request.URL.Path))
}

// MethodNotAllowed is used as the engine's NoMethod handler.
func MethodNotAllowed(c *gin.Context) {
	Fail(c, &apperror.Error{Kind: apperror.ErrMethodNotAllowed, Msg: "method " + c.Request.Method + " not allowed"})
}

// Recovery turns a panic into a 500 envelope.
func Recovery(c *gin.Context, recovered any) {
	if c.Writer.Written() {
		c.AbortWithStatus(http.StatusInternalServerError)
		return
	}
	Fail(c, apperror.Upstream("unhandled panic", panicError{recovered}))
}

type panicError struct{ v any }

func (p panicError) Error() string {
	if err, ok := p.v.(error); ok {
		return err.Error()
	}
	if s, ok := p.v.(string); ok {
		return s
	}
	return "panic"
}
