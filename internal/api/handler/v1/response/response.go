package response

import (
	"fmt"
	"net/http"
	"runtime/debug"
	"strings"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Err is the error envelope returned by every endpoint.
type Err struct {
	HTTPStatusCode int      `json:"-"`
	Success        bool     `json:"success"`
	Message        string   `json:"message"`
	ErrorText      string   `json:"error,omitempty"`
	Stack          string   `json:"stack,omitempty"`
	MissingFields  []string `json:"missingFields,omitempty"`

	cause error
}

func (e *Err) Error() string {
	if e.cause != nil {
		return e.cause.Error()
	}

	return e.Message
}

func RenderErr(ctx *gin.Context, e *Err) {
	if e.HTTPStatusCode >= http.StatusInternalServerError {
		zap.L().Error("request failed",
			zap.String("request_id", requestid.Get(ctx)),
			zap.String("method", ctx.Request.Method),
			zap.String("path", ctx.Request.URL.Path),
			zap.Error(e.cause),
		)
	}

	ctx.AbortWithStatusJSON(e.HTTPStatusCode, e)
}

func ErrBadRequest(err error) *Err {
	return &Err{
		HTTPStatusCode: http.StatusBadRequest,
		Message:        err.Error(),
		cause:          err,
	}
}

func ErrMissingFields(fields []string) *Err {
	return &Err{
		HTTPStatusCode: http.StatusBadRequest,
		Message:        "Missing required payment information",
		MissingFields:  fields,
	}
}

func ErrUnauthorized(message string) *Err {
	return &Err{
		HTTPStatusCode: http.StatusUnauthorized,
		Message:        message,
	}
}

func ErrWrongCredentials(err error) *Err {
	return &Err{
		HTTPStatusCode: http.StatusUnauthorized,
		Message:        "Invalid credentials",
		cause:          err,
	}
}

func ErrPermissionDenied(err error) *Err {
	return &Err{
		HTTPStatusCode: http.StatusForbidden,
		Message:        err.Error(),
		cause:          err,
	}
}

// ErrNotFound renders "<Resource> not found". key and value are only logged in debug mode.
func ErrNotFound(resource, key string, value any) *Err {
	e := &Err{
		HTTPStatusCode: http.StatusNotFound,
		Message:        capitalize(resource) + " not found",
	}
	if gin.IsDebugging() {
		e.ErrorText = fmt.Sprintf("%s with %s %v not found", resource, key, value)
	}

	return e
}

func ErrRouteNotFound() *Err {
	return &Err{
		HTTPStatusCode: http.StatusNotFound,
		Message:        "Route not found",
	}
}

func ErrConflict(err error) *Err {
	return &Err{
		HTTPStatusCode: http.StatusConflict,
		Message:        err.Error(),
		cause:          err,
	}
}

func ErrTooManyRequests() *Err {
	return &Err{
		HTTPStatusCode: http.StatusTooManyRequests,
		Message:        "Too many requests, please try again later",
	}
}

// ErrInternalServerError hides err from clients unless gin runs in debug mode.
func ErrInternalServerError(err error) *Err {
	e := &Err{
		HTTPStatusCode: http.StatusInternalServerError,
		Message:        "Something went wrong!",
		cause:          err,
	}
	if gin.IsDebugging() && err != nil {
		e.ErrorText = err.Error()
		e.Stack = string(debug.Stack())
	}

	return e
}

func capitalize(s string) string {
	if s == "" {
		return s
	}

	return strings.ToUpper(s[:1]) + s[1:]
}
