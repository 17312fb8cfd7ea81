package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
)

func newLimitedRouter(l *RateLimiter) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/login", l.Limit(), func(ctx *gin.Context) {
		ctx.Status(http.StatusOK)
	})

	return r
}

func doLogin(r *gin.Engine) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/login", nil))

	return rec
}

func TestRateLimiter_Limit(t *testing.T) {
	client, mock := redismock.NewClientMock()
	key := "ratelimit:/login:192.0.2.1"
	window := time.Minute
	r := newLimitedRouter(NewRateLimiter(client, 2, window))

	mock.ExpectIncr(key).SetVal(1)
	mock.ExpectExpire(key, window).SetVal(true)
	mock.ExpectIncr(key).SetVal(2)
	mock.ExpectIncr(key).SetVal(3)

	assert.Equal(t, http.StatusOK, doLogin(r).Code)
	assert.Equal(t, http.StatusOK, doLogin(r).Code)

	rec := doLogin(r)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "60", rec.Header().Get("Retry-After"))
	assert.Contains(t, rec.Body.String(), `"success":false`)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRateLimiter_FailsOpen(t *testing.T) {
	client, mock := redismock.NewClientMock()
	r := newLimitedRouter(NewRateLimiter(client, 1, time.Minute))

	mock.ExpectIncr("ratelimit:/login:192.0.2.1").SetErr(errors.New("connection refused"))

	assert.Equal(t, http.StatusOK, doLogin(r).Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}
