package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vietanh2810/eventhub-api/internal/domain"
	"github.com/vietanh2810/eventhub-api/internal/pkg/jwthelper"
	"github.com/vietanh2810/eventhub-api/internal/repository"
)

const testKey = "test-signing-key"

type stubUsers map[uint]domain.User

func (s stubUsers) GetUser(_ context.Context, id uint) (domain.User, error) {
	u, ok := s[id]
	if !ok {
		return domain.User{}, repository.ErrUserNotFound
	}

	return u, nil
}

func newAuthRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	users := stubUsers{
		1: {ID: 1, Username: "jane", Role: domain.RoleUser},
		2: {ID: 2, Username: "root", Role: domain.RoleAdmin},
	}
	auth := NewAuthenticator(testKey, users)

	r := gin.New()
	r.GET("/me", auth.VerifyJWT(), func(ctx *gin.Context) {
		actor, ok := Actor(ctx)
		require.True(t, ok)
		user, ok := User(ctx)
		require.True(t, ok)
		ctx.JSON(http.StatusOK, gin.H{"id": actor.ID, "username": user.Username})
	})
	r.GET("/admin", auth.VerifyJWT(), RequireRole(domain.RoleAdmin), func(ctx *gin.Context) {
		ctx.Status(http.StatusNoContent)
	})

	return r
}

func tokenFor(t *testing.T, id uint) string {
	t.Helper()
	token, err := jwthelper.GenerateToken([]byte(testKey), id, time.Hour)
	require.NoError(t, err)

	return token
}

func TestVerifyJWT(t *testing.T) {
	r := newAuthRouter(t)

	tests := []struct {
		name        string
		target      string
		header      string
		wantStatus  int
		wantMessage string
	}{
		{name: "no token", target: "/me", wantStatus: http.StatusUnauthorized, wantMessage: "Not authorized, no token"},
		{name: "garbage token", target: "/me", header: "Bearer nope", wantStatus: http.StatusUnauthorized, wantMessage: "Not authorized, token failed"},
		{name: "unknown user", target: "/me", header: "Bearer " + tokenFor(t, 99), wantStatus: http.StatusUnauthorized, wantMessage: "Not authorized, user not found"},
		{name: "header token", target: "/me", header: "Bearer " + tokenFor(t, 1), wantStatus: http.StatusOK},
		{name: "query token", target: "/me?token=" + tokenFor(t, 1), wantStatus: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.target, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantMessage != "" {
				var body map[string]any
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
				assert.Equal(t, tt.wantMessage, body["message"])
				assert.Equal(t, false, body["success"])
			}
		})
	}
}

func TestRequireRole(t *testing.T) {
	r := newAuthRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+tokenFor(t, 1))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+tokenFor(t, 2))
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}
