package middleware

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/vietanh2810/eventhub-api/internal/api/handler/v1/response"
	"github.com/vietanh2810/eventhub-api/internal/domain"
	"github.com/vietanh2810/eventhub-api/internal/pkg/jwthelper"
	"github.com/vietanh2810/eventhub-api/internal/repository"
)

const (
	actorKey = "actor"
	userKey  = "user"
)

var errNotAdmin = errors.New("Not authorized as an admin")

type UserGetter interface {
	GetUser(ctx context.Context, id uint) (domain.User, error)
}

type Authenticator struct {
	signingKey []byte
	users      UserGetter
}

func NewAuthenticator(signingKey string, users UserGetter) *Authenticator {
	return &Authenticator{
		signingKey: []byte(signingKey),
		users:      users,
	}
}

// VerifyJWT reads the bearer token from the Authorization header, or from the token
// query parameter for websocket clients, and loads the caller.
func (a *Authenticator) VerifyJWT() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		token := bearerToken(ctx)
		if token == "" {
			response.RenderErr(ctx, response.ErrUnauthorized("Not authorized, no token"))
			return
		}

		claims, err := jwthelper.ParseToken(a.signingKey, token)
		if err != nil {
			response.RenderErr(ctx, response.ErrUnauthorized("Not authorized, token failed"))
			return
		}

		user, err := a.users.GetUser(ctx.Request.Context(), claims.UserID)
		if err != nil {
			if errors.Is(err, repository.ErrUserNotFound) {
				response.RenderErr(ctx, response.ErrUnauthorized("Not authorized, user not found"))
				return
			}

			err = fmt.Errorf("middleware.VerifyJWT -> a.users.GetUser -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
			return
		}

		ctx.Set(userKey, user)
		ctx.Set(actorKey, user.Actor())
		ctx.Next()
	}
}

// RequireRole must run after VerifyJWT.
func RequireRole(role domain.Role) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		actor, ok := Actor(ctx)
		if !ok {
			response.RenderErr(ctx, response.ErrUnauthorized("Not authorized, no token"))
			return
		}
		if actor.Role != role {
			response.RenderErr(ctx, response.ErrPermissionDenied(errNotAdmin))
			return
		}

		ctx.Next()
	}
}

// Actor returns the caller loaded by VerifyJWT.
func Actor(ctx *gin.Context) (domain.Actor, bool) {
	v, ok := ctx.Get(actorKey)
	if !ok {
		return domain.Actor{}, false
	}
	actor, ok := v.(domain.Actor)

	return actor, ok
}

func User(ctx *gin.Context) (domain.User, bool) {
	v, ok := ctx.Get(userKey)
	if !ok {
		return domain.User{}, false
	}
	user, ok := v.(domain.User)

	return user, ok
}

func bearerToken(ctx *gin.Context) string {
	header := ctx.GetHeader("Authorization")
	if token, found := strings.CutPrefix(header, "Bearer "); found {
		return strings.TrimSpace(token)
	}

	return ctx.Query("token")
}
