package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vietanh2810/eventhub-api/internal/api/handler/v1/request"
	"github.com/vietanh2810/eventhub-api/internal/api/handler/v1/response"
	"github.com/vietanh2810/eventhub-api/internal/api/middleware"
	"github.com/vietanh2810/eventhub-api/internal/config"
	"github.com/vietanh2810/eventhub-api/internal/domain"
	"github.com/vietanh2810/eventhub-api/internal/pkg/jwthelper"
	"github.com/vietanh2810/eventhub-api/internal/service"
)

type AuthService interface {
	Register(ctx context.Context, user domain.User) (domain.User, error)
	Login(ctx context.Context, email, password string) (domain.User, error)
}

type UserService interface {
	GetUser(ctx context.Context, id uint) (domain.User, error)
	ListUsers(ctx context.Context, actor domain.Actor) ([]domain.User, error)
	UpdateProfile(ctx context.Context, actor domain.Actor, upd domain.ProfileUpdate) (domain.User, error)
}

type AuthHandler struct {
	conf  *config.APIConfig
	svc   AuthService
	users UserService
}

func NewAuthHandler(conf *config.APIConfig, svc AuthService, users UserService) *AuthHandler {
	return &AuthHandler{
		conf:  conf,
		svc:   svc,
		users: users,
	}
}

// HandleRegister godoc
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request  body      request.RegisterRequest  true  "request body"
// @Success      201      {object}  response.AuthResponse
// @Failure      400      {object}  response.Err
// @Failure      409      {object}  response.Err
// @Failure      429      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /auth/register [post]
func (h *AuthHandler) HandleRegister(ctx *gin.Context) {
	var req request.RegisterRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	user, err := h.svc.Register(ctx.Request.Context(), req.User())
	if err != nil {
		renderServiceErr(ctx, "v1.HandleRegister -> h.svc.Register", "", err)
		return
	}

	token, err := h.token(user.ID)
	if err != nil {
		err = fmt.Errorf("v1.HandleRegister -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusCreated, response.AuthResponse{
		Success: true,
		Token:   token,
		User:    user,
	})
}

// HandleLogin godoc
// @Summary      Login a user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request  body      request.LoginRequest  true  "request body"
// @Success      200      {object}  response.AuthResponse
// @Failure      400      {object}  response.Err
// @Failure      401      {object}  response.Err
// @Failure      429      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /auth/login [post]
func (h *AuthHandler) HandleLogin(ctx *gin.Context) {
	req := request.LoginRequest{}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	user, err := h.svc.Login(ctx.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) || errors.Is(err, service.ErrWrongPassword) {
			response.RenderErr(ctx, response.ErrWrongCredentials(err))
			return
		}

		err = fmt.Errorf("v1.HandleLogin -> h.svc.Login -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	token, err := h.token(user.ID)
	if err != nil {
		err = fmt.Errorf("v1.HandleLogin -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, response.AuthResponse{
		Success: true,
		Token:   token,
		User:    user,
	})
}

// HandleMe godoc
// @Summary      Current user
// @Tags         auth
// @Produce      json
// @Success      200  {object}  response.AuthResponse
// @Failure      401  {object}  response.Err
// @Router       /auth/me [get]
// @Security BearerAuth
func (h *AuthHandler) HandleMe(ctx *gin.Context) {
	user, ok := middleware.User(ctx)
	if !ok {
		response.RenderErr(ctx, response.ErrUnauthorized("Not authorized, no token"))
		return
	}

	ctx.JSON(http.StatusOK, response.AuthResponse{
		Success: true,
		User:    user,
	})
}

// HandleListUsers godoc
// @Summary      List users
// @Tags         auth
// @Produce      json
// @Success      200  {object}  response.UsersResponse
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /auth/users [get]
// @Security BearerAuth
func (h *AuthHandler) HandleListUsers(ctx *gin.Context) {
	a, ok := actor(ctx)
	if !ok {
		return
	}

	users, err := h.users.ListUsers(ctx.Request.Context(), a)
	if err != nil {
		renderServiceErr(ctx, "v1.HandleListUsers -> h.users.ListUsers", "Not authorized as an admin", err)
		return
	}

	ctx.JSON(http.StatusOK, response.UsersResponse{
		Success: true,
		Count:   len(users),
		Users:   users,
	})
}

// HandleUpdateProfile godoc
// @Summary      Update the current user's profile
// @Description  Changing the password requires currentPassword and newPassword. Department and permissions are only applied for admins.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request  body      request.UpdateProfileRequest  true  "request body"
// @Success      200      {object}  response.AuthResponse
// @Failure      400      {object}  response.Err
// @Failure      401      {object}  response.Err
// @Failure      409      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /auth/update-profile [put]
// @Security BearerAuth
func (h *AuthHandler) HandleUpdateProfile(ctx *gin.Context) {
	a, ok := actor(ctx)
	if !ok {
		return
	}

	var req request.UpdateProfileRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	user, err := h.users.UpdateProfile(ctx.Request.Context(), a, req.Update())
	if err != nil {
		renderServiceErr(ctx, "v1.HandleUpdateProfile -> h.users.UpdateProfile", "", err)
		return
	}

	ctx.JSON(http.StatusOK, response.AuthResponse{
		Success: true,
		Message: "Profile updated successfully",
		User:    user,
	})
}

func (h *AuthHandler) token(userID uint) (string, error) {
	token, err := jwthelper.GenerateToken([]byte(h.conf.JWTSigningKey), userID, h.conf.TokenTTL)
	if err != nil {
		return "", fmt.Errorf("jwthelper.GenerateToken -> %w", err)
	}

	return token, nil
}
