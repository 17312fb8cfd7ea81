package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/vietanh2810/eventhub-api/internal/domain"
	"github.com/vietanh2810/eventhub-api/internal/repository"
)

var (
	ErrUserExists    = repository.ErrUserExists
	ErrUserNotFound  = repository.ErrUserNotFound
	ErrWrongPassword = errors.New("wrong password")
)

type AuthUserRepository interface {
	Create(ctx context.Context, user domain.User) (domain.User, error)
	FindByEmail(ctx context.Context, email string) (domain.User, error)
	FindByUsername(ctx context.Context, username string) (domain.User, error)
	CountAdmins(ctx context.Context) (int64, error)
}

type AuthService struct {
	repo AuthUserRepository
}

func NewAuthService(repo AuthUserRepository) *AuthService {
	return &AuthService{
		repo: repo,
	}
}

// Register creates a user. Admin accounts get a generated admin id plus the default
// department and permissions when none are given.
func (s *AuthService) Register(ctx context.Context, user domain.User) (domain.User, error) {
	user.Email = normalizeEmail(user.Email)
	user.Username = strings.TrimSpace(user.Username)
	if user.Role == "" {
		user.Role = domain.RoleUser
	}

	if err := s.checkAvailable(ctx, user.Username, user.Email); err != nil {
		return domain.User{}, err
	}

	if user.IsAdmin() {
		adminID, err := newAdminID()
		if err != nil {
			return domain.User{}, fmt.Errorf("newAdminID -> %w", err)
		}
		user.AdminID = adminID
		if user.Department == "" {
			user.Department = domain.DefaultDepartment
		}
		if len(user.Permissions) == 0 {
			user.Permissions = append([]string(nil), domain.DefaultAdminPermissions...)
		}
	} else {
		user.AdminID = ""
		user.Department = ""
		user.Permissions = nil
	}

	hash, err := hashPassword(user.Password)
	if err != nil {
		return domain.User{}, err
	}
	user.Password = hash

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		return domain.User{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	return created, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (domain.User, error) {
	user, err := s.repo.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return domain.User{}, ErrUserNotFound
		}

		return domain.User{}, fmt.Errorf("s.repo.FindByEmail -> %w", err)
	}

	if err = bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return domain.User{}, ErrWrongPassword
	}

	return user, nil
}

// EnsureDefaultAdmin creates an admin account when none exists yet.
func (s *AuthService) EnsureDefaultAdmin(ctx context.Context, email, password string) (bool, error) {
	count, err := s.repo.CountAdmins(ctx)
	if err != nil {
		return false, fmt.Errorf("s.repo.CountAdmins -> %w", err)
	}
	if count > 0 {
		return false, nil
	}

	admin, err := s.Register(ctx, domain.User{
		Username:      "admin",
		Email:         email,
		Password:      password,
		ContactNumber: "N/A",
		Address:       "N/A",
		Role:          domain.RoleAdmin,
	})
	if err != nil {
		return false, fmt.Errorf("s.Register -> %w", err)
	}

	zap.L().Info("default admin created", zap.Uint("userID", admin.ID), zap.String("email", admin.Email))

	return true, nil
}

func (s *AuthService) checkAvailable(ctx context.Context, username, email string) error {
	_, err := s.repo.FindByEmail(ctx, email)
	if err == nil {
		return ErrUserExists
	}
	if !errors.Is(err, repository.ErrUserNotFound) {
		return fmt.Errorf("s.repo.FindByEmail -> %w", err)
	}

	_, err = s.repo.FindByUsername(ctx, username)
	if err == nil {
		return ErrUserExists
	}
	if !errors.Is(err, repository.ErrUserNotFound) {
		return fmt.Errorf("s.repo.FindByUsername -> %w", err)
	}

	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}

	return string(hash), nil
}

// newAdminID returns ADM-1000 to ADM-9999.
func newAdminID() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(9000))
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("ADM-%d", n.Int64()+1000), nil
}
