package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/vietanh2810/eventhub-api/internal/domain"
	"github.com/vietanh2810/eventhub-api/internal/repository"
)

var (
	ErrEmailTaken               = errors.New("email already in use")
	ErrUsernameTaken            = errors.New("username already taken")
	ErrCurrentPasswordRequired  = errors.New("current password required")
	ErrCurrentPasswordIncorrect = errors.New("current password incorrect")
)

type UserRepository interface {
	FindByID(ctx context.Context, id uint) (domain.User, error)
	FindByEmail(ctx context.Context, email string) (domain.User, error)
	FindByUsername(ctx context.Context, username string) (domain.User, error)
	FindAll(ctx context.Context) ([]domain.User, error)
	Update(ctx context.Context, user domain.User) (domain.User, error)
}

type UserService struct {
	repo UserRepository
}

func NewUserService(repo UserRepository) *UserService {
	return &UserService{
		repo: repo,
	}
}

func (s *UserService) GetUser(ctx context.Context, id uint) (domain.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.User{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	return user, nil
}

func (s *UserService) ListUsers(ctx context.Context, actor domain.Actor) ([]domain.User, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}

	users, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindAll -> %w", err)
	}

	return users, nil
}

// UpdateProfile applies upd to the actor's own account. A new password is only set
// after the current one is verified. Department and permissions are ignored for
// non-admins.
func (s *UserService) UpdateProfile(ctx context.Context, actor domain.Actor, upd domain.ProfileUpdate) (domain.User, error) {
	user, err := s.repo.FindByID(ctx, actor.ID)
	if err != nil {
		return domain.User{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	if upd.Email != nil {
		email := normalizeEmail(*upd.Email)
		if email != user.Email {
			if err = s.ensureFree(ctx, s.repo.FindByEmail, email, user.ID, ErrEmailTaken); err != nil {
				return domain.User{}, err
			}
		}
		user.Email = email
	}

	if upd.Username != nil {
		username := strings.TrimSpace(*upd.Username)
		if username != user.Username {
			if err = s.ensureFree(ctx, s.repo.FindByUsername, username, user.ID, ErrUsernameTaken); err != nil {
				return domain.User{}, err
			}
		}
		user.Username = username
	}

	if upd.ContactNumber != nil {
		user.ContactNumber = *upd.ContactNumber
	}
	if upd.Address != nil {
		user.Address = *upd.Address
	}

	if upd.NewPassword != "" {
		if upd.CurrentPassword == "" {
			return domain.User{}, ErrCurrentPasswordRequired
		}
		if err = bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(upd.CurrentPassword)); err != nil {
			return domain.User{}, ErrCurrentPasswordIncorrect
		}

		hash, err := hashPassword(upd.NewPassword)
		if err != nil {
			return domain.User{}, err
		}
		user.Password = hash
	}

	if user.IsAdmin() {
		if upd.Department != nil && *upd.Department != "" {
			user.Department = *upd.Department
		}
		if upd.Permissions != nil {
			user.Permissions = upd.Permissions
		}
	}

	updated, err := s.repo.Update(ctx, user)
	if err != nil {
		if errors.Is(err, repository.ErrUserExists) {
			return domain.User{}, ErrUserExists
		}

		return domain.User{}, fmt.Errorf("s.repo.Update -> %w", err)
	}

	return updated, nil
}

func (s *UserService) ensureFree(
	ctx context.Context,
	find func(ctx context.Context, value string) (domain.User, error),
	value string,
	selfID uint,
	takenErr error,
) error {
	other, err := find(ctx, value)
	if err == nil {
		if other.ID != selfID {
			return takenErr
		}

		return nil
	}
	if !errors.Is(err, repository.ErrUserNotFound) {
		return fmt.Errorf("find -> %w", err)
	}

	return nil
}
