package request

import (
	validation "github.com/go-ozzo/ozzo-validation"

	"github.com/vietanh2810/eventhub-api/internal/domain"
)

type RegisterRequest struct {
	Username      string   `json:"username"`
	Email         string   `json:"email"`
	Password      string   `json:"password"`
	ContactNumber string   `json:"contactNumber"`
	Address       string   `json:"address"`
	Role          string   `json:"role" enums:"user,admin"`
	Department    string   `json:"department,omitempty"`
	Permissions   []string `json:"permissions,omitempty"`
}

func (req *RegisterRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Username, validation.Required, validation.Length(2, 50)),
		validation.Field(&req.Email, validation.Required, emailRule),
		validation.Field(&req.Password, validation.Required, passwordRule),
		validation.Field(&req.ContactNumber, validation.Required),
		validation.Field(&req.Address, validation.Required),
		validation.Field(&req.Role, validation.In(string(domain.RoleUser), string(domain.RoleAdmin))),
		validation.Field(&req.Department, validation.Length(0, 100)),
	)
}

func (req *RegisterRequest) User() domain.User {
	return domain.User{
		Username:      req.Username,
		Email:         req.Email,
		Password:      req.Password,
		ContactNumber: req.ContactNumber,
		Address:       req.Address,
		Role:          domain.Role(req.Role),
		Department:    req.Department,
		Permissions:   req.Permissions,
	}
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (req *LoginRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Email, validation.Required, emailRule),
		validation.Field(&req.Password, validation.Required),
	)
}

type UpdateProfileRequest struct {
	Username        *string  `json:"username,omitempty"`
	Email           *string  `json:"email,omitempty"`
	ContactNumber   *string  `json:"contactNumber,omitempty"`
	Address         *string  `json:"address,omitempty"`
	CurrentPassword string   `json:"currentPassword,omitempty"`
	NewPassword     string   `json:"newPassword,omitempty"`
	Department      *string  `json:"department,omitempty"`
	Permissions     []string `json:"permissions,omitempty"`
}

func (req *UpdateProfileRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Username, validation.NilOrNotEmpty, validation.Length(2, 50)),
		validation.Field(&req.Email, validation.NilOrNotEmpty, emailRule),
		validation.Field(&req.NewPassword, passwordRule),
		validation.Field(&req.Department, validation.Length(0, 100)),
	)
}

func (req *UpdateProfileRequest) Update() domain.ProfileUpdate {
	return domain.ProfileUpdate{
		Username:        req.Username,
		Email:           req.Email,
		ContactNumber:   req.ContactNumber,
		Address:         req.Address,
		CurrentPassword: req.CurrentPassword,
		NewPassword:     req.NewPassword,
		Department:      req.Department,
		Permissions:     req.Permissions,
	}
}
