package domain

import "time"

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

func (r Role) IsValid() bool {
	return r == RoleUser || r == RoleAdmin
}

const DefaultDepartment = "General"

var DefaultAdminPermissions = []string{"view", "create", "update"}

type User struct {
	ID            uint      `json:"id"`
	Username      string    `json:"username"`
	Email         string    `json:"email"`
	Password      string    `json:"-"`
	ContactNumber string    `json:"contactNumber"`
	Address       string    `json:"address"`
	Role          Role      `json:"role"`
	AdminID       string    `json:"adminId,omitempty"`
	Department    string    `json:"department,omitempty"`
	Permissions   []string  `json:"permissions,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

func (u User) Actor() Actor {
	return Actor{ID: u.ID, Role: u.Role}
}

func (u User) Summary() UserSummary {
	return UserSummary{ID: u.ID, Username: u.Username, Email: u.Email}
}

// UserSummary is the public projection of a user embedded in events and payments.
type UserSummary struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// ProfileUpdate carries the fields a user asked to change. Nil means unchanged.
type ProfileUpdate struct {
	Username        *string
	Email           *string
	ContactNumber   *string
	Address         *string
	CurrentPassword string
	NewPassword     string
	Department      *string
	Permissions     []string
}
