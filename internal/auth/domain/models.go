package domain

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
)

var (
	ErrInvalidID          = errors.New("invalid_user_id")
	ErrInvalidEmail       = errors.New("invalid_email")
	ErrInvalidDisplayName = errors.New("invalid_display_name")
	ErrInvalidPassword    = errors.New("invalid_password")
	ErrEmailTaken         = errors.New("email_already_registered")
	ErrUserNotFound       = errors.New("user_not_found")
	ErrBadCredentials     = errors.New("bad_credentials")
)

// User is an operator account. PasswordHash is nil for accounts that only
// ever authenticate through minted API keys.
type User struct {
	ID           snowflake.ID `gorm:"primaryKey"`
	Email        string       `gorm:"type:text;not null;uniqueIndex"`
	DisplayName  string       `gorm:"type:text;not null"`
	PasswordHash *string      `gorm:"type:text"`
	IsDefault    bool         `gorm:"not null;default:false"`
	CreatedAt    time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt    time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (User) TableName() string { return "users" }

// LoginRequest carries the credentials for a password login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse returns the minted API key. The key value is only ever
// present in this response; afterwards only its hash exists server side.
type LoginResponse struct {
	APIKey    string       `json:"api_key"`
	ExpiresAt *time.Time   `json:"expires_at"`
	User      UserResponse `json:"user"`
}

// CreateUserRequest carries the fields for a new user.
type CreateUserRequest struct {
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	Password    string `json:"password"`
}

// UserResponse is the user read model.
type UserResponse struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"display_name"`
	IsDefault   bool      `json:"is_default"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ToResponse maps a User row to its read model.
func ToResponse(u User) UserResponse {
	return UserResponse{
		ID:          u.ID.String(),
		Email:       u.Email,
		DisplayName: u.DisplayName,
		IsDefault:   u.IsDefault,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}

type Service interface {
	Login(ctx context.Context, req LoginRequest) (*LoginResponse, error)
	Authenticate(ctx context.Context, token string) (*User, error)
	ListUsers(ctx context.Context) ([]UserResponse, error)
	CreateUser(ctx context.Context, req CreateUserRequest) (*UserResponse, error)
	DeleteUser(ctx context.Context, id string) error
}

// ParseID parses a wire-level user identifier.
func ParseID(raw string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(raw))
	if err != nil {
		return 0, ErrInvalidID
	}
	return id, nil
}

// NormalizeEmail lowercases and trims an email address, rejecting anything
// without a plausible local@domain shape.
func NormalizeEmail(raw string) (string, error) {
	email := strings.ToLower(strings.TrimSpace(raw))
	at := strings.Index(email, "@")
	if at <= 0 || at == len(email)-1 || strings.Count(email, "@") != 1 {
		return "", ErrInvalidEmail
	}
	return email, nil
}
