package models

import (
	"time"

	"github.com/google/uuid"
)

// Supported authentication providers
const (
	ProviderEmail    = "email"
	ProviderGoogle   = "google"
	ProviderFacebook = "facebook"
)

// Supported user roles
const (
	RoleUser   = "user"
	RoleParent = "parent"
	RoleChild  = "child"
	RoleAdmin  = "admin"
)

// User represents a user record in the database.
// PasswordHash is never serialized.
type User struct {
	ID           int64      `json:"id" db:"id"`                             // Surrogate primary key
	UUID         uuid.UUID  `json:"uuid" db:"uuid"`                         // Public identifier
	Email        string     `json:"email" db:"email"`                       // Unique, lower-cased email
	Name         string     `json:"name" db:"name"`                         // Display name
	PasswordHash *string    `json:"-" db:"password_hash"`                   // bcrypt hash, nil for social accounts
	Provider     string     `json:"provider" db:"provider"`                 // email, google or facebook
	ProviderID   *string    `json:"provider_id,omitempty" db:"provider_id"` // External provider identifier
	AvatarURL    *string    `json:"avatar_url,omitempty" db:"avatar_url"`   // Avatar image URL
	IsVerified   bool       `json:"is_verified" db:"is_verified"`           // Email verification flag
	Role         string     `json:"role" db:"role"`                         // user, parent, child or admin
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`             // Creation timestamp
	UpdatedAt    time.Time  `json:"updated_at" db:"updated_at"`             // Last update timestamp
	LastLogin    *time.Time `json:"last_login,omitempty" db:"last_login"`   // Last successful login
}

// HasPassword reports whether the user can authenticate with a password.
func (u *User) HasPassword() bool {
	return u.PasswordHash != nil && *u.PasswordHash != ""
}

// NewUser holds the data needed to create a user.
type NewUser struct {
	Email      string
	Name       string
	Password   string // plain text, hashed before storing; empty for social accounts
	Provider   string
	ProviderID *string
	AvatarURL  *string
	Role       string
	Verified   bool
}

// UserPatch is a partial update of a user. Nil fields are left unchanged.
type UserPatch struct {
	Name      *string
	Email     *string
	AvatarURL *string
	Verified  *bool
}

// Empty reports whether the patch changes nothing.
func (p UserPatch) Empty() bool {
	return p.Name == nil && p.Email == nil && p.AvatarURL == nil && p.Verified == nil
}

// Profile holds extended user information.
type Profile struct {
	ID                int64      `json:"id" db:"id"`
	UserID            int64      `json:"user_id" db:"user_id"`
	BirthDate         *time.Time `json:"birth_date,omitempty" db:"birth_date"`
	Phone             *string    `json:"phone,omitempty" db:"phone"`
	Address           *string    `json:"address,omitempty" db:"address"`
	City              *string    `json:"city,omitempty" db:"city"`
	State             *string    `json:"state,omitempty" db:"state"`
	Country           string     `json:"country" db:"country"`
	PreferredLanguage string     `json:"preferred_language" db:"preferred_language"`
	CreatedAt         time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at" db:"updated_at"`
}

// Profile defaults for new users
const (
	DefaultCountry  = "Brazil"
	DefaultLanguage = "pt-BR"
)
