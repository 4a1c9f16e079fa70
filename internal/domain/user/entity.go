// Package user contains the account domain model for the Playzo platform.
// A user is the authentication identity; the player profile hangs off it 1:1.
package user

import (
	"errors"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// ══════════════════════════════════════════════════════════════════════════════
// VALUE OBJECTS
// ══════════════════════════════════════════════════════════════════════════════

// Username identifies a user for login.
type Username string

// IsValid checks that the username is 3-50 chars without whitespace.
func (u Username) IsValid() bool {
	s := string(u)
	return len(s) >= 3 && len(s) <= 50 && !strings.ContainsAny(s, " \t\n\r")
}

// String returns the string representation of the username.
func (u Username) String() string {
	return string(u)
}

// ══════════════════════════════════════════════════════════════════════════════
// MAIN ENTITY: USER
// ══════════════════════════════════════════════════════════════════════════════

// User is the authentication identity for an account.
type User struct {
	// ID - internal unique identifier (UUID in string form).
	ID string

	// Username - login name, unique.
	Username Username

	// Name - full name for display in admin contexts.
	Name string

	// PasswordHash - bcrypt hash of the password, never the password itself.
	PasswordHash string

	// IsActive - inactive users cannot authenticate.
	IsActive bool

	// IsSuperuser - full administrative access.
	IsSuperuser bool

	// IsModerator - may manage offers.
	IsModerator bool

	// CreatedAt - when the account was created.
	CreatedAt time.Time

	// UpdatedAt - when the account was last modified.
	UpdatedAt time.Time
}

// ══════════════════════════════════════════════════════════════════════════════
// DOMAIN ERRORS
// ══════════════════════════════════════════════════════════════════════════════

var (
	// ErrInvalidUsername - username fails validation.
	ErrInvalidUsername = errors.New("invalid username: must be 3-50 chars without whitespace")

	// ErrInvalidPassword - password is too short.
	ErrInvalidPassword = errors.New("invalid password: must be at least 8 chars")

	// ErrWrongPassword - password does not match the stored hash.
	ErrWrongPassword = errors.New("wrong password")

	// ErrUserNotFound - user not found.
	ErrUserNotFound = errors.New("user not found")

	// ErrUserAlreadyExists - username already taken.
	ErrUserAlreadyExists = errors.New("user already exists")

	// ErrUserInactive - user account is deactivated.
	ErrUserInactive = errors.New("user account is inactive")
)

// ══════════════════════════════════════════════════════════════════════════════
// FACTORY & PASSWORD HANDLING
// ══════════════════════════════════════════════════════════════════════════════

// MinPasswordLength is the minimum accepted password length.
const MinPasswordLength = 8

// NewUser creates a new active user with a hashed password.
func NewUser(id string, username Username, name, password string) (*User, error) {
	if id == "" {
		return nil, errors.New("user id is required")
	}
	if !username.IsValid() {
		return nil, ErrInvalidUsername
	}

	now := time.Now().UTC()
	u := &User{
		ID:        id,
		Username:  username,
		Name:      strings.TrimSpace(name),
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := u.SetPassword(password); err != nil {
		return nil, err
	}
	return u, nil
}

// SetPassword hashes and stores the password.
func (u *User) SetPassword(password string) error {
	if len(password) < MinPasswordLength {
		return ErrInvalidPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	u.PasswordHash = string(hash)
	u.UpdatedAt = time.Now().UTC()
	return nil
}

// CheckPassword verifies a password against the stored hash.
func (u *User) CheckPassword(password string) error {
	err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password))
	if err != nil {
		return ErrWrongPassword
	}
	return nil
}

// CanAuthenticate reports whether the user may log in.
func (u *User) CanAuthenticate() bool {
	return u.IsActive
}

// CanManageOffers reports whether the user may create and modify offers.
func (u *User) CanManageOffers() bool {
	return u.IsSuperuser || u.IsModerator
}

// Deactivate disables the account.
func (u *User) Deactivate() {
	u.IsActive = false
	u.UpdatedAt = time.Now().UTC()
}

// Reactivate enables the account.
func (u *User) Reactivate() {
	u.IsActive = true
	u.UpdatedAt = time.Now().UTC()
}

// Clone creates a copy of the user.
func (u *User) Clone() *User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}
