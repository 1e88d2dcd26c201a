package domain

import "errors"

var (
	// ErrUserAlreadyExists is returned when trying to create a user with an existing username.
	ErrUserAlreadyExists = errors.New("user already exists")
	// ErrUserNotFound is returned when looking up a non-existent user.
	ErrUserNotFound = errors.New("user not found")
	// ErrInvalidCredentials is returned when the username/password combination is incorrect.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrMissingField is returned when a required user field is empty.
	ErrMissingField = errors.New("missing field")
)

// User represents a registered account.
// The password is kept in plaintext, exactly as entered.
type User struct {
	Username string // Login username, unique
	Email    string // Contact email
	Password string // Plaintext password
}
