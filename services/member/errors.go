package member

import "errors"

var (
	// ErrEmailTaken is returned when registration hits an existing email.
	ErrEmailTaken = errors.New("An account with this email already exists")
	// ErrInvalidCredentials is returned for a failed login. Deliberately the
	// same for unknown email and wrong password.
	ErrInvalidCredentials = errors.New("Invalid email or password")
	// ErrInvalidRole is returned for roles outside the enum.
	ErrInvalidRole = errors.New("Invalid role")
)
