package session

import "errors"

var (
	ErrValidation         = errors.New("all fields are required")
	ErrEmailExists        = errors.New("email already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrForbidden          = errors.New("only the signed-in user can edit this profile")
	ErrNoSession          = errors.New("no active session")
)
