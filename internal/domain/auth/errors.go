package auth

import "errors"

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrCodeInvalid        = errors.New("invalid verification code")
	ErrCodeExpired        = errors.New("verification code expired")
)
