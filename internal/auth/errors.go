package auth

import "errors"

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")

	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrPasswordTooShort   = errors.New("password must be at least 8 characters")
	ErrUserNotFound       = errors.New("user does not exist")
	ErrInvalidResetToken  = errors.New("invalid or expired token")
	ErrEmailDelivery      = errors.New("email could not be sent")
)
