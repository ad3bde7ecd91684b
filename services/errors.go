package services

import "errors"

var (
	ErrPasswordMismatch   = errors.New("Passwords don't match")
	ErrMissingCredentials = errors.New("Must include email and password")
	ErrInvalidCredentials = errors.New("Invalid credentials")
	ErrUserDisabled       = errors.New("User account is disabled")
	ErrInvalidResetToken  = errors.New("Invalid or expired password reset token")
	ErrNotPublished       = errors.New("post is not published")
)
