// Package common defines shared constants and sentinel errors used across
// the filehost server layers. Callers should use errors.Is to match these
// values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors (generic/internal flow control).
	ErrorUnauthorized = errors.New("unauthorized")

	// Validation errors for client supplied input.
	ErrValidation = errors.New("validation error")

	// Auth errors.
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserAlreadyExists  = errors.New("user already exists")
	ErrUserNotFound       = errors.New("user not found")
	ErrMissingToken       = errors.New("token is missing")
	ErrInvalidToken       = errors.New("invalid token")

	// File errors.
	ErrFileNotFound    = errors.New("file not found")
	ErrInvalidFileType = errors.New("invalid file type")
	ErrFileTooLarge    = errors.New("file too large")
	ErrNoFileUploaded  = errors.New("no file uploaded")
)
