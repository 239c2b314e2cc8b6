package apperrors

import (
	"errors"
)

var (
	ErrInvalidPlan = errors.New("invalid plan")

	ErrTokenNotFound = errors.New("token not found")
	ErrTokenRevoked  = errors.New("token revoked")
	ErrTokenExpired  = errors.New("token expired")

	ErrHWIDMismatch = errors.New("hwid mismatch")
)
