package repository

import (
	"context"

	"github.com/ollyware/tokend/internal/models"
)

// Token repository interface
type TokenRepo interface {
	// Create token in repository
	// Token strings are unique, inserting an existing one must fail
	Create(ctx context.Context, token models.Token) error

	// Get token by it's string
	// It should return the record even if it is revoked or expired
	// If token not found must return apperrors.ErrTokenNotFound
	Get(ctx context.Context, tokenString string) (models.Token, error)

	// Bind hwid to the token if no hwid is bound yet
	// Must be atomic: a single conditional update, no read-then-write gap
	// Returns the hwid bound after the call (the existing one if already bound)
	// If token not found must return apperrors.ErrTokenNotFound
	BindHWID(ctx context.Context, tokenString string, hwid string) (bound string, err error)

	// Clear the bound hwid
	// Idempotent, no error when token does not exist; returns rows matched
	Unbind(ctx context.Context, tokenString string) (affected int64, err error)

	// Set token revoked
	// Idempotent, no error when token does not exist; returns rows matched
	Revoke(ctx context.Context, tokenString string) (affected int64, err error)
}

// Storage aggregates repositories backed by the same database
type Storage interface {
	Tokens() TokenRepo
}
