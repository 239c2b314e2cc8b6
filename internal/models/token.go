package models

import (
	"time"
)

// Token is a license token issued for a plan duration
type Token struct {
	Token     string
	HWID      *string    // nil until bound on first verification
	ExpiresAt *time.Time // nil if token never expires
	Revoked   bool
}

// Expired reports whether the token expiry is strictly in the past.
// Tokens without expiry never expire.
func (t Token) Expired(now time.Time) bool {
	return t.ExpiresAt != nil && now.After(*t.ExpiresAt)
}

// SecondsRemaining returns seconds until expiry clamped at zero,
// or nil for tokens without expiry
func (t Token) SecondsRemaining(now time.Time) *int64 {
	if t.ExpiresAt == nil {
		return nil
	}

	remaining := int64(t.ExpiresAt.Sub(now).Seconds())
	if remaining < 0 {
		remaining = 0
	}
	return &remaining
}
