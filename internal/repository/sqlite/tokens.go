package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/ollyware/tokend/internal/apperrors"
	"github.com/ollyware/tokend/internal/models"
)

type TokenRepo struct {
	DB *sql.DB
}

const createToken = `-- name: Create token
INSERT INTO tokens (token, hwid, expires_at, revoked)
VALUES (?, ?, ?, ?)`

func (r *TokenRepo) Create(ctx context.Context, token models.Token) error {
	_, err := r.DB.ExecContext(ctx, createToken,
		token.Token, toNullString(token.HWID), toNullUnix(token.ExpiresAt), token.Revoked)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

const getToken = `-- name: Get token by string itself
SELECT hwid, expires_at, revoked
FROM tokens
WHERE token = ?`

// Get token
// It should return the record even if it revoked or expired already
func (r *TokenRepo) Get(ctx context.Context, tokenString string) (models.Token, error) {
	var (
		token     = models.Token{Token: tokenString}
		hwid      sql.NullString
		expiresAt sql.NullInt64
	)

	err := r.DB.QueryRowContext(ctx, getToken, tokenString).Scan(&hwid, &expiresAt, &token.Revoked)

	switch {
	case err == nil:
		token.HWID = fromNullString(hwid)
		token.ExpiresAt = fromNullUnix(expiresAt)
		return token, nil
	case errors.Is(err, sql.ErrNoRows):
		return token, fmt.Errorf("repo error: %w", apperrors.ErrTokenNotFound)
	default:
		return token, fmt.Errorf("db error: %w", err)
	}
}

const bindHWID = `-- name: Bind hwid if not bound yet
UPDATE tokens
SET hwid = COALESCE(hwid, ?)
WHERE token = ?
RETURNING hwid`

// BindHWID binds hwid to the token with a single conditional update.
// There is no read-then-write gap: under concurrent first verifications
// exactly one hwid wins and every caller observes the winning value.
func (r *TokenRepo) BindHWID(ctx context.Context, tokenString string, hwid string) (string, error) {
	var bound string
	err := r.DB.QueryRowContext(ctx, bindHWID, hwid, tokenString).Scan(&bound)

	switch {
	case err == nil:
		return bound, nil
	case errors.Is(err, sql.ErrNoRows):
		return "", fmt.Errorf("repo error: %w", apperrors.ErrTokenNotFound)
	default:
		return "", fmt.Errorf("db error: %w", err)
	}
}

const unbindToken = `-- name: Clear bound hwid
UPDATE tokens
SET hwid = NULL
WHERE token = ?`

func (r *TokenRepo) Unbind(ctx context.Context, tokenString string) (int64, error) {
	res, err := r.DB.ExecContext(ctx, unbindToken, tokenString)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return affected, nil
}

const revokeToken = `-- name: Set token revoked
UPDATE tokens
SET revoked = TRUE
WHERE token = ?`

func (r *TokenRepo) Revoke(ctx context.Context, tokenString string) (int64, error) {
	res, err := r.DB.ExecContext(ctx, revokeToken, tokenString)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return affected, nil
}

func toNullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func fromNullString(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	return &ns.String
}

func toNullUnix(t *time.Time) sql.NullInt64 {
	if t == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: t.Unix(), Valid: true}
}

func fromNullUnix(ni sql.NullInt64) *time.Time {
	if !ni.Valid {
		return nil
	}
	t := time.Unix(ni.Int64, 0)
	return &t
}
