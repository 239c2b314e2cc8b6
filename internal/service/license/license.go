package license

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/ollyware/tokend/internal/apperrors"
	"github.com/ollyware/tokend/internal/models"
	"github.com/ollyware/tokend/internal/repository"
)

// TokenPrefix is prepended to every issued token string
const TokenPrefix = "OLLY-"

// tokenRandomBytes of randomness per token, hex encoded to 24 chars
const tokenRandomBytes = 12

// GeneratedToken is the result of issuing a token for a plan
type GeneratedToken struct {
	Token     string
	Plan      string
	ExpiresAt *time.Time // nil for the unlimited plan
}

// Service implements license token issuance, verification and administration
type Service struct {
	tokens repository.TokenRepo

	// now is replaceable in tests
	now func() time.Time
}

func NewService(storage repository.Storage) *Service {
	return &Service{
		tokens: storage.Tokens(),
		now:    time.Now,
	}
}

// Generate issues a fresh token for the named plan.
// Plan names match case-insensitively; unknown plans return
// apperrors.ErrInvalidPlan with the valid names enumerated.
func (s *Service) Generate(ctx context.Context, planName string) (GeneratedToken, error) {
	p, ok := lookupPlan(planName)
	if !ok {
		return GeneratedToken{}, fmt.Errorf("%w. Valid plans: %s", apperrors.ErrInvalidPlan, strings.Join(PlanNames(), ", "))
	}

	tokenString, err := mintToken()
	if err != nil {
		return GeneratedToken{}, fmt.Errorf("error while minting token. Err: %w", err)
	}

	var expiresAt *time.Time
	if !p.unlimited() {
		t := s.now().Truncate(time.Second).Add(p.duration)
		expiresAt = &t
	}

	err = s.tokens.Create(ctx, models.Token{
		Token:     tokenString,
		ExpiresAt: expiresAt,
	})
	if err != nil {
		return GeneratedToken{}, err
	}

	return GeneratedToken{
		Token:     tokenString,
		Plan:      p.name,
		ExpiresAt: expiresAt,
	}, nil
}

// Verify checks the token and binds it to hwid on first use.
// Checks apply in fixed order: existence, revocation, expiry, hwid binding.
// The first-use binding is a single conditional update in the repository, so
// concurrent verifications of an unbound token settle on exactly one hwid.
func (s *Service) Verify(ctx context.Context, tokenString string, hwid string) error {
	token, err := s.tokens.Get(ctx, tokenString)
	if err != nil {
		return err
	}

	if token.Revoked {
		return apperrors.ErrTokenRevoked
	}

	if token.Expired(s.now()) {
		return apperrors.ErrTokenExpired
	}

	if token.HWID != nil {
		if *token.HWID != hwid {
			return apperrors.ErrHWIDMismatch
		}
		return nil
	}

	bound, err := s.tokens.BindHWID(ctx, tokenString, hwid)
	if err != nil {
		return err
	}
	if bound != hwid {
		// lost the race to a concurrent first verification
		return apperrors.ErrHWIDMismatch
	}

	return nil
}

// TokenInfo is the administrative view of a token
type TokenInfo struct {
	Token            string
	HWID             *string
	Revoked          bool
	ExpiresAt        *time.Time
	SecondsRemaining *int64 // nil for tokens without expiry
}

// Inspect returns the token state including remaining lifetime.
// If token not found returns apperrors.ErrTokenNotFound.
func (s *Service) Inspect(ctx context.Context, tokenString string) (TokenInfo, error) {
	token, err := s.tokens.Get(ctx, tokenString)
	if err != nil {
		return TokenInfo{}, err
	}

	return TokenInfo{
		Token:            token.Token,
		HWID:             token.HWID,
		Revoked:          token.Revoked,
		ExpiresAt:        token.ExpiresAt,
		SecondsRemaining: token.SecondsRemaining(s.now()),
	}, nil
}

// Unbind clears the hwid binding, re-opening the one-time binding window.
// Idempotent; a missing token is a no-op. Returns rows matched so callers
// may log when nothing was updated.
func (s *Service) Unbind(ctx context.Context, tokenString string) (int64, error) {
	return s.tokens.Unbind(ctx, tokenString)
}

// Revoke permanently disables the token.
// Idempotent; a missing token is a no-op. Returns rows matched.
func (s *Service) Revoke(ctx context.Context, tokenString string) (int64, error) {
	return s.tokens.Revoke(ctx, tokenString)
}

// mintToken generates the opaque token string with 96 bits of randomness
func mintToken() (string, error) {
	buf := make([]byte, tokenRandomBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}

	return TokenPrefix + strings.ToUpper(hex.EncodeToString(buf)), nil
}
