// Package token owns the persisted authentication credential for the Notably
// client. The credential is an opaque signed token issued by the server; the
// client decodes its payload for the subject and expiry but never verifies
// the signature; that is the server's job.
package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrNoToken is returned by Store.Get when no credential is persisted.
var ErrNoToken = errors.New("no authentication token found")

// Store persists the single credential under one fixed slot.
//
// Contract:
//   - Set: replace the stored token.
//   - Get: return the stored token, or ErrNoToken when absent.
//   - Remove: delete the stored token; removing an absent token is not an error.
//
// Implementations must be safe for concurrent use.
type Store interface {
	Set(token string) error
	Get() (string, error)
	Remove() error
}

// timeNow is a test seam for expiry checks.
var timeNow = time.Now

// DecodePayload decodes the token's payload segment without verifying the
// signature. Best-effort: returns (nil, false) on malformed input, never
// panics. Intended for display purposes only.
func DecodePayload(token string) (jwt.MapClaims, bool) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, false
	}
	return claims, true
}

// IsExpired reports whether the token's exp claim is in the past. A token
// that cannot be decoded is treated as expired (fail-closed). A token that
// decodes but carries no exp claim never expires locally.
func IsExpired(token string) bool {
	claims, ok := DecodePayload(token)
	if !ok {
		return true
	}
	exp, err := claims.GetExpirationTime()
	if err != nil {
		return true
	}
	if exp == nil {
		return false
	}
	return exp.Before(timeNow())
}

// CheckStatus is the single auth gate used at startup. It reads the current
// token and, when it is absent or expired, removes it and reports false.
// Idempotent: repeated calls on an expired token keep returning false with
// the store left empty.
func CheckStatus(s Store) bool {
	tok, err := s.Get()
	if err != nil || IsExpired(tok) {
		_ = s.Remove()
		return false
	}
	return true
}
