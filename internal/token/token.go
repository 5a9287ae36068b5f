// Package token inspects bearer tokens issued by the backend without verifying them.
// The client cannot verify signatures; it only reads exp to avoid sending a token
// the backend is certain to reject.
package token

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ExpiresAt returns the exp claim of a JWT. ok is false for opaque tokens
// or JWTs without exp.
func ExpiresAt(tok string) (exp time.Time, ok bool) {
	var claims jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(tok, &claims); err != nil {
		return time.Time{}, false
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}

// Expired reports whether tok carries an exp that is not after now.
// Tokens whose expiry is unknown are never considered expired.
func Expired(tok string, now time.Time) bool {
	exp, ok := ExpiresAt(tok)
	return ok && !now.Before(exp)
}
