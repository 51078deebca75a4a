package rest

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenExpiry inspects a stored bearer token without verifying its
// signature (the backend is the authority; this only drives a "log in
// again" hint before a call is even attempted). Returns the zero time when
// the token is unparsable or carries no expiry.
func TokenExpiry(token string) time.Time {
	parser := jwt.NewParser()
	claims := jwt.MapClaims{}
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return time.Time{}
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}
	}
	return exp.Time
}

// TokenExpired reports whether the token definitely cannot work anymore.
// Tokens without a readable expiry are given the benefit of the doubt.
func TokenExpired(token string, now time.Time) bool {
	exp := TokenExpiry(token)
	return !exp.IsZero() && exp.Before(now)
}
