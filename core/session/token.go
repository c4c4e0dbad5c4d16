package session

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"

	"github.com/edutrack/edutrack/core"
)

var (
	nowFunc = time.Now // mockable

	errNoToken = errors.New("no access token")
	errNoExp   = errors.New("token has no exp claim")
)

// decodeExpiry extracts the exp claim of an access token without verifying
// the signature; the client never holds the signing key, so expiry is the
// only claim it can act on.
func decodeExpiry(token string) (time.Time, error) {
	if token == "" {
		return time.Time{}, core.TokenDecodeError{Err: errNoToken}
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, core.TokenDecodeError{Err: err}
	}

	exp, err := claims.GetExpirationTime()
	if err != nil {
		return time.Time{}, core.TokenDecodeError{Err: err}
	}
	if exp == nil {
		return time.Time{}, core.TokenDecodeError{Err: errNoExp}
	}
	return exp.Time, nil
}
