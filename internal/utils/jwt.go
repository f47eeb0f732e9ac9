package utils // helpers for token creation and password hashing

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// AccessToken is a signed HS256 JWT plus its expiry.  The token is sent
// in the Authorization header on protected endpoints.
type AccessToken struct {
	Token string
	Exp   time.Time
}

// NewAccessToken signs an access token for a user.  Claims: sub (email),
// admin flag, exp and iat.  TTL is given in minutes.
func NewAccessToken(secret, email string, isAdmin bool, ttlMin int) (AccessToken, error) {
	exp := time.Now().UTC().Add(time.Duration(ttlMin) * time.Minute)
	claims := jwt.MapClaims{
		"sub":   email,
		"admin": isAdmin,
		"exp":   exp.Unix(),
		"iat":   time.Now().UTC().Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString([]byte(secret))
	if err != nil {
		return AccessToken{}, err
	}
	return AccessToken{Token: signed, Exp: exp}, nil
}
