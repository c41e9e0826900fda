// Package session holds the client's authentication state: which of the two
// independent schemes (end-user, admin) currently owns a bearer token, and
// who that token says the caller is.
package session

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type Kind string

const (
	Anonymous Kind = "anonymous"
	User      Kind = "user"
	Admin     Kind = "admin"
)

// Subject identifies the signed-in principal.
type Subject struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Session is the authoritative authentication state. When both tokens are
// physically stored, the admin one wins: Kind reports Admin and the user
// token is ignored for authorization purposes.
type Session struct {
	Kind    Kind
	Token   string
	Subject Subject
	Expiry  time.Time
}

func (s Session) Authenticated() bool {
	return s.Kind != Anonymous
}

// claimsOf extracts subject and expiry from a JWT-shaped token without
// verifying the signature; the client has no signing key and treats the
// backend as the authority. Opaque tokens yield empty claims.
func claimsOf(token string) (Subject, time.Time) {
	parser := jwt.NewParser()

	claims := jwt.MapClaims{}
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return Subject{}, time.Time{}
	}

	sub := Subject{}
	if v, ok := claims["userId"].(string); ok {
		sub.ID = v
	} else if v, err := claims.GetSubject(); err == nil {
		sub.ID = v
	}
	if v, ok := claims["name"].(string); ok {
		sub.Name = v
	}
	if v, ok := claims["email"].(string); ok {
		sub.Email = v
	}

	var expiry time.Time
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		expiry = exp.Time
	}

	return sub, expiry
}
