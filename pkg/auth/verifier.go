package auth

import (
	"github.com/golang-jwt/jwt/v5"
	log "github.com/sirupsen/logrus"
)

type authError string

// ErrInvalidToken covers every handshake identity failure: missing token,
// bad signature, wrong issuer, missing email claim. Callers treat them all
// uniformly as "no identity".
const ErrInvalidToken = authError("missing or invalid token")

func (e authError) Error() string {
	return string(e)
}

// Verifier extracts a verified identity from a handshake token.
type Verifier interface {
	Verify(token string) (string, error)
}

type jwtVerifier struct {
	secret []byte
	issuer string
}

// NewJWTVerifier creates a Verifier for HS256 signed tokens carrying the
// user identity in the "email" claim.
func NewJWTVerifier(secret, issuer string) Verifier {
	return &jwtVerifier{
		secret: []byte(secret),
		issuer: issuer,
	}
}

func (v *jwtVerifier) Verify(token string) (string, error) {
	if token == "" {
		return "", ErrInvalidToken
	}

	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return v.secret, nil
	}, jwt.WithIssuer(v.issuer), jwt.WithValidMethods([]string{"HS256"}))
	if err != nil {
		log.Warnf("auth: failed to verify token: %v", err)
		return "", ErrInvalidToken
	}

	email, ok := claims["email"].(string)
	if !ok || email == "" {
		return "", ErrInvalidToken
	}

	return email, nil
}
