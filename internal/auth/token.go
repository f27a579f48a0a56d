package auth

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"dashboard/internal/models"
)

var (
	// ErrMissingToken means no token was presented at all.
	ErrMissingToken = errors.New("no token provided")
	// ErrInvalidToken covers bad signatures, malformed tokens and expiry.
	ErrInvalidToken = errors.New("invalid token")
)

// Identity is the verified {id, username, role} triple embedded in a token.
type Identity struct {
	ID       int64
	Username string
	Role     models.Role
}

func (i Identity) IsAdmin() bool {
	return i.Role == models.RoleAdmin
}

type claims struct {
	Username string      `json:"username"`
	Role     models.Role `json:"role"`
	jwt.RegisteredClaims
}

// Issue signs an HS256 token carrying the user's identity, valid for ttl
// from now.
func Issue(secret string, ttl time.Duration, u *models.User) (string, error) {
	if secret == "" {
		return "", errors.New("auth: secret not configured")
	}

	now := time.Now()
	c := claims{
		Username: u.Username,
		Role:     u.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(u.ID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	return token.SignedString([]byte(secret))
}

// Verify checks the signature and expiry of a token and returns the
// embedded identity. Verification is stateless; expiry is evaluated here,
// not swept server-side.
func Verify(secret, tokenStr string) (Identity, error) {
	if tokenStr == "" {
		return Identity{}, ErrMissingToken
	}
	if secret == "" {
		return Identity{}, errors.New("auth: secret not configured")
	}

	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}))

	var c claims
	_, err := parser.ParseWithClaims(tokenStr, &c, func(token *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	})
	if err != nil {
		return Identity{}, ErrInvalidToken
	}

	if c.ExpiresAt == nil || time.Until(c.ExpiresAt.Time) <= 0 {
		return Identity{}, ErrInvalidToken
	}

	id, err := strconv.ParseInt(c.Subject, 10, 64)
	if err != nil || id <= 0 || !c.Role.Valid() {
		return Identity{}, ErrInvalidToken
	}

	return Identity{ID: id, Username: c.Username, Role: c.Role}, nil
}
