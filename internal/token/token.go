// Package token issues and validates the signed access token carried in
// the auth cookie. The token is self-contained: every claim needed to
// build the caller identity is embedded, so request handling never goes
// back to the database for the role name.
package token

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt"
)

var ErrInvalidToken = errors.New("invalid or expired token")

// Identity is the claim set carried by an access token.
type Identity struct {
	UserID      uint64
	Login       string
	DisplayName string
	RoleID      uint64
	RoleName    string
}

// Issue signs a token for the identity, valid for ttl.
func Issue(id Identity, secret string, ttl time.Duration) (string, time.Time, error) {
	expires := time.Now().Add(ttl)

	claims := jwt.MapClaims{
		"sub":   strconv.FormatUint(id.UserID, 10),
		"login": id.Login,
		"name":  id.DisplayName,
		"role":  id.RoleName,
		"rid":   id.RoleID,
		"exp":   expires.Unix(),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}

	return signed, expires, nil
}

// Parse validates a signed token and reconstructs the identity.
func Parse(signed, secret string) (*Identity, error) {
	parsed, err := jwt.Parse(signed, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil || !parsed.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}

	sub, _ := claims["sub"].(string)
	userID, err := strconv.ParseUint(sub, 10, 64)
	if err != nil {
		return nil, ErrInvalidToken
	}

	roleID, ok := claims["rid"].(float64)
	if !ok {
		return nil, ErrInvalidToken
	}

	login, _ := claims["login"].(string)
	name, _ := claims["name"].(string)
	role, _ := claims["role"].(string)

	return &Identity{
		UserID:      userID,
		Login:       login,
		DisplayName: name,
		RoleID:      uint64(roleID),
		RoleName:    role,
	}, nil
}
