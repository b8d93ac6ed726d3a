package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/golang-jwt/jwt/v5"
)

// ErrOpaqueToken means the token is not a JWT and cannot be introspected.
var ErrOpaqueToken = errors.New("opaque token")

// Claims is the unverified payload of a JWT access token.
type Claims struct {
	jwt.RegisteredClaims
	ID int `json:"id,omitempty"`
}

// UserID returns the numeric user id from the "id" claim, falling back to "sub".
func (c *Claims) UserID() (int, bool) {
	if c.ID != 0 {
		return c.ID, true
	}
	if n, err := strconv.Atoi(c.Subject); err == nil {
		return n, true
	}
	return 0, false
}

// ParseClaims decodes the JWT payload without verifying its signature.
// The server stays the authority; this is only for local display.
func ParseClaims(token string) (*Claims, error) {
	var cl Claims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &cl); err != nil {
		if errors.Is(err, jwt.ErrTokenMalformed) {
			return nil, ErrOpaqueToken
		}
		return nil, fmt.Errorf("parse token: %w", err)
	}
	return &cl, nil
}

// PayloadJSON pretty-prints the raw JWT payload.
func PayloadJSON(token string) (string, error) {
	tok, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return "", ErrOpaqueToken
	}
	b, err := json.MarshalIndent(tok.Claims, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal payload: %w", err)
	}
	return string(b), nil
}
