package auth

import (
	"github.com/angelmondragon/shopfront-backend/pkg/enums"
	"github.com/golang-jwt/jwt/v5"
)

// AccessTokenPayload captures the data available when minting a JWT.
type AccessTokenPayload struct {
	// UserID is the serialized identity and becomes the sub claim.
	UserID    string
	Role      enums.UserRole
	SessionID string
}

// AccessTokenClaims represents the typed JWT issued to clients. The session id travels as jti.
type AccessTokenClaims struct {
	Role enums.UserRole `json:"role"`
	jwt.RegisteredClaims
}

// SessionID returns the server-side session the token is bound to.
func (c *AccessTokenClaims) SessionID() string {
	return c.ID
}

// UserID returns the serialized identity.
func (c *AccessTokenClaims) UserID() string {
	return c.Subject
}
