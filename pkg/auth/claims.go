package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// SessionTokenPayload captures the data available when minting a JWT.
type SessionTokenPayload struct {
	SessionID      uuid.UUID
	RegisterNumber int
}

// SessionTokenClaims represents the typed JWT issued to a register client.
// The session id doubles as the registry key; the register number is carried
// for log enrichment only and is never trusted for lookups.
type SessionTokenClaims struct {
	SessionID      uuid.UUID `json:"session_id"`
	RegisterNumber int       `json:"register_number"`
	jwt.RegisteredClaims
}
