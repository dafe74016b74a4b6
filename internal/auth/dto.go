package auth

import (
	"github.com/checklane/register-backend/internal/register"
)

// LoginInput carries the credentials and register binding for one login
// attempt. The credentials are the cashier's own database account; the server
// never holds shared credentials.
type LoginInput struct {
	Username       string
	Password       string
	RegisterNumber int
}

// LoginResult is the authenticated session plus the display fields the client
// shows on the register header.
type LoginResult struct {
	Session      *register.Session
	StoreAddress string
}
