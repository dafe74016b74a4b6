package register

import (
	"context"
	"fmt"

	"github.com/checklane/register-backend/internal/members"
	"github.com/checklane/register-backend/pkg/enums"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Backend is the session's exclusively-owned database handle. It can be
// silently invalidated by the server at any point between two calls, which is
// why Reachable is consulted immediately before every state-mutating step.
type Backend interface {
	Ping(ctx context.Context) error
	Close() error
	DB() *gorm.DB
}

// Session is the mutable workflow context for one cashier login: the backend
// handle, the register number fixed at login, and the in-flight transaction
// (cart, optional member, pending receipt).
type Session struct {
	id             uuid.UUID
	registerNumber int
	storeAddress   string
	backend        Backend

	state         enums.TransactionState
	cart          Cart
	member        *members.Member
	receiptNumber int64
	amountDue     decimal.Decimal
}

// NewSession binds a freshly authenticated backend handle to a register.
// The register number is immutable for the life of the session; callers never
// supply it again after login.
func NewSession(backend Backend, registerNumber int, storeAddress string) (*Session, error) {
	if backend == nil {
		return nil, fmt.Errorf("backend handle is required")
	}
	if registerNumber <= 0 {
		return nil, fmt.Errorf("register number must be positive")
	}
	return &Session{
		id:             uuid.New(),
		registerNumber: registerNumber,
		storeAddress:   storeAddress,
		backend:        backend,
		state:          enums.TransactionStateEmpty,
	}, nil
}

// ID returns the session identifier carried in the client token.
func (s *Session) ID() uuid.UUID {
	return s.id
}

// RegisterNumber returns the register bound at login.
func (s *Session) RegisterNumber() int {
	return s.registerNumber
}

// StoreAddress returns the store address resolved at login.
func (s *Session) StoreAddress() string {
	return s.storeAddress
}

// Backend returns the session's database handle, nil once closed.
func (s *Session) Backend() Backend {
	return s.backend
}

// Reachable reports whether the backend handle is present and answers a
// probe. False for a torn-down session, a closed handle, or any probe error.
func (s *Session) Reachable(ctx context.Context) bool {
	if s == nil || s.backend == nil {
		return false
	}
	return s.backend.Ping(ctx) == nil
}

// Close releases the backend handle. Safe to call twice.
func (s *Session) Close() error {
	if s.backend == nil {
		return nil
	}
	backend := s.backend
	s.backend = nil
	return backend.Close()
}

// ResetTransaction discards the in-flight transaction state, keeping the
// session and its handle alive for the next customer.
func (s *Session) ResetTransaction() {
	s.cart.Clear()
	s.member = nil
	s.receiptNumber = 0
	s.amountDue = decimal.Zero
	s.state = enums.TransactionStateEmpty
}
