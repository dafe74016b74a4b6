package auth

import (
	"context"
	"fmt"
	"strings"

	"github.com/checklane/register-backend/internal/address"
	"github.com/checklane/register-backend/internal/register"
	"github.com/checklane/register-backend/pkg/config"
	"github.com/checklane/register-backend/pkg/db"
	pkgerrors "github.com/checklane/register-backend/pkg/errors"
	"github.com/checklane/register-backend/pkg/logger"
	"gorm.io/gorm"
)

// storeConnection is the session-owned handle produced by a successful dial.
// *db.Client satisfies it; tests substitute a stub.
type storeConnection interface {
	register.Backend
	Exec(ctx context.Context, query string, args ...any) *gorm.DB
}

// connector dials the store database with the cashier's credentials.
type connector func(ctx context.Context, username, password string) (storeConnection, error)

// addressResolver looks up the store address for the register being bound.
type addressResolver func(ctx context.Context, conn storeConnection, registerNumber int) (string, error)

// Service authenticates cashiers against the store backend. Authentication
// is delegated wholesale: the database account is the identity, and the
// cashier_register_login procedure is the policy.
type Service interface {
	Login(ctx context.Context, input LoginInput) (*LoginResult, error)
}

type service struct {
	connect connector
	resolve addressResolver
	logg    *logger.Logger
}

// ServiceParams bundles the dependencies required to build the auth service.
type ServiceParams struct {
	DBConfig config.DBConfig
	Logger   *logger.Logger

	// Connector and Resolver override the default dial/lookup in tests.
	Connector connector
	Resolver  addressResolver
}

// NewService constructs the auth service.
func NewService(params ServiceParams) (Service, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	connect := params.Connector
	if connect == nil {
		cfg := params.DBConfig
		logg := params.Logger
		connect = func(ctx context.Context, username, password string) (storeConnection, error) {
			return db.Open(ctx, cfg, username, password, logg)
		}
	}

	resolve := params.Resolver
	if resolve == nil {
		resolve = func(ctx context.Context, conn storeConnection, registerNumber int) (string, error) {
			return address.NewRepository(conn.DB()).ByRegister(ctx, registerNumber)
		}
	}

	return &service{connect: connect, resolve: resolve, logg: params.Logger}, nil
}

// Login dials the store database as the cashier, validates the register
// binding, resolves the store address, and hands back a live session owning
// the connection. Any failure closes the connection; a session is returned
// only when every step succeeded.
func (s *service) Login(ctx context.Context, input LoginInput) (*LoginResult, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	lctx := s.logg.WithRegisterNumber(ctx, input.RegisterNumber)

	conn, err := s.connect(ctx, input.Username, input.Password)
	if err != nil {
		s.logg.Warn(lctx, "login connection failed")
		return nil, classifyLoginError(err)
	}

	res := conn.Exec(ctx, "CALL cashier_register_login(?, ?)", input.Username, input.RegisterNumber)
	if res.Error != nil {
		_ = conn.Close()
		return nil, classifyLoginError(res.Error)
	}

	storeAddress, err := s.resolve(ctx, conn, input.RegisterNumber)
	if err != nil {
		_ = conn.Close()
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeInvalidRegister, "register number not recognized")
		}
		return nil, classifyLoginError(err)
	}

	sess, err := register.NewSession(conn, input.RegisterNumber, storeAddress)
	if err != nil {
		_ = conn.Close()
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create session")
	}

	s.logg.Info(s.logg.WithSessionID(lctx, sess.ID().String()), "cashier logged in")

	return &LoginResult{Session: sess, StoreAddress: storeAddress}, nil
}

func validateInput(input LoginInput) error {
	if strings.TrimSpace(input.Username) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "username is required")
	}
	if input.Password == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "password is required")
	}
	if input.RegisterNumber <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "register number must be positive")
	}
	return nil
}
