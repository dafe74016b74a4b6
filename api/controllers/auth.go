package controllers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/checklane/register-backend/api/responses"
	"github.com/checklane/register-backend/api/validators"
	"github.com/checklane/register-backend/internal/auth"
	"github.com/checklane/register-backend/internal/catalog"
	"github.com/checklane/register-backend/internal/members"
	"github.com/checklane/register-backend/internal/receipts"
	"github.com/checklane/register-backend/internal/register"
	pkgauth "github.com/checklane/register-backend/pkg/auth"
	"github.com/checklane/register-backend/pkg/config"
	pkgerrors "github.com/checklane/register-backend/pkg/errors"
	"github.com/checklane/register-backend/pkg/logger"
	"github.com/checklane/register-backend/pkg/metrics"
)

type loginRequest struct {
	Username       string `json:"username" validate:"required"`
	Password       string `json:"password" validate:"required"`
	RegisterNumber int    `json:"register_number" validate:"required,gt=0"`
}

type loginResponse struct {
	Token          string `json:"token"`
	SessionID      string `json:"session_id"`
	RegisterNumber int    `json:"register_number"`
	StoreAddress   string `json:"store_address"`
}

// AuthController handles cashier login. A successful login yields a live
// session in the registry and a bearer token naming it.
type AuthController struct {
	authSvc  auth.Service
	jwtCfg   config.JWTConfig
	registry *register.Registry
	logg     *logger.Logger
	metrics  *metrics.RegisterMetrics
	now      func() time.Time
}

// AuthControllerParams bundles the dependencies for the auth controller.
type AuthControllerParams struct {
	AuthService auth.Service
	JWTConfig   config.JWTConfig
	Registry    *register.Registry
	Logger      *logger.Logger
	Metrics     *metrics.RegisterMetrics
}

// NewAuthController constructs the auth controller.
func NewAuthController(params AuthControllerParams) (*AuthController, error) {
	if params.AuthService == nil {
		return nil, fmt.Errorf("auth service is required")
	}
	if params.Registry == nil {
		return nil, fmt.Errorf("session registry is required")
	}
	return &AuthController{
		authSvc:  params.AuthService,
		jwtCfg:   params.JWTConfig,
		registry: params.Registry,
		logg:     params.Logger,
		metrics:  params.Metrics,
		now:      time.Now,
	}, nil
}

// Login authenticates the cashier, binds the register, and issues a session
// token. The session's workflow and services are built over the connection
// the login produced; nothing is shared between sessions.
func (c *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req loginRequest
	if err := validators.DecodeJSONBody(r, &req); err != nil {
		responses.WriteError(ctx, c.logg, w, err)
		return
	}

	result, err := c.authSvc.Login(ctx, auth.LoginInput{
		Username:       req.Username,
		Password:       req.Password,
		RegisterNumber: req.RegisterNumber,
	})
	if err != nil {
		responses.WriteError(ctx, c.logg, w, err)
		return
	}

	workflow, err := c.buildWorkflow(result.Session)
	if err != nil {
		_ = result.Session.Close()
		responses.WriteError(ctx, c.logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "build session workflow"))
		return
	}

	token, err := pkgauth.MintSessionToken(c.jwtCfg, c.now(), pkgauth.SessionTokenPayload{
		SessionID:      result.Session.ID(),
		RegisterNumber: result.Session.RegisterNumber(),
	})
	if err != nil {
		_ = result.Session.Close()
		responses.WriteError(ctx, c.logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint session token"))
		return
	}

	c.registry.Put(workflow)
	c.metrics.IncLogin()

	responses.WriteSuccess(w, loginResponse{
		Token:          token,
		SessionID:      result.Session.ID().String(),
		RegisterNumber: result.Session.RegisterNumber(),
		StoreAddress:   result.StoreAddress,
	})
}

func (c *AuthController) buildWorkflow(sess *register.Session) (*register.Workflow, error) {
	conn := sess.Backend().DB()

	catalogSvc, err := catalog.NewService(catalog.NewRepository(conn))
	if err != nil {
		return nil, err
	}
	memberSvc, err := members.NewService(members.NewRepository(conn))
	if err != nil {
		return nil, err
	}
	receiptSvc, err := receipts.NewService(receipts.NewRepository(conn))
	if err != nil {
		return nil, err
	}

	return register.NewWorkflow(register.WorkflowParams{
		Session:  sess,
		Catalog:  catalogSvc,
		Members:  memberSvc,
		Receipts: receiptSvc,
		Logger:   c.logg,
		Metrics:  c.metrics,
	})
}
