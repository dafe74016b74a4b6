package routes

import (
	"fmt"
	"net/http"

	"github.com/checklane/register-backend/api/controllers"
	custommw "github.com/checklane/register-backend/api/middleware"
	"github.com/checklane/register-backend/internal/auth"
	"github.com/checklane/register-backend/internal/register"
	"github.com/checklane/register-backend/pkg/config"
	"github.com/checklane/register-backend/pkg/logger"
	"github.com/checklane/register-backend/pkg/metrics"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RouterParams bundles everything the HTTP surface needs.
type RouterParams struct {
	Config      *config.Config
	Logger      *logger.Logger
	Registry    *register.Registry
	AuthService auth.Service
	Metrics     *metrics.RegisterMetrics
	Prometheus  *prometheus.Registry
}

// NewRouter wires the register API. Login is the only open endpoint besides
// health and metrics; everything else requires a live session.
func NewRouter(params RouterParams) (http.Handler, error) {
	if params.Config == nil {
		return nil, fmt.Errorf("config is required")
	}
	if params.Registry == nil {
		return nil, fmt.Errorf("session registry is required")
	}

	authController, err := controllers.NewAuthController(controllers.AuthControllerParams{
		AuthService: params.AuthService,
		JWTConfig:   params.Config.JWT,
		Registry:    params.Registry,
		Logger:      params.Logger,
		Metrics:     params.Metrics,
	})
	if err != nil {
		return nil, err
	}
	itemsController, err := controllers.NewItemsController(params.Logger)
	if err != nil {
		return nil, err
	}
	membersController, err := controllers.NewMembersController(params.Logger)
	if err != nil {
		return nil, err
	}
	receiptsController, err := controllers.NewReceiptsController(params.Logger)
	if err != nil {
		return nil, err
	}
	sessionController, err := controllers.NewSessionController(params.Logger)
	if err != nil {
		return nil, err
	}
	healthController := controllers.NewHealthController(params.Registry)

	r := chi.NewRouter()

	r.Use(custommw.Recoverer(params.Logger))
	r.Use(custommw.RequestID(params.Logger))
	r.Use(custommw.Logging(params.Logger))

	r.Get("/healthz", healthController.Check)
	if params.Prometheus != nil {
		r.Handle("/metrics", promhttp.HandlerFor(params.Prometheus, promhttp.HandlerOpts{}))
	}

	r.Route("/v1", func(r chi.Router) {
		r.Post("/auth/login", authController.Login)

		r.Group(func(r chi.Router) {
			r.Use(custommw.Session(params.Config.JWT, params.Registry, params.Logger))

			r.Post("/items/scan", itemsController.Scan)
			r.Post("/members/lookup", membersController.Lookup)
			r.Get("/session", sessionController.Get)
			r.Post("/session/logout", sessionController.Logout)
			r.Post("/receipts/total", receiptsController.Total)
			r.Post("/receipts/pay", receiptsController.Pay)
		})
	})

	return r, nil
}
