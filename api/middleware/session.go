package middleware

import (
	"net/http"
	"strings"

	"github.com/checklane/register-backend/api/responses"
	"github.com/checklane/register-backend/internal/register"
	pkgauth "github.com/checklane/register-backend/pkg/auth"
	"github.com/checklane/register-backend/pkg/config"
	pkgerrors "github.com/checklane/register-backend/pkg/errors"
	"github.com/checklane/register-backend/pkg/logger"
)

// Session authenticates the bearer token and resolves the live workflow for
// the session it names. A valid token whose session is gone means the session
// was terminated server-side; the only recovery is a fresh login.
func Session(cfg config.JWTConfig, registry *register.Registry, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			token := bearerToken(r)
			if token == "" {
				responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing bearer token"))
				return
			}

			claims, err := pkgauth.ParseSessionToken(cfg, token)
			if err != nil {
				responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid session token"))
				return
			}

			workflow, ok := registry.Get(claims.SessionID)
			if !ok {
				responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "session expired; log in again"))
				return
			}

			if logg != nil {
				ctx = logg.WithSessionID(ctx, claims.SessionID.String())
				ctx = logg.WithRegisterNumber(ctx, claims.RegisterNumber)
			}
			ctx = WithWorkflow(ctx, workflow)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
