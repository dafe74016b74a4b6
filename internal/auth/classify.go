package auth

import (
	"github.com/checklane/register-backend/pkg/db"
	pkgerrors "github.com/checklane/register-backend/pkg/errors"
)

// SQLSTATE values raised during login. The backend signals business failures
// (bad credentials, unknown register) through the same channel as transport
// failures, so classification has to happen on the raw state code.
const (
	sqlStateDriverUnavailable = "08001"
	sqlStateCommLinkFailure   = "08S01"
	sqlStateConnFailure       = "08006"
	sqlStateUnknownDatabase   = "3D000"
	sqlStateInvalidAuthSpec   = "28000"
	sqlStateInvalidPassword   = "28P01"
	sqlStateUserRaised        = "45000"
	sqlStateRaiseException    = "P0001"
)

// classifyLoginError maps a connect/login failure onto the error taxonomy.
// An error with no SQLSTATE at all is treated as server-unreachable: a torn
// socket or refused dial never reaches the point where a state is assigned,
// and the fail-safe answer for an unclassifiable login failure is "the server
// is down", not "your password is wrong".
func classifyLoginError(err error) error {
	if err == nil {
		return nil
	}

	switch db.SQLState(err) {
	case sqlStateDriverUnavailable:
		return pkgerrors.Wrap(pkgerrors.CodeConfiguration, err, "database driver unavailable")
	case sqlStateCommLinkFailure, sqlStateConnFailure, sqlStateUnknownDatabase, "":
		return pkgerrors.Wrap(pkgerrors.CodeConnectivity, err, "store server unreachable")
	case sqlStateInvalidAuthSpec, sqlStateInvalidPassword:
		return pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid username or password")
	case sqlStateUserRaised, sqlStateRaiseException:
		return pkgerrors.Wrap(pkgerrors.CodeInvalidRegister, err, "register number not recognized")
	default:
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "login failed")
	}
}
