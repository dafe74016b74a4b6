package auth

import (
	"errors"
	"testing"

	pkgerrors "github.com/checklane/register-backend/pkg/errors"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pgErr(code, message string) error {
	return &pgconn.PgError{Code: code, Message: message}
}

func TestClassifyLoginError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want pkgerrors.Code
	}{
		{"driver unavailable", pgErr("08001", "sqlclient unable to establish connection"), pkgerrors.CodeConfiguration},
		{"comm link failure", pgErr("08S01", "communication link failure"), pkgerrors.CodeConnectivity},
		{"connection failure", pgErr("08006", "server closed the connection unexpectedly"), pkgerrors.CodeConnectivity},
		{"unknown database", pgErr("3D000", `database "storefront" does not exist`), pkgerrors.CodeConnectivity},
		{"no sqlstate defaults to unreachable", errors.New("dial tcp 10.0.0.5:5432: connection refused"), pkgerrors.CodeConnectivity},
		{"invalid authorization", pgErr("28000", "role does not exist"), pkgerrors.CodeUnauthorized},
		{"invalid password", pgErr("28P01", "password authentication failed"), pkgerrors.CodeUnauthorized},
		{"user-raised register rejection", pgErr("45000", "invalid register number"), pkgerrors.CodeInvalidRegister},
		{"raise_exception register rejection", pgErr("P0001", "invalid register number"), pkgerrors.CodeInvalidRegister},
		{"anything else is internal", pgErr("23503", "foreign key violation"), pkgerrors.CodeInternal},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			classified := classifyLoginError(tc.err)
			typed := pkgerrors.As(classified)
			require.NotNil(t, typed)
			assert.Equal(t, tc.want, typed.Code())
			assert.True(t, errors.Is(classified, tc.err), "the driver error must stay on the chain")
		})
	}
}

func TestClassifyLoginErrorNil(t *testing.T) {
	assert.NoError(t, classifyLoginError(nil))
}
