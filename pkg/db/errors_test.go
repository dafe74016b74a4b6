package db

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

func TestSQLStateFromPgx(t *testing.T) {
	err := fmt.Errorf("login: %w", &pgconn.PgError{Code: "28P01", Message: "password authentication failed"})
	if got := SQLState(err); got != "28P01" {
		t.Fatalf("expected 28P01, got %q", got)
	}
}

func TestSQLStateFromPq(t *testing.T) {
	err := fmt.Errorf("login: %w", &pq.Error{Code: "45000"})
	if got := SQLState(err); got != "45000" {
		t.Fatalf("expected 45000, got %q", got)
	}
}

func TestSQLStateBlankForPlainErrors(t *testing.T) {
	if got := SQLState(errors.New("dial tcp: connection refused")); got != "" {
		t.Fatalf("expected blank state, got %q", got)
	}
	if got := SQLState(nil); got != "" {
		t.Fatalf("expected blank state for nil, got %q", got)
	}
}
