package repo

import (
	"context"

	"gorm.io/gorm"
)

// Base is the shared foundation for the stored-procedure repositories. Every
// query runs over the session's single pinned connection, so Base carries no
// pooling or transaction state of its own.
type Base struct {
	db *gorm.DB
}

// NewBase constructs a Base repository backed by the provided GORM connection.
func NewBase(db *gorm.DB) Base {
	return Base{db: db}
}

// DB returns the GORM connection bound to the supplied context (if any).
func (b Base) DB(ctx context.Context) *gorm.DB {
	if ctx == nil {
		return b.db
	}
	return b.db.WithContext(ctx)
}

// Raw runs a row-returning database function call.
func (b Base) Raw(ctx context.Context, query string, args ...any) *gorm.DB {
	return b.DB(ctx).Raw(query, args...)
}

// Exec runs a stored procedure that returns no rows.
func (b Base) Exec(ctx context.Context, query string, args ...any) *gorm.DB {
	return b.DB(ctx).Exec(query, args...)
}
