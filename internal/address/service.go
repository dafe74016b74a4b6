package address

import (
	"context"
	"strings"

	"github.com/checklane/register-backend/internal/repo"
	"gorm.io/gorm"
)

// Repository resolves the store address shown on the register after login.
type Repository struct {
	repo.Base
}

// NewRepository binds the repo to the provided GORM connection.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

// ByRegister resolves the street address of the store owning the register.
// The backend raises the same signal as the login procedure for an unknown
// register, so login-side classification applies to errors from here too.
func (r *Repository) ByRegister(ctx context.Context, registerNumber int) (string, error) {
	var addr string
	res := r.Raw(ctx, "SELECT store_address_lookup_from_register(?)", registerNumber).Scan(&addr)
	if res.Error != nil {
		return "", res.Error
	}
	if res.RowsAffected == 0 || strings.TrimSpace(addr) == "" {
		return "", gorm.ErrRecordNotFound
	}
	return addr, nil
}
