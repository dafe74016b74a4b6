package members

import (
	"context"

	"github.com/checklane/register-backend/internal/repo"
	"gorm.io/gorm"
)

// Repository resolves members through the member lookup database functions.
type Repository struct {
	repo.Base
}

// NewRepository binds the repo to the provided GORM connection.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

type phoneRow struct {
	AccountNumber int64  `gorm:"column:account_number"`
	FirstName     string `gorm:"column:first_name"`
	LastName      string `gorm:"column:last_name"`
}

// MemberByPhone resolves a member from an already-normalized phone number.
func (r *Repository) MemberByPhone(ctx context.Context, phoneNumber string) (*Member, error) {
	var row phoneRow
	res := r.Raw(ctx, "SELECT account_number, first_name, last_name FROM member_phone_lookup(?)", phoneNumber).Scan(&row)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}

	return &Member{
		AccountNumber: row.AccountNumber,
		FirstName:     row.FirstName,
		LastName:      row.LastName,
	}, nil
}

type accountRow struct {
	FirstName string `gorm:"column:first_name"`
	LastName  string `gorm:"column:last_name"`
}

// MemberByAccount resolves a member from their account number.
func (r *Repository) MemberByAccount(ctx context.Context, accountNumber int64) (*Member, error) {
	var row accountRow
	res := r.Raw(ctx, "SELECT first_name, last_name FROM member_account_number_lookup(?)", accountNumber).Scan(&row)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}

	return &Member{
		AccountNumber: accountNumber,
		FirstName:     row.FirstName,
		LastName:      row.LastName,
	}, nil
}
