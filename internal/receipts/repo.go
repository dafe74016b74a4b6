package receipts

import (
	"context"

	"github.com/checklane/register-backend/internal/repo"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Repository drives the receipt stored procedures.
type Repository struct {
	repo.Base
}

// NewRepository binds the repo to the provided GORM connection.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

// CreateReceipt allocates a receipt row bound to the register. memberAccount
// is nil for anonymous transactions and must reach the backend as SQL NULL,
// never a sentinel number.
func (r *Repository) CreateReceipt(ctx context.Context, registerNumber int, memberAccount *int64) (int64, error) {
	var receiptNumber int64
	res := r.Raw(ctx, "SELECT create_receipt(?, ?)", registerNumber, memberAccount).Scan(&receiptNumber)
	if res.Error != nil {
		return 0, res.Error
	}
	return receiptNumber, nil
}

// AddItem appends one line item to the receipt_details table.
func (r *Repository) AddItem(ctx context.Context, upc string, receiptNumber int64) error {
	return r.Exec(ctx, "CALL add_item_to_receipt(?, ?)", upc, receiptNumber).Error
}

// StateTaxRate resolves the jurisdiction tax rate for the receipt's register.
func (r *Repository) StateTaxRate(ctx context.Context, receiptNumber int64) (decimal.Decimal, error) {
	var rate decimal.Decimal
	res := r.Raw(ctx, "SELECT get_state_tax(?)", receiptNumber).Scan(&rate)
	if res.Error != nil {
		return decimal.Zero, res.Error
	}
	return rate, nil
}

// FinalizeReceipt commits the payment against the receipt.
func (r *Repository) FinalizeReceipt(ctx context.Context, receiptNumber int64, amountPaid decimal.Decimal) error {
	return r.Exec(ctx, "CALL finalize_receipt(?, ?)", receiptNumber, amountPaid).Error
}
