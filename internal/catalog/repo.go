package catalog

import (
	"context"

	"github.com/checklane/register-backend/internal/repo"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Item is the immutable catalog row resolved for a scanned UPC. Discount is a
// fraction in [0,1) and only takes effect when a member is attached to the
// transaction.
type Item struct {
	UPC      string
	Name     string
	Price    decimal.Decimal
	Discount decimal.Decimal
}

// Repository resolves items through the item_upc_lookup database function.
type Repository struct {
	repo.Base
}

// NewRepository binds the repo to the provided GORM connection.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

type itemRow struct {
	Name     string          `gorm:"column:name"`
	Price    decimal.Decimal `gorm:"column:price"`
	Discount decimal.Decimal `gorm:"column:discount"`
}

// ItemByUPC fetches the item attributes for the given UPC. Returns
// gorm.ErrRecordNotFound when the catalog has no matching row.
func (r *Repository) ItemByUPC(ctx context.Context, upc string) (*Item, error) {
	var row itemRow
	res := r.Raw(ctx, "SELECT name, price, discount FROM item_upc_lookup(?)", upc).Scan(&row)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}

	return &Item{
		UPC:      upc,
		Name:     row.Name,
		Price:    row.Price,
		Discount: row.Discount,
	}, nil
}
