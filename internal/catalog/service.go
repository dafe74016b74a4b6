package catalog

import (
	"context"
	"errors"
	"fmt"

	pkgerrors "github.com/checklane/register-backend/pkg/errors"
	"gorm.io/gorm"
)

// Service resolves scanned UPCs against the store catalog.
type Service interface {
	Lookup(ctx context.Context, upc string) (*Item, error)
}

type itemRepository interface {
	ItemByUPC(ctx context.Context, upc string) (*Item, error)
}

type service struct {
	items itemRepository
}

// NewService constructs a catalog lookup service.
func NewService(items itemRepository) (Service, error) {
	if items == nil {
		return nil, fmt.Errorf("item repository is required")
	}
	return &service{items: items}, nil
}

// Lookup is read-only: a miss leaves no state behind and the caller simply
// re-prompts for the next scan.
func (s *service) Lookup(ctx context.Context, upc string) (*Item, error) {
	item, err := s.items.ItemByUPC(ctx, upc)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "item not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup item")
	}
	return item, nil
}
