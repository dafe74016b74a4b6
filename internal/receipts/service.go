package receipts

import (
	"context"
	"fmt"

	"github.com/checklane/register-backend/internal/catalog"
	"github.com/checklane/register-backend/internal/members"
	pkgerrors "github.com/checklane/register-backend/pkg/errors"
	"github.com/shopspring/decimal"
)

// Prober answers whether the session's backend connection is still usable.
// Finalize re-checks it at entry: money must never be committed over a handle
// that silently died since the total was computed.
type Prober interface {
	Reachable(ctx context.Context) bool
}

// Service owns the receipt lifecycle: create, attach line items and total,
// finalize with payment.
type Service interface {
	Create(ctx context.Context, registerNumber int, member *members.Member) (int64, error)
	ComputeTotal(ctx context.Context, items []catalog.Item, receiptNumber int64, member *members.Member) (decimal.Decimal, error)
	Finalize(ctx context.Context, probe Prober, amountPaid, amountDue decimal.Decimal, receiptNumber int64) (decimal.Decimal, error)
}

type receiptRepository interface {
	CreateReceipt(ctx context.Context, registerNumber int, memberAccount *int64) (int64, error)
	AddItem(ctx context.Context, upc string, receiptNumber int64) error
	StateTaxRate(ctx context.Context, receiptNumber int64) (decimal.Decimal, error)
	FinalizeReceipt(ctx context.Context, receiptNumber int64, amountPaid decimal.Decimal) error
}

type service struct {
	receipts receiptRepository
}

// NewService constructs a receipt service.
func NewService(receipts receiptRepository) (Service, error) {
	if receipts == nil {
		return nil, fmt.Errorf("receipt repository is required")
	}
	return &service{receipts: receipts}, nil
}

func (s *service) Create(ctx context.Context, registerNumber int, member *members.Member) (int64, error) {
	if registerNumber <= 0 {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "register number must be positive")
	}

	var memberAccount *int64
	if member != nil {
		account := member.AccountNumber
		memberAccount = &account
	}

	receiptNumber, err := s.receipts.CreateReceipt(ctx, registerNumber, memberAccount)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create receipt")
	}
	if receiptNumber <= 0 {
		return 0, pkgerrors.New(pkgerrors.CodeInternal, "backend returned no receipt number")
	}
	return receiptNumber, nil
}

// ComputeTotal attaches every cart item to the receipt in scan order, then
// totals client-side: each unit price discounted only when a member is
// attached, and the state tax applied exactly once to the discounted
// subtotal. The result is carried at full precision; rounding to cents is
// Finalize's job.
func (s *service) ComputeTotal(ctx context.Context, items []catalog.Item, receiptNumber int64, member *members.Member) (decimal.Decimal, error) {
	if receiptNumber <= 0 {
		return decimal.Zero, pkgerrors.New(pkgerrors.CodeValidation, "receipt number must be positive")
	}
	if len(items) == 0 {
		return decimal.Zero, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}

	for _, item := range items {
		if err := s.receipts.AddItem(ctx, item.UPC, receiptNumber); err != nil {
			return decimal.Zero, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "add item to receipt")
		}
	}

	subtotal := decimal.Zero
	for _, item := range items {
		discount := decimal.Zero
		if member != nil {
			discount = item.Discount
		}
		subtotal = subtotal.Add(item.Price.Mul(decimal.NewFromInt(1).Sub(discount)))
	}

	taxRate, err := s.receipts.StateTaxRate(ctx, receiptNumber)
	if err != nil {
		return decimal.Zero, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "resolve state tax")
	}

	amountDue := subtotal.Mul(decimal.NewFromInt(1).Add(taxRate))
	return amountDue, nil
}

// Finalize commits the payment and returns the change due, rounded to the
// cent. This is the only contractual rounding point in the whole lifecycle.
func (s *service) Finalize(ctx context.Context, probe Prober, amountPaid, amountDue decimal.Decimal, receiptNumber int64) (decimal.Decimal, error) {
	if probe == nil || !probe.Reachable(ctx) {
		return decimal.Zero, pkgerrors.New(pkgerrors.CodeConnectivity, "register connection lost during finalize")
	}
	if receiptNumber <= 0 {
		return decimal.Zero, pkgerrors.New(pkgerrors.CodeValidation, "receipt number must be positive")
	}
	if amountPaid.LessThan(amountDue) {
		return decimal.Zero, pkgerrors.New(pkgerrors.CodeValidation, "amount paid is less than amount due")
	}

	if err := s.receipts.FinalizeReceipt(ctx, receiptNumber, amountPaid); err != nil {
		return decimal.Zero, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "finalize receipt")
	}

	return amountPaid.Sub(amountDue).Round(2), nil
}
