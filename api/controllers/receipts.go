package controllers

import (
	"fmt"
	"net/http"

	"github.com/checklane/register-backend/api/middleware"
	"github.com/checklane/register-backend/api/responses"
	"github.com/checklane/register-backend/api/validators"
	pkgerrors "github.com/checklane/register-backend/pkg/errors"
	"github.com/checklane/register-backend/pkg/logger"
	"github.com/shopspring/decimal"
)

type payRequest struct {
	AmountPaid string `json:"amount_paid" validate:"required"`
}

type totalResponse struct {
	ReceiptNumber int64  `json:"receipt_number"`
	AmountDue     string `json:"amount_due"`
}

type payResponse struct {
	ReceiptNumber int64  `json:"receipt_number"`
	AmountDue     string `json:"amount_due"`
	AmountPaid    string `json:"amount_paid"`
	ChangeDue     string `json:"change_due"`
}

// ReceiptsController drives totaling and payment for the current transaction.
type ReceiptsController struct {
	logg *logger.Logger
}

// NewReceiptsController constructs the receipts controller.
func NewReceiptsController(logg *logger.Logger) (*ReceiptsController, error) {
	if logg == nil {
		return nil, fmt.Errorf("logger is required")
	}
	return &ReceiptsController{logg: logg}, nil
}

// Total creates the receipt for the cart and reports the amount due.
func (c *ReceiptsController) Total(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	workflow := middleware.WorkflowFromContext(ctx)

	result, err := workflow.Total(ctx)
	if err != nil {
		responses.WriteError(ctx, c.logg, w, err)
		return
	}

	responses.WriteSuccess(w, totalResponse{
		ReceiptNumber: result.ReceiptNumber,
		AmountDue:     result.AmountDue.StringFixed(2),
	})
}

// Pay finalizes the totaled receipt with the tendered amount.
func (c *ReceiptsController) Pay(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	workflow := middleware.WorkflowFromContext(ctx)

	var req payRequest
	if err := validators.DecodeJSONBody(r, &req); err != nil {
		responses.WriteError(ctx, c.logg, w, err)
		return
	}

	amountPaid, err := decimal.NewFromString(req.AmountPaid)
	if err != nil {
		responses.WriteError(ctx, c.logg, w,
			pkgerrors.Wrap(pkgerrors.CodeValidation, err, "amount_paid must be a decimal amount"))
		return
	}
	if amountPaid.IsNegative() {
		responses.WriteError(ctx, c.logg, w,
			pkgerrors.New(pkgerrors.CodeValidation, "amount_paid must not be negative"))
		return
	}

	result, err := workflow.Pay(ctx, amountPaid)
	if err != nil {
		responses.WriteError(ctx, c.logg, w, err)
		return
	}

	responses.WriteSuccess(w, payResponse{
		ReceiptNumber: result.ReceiptNumber,
		AmountDue:     result.AmountDue.StringFixed(2),
		AmountPaid:    result.AmountPaid.StringFixed(2),
		ChangeDue:     result.ChangeDue.StringFixed(2),
	})
}
