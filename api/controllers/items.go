package controllers

import (
	"fmt"
	"net/http"

	"github.com/checklane/register-backend/api/middleware"
	"github.com/checklane/register-backend/api/responses"
	"github.com/checklane/register-backend/api/validators"
	"github.com/checklane/register-backend/internal/catalog"
	"github.com/checklane/register-backend/pkg/logger"
)

type scanRequest struct {
	UPC string `json:"upc" validate:"required,len=12,numeric"`
}

type itemDTO struct {
	UPC      string `json:"upc"`
	Name     string `json:"name"`
	Price    string `json:"price"`
	Discount string `json:"discount"`
}

type scanResponse struct {
	Item      itemDTO `json:"item"`
	LineCount int     `json:"line_count"`
	State     string  `json:"state"`
}

func itemToDTO(item catalog.Item) itemDTO {
	return itemDTO{
		UPC:      item.UPC,
		Name:     item.Name,
		Price:    item.Price.StringFixed(2),
		Discount: item.Discount.String(),
	}
}

// ItemsController handles UPC scans for the authenticated session.
type ItemsController struct {
	logg *logger.Logger
}

// NewItemsController constructs the items controller.
func NewItemsController(logg *logger.Logger) (*ItemsController, error) {
	if logg == nil {
		return nil, fmt.Errorf("logger is required")
	}
	return &ItemsController{logg: logg}, nil
}

// Scan resolves a UPC and appends the item to the session's cart.
func (c *ItemsController) Scan(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	workflow := middleware.WorkflowFromContext(ctx)

	var req scanRequest
	if err := validators.DecodeJSONBody(r, &req); err != nil {
		responses.WriteError(ctx, c.logg, w, err)
		return
	}

	item, err := workflow.ScanItem(ctx, req.UPC)
	if err != nil {
		responses.WriteError(ctx, c.logg, w, err)
		return
	}

	snap := workflow.State(ctx)
	responses.WriteSuccess(w, scanResponse{
		Item:      itemToDTO(*item),
		LineCount: len(snap.Items),
		State:     string(snap.State),
	})
}
