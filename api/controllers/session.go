package controllers

import (
	"fmt"
	"net/http"

	"github.com/checklane/register-backend/api/middleware"
	"github.com/checklane/register-backend/api/responses"
	"github.com/checklane/register-backend/pkg/logger"
)

type sessionResponse struct {
	SessionID      string     `json:"session_id"`
	RegisterNumber int        `json:"register_number"`
	StoreAddress   string     `json:"store_address"`
	State          string     `json:"state"`
	Items          []itemDTO  `json:"items"`
	Member         *memberDTO `json:"member,omitempty"`
	ReceiptNumber  int64      `json:"receipt_number,omitempty"`
	AmountDue      string     `json:"amount_due,omitempty"`
}

type logoutResponse struct {
	LoggedOut bool `json:"logged_out"`
}

// SessionController exposes the session snapshot and logout.
type SessionController struct {
	logg *logger.Logger
}

// NewSessionController constructs the session controller.
func NewSessionController(logg *logger.Logger) (*SessionController, error) {
	if logg == nil {
		return nil, fmt.Errorf("logger is required")
	}
	return &SessionController{logg: logg}, nil
}

// Get returns the current transaction state for the session.
func (c *SessionController) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	workflow := middleware.WorkflowFromContext(ctx)

	snap := workflow.State(ctx)

	items := make([]itemDTO, 0, len(snap.Items))
	for _, item := range snap.Items {
		items = append(items, itemToDTO(item))
	}

	resp := sessionResponse{
		SessionID:      snap.SessionID.String(),
		RegisterNumber: snap.RegisterNumber,
		StoreAddress:   snap.StoreAddress,
		State:          string(snap.State),
		Items:          items,
		ReceiptNumber:  snap.ReceiptNumber,
	}
	if snap.Member != nil {
		dto := memberToDTO(snap.Member)
		resp.Member = &dto
	}
	if !snap.AmountDue.IsZero() {
		resp.AmountDue = snap.AmountDue.StringFixed(2)
	}

	responses.WriteSuccess(w, resp)
}

// Logout tears the session down and releases its connection.
func (c *SessionController) Logout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	workflow := middleware.WorkflowFromContext(ctx)

	if err := workflow.Logout(ctx); err != nil {
		c.logg.Error(ctx, "logout close failed", err)
	}

	responses.WriteSuccess(w, logoutResponse{LoggedOut: true})
}
