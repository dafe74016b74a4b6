package controllers

import (
	"fmt"
	"net/http"

	"github.com/checklane/register-backend/api/middleware"
	"github.com/checklane/register-backend/api/responses"
	"github.com/checklane/register-backend/api/validators"
	"github.com/checklane/register-backend/internal/members"
	pkgerrors "github.com/checklane/register-backend/pkg/errors"
	"github.com/checklane/register-backend/pkg/logger"
)

type memberLookupRequest struct {
	PhoneNumber   *string `json:"phone_number,omitempty"`
	AccountNumber *int64  `json:"account_number,omitempty"`
}

type memberDTO struct {
	AccountNumber string `json:"account_number"`
	Name          string `json:"name"`
}

func memberToDTO(m *members.Member) memberDTO {
	return memberDTO{
		AccountNumber: m.MaskedAccount(),
		Name:          m.FullName(),
	}
}

// MembersController attaches a rewards member to the current transaction.
type MembersController struct {
	logg *logger.Logger
}

// NewMembersController constructs the members controller.
func NewMembersController(logg *logger.Logger) (*MembersController, error) {
	if logg == nil {
		return nil, fmt.Errorf("logger is required")
	}
	return &MembersController{logg: logg}, nil
}

// Lookup resolves a member by phone number or account number and pins them
// to the transaction. Exactly one identifier must be supplied.
func (c *MembersController) Lookup(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	workflow := middleware.WorkflowFromContext(ctx)

	var req memberLookupRequest
	if err := validators.DecodeJSONBody(r, &req); err != nil {
		responses.WriteError(ctx, c.logg, w, err)
		return
	}

	hasPhone := req.PhoneNumber != nil
	hasAccount := req.AccountNumber != nil
	if hasPhone == hasAccount {
		responses.WriteError(ctx, c.logg, w,
			pkgerrors.New(pkgerrors.CodeValidation, "provide exactly one of phone_number or account_number"))
		return
	}

	var (
		member *members.Member
		err    error
	)
	if hasPhone {
		member, err = workflow.AttachMemberByPhone(ctx, *req.PhoneNumber)
	} else {
		member, err = workflow.AttachMemberByAccount(ctx, *req.AccountNumber)
	}
	if err != nil {
		responses.WriteError(ctx, c.logg, w, err)
		return
	}

	responses.WriteSuccess(w, memberToDTO(member))
}
