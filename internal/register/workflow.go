package register

import (
	"context"
	"fmt"
	"sync"

	"github.com/checklane/register-backend/internal/catalog"
	"github.com/checklane/register-backend/internal/members"
	"github.com/checklane/register-backend/internal/receipts"
	"github.com/checklane/register-backend/pkg/enums"
	pkgerrors "github.com/checklane/register-backend/pkg/errors"
	"github.com/checklane/register-backend/pkg/logger"
	"github.com/checklane/register-backend/pkg/metrics"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type catalogLookup interface {
	Lookup(ctx context.Context, upc string) (*catalog.Item, error)
}

type memberLookup interface {
	ByPhone(ctx context.Context, phoneNumber string) (*members.Member, error)
	ByAccount(ctx context.Context, accountNumber int64) (*members.Member, error)
}

type receiptProcessor interface {
	Create(ctx context.Context, registerNumber int, member *members.Member) (int64, error)
	ComputeTotal(ctx context.Context, items []catalog.Item, receiptNumber int64, member *members.Member) (decimal.Decimal, error)
	Finalize(ctx context.Context, probe receipts.Prober, amountPaid, amountDue decimal.Decimal, receiptNumber int64) (decimal.Decimal, error)
}

// Workflow drives one session through the transaction state machine:
// empty → accumulating → totaled → (paid) → empty. Operations are serialized
// per session; the register is a strictly sequential device even when the
// transport is not. On connectivity loss the workflow terminates the session
// outright rather than attempting to resume with state the backend may no
// longer share.
type Workflow struct {
	mu         sync.Mutex
	sess       *Session
	catalog    catalogLookup
	members    memberLookup
	receipts   receiptProcessor
	logg       *logger.Logger
	metrics    *metrics.RegisterMetrics
	onEvict    func(id uuid.UUID)
	terminated bool

	lastFinalizedReceipt int64
}

// WorkflowParams bundles the dependencies required to build a workflow.
type WorkflowParams struct {
	Session  *Session
	Catalog  catalogLookup
	Members  memberLookup
	Receipts receiptProcessor
	Logger   *logger.Logger
	Metrics  *metrics.RegisterMetrics
}

// NewWorkflow constructs the per-session workflow.
func NewWorkflow(params WorkflowParams) (*Workflow, error) {
	if params.Session == nil {
		return nil, fmt.Errorf("session is required")
	}
	if params.Catalog == nil {
		return nil, fmt.Errorf("catalog service is required")
	}
	if params.Members == nil {
		return nil, fmt.Errorf("member service is required")
	}
	if params.Receipts == nil {
		return nil, fmt.Errorf("receipt service is required")
	}
	return &Workflow{
		sess:     params.Session,
		catalog:  params.Catalog,
		members:  params.Members,
		receipts: params.Receipts,
		logg:     params.Logger,
		metrics:  params.Metrics,
	}, nil
}

// SessionID returns the identifier used as the registry key.
func (w *Workflow) SessionID() uuid.UUID {
	return w.sess.ID()
}

func (w *Workflow) setOnEvict(fn func(id uuid.UUID)) {
	w.onEvict = fn
}

// TotalResult reports the receipt created for the current cart.
type TotalResult struct {
	ReceiptNumber int64
	AmountDue     decimal.Decimal
}

// PayResult reports a finalized payment.
type PayResult struct {
	ReceiptNumber int64
	AmountDue     decimal.Decimal
	AmountPaid    decimal.Decimal
	ChangeDue     decimal.Decimal
}

// Snapshot is a read-only view of the session for status endpoints.
type Snapshot struct {
	SessionID      uuid.UUID
	RegisterNumber int
	StoreAddress   string
	State          enums.TransactionState
	Items          []catalog.Item
	Member         *members.Member
	ReceiptNumber  int64
	AmountDue      decimal.Decimal
}

// ScanItem resolves a UPC and appends it to the cart. A not-found miss leaves
// the transaction untouched so the cashier can rescan.
func (w *Workflow) ScanItem(ctx context.Context, upc string) (*catalog.Item, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.sess.state.AcceptsScans() {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "receipt already totaled; finish payment first")
	}
	if err := w.guardReachable(ctx); err != nil {
		return nil, err
	}

	item, err := w.catalog.Lookup(ctx, upc)
	if err != nil {
		return nil, err
	}

	w.sess.cart.Add(*item)
	w.sess.state = enums.TransactionStateAccumulating
	w.metrics.IncScan()
	return item, nil
}

// AttachMemberByPhone looks up and pins a member for the current transaction.
func (w *Workflow) AttachMemberByPhone(ctx context.Context, phoneNumber string) (*members.Member, error) {
	return w.attachMember(ctx, func(ctx context.Context) (*members.Member, error) {
		return w.members.ByPhone(ctx, phoneNumber)
	})
}

// AttachMemberByAccount looks up and pins a member for the current transaction.
func (w *Workflow) AttachMemberByAccount(ctx context.Context, accountNumber int64) (*members.Member, error) {
	return w.attachMember(ctx, func(ctx context.Context) (*members.Member, error) {
		return w.members.ByAccount(ctx, accountNumber)
	})
}

func (w *Workflow) attachMember(ctx context.Context, lookup func(ctx context.Context) (*members.Member, error)) (*members.Member, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.sess.member != nil {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "member already attached to this transaction")
	}
	if !w.sess.state.AcceptsScans() {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "cannot attach a member after totaling")
	}
	if err := w.guardReachable(ctx); err != nil {
		return nil, err
	}

	member, err := lookup(ctx)
	if err != nil {
		return nil, err
	}

	w.sess.member = member
	return member, nil
}

// Total creates the receipt, attaches the cart, and computes the amount due.
// A failure after the receipt row exists cannot be untangled client-side, so
// the session is torn down rather than left pointing at a half-built receipt.
func (w *Workflow) Total(ctx context.Context) (*TotalResult, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.guardReachable(ctx); err != nil {
		return nil, err
	}
	if w.sess.state == enums.TransactionStateTotaled {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "receipt already totaled")
	}
	if w.sess.cart.Len() == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}

	receiptNumber, err := w.receipts.Create(ctx, w.sess.registerNumber, w.sess.member)
	if err != nil {
		return nil, err
	}

	amountDue, err := w.receipts.ComputeTotal(ctx, w.sess.cart.Items(), receiptNumber, w.sess.member)
	if err != nil {
		_ = w.terminate(ctx, "total_failed")
		return nil, err
	}

	w.sess.receiptNumber = receiptNumber
	w.sess.amountDue = amountDue
	w.sess.state = enums.TransactionStateTotaled
	w.metrics.IncTotaled()

	return &TotalResult{ReceiptNumber: receiptNumber, AmountDue: amountDue}, nil
}

// Pay finalizes the pending receipt. Insufficient payment re-prompts without
// touching state; connectivity loss or a failed commit tears the session
// down. A finalized receipt can never be paid twice: success resets the
// transaction, making totaled unreachable for that receipt number again.
func (w *Workflow) Pay(ctx context.Context, amountPaid decimal.Decimal) (*PayResult, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.sess.state != enums.TransactionStateTotaled {
		if w.lastFinalizedReceipt != 0 && w.sess.state == enums.TransactionStateEmpty {
			return nil, pkgerrors.New(pkgerrors.CodeStateConflict,
				fmt.Sprintf("receipt %d already finalized", w.lastFinalizedReceipt))
		}
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "no totaled receipt awaiting payment")
	}

	receiptNumber := w.sess.receiptNumber
	amountDue := w.sess.amountDue

	change, err := w.receipts.Finalize(ctx, w.sess, amountPaid, amountDue, receiptNumber)
	if err != nil {
		typed := pkgerrors.As(err)
		switch {
		case typed != nil && typed.Code() == pkgerrors.CodeValidation:
			return nil, err
		case typed != nil && typed.Code() == pkgerrors.CodeConnectivity:
			_ = w.terminate(ctx, "connection_lost")
			return nil, err
		default:
			_ = w.terminate(ctx, "finalize_failed")
			return nil, err
		}
	}

	w.lastFinalizedReceipt = receiptNumber
	w.metrics.IncFinalized()
	w.sess.ResetTransaction()

	if w.logg != nil {
		lctx := w.logg.WithFields(ctx, map[string]any{
			"receipt_number": receiptNumber,
			"change_due":     change.StringFixed(2),
		})
		w.logg.Info(lctx, "receipt finalized")
	}

	return &PayResult{
		ReceiptNumber: receiptNumber,
		AmountDue:     amountDue,
		AmountPaid:    amountPaid,
		ChangeDue:     change,
	}, nil
}

// State returns a read-only view of the session.
func (w *Workflow) State(ctx context.Context) Snapshot {
	w.mu.Lock()
	defer w.mu.Unlock()

	return Snapshot{
		SessionID:      w.sess.id,
		RegisterNumber: w.sess.registerNumber,
		StoreAddress:   w.sess.storeAddress,
		State:          w.sess.state,
		Items:          w.sess.cart.Items(),
		Member:         w.sess.member,
		ReceiptNumber:  w.sess.receiptNumber,
		AmountDue:      w.sess.amountDue,
	}
}

// Logout tears the session down deliberately.
func (w *Workflow) Logout(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.terminate(ctx, "logout")
}

// Terminated reports whether the session has been torn down.
func (w *Workflow) Terminated() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.terminated
}

// guardReachable enforces the precondition every state-mutating operation
// shares. A check from an earlier call proves nothing; the connection can die
// between any two steps.
func (w *Workflow) guardReachable(ctx context.Context) error {
	if w.terminated {
		return pkgerrors.New(pkgerrors.CodeConnectivity, "session terminated; log in again")
	}
	if !w.sess.Reachable(ctx) {
		_ = w.terminate(ctx, "connection_lost")
		return pkgerrors.New(pkgerrors.CodeConnectivity, "register connection lost; log in again")
	}
	return nil
}

// terminate is the hard restart: discard the cart and pending receipt, close
// the handle, and evict the session so the next request is forced through
// login. Partial transaction state cannot be trusted once the backend may
// have reset underneath it.
func (w *Workflow) terminate(ctx context.Context, reason string) error {
	if w.terminated {
		return nil
	}
	w.terminated = true

	discarded := w.sess.cart.Len()
	w.sess.ResetTransaction()
	closeErr := w.sess.Close()
	if closeErr != nil && w.logg != nil {
		w.logg.Error(ctx, "closing session backend", closeErr)
	}

	w.metrics.IncTermination(reason)
	if w.onEvict != nil {
		w.onEvict(w.sess.id)
	}

	if w.logg != nil {
		lctx := w.logg.WithFields(ctx, map[string]any{
			"reason":          reason,
			"items_discarded": discarded,
		})
		w.logg.Warn(lctx, "register session terminated")
	}
	return closeErr
}
