package receipts

import (
	"context"
	"errors"
	"testing"

	"github.com/checklane/register-backend/internal/catalog"
	"github.com/checklane/register-backend/internal/members"
	pkgerrors "github.com/checklane/register-backend/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubReceiptRepo struct {
	receiptNumber int64
	createErr     error

	addedUPCs []string
	addErr    error

	taxRate    decimal.Decimal
	taxErr     error
	taxCalls   int
	taxReceipt int64

	finalizeErr     error
	finalizedPaid   decimal.Decimal
	finalizedCalls  int
	createdAccount  *int64
	createdRegister int
}

func (s *stubReceiptRepo) CreateReceipt(ctx context.Context, registerNumber int, memberAccount *int64) (int64, error) {
	s.createdRegister = registerNumber
	s.createdAccount = memberAccount
	if s.createErr != nil {
		return 0, s.createErr
	}
	return s.receiptNumber, nil
}

func (s *stubReceiptRepo) AddItem(ctx context.Context, upc string, receiptNumber int64) error {
	if s.addErr != nil {
		return s.addErr
	}
	s.addedUPCs = append(s.addedUPCs, upc)
	return nil
}

func (s *stubReceiptRepo) StateTaxRate(ctx context.Context, receiptNumber int64) (decimal.Decimal, error) {
	s.taxCalls++
	s.taxReceipt = receiptNumber
	if s.taxErr != nil {
		return decimal.Zero, s.taxErr
	}
	return s.taxRate, nil
}

func (s *stubReceiptRepo) FinalizeReceipt(ctx context.Context, receiptNumber int64, amountPaid decimal.Decimal) error {
	s.finalizedCalls++
	s.finalizedPaid = amountPaid
	return s.finalizeErr
}

type stubProbe struct{ up bool }

func (p stubProbe) Reachable(ctx context.Context) bool { return p.up }

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func cartFixture() []catalog.Item {
	return []catalog.Item{
		{UPC: "012345678905", Name: "Whole Milk", Price: dec("2.99"), Discount: dec("0.10")},
		{UPC: "036000291452", Name: "Paper Towels", Price: dec("5.49"), Discount: dec("0")},
		{UPC: "012345678905", Name: "Whole Milk", Price: dec("2.99"), Discount: dec("0.10")},
	}
}

func TestCreatePassesGenuineNullWithoutMember(t *testing.T) {
	repo := &stubReceiptRepo{receiptNumber: 88}
	svc, err := NewService(repo)
	require.NoError(t, err)

	receiptNumber, err := svc.Create(context.Background(), 7, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(88), receiptNumber)
	assert.Equal(t, 7, repo.createdRegister)
	assert.Nil(t, repo.createdAccount, "anonymous receipt must reach the backend as NULL")
}

func TestCreatePassesMemberAccount(t *testing.T) {
	repo := &stubReceiptRepo{receiptNumber: 89}
	svc, err := NewService(repo)
	require.NoError(t, err)

	member := &members.Member{AccountNumber: 1234567890123}
	_, err = svc.Create(context.Background(), 7, member)
	require.NoError(t, err)
	require.NotNil(t, repo.createdAccount)
	assert.Equal(t, int64(1234567890123), *repo.createdAccount)
}

func TestCreateRejectsNonPositiveRegister(t *testing.T) {
	svc, err := NewService(&stubReceiptRepo{receiptNumber: 1})
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), 0, nil)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

func TestComputeTotalWithoutMemberIgnoresDiscounts(t *testing.T) {
	repo := &stubReceiptRepo{taxRate: dec("0")}
	svc, err := NewService(repo)
	require.NoError(t, err)

	total, err := svc.ComputeTotal(context.Background(), cartFixture(), 88, nil)
	require.NoError(t, err)
	// 2.99 + 5.49 + 2.99, stored discounts must not apply
	assert.True(t, total.Equal(dec("11.47")), "got %s", total)
}

func TestComputeTotalAppliesMemberDiscountOncePerItem(t *testing.T) {
	repo := &stubReceiptRepo{taxRate: dec("0")}
	svc, err := NewService(repo)
	require.NoError(t, err)

	member := &members.Member{AccountNumber: 42}
	total, err := svc.ComputeTotal(context.Background(), cartFixture(), 88, member)
	require.NoError(t, err)
	// 2.99*0.9 = 2.691 twice, plus 5.49 undiscounted
	assert.True(t, total.Equal(dec("10.872")), "got %s", total)
}

func TestComputeTotalAppliesTaxOnceToDiscountedSubtotal(t *testing.T) {
	repo := &stubReceiptRepo{taxRate: dec("0.07")}
	svc, err := NewService(repo)
	require.NoError(t, err)

	member := &members.Member{AccountNumber: 42}
	total, err := svc.ComputeTotal(context.Background(), cartFixture(), 88, member)
	require.NoError(t, err)
	// 10.872 * 1.07, full precision preserved
	assert.True(t, total.Equal(dec("11.63304")), "got %s", total)
	assert.Equal(t, 1, repo.taxCalls, "tax must be fetched and applied exactly once")
	assert.Equal(t, int64(88), repo.taxReceipt)
}

func TestComputeTotalInsertsLineItemsInScanOrder(t *testing.T) {
	repo := &stubReceiptRepo{taxRate: dec("0")}
	svc, err := NewService(repo)
	require.NoError(t, err)

	_, err = svc.ComputeTotal(context.Background(), cartFixture(), 88, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"012345678905", "036000291452", "012345678905"}, repo.addedUPCs)
}

func TestComputeTotalRejectsEmptyCart(t *testing.T) {
	svc, err := NewService(&stubReceiptRepo{})
	require.NoError(t, err)

	_, err = svc.ComputeTotal(context.Background(), nil, 88, nil)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

func TestComputeTotalSurfacesAddItemFailure(t *testing.T) {
	cause := errors.New("sqlstate 23503: missing receipt")
	svc, err := NewService(&stubReceiptRepo{addErr: cause})
	require.NoError(t, err)

	_, err = svc.ComputeTotal(context.Background(), cartFixture(), 88, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, cause), "original backend error must not be swallowed")
}

func TestFinalizeRejectsUnreachableConnection(t *testing.T) {
	repo := &stubReceiptRepo{}
	svc, err := NewService(repo)
	require.NoError(t, err)

	_, err = svc.Finalize(context.Background(), stubProbe{up: false}, dec("10"), dec("5"), 88)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeConnectivity, typed.Code())
	assert.Equal(t, 0, repo.finalizedCalls, "must not commit over a dead connection")
}

func TestFinalizeRejectsInsufficientPayment(t *testing.T) {
	repo := &stubReceiptRepo{}
	svc, err := NewService(repo)
	require.NoError(t, err)

	_, err = svc.Finalize(context.Background(), stubProbe{up: true}, dec("9.99"), dec("10.00"), 88)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
	assert.Equal(t, 0, repo.finalizedCalls)
}

func TestFinalizeRoundsChangeAtTheEndOnly(t *testing.T) {
	repo := &stubReceiptRepo{}
	svc, err := NewService(repo)
	require.NoError(t, err)

	change, err := svc.Finalize(context.Background(), stubProbe{up: true}, dec("10.00"), dec("9.995"), 88)
	require.NoError(t, err)
	assert.True(t, change.Equal(dec("0.01")), "got %s", change)
	assert.Equal(t, 1, repo.finalizedCalls)
	assert.True(t, repo.finalizedPaid.Equal(dec("10.00")))
}

func TestFinalizeExactPaymentGivesZeroChange(t *testing.T) {
	svc, err := NewService(&stubReceiptRepo{})
	require.NoError(t, err)

	change, err := svc.Finalize(context.Background(), stubProbe{up: true}, dec("11.47"), dec("11.47"), 88)
	require.NoError(t, err)
	assert.True(t, change.IsZero(), "got %s", change)
}
