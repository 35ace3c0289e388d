package impl

import (
	"context"
	"encoding/json"
	"testing"

	"loyalty/internal/domain/entity"
	domainerrors "loyalty/internal/domain/errors"
	"loyalty/internal/domain/service"
	"loyalty/internal/infra/qrcode"
	"loyalty/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type redemptionServiceFixtures struct {
	service   usecase.RedemptionUsecase
	store     *memStore
	publisher *capturePublisher
}

func createTestRedemptionService(t *testing.T) redemptionServiceFixtures {
	t.Helper()

	store := newMemStore()
	publisher := &capturePublisher{}
	service := NewRedemptionService(RedemptionServiceParams{
		TxManager:      newFakeTxManager(store),
		RedemptionRepo: &fakeRedemptionRepo{store},
		VoucherService: qrcode.NewVoucherService(256, "M"),
		EventPublisher: publisher,
		Logger:         newDiscardLogger(),
	})

	return redemptionServiceFixtures{service: service, store: store, publisher: publisher}
}

func intPtr(v int) *int { return &v }

func TestRedemptionService_Redeem_Success(t *testing.T) {
	fx := createTestRedemptionService(t)
	user := fx.store.addUser(500)
	item := fx.store.addItem(200, intPtr(3), true)

	output, err := fx.service.Redeem(context.Background(), user.ID, item.ID)

	require.NoError(t, err)
	assert.Equal(t, entity.RedemptionStatusPending, output.Request.Status)
	assert.Equal(t, 200, output.Request.PointsSpent)
	assert.NotEmpty(t, output.Request.VoucherCode)
	assert.Equal(t, 300, output.Balance)

	// Balance, stock and ledger all moved in one step.
	assert.Equal(t, 300, fx.store.users[user.ID].Points)
	assert.Equal(t, 2, *fx.store.items[item.ID].Stock)
	require.Len(t, fx.store.ledger, 1)
	assert.Equal(t, -200, fx.store.ledger[0].Amount)
	assert.Equal(t, entity.PointTxRedemption, fx.store.ledger[0].Type)
	require.NotNil(t, fx.store.ledger[0].ReferenceID)
	assert.Equal(t, output.Request.ID, *fx.store.ledger[0].ReferenceID)

	require.Len(t, fx.publisher.events, 1)
	assert.Equal(t, service.EventRedemptionRequested, fx.publisher.events[0].Type)
	assert.Equal(t, -200, fx.publisher.events[0].Amount)
	assert.Equal(t, 300, fx.publisher.events[0].Balance)
}

func TestRedemptionService_Redeem_InsufficientPoints(t *testing.T) {
	fx := createTestRedemptionService(t)
	user := fx.store.addUser(50)
	item := fx.store.addItem(200, intPtr(3), true)

	_, err := fx.service.Redeem(context.Background(), user.ID, item.ID)

	assert.True(t, errors.Is(err, domainerrors.ErrInsufficientPoints))
	assert.Empty(t, fx.store.requests)
	assert.Empty(t, fx.store.ledger)
	assert.Empty(t, fx.publisher.events)
}

func TestRedemptionService_Redeem_OutOfStock(t *testing.T) {
	fx := createTestRedemptionService(t)
	user := fx.store.addUser(500)
	item := fx.store.addItem(200, intPtr(0), true)

	_, err := fx.service.Redeem(context.Background(), user.ID, item.ID)

	assert.True(t, errors.Is(err, domainerrors.ErrOutOfStock))
	assert.Empty(t, fx.store.requests)
}

func TestRedemptionService_Redeem_InactiveItem(t *testing.T) {
	fx := createTestRedemptionService(t)
	user := fx.store.addUser(500)
	item := fx.store.addItem(200, intPtr(3), false)

	_, err := fx.service.Redeem(context.Background(), user.ID, item.ID)

	assert.True(t, errors.Is(err, domainerrors.ErrRedemptionItemNotFound))
}

func TestRedemptionService_Redeem_UntrackedStock(t *testing.T) {
	fx := createTestRedemptionService(t)
	user := fx.store.addUser(500)
	item := fx.store.addItem(200, nil, true)

	output, err := fx.service.Redeem(context.Background(), user.ID, item.ID)

	require.NoError(t, err)
	assert.Equal(t, entity.RedemptionStatusPending, output.Request.Status)
	assert.Nil(t, fx.store.items[item.ID].Stock)
}

func TestRedemptionService_Cancel_RefundsSnapshotCost(t *testing.T) {
	fx := createTestRedemptionService(t)
	user := fx.store.addUser(500)
	item := fx.store.addItem(200, intPtr(3), true)

	output, err := fx.service.Redeem(context.Background(), user.ID, item.ID)
	require.NoError(t, err)

	// Price hike after redemption must not change the refund.
	fx.store.items[item.ID].PointsCost = 999

	err = fx.service.Cancel(context.Background(), user.ID, false, output.Request.ID)
	require.NoError(t, err)

	assert.Equal(t, entity.RedemptionStatusCancelled, fx.store.requests[output.Request.ID].Status)
	assert.Equal(t, 500, fx.store.users[user.ID].Points)
	assert.Equal(t, 3, *fx.store.items[item.ID].Stock)

	require.Len(t, fx.store.ledger, 2)
	assert.Equal(t, 200, fx.store.ledger[1].Amount)
	assert.Equal(t, entity.PointTxRedemptionRefund, fx.store.ledger[1].Type)

	require.Len(t, fx.publisher.events, 2)
	assert.Equal(t, service.EventRedemptionFinalized, fx.publisher.events[1].Type)
	assert.Equal(t, 200, fx.publisher.events[1].Amount)
}

func TestRedemptionService_Cancel_NonOwnerForbidden(t *testing.T) {
	fx := createTestRedemptionService(t)
	owner := fx.store.addUser(500)
	stranger := fx.store.addUser(0)
	item := fx.store.addItem(200, intPtr(3), true)

	output, err := fx.service.Redeem(context.Background(), owner.ID, item.ID)
	require.NoError(t, err)

	err = fx.service.Cancel(context.Background(), stranger.ID, false, output.Request.ID)
	assert.True(t, errors.Is(err, domainerrors.ErrForbidden))
	assert.Equal(t, entity.RedemptionStatusPending, fx.store.requests[output.Request.ID].Status)
}

func TestRedemptionService_Cancel_AdminMayCancelAnyRequest(t *testing.T) {
	fx := createTestRedemptionService(t)
	owner := fx.store.addUser(500)
	admin := fx.store.addUser(0)
	item := fx.store.addItem(200, intPtr(3), true)

	output, err := fx.service.Redeem(context.Background(), owner.ID, item.ID)
	require.NoError(t, err)

	err = fx.service.Cancel(context.Background(), admin.ID, true, output.Request.ID)
	require.NoError(t, err)
	assert.Equal(t, 500, fx.store.users[owner.ID].Points)
}

func TestRedemptionService_Cancel_FinalizedRequest(t *testing.T) {
	fx := createTestRedemptionService(t)
	user := fx.store.addUser(500)
	item := fx.store.addItem(200, intPtr(3), true)

	output, err := fx.service.Redeem(context.Background(), user.ID, item.ID)
	require.NoError(t, err)

	require.NoError(t, fx.service.Fulfill(context.Background(), output.Request.ID))

	err = fx.service.Cancel(context.Background(), user.ID, false, output.Request.ID)
	assert.True(t, errors.Is(err, domainerrors.ErrRedemptionFinalized))

	// Fulfilled vouchers never refund.
	assert.Equal(t, 300, fx.store.users[user.ID].Points)
}

func TestRedemptionService_Fulfill_Twice(t *testing.T) {
	fx := createTestRedemptionService(t)
	user := fx.store.addUser(500)
	item := fx.store.addItem(200, intPtr(3), true)

	output, err := fx.service.Redeem(context.Background(), user.ID, item.ID)
	require.NoError(t, err)

	require.NoError(t, fx.service.Fulfill(context.Background(), output.Request.ID))

	err = fx.service.Fulfill(context.Background(), output.Request.ID)
	assert.True(t, errors.Is(err, domainerrors.ErrRedemptionFinalized))
}

func TestRedemptionService_GetVoucherQR_OwnerOnly(t *testing.T) {
	fx := createTestRedemptionService(t)
	owner := fx.store.addUser(500)
	stranger := fx.store.addUser(0)
	item := fx.store.addItem(200, intPtr(3), true)

	output, err := fx.service.Redeem(context.Background(), owner.ID, item.ID)
	require.NoError(t, err)

	png, err := fx.service.GetVoucherQR(context.Background(), owner.ID, output.Request.ID)
	require.NoError(t, err)
	assert.NotEmpty(t, png)

	_, err = fx.service.GetVoucherQR(context.Background(), stranger.ID, output.Request.ID)
	assert.True(t, errors.Is(err, domainerrors.ErrForbidden))
}

func TestRedemptionService_GetVoucherQR_FinalizedRequest(t *testing.T) {
	fx := createTestRedemptionService(t)
	user := fx.store.addUser(500)
	item := fx.store.addItem(200, intPtr(3), true)

	output, err := fx.service.Redeem(context.Background(), user.ID, item.ID)
	require.NoError(t, err)

	require.NoError(t, fx.service.Fulfill(context.Background(), output.Request.ID))

	_, err = fx.service.GetVoucherQR(context.Background(), user.ID, output.Request.ID)
	assert.True(t, errors.Is(err, domainerrors.ErrRedemptionFinalized))
}

func TestRedemptionService_VerifyVoucher_RoundTrip(t *testing.T) {
	fx := createTestRedemptionService(t)
	user := fx.store.addUser(500)
	item := fx.store.addItem(200, intPtr(3), true)

	output, err := fx.service.Redeem(context.Background(), user.ID, item.ID)
	require.NoError(t, err)

	qrData, err := json.Marshal(qrcode.VoucherData{
		RequestID:   output.Request.ID.String(),
		VoucherCode: output.Request.VoucherCode,
		Type:        "redemption_voucher",
	})
	require.NoError(t, err)

	request, err := fx.service.VerifyVoucher(context.Background(), string(qrData))
	require.NoError(t, err)
	assert.Equal(t, output.Request.ID, request.ID)
}

func TestRedemptionService_VerifyVoucher_CodeMismatch(t *testing.T) {
	fx := createTestRedemptionService(t)
	user := fx.store.addUser(500)
	item := fx.store.addItem(200, intPtr(3), true)

	output, err := fx.service.Redeem(context.Background(), user.ID, item.ID)
	require.NoError(t, err)

	qrData, err := json.Marshal(qrcode.VoucherData{
		RequestID:   output.Request.ID.String(),
		VoucherCode: "forged-code",
		Type:        "redemption_voucher",
	})
	require.NoError(t, err)

	_, err = fx.service.VerifyVoucher(context.Background(), string(qrData))
	assert.True(t, errors.Is(err, domainerrors.ErrValidationFailed))
}

func TestRedemptionService_VerifyVoucher_UnreadableData(t *testing.T) {
	fx := createTestRedemptionService(t)

	_, err := fx.service.VerifyVoucher(context.Background(), "not json at all")
	assert.True(t, errors.Is(err, domainerrors.ErrValidationFailed))
}

func TestRedemptionService_ListItems_ActiveOnly(t *testing.T) {
	fx := createTestRedemptionService(t)
	fx.store.addItem(100, nil, true)
	fx.store.addItem(100, nil, false)

	items, err := fx.service.ListItems(context.Background(), true)
	require.NoError(t, err)
	assert.Len(t, items, 1)

	items, err = fx.service.ListItems(context.Background(), false)
	require.NoError(t, err)
	assert.Len(t, items, 2)
}

func TestRedemptionService_CreateItem_Validation(t *testing.T) {
	fx := createTestRedemptionService(t)

	_, err := fx.service.CreateItem(context.Background(), &usecase.CreateRedemptionItemInput{
		Name:       "",
		PointsCost: 100,
	})
	assert.True(t, errors.Is(err, domainerrors.ErrValidationFailed))

	_, err = fx.service.CreateItem(context.Background(), &usecase.CreateRedemptionItemInput{
		Name:       "Free coffee",
		PointsCost: 0,
	})
	assert.True(t, errors.Is(err, domainerrors.ErrValidationFailed))
}

func TestRedemptionService_UpdateItem_NotFound(t *testing.T) {
	fx := createTestRedemptionService(t)

	_, err := fx.service.UpdateItem(context.Background(), uuid.New(), &usecase.UpdateRedemptionItemInput{
		Name:       "Free coffee",
		PointsCost: 100,
	})
	assert.True(t, errors.Is(err, domainerrors.ErrRedemptionItemNotFound))
}
