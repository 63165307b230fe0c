package service

import (
	"context"
	"testing"
	"time"

	"swiftmart-be/internal/dto"
	"swiftmart-be/internal/entity"
	"swiftmart-be/internal/pkg/lock"
	"swiftmart-be/internal/pkg/serverutils"
	"swiftmart-be/internal/repository/memory"
	"swiftmart-be/pkg/paystack"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cancelFixture struct {
	factory  *fakeFactory
	notifier *fakeNotifier
	service  ICancellationService

	buyerId  uuid.UUID
	vendorId uuid.UUID
}

func newCancelFixture(t *testing.T) *cancelFixture {
	t.Helper()

	factory := newFakeFactory()
	notifier := &fakeNotifier{}

	f := &cancelFixture{
		factory:  factory,
		notifier: notifier,
		buyerId:  uuid.New(),
		vendorId: uuid.New(),
	}

	factory.uow.users.users[f.buyerId] = &entity.User{Id: f.buyerId, Email: "buyer@example.com", FullName: "Ada Obi", Role: entity.UserRoleUser}
	factory.uow.users.users[f.vendorId] = &entity.User{Id: f.vendorId, Email: "vendor@example.com", FullName: "Kite Electronics", Role: entity.UserRoleVendor}

	refundService := NewRefundService(
		factory,
		paystack.NewClient("http://gateway.invalid", "sk_test_secret", time.Second),
		lock.NewOrderLock(nil, 30*time.Second),
		memory.NewReceiptCache(time.Minute),
		notifier,
		nil,
		noopLogger{},
	)
	f.service = NewCancellationService(factory, refundService, notifier, nil, noopLogger{})
	return f
}

func (f *cancelFixture) order(status entity.OrderStatus, payment entity.PaymentStatus) *entity.Order {
	order := &entity.Order{
		Id:               uuid.New(),
		UserId:           f.buyerId,
		VendorId:         f.vendorId,
		Total:            100.00,
		Status:           status,
		PaymentStatus:    payment,
		PaymentReference: "PAY-" + uuid.New().String()[:8],
		RefundStatus:     entity.OrderRefundStatusNone,
	}
	f.factory.uow.orders.put(order)
	return order
}

func TestCancelOrder_PaidOrderGetsWalletRefund(t *testing.T) {
	f := newCancelFixture(t)
	order := f.order(entity.OrderStatusConfirmed, entity.PaymentStatusPaid)

	res, err := f.service.CancelOrder(context.Background(), f.buyerId, &dto.CancelOrderRequest{
		OrderId: order.Id,
		Reason:  "ordered by mistake",
	})
	require.NoError(t, err)
	assert.Equal(t, entity.CancelledByCustomer, res.CancelledBy)
	assert.True(t, res.RefundProcessed)
	require.NotNil(t, res.RefundResult)
	assert.Equal(t, "wallet", res.RefundResult.RefundMethod)
	assert.Equal(t, "completed", res.RefundResult.Status)

	stored := f.factory.uow.orders.get(order.Id)
	assert.Equal(t, entity.OrderStatusCancelled, stored.Status)
	assert.Equal(t, "ordered by mistake", stored.CancellationReason)
	require.NotNil(t, stored.CancelledBy)
	assert.Equal(t, f.buyerId, *stored.CancelledBy)

	balance, _ := f.factory.uow.wallets.Balance(context.Background(), f.buyerId)
	assert.Equal(t, 100.00, balance)
}

func TestCancelOrder_UnpaidOrderSkipsRefund(t *testing.T) {
	f := newCancelFixture(t)
	order := f.order(entity.OrderStatusPending, entity.PaymentStatusUnpaid)

	res, err := f.service.CancelOrder(context.Background(), f.buyerId, &dto.CancelOrderRequest{
		OrderId: order.Id,
		Reason:  "no longer needed",
	})
	require.NoError(t, err)
	assert.False(t, res.RefundProcessed)
	assert.Nil(t, res.RefundResult)

	balance, _ := f.factory.uow.wallets.Balance(context.Background(), f.buyerId)
	assert.Equal(t, 0.00, balance)
}

func TestCancelOrder_VendorSide(t *testing.T) {
	f := newCancelFixture(t)
	order := f.order(entity.OrderStatusProcessing, entity.PaymentStatusPaid)

	res, err := f.service.CancelOrder(context.Background(), f.vendorId, &dto.CancelOrderRequest{
		OrderId: order.Id,
		Reason:  "item out of stock",
	})
	require.NoError(t, err)
	assert.Equal(t, entity.CancelledByVendor, res.CancelledBy)

	// The refund still lands in the buyer's wallet.
	balance, _ := f.factory.uow.wallets.Balance(context.Background(), f.buyerId)
	assert.Equal(t, 100.00, balance)

	// The buyer is told which seller cancelled.
	for _, m := range f.notifier.sent() {
		if m.UserId == f.buyerId && m.Type == "order" {
			assert.Contains(t, m.Message, "Kite Electronics")
		}
	}
}

func TestCancelOrder_NotAParty(t *testing.T) {
	f := newCancelFixture(t)
	order := f.order(entity.OrderStatusPending, entity.PaymentStatusUnpaid)

	_, err := f.service.CancelOrder(context.Background(), uuid.New(), &dto.CancelOrderRequest{
		OrderId: order.Id,
		Reason:  "not mine",
	})
	require.Error(t, err)
	assert.Equal(t, 403, serverutils.StatusOf(err))
}

func TestCancelOrder_NotFound(t *testing.T) {
	f := newCancelFixture(t)

	_, err := f.service.CancelOrder(context.Background(), f.buyerId, &dto.CancelOrderRequest{
		OrderId: uuid.New(),
		Reason:  "whatever",
	})
	require.Error(t, err)
	assert.Equal(t, 404, serverutils.StatusOf(err))
}

func TestCancelOrder_StatusPolicy(t *testing.T) {
	tests := []struct {
		name     string
		status   entity.OrderStatus
		wantCode int
		wantMsg  string
	}{
		{name: "pending is cancellable", status: entity.OrderStatusPending, wantCode: 0},
		{name: "confirmed is cancellable", status: entity.OrderStatusConfirmed, wantCode: 0},
		{name: "processing is cancellable", status: entity.OrderStatusProcessing, wantCode: 0},
		{name: "delivered points at returns", status: entity.OrderStatusDelivered, wantCode: 400, wantMsg: "returns process"},
		{name: "cancelled is terminal", status: entity.OrderStatusCancelled, wantCode: 400},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newCancelFixture(t)
			order := f.order(tt.status, entity.PaymentStatusUnpaid)

			_, err := f.service.CancelOrder(context.Background(), f.buyerId, &dto.CancelOrderRequest{
				OrderId: order.Id,
				Reason:  "test",
			})
			if tt.wantCode == 0 {
				require.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Equal(t, tt.wantCode, serverutils.StatusOf(err))
				if tt.wantMsg != "" {
					assert.Contains(t, err.Error(), tt.wantMsg)
				}
			}
		})
	}
}

func TestCancelOrder_RefundFailureDoesNotUndoCancel(t *testing.T) {
	f := newCancelFixture(t)
	f.factory.uow.wallets.failCredit = true
	order := f.order(entity.OrderStatusConfirmed, entity.PaymentStatusPaid)

	res, err := f.service.CancelOrder(context.Background(), f.buyerId, &dto.CancelOrderRequest{
		OrderId: order.Id,
		Reason:  "defective product",
	})
	require.NoError(t, err)
	assert.False(t, res.RefundProcessed)
	assert.NotEmpty(t, res.RefundError)

	// Cancellation sticks even though the refund channel was down.
	stored := f.factory.uow.orders.get(order.Id)
	assert.Equal(t, entity.OrderStatusCancelled, stored.Status)
	assert.Equal(t, entity.OrderRefundStatusFailed, stored.RefundStatus)
}

func TestCancelOrder_NotifiesBothParties(t *testing.T) {
	f := newCancelFixture(t)
	order := f.order(entity.OrderStatusPending, entity.PaymentStatusUnpaid)

	_, err := f.service.CancelOrder(context.Background(), f.buyerId, &dto.CancelOrderRequest{
		OrderId: order.Id,
		Reason:  "changed plans",
	})
	require.NoError(t, err)

	msgs := f.notifier.sent()
	require.Len(t, msgs, 2)

	recipients := map[uuid.UUID]bool{}
	for _, m := range msgs {
		recipients[m.UserId] = true
		// The seller's copy names the customer who cancelled.
		if m.UserId == f.vendorId {
			assert.Contains(t, m.Message, "Ada Obi")
		}
	}
	assert.True(t, recipients[f.buyerId])
	assert.True(t, recipients[f.vendorId])
}

func TestCancelOrder_ZeroCaptureSkipsRefund(t *testing.T) {
	f := newCancelFixture(t)
	order := f.order(entity.OrderStatusConfirmed, entity.PaymentStatusPaid)
	zero := 0.0
	order.PaymentAmount = &zero
	f.factory.uow.orders.put(order)

	res, err := f.service.CancelOrder(context.Background(), f.buyerId, &dto.CancelOrderRequest{
		OrderId: order.Id,
		Reason:  "nothing was charged yet",
	})
	require.NoError(t, err)
	assert.False(t, res.RefundProcessed)
	assert.Empty(t, res.RefundError)

	// Marked paid but nothing captured: the full total must not move.
	balance, _ := f.factory.uow.wallets.Balance(context.Background(), f.buyerId)
	assert.Equal(t, 0.00, balance)

	stored := f.factory.uow.orders.get(order.Id)
	assert.Equal(t, entity.OrderStatusCancelled, stored.Status)
}

func TestCancelOrder_ExplicitGatewayRefundMethod(t *testing.T) {
	f := newCancelFixture(t)
	order := f.order(entity.OrderStatusConfirmed, entity.PaymentStatusPaid)

	// Unreachable gateway falls back to the wallet channel.
	res, err := f.service.CancelOrder(context.Background(), f.buyerId, &dto.CancelOrderRequest{
		OrderId:      order.Id,
		Reason:       "want money back on card",
		RefundMethod: "paystack",
	})
	require.NoError(t, err)
	assert.True(t, res.RefundProcessed)
	require.NotNil(t, res.RefundResult)
	assert.Equal(t, "wallet", res.RefundResult.RefundMethod)

	balance, _ := f.factory.uow.wallets.Balance(context.Background(), f.buyerId)
	assert.Equal(t, 100.00, balance)
}
