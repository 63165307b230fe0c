package entity

import (
	"time"

	"github.com/google/uuid"
)

// OrderStatus is the buyer/seller-visible fulfillment stage.
type OrderStatus string

// PaymentStatus tracks capture/reversal of money independent of fulfillment.
type PaymentStatus string

// OrderRefundStatus tracks refund progress on the order row.
type OrderRefundStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusConfirmed  OrderStatus = "confirmed"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"

	PaymentStatusUnpaid            PaymentStatus = "unpaid"
	PaymentStatusPaid              PaymentStatus = "paid"
	PaymentStatusPartiallyRefunded PaymentStatus = "partially_refunded"
	PaymentStatusRefunded          PaymentStatus = "refunded"

	OrderRefundStatusNone       OrderRefundStatus = "none"
	OrderRefundStatusPending    OrderRefundStatus = "pending"
	OrderRefundStatusProcessing OrderRefundStatus = "processing"
	OrderRefundStatusCompleted  OrderRefundStatus = "completed"
	OrderRefundStatusFailed     OrderRefundStatus = "failed"
)

// CancelledBy values returned to clients.
const (
	CancelledByCustomer = "customer"
	CancelledByVendor   = "vendor"
)

type Order struct {
	Id       uuid.UUID
	UserId   uuid.UUID // buyer
	VendorId uuid.UUID // seller

	Total           float64
	DeliveryAddress string
	DeliveryNotes   string

	Status OrderStatus

	PaymentStatus    PaymentStatus
	PaymentReference string
	PaymentAmount    *float64 // captured amount, may differ from Total

	RefundStatus    OrderRefundStatus
	RefundAmount    *float64
	RefundMethod    string
	RefundReference string
	RefundedAt      *time.Time

	CancelledBy        *uuid.UUID
	CancelledAt        *time.Time
	CancellationReason string

	CreatedAt time.Time
	UpdatedAt time.Time

	Buyer  User
	Vendor User
}

// CapturedAmount is the amount actually captured for the order,
// falling back to the order total when PaymentAmount was never
// recorded. An explicit zero means nothing was captured and is
// returned as-is.
func (o *Order) CapturedAmount() float64 {
	if o.PaymentAmount != nil {
		return *o.PaymentAmount
	}
	return o.Total
}

// IsParty reports whether the given user is the order's buyer or seller.
func (o *Order) IsParty(userId uuid.UUID) bool {
	return o.UserId == userId || o.VendorId == userId
}

// Cancellable reports whether the order's current status permits
// cancellation, independent of who is asking. Both buyer and seller may
// cancel pending/confirmed/processing orders; delivered and cancelled
// are terminal.
func (s OrderStatus) Cancellable() bool {
	switch s {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusProcessing:
		return true
	default:
		return false
	}
}
