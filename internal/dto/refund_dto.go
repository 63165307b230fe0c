package dto

import (
	"time"

	"github.com/google/uuid"
)

// --- Refund Processing ---

// ProcessRefundRequest is the body of POST /api/orders/refund.
// PartialAmount, when set, must not exceed the captured amount.
type ProcessRefundRequest struct {
	OrderId       uuid.UUID `json:"order_id" validate:"required"`
	RefundMethod  string    `json:"refund_method" validate:"required,oneof=wallet paystack manual"`
	Reason        string    `json:"reason,omitempty"`
	PartialAmount *float64  `json:"partial_amount,omitempty" validate:"omitempty,gt=0"`
}

type ProcessRefundResponse struct {
	RefundId     uuid.UUID `json:"refund_id"`
	RefundAmount float64   `json:"refund_amount"`
	RefundMethod string    `json:"refund_method"`
	Status       string    `json:"status"`
	Result       string    `json:"result"`
}

// --- Refund Audit List ---

type RefundListItemResponse struct {
	Id            uuid.UUID  `json:"id"`
	OrderId       uuid.UUID  `json:"order_id"`
	Amount        float64    `json:"amount"`
	Status        string     `json:"status"`
	RefundMethod  string     `json:"refund_method"`
	Reason        string     `json:"reason,omitempty"`
	Notes         string     `json:"notes,omitempty"`
	FailureReason string     `json:"failure_reason,omitempty"`
	CompletedAt   *time.Time `json:"completed_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

// --- Admin Manual Settlement ---

type AdminSettleRefundRequest struct {
	Notes string `json:"notes,omitempty"`
}

type AdminSettleRefundResponse struct {
	RefundId    uuid.UUID `json:"refund_id"`
	Status      string    `json:"status"`
	Amount      float64   `json:"amount"`
	ProcessedAt time.Time `json:"processed_at"`
}
