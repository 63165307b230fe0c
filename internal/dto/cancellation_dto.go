package dto

import "github.com/google/uuid"

// --- Order Cancellation ---

// CancelOrderRequest is the body of POST /api/orders/cancel.
// RefundMethod is optional; when the order was paid and no method is
// given the refund defaults to the wallet channel for speed.
type CancelOrderRequest struct {
	OrderId      uuid.UUID `json:"order_id" validate:"required"`
	Reason       string    `json:"reason" validate:"required,min=3"`
	RefundMethod string    `json:"refund_method,omitempty" validate:"omitempty,oneof=wallet paystack"`
}

type CancelOrderResponse struct {
	OrderId         uuid.UUID              `json:"order_id"`
	CancelledBy     string                 `json:"cancelled_by"` // customer | vendor
	RefundProcessed bool                   `json:"refund_processed"`
	RefundResult    *ProcessRefundResponse `json:"refund_result"`
	RefundError     string                 `json:"refund_error,omitempty"`
}
