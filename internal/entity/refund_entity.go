package entity

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// RefundStatus represents the state of one refund attempt.
type RefundStatus string

// RefundMethod is the channel used to return money to the buyer.
type RefundMethod string

const (
	RefundStatusPending    RefundStatus = "pending"
	RefundStatusProcessing RefundStatus = "processing"
	RefundStatusCompleted  RefundStatus = "completed"
	RefundStatusFailed     RefundStatus = "failed"

	RefundMethodWallet   RefundMethod = "wallet"
	RefundMethodPaystack RefundMethod = "paystack"
	RefundMethodManual   RefundMethod = "manual"
)

// Refund is one attempt to return money to a buyer for one order.
// A gateway failure that falls back to a wallet credit reuses the same
// row (method rewritten to wallet, status resurrected to completed) so
// each cancellation event keeps a 1:1 audit trail.
type Refund struct {
	Id               uuid.UUID
	OrderId          uuid.UUID
	PaymentReference string
	Amount           float64
	Status           RefundStatus
	RefundMethod     RefundMethod
	InitiatedBy      uuid.UUID
	Reason           string
	Notes            string
	FailureReason    string

	PaystackRefundId string
	GatewayResponse  []byte // raw gateway body, persisted for audit

	CompletedAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// CanTransitionTo enforces the refund state machine:
// pending -> processing -> {completed|failed}, pending -> {completed|failed},
// and the single resurrection path failed -> completed used when a gateway
// failure is recovered by a wallet credit. Completed rows are immutable.
func (r *Refund) CanTransitionTo(next RefundStatus) bool {
	switch r.Status {
	case RefundStatusPending:
		return next == RefundStatusProcessing || next == RefundStatusCompleted || next == RefundStatusFailed
	case RefundStatusProcessing:
		return next == RefundStatusCompleted || next == RefundStatusFailed
	case RefundStatusFailed:
		return next == RefundStatusCompleted
	default:
		return false
	}
}

// TransitionTo applies the status change after validating it against
// the state machine. The status is left untouched on a rejected
// transition.
func (r *Refund) TransitionTo(next RefundStatus) error {
	if !r.CanTransitionTo(next) {
		return fmt.Errorf("refund %s: illegal status transition %s -> %s", r.Id, r.Status, next)
	}
	r.Status = next
	return nil
}
