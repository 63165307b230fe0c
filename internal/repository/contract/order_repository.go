package contract

import (
	"context"

	"swiftmart-be/internal/entity"
	"swiftmart-be/internal/repository/specification"
)

type OrderRepository interface {
	Create(ctx context.Context, order *entity.Order) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Order, error)
	// FindOneWithParties preloads the buyer and vendor profile summaries.
	FindOneWithParties(ctx context.Context, specs ...specification.Specification) (*entity.Order, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Order, error)

	// MarkCancelled sets status=cancelled plus the cancellation fields,
	// guarded by the current status so the transition is applied at most
	// once. Returns false when the guard did not match (already
	// cancelled, or raced by a concurrent cancel).
	MarkCancelled(ctx context.Context, order *entity.Order) (bool, error)

	// ClaimRefundProcessing flips refund_status to processing only when
	// it is currently none or failed, returning whether this caller won
	// the claim. This is the compare-and-swap closing the double-submit
	// window on concurrent refund requests.
	ClaimRefundProcessing(ctx context.Context, order *entity.Order) (bool, error)

	// UpdateRefundFields persists the refund column set
	// (refund_status/amount/method/reference/refunded_at/payment_status).
	UpdateRefundFields(ctx context.Context, order *entity.Order) error
}
