package refund

import (
	"context"
	"fmt"
	"time"

	"swiftmart-be/internal/dto"
	"swiftmart-be/internal/entity"
	"swiftmart-be/internal/pkg/logger"
	"swiftmart-be/internal/pkg/serverutils"
	"swiftmart-be/internal/repository/specification"
	"swiftmart-be/internal/repository/unitofwork"
	"swiftmart-be/pkg/events"
	pktNats "swiftmart-be/pkg/nats"

	"github.com/google/uuid"
)

// Notifier queues an inbox/email notification. Satisfied by the
// notification publisher in the service layer.
type Notifier interface {
	Notify(ctx context.Context, msg *dto.NotificationMessage) error
}

// SettleResult contains settlement operation results
type SettleResult struct {
	RefundId    uuid.UUID
	Amount      float64
	Status      entity.RefundStatus
	ProcessedAt time.Time
}

// Processor handles the operator side of manual refunds: completing a
// settlement done out-of-band (bank transfer) or rejecting the request.
type Processor struct {
	logger         logger.ILogger
	notifier       Notifier
	eventPublisher *pktNats.Publisher
}

// NewProcessor creates a new refund processor
func NewProcessor(logger logger.ILogger, notifier Notifier, eventPublisher *pktNats.Publisher) *Processor {
	return &Processor{
		logger:         logger,
		notifier:       notifier,
		eventPublisher: eventPublisher,
	}
}

// GetAll retrieves paginated refund requests with optional status filter
func (p *Processor) GetAll(ctx context.Context, uow unitofwork.UnitOfWork, page, limit int, status string) ([]*entity.Refund, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	offset := (page - 1) * limit

	var specs []specification.Specification
	if status != "" {
		specs = append(specs, specification.Filter("status", status))
	}
	specs = append(specs, specification.Pagination{Limit: limit, Offset: offset})
	specs = append(specs, specification.OrderBy{Field: "created_at", Desc: true})

	return uow.RefundRepository().FindAll(ctx, specs...)
}

// Complete marks a pending manual refund as settled. The money moved
// outside the system; this records the outcome on the refund row and
// the order's refund columns.
func (p *Processor) Complete(ctx context.Context, uow unitofwork.UnitOfWork, refundId uuid.UUID, req dto.AdminSettleRefundRequest) (*SettleResult, error) {
	refund, order, err := p.loadPending(ctx, uow, refundId)
	if err != nil {
		return nil, err
	}

	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	now := time.Now()
	if err := refund.TransitionTo(entity.RefundStatusCompleted); err != nil {
		return nil, serverutils.NewInternal("refund state error", err)
	}
	refund.Notes = req.Notes
	refund.CompletedAt = &now

	if err := uow.RefundRepository().Update(ctx, refund); err != nil {
		return nil, err
	}

	order.RefundStatus = entity.OrderRefundStatusCompleted
	order.RefundAmount = &refund.Amount
	order.RefundMethod = string(entity.RefundMethodManual)
	order.RefundedAt = &now
	if refund.Amount < order.CapturedAmount() {
		order.PaymentStatus = entity.PaymentStatusPartiallyRefunded
	} else {
		order.PaymentStatus = entity.PaymentStatusRefunded
	}

	if err := uow.OrderRepository().UpdateRefundFields(ctx, order); err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}

	p.logger.Info("ADMIN", "Completed Manual Refund", map[string]interface{}{
		"refundId": refundId.String(),
		"orderId":  order.Id.String(),
		"amount":   refund.Amount,
		"notes":    req.Notes,
	})

	p.publish(ctx, events.TypeRefundCompleted, order, refund)
	p.notifyBuyer(ctx, order, refund, "Refund processed",
		fmt.Sprintf("Your refund of %.2f for order %s has been settled.", refund.Amount, order.Id), true)

	return &SettleResult{
		RefundId:    refundId,
		Amount:      refund.Amount,
		Status:      entity.RefundStatusCompleted,
		ProcessedAt: now,
	}, nil
}

// Reject declines a pending manual refund. The order's refund status
// drops back to failed so the buyer can retry through another channel.
func (p *Processor) Reject(ctx context.Context, uow unitofwork.UnitOfWork, refundId uuid.UUID, req dto.AdminSettleRefundRequest) (*SettleResult, error) {
	refund, order, err := p.loadPending(ctx, uow, refundId)
	if err != nil {
		return nil, err
	}

	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	now := time.Now()
	if err := refund.TransitionTo(entity.RefundStatusFailed); err != nil {
		return nil, serverutils.NewInternal("refund state error", err)
	}
	refund.Notes = req.Notes
	refund.FailureReason = "rejected by operator"

	if err := uow.RefundRepository().Update(ctx, refund); err != nil {
		return nil, err
	}

	order.RefundStatus = entity.OrderRefundStatusFailed
	if err := uow.OrderRepository().UpdateRefundFields(ctx, order); err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}

	p.logger.Info("ADMIN", "Rejected Manual Refund", map[string]interface{}{
		"refundId": refundId.String(),
		"orderId":  order.Id.String(),
		"notes":    req.Notes,
	})

	p.publish(ctx, events.TypeRefundFailed, order, refund)
	p.notifyBuyer(ctx, order, refund, "Refund declined",
		fmt.Sprintf("Your refund request for order %s was declined.", order.Id), true)

	return &SettleResult{
		RefundId:    refundId,
		Amount:      refund.Amount,
		Status:      entity.RefundStatusFailed,
		ProcessedAt: now,
	}, nil
}

func (p *Processor) loadPending(ctx context.Context, uow unitofwork.UnitOfWork, refundId uuid.UUID) (*entity.Refund, *entity.Order, error) {
	refund, err := uow.RefundRepository().FindOne(ctx, specification.ByID{ID: refundId})
	if err != nil {
		return nil, nil, err
	}
	if refund == nil {
		return nil, nil, serverutils.NewNotFound("refund request not found")
	}

	if refund.Status != entity.RefundStatusPending {
		return nil, nil, serverutils.NewBadRequest("refund already processed")
	}
	if refund.RefundMethod != entity.RefundMethodManual {
		return nil, nil, serverutils.NewBadRequest("only manual refunds are settled here")
	}

	order, err := uow.OrderRepository().FindOne(ctx, specification.ByID{ID: refund.OrderId})
	if err != nil {
		return nil, nil, err
	}
	if order == nil {
		return nil, nil, serverutils.NewNotFound("order not found for refund")
	}

	return refund, order, nil
}

func (p *Processor) publish(ctx context.Context, eventType string, order *entity.Order, refund *entity.Refund) {
	if p.eventPublisher == nil {
		return
	}
	err := p.eventPublisher.Publish(ctx, events.BaseEvent{
		Type: eventType,
		Data: map[string]interface{}{
			"order_id":      order.Id.String(),
			"refund_id":     refund.Id.String(),
			"user_id":       order.UserId.String(),
			"amount":        refund.Amount,
			"refund_method": string(entity.RefundMethodManual),
		},
		OccurredAt: time.Now(),
	})
	if err != nil {
		p.logger.Warn("ADMIN", "Failed to publish refund event", map[string]interface{}{
			"event": eventType,
			"error": err.Error(),
		})
	}
}

func (p *Processor) notifyBuyer(ctx context.Context, order *entity.Order, refund *entity.Refund, title, body string, email bool) {
	if p.notifier == nil {
		return
	}
	err := p.notifier.Notify(ctx, &dto.NotificationMessage{
		UserId:  order.UserId,
		Type:    "refund",
		Title:   title,
		Message: body,
		Metadata: map[string]interface{}{
			"order_id":      order.Id.String(),
			"refund_id":     refund.Id.String(),
			"amount":        refund.Amount,
			"refund_method": string(entity.RefundMethodManual),
		},
		Email: email,
	})
	if err != nil {
		p.logger.Warn("ADMIN", "Failed to queue notification", map[string]interface{}{
			"refund_id": refund.Id.String(),
			"error":     err.Error(),
		})
	}
}
