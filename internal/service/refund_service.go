package service

import (
	"context"
	"fmt"
	"time"

	"swiftmart-be/internal/dto"
	"swiftmart-be/internal/entity"
	"swiftmart-be/internal/pkg/lock"
	"swiftmart-be/internal/pkg/logger"
	"swiftmart-be/internal/pkg/serverutils"
	"swiftmart-be/internal/repository/memory"
	"swiftmart-be/internal/repository/specification"
	"swiftmart-be/internal/repository/unitofwork"
	"swiftmart-be/pkg/events"
	pktNats "swiftmart-be/pkg/nats"
	"swiftmart-be/pkg/paystack"

	"github.com/google/uuid"
)

type IRefundService interface {
	ProcessRefund(ctx context.Context, userId uuid.UUID, req *dto.ProcessRefundRequest) (*dto.ProcessRefundResponse, error)
	ListRefunds(ctx context.Context, userId, orderId uuid.UUID) ([]*dto.RefundListItemResponse, error)
}

type refundService struct {
	uowFactory     unitofwork.RepositoryFactory
	gateway        *paystack.Client
	orderLock      *lock.OrderLock
	receipts       *memory.ReceiptCache
	notifier       INotifierService
	eventPublisher *pktNats.Publisher
	log            logger.ILogger
}

func NewRefundService(
	uowFactory unitofwork.RepositoryFactory,
	gateway *paystack.Client,
	orderLock *lock.OrderLock,
	receipts *memory.ReceiptCache,
	notifier INotifierService,
	eventPublisher *pktNats.Publisher,
	log logger.ILogger,
) IRefundService {
	return &refundService{
		uowFactory:     uowFactory,
		gateway:        gateway,
		orderLock:      orderLock,
		receipts:       receipts,
		notifier:       notifier,
		eventPublisher: eventPublisher,
		log:            log,
	}
}

func (s *refundService) ProcessRefund(ctx context.Context, userId uuid.UUID, req *dto.ProcessRefundRequest) (*dto.ProcessRefundResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	order, err := uow.OrderRepository().FindOne(ctx, specification.ByID{ID: req.OrderId})
	if err != nil {
		return nil, serverutils.NewInternal("failed to load order", err)
	}
	if order == nil {
		return nil, serverutils.NewNotFound("order not found")
	}

	if err := s.authorizeRefund(ctx, uow, order, userId); err != nil {
		return nil, err
	}

	// Rapid duplicate on this instance: answer with the receipt of the
	// already-completed refund instead of a rejection.
	if cached, ok := s.receipts.Get(order.Id); ok {
		return cached, nil
	}

	if order.Status == entity.OrderStatusDelivered {
		return nil, serverutils.NewBadRequest("delivered orders cannot be refunded; use the returns process instead")
	}
	if order.PaymentStatus != entity.PaymentStatusPaid {
		return nil, serverutils.NewBadRequest("order has no captured payment to refund")
	}
	if order.RefundStatus == entity.OrderRefundStatusCompleted {
		return nil, serverutils.NewBadRequest("order has already been refunded")
	}

	refundAmount := order.CapturedAmount()
	if refundAmount <= 0 {
		return nil, serverutils.NewBadRequest("order has no captured payment to refund")
	}
	partial := req.PartialAmount != nil
	if partial {
		if *req.PartialAmount > refundAmount {
			return nil, serverutils.NewBadRequest("partial amount exceeds the captured payment")
		}
		refundAmount = *req.PartialAmount
	}

	if !s.orderLock.Acquire(ctx, order.Id.String()) {
		return nil, serverutils.NewBadRequest("a refund for this order is already in progress")
	}
	defer s.orderLock.Release(ctx, order.Id.String())

	// The authoritative duplicate guard: only one caller wins the flip
	// of refund_status to processing.
	claimed, err := uow.OrderRepository().ClaimRefundProcessing(ctx, order)
	if err != nil {
		return nil, serverutils.NewInternal("failed to claim refund", err)
	}
	if !claimed {
		// Lost the race: report the winner's outcome.
		current, ferr := uow.OrderRepository().FindOne(ctx, specification.ByID{ID: order.Id})
		if ferr == nil && current != nil && current.RefundStatus == entity.OrderRefundStatusCompleted {
			return nil, serverutils.NewBadRequest("order has already been refunded")
		}
		return nil, serverutils.NewBadRequest("a refund for this order is already in progress")
	}

	refund := &entity.Refund{
		Id:               uuid.New(),
		OrderId:          order.Id,
		PaymentReference: order.PaymentReference,
		Amount:           refundAmount,
		Status:           entity.RefundStatusPending,
		RefundMethod:     entity.RefundMethod(req.RefundMethod),
		InitiatedBy:      userId,
		Reason:           req.Reason,
	}
	if err := uow.RefundRepository().Create(ctx, refund); err != nil {
		return nil, serverutils.NewInternal("failed to record refund", err)
	}

	switch refund.RefundMethod {
	case entity.RefundMethodWallet:
		return s.refundToWallet(ctx, uow, order, refund, partial)
	case entity.RefundMethodPaystack:
		return s.refundViaGateway(ctx, uow, order, refund, partial)
	case entity.RefundMethodManual:
		return s.queueManualRefund(ctx, uow, order, refund)
	default:
		return nil, serverutils.NewBadRequest("unsupported refund method")
	}
}

// authorizeRefund permits the order's buyer, its vendor, and admins.
func (s *refundService) authorizeRefund(ctx context.Context, uow unitofwork.UnitOfWork, order *entity.Order, userId uuid.UUID) error {
	if order.IsParty(userId) {
		return nil
	}
	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: userId})
	if err != nil {
		return serverutils.NewInternal("failed to load user", err)
	}
	if user == nil || !user.IsAdmin() {
		return serverutils.NewForbidden("you are not a party to this order")
	}
	return nil
}

func (s *refundService) refundToWallet(ctx context.Context, uow unitofwork.UnitOfWork, order *entity.Order, refund *entity.Refund, partial bool) (*dto.ProcessRefundResponse, error) {
	reference := walletReference(refund.Id)
	description := fmt.Sprintf("Refund for order %s", order.Id)

	_, err := uow.WalletRepository().Credit(ctx, order.UserId, refund.Amount, description, reference)
	if err != nil {
		s.log.Error("refund", "wallet credit failed", map[string]interface{}{
			"order_id":  order.Id.String(),
			"refund_id": refund.Id.String(),
			"error":     err.Error(),
		})
		if failErr := s.markFailed(ctx, uow, order, refund, entity.OrderRefundStatusFailed, "wallet credit failed: "+err.Error()); failErr != nil {
			return nil, failErr
		}
		return nil, serverutils.NewInternal("wallet credit failed", err)
	}

	res, err := s.complete(ctx, uow, order, refund, entity.RefundMethodWallet, reference, partial, "Refund credited to wallet")
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (s *refundService) refundViaGateway(ctx context.Context, uow unitofwork.UnitOfWork, order *entity.Order, refund *entity.Refund, partial bool) (*dto.ProcessRefundResponse, error) {
	// The row is marked processing before the gateway call so a crash
	// mid-call leaves a traceable state instead of a stale pending row.
	if err := refund.TransitionTo(entity.RefundStatusProcessing); err != nil {
		return nil, serverutils.NewInternal("refund state error", err)
	}
	if err := uow.RefundRepository().Update(ctx, refund); err != nil {
		return nil, serverutils.NewInternal("failed to update refund", err)
	}

	gwRes, gwErr := s.gateway.Refund(ctx, order.PaymentReference, paystack.ToMinorUnits(refund.Amount))
	if gwErr == nil {
		refund.PaystackRefundId = fmt.Sprintf("%d", gwRes.Data.Id)
		refund.GatewayResponse = gwRes.Raw
		res, err := s.complete(ctx, uow, order, refund, entity.RefundMethodPaystack, order.PaymentReference, partial, "Refund sent to original payment method")
		if err != nil {
			return nil, err
		}
		return res, nil
	}

	s.log.Warn("refund", "gateway refund failed, falling back to wallet", map[string]interface{}{
		"order_id":  order.Id.String(),
		"refund_id": refund.Id.String(),
		"error":     gwErr.Error(),
	})
	if gatewayErr, ok := gwErr.(*paystack.GatewayError); ok {
		refund.GatewayResponse = gatewayErr.Raw
	}
	refund.FailureReason = "gateway: " + gwErr.Error()

	// Record the failed gateway attempt before touching the wallet, so
	// the audit survives even if the fallback never runs.
	if err := refund.TransitionTo(entity.RefundStatusFailed); err != nil {
		return nil, serverutils.NewInternal("refund state error", err)
	}
	if err := uow.RefundRepository().Update(ctx, refund); err != nil {
		return nil, serverutils.NewInternal("failed to update refund", err)
	}

	// Fallback: credit the buyer's wallet on the same refund row so the
	// audit trail stays 1:1 with the cancellation event.
	reference := walletReference(refund.Id)
	description := fmt.Sprintf("Refund for order %s (gateway fallback)", order.Id)

	_, err := uow.WalletRepository().Credit(ctx, order.UserId, refund.Amount, description, reference)
	if err != nil {
		s.log.Error("refund", "wallet fallback failed after gateway failure", map[string]interface{}{
			"order_id":  order.Id.String(),
			"refund_id": refund.Id.String(),
			"error":     err.Error(),
		})
		refund.FailureReason = refund.FailureReason + "; wallet fallback: " + err.Error()
		// Both channels down: leave the order pending manual intervention.
		if failErr := s.markFailed(ctx, uow, order, refund, entity.OrderRefundStatusPending, refund.FailureReason); failErr != nil {
			return nil, failErr
		}
		return nil, serverutils.NewInternal("refund failed on both gateway and wallet", err)
	}

	refund.Notes = "gateway refund failed, completed via wallet fallback"
	res, err := s.complete(ctx, uow, order, refund, entity.RefundMethodWallet, reference, partial, "Gateway refund failed; amount credited to wallet instead")
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (s *refundService) queueManualRefund(ctx context.Context, uow unitofwork.UnitOfWork, order *entity.Order, refund *entity.Refund) (*dto.ProcessRefundResponse, error) {
	order.RefundStatus = entity.OrderRefundStatusPending
	order.RefundAmount = &refund.Amount
	order.RefundMethod = string(entity.RefundMethodManual)
	if err := uow.OrderRepository().UpdateRefundFields(ctx, order); err != nil {
		return nil, serverutils.NewInternal("failed to queue manual refund", err)
	}

	s.publishEvent(ctx, events.TypeRefundPending, order, refund)
	s.notifyBuyer(ctx, order, refund, "Refund requested",
		fmt.Sprintf("Your refund of %.2f for order %s is queued for manual processing.", refund.Amount, order.Id), false)

	return &dto.ProcessRefundResponse{
		RefundId:     refund.Id,
		RefundAmount: refund.Amount,
		RefundMethod: string(entity.RefundMethodManual),
		Status:       string(entity.RefundStatusPending),
		Result:       "Refund queued for manual settlement",
	}, nil
}

// complete finalizes the refund row and the order's refund columns in
// one transaction, then fires the notification and the domain event.
func (s *refundService) complete(ctx context.Context, uow unitofwork.UnitOfWork, order *entity.Order, refund *entity.Refund, method entity.RefundMethod, reference string, partial bool, result string) (*dto.ProcessRefundResponse, error) {
	now := time.Now()

	refund.RefundMethod = method
	if err := refund.TransitionTo(entity.RefundStatusCompleted); err != nil {
		return nil, serverutils.NewInternal("refund state error", err)
	}
	refund.CompletedAt = &now

	order.RefundStatus = entity.OrderRefundStatusCompleted
	order.RefundAmount = &refund.Amount
	order.RefundMethod = string(method)
	order.RefundReference = reference
	order.RefundedAt = &now
	if partial {
		order.PaymentStatus = entity.PaymentStatusPartiallyRefunded
	} else {
		order.PaymentStatus = entity.PaymentStatusRefunded
	}

	if err := uow.Begin(ctx); err != nil {
		return nil, serverutils.NewInternal("failed to finalize refund", err)
	}
	defer uow.Rollback()

	if err := uow.RefundRepository().Update(ctx, refund); err != nil {
		return nil, serverutils.NewInternal("failed to finalize refund", err)
	}
	if err := uow.OrderRepository().UpdateRefundFields(ctx, order); err != nil {
		return nil, serverutils.NewInternal("failed to finalize refund", err)
	}
	if err := uow.Commit(); err != nil {
		return nil, serverutils.NewInternal("failed to finalize refund", err)
	}

	res := &dto.ProcessRefundResponse{
		RefundId:     refund.Id,
		RefundAmount: refund.Amount,
		RefundMethod: string(method),
		Status:       string(entity.RefundStatusCompleted),
		Result:       result,
	}
	s.receipts.Put(order.Id, res)

	s.publishEvent(ctx, events.TypeRefundCompleted, order, refund)
	s.notifyBuyer(ctx, order, refund, "Refund processed",
		fmt.Sprintf("Your refund of %.2f for order %s has been processed.", refund.Amount, order.Id), true)

	s.log.Info("refund", "refund completed", map[string]interface{}{
		"order_id":  order.Id.String(),
		"refund_id": refund.Id.String(),
		"method":    string(method),
		"amount":    refund.Amount,
	})
	return res, nil
}

// markFailed records the failed attempt. orderStatus decides whether
// the order stays retryable (failed) or waits for an operator (pending).
func (s *refundService) markFailed(ctx context.Context, uow unitofwork.UnitOfWork, order *entity.Order, refund *entity.Refund, orderStatus entity.OrderRefundStatus, reason string) error {
	// The gateway path arrives here already failed; the transition only
	// applies on the direct wallet path.
	if refund.Status != entity.RefundStatusFailed {
		if err := refund.TransitionTo(entity.RefundStatusFailed); err != nil {
			return serverutils.NewInternal("refund state error", err)
		}
	}
	refund.FailureReason = reason

	order.RefundStatus = orderStatus

	if err := uow.Begin(ctx); err != nil {
		return serverutils.NewInternal("failed to record refund failure", err)
	}
	defer uow.Rollback()

	if err := uow.RefundRepository().Update(ctx, refund); err != nil {
		return serverutils.NewInternal("failed to record refund failure", err)
	}
	if err := uow.OrderRepository().UpdateRefundFields(ctx, order); err != nil {
		return serverutils.NewInternal("failed to record refund failure", err)
	}
	if err := uow.Commit(); err != nil {
		return serverutils.NewInternal("failed to record refund failure", err)
	}

	s.publishEvent(ctx, events.TypeRefundFailed, order, refund)
	return nil
}

func (s *refundService) publishEvent(ctx context.Context, eventType string, order *entity.Order, refund *entity.Refund) {
	if s.eventPublisher == nil {
		return
	}
	err := s.eventPublisher.Publish(ctx, events.BaseEvent{
		Type: eventType,
		Data: map[string]interface{}{
			"order_id":      order.Id.String(),
			"refund_id":     refund.Id.String(),
			"user_id":       order.UserId.String(),
			"amount":        refund.Amount,
			"refund_method": string(refund.RefundMethod),
			"occurred_at":   notificationTimestamp(time.Now()),
		},
		OccurredAt: time.Now(),
	})
	if err != nil {
		s.log.Warn("refund", "failed to publish event", map[string]interface{}{
			"event": eventType,
			"error": err.Error(),
		})
	}
}

func (s *refundService) notifyBuyer(ctx context.Context, order *entity.Order, refund *entity.Refund, title, body string, email bool) {
	err := s.notifier.Notify(ctx, &dto.NotificationMessage{
		UserId:  order.UserId,
		Type:    "refund",
		Title:   title,
		Message: body,
		Metadata: map[string]interface{}{
			"order_id":      order.Id.String(),
			"refund_id":     refund.Id.String(),
			"amount":        refund.Amount,
			"refund_method": string(refund.RefundMethod),
		},
		Email: email,
	})
	if err != nil {
		s.log.Warn("refund", "failed to queue notification", map[string]interface{}{
			"order_id": order.Id.String(),
			"error":    err.Error(),
		})
	}
}

func (s *refundService) ListRefunds(ctx context.Context, userId, orderId uuid.UUID) ([]*dto.RefundListItemResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	order, err := uow.OrderRepository().FindOne(ctx, specification.ByID{ID: orderId})
	if err != nil {
		return nil, serverutils.NewInternal("failed to load order", err)
	}
	if order == nil {
		return nil, serverutils.NewNotFound("order not found")
	}
	if err := s.authorizeRefund(ctx, uow, order, userId); err != nil {
		return nil, err
	}

	refunds, err := uow.RefundRepository().FindAll(ctx,
		specification.ByOrder{OrderID: orderId},
		specification.OrderBy{Field: "created_at", Desc: true},
	)
	if err != nil {
		return nil, serverutils.NewInternal("failed to load refunds", err)
	}

	res := make([]*dto.RefundListItemResponse, 0, len(refunds))
	for _, r := range refunds {
		res = append(res, &dto.RefundListItemResponse{
			Id:            r.Id,
			OrderId:       r.OrderId,
			Amount:        r.Amount,
			Status:        string(r.Status),
			RefundMethod:  string(r.RefundMethod),
			Reason:        r.Reason,
			Notes:         r.Notes,
			FailureReason: r.FailureReason,
			CompletedAt:   r.CompletedAt,
			CreatedAt:     r.CreatedAt,
		})
	}
	return res, nil
}

func walletReference(refundId uuid.UUID) string {
	return "refund:" + refundId.String()
}
