package service

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

type ICancellationService interface {
	CancelOrder(ctx context.Context, userId uuid.UUID, req *dto.CancelOrderRequest) (*dto.CancelOrderResponse, error)
}

type cancellationService struct {
	uowFactory     unitofwork.RepositoryFactory
	refundService  IRefundService
	notifier       INotifierService
	eventPublisher *pktNats.Publisher
	log            logger.ILogger
}

func NewCancellationService(
	uowFactory unitofwork.RepositoryFactory,
	refundService IRefundService,
	notifier INotifierService,
	eventPublisher *pktNats.Publisher,
	log logger.ILogger,
) ICancellationService {
	return &cancellationService{
		uowFactory:     uowFactory,
		refundService:  refundService,
		notifier:       notifier,
		eventPublisher: eventPublisher,
		log:            log,
	}
}

func (s *cancellationService) CancelOrder(ctx context.Context, userId uuid.UUID, req *dto.CancelOrderRequest) (*dto.CancelOrderResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	order, err := uow.OrderRepository().FindOneWithParties(ctx, specification.ByID{ID: req.OrderId})
	if err != nil {
		return nil, serverutils.NewInternal("failed to load order", err)
	}
	if order == nil {
		return nil, serverutils.NewNotFound("order not found")
	}

	if !order.IsParty(userId) {
		return nil, serverutils.NewForbidden("you are not a party to this order")
	}

	if order.Status == entity.OrderStatusCancelled {
		return nil, serverutils.NewBadRequest("order is already cancelled")
	}
	if !order.Status.Cancellable() {
		if order.Status == entity.OrderStatusDelivered {
			return nil, serverutils.NewBadRequest("delivered orders cannot be cancelled; use the returns process instead")
		}
		return nil, serverutils.NewBadRequest(fmt.Sprintf("order cannot be cancelled while %s", order.Status))
	}

	now := time.Now()
	order.CancelledBy = &userId
	order.CancelledAt = &now
	order.CancellationReason = req.Reason

	// Guarded update: exactly one concurrent cancel flips the status.
	cancelled, err := uow.OrderRepository().MarkCancelled(ctx, order)
	if err != nil {
		return nil, serverutils.NewInternal("failed to cancel order", err)
	}
	if !cancelled {
		return nil, serverutils.NewBadRequest("order is already cancelled")
	}

	cancelledBy := entity.CancelledByCustomer
	if userId == order.VendorId {
		cancelledBy = entity.CancelledByVendor
	}

	res := &dto.CancelOrderResponse{
		OrderId:     order.Id,
		CancelledBy: cancelledBy,
	}

	// A paid order with a positive capture gets its refund kicked off
	// inline. The cancellation itself is already committed: a refund
	// failure is reported on the response, never rolled back into a
	// failed cancel.
	if order.PaymentStatus == entity.PaymentStatusPaid && order.CapturedAmount() > 0 {
		refundMethod := req.RefundMethod
		if refundMethod == "" {
			refundMethod = string(entity.RefundMethodWallet)
		}

		refundRes, refundErr := s.refundService.ProcessRefund(ctx, userId, &dto.ProcessRefundRequest{
			OrderId:      order.Id,
			RefundMethod: refundMethod,
			Reason:       "Order cancelled: " + req.Reason,
		})
		if refundErr != nil {
			s.log.Error("cancellation", "refund after cancel failed", map[string]interface{}{
				"order_id": order.Id.String(),
				"error":    refundErr.Error(),
			})
			res.RefundError = refundErr.Error()
		} else {
			res.RefundProcessed = true
			res.RefundResult = refundRes
		}
	}

	s.notifyParties(ctx, order, cancelledBy, req.Reason)
	s.publishCancelled(ctx, order, cancelledBy)

	s.log.Info("cancellation", "order cancelled", map[string]interface{}{
		"order_id":     order.Id.String(),
		"cancelled_by": cancelledBy,
	})
	return res, nil
}

// notifyParties tells both sides of the order. The buyer gets an email,
// the vendor only an inbox entry.
func (s *cancellationService) notifyParties(ctx context.Context, order *entity.Order, cancelledBy, reason string) {
	buyerName := order.Buyer.FullName
	if buyerName == "" {
		buyerName = "the customer"
	}
	vendorName := order.Vendor.FullName
	if vendorName == "" {
		vendorName = "the seller"
	}

	buyerMsg := fmt.Sprintf("Your order %s has been cancelled.", order.Id)
	if cancelledBy == entity.CancelledByVendor {
		buyerMsg = fmt.Sprintf("Order %s was cancelled by %s.", order.Id, vendorName)
	}
	s.notify(ctx, order.UserId, "Order cancelled", buyerMsg, order, reason, true)

	vendorMsg := fmt.Sprintf("Order %s has been cancelled by %s.", order.Id, buyerName)
	if cancelledBy == entity.CancelledByVendor {
		vendorMsg = fmt.Sprintf("You cancelled order %s.", order.Id)
	}
	s.notify(ctx, order.VendorId, "Order cancelled", vendorMsg, order, reason, false)
}

func (s *cancellationService) notify(ctx context.Context, userId uuid.UUID, title, body string, order *entity.Order, reason string, email bool) {
	err := s.notifier.Notify(ctx, &dto.NotificationMessage{
		UserId:  userId,
		Type:    "order",
		Title:   title,
		Message: body,
		Metadata: map[string]interface{}{
			"order_id": order.Id.String(),
			"reason":   reason,
		},
		Email: email,
	})
	if err != nil {
		s.log.Warn("cancellation", "failed to queue notification", map[string]interface{}{
			"order_id": order.Id.String(),
			"error":    err.Error(),
		})
	}
}

func (s *cancellationService) publishCancelled(ctx context.Context, order *entity.Order, cancelledBy string) {
	if s.eventPublisher == nil {
		return
	}
	err := s.eventPublisher.Publish(ctx, events.BaseEvent{
		Type: events.TypeOrderCancelled,
		Data: map[string]interface{}{
			"order_id":     order.Id.String(),
			"user_id":      order.UserId.String(),
			"vendor_id":    order.VendorId.String(),
			"cancelled_by": cancelledBy,
			"reason":       order.CancellationReason,
			"occurred_at":  notificationTimestamp(time.Now()),
		},
		OccurredAt: time.Now(),
	})
	if err != nil {
		s.log.Warn("cancellation", "failed to publish event", map[string]interface{}{
			"order_id": order.Id.String(),
			"error":    err.Error(),
		})
	}
}
