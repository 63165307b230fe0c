package implementation

import (
	"context"

	"swiftmart-be/internal/entity"
	"swiftmart-be/internal/model"
	"swiftmart-be/internal/repository/contract"
	"swiftmart-be/internal/repository/specification"

	"gorm.io/gorm"
)

type orderRepositoryImpl struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) contract.OrderRepository {
	return &orderRepositoryImpl{db: db}
}

func (r *orderRepositoryImpl) Create(ctx context.Context, order *entity.Order) error {
	return r.db.WithContext(ctx).Create(r.mapToModel(order)).Error
}

func (r *orderRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Order, error) {
	var modelOrder model.Order
	query := r.db.WithContext(ctx)

	for _, spec := range specs {
		query = spec.Apply(query)
	}

	if err := query.First(&modelOrder).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}

	return r.mapToEntity(&modelOrder), nil
}

func (r *orderRepositoryImpl) FindOneWithParties(ctx context.Context, specs ...specification.Specification) (*entity.Order, error) {
	var modelOrder model.Order
	query := r.db.WithContext(ctx).
		Preload("Buyer").
		Preload("Vendor")

	for _, spec := range specs {
		query = spec.Apply(query)
	}

	if err := query.First(&modelOrder).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}

	order := r.mapToEntity(&modelOrder)
	order.Buyer = entity.User{
		Id:       modelOrder.Buyer.Id,
		Email:    modelOrder.Buyer.Email,
		FullName: modelOrder.Buyer.FullName,
		Role:     entity.UserRole(modelOrder.Buyer.Role),
	}
	order.Vendor = entity.User{
		Id:       modelOrder.Vendor.Id,
		Email:    modelOrder.Vendor.Email,
		FullName: modelOrder.Vendor.FullName,
		Role:     entity.UserRole(modelOrder.Vendor.Role),
	}
	return order, nil
}

func (r *orderRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Order, error) {
	var modelOrders []*model.Order
	query := r.db.WithContext(ctx)

	for _, spec := range specs {
		query = spec.Apply(query)
	}

	if err := query.Find(&modelOrders).Error; err != nil {
		return nil, err
	}

	var orders []*entity.Order
	for _, mo := range modelOrders {
		orders = append(orders, r.mapToEntity(mo))
	}
	return orders, nil
}

// MarkCancelled transitions the order to cancelled, guarded by its
// current status so a raced second cancel is a no-op.
func (r *orderRepositoryImpl) MarkCancelled(ctx context.Context, order *entity.Order) (bool, error) {
	res := r.db.WithContext(ctx).Model(&model.Order{}).
		Where("id = ? AND status IN ?", order.Id, []string{
			string(entity.OrderStatusPending),
			string(entity.OrderStatusConfirmed),
			string(entity.OrderStatusProcessing),
		}).
		Updates(map[string]interface{}{
			"status":              string(entity.OrderStatusCancelled),
			"cancelled_by":        order.CancelledBy,
			"cancelled_at":        order.CancelledAt,
			"cancellation_reason": order.CancellationReason,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// ClaimRefundProcessing is the conditional update closing the race
// between the eligibility check and the refund write: only one caller
// moves refund_status out of none/failed.
func (r *orderRepositoryImpl) ClaimRefundProcessing(ctx context.Context, order *entity.Order) (bool, error) {
	res := r.db.WithContext(ctx).Model(&model.Order{}).
		Where("id = ? AND refund_status IN ?", order.Id, []string{
			string(entity.OrderRefundStatusNone),
			string(entity.OrderRefundStatusFailed),
		}).
		Update("refund_status", string(entity.OrderRefundStatusProcessing))
	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected == 1 {
		order.RefundStatus = entity.OrderRefundStatusProcessing
		return true, nil
	}
	return false, nil
}

func (r *orderRepositoryImpl) UpdateRefundFields(ctx context.Context, order *entity.Order) error {
	return r.db.WithContext(ctx).Model(&model.Order{}).
		Where("id = ?", order.Id).
		Updates(map[string]interface{}{
			"refund_status":    string(order.RefundStatus),
			"refund_amount":    order.RefundAmount,
			"refund_method":    order.RefundMethod,
			"refund_reference": order.RefundReference,
			"refunded_at":      order.RefundedAt,
			"payment_status":   string(order.PaymentStatus),
		}).Error
}

func (r *orderRepositoryImpl) mapToModel(o *entity.Order) *model.Order {
	return &model.Order{
		Id:                 o.Id,
		UserId:             o.UserId,
		VendorId:           o.VendorId,
		Total:              o.Total,
		DeliveryAddress:    o.DeliveryAddress,
		DeliveryNotes:      o.DeliveryNotes,
		Status:             string(o.Status),
		PaymentStatus:      string(o.PaymentStatus),
		PaymentReference:   o.PaymentReference,
		PaymentAmount:      o.PaymentAmount,
		RefundStatus:       string(o.RefundStatus),
		RefundAmount:       o.RefundAmount,
		RefundMethod:       o.RefundMethod,
		RefundReference:    o.RefundReference,
		RefundedAt:         o.RefundedAt,
		CancelledBy:        o.CancelledBy,
		CancelledAt:        o.CancelledAt,
		CancellationReason: o.CancellationReason,
	}
}

func (r *orderRepositoryImpl) mapToEntity(mo *model.Order) *entity.Order {
	return &entity.Order{
		Id:                 mo.Id,
		UserId:             mo.UserId,
		VendorId:           mo.VendorId,
		Total:              mo.Total,
		DeliveryAddress:    mo.DeliveryAddress,
		DeliveryNotes:      mo.DeliveryNotes,
		Status:             entity.OrderStatus(mo.Status),
		PaymentStatus:      entity.PaymentStatus(mo.PaymentStatus),
		PaymentReference:   mo.PaymentReference,
		PaymentAmount:      mo.PaymentAmount,
		RefundStatus:       entity.OrderRefundStatus(mo.RefundStatus),
		RefundAmount:       mo.RefundAmount,
		RefundMethod:       mo.RefundMethod,
		RefundReference:    mo.RefundReference,
		RefundedAt:         mo.RefundedAt,
		CancelledBy:        mo.CancelledBy,
		CancelledAt:        mo.CancelledAt,
		CancellationReason: mo.CancellationReason,
		CreatedAt:          mo.CreatedAt,
		UpdatedAt:          mo.UpdatedAt,
	}
}
