package implementation

import (
	"context"

	"swiftmart-be/internal/entity"
	"swiftmart-be/internal/model"
	"swiftmart-be/internal/repository/contract"
	"swiftmart-be/internal/repository/specification"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type refundRepositoryImpl struct {
	db *gorm.DB
}

func NewRefundRepository(db *gorm.DB) contract.RefundRepository {
	return &refundRepositoryImpl{db: db}
}

func (r *refundRepositoryImpl) Create(ctx context.Context, refund *entity.Refund) error {
	modelRefund := &model.Refund{
		Id:               refund.Id,
		OrderId:          refund.OrderId,
		PaymentReference: refund.PaymentReference,
		Amount:           refund.Amount,
		Status:           string(refund.Status),
		RefundMethod:     string(refund.RefundMethod),
		InitiatedBy:      refund.InitiatedBy,
		Reason:           refund.Reason,
		Notes:            refund.Notes,
		FailureReason:    refund.FailureReason,
		PaystackRefundId: refund.PaystackRefundId,
		GatewayResponse:  datatypes.JSON(refund.GatewayResponse),
		CompletedAt:      refund.CompletedAt,
	}
	return r.db.WithContext(ctx).Create(modelRefund).Error
}

func (r *refundRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Refund, error) {
	var modelRefund model.Refund
	query := r.db.WithContext(ctx)

	for _, spec := range specs {
		query = spec.Apply(query)
	}

	if err := query.First(&modelRefund).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}

	return r.mapToEntity(&modelRefund), nil
}

func (r *refundRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Refund, error) {
	var modelRefunds []*model.Refund
	query := r.db.WithContext(ctx)

	for _, spec := range specs {
		query = spec.Apply(query)
	}

	if err := query.Find(&modelRefunds).Error; err != nil {
		return nil, err
	}

	var refunds []*entity.Refund
	for _, mr := range modelRefunds {
		refunds = append(refunds, r.mapToEntity(mr))
	}
	return refunds, nil
}

func (r *refundRepositoryImpl) Update(ctx context.Context, refund *entity.Refund) error {
	return r.db.WithContext(ctx).Model(&model.Refund{}).
		Where("id = ?", refund.Id).
		Updates(map[string]interface{}{
			"status":             string(refund.Status),
			"refund_method":      string(refund.RefundMethod),
			"notes":              refund.Notes,
			"failure_reason":     refund.FailureReason,
			"paystack_refund_id": refund.PaystackRefundId,
			"gateway_response":   datatypes.JSON(refund.GatewayResponse),
			"completed_at":       refund.CompletedAt,
		}).Error
}

func (r *refundRepositoryImpl) mapToEntity(mr *model.Refund) *entity.Refund {
	return &entity.Refund{
		Id:               mr.Id,
		OrderId:          mr.OrderId,
		PaymentReference: mr.PaymentReference,
		Amount:           mr.Amount,
		Status:           entity.RefundStatus(mr.Status),
		RefundMethod:     entity.RefundMethod(mr.RefundMethod),
		InitiatedBy:      mr.InitiatedBy,
		Reason:           mr.Reason,
		Notes:            mr.Notes,
		FailureReason:    mr.FailureReason,
		PaystackRefundId: mr.PaystackRefundId,
		GatewayResponse:  []byte(mr.GatewayResponse),
		CompletedAt:      mr.CompletedAt,
		CreatedAt:        mr.CreatedAt,
		UpdatedAt:        mr.UpdatedAt,
	}
}
