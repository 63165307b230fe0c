package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Refund GORM model for refund attempts.
type Refund struct {
	Id               uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OrderId          uuid.UUID `gorm:"type:uuid;not null;index"`
	PaymentReference string    `gorm:"type:varchar(255)"`
	Amount           float64   `gorm:"type:decimal(12,2);not null"`
	Status           string    `gorm:"type:varchar(50);not null;default:'pending';index"` // pending, processing, completed, failed
	RefundMethod     string    `gorm:"type:varchar(50);not null"`                         // wallet, paystack, manual
	InitiatedBy      uuid.UUID `gorm:"type:uuid;not null"`
	Reason           string    `gorm:"type:text"`
	Notes            string    `gorm:"type:text"`
	FailureReason    string    `gorm:"type:text"`

	PaystackRefundId string         `gorm:"type:varchar(255)"`
	GatewayResponse  datatypes.JSON `gorm:"type:jsonb"`

	CompletedAt *time.Time
	CreatedAt   time.Time `gorm:"autoCreateTime"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime"`

	// Relations
	Order Order `gorm:"foreignKey:OrderId"`
}

func (Refund) TableName() string {
	return "refunds"
}
