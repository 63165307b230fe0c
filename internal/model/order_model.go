package model

import (
	"time"

	"github.com/google/uuid"
)

// Order GORM model. The cancellation and refund services are the sole
// writers of the cancellation/refund column sets; checkout (upstream,
// out of scope here) owns the rest.
type Order struct {
	Id       uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId   uuid.UUID `gorm:"type:uuid;not null;index"`
	VendorId uuid.UUID `gorm:"type:uuid;not null;index"`

	Total           float64 `gorm:"type:decimal(12,2);not null"`
	DeliveryAddress string  `gorm:"type:text"`
	DeliveryNotes   string  `gorm:"type:text"`

	Status string `gorm:"type:varchar(50);not null;default:'pending';index"` // pending, confirmed, processing, delivered, cancelled

	PaymentStatus    string   `gorm:"type:varchar(50);not null;default:'unpaid'"` // unpaid, paid, partially_refunded, refunded
	PaymentReference string   `gorm:"type:varchar(255)"`
	PaymentAmount    *float64 `gorm:"type:decimal(12,2)"`

	RefundStatus    string   `gorm:"type:varchar(50);not null;default:'none'"` // none, pending, processing, completed, failed
	RefundAmount    *float64 `gorm:"type:decimal(12,2)"`
	RefundMethod    string   `gorm:"type:varchar(50)"`
	RefundReference string   `gorm:"type:varchar(255)"`
	RefundedAt      *time.Time

	CancelledBy        *uuid.UUID `gorm:"type:uuid"`
	CancelledAt        *time.Time
	CancellationReason string `gorm:"type:text"`

	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`

	// Relations
	Buyer  User `gorm:"foreignKey:UserId"`
	Vendor User `gorm:"foreignKey:VendorId"`
}

func (Order) TableName() string {
	return "orders"
}
