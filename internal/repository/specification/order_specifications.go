package specification

import (
	"gorm.io/gorm"

	"github.com/google/uuid"
)

// UserOwnedBy filters rows belonging to a user (user_id column).
type UserOwnedBy struct {
	UserID uuid.UUID
}

func (s UserOwnedBy) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("user_id = ?", s.UserID)
}

// PartyTo filters orders where the user is either buyer or seller.
type PartyTo struct {
	UserID uuid.UUID
}

func (s PartyTo) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("user_id = ? OR vendor_id = ?", s.UserID, s.UserID)
}

// ByOrder filters refund rows by their owning order.
type ByOrder struct {
	OrderID uuid.UUID
}

func (s ByOrder) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("order_id = ?", s.OrderID)
}

// ByStatus filters by a status column value.
type ByStatus struct {
	Status string
}

func (s ByStatus) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("status = ?", s.Status)
}

// Unread filters unread notifications.
type Unread struct{}

func (s Unread) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("is_read = ?", false)
}
