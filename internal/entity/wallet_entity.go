package entity

import (
	"time"

	"github.com/google/uuid"
)

// WalletTransaction is one ledger entry on a user's internal balance.
// Rows are written only by the credit_wallet stored procedure; this
// service reads them for wallet history and balance display.
type WalletTransaction struct {
	Id           uuid.UUID
	UserId       uuid.UUID
	Amount       float64
	BalanceAfter float64
	Description  string
	Reference    string
	CreatedAt    time.Time
}
