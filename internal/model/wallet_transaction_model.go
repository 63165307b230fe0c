package model

import (
	"time"

	"github.com/google/uuid"
)

// WalletTransaction rows are inserted exclusively by the credit_wallet
// stored procedure so the balance mutation and its ledger entry commit
// as one atomic statement. The unique reference makes credits
// replay-safe: a retried credit with the same reference fails instead
// of paying twice.
type WalletTransaction struct {
	Id           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId       uuid.UUID `gorm:"type:uuid;not null;index"`
	Amount       float64   `gorm:"type:decimal(12,2);not null"`
	BalanceAfter float64   `gorm:"type:decimal(12,2);not null"`
	Description  string    `gorm:"type:text"`
	Reference    string    `gorm:"type:varchar(255);uniqueIndex;not null"`
	CreatedAt    time.Time `gorm:"autoCreateTime"`
}

func (WalletTransaction) TableName() string {
	return "wallet_transactions"
}
