package dto

import (
	"time"

	"github.com/google/uuid"
)

type WalletBalanceResponse struct {
	UserId  uuid.UUID `json:"user_id"`
	Balance float64   `json:"balance"`
}

type WalletTransactionResponse struct {
	Id           uuid.UUID `json:"id"`
	Amount       float64   `json:"amount"`
	BalanceAfter float64   `json:"balance_after"`
	Description  string    `json:"description"`
	Reference    string    `json:"reference"`
	CreatedAt    time.Time `json:"created_at"`
}
