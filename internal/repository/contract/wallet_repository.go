package contract

import (
	"context"

	"swiftmart-be/internal/entity"
	"swiftmart-be/internal/repository/specification"

	"github.com/google/uuid"
)

type WalletRepository interface {
	// Credit runs the credit_wallet stored procedure: a single atomic
	// statement that bumps the user's balance, inserts the ledger row
	// and returns the new balance. It must never be decomposed into a
	// read-modify-write pair.
	Credit(ctx context.Context, userId uuid.UUID, amount float64, description, reference string) (float64, error)

	Balance(ctx context.Context, userId uuid.UUID) (float64, error)
	FindTransactions(ctx context.Context, specs ...specification.Specification) ([]*entity.WalletTransaction, error)
}
