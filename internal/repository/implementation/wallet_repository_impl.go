package implementation

import (
	"context"

	"swiftmart-be/internal/entity"
	"swiftmart-be/internal/model"
	"swiftmart-be/internal/repository/contract"
	"swiftmart-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type walletRepositoryImpl struct {
	db *gorm.DB
}

func NewWalletRepository(db *gorm.DB) contract.WalletRepository {
	return &walletRepositoryImpl{db: db}
}

// Credit calls the credit_wallet stored procedure. One statement, one
// transaction inside the database: the balance bump and the ledger row
// commit together or not at all.
func (r *walletRepositoryImpl) Credit(ctx context.Context, userId uuid.UUID, amount float64, description, reference string) (float64, error) {
	var newBalance float64
	err := r.db.WithContext(ctx).
		Raw("SELECT credit_wallet(?, ?, ?, ?)", userId, amount, description, reference).
		Scan(&newBalance).Error
	if err != nil {
		return 0, err
	}
	return newBalance, nil
}

func (r *walletRepositoryImpl) Balance(ctx context.Context, userId uuid.UUID) (float64, error) {
	// The latest ledger row carries the current balance.
	var tx model.WalletTransaction
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userId).
		Order("created_at DESC").
		First(&tx).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return 0, nil
		}
		return 0, err
	}
	return tx.BalanceAfter, nil
}

func (r *walletRepositoryImpl) FindTransactions(ctx context.Context, specs ...specification.Specification) ([]*entity.WalletTransaction, error) {
	var modelTxs []*model.WalletTransaction
	query := r.db.WithContext(ctx)

	for _, spec := range specs {
		query = spec.Apply(query)
	}

	if err := query.Find(&modelTxs).Error; err != nil {
		return nil, err
	}

	var txs []*entity.WalletTransaction
	for _, mt := range modelTxs {
		txs = append(txs, &entity.WalletTransaction{
			Id:           mt.Id,
			UserId:       mt.UserId,
			Amount:       mt.Amount,
			BalanceAfter: mt.BalanceAfter,
			Description:  mt.Description,
			Reference:    mt.Reference,
			CreatedAt:    mt.CreatedAt,
		})
	}
	return txs, nil
}
