package service

import (
	"context"

	"swiftmart-be/internal/dto"
	"swiftmart-be/internal/pkg/serverutils"
	"swiftmart-be/internal/repository/specification"
	"swiftmart-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

type IWalletService interface {
	GetBalance(ctx context.Context, userId uuid.UUID) (*dto.WalletBalanceResponse, error)
	GetTransactions(ctx context.Context, userId uuid.UUID, limit, offset int) ([]*dto.WalletTransactionResponse, error)
}

type walletService struct {
	uowFactory unitofwork.RepositoryFactory
}

func NewWalletService(uowFactory unitofwork.RepositoryFactory) IWalletService {
	return &walletService{
		uowFactory: uowFactory,
	}
}

func (s *walletService) GetBalance(ctx context.Context, userId uuid.UUID) (*dto.WalletBalanceResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	balance, err := uow.WalletRepository().Balance(ctx, userId)
	if err != nil {
		return nil, serverutils.NewInternal("failed to load wallet balance", err)
	}

	return &dto.WalletBalanceResponse{
		UserId:  userId,
		Balance: balance,
	}, nil
}

func (s *walletService) GetTransactions(ctx context.Context, userId uuid.UUID, limit, offset int) ([]*dto.WalletTransactionResponse, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)

	transactions, err := uow.WalletRepository().FindTransactions(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.OrderBy{Field: "created_at", Desc: true},
		specification.Pagination{Limit: limit, Offset: offset},
	)
	if err != nil {
		return nil, serverutils.NewInternal("failed to load wallet transactions", err)
	}

	res := make([]*dto.WalletTransactionResponse, 0, len(transactions))
	for _, t := range transactions {
		res = append(res, &dto.WalletTransactionResponse{
			Id:           t.Id,
			Amount:       t.Amount,
			BalanceAfter: t.BalanceAfter,
			Description:  t.Description,
			Reference:    t.Reference,
			CreatedAt:    t.CreatedAt,
		})
	}
	return res, nil
}
