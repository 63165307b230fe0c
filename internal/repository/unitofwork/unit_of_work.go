package unitofwork

import (
	"context"

	"swiftmart-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	OrderRepository() contract.OrderRepository
	RefundRepository() contract.RefundRepository
	UserRepository() contract.UserRepository
	WalletRepository() contract.WalletRepository
	NotificationRepository() contract.NotificationRepository
}
