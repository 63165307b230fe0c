package service

import (
	"context"
	"errors"
	"sort"
	"sync"

	"swiftmart-be/internal/dto"
	"swiftmart-be/internal/entity"
	"swiftmart-be/internal/model"
	"swiftmart-be/internal/repository/contract"
	"swiftmart-be/internal/repository/specification"
	"swiftmart-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

// In-memory doubles for the repository layer. They interpret the
// specification types the services actually use instead of a SQL
// translation, and mirror the conditional-update semantics of the real
// implementations.

type fakeOrderRepo struct {
	mu     sync.Mutex
	orders map[uuid.UUID]*entity.Order
	users  *fakeUserRepo
}

func newFakeOrderRepo(users *fakeUserRepo) *fakeOrderRepo {
	return &fakeOrderRepo{orders: make(map[uuid.UUID]*entity.Order), users: users}
}

func (r *fakeOrderRepo) put(o *entity.Order) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *o
	r.orders[o.Id] = &cp
}

func (r *fakeOrderRepo) get(id uuid.UUID) *entity.Order {
	r.mu.Lock()
	defer r.mu.Unlock()
	if o, ok := r.orders[id]; ok {
		cp := *o
		return &cp
	}
	return nil
}

func (r *fakeOrderRepo) Create(ctx context.Context, order *entity.Order) error {
	r.put(order)
	return nil
}

func (r *fakeOrderRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Order, error) {
	for _, spec := range specs {
		if byId, ok := spec.(specification.ByID); ok {
			return r.get(byId.ID), nil
		}
	}
	return nil, errors.New("fakeOrderRepo: unsupported specification")
}

func (r *fakeOrderRepo) FindOneWithParties(ctx context.Context, specs ...specification.Specification) (*entity.Order, error) {
	order, err := r.FindOne(ctx, specs...)
	if err != nil || order == nil {
		return order, err
	}
	if r.users != nil {
		if buyer, _ := r.users.FindOne(ctx, specification.ByID{ID: order.UserId}); buyer != nil {
			order.Buyer = *buyer
		}
		if vendor, _ := r.users.FindOne(ctx, specification.ByID{ID: order.VendorId}); vendor != nil {
			order.Vendor = *vendor
		}
	}
	return order, nil
}

func (r *fakeOrderRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Order
	for _, o := range r.orders {
		cp := *o
		out = append(out, &cp)
	}
	return out, nil
}

func (r *fakeOrderRepo) MarkCancelled(ctx context.Context, order *entity.Order) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.orders[order.Id]
	if !ok || !stored.Status.Cancellable() {
		return false, nil
	}
	stored.Status = entity.OrderStatusCancelled
	stored.CancelledBy = order.CancelledBy
	stored.CancelledAt = order.CancelledAt
	stored.CancellationReason = order.CancellationReason
	return true, nil
}

func (r *fakeOrderRepo) ClaimRefundProcessing(ctx context.Context, order *entity.Order) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.orders[order.Id]
	if !ok {
		return false, nil
	}
	if stored.RefundStatus != entity.OrderRefundStatusNone && stored.RefundStatus != entity.OrderRefundStatusFailed {
		return false, nil
	}
	stored.RefundStatus = entity.OrderRefundStatusProcessing
	order.RefundStatus = entity.OrderRefundStatusProcessing
	return true, nil
}

func (r *fakeOrderRepo) UpdateRefundFields(ctx context.Context, order *entity.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.orders[order.Id]
	if !ok {
		return errors.New("order not found")
	}
	stored.RefundStatus = order.RefundStatus
	stored.RefundAmount = order.RefundAmount
	stored.RefundMethod = order.RefundMethod
	stored.RefundReference = order.RefundReference
	stored.RefundedAt = order.RefundedAt
	stored.PaymentStatus = order.PaymentStatus
	return nil
}

type fakeRefundRepo struct {
	mu      sync.Mutex
	refunds map[uuid.UUID]*entity.Refund
}

func newFakeRefundRepo() *fakeRefundRepo {
	return &fakeRefundRepo{refunds: make(map[uuid.UUID]*entity.Refund)}
}

func (r *fakeRefundRepo) get(id uuid.UUID) *entity.Refund {
	r.mu.Lock()
	defer r.mu.Unlock()
	if f, ok := r.refunds[id]; ok {
		cp := *f
		return &cp
	}
	return nil
}

func (r *fakeRefundRepo) Create(ctx context.Context, refund *entity.Refund) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *refund
	r.refunds[refund.Id] = &cp
	return nil
}

func (r *fakeRefundRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Refund, error) {
	for _, spec := range specs {
		if byId, ok := spec.(specification.ByID); ok {
			return r.get(byId.ID), nil
		}
	}
	return nil, errors.New("fakeRefundRepo: unsupported specification")
}

func (r *fakeRefundRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Refund, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var orderFilter *uuid.UUID
	for _, spec := range specs {
		if byOrder, ok := spec.(specification.ByOrder); ok {
			id := byOrder.OrderID
			orderFilter = &id
		}
	}

	var out []*entity.Refund
	for _, f := range r.refunds {
		if orderFilter != nil && f.OrderId != *orderFilter {
			continue
		}
		cp := *f
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *fakeRefundRepo) Update(ctx context.Context, refund *entity.Refund) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.refunds[refund.Id]; !ok {
		return errors.New("refund not found")
	}
	cp := *refund
	r.refunds[refund.Id] = &cp
	return nil
}

type fakeUserRepo struct {
	users map[uuid.UUID]*entity.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uuid.UUID]*entity.User)}
}

func (r *fakeUserRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.User, error) {
	for _, spec := range specs {
		if byId, ok := spec.(specification.ByID); ok {
			if u, ok := r.users[byId.ID]; ok {
				cp := *u
				return &cp, nil
			}
			return nil, nil
		}
	}
	return nil, errors.New("fakeUserRepo: unsupported specification")
}

type fakeWalletRepo struct {
	mu           sync.Mutex
	balances     map[uuid.UUID]float64
	transactions []*entity.WalletTransaction
	references   map[string]bool
	failCredit   bool
}

func newFakeWalletRepo() *fakeWalletRepo {
	return &fakeWalletRepo{
		balances:   make(map[uuid.UUID]float64),
		references: make(map[string]bool),
	}
}

func (r *fakeWalletRepo) Credit(ctx context.Context, userId uuid.UUID, amount float64, description, reference string) (float64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failCredit {
		return 0, errors.New("wallet unavailable")
	}
	if r.references[reference] {
		return 0, errors.New("duplicate reference")
	}
	r.references[reference] = true
	r.balances[userId] += amount
	r.transactions = append(r.transactions, &entity.WalletTransaction{
		Id:           uuid.New(),
		UserId:       userId,
		Amount:       amount,
		BalanceAfter: r.balances[userId],
		Description:  description,
		Reference:    reference,
	})
	return r.balances[userId], nil
}

func (r *fakeWalletRepo) Balance(ctx context.Context, userId uuid.UUID) (float64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.balances[userId], nil
}

func (r *fakeWalletRepo) FindTransactions(ctx context.Context, specs ...specification.Specification) ([]*entity.WalletTransaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var userFilter *uuid.UUID
	for _, spec := range specs {
		if owned, ok := spec.(specification.UserOwnedBy); ok {
			id := owned.UserID
			userFilter = &id
		}
	}

	var out []*entity.WalletTransaction
	for _, t := range r.transactions {
		if userFilter != nil && t.UserId != *userFilter {
			continue
		}
		cp := *t
		out = append(out, &cp)
	}
	return out, nil
}

type fakeNotificationRepo struct {
	mu   sync.Mutex
	rows []*model.Notification
}

func newFakeNotificationRepo() *fakeNotificationRepo {
	return &fakeNotificationRepo{}
}

func (r *fakeNotificationRepo) Create(ctx context.Context, notification *model.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *notification
	r.rows = append(r.rows, &cp)
	return nil
}

func (r *fakeNotificationRepo) FindByUserId(ctx context.Context, userId uuid.UUID, limit, offset int) ([]model.Notification, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Notification
	for _, n := range r.rows {
		if n.UserId == userId {
			out = append(out, *n)
		}
	}
	total := int64(len(out))
	if offset >= len(out) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(out) {
		end = len(out)
	}
	return out[offset:end], total, nil
}

func (r *fakeNotificationRepo) UnreadCount(ctx context.Context, userId uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, n := range r.rows {
		if n.UserId == userId && !n.IsRead {
			count++
		}
	}
	return count, nil
}

func (r *fakeNotificationRepo) MarkAsRead(ctx context.Context, userId, notificationId uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, n := range r.rows {
		if n.Id == notificationId && n.UserId == userId {
			n.IsRead = true
		}
	}
	return nil
}

func (r *fakeNotificationRepo) MarkAllAsRead(ctx context.Context, userId uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, n := range r.rows {
		if n.UserId == userId {
			n.IsRead = true
		}
	}
	return nil
}

type fakeUnitOfWork struct {
	orders        *fakeOrderRepo
	refunds       *fakeRefundRepo
	users         *fakeUserRepo
	wallets       *fakeWalletRepo
	notifications *fakeNotificationRepo
}

func (u *fakeUnitOfWork) Begin(ctx context.Context) error { return nil }
func (u *fakeUnitOfWork) Commit() error                   { return nil }
func (u *fakeUnitOfWork) Rollback() error                 { return nil }

func (u *fakeUnitOfWork) OrderRepository() contract.OrderRepository { return u.orders }
func (u *fakeUnitOfWork) RefundRepository() contract.RefundRepository {
	return u.refunds
}
func (u *fakeUnitOfWork) UserRepository() contract.UserRepository     { return u.users }
func (u *fakeUnitOfWork) WalletRepository() contract.WalletRepository { return u.wallets }
func (u *fakeUnitOfWork) NotificationRepository() contract.NotificationRepository {
	return u.notifications
}

type fakeFactory struct {
	uow *fakeUnitOfWork
}

func newFakeFactory() *fakeFactory {
	users := newFakeUserRepo()
	return &fakeFactory{
		uow: &fakeUnitOfWork{
			orders:        newFakeOrderRepo(users),
			refunds:       newFakeRefundRepo(),
			users:         users,
			wallets:       newFakeWalletRepo(),
			notifications: newFakeNotificationRepo(),
		},
	}
}

func (f *fakeFactory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return f.uow
}

type fakeNotifier struct {
	mu       sync.Mutex
	messages []*dto.NotificationMessage
}

func (n *fakeNotifier) Notify(ctx context.Context, msg *dto.NotificationMessage) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.messages = append(n.messages, msg)
	return nil
}

func (n *fakeNotifier) sent() []*dto.NotificationMessage {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]*dto.NotificationMessage(nil), n.messages...)
}

type noopLogger struct{}

func (noopLogger) Debug(module, message string, details map[string]interface{}) {}
func (noopLogger) Info(module, message string, details map[string]interface{})  {}
func (noopLogger) Warn(module, message string, details map[string]interface{})  {}
func (noopLogger) Error(module, message string, details map[string]interface{}) {}
func (noopLogger) Sync() error                                                  { return nil }

type fakeEmailService struct {
	mu        sync.Mutex
	cancelled []string
	refunded  []string
}

func (s *fakeEmailService) SendOrderCancelled(toEmail, orderId, reason string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancelled = append(s.cancelled, toEmail)
	return nil
}

func (s *fakeEmailService) SendRefundProcessed(toEmail, orderId string, amount float64, method string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.refunded = append(s.refunded, toEmail)
	return nil
}
