package services

import (
	"context"

	"github.com/sbilibin2017/finanfun/internal/logger"
	"github.com/sbilibin2017/finanfun/internal/models"
)

// UserGetter loads a user by id.
type UserGetter interface {
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
}

// FamilyReader reads family links.
type FamilyReader interface {
	GetOpenConnection(ctx context.Context, parentID, childID int64) (*models.FamilyConnection, error)
	ListChildren(ctx context.Context, parentID int64) ([]models.FamilyMember, error)
}

// DashboardService aggregates the read-only dashboard views.
type DashboardService struct {
	users        UserGetter
	accounts     AccountStore
	transactions TransactionStore
	family       FamilyReader
}

func NewDashboardService(users UserGetter, accounts AccountStore, transactions TransactionStore, family FamilyReader) *DashboardService {
	return &DashboardService{
		users:        users,
		accounts:     accounts,
		transactions: transactions,
		family:       family,
	}
}

// Parent returns the parent dashboard including active children.
func (s *DashboardService) Parent(ctx context.Context, userID int64) (*models.Dashboard, error) {
	d, err := s.build(ctx, userID, models.DashboardParent)
	if err != nil {
		return nil, err
	}

	d.Family, err = s.family.ListChildren(ctx, userID)
	if err != nil {
		logger.Log.Errorw("failed to list children", "user_id", userID, "err", err)
		return nil, err
	}
	return d, nil
}

// Child returns the child dashboard.
func (s *DashboardService) Child(ctx context.Context, userID int64) (*models.Dashboard, error) {
	return s.build(ctx, userID, models.DashboardChild)
}

// ChildForParent returns a linked child's dashboard, or ErrNotLinked.
func (s *DashboardService) ChildForParent(ctx context.Context, parentID, childID int64) (*models.Dashboard, error) {
	link, err := s.family.GetOpenConnection(ctx, parentID, childID)
	if err != nil {
		logger.Log.Errorw("failed to get family link", "parent_id", parentID, "child_id", childID, "err", err)
		return nil, err
	}
	if link == nil || link.Status != models.FamilyActive {
		return nil, ErrNotLinked
	}
	return s.build(ctx, childID, models.DashboardChild)
}

func (s *DashboardService) build(ctx context.Context, userID int64, kind string) (*models.Dashboard, error) {
	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		logger.Log.Errorw("failed to get user", "user_id", userID, "err", err)
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	accounts, err := s.accounts.GetAccounts(ctx, userID)
	if err != nil {
		logger.Log.Errorw("failed to get accounts", "user_id", userID, "err", err)
		return nil, err
	}

	recent, err := s.transactions.ListTransactions(ctx, userID, models.RecentTransactionsLimit)
	if err != nil {
		logger.Log.Errorw("failed to list transactions", "user_id", userID, "err", err)
		return nil, err
	}

	return &models.Dashboard{
		Type:               kind,
		User:               user,
		Accounts:           accounts,
		RecentTransactions: recent,
	}, nil
}
