package service

import (
	"context"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"

	"github.com/carson-networks/ledger-server/internal/ledgererr"
	"github.com/carson-networks/ledger-server/internal/operator/actions"
	"github.com/carson-networks/ledger-server/internal/storage"
	"github.com/carson-networks/ledger-server/internal/storage/account"
	"github.com/carson-networks/ledger-server/internal/storage/balancehistory"
)

const defaultAccountLimit = 20

// AccountService handles account lifecycle and balance history reads.
type AccountService struct {
	storage storage.IStorage
	ops     Processor
	clock   Clock
}

func NewAccountService(store storage.IStorage, ops Processor, clock Clock) *AccountService {
	return &AccountService{storage: store, ops: ops, clock: clock}
}

func (s *AccountService) CreateAccount(ctx context.Context, create account.AccountCreate) (*account.Account, error) {
	action := &actions.CreateAccount{Create: create, Now: s.clock()}
	if err := s.ops.Process(ctx, action); err != nil {
		return nil, err
	}
	return action.Account, nil
}

// GetAccount returns an active account owned by userID.
func (s *AccountService) GetAccount(ctx context.Context, userID, id uuid.UUID) (*account.Account, error) {
	acc, err := s.findOwned(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if !acc.IsActive() {
		return nil, ledgererr.ErrAccountNotFound
	}
	return acc, nil
}

// ListAccounts returns a page of the user's active accounts, newest first.
func (s *AccountService) ListAccounts(ctx context.Context, userID uuid.UUID, cursor *account.AccountCursor) (*account.AccountListResult, error) {
	filter := &account.AccountFilter{UserID: userID, Limit: defaultAccountLimit}
	if cursor != nil {
		filter.Limit = cursor.Limit
		filter.Offset = cursor.Position
	}

	result, err := s.storage.Reader().Accounts.List(ctx, filter)
	if err != nil {
		return nil, ledgererr.Storage("list accounts", err)
	}
	return result, nil
}

func (s *AccountService) UpdateAccount(ctx context.Context, userID, id uuid.UUID, update account.AccountUpdate) (*account.Account, error) {
	action := &actions.UpdateAccount{UserID: userID, AccountID: id, Update: update, Now: s.clock()}
	if err := s.ops.Process(ctx, action); err != nil {
		return nil, err
	}
	return action.Account, nil
}

func (s *AccountService) DeactivateAccount(ctx context.Context, userID, id uuid.UUID) error {
	return s.ops.Process(ctx, &actions.DeactivateAccount{UserID: userID, AccountID: id, Now: s.clock()})
}

// ReconcileBalance sets the balance to newBalance through the ledger.
func (s *AccountService) ReconcileBalance(ctx context.Context, userID, id uuid.UUID, newBalance decimal.Decimal) (*balancehistory.Entry, error) {
	action := &actions.ReconcileBalance{UserID: userID, AccountID: id, NewBalance: newBalance, Now: s.clock()}
	if err := s.ops.Process(ctx, action); err != nil {
		return nil, err
	}
	return action.Entry, nil
}

// BalanceHistory returns the snapshots recorded in [start, end], oldest first.
// Deactivated accounts keep their history readable.
func (s *AccountService) BalanceHistory(ctx context.Context, userID, id uuid.UUID, start, end time.Time) ([]*balancehistory.Entry, error) {
	if start.After(end) {
		return nil, ledgererr.ErrInvalidRange
	}
	if _, err := s.findOwned(ctx, userID, id); err != nil {
		return nil, err
	}

	entries, err := s.storage.Reader().BalanceHistory.ListRange(ctx, &balancehistory.RangeFilter{
		AccountID: id,
		Start:     start,
		End:       end,
	})
	if err != nil {
		return nil, ledgererr.Storage("list balance history", err)
	}
	return entries, nil
}

func (s *AccountService) findOwned(ctx context.Context, userID, id uuid.UUID) (*account.Account, error) {
	acc, err := s.storage.Reader().Accounts.FindByID(ctx, id)
	if err != nil {
		return nil, ledgererr.Storage("find account", err)
	}
	if acc == nil || !acc.OwnedBy(userID) {
		return nil, ledgererr.ErrAccountNotFound
	}
	return acc, nil
}
