package actions_test

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/davecgh/go-spew/spew"
	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carson-networks/ledger-server/internal/operator"
	"github.com/carson-networks/ledger-server/internal/operator/actions"
	"github.com/carson-networks/ledger-server/internal/storage/account"
	"github.com/carson-networks/ledger-server/internal/storage/balancehistory"
	"github.com/carson-networks/ledger-server/internal/storage/category"
	"github.com/carson-networks/ledger-server/internal/storage/memstore"
)

var now = time.Date(2025, 3, 10, 9, 30, 0, 0, time.UTC)

type ledger struct {
	store *memstore.Store
	ops   *operator.OperatorDelegator
}

func newLedger(t *testing.T, opts ...memstore.Option) *ledger {
	t.Helper()
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	store := memstore.New(opts...)
	ops := operator.NewOperatorDelegator(store, logger, 2, 16)
	ops.Start()
	t.Cleanup(ops.Stop)
	return &ledger{store: store, ops: ops}
}

func (l *ledger) run(action actions.IAction) error {
	return l.ops.Process(context.Background(), action)
}

func (l *ledger) mustRun(t *testing.T, action actions.IAction) {
	t.Helper()
	require.NoError(t, l.run(action))
}

func (l *ledger) openAccount(t *testing.T, userID uuid.UUID, balance string) *account.Account {
	t.Helper()
	create := &actions.CreateAccount{
		Create: account.AccountCreate{
			UserID:         userID,
			Name:           "Checking",
			Type:           account.AccountTypeDebit,
			InitialBalance: decimal.RequireFromString(balance),
		},
		Now: now,
	}
	l.mustRun(t, create)
	return create.Account
}

func (l *ledger) account(t *testing.T, id uuid.UUID) *account.Account {
	t.Helper()
	acc, err := l.store.Reader().Accounts.FindByID(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, acc)
	return acc
}

func (l *ledger) history(t *testing.T, id uuid.UUID) []*balancehistory.Entry {
	t.Helper()
	entries, err := l.store.Reader().BalanceHistory.ListRange(context.Background(), &balancehistory.RangeFilter{
		AccountID: id,
		Start:     time.Time{},
		End:       time.Date(9999, 1, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	return entries
}

// assertBalance checks the balance and that it equals the newest history row.
func (l *ledger) assertBalance(t *testing.T, id uuid.UUID, want string) {
	t.Helper()
	acc := l.account(t, id)
	assert.Truef(t, acc.Balance.Equal(decimal.RequireFromString(want)),
		"balance = %s, want %s", acc.Balance, want)

	entries := l.history(t, id)
	if len(entries) == 0 {
		assert.True(t, acc.Balance.IsZero(), "non-zero balance without history")
		return
	}
	latest := entries[len(entries)-1]
	assert.Truef(t, latest.Balance.Equal(acc.Balance),
		"latest history %s != balance %s\n%s", latest.Balance, acc.Balance, spew.Sdump(entries))
}

func (l *ledger) seedCategories(t *testing.T, userID uuid.UUID) []*category.Category {
	t.Helper()
	seed := &actions.SeedDefaultCategories{UserID: userID, Now: now}
	l.mustRun(t, seed)
	return seed.Categories
}

func findCategory(t *testing.T, cats []*category.Category, name string) *category.Category {
	t.Helper()
	for _, c := range cats {
		if c.Name == name {
			return c
		}
	}
	t.Fatalf("category %q not seeded", name)
	return nil
}

func findSubcategory(t *testing.T, c *category.Category, name string) *category.Subcategory {
	t.Helper()
	for _, s := range c.Subcategories {
		if s.Name == name {
			return s
		}
	}
	t.Fatalf("subcategory %q not in %q", name, c.Name)
	return nil
}

func newUserID() uuid.UUID {
	return uuid.Must(uuid.NewV4())
}

func nullID(id uuid.UUID) uuid.NullUUID {
	return uuid.NullUUID{UUID: id, Valid: true}
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
