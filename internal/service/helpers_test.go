package service

import (
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/carson-networks/ledger-server/internal/operator"
	"github.com/carson-networks/ledger-server/internal/operator/actions"
	"github.com/carson-networks/ledger-server/internal/storage/account"
	"github.com/carson-networks/ledger-server/internal/storage/memstore"
)

var start = time.Date(2025, 5, 1, 8, 0, 0, 0, time.UTC)

// tickingClock advances one second per reading so rows have distinct timestamps.
func tickingClock() Clock {
	var mu sync.Mutex
	current := start
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		current = current.Add(time.Second)
		return current
	}
}

func newTestService(t *testing.T) (*Service, *memstore.Store) {
	t.Helper()
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	store := memstore.New()
	ops := operator.NewOperatorDelegator(store, logger, 2, 16)
	ops.Start()
	t.Cleanup(ops.Stop)
	return NewService(store, ops, tickingClock()), store
}

func mustAccount(t *testing.T, svc *Service, userID uuid.UUID, balance string) *account.Account {
	t.Helper()
	acc, err := svc.Account.CreateAccount(context.Background(), account.AccountCreate{
		UserID:         userID,
		Name:           "Checking",
		Type:           account.AccountTypeDebit,
		InitialBalance: decimal.RequireFromString(balance),
	})
	require.NoError(t, err)
	return acc
}

func newID() uuid.UUID {
	return uuid.Must(uuid.NewV4())
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// mockProcessor is a mock for Processor.
type mockProcessor struct {
	mock.Mock
}

func (m *mockProcessor) Process(ctx context.Context, action actions.IAction) error {
	args := m.Called(ctx, action)
	return args.Error(0)
}

func nullID(id uuid.UUID) uuid.NullUUID {
	return uuid.NullUUID{UUID: id, Valid: true}
}
