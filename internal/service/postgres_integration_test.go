//go:build integration

package service

import (
	"context"
	"database/sql"
	"io"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/davecgh/go-spew/spew"
	"github.com/gofrs/uuid/v5"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/carson-networks/ledger-server/internal/ledgererr"
	"github.com/carson-networks/ledger-server/internal/operator"
	"github.com/carson-networks/ledger-server/internal/storage"
	"github.com/carson-networks/ledger-server/internal/storage/category"
	"github.com/carson-networks/ledger-server/internal/storage/transaction"
)

// newPostgresService starts a disposable Postgres, applies the migrations and
// wires a Service over the bob-backed store.
func newPostgresService(t *testing.T) *Service {
	t.Helper()
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("ledger"),
		tcpostgres.WithUsername("test"),
		tcpostgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, container.Terminate(ctx))
	})

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := sql.Open("postgres", dsn)
	require.NoError(t, err)

	driver, err := postgres.WithInstance(db, &postgres.Config{})
	require.NoError(t, err)
	dir, err := filepath.Abs("../../migrations")
	require.NoError(t, err)
	m, err := migrate.NewWithDatabaseInstance("file://"+dir, "postgres", driver)
	require.NoError(t, err)
	require.NoError(t, m.Up())

	store := storage.NewStorageFromDB(db)
	t.Cleanup(func() { _ = store.Close() })
	require.NoError(t, store.Ping(ctx))

	logger := logrus.New()
	logger.SetOutput(io.Discard)
	ops := operator.NewOperatorDelegator(store, logger, 4, 64)
	ops.Start()
	t.Cleanup(ops.Stop)

	return NewService(store, ops, tickingClock())
}

func TestIntegration_LedgerScenario(t *testing.T) {
	svc := newPostgresService(t)
	ctx := context.Background()
	userID := newID()

	checking := mustAccount(t, svc, userID, "1000")
	savings := mustAccount(t, svc, userID, "0")

	cats, created, err := svc.Category.SeedDefaults(ctx, userID)
	require.NoError(t, err)
	require.True(t, created)
	var food *category.Category
	for _, c := range cats {
		if c.Name == "Alimentación" {
			food = c
		}
	}
	require.NotNil(t, food, spew.Sdump(cats))
	require.NotEmpty(t, food.Subcategories)

	tx, err := svc.Transaction.CreateTransaction(ctx, transaction.TransactionCreate{
		UserID:          userID,
		AccountID:       checking.ID,
		Type:            transaction.TypeExpense,
		Amount:          decimal.RequireFromString("120.50"),
		Description:     "Groceries",
		TransactionDate: day(2025, 4, 10),
	}, decimal.NullDecimal{})
	require.NoError(t, err)

	_, err = svc.Transaction.Categorize(ctx, userID, tx.ID, nullID(food.ID), nullID(food.Subcategories[0].ID),
		decimal.NewNullDecimal(decimal.NewFromInt(87)))
	require.NoError(t, err)

	transfer, err := svc.Transfer.CreateTransfer(ctx, TransferRequest{
		UserID:               userID,
		SourceAccountID:      checking.ID,
		DestinationAccountID: savings.ID,
		Amount:               decimal.NewFromInt(300),
		Date:                 day(2025, 4, 11),
	})
	require.NoError(t, err, spew.Sdump(transfer))

	got, err := svc.Account.GetAccount(ctx, userID, checking.ID)
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("579.50").Equal(got.Balance), spew.Sdump(got))
	got, err = svc.Account.GetAccount(ctx, userID, savings.ID)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(300).Equal(got.Balance), spew.Sdump(got))

	history, err := svc.Transaction.CategorizationHistory(ctx, userID, tx.ID)
	require.NoError(t, err)
	require.Len(t, history, 1, spew.Sdump(history))
	assert.False(t, history[0].OriginalCategoryID.Valid)
	assert.Equal(t, food.ID, history[0].FinalCategoryID.UUID)

	reread, err := svc.Transfer.GetTransfer(ctx, userID, transfer.Transfer.ID)
	require.NoError(t, err)
	assert.Equal(t, transfer.Source.ID, reread.Source.ID)
}

func TestIntegration_ConcurrentSweepsGenerateOnce(t *testing.T) {
	svc := newPostgresService(t)
	ctx := context.Background()
	userID := newID()
	acc := mustAccount(t, svc, userID, "0")
	tpl := salaryTemplate(t, svc, userID, acc.ID)

	var wg sync.WaitGroup
	results := make([]*SweepResult, 3)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			result, err := svc.Recurring.MaterializeDue(ctx, day(2025, 4, 30))
			assert.NoError(t, err)
			results[i] = result
		}(i)
	}
	wg.Wait()

	created := 0
	for _, r := range results {
		require.NotNil(t, r)
		created += r.Created
		assert.Zero(t, r.Failed, spew.Sdump(r))
	}
	assert.Equal(t, 4, created)

	got, err := svc.Account.GetAccount(ctx, userID, acc.ID)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(400).Equal(got.Balance), spew.Sdump(got))

	_, err = svc.Recurring.Materialize(ctx, userID, tpl.ID, day(2025, 2, 28))
	assert.ErrorIs(t, err, ledgererr.ErrAlreadyGenerated)
}

func TestIntegration_ConcurrentTransfersAndDeltas(t *testing.T) {
	svc := newPostgresService(t)
	ctx := context.Background()
	userID := newID()
	a := mustAccount(t, svc, userID, "1000")
	b := mustAccount(t, svc, userID, "1000")

	const rounds = 12
	var wg sync.WaitGroup
	run := func(f func() error) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, f())
		}()
	}
	for i := 0; i < rounds; i++ {
		run(func() error {
			_, err := svc.Transfer.CreateTransfer(ctx, TransferRequest{
				UserID: userID, SourceAccountID: a.ID, DestinationAccountID: b.ID,
				Amount: decimal.NewFromInt(10), Date: day(2025, 4, 15),
			})
			return err
		})
		run(func() error {
			_, err := svc.Transfer.CreateTransfer(ctx, TransferRequest{
				UserID: userID, SourceAccountID: b.ID, DestinationAccountID: a.ID,
				Amount: decimal.NewFromInt(5), Date: day(2025, 4, 15),
			})
			return err
		})
		run(func() error {
			_, err := svc.Transaction.CreateTransaction(ctx, transaction.TransactionCreate{
				UserID: userID, AccountID: a.ID, Type: transaction.TypeExpense,
				Amount: decimal.NewFromInt(1), TransactionDate: day(2025, 4, 15),
			}, decimal.NullDecimal{})
			return err
		})
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Minute):
		t.Fatal("concurrent ledger writes did not finish")
	}

	expect := map[string]struct {
		id      uuid.UUID
		balance string
		deltas  int
	}{
		"A": {a.ID, "928", 3 * rounds},
		"B": {b.ID, "1060", 2 * rounds},
	}
	for name, want := range expect {
		got, err := svc.Account.GetAccount(ctx, userID, want.id)
		require.NoError(t, err)
		assert.True(t, decimal.RequireFromString(want.balance).Equal(got.Balance), "%s: %s", name, spew.Sdump(got))

		history, err := svc.Account.BalanceHistory(ctx, userID, want.id, day(2000, 1, 1), day(2100, 1, 1))
		require.NoError(t, err)
		require.Len(t, history, want.deltas+1, name)
		assert.True(t, got.Balance.Equal(history[len(history)-1].Balance), "%s: %s", name, spew.Sdump(history))
	}
}

func TestIntegration_SweepIgnoresInactiveAccounts(t *testing.T) {
	svc := newPostgresService(t)
	ctx := context.Background()
	userID := newID()
	closed := mustAccount(t, svc, userID, "0")
	salaryTemplate(t, svc, userID, closed.ID)
	require.NoError(t, svc.Account.DeactivateAccount(ctx, userID, closed.ID))

	result, err := svc.Recurring.MaterializeDue(ctx, day(2025, 4, 30))

	require.NoError(t, err)
	assert.Equal(t, &SweepResult{}, result)
}
