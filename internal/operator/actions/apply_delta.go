package actions

import (
	"context"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"

	"github.com/carson-networks/ledger-server/internal/ledgererr"
	"github.com/carson-networks/ledger-server/internal/storage"
	"github.com/carson-networks/ledger-server/internal/storage/balancehistory"
)

// ApplyDelta is the balance ledger. It is the only writer of an account's
// balance and appends the matching history row in the same unit of work.
type ApplyDelta struct {
	AccountID uuid.UUID
	Delta     decimal.Decimal
	// OccurredAt is the event time. Zero means Now.
	OccurredAt time.Time
	Now        time.Time

	NewBalance decimal.Decimal
	Entry      *balancehistory.Entry
}

var _ IAction = (*ApplyDelta)(nil)

func (a *ApplyDelta) Perform(ctx context.Context, writer *storage.Writer) error {
	acc, err := writer.Accounts.FindByIDForUpdate(ctx, a.AccountID)
	if err != nil {
		return err
	}
	if acc == nil {
		return ledgererr.ErrAccountNotFound
	}
	if !acc.IsActive() {
		return ledgererr.ErrAccountInactive
	}

	recordedAt := a.OccurredAt
	if recordedAt.IsZero() {
		recordedAt = a.Now
	}
	latest, err := writer.BalanceHistory.Latest(ctx, a.AccountID)
	if err != nil {
		return err
	}
	// History stays ordered by recordedAt even for back-dated events.
	if latest != nil && latest.RecordedAt.After(recordedAt) {
		recordedAt = latest.RecordedAt
	}

	newBalance := acc.Balance.Add(a.Delta).Round(moneyPlaces)
	if err = writer.Accounts.UpdateBalance(ctx, a.AccountID, newBalance, a.Now); err != nil {
		return err
	}
	entry, err := writer.BalanceHistory.Insert(ctx, &balancehistory.EntryCreate{
		AccountID:  a.AccountID,
		Balance:    newBalance,
		RecordedAt: recordedAt,
	})
	if err != nil {
		return err
	}

	a.NewBalance = newBalance
	a.Entry = entry
	return nil
}
