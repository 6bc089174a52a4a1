package actions

import (
	"context"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"

	"github.com/carson-networks/ledger-server/internal/storage"
	"github.com/carson-networks/ledger-server/internal/storage/balancehistory"
)

// ReconcileBalance sets an absolute balance by applying the difference.
type ReconcileBalance struct {
	UserID     uuid.UUID
	AccountID  uuid.UUID
	NewBalance decimal.Decimal
	Now        time.Time

	Entry *balancehistory.Entry
}

var _ IAction = (*ReconcileBalance)(nil)

func (r *ReconcileBalance) Perform(ctx context.Context, writer *storage.Writer) error {
	acc, err := lockOwnedAccount(ctx, writer, r.UserID, r.AccountID)
	if err != nil {
		return err
	}

	delta := &ApplyDelta{
		AccountID: r.AccountID,
		Delta:     r.NewBalance.Round(moneyPlaces).Sub(acc.Balance),
		Now:       r.Now,
	}
	if err = delta.Perform(ctx, writer); err != nil {
		return err
	}
	r.Entry = delta.Entry
	return nil
}
