package actions

import (
	"context"
	"time"

	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/ledger-server/internal/ledgererr"
	"github.com/carson-networks/ledger-server/internal/storage"
	"github.com/carson-networks/ledger-server/internal/storage/account"
)

// DeactivateAccount soft-deletes an account. Its history and transactions stay.
type DeactivateAccount struct {
	UserID    uuid.UUID
	AccountID uuid.UUID
	Now       time.Time
}

var _ IAction = (*DeactivateAccount)(nil)

func (d *DeactivateAccount) Perform(ctx context.Context, writer *storage.Writer) error {
	acc, err := writer.Accounts.FindByIDForUpdate(ctx, d.AccountID)
	if err != nil {
		return err
	}
	if acc == nil || !acc.OwnedBy(d.UserID) || !acc.IsActive() {
		return ledgererr.ErrAccountNotFound
	}
	return writer.Accounts.SetStatus(ctx, d.AccountID, account.StatusInactive, d.Now)
}
