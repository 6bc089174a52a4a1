package actions

import (
	"context"
	"time"

	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/ledger-server/internal/ledgererr"
	"github.com/carson-networks/ledger-server/internal/storage"
	"github.com/carson-networks/ledger-server/internal/storage/account"
)

// UpdateAccount changes descriptive fields. Inactive accounts are not found.
type UpdateAccount struct {
	UserID    uuid.UUID
	AccountID uuid.UUID
	Update    account.AccountUpdate
	Now       time.Time

	Account *account.Account
}

var _ IAction = (*UpdateAccount)(nil)

func (u *UpdateAccount) Perform(ctx context.Context, writer *storage.Writer) error {
	acc, err := writer.Accounts.FindByIDForUpdate(ctx, u.AccountID)
	if err != nil {
		return err
	}
	if acc == nil || !acc.OwnedBy(u.UserID) || !acc.IsActive() {
		return ledgererr.ErrAccountNotFound
	}

	u.Update.Apply(acc)
	if err = validateCreditTerms(acc.Type, acc.CreditLimit, acc.PaymentDay, acc.CutoffDay); err != nil {
		return err
	}
	if err = writer.Accounts.Update(ctx, u.AccountID, &u.Update, u.Now); err != nil {
		return err
	}

	acc.UpdatedAt = u.Now
	u.Account = acc
	return nil
}
