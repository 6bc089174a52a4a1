package actions

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/carson-networks/ledger-server/internal/ledgererr"
	"github.com/carson-networks/ledger-server/internal/storage"
	"github.com/carson-networks/ledger-server/internal/storage/account"
)

type CreateAccount struct {
	Create account.AccountCreate
	Now    time.Time

	Account *account.Account
}

var _ IAction = (*CreateAccount)(nil)

func (c *CreateAccount) Perform(ctx context.Context, writer *storage.Writer) error {
	if !c.Create.Type.Valid() {
		return ledgererr.ErrInvalidType
	}
	if err := validateCreditTerms(c.Create.Type, c.Create.CreditLimit, c.Create.PaymentDay, c.Create.CutoffDay); err != nil {
		return err
	}

	// The balance starts at zero and the initial amount goes through the ledger.
	initial := c.Create.InitialBalance.Round(moneyPlaces)
	create := c.Create
	create.InitialBalance = decimal.Zero

	acc, err := writer.Accounts.Insert(ctx, &create, c.Now)
	if err != nil {
		return err
	}

	if !initial.IsZero() {
		delta := &ApplyDelta{AccountID: acc.ID, Delta: initial, Now: c.Now}
		if err = delta.Perform(ctx, writer); err != nil {
			return err
		}
		acc.Balance = delta.NewBalance
	}

	c.Account = acc
	return nil
}

// validateCreditTerms requires a credit limit and two distinct days of month
// on CREDIT accounts. Days given on other account types must still be valid days.
func validateCreditTerms(t account.AccountType, limit decimal.NullDecimal, paymentDay, cutoffDay *int) error {
	validDay := func(d *int) bool {
		return d == nil || (*d >= 1 && *d <= 31)
	}
	if !validDay(paymentDay) || !validDay(cutoffDay) {
		return ledgererr.Newf(ledgererr.KindInvalidInput, ledgererr.CodeInvalidCreditTerms,
			"payment and cutoff days must be between 1 and 31")
	}
	if t != account.AccountTypeCredit {
		return nil
	}
	if !limit.Valid || paymentDay == nil || cutoffDay == nil {
		return ledgererr.Newf(ledgererr.KindInvalidInput, ledgererr.CodeInvalidCreditTerms,
			"credit accounts require credit limit, payment day and cutoff day")
	}
	if limit.Decimal.IsNegative() {
		return ledgererr.Newf(ledgererr.KindInvalidInput, ledgererr.CodeInvalidCreditTerms,
			"credit limit must not be negative")
	}
	if *paymentDay == *cutoffDay {
		return ledgererr.Newf(ledgererr.KindInvalidInput, ledgererr.CodeInvalidCreditTerms,
			"payment day and cutoff day must differ")
	}
	return nil
}
