// Package actions holds the ledger mutations. Each action runs inside one
// unit of work handed to it by the operator and either completes every write
// or returns an error, in which case the operator rolls everything back.
//
// Actions lock rows in a fixed order: the recurring template first, then
// accounts ascending by id.
package actions

import (
	"bytes"
	"context"
	"slices"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"

	"github.com/carson-networks/ledger-server/internal/ledgererr"
	"github.com/carson-networks/ledger-server/internal/storage"
	"github.com/carson-networks/ledger-server/internal/storage/account"
	"github.com/carson-networks/ledger-server/internal/storage/transaction"
)

type IAction interface {
	Perform(ctx context.Context, writer *storage.Writer) error
}

// moneyPlaces is the precision of every stored amount.
const moneyPlaces = 2

// normalizeAmount rounds amount to cents and requires it to be positive.
func normalizeAmount(amount decimal.Decimal) (decimal.Decimal, error) {
	amount = amount.Round(moneyPlaces)
	if !amount.IsPositive() {
		return amount, ledgererr.ErrInvalidAmount
	}
	return amount, nil
}

// signedAmount is the balance effect of a transaction: INCOME credits, EXPENSE debits.
func signedAmount(t transaction.Type, amount decimal.Decimal) decimal.Decimal {
	if t == transaction.TypeExpense {
		return amount.Neg()
	}
	return amount
}

// lockOwnedAccount locks an account the caller owns and expects to mutate.
func lockOwnedAccount(ctx context.Context, writer *storage.Writer, userID, accountID uuid.UUID) (*account.Account, error) {
	acc, err := writer.Accounts.FindByIDForUpdate(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if acc == nil || !acc.OwnedBy(userID) {
		return nil, ledgererr.ErrAccountNotFound
	}
	if !acc.IsActive() {
		return nil, ledgererr.ErrAccountInactive
	}
	return acc, nil
}

// lockAccounts takes the row locks of ids in ascending order and returns the
// rows keyed by id. Missing rows are absent from the map.
func lockAccounts(ctx context.Context, writer *storage.Writer, ids ...uuid.UUID) (map[uuid.UUID]*account.Account, error) {
	ordered := slices.Clone(ids)
	slices.SortFunc(ordered, func(a, b uuid.UUID) int {
		return bytes.Compare(a.Bytes(), b.Bytes())
	})
	ordered = slices.Compact(ordered)

	locked := make(map[uuid.UUID]*account.Account, len(ordered))
	for _, id := range ordered {
		acc, err := writer.Accounts.FindByIDForUpdate(ctx, id)
		if err != nil {
			return nil, err
		}
		if acc != nil {
			locked[id] = acc
		}
	}
	return locked, nil
}
