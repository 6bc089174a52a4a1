package actions

import (
	"context"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"

	"github.com/carson-networks/ledger-server/internal/ledgererr"
	"github.com/carson-networks/ledger-server/internal/recurrence"
	"github.com/carson-networks/ledger-server/internal/storage"
	"github.com/carson-networks/ledger-server/internal/storage/transaction"
)

// CreateTransaction records an INCOME or EXPENSE and applies it to the
// account balance. A category given at creation goes through the auditor.
type CreateTransaction struct {
	Create     transaction.TransactionCreate
	Confidence decimal.NullDecimal
	Now        time.Time

	Transaction *transaction.Transaction
	NewBalance  decimal.Decimal
}

var _ IAction = (*CreateTransaction)(nil)

func (t *CreateTransaction) Perform(ctx context.Context, writer *storage.Writer) error {
	create := t.Create
	if create.Type != transaction.TypeIncome && create.Type != transaction.TypeExpense {
		return ledgererr.Newf(ledgererr.KindInvalidInput, ledgererr.CodeInvalidType,
			"transaction type must be INCOME or EXPENSE, got %s", create.Type)
	}
	amount, err := normalizeAmount(create.Amount)
	if err != nil {
		return err
	}
	confidence, err := normalizeConfidence(t.Confidence)
	if err != nil {
		return err
	}
	if err = validateClassification(ctx, writer, create.UserID, create.CategoryID, create.SubcategoryID); err != nil {
		return err
	}
	if _, err = lockOwnedAccount(ctx, writer, create.UserID, create.AccountID); err != nil {
		return err
	}

	categoryID, subcategoryID := create.CategoryID, create.SubcategoryID
	create.Amount = amount
	create.TransactionDate = recurrence.Day(create.TransactionDate)
	create.CategoryID = uuid.NullUUID{}
	create.SubcategoryID = uuid.NullUUID{}
	create.RecurringID = uuid.NullUUID{}

	txn, err := writer.Transactions.Insert(ctx, &create, t.Now)
	if err != nil {
		return err
	}

	delta := &ApplyDelta{
		AccountID:  txn.AccountID,
		Delta:      signedAmount(txn.Type, amount),
		OccurredAt: txn.TransactionDate,
		Now:        t.Now,
	}
	if err = delta.Perform(ctx, writer); err != nil {
		return err
	}

	if categoryID.Valid {
		if _, err = recordCategorization(ctx, writer, txn, categoryID, subcategoryID, confidence, t.Now); err != nil {
			return err
		}
	}

	t.Transaction = txn
	t.NewBalance = delta.NewBalance
	return nil
}
