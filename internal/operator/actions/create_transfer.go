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
	"github.com/carson-networks/ledger-server/internal/storage/transfer"
)

const defaultTransferDescription = "Transfer"

// CreateTransfer is the transfer linker. It writes an EXPENSE leg on the
// source account, an INCOME leg on the destination account and the transfer
// binding them, then applies both balance effects.
type CreateTransfer struct {
	UserID               uuid.UUID
	SourceAccountID      uuid.UUID
	DestinationAccountID uuid.UUID
	Amount               decimal.Decimal
	Date                 time.Time
	Description          string
	Now                  time.Time

	Transfer    *transfer.Transfer
	Source      *transaction.Transaction
	Destination *transaction.Transaction
}

var _ IAction = (*CreateTransfer)(nil)

func (c *CreateTransfer) Perform(ctx context.Context, writer *storage.Writer) error {
	amount, err := normalizeAmount(c.Amount)
	if err != nil {
		return err
	}
	if c.SourceAccountID == c.DestinationAccountID {
		return ledgererr.ErrSameAccountTransfer
	}

	locked, err := lockAccounts(ctx, writer, c.SourceAccountID, c.DestinationAccountID)
	if err != nil {
		return err
	}
	src, dst := locked[c.SourceAccountID], locked[c.DestinationAccountID]
	if src == nil || !src.OwnedBy(c.UserID) || dst == nil {
		return ledgererr.ErrAccountNotFound
	}
	if !dst.OwnedBy(c.UserID) {
		return ledgererr.ErrCrossUserTransfer
	}
	if !src.IsActive() || !dst.IsActive() {
		return ledgererr.ErrAccountInactive
	}

	description := c.Description
	if description == "" {
		description = defaultTransferDescription
	}
	date := recurrence.Day(c.Date)

	c.Source, err = c.insertLeg(ctx, writer, c.SourceAccountID, transaction.TypeExpense, amount, date, description)
	if err != nil {
		return err
	}
	c.Destination, err = c.insertLeg(ctx, writer, c.DestinationAccountID, transaction.TypeIncome, amount, date, description)
	if err != nil {
		return err
	}

	c.Transfer, err = writer.Transfers.Insert(ctx, &transfer.TransferCreate{
		UserID:                   c.UserID,
		SourceTransactionID:      c.Source.ID,
		DestinationTransactionID: c.Destination.ID,
	}, c.Now)
	if err != nil {
		return err
	}

	for _, leg := range []*transaction.Transaction{c.Source, c.Destination} {
		delta := &ApplyDelta{
			AccountID:  leg.AccountID,
			Delta:      signedAmount(leg.Type, amount),
			OccurredAt: date,
			Now:        c.Now,
		}
		if err = delta.Perform(ctx, writer); err != nil {
			return err
		}
	}
	return nil
}

func (c *CreateTransfer) insertLeg(
	ctx context.Context,
	writer *storage.Writer,
	accountID uuid.UUID,
	txType transaction.Type,
	amount decimal.Decimal,
	date time.Time,
	description string,
) (*transaction.Transaction, error) {
	return writer.Transactions.Insert(ctx, &transaction.TransactionCreate{
		UserID:          c.UserID,
		AccountID:       accountID,
		Type:            txType,
		Amount:          amount,
		Description:     description,
		TransactionDate: date,
	}, c.Now)
}
