package storage

import (
	"context"

	"github.com/stephenafamo/bob"

	"github.com/carson-networks/ledger-server/internal/storage/account"
	"github.com/carson-networks/ledger-server/internal/storage/balancehistory"
	"github.com/carson-networks/ledger-server/internal/storage/categorization"
	"github.com/carson-networks/ledger-server/internal/storage/category"
	"github.com/carson-networks/ledger-server/internal/storage/recurring"
	"github.com/carson-networks/ledger-server/internal/storage/transaction"
	"github.com/carson-networks/ledger-server/internal/storage/transfer"
)

// Committer ends a unit of work.
type Committer interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// Writer groups the write side of every table, bound to one unit of work.
// Nothing written through it is visible to a Reader until Commit.
type Writer struct {
	Tx              Committer
	Accounts        account.IWriter
	BalanceHistory  balancehistory.IWriter
	Transactions    transaction.IWriter
	Transfers       transfer.IWriter
	Recurring       recurring.IWriter
	Categorizations categorization.IWriter
	Categories      category.IWriter
}

func NewWriter(tx *bob.Tx) *Writer {
	return &Writer{
		Tx:              tx,
		Accounts:        account.NewWriter(tx),
		BalanceHistory:  balancehistory.NewWriter(tx),
		Transactions:    transaction.NewWriter(tx),
		Transfers:       transfer.NewWriter(tx),
		Recurring:       recurring.NewWriter(tx),
		Categorizations: categorization.NewWriter(tx),
		Categories:      category.NewWriter(tx),
	}
}

func (w *Writer) Commit(ctx context.Context) error {
	return w.Tx.Commit(ctx)
}

func (w *Writer) Rollback(ctx context.Context) error {
	return w.Tx.Rollback(ctx)
}
