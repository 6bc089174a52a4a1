package storage

import (
	"github.com/stephenafamo/bob"

	"github.com/carson-networks/ledger-server/internal/storage/account"
	"github.com/carson-networks/ledger-server/internal/storage/balancehistory"
	"github.com/carson-networks/ledger-server/internal/storage/categorization"
	"github.com/carson-networks/ledger-server/internal/storage/category"
	"github.com/carson-networks/ledger-server/internal/storage/recurring"
	"github.com/carson-networks/ledger-server/internal/storage/transaction"
	"github.com/carson-networks/ledger-server/internal/storage/transfer"
)

// Reader groups the read side of every table. It observes committed state only.
type Reader struct {
	Accounts        account.IReader
	BalanceHistory  balancehistory.IReader
	Transactions    transaction.IReader
	Transfers       transfer.IReader
	Recurring       recurring.IReader
	Categorizations categorization.IReader
	Categories      category.IReader
}

func NewReader(exec bob.Executor) *Reader {
	return &Reader{
		Accounts:        account.NewReader(exec),
		BalanceHistory:  balancehistory.NewReader(exec),
		Transactions:    transaction.NewReader(exec),
		Transfers:       transfer.NewReader(exec),
		Recurring:       recurring.NewReader(exec),
		Categorizations: categorization.NewReader(exec),
		Categories:      category.NewReader(exec),
	}
}
