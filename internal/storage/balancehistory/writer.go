package balancehistory

import (
	"context"

	"github.com/gofrs/uuid/v5"
	"github.com/stephenafamo/bob"
	"github.com/stephenafamo/bob/dialect/psql"
	"github.com/stephenafamo/bob/dialect/psql/im"
	"github.com/stephenafamo/scan"
)

type Writer struct {
	tx bob.Executor
	Reader
}

var _ IWriter = (*Writer)(nil)

func NewWriter(tx bob.Executor) *Writer {
	return &Writer{
		tx:     tx,
		Reader: Reader{exec: tx},
	}
}

// Insert appends an entry. The sequence is assigned by the database.
func (w *Writer) Insert(ctx context.Context, create *EntryCreate) (*Entry, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return nil, err
	}

	q := psql.Insert(
		im.Into(tableName, "id", "account_id", "balance", "recorded_at"),
		im.Values(psql.Arg(id, create.AccountID, create.Balance, create.RecordedAt)),
		im.Returning(columns...),
	)

	row, err := bob.One(ctx, w.tx, q, scan.StructMapper[entryRow]())
	if err != nil {
		return nil, err
	}
	return rowToEntry(row), nil
}
