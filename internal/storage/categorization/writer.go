package categorization

import (
	"context"
	"time"

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

func (w *Writer) Insert(ctx context.Context, create *EntryCreate, now time.Time) (*Entry, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return nil, err
	}

	q := psql.Insert(
		im.Into(tableName, columnNames[:len(columnNames)-1]...),
		im.Values(psql.Arg(
			id,
			create.TransactionID,
			create.OriginalCategoryID,
			create.OriginalSubcategoryID,
			create.FinalCategoryID,
			create.FinalSubcategoryID,
			create.ConfidenceScore,
			now,
		)),
		im.Returning(columns...),
	)

	row, err := bob.One(ctx, w.tx, q, scan.StructMapper[entryRow]())
	if err != nil {
		return nil, err
	}
	return rowToEntry(row), nil
}
