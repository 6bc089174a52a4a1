package transaction

import (
	"context"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/stephenafamo/bob"
	"github.com/stephenafamo/bob/dialect/psql"
	"github.com/stephenafamo/bob/dialect/psql/im"
	"github.com/stephenafamo/bob/dialect/psql/um"
	"github.com/stephenafamo/scan"

	"github.com/carson-networks/ledger-server/internal/storage/sqlconfig"
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

func (w *Writer) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*Transaction, error) {
	return w.find(ctx, id, true)
}

// Insert creates a new transaction and returns the stored row.
func (w *Writer) Insert(ctx context.Context, create *TransactionCreate, now time.Time) (*Transaction, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return nil, err
	}

	q := psql.Insert(
		im.Into(tableName, columnNames...),
		im.Values(psql.Arg(
			id,
			create.UserID,
			create.AccountID,
			int16(create.Type),
			create.Amount,
			create.Description,
			create.TransactionDate,
			create.CategoryID,
			create.SubcategoryID,
			create.RecurringID.Valid,
			create.RecurringID,
			create.OriginalText,
			false,
			now,
		)),
		im.Returning(columns...),
	)

	row, err := bob.One(ctx, w.tx, q, scan.StructMapper[transactionRow]())
	if sqlconfig.IsUniqueViolation(err, occurrenceConstraint) {
		return nil, ErrDuplicateOccurrence
	}
	if err != nil {
		return nil, err
	}
	return rowToTransaction(row), nil
}

func (w *Writer) UpdateCategorization(ctx context.Context, id uuid.UUID, c Categorization) error {
	q := psql.Update(
		um.Table(tableName),
		um.SetCol("category_id").ToArg(c.CategoryID),
		um.SetCol("subcategory_id").ToArg(c.SubcategoryID),
		um.SetCol("auto_categorized").ToArg(c.AutoCategorized),
		um.Where(psql.Quote("id").EQ(psql.Arg(id))),
	)
	_, err := bob.Exec(ctx, w.tx, q)
	return err
}
