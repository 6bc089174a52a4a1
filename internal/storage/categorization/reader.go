package categorization

import (
	"context"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
	"github.com/stephenafamo/bob"
	"github.com/stephenafamo/bob/dialect/psql"
	"github.com/stephenafamo/bob/dialect/psql/sm"
	"github.com/stephenafamo/scan"

	"github.com/carson-networks/ledger-server/internal/storage/sqlconfig"
)

const tableName = "categorization_history"

var columnNames = []string{
	"id", "transaction_id", "original_category_id", "original_subcategory_id",
	"final_category_id", "final_subcategory_id", "confidence_score", "created_at", "seq",
}

var columns = sqlconfig.Columns(columnNames...)

type entryRow struct {
	ID                    uuid.UUID           `db:"id"`
	TransactionID         uuid.UUID           `db:"transaction_id"`
	OriginalCategoryID    uuid.NullUUID       `db:"original_category_id"`
	OriginalSubcategoryID uuid.NullUUID       `db:"original_subcategory_id"`
	FinalCategoryID       uuid.NullUUID       `db:"final_category_id"`
	FinalSubcategoryID    uuid.NullUUID       `db:"final_subcategory_id"`
	ConfidenceScore       decimal.NullDecimal `db:"confidence_score"`
	CreatedAt             time.Time           `db:"created_at"`
	Seq                   int64               `db:"seq"`
}

func rowToEntry(row entryRow) *Entry {
	return &Entry{
		ID:                    row.ID,
		TransactionID:         row.TransactionID,
		OriginalCategoryID:    row.OriginalCategoryID,
		OriginalSubcategoryID: row.OriginalSubcategoryID,
		FinalCategoryID:       row.FinalCategoryID,
		FinalSubcategoryID:    row.FinalSubcategoryID,
		ConfidenceScore:       row.ConfidenceScore,
		CreatedAt:             row.CreatedAt,
	}
}

type Reader struct {
	exec bob.Executor
}

var _ IReader = (*Reader)(nil)

func NewReader(exec bob.Executor) *Reader {
	return &Reader{exec: exec}
}

func (r *Reader) ListByTransaction(ctx context.Context, transactionID uuid.UUID) ([]*Entry, error) {
	q := psql.Select(
		sm.Columns(columns...),
		sm.From(tableName),
		sm.Where(psql.Quote("transaction_id").EQ(psql.Arg(transactionID))),
		sm.OrderBy(psql.Quote("seq")).Asc(),
	)

	rows, err := bob.All(ctx, r.exec, q, scan.StructMapper[entryRow]())
	if err != nil {
		return nil, err
	}
	entries := make([]*Entry, len(rows))
	for i, row := range rows {
		entries[i] = rowToEntry(row)
	}
	return entries, nil
}
