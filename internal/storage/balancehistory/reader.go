package balancehistory

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
	"github.com/stephenafamo/bob"
	"github.com/stephenafamo/bob/dialect/psql"
	"github.com/stephenafamo/bob/dialect/psql/sm"
	"github.com/stephenafamo/scan"

	"github.com/carson-networks/ledger-server/internal/storage/sqlconfig"
)

const tableName = "account_balance_history"

var columns = sqlconfig.Columns("id", "account_id", "balance", "recorded_at", "seq")

type entryRow struct {
	ID         uuid.UUID       `db:"id"`
	AccountID  uuid.UUID       `db:"account_id"`
	Balance    decimal.Decimal `db:"balance"`
	RecordedAt time.Time       `db:"recorded_at"`
	Seq        int64           `db:"seq"`
}

func rowToEntry(row entryRow) *Entry {
	return &Entry{
		ID:         row.ID,
		AccountID:  row.AccountID,
		Balance:    row.Balance,
		RecordedAt: row.RecordedAt,
		Sequence:   row.Seq,
	}
}

type Reader struct {
	exec bob.Executor
}

var _ IReader = (*Reader)(nil)

func NewReader(exec bob.Executor) *Reader {
	return &Reader{exec: exec}
}

func (r *Reader) ListRange(ctx context.Context, filter *RangeFilter) ([]*Entry, error) {
	q := psql.Select(
		sm.Columns(columns...),
		sm.From(tableName),
		sm.Where(psql.Quote("account_id").EQ(psql.Arg(filter.AccountID))),
		sm.Where(psql.Quote("recorded_at").GTE(psql.Arg(filter.Start))),
		sm.Where(psql.Quote("recorded_at").LTE(psql.Arg(filter.End))),
		sm.OrderBy(psql.Quote("recorded_at")).Asc(),
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

func (r *Reader) Latest(ctx context.Context, accountID uuid.UUID) (*Entry, error) {
	q := psql.Select(
		sm.Columns(columns...),
		sm.From(tableName),
		sm.Where(psql.Quote("account_id").EQ(psql.Arg(accountID))),
		sm.OrderBy(psql.Quote("recorded_at")).Desc(),
		sm.OrderBy(psql.Quote("seq")).Desc(),
		sm.Limit(1),
	)

	row, err := bob.One(ctx, r.exec, q, scan.StructMapper[entryRow]())
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return rowToEntry(row), nil
}
