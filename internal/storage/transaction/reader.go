package transaction

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
	"github.com/stephenafamo/bob"
	"github.com/stephenafamo/bob/dialect/psql"
	"github.com/stephenafamo/bob/dialect/psql/dialect"
	"github.com/stephenafamo/bob/dialect/psql/sm"
	"github.com/stephenafamo/scan"

	"github.com/carson-networks/ledger-server/internal/storage/sqlconfig"
)

const tableName = "transactions"

// occurrenceConstraint keeps one materialized transaction per template and date.
const occurrenceConstraint = "transactions_recurring_occurrence_key"

var columnNames = []string{
	"id", "user_id", "account_id", "type", "amount", "description", "transaction_date",
	"category_id", "subcategory_id", "is_recurring", "recurring_id", "original_text",
	"auto_categorized", "created_at",
}

var columns = sqlconfig.Columns(columnNames...)

type transactionRow struct {
	ID              uuid.UUID       `db:"id"`
	UserID          uuid.UUID       `db:"user_id"`
	AccountID       uuid.UUID       `db:"account_id"`
	Type            int16           `db:"type"`
	Amount          decimal.Decimal `db:"amount"`
	Description     string          `db:"description"`
	TransactionDate time.Time       `db:"transaction_date"`
	CategoryID      uuid.NullUUID   `db:"category_id"`
	SubcategoryID   uuid.NullUUID   `db:"subcategory_id"`
	IsRecurring     bool            `db:"is_recurring"`
	RecurringID     uuid.NullUUID   `db:"recurring_id"`
	OriginalText    string          `db:"original_text"`
	AutoCategorized bool            `db:"auto_categorized"`
	CreatedAt       time.Time       `db:"created_at"`
}

func rowToTransaction(row transactionRow) *Transaction {
	return &Transaction{
		ID:              row.ID,
		UserID:          row.UserID,
		AccountID:       row.AccountID,
		Type:            Type(row.Type),
		Amount:          row.Amount,
		Description:     row.Description,
		TransactionDate: row.TransactionDate.UTC(),
		CategoryID:      row.CategoryID,
		SubcategoryID:   row.SubcategoryID,
		IsRecurring:     row.IsRecurring,
		RecurringID:     row.RecurringID,
		OriginalText:    row.OriginalText,
		AutoCategorized: row.AutoCategorized,
		CreatedAt:       row.CreatedAt,
	}
}

type Reader struct {
	exec bob.Executor
}

var _ IReader = (*Reader)(nil)

func NewReader(exec bob.Executor) *Reader {
	return &Reader{exec: exec}
}

func (r *Reader) FindByID(ctx context.Context, id uuid.UUID) (*Transaction, error) {
	return r.find(ctx, id, false)
}

func (r *Reader) find(ctx context.Context, id uuid.UUID, forUpdate bool) (*Transaction, error) {
	queryMods := []bob.Mod[*dialect.SelectQuery]{
		sm.Columns(columns...),
		sm.From(tableName),
		sm.Where(psql.Quote("id").EQ(psql.Arg(id))),
	}
	if forUpdate {
		queryMods = append(queryMods, sm.ForUpdate())
	}

	row, err := bob.One(ctx, r.exec, psql.Select(queryMods...), scan.StructMapper[transactionRow]())
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return rowToTransaction(row), nil
}

func (r *Reader) List(ctx context.Context, filter *TransactionFilter) ([]*Transaction, error) {
	queryMods := []bob.Mod[*dialect.SelectQuery]{
		sm.Columns(columns...),
		sm.From(tableName),
		sm.Where(psql.Quote("user_id").EQ(psql.Arg(filter.UserID))),
	}
	if filter.AccountID != nil {
		queryMods = append(queryMods, sm.Where(psql.Quote("account_id").EQ(psql.Arg(*filter.AccountID))))
	}
	if filter.CategoryID != nil {
		queryMods = append(queryMods, sm.Where(psql.Quote("category_id").EQ(psql.Arg(*filter.CategoryID))))
	}
	if filter.MaxCreationTime != nil {
		queryMods = append(queryMods, sm.Where(psql.Quote("created_at").LTE(psql.Arg(*filter.MaxCreationTime))))
	}
	if filter.Limit > 0 {
		queryMods = append(queryMods, sm.Limit(filter.Limit+1))
	}
	if filter.Offset > 0 {
		queryMods = append(queryMods, sm.Offset(filter.Offset))
	}
	queryMods = append(queryMods,
		sm.OrderBy(psql.Quote("created_at")).Desc(),
		sm.OrderBy(psql.Quote("id")).Desc(),
	)

	rows, err := bob.All(ctx, r.exec, psql.Select(queryMods...), scan.StructMapper[transactionRow]())
	if err != nil {
		return nil, err
	}
	result := make([]*Transaction, len(rows))
	for i, row := range rows {
		result[i] = rowToTransaction(row)
	}
	return result, nil
}
