package recurring

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

	"github.com/carson-networks/ledger-server/internal/recurrence"
	"github.com/carson-networks/ledger-server/internal/storage/account"
	"github.com/carson-networks/ledger-server/internal/storage/sqlconfig"
	"github.com/carson-networks/ledger-server/internal/storage/transaction"
)

const tableName = "recurring_transactions"

var columnNames = []string{
	"id", "user_id", "account_id", "category_id", "subcategory_id", "type", "amount",
	"description", "frequency", "start_date", "end_date", "last_generated_date", "status",
	"created_at", "updated_at",
}

var columns = sqlconfig.Columns(columnNames...)

type templateRow struct {
	ID                uuid.UUID       `db:"id"`
	UserID            uuid.UUID       `db:"user_id"`
	AccountID         uuid.UUID       `db:"account_id"`
	CategoryID        uuid.NullUUID   `db:"category_id"`
	SubcategoryID     uuid.NullUUID   `db:"subcategory_id"`
	Type              int16           `db:"type"`
	Amount            decimal.Decimal `db:"amount"`
	Description       string          `db:"description"`
	Frequency         int16           `db:"frequency"`
	StartDate         time.Time       `db:"start_date"`
	EndDate           sql.NullTime    `db:"end_date"`
	LastGeneratedDate sql.NullTime    `db:"last_generated_date"`
	Status            int16           `db:"status"`
	CreatedAt         time.Time       `db:"created_at"`
	UpdatedAt         time.Time       `db:"updated_at"`
}

func rowToTemplate(row templateRow) *Template {
	return &Template{
		ID:                row.ID,
		UserID:            row.UserID,
		AccountID:         row.AccountID,
		CategoryID:        row.CategoryID,
		SubcategoryID:     row.SubcategoryID,
		Type:              transaction.Type(row.Type),
		Amount:            row.Amount,
		Description:       row.Description,
		Frequency:         recurrence.Frequency(row.Frequency),
		StartDate:         recurrence.Day(row.StartDate),
		EndDate:           datePtr(row.EndDate),
		LastGeneratedDate: datePtr(row.LastGeneratedDate),
		Status:            Status(row.Status),
		CreatedAt:         row.CreatedAt,
		UpdatedAt:         row.UpdatedAt,
	}
}

func datePtr(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	d := recurrence.Day(t.Time)
	return &d
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: recurrence.Day(*t), Valid: true}
}

type Reader struct {
	exec bob.Executor
}

var _ IReader = (*Reader)(nil)

func NewReader(exec bob.Executor) *Reader {
	return &Reader{exec: exec}
}

func (r *Reader) FindByID(ctx context.Context, id uuid.UUID) (*Template, error) {
	return r.find(ctx, id, false)
}

func (r *Reader) find(ctx context.Context, id uuid.UUID, forUpdate bool) (*Template, error) {
	queryMods := []bob.Mod[*dialect.SelectQuery]{
		sm.Columns(columns...),
		sm.From(tableName),
		sm.Where(psql.Quote("id").EQ(psql.Arg(id))),
	}
	if forUpdate {
		queryMods = append(queryMods, sm.ForUpdate())
	}

	row, err := bob.One(ctx, r.exec, psql.Select(queryMods...), scan.StructMapper[templateRow]())
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return rowToTemplate(row), nil
}

func (r *Reader) List(ctx context.Context, filter *TemplateFilter) ([]*Template, error) {
	queryMods := []bob.Mod[*dialect.SelectQuery]{
		sm.Columns(columns...),
		sm.From(tableName),
		sm.Where(psql.Quote("user_id").EQ(psql.Arg(filter.UserID))),
	}
	if !filter.IncludeInactive {
		queryMods = append(queryMods, sm.Where(psql.Quote("status").EQ(psql.Arg(int16(StatusActive)))))
	}
	queryMods = append(queryMods,
		sm.OrderBy(psql.Quote("created_at")).Desc(),
		sm.OrderBy(psql.Quote("id")).Desc(),
	)
	return r.all(ctx, queryMods)
}

func (r *Reader) ListDue(ctx context.Context, asOf time.Time) ([]*Template, error) {
	asOf = recurrence.Day(asOf)
	return r.all(ctx, []bob.Mod[*dialect.SelectQuery]{
		sm.Columns(columns...),
		sm.From(tableName),
		sm.Where(psql.Quote("status").EQ(psql.Arg(int16(StatusActive)))),
		sm.Where(psql.Quote("start_date").LTE(psql.Arg(asOf))),
		sm.Where(psql.Or(
			psql.Quote("last_generated_date").IsNull(),
			psql.Quote("last_generated_date").LT(psql.Arg(asOf)),
		)),
		sm.Where(psql.Raw(
			"EXISTS (SELECT 1 FROM accounts WHERE accounts.id = recurring_transactions.account_id AND accounts.status = ?)",
			int16(account.StatusActive),
		)),
		sm.OrderBy(psql.Quote("id")).Asc(),
	})
}

func (r *Reader) all(ctx context.Context, queryMods []bob.Mod[*dialect.SelectQuery]) ([]*Template, error) {
	rows, err := bob.All(ctx, r.exec, psql.Select(queryMods...), scan.StructMapper[templateRow]())
	if err != nil {
		return nil, err
	}
	result := make([]*Template, len(rows))
	for i, row := range rows {
		result[i] = rowToTemplate(row)
	}
	return result, nil
}
