package account

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

const tableName = "accounts"

var columnNames = []string{
	"id", "user_id", "name", "type", "balance", "credit_limit", "payment_day", "cutoff_day",
	"bank", "card_number", "investment_type", "annual_return", "notes", "status",
	"created_at", "updated_at",
}

var columns = sqlconfig.Columns(columnNames...)

type accountRow struct {
	ID             uuid.UUID           `db:"id"`
	UserID         uuid.UUID           `db:"user_id"`
	Name           string              `db:"name"`
	Type           int16               `db:"type"`
	Balance        decimal.Decimal     `db:"balance"`
	CreditLimit    decimal.NullDecimal `db:"credit_limit"`
	PaymentDay     sql.NullInt16       `db:"payment_day"`
	CutoffDay      sql.NullInt16       `db:"cutoff_day"`
	Bank           string              `db:"bank"`
	CardNumber     string              `db:"card_number"`
	InvestmentType string              `db:"investment_type"`
	AnnualReturn   decimal.NullDecimal `db:"annual_return"`
	Notes          string              `db:"notes"`
	Status         int16               `db:"status"`
	CreatedAt      time.Time           `db:"created_at"`
	UpdatedAt      time.Time           `db:"updated_at"`
}

func rowToAccount(row accountRow) *Account {
	return &Account{
		ID:             row.ID,
		UserID:         row.UserID,
		Name:           row.Name,
		Type:           AccountType(row.Type),
		Balance:        row.Balance,
		CreditLimit:    row.CreditLimit,
		PaymentDay:     intPtr(row.PaymentDay),
		CutoffDay:      intPtr(row.CutoffDay),
		Bank:           row.Bank,
		CardNumber:     row.CardNumber,
		InvestmentType: InvestmentType(row.InvestmentType),
		AnnualReturn:   row.AnnualReturn,
		Notes:          row.Notes,
		Status:         Status(row.Status),
		CreatedAt:      row.CreatedAt,
		UpdatedAt:      row.UpdatedAt,
	}
}

func intPtr(v sql.NullInt16) *int {
	if !v.Valid {
		return nil
	}
	i := int(v.Int16)
	return &i
}

func nullInt16(v *int) sql.NullInt16 {
	if v == nil {
		return sql.NullInt16{}
	}
	return sql.NullInt16{Int16: int16(*v), Valid: true}
}

type Reader struct {
	exec bob.Executor
}

var _ IReader = (*Reader)(nil)

func NewReader(exec bob.Executor) *Reader {
	return &Reader{exec: exec}
}

func (r *Reader) List(ctx context.Context, filter *AccountFilter) (*AccountListResult, error) {
	limit := 20
	if filter.Limit > 0 {
		limit = filter.Limit
	}
	offset := filter.Offset

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
		sm.Limit(limit+1),
		sm.Offset(offset),
	)

	rows, err := bob.All(ctx, r.exec, psql.Select(queryMods...), scan.StructMapper[accountRow]())
	if err != nil {
		return nil, err
	}

	if len(rows) == 0 {
		return &AccountListResult{Accounts: nil, NextCursor: nil}, nil
	}

	var nextCursor *AccountCursor
	if len(rows) > limit {
		rows = rows[:limit]
		nextCursor = &AccountCursor{
			Position: offset + limit,
			Limit:    limit,
		}
	}

	result := make([]*Account, len(rows))
	for i, row := range rows {
		result[i] = rowToAccount(row)
	}
	return &AccountListResult{Accounts: result, NextCursor: nextCursor}, nil
}

func (r *Reader) FindByID(ctx context.Context, id uuid.UUID) (*Account, error) {
	return r.find(ctx, id, false)
}

func (r *Reader) find(ctx context.Context, id uuid.UUID, forUpdate bool) (*Account, error) {
	queryMods := []bob.Mod[*dialect.SelectQuery]{
		sm.Columns(columns...),
		sm.From(tableName),
		sm.Where(psql.Quote("id").EQ(psql.Arg(id))),
	}
	if forUpdate {
		queryMods = append(queryMods, sm.ForUpdate())
	}

	row, err := bob.One(ctx, r.exec, psql.Select(queryMods...), scan.StructMapper[accountRow]())
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return rowToAccount(row), nil
}
