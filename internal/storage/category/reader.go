package category

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/stephenafamo/bob"
	"github.com/stephenafamo/bob/dialect/psql"
	"github.com/stephenafamo/bob/dialect/psql/sm"
	"github.com/stephenafamo/scan"

	"github.com/carson-networks/ledger-server/internal/storage/sqlconfig"
	"github.com/carson-networks/ledger-server/internal/storage/transaction"
)

const (
	categoriesTable    = "categories"
	subcategoriesTable = "subcategories"
)

var (
	categoryColumnNames    = []string{"id", "user_id", "name", "type", "is_default", "created_at"}
	subcategoryColumnNames = []string{"id", "category_id", "name", "is_default", "created_at"}

	categoryColumns    = sqlconfig.Columns(categoryColumnNames...)
	subcategoryColumns = sqlconfig.Columns(subcategoryColumnNames...)
)

type categoryRow struct {
	ID        uuid.UUID `db:"id"`
	UserID    uuid.UUID `db:"user_id"`
	Name      string    `db:"name"`
	Type      int16     `db:"type"`
	IsDefault bool      `db:"is_default"`
	CreatedAt time.Time `db:"created_at"`
}

type subcategoryRow struct {
	ID         uuid.UUID `db:"id"`
	CategoryID uuid.UUID `db:"category_id"`
	Name       string    `db:"name"`
	IsDefault  bool      `db:"is_default"`
	CreatedAt  time.Time `db:"created_at"`
}

func rowToCategory(row categoryRow) *Category {
	return &Category{
		ID:        row.ID,
		UserID:    row.UserID,
		Name:      row.Name,
		Type:      transaction.Type(row.Type),
		IsDefault: row.IsDefault,
		CreatedAt: row.CreatedAt,
	}
}

func rowToSubcategory(row subcategoryRow) *Subcategory {
	return &Subcategory{
		ID:         row.ID,
		CategoryID: row.CategoryID,
		Name:       row.Name,
		IsDefault:  row.IsDefault,
		CreatedAt:  row.CreatedAt,
	}
}

type Reader struct {
	exec bob.Executor
}

var _ IReader = (*Reader)(nil)

func NewReader(exec bob.Executor) *Reader {
	return &Reader{exec: exec}
}

func (r *Reader) FindByID(ctx context.Context, id uuid.UUID) (*Category, error) {
	q := psql.Select(
		sm.Columns(categoryColumns...),
		sm.From(categoriesTable),
		sm.Where(psql.Quote("id").EQ(psql.Arg(id))),
	)
	row, err := bob.One(ctx, r.exec, q, scan.StructMapper[categoryRow]())
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return rowToCategory(row), nil
}

func (r *Reader) FindSubcategory(ctx context.Context, id uuid.UUID) (*Subcategory, error) {
	q := psql.Select(
		sm.Columns(subcategoryColumns...),
		sm.From(subcategoriesTable),
		sm.Where(psql.Quote("id").EQ(psql.Arg(id))),
	)
	row, err := bob.One(ctx, r.exec, q, scan.StructMapper[subcategoryRow]())
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return rowToSubcategory(row), nil
}

func (r *Reader) ListByUser(ctx context.Context, userID uuid.UUID) ([]*Category, error) {
	q := psql.Select(
		sm.Columns(categoryColumns...),
		sm.From(categoriesTable),
		sm.Where(psql.Quote("user_id").EQ(psql.Arg(userID))),
		sm.OrderBy(psql.Quote("type")).Asc(),
		sm.OrderBy(psql.Quote("name")).Asc(),
	)
	rows, err := bob.All(ctx, r.exec, q, scan.StructMapper[categoryRow]())
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}

	categories := make([]*Category, len(rows))
	byID := make(map[uuid.UUID]*Category, len(rows))
	ids := make([]any, len(rows))
	for i, row := range rows {
		categories[i] = rowToCategory(row)
		byID[row.ID] = categories[i]
		ids[i] = row.ID
	}

	subQ := psql.Select(
		sm.Columns(subcategoryColumns...),
		sm.From(subcategoriesTable),
		sm.Where(psql.Quote("category_id").In(psql.Arg(ids...))),
		sm.OrderBy(psql.Quote("name")).Asc(),
	)
	subRows, err := bob.All(ctx, r.exec, subQ, scan.StructMapper[subcategoryRow]())
	if err != nil {
		return nil, err
	}
	for _, row := range subRows {
		if c, ok := byID[row.CategoryID]; ok {
			c.Subcategories = append(c.Subcategories, rowToSubcategory(row))
		}
	}
	return categories, nil
}
