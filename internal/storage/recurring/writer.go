package recurring

import (
	"context"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/stephenafamo/bob"
	"github.com/stephenafamo/bob/dialect/psql"
	"github.com/stephenafamo/bob/dialect/psql/dialect"
	"github.com/stephenafamo/bob/dialect/psql/im"
	"github.com/stephenafamo/bob/dialect/psql/um"
	"github.com/stephenafamo/scan"

	"github.com/carson-networks/ledger-server/internal/recurrence"
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

func (w *Writer) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*Template, error) {
	return w.find(ctx, id, true)
}

func (w *Writer) Insert(ctx context.Context, create *TemplateCreate, now time.Time) (*Template, error) {
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
			create.CategoryID,
			create.SubcategoryID,
			int16(create.Type),
			create.Amount,
			create.Description,
			int16(create.Frequency),
			recurrence.Day(create.StartDate),
			nullTime(create.EndDate),
			nil,
			int16(StatusActive),
			now,
			now,
		)),
		im.Returning(columns...),
	)

	row, err := bob.One(ctx, w.tx, q, scan.StructMapper[templateRow]())
	if err != nil {
		return nil, err
	}
	return rowToTemplate(row), nil
}

func (w *Writer) Update(ctx context.Context, id uuid.UUID, update *TemplateUpdate, now time.Time) error {
	mods := []bob.Mod[*dialect.UpdateQuery]{
		um.Table(tableName),
		um.SetCol("updated_at").ToArg(now),
	}
	if v, ok := update.Amount.Get(); ok {
		mods = append(mods, um.SetCol("amount").ToArg(v))
	}
	if v, ok := update.Description.Get(); ok {
		mods = append(mods, um.SetCol("description").ToArg(v))
	}
	if v, ok := update.CategoryID.Get(); ok {
		mods = append(mods, um.SetCol("category_id").ToArg(v))
	}
	if v, ok := update.SubcategoryID.Get(); ok {
		mods = append(mods, um.SetCol("subcategory_id").ToArg(v))
	}
	if v, ok := update.EndDate.Get(); ok {
		mods = append(mods, um.SetCol("end_date").ToArg(recurrence.Day(v)))
	}
	mods = append(mods, um.Where(psql.Quote("id").EQ(psql.Arg(id))))

	_, err := bob.Exec(ctx, w.tx, psql.Update(mods...))
	return err
}

func (w *Writer) SetLastGenerated(ctx context.Context, id uuid.UUID, date time.Time, now time.Time) error {
	q := psql.Update(
		um.Table(tableName),
		um.SetCol("last_generated_date").ToArg(recurrence.Day(date)),
		um.SetCol("updated_at").ToArg(now),
		um.Where(psql.Quote("id").EQ(psql.Arg(id))),
	)
	_, err := bob.Exec(ctx, w.tx, q)
	return err
}

func (w *Writer) SetStatus(ctx context.Context, id uuid.UUID, status Status, now time.Time) error {
	q := psql.Update(
		um.Table(tableName),
		um.SetCol("status").ToArg(int16(status)),
		um.SetCol("updated_at").ToArg(now),
		um.Where(psql.Quote("id").EQ(psql.Arg(id))),
	)
	_, err := bob.Exec(ctx, w.tx, q)
	return err
}
