package account

import (
	"context"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
	"github.com/stephenafamo/bob"
	"github.com/stephenafamo/bob/dialect/psql"
	"github.com/stephenafamo/bob/dialect/psql/dialect"
	"github.com/stephenafamo/bob/dialect/psql/im"
	"github.com/stephenafamo/bob/dialect/psql/um"
	"github.com/stephenafamo/scan"
)

type Writer struct {
	tx bob.Executor
	Reader
}

var _ IWriter = (*Writer)(nil)

func NewWriter(tx bob.Executor) *Writer {
	return &Writer{
		tx: tx,
		Reader: Reader{
			exec: tx,
		},
	}
}

func (w *Writer) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*Account, error) {
	return w.find(ctx, id, true)
}

func (w *Writer) Insert(ctx context.Context, create *AccountCreate, now time.Time) (*Account, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return nil, err
	}

	q := psql.Insert(
		im.Into(tableName, columnNames...),
		im.Values(psql.Arg(
			id,
			create.UserID,
			create.Name,
			int16(create.Type),
			create.InitialBalance,
			create.CreditLimit,
			nullInt16(create.PaymentDay),
			nullInt16(create.CutoffDay),
			create.Bank,
			create.CardNumber,
			string(create.InvestmentType),
			create.AnnualReturn,
			create.Notes,
			int16(StatusActive),
			now,
			now,
		)),
		im.Returning(columns...),
	)

	row, err := bob.One(ctx, w.tx, q, scan.StructMapper[accountRow]())
	if err != nil {
		return nil, err
	}
	return rowToAccount(row), nil
}

func (w *Writer) Update(ctx context.Context, id uuid.UUID, update *AccountUpdate, now time.Time) error {
	mods := []bob.Mod[*dialect.UpdateQuery]{
		um.Table(tableName),
		um.SetCol("updated_at").ToArg(now),
	}
	if v, ok := update.Name.Get(); ok {
		mods = append(mods, um.SetCol("name").ToArg(v))
	}
	if v, ok := update.CreditLimit.Get(); ok {
		mods = append(mods, um.SetCol("credit_limit").ToArg(v))
	}
	if v, ok := update.PaymentDay.Get(); ok {
		mods = append(mods, um.SetCol("payment_day").ToArg(int16(v)))
	}
	if v, ok := update.CutoffDay.Get(); ok {
		mods = append(mods, um.SetCol("cutoff_day").ToArg(int16(v)))
	}
	if v, ok := update.Bank.Get(); ok {
		mods = append(mods, um.SetCol("bank").ToArg(v))
	}
	if v, ok := update.CardNumber.Get(); ok {
		mods = append(mods, um.SetCol("card_number").ToArg(v))
	}
	if v, ok := update.InvestmentType.Get(); ok {
		mods = append(mods, um.SetCol("investment_type").ToArg(string(v)))
	}
	if v, ok := update.AnnualReturn.Get(); ok {
		mods = append(mods, um.SetCol("annual_return").ToArg(v))
	}
	if v, ok := update.Notes.Get(); ok {
		mods = append(mods, um.SetCol("notes").ToArg(v))
	}
	mods = append(mods, um.Where(psql.Quote("id").EQ(psql.Arg(id))))

	_, err := bob.Exec(ctx, w.tx, psql.Update(mods...))
	return err
}

func (w *Writer) UpdateBalance(ctx context.Context, id uuid.UUID, balance decimal.Decimal, now time.Time) error {
	q := psql.Update(
		um.Table(tableName),
		um.SetCol("balance").ToArg(balance),
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
