package category

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

func (w *Writer) Insert(ctx context.Context, create *CategoryCreate, now time.Time) (*Category, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return nil, err
	}

	q := psql.Insert(
		im.Into(categoriesTable, categoryColumnNames...),
		im.Values(psql.Arg(id, create.UserID, create.Name, int16(create.Type), create.IsDefault, now)),
		im.Returning(categoryColumns...),
	)
	row, err := bob.One(ctx, w.tx, q, scan.StructMapper[categoryRow]())
	if err != nil {
		return nil, err
	}
	return rowToCategory(row), nil
}

func (w *Writer) InsertSubcategory(ctx context.Context, create *SubcategoryCreate, now time.Time) (*Subcategory, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return nil, err
	}

	q := psql.Insert(
		im.Into(subcategoriesTable, subcategoryColumnNames...),
		im.Values(psql.Arg(id, create.CategoryID, create.Name, create.IsDefault, now)),
		im.Returning(subcategoryColumns...),
	)
	row, err := bob.One(ctx, w.tx, q, scan.StructMapper[subcategoryRow]())
	if err != nil {
		return nil, err
	}
	return rowToSubcategory(row), nil
}
