package memstore

import (
	"context"
	"time"

	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/ledger-server/internal/storage/categorization"
)

type categorizations struct {
	table
}

var _ categorization.IWriter = (*categorizations)(nil)

func (c *categorizations) ListByTransaction(_ context.Context, transactionID uuid.UUID) ([]*categorization.Entry, error) {
	var entries []*categorization.Entry
	for _, e := range c.view().categorizations {
		if e.TransactionID == transactionID {
			entries = append(entries, &e)
		}
	}
	return entries, nil
}

func (c *categorizations) Insert(_ context.Context, create *categorization.EntryCreate, now time.Time) (*categorization.Entry, error) {
	if err := c.check("categorization.insert"); err != nil {
		return nil, err
	}
	id, err := uuid.NewV7()
	if err != nil {
		return nil, err
	}

	e := categorization.Entry{
		ID:                    id,
		TransactionID:         create.TransactionID,
		OriginalCategoryID:    create.OriginalCategoryID,
		OriginalSubcategoryID: create.OriginalSubcategoryID,
		FinalCategoryID:       create.FinalCategoryID,
		FinalSubcategoryID:    create.FinalSubcategoryID,
		ConfidenceScore:       create.ConfidenceScore,
		CreatedAt:             now,
	}
	d := c.view()
	d.categorizations = append(d.categorizations, e)
	return &e, nil
}
