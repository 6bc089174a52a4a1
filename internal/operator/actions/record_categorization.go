package actions

import (
	"context"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"

	"github.com/carson-networks/ledger-server/internal/ledgererr"
	"github.com/carson-networks/ledger-server/internal/storage"
	"github.com/carson-networks/ledger-server/internal/storage/categorization"
	"github.com/carson-networks/ledger-server/internal/storage/transaction"
)

var maxConfidence = decimal.NewFromInt(100)

// RecordCategorization is the categorization auditor. Every call appends one
// history row, then moves the transaction to the new classification.
type RecordCategorization struct {
	UserID        uuid.UUID
	TransactionID uuid.UUID
	CategoryID    uuid.NullUUID
	SubcategoryID uuid.NullUUID
	// Confidence is present only for automatic assignments.
	Confidence decimal.NullDecimal
	Now        time.Time

	Entry *categorization.Entry
}

var _ IAction = (*RecordCategorization)(nil)

func (r *RecordCategorization) Perform(ctx context.Context, writer *storage.Writer) error {
	confidence, err := normalizeConfidence(r.Confidence)
	if err != nil {
		return err
	}

	txn, err := writer.Transactions.FindByIDForUpdate(ctx, r.TransactionID)
	if err != nil {
		return err
	}
	if txn == nil || txn.UserID != r.UserID {
		return ledgererr.ErrTransactionNotFound
	}
	if err = validateClassification(ctx, writer, r.UserID, r.CategoryID, r.SubcategoryID); err != nil {
		return err
	}

	r.Entry, err = recordCategorization(ctx, writer, txn, r.CategoryID, r.SubcategoryID, confidence, r.Now)
	return err
}

func normalizeConfidence(c decimal.NullDecimal) (decimal.NullDecimal, error) {
	if !c.Valid {
		return c, nil
	}
	if c.Decimal.IsNegative() || c.Decimal.GreaterThan(maxConfidence) {
		return c, ledgererr.ErrInvalidConfidence
	}
	return decimal.NewNullDecimal(c.Decimal.Round(2)), nil
}

// recordCategorization writes the audit row and the new classification of
// txn. Callers validate confidence and classification beforehand.
func recordCategorization(
	ctx context.Context,
	writer *storage.Writer,
	txn *transaction.Transaction,
	categoryID, subcategoryID uuid.NullUUID,
	confidence decimal.NullDecimal,
	now time.Time,
) (*categorization.Entry, error) {
	entry, err := writer.Categorizations.Insert(ctx, &categorization.EntryCreate{
		TransactionID:         txn.ID,
		OriginalCategoryID:    txn.CategoryID,
		OriginalSubcategoryID: txn.SubcategoryID,
		FinalCategoryID:       categoryID,
		FinalSubcategoryID:    subcategoryID,
		ConfidenceScore:       confidence,
	}, now)
	if err != nil {
		return nil, err
	}

	update := transaction.Categorization{
		CategoryID:      categoryID,
		SubcategoryID:   subcategoryID,
		AutoCategorized: confidence.Valid,
	}
	if err = writer.Transactions.UpdateCategorization(ctx, txn.ID, update); err != nil {
		return nil, err
	}

	txn.CategoryID = categoryID
	txn.SubcategoryID = subcategoryID
	txn.AutoCategorized = update.AutoCategorized
	return entry, nil
}

// validateClassification checks that the category belongs to userID and the
// subcategory, when given, belongs to the category.
func validateClassification(ctx context.Context, writer *storage.Writer, userID uuid.UUID, categoryID, subcategoryID uuid.NullUUID) error {
	if !categoryID.Valid {
		if subcategoryID.Valid {
			return ledgererr.Newf(ledgererr.KindNotFound, ledgererr.CodeCategoryNotFound,
				"subcategory %s requires a category", subcategoryID.UUID)
		}
		return nil
	}

	cat, err := writer.Categories.FindByID(ctx, categoryID.UUID)
	if err != nil {
		return err
	}
	if cat == nil || cat.UserID != userID {
		return ledgererr.ErrCategoryNotFound
	}
	if !subcategoryID.Valid {
		return nil
	}

	sub, err := writer.Categories.FindSubcategory(ctx, subcategoryID.UUID)
	if err != nil {
		return err
	}
	if sub == nil || sub.CategoryID != cat.ID {
		return ledgererr.Newf(ledgererr.KindNotFound, ledgererr.CodeCategoryNotFound,
			"subcategory %s not found in category %s", subcategoryID.UUID, cat.ID)
	}
	return nil
}
