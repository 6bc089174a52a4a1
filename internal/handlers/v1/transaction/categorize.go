package transaction

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"

	"github.com/carson-networks/ledger-server/internal/handlers/v1/common"
	"github.com/carson-networks/ledger-server/internal/logging"
	"github.com/carson-networks/ledger-server/internal/storage/categorization"
)

// CategorizationEntry is one audit row of a category change.
type CategorizationEntry struct {
	ID                    string `json:"id" doc:"Audit entry UUID"`
	TransactionID         string `json:"transactionID" doc:"Transaction UUID"`
	OriginalCategoryID    string `json:"originalCategoryID,omitempty" doc:"Category before the change"`
	OriginalSubcategoryID string `json:"originalSubcategoryID,omitempty" doc:"Subcategory before the change"`
	FinalCategoryID       string `json:"finalCategoryID,omitempty" doc:"Category after the change"`
	FinalSubcategoryID    string `json:"finalSubcategoryID,omitempty" doc:"Subcategory after the change"`
	ConfidenceScore       string `json:"confidenceScore,omitempty" doc:"Classifier confidence, absent for manual changes"`
	CreatedAt             string `json:"createdAt" doc:"RFC3339 time of the change"`
}

func toCategorizationEntry(e *categorization.Entry) CategorizationEntry {
	return CategorizationEntry{
		ID:                    e.ID.String(),
		TransactionID:         e.TransactionID.String(),
		OriginalCategoryID:    common.FormatNullUUID(e.OriginalCategoryID),
		OriginalSubcategoryID: common.FormatNullUUID(e.OriginalSubcategoryID),
		FinalCategoryID:       common.FormatNullUUID(e.FinalCategoryID),
		FinalSubcategoryID:    common.FormatNullUUID(e.FinalSubcategoryID),
		ConfidenceScore:       common.FormatNullDecimal(e.ConfidenceScore),
		CreatedAt:             common.FormatTime(e.CreatedAt),
	}
}

// CategorizeBody sets the category of a transaction. Omitting categoryID clears it.
type CategorizeBody struct {
	CategoryID    string `json:"categoryID,omitempty" format:"uuid" doc:"New category UUID"`
	SubcategoryID string `json:"subcategoryID,omitempty" format:"uuid" doc:"New subcategory UUID"`
	Confidence    string `json:"confidence,omitempty" doc:"Classifier confidence 0-100, omitted for manual changes"`
}

type CategorizeInput struct {
	TransactionPath
	Body CategorizeBody
}

type CategorizeOutput struct {
	Body CategorizationEntry
}

type categorizer interface {
	Categorize(
		ctx context.Context,
		userID, transactionID uuid.UUID,
		categoryID, subcategoryID uuid.NullUUID,
		confidence decimal.NullDecimal,
	) (*categorization.Entry, error)
}

// CategorizeHandler handles PUT /v1/transaction/{transactionID}/category.
type CategorizeHandler struct {
	TransactionService categorizer
}

func NewCategorizeHandler(svc categorizer) *CategorizeHandler {
	return &CategorizeHandler{TransactionService: svc}
}

func (h *CategorizeHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "categorize-transaction",
		Method:      http.MethodPut,
		Path:        "/v1/transaction/{transactionID}/category",
		Summary:     "Categorize transaction",
		Description: "Moves a transaction to a category and appends an entry to its categorization history.",
		Tags:        []string{"Transactions"},
	}, h.handle)
}

func (h *CategorizeHandler) handle(ctx context.Context, input *CategorizeInput) (*CategorizeOutput, error) {
	userID, transactionID, err := parseTransactionPath(&input.TransactionPath)
	if err != nil {
		return nil, err
	}
	categoryID, err := common.ParseOptionalUUID("categoryID", input.Body.CategoryID)
	if err != nil {
		return nil, err
	}
	subcategoryID, err := common.ParseOptionalUUID("subcategoryID", input.Body.SubcategoryID)
	if err != nil {
		return nil, err
	}
	confidence, err := common.ParseOptionalDecimal("confidence", input.Body.Confidence)
	if err != nil {
		return nil, err
	}

	stopTimer := logging.StartTiming(ctx, "categorizeMs")
	entry, err := h.TransactionService.Categorize(ctx, userID, transactionID, categoryID, subcategoryID, confidence)
	stopTimer()
	if err != nil {
		return nil, common.Error(err)
	}
	return &CategorizeOutput{Body: toCategorizationEntry(entry)}, nil
}

type CategorizationHistoryOutput struct {
	Body struct {
		Entries []CategorizationEntry `json:"entries" doc:"Category changes, oldest first"`
	}
}

type categorizationHistoryLister interface {
	CategorizationHistory(ctx context.Context, userID, transactionID uuid.UUID) ([]*categorization.Entry, error)
}

// CategorizationHistoryHandler handles GET /v1/transaction/{transactionID}/categorization-history.
type CategorizationHistoryHandler struct {
	TransactionService categorizationHistoryLister
}

func NewCategorizationHistoryHandler(svc categorizationHistoryLister) *CategorizationHistoryHandler {
	return &CategorizationHistoryHandler{TransactionService: svc}
}

func (h *CategorizationHistoryHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "categorization-history",
		Method:      http.MethodGet,
		Path:        "/v1/transaction/{transactionID}/categorization-history",
		Summary:     "Categorization history",
		Tags:        []string{"Transactions"},
	}, h.handle)
}

func (h *CategorizationHistoryHandler) handle(ctx context.Context, input *TransactionPath) (*CategorizationHistoryOutput, error) {
	userID, transactionID, err := parseTransactionPath(input)
	if err != nil {
		return nil, err
	}
	entries, err := h.TransactionService.CategorizationHistory(ctx, userID, transactionID)
	if err != nil {
		return nil, common.Error(err)
	}

	out := &CategorizationHistoryOutput{}
	out.Body.Entries = make([]CategorizationEntry, len(entries))
	for i, e := range entries {
		out.Body.Entries[i] = toCategorizationEntry(e)
	}
	return out, nil
}
