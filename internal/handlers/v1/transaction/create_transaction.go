package transaction

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/shopspring/decimal"

	"github.com/carson-networks/ledger-server/internal/handlers/v1/common"
	"github.com/carson-networks/ledger-server/internal/logging"
	"github.com/carson-networks/ledger-server/internal/storage/transaction"
)

// CreateTransactionBody is the request body for creating a transaction.
type CreateTransactionBody struct {
	AccountID       string `json:"accountID" required:"true" format:"uuid" doc:"Account UUID"`
	Type            string `json:"type" required:"true" enum:"INCOME,EXPENSE" doc:"Transaction direction"`
	Amount          string `json:"amount" required:"true" doc:"Positive decimal amount"`
	Description     string `json:"description,omitempty" doc:"Description"`
	TransactionDate string `json:"transactionDate,omitempty" format:"date-time" doc:"RFC3339 transaction date, defaults to now"`
	CategoryID      string `json:"categoryID,omitempty" format:"uuid" doc:"Category UUID"`
	SubcategoryID   string `json:"subcategoryID,omitempty" format:"uuid" doc:"Subcategory UUID"`
	Confidence      string `json:"confidence,omitempty" doc:"Classifier confidence 0-100; marks the category as automatic"`
	OriginalText    string `json:"originalText,omitempty" doc:"Raw captured text"`
}

// CreateTransactionInput is the Huma input for creating a transaction.
type CreateTransactionInput struct {
	common.UserHeader
	Body CreateTransactionBody
}

// CreateTransactionOutput is the Huma output for creating a transaction.
type CreateTransactionOutput struct {
	Status int
	Body   Transaction
}

// transactionCreator is the interface for creating transactions.
type transactionCreator interface {
	CreateTransaction(ctx context.Context, create transaction.TransactionCreate, confidence decimal.NullDecimal) (*transaction.Transaction, error)
}

// CreateTransactionHandler handles POST /v1/transaction.
type CreateTransactionHandler struct {
	TransactionService transactionCreator
	now                func() time.Time
}

// NewCreateTransactionHandler creates a new CreateTransactionHandler.
func NewCreateTransactionHandler(svc transactionCreator) *CreateTransactionHandler {
	return &CreateTransactionHandler{TransactionService: svc, now: time.Now}
}

// Register registers the create transaction endpoint with the Huma API.
func (h *CreateTransactionHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "create-transaction",
		Method:      http.MethodPost,
		Path:        "/v1/transaction",
		Summary:     "Create transaction",
		Description: "Records an income or expense and applies it to the account balance.",
		Tags:        []string{"Transactions"},
	}, h.handle)
}

// parseCreateTransactionInput parses and validates the API input. A missing
// transaction date is left zero for the handler to fill.
func parseCreateTransactionInput(input *CreateTransactionInput) (create transaction.TransactionCreate, confidence decimal.NullDecimal, err error) {
	if create.UserID, err = input.User(); err != nil {
		return
	}
	if create.AccountID, err = common.ParseUUID("accountID", input.Body.AccountID); err != nil {
		return
	}
	if create.Type, err = transaction.ParseType(input.Body.Type); err != nil {
		err = huma.NewError(http.StatusBadRequest, "invalid type", err)
		return
	}
	if create.Amount, err = common.ParseDecimal("amount", input.Body.Amount); err != nil {
		return
	}
	if input.Body.TransactionDate != "" {
		if create.TransactionDate, err = common.ParseTime("transactionDate", input.Body.TransactionDate); err != nil {
			return
		}
	}
	if create.CategoryID, err = common.ParseOptionalUUID("categoryID", input.Body.CategoryID); err != nil {
		return
	}
	if create.SubcategoryID, err = common.ParseOptionalUUID("subcategoryID", input.Body.SubcategoryID); err != nil {
		return
	}
	if confidence, err = common.ParseOptionalDecimal("confidence", input.Body.Confidence); err != nil {
		return
	}
	create.Description = input.Body.Description
	create.OriginalText = input.Body.OriginalText
	return create, confidence, nil
}

func (h *CreateTransactionHandler) handle(ctx context.Context, input *CreateTransactionInput) (*CreateTransactionOutput, error) {
	create, confidence, err := parseCreateTransactionInput(input)
	if err != nil {
		return nil, err
	}
	if create.TransactionDate.IsZero() {
		create.TransactionDate = h.now().UTC()
	}

	stopTimer := logging.StartTiming(ctx, "createTransactionMs")
	tx, err := h.TransactionService.CreateTransaction(ctx, create, confidence)
	stopTimer()
	if err != nil {
		return nil, common.Error(err)
	}

	logging.AddData(ctx, "transactionID", tx.ID.String())
	return &CreateTransactionOutput{Status: http.StatusCreated, Body: ToTransaction(tx)}, nil
}
