package transaction

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/ledger-server/internal/handlers/v1/common"
	"github.com/carson-networks/ledger-server/internal/storage/transaction"
)

type GetTransactionOutput struct {
	Body Transaction
}

type transactionGetter interface {
	GetTransaction(ctx context.Context, userID, id uuid.UUID) (*transaction.Transaction, error)
}

// GetTransactionHandler handles GET /v1/transaction/{transactionID}.
type GetTransactionHandler struct {
	TransactionService transactionGetter
}

func NewGetTransactionHandler(svc transactionGetter) *GetTransactionHandler {
	return &GetTransactionHandler{TransactionService: svc}
}

func (h *GetTransactionHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "get-transaction",
		Method:      http.MethodGet,
		Path:        "/v1/transaction/{transactionID}",
		Summary:     "Get transaction",
		Tags:        []string{"Transactions"},
	}, h.handle)
}

func parseTransactionPath(input *TransactionPath) (userID, transactionID uuid.UUID, err error) {
	if userID, err = input.User(); err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	if transactionID, err = common.ParseUUID("transactionID", input.TransactionID); err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	return userID, transactionID, nil
}

func (h *GetTransactionHandler) handle(ctx context.Context, input *TransactionPath) (*GetTransactionOutput, error) {
	userID, transactionID, err := parseTransactionPath(input)
	if err != nil {
		return nil, err
	}
	tx, err := h.TransactionService.GetTransaction(ctx, userID, transactionID)
	if err != nil {
		return nil, common.Error(err)
	}
	return &GetTransactionOutput{Body: ToTransaction(tx)}, nil
}
