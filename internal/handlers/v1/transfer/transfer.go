package transfer

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/ledger-server/internal/handlers/v1/common"
	txhandler "github.com/carson-networks/ledger-server/internal/handlers/v1/transaction"
	"github.com/carson-networks/ledger-server/internal/logging"
	"github.com/carson-networks/ledger-server/internal/service"
)

// Transfer is the API response model for a transfer and both of its legs.
type Transfer struct {
	ID          string                `json:"id" doc:"Transfer UUID"`
	Source      txhandler.Transaction `json:"source" doc:"EXPENSE leg on the source account"`
	Destination txhandler.Transaction `json:"destination" doc:"INCOME leg on the destination account"`
	CreatedAt   string                `json:"createdAt" doc:"RFC3339 creation time"`
}

func toTransfer(r *service.TransferResult) Transfer {
	return Transfer{
		ID:          r.Transfer.ID.String(),
		Source:      txhandler.ToTransaction(r.Source),
		Destination: txhandler.ToTransaction(r.Destination),
		CreatedAt:   common.FormatTime(r.Transfer.CreatedAt),
	}
}

type CreateTransferBody struct {
	SourceAccountID      string `json:"sourceAccountID" required:"true" format:"uuid" doc:"Account debited"`
	DestinationAccountID string `json:"destinationAccountID" required:"true" format:"uuid" doc:"Account credited"`
	Amount               string `json:"amount" required:"true" doc:"Positive decimal amount"`
	Date                 string `json:"date,omitempty" format:"date-time" doc:"RFC3339 transfer date, defaults to now"`
	Description          string `json:"description,omitempty" doc:"Description of both legs"`
}

type CreateTransferInput struct {
	common.UserHeader
	Body CreateTransferBody
}

type CreateTransferOutput struct {
	Status int
	Body   Transfer
}

type transferCreator interface {
	CreateTransfer(ctx context.Context, req service.TransferRequest) (*service.TransferResult, error)
}

// CreateTransferHandler handles POST /v1/transfer.
type CreateTransferHandler struct {
	TransferService transferCreator
	now             func() time.Time
}

func NewCreateTransferHandler(svc transferCreator) *CreateTransferHandler {
	return &CreateTransferHandler{TransferService: svc, now: time.Now}
}

func (h *CreateTransferHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "create-transfer",
		Method:      http.MethodPost,
		Path:        "/v1/transfer",
		Summary:     "Create transfer",
		Description: "Moves money between two accounts of the caller. Both legs and both balances change atomically.",
		Tags:        []string{"Transfers"},
	}, h.handle)
}

func parseCreateTransferInput(input *CreateTransferInput) (req service.TransferRequest, err error) {
	if req.UserID, err = input.User(); err != nil {
		return
	}
	if req.SourceAccountID, err = common.ParseUUID("sourceAccountID", input.Body.SourceAccountID); err != nil {
		return
	}
	if req.DestinationAccountID, err = common.ParseUUID("destinationAccountID", input.Body.DestinationAccountID); err != nil {
		return
	}
	if req.Amount, err = common.ParseDecimal("amount", input.Body.Amount); err != nil {
		return
	}
	if input.Body.Date != "" {
		if req.Date, err = common.ParseTime("date", input.Body.Date); err != nil {
			return
		}
	}
	req.Description = input.Body.Description
	return req, nil
}

func (h *CreateTransferHandler) handle(ctx context.Context, input *CreateTransferInput) (*CreateTransferOutput, error) {
	req, err := parseCreateTransferInput(input)
	if err != nil {
		return nil, err
	}
	if req.Date.IsZero() {
		req.Date = h.now().UTC()
	}

	stopTimer := logging.StartTiming(ctx, "createTransferMs")
	result, err := h.TransferService.CreateTransfer(ctx, req)
	stopTimer()
	if err != nil {
		return nil, common.Error(err)
	}

	logging.AddData(ctx, "transferID", result.Transfer.ID.String())
	return &CreateTransferOutput{Status: http.StatusCreated, Body: toTransfer(result)}, nil
}

type GetTransferInput struct {
	common.UserHeader
	TransferID string `path:"transferID" format:"uuid" doc:"Transfer UUID"`
}

type GetTransferOutput struct {
	Body Transfer
}

type transferGetter interface {
	GetTransfer(ctx context.Context, userID, id uuid.UUID) (*service.TransferResult, error)
}

// GetTransferHandler handles GET /v1/transfer/{transferID}.
type GetTransferHandler struct {
	TransferService transferGetter
}

func NewGetTransferHandler(svc transferGetter) *GetTransferHandler {
	return &GetTransferHandler{TransferService: svc}
}

func (h *GetTransferHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "get-transfer",
		Method:      http.MethodGet,
		Path:        "/v1/transfer/{transferID}",
		Summary:     "Get transfer",
		Tags:        []string{"Transfers"},
	}, h.handle)
}

func (h *GetTransferHandler) handle(ctx context.Context, input *GetTransferInput) (*GetTransferOutput, error) {
	userID, err := input.User()
	if err != nil {
		return nil, err
	}
	transferID, err := common.ParseUUID("transferID", input.TransferID)
	if err != nil {
		return nil, err
	}

	result, err := h.TransferService.GetTransfer(ctx, userID, transferID)
	if err != nil {
		return nil, common.Error(err)
	}
	return &GetTransferOutput{Body: toTransfer(result)}, nil
}
