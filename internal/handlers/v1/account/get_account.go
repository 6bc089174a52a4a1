package account

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/ledger-server/internal/handlers/v1/common"
	"github.com/carson-networks/ledger-server/internal/logging"
	"github.com/carson-networks/ledger-server/internal/storage/account"
)

type accountGetter interface {
	GetAccount(ctx context.Context, userID, id uuid.UUID) (*account.Account, error)
}

// GetAccountHandler handles GET /v1/account/{accountID}.
type GetAccountHandler struct {
	AccountService accountGetter
}

func NewGetAccountHandler(svc accountGetter) *GetAccountHandler {
	return &GetAccountHandler{AccountService: svc}
}

func (h *GetAccountHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "get-account",
		Method:      http.MethodGet,
		Path:        "/v1/account/{accountID}",
		Summary:     "Get an account",
		Tags:        []string{"Accounts"},
	}, h.handle)
}

func parseAccountPath(input *AccountPath) (userID, accountID uuid.UUID, err error) {
	if userID, err = input.User(); err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	if accountID, err = common.ParseUUID("accountID", input.AccountID); err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	return userID, accountID, nil
}

func (h *GetAccountHandler) handle(ctx context.Context, input *AccountPath) (*AccountOutput, error) {
	userID, accountID, err := parseAccountPath(input)
	if err != nil {
		return nil, err
	}
	logging.AddData(ctx, "accountID", accountID.String())

	acc, err := h.AccountService.GetAccount(ctx, userID, accountID)
	if err != nil {
		return nil, common.Error(err)
	}
	return &AccountOutput{Body: toAccount(acc)}, nil
}
