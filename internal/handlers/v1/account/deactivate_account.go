package account

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/ledger-server/internal/handlers/v1/common"
)

type DeactivateAccountOutput struct {
	Status int
}

type accountDeactivator interface {
	DeactivateAccount(ctx context.Context, userID, id uuid.UUID) error
}

// DeactivateAccountHandler handles DELETE /v1/account/{accountID}. Accounts
// are deactivated, never removed.
type DeactivateAccountHandler struct {
	AccountService accountDeactivator
}

func NewDeactivateAccountHandler(svc accountDeactivator) *DeactivateAccountHandler {
	return &DeactivateAccountHandler{AccountService: svc}
}

func (h *DeactivateAccountHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID:   "deactivate-account",
		Method:        http.MethodDelete,
		Path:          "/v1/account/{accountID}",
		Summary:       "Deactivate an account",
		Tags:          []string{"Accounts"},
		DefaultStatus: http.StatusNoContent,
	}, h.handle)
}

func (h *DeactivateAccountHandler) handle(ctx context.Context, input *AccountPath) (*DeactivateAccountOutput, error) {
	userID, accountID, err := parseAccountPath(input)
	if err != nil {
		return nil, err
	}
	if err := h.AccountService.DeactivateAccount(ctx, userID, accountID); err != nil {
		return nil, common.Error(err)
	}
	return &DeactivateAccountOutput{Status: http.StatusNoContent}, nil
}
