package account

import (
	"context"
	"net/http"

	"github.com/aarondl/opt/omit"
	"github.com/danielgtaylor/huma/v2"
	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/ledger-server/internal/handlers/v1/common"
	"github.com/carson-networks/ledger-server/internal/storage/account"
)

// UpdateAccountBody carries the fields to change. Absent fields are kept.
type UpdateAccountBody struct {
	Name           *string `json:"name,omitempty" minLength:"1"`
	CreditLimit    *string `json:"creditLimit,omitempty"`
	PaymentDay     *int    `json:"paymentDay,omitempty" minimum:"1" maximum:"31"`
	CutoffDay      *int    `json:"cutoffDay,omitempty" minimum:"1" maximum:"31"`
	Bank           *string `json:"bank,omitempty"`
	CardNumber     *string `json:"cardNumber,omitempty"`
	InvestmentType *string `json:"investmentType,omitempty"`
	AnnualReturn   *string `json:"annualReturn,omitempty"`
	Notes          *string `json:"notes,omitempty"`
}

type UpdateAccountInput struct {
	AccountPath
	Body UpdateAccountBody
}

type accountUpdater interface {
	UpdateAccount(ctx context.Context, userID, id uuid.UUID, update account.AccountUpdate) (*account.Account, error)
}

// UpdateAccountHandler handles PATCH /v1/account/{accountID}.
type UpdateAccountHandler struct {
	AccountService accountUpdater
}

func NewUpdateAccountHandler(svc accountUpdater) *UpdateAccountHandler {
	return &UpdateAccountHandler{AccountService: svc}
}

func (h *UpdateAccountHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "update-account",
		Method:      http.MethodPatch,
		Path:        "/v1/account/{accountID}",
		Summary:     "Update an account",
		Description: "Changes descriptive fields. The balance only moves through the ledger.",
		Tags:        []string{"Accounts"},
	}, h.handle)
}

func parseUpdateAccountBody(body *UpdateAccountBody) (account.AccountUpdate, error) {
	var update account.AccountUpdate
	if body.Name != nil {
		update.Name = omit.From(*body.Name)
	}
	if body.CreditLimit != nil {
		v, err := common.ParseDecimal("creditLimit", *body.CreditLimit)
		if err != nil {
			return update, err
		}
		update.CreditLimit = omit.From(v)
	}
	if body.PaymentDay != nil {
		update.PaymentDay = omit.From(*body.PaymentDay)
	}
	if body.CutoffDay != nil {
		update.CutoffDay = omit.From(*body.CutoffDay)
	}
	if body.Bank != nil {
		update.Bank = omit.From(*body.Bank)
	}
	if body.CardNumber != nil {
		update.CardNumber = omit.From(*body.CardNumber)
	}
	if body.InvestmentType != nil {
		v, err := account.ParseInvestmentType(*body.InvestmentType)
		if err != nil {
			return update, huma.NewError(http.StatusBadRequest, "invalid investmentType", err)
		}
		update.InvestmentType = omit.From(v)
	}
	if body.AnnualReturn != nil {
		v, err := common.ParseDecimal("annualReturn", *body.AnnualReturn)
		if err != nil {
			return update, err
		}
		update.AnnualReturn = omit.From(v)
	}
	if body.Notes != nil {
		update.Notes = omit.From(*body.Notes)
	}
	return update, nil
}

func (h *UpdateAccountHandler) handle(ctx context.Context, input *UpdateAccountInput) (*AccountOutput, error) {
	userID, accountID, err := parseAccountPath(&input.AccountPath)
	if err != nil {
		return nil, err
	}
	update, err := parseUpdateAccountBody(&input.Body)
	if err != nil {
		return nil, err
	}

	acc, err := h.AccountService.UpdateAccount(ctx, userID, accountID, update)
	if err != nil {
		return nil, common.Error(err)
	}
	return &AccountOutput{Body: toAccount(acc)}, nil
}
