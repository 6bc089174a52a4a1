package account

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/carson-networks/ledger-server/internal/handlers/v1/common"
	"github.com/carson-networks/ledger-server/internal/logging"
	"github.com/carson-networks/ledger-server/internal/storage/account"
)

// CreateAccountBody is the request body fields for creating an account.
type CreateAccountBody struct {
	Name           string `json:"name" required:"true" minLength:"1" doc:"Account name"`
	Type           string `json:"type" required:"true" enum:"CASH,DEBIT,CREDIT,INVESTMENT" doc:"Account type"`
	InitialBalance string `json:"initialBalance,omitempty" doc:"Opening balance (e.g. '1234.56'), defaults to 0"`
	CreditLimit    string `json:"creditLimit,omitempty" doc:"Required for CREDIT accounts"`
	PaymentDay     *int   `json:"paymentDay,omitempty" minimum:"1" maximum:"31" doc:"Required for CREDIT accounts"`
	CutoffDay      *int   `json:"cutoffDay,omitempty" minimum:"1" maximum:"31" doc:"Required for CREDIT accounts"`
	Bank           string `json:"bank,omitempty" doc:"Issuing bank"`
	CardNumber     string `json:"cardNumber,omitempty" doc:"Card number"`
	InvestmentType string `json:"investmentType,omitempty" doc:"CETES, CRYPTO, STOCKS, SAVINGS or OTHER"`
	AnnualReturn   string `json:"annualReturn,omitempty" doc:"Expected annual return percentage"`
	Notes          string `json:"notes,omitempty" doc:"Free-form notes"`
}

// CreateAccountInput is the Huma input for creating an account.
type CreateAccountInput struct {
	common.UserHeader
	Body CreateAccountBody
}

// CreateAccountOutput is the response for creating an account.
type CreateAccountOutput struct {
	Status int
	Body   Account
}

// accountCreator is the interface for creating accounts.
type accountCreator interface {
	CreateAccount(ctx context.Context, create account.AccountCreate) (*account.Account, error)
}

// CreateAccountHandler handles POST /v1/account.
type CreateAccountHandler struct {
	AccountService accountCreator
}

func NewCreateAccountHandler(svc accountCreator) *CreateAccountHandler {
	return &CreateAccountHandler{AccountService: svc}
}

func (h *CreateAccountHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "create-account",
		Method:      http.MethodPost,
		Path:        "/v1/account",
		Summary:     "Create an account",
		Description: "Creates an account. A non-zero initial balance is recorded in the balance history.",
		Tags:        []string{"Accounts"},
	}, h.handle)
}

func parseCreateAccountInput(input *CreateAccountInput) (account.AccountCreate, error) {
	userID, err := input.User()
	if err != nil {
		return account.AccountCreate{}, err
	}
	accountType, err := account.ParseAccountType(input.Body.Type)
	if err != nil {
		return account.AccountCreate{}, huma.NewError(http.StatusBadRequest, "invalid type", err)
	}

	create := account.AccountCreate{
		UserID:     userID,
		Name:       input.Body.Name,
		Type:       accountType,
		PaymentDay: input.Body.PaymentDay,
		CutoffDay:  input.Body.CutoffDay,
		Bank:       input.Body.Bank,
		CardNumber: input.Body.CardNumber,
		Notes:      input.Body.Notes,
	}

	if input.Body.InitialBalance != "" {
		if create.InitialBalance, err = common.ParseDecimal("initialBalance", input.Body.InitialBalance); err != nil {
			return account.AccountCreate{}, err
		}
	}
	if create.CreditLimit, err = common.ParseOptionalDecimal("creditLimit", input.Body.CreditLimit); err != nil {
		return account.AccountCreate{}, err
	}
	if create.AnnualReturn, err = common.ParseOptionalDecimal("annualReturn", input.Body.AnnualReturn); err != nil {
		return account.AccountCreate{}, err
	}
	if create.InvestmentType, err = account.ParseInvestmentType(input.Body.InvestmentType); err != nil {
		return account.AccountCreate{}, huma.NewError(http.StatusBadRequest, "invalid investmentType", err)
	}
	return create, nil
}

func (h *CreateAccountHandler) handle(ctx context.Context, input *CreateAccountInput) (*CreateAccountOutput, error) {
	create, err := parseCreateAccountInput(input)
	if err != nil {
		return nil, err
	}

	stopTimer := logging.StartTiming(ctx, "createAccountMs")
	acc, err := h.AccountService.CreateAccount(ctx, create)
	stopTimer()
	if err != nil {
		return nil, common.Error(err)
	}

	logging.AddData(ctx, "accountID", acc.ID.String())
	return &CreateAccountOutput{Status: http.StatusCreated, Body: toAccount(acc)}, nil
}
