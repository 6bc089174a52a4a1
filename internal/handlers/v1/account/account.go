package account

import (
	"github.com/carson-networks/ledger-server/internal/handlers/v1/common"
	"github.com/carson-networks/ledger-server/internal/storage/account"
)

// Account is the API response model for an account.
type Account struct {
	ID             string `json:"id" doc:"Account UUID"`
	Name           string `json:"name" doc:"Account name"`
	Type           string `json:"type" doc:"CASH, DEBIT, CREDIT or INVESTMENT"`
	Balance        string `json:"balance" doc:"Decimal balance"`
	CreditLimit    string `json:"creditLimit,omitempty" doc:"Credit limit of CREDIT accounts"`
	PaymentDay     *int   `json:"paymentDay,omitempty" doc:"Payment day of CREDIT accounts"`
	CutoffDay      *int   `json:"cutoffDay,omitempty" doc:"Statement cutoff day of CREDIT accounts"`
	Bank           string `json:"bank,omitempty" doc:"Issuing bank"`
	CardNumber     string `json:"cardNumber,omitempty" doc:"Card number"`
	InvestmentType string `json:"investmentType,omitempty" doc:"Investment type of INVESTMENT accounts"`
	AnnualReturn   string `json:"annualReturn,omitempty" doc:"Expected annual return percentage"`
	Notes          string `json:"notes,omitempty" doc:"Free-form notes"`
	CreatedAt      string `json:"createdAt" doc:"RFC3339 creation time"`
	UpdatedAt      string `json:"updatedAt" doc:"RFC3339 last update time"`
}

func toAccount(acc *account.Account) Account {
	return Account{
		ID:             acc.ID.String(),
		Name:           acc.Name,
		Type:           acc.Type.String(),
		Balance:        acc.Balance.String(),
		CreditLimit:    common.FormatNullDecimal(acc.CreditLimit),
		PaymentDay:     acc.PaymentDay,
		CutoffDay:      acc.CutoffDay,
		Bank:           acc.Bank,
		CardNumber:     acc.CardNumber,
		InvestmentType: string(acc.InvestmentType),
		AnnualReturn:   common.FormatNullDecimal(acc.AnnualReturn),
		Notes:          acc.Notes,
		CreatedAt:      common.FormatTime(acc.CreatedAt),
		UpdatedAt:      common.FormatTime(acc.UpdatedAt),
	}
}

// AccountPath addresses one account of the caller.
type AccountPath struct {
	common.UserHeader
	AccountID string `path:"accountID" format:"uuid" doc:"Account UUID"`
}

// AccountOutput returns a single account.
type AccountOutput struct {
	Body Account
}
