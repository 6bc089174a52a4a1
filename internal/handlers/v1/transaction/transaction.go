package transaction

import (
	"github.com/carson-networks/ledger-server/internal/handlers/v1/common"
	"github.com/carson-networks/ledger-server/internal/storage/transaction"
)

// Transaction is the API response model for a transaction.
// It is used only for responses, not for request bodies.
type Transaction struct {
	ID              string `json:"id" doc:"Transaction UUID"`
	AccountID       string `json:"accountID" doc:"Account UUID"`
	Type            string `json:"type" doc:"INCOME or EXPENSE"`
	Amount          string `json:"amount" doc:"Positive decimal amount"`
	Description     string `json:"description,omitempty" doc:"Description"`
	TransactionDate string `json:"transactionDate" doc:"RFC3339 transaction date"`
	CategoryID      string `json:"categoryID,omitempty" doc:"Category UUID"`
	SubcategoryID   string `json:"subcategoryID,omitempty" doc:"Subcategory UUID"`
	RecurringID     string `json:"recurringID,omitempty" doc:"Template UUID of a materialized occurrence"`
	OriginalText    string `json:"originalText,omitempty" doc:"Raw text the transaction was captured from"`
	AutoCategorized bool   `json:"autoCategorized" doc:"Whether the category was assigned automatically"`
	CreatedAt       string `json:"createdAt" doc:"RFC3339 creation time"`
}

func ToTransaction(tx *transaction.Transaction) Transaction {
	return Transaction{
		ID:              tx.ID.String(),
		AccountID:       tx.AccountID.String(),
		Type:            tx.Type.String(),
		Amount:          tx.Amount.String(),
		Description:     tx.Description,
		TransactionDate: common.FormatTime(tx.TransactionDate),
		CategoryID:      common.FormatNullUUID(tx.CategoryID),
		SubcategoryID:   common.FormatNullUUID(tx.SubcategoryID),
		RecurringID:     common.FormatNullUUID(tx.RecurringID),
		OriginalText:    tx.OriginalText,
		AutoCategorized: tx.AutoCategorized,
		CreatedAt:       common.FormatTime(tx.CreatedAt),
	}
}

// TransactionPath addresses one transaction of the caller.
type TransactionPath struct {
	common.UserHeader
	TransactionID string `path:"transactionID" format:"uuid" doc:"Transaction UUID"`
}
