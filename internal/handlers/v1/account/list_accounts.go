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

// ListAccountsCursor is the pagination cursor of a response.
type ListAccountsCursor struct {
	Position int `json:"position" doc:"Offset for next page"`
	Limit    int `json:"limit" doc:"Page size"`
}

// ListAccountsInput is the Huma input for listing accounts.
type ListAccountsInput struct {
	common.UserHeader
	Position int `query:"position" minimum:"0" doc:"Offset for pagination"`
	Limit    int `query:"limit" minimum:"0" maximum:"100" doc:"Page size, default 20"`
}

// ListAccountsResponseBody is the response body for listing accounts.
type ListAccountsResponseBody struct {
	Accounts   []Account           `json:"accounts" doc:"Page of active accounts, newest first"`
	NextCursor *ListAccountsCursor `json:"nextCursor,omitempty" doc:"Cursor to fetch the next page, absent on the last page"`
}

type ListAccountsOutput struct {
	Body ListAccountsResponseBody
}

type accountLister interface {
	ListAccounts(ctx context.Context, userID uuid.UUID, cursor *account.AccountCursor) (*account.AccountListResult, error)
}

// ListAccountsHandler handles GET /v1/accounts.
type ListAccountsHandler struct {
	AccountService accountLister
}

func NewListAccountsHandler(svc accountLister) *ListAccountsHandler {
	return &ListAccountsHandler{AccountService: svc}
}

func (h *ListAccountsHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "list-accounts",
		Method:      http.MethodGet,
		Path:        "/v1/accounts",
		Summary:     "List accounts",
		Description: "Returns a paginated list of the caller's active accounts.",
		Tags:        []string{"Accounts"},
	}, h.handle)
}

func (h *ListAccountsHandler) handle(ctx context.Context, input *ListAccountsInput) (*ListAccountsOutput, error) {
	userID, err := input.User()
	if err != nil {
		return nil, err
	}

	var cursor *account.AccountCursor
	if input.Position > 0 || input.Limit > 0 {
		cursor = &account.AccountCursor{Position: input.Position, Limit: input.Limit}
	}

	stopTimer := logging.StartTiming(ctx, "listAccountsMs")
	result, err := h.AccountService.ListAccounts(ctx, userID, cursor)
	stopTimer()
	if err != nil {
		return nil, common.Error(err)
	}
	logging.AddData(ctx, "accountCount", len(result.Accounts))

	resp := ListAccountsResponseBody{
		Accounts: make([]Account, len(result.Accounts)),
	}
	for i, acc := range result.Accounts {
		resp.Accounts[i] = toAccount(acc)
	}
	if result.NextCursor != nil {
		resp.NextCursor = &ListAccountsCursor{
			Position: result.NextCursor.Position,
			Limit:    result.NextCursor.Limit,
		}
	}

	return &ListAccountsOutput{Body: resp}, nil
}
