package account

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"

	"github.com/carson-networks/ledger-server/internal/handlers/v1/common"
	"github.com/carson-networks/ledger-server/internal/logging"
	"github.com/carson-networks/ledger-server/internal/storage/balancehistory"
)

// BalanceEntry is one balance snapshot.
type BalanceEntry struct {
	Balance    string `json:"balance" doc:"Balance after the change"`
	RecordedAt string `json:"recordedAt" doc:"RFC3339 time the balance took effect"`
}

func toBalanceEntry(e *balancehistory.Entry) BalanceEntry {
	return BalanceEntry{Balance: e.Balance.String(), RecordedAt: common.FormatTime(e.RecordedAt)}
}

type ReconcileBalanceInput struct {
	AccountPath
	Body struct {
		Balance string `json:"balance" required:"true" doc:"Balance the account should hold"`
	}
}

type ReconcileBalanceOutput struct {
	Body BalanceEntry
}

type balanceReconciler interface {
	ReconcileBalance(ctx context.Context, userID, id uuid.UUID, newBalance decimal.Decimal) (*balancehistory.Entry, error)
}

// ReconcileBalanceHandler handles PUT /v1/account/{accountID}/balance.
type ReconcileBalanceHandler struct {
	AccountService balanceReconciler
}

func NewReconcileBalanceHandler(svc balanceReconciler) *ReconcileBalanceHandler {
	return &ReconcileBalanceHandler{AccountService: svc}
}

func (h *ReconcileBalanceHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "reconcile-balance",
		Method:      http.MethodPut,
		Path:        "/v1/account/{accountID}/balance",
		Summary:     "Reconcile an account balance",
		Description: "Sets the balance to an absolute value by applying the difference through the ledger.",
		Tags:        []string{"Accounts"},
	}, h.handle)
}

func (h *ReconcileBalanceHandler) handle(ctx context.Context, input *ReconcileBalanceInput) (*ReconcileBalanceOutput, error) {
	userID, accountID, err := parseAccountPath(&input.AccountPath)
	if err != nil {
		return nil, err
	}
	balance, err := common.ParseDecimal("balance", input.Body.Balance)
	if err != nil {
		return nil, err
	}

	stopTimer := logging.StartTiming(ctx, "reconcileBalanceMs")
	entry, err := h.AccountService.ReconcileBalance(ctx, userID, accountID, balance)
	stopTimer()
	if err != nil {
		return nil, common.Error(err)
	}
	return &ReconcileBalanceOutput{Body: toBalanceEntry(entry)}, nil
}

type BalanceHistoryInput struct {
	AccountPath
	Start string `query:"start" required:"true" format:"date-time" doc:"RFC3339 range start, inclusive"`
	End   string `query:"end" required:"true" format:"date-time" doc:"RFC3339 range end, inclusive"`
}

type BalanceHistoryOutput struct {
	Body struct {
		Entries []BalanceEntry `json:"entries" doc:"Snapshots in the range, oldest first"`
	}
}

type balanceHistoryLister interface {
	BalanceHistory(ctx context.Context, userID, id uuid.UUID, start, end time.Time) ([]*balancehistory.Entry, error)
}

// BalanceHistoryHandler handles GET /v1/account/{accountID}/balance-history.
type BalanceHistoryHandler struct {
	AccountService balanceHistoryLister
}

func NewBalanceHistoryHandler(svc balanceHistoryLister) *BalanceHistoryHandler {
	return &BalanceHistoryHandler{AccountService: svc}
}

func (h *BalanceHistoryHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "balance-history",
		Method:      http.MethodGet,
		Path:        "/v1/account/{accountID}/balance-history",
		Summary:     "Balance history",
		Description: "Returns the balance snapshots of an account recorded within [start, end].",
		Tags:        []string{"Accounts"},
	}, h.handle)
}

func (h *BalanceHistoryHandler) handle(ctx context.Context, input *BalanceHistoryInput) (*BalanceHistoryOutput, error) {
	userID, accountID, err := parseAccountPath(&input.AccountPath)
	if err != nil {
		return nil, err
	}
	start, err := common.ParseTime("start", input.Start)
	if err != nil {
		return nil, err
	}
	end, err := common.ParseTime("end", input.End)
	if err != nil {
		return nil, err
	}

	entries, err := h.AccountService.BalanceHistory(ctx, userID, accountID, start, end)
	if err != nil {
		return nil, common.Error(err)
	}
	logging.AddData(ctx, "entryCount", len(entries))

	out := &BalanceHistoryOutput{}
	out.Body.Entries = make([]BalanceEntry, len(entries))
	for i, e := range entries {
		out.Body.Entries[i] = toBalanceEntry(e)
	}
	return out, nil
}
