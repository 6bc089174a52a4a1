package recurring

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/ledger-server/internal/handlers/v1/common"
	txhandler "github.com/carson-networks/ledger-server/internal/handlers/v1/transaction"
	"github.com/carson-networks/ledger-server/internal/logging"
	"github.com/carson-networks/ledger-server/internal/recurrence"
	"github.com/carson-networks/ledger-server/internal/service"
	"github.com/carson-networks/ledger-server/internal/storage/transaction"
)

type DueOccurrencesInput struct {
	RecurringPath
	AsOf string `query:"asOf" format:"date" doc:"Inclusive horizon, YYYY-MM-DD. Defaults to today"`
}

type DueOccurrencesBody struct {
	Dates []string `json:"dates" doc:"Ungenerated occurrence dates, oldest first"`
}

type DueOccurrencesOutput struct {
	Body DueOccurrencesBody
}

type dueLister interface {
	DueOccurrences(ctx context.Context, userID, id uuid.UUID, asOf time.Time) ([]time.Time, error)
}

// DueOccurrencesHandler handles GET /v1/recurring/{recurringID}/due.
type DueOccurrencesHandler struct {
	RecurringService dueLister
	now              func() time.Time
}

func NewDueOccurrencesHandler(svc dueLister) *DueOccurrencesHandler {
	return &DueOccurrencesHandler{RecurringService: svc, now: time.Now}
}

func (h *DueOccurrencesHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "list-due-occurrences",
		Method:      http.MethodGet,
		Path:        "/v1/recurring/{recurringID}/due",
		Summary:     "List due occurrences",
		Tags:        []string{"Recurring"},
	}, h.handle)
}

// asOfOrToday parses s, defaulting to the current UTC calendar day.
func asOfOrToday(s string, now func() time.Time) (time.Time, error) {
	if s == "" {
		return recurrence.Day(now().UTC()), nil
	}
	return common.ParseDate("asOf", s)
}

func (h *DueOccurrencesHandler) handle(ctx context.Context, input *DueOccurrencesInput) (*DueOccurrencesOutput, error) {
	userID, id, err := parseRecurringPath(&input.RecurringPath)
	if err != nil {
		return nil, err
	}
	asOf, err := asOfOrToday(input.AsOf, h.now)
	if err != nil {
		return nil, err
	}

	dates, err := h.RecurringService.DueOccurrences(ctx, userID, id, asOf)
	if err != nil {
		return nil, common.Error(err)
	}

	out := make([]string, len(dates))
	for i, d := range dates {
		out[i] = common.FormatDate(d)
	}
	return &DueOccurrencesOutput{Body: DueOccurrencesBody{Dates: out}}, nil
}

type MaterializeBody struct {
	Date string `json:"date" required:"true" format:"date" doc:"Occurrence date, YYYY-MM-DD"`
}

type MaterializeInput struct {
	RecurringPath
	Body MaterializeBody
}

type MaterializeOutput struct {
	Status int
	Body   txhandler.Transaction
}

type occurrenceMaterializer interface {
	Materialize(ctx context.Context, userID, id uuid.UUID, occurrenceDate time.Time) (*transaction.Transaction, error)
}

// MaterializeHandler handles POST /v1/recurring/{recurringID}/materialize.
type MaterializeHandler struct {
	RecurringService occurrenceMaterializer
}

func NewMaterializeHandler(svc occurrenceMaterializer) *MaterializeHandler {
	return &MaterializeHandler{RecurringService: svc}
}

func (h *MaterializeHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "materialize-occurrence",
		Method:      http.MethodPost,
		Path:        "/v1/recurring/{recurringID}/materialize",
		Summary:     "Materialize one occurrence",
		Description: "Creates the transaction for one occurrence date. Returns 409 when that date was already generated.",
		Tags:        []string{"Recurring"},
	}, h.handle)
}

func (h *MaterializeHandler) handle(ctx context.Context, input *MaterializeInput) (*MaterializeOutput, error) {
	userID, id, err := parseRecurringPath(&input.RecurringPath)
	if err != nil {
		return nil, err
	}
	date, err := common.ParseDate("date", input.Body.Date)
	if err != nil {
		return nil, err
	}

	tx, err := h.RecurringService.Materialize(ctx, userID, id, date)
	if err != nil {
		return nil, common.Error(err)
	}

	logging.AddData(ctx, "transactionID", tx.ID.String())
	return &MaterializeOutput{Status: http.StatusCreated, Body: txhandler.ToTransaction(tx)}, nil
}

type MaterializeDueInput struct {
	AsOf string `query:"asOf" format:"date" doc:"Inclusive horizon, YYYY-MM-DD. Defaults to today"`
}

type MaterializeDueBody struct {
	Templates int      `json:"templates" doc:"Templates with due occurrences"`
	Created   int      `json:"created" doc:"Transactions generated"`
	Skipped   int      `json:"skipped" doc:"Occurrences generated concurrently by another sweep"`
	Failed    int      `json:"failed" doc:"Templates that stopped on an error"`
	Errors    []string `json:"errors,omitempty" doc:"One message per failed template"`
}

type MaterializeDueOutput struct {
	Body MaterializeDueBody
}

type dueMaterializer interface {
	MaterializeDue(ctx context.Context, asOf time.Time) (*service.SweepResult, error)
}

// MaterializeDueHandler handles POST /v1/recurring/materialize-due.
type MaterializeDueHandler struct {
	RecurringService dueMaterializer
	now              func() time.Time
}

func NewMaterializeDueHandler(svc dueMaterializer) *MaterializeDueHandler {
	return &MaterializeDueHandler{RecurringService: svc, now: time.Now}
}

func (h *MaterializeDueHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "materialize-due",
		Method:      http.MethodPost,
		Path:        "/v1/recurring/materialize-due",
		Summary:     "Run a recurring sweep",
		Description: "Generates every due occurrence of every active template, the same pass the background sweeper runs.",
		Tags:        []string{"Recurring"},
	}, h.handle)
}

func (h *MaterializeDueHandler) handle(ctx context.Context, input *MaterializeDueInput) (*MaterializeDueOutput, error) {
	asOf, err := asOfOrToday(input.AsOf, h.now)
	if err != nil {
		return nil, err
	}

	stopTimer := logging.StartTiming(ctx, "sweepMs")
	result, err := h.RecurringService.MaterializeDue(ctx, asOf)
	stopTimer()
	if err != nil {
		return nil, common.Error(err)
	}

	body := MaterializeDueBody{
		Templates: result.Templates,
		Created:   result.Created,
		Skipped:   result.Skipped,
		Failed:    result.Failed,
	}
	for _, e := range result.Errors {
		body.Errors = append(body.Errors, e.Error())
	}
	logging.AddData(ctx, "created", result.Created)
	return &MaterializeDueOutput{Body: body}, nil
}
