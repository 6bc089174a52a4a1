package recurring

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/ledger-server/internal/handlers/v1/common"
	"github.com/carson-networks/ledger-server/internal/logging"
	"github.com/carson-networks/ledger-server/internal/recurrence"
	"github.com/carson-networks/ledger-server/internal/storage/recurring"
	"github.com/carson-networks/ledger-server/internal/storage/transaction"
)

// Recurring is the API response model for a recurring template.
type Recurring struct {
	ID                string `json:"id" doc:"Template UUID"`
	AccountID         string `json:"accountID" doc:"Account UUID"`
	CategoryID        string `json:"categoryID,omitempty" doc:"Category UUID"`
	SubcategoryID     string `json:"subcategoryID,omitempty" doc:"Subcategory UUID"`
	Type              string `json:"type" doc:"INCOME or EXPENSE"`
	Amount            string `json:"amount" doc:"Decimal amount per occurrence"`
	Description       string `json:"description" doc:"Description copied to each occurrence"`
	Frequency         string `json:"frequency" doc:"DAILY, WEEKLY, MONTHLY or YEARLY"`
	StartDate         string `json:"startDate" doc:"First occurrence, YYYY-MM-DD"`
	EndDate           string `json:"endDate,omitempty" doc:"Last possible occurrence, YYYY-MM-DD"`
	LastGeneratedDate string `json:"lastGeneratedDate,omitempty" doc:"Newest materialized occurrence, YYYY-MM-DD"`
	Active            bool   `json:"active" doc:"Whether the template still generates"`
	CreatedAt         string `json:"createdAt" doc:"RFC3339 creation time"`
}

func toRecurring(t *recurring.Template) Recurring {
	return Recurring{
		ID:                t.ID.String(),
		AccountID:         t.AccountID.String(),
		CategoryID:        common.FormatNullUUID(t.CategoryID),
		SubcategoryID:     common.FormatNullUUID(t.SubcategoryID),
		Type:              t.Type.String(),
		Amount:            t.Amount.String(),
		Description:       t.Description,
		Frequency:         t.Frequency.String(),
		StartDate:         common.FormatDate(t.StartDate),
		EndDate:           common.FormatOptionalDate(t.EndDate),
		LastGeneratedDate: common.FormatOptionalDate(t.LastGeneratedDate),
		Active:            t.IsActive(),
		CreatedAt:         common.FormatTime(t.CreatedAt),
	}
}

// RecurringPath addresses one template of the caller.
type RecurringPath struct {
	common.UserHeader
	RecurringID string `path:"recurringID" format:"uuid" doc:"Template UUID"`
}

func parseRecurringPath(p *RecurringPath) (userID, id uuid.UUID, err error) {
	if userID, err = p.User(); err != nil {
		return
	}
	id, err = common.ParseUUID("recurringID", p.RecurringID)
	return
}

type RecurringOutput struct {
	Body Recurring
}

type CreateRecurringBody struct {
	AccountID     string `json:"accountID" required:"true" format:"uuid" doc:"Account UUID"`
	Type          string `json:"type" required:"true" enum:"INCOME,EXPENSE" doc:"Direction of every occurrence"`
	Amount        string `json:"amount" required:"true" doc:"Positive decimal amount"`
	Frequency     string `json:"frequency" required:"true" enum:"DAILY,WEEKLY,MONTHLY,YEARLY" doc:"Recurrence frequency"`
	StartDate     string `json:"startDate" required:"true" format:"date" doc:"First occurrence, YYYY-MM-DD"`
	EndDate       string `json:"endDate,omitempty" format:"date" doc:"Last possible occurrence, YYYY-MM-DD"`
	Description   string `json:"description,omitempty" doc:"Description"`
	CategoryID    string `json:"categoryID,omitempty" format:"uuid" doc:"Category UUID"`
	SubcategoryID string `json:"subcategoryID,omitempty" format:"uuid" doc:"Subcategory UUID"`
}

type CreateRecurringInput struct {
	common.UserHeader
	Body CreateRecurringBody
}

type CreateRecurringOutput struct {
	Status int
	Body   Recurring
}

type recurringCreator interface {
	CreateRecurring(ctx context.Context, create recurring.TemplateCreate) (*recurring.Template, error)
}

// CreateRecurringHandler handles POST /v1/recurring.
type CreateRecurringHandler struct {
	RecurringService recurringCreator
}

func NewCreateRecurringHandler(svc recurringCreator) *CreateRecurringHandler {
	return &CreateRecurringHandler{RecurringService: svc}
}

func (h *CreateRecurringHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "create-recurring",
		Method:      http.MethodPost,
		Path:        "/v1/recurring",
		Summary:     "Create recurring transaction",
		Description: "Creates a template. Occurrences are materialized by the sweeper or on demand.",
		Tags:        []string{"Recurring"},
	}, h.handle)
}

func parseCreateRecurringInput(input *CreateRecurringInput) (create recurring.TemplateCreate, err error) {
	if create.UserID, err = input.User(); err != nil {
		return
	}
	body := &input.Body
	if create.AccountID, err = common.ParseUUID("accountID", body.AccountID); err != nil {
		return
	}
	if create.Type, err = transaction.ParseType(body.Type); err != nil {
		err = huma.NewError(http.StatusBadRequest, "invalid type", err)
		return
	}
	if create.Amount, err = common.ParseDecimal("amount", body.Amount); err != nil {
		return
	}
	if create.Frequency, err = recurrence.ParseFrequency(body.Frequency); err != nil {
		err = huma.NewError(http.StatusBadRequest, "invalid frequency", err)
		return
	}
	if create.StartDate, err = common.ParseDate("startDate", body.StartDate); err != nil {
		return
	}
	if body.EndDate != "" {
		var end time.Time
		if end, err = common.ParseDate("endDate", body.EndDate); err != nil {
			return
		}
		create.EndDate = &end
	}
	if create.CategoryID, err = common.ParseOptionalUUID("categoryID", body.CategoryID); err != nil {
		return
	}
	if create.SubcategoryID, err = common.ParseOptionalUUID("subcategoryID", body.SubcategoryID); err != nil {
		return
	}
	create.Description = body.Description
	return create, nil
}

func (h *CreateRecurringHandler) handle(ctx context.Context, input *CreateRecurringInput) (*CreateRecurringOutput, error) {
	create, err := parseCreateRecurringInput(input)
	if err != nil {
		return nil, err
	}

	tpl, err := h.RecurringService.CreateRecurring(ctx, create)
	if err != nil {
		return nil, common.Error(err)
	}

	logging.AddData(ctx, "recurringID", tpl.ID.String())
	return &CreateRecurringOutput{Status: http.StatusCreated, Body: toRecurring(tpl)}, nil
}

type recurringGetter interface {
	GetRecurring(ctx context.Context, userID, id uuid.UUID) (*recurring.Template, error)
}

// GetRecurringHandler handles GET /v1/recurring/{recurringID}.
type GetRecurringHandler struct {
	RecurringService recurringGetter
}

func NewGetRecurringHandler(svc recurringGetter) *GetRecurringHandler {
	return &GetRecurringHandler{RecurringService: svc}
}

func (h *GetRecurringHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "get-recurring",
		Method:      http.MethodGet,
		Path:        "/v1/recurring/{recurringID}",
		Summary:     "Get recurring transaction",
		Tags:        []string{"Recurring"},
	}, h.handle)
}

func (h *GetRecurringHandler) handle(ctx context.Context, input *RecurringPath) (*RecurringOutput, error) {
	userID, id, err := parseRecurringPath(input)
	if err != nil {
		return nil, err
	}
	tpl, err := h.RecurringService.GetRecurring(ctx, userID, id)
	if err != nil {
		return nil, common.Error(err)
	}
	return &RecurringOutput{Body: toRecurring(tpl)}, nil
}

type ListRecurringInput struct {
	common.UserHeader
	IncludeInactive bool `query:"includeInactive" doc:"Also return deactivated templates"`
}

type ListRecurringBody struct {
	Recurring []Recurring `json:"recurring" doc:"The caller's templates"`
}

type ListRecurringOutput struct {
	Body ListRecurringBody
}

type recurringLister interface {
	ListRecurring(ctx context.Context, userID uuid.UUID, includeInactive bool) ([]*recurring.Template, error)
}

// ListRecurringHandler handles GET /v1/recurring.
type ListRecurringHandler struct {
	RecurringService recurringLister
}

func NewListRecurringHandler(svc recurringLister) *ListRecurringHandler {
	return &ListRecurringHandler{RecurringService: svc}
}

func (h *ListRecurringHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "list-recurring",
		Method:      http.MethodGet,
		Path:        "/v1/recurring",
		Summary:     "List recurring transactions",
		Tags:        []string{"Recurring"},
	}, h.handle)
}

func (h *ListRecurringHandler) handle(ctx context.Context, input *ListRecurringInput) (*ListRecurringOutput, error) {
	userID, err := input.User()
	if err != nil {
		return nil, err
	}
	tpls, err := h.RecurringService.ListRecurring(ctx, userID, input.IncludeInactive)
	if err != nil {
		return nil, common.Error(err)
	}

	out := make([]Recurring, len(tpls))
	for i, tpl := range tpls {
		out[i] = toRecurring(tpl)
	}
	return &ListRecurringOutput{Body: ListRecurringBody{Recurring: out}}, nil
}
