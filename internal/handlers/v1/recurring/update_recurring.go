package recurring

import (
	"context"
	"net/http"

	"github.com/aarondl/opt/omit"
	"github.com/danielgtaylor/huma/v2"
	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/ledger-server/internal/handlers/v1/common"
	"github.com/carson-networks/ledger-server/internal/storage/recurring"
)

// UpdateRecurringBody carries the fields to change. Frequency and start date are fixed.
type UpdateRecurringBody struct {
	Amount        *string `json:"amount,omitempty" doc:"Positive decimal amount"`
	Description   *string `json:"description,omitempty"`
	CategoryID    *string `json:"categoryID,omitempty" format:"uuid"`
	SubcategoryID *string `json:"subcategoryID,omitempty" format:"uuid"`
	EndDate       *string `json:"endDate,omitempty" format:"date"`
}

type UpdateRecurringInput struct {
	RecurringPath
	Body UpdateRecurringBody
}

type recurringUpdater interface {
	UpdateRecurring(ctx context.Context, userID, id uuid.UUID, update recurring.TemplateUpdate) (*recurring.Template, error)
}

// UpdateRecurringHandler handles PATCH /v1/recurring/{recurringID}.
type UpdateRecurringHandler struct {
	RecurringService recurringUpdater
}

func NewUpdateRecurringHandler(svc recurringUpdater) *UpdateRecurringHandler {
	return &UpdateRecurringHandler{RecurringService: svc}
}

func (h *UpdateRecurringHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "update-recurring",
		Method:      http.MethodPatch,
		Path:        "/v1/recurring/{recurringID}",
		Summary:     "Update recurring transaction",
		Description: "Changes amount, description, category or end date. Already generated occurrences are not touched.",
		Tags:        []string{"Recurring"},
	}, h.handle)
}

func parseUpdateRecurringBody(body *UpdateRecurringBody) (update recurring.TemplateUpdate, err error) {
	if body.Amount != nil {
		amount, err := common.ParseDecimal("amount", *body.Amount)
		if err != nil {
			return update, err
		}
		update.Amount = omit.From(amount)
	}
	if body.Description != nil {
		update.Description = omit.From(*body.Description)
	}
	if body.CategoryID != nil {
		id, err := common.ParseUUID("categoryID", *body.CategoryID)
		if err != nil {
			return update, err
		}
		update.CategoryID = omit.From(id)
	}
	if body.SubcategoryID != nil {
		id, err := common.ParseUUID("subcategoryID", *body.SubcategoryID)
		if err != nil {
			return update, err
		}
		update.SubcategoryID = omit.From(id)
	}
	if body.EndDate != nil {
		end, err := common.ParseDate("endDate", *body.EndDate)
		if err != nil {
			return update, err
		}
		update.EndDate = omit.From(end)
	}
	return update, nil
}

func (h *UpdateRecurringHandler) handle(ctx context.Context, input *UpdateRecurringInput) (*RecurringOutput, error) {
	userID, id, err := parseRecurringPath(&input.RecurringPath)
	if err != nil {
		return nil, err
	}
	update, err := parseUpdateRecurringBody(&input.Body)
	if err != nil {
		return nil, err
	}

	tpl, err := h.RecurringService.UpdateRecurring(ctx, userID, id, update)
	if err != nil {
		return nil, common.Error(err)
	}
	return &RecurringOutput{Body: toRecurring(tpl)}, nil
}

type DeactivateRecurringOutput struct {
	Status int
}

type recurringDeactivator interface {
	DeactivateRecurring(ctx context.Context, userID, id uuid.UUID) error
}

// DeactivateRecurringHandler handles DELETE /v1/recurring/{recurringID}.
type DeactivateRecurringHandler struct {
	RecurringService recurringDeactivator
}

func NewDeactivateRecurringHandler(svc recurringDeactivator) *DeactivateRecurringHandler {
	return &DeactivateRecurringHandler{RecurringService: svc}
}

func (h *DeactivateRecurringHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "deactivate-recurring",
		Method:      http.MethodDelete,
		Path:        "/v1/recurring/{recurringID}",
		Summary:     "Deactivate recurring transaction",
		Description: "Stops future generation. Generated transactions are kept.",
		Tags:        []string{"Recurring"},
	}, h.handle)
}

func (h *DeactivateRecurringHandler) handle(ctx context.Context, input *RecurringPath) (*DeactivateRecurringOutput, error) {
	userID, id, err := parseRecurringPath(input)
	if err != nil {
		return nil, err
	}
	if err = h.RecurringService.DeactivateRecurring(ctx, userID, id); err != nil {
		return nil, common.Error(err)
	}
	return &DeactivateRecurringOutput{Status: http.StatusNoContent}, nil
}
