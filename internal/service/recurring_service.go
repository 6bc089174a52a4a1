package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/ledger-server/internal/ledgererr"
	"github.com/carson-networks/ledger-server/internal/operator/actions"
	"github.com/carson-networks/ledger-server/internal/recurrence"
	"github.com/carson-networks/ledger-server/internal/storage"
	"github.com/carson-networks/ledger-server/internal/storage/recurring"
	"github.com/carson-networks/ledger-server/internal/storage/transaction"
)

// RecurringService manages recurring templates and materializes their occurrences.
type RecurringService struct {
	storage storage.IStorage
	ops     Processor
	clock   Clock
}

func NewRecurringService(store storage.IStorage, ops Processor, clock Clock) *RecurringService {
	return &RecurringService{storage: store, ops: ops, clock: clock}
}

func (s *RecurringService) CreateRecurring(ctx context.Context, create recurring.TemplateCreate) (*recurring.Template, error) {
	action := &actions.CreateRecurring{Create: create, Now: s.clock()}
	if err := s.ops.Process(ctx, action); err != nil {
		return nil, err
	}
	return action.Template, nil
}

func (s *RecurringService) UpdateRecurring(ctx context.Context, userID, id uuid.UUID, update recurring.TemplateUpdate) (*recurring.Template, error) {
	action := &actions.UpdateRecurring{UserID: userID, RecurringID: id, Update: update, Now: s.clock()}
	if err := s.ops.Process(ctx, action); err != nil {
		return nil, err
	}
	return action.Template, nil
}

func (s *RecurringService) DeactivateRecurring(ctx context.Context, userID, id uuid.UUID) error {
	return s.ops.Process(ctx, &actions.DeactivateRecurring{UserID: userID, RecurringID: id, Now: s.clock()})
}

func (s *RecurringService) GetRecurring(ctx context.Context, userID, id uuid.UUID) (*recurring.Template, error) {
	tpl, err := s.storage.Reader().Recurring.FindByID(ctx, id)
	if err != nil {
		return nil, ledgererr.Storage("find recurring", err)
	}
	if tpl == nil || tpl.UserID != userID {
		return nil, ledgererr.ErrRecurringNotFound
	}
	return tpl, nil
}

func (s *RecurringService) ListRecurring(ctx context.Context, userID uuid.UUID, includeInactive bool) ([]*recurring.Template, error) {
	tpls, err := s.storage.Reader().Recurring.List(ctx, &recurring.TemplateFilter{UserID: userID, IncludeInactive: includeInactive})
	if err != nil {
		return nil, ledgererr.Storage("list recurring", err)
	}
	return tpls, nil
}

// DueOccurrences lists the not yet materialized occurrences of a template up to asOf.
func (s *RecurringService) DueOccurrences(ctx context.Context, userID, id uuid.UUID, asOf time.Time) ([]time.Time, error) {
	tpl, err := s.GetRecurring(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	return recurrence.DueOccurrences(tpl.Schedule(), asOf), nil
}

// Materialize creates the transaction of one occurrence of the user's template.
func (s *RecurringService) Materialize(ctx context.Context, userID, id uuid.UUID, occurrenceDate time.Time) (*transaction.Transaction, error) {
	action := &actions.MaterializeOccurrence{
		UserID:         uuid.NullUUID{UUID: userID, Valid: true},
		RecurringID:    id,
		OccurrenceDate: occurrenceDate,
		Now:            s.clock(),
	}
	if err := s.ops.Process(ctx, action); err != nil {
		return nil, err
	}
	return action.Transaction, nil
}

// SweepResult summarizes one MaterializeDue pass.
type SweepResult struct {
	Templates int
	Created   int
	// Skipped counts occurrences another sweeper generated first.
	Skipped int
	Failed  int
	Errors  []error
}

// MaterializeDue generates every due occurrence of every active template up
// to asOf. A failing template is skipped for this pass; its later
// occurrences wait for the next one so the cursor never jumps a gap.
func (s *RecurringService) MaterializeDue(ctx context.Context, asOf time.Time) (*SweepResult, error) {
	tpls, err := s.storage.Reader().Recurring.ListDue(ctx, asOf)
	if err != nil {
		return nil, ledgererr.Storage("list due recurring", err)
	}

	result := &SweepResult{Templates: len(tpls)}
	for _, tpl := range tpls {
		for _, date := range recurrence.DueOccurrences(tpl.Schedule(), asOf) {
			if err = ctx.Err(); err != nil {
				return result, err
			}

			err = s.ops.Process(ctx, &actions.MaterializeOccurrence{
				RecurringID:    tpl.ID,
				OccurrenceDate: date,
				Now:            s.clock(),
			})
			if errors.Is(err, ledgererr.ErrAlreadyGenerated) {
				result.Skipped++
				continue
			}
			if err != nil {
				result.Failed++
				result.Errors = append(result.Errors,
					fmt.Errorf("recurring %s on %s: %w", tpl.ID, date.Format(time.DateOnly), err))
				break
			}
			result.Created++
		}
	}
	return result, nil
}
