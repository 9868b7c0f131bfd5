// Package execution governs the terminal transition of a maintenance
// instance: resource seeding, form validation and the production of the
// immutable execution record. Starting and cancelling an instance are
// collaborator concerns outside this package.
package execution

import (
	"context"
	"fmt"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/oguzdev/plant-maintenance/internal/engine"
	"github.com/oguzdev/plant-maintenance/internal/models"
	"github.com/oguzdev/plant-maintenance/internal/resources"
)

// ReservationSource lists the tool reservations attached to an instance.
type ReservationSource interface {
	List(ctx context.Context, instanceID string) ([]models.Reservation, error)
}

// ChecklistSource returns a plan's required-tools checklist.
type ChecklistSource interface {
	RequiredTools(ctx context.Context, planID string) ([]models.RequiredTool, error)
}

// ToolSearchSource finds stock items that can be added ad hoc.
type ToolSearchSource interface {
	Search(ctx context.Context, query, companyID string) ([]models.Tool, error)
}

// Operator is one selectable member of the operator directory.
type Operator struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// OperatorDirectory lists the active employees of a company.
type OperatorDirectory interface {
	ListActive(ctx context.Context, companyID string) ([]Operator, error)
}

// ExecutionStore is the persistence sink for execution records. Create claims
// the instance and appends the record in one step; it must reject a second
// concurrent completion of the same instance.
type ExecutionStore interface {
	CreateExecutionRecord(ctx context.Context, record *models.ExecutionRecord) (string, error)
	HasCompletionOn(ctx context.Context, planID string, day time.Time) (bool, error)
}

// Invalidator signals dependent views (plan list, calendar, history) to
// refresh after a successful submission. Fire-and-forget.
type Invalidator interface {
	Invalidate(companyID string)
}

// Submitter runs the execution workflow for one instance.
type Submitter struct {
	reservations ReservationSource
	checklist    ChecklistSource
	store        ExecutionStore
	invalidator  Invalidator
	now          func() time.Time
}

// NewSubmitter creates a submitter wired to its collaborators.
func NewSubmitter(reservations ReservationSource, checklist ChecklistSource, store ExecutionStore, invalidator Invalidator) *Submitter {
	return &Submitter{
		reservations: reservations,
		checklist:    checklist,
		store:        store,
		invalidator:  invalidator,
		now:          time.Now,
	}
}

// Begin seeds the resource ledger for an execution attempt. Corrective
// executions draw from the reservation collaborator, preventive ones from the
// plan checklist. If the collaborator is unavailable the ledger starts empty;
// resources are informative, not a precondition for completing the work.
func (s *Submitter) Begin(ctx context.Context, inst models.MaintenanceInstance, plan models.MaintenancePlan, kind resources.ExecutionKind) *resources.Ledger {
	if kind == resources.KindPreventive {
		tools, err := s.checklist.RequiredTools(ctx, plan.ID.Hex())
		if err != nil {
			log.WithError(err).WithField("plan_id", inst.PlanID).Warn("checklist unavailable, starting with empty resource list")
			return resources.NewFromChecklist(nil)
		}
		return resources.NewFromChecklist(tools)
	}
	reserved, err := s.reservations.List(ctx, inst.ID.Hex())
	if err != nil {
		log.WithError(err).WithField("instance_id", inst.ID.Hex()).Warn("reservations unavailable, starting with empty resource list")
		return resources.NewFromReservations(nil)
	}
	return resources.NewFromReservations(reserved)
}

// Submit validates the form and, if it passes, produces the execution record
// and fires the invalidation signal; the store completes the instance as part
// of creating the record. Either a record is created in full or nothing
// happens; there is no partial state to roll back. A *ValidationError is
// returned for malformed input, ErrInstanceClosed for a cancelled instance and
// db.ErrConflict passes through when another submission won the race.
func (s *Submitter) Submit(ctx context.Context, inst models.MaintenanceInstance, plan models.MaintenancePlan, input FormInput, ledger *resources.Ledger) (*models.ExecutionRecord, error) {
	// Cancelled is terminal with no way back. Completed instances continue
	// and must justify themselves as re-executions.
	if inst.Status.IsTerminal() && inst.Status != models.InstanceCompleted {
		return nil, ErrInstanceClosed
	}

	now := s.now()

	wasCompletedToday, err := s.store.HasCompletionOn(ctx, inst.PlanID, engine.TruncateToDay(now))
	if err != nil {
		return nil, fmt.Errorf("failed to check prior completions: %w", err)
	}

	if verr := Validate(input, wasCompletedToday); verr != nil {
		return nil, verr
	}

	record := s.buildRecord(inst, plan, input, ledger, wasCompletedToday, now)

	if _, err := s.store.CreateExecutionRecord(ctx, record); err != nil {
		return nil, err
	}

	if s.invalidator != nil {
		s.invalidator.Invalidate(inst.CompanyID)
	}
	return record, nil
}

func (s *Submitter) buildRecord(inst models.MaintenanceInstance, plan models.MaintenancePlan, input FormInput, ledger *resources.Ledger, wasCompletedToday bool, now time.Time) *models.ExecutionRecord {
	rawDuration, _ := parsePositive(input.ActualDuration)
	hours, rawUnit := normalizeDuration(rawDuration, input.DurationUnit)

	record := &models.ExecutionRecord{
		CompanyID:       inst.CompanyID,
		InstanceID:      inst.ID.Hex(),
		PlanID:          inst.PlanID,
		ExecutedAt:      now,
		DurationHours:   hours,
		RawDuration:     rawDuration,
		RawDurationUnit: rawUnit,
		Status:          input.Status,
		Operators:       input.Operators,
		Notes:           input.Notes,
		Issues:          input.Issues,
		MachineID:       plan.MachineID,
		MobileUnitID:    plan.MobileUnitID,
		ComponentID:     plan.ComponentID,
		CreatedAt:       now,
	}

	// Exclusion always wins: a raw value submitted anyway is discarded.
	if !input.ExcludeQuantity {
		if v, ok := parsePositive(input.ActualValue); ok {
			unit := input.ActualUnit
			record.ActualValue = &v
			record.ActualUnit = &unit
		}
	}

	if wasCompletedToday {
		reason := strings.TrimSpace(input.ReExecutionReason)
		record.ReExecutionReason = &reason
	}

	if ledger != nil {
		record.Resources = ledger.Snapshots()
	}
	return record
}
