package engine

import (
	"time"

	"github.com/oguzdev/plant-maintenance/internal/models"
)

// ReconciledInstance is the canonical view of an instance after correcting for
// the eventually-consistent scheduling source. EffectiveDueDate and the flags
// are derived here and never stored.
type ReconciledInstance struct {
	models.MaintenanceInstance
	EffectiveDueDate time.Time `json:"effective_due_date"`
	IsOverdue        bool      `json:"is_overdue"`
	IsStale          bool      `json:"is_stale"`
}

// Reconcile corrects one instance against the last known completion of its
// plan. A pending instance is stale when a completion already satisfies the
// current cycle, that is when the day gap between the nominal scheduled date
// and the last completion is at most frequencyDays (the boundary is
// inclusive). Stale instances get their due date pushed to the next cycle;
// everything downstream (views, metrics) consumes the corrected date instead
// of re-deriving it.
func Reconcile(inst models.MaintenanceInstance, lastCompleted *time.Time, frequencyDays int, now time.Time) (ReconciledInstance, error) {
	if frequencyDays <= 0 {
		return ReconciledInstance{}, &models.ConfigurationError{
			Field:   "frequency_days",
			Message: "frequency must be a positive number of days",
		}
	}

	out := ReconciledInstance{MaintenanceInstance: inst}

	stale := inst.Status == models.InstancePending &&
		lastCompleted != nil &&
		daysBetween(*lastCompleted, inst.ScheduledDate) <= frequencyDays

	out.IsStale = stale
	if stale {
		out.EffectiveDueDate = NextDueDate(lastCompleted, frequencyDays, inst.ScheduledDate)
	} else {
		out.EffectiveDueDate = TruncateToDay(inst.ScheduledDate)
	}

	out.IsOverdue = inst.Status == models.InstancePending &&
		out.EffectiveDueDate.Before(TruncateToDay(now))

	return out, nil
}

// ReconcileAll reconciles a batch of instances, looking up each plan's
// frequency from the supplied plan set. Instances whose plan is missing or
// misconfigured are skipped rather than failing the whole view.
func ReconcileAll(instances []models.MaintenanceInstance, plans map[string]models.MaintenancePlan, now time.Time) []ReconciledInstance {
	out := make([]ReconciledInstance, 0, len(instances))
	for _, inst := range instances {
		plan, ok := plans[inst.PlanID]
		if !ok {
			continue
		}
		rec, err := Reconcile(inst, inst.LastCompleted, plan.FrequencyDays, now)
		if err != nil {
			continue
		}
		out = append(out, rec)
	}
	return out
}
