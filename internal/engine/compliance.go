package engine

import (
	"math"

	"github.com/oguzdev/plant-maintenance/internal/models"
)

// Aggregate computes plant-level compliance metrics from a reconciled
// instance set. An instance counts as completed on time when its completion
// landed before the scheduled date plus one day; the one-day grace window
// tolerates end-of-day completions. With no scheduled baseline the rate
// defaults to 100 — absence of data must never read as failure.
func Aggregate(instances []ReconciledInstance) models.ComplianceSnapshot {
	snap := models.ComplianceSnapshot{TotalPlans: len(instances)}

	totalScheduled := 0
	completedOnTime := 0

	for _, inst := range instances {
		switch inst.Status {
		case models.InstancePending:
			snap.Pending++
			if inst.IsOverdue {
				snap.Overdue++
			}
		case models.InstanceInProgress:
			snap.InProgress++
		case models.InstanceCompleted:
			snap.Completed++
		}

		if inst.ScheduledDate.IsZero() {
			continue
		}
		totalScheduled++

		if inst.Status == models.InstanceCompleted && inst.LastCompleted != nil {
			deadline := TruncateToDay(inst.ScheduledDate).AddDate(0, 0, 1)
			if inst.LastCompleted.Before(deadline) {
				completedOnTime++
			}
		}
	}

	// Pending covers everything still open, including work in progress.
	snap.Pending += snap.InProgress

	if totalScheduled > 0 {
		snap.ComplianceRate = int(math.Round(float64(completedOnTime) / float64(totalScheduled) * 100))
	} else {
		snap.ComplianceRate = 100
	}
	return snap
}
