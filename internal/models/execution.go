package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CompletionStatus is the terminal outcome chosen when an execution is submitted.
type CompletionStatus string

const (
	CompletionCompleted        CompletionStatus = "COMPLETED"
	CompletionPartial          CompletionStatus = "PARTIALLY_COMPLETED"
	CompletionRequiresFollowup CompletionStatus = "REQUIRES_FOLLOWUP"
)

// IsValidCompletionStatus checks if a completion status is valid
func IsValidCompletionStatus(s CompletionStatus) bool {
	switch s {
	case CompletionCompleted, CompletionPartial, CompletionRequiresFollowup:
		return true
	default:
		return false
	}
}

// DurationUnit is the unit the operator captured the duration in.
type DurationUnit string

const (
	UnitHours   DurationUnit = "hours"
	UnitMinutes DurationUnit = "minutes"
)

// IsValidDurationUnit checks if a duration unit is valid. The empty unit is
// accepted and treated as hours.
func IsValidDurationUnit(u DurationUnit) bool {
	switch u {
	case "", UnitHours, UnitMinutes:
		return true
	default:
		return false
	}
}

// ExecutionRecord is the immutable outcome of running one maintenance
// instance. Exactly one record is created per execution attempt and appended
// to the instance's history.
type ExecutionRecord struct {
	ID                primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	CompanyID         string             `json:"company_id" bson:"company_id"`
	InstanceID        string             `json:"instance_id" bson:"instance_id"`
	PlanID            string             `json:"plan_id" bson:"plan_id"`
	ExecutedAt        time.Time          `json:"executed_at" bson:"executed_at"`
	DurationHours     float64            `json:"duration_hours" bson:"duration_hours"`
	RawDuration       float64            `json:"raw_duration" bson:"raw_duration"`
	RawDurationUnit   DurationUnit       `json:"raw_duration_unit" bson:"raw_duration_unit"`
	ActualValue       *float64           `json:"actual_value,omitempty" bson:"actual_value,omitempty"`
	ActualUnit        *string            `json:"actual_unit,omitempty" bson:"actual_unit,omitempty"`
	Status            CompletionStatus   `json:"status" bson:"status"`
	Operators         []string           `json:"operators" bson:"operators"`
	Notes             string             `json:"notes,omitempty" bson:"notes,omitempty"`
	Issues            string             `json:"issues,omitempty" bson:"issues,omitempty"`
	ReExecutionReason *string            `json:"re_execution_reason,omitempty" bson:"re_execution_reason,omitempty"`
	Resources         []ResourceSnapshot `json:"resources,omitempty" bson:"resources,omitempty"`
	MachineID         string             `json:"machine_id,omitempty" bson:"machine_id,omitempty"`
	MobileUnitID      string             `json:"mobile_unit_id,omitempty" bson:"mobile_unit_id,omitempty"`
	ComponentID       string             `json:"component_id,omitempty" bson:"component_id,omitempty"`
	CreatedAt         time.Time          `json:"created_at" bson:"created_at"`
}

// ComplianceSnapshot holds plant-level maintenance metrics. It is recomputed
// on demand and never persisted.
type ComplianceSnapshot struct {
	TotalPlans     int `json:"total_plans"`
	Pending        int `json:"pending"`
	InProgress     int `json:"in_progress"`
	Completed      int `json:"completed"`
	Overdue        int `json:"overdue"`
	ComplianceRate int `json:"compliance_rate"` // percent
}
