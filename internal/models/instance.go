package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// InstanceStatus is the lifecycle status of one scheduled maintenance occurrence.
type InstanceStatus string

const (
	InstancePending    InstanceStatus = "PENDING"
	InstanceInProgress InstanceStatus = "IN_PROGRESS"
	InstanceCompleted  InstanceStatus = "COMPLETED"
	InstanceCancelled  InstanceStatus = "CANCELLED"
)

// IsValidInstanceStatus checks if an instance status is valid
func IsValidInstanceStatus(s InstanceStatus) bool {
	switch s {
	case InstancePending, InstanceInProgress, InstanceCompleted, InstanceCancelled:
		return true
	default:
		return false
	}
}

// IsTerminal reports whether the status ends the instance lifecycle.
func (s InstanceStatus) IsTerminal() bool {
	return s == InstanceCompleted || s == InstanceCancelled
}

// MaintenanceInstance represents one scheduled occurrence of a plan. Instances
// are produced by the scheduling source when a plan's frequency elapses and are
// retired once completed. The effective due date and overdue flag are derived
// by the reconciler, never stored.
type MaintenanceInstance struct {
	ID            primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	CompanyID     string             `json:"company_id" bson:"company_id"`
	PlanID        string             `json:"plan_id" bson:"plan_id"`
	Title         string             `json:"title" bson:"title"`
	ScheduledDate time.Time          `json:"scheduled_date" bson:"scheduled_date"`
	Status        InstanceStatus     `json:"status" bson:"status"`
	LastCompleted *time.Time         `json:"last_completed,omitempty" bson:"last_completed,omitempty"`
	CreatedAt     time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at" bson:"updated_at"`
}
