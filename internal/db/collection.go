package db

import (
	"context"
	"time"

	"github.com/oguzdev/plant-maintenance/internal/models"
	"go.mongodb.org/mongo-driver/bson"
)

// PlanCollection defines the interface for maintenance plan operations.
type PlanCollection interface {
	InsertPlan(ctx context.Context, plan models.MaintenancePlan) (string, error)
	FindPlanByID(ctx context.Context, id string) (*models.MaintenancePlan, error)
	FindPlans(ctx context.Context, filter bson.M) ([]models.MaintenancePlan, error)
	UpdatePlan(ctx context.Context, id string, plan models.MaintenancePlan) error
	DeactivatePlan(ctx context.Context, id string) error
}

// InstanceCollection defines the interface for maintenance instance operations.
type InstanceCollection interface {
	InsertInstance(ctx context.Context, instance models.MaintenanceInstance) (string, error)
	FindInstanceByID(ctx context.Context, id string) (*models.MaintenanceInstance, error)
	FindInstances(ctx context.Context, filter bson.M) ([]models.MaintenanceInstance, error)
}

// ExecutionCollection defines the interface for execution record operations.
// It doubles as the persistence sink of the execution workflow: creating a
// record claims and completes the instance in the same call.
type ExecutionCollection interface {
	CreateExecutionRecord(ctx context.Context, record *models.ExecutionRecord) (string, error)
	FindExecutions(ctx context.Context, filter bson.M) ([]models.ExecutionRecord, error)
	HasCompletionOn(ctx context.Context, planID string, day time.Time) (bool, error)
}

// ReservationCollection defines the interface for tool reservation lookups.
type ReservationCollection interface {
	List(ctx context.Context, instanceID string) ([]models.Reservation, error)
}

// ToolCollection defines the interface for stock item searches.
type ToolCollection interface {
	Search(ctx context.Context, query, companyID string) ([]models.Tool, error)
}
