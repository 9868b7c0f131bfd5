package models

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Priority levels for maintenance plans.
type Priority string

const (
	PriorityLow      Priority = "low"
	PriorityMedium   Priority = "medium"
	PriorityHigh     Priority = "high"
	PriorityCritical Priority = "critical"
)

// IsValidPriority checks if a priority is valid
func IsValidPriority(p Priority) bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical:
		return true
	default:
		return false
	}
}

// RequiredTool is one line of a plan's tool checklist.
type RequiredTool struct {
	Name     string `json:"name" bson:"name"`
	Quantity int    `json:"quantity" bson:"quantity"`
}

// MaintenancePlan represents a recurring preventive maintenance definition.
// Plans are deactivated, never deleted.
type MaintenancePlan struct {
	ID                primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	CompanyID         string             `json:"company_id" bson:"company_id"`
	Title             string             `json:"title" bson:"title"`
	Description       string             `json:"description" bson:"description"`
	MachineID         string             `json:"machine_id,omitempty" bson:"machine_id,omitempty"`
	MobileUnitID      string             `json:"mobile_unit_id,omitempty" bson:"mobile_unit_id,omitempty"`
	ComponentID       string             `json:"component_id,omitempty" bson:"component_id,omitempty"`
	SubComponentID    string             `json:"sub_component_id,omitempty" bson:"sub_component_id,omitempty"`
	FrequencyDays     int                `json:"frequency_days" bson:"frequency_days"`
	EstimatedDuration float64            `json:"estimated_duration" bson:"estimated_duration"` // in hours
	EstimatedValue    float64            `json:"estimated_value,omitempty" bson:"estimated_value,omitempty"`
	EstimatedUnit     string             `json:"estimated_unit,omitempty" bson:"estimated_unit,omitempty"` // e.g. "cycles", "km"
	AssignedTo        string             `json:"assigned_to,omitempty" bson:"assigned_to,omitempty"`
	RequiredTools     []RequiredTool     `json:"required_tools,omitempty" bson:"required_tools,omitempty"`
	Priority          Priority           `json:"priority" bson:"priority"`
	IsActive          bool               `json:"is_active" bson:"is_active"`
	CreatedAt         time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt         time.Time          `json:"updated_at" bson:"updated_at"`
}

// ConfigurationError reports an invalid plan definition. It is surfaced at
// plan create/edit time and blocks instance generation for the plan.
type ConfigurationError struct {
	Field   string
	Message string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid plan configuration: %s: %s", e.Field, e.Message)
}

// Validate checks a plan definition before it is accepted.
func (p *MaintenancePlan) Validate() error {
	if p.Title == "" {
		return &ConfigurationError{Field: "title", Message: "title is required"}
	}
	if p.FrequencyDays <= 0 {
		return &ConfigurationError{Field: "frequency_days", Message: "frequency must be a positive number of days"}
	}
	if p.MachineID == "" && p.MobileUnitID == "" {
		return &ConfigurationError{Field: "machine_id", Message: "a machine or mobile unit is required"}
	}
	if p.MachineID != "" && p.MobileUnitID != "" {
		return &ConfigurationError{Field: "machine_id", Message: "machine and mobile unit are mutually exclusive"}
	}
	if p.Priority != "" && !IsValidPriority(p.Priority) {
		return &ConfigurationError{Field: "priority", Message: "invalid priority"}
	}
	return nil
}
