package execution

import (
	"strconv"
	"strings"

	"github.com/oguzdev/plant-maintenance/internal/models"
)

// FormInput is the immutable snapshot of the execution form at submission
// time. Values arrive as the raw text the operator typed; validation parses
// and normalizes them before a record is produced.
type FormInput struct {
	Status            models.CompletionStatus `json:"status"`
	ActualDuration    string                  `json:"actual_duration"`
	DurationUnit      models.DurationUnit     `json:"duration_unit"`
	ActualValue       string                  `json:"actual_value"`
	ActualUnit        string                  `json:"actual_unit"`
	ExcludeQuantity   bool                    `json:"exclude_quantity"`
	Operators         []string                `json:"operators"`
	Notes             string                  `json:"notes"`
	Issues            string                  `json:"issues"`
	ReExecutionReason string                  `json:"re_execution_reason"`
}

// parsePositive parses a form field as a number strictly greater than zero.
func parsePositive(raw string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || v <= 0 {
		return 0, false
	}
	return v, true
}

// Validate checks the form against the completion rules. wasCompletedToday
// reports whether the plan already has a completion recorded for the current
// calendar day, which makes a re-execution justification mandatory. A nil
// return means the input is acceptable.
func Validate(input FormInput, wasCompletedToday bool) *ValidationError {
	fields := make(map[string]string)

	if strings.TrimSpace(input.ActualDuration) == "" {
		fields["actual_duration"] = "required"
	} else if _, ok := parsePositive(input.ActualDuration); !ok {
		fields["actual_duration"] = "must be a number greater than zero"
	}

	if !models.IsValidDurationUnit(input.DurationUnit) {
		fields["duration_unit"] = "invalid duration unit"
	}

	if !input.ExcludeQuantity {
		if strings.TrimSpace(input.ActualValue) == "" {
			fields["actual_value"] = "required"
		} else if _, ok := parsePositive(input.ActualValue); !ok {
			fields["actual_value"] = "must be a number greater than zero"
		}
	}

	if len(input.Operators) == 0 {
		fields["operators"] = "required"
	}

	if wasCompletedToday && strings.TrimSpace(input.ReExecutionReason) == "" {
		fields["re_execution_reason"] = "required when the plan was already completed today"
	}

	if !models.IsValidCompletionStatus(input.Status) {
		fields["status"] = "invalid completion status"
	}

	if len(fields) == 0 {
		return nil
	}
	return &ValidationError{Fields: fields}
}

// normalizeDuration converts the captured duration to hours while keeping the
// operator's original value and unit for audit and display.
func normalizeDuration(raw float64, unit models.DurationUnit) (hours float64, rawUnit models.DurationUnit) {
	if unit == models.UnitMinutes {
		return raw / 60, models.UnitMinutes
	}
	return raw, models.UnitHours
}
