package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/oguzdev/plant-maintenance/internal/db"
	"github.com/oguzdev/plant-maintenance/internal/middleware"
	"github.com/oguzdev/plant-maintenance/internal/models"
)

// PlanHandler handles maintenance plan requests
type PlanHandler struct {
	plans db.PlanCollection
}

// NewPlanHandler creates a new plan handler
func NewPlanHandler(plans db.PlanCollection) *PlanHandler {
	return &PlanHandler{plans: plans}
}

// Plans handles GET (list) and POST (create) on /api/plans
func (h *PlanHandler) Plans(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.list(w, r)
	case http.MethodPost:
		h.create(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *PlanHandler) list(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		http.Error(w, "User context not found", http.StatusUnauthorized)
		return
	}

	filter := bson.M{"company_id": claims.CompanyID}
	if r.URL.Query().Get("active") == "true" {
		filter["is_active"] = true
	}

	plans, err := h.plans.FindPlans(r.Context(), filter)
	if err != nil {
		http.Error(w, "Failed to list plans", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(plans)
}

func (h *PlanHandler) create(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		http.Error(w, "User context not found", http.StatusUnauthorized)
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "Failed to read request body", http.StatusBadRequest)
		return
	}

	var plan models.MaintenancePlan
	if err := json.Unmarshal(body, &plan); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	plan.CompanyID = claims.CompanyID
	if plan.Priority == "" {
		plan.Priority = models.PriorityMedium
	}

	if err := plan.Validate(); err != nil {
		writeConfigError(w, err)
		return
	}

	id, err := h.plans.InsertPlan(r.Context(), plan)
	if err != nil {
		http.Error(w, "Failed to create plan", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]string{"id": id})
}

// UpdatePlan handles PUT /api/plans/update?id=
func (h *PlanHandler) UpdatePlan(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPut {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	claims, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		http.Error(w, "User context not found", http.StatusUnauthorized)
		return
	}

	id := r.URL.Query().Get("id")
	if id == "" {
		http.Error(w, "Plan id is required", http.StatusBadRequest)
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "Failed to read request body", http.StatusBadRequest)
		return
	}

	var plan models.MaintenancePlan
	if err := json.Unmarshal(body, &plan); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	existing, err := h.plans.FindPlanByID(r.Context(), id)
	if err != nil {
		http.Error(w, "Plan not found", http.StatusNotFound)
		return
	}
	if existing.CompanyID != claims.CompanyID {
		http.Error(w, "Plan not found", http.StatusNotFound)
		return
	}

	plan.CompanyID = existing.CompanyID
	plan.ID = existing.ID
	plan.CreatedAt = existing.CreatedAt
	plan.IsActive = existing.IsActive

	if err := plan.Validate(); err != nil {
		writeConfigError(w, err)
		return
	}

	if err := h.plans.UpdatePlan(r.Context(), id, plan); err != nil {
		http.Error(w, "Failed to update plan", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"message": "Plan updated successfully"})
}

// DeactivatePlan handles POST /api/plans/deactivate?id=
func (h *PlanHandler) DeactivatePlan(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	claims, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		http.Error(w, "User context not found", http.StatusUnauthorized)
		return
	}

	id := r.URL.Query().Get("id")
	if id == "" {
		http.Error(w, "Plan id is required", http.StatusBadRequest)
		return
	}

	existing, err := h.plans.FindPlanByID(r.Context(), id)
	if err != nil || existing.CompanyID != claims.CompanyID {
		http.Error(w, "Plan not found", http.StatusNotFound)
		return
	}

	if err := h.plans.DeactivatePlan(r.Context(), id); err != nil {
		http.Error(w, "Failed to deactivate plan", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"message": "Plan deactivated"})
}

// writeConfigError renders a plan configuration error with its field.
func writeConfigError(w http.ResponseWriter, err error) {
	var cfgErr *models.ConfigurationError
	if errors.As(err, &cfgErr) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{cfgErr.Field: cfgErr.Message})
		return
	}
	http.Error(w, err.Error(), http.StatusBadRequest)
}
