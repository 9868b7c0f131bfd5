package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/oguzdev/plant-maintenance/internal/db"
	"github.com/oguzdev/plant-maintenance/internal/engine"
	"github.com/oguzdev/plant-maintenance/internal/middleware"
	"github.com/oguzdev/plant-maintenance/internal/models"
)

// InstanceHandler serves the reconciled instance views and compliance metrics
type InstanceHandler struct {
	instances db.InstanceCollection
	plans     db.PlanCollection
	now       func() time.Time
}

// NewInstanceHandler creates a new instance handler
func NewInstanceHandler(instances db.InstanceCollection, plans db.PlanCollection) *InstanceHandler {
	return &InstanceHandler{instances: instances, plans: plans, now: time.Now}
}

// reconciledView loads and reconciles the company's instances. The upstream
// scheduler is eventually consistent; every consumer goes through this
// correction instead of re-deriving it.
func (h *InstanceHandler) reconciledView(r *http.Request, companyID string) ([]engine.ReconciledInstance, error) {
	instances, err := h.instances.FindInstances(r.Context(), bson.M{"company_id": companyID})
	if err != nil {
		return nil, err
	}
	plans, err := h.plans.FindPlans(r.Context(), bson.M{"company_id": companyID})
	if err != nil {
		return nil, err
	}
	planSet := make(map[string]models.MaintenancePlan, len(plans))
	for _, p := range plans {
		planSet[p.ID.Hex()] = p
	}
	return engine.ReconcileAll(instances, planSet, h.now()), nil
}

// Instances handles GET /api/instances. The dedupe=true query collapses
// duplicate upstream entries by title; the raw list stays available without it.
func (h *InstanceHandler) Instances(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	claims, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		http.Error(w, "User context not found", http.StatusUnauthorized)
		return
	}

	view, err := h.reconciledView(r, claims.CompanyID)
	if err != nil {
		http.Error(w, "Failed to list instances", http.StatusInternalServerError)
		return
	}

	if r.URL.Query().Get("dedupe") == "true" {
		view = engine.Dedupe(view)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(view)
}

// Compliance handles GET /api/compliance and recomputes the snapshot on demand.
func (h *InstanceHandler) Compliance(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	claims, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		http.Error(w, "User context not found", http.StatusUnauthorized)
		return
	}

	view, err := h.reconciledView(r, claims.CompanyID)
	if err != nil {
		http.Error(w, "Failed to compute compliance", http.StatusInternalServerError)
		return
	}

	if r.URL.Query().Get("dedupe") == "true" {
		view = engine.Dedupe(view)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(engine.Aggregate(view))
}
