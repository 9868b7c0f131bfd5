package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/oguzdev/plant-maintenance/internal/db"
	"github.com/oguzdev/plant-maintenance/internal/execution"
	"github.com/oguzdev/plant-maintenance/internal/middleware"
	"github.com/oguzdev/plant-maintenance/internal/models"
	"github.com/oguzdev/plant-maintenance/internal/resources"
)

// ExecutionHandler handles the execution workflow endpoints
type ExecutionHandler struct {
	submitter  *execution.Submitter
	instances  db.InstanceCollection
	plans      db.PlanCollection
	executions db.ExecutionCollection
	tools      db.ToolCollection
	operators  execution.OperatorDirectory
}

// NewExecutionHandler creates a new execution handler
func NewExecutionHandler(submitter *execution.Submitter, instances db.InstanceCollection, plans db.PlanCollection, executions db.ExecutionCollection, tools db.ToolCollection, operators execution.OperatorDirectory) *ExecutionHandler {
	return &ExecutionHandler{
		submitter:  submitter,
		instances:  instances,
		plans:      plans,
		executions: executions,
		tools:      tools,
		operators:  operators,
	}
}

// Executions handles GET (history) and POST (submit) on /api/executions
func (h *ExecutionHandler) Executions(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.history(w, r)
	case http.MethodPost:
		h.Submit(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// history lists the company's execution records, optionally narrowed to one
// plan or instance.
func (h *ExecutionHandler) history(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		http.Error(w, "User context not found", http.StatusUnauthorized)
		return
	}

	filter := bson.M{"company_id": claims.CompanyID}
	if planID := r.URL.Query().Get("plan_id"); planID != "" {
		filter["plan_id"] = planID
	}
	if instanceID := r.URL.Query().Get("instance_id"); instanceID != "" {
		filter["instance_id"] = instanceID
	}

	records, err := h.executions.FindExecutions(r.Context(), filter)
	if err != nil {
		http.Error(w, "Failed to list executions", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(records)
}

func (h *ExecutionHandler) loadInstance(r *http.Request, companyID, instanceID string) (*models.MaintenanceInstance, *models.MaintenancePlan, error) {
	inst, err := h.instances.FindInstanceByID(r.Context(), instanceID)
	if err != nil || inst.CompanyID != companyID {
		return nil, nil, errors.New("instance not found")
	}
	plan, err := h.plans.FindPlanByID(r.Context(), inst.PlanID)
	if err != nil {
		return nil, nil, errors.New("plan not found")
	}
	return inst, plan, nil
}

// Begin handles POST /api/executions/begin?instance_id=&kind= and returns the
// seeded resource list for the execution form.
func (h *ExecutionHandler) Begin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	claims, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		http.Error(w, "User context not found", http.StatusUnauthorized)
		return
	}

	instanceID := r.URL.Query().Get("instance_id")
	if instanceID == "" {
		http.Error(w, "Instance id is required", http.StatusBadRequest)
		return
	}

	inst, plan, err := h.loadInstance(r, claims.CompanyID, instanceID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	if inst.Status.IsTerminal() {
		http.Error(w, "Instance is already closed", http.StatusConflict)
		return
	}

	kind := resources.ExecutionKind(r.URL.Query().Get("kind"))
	if kind != resources.KindCorrective {
		kind = resources.KindPreventive
	}

	ledger := h.submitter.Begin(r.Context(), *inst, *plan, kind)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"kind":      ledger.Kind(),
		"resources": ledger.Lines(),
	})
}

// submitRequest is the execution submission payload.
type submitRequest struct {
	InstanceID string                        `json:"instance_id"`
	Kind       resources.ExecutionKind       `json:"kind"`
	Form       execution.FormInput           `json:"form"`
	Resources  []models.ResourceConfirmation `json:"resources"`
}

// Submit handles POST /api/executions. The ledger is re-seeded server side
// and the operator's edits are replayed onto it, so clamping and ad-hoc rules
// hold regardless of what the client sent.
func (h *ExecutionHandler) Submit(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

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

	var req submitRequest
	if err := json.Unmarshal(body, &req); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	inst, plan, err := h.loadInstance(r, claims.CompanyID, req.InstanceID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	kind := req.Kind
	if kind != resources.KindCorrective {
		kind = resources.KindPreventive
	}
	ledger := h.submitter.Begin(r.Context(), *inst, *plan, kind)
	ledger.Apply(req.Resources)

	record, err := h.submitter.Submit(r.Context(), *inst, *plan, req.Form, ledger)
	if err != nil {
		var verr *execution.ValidationError
		switch {
		case errors.As(err, &verr):
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnprocessableEntity)
			json.NewEncoder(w).Encode(verr.Fields)
		case errors.Is(err, execution.ErrInstanceClosed):
			http.Error(w, "Instance is already closed", http.StatusConflict)
		case errors.Is(err, db.ErrConflict):
			http.Error(w, "Instance was already completed, refresh and retry", http.StatusConflict)
		default:
			log.WithError(err).WithField("instance_id", req.InstanceID).Error("execution submission failed")
			http.Error(w, "Failed to submit execution", http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(record)
}

// Operators handles GET /api/operators and lists the company's active users.
func (h *ExecutionHandler) Operators(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	claims, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		http.Error(w, "User context not found", http.StatusUnauthorized)
		return
	}

	operators, err := h.operators.ListActive(r.Context(), claims.CompanyID)
	if err != nil {
		http.Error(w, "Failed to list operators", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(operators)
}

// SearchTools handles GET /api/tools/search?q= for ad-hoc candidates.
func (h *ExecutionHandler) SearchTools(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	claims, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		http.Error(w, "User context not found", http.StatusUnauthorized)
		return
	}

	tools, err := h.tools.Search(r.Context(), r.URL.Query().Get("q"), claims.CompanyID)
	if err != nil {
		// The search source is informative only; an empty candidate list is
		// better than blocking the form.
		log.WithError(err).Warn("tool search unavailable")
		tools = []models.Tool{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(tools)
}
