package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/oguzdev/plant-maintenance/internal/engine"
	"github.com/oguzdev/plant-maintenance/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MockInstanceCollection is a mock implementation of InstanceCollection
type MockInstanceCollection struct {
	mock.Mock
}

func (m *MockInstanceCollection) InsertInstance(ctx context.Context, instance models.MaintenanceInstance) (string, error) {
	args := m.Called(ctx, instance)
	return args.String(0), args.Error(1)
}

func (m *MockInstanceCollection) FindInstanceByID(ctx context.Context, id string) (*models.MaintenanceInstance, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.MaintenanceInstance), args.Error(1)
}

func (m *MockInstanceCollection) FindInstances(ctx context.Context, filter bson.M) ([]models.MaintenanceInstance, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.MaintenanceInstance), args.Error(1)
}

func newInstanceFixture(t *testing.T) (*MockInstanceCollection, *MockPlanCollection, *InstanceHandler) {
	t.Helper()
	mockInstances := new(MockInstanceCollection)
	mockPlans := new(MockPlanCollection)
	handler := NewInstanceHandler(mockInstances, mockPlans)
	handler.now = func() time.Time { return time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC) }
	return mockInstances, mockPlans, handler
}

func TestInstanceHandler_Instances(t *testing.T) {
	planID := primitive.NewObjectID()
	lastCompleted := time.Date(2024, 5, 20, 0, 0, 0, 0, time.UTC)

	instances := []models.MaintenanceInstance{
		{
			ID:            primitive.NewObjectID(),
			CompanyID:     "acme",
			PlanID:        planID.Hex(),
			Title:         "Compressor inspection",
			ScheduledDate: time.Date(2024, 5, 25, 0, 0, 0, 0, time.UTC),
			Status:        models.InstancePending,
			LastCompleted: &lastCompleted,
		},
		{
			ID:            primitive.NewObjectID(),
			CompanyID:     "acme",
			PlanID:        planID.Hex(),
			Title:         "compressor inspection",
			ScheduledDate: time.Date(2024, 5, 25, 0, 0, 0, 0, time.UTC),
			Status:        models.InstancePending,
		},
	}
	plans := []models.MaintenancePlan{
		{ID: planID, CompanyID: "acme", Title: "Compressor inspection", MachineID: "m1", FrequencyDays: 30},
	}

	t.Run("returns the reconciled view", func(t *testing.T) {
		mockInstances, mockPlans, handler := newInstanceFixture(t)
		mockInstances.On("FindInstances", mock.Anything, bson.M{"company_id": "acme"}).Return(instances, nil)
		mockPlans.On("FindPlans", mock.Anything, bson.M{"company_id": "acme"}).Return(plans, nil)

		req := withClaims(httptest.NewRequest("GET", "/api/instances", nil), "acme")
		w := httptest.NewRecorder()

		handler.Instances(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var view []engine.ReconciledInstance
		err := json.Unmarshal(w.Body.Bytes(), &view)
		if err != nil {
			t.Fatalf("Failed to unmarshal response: %v", err)
		}
		assert.Len(t, view, 2)
		// The first instance is stale: its completion on May 20 already covers
		// the May 25 occurrence, so the due date moves to June 19.
		assert.True(t, view[0].IsStale)
		assert.Equal(t, time.Date(2024, 6, 19, 0, 0, 0, 0, time.UTC), view[0].EffectiveDueDate)
		// The second never completed and is past due.
		assert.True(t, view[1].IsOverdue)
		mockInstances.AssertExpectations(t)
	})

	t.Run("dedupe collapses duplicate titles", func(t *testing.T) {
		mockInstances, mockPlans, handler := newInstanceFixture(t)
		mockInstances.On("FindInstances", mock.Anything, mock.Anything).Return(instances, nil)
		mockPlans.On("FindPlans", mock.Anything, mock.Anything).Return(plans, nil)

		req := withClaims(httptest.NewRequest("GET", "/api/instances?dedupe=true", nil), "acme")
		w := httptest.NewRecorder()

		handler.Instances(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var view []engine.ReconciledInstance
		err := json.Unmarshal(w.Body.Bytes(), &view)
		if err != nil {
			t.Fatalf("Failed to unmarshal response: %v", err)
		}
		assert.Len(t, view, 1)
		assert.Equal(t, "Compressor inspection", view[0].Title)
	})

	t.Run("store failure", func(t *testing.T) {
		mockInstances, _, handler := newInstanceFixture(t)
		mockInstances.On("FindInstances", mock.Anything, mock.Anything).Return(nil, assert.AnError)

		req := withClaims(httptest.NewRequest("GET", "/api/instances", nil), "acme")
		w := httptest.NewRecorder()

		handler.Instances(w, req)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}

func TestInstanceHandler_Compliance(t *testing.T) {
	planID := primitive.NewObjectID()
	completedAt := time.Date(2024, 5, 25, 9, 0, 0, 0, time.UTC)

	instances := []models.MaintenanceInstance{
		{
			CompanyID:     "acme",
			PlanID:        planID.Hex(),
			Title:         "Filter swap",
			ScheduledDate: time.Date(2024, 5, 25, 0, 0, 0, 0, time.UTC),
			Status:        models.InstanceCompleted,
			LastCompleted: &completedAt,
		},
		{
			CompanyID:     "acme",
			PlanID:        planID.Hex(),
			Title:         "Belt check",
			ScheduledDate: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
			Status:        models.InstancePending,
		},
	}
	plans := []models.MaintenancePlan{
		{ID: planID, CompanyID: "acme", MachineID: "m1", FrequencyDays: 30},
	}

	mockInstances, mockPlans, handler := newInstanceFixture(t)
	mockInstances.On("FindInstances", mock.Anything, mock.Anything).Return(instances, nil)
	mockPlans.On("FindPlans", mock.Anything, mock.Anything).Return(plans, nil)

	req := withClaims(httptest.NewRequest("GET", "/api/compliance", nil), "acme")
	w := httptest.NewRecorder()

	handler.Compliance(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var snap models.ComplianceSnapshot
	err := json.Unmarshal(w.Body.Bytes(), &snap)
	if err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	assert.Equal(t, 2, snap.TotalPlans)
	assert.Equal(t, 1, snap.Completed)
	assert.Equal(t, 1, snap.Pending)
	assert.Equal(t, 1, snap.Overdue)
	assert.Equal(t, 50, snap.ComplianceRate)
}
