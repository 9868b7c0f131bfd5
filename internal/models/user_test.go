package models

import (
	"testing"
	"time"
)

func TestIsValidRole(t *testing.T) {
	tests := []struct {
		name     string
		role     Role
		expected bool
	}{
		{"admin role", RoleAdmin, true},
		{"manager role", RoleManager, true},
		{"technician role", RoleTechnician, true},
		{"viewer role", RoleViewer, true},
		{"invalid role", "invalid", false},
		{"empty role", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := IsValidRole(tt.role)
			if result != tt.expected {
				t.Errorf("IsValidRole(%s) = %v, want %v", tt.role, result, tt.expected)
			}
		})
	}
}

func TestUser_HasPermission(t *testing.T) {
	admin := &User{Role: RoleAdmin}
	manager := &User{Role: RoleManager}
	technician := &User{Role: RoleTechnician}
	viewer := &User{Role: RoleViewer}

	tests := []struct {
		name     string
		user     *User
		action   string
		expected bool
	}{
		// Admin permissions - should have all permissions
		{"admin can delete user", admin, "delete_user", true},
		{"admin can manage users", admin, "manage_users", true},
		{"admin can submit execution", admin, "submit_execution", true},

		// Manager permissions - can do most things except user management
		{"manager cannot delete user", manager, "delete_user", false},
		{"manager cannot manage users", manager, "manage_users", false},
		{"manager can view plans", manager, "view_plans", true},
		{"manager can submit execution", manager, "submit_execution", true},

		// Technician permissions - limited to execution work
		{"technician can view plans", technician, "view_plans", true},
		{"technician can view instances", technician, "view_instances", true},
		{"technician can begin execution", technician, "begin_execution", true},
		{"technician can submit execution", technician, "submit_execution", true},
		{"technician can search tools", technician, "search_tools", true},
		{"technician cannot delete user", technician, "delete_user", false},
		{"technician cannot view compliance", technician, "view_compliance", false},

		// Viewer permissions - read-only access
		{"viewer can view plans", viewer, "view_plans", true},
		{"viewer can view instances", viewer, "view_instances", true},
		{"viewer can view executions", viewer, "view_executions", true},
		{"viewer can view compliance", viewer, "view_compliance", true},
		{"viewer cannot submit execution", viewer, "submit_execution", false},
		{"viewer cannot delete user", viewer, "delete_user", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.user.HasPermission(tt.action)
			if result != tt.expected {
				t.Errorf("User with role %s HasPermission(%s) = %v, want %v",
					tt.user.Role, tt.action, result, tt.expected)
			}
		})
	}
}

func TestUser_FullName(t *testing.T) {
	user := &User{Username: "jdoe", FirstName: "Jane", LastName: "Doe"}
	if got := user.FullName(); got != "Jane Doe" {
		t.Errorf("FullName() = %q, want %q", got, "Jane Doe")
	}

	bare := &User{Username: "jdoe"}
	if got := bare.FullName(); got != "jdoe" {
		t.Errorf("FullName() without names = %q, want username fallback", got)
	}
}

func TestUser_StructFields(t *testing.T) {
	now := time.Now()
	user := &User{
		CompanyID:    "acme",
		Username:     "testuser",
		Email:        "test@example.com",
		PasswordHash: "hashedpassword",
		Role:         RoleAdmin,
		FirstName:    "Test",
		LastName:     "User",
		IsActive:     true,
		LastLogin:    &now,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if user.CompanyID != "acme" {
		t.Errorf("Expected CompanyID to be 'acme', got %s", user.CompanyID)
	}
	if user.Username != "testuser" {
		t.Errorf("Expected Username to be 'testuser', got %s", user.Username)
	}
	if user.Role != RoleAdmin {
		t.Errorf("Expected Role to be RoleAdmin, got %s", user.Role)
	}
	if !user.IsActive {
		t.Error("Expected IsActive to be true")
	}
}
