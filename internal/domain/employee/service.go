package employee

import (
	"context"
)

// EmployeeService defines business logic for roster operations
type EmployeeService interface {
	// ListEmployees returns the roster in stored order
	ListEmployees(ctx context.Context) ([]EmployeeResponse, error)

	// GetEmployee retrieves a single employee by ID
	GetEmployee(ctx context.Context, id ID) (EmployeeResponse, error)

	// CreateEmployee validates the request and appends a new employee with a fresh ID
	CreateEmployee(ctx context.Context, req CreateEmployeeRequest) (EmployeeResponse, error)

	// UpdateEmployee edits name, email, position or salary
	UpdateEmployee(ctx context.Context, req UpdateEmployeeRequest) (EmployeeResponse, error)

	// DeleteEmployee removes the employee; ledger records keep their snapshots
	DeleteEmployee(ctx context.Context, id ID) error
}
