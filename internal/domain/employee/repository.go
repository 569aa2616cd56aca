package employee

import "context"

// EmployeeRepository reads and writes the whole employee collection at once.
// Writes replace the stored collection wholesale.
type EmployeeRepository interface {
	ReadEmployees(ctx context.Context) ([]Employee, error)
	WriteEmployees(ctx context.Context, employees []Employee) error
}
