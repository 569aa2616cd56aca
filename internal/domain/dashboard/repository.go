package dashboard

import (
	"context"

	"github.com/cmlabs-hris/smart-hr-go/internal/domain/employee"
	"github.com/cmlabs-hris/smart-hr-go/internal/domain/payroll"
)

// DashboardRepository is the read side the dashboard aggregates over
type DashboardRepository interface {
	ReadEmployees(ctx context.Context) ([]employee.Employee, error)
	ReadPayrolls(ctx context.Context) ([]payroll.Record, error)
}
