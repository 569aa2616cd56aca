package payroll

import (
	"context"

	"github.com/cmlabs-hris/smart-hr-go/internal/domain/employee"
)

type PayrollService interface {
	// Preview computes the breakdown for the current form values. Nothing is stored.
	Preview(ctx context.Context, employeeID employee.ID, input PeriodInput) (PreviewResponse, error)

	// Defaults returns form values pre-filled from the employee's stored settings.
	Defaults(ctx context.Context, employeeID employee.ID) (PeriodInput, error)

	// Disburse commits a payroll record and the employee's new settings, or nothing.
	Disburse(ctx context.Context, employeeID employee.ID, input PeriodInput) (RecordResponse, error)

	// History lists one employee's records, newest first.
	History(ctx context.Context, employeeID employee.ID) ([]RecordResponse, error)

	// Ledger lists every record in ledger order.
	Ledger(ctx context.Context) ([]RecordResponse, error)

	// DeleteRecord removes the record at index. A non-empty ref must match the record's ref.
	DeleteRecord(ctx context.Context, index int, ref string) error

	// ResetLedger removes every record. Employees and their settings are kept.
	ResetLedger(ctx context.Context) error
}
