package payroll

import (
	"errors"
	"fmt"

	"github.com/cmlabs-hris/smart-hr-go/internal/domain/employee"
)

var (
	ErrPayrollRecordNotFound      = errors.New("payroll record not found")
	ErrPayrollRecordAlreadyExists = errors.New("payroll record already exists for this period")
	ErrRecordRefMismatch          = errors.New("payroll record at this position has changed")
	ErrInvalidPaymentDate         = errors.New("invalid payment date")
	ErrInvalidRecordDate          = errors.New("invalid record date")
	ErrPersistenceFailure         = errors.New("payroll storage failure")
)

// DuplicatePeriodError rejects a disbursement for a month the employee has
// already been paid for.
type DuplicatePeriodError struct {
	EmployeeID employee.ID
	Period     Period
}

func (e *DuplicatePeriodError) Error() string {
	return fmt.Sprintf("salary for %s has already been disbursed to employee %s", e.Period.Label(), e.EmployeeID)
}

func (e *DuplicatePeriodError) Is(target error) bool {
	return target == ErrPayrollRecordAlreadyExists
}
