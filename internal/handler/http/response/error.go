package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/smart-hr-go/internal/domain/employee"
	"github.com/cmlabs-hris/smart-hr-go/internal/domain/payroll"
	"github.com/cmlabs-hris/smart-hr-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Employee domain errors
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")
	case errors.Is(err, employee.ErrInvalidEmployeeID):
		BadRequest(w, "Invalid employee ID", nil)
	case errors.Is(err, employee.ErrIDSpaceExhausted):
		Conflict(w, "No free employee ID left")

	// Payroll domain errors
	case errors.Is(err, payroll.ErrPayrollRecordAlreadyExists):
		Conflict(w, err.Error())
	case errors.Is(err, payroll.ErrPayrollRecordNotFound):
		NotFound(w, "Payroll record not found")
	case errors.Is(err, payroll.ErrRecordRefMismatch):
		Conflict(w, "Payroll record at this position has changed, reload the ledger")
	case errors.Is(err, payroll.ErrInvalidPaymentDate):
		ValidationError(w, map[string]string{"payment_date": "must be YYYY-MM-DD or d/m/yyyy"})
	case errors.Is(err, payroll.ErrPersistenceFailure):
		slog.Error("payroll storage failure", "error", err)
		InternalServerError(w, "Payroll storage unavailable, nothing was saved")

	// Default
	default:
		slog.Error("unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}
