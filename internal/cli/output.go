package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/cmlabs-hris/smart-hr-go/internal/domain/employee"
	"github.com/cmlabs-hris/smart-hr-go/internal/domain/payroll"
	"github.com/cmlabs-hris/smart-hr-go/internal/pkg/validator"
)

// Exit codes for CLI commands.
const (
	ExitSuccess      = 0 // Successful execution
	ExitFailure      = 1 // Business rejection (duplicate period, unknown employee, invalid input)
	ExitCommandError = 2 // Command error (bad arguments, storage unavailable)
)

// ExitError represents an error with a specific exit code.
type ExitError struct {
	Code    int    // Exit code (use ExitFailure or ExitCommandError)
	Message string // Error message
	Err     error  // Underlying error (optional)

	// Reported is set once the error has been written through a formatter
	Reported bool
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// NewExitError creates a new ExitError with the given code and message.
func NewExitError(code int, message string) *ExitError {
	return &ExitError{Code: code, Message: message}
}

// WrapExitError wraps an existing error with an exit code.
func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode extracts the exit code from an error.
// Errors that are not an ExitError come from cobra itself (unknown flags,
// wrong argument counts) and map to ExitCommandError.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitCommandError
}

// OutputFormatter handles text, JSON and YAML output for CLI commands.
type OutputFormatter struct {
	Format    string
	Writer    io.Writer
	ErrWriter io.Writer // Separate writer for verbose/diagnostic output (defaults to Writer)
	Verbose   bool
}

// CLIResponse is the standard structured response for CLI output.
type CLIResponse struct {
	Status string    `json:"status" yaml:"status"`                   // "ok" or "error"
	Data   any       `json:"data,omitempty" yaml:"data,omitempty"`   // success payload
	Error  *CLIError `json:"error,omitempty" yaml:"error,omitempty"` // error details
}

// CLIError is the error structure for CLI responses.
type CLIError struct {
	Code    string `json:"code" yaml:"code"`
	Message string `json:"message" yaml:"message"`
	Details any    `json:"details,omitempty" yaml:"details,omitempty"`
}

func (f *OutputFormatter) encode(resp CLIResponse) error {
	switch f.Format {
	case "json":
		encoder := json.NewEncoder(f.Writer)
		encoder.SetIndent("", "  ")
		return encoder.Encode(resp)
	case "yaml":
		encoder := yaml.NewEncoder(f.Writer)
		encoder.SetIndent(2)
		if err := encoder.Encode(resp); err != nil {
			return err
		}
		return encoder.Close()
	}
	return fmt.Errorf("unsupported format %q", f.Format)
}

// Success outputs a result. In text mode the text callback renders it.
func (f *OutputFormatter) Success(data any, text func(w io.Writer)) error {
	if f.Format == "text" {
		text(f.Writer)
		return nil
	}
	return f.encode(CLIResponse{Status: "ok", Data: data})
}

// Error outputs an error in the configured format.
func (f *OutputFormatter) Error(code, message string, details any) error {
	if f.Format != "text" {
		return f.encode(CLIResponse{
			Status: "error",
			Error:  &CLIError{Code: code, Message: message, Details: details},
		})
	}

	fmt.Fprintf(f.GetErrWriter(), "Error [%s]: %s\n", code, message)
	if details, ok := details.(map[string]string); ok {
		for _, field := range sortedKeys(details) {
			fmt.Fprintf(f.GetErrWriter(), "  %s: %s\n", field, details[field])
		}
	}
	return nil
}

// VerboseLog outputs a message only if verbose mode is enabled.
func (f *OutputFormatter) VerboseLog(format string, args ...any) {
	if !f.Verbose {
		return
	}
	fmt.Fprintf(f.GetErrWriter(), format+"\n", args...)
}

// GetErrWriter returns ErrWriter if set, otherwise Writer.
func (f *OutputFormatter) GetErrWriter() io.Writer {
	if f.ErrWriter != nil {
		return f.ErrWriter
	}
	return f.Writer
}

// classify maps a service error to an error code, message, details and exit code.
func classify(err error) (code, message string, details any, exit int) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		return "VALIDATION_ERROR", "validation failed", validationErrs.ToMap(), ExitFailure
	}

	switch {
	case errors.Is(err, payroll.ErrPayrollRecordAlreadyExists):
		return "DUPLICATE_PERIOD", err.Error(), nil, ExitFailure
	case errors.Is(err, employee.ErrEmployeeNotFound):
		return "EMPLOYEE_NOT_FOUND", "employee not found", nil, ExitFailure
	case errors.Is(err, employee.ErrIDSpaceExhausted):
		return "ID_SPACE_EXHAUSTED", "no free employee ID left", nil, ExitFailure
	case errors.Is(err, payroll.ErrPayrollRecordNotFound):
		return "RECORD_NOT_FOUND", "payroll record not found", nil, ExitFailure
	case errors.Is(err, payroll.ErrRecordRefMismatch):
		return "REF_MISMATCH", "payroll record at this position has changed", nil, ExitFailure
	case errors.Is(err, payroll.ErrInvalidPaymentDate):
		return "INVALID_DATE", err.Error(), nil, ExitFailure
	case errors.Is(err, employee.ErrInvalidEmployeeID):
		return "INVALID_ARGUMENT", "employee ID must be a number", nil, ExitCommandError
	case errors.Is(err, payroll.ErrPersistenceFailure):
		return "STORAGE_ERROR", err.Error(), nil, ExitCommandError
	}
	return "COMMAND_ERROR", err.Error(), nil, ExitCommandError
}

// fail reports err through the formatter and returns the matching ExitError.
func fail(f *OutputFormatter, err error) error {
	code, message, details, exit := classify(err)
	_ = f.Error(code, message, details)
	exitErr := WrapExitError(exit, code, err)
	exitErr.Reported = true
	return exitErr
}
