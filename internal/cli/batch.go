package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/cmlabs-hris/smart-hr-go/internal/domain/employee"
	"github.com/cmlabs-hris/smart-hr-go/internal/domain/payroll"
	"github.com/cmlabs-hris/smart-hr-go/internal/pkg/currency"
)

// BatchFile is a month's worth of disbursements.
//
//	payment_date: "2025-12-31"
//	entries:
//	  - employee_id: 1001
//	    input:
//	      days_worked: 28
//	      ot_hours: 6
//	  - employee_id: 1002
//
// Fields missing from an entry's input keep the employee's saved settings.
type BatchFile struct {
	// PaymentDate applies to entries that do not set their own.
	PaymentDate string       `yaml:"payment_date"`
	Entries     []BatchEntry `yaml:"entries"`
}

type BatchEntry struct {
	EmployeeID employee.ID `yaml:"employee_id"`
	Input      yaml.Node   `yaml:"input"`
}

type BatchRejection struct {
	EmployeeID employee.ID `json:"employee_id" yaml:"employee_id"`
	Code       string      `json:"code" yaml:"code"`
	Message    string      `json:"message" yaml:"message"`
}

type BatchResult struct {
	Disbursed []payroll.RecordResponse `json:"disbursed" yaml:"disbursed"`
	Rejected  []BatchRejection         `json:"rejected" yaml:"rejected"`
}

// LoadBatchFile reads and parses a batch file.
func LoadBatchFile(path string) (*BatchFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read batch file: %w", err)
	}

	var batch BatchFile
	if err := yaml.Unmarshal(data, &batch); err != nil {
		return nil, fmt.Errorf("failed to parse batch file: %w", err)
	}
	if len(batch.Entries) == 0 {
		return nil, errors.New("batch file has no entries")
	}
	return &batch, nil
}

// NewBatchCommand creates the payroll batch command.
func NewBatchCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "batch <file.yaml>",
		Short: "Disburse salaries for several employees from a YAML file",
		Long: `Disburse salaries for several employees from a YAML file.

Entries are processed in order. A rejected entry (duplicate period, unknown
employee, invalid date) is reported and the batch carries on; the command then
exits with code 1. A storage failure stops the batch with exit code 2, leaving
the entries already disbursed in place.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			batch, err := LoadBatchFile(args[0])
			if err != nil {
				return WrapExitError(ExitCommandError, "invalid batch", err)
			}

			a, f, err := rootOpts.session(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			ctx := cmd.Context()
			result := BatchResult{
				Disbursed: []payroll.RecordResponse{},
				Rejected:  []BatchRejection{},
			}

			for i, entry := range batch.Entries {
				in, err := a.Payroll.Defaults(ctx, entry.EmployeeID)
				if err == nil {
					in.PaymentDate = batch.PaymentDate
					if !entry.Input.IsZero() {
						if err := entry.Input.Decode(&in); err != nil {
							return WrapExitError(ExitCommandError, fmt.Sprintf("invalid input for entry %d", i), err)
						}
					}
					f.VerboseLog("entry %d: employee %s", i, entry.EmployeeID)

					var record payroll.RecordResponse
					record, err = a.Payroll.Disburse(ctx, entry.EmployeeID, in)
					if err == nil {
						result.Disbursed = append(result.Disbursed, record)
						continue
					}
				}

				code, message, _, exit := classify(err)
				if exit == ExitCommandError {
					return fail(f, err)
				}
				result.Rejected = append(result.Rejected, BatchRejection{
					EmployeeID: entry.EmployeeID,
					Code:       code,
					Message:    message,
				})
			}

			if err := f.Success(result, func(w io.Writer) { writeBatch(w, result) }); err != nil {
				return err
			}
			if len(result.Rejected) > 0 {
				exitErr := NewExitError(ExitFailure, fmt.Sprintf("%d of %d entries rejected", len(result.Rejected), len(batch.Entries)))
				exitErr.Reported = true
				return exitErr
			}
			return nil
		},
	}
}

func writeBatch(w io.Writer, result BatchResult) {
	for _, r := range result.Disbursed {
		fmt.Fprintf(w, "✓ %s %s: %s (%s)\n", r.EmployeeID, r.EmployeeName, currency.Rupee(r.NetPay), periodLabel(r))
	}
	for _, r := range result.Rejected {
		fmt.Fprintf(w, "✗ %s: %s\n", r.EmployeeID, r.Message)
	}
	fmt.Fprintf(w, "Batch: %d disbursed, %d rejected\n", len(result.Disbursed), len(result.Rejected))
}
