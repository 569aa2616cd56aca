package cli

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/cmlabs-hris/smart-hr-go/internal/app"
	"github.com/cmlabs-hris/smart-hr-go/internal/domain/employee"
	"github.com/cmlabs-hris/smart-hr-go/internal/domain/payroll"
	"github.com/cmlabs-hris/smart-hr-go/internal/pkg/numeric"
	"github.com/cmlabs-hris/smart-hr-go/internal/pkg/validator"
)

// PeriodOptions holds the period form flags shared by preview and disburse.
// Flags that are not given keep the employee's saved settings.
type PeriodOptions struct {
	*RootOptions
	DaysWorked    string
	OvertimeHours string
	OvertimeRate  string
	WFOTarget     string
	WFODone       string
	Insurance     string
	DeductPF      bool
	PaymentDate   string
}

// NewPayrollCommand creates the payroll command group.
func NewPayrollCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "payroll",
		Short: "Preview, disburse and audit salaries",
	}

	cmd.AddCommand(newPayrollPreviewCommand(rootOpts))
	cmd.AddCommand(newPayrollDisburseCommand(rootOpts))
	cmd.AddCommand(newPayrollHistoryCommand(rootOpts))
	cmd.AddCommand(newPayrollLedgerCommand(rootOpts))
	cmd.AddCommand(newPayrollDeleteCommand(rootOpts))
	cmd.AddCommand(newPayrollResetCommand(rootOpts))
	cmd.AddCommand(NewBatchCommand(rootOpts))
	return cmd
}

func (o *PeriodOptions) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&o.DaysWorked, "days", "", "days worked (default: saved setting, else 30)")
	cmd.Flags().StringVar(&o.OvertimeHours, "ot-hours", "", "overtime hours")
	cmd.Flags().StringVar(&o.OvertimeRate, "ot-rate", "", "overtime rate per hour (blank derives it from salary)")
	cmd.Flags().StringVar(&o.WFOTarget, "wfo-target", "", "required work-from-office days")
	cmd.Flags().StringVar(&o.WFODone, "wfo-done", "", "work-from-office days completed")
	cmd.Flags().StringVar(&o.Insurance, "insurance", "", "insurance deduction")
	cmd.Flags().BoolVar(&o.DeductPF, "pf", true, "deduct provident fund")
	cmd.Flags().StringVar(&o.PaymentDate, "date", "", "payment date YYYY-MM-DD (default today)")
}

// input starts from the employee's saved settings and applies the flags given.
func (o *PeriodOptions) input(ctx context.Context, cmd *cobra.Command, a *app.App, id employee.ID) (payroll.PeriodInput, error) {
	in, err := a.Payroll.Defaults(ctx, id)
	if err != nil {
		return payroll.PeriodInput{}, err
	}

	flags := cmd.Flags()
	set := func(name string, dst *numeric.Input, v string) {
		if flags.Changed(name) {
			*dst = numeric.Input(v)
		}
	}
	set("days", &in.DaysWorked, o.DaysWorked)
	set("ot-hours", &in.OvertimeHours, o.OvertimeHours)
	set("ot-rate", &in.OvertimeRate, o.OvertimeRate)
	set("wfo-target", &in.WFOTarget, o.WFOTarget)
	set("wfo-done", &in.WFODone, o.WFODone)
	set("insurance", &in.Insurance, o.Insurance)
	if flags.Changed("pf") {
		in.DeductPF = o.DeductPF
	}
	in.PaymentDate = o.PaymentDate
	return in, nil
}

func newPayrollPreviewCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &PeriodOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "preview <employee-id>",
		Short: "Show the salary breakdown without recording anything",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f := rootOpts.formatter(cmd)
			id, err := employee.ParseID(args[0])
			if err != nil {
				return fail(f, err)
			}

			a, f, err := rootOpts.session(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			in, err := opts.input(cmd.Context(), cmd, a, id)
			if err != nil {
				return fail(f, err)
			}
			preview, err := a.Payroll.Preview(cmd.Context(), id, in)
			if err != nil {
				return fail(f, err)
			}
			return f.Success(preview, func(w io.Writer) { writePreview(w, preview) })
		},
	}

	opts.bind(cmd)
	return cmd
}

func newPayrollDisburseCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &PeriodOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "disburse <employee-id>",
		Short: "Record a salary payment for the month of the payment date",
		Long: `Record a salary payment. Each employee can be paid once per calendar month;
a second attempt for the same month is rejected with exit code 1.

The inputs used are saved as the employee's settings for next time.

Example:
  hrctl payroll disburse 1001 --days 28 --ot-hours 6 --date 2025-12-31`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f := rootOpts.formatter(cmd)
			id, err := employee.ParseID(args[0])
			if err != nil {
				return fail(f, err)
			}

			a, f, err := rootOpts.session(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			in, err := opts.input(cmd.Context(), cmd, a, id)
			if err != nil {
				return fail(f, err)
			}
			f.VerboseLog("disbursing to %s with days=%s ot=%s@%s wfo=%s/%s insurance=%s pf=%t",
				id, in.DaysWorked, in.OvertimeHours, in.OvertimeRate, in.WFODone, in.WFOTarget, in.Insurance, in.DeductPF)

			record, err := a.Payroll.Disburse(cmd.Context(), id, in)
			if err != nil {
				return fail(f, err)
			}
			return f.Success(record, func(w io.Writer) { writeDisbursed(w, record) })
		},
	}

	opts.bind(cmd)
	return cmd
}

func newPayrollHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "history <employee-id>",
		Short: "List an employee's payments, newest first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f := rootOpts.formatter(cmd)
			id, err := employee.ParseID(args[0])
			if err != nil {
				return fail(f, err)
			}

			a, f, err := rootOpts.session(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			records, err := a.Payroll.History(cmd.Context(), id)
			if err != nil {
				return fail(f, err)
			}
			return f.Success(records, func(w io.Writer) { writeRecords(w, records) })
		},
	}
}

func newPayrollLedgerCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "ledger",
		Short: "List every payroll record in ledger order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, f, err := rootOpts.session(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			records, err := a.Payroll.Ledger(cmd.Context())
			if err != nil {
				return fail(f, err)
			}
			return f.Success(records, func(w io.Writer) { writeRecords(w, records) })
		},
	}
}

func newPayrollDeleteCommand(rootOpts *RootOptions) *cobra.Command {
	var ref string

	cmd := &cobra.Command{
		Use:   "delete <index>",
		Short: "Delete the ledger record at a position",
		Long: `Delete the ledger record at a position, as shown by "hrctl payroll ledger".
The employee's saved settings are not touched. Pass --ref to make sure the
record at that position is the one you listed.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !validator.IsNumeric(args[0]) {
				return NewExitError(ExitCommandError, fmt.Sprintf("invalid record index %q", args[0]))
			}
			index, err := strconv.Atoi(args[0])
			if err != nil {
				return NewExitError(ExitCommandError, fmt.Sprintf("invalid record index %q", args[0]))
			}
			if ref != "" && !validator.IsValidUUID(ref) {
				return NewExitError(ExitCommandError, fmt.Sprintf("invalid record reference %q", ref))
			}

			a, f, err := rootOpts.session(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.Payroll.DeleteRecord(cmd.Context(), index, ref); err != nil {
				return fail(f, err)
			}
			return f.Success(map[string]int{"index": index}, func(w io.Writer) {
				fmt.Fprintf(w, "✓ Deleted payroll record #%d\n", index)
			})
		},
	}

	cmd.Flags().StringVar(&ref, "ref", "", "expected record reference")
	return cmd
}

func newPayrollResetCommand(rootOpts *RootOptions) *cobra.Command {
	var confirmed bool

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Delete every payroll record",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !confirmed {
				return NewExitError(ExitCommandError, "refusing to clear the ledger without --yes")
			}

			a, f, err := rootOpts.session(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.Payroll.ResetLedger(cmd.Context()); err != nil {
				return fail(f, err)
			}
			return f.Success(map[string]bool{"reset": true}, func(w io.Writer) {
				fmt.Fprintln(w, "✓ Payroll ledger cleared")
			})
		},
	}

	cmd.Flags().BoolVar(&confirmed, "yes", false, "confirm clearing the whole ledger")
	return cmd
}
