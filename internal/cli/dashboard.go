package cli

import (
	"io"

	"github.com/spf13/cobra"
)

// NewDashboardCommand creates the dashboard command.
func NewDashboardCommand(rootOpts *RootOptions) *cobra.Command {
	var month string

	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Show roster and payroll totals",
		Long: `Show roster and payroll totals for the current month.

With --month only the headline summary for that month is shown.

Example:
  hrctl dashboard
  hrctl dashboard --month 2025-11`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, f, err := rootOpts.session(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			if month != "" {
				summary, err := a.Dashboard.GetSummary(cmd.Context(), month)
				if err != nil {
					return fail(f, err)
				}
				return f.Success(summary, func(w io.Writer) { writeSummary(w, summary) })
			}

			dash, err := a.Dashboard.GetDashboard(cmd.Context())
			if err != nil {
				return fail(f, err)
			}
			return f.Success(dash, func(w io.Writer) { writeDashboard(w, dash) })
		},
	}

	cmd.Flags().StringVar(&month, "month", "", "summary month as YYYY-MM")
	return cmd
}
