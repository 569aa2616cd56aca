package cli

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/cmlabs-hris/smart-hr-go/internal/domain/employee"
	"github.com/cmlabs-hris/smart-hr-go/internal/pkg/numeric"
)

// EmployeeOptions holds flags for the employee add and update commands.
type EmployeeOptions struct {
	*RootOptions
	Name     string
	Email    string
	Position string
	Salary   string
}

// NewEmployeeCommand creates the employee command group.
func NewEmployeeCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "employee",
		Short: "Manage the employee roster",
	}

	cmd.AddCommand(newEmployeeListCommand(rootOpts))
	cmd.AddCommand(newEmployeeAddCommand(rootOpts))
	cmd.AddCommand(newEmployeeUpdateCommand(rootOpts))
	cmd.AddCommand(newEmployeeDeleteCommand(rootOpts))
	return cmd
}

func newEmployeeListCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List employees in roster order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, f, err := rootOpts.session(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			employees, err := a.Employees.ListEmployees(cmd.Context())
			if err != nil {
				return fail(f, err)
			}
			return f.Success(employees, func(w io.Writer) { writeEmployees(w, employees) })
		},
	}
}

func newEmployeeAddCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &EmployeeOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add an employee with a freshly generated ID",
		Long: `Add an employee to the roster. The ID is drawn at random from 1000-9999.

Example:
  hrctl employee add --name "Asha Rao" --email asha@example.com --position Engineer --salary 30000`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, f, err := rootOpts.session(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			created, err := a.Employees.CreateEmployee(cmd.Context(), employee.CreateEmployeeRequest{
				Name:     opts.Name,
				Email:    opts.Email,
				Position: opts.Position,
				Salary:   numeric.Input(opts.Salary),
			})
			if err != nil {
				return fail(f, err)
			}
			return f.Success(created, func(w io.Writer) { writeEmployee(w, "Added", created) })
		},
	}

	cmd.Flags().StringVar(&opts.Name, "name", "", "full name")
	cmd.Flags().StringVar(&opts.Email, "email", "", "email address")
	cmd.Flags().StringVar(&opts.Position, "position", "", "job title")
	cmd.Flags().StringVar(&opts.Salary, "salary", "0", "monthly base salary in rupees")
	return cmd
}

func newEmployeeUpdateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &EmployeeOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Edit an employee's details",
		Long: `Edit name, email, position or salary. Only the flags given are changed.

Example:
  hrctl employee update 1001 --position "Lead Engineer" --salary 42000`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f := rootOpts.formatter(cmd)
			id, err := employee.ParseID(args[0])
			if err != nil {
				return fail(f, err)
			}

			req := employee.UpdateEmployeeRequest{ID: id}
			if cmd.Flags().Changed("name") {
				req.Name = &opts.Name
			}
			if cmd.Flags().Changed("email") {
				req.Email = &opts.Email
			}
			if cmd.Flags().Changed("position") {
				req.Position = &opts.Position
			}
			if cmd.Flags().Changed("salary") {
				salary := numeric.Input(opts.Salary)
				req.Salary = &salary
			}

			a, f, err := rootOpts.session(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			updated, err := a.Employees.UpdateEmployee(cmd.Context(), req)
			if err != nil {
				return fail(f, err)
			}
			return f.Success(updated, func(w io.Writer) { writeEmployee(w, "Updated", updated) })
		},
	}

	cmd.Flags().StringVar(&opts.Name, "name", "", "full name")
	cmd.Flags().StringVar(&opts.Email, "email", "", "email address")
	cmd.Flags().StringVar(&opts.Position, "position", "", "job title")
	cmd.Flags().StringVar(&opts.Salary, "salary", "", "monthly base salary in rupees")
	return cmd
}

func newEmployeeDeleteCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Remove an employee; their ledger records are kept",
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

			if err := a.Employees.DeleteEmployee(cmd.Context(), id); err != nil {
				return fail(f, err)
			}
			return f.Success(map[string]employee.ID{"id": id}, func(w io.Writer) {
				io.WriteString(w, "✓ Deleted employee "+id.String()+"\n")
			})
		},
	}
}
