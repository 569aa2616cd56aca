package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sebdah/goldie/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/cmlabs-hris/smart-hr-go/internal/app"
	"github.com/cmlabs-hris/smart-hr-go/internal/domain/employee"
	"github.com/cmlabs-hris/smart-hr-go/internal/repository/keyvalue"
	"github.com/cmlabs-hris/smart-hr-go/internal/repository/memory"
)

// newTestApp returns an in-memory app with two employees and a clock fixed
// at 15 Dec 2025.
func newTestApp(t *testing.T) *app.App {
	t.Helper()
	store := keyvalue.NewStore(memory.NewKV())
	err := store.WriteEmployees(context.Background(), []employee.Employee{
		{ID: 1001, Name: "Asha Rao", Email: "asha@example.com", Position: "Engineer", Salary: decimal.NewFromInt(30000)},
		{ID: 1002, Name: "Ravi Kumar", Email: "ravi@example.com", Position: "Designer", Salary: decimal.NewFromInt(24000)},
	})
	require.NoError(t, err)

	clock := time.Date(2025, time.December, 15, 9, 0, 0, 0, time.UTC)
	return app.New(store, app.Options{
		Location: time.UTC,
		Now:      func() time.Time { return clock },
	})
}

func execute(t *testing.T, a *app.App, args ...string) (string, string, error) {
	t.Helper()
	opts := &RootOptions{
		Open: func(ctx context.Context) (*app.App, error) { return a, nil },
	}
	cmd := newRootCommand(opts)

	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func golden(t *testing.T) *goldie.Goldie {
	return goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
}

// ===== GOLDEN TEXT OUTPUT =====

func TestEmployeeListText(t *testing.T) {
	a := newTestApp(t)

	out, _, err := execute(t, a, "employee", "list")
	require.NoError(t, err)
	golden(t).Assert(t, "employee_list", []byte(out))
}

func TestPayrollDisburseText(t *testing.T) {
	a := newTestApp(t)

	out, _, err := execute(t, a, "payroll", "disburse", "1001", "--date", "2025-12-15")
	require.NoError(t, err)
	golden(t).Assert(t, "payroll_disburse", []byte(out))
}

func TestPayrollPreviewText(t *testing.T) {
	a := newTestApp(t)

	out, _, err := execute(t, a, "payroll", "preview", "1002", "--wfo-target", "10", "--wfo-done", "8")
	require.NoError(t, err)
	golden(t).Assert(t, "payroll_preview", []byte(out))
}

func TestPayrollLedgerText(t *testing.T) {
	a := newTestApp(t)

	_, _, err := execute(t, a, "payroll", "disburse", "1002", "--date", "2025-11-30")
	require.NoError(t, err)
	_, _, err = execute(t, a, "payroll", "disburse", "1001", "--date", "2025-12-15")
	require.NoError(t, err)

	out, _, err := execute(t, a, "payroll", "ledger")
	require.NoError(t, err)
	golden(t).Assert(t, "payroll_ledger", []byte(out))
}

func TestDashboardText(t *testing.T) {
	a := newTestApp(t)

	_, _, err := execute(t, a, "payroll", "disburse", "1001", "--date", "2025-12-15")
	require.NoError(t, err)

	out, _, err := execute(t, a, "dashboard")
	require.NoError(t, err)
	golden(t).Assert(t, "dashboard", []byte(out))
}

func TestPayrollBatchText(t *testing.T) {
	a := newTestApp(t)
	path := filepath.Join(t.TempDir(), "december.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`payment_date: "2025-12-31"
entries:
  - employee_id: 1001
    input:
      days_worked: 28
  - employee_id: 1002
  - employee_id: 1001
`), 0o644))

	out, _, err := execute(t, a, "payroll", "batch", path)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	golden(t).Assert(t, "payroll_batch", []byte(out))
}

// ===== STRUCTURED OUTPUT =====

func TestPayrollDisburseJSON(t *testing.T) {
	a := newTestApp(t)

	out, _, err := execute(t, a, "--format", "json", "payroll", "disburse", "1001", "--days", "28", "--ot-hours", "4", "--date", "2025-12-20")
	require.NoError(t, err)

	var resp struct {
		Status string `json:"status"`
		Data   struct {
			Index  int    `json:"index"`
			NetPay int64  `json:"net_pay"`
			Date   string `json:"date"`
			Month  string `json:"month"`
			Ref    string `json:"ref"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	// 28 * 1000 + 4 * 125 - 3600
	assert.Equal(t, int64(24900), resp.Data.NetPay)
	assert.Equal(t, "20/12/2025", resp.Data.Date)
	assert.Equal(t, "Dec", resp.Data.Month)
	assert.NotEmpty(t, resp.Data.Ref)
}

func TestSavedSettingsPrefillNextRun(t *testing.T) {
	a := newTestApp(t)

	_, _, err := execute(t, a, "payroll", "disburse", "1001", "--days", "28", "--pf=false", "--date", "2025-11-30")
	require.NoError(t, err)

	// no flags: the saved 28 days and no PF carry over
	out, _, err := execute(t, a, "--format", "json", "payroll", "preview", "1001", "--date", "2025-12-15")
	require.NoError(t, err)

	var resp struct {
		Data struct {
			Breakdown struct {
				RoundedNetPay int64 `json:"rounded_net_pay"`
			} `json:"breakdown"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, int64(28000), resp.Data.Breakdown.RoundedNetPay)
}

func TestEmployeeListYAML(t *testing.T) {
	a := newTestApp(t)

	out, _, err := execute(t, a, "--format", "yaml", "employee", "list")
	require.NoError(t, err)

	var resp struct {
		Status string `yaml:"status"`
		Data   []struct {
			ID     int64  `yaml:"id"`
			Name   string `yaml:"name"`
			Salary string `yaml:"salary"`
		} `yaml:"data"`
	}
	require.NoError(t, yaml.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	require.Len(t, resp.Data, 2)
	assert.Equal(t, int64(1001), resp.Data[0].ID)
	assert.Equal(t, "30000", resp.Data[0].Salary)
}

// ===== EXIT CODES =====

func TestDuplicateDisbursementExitsWithFailure(t *testing.T) {
	a := newTestApp(t)

	_, _, err := execute(t, a, "payroll", "disburse", "1001", "--date", "2025-12-01")
	require.NoError(t, err)

	out, _, err := execute(t, a, "--format", "json", "payroll", "disburse", "1001", "--date", "2025-12-31")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "DUPLICATE_PERIOD", resp.Error.Code)
	assert.Equal(t, "salary for Dec 2025 has already been disbursed to employee 1001", resp.Error.Message)
}

func TestUnknownEmployeeExitsWithFailure(t *testing.T) {
	a := newTestApp(t)

	_, stderr, err := execute(t, a, "payroll", "disburse", "4242")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, stderr, "Error [EMPLOYEE_NOT_FOUND]")
}

func TestInvalidPaymentDateExitsWithFailure(t *testing.T) {
	a := newTestApp(t)

	_, stderr, err := execute(t, a, "payroll", "disburse", "1001", "--date", "2025-02-30")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, stderr, "INVALID_DATE")
}

func TestCommandErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"non numeric id", []string{"payroll", "disburse", "abc"}},
		{"non numeric index", []string{"payroll", "delete", "first"}},
		{"reset without confirmation", []string{"payroll", "reset"}},
		{"invalid format", []string{"--format", "xml", "employee", "list"}},
		{"missing argument", []string{"payroll", "history"}},
		{"missing batch file", []string{"payroll", "batch", "does-not-exist.yaml"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := newTestApp(t)
			_, _, err := execute(t, a, tt.args...)
			require.Error(t, err)
			assert.Equal(t, ExitCommandError, GetExitCode(err))
		})
	}
}

func TestOpenFailureIsCommandError(t *testing.T) {
	opts := &RootOptions{
		Open: func(ctx context.Context) (*app.App, error) { return nil, assert.AnError },
	}
	cmd := newRootCommand(opts)
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"employee", "list"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.ErrorIs(t, err, assert.AnError)
}

// ===== LEDGER MAINTENANCE =====

func TestDeleteAndResetLedger(t *testing.T) {
	a := newTestApp(t)

	_, _, err := execute(t, a, "payroll", "disburse", "1001", "--date", "2025-11-30")
	require.NoError(t, err)
	_, _, err = execute(t, a, "payroll", "disburse", "1001", "--date", "2025-12-15")
	require.NoError(t, err)

	_, _, err = execute(t, a, "payroll", "delete", "0", "--ref", "0188d0f2-7b8c-7b4a-8a2b-6b8b8b8b8b8b")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	_, _, err = execute(t, a, "payroll", "delete", "0", "--ref", "not-a-ref")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))

	_, _, err = execute(t, a, "payroll", "delete", "1.5")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))

	out, _, err := execute(t, a, "payroll", "delete", "0")
	require.NoError(t, err)
	assert.Equal(t, "✓ Deleted payroll record #0\n", out)

	// November is free again
	_, _, err = execute(t, a, "payroll", "disburse", "1001", "--date", "2025-11-28")
	require.NoError(t, err)

	out, _, err = execute(t, a, "payroll", "history", "1001")
	require.NoError(t, err)
	assert.Contains(t, out, "28/11/2025")
	assert.Contains(t, out, "15/12/2025")

	out, _, err = execute(t, a, "payroll", "reset", "--yes")
	require.NoError(t, err)
	assert.Equal(t, "✓ Payroll ledger cleared\n", out)

	out, _, err = execute(t, a, "payroll", "ledger")
	require.NoError(t, err)
	assert.Equal(t, "No payroll records\n", out)
}

func TestEmployeeAddUpdateDelete(t *testing.T) {
	a := newTestApp(t)

	out, _, err := execute(t, a, "--format", "json", "employee", "add",
		"--name", "Meera Iyer", "--email", "meera@example.com", "--position", "Analyst", "--salary", "55000")
	require.NoError(t, err)

	var created struct {
		Data struct {
			ID employee.ID `json:"id"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &created))
	id := created.Data.ID.String()

	out, _, err = execute(t, a, "employee", "update", id, "--salary", "60000")
	require.NoError(t, err)
	assert.Equal(t, "✓ Updated employee "+id+": Meera Iyer (Analyst, ₹60,000)\n", out)

	out, _, err = execute(t, a, "employee", "delete", id)
	require.NoError(t, err)
	assert.Equal(t, "✓ Deleted employee "+id+"\n", out)

	_, stderr, err := execute(t, a, "employee", "add", "--name", "", "--email", "bad")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, stderr, "Error [VALIDATION_ERROR]")
}
