package payroll

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cmlabs-hris/smart-hr-go/internal/domain/employee"
	"github.com/cmlabs-hris/smart-hr-go/internal/domain/payroll"
	"github.com/cmlabs-hris/smart-hr-go/internal/pkg/sse"
	"github.com/cmlabs-hris/smart-hr-go/internal/pkg/validator"
	"github.com/cmlabs-hris/smart-hr-go/internal/repository/keyvalue"
	"github.com/cmlabs-hris/smart-hr-go/internal/repository/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	asha employee.ID = 1001
	ravi employee.ID = 1002
)

// failingKV fails every Put to failKey.
type failingKV struct {
	*memory.KV
	failKey string
}

func (f *failingKV) Put(ctx context.Context, key string, value []byte) error {
	if key == f.failKey {
		return errors.New("disk full")
	}
	return f.KV.Put(ctx, key, value)
}

type testEnv struct {
	svc   payroll.PayrollService
	store *keyvalue.Store
	hub   *sse.Hub
}

func newTestEnv(t *testing.T, kv keyvalue.KV) *testEnv {
	t.Helper()
	store := keyvalue.NewStore(kv)
	require.NoError(t, store.WriteEmployees(context.Background(), []employee.Employee{
		{ID: asha, Name: "Asha Rao", Email: "asha@smarthr.in", Position: "Engineer", Salary: decimal.NewFromInt(30000)},
		{ID: ravi, Name: "Ravi Kumar", Email: "ravi@smarthr.in", Position: "Designer", Salary: decimal.NewFromInt(24000)},
	}))

	hub := sse.NewHub()
	svc := NewPayrollService(store, store, store, hub, Config{
		Location: time.FixedZone("IST", 5*3600+1800),
		Now:      func() time.Time { return time.Date(2025, time.December, 31, 20, 0, 0, 0, time.UTC) },
	})
	return &testEnv{svc: svc, store: store, hub: hub}
}

func datedInput(date string) payroll.PeriodInput {
	in := fullMonth()
	in.PaymentDate = date
	return in
}

func (e *testEnv) ledger(t *testing.T) []payroll.Record {
	t.Helper()
	records, err := e.store.ReadPayrolls(context.Background())
	require.NoError(t, err)
	return records
}

func (e *testEnv) employee(t *testing.T, id employee.ID) employee.Employee {
	t.Helper()
	employees, err := e.store.ReadEmployees(context.Background())
	require.NoError(t, err)
	idx := employee.FindIndex(employees, id)
	require.GreaterOrEqual(t, idx, 0)
	return employees[idx]
}

func TestDisburse_CommitsRecordAndSettings(t *testing.T) {
	env := newTestEnv(t, memory.NewKV())
	ctx := context.Background()

	in := datedInput("2025-12-05")
	in.Insurance = "0"
	resp, err := env.svc.Disburse(ctx, asha, in)
	require.NoError(t, err)

	assert.Equal(t, 0, resp.Index)
	assert.Equal(t, int64(26400), resp.NetPay)
	assert.Equal(t, "5/12/2025", resp.Date)
	assert.Equal(t, "Dec", resp.Month)
	assert.Equal(t, "Asha Rao", resp.EmployeeName)
	assert.True(t, validator.IsValidUUID(resp.Ref), resp.Ref)

	records := env.ledger(t)
	require.Len(t, records, 1)
	assert.Equal(t, resp.Ref, records[0].Ref)
	assert.True(t, records[0].Details.PF.Equal(decimal.NewFromInt(3600)))

	emp := env.employee(t, asha)
	require.NotNil(t, emp.Settings)
	assert.Equal(t, in.Settings(), *emp.Settings)
}

func TestDisburse_WFOPenalty(t *testing.T) {
	env := newTestEnv(t, memory.NewKV())

	in := datedInput("2025-12-05")
	in.WFOTarget = "4"
	in.WFODone = "1"
	resp, err := env.svc.Disburse(context.Background(), asha, in)
	require.NoError(t, err)

	assert.Equal(t, int64(24900), resp.NetPay)
	assert.True(t, resp.Details.Penalty.Equal(decimal.NewFromInt(1500)))
}

func TestDisburse_RejectsSecondPaymentInSamePeriod(t *testing.T) {
	env := newTestEnv(t, memory.NewKV())
	ctx := context.Background()

	_, err := env.svc.Disburse(ctx, asha, datedInput("2025-12-01"))
	require.NoError(t, err)
	before := env.employee(t, asha)

	retry := datedInput("2025-12-28")
	retry.DaysWorked = "12"
	_, err = env.svc.Disburse(ctx, asha, retry)

	var dup *payroll.DuplicatePeriodError
	require.ErrorAs(t, err, &dup)
	assert.ErrorIs(t, err, payroll.ErrPayrollRecordAlreadyExists)
	assert.Equal(t, asha, dup.EmployeeID)
	assert.Contains(t, err.Error(), "Dec 2025")

	assert.Len(t, env.ledger(t), 1)
	assert.Equal(t, before.Settings, env.employee(t, asha).Settings)
}

func TestDisburse_SameMonthOtherYearOrOtherEmployee(t *testing.T) {
	env := newTestEnv(t, memory.NewKV())
	ctx := context.Background()

	_, err := env.svc.Disburse(ctx, asha, datedInput("2025-12-01"))
	require.NoError(t, err)

	_, err = env.svc.Disburse(ctx, asha, datedInput("2024-12-01"))
	require.NoError(t, err)

	_, err = env.svc.Disburse(ctx, ravi, datedInput("2025-12-01"))
	require.NoError(t, err)

	assert.Len(t, env.ledger(t), 3)
}

func TestDisburse_StoredDatesParsedByField(t *testing.T) {
	env := newTestEnv(t, memory.NewKV())
	ctx := context.Background()

	// zero padded dates written by other locales still match the period
	require.NoError(t, env.store.WritePayrolls(ctx, []payroll.Record{
		{EmployeeID: asha, EmployeeName: "Asha Rao", NetPay: 26400, Date: "05/12/2025", Month: "Dec"},
		{EmployeeID: ravi, EmployeeName: "Ravi Kumar", NetPay: 100, Date: "garbage", Month: "Dec"},
	}))

	_, err := env.svc.Disburse(ctx, asha, datedInput("2025-12-20"))
	assert.ErrorIs(t, err, payroll.ErrPayrollRecordAlreadyExists)

	// an unreadable stored date never blocks a disbursement
	_, err = env.svc.Disburse(ctx, ravi, datedInput("2025-12-20"))
	assert.NoError(t, err)
}

func TestDisburse_BlankDateUsesTodayInConfiguredZone(t *testing.T) {
	env := newTestEnv(t, memory.NewKV())

	// 20:00 UTC on 31 Dec is already 1 Jan in IST
	resp, err := env.svc.Disburse(context.Background(), asha, fullMonth())
	require.NoError(t, err)
	assert.Equal(t, "1/1/2026", resp.Date)
	assert.Equal(t, "Jan", resp.Month)
}

func TestDisburse_MissingEmployee(t *testing.T) {
	env := newTestEnv(t, memory.NewKV())

	_, err := env.svc.Disburse(context.Background(), 9999, datedInput("2025-12-05"))
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
	assert.Empty(t, env.ledger(t))
}

func TestDisburse_InvalidPaymentDate(t *testing.T) {
	env := newTestEnv(t, memory.NewKV())

	_, err := env.svc.Disburse(context.Background(), asha, datedInput("2025-02-30"))
	assert.ErrorIs(t, err, payroll.ErrInvalidPaymentDate)
	assert.Empty(t, env.ledger(t))
	assert.Nil(t, env.employee(t, asha).Settings)
}

func TestDisburse_PersistenceFailureCommitsNothing(t *testing.T) {
	kv := &failingKV{KV: memory.NewKV()}
	env := newTestEnv(t, kv)
	kv.failKey = keyvalue.EmployeesKey

	_, err := env.svc.Disburse(context.Background(), asha, datedInput("2025-12-05"))
	assert.ErrorIs(t, err, payroll.ErrPersistenceFailure)

	assert.Empty(t, env.ledger(t))
	assert.Nil(t, env.employee(t, asha).Settings)
}

func TestDisburse_NegativeNetPayIsStored(t *testing.T) {
	env := newTestEnv(t, memory.NewKV())

	in := datedInput("2025-12-05")
	in.DaysWorked = "2"
	in.Insurance = "5000"
	resp, err := env.svc.Disburse(context.Background(), asha, in)
	require.NoError(t, err)

	// 2000 - 5000 - 3600
	assert.Equal(t, int64(-6600), resp.NetPay)
	assert.Equal(t, int64(-6600), env.ledger(t)[0].NetPay)
}

func TestDisburse_SettingsRoundTrip(t *testing.T) {
	env := newTestEnv(t, memory.NewKV())

	in := payroll.PeriodInput{
		DaysWorked:    "26",
		OvertimeHours: "7.5",
		OvertimeRate:  "",
		WFOTarget:     "6",
		WFODone:       "4",
		Insurance:     "812.40",
		DeductPF:      true,
		PaymentDate:   "2025-11-30",
	}
	resp, err := env.svc.Disburse(context.Background(), ravi, in)
	require.NoError(t, err)

	emp := env.employee(t, ravi)
	require.NotNil(t, emp.Settings)

	replayed := ComputeBreakdown(emp.Salary, payroll.InputFromSettings(*emp.Settings))
	original := ComputeBreakdown(emp.Salary, in)
	assert.True(t, original.NetPay.Equal(replayed.NetPay))
	assert.Equal(t, original.RoundedNetPay(), resp.NetPay)
}

func TestDeleteRecord_FreesSlotForSameEmployee(t *testing.T) {
	env := newTestEnv(t, memory.NewKV())
	ctx := context.Background()

	first, err := env.svc.Disburse(ctx, asha, datedInput("2025-12-05"))
	require.NoError(t, err)

	require.NoError(t, env.svc.DeleteRecord(ctx, first.Index, first.Ref))
	assert.Empty(t, env.ledger(t))

	// settings from the deleted disbursement stay
	assert.NotNil(t, env.employee(t, asha).Settings)

	_, err = env.svc.Disburse(ctx, asha, datedInput("2025-12-20"))
	assert.NoError(t, err)
}

func TestDeleteRecord_LeavesOtherRecordsUntouched(t *testing.T) {
	env := newTestEnv(t, memory.NewKV())
	ctx := context.Background()

	_, err := env.svc.Disburse(ctx, asha, datedInput("2025-11-05"))
	require.NoError(t, err)
	_, err = env.svc.Disburse(ctx, ravi, datedInput("2025-12-05"))
	require.NoError(t, err)
	_, err = env.svc.Disburse(ctx, asha, datedInput("2025-12-05"))
	require.NoError(t, err)

	before := env.ledger(t)
	require.NoError(t, env.svc.DeleteRecord(ctx, 1, ""))
	after := env.ledger(t)

	require.Len(t, after, 2)
	assert.Equal(t, before[0].Ref, after[0].Ref)
	assert.Equal(t, before[2].Ref, after[1].Ref)
	assert.Equal(t, before[2].NetPay, after[1].NetPay)

	// Ravi's slot is free again, Asha's is still taken
	_, err = env.svc.Disburse(ctx, ravi, datedInput("2025-12-09"))
	assert.NoError(t, err)
	_, err = env.svc.Disburse(ctx, asha, datedInput("2025-12-09"))
	assert.ErrorIs(t, err, payroll.ErrPayrollRecordAlreadyExists)
}

func TestDeleteRecord_Guards(t *testing.T) {
	env := newTestEnv(t, memory.NewKV())
	ctx := context.Background()

	_, err := env.svc.Disburse(ctx, asha, datedInput("2025-12-05"))
	require.NoError(t, err)

	assert.ErrorIs(t, env.svc.DeleteRecord(ctx, 1, ""), payroll.ErrPayrollRecordNotFound)
	assert.ErrorIs(t, env.svc.DeleteRecord(ctx, -1, ""), payroll.ErrPayrollRecordNotFound)
	assert.ErrorIs(t, env.svc.DeleteRecord(ctx, 0, "0190a6b2-7c3d-7e4f-8a9b-0c1d2e3f4a5b"), payroll.ErrRecordRefMismatch)
	assert.Len(t, env.ledger(t), 1)
}

func TestHistoryAndLedger(t *testing.T) {
	env := newTestEnv(t, memory.NewKV())
	ctx := context.Background()

	for _, d := range []string{"2025-10-01", "2025-11-01", "2025-12-01"} {
		_, err := env.svc.Disburse(ctx, asha, datedInput(d))
		require.NoError(t, err)
	}
	_, err := env.svc.Disburse(ctx, ravi, datedInput("2025-11-15"))
	require.NoError(t, err)

	history, err := env.svc.History(ctx, asha)
	require.NoError(t, err)
	require.Len(t, history, 3)
	assert.Equal(t, "Dec", history[0].Month)
	assert.Equal(t, 2, history[0].Index)
	assert.Equal(t, "Oct", history[2].Month)
	assert.Equal(t, 0, history[2].Index)

	ledger, err := env.svc.Ledger(ctx)
	require.NoError(t, err)
	require.Len(t, ledger, 4)
	for i, r := range ledger {
		assert.Equal(t, i, r.Index)
	}
	assert.Equal(t, ravi, ledger[3].EmployeeID)
}

func TestResetLedger(t *testing.T) {
	env := newTestEnv(t, memory.NewKV())
	ctx := context.Background()

	_, err := env.svc.Disburse(ctx, asha, datedInput("2025-12-05"))
	require.NoError(t, err)

	require.NoError(t, env.svc.ResetLedger(ctx))
	assert.Empty(t, env.ledger(t))
	assert.NotNil(t, env.employee(t, asha).Settings)
}

func TestPreviewAndDefaults(t *testing.T) {
	env := newTestEnv(t, memory.NewKV())
	ctx := context.Background()

	defaults, err := env.svc.Defaults(ctx, asha)
	require.NoError(t, err)
	assert.Equal(t, "30", string(defaults.DaysWorked))
	assert.True(t, defaults.DeductPF)
	assert.Empty(t, string(defaults.OvertimeRate))

	preview, err := env.svc.Preview(ctx, ravi, payroll.PeriodInput{DaysWorked: "30", OvertimeHours: "10", PaymentDate: "2025-12-05"})
	require.NoError(t, err)
	assert.Equal(t, "Dec 2025", preview.Period)
	assert.True(t, preview.Breakdown.Overtime.Equal(decimal.NewFromInt(1000)))
	assert.Empty(t, env.ledger(t))

	in := datedInput("2025-12-05")
	in.DeductPF = false
	in.OvertimeRate = "150"
	_, err = env.svc.Disburse(ctx, asha, in)
	require.NoError(t, err)

	defaults, err = env.svc.Defaults(ctx, asha)
	require.NoError(t, err)
	assert.False(t, defaults.DeductPF)
	assert.Equal(t, "150", string(defaults.OvertimeRate))

	_, err = env.svc.Defaults(ctx, 4242)
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
}

func TestDefaults_KeepsZeroDaysAfterUnpaidMonth(t *testing.T) {
	env := newTestEnv(t, memory.NewKV())
	ctx := context.Background()

	in := datedInput("2025-11-30")
	in.DaysWorked = "0"
	_, err := env.svc.Disburse(ctx, asha, in)
	require.NoError(t, err)

	defaults, err := env.svc.Defaults(ctx, asha)
	require.NoError(t, err)
	assert.Equal(t, "0", string(defaults.DaysWorked))
}

func TestDisburse_PublishesEvent(t *testing.T) {
	env := newTestEnv(t, memory.NewKV())
	events, cleanup := env.hub.Subscribe(eventTopic)
	defer cleanup()

	_, err := env.svc.Disburse(context.Background(), asha, datedInput("2025-12-05"))
	require.NoError(t, err)

	select {
	case ev := <-events:
		assert.Equal(t, "payroll.disbursed", ev.Event)
		resp, ok := ev.Data.(payroll.RecordResponse)
		require.True(t, ok)
		assert.Equal(t, asha, resp.EmployeeID)
	default:
		t.Fatal("expected payroll.disbursed event")
	}
}
