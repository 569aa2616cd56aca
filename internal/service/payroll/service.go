package payroll

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/cmlabs-hris/smart-hr-go/internal/domain/employee"
	"github.com/cmlabs-hris/smart-hr-go/internal/domain/payroll"
	"github.com/cmlabs-hris/smart-hr-go/internal/pkg/sse"
	"github.com/google/uuid"
)

const eventTopic = "payroll"

// Config holds payroll service configuration
type Config struct {
	Location *time.Location   // zone "today" is resolved in; default time.Local
	Now      func() time.Time // default time.Now
}

type PayrollServiceImpl struct {
	txManager    payroll.TxManager
	payrollRepo  payroll.PayrollRepository
	employeeRepo employee.EmployeeRepository
	hub          *sse.Hub
	config       Config

	// serialises disbursement attempts within this process
	mu sync.Mutex
}

func NewPayrollService(
	txManager payroll.TxManager,
	payrollRepo payroll.PayrollRepository,
	employeeRepo employee.EmployeeRepository,
	hub *sse.Hub,
	cfg Config,
) payroll.PayrollService {
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	return &PayrollServiceImpl{
		txManager:    txManager,
		payrollRepo:  payrollRepo,
		employeeRepo: employeeRepo,
		hub:          hub,
		config:       cfg,
	}
}

func persistenceError(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", payroll.ErrPersistenceFailure, op, err)
}

func (s *PayrollServiceImpl) findEmployee(ctx context.Context, id employee.ID) ([]employee.Employee, int, error) {
	employees, err := s.employeeRepo.ReadEmployees(ctx)
	if err != nil {
		return nil, -1, persistenceError("read employees", err)
	}

	idx := employee.FindIndex(employees, id)
	if idx < 0 {
		return nil, -1, employee.ErrEmployeeNotFound
	}
	return employees, idx, nil
}

func (s *PayrollServiceImpl) resolvePeriod(input payroll.PeriodInput) (time.Time, payroll.Period, error) {
	date, err := payroll.ResolvePaymentDate(input.PaymentDate, s.config.Now(), s.config.Location)
	if err != nil {
		return time.Time{}, payroll.Period{}, err
	}
	return date, payroll.PeriodOf(date), nil
}

// ========== PREVIEW ==========

func (s *PayrollServiceImpl) Preview(ctx context.Context, employeeID employee.ID, input payroll.PeriodInput) (payroll.PreviewResponse, error) {
	employees, idx, err := s.findEmployee(ctx, employeeID)
	if err != nil {
		return payroll.PreviewResponse{}, err
	}
	emp := employees[idx]

	_, period, err := s.resolvePeriod(input)
	if err != nil {
		return payroll.PreviewResponse{}, err
	}

	return payroll.PreviewResponse{
		EmployeeID:   emp.ID,
		EmployeeName: emp.Name,
		Period:       period.Label(),
		Breakdown:    payroll.ToBreakdownResponse(ComputeBreakdown(emp.Salary, input)),
	}, nil
}

func (s *PayrollServiceImpl) Defaults(ctx context.Context, employeeID employee.ID) (payroll.PeriodInput, error) {
	employees, idx, err := s.findEmployee(ctx, employeeID)
	if err != nil {
		return payroll.PeriodInput{}, err
	}
	return payroll.DefaultInput(employees[idx].Settings), nil
}

// ========== DISBURSEMENT ==========

// Disburse checks the period is still unpaid, then appends the record and
// overwrites the employee's settings in one transaction. On any error nothing
// is committed.
func (s *PayrollServiceImpl) Disburse(ctx context.Context, employeeID employee.ID, input payroll.PeriodInput) (payroll.RecordResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var entry payroll.LedgerEntry
	err := s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		employees, idx, err := s.findEmployee(txCtx, employeeID)
		if err != nil {
			return err
		}
		emp := employees[idx]

		date, period, err := s.resolvePeriod(input)
		if err != nil {
			return err
		}

		records, err := s.payrollRepo.ReadPayrolls(txCtx)
		if err != nil {
			return persistenceError("read payrolls", err)
		}
		for _, r := range records {
			if r.EmployeeID != emp.ID {
				continue
			}
			if p, ok := r.Period(); ok && p == period {
				return &payroll.DuplicatePeriodError{EmployeeID: emp.ID, Period: period}
			}
		}

		breakdown := ComputeBreakdown(emp.Salary, input)

		ref, err := uuid.NewV7()
		if err != nil {
			return fmt.Errorf("generate record ref: %w", err)
		}

		record := payroll.Record{
			Ref:          ref.String(),
			EmployeeID:   emp.ID,
			EmployeeName: emp.Name,
			NetPay:       breakdown.RoundedNetPay(),
			Date:         payroll.FormatDate(date),
			Month:        period.MonthLabel(),
			Details:      breakdown.Details(),
		}
		records = append(records, record)
		if err := s.payrollRepo.WritePayrolls(txCtx, records); err != nil {
			return persistenceError("write payrolls", err)
		}

		settings := input.Settings()
		employees[idx].Settings = &settings
		if err := s.employeeRepo.WriteEmployees(txCtx, employees); err != nil {
			return persistenceError("write employees", err)
		}

		entry = payroll.LedgerEntry{Index: len(records) - 1, Record: record}
		return nil
	})
	if err != nil {
		var dup *payroll.DuplicatePeriodError
		if errors.As(err, &dup) {
			slog.Warn("payroll disbursement rejected", "employee_id", employeeID, "period", dup.Period.Label())
		}
		return payroll.RecordResponse{}, err
	}

	slog.Info("payroll disbursed",
		"employee_id", employeeID,
		"date", entry.Record.Date,
		"net_pay", entry.Record.NetPay,
		"ref", entry.Record.Ref,
	)

	resp := payroll.ToRecordResponse(entry)
	s.hub.Publish(sse.Event{Topic: eventTopic, Event: "payroll.disbursed", Data: resp})
	return resp, nil
}

// ========== LEDGER ==========

func (s *PayrollServiceImpl) History(ctx context.Context, employeeID employee.ID) ([]payroll.RecordResponse, error) {
	records, err := s.payrollRepo.ReadPayrolls(ctx)
	if err != nil {
		return nil, persistenceError("read payrolls", err)
	}

	// newest first
	var entries []payroll.LedgerEntry
	for i := len(records) - 1; i >= 0; i-- {
		if records[i].EmployeeID == employeeID {
			entries = append(entries, payroll.LedgerEntry{Index: i, Record: records[i]})
		}
	}
	return payroll.ToRecordResponses(entries), nil
}

func (s *PayrollServiceImpl) Ledger(ctx context.Context) ([]payroll.RecordResponse, error) {
	records, err := s.payrollRepo.ReadPayrolls(ctx)
	if err != nil {
		return nil, persistenceError("read payrolls", err)
	}

	entries := make([]payroll.LedgerEntry, len(records))
	for i, r := range records {
		entries[i] = payroll.LedgerEntry{Index: i, Record: r}
	}
	return payroll.ToRecordResponses(entries), nil
}

// DeleteRecord removes the record at index. Settings written by that
// disbursement stay as they are.
func (s *PayrollServiceImpl) DeleteRecord(ctx context.Context, index int, ref string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var removed payroll.Record
	err := s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		records, err := s.payrollRepo.ReadPayrolls(txCtx)
		if err != nil {
			return persistenceError("read payrolls", err)
		}
		if index < 0 || index >= len(records) {
			return payroll.ErrPayrollRecordNotFound
		}
		if ref != "" && records[index].Ref != ref {
			return payroll.ErrRecordRefMismatch
		}

		removed = records[index]
		records = append(records[:index:index], records[index+1:]...)
		if err := s.payrollRepo.WritePayrolls(txCtx, records); err != nil {
			return persistenceError("write payrolls", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	slog.Info("payroll record deleted", "index", index, "employee_id", removed.EmployeeID, "date", removed.Date)
	s.hub.Publish(sse.Event{
		Topic: eventTopic,
		Event: "payroll.deleted",
		Data:  payroll.ToRecordResponse(payroll.LedgerEntry{Index: index, Record: removed}),
	})
	return nil
}

func (s *PayrollServiceImpl) ResetLedger(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.payrollRepo.WritePayrolls(ctx, []payroll.Record{}); err != nil {
		return persistenceError("write payrolls", err)
	}

	slog.Info("payroll ledger reset")
	s.hub.Publish(sse.Event{Topic: eventTopic, Event: "payroll.reset"})
	return nil
}
