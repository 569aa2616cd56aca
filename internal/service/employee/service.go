package employee

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"strings"

	"github.com/cmlabs-hris/smart-hr-go/internal/domain/employee"
	"github.com/cmlabs-hris/smart-hr-go/internal/pkg/sse"
	"golang.org/x/text/unicode/norm"
)

const (
	eventTopic = "employee"

	minID = 1000
	maxID = 9999

	// random draws before falling back to the first free ID
	idAttempts = 64
)

type txManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

type EmployeeServiceImpl struct {
	txManager    txManager
	employeeRepo employee.EmployeeRepository
	hub          *sse.Hub

	// intN returns a value in [0, n); swapped in tests
	intN func(n int) int
}

func NewEmployeeService(
	txManager txManager,
	employeeRepo employee.EmployeeRepository,
	hub *sse.Hub,
) employee.EmployeeService {
	return &EmployeeServiceImpl{
		txManager:    txManager,
		employeeRepo: employeeRepo,
		hub:          hub,
		intN:         rand.IntN,
	}
}

// clean trims and NFC-normalises free text so visually equal names and
// positions compare equal.
func clean(v string) string {
	return norm.NFC.String(strings.TrimSpace(v))
}

func (s *EmployeeServiceImpl) readEmployees(ctx context.Context) ([]employee.Employee, error) {
	employees, err := s.employeeRepo.ReadEmployees(ctx)
	if err != nil {
		return nil, fmt.Errorf("read employees: %w", err)
	}
	return employees, nil
}

func (s *EmployeeServiceImpl) ListEmployees(ctx context.Context) ([]employee.EmployeeResponse, error) {
	employees, err := s.readEmployees(ctx)
	if err != nil {
		return nil, err
	}

	result := make([]employee.EmployeeResponse, 0, len(employees))
	for _, e := range employees {
		result = append(result, employee.ToResponse(e))
	}
	return result, nil
}

func (s *EmployeeServiceImpl) GetEmployee(ctx context.Context, id employee.ID) (employee.EmployeeResponse, error) {
	employees, err := s.readEmployees(ctx)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}

	idx := employee.FindIndex(employees, id)
	if idx < 0 {
		return employee.EmployeeResponse{}, employee.ErrEmployeeNotFound
	}
	return employee.ToResponse(employees[idx]), nil
}

// nextID draws a random unused four digit ID.
func (s *EmployeeServiceImpl) nextID(employees []employee.Employee) (employee.ID, error) {
	taken := make(map[employee.ID]struct{}, len(employees))
	for _, e := range employees {
		taken[e.ID] = struct{}{}
	}

	for i := 0; i < idAttempts; i++ {
		id := employee.ID(minID + s.intN(maxID-minID+1))
		if _, ok := taken[id]; !ok {
			return id, nil
		}
	}
	for id := employee.ID(minID); id <= maxID; id++ {
		if _, ok := taken[id]; !ok {
			return id, nil
		}
	}
	return 0, employee.ErrIDSpaceExhausted
}

func (s *EmployeeServiceImpl) CreateEmployee(ctx context.Context, req employee.CreateEmployeeRequest) (employee.EmployeeResponse, error) {
	if err := req.Validate(); err != nil {
		return employee.EmployeeResponse{}, err
	}

	var created employee.Employee
	err := s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		employees, err := s.readEmployees(txCtx)
		if err != nil {
			return err
		}

		id, err := s.nextID(employees)
		if err != nil {
			return err
		}

		created = employee.Employee{
			ID:       id,
			Name:     clean(req.Name),
			Email:    strings.TrimSpace(req.Email),
			Position: clean(req.Position),
			Salary:   req.Salary.Decimal(),
		}
		if err := s.employeeRepo.WriteEmployees(txCtx, append(employees, created)); err != nil {
			return fmt.Errorf("write employees: %w", err)
		}
		return nil
	})
	if err != nil {
		return employee.EmployeeResponse{}, err
	}

	slog.Info("employee created", "employee_id", created.ID)
	resp := employee.ToResponse(created)
	s.hub.Publish(sse.Event{Topic: eventTopic, Event: "employee.created", Data: resp})
	return resp, nil
}

func (s *EmployeeServiceImpl) UpdateEmployee(ctx context.Context, req employee.UpdateEmployeeRequest) (employee.EmployeeResponse, error) {
	if err := req.Validate(); err != nil {
		return employee.EmployeeResponse{}, err
	}

	var updated employee.Employee
	err := s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		employees, err := s.readEmployees(txCtx)
		if err != nil {
			return err
		}

		idx := employee.FindIndex(employees, req.ID)
		if idx < 0 {
			return employee.ErrEmployeeNotFound
		}

		e := &employees[idx]
		if req.Name != nil {
			e.Name = clean(*req.Name)
		}
		if req.Email != nil {
			e.Email = strings.TrimSpace(*req.Email)
		}
		if req.Position != nil {
			e.Position = clean(*req.Position)
		}
		if req.Salary != nil {
			e.Salary = req.Salary.Decimal()
		}
		updated = *e

		if err := s.employeeRepo.WriteEmployees(txCtx, employees); err != nil {
			return fmt.Errorf("write employees: %w", err)
		}
		return nil
	})
	if err != nil {
		return employee.EmployeeResponse{}, err
	}

	slog.Info("employee updated", "employee_id", updated.ID)
	resp := employee.ToResponse(updated)
	s.hub.Publish(sse.Event{Topic: eventTopic, Event: "employee.updated", Data: resp})
	return resp, nil
}

// DeleteEmployee removes the employee from the roster. Ledger records keep
// their own name and amount.
func (s *EmployeeServiceImpl) DeleteEmployee(ctx context.Context, id employee.ID) error {
	err := s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		employees, err := s.readEmployees(txCtx)
		if err != nil {
			return err
		}

		idx := employee.FindIndex(employees, id)
		if idx < 0 {
			return employee.ErrEmployeeNotFound
		}

		employees = append(employees[:idx:idx], employees[idx+1:]...)
		if err := s.employeeRepo.WriteEmployees(txCtx, employees); err != nil {
			return fmt.Errorf("write employees: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	slog.Info("employee deleted", "employee_id", id)
	s.hub.Publish(sse.Event{Topic: eventTopic, Event: "employee.deleted", Data: map[string]employee.ID{"id": id}})
	return nil
}
