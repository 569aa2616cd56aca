package keyvalue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/smart-hr-go/internal/domain/employee"
	"github.com/cmlabs-hris/smart-hr-go/internal/domain/payroll"
)

// Store implements the employee and payroll repositories on top of a KV
// backend. Every read loads a whole collection and every write replaces it.
type Store struct {
	kv KV
}

func NewStore(kv KV) *Store {
	return &Store{kv: kv}
}

func (s *Store) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return s.kv.WithTransaction(ctx, fn)
}

func (s *Store) ReadEmployees(ctx context.Context) ([]employee.Employee, error) {
	blob, err := s.get(ctx, EmployeesKey)
	if err != nil {
		return nil, err
	}
	docs, err := decodeList[employeeDoc](blob)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", EmployeesKey, err)
	}

	employees := make([]employee.Employee, 0, len(docs))
	for _, d := range docs {
		employees = append(employees, d.entity())
	}
	return employees, nil
}

func (s *Store) WriteEmployees(ctx context.Context, employees []employee.Employee) error {
	docs := make([]employeeDoc, 0, len(employees))
	for _, e := range employees {
		docs = append(docs, toEmployeeDoc(e))
	}
	return s.put(ctx, EmployeesKey, docs)
}

func (s *Store) ReadPayrolls(ctx context.Context) ([]payroll.Record, error) {
	blob, err := s.get(ctx, PayrollsKey)
	if err != nil {
		return nil, err
	}
	docs, err := decodeList[recordDoc](blob)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", PayrollsKey, err)
	}

	records := make([]payroll.Record, 0, len(docs))
	for _, d := range docs {
		records = append(records, d.entity())
	}
	return records, nil
}

// WritePayrolls replaces the ledger. An empty ledger removes the key, the way
// a reset cleared it in the browser build.
func (s *Store) WritePayrolls(ctx context.Context, records []payroll.Record) error {
	if len(records) == 0 {
		if err := s.kv.Delete(ctx, PayrollsKey); err != nil {
			return fmt.Errorf("delete %s: %w", PayrollsKey, err)
		}
		return nil
	}

	docs := make([]recordDoc, 0, len(records))
	for _, r := range records {
		docs = append(docs, toRecordDoc(r))
	}
	return s.put(ctx, PayrollsKey, docs)
}

func (s *Store) get(ctx context.Context, key string) ([]byte, error) {
	blob, err := s.kv.Get(ctx, key)
	if errors.Is(err, ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", key, err)
	}
	return blob, nil
}

func (s *Store) put(ctx context.Context, key string, v any) error {
	blob, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := s.kv.Put(ctx, key, blob); err != nil {
		return fmt.Errorf("put %s: %w", key, err)
	}
	return nil
}
