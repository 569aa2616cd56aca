// Package keyvalue persists the employee roster and the payroll ledger as two
// JSON blobs in a key-value backend, under the same keys and field names the
// browser build kept in localStorage.
package keyvalue

import (
	"context"
	"errors"
)

const (
	EmployeesKey = "smart_hr_employees"
	PayrollsKey  = "smart_hr_payrolls"
)

// ErrKeyNotFound is returned by KV.Get for a key that was never written.
var ErrKeyNotFound = errors.New("key not found")

// KV is a blob store with transactions. Get and Put called with the context
// handed to fn by WithTransaction take part in that transaction.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
