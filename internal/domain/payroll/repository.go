package payroll

import "context"

// PayrollRepository reads and writes the ledger as one ordered collection.
// Insertion order is disbursement order.
type PayrollRepository interface {
	ReadPayrolls(ctx context.Context) ([]Record, error)
	WritePayrolls(ctx context.Context, records []Record) error
}

// TxManager runs fn so that every repository write made with the ctx passed
// to fn commits together, or none does.
type TxManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
