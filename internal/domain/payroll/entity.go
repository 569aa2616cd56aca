package payroll

import (
	"github.com/cmlabs-hris/smart-hr-go/internal/domain/employee"
	"github.com/shopspring/decimal"
)

// Breakdown is the itemised result of one payroll calculation. NetPay is kept
// unrounded; RoundedNetPay is the figure that gets stored.
type Breakdown struct {
	Base         decimal.Decimal
	PerDay       decimal.Decimal
	Attendance   decimal.Decimal
	OvertimeRate decimal.Decimal
	Overtime     decimal.Decimal
	Penalty      decimal.Decimal
	PF           decimal.Decimal
	Insurance    decimal.Decimal
	NetPay       decimal.Decimal
}

var half = decimal.NewFromFloat(0.5)

// RoundedNetPay rounds NetPay to a whole currency unit, halves toward positive
// infinity (-2.5 becomes -2).
func (b Breakdown) RoundedNetPay() int64 {
	return b.NetPay.Add(half).Floor().IntPart()
}

// Details returns the part of the breakdown persisted with a record.
func (b Breakdown) Details() Details {
	return Details{
		Base:       b.Base,
		Attendance: b.Attendance,
		Overtime:   b.Overtime,
		Penalty:    b.Penalty,
		PF:         b.PF,
		Insurance:  b.Insurance,
	}
}

type Details struct {
	Base       decimal.Decimal
	Attendance decimal.Decimal
	Overtime   decimal.Decimal
	Penalty    decimal.Decimal
	PF         decimal.Decimal
	Insurance  decimal.Decimal
}

// Record is one committed disbursement. Records are immutable; EmployeeName is
// a snapshot taken at disbursement time.
type Record struct {
	Ref          string
	EmployeeID   employee.ID
	EmployeeName string
	NetPay       int64
	Date         string // d/m/yyyy
	Month        string // Jan..Dec
	Details      Details
}

// Period returns the calendar month the record's date falls in.
func (r Record) Period() (Period, bool) {
	t, err := ParseDate(r.Date)
	if err != nil {
		return Period{}, false
	}
	return PeriodOf(t), true
}

// LedgerEntry pairs a record with its position in ledger order.
type LedgerEntry struct {
	Index  int
	Record Record
}
