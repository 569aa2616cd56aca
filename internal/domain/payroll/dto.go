package payroll

import (
	"github.com/cmlabs-hris/smart-hr-go/internal/domain/employee"
	"github.com/cmlabs-hris/smart-hr-go/internal/pkg/numeric"
	"github.com/shopspring/decimal"
)

// ========== PERIOD INPUT ==========

// PeriodInput holds the form values of one disbursement attempt. Numeric
// fields that are blank or unparsable count as zero.
type PeriodInput struct {
	DaysWorked    numeric.Input `json:"days_worked" yaml:"days_worked"`
	OvertimeHours numeric.Input `json:"ot_hours" yaml:"ot_hours"`
	OvertimeRate  numeric.Input `json:"ot_rate" yaml:"ot_rate"` // blank or zero = derive from salary
	WFOTarget     numeric.Input `json:"wfo_target" yaml:"wfo_target"`
	WFODone       numeric.Input `json:"wfo_done" yaml:"wfo_done"`
	Insurance     numeric.Input `json:"insurance" yaml:"insurance"`
	DeductPF      bool          `json:"deduct_pf" yaml:"deduct_pf"`
	PaymentDate   string        `json:"payment_date,omitempty" yaml:"payment_date,omitempty"` // YYYY-MM-DD, blank = today
}

// Settings returns the recurring settings an employee keeps after a
// disbursement made with these inputs.
func (r PeriodInput) Settings() employee.Settings {
	return employee.Settings{
		DaysWorked:    r.DaysWorked,
		WFOTarget:     r.WFOTarget,
		WFODone:       r.WFODone,
		OvertimeHours: r.OvertimeHours,
		OvertimeRate:  r.OvertimeRate,
		Insurance:     r.Insurance,
		DeductPF:      r.DeductPF,
	}
}

// InputFromSettings rebuilds the inputs a stored settings object was saved
// from. The payment date is left blank.
func InputFromSettings(s employee.Settings) PeriodInput {
	return PeriodInput{
		DaysWorked:    s.DaysWorked,
		OvertimeHours: s.OvertimeHours,
		OvertimeRate:  s.OvertimeRate,
		WFOTarget:     s.WFOTarget,
		WFODone:       s.WFODone,
		Insurance:     s.Insurance,
		DeductPF:      s.DeductPF,
	}
}

// DefaultInput pre-fills a period form from the employee's stored settings:
// 30 days worked, zero for the rest, PF on.
func DefaultInput(s *employee.Settings) PeriodInput {
	in := PeriodInput{
		DaysWorked:    numeric.FromInt(30),
		OvertimeHours: numeric.FromInt(0),
		WFOTarget:     numeric.FromInt(0),
		WFODone:       numeric.FromInt(0),
		Insurance:     numeric.FromInt(0),
		DeductPF:      true,
	}
	if s == nil {
		return in
	}

	// only blank text falls back; a saved "0" is kept
	orDefault := func(v numeric.Input, def numeric.Input) numeric.Input {
		if v.IsBlank() {
			return def
		}
		return v
	}
	in.DaysWorked = orDefault(s.DaysWorked, in.DaysWorked)
	in.WFOTarget = orDefault(s.WFOTarget, in.WFOTarget)
	in.WFODone = orDefault(s.WFODone, in.WFODone)
	in.OvertimeHours = orDefault(s.OvertimeHours, in.OvertimeHours)
	in.Insurance = orDefault(s.Insurance, in.Insurance)
	if !s.OvertimeRate.IsZero() {
		in.OvertimeRate = s.OvertimeRate
	}
	in.DeductPF = s.DeductPF
	return in
}

// ========== RESPONSES ==========

type BreakdownResponse struct {
	Base          decimal.Decimal `json:"base" yaml:"base"`
	PerDay        decimal.Decimal `json:"per_day" yaml:"per_day"`
	Attendance    decimal.Decimal `json:"attendance" yaml:"attendance"`
	OvertimeRate  decimal.Decimal `json:"ot_rate" yaml:"ot_rate"`
	Overtime      decimal.Decimal `json:"ot" yaml:"ot"`
	Penalty       decimal.Decimal `json:"penalty" yaml:"penalty"`
	PF            decimal.Decimal `json:"pf" yaml:"pf"`
	Insurance     decimal.Decimal `json:"insurance" yaml:"insurance"`
	NetPay        decimal.Decimal `json:"net_pay" yaml:"net_pay"`
	RoundedNetPay int64           `json:"rounded_net_pay" yaml:"rounded_net_pay"`
}

type PreviewResponse struct {
	EmployeeID   employee.ID       `json:"employee_id" yaml:"employee_id"`
	EmployeeName string            `json:"employee_name" yaml:"employee_name"`
	Period       string            `json:"period" yaml:"period"`
	Breakdown    BreakdownResponse `json:"breakdown" yaml:"breakdown"`
}

type DetailsResponse struct {
	Base       decimal.Decimal `json:"base" yaml:"base"`
	Attendance decimal.Decimal `json:"attendance" yaml:"attendance"`
	Overtime   decimal.Decimal `json:"ot" yaml:"ot"`
	Penalty    decimal.Decimal `json:"penalty" yaml:"penalty"`
	PF         decimal.Decimal `json:"pf" yaml:"pf"`
	Insurance  decimal.Decimal `json:"insurance" yaml:"insurance"`
}

type RecordResponse struct {
	Index        int             `json:"index" yaml:"index"`
	Ref          string          `json:"ref,omitempty" yaml:"ref,omitempty"`
	EmployeeID   employee.ID     `json:"employee_id" yaml:"employee_id"`
	EmployeeName string          `json:"employee_name" yaml:"employee_name"`
	NetPay       int64           `json:"net_pay" yaml:"net_pay"`
	Date         string          `json:"date" yaml:"date"`
	Month        string          `json:"month" yaml:"month"`
	Details      DetailsResponse `json:"details" yaml:"details"`
}

// ToBreakdownResponse maps a calculation result to its API representation.
func ToBreakdownResponse(b Breakdown) BreakdownResponse {
	return BreakdownResponse{
		Base:          b.Base,
		PerDay:        b.PerDay,
		Attendance:    b.Attendance,
		OvertimeRate:  b.OvertimeRate,
		Overtime:      b.Overtime,
		Penalty:       b.Penalty,
		PF:            b.PF,
		Insurance:     b.Insurance,
		NetPay:        b.NetPay,
		RoundedNetPay: b.RoundedNetPay(),
	}
}

// ToRecordResponse maps a ledger entry to its API representation.
func ToRecordResponse(e LedgerEntry) RecordResponse {
	r := e.Record
	return RecordResponse{
		Index:        e.Index,
		Ref:          r.Ref,
		EmployeeID:   r.EmployeeID,
		EmployeeName: r.EmployeeName,
		NetPay:       r.NetPay,
		Date:         r.Date,
		Month:        r.Month,
		Details: DetailsResponse{
			Base:       r.Details.Base,
			Attendance: r.Details.Attendance,
			Overtime:   r.Details.Overtime,
			Penalty:    r.Details.Penalty,
			PF:         r.Details.PF,
			Insurance:  r.Details.Insurance,
		},
	}
}

func ToRecordResponses(entries []LedgerEntry) []RecordResponse {
	result := make([]RecordResponse, 0, len(entries))
	for _, e := range entries {
		result = append(result, ToRecordResponse(e))
	}
	return result
}
