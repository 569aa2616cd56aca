package payroll

import (
	"github.com/cmlabs-hris/smart-hr-go/internal/domain/payroll"
	"github.com/shopspring/decimal"
)

var (
	nominalMonthDays = decimal.NewFromInt(30)
	standardDayHours = decimal.NewFromInt(8)
	pfRate           = decimal.RequireFromString("0.12")
	wfoPenaltyFactor = decimal.RequireFromString("0.5")
)

// ComputeBreakdown derives earnings, deductions and net pay for one period.
// Salary is the monthly base; every day is worth a thirtieth of it regardless
// of the calendar. Input fields that do not parse count as zero and net pay
// may come out negative.
func ComputeBreakdown(salary decimal.Decimal, input payroll.PeriodInput) payroll.Breakdown {
	perDay := salary.Div(nominalMonthDays)
	earned := perDay.Mul(input.DaysWorked.Decimal())

	otRate := input.OvertimeRate.Decimal()
	if otRate.IsZero() {
		otRate = perDay.Div(standardDayHours)
	}
	overtime := input.OvertimeHours.Decimal().Mul(otRate)

	penalty := decimal.Zero
	target, done := input.WFOTarget.Decimal(), input.WFODone.Decimal()
	if done.LessThan(target) {
		penalty = target.Sub(done).Mul(perDay).Mul(wfoPenaltyFactor)
	}

	pf := decimal.Zero
	if input.DeductPF {
		pf = salary.Mul(pfRate)
	}

	insurance := input.Insurance.Decimal()

	return payroll.Breakdown{
		Base:         salary,
		PerDay:       perDay,
		Attendance:   earned,
		OvertimeRate: otRate,
		Overtime:     overtime,
		Penalty:      penalty,
		PF:           pf,
		Insurance:    insurance,
		NetPay:       earned.Add(overtime).Sub(penalty).Sub(insurance).Sub(pf),
	}
}
