package cli

import (
	"fmt"
	"io"
	"slices"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/cmlabs-hris/smart-hr-go/internal/domain/dashboard"
	"github.com/cmlabs-hris/smart-hr-go/internal/domain/employee"
	"github.com/cmlabs-hris/smart-hr-go/internal/domain/payroll"
	"github.com/cmlabs-hris/smart-hr-go/internal/pkg/currency"
)

const (
	rosterRow = "%-6s%-22s%-22s%s\n"
	ledgerRow = "%-5s%-26s%-14s%-14s%s\n"
	lineItem  = "  %-18s%s\n"
	summary   = "%-20s%s\n"
	dashRow   = "%-6s%-22s%-22s%-14s%-14s%s\n"
)

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// deduction renders an amount taken off net pay
func deduction(d decimal.Decimal) string {
	return currency.RupeeDecimal(d.Neg())
}

// periodLabel reads "Dec 2025" back from a stored record date, falling back
// to the month name alone.
func periodLabel(r payroll.RecordResponse) string {
	if t, err := payroll.ParseDate(r.Date); err == nil {
		return payroll.PeriodOf(t).Label()
	}
	return r.Month
}

func writeEmployees(w io.Writer, employees []employee.EmployeeResponse) {
	if len(employees) == 0 {
		fmt.Fprintln(w, "No employees")
		return
	}
	fmt.Fprintf(w, rosterRow, "ID", "NAME", "POSITION", "SALARY")
	for _, e := range employees {
		fmt.Fprintf(w, rosterRow, e.ID.String(), e.Name, e.Position, currency.RupeeDecimal(e.Salary))
	}
}

func writeEmployee(w io.Writer, verb string, e employee.EmployeeResponse) {
	fmt.Fprintf(w, "✓ %s employee %s: %s (%s, %s)\n", verb, e.ID, e.Name, e.Position, currency.RupeeDecimal(e.Salary))
}

func writePreview(w io.Writer, p payroll.PreviewResponse) {
	b := p.Breakdown
	fmt.Fprintf(w, "%s (%s), %s\n", p.EmployeeName, p.EmployeeID, p.Period)
	fmt.Fprintf(w, lineItem, "Base salary", currency.RupeeDecimal(b.Base))
	fmt.Fprintf(w, lineItem, "Attendance", currency.RupeeDecimal(b.Attendance))
	fmt.Fprintf(w, lineItem, "Overtime", currency.RupeeDecimal(b.Overtime))
	fmt.Fprintf(w, lineItem, "WFO penalty", deduction(b.Penalty))
	fmt.Fprintf(w, lineItem, "Provident fund", deduction(b.PF))
	fmt.Fprintf(w, lineItem, "Insurance", deduction(b.Insurance))
	fmt.Fprintf(w, lineItem, "Net pay", currency.Rupee(b.RoundedNetPay))
}

func writeDisbursed(w io.Writer, r payroll.RecordResponse) {
	fmt.Fprintf(w, "✓ Disbursed %s to %s (%s) for %s, record #%d\n",
		currency.Rupee(r.NetPay), r.EmployeeName, r.EmployeeID, periodLabel(r), r.Index)
}

func writeRecords(w io.Writer, records []payroll.RecordResponse) {
	if len(records) == 0 {
		fmt.Fprintln(w, "No payroll records")
		return
	}
	fmt.Fprintf(w, ledgerRow, "#", "EMPLOYEE", "NET PAY", "DATE", "MONTH")
	for _, r := range records {
		fmt.Fprintf(w, ledgerRow,
			strconv.Itoa(r.Index),
			r.EmployeeID.String()+" "+r.EmployeeName,
			currency.Rupee(r.NetPay),
			r.Date,
			r.Month,
		)
	}
}

func writeDashboard(w io.Writer, d *dashboard.DashboardResponse) {
	s := d.Summary
	fmt.Fprintf(w, summary, "Payroll period", s.Period)
	fmt.Fprintf(w, summary, "Employees", strconv.Itoa(s.TotalEmployees))
	fmt.Fprintf(w, summary, "Total disbursed", currency.Rupee(s.TotalDisbursed))
	fmt.Fprintf(w, summary, "Pending", strconv.Itoa(s.PendingCount))

	if len(d.Positions) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Positions")
		for _, p := range d.Positions {
			fmt.Fprintf(w, lineItem, p.Position, strconv.Itoa(p.Count))
		}
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Salary bands")
	fmt.Fprintf(w, lineItem, "High", strconv.Itoa(d.SalaryBands.High))
	fmt.Fprintf(w, lineItem, "Mid", strconv.Itoa(d.SalaryBands.Mid))
	fmt.Fprintf(w, lineItem, "Low", strconv.Itoa(d.SalaryBands.Low))

	if len(d.Roster) == 0 {
		return
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, dashRow, "ID", "NAME", "POSITION", "SALARY", "LAST PAY", "PAID")
	for _, r := range d.Roster {
		lastPay := "-"
		if r.LastPay != nil {
			lastPay = currency.Rupee(*r.LastPay)
		}
		paid := "no"
		if r.PaidThisPeriod {
			paid = "yes"
		}
		fmt.Fprintf(w, dashRow, r.ID.String(), r.Name, r.Position, currency.RupeeDecimal(r.Salary), lastPay, paid)
	}
}

func writeSummary(w io.Writer, s *dashboard.SummaryResponse) {
	fmt.Fprintf(w, summary, "Payroll period", s.Period)
	fmt.Fprintf(w, summary, "Employees", strconv.Itoa(s.TotalEmployees))
	fmt.Fprintf(w, summary, "Total disbursed", currency.Rupee(s.TotalDisbursed))
	fmt.Fprintf(w, summary, "Pending", strconv.Itoa(s.PendingCount))
}
