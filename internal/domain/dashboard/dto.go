package dashboard

import (
	"github.com/cmlabs-hris/smart-hr-go/internal/domain/employee"
	"github.com/shopspring/decimal"
)

// ========== COMBINED DASHBOARD ==========

// DashboardResponse is the combined response for the main dashboard endpoint
type DashboardResponse struct {
	Summary     SummaryResponse     `json:"summary" yaml:"summary"`
	Positions   []PositionCount     `json:"positions" yaml:"positions"`
	SalaryBands SalaryBandsResponse `json:"salary_bands" yaml:"salary_bands"`
	Roster      []RosterRow         `json:"roster" yaml:"roster"`
}

// ========== SUMMARY ==========

// SummaryResponse contains the headline cards
type SummaryResponse struct {
	Period         string `json:"period" yaml:"period"` // e.g. "Dec 2025"
	TotalEmployees int    `json:"total_employees" yaml:"total_employees"`
	TotalDisbursed int64  `json:"total_disbursed" yaml:"total_disbursed"` // sum of every ledger record
	PendingCount   int    `json:"pending_count" yaml:"pending_count"`     // employees not yet paid this period
	UpdatedAt      string `json:"updated_at" yaml:"updated_at"`
}

// ========== CHARTS ==========

// PositionCount is one bar of the staff-per-position chart, in first-seen order
type PositionCount struct {
	Position string `json:"position" yaml:"position"`
	Count    int    `json:"count" yaml:"count"`
}

// SalaryBandsResponse buckets monthly salaries: high > 50000, mid 25000-50000, low < 25000
type SalaryBandsResponse struct {
	High int `json:"high" yaml:"high"`
	Mid  int `json:"mid" yaml:"mid"`
	Low  int `json:"low" yaml:"low"`
}

// ========== ROSTER ==========

type RosterRow struct {
	ID             employee.ID     `json:"id" yaml:"id"`
	Name           string          `json:"name" yaml:"name"`
	Position       string          `json:"position" yaml:"position"`
	Salary         decimal.Decimal `json:"salary" yaml:"salary"`
	LastPay        *int64          `json:"last_pay,omitempty" yaml:"last_pay,omitempty"`
	LastPayDate    string          `json:"last_pay_date,omitempty" yaml:"last_pay_date,omitempty"`
	PaidThisPeriod bool            `json:"paid_this_period" yaml:"paid_this_period"`
}
