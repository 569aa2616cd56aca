package dashboard

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cmlabs-hris/smart-hr-go/internal/domain/dashboard"
	"github.com/cmlabs-hris/smart-hr-go/internal/domain/employee"
	"github.com/cmlabs-hris/smart-hr-go/internal/domain/payroll"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

var (
	highSalary = decimal.NewFromInt(50000)
	lowSalary  = decimal.NewFromInt(25000)
)

// Config holds dashboard service configuration
type Config struct {
	Location *time.Location
	Now      func() time.Time
}

type DashboardServiceImpl struct {
	dashboard.DashboardRepository
	config Config
}

func NewDashboardService(repo dashboard.DashboardRepository, cfg Config) dashboard.DashboardService {
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &DashboardServiceImpl{
		DashboardRepository: repo,
		config:              cfg,
	}
}

func (s *DashboardServiceImpl) now() time.Time {
	return s.config.Now().In(s.config.Location)
}

// parseMonth parses YYYY-MM format, defaults to current month
func (s *DashboardServiceImpl) parseMonth(month string) payroll.Period {
	now := s.now()
	if month == "" {
		return payroll.PeriodOf(now)
	}

	parsed, err := time.Parse("2006-01", month)
	if err != nil {
		return payroll.PeriodOf(now)
	}
	return payroll.PeriodOf(parsed)
}

// load reads the roster and the ledger in parallel
func (s *DashboardServiceImpl) load(ctx context.Context) ([]employee.Employee, []payroll.Record, error) {
	var (
		employees []employee.Employee
		records   []payroll.Record
	)

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		employees, err = s.ReadEmployees(gCtx)
		if err != nil {
			return fmt.Errorf("read employees: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		var err error
		records, err = s.ReadPayrolls(gCtx)
		if err != nil {
			return fmt.Errorf("read payrolls: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return employees, records, nil
}

// paidIn returns the IDs with at least one record in period.
func paidIn(records []payroll.Record, period payroll.Period) map[employee.ID]struct{} {
	paid := make(map[employee.ID]struct{})
	for _, r := range records {
		if p, ok := r.Period(); ok && p == period {
			paid[r.EmployeeID] = struct{}{}
		}
	}
	return paid
}

func (s *DashboardServiceImpl) summarize(employees []employee.Employee, records []payroll.Record, period payroll.Period) dashboard.SummaryResponse {
	var total int64
	for _, r := range records {
		total += r.NetPay
	}

	paid := paidIn(records, period)
	pending := 0
	for _, e := range employees {
		if _, ok := paid[e.ID]; !ok {
			pending++
		}
	}

	return dashboard.SummaryResponse{
		Period:         period.Label(),
		TotalEmployees: len(employees),
		TotalDisbursed: total,
		PendingCount:   pending,
		UpdatedAt:      s.now().Format(time.RFC3339),
	}
}

func (s *DashboardServiceImpl) GetSummary(ctx context.Context, month string) (*dashboard.SummaryResponse, error) {
	employees, records, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	summary := s.summarize(employees, records, s.parseMonth(month))
	return &summary, nil
}

// GetDashboard returns combined dashboard data for the current period
func (s *DashboardServiceImpl) GetDashboard(ctx context.Context) (*dashboard.DashboardResponse, error) {
	employees, records, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	period := payroll.PeriodOf(s.now())
	paid := paidIn(records, period)

	resp := &dashboard.DashboardResponse{
		Summary:   s.summarize(employees, records, period),
		Positions: []dashboard.PositionCount{},
		Roster:    make([]dashboard.RosterRow, 0, len(employees)),
	}

	positionIdx := make(map[string]int)
	for _, e := range employees {
		pos := strings.TrimSpace(e.Position)
		if pos == "" {
			pos = "Unknown"
		}
		if i, ok := positionIdx[pos]; ok {
			resp.Positions[i].Count++
		} else {
			positionIdx[pos] = len(resp.Positions)
			resp.Positions = append(resp.Positions, dashboard.PositionCount{Position: pos, Count: 1})
		}

		switch {
		case e.Salary.GreaterThan(highSalary):
			resp.SalaryBands.High++
		case e.Salary.LessThan(lowSalary):
			resp.SalaryBands.Low++
		default:
			resp.SalaryBands.Mid++
		}

		row := dashboard.RosterRow{
			ID:       e.ID,
			Name:     e.Name,
			Position: e.Position,
			Salary:   e.Salary,
		}
		// last matching record in ledger order
		for i := len(records) - 1; i >= 0; i-- {
			if records[i].EmployeeID == e.ID {
				netPay := records[i].NetPay
				row.LastPay = &netPay
				row.LastPayDate = records[i].Date
				break
			}
		}
		_, row.PaidThisPeriod = paid[e.ID]
		resp.Roster = append(resp.Roster, row)
	}

	return resp, nil
}
