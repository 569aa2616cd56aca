package dashboard

import "context"

// DashboardService defines the interface for dashboard operations
type DashboardService interface {
	// GetDashboard returns combined dashboard data for the current pay period
	GetDashboard(ctx context.Context) (*DashboardResponse, error)

	// GetSummary returns headline totals for a period given as YYYY-MM (blank = current)
	GetSummary(ctx context.Context, month string) (*SummaryResponse, error)
}
