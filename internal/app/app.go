// Package app wires configuration, storage and services together for the
// API server and the CLI.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/smart-hr-go/internal/config"
	"github.com/cmlabs-hris/smart-hr-go/internal/domain/dashboard"
	"github.com/cmlabs-hris/smart-hr-go/internal/domain/employee"
	"github.com/cmlabs-hris/smart-hr-go/internal/domain/payroll"
	"github.com/cmlabs-hris/smart-hr-go/internal/pkg/database"
	"github.com/cmlabs-hris/smart-hr-go/internal/pkg/sse"
	"github.com/cmlabs-hris/smart-hr-go/internal/repository/keyvalue"
	"github.com/cmlabs-hris/smart-hr-go/internal/repository/memory"
	"github.com/cmlabs-hris/smart-hr-go/internal/repository/postgresql"
	"github.com/cmlabs-hris/smart-hr-go/internal/repository/sqlite"
	dashboardService "github.com/cmlabs-hris/smart-hr-go/internal/service/dashboard"
	employeeService "github.com/cmlabs-hris/smart-hr-go/internal/service/employee"
	payrollService "github.com/cmlabs-hris/smart-hr-go/internal/service/payroll"
)

type App struct {
	Hub       *sse.Hub
	Employees employee.EmployeeService
	Payroll   payroll.PayrollService
	Dashboard dashboard.DashboardService

	closers []func()
}

// Options tune the clock the services resolve "today" with
type Options struct {
	Location *time.Location
	Now      func() time.Time
}

// Open connects the configured storage driver and builds the services.
func Open(ctx context.Context, cfg *config.Config) (*App, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	var closers []func()
	kv, err := openKV(ctx, cfg, &closers)
	if err != nil {
		for _, c := range closers {
			c()
		}
		return nil, err
	}

	a := New(keyvalue.NewStore(kv), Options{Location: loc})
	a.closers = closers
	return a, nil
}

// New builds the services on top of an existing store.
func New(store *keyvalue.Store, opts Options) *App {
	hub := sse.NewHub()
	return &App{
		Hub:       hub,
		Employees: employeeService.NewEmployeeService(store, store, hub),
		Payroll: payrollService.NewPayrollService(store, store, store, hub, payrollService.Config{
			Location: opts.Location,
			Now:      opts.Now,
		}),
		Dashboard: dashboardService.NewDashboardService(store, dashboardService.Config{
			Location: opts.Location,
			Now:      opts.Now,
		}),
	}
}

func openKV(ctx context.Context, cfg *config.Config, closers *[]func()) (keyvalue.KV, error) {
	switch cfg.Storage.Driver {
	case config.DriverPostgres:
		db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL())
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		*closers = append(*closers, db.Close)
		slog.Debug("storage opened", "driver", cfg.Storage.Driver, "host", cfg.Database.Host, "db", cfg.Database.Name)
		return postgresql.NewKV(ctx, db)

	case config.DriverSQLite:
		db, err := database.NewSQLiteDB(cfg.Storage.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("open sqlite: %w", err)
		}
		*closers = append(*closers, func() { db.Close() })
		slog.Debug("storage opened", "driver", cfg.Storage.Driver, "path", cfg.Storage.SQLitePath)
		return sqlite.NewKV(ctx, db)

	case config.DriverMemory:
		slog.Debug("storage opened", "driver", cfg.Storage.Driver)
		return memory.NewKV(), nil
	}
	return nil, fmt.Errorf("unsupported storage driver %q", cfg.Storage.Driver)
}

// Close releases the storage connection
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}
