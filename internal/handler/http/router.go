package http

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
)

// RouterConfig carries the settings the router needs from the app config
type RouterConfig struct {
	FrontendURL string
	Logger      *slog.Logger
}

func NewRouter(
	cfg RouterConfig,
	employeeHandler EmployeeHandler,
	payrollHandler PayrollHandler,
	dashboardHandler DashboardHandler,
	eventHandler EventHandler,
) *chi.Mux {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{cfg.FrontendURL},
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	if cfg.Logger != nil {
		r.Use(httplog.RequestLogger(cfg.Logger, &httplog.Options{
			Level:  slog.LevelDebug,
			Schema: httplog.SchemaECS,
		}))
	}

	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Route("/api/v1", func(r chi.Router) {
		// SSE stream, no content-type restriction
		r.Get("/events", eventHandler.Stream)

		r.Group(func(r chi.Router) {
			// bodies must be JSON; bodiless requests pass
			r.Use(chiMiddleware.AllowContentType("application/json"))

			r.Route("/employees", func(r chi.Router) {
				r.Get("/", employeeHandler.ListEmployees)
				r.Post("/", employeeHandler.CreateEmployee)

				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", employeeHandler.GetEmployee)
					r.Put("/", employeeHandler.UpdateEmployee)
					r.Delete("/", employeeHandler.DeleteEmployee)

					r.Route("/payroll", func(r chi.Router) {
						r.Get("/", payrollHandler.History)
						r.Post("/", payrollHandler.Disburse)
						r.Get("/defaults", payrollHandler.GetDefaults)
						r.Post("/preview", payrollHandler.Preview)
					})
				})
			})

			r.Route("/payrolls", func(r chi.Router) {
				r.Get("/", payrollHandler.Ledger)
				r.Delete("/", payrollHandler.ResetLedger)
				r.Delete("/{index}", payrollHandler.DeleteRecord)
			})

			r.Route("/dashboard", func(r chi.Router) {
				r.Get("/", dashboardHandler.GetDashboard)
				r.Get("/summary", dashboardHandler.GetSummary)
			})
		})
	})
	return r
}
