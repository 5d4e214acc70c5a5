package http

import (
	"log/slog"

	"github.com/cmlabs-hris/hospital-hr-backend/internal/domain/user"
	"github.com/cmlabs-hris/hospital-hr-backend/internal/handler/http/middleware"
	"github.com/cmlabs-hris/hospital-hr-backend/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

func NewRouter(
	logger *slog.Logger,
	allowedOrigins []string,
	JWTService jwt.Service,
	payrollHandler PayrollHandler,
	leaveHandler LeaveHandler,
) *chi.Mux {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelInfo,
		Schema: httplog.SchemaECS,
	}))

	// Request bodies are decoded as plain JSON; compressed bodies are refused with 415.
	r.Use(chiMiddleware.AllowContentEncoding("identity"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/healthz"))

	r.Route("/api/v1", func(r chi.Router) {

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired(JWTService.JWTAuth()))

			r.Route("/payroll", func(r chi.Router) {
				r.With(middleware.RequirePermission(user.PermissionPayrollCalculate)).Post("/calculate", payrollHandler.Calculate)
				r.With(middleware.RequirePermission(user.PermissionPayrollCalculate)).Post("/preview", payrollHandler.Preview)

				r.Route("/salaries", func(r chi.Router) {
					r.With(middleware.RequirePermission(user.PermissionPayrollViewAll)).Get("/", payrollHandler.ListSalaryRecords)
					r.With(middleware.RequirePermission(user.PermissionPayrollManage)).Post("/", payrollHandler.CreateSalaryRecord)

					r.Route("/{id}", func(r chi.Router) {
						r.With(middleware.RequirePermission(user.PermissionPayrollViewAll)).Get("/", payrollHandler.GetSalaryRecord)
						r.With(middleware.RequirePermission(user.PermissionPayrollManage)).Delete("/", payrollHandler.DeleteSalaryRecord)

						// Admin only
						r.With(middleware.RequirePermission(user.PermissionPayrollApprove)).Put("/approve", payrollHandler.ApproveSalaryRecord)
						r.With(middleware.RequirePermission(user.PermissionPayrollPay)).Put("/pay", payrollHandler.MarkSalaryRecordPaid)
					})
				})
			})

			r.Route("/leaves", func(r chi.Router) {
				r.Use(middleware.RequireEmployee)

				r.With(middleware.RequirePermission(user.PermissionLeaveViewOwn)).Get("/balance", leaveHandler.GetMyBalance)
				r.With(middleware.RequirePermission(user.PermissionLeaveViewOwn)).Post("/evaluate", leaveHandler.Evaluate)
				r.With(middleware.RequirePermission(user.PermissionLeaveCreate)).Post("/", leaveHandler.Submit)
			})
		})
	})
	return r
}
