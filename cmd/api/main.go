package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cmlabs-hris/hospital-hr-backend/internal/config"
	"github.com/cmlabs-hris/hospital-hr-backend/internal/domain/payroll"
	appHTTP "github.com/cmlabs-hris/hospital-hr-backend/internal/handler/http"
	"github.com/cmlabs-hris/hospital-hr-backend/internal/pkg/database"
	"github.com/cmlabs-hris/hospital-hr-backend/internal/pkg/jwt"
	"github.com/cmlabs-hris/hospital-hr-backend/internal/repository/postgresql"
	leaveService "github.com/cmlabs-hris/hospital-hr-backend/internal/service/leave"
	payrollService "github.com/cmlabs-hris/hospital-hr-backend/internal/service/payroll"
	"github.com/go-chi/httplog/v3"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		os.Exit(1)
	}

	logFormat := httplog.SchemaECS.Concise(cfg.App.Env != "production")
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:       cfg.SlogLevel(),
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", cfg.App.Name),
		slog.String("version", cfg.App.Version),
		slog.String("env", cfg.App.Env),
	)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL(), database.PoolConfig{
		MaxConns: cfg.Database.MaxConns,
		MinConns: cfg.Database.MinConns,
	})
	if err != nil {
		logger.Error("Error connecting to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if cfg.Database.AutoMigrate {
		applied, err := database.Migrate(ctx, db, cfg.Database.MigrationsDir)
		if err != nil {
			logger.Error("Database migration failed", "error", err)
			os.Exit(1)
		}
		logger.Info("Database migrated", "applied", applied)
	}

	transactor := postgresql.NewTransactor(db)
	employeeRepo := postgresql.NewEmployeeRepository(db)
	attendanceRepo := postgresql.NewAttendanceRepository(db)
	salaryRecordRepo := postgresql.NewSalaryRecordRepository(db)
	leaveBalanceRepo := postgresql.NewLeaveBalanceRepository(db)
	leaveRequestRepo := postgresql.NewLeaveRequestRepository(db)

	JWTService, err := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)
	if err != nil {
		logger.Error("Failed to initialize JWT service", "error", err)
		os.Exit(1)
	}

	calculator, err := payrollService.NewCalculator(payroll.Rates{
		OvertimeHourlyRate: cfg.Payroll.OvertimeHourlyRate,
		NoPayDailyRate:     cfg.Payroll.NoPayDailyRate,
	})
	if err != nil {
		logger.Error("Failed to initialize payroll calculator", "error", err)
		os.Exit(1)
	}

	payrollSvc := payrollService.NewPayrollService(
		transactor,
		salaryRecordRepo,
		attendanceRepo,
		employeeRepo,
		calculator,
		logger.With(slog.String("component", "payroll")),
	)
	leaveSvc := leaveService.NewLeaveService(
		leaveBalanceRepo,
		leaveRequestRepo,
		leaveService.NewBalanceLedger(),
		logger.With(slog.String("component", "leave")),
	)

	payrollHandler := appHTTP.NewPayrollHandler(payrollSvc)
	leaveHandler := appHTTP.NewLeaveHandler(JWTService, leaveSvc)

	router := appHTTP.NewRouter(
		logger,
		cfg.CORS.AllowedOrigins,
		JWTService,
		payrollHandler,
		leaveHandler,
	)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Server running", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Graceful shutdown failed", "error", err)
	}
}
