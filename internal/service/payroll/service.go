package payroll

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/hospital-hr-backend/internal/domain/employee"
	"github.com/cmlabs-hris/hospital-hr-backend/internal/domain/payroll"
	"github.com/cmlabs-hris/hospital-hr-backend/internal/pkg/database"
	"github.com/cmlabs-hris/hospital-hr-backend/internal/pkg/validator"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

type PayrollServiceImpl struct {
	transactor     database.Transactor
	salaryRepo     payroll.SalaryRecordRepository
	attendanceRepo payroll.AttendanceRepository
	employeeRepo   employee.EmployeeRepository
	calculator     payroll.Calculator
	logger         *slog.Logger
	now            func() time.Time
}

func NewPayrollService(
	transactor database.Transactor,
	salaryRepo payroll.SalaryRecordRepository,
	attendanceRepo payroll.AttendanceRepository,
	employeeRepo employee.EmployeeRepository,
	calculator payroll.Calculator,
	logger *slog.Logger,
) payroll.PayrollService {
	return &PayrollServiceImpl{
		transactor:     transactor,
		salaryRepo:     salaryRepo,
		attendanceRepo: attendanceRepo,
		employeeRepo:   employeeRepo,
		calculator:     calculator,
		logger:         logger,
		now:            time.Now,
	}
}

// ========== CALCULATION ==========

func (s *PayrollServiceImpl) Calculate(ctx context.Context, req payroll.CalculateSalaryRequest) (payroll.SalaryRecordResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.SalaryRecordResponse{}, err
	}

	draft, err := s.computeDraft(ctx, req.EmployeeID, req.Period())
	if err != nil {
		return payroll.SalaryRecordResponse{}, err
	}

	return mapToSalaryRecordResponse(draft), nil
}

func (s *PayrollServiceImpl) Preview(ctx context.Context, req payroll.FinalizeSalaryRequest) (payroll.SalaryRecordResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.SalaryRecordResponse{}, err
	}

	record, err := s.computeFinal(ctx, req)
	if err != nil {
		return payroll.SalaryRecordResponse{}, err
	}

	return mapToSalaryRecordResponse(record), nil
}

// computeDraft fetches the pay profile and attendance facts concurrently and runs the calculator.
func (s *PayrollServiceImpl) computeDraft(ctx context.Context, employeeID string, period payroll.Period) (payroll.SalaryRecord, error) {
	var (
		profile    employee.PayProfile
		attendance payroll.AttendanceFacts
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		profile, err = s.employeeRepo.GetPayProfile(gctx, employeeID)
		return err
	})
	g.Go(func() error {
		var err error
		attendance, err = s.attendanceRepo.GetAttendanceFacts(gctx, employeeID, period)
		return err
	})
	if err := g.Wait(); err != nil {
		return payroll.SalaryRecord{}, err
	}

	return s.calculator.ComputeDraft(profile, attendance, period)
}

func (s *PayrollServiceImpl) computeFinal(ctx context.Context, req payroll.FinalizeSalaryRequest) (payroll.SalaryRecord, error) {
	draft, err := s.computeDraft(ctx, req.EmployeeID, req.Period())
	if err != nil {
		return payroll.SalaryRecord{}, err
	}
	return s.calculator.Finalize(draft, req.ManualAdjustments)
}

// ========== SALARY RECORDS ==========

// Create recomputes the record from stored facts and the request's manual adjustments.
// Client-side totals are never trusted.
func (s *PayrollServiceImpl) Create(ctx context.Context, req payroll.FinalizeSalaryRequest) (payroll.SalaryRecordResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.SalaryRecordResponse{}, err
	}

	record, err := s.computeFinal(ctx, req)
	if err != nil {
		return payroll.SalaryRecordResponse{}, err
	}

	exists, err := s.salaryRepo.ExistsForEmployeePeriod(ctx, record.EmployeeID, record.Period)
	if err != nil {
		return payroll.SalaryRecordResponse{}, err
	}
	if exists {
		return payroll.SalaryRecordResponse{}, payroll.ErrSalaryRecordExists
	}

	id, err := uuid.NewV7()
	if err != nil {
		return payroll.SalaryRecordResponse{}, fmt.Errorf("failed to generate salary record id: %w", err)
	}
	now := s.now()
	record.ID = id.String()
	record.CreatedAt = now
	record.UpdatedAt = now

	created, err := s.salaryRepo.Create(ctx, record)
	if err != nil {
		return payroll.SalaryRecordResponse{}, err
	}

	s.logger.InfoContext(ctx, "salary record created",
		"record_id", created.ID,
		"employee_id", created.EmployeeID,
		"period", created.Period.String(),
		"net_payable_salary", created.NetPayableSalary.String(),
	)
	if created.HasWarning(payroll.WarningNegativeNet) {
		s.logger.WarnContext(ctx, "salary record has negative net payable salary",
			"record_id", created.ID,
			"employee_id", created.EmployeeID,
			"net_payable_salary", created.NetPayableSalary.String(),
		)
	}

	return mapToSalaryRecordResponse(created), nil
}

func (s *PayrollServiceImpl) Get(ctx context.Context, id string) (payroll.SalaryRecordResponse, error) {
	if !validator.IsValidUUID(id) {
		return payroll.SalaryRecordResponse{}, payroll.ErrSalaryRecordNotFound
	}

	record, err := s.salaryRepo.GetByID(ctx, id)
	if err != nil {
		return payroll.SalaryRecordResponse{}, err
	}

	return mapToSalaryRecordResponse(record), nil
}

func (s *PayrollServiceImpl) List(ctx context.Context, filter payroll.SalaryFilter) (payroll.ListSalaryRecordResponse, error) {
	if err := filter.Validate(); err != nil {
		return payroll.ListSalaryRecordResponse{}, err
	}
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 20
	}

	records, total, err := s.salaryRepo.List(ctx, filter)
	if err != nil {
		return payroll.ListSalaryRecordResponse{}, err
	}

	data := make([]payroll.SalaryRecordResponse, 0, len(records))
	for _, r := range records {
		data = append(data, mapToSalaryRecordResponse(r))
	}

	return payroll.ListSalaryRecordResponse{
		Data:       data,
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
	}, nil
}

func (s *PayrollServiceImpl) Approve(ctx context.Context, id string) (payroll.SalaryRecordResponse, error) {
	return s.transition(ctx, id, "approved", payroll.SalaryStatus.CanApprove, payroll.SalaryStatusApproved)
}

func (s *PayrollServiceImpl) MarkPaid(ctx context.Context, id string) (payroll.SalaryRecordResponse, error) {
	return s.transition(ctx, id, "paid", payroll.SalaryStatus.CanPay, payroll.SalaryStatusPaid)
}

// transition locks the record, applies the guard and writes the new status in one
// transaction, so concurrent status changes on a record serialise.
func (s *PayrollServiceImpl) transition(
	ctx context.Context,
	id string,
	action string,
	guard func(payroll.SalaryStatus) error,
	to payroll.SalaryStatus,
) (payroll.SalaryRecordResponse, error) {
	if !validator.IsValidUUID(id) {
		return payroll.SalaryRecordResponse{}, payroll.ErrSalaryRecordNotFound
	}

	var (
		record payroll.SalaryRecord
		from   payroll.SalaryStatus
	)
	err := s.transactor.WithinTransaction(ctx, func(txCtx context.Context) error {
		var err error
		record, err = s.salaryRepo.GetByIDForUpdate(txCtx, id)
		if err != nil {
			return err
		}
		if err := guard(record.Status); err != nil {
			return err
		}

		now := s.now()
		if err := s.salaryRepo.UpdateStatus(txCtx, id, to, now); err != nil {
			return err
		}

		from = record.Status
		record.Status = to
		record.UpdatedAt = now
		switch to {
		case payroll.SalaryStatusApproved:
			record.ApprovedAt = &now
		case payroll.SalaryStatusPaid:
			record.PaidAt = &now
		}
		return nil
	})
	if err != nil {
		return payroll.SalaryRecordResponse{}, err
	}

	s.logger.InfoContext(ctx, "salary record "+action,
		"record_id", id,
		"from_status", string(from),
		"to_status", string(to),
	)

	return mapToSalaryRecordResponse(record), nil
}

func (s *PayrollServiceImpl) Delete(ctx context.Context, id string) error {
	if !validator.IsValidUUID(id) {
		return payroll.ErrSalaryRecordNotFound
	}

	var employeeID string
	err := s.transactor.WithinTransaction(ctx, func(txCtx context.Context) error {
		record, err := s.salaryRepo.GetByIDForUpdate(txCtx, id)
		if err != nil {
			return err
		}
		if err := record.Status.CanDelete(); err != nil {
			return err
		}
		employeeID = record.EmployeeID
		return s.salaryRepo.Delete(txCtx, id)
	})
	if err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "salary record deleted", "record_id", id, "employee_id", employeeID)
	return nil
}

// ========== HELPERS ==========

func mapToSalaryRecordResponse(r payroll.SalaryRecord) payroll.SalaryRecordResponse {
	warnings := r.Warnings
	if warnings == nil {
		warnings = []string{}
	}

	resp := payroll.SalaryRecordResponse{
		ID:               r.ID,
		EmployeeID:       r.EmployeeID,
		Employee:         r.Employee,
		Month:            string(r.Period.Month),
		Year:             r.Period.Year,
		Currency:         r.Currency,
		BasicSalary:      r.BasicSalary,
		Allowances:       r.Allowances,
		Attendance:       r.Attendance,
		AdditionalPerks:  r.AdditionalPerks,
		EPFContributions: r.EPFContributions,
		Deductions:       r.Deductions,
		GrossSalary:      r.GrossSalary,
		NetPayableSalary: r.NetPayableSalary,
		Status:           string(r.Status),
		Warnings:         warnings,
		CreatedAt:        formatTime(r.CreatedAt),
		UpdatedAt:        formatTime(r.UpdatedAt),
	}
	if r.ApprovedAt != nil {
		resp.ApprovedAt = formatTime(*r.ApprovedAt)
	}
	if r.PaidAt != nil {
		resp.PaidAt = formatTime(*r.PaidAt)
	}
	return resp
}

func formatTime(t time.Time) *string {
	if t.IsZero() {
		return nil
	}
	s := t.Format(time.RFC3339)
	return &s
}
