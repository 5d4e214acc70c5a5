package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/hospital-hr-backend/internal/domain/payroll"
	"github.com/cmlabs-hris/hospital-hr-backend/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type attendanceRepositoryImpl struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) payroll.AttendanceRepository {
	return &attendanceRepositoryImpl{db: db}
}

// GetAttendanceFacts implements payroll.AttendanceRepository.
func (a *attendanceRepositoryImpl) GetAttendanceFacts(ctx context.Context, employeeID string, period payroll.Period) (payroll.AttendanceFacts, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		SELECT working_days, leave_allowed, leave_taken, excess_leave_days, no_pay_leave, overtime_hours
		FROM attendance_summaries
		WHERE employee_id = $1 AND period_month = $2 AND period_year = $3
	`

	var f payroll.AttendanceFacts
	err := q.QueryRow(ctx, query, employeeID, period.Month.Number(), period.Year).Scan(
		&f.WorkingDays, &f.LeaveAllowed, &f.LeaveTaken, &f.ExcessLeaveDays, &f.NoPayLeave, &f.OvertimeHours,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.AttendanceFacts{}, payroll.ErrAttendanceNotFound
		}
		return payroll.AttendanceFacts{}, fmt.Errorf("failed to get attendance facts for employee %s (%s): %w", employeeID, period, err)
	}

	return f, nil
}
