package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/hospital-hr-backend/internal/domain/employee"
	"github.com/cmlabs-hris/hospital-hr-backend/internal/domain/leave"
	"github.com/cmlabs-hris/hospital-hr-backend/internal/pkg/database"
	"github.com/jackc/pgx/v5/pgconn"
)

const foreignKeyViolation = "23503"

type leaveRequestRepositoryImpl struct {
	db *database.DB
}

func NewLeaveRequestRepository(db *database.DB) leave.LeaveRequestRepository {
	return &leaveRequestRepositoryImpl{db: db}
}

// Create implements leave.LeaveRequestRepository.
func (l *leaveRequestRepositoryImpl) Create(ctx context.Context, req leave.LeaveRequest) (leave.LeaveRequest, error) {
	q := GetQuerier(ctx, l.db)

	query := `
		INSERT INTO leave_requests (
			id, employee_id, leave_type, start_date, end_date, days_requested,
			reason, emergency_contact, location, exceeds_balance, status, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id, employee_id, leave_type, start_date, end_date, days_requested,
			reason, emergency_contact, location, exceeds_balance, status, created_at, updated_at
	`

	var created leave.LeaveRequest
	err := q.QueryRow(ctx, query,
		req.ID, req.EmployeeID, string(req.Type), req.StartDate, req.EndDate, req.DaysRequested,
		req.Reason, req.EmergencyContact, req.Location, req.ExceedsBalance, string(req.Status), req.CreatedAt, req.UpdatedAt,
	).Scan(
		&created.ID, &created.EmployeeID, &created.Type, &created.StartDate, &created.EndDate, &created.DaysRequested,
		&created.Reason, &created.EmergencyContact, &created.Location, &created.ExceedsBalance, &created.Status,
		&created.CreatedAt, &created.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == foreignKeyViolation {
			return leave.LeaveRequest{}, employee.ErrEmployeeNotFound
		}
		return leave.LeaveRequest{}, fmt.Errorf("failed to create leave request: %w", err)
	}

	return created, nil
}
