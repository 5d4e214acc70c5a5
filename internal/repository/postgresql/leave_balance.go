package postgresql

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/hospital-hr-backend/internal/domain/employee"
	"github.com/cmlabs-hris/hospital-hr-backend/internal/domain/leave"
	"github.com/cmlabs-hris/hospital-hr-backend/internal/pkg/database"
)

type leaveBalanceRepositoryImpl struct {
	db *database.DB
}

func NewLeaveBalanceRepository(db *database.DB) leave.BalanceRepository {
	return &leaveBalanceRepositoryImpl{db: db}
}

// GetSnapshot implements leave.BalanceRepository. Types without a row are left out of
// the map and read as zero.
func (l *leaveBalanceRepositoryImpl) GetSnapshot(ctx context.Context, employeeID string) (leave.BalanceSnapshot, error) {
	q := GetQuerier(ctx, l.db)

	var exists bool
	if err := q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM employees WHERE id = $1)`, employeeID).Scan(&exists); err != nil {
		return leave.BalanceSnapshot{}, fmt.Errorf("failed to check employee: %w", err)
	}
	if !exists {
		return leave.BalanceSnapshot{}, employee.ErrEmployeeNotFound
	}

	rows, err := q.Query(ctx, `
		SELECT leave_type, balance_days
		FROM leave_balances
		WHERE employee_id = $1
	`, employeeID)
	if err != nil {
		return leave.BalanceSnapshot{}, fmt.Errorf("failed to get leave balances: %w", err)
	}
	defer rows.Close()

	snapshot := leave.BalanceSnapshot{
		EmployeeID: employeeID,
		Balances:   make(map[leave.LeaveType]int),
	}
	for rows.Next() {
		var (
			leaveType string
			days      int
		)
		if err := rows.Scan(&leaveType, &days); err != nil {
			return leave.BalanceSnapshot{}, fmt.Errorf("failed to scan leave balance: %w", err)
		}
		snapshot.Balances[leave.LeaveType(leaveType)] = days
	}
	if err := rows.Err(); err != nil {
		return leave.BalanceSnapshot{}, fmt.Errorf("failed to iterate leave balances: %w", err)
	}

	return snapshot, nil
}
