package payroll

import (
	"context"
	"time"
)

// SalaryRecordRepository persists salary records. Status-changing methods are
// expected to run inside a transaction that first called GetByIDForUpdate.
type SalaryRecordRepository interface {
	Create(ctx context.Context, record SalaryRecord) (SalaryRecord, error)
	GetByID(ctx context.Context, id string) (SalaryRecord, error)
	GetByIDForUpdate(ctx context.Context, id string) (SalaryRecord, error)
	ExistsForEmployeePeriod(ctx context.Context, employeeID string, period Period) (bool, error)
	List(ctx context.Context, filter SalaryFilter) ([]SalaryRecord, int64, error)
	UpdateStatus(ctx context.Context, id string, status SalaryStatus, at time.Time) error
	Delete(ctx context.Context, id string) error
}

// AttendanceRepository reads the period aggregate produced by the attendance subsystem.
type AttendanceRepository interface {
	GetAttendanceFacts(ctx context.Context, employeeID string, period Period) (AttendanceFacts, error)
}
