package payroll

import (
	"context"

	"github.com/cmlabs-hris/hospital-hr-backend/internal/domain/employee"
)

// Calculator derives salary records from pay inputs. Implementations are pure.
type Calculator interface {
	ComputeDraft(profile employee.PayProfile, attendance AttendanceFacts, period Period) (SalaryRecord, error)
	Finalize(draft SalaryRecord, adjustments ManualAdjustments) (SalaryRecord, error)
}

type PayrollService interface {
	Calculate(ctx context.Context, req CalculateSalaryRequest) (SalaryRecordResponse, error)
	Preview(ctx context.Context, req FinalizeSalaryRequest) (SalaryRecordResponse, error)
	Create(ctx context.Context, req FinalizeSalaryRequest) (SalaryRecordResponse, error)
	Get(ctx context.Context, id string) (SalaryRecordResponse, error)
	List(ctx context.Context, filter SalaryFilter) (ListSalaryRecordResponse, error)
	Approve(ctx context.Context, id string) (SalaryRecordResponse, error)
	MarkPaid(ctx context.Context, id string) (SalaryRecordResponse, error)
	Delete(ctx context.Context, id string) error
}
