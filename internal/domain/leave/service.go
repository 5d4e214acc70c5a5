package leave

import (
	"context"
	"time"
)

// Ledger evaluates leave requests against a balance snapshot without mutating it.
type Ledger interface {
	DaysRequested(start, end time.Time) (int, error)
	Evaluate(snapshot BalanceSnapshot, req LeaveRequest) (Evaluation, error)
}

type LeaveService interface {
	GetBalance(ctx context.Context, employeeID string) (BalanceResponse, error)
	Evaluate(ctx context.Context, req EvaluateLeaveRequest) (EvaluationResponse, error)
	Submit(ctx context.Context, req SubmitLeaveRequest) (SubmitLeaveResponse, error)
}
