package leave

import "context"

// BalanceRepository reads snapshots from the leave-accounting store. It never writes balances.
type BalanceRepository interface {
	GetSnapshot(ctx context.Context, employeeID string) (BalanceSnapshot, error)
}

type LeaveRequestRepository interface {
	Create(ctx context.Context, req LeaveRequest) (LeaveRequest, error)
}
