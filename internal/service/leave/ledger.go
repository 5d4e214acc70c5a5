package leave

import (
	"fmt"
	"time"

	"github.com/cmlabs-hris/hospital-hr-backend/internal/domain/leave"
	"github.com/cmlabs-hris/hospital-hr-backend/internal/pkg/utils"
)

// BalanceLedger checks leave requests against a balance snapshot. It never mutates the
// snapshot and is safe for concurrent use.
type BalanceLedger struct{}

func NewBalanceLedger() *BalanceLedger {
	return &BalanceLedger{}
}

// DaysRequested counts calendar days from start to end inclusive. Time of day and zone
// are ignored, and weekends and holidays are counted like any other day.
func (l *BalanceLedger) DaysRequested(start, end time.Time) (int, error) {
	days := utils.DaysBetween(start, end)
	if days < 0 {
		return 0, fmt.Errorf("%w: %s to %s",
			leave.ErrInvalidRange,
			utils.CalendarDate(start).Format(utils.DateLayout),
			utils.CalendarDate(end).Format(utils.DateLayout),
		)
	}
	return days + 1, nil
}

// Evaluate reports how the request would affect the balance of its leave type.
// An insufficient balance is reported through Sufficient, not as an error.
func (l *BalanceLedger) Evaluate(snapshot leave.BalanceSnapshot, req leave.LeaveRequest) (leave.Evaluation, error) {
	if !req.Type.IsValid() {
		return leave.Evaluation{}, fmt.Errorf("%w: %q", leave.ErrUnknownLeaveType, req.Type)
	}

	days, err := l.DaysRequested(req.StartDate, req.EndDate)
	if err != nil {
		return leave.Evaluation{}, err
	}

	available := snapshot.Available(req.Type)
	remaining := available - days

	return leave.Evaluation{
		DaysRequested:    days,
		AvailableBalance: available,
		RemainingAfter:   remaining,
		Sufficient:       remaining >= 0,
	}, nil
}
