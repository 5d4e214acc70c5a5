package leave

import (
	"slices"
	"time"
)

// LeaveType is one of the closed set of leave categories.
type LeaveType string

const (
	LeaveTypeSick      LeaveType = "sick"
	LeaveTypeAnnual    LeaveType = "annual"
	LeaveTypePersonal  LeaveType = "personal"
	LeaveTypeEmergency LeaveType = "emergency"
	LeaveTypeMaternity LeaveType = "maternity"
	LeaveTypePaternity LeaveType = "paternity"
)

var leaveTypes = []LeaveType{
	LeaveTypeSick, LeaveTypeAnnual, LeaveTypePersonal,
	LeaveTypeEmergency, LeaveTypeMaternity, LeaveTypePaternity,
}

func (t LeaveType) IsValid() bool {
	return slices.Contains(leaveTypes, t)
}

// LeaveTypes returns the closed set in display order.
func LeaveTypes() []LeaveType {
	return slices.Clone(leaveTypes)
}

// BalanceSnapshot - Remaining whole-day balance per leave type, owned by leave accounting
type BalanceSnapshot struct {
	EmployeeID string
	Balances   map[LeaveType]int
}

// Available returns the balance for t. A known type without an entry has zero days.
func (s BalanceSnapshot) Available(t LeaveType) int {
	return s.Balances[t]
}

type LeaveRequestStatus string

const (
	LeaveRequestStatusPending LeaveRequestStatus = "pending"
)

// LeaveRequest entity
type LeaveRequest struct {
	ID         string
	EmployeeID string
	Type       LeaveType

	StartDate time.Time
	EndDate   time.Time

	DaysRequested int

	Reason           string
	EmergencyContact *string
	Location         *string

	// Set when the request was submitted with an insufficient balance after confirmation
	ExceedsBalance bool

	Status    LeaveRequestStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Evaluation is the advisory outcome of checking a request against a balance.
type Evaluation struct {
	DaysRequested    int  `json:"days_requested"`
	AvailableBalance int  `json:"available_balance"`
	RemainingAfter   int  `json:"remaining_after"`
	Sufficient       bool `json:"sufficient"`
}
