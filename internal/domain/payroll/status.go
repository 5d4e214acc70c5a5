package payroll

import "fmt"

func (s SalaryStatus) IsValid() bool {
	switch s {
	case SalaryStatusDraft, SalaryStatusApproved, SalaryStatusPaid:
		return true
	}
	return false
}

// CanApprove allows draft -> approved only.
func (s SalaryStatus) CanApprove() error {
	if s != SalaryStatusDraft {
		return illegalTransition(s, "approve")
	}
	return nil
}

// CanPay allows approved -> paid only.
func (s SalaryStatus) CanPay() error {
	if s != SalaryStatusApproved {
		return illegalTransition(s, "pay")
	}
	return nil
}

// CanDelete allows removal of draft records only. Approved and paid records are immutable.
func (s SalaryStatus) CanDelete() error {
	if s != SalaryStatusDraft {
		return illegalTransition(s, "delete")
	}
	return nil
}

func illegalTransition(from SalaryStatus, action string) error {
	return fmt.Errorf("%w: cannot %s a %s salary record", ErrIllegalStatusTransition, action, from)
}
