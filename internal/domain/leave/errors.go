package leave

import "errors"

var (
	ErrInvalidInput                = errors.New("invalid leave request")
	ErrInvalidRange                = errors.New("end date is before start date")
	ErrUnknownLeaveType            = errors.New("unknown leave type")
	ErrBalanceConfirmationRequired = errors.New("insufficient leave balance, confirmation required to submit for manager approval")
)
