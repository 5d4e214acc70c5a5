package payroll

import "errors"

var (
	ErrInvalidInput            = errors.New("invalid payroll input")
	ErrIllegalStatusTransition = errors.New("illegal salary status transition")
	ErrSalaryRecordNotFound    = errors.New("salary record not found")
	ErrSalaryRecordExists      = errors.New("salary record already exists for this period")
	ErrAttendanceNotFound      = errors.New("attendance facts not found for this period")
)
