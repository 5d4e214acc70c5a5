package response

import (
	"errors"
	"net/http"

	"github.com/cmlabs-hris/hospital-hr-backend/internal/domain/employee"
	"github.com/cmlabs-hris/hospital-hr-backend/internal/domain/leave"
	"github.com/cmlabs-hris/hospital-hr-backend/internal/domain/payroll"
	"github.com/cmlabs-hris/hospital-hr-backend/internal/domain/user"
	"github.com/cmlabs-hris/hospital-hr-backend/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Auth errors
	case errors.Is(err, user.ErrInvalidToken):
		Unauthorized(w, "Invalid or expired token")
	case errors.Is(err, user.ErrInsufficientPermissions):
		Forbidden(w, "Insufficient permissions")
	case errors.Is(err, user.ErrEmployeeIDClaimMissing):
		Forbidden(w, "Token is not linked to an employee")

	// Employee domain errors
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")

	// Payroll domain errors
	case errors.Is(err, payroll.ErrInvalidInput):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, payroll.ErrSalaryRecordNotFound):
		NotFound(w, "Salary record not found")
	case errors.Is(err, payroll.ErrAttendanceNotFound):
		NotFound(w, "Attendance summary not found for the period")
	case errors.Is(err, payroll.ErrSalaryRecordExists):
		Conflict(w, "Salary record already exists for this employee and period")
	case errors.Is(err, payroll.ErrIllegalStatusTransition):
		Conflict(w, err.Error())

	// Leave domain errors
	case errors.Is(err, leave.ErrInvalidInput),
		errors.Is(err, leave.ErrInvalidRange),
		errors.Is(err, leave.ErrUnknownLeaveType):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, leave.ErrBalanceConfirmationRequired):
		Conflict(w, err.Error())

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
