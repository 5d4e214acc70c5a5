package leave

import (
	"time"

	"github.com/cmlabs-hris/hospital-hr-backend/internal/pkg/validator"
)

type EvaluateLeaveRequest struct {
	EmployeeID string `json:"-"`
	LeaveType  string `json:"leave_type"`
	StartDate  string `json:"start_date"`
	EndDate    string `json:"end_date"`

	startDate time.Time
	endDate   time.Time
}

// Dates returns the parsed start and end dates. Only valid after Validate succeeds.
func (r *EvaluateLeaveRequest) Dates() (time.Time, time.Time) {
	return r.startDate, r.endDate
}

func (r *EvaluateLeaveRequest) Validate() error {
	errs := r.validate()

	if len(errs) > 0 {
		return errs
	}

	return nil
}

func (r *EvaluateLeaveRequest) validate() validator.ValidationErrors {
	var errs validator.ValidationErrors

	// Employee ID
	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id is required",
		})
	}

	// Leave type, membership in the closed set is checked by the ledger
	if validator.IsEmpty(r.LeaveType) {
		errs = append(errs, validator.ValidationError{
			Field:   "leave_type",
			Message: "leave_type is required",
		})
	}

	// Dates
	if start, ok := validator.IsValidDate(r.StartDate); ok {
		r.startDate = start
	} else {
		errs = append(errs, validator.ValidationError{
			Field:   "start_date",
			Message: "start_date must be in YYYY-MM-DD format",
		})
	}
	if end, ok := validator.IsValidDate(r.EndDate); ok {
		r.endDate = end
	} else {
		errs = append(errs, validator.ValidationError{
			Field:   "end_date",
			Message: "end_date must be in YYYY-MM-DD format",
		})
	}

	return errs
}

type SubmitLeaveRequest struct {
	EvaluateLeaveRequest
	Reason                     string  `json:"reason"`
	EmergencyContact           *string `json:"emergency_contact,omitempty"`
	Location                   *string `json:"location,omitempty"`
	ConfirmInsufficientBalance bool    `json:"confirm_insufficient_balance"`
}

func (r *SubmitLeaveRequest) Validate() error {
	errs := r.EvaluateLeaveRequest.validate()

	// Reason
	if validator.IsEmpty(r.Reason) {
		errs = append(errs, validator.ValidationError{
			Field:   "reason",
			Message: "reason is required",
		})
	}
	if len(r.Reason) > 1000 {
		errs = append(errs, validator.ValidationError{
			Field:   "reason",
			Message: "reason must not exceed 1000 characters",
		})
	}

	if r.EmergencyContact != nil && len(*r.EmergencyContact) > 255 {
		errs = append(errs, validator.ValidationError{
			Field:   "emergency_contact",
			Message: "emergency_contact must not exceed 255 characters",
		})
	}
	if r.Location != nil && len(*r.Location) > 255 {
		errs = append(errs, validator.ValidationError{
			Field:   "location",
			Message: "location must not exceed 255 characters",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type BalanceResponse struct {
	EmployeeID string         `json:"employee_id"`
	Balances   map[string]int `json:"balances"`
}

type EvaluationResponse struct {
	LeaveType string `json:"leave_type"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Evaluation
}

type SubmitLeaveResponse struct {
	ID         string             `json:"id"`
	Status     string             `json:"status"`
	Evaluation EvaluationResponse `json:"evaluation"`
}
