package payroll

import (
	"strings"

	"github.com/cmlabs-hris/hospital-hr-backend/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// ========== CALCULATION DTOs ==========

type CalculateSalaryRequest struct {
	EmployeeID string `json:"employee_id"`
	Month      string `json:"month"`
	Year       int    `json:"year"`
}

func (r *CalculateSalaryRequest) Period() Period {
	return Period{Month: Month(r.Month), Year: r.Year}
}

func (r *CalculateSalaryRequest) Validate() error {
	errs := r.validate()

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func (r *CalculateSalaryRequest) validate() validator.ValidationErrors {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{Field: "employee_id", Message: "is required"})
	} else if !validator.IsValidUUID(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{Field: "employee_id", Message: "must be a valid UUID"})
	}
	if !Month(r.Month).IsValid() {
		errs = append(errs, validator.ValidationError{Field: "month", Message: "must be a month name from January to December"})
	}
	if r.Year < MinYear || r.Year > MaxYear {
		errs = append(errs, validator.ValidationError{Field: "year", Message: "must be a 4-digit year"})
	}
	return errs
}

// FinalizeSalaryRequest carries the manual adjustments for preview and create.
// Totals are always recomputed server side and never read from the client.
type FinalizeSalaryRequest struct {
	CalculateSalaryRequest
	ManualAdjustments ManualAdjustments `json:"manual_adjustments"`
}

func (r *FinalizeSalaryRequest) Validate() error {
	errs := r.CalculateSalaryRequest.validate()

	adj := r.ManualAdjustments
	amounts := []struct {
		field  string
		amount decimal.Decimal
	}{
		{"manual_adjustments.salary_advance", adj.SalaryAdvance},
		{"manual_adjustments.bonus", adj.Bonus},
		{"manual_adjustments.reimbursements", adj.Reimbursements},
		{"manual_adjustments.apit", adj.APIT},
	}
	for _, a := range amounts {
		if !validator.IsNonNegativeAmount(a.amount) {
			errs = append(errs, validator.ValidationError{Field: a.field, Message: "must be non-negative"})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ========== SALARY RECORD DTOs ==========

type SalaryRecordResponse struct {
	ID               string           `json:"id,omitempty"`
	EmployeeID       string           `json:"employee_id"`
	Employee         EmployeeInfo     `json:"employee"`
	Month            string           `json:"month"`
	Year             int              `json:"year"`
	Currency         string           `json:"currency"`
	BasicSalary      decimal.Decimal  `json:"basic_salary"`
	Allowances       Allowances       `json:"allowances"`
	Attendance       AttendanceFacts  `json:"attendance"`
	AdditionalPerks  AdditionalPerks  `json:"additional_perks"`
	EPFContributions EPFContributions `json:"epf_contributions"`
	Deductions       Deductions       `json:"deductions"`
	GrossSalary      decimal.Decimal  `json:"gross_salary"`
	NetPayableSalary decimal.Decimal  `json:"net_payable_salary"`
	Status           string           `json:"status"`
	Warnings         []string         `json:"warnings"`
	CreatedAt        *string          `json:"created_at,omitempty"`
	UpdatedAt        *string          `json:"updated_at,omitempty"`
	ApprovedAt       *string          `json:"approved_at,omitempty"`
	PaidAt           *string          `json:"paid_at,omitempty"`
}

// SalarySortColumns are the accepted sort_by values for salary record lists.
var SalarySortColumns = []string{"created_at", "period", "employee_name", "net_payable_salary"}

type SalaryFilter struct {
	Status    *string `json:"status,omitempty"`
	Search    *string `json:"search,omitempty"`
	Month     *string `json:"month,omitempty"`
	Year      *int    `json:"year,omitempty"`
	Page      int     `json:"page"`
	Limit     int     `json:"limit"`
	SortBy    string  `json:"sort_by"`
	SortOrder string  `json:"sort_order"`
}

func (f *SalaryFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.Status != nil && !SalaryStatus(*f.Status).IsValid() {
		errs = append(errs, validator.ValidationError{Field: "status", Message: "must be one of draft, approved, paid"})
	}
	if f.Month != nil && !Month(*f.Month).IsValid() {
		errs = append(errs, validator.ValidationError{Field: "month", Message: "must be a month name from January to December"})
	}
	if f.Year != nil && (*f.Year < MinYear || *f.Year > MaxYear) {
		errs = append(errs, validator.ValidationError{Field: "year", Message: "must be a 4-digit year"})
	}
	if f.Search != nil {
		trimmed := strings.TrimSpace(*f.Search)
		if trimmed == "" {
			f.Search = nil
		} else {
			f.Search = &trimmed
		}
	}
	if f.SortBy != "" && !validator.IsInSlice(f.SortBy, SalarySortColumns) {
		errs = append(errs, validator.ValidationError{Field: "sort_by", Message: "must be one of " + strings.Join(SalarySortColumns, ", ")})
	}
	if f.SortOrder != "" && f.SortOrder != "asc" && f.SortOrder != "desc" {
		errs = append(errs, validator.ValidationError{Field: "sort_order", Message: "must be asc or desc"})
	}
	if f.Page < 0 {
		errs = append(errs, validator.ValidationError{Field: "page", Message: "must be non-negative"})
	}
	if f.Limit < 0 || f.Limit > 100 {
		errs = append(errs, validator.ValidationError{Field: "limit", Message: "must be between 0 and 100"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type ListSalaryRecordResponse struct {
	Data       []SalaryRecordResponse `json:"data"`
	TotalCount int64                  `json:"total_count"`
	Page       int                    `json:"page"`
	Limit      int                    `json:"limit"`
}
