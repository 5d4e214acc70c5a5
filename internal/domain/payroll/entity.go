package payroll

import (
	"fmt"
	"slices"
	"time"

	"github.com/shopspring/decimal"
)

// Month is one of the twelve canonical English month names.
type Month string

const (
	MonthJanuary   Month = "January"
	MonthFebruary  Month = "February"
	MonthMarch     Month = "March"
	MonthApril     Month = "April"
	MonthMay       Month = "May"
	MonthJune      Month = "June"
	MonthJuly      Month = "July"
	MonthAugust    Month = "August"
	MonthSeptember Month = "September"
	MonthOctober   Month = "October"
	MonthNovember  Month = "November"
	MonthDecember  Month = "December"
)

var months = []Month{
	MonthJanuary, MonthFebruary, MonthMarch, MonthApril, MonthMay, MonthJune,
	MonthJuly, MonthAugust, MonthSeptember, MonthOctober, MonthNovember, MonthDecember,
}

func (m Month) IsValid() bool {
	return slices.Contains(months, m)
}

// Number returns 1 for January through 12 for December, or 0 for an unknown name.
func (m Month) Number() int {
	return slices.Index(months, m) + 1
}

func MonthFromNumber(n int) (Month, bool) {
	if n < 1 || n > 12 {
		return "", false
	}
	return months[n-1], true
}

const (
	MinYear = 1000
	MaxYear = 9999
)

// Period identifies the month a salary record is paid for.
type Period struct {
	Month Month `json:"month"`
	Year  int   `json:"year"`
}

func (p Period) Validate() error {
	if !p.Month.IsValid() {
		return fmt.Errorf("%w: month %q is not a canonical month name", ErrInvalidInput, p.Month)
	}
	if p.Year < MinYear || p.Year > MaxYear {
		return fmt.Errorf("%w: year %d is not a 4-digit year", ErrInvalidInput, p.Year)
	}
	return nil
}

func (p Period) String() string {
	return fmt.Sprintf("%s %d", p.Month, p.Year)
}

// SalaryStatus enum
type SalaryStatus string

const (
	SalaryStatusDraft    SalaryStatus = "draft"
	SalaryStatusApproved SalaryStatus = "approved"
	SalaryStatusPaid     SalaryStatus = "paid"
)

const WarningNegativeNet = "negative_net"

// Statutory contribution percentages, applied to basic salary only.
var (
	EPFEmployeePercentage = decimal.NewFromInt(8)
	EPFEmployerPercentage = decimal.NewFromInt(12)
	ETFPercentage         = decimal.NewFromInt(3)
)

// Rates are the configured unit prices for overtime and no-pay days.
type Rates struct {
	OvertimeHourlyRate decimal.Decimal
	NoPayDailyRate     decimal.Decimal
}

func (r Rates) Validate() error {
	if r.OvertimeHourlyRate.IsNegative() {
		return fmt.Errorf("%w: overtime hourly rate must be non-negative", ErrInvalidInput)
	}
	if r.NoPayDailyRate.IsNegative() {
		return fmt.Errorf("%w: no-pay daily rate must be non-negative", ErrInvalidInput)
	}
	return nil
}

// AttendanceFacts - Per employee, per period aggregate from the attendance subsystem
type AttendanceFacts struct {
	WorkingDays     int             `json:"working_days"`
	LeaveAllowed    int             `json:"leave_allowed"`
	LeaveTaken      int             `json:"leave_taken"`
	ExcessLeaveDays int             `json:"excess_leave_days"`
	NoPayLeave      int             `json:"no_pay_leave"`
	OvertimeHours   decimal.Decimal `json:"overtime_hours"`
}

// ManualAdjustments - Operator supplied amounts folded in by Finalize
type ManualAdjustments struct {
	SalaryAdvance  decimal.Decimal `json:"salary_advance"`
	Bonus          decimal.Decimal `json:"bonus"`
	Reimbursements decimal.Decimal `json:"reimbursements"`
	APIT           decimal.Decimal `json:"apit"`
}

type EmployeeInfo struct {
	Name         string `json:"name"`
	EmployeeCode string `json:"employee_code"`
	Designation  string `json:"designation"`
	EPFNumber    string `json:"epf_number"`
}

type Allowances struct {
	CostOfLiving decimal.Decimal `json:"cost_of_living"`
	Food         decimal.Decimal `json:"food"`
	Conveyance   decimal.Decimal `json:"conveyance"`
	Medical      decimal.Decimal `json:"medical"`
	Total        decimal.Decimal `json:"total"`
}

type AdditionalPerks struct {
	Overtime       decimal.Decimal `json:"overtime"`
	Bonus          decimal.Decimal `json:"bonus"`
	Reimbursements decimal.Decimal `json:"reimbursements"`
}

type Contribution struct {
	Percentage decimal.Decimal `json:"percentage"`
	Amount     decimal.Decimal `json:"amount"`
}

type EPFContributions struct {
	EPFEmployee Contribution `json:"epf_employee"`
	EPFEmployer Contribution `json:"epf_employer"`
	ETF         Contribution `json:"etf"`
}

type Deductions struct {
	EPFEmployee        decimal.Decimal `json:"epf_employee"`
	NoPayDaysDeduction decimal.Decimal `json:"no_pay_days_deduction"`
	SalaryAdvance      decimal.Decimal `json:"salary_advance"`
	APIT               decimal.Decimal `json:"apit"`
	Total              decimal.Decimal `json:"total"`
}

// SalaryRecord - Itemised salary computed for one employee and period
type SalaryRecord struct {
	ID               string
	EmployeeID       string
	Employee         EmployeeInfo
	Period           Period
	Currency         string
	BasicSalary      decimal.Decimal
	Allowances       Allowances
	Attendance       AttendanceFacts
	AdditionalPerks  AdditionalPerks
	EPFContributions EPFContributions
	Deductions       Deductions
	GrossSalary      decimal.Decimal
	NetPayableSalary decimal.Decimal
	Status           SalaryStatus
	Warnings         []string
	CreatedAt        time.Time
	UpdatedAt        time.Time
	ApprovedAt       *time.Time
	PaidAt           *time.Time
}

func (r SalaryRecord) HasWarning(w string) bool {
	return slices.Contains(r.Warnings, w)
}
