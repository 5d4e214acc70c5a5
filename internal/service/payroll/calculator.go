package payroll

import (
	"fmt"
	"slices"

	"github.com/cmlabs-hris/hospital-hr-backend/internal/domain/employee"
	"github.com/cmlabs-hris/hospital-hr-backend/internal/domain/payroll"
	"github.com/cmlabs-hris/hospital-hr-backend/internal/pkg/utils"
	"github.com/shopspring/decimal"
)

// Calculator derives salary records. It holds no mutable state and is safe for concurrent use.
type Calculator struct {
	rates payroll.Rates
}

func NewCalculator(rates payroll.Rates) (*Calculator, error) {
	if err := rates.Validate(); err != nil {
		return nil, err
	}
	return &Calculator{rates: rates}, nil
}

// ComputeDraft builds a draft salary record from the employee's pay profile and the
// attendance facts of the period. Manual adjustments are zero until Finalize.
func (c *Calculator) ComputeDraft(profile employee.PayProfile, attendance payroll.AttendanceFacts, period payroll.Period) (payroll.SalaryRecord, error) {
	if err := validateDraftInput(profile, attendance, period); err != nil {
		return payroll.SalaryRecord{}, err
	}

	currency := profile.Currency
	if currency == "" {
		currency = employee.DefaultCurrency
	}

	record := payroll.SalaryRecord{
		EmployeeID: profile.ID,
		Employee: payroll.EmployeeInfo{
			Name:         profile.Name,
			EmployeeCode: profile.EmployeeCode,
			Designation:  profile.Designation,
			EPFNumber:    profile.EPFNumber,
		},
		Period:      period,
		Currency:    currency,
		BasicSalary: profile.BasicSalary,
		Allowances: payroll.Allowances{
			CostOfLiving: profile.Allowances.CostOfLiving,
			Food:         profile.Allowances.Food,
			Conveyance:   profile.Allowances.Conveyance,
			Medical:      profile.Allowances.Medical,
		},
		Attendance: attendance,
		AdditionalPerks: payroll.AdditionalPerks{
			Overtime:       attendance.OvertimeHours.Mul(c.rates.OvertimeHourlyRate),
			Bonus:          decimal.Zero,
			Reimbursements: decimal.Zero,
		},
		Deductions: payroll.Deductions{
			NoPayDaysDeduction: decimal.NewFromInt(int64(attendance.NoPayLeave)).Mul(c.rates.NoPayDailyRate),
			SalaryAdvance:      decimal.Zero,
			APIT:               decimal.Zero,
		},
		Status: payroll.SalaryStatusDraft,
	}

	return applyTotals(record), nil
}

// Finalize sets the manual adjustments on a draft and recomputes every total from its
// components. Adjustments replace previous values, so applying the same adjustments
// again yields the same record.
func (c *Calculator) Finalize(draft payroll.SalaryRecord, adjustments payroll.ManualAdjustments) (payroll.SalaryRecord, error) {
	if draft.Status != payroll.SalaryStatusDraft {
		return payroll.SalaryRecord{}, fmt.Errorf("%w: cannot finalize a %s salary record", payroll.ErrIllegalStatusTransition, draft.Status)
	}
	if err := validateAdjustments(adjustments); err != nil {
		return payroll.SalaryRecord{}, err
	}

	record := draft
	record.AdditionalPerks.Bonus = adjustments.Bonus
	record.AdditionalPerks.Reimbursements = adjustments.Reimbursements
	record.Deductions.SalaryAdvance = adjustments.SalaryAdvance
	record.Deductions.APIT = adjustments.APIT

	return applyTotals(record), nil
}

// statutoryContributions rounds each share independently, from basic salary only.
func statutoryContributions(basic decimal.Decimal) payroll.EPFContributions {
	return payroll.EPFContributions{
		EPFEmployee: payroll.Contribution{
			Percentage: payroll.EPFEmployeePercentage,
			Amount:     utils.RoundedPercentOf(basic, payroll.EPFEmployeePercentage),
		},
		EPFEmployer: payroll.Contribution{
			Percentage: payroll.EPFEmployerPercentage,
			Amount:     utils.RoundedPercentOf(basic, payroll.EPFEmployerPercentage),
		},
		ETF: payroll.Contribution{
			Percentage: payroll.ETFPercentage,
			Amount:     utils.RoundedPercentOf(basic, payroll.ETFPercentage),
		},
	}
}

// applyTotals recomputes statutory contributions, allowance total, deduction total,
// gross, net and the negative-net warning. Derived values already on the record are discarded.
func applyTotals(r payroll.SalaryRecord) payroll.SalaryRecord {
	r.EPFContributions = statutoryContributions(r.BasicSalary)

	r.Allowances.Total = utils.SumDecimals(
		r.Allowances.CostOfLiving,
		r.Allowances.Food,
		r.Allowances.Conveyance,
		r.Allowances.Medical,
	)

	r.Deductions.EPFEmployee = r.EPFContributions.EPFEmployee.Amount
	r.Deductions.Total = utils.SumDecimals(
		r.Deductions.EPFEmployee,
		r.Deductions.NoPayDaysDeduction,
		r.Deductions.SalaryAdvance,
		r.Deductions.APIT,
	)

	r.GrossSalary = utils.SumDecimals(
		r.BasicSalary,
		r.Allowances.Total,
		r.AdditionalPerks.Overtime,
		r.AdditionalPerks.Bonus,
		r.AdditionalPerks.Reimbursements,
	)
	r.NetPayableSalary = r.GrossSalary.Sub(r.Deductions.Total)

	warnings := slices.DeleteFunc(slices.Clone(r.Warnings), func(w string) bool {
		return w == payroll.WarningNegativeNet
	})
	if r.NetPayableSalary.IsNegative() {
		warnings = append(warnings, payroll.WarningNegativeNet)
	}
	if len(warnings) == 0 {
		warnings = nil
	}
	r.Warnings = warnings

	return r
}

func validateDraftInput(profile employee.PayProfile, attendance payroll.AttendanceFacts, period payroll.Period) error {
	if profile.ID == "" {
		return fmt.Errorf("%w: employee is required", payroll.ErrInvalidInput)
	}
	if err := period.Validate(); err != nil {
		return err
	}
	if profile.BasicSalary.IsNegative() {
		return fmt.Errorf("%w: basic salary must be non-negative", payroll.ErrInvalidInput)
	}
	if profile.Allowances.HasNegative() {
		return fmt.Errorf("%w: allowances must be non-negative", payroll.ErrInvalidInput)
	}

	counts := []struct {
		name  string
		value int
	}{
		{"working days", attendance.WorkingDays},
		{"leave allowed", attendance.LeaveAllowed},
		{"leave taken", attendance.LeaveTaken},
		{"excess leave days", attendance.ExcessLeaveDays},
		{"no-pay leave", attendance.NoPayLeave},
	}
	for _, c := range counts {
		if c.value < 0 {
			return fmt.Errorf("%w: %s must be non-negative", payroll.ErrInvalidInput, c.name)
		}
	}
	if attendance.OvertimeHours.IsNegative() {
		return fmt.Errorf("%w: overtime hours must be non-negative", payroll.ErrInvalidInput)
	}
	if attendance.LeaveTaken > attendance.WorkingDays {
		return fmt.Errorf("%w: leave taken (%d) exceeds working days (%d)", payroll.ErrInvalidInput, attendance.LeaveTaken, attendance.WorkingDays)
	}
	return nil
}

func validateAdjustments(adj payroll.ManualAdjustments) error {
	amounts := []struct {
		name  string
		value decimal.Decimal
	}{
		{"salary advance", adj.SalaryAdvance},
		{"bonus", adj.Bonus},
		{"reimbursements", adj.Reimbursements},
		{"apit", adj.APIT},
	}
	for _, a := range amounts {
		if a.value.IsNegative() {
			return fmt.Errorf("%w: %s must be non-negative", payroll.ErrInvalidInput, a.name)
		}
	}
	return nil
}
