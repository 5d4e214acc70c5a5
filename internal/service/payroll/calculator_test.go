package payroll

import (
	"encoding/json"
	"testing"

	"github.com/cmlabs-hris/hospital-hr-backend/internal/domain/employee"
	"github.com/cmlabs-hris/hospital-hr-backend/internal/domain/payroll"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func assertAmount(t *testing.T, want string, got decimal.Decimal, msgAndArgs ...interface{}) {
	t.Helper()
	assert.True(t, dec(want).Equal(got), append([]interface{}{"want %s, got %s", want, got.String()}, msgAndArgs...)...)
}

func newTestCalculator(t *testing.T) *Calculator {
	t.Helper()
	calc, err := NewCalculator(payroll.Rates{
		OvertimeHourlyRate: dec("500"),
		NoPayDailyRate:     dec("1000"),
	})
	require.NoError(t, err)
	return calc
}

func testProfile() employee.PayProfile {
	return employee.PayProfile{
		ID:           "0199a1b2-7c3d-7e4f-8a5b-6c7d8e9f0a1b",
		Name:         "Nimali Perera",
		EmployeeCode: "NUR-0042",
		Designation:  "Staff Nurse",
		EPFNumber:    "EPF/10042",
		BasicSalary:  dec("100000"),
		Allowances: employee.AllowanceSchedule{
			CostOfLiving: dec("5000"),
			Food:         dec("4000"),
			Conveyance:   dec("3000"),
			Medical:      dec("3000"),
		},
	}
}

func testAttendance() payroll.AttendanceFacts {
	return payroll.AttendanceFacts{
		WorkingDays:     22,
		LeaveAllowed:    2,
		LeaveTaken:      4,
		ExcessLeaveDays: 2,
		NoPayLeave:      2,
		OvertimeHours:   dec("10"),
	}
}

var testPeriod = payroll.Period{Month: payroll.MonthMarch, Year: 2025}

func TestCalculator_EndToEnd(t *testing.T) {
	calc := newTestCalculator(t)

	draft, err := calc.ComputeDraft(testProfile(), testAttendance(), testPeriod)
	require.NoError(t, err)

	assert.Equal(t, payroll.SalaryStatusDraft, draft.Status)
	assertAmount(t, "15000", draft.Allowances.Total)
	assertAmount(t, "5000", draft.AdditionalPerks.Overtime)
	assertAmount(t, "2000", draft.Deductions.NoPayDaysDeduction)
	assertAmount(t, "8000", draft.EPFContributions.EPFEmployee.Amount)
	assertAmount(t, "12000", draft.EPFContributions.EPFEmployer.Amount)
	assertAmount(t, "3000", draft.EPFContributions.ETF.Amount)
	assertAmount(t, "120000", draft.GrossSalary)
	assertAmount(t, "10000", draft.Deductions.Total)
	assertAmount(t, "110000", draft.NetPayableSalary)

	final, err := calc.Finalize(draft, payroll.ManualAdjustments{
		Bonus:          dec("3000"),
		Reimbursements: dec("1000"),
		SalaryAdvance:  dec("4000"),
		APIT:           dec("500"),
	})
	require.NoError(t, err)

	assertAmount(t, "8000", final.Deductions.EPFEmployee)
	assertAmount(t, "124000", final.GrossSalary)
	assertAmount(t, "14500", final.Deductions.Total)
	assertAmount(t, "109500", final.NetPayableSalary)
	assert.Empty(t, final.Warnings)
	assert.Equal(t, "Nimali Perera", final.Employee.Name)
	assert.Equal(t, "EPF/10042", final.Employee.EPFNumber)
	assert.Equal(t, employee.DefaultCurrency, final.Currency)
	assert.Equal(t, testAttendance().WorkingDays, final.Attendance.WorkingDays)
}

func TestCalculator_ComputeDraftIsDeterministic(t *testing.T) {
	calc := newTestCalculator(t)

	first, err := calc.ComputeDraft(testProfile(), testAttendance(), testPeriod)
	require.NoError(t, err)
	second, err := calc.ComputeDraft(testProfile(), testAttendance(), testPeriod)
	require.NoError(t, err)

	a, err := json.Marshal(first)
	require.NoError(t, err)
	b, err := json.Marshal(second)
	require.NoError(t, err)
	assert.Equal(t, string(a), string(b))
}

func TestCalculator_ContributionsRoundedIndependently(t *testing.T) {
	calc := newTestCalculator(t)

	tests := []struct {
		basic                   string
		employee, employer, etf string
	}{
		{"12345", "988", "1481", "370"},
		{"100000", "8000", "12000", "3000"},
		{"6.25", "1", "1", "0"},
		{"50", "4", "6", "2"},
		{"0", "0", "0", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.basic, func(t *testing.T) {
			profile := testProfile()
			profile.BasicSalary = dec(tt.basic)

			draft, err := calc.ComputeDraft(profile, payroll.AttendanceFacts{}, testPeriod)
			require.NoError(t, err)

			c := draft.EPFContributions
			assertAmount(t, tt.employee, c.EPFEmployee.Amount)
			assertAmount(t, tt.employer, c.EPFEmployer.Amount)
			assertAmount(t, tt.etf, c.ETF.Amount)
			assertAmount(t, "8", c.EPFEmployee.Percentage)
			assertAmount(t, "12", c.EPFEmployer.Percentage)
			assertAmount(t, "3", c.ETF.Percentage)
		})
	}
}

func TestCalculator_ContributionBaseExcludesAllowancesAndOvertime(t *testing.T) {
	calc := newTestCalculator(t)

	profile := testProfile()
	profile.Allowances = employee.AllowanceSchedule{}
	bare, err := calc.ComputeDraft(profile, payroll.AttendanceFacts{}, testPeriod)
	require.NoError(t, err)

	full, err := calc.ComputeDraft(testProfile(), testAttendance(), testPeriod)
	require.NoError(t, err)

	assertAmount(t, bare.EPFContributions.EPFEmployee.Amount.String(), full.EPFContributions.EPFEmployee.Amount)
	assertAmount(t, bare.EPFContributions.EPFEmployer.Amount.String(), full.EPFContributions.EPFEmployer.Amount)
	assertAmount(t, bare.EPFContributions.ETF.Amount.String(), full.EPFContributions.ETF.Amount)
}

func TestCalculator_FractionalOvertimeIsExact(t *testing.T) {
	calc, err := NewCalculator(payroll.Rates{
		OvertimeHourlyRate: dec("312.50"),
		NoPayDailyRate:     dec("0"),
	})
	require.NoError(t, err)

	attendance := payroll.AttendanceFacts{WorkingDays: 20, OvertimeHours: dec("1.5")}
	draft, err := calc.ComputeDraft(testProfile(), attendance, testPeriod)
	require.NoError(t, err)

	assertAmount(t, "468.75", draft.AdditionalPerks.Overtime)
	assert.True(t, draft.GrossSalary.Sub(draft.Deductions.Total).Equal(draft.NetPayableSalary))
}

func TestCalculator_FinalizeIsIdempotent(t *testing.T) {
	calc := newTestCalculator(t)
	adj := payroll.ManualAdjustments{
		Bonus:          dec("3000"),
		Reimbursements: dec("1000"),
		SalaryAdvance:  dec("4000"),
		APIT:           dec("500"),
	}

	draft, err := calc.ComputeDraft(testProfile(), testAttendance(), testPeriod)
	require.NoError(t, err)

	once, err := calc.Finalize(draft, adj)
	require.NoError(t, err)
	twice, err := calc.Finalize(once, adj)
	require.NoError(t, err)
	fromDraftAgain, err := calc.Finalize(draft, adj)
	require.NoError(t, err)

	a, _ := json.Marshal(once)
	b, _ := json.Marshal(twice)
	c, _ := json.Marshal(fromDraftAgain)
	assert.Equal(t, string(a), string(b))
	assert.Equal(t, string(a), string(c))
}

func TestCalculator_FinalizeIgnoresSuppliedTotals(t *testing.T) {
	calc := newTestCalculator(t)

	draft, err := calc.ComputeDraft(testProfile(), testAttendance(), testPeriod)
	require.NoError(t, err)

	draft.Allowances.Total = dec("1")
	draft.Deductions.Total = dec("2")
	draft.Deductions.EPFEmployee = dec("3")
	draft.GrossSalary = dec("4")
	draft.NetPayableSalary = dec("999999")

	final, err := calc.Finalize(draft, payroll.ManualAdjustments{})
	require.NoError(t, err)

	assertAmount(t, "15000", final.Allowances.Total)
	assertAmount(t, "8000", final.Deductions.EPFEmployee)
	assertAmount(t, "10000", final.Deductions.Total)
	assertAmount(t, "120000", final.GrossSalary)
	assertAmount(t, "110000", final.NetPayableSalary)
}

func TestCalculator_FinalizeRebuildsContributionsFromBasicSalary(t *testing.T) {
	calc := newTestCalculator(t)

	draft, err := calc.ComputeDraft(testProfile(), testAttendance(), testPeriod)
	require.NoError(t, err)

	draft.BasicSalary = dec("150000")
	draft.EPFContributions.ETF.Amount = dec("1")

	final, err := calc.Finalize(draft, payroll.ManualAdjustments{})
	require.NoError(t, err)

	assertAmount(t, "12000", final.EPFContributions.EPFEmployee.Amount)
	assertAmount(t, "18000", final.EPFContributions.EPFEmployer.Amount)
	assertAmount(t, "4500", final.EPFContributions.ETF.Amount)
	assertAmount(t, "12000", final.Deductions.EPFEmployee)
	assertAmount(t, "14000", final.Deductions.Total)
	assertAmount(t, "170000", final.GrossSalary)
	assertAmount(t, "156000", final.NetPayableSalary)
}

func TestCalculator_NegativeNetIsFlaggedNotRejected(t *testing.T) {
	calc := newTestCalculator(t)

	profile := testProfile()
	profile.BasicSalary = dec("1000")
	profile.Allowances = employee.AllowanceSchedule{}
	attendance := payroll.AttendanceFacts{WorkingDays: 22, NoPayLeave: 5}

	draft, err := calc.ComputeDraft(profile, attendance, testPeriod)
	require.NoError(t, err)
	assertAmount(t, "-4080", draft.NetPayableSalary)
	assert.True(t, draft.HasWarning(payroll.WarningNegativeNet))

	final, err := calc.Finalize(draft, payroll.ManualAdjustments{APIT: dec("20")})
	require.NoError(t, err)
	assertAmount(t, "-4100", final.NetPayableSalary)
	assert.Equal(t, []string{payroll.WarningNegativeNet}, final.Warnings)

	recovered, err := calc.Finalize(final, payroll.ManualAdjustments{Bonus: dec("5000")})
	require.NoError(t, err)
	assertAmount(t, "920", recovered.NetPayableSalary)
	assert.False(t, recovered.HasWarning(payroll.WarningNegativeNet))
}

func TestCalculator_ComputeDraftRejectsInvalidInput(t *testing.T) {
	calc := newTestCalculator(t)

	tests := []struct {
		name       string
		profile    func(*employee.PayProfile)
		attendance func(*payroll.AttendanceFacts)
		period     payroll.Period
	}{
		{name: "missing employee", profile: func(p *employee.PayProfile) { p.ID = "" }},
		{name: "negative basic", profile: func(p *employee.PayProfile) { p.BasicSalary = dec("-1") }},
		{name: "negative allowance", profile: func(p *employee.PayProfile) { p.Allowances.Food = dec("-0.01") }},
		{name: "negative working days", attendance: func(a *payroll.AttendanceFacts) { a.WorkingDays = -1 }},
		{name: "negative no-pay", attendance: func(a *payroll.AttendanceFacts) { a.NoPayLeave = -2 }},
		{name: "negative overtime", attendance: func(a *payroll.AttendanceFacts) { a.OvertimeHours = dec("-0.5") }},
		{name: "leave taken exceeds working days", attendance: func(a *payroll.AttendanceFacts) { a.LeaveTaken = 23 }},
		{name: "missing month", period: payroll.Period{Year: 2025}},
		{name: "lowercase month", period: payroll.Period{Month: "march", Year: 2025}},
		{name: "two digit year", period: payroll.Period{Month: payroll.MonthMarch, Year: 25}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			profile := testProfile()
			attendance := testAttendance()
			period := testPeriod
			if tt.profile != nil {
				tt.profile(&profile)
			}
			if tt.attendance != nil {
				tt.attendance(&attendance)
			}
			if tt.period != (payroll.Period{}) {
				period = tt.period
			}

			_, err := calc.ComputeDraft(profile, attendance, period)
			assert.ErrorIs(t, err, payroll.ErrInvalidInput)
		})
	}
}

func TestCalculator_FinalizeRejectsNegativeAdjustments(t *testing.T) {
	calc := newTestCalculator(t)
	draft, err := calc.ComputeDraft(testProfile(), testAttendance(), testPeriod)
	require.NoError(t, err)

	for _, adj := range []payroll.ManualAdjustments{
		{SalaryAdvance: dec("-1")},
		{Bonus: dec("-1")},
		{Reimbursements: dec("-1")},
		{APIT: dec("-1")},
	} {
		_, err := calc.Finalize(draft, adj)
		assert.ErrorIs(t, err, payroll.ErrInvalidInput)
	}
}

func TestCalculator_FinalizeRequiresDraft(t *testing.T) {
	calc := newTestCalculator(t)
	draft, err := calc.ComputeDraft(testProfile(), testAttendance(), testPeriod)
	require.NoError(t, err)

	draft.Status = payroll.SalaryStatusApproved
	_, err = calc.Finalize(draft, payroll.ManualAdjustments{})
	assert.ErrorIs(t, err, payroll.ErrIllegalStatusTransition)
}

func TestNewCalculator_RejectsNegativeRates(t *testing.T) {
	_, err := NewCalculator(payroll.Rates{OvertimeHourlyRate: dec("-1")})
	assert.ErrorIs(t, err, payroll.ErrInvalidInput)

	_, err = NewCalculator(payroll.Rates{NoPayDailyRate: dec("-1")})
	assert.ErrorIs(t, err, payroll.ErrInvalidInput)
}
