package employee

import (
	"github.com/shopspring/decimal"
)

const DefaultCurrency = "LKR"

// PayProfile is the read-only pay view of an employee owned by the HR record store.
type PayProfile struct {
	ID           string
	Name         string
	EmployeeCode string
	Designation  string
	EPFNumber    string
	BasicSalary  decimal.Decimal
	Allowances   AllowanceSchedule
	Currency     string
}

// AllowanceSchedule holds the fixed monthly allowances of an employee.
type AllowanceSchedule struct {
	CostOfLiving decimal.Decimal
	Food         decimal.Decimal
	Conveyance   decimal.Decimal
	Medical      decimal.Decimal
}

func (a AllowanceSchedule) Total() decimal.Decimal {
	return a.CostOfLiving.Add(a.Food).Add(a.Conveyance).Add(a.Medical)
}

func (a AllowanceSchedule) HasNegative() bool {
	return a.CostOfLiving.IsNegative() || a.Food.IsNegative() || a.Conveyance.IsNegative() || a.Medical.IsNegative()
}
