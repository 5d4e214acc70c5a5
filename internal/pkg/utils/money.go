package utils

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// RoundHalfUp rounds d to a whole currency unit, ties away from zero.
// Payroll amounts are never negative, so this is plain half-up for every input we see.
func RoundHalfUp(d decimal.Decimal) decimal.Decimal {
	return d.Round(0)
}

// PercentOf returns amount * percent / 100 without rounding.
func PercentOf(amount, percent decimal.Decimal) decimal.Decimal {
	return amount.Mul(percent).Div(hundred)
}

// RoundedPercentOf returns PercentOf rounded half-up to a whole currency unit.
func RoundedPercentOf(amount, percent decimal.Decimal) decimal.Decimal {
	return RoundHalfUp(PercentOf(amount, percent))
}

// SumDecimals adds values left to right.
func SumDecimals(values ...decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, v := range values {
		total = total.Add(v)
	}
	return total
}
