package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/hospital-hr-backend/internal/domain/employee"
	"github.com/cmlabs-hris/hospital-hr-backend/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type employeeRepositoryImpl struct {
	db *database.DB
}

func NewEmployeeRepository(db *database.DB) employee.EmployeeRepository {
	return &employeeRepositoryImpl{db: db}
}

// GetPayProfile implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) GetPayProfile(ctx context.Context, id string) (employee.PayProfile, error) {
	q := GetQuerier(ctx, e.db)

	query := `
		SELECT id, full_name, employee_code, designation, epf_number, basic_salary,
			   allowance_cost_of_living, allowance_food, allowance_conveyance, allowance_medical,
			   currency
		FROM employees
		WHERE id = $1
	`

	var p employee.PayProfile
	err := q.QueryRow(ctx, query, id).Scan(
		&p.ID, &p.Name, &p.EmployeeCode, &p.Designation, &p.EPFNumber, &p.BasicSalary,
		&p.Allowances.CostOfLiving, &p.Allowances.Food, &p.Allowances.Conveyance, &p.Allowances.Medical,
		&p.Currency,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.PayProfile{}, employee.ErrEmployeeNotFound
		}
		return employee.PayProfile{}, fmt.Errorf("failed to get pay profile for employee %s: %w", id, err)
	}

	return p, nil
}
