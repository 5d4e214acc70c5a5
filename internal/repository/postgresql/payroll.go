package postgresql

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cmlabs-hris/hospital-hr-backend/internal/domain/payroll"
	"github.com/cmlabs-hris/hospital-hr-backend/internal/pkg/database"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueViolation = "23505"

type salaryRecordRepository struct {
	db *database.DB
}

func NewSalaryRecordRepository(db *database.DB) payroll.SalaryRecordRepository {
	return &salaryRecordRepository{db: db}
}

const salaryRecordColumns = `
	sr.id, sr.employee_id, sr.employee_info, sr.period_month, sr.period_year, sr.currency,
	sr.basic_salary, sr.allowances, sr.attendance, sr.additional_perks, sr.epf_contributions,
	sr.deductions, sr.gross_salary, sr.net_payable_salary, sr.status, sr.warnings,
	sr.created_at, sr.updated_at, sr.approved_at, sr.paid_at
`

// salaryRecordJSON holds the itemised blocks stored as JSONB.
type salaryRecordJSON struct {
	employeeInfo, allowances, attendance, perks, contributions, deductions []byte
}

func marshalSalaryRecordJSON(r payroll.SalaryRecord) (salaryRecordJSON, error) {
	var (
		out salaryRecordJSON
		err error
	)
	fields := []struct {
		dst *[]byte
		src interface{}
	}{
		{&out.employeeInfo, r.Employee},
		{&out.allowances, r.Allowances},
		{&out.attendance, r.Attendance},
		{&out.perks, r.AdditionalPerks},
		{&out.contributions, r.EPFContributions},
		{&out.deductions, r.Deductions},
	}
	for _, f := range fields {
		if *f.dst, err = json.Marshal(f.src); err != nil {
			return salaryRecordJSON{}, fmt.Errorf("failed to encode salary record: %w", err)
		}
	}
	return out, nil
}

func scanSalaryRecord(row pgx.Row) (payroll.SalaryRecord, error) {
	var (
		rec   payroll.SalaryRecord
		raw   salaryRecordJSON
		month int
	)
	if err := row.Scan(
		&rec.ID, &rec.EmployeeID, &raw.employeeInfo, &month, &rec.Period.Year, &rec.Currency,
		&rec.BasicSalary, &raw.allowances, &raw.attendance, &raw.perks, &raw.contributions,
		&raw.deductions, &rec.GrossSalary, &rec.NetPayableSalary, &rec.Status, &rec.Warnings,
		&rec.CreatedAt, &rec.UpdatedAt, &rec.ApprovedAt, &rec.PaidAt,
	); err != nil {
		return payroll.SalaryRecord{}, err
	}

	m, ok := payroll.MonthFromNumber(month)
	if !ok {
		return payroll.SalaryRecord{}, fmt.Errorf("salary record %s has invalid period month %d", rec.ID, month)
	}
	rec.Period.Month = m

	blocks := []struct {
		src []byte
		dst interface{}
	}{
		{raw.employeeInfo, &rec.Employee},
		{raw.allowances, &rec.Allowances},
		{raw.attendance, &rec.Attendance},
		{raw.perks, &rec.AdditionalPerks},
		{raw.contributions, &rec.EPFContributions},
		{raw.deductions, &rec.Deductions},
	}
	for _, b := range blocks {
		if err := json.Unmarshal(b.src, b.dst); err != nil {
			return payroll.SalaryRecord{}, fmt.Errorf("failed to decode salary record %s: %w", rec.ID, err)
		}
	}
	if len(rec.Warnings) == 0 {
		rec.Warnings = nil
	}

	return rec, nil
}

func (r *salaryRecordRepository) Create(ctx context.Context, record payroll.SalaryRecord) (payroll.SalaryRecord, error) {
	q := GetQuerier(ctx, r.db)

	raw, err := marshalSalaryRecordJSON(record)
	if err != nil {
		return payroll.SalaryRecord{}, err
	}
	warnings := record.Warnings
	if warnings == nil {
		warnings = []string{}
	}

	query := `
		INSERT INTO salary_records AS sr (
			id, employee_id, employee_info, period_month, period_year, currency,
			basic_salary, allowances, attendance, additional_perks, epf_contributions,
			deductions, total_deductions, gross_salary, net_payable_salary, status, warnings,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
		RETURNING ` + salaryRecordColumns

	created, err := scanSalaryRecord(q.QueryRow(ctx, query,
		record.ID, record.EmployeeID, raw.employeeInfo, record.Period.Month.Number(), record.Period.Year, record.Currency,
		record.BasicSalary, raw.allowances, raw.attendance, raw.perks, raw.contributions,
		raw.deductions, record.Deductions.Total, record.GrossSalary, record.NetPayableSalary, record.Status, warnings,
		record.CreatedAt, record.UpdatedAt,
	))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation && pgErr.ConstraintName == "uk_salary_employee_period" {
			return payroll.SalaryRecord{}, payroll.ErrSalaryRecordExists
		}
		return payroll.SalaryRecord{}, fmt.Errorf("failed to create salary record: %w", err)
	}

	return created, nil
}

func (r *salaryRecordRepository) GetByID(ctx context.Context, id string) (payroll.SalaryRecord, error) {
	return r.getByID(ctx, id, "")
}

// GetByIDForUpdate locks the row until the surrounding transaction ends.
func (r *salaryRecordRepository) GetByIDForUpdate(ctx context.Context, id string) (payroll.SalaryRecord, error) {
	if _, ok := database.TxFromContext(ctx); !ok {
		return payroll.SalaryRecord{}, errors.New("GetByIDForUpdate requires a transaction")
	}
	return r.getByID(ctx, id, "FOR UPDATE")
}

func (r *salaryRecordRepository) getByID(ctx context.Context, id string, lock string) (payroll.SalaryRecord, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + salaryRecordColumns + ` FROM salary_records sr WHERE sr.id = $1 ` + lock

	rec, err := scanSalaryRecord(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.SalaryRecord{}, payroll.ErrSalaryRecordNotFound
		}
		return payroll.SalaryRecord{}, fmt.Errorf("failed to get salary record: %w", err)
	}

	return rec, nil
}

func (r *salaryRecordRepository) ExistsForEmployeePeriod(ctx context.Context, employeeID string, period payroll.Period) (bool, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT EXISTS (
			SELECT 1 FROM salary_records
			WHERE employee_id = $1 AND period_month = $2 AND period_year = $3
		)
	`

	var exists bool
	if err := q.QueryRow(ctx, query, employeeID, period.Month.Number(), period.Year).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check salary record existence: %w", err)
	}

	return exists, nil
}

func (r *salaryRecordRepository) List(ctx context.Context, filter payroll.SalaryFilter) ([]payroll.SalaryRecord, int64, error) {
	q := GetQuerier(ctx, r.db)

	baseQuery := `
		FROM salary_records sr
		WHERE 1 = 1
	`
	args := []interface{}{}
	argIdx := 1

	if filter.Status != nil {
		baseQuery += fmt.Sprintf(" AND sr.status = $%d", argIdx)
		args = append(args, *filter.Status)
		argIdx++
	}
	if filter.Month != nil {
		baseQuery += fmt.Sprintf(" AND sr.period_month = $%d", argIdx)
		args = append(args, payroll.Month(*filter.Month).Number())
		argIdx++
	}
	if filter.Year != nil {
		baseQuery += fmt.Sprintf(" AND sr.period_year = $%d", argIdx)
		args = append(args, *filter.Year)
		argIdx++
	}
	if filter.Search != nil {
		baseQuery += fmt.Sprintf(
			` AND (sr.employee_info->>'name' ILIKE $%d ESCAPE '\' OR sr.employee_info->>'employee_code' ILIKE $%d ESCAPE '\')`,
			argIdx, argIdx,
		)
		args = append(args, "%"+escapeLike(*filter.Search)+"%")
		argIdx++
	}

	// Count query
	var totalCount int64
	countQuery := "SELECT COUNT(*) " + baseQuery
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&totalCount); err != nil {
		return nil, 0, fmt.Errorf("failed to count salary records: %w", err)
	}

	// Sort
	allowedColumns := map[string]string{
		"created_at":         "sr.created_at",
		"period":             "sr.period_year DESC, sr.period_month",
		"employee_name":      "sr.employee_info->>'name'",
		"net_payable_salary": "sr.net_payable_salary",
	}
	sortColumn := "sr.created_at"
	if col, ok := allowedColumns[filter.SortBy]; ok {
		sortColumn = col
	}
	sortOrder := "DESC"
	if filter.SortOrder == "asc" {
		sortOrder = "ASC"
	}

	// Pagination
	if filter.Limit <= 0 {
		filter.Limit = 20
	}
	if filter.Page <= 0 {
		filter.Page = 1
	}
	offset := (filter.Page - 1) * filter.Limit

	selectQuery := fmt.Sprintf(`
		SELECT %s
		%s
		ORDER BY %s %s, sr.id
		LIMIT $%d OFFSET $%d
	`, salaryRecordColumns, baseQuery, sortColumn, sortOrder, argIdx, argIdx+1)

	args = append(args, filter.Limit, offset)

	rows, err := q.Query(ctx, selectQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list salary records: %w", err)
	}
	defer rows.Close()

	var records []payroll.SalaryRecord
	for rows.Next() {
		rec, err := scanSalaryRecord(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan salary record: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate salary records: %w", err)
	}

	return records, totalCount, nil
}

// escapeLike makes the LIKE metacharacters in s match literally.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func (r *salaryRecordRepository) UpdateStatus(ctx context.Context, id string, status payroll.SalaryStatus, at time.Time) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE salary_records
		SET status = $2,
			updated_at = $3,
			approved_at = CASE WHEN $2 = 'approved' THEN $3 ELSE approved_at END,
			paid_at = CASE WHEN $2 = 'paid' THEN $3 ELSE paid_at END
		WHERE id = $1
	`

	tag, err := q.Exec(ctx, query, id, string(status), at)
	if err != nil {
		return fmt.Errorf("failed to update salary record status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return payroll.ErrSalaryRecordNotFound
	}

	return nil
}

func (r *salaryRecordRepository) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	var deletedID string
	err := q.QueryRow(ctx, `DELETE FROM salary_records WHERE id = $1 RETURNING id`, id).Scan(&deletedID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.ErrSalaryRecordNotFound
		}
		return fmt.Errorf("failed to delete salary record: %w", err)
	}

	return nil
}
