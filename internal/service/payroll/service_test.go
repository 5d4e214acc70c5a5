package payroll

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/cmlabs-hris/hospital-hr-backend/internal/domain/employee"
	"github.com/cmlabs-hris/hospital-hr-backend/internal/domain/payroll"
	"github.com/cmlabs-hris/hospital-hr-backend/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// ===== MOCKS =====

type mockSalaryRepo struct{ mock.Mock }

func (m *mockSalaryRepo) Create(ctx context.Context, record payroll.SalaryRecord) (payroll.SalaryRecord, error) {
	args := m.Called(ctx, record)
	if fn, ok := args.Get(0).(func(context.Context, payroll.SalaryRecord) payroll.SalaryRecord); ok {
		return fn(ctx, record), args.Error(1)
	}
	return args.Get(0).(payroll.SalaryRecord), args.Error(1)
}

func (m *mockSalaryRepo) GetByID(ctx context.Context, id string) (payroll.SalaryRecord, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(payroll.SalaryRecord), args.Error(1)
}

func (m *mockSalaryRepo) GetByIDForUpdate(ctx context.Context, id string) (payroll.SalaryRecord, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(payroll.SalaryRecord), args.Error(1)
}

func (m *mockSalaryRepo) ExistsForEmployeePeriod(ctx context.Context, employeeID string, period payroll.Period) (bool, error) {
	args := m.Called(ctx, employeeID, period)
	return args.Bool(0), args.Error(1)
}

func (m *mockSalaryRepo) List(ctx context.Context, filter payroll.SalaryFilter) ([]payroll.SalaryRecord, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]payroll.SalaryRecord), args.Get(1).(int64), args.Error(2)
}

func (m *mockSalaryRepo) UpdateStatus(ctx context.Context, id string, status payroll.SalaryStatus, at time.Time) error {
	return m.Called(ctx, id, status, at).Error(0)
}

func (m *mockSalaryRepo) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

type mockAttendanceRepo struct{ mock.Mock }

func (m *mockAttendanceRepo) GetAttendanceFacts(ctx context.Context, employeeID string, period payroll.Period) (payroll.AttendanceFacts, error) {
	args := m.Called(ctx, employeeID, period)
	return args.Get(0).(payroll.AttendanceFacts), args.Error(1)
}

type mockEmployeeRepo struct{ mock.Mock }

func (m *mockEmployeeRepo) GetPayProfile(ctx context.Context, id string) (employee.PayProfile, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(employee.PayProfile), args.Error(1)
}

// passthroughTransactor runs fn without a database and counts calls.
type passthroughTransactor struct{ calls int }

func (p *passthroughTransactor) WithinTransaction(ctx context.Context, fn func(txCtx context.Context) error) error {
	p.calls++
	return fn(ctx)
}

// ===== HELPERS =====

const (
	testEmployeeID = "0199a1b2-7c3d-7e4f-8a5b-6c7d8e9f0a1b"
	testRecordID   = "0199a1b2-7c3d-7e4f-9a5b-000000000001"
)

var fixedNow = time.Date(2025, time.April, 1, 9, 30, 0, 0, time.UTC)

type serviceFixture struct {
	svc        *PayrollServiceImpl
	salary     *mockSalaryRepo
	attendance *mockAttendanceRepo
	employees  *mockEmployeeRepo
	tx         *passthroughTransactor
}

func newServiceFixture(t *testing.T) serviceFixture {
	t.Helper()
	f := serviceFixture{
		salary:     &mockSalaryRepo{},
		attendance: &mockAttendanceRepo{},
		employees:  &mockEmployeeRepo{},
		tx:         &passthroughTransactor{},
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := NewPayrollService(f.tx, f.salary, f.attendance, f.employees, newTestCalculator(t), logger)
	f.svc = svc.(*PayrollServiceImpl)
	f.svc.now = func() time.Time { return fixedNow }

	t.Cleanup(func() {
		f.salary.AssertExpectations(t)
		f.attendance.AssertExpectations(t)
		f.employees.AssertExpectations(t)
	})
	return f
}

func (f serviceFixture) expectInputs() {
	f.employees.On("GetPayProfile", mock.Anything, testEmployeeID).Return(testProfile(), nil)
	f.attendance.On("GetAttendanceFacts", mock.Anything, testEmployeeID, testPeriod).Return(testAttendance(), nil)
}

func finalizeRequest() payroll.FinalizeSalaryRequest {
	return payroll.FinalizeSalaryRequest{
		CalculateSalaryRequest: payroll.CalculateSalaryRequest{
			EmployeeID: testEmployeeID,
			Month:      "March",
			Year:       2025,
		},
		ManualAdjustments: payroll.ManualAdjustments{
			Bonus:          dec("3000"),
			Reimbursements: dec("1000"),
			SalaryAdvance:  dec("4000"),
			APIT:           dec("500"),
		},
	}
}

func storedRecord(status payroll.SalaryStatus) payroll.SalaryRecord {
	return payroll.SalaryRecord{
		ID:         testRecordID,
		EmployeeID: testEmployeeID,
		Period:     testPeriod,
		Status:     status,
	}
}

// ===== CALCULATE / PREVIEW =====

func TestPayrollService_Calculate(t *testing.T) {
	f := newServiceFixture(t)
	f.expectInputs()

	resp, err := f.svc.Calculate(context.Background(), finalizeRequest().CalculateSalaryRequest)
	require.NoError(t, err)

	assert.Equal(t, "draft", resp.Status)
	assert.Equal(t, "March", resp.Month)
	assert.Empty(t, resp.ID)
	assertAmount(t, "110000", resp.NetPayableSalary)
	assert.NotNil(t, resp.Warnings)
}

func TestPayrollService_Calculate_ValidationError(t *testing.T) {
	f := newServiceFixture(t)

	_, err := f.svc.Calculate(context.Background(), payroll.CalculateSalaryRequest{Month: "Smarch", Year: 25})

	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	fields := verrs.ToMap()
	assert.Contains(t, fields, "employee_id")
	assert.Contains(t, fields, "month")
	assert.Contains(t, fields, "year")
}

func TestPayrollService_Calculate_EmployeeNotFound(t *testing.T) {
	f := newServiceFixture(t)
	f.employees.On("GetPayProfile", mock.Anything, testEmployeeID).Return(employee.PayProfile{}, employee.ErrEmployeeNotFound)
	f.attendance.On("GetAttendanceFacts", mock.Anything, testEmployeeID, testPeriod).Return(testAttendance(), nil).Maybe()

	_, err := f.svc.Calculate(context.Background(), finalizeRequest().CalculateSalaryRequest)
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
}

func TestPayrollService_Preview(t *testing.T) {
	f := newServiceFixture(t)
	f.expectInputs()

	resp, err := f.svc.Preview(context.Background(), finalizeRequest())
	require.NoError(t, err)

	assertAmount(t, "124000", resp.GrossSalary)
	assertAmount(t, "14500", resp.Deductions.Total)
	assertAmount(t, "109500", resp.NetPayableSalary)
	f.salary.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestPayrollService_Preview_NegativeAdjustment(t *testing.T) {
	f := newServiceFixture(t)
	req := finalizeRequest()
	req.ManualAdjustments.APIT = dec("-1")

	_, err := f.svc.Preview(context.Background(), req)

	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Contains(t, verrs.ToMap(), "manual_adjustments.apit")
}

// ===== CREATE =====

func TestPayrollService_Create(t *testing.T) {
	f := newServiceFixture(t)
	f.expectInputs()
	f.salary.On("ExistsForEmployeePeriod", mock.Anything, testEmployeeID, testPeriod).Return(false, nil)
	f.salary.On("Create", mock.Anything, mock.MatchedBy(func(r payroll.SalaryRecord) bool {
		return r.ID != "" &&
			r.Status == payroll.SalaryStatusDraft &&
			r.NetPayableSalary.Equal(dec("109500")) &&
			r.CreatedAt.Equal(fixedNow)
	})).Return(func(_ context.Context, r payroll.SalaryRecord) payroll.SalaryRecord { return r }, nil)

	resp, err := f.svc.Create(context.Background(), finalizeRequest())
	require.NoError(t, err)

	assert.True(t, validator.IsValidUUID(resp.ID))
	assert.Equal(t, "draft", resp.Status)
	assertAmount(t, "109500", resp.NetPayableSalary)
	require.NotNil(t, resp.CreatedAt)
	assert.Equal(t, "2025-04-01T09:30:00Z", *resp.CreatedAt)
}

func TestPayrollService_Create_Duplicate(t *testing.T) {
	f := newServiceFixture(t)
	f.expectInputs()
	f.salary.On("ExistsForEmployeePeriod", mock.Anything, testEmployeeID, testPeriod).Return(true, nil)

	_, err := f.svc.Create(context.Background(), finalizeRequest())
	assert.ErrorIs(t, err, payroll.ErrSalaryRecordExists)
}

func TestPayrollService_Create_NegativeNetIsSaved(t *testing.T) {
	f := newServiceFixture(t)
	profile := testProfile()
	profile.BasicSalary = dec("1000")
	profile.Allowances = employee.AllowanceSchedule{}
	f.employees.On("GetPayProfile", mock.Anything, testEmployeeID).Return(profile, nil)
	f.attendance.On("GetAttendanceFacts", mock.Anything, testEmployeeID, testPeriod).
		Return(payroll.AttendanceFacts{WorkingDays: 22, NoPayLeave: 5}, nil)
	f.salary.On("ExistsForEmployeePeriod", mock.Anything, testEmployeeID, testPeriod).Return(false, nil)
	f.salary.On("Create", mock.Anything, mock.Anything).
		Return(func(_ context.Context, r payroll.SalaryRecord) payroll.SalaryRecord { return r }, nil)

	req := finalizeRequest()
	req.ManualAdjustments = payroll.ManualAdjustments{}
	resp, err := f.svc.Create(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, []string{payroll.WarningNegativeNet}, resp.Warnings)
	assert.True(t, resp.NetPayableSalary.IsNegative())
}

// ===== GET / LIST =====

func TestPayrollService_Get_InvalidID(t *testing.T) {
	f := newServiceFixture(t)

	_, err := f.svc.Get(context.Background(), "not-a-uuid")
	assert.ErrorIs(t, err, payroll.ErrSalaryRecordNotFound)
}

func TestPayrollService_List_Defaults(t *testing.T) {
	f := newServiceFixture(t)
	status := "draft"
	search := "  nimali "
	f.salary.On("List", mock.Anything, mock.MatchedBy(func(fl payroll.SalaryFilter) bool {
		return fl.Page == 1 && fl.Limit == 20 && *fl.Status == "draft" && *fl.Search == "nimali"
	})).Return([]payroll.SalaryRecord{storedRecord(payroll.SalaryStatusDraft)}, int64(1), nil)

	resp, err := f.svc.List(context.Background(), payroll.SalaryFilter{Status: &status, Search: &search})
	require.NoError(t, err)

	assert.Equal(t, int64(1), resp.TotalCount)
	assert.Equal(t, 1, resp.Page)
	assert.Equal(t, 20, resp.Limit)
	require.Len(t, resp.Data, 1)
	assert.Equal(t, testRecordID, resp.Data[0].ID)
}

func TestPayrollService_List_InvalidStatus(t *testing.T) {
	f := newServiceFixture(t)
	status := "cancelled"

	_, err := f.svc.List(context.Background(), payroll.SalaryFilter{Status: &status})

	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Contains(t, verrs.ToMap(), "status")
}

// ===== STATUS TRANSITIONS =====

func TestPayrollService_Approve(t *testing.T) {
	f := newServiceFixture(t)
	f.salary.On("GetByIDForUpdate", mock.Anything, testRecordID).Return(storedRecord(payroll.SalaryStatusDraft), nil)
	f.salary.On("UpdateStatus", mock.Anything, testRecordID, payroll.SalaryStatusApproved, fixedNow).Return(nil)

	resp, err := f.svc.Approve(context.Background(), testRecordID)
	require.NoError(t, err)

	assert.Equal(t, "approved", resp.Status)
	require.NotNil(t, resp.ApprovedAt)
	assert.Nil(t, resp.PaidAt)
	assert.Equal(t, 1, f.tx.calls)
}

func TestPayrollService_Approve_NotDraft(t *testing.T) {
	f := newServiceFixture(t)
	f.salary.On("GetByIDForUpdate", mock.Anything, testRecordID).Return(storedRecord(payroll.SalaryStatusApproved), nil)

	_, err := f.svc.Approve(context.Background(), testRecordID)
	assert.ErrorIs(t, err, payroll.ErrIllegalStatusTransition)
	f.salary.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestPayrollService_MarkPaid(t *testing.T) {
	f := newServiceFixture(t)
	f.salary.On("GetByIDForUpdate", mock.Anything, testRecordID).Return(storedRecord(payroll.SalaryStatusApproved), nil)
	f.salary.On("UpdateStatus", mock.Anything, testRecordID, payroll.SalaryStatusPaid, fixedNow).Return(nil)

	resp, err := f.svc.MarkPaid(context.Background(), testRecordID)
	require.NoError(t, err)

	assert.Equal(t, "paid", resp.Status)
	require.NotNil(t, resp.PaidAt)
}

func TestPayrollService_MarkPaid_FromDraft(t *testing.T) {
	f := newServiceFixture(t)
	f.salary.On("GetByIDForUpdate", mock.Anything, testRecordID).Return(storedRecord(payroll.SalaryStatusDraft), nil)

	_, err := f.svc.MarkPaid(context.Background(), testRecordID)
	assert.ErrorIs(t, err, payroll.ErrIllegalStatusTransition)
}

func TestPayrollService_Delete(t *testing.T) {
	f := newServiceFixture(t)
	f.salary.On("GetByIDForUpdate", mock.Anything, testRecordID).Return(storedRecord(payroll.SalaryStatusDraft), nil)
	f.salary.On("Delete", mock.Anything, testRecordID).Return(nil)

	err := f.svc.Delete(context.Background(), testRecordID)
	assert.NoError(t, err)
}

func TestPayrollService_Delete_Approved(t *testing.T) {
	f := newServiceFixture(t)
	f.salary.On("GetByIDForUpdate", mock.Anything, testRecordID).Return(storedRecord(payroll.SalaryStatusApproved), nil)

	err := f.svc.Delete(context.Background(), testRecordID)
	assert.ErrorIs(t, err, payroll.ErrIllegalStatusTransition)
	f.salary.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestPayrollService_Delete_NotFound(t *testing.T) {
	f := newServiceFixture(t)
	f.salary.On("GetByIDForUpdate", mock.Anything, testRecordID).Return(payroll.SalaryRecord{}, payroll.ErrSalaryRecordNotFound)

	err := f.svc.Delete(context.Background(), testRecordID)
	assert.True(t, errors.Is(err, payroll.ErrSalaryRecordNotFound))
}
