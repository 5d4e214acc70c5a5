package leave

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/hospital-hr-backend/internal/domain/leave"
	"github.com/cmlabs-hris/hospital-hr-backend/internal/pkg/utils"
	"github.com/google/uuid"
)

type LeaveServiceImpl struct {
	balanceRepo leave.BalanceRepository
	requestRepo leave.LeaveRequestRepository
	ledger      leave.Ledger
	logger      *slog.Logger
	now         func() time.Time
}

func NewLeaveService(
	balanceRepo leave.BalanceRepository,
	requestRepo leave.LeaveRequestRepository,
	ledger leave.Ledger,
	logger *slog.Logger,
) leave.LeaveService {
	return &LeaveServiceImpl{
		balanceRepo: balanceRepo,
		requestRepo: requestRepo,
		ledger:      ledger,
		logger:      logger,
		now:         time.Now,
	}
}

// GetBalance returns every leave type of the closed set, with zero for types the
// leave-accounting store has no entry for.
func (s *LeaveServiceImpl) GetBalance(ctx context.Context, employeeID string) (leave.BalanceResponse, error) {
	snapshot, err := s.balanceRepo.GetSnapshot(ctx, employeeID)
	if err != nil {
		return leave.BalanceResponse{}, err
	}

	balances := make(map[string]int, len(leave.LeaveTypes()))
	for _, t := range leave.LeaveTypes() {
		balances[string(t)] = snapshot.Available(t)
	}

	return leave.BalanceResponse{
		EmployeeID: employeeID,
		Balances:   balances,
	}, nil
}

func (s *LeaveServiceImpl) Evaluate(ctx context.Context, req leave.EvaluateLeaveRequest) (leave.EvaluationResponse, error) {
	if err := req.Validate(); err != nil {
		return leave.EvaluationResponse{}, err
	}

	_, eval, err := s.evaluate(ctx, req)
	if err != nil {
		return leave.EvaluationResponse{}, err
	}

	return eval, nil
}

// Submit persists the request as pending. An insufficient balance needs the caller's
// explicit confirmation, after which the request goes to the approval workflow as is.
// The balance is not debited here.
func (s *LeaveServiceImpl) Submit(ctx context.Context, req leave.SubmitLeaveRequest) (leave.SubmitLeaveResponse, error) {
	if err := req.Validate(); err != nil {
		return leave.SubmitLeaveResponse{}, err
	}

	request, eval, err := s.evaluate(ctx, req.EvaluateLeaveRequest)
	if err != nil {
		return leave.SubmitLeaveResponse{}, err
	}

	if !eval.Sufficient && !req.ConfirmInsufficientBalance {
		return leave.SubmitLeaveResponse{Evaluation: eval}, fmt.Errorf("%w: %d day(s) requested, %d available",
			leave.ErrBalanceConfirmationRequired, eval.DaysRequested, eval.AvailableBalance)
	}

	id, err := uuid.NewV7()
	if err != nil {
		return leave.SubmitLeaveResponse{}, fmt.Errorf("failed to generate leave request id: %w", err)
	}
	now := s.now()

	request.ID = id.String()
	request.DaysRequested = eval.DaysRequested
	request.Reason = req.Reason
	request.EmergencyContact = req.EmergencyContact
	request.Location = req.Location
	request.ExceedsBalance = !eval.Sufficient
	request.Status = leave.LeaveRequestStatusPending
	request.CreatedAt = now
	request.UpdatedAt = now

	created, err := s.requestRepo.Create(ctx, request)
	if err != nil {
		return leave.SubmitLeaveResponse{}, err
	}

	s.logger.InfoContext(ctx, "leave request submitted",
		"request_id", created.ID,
		"employee_id", created.EmployeeID,
		"leave_type", string(created.Type),
		"days_requested", created.DaysRequested,
		"exceeds_balance", created.ExceedsBalance,
	)

	return leave.SubmitLeaveResponse{
		ID:         created.ID,
		Status:     string(created.Status),
		Evaluation: eval,
	}, nil
}

func (s *LeaveServiceImpl) evaluate(ctx context.Context, req leave.EvaluateLeaveRequest) (leave.LeaveRequest, leave.EvaluationResponse, error) {
	start, end := req.Dates()
	request := leave.LeaveRequest{
		EmployeeID: req.EmployeeID,
		Type:       leave.LeaveType(req.LeaveType),
		StartDate:  utils.CalendarDate(start),
		EndDate:    utils.CalendarDate(end),
	}

	snapshot, err := s.balanceRepo.GetSnapshot(ctx, req.EmployeeID)
	if err != nil {
		return leave.LeaveRequest{}, leave.EvaluationResponse{}, err
	}

	eval, err := s.ledger.Evaluate(snapshot, request)
	if err != nil {
		return leave.LeaveRequest{}, leave.EvaluationResponse{}, err
	}

	return request, leave.EvaluationResponse{
		LeaveType:  string(request.Type),
		StartDate:  request.StartDate.Format(utils.DateLayout),
		EndDate:    request.EndDate.Format(utils.DateLayout),
		Evaluation: eval,
	}, nil
}
