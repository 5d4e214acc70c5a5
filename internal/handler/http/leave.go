package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/hospital-hr-backend/internal/domain/leave"
	"github.com/cmlabs-hris/hospital-hr-backend/internal/domain/user"
	"github.com/cmlabs-hris/hospital-hr-backend/internal/handler/http/response"
	"github.com/cmlabs-hris/hospital-hr-backend/internal/pkg/jwt"
)

type LeaveHandler interface {
	GetMyBalance(w http.ResponseWriter, r *http.Request)
	Evaluate(w http.ResponseWriter, r *http.Request)
	Submit(w http.ResponseWriter, r *http.Request)
}

type LeaveHandlerImpl struct {
	jwtService   jwt.Service
	leaveService leave.LeaveService
}

func NewLeaveHandler(jwtService jwt.Service, leaveService leave.LeaveService) LeaveHandler {
	return &LeaveHandlerImpl{
		jwtService:   jwtService,
		leaveService: leaveService,
	}
}

// GetMyBalance implements LeaveHandler.
func (l *LeaveHandlerImpl) GetMyBalance(w http.ResponseWriter, r *http.Request) {
	employeeID, ok := l.employeeID(w, r)
	if !ok {
		return
	}

	balance, err := l.leaveService.GetBalance(r.Context(), employeeID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, balance)
}

// Evaluate implements LeaveHandler.
func (l *LeaveHandlerImpl) Evaluate(w http.ResponseWriter, r *http.Request) {
	employeeID, ok := l.employeeID(w, r)
	if !ok {
		return
	}

	var req leave.EvaluateLeaveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Evaluate decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	// Set employee_id from JWT (override any value from request for security)
	req.EmployeeID = employeeID

	evaluation, err := l.leaveService.Evaluate(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, evaluation)
}

// Submit implements LeaveHandler.
func (l *LeaveHandlerImpl) Submit(w http.ResponseWriter, r *http.Request) {
	employeeID, ok := l.employeeID(w, r)
	if !ok {
		return
	}

	var req leave.SubmitLeaveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Submit decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.EmployeeID = employeeID

	result, err := l.leaveService.Submit(r.Context(), req)
	if err != nil {
		// The caller resubmits with confirm_insufficient_balance after seeing the evaluation.
		if errors.Is(err, leave.ErrBalanceConfirmationRequired) {
			response.ConflictWithData(w, err.Error(), result.Evaluation)
			return
		}
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Leave request submitted", result)
}

func (l *LeaveHandlerImpl) employeeID(w http.ResponseWriter, r *http.Request) (string, bool) {
	principal, err := l.jwtService.PrincipalFromContext(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return "", false
	}
	if principal.EmployeeID == nil {
		response.HandleError(w, user.ErrEmployeeIDClaimMissing)
		return "", false
	}
	return *principal.EmployeeID, true
}
