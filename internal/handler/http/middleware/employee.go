package middleware

import (
	"net/http"

	"github.com/cmlabs-hris/hospital-hr-backend/internal/domain/user"
	"github.com/cmlabs-hris/hospital-hr-backend/internal/handler/http/response"
	"github.com/cmlabs-hris/hospital-hr-backend/internal/pkg/validator"
	"github.com/go-chi/jwtauth/v5"
)

// RequireEmployee rejects tokens that carry no employee_id, which self-service routes key on.
func RequireEmployee(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, claims, err := jwtauth.FromContext(r.Context())
		if err != nil {
			response.HandleError(w, user.ErrInvalidToken)
			return
		}

		employeeID, ok := claims["employee_id"].(string)
		if !ok || employeeID == "" {
			response.HandleError(w, user.ErrEmployeeIDClaimMissing)
			return
		}

		if !validator.IsValidUUID(employeeID) {
			response.HandleError(w, user.ErrInvalidToken)
			return
		}

		next.ServeHTTP(w, r)
	})
}
