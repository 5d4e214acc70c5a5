package user

import "errors"

var (
	ErrInvalidToken            = errors.New("invalid or expired token")
	ErrInsufficientPermissions = errors.New("insufficient permissions")
	ErrEmployeeIDClaimMissing  = errors.New("token is not linked to an employee")
)
