package employee

import "context"

type EmployeeRepository interface {
	GetPayProfile(ctx context.Context, id string) (PayProfile, error)
}
