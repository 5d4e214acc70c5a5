package user

type Role string

const (
	RoleAdmin    Role = "admin"    // Approves and pays salary records
	RoleHR       Role = "hr"       // Prepares salary records
	RoleEmployee Role = "employee" // Self-service leave only
)

func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleHR, RoleEmployee:
		return true
	}
	return false
}

// Principal is the caller identity carried by an access token.
type Principal struct {
	UserID     string
	EmployeeID *string
	Role       Role
}
