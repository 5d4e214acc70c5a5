package user

import "slices"

type Permission string

const (
	// Payroll
	PermissionPayrollCalculate Permission = "payroll.calculate"
	PermissionPayrollViewAll   Permission = "payroll.view_all"
	PermissionPayrollManage    Permission = "payroll.manage"
	PermissionPayrollApprove   Permission = "payroll.approve"
	PermissionPayrollPay       Permission = "payroll.pay"

	// Leave
	PermissionLeaveViewOwn Permission = "leave.view_own"
	PermissionLeaveCreate  Permission = "leave.create"
)

// RolePermissions maps roles to their permissions
var RolePermissions = map[Role][]Permission{
	RoleAdmin: {
		PermissionPayrollCalculate,
		PermissionPayrollViewAll,
		PermissionPayrollManage,
		PermissionPayrollApprove,
		PermissionPayrollPay,
		PermissionLeaveViewOwn,
		PermissionLeaveCreate,
	},
	RoleHR: {
		PermissionPayrollCalculate,
		PermissionPayrollViewAll,
		PermissionPayrollManage,
		PermissionLeaveViewOwn,
		PermissionLeaveCreate,
	},
	RoleEmployee: {
		PermissionLeaveViewOwn,
		PermissionLeaveCreate,
	},
}

// HasPermission checks if a role has a specific permission
func HasPermission(role Role, permission Permission) bool {
	permissions, exists := RolePermissions[role]
	if !exists {
		return false
	}
	return slices.Contains(permissions, permission)
}
