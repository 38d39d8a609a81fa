// Copyright (c) 2026 Aegis. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package access

// # Permission Checks

// HasPermission reports whether role is granted permission.
func HasPermission(role Role, permission Permission) bool {
	return role.grants().Has(permission)
}

// HasAnyPermission reports whether role holds at least one of permissions.
// An empty list is false.
func HasAnyPermission(role Role, permissions ...Permission) bool {
	grants := role.grants()
	for _, permission := range permissions {
		if grants.Has(permission) {
			return true
		}
	}
	return false
}

// HasAllPermissions reports whether role holds every one of permissions.
// An empty list is true.
func HasAllPermissions(role Role, permissions ...Permission) bool {
	grants := role.grants()
	for _, permission := range permissions {
		if !grants.Has(permission) {
			return false
		}
	}
	return true
}

// # Role Predicates

// IsAuthenticated reports whether role belongs to a signed-in account.
func IsAuthenticated(role Role) bool {
	return role.Assignable()
}

// IsModerator reports whether role is moderator or above.
func IsModerator(role Role) bool {
	return role == RoleModerator || role == RoleAdmin
}

// IsAdmin reports whether role is admin.
func IsAdmin(role Role) bool {
	return role == RoleAdmin
}

// # Route Checks

var defaultTable = DefaultRoutes()

// CanAccessRoute reports whether role may reach route under the default table.
func CanAccessRoute(role Role, route string) bool {
	return defaultTable.CanAccess(role, route)
}
