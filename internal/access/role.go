// Copyright (c) 2026 Aegis. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package access

import "fmt"

// # Roles

// Role is the coarse privilege classification of a caller.
//
// Roles are ordered: every role inherits the grants of the role below it.
type Role uint8

const (
	// RoleGuest is the implicit role of an anonymous caller.
	RoleGuest Role = iota

	// RoleUser is the default role for registered accounts.
	RoleUser

	// RoleModerator curates community content and operation plans.
	RoleModerator

	// RoleAdmin has unrestricted access.
	RoleAdmin
)

// String returns the wire name of the role.
func (r Role) String() string {
	switch r {
	case RoleGuest:
		return "guest"
	case RoleUser:
		return "user"
	case RoleModerator:
		return "moderator"
	case RoleAdmin:
		return "admin"
	default:
		return fmt.Sprintf("role(%d)", uint8(r))
	}
}

// ParseRole resolves a role name, including "guest".
func ParseRole(raw string) (Role, error) {
	switch raw {
	case "guest":
		return RoleGuest, nil
	case "user":
		return RoleUser, nil
	case "moderator":
		return RoleModerator, nil
	case "admin":
		return RoleAdmin, nil
	default:
		return RoleGuest, fmt.Errorf("access: unknown role %q", raw)
	}
}

// Valid reports whether r is one of the declared roles.
func (r Role) Valid() bool {
	return r <= RoleAdmin
}

// Assignable reports whether r may be stored on an account. Guest is implicit
// and never assigned.
func (r Role) Assignable() bool {
	return r == RoleUser || r == RoleModerator || r == RoleAdmin
}

// MarshalText implements encoding.TextMarshaler.
func (r Role) MarshalText() ([]byte, error) {
	if !r.Valid() {
		return nil, fmt.Errorf("access: cannot marshal %s", r)
	}
	return []byte(r.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (r *Role) UnmarshalText(text []byte) error {
	parsed, err := ParseRole(string(text))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// # Role Grants

// Grants added at each tier. A tier's effective set is its parent's set plus
// its own grants.
var (
	guestGrants = []Permission{
		PermViewFeed,
	}

	userGrants = []Permission{
		PermViewMap,
		PermViewDashboard,
		PermCreatePost,
		PermCommentPost,
		PermViewEOP,
	}

	moderatorGrants = []Permission{
		PermCreateEOP,
		PermEditEOP,
		PermModeratePosts,
		PermViewReports,
	}

	adminGrants = []Permission{
		PermDeleteEOP,
		PermManageUsers,
		PermManageCitizens,
		PermManageAreas,
		PermManageSystem,
	}
)

// roleGrants is computed once from the tier lists above.
var roleGrants = buildRoleGrants()

func buildRoleGrants() map[Role]PermissionSet {
	guest := newPermissionSet(guestGrants...)
	user := guest.extend(userGrants...)
	moderator := user.extend(moderatorGrants...)
	admin := moderator.extend(adminGrants...)

	return map[Role]PermissionSet{
		RoleGuest:     guest,
		RoleUser:      user,
		RoleModerator: moderator,
		RoleAdmin:     admin,
	}
}

// grants resolves the permission set of r. Undeclared roles get the guest set.
func (r Role) grants() PermissionSet {
	switch r {
	case RoleGuest, RoleUser, RoleModerator, RoleAdmin:
		return roleGrants[r]
	default:
		return roleGrants[RoleGuest]
	}
}

// Permissions returns the effective permissions of r in lexical order.
func (r Role) Permissions() []Permission {
	return r.grants().Sorted()
}

// AllRoles returns every declared role from least to most privileged.
func AllRoles() []Role {
	return []Role{RoleGuest, RoleUser, RoleModerator, RoleAdmin}
}
