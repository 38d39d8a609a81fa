// Copyright (c) 2026 Aegis. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package access implements the role-based access control decision layer.

It owns three static tables and the pure predicates derived from them:

  - Permission Catalog: the closed set of atomic capabilities.
  - Role Grants: the permission set of every [Role], built by inheritance.
  - Route Table: the minimum [Level] required to reach a page.

Nothing in this package holds state. Callers pass the role (or the session
state that resolves to one) on every call.
*/
package access

import (
	"fmt"
	"sort"
)

// # Permission Catalog

// Permission is an atomic capability checked independently of route access.
type Permission string

const (
	PermViewFeed       Permission = "view-feed"
	PermViewMap        Permission = "view-map"
	PermViewDashboard  Permission = "view-dashboard"
	PermCreatePost     Permission = "create-post"
	PermCommentPost    Permission = "comment-post"
	PermViewEOP        Permission = "view-eop"
	PermCreateEOP      Permission = "create-eop"
	PermEditEOP        Permission = "edit-eop"
	PermModeratePosts  Permission = "moderate-posts"
	PermViewReports    Permission = "view-reports"
	PermDeleteEOP      Permission = "delete-eop"
	PermManageUsers    Permission = "manage-users"
	PermManageCitizens Permission = "manage-citizens"
	PermManageAreas    Permission = "manage-areas"
	PermManageSystem   Permission = "manage-system"
)

// catalog lists every permission in declaration order.
var catalog = []Permission{
	PermViewFeed,
	PermViewMap,
	PermViewDashboard,
	PermCreatePost,
	PermCommentPost,
	PermViewEOP,
	PermCreateEOP,
	PermEditEOP,
	PermModeratePosts,
	PermViewReports,
	PermDeleteEOP,
	PermManageUsers,
	PermManageCitizens,
	PermManageAreas,
	PermManageSystem,
}

// AllPermissions returns a copy of the permission catalog.
func AllPermissions() []Permission {
	out := make([]Permission, len(catalog))
	copy(out, catalog)
	return out
}

// ParsePermission resolves a permission tag. Unknown tags are an error.
func ParsePermission(raw string) (Permission, error) {
	for _, permission := range catalog {
		if string(permission) == raw {
			return permission, nil
		}
	}
	return "", fmt.Errorf("access: unknown permission %q", raw)
}

// # Permission Sets

// PermissionSet is an immutable-by-convention set of permissions.
type PermissionSet map[Permission]struct{}

func newPermissionSet(permissions ...Permission) PermissionSet {
	set := make(PermissionSet, len(permissions))
	for _, permission := range permissions {
		set[permission] = struct{}{}
	}
	return set
}

// Has reports whether permission is a member of the set.
func (s PermissionSet) Has(permission Permission) bool {
	_, ok := s[permission]
	return ok
}

// extend returns a new set holding s plus the given permissions.
func (s PermissionSet) extend(permissions ...Permission) PermissionSet {
	out := make(PermissionSet, len(s)+len(permissions))
	for permission := range s {
		out[permission] = struct{}{}
	}
	for _, permission := range permissions {
		out[permission] = struct{}{}
	}
	return out
}

// Sorted returns the members as a lexically ordered slice.
func (s PermissionSet) Sorted() []Permission {
	out := make([]Permission, 0, len(s))
	for permission := range s {
		out = append(out, permission)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
