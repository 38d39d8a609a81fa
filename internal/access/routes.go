// Copyright (c) 2026 Aegis. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package access

import "sort"

// # Route Paths

const (
	RouteHome           = "/"
	RouteLogin          = "/auth/login"
	RouteSignup         = "/auth/signup"
	RouteAbout          = "/about"
	RouteDashboard      = "/dashboard"
	RouteCommunity      = "/community"
	RouteDisasterMap    = "/disaster-map"
	RouteEOP            = "/eop"
	RouteProfile        = "/profile"
	RouteEOPCreate      = "/eop/create"
	RouteModeration     = "/community/moderation"
	RouteReports        = "/reports"
	RouteCitizen        = "/citizen"
	RouteAreaSelection  = "/area-selection"
	RouteAdminUsers     = "/admin/users"
	RouteSystemSettings = "/settings/system"
)

// defaultRouteLevels is the dashboard's page access table.
var defaultRouteLevels = map[string]Level{
	RouteHome:   LevelPublic,
	RouteLogin:  LevelPublic,
	RouteSignup: LevelPublic,
	RouteAbout:  LevelPublic,

	RouteDashboard:   LevelUser,
	RouteCommunity:   LevelUser,
	RouteDisasterMap: LevelUser,
	RouteEOP:         LevelUser,
	RouteProfile:     LevelUser,

	RouteEOPCreate:  LevelModerator,
	RouteModeration: LevelModerator,
	RouteReports:    LevelModerator,

	RouteCitizen:        LevelAdmin,
	RouteAreaSelection:  LevelAdmin,
	RouteAdminUsers:     LevelAdmin,
	RouteSystemSettings: LevelAdmin,
}

// # Route Table

// RouteTable maps exact route paths to the [Level] required to reach them.
//
// Paths absent from the table resolve to the table's fallback level.
type RouteTable struct {
	levels   map[string]Level
	fallback Level
}

// RouteEntry is a single row of a [RouteTable].
type RouteEntry struct {
	Path  string `json:"path"`
	Level Level  `json:"level"`
}

// NewRouteTable copies levels into a new table with the given fallback.
func NewRouteTable(levels map[string]Level, fallback Level) *RouteTable {
	copied := make(map[string]Level, len(levels))
	for path, level := range levels {
		copied[path] = level
	}
	return &RouteTable{levels: copied, fallback: fallback}
}

// DefaultRoutes returns the dashboard table. Unlisted paths are public.
func DefaultRoutes() *RouteTable {
	return NewRouteTable(defaultRouteLevels, LevelPublic)
}

// WithFallback returns a copy of t resolving unlisted paths to fallback.
func (t *RouteTable) WithFallback(fallback Level) *RouteTable {
	return NewRouteTable(t.levels, fallback)
}

// Fallback returns the level applied to unlisted paths.
func (t *RouteTable) Fallback() Level {
	return t.fallback
}

// Required resolves the level for path by exact match.
func (t *RouteTable) Required(path string) Level {
	if level, ok := t.levels[path]; ok {
		return level
	}
	return t.fallback
}

// CanAccess reports whether role may reach path.
func (t *RouteTable) CanAccess(role Role, path string) bool {
	return t.Required(path).SatisfiedBy(role)
}

// Entries returns every row ordered by level, then path.
func (t *RouteTable) Entries() []RouteEntry {
	entries := make([]RouteEntry, 0, len(t.levels))
	for path, level := range t.levels {
		entries = append(entries, RouteEntry{Path: path, Level: level})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Level != entries[j].Level {
			return entries[i].Level < entries[j].Level
		}
		return entries[i].Path < entries[j].Path
	})
	return entries
}

// Reachable returns the listed paths that role may reach, in [Entries] order.
func (t *RouteTable) Reachable(role Role) []string {
	var paths []string
	for _, entry := range t.Entries() {
		if entry.Level.SatisfiedBy(role) {
			paths = append(paths, entry.Path)
		}
	}
	return paths
}
