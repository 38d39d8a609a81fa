// Copyright (c) 2026 Aegis. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package access

import "fmt"

// # Access Levels

// Level is the minimum privilege tier required to reach a route.
type Level uint8

const (
	LevelPublic Level = iota
	LevelUser
	LevelModerator
	LevelAdmin
)

// String returns the wire name of the level.
func (l Level) String() string {
	switch l {
	case LevelPublic:
		return "public"
	case LevelUser:
		return "user"
	case LevelModerator:
		return "moderator"
	case LevelAdmin:
		return "admin"
	default:
		return fmt.Sprintf("level(%d)", uint8(l))
	}
}

// ParseLevel resolves a level name.
func ParseLevel(raw string) (Level, error) {
	switch raw {
	case "public":
		return LevelPublic, nil
	case "user":
		return LevelUser, nil
	case "moderator":
		return LevelModerator, nil
	case "admin":
		return LevelAdmin, nil
	default:
		return LevelAdmin, fmt.Errorf("access: unknown access level %q", raw)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (l Level) MarshalText() ([]byte, error) {
	if l > LevelAdmin {
		return nil, fmt.Errorf("access: cannot marshal %s", l)
	}
	return []byte(l.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (l *Level) UnmarshalText(text []byte) error {
	parsed, err := ParseLevel(string(text))
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}

// SatisfiedBy reports whether role reaches this level.
//
// Undeclared levels deny.
func (l Level) SatisfiedBy(role Role) bool {
	switch l {
	case LevelPublic:
		return true
	case LevelUser:
		return IsAuthenticated(role)
	case LevelModerator:
		return role == RoleModerator || role == RoleAdmin
	case LevelAdmin:
		return role == RoleAdmin
	default:
		return false
	}
}
