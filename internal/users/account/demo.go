// Copyright (c) 2026 Aegis. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"time"

	"github.com/taibuivan/aegis/internal/access"
)

// DemoUsers returns the mock accounts loaded into the in-memory store, one
// per assignable role. All of them share passwordHash.
func DemoUsers(passwordHash string) []*User {
	created := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)

	return []*User{
		{
			ID:           "0194b2a0-0000-7000-8000-000000000001",
			Email:        "admin@aegis.local",
			Username:     "admin",
			FullName:     "Operations Admin",
			Role:         access.RoleAdmin,
			PasswordHash: passwordHash,
			CreatedAt:    created,
			UpdatedAt:    created,
		},
		{
			ID:           "0194b2a0-0000-7000-8000-000000000002",
			Email:        "moderator@aegis.local",
			Username:     "moderator",
			FullName:     "Field Coordinator",
			Role:         access.RoleModerator,
			PasswordHash: passwordHash,
			CreatedAt:    created.Add(time.Minute),
			UpdatedAt:    created.Add(time.Minute),
		},
		{
			ID:           "0194b2a0-0000-7000-8000-000000000003",
			Email:        "resident@aegis.local",
			Username:     "resident",
			FullName:     "Community Resident",
			Role:         access.RoleUser,
			PasswordHash: passwordHash,
			CreatedAt:    created.Add(2 * time.Minute),
			UpdatedAt:    created.Add(2 * time.Minute),
		},
	}
}
