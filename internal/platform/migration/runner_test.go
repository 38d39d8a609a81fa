// Copyright (c) 2026 Aegis. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package migration_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/aegis/internal/platform/migration"
)

func TestToPgx5DSN(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"postgres://aegis:pw@db:5432/aegis", "pgx5://aegis:pw@db:5432/aegis"},
		{"postgresql://db/aegis?sslmode=disable", "pgx5://db/aegis?sslmode=disable"},
		{"pgx5://db/aegis", "pgx5://db/aegis"},
		{"host=db dbname=aegis", "host=db dbname=aegis"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, migration.ToPgx5DSN(tt.in))
	}
}
