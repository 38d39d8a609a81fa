// Copyright (c) 2026 Aegis. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package schema names the tables and columns of the PostgreSQL schema, so
// queries are assembled from one definition instead of repeated literals.
package schema

import "strings"

// UserAccountTable represents the 'users.account' table
type UserAccountTable struct {
	Table     string
	ID        string
	Email     string
	Username  string
	FullName  string
	Avatar    string
	Role      string
	Password  string
	CreatedAt string
	UpdatedAt string
}

// UserAccount is the schema definition for users.account
var UserAccount = UserAccountTable{
	Table:     "users.account",
	ID:        "id",
	Email:     "email",
	Username:  "username",
	FullName:  "fullname",
	Avatar:    "avatar",
	Role:      "role",
	Password:  "passwordhash",
	CreatedAt: "createdat",
	UpdatedAt: "updatedat",
}

// Columns returns all column names in insert and scan order.
func (t UserAccountTable) Columns() []string {
	return []string{
		t.ID, t.Email, t.Username, t.FullName, t.Avatar,
		t.Role, t.Password, t.CreatedAt, t.UpdatedAt,
	}
}

// SelectList returns Columns joined for a SELECT or INSERT column list.
func (t UserAccountTable) SelectList() string {
	return strings.Join(t.Columns(), ", ")
}
