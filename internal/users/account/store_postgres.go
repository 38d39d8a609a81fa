// Copyright (c) 2026 Aegis. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/aegis/internal/access"
	"github.com/taibuivan/aegis/internal/platform/database/schema"
	"github.com/taibuivan/aegis/internal/platform/dberr"
)

// # User Repository

// PostgresUserRepository implements [UserRepository] on the users.account table.
type PostgresUserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a new PostgreSQL implementation of [UserRepository].
func NewUserRepository(pool *pgxpool.Pool) *PostgresUserRepository {
	return &PostgresUserRepository{pool: pool}
}

var (
	accounts    = schema.UserAccount
	userColumns = accounts.SelectList()
)

// Queries over users.account, assembled once from the schema definition.
var (
	insertUserQuery = fmt.Sprintf(`INSERT INTO %s (%s) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		accounts.Table, userColumns)

	findUserByIDQuery = fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		userColumns, accounts.Table, accounts.ID)

	findUserByEmailQuery = fmt.Sprintf(`SELECT %s FROM %s WHERE lower(%s) = lower($1)`,
		userColumns, accounts.Table, accounts.Email)

	findUserByUsernameQuery = fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		userColumns, accounts.Table, accounts.Username)

	updateUserRoleQuery = fmt.Sprintf(`UPDATE %s SET %s = $2, %s = $3 WHERE %s = $1`,
		accounts.Table, accounts.Role, accounts.UpdatedAt, accounts.ID)

	countUsersQuery = fmt.Sprintf(`SELECT count(*) FROM %s`, accounts.Table)

	listUsersQuery = fmt.Sprintf(`SELECT %s FROM %s ORDER BY %s, %s LIMIT $1 OFFSET $2`,
		userColumns, accounts.Table, accounts.CreatedAt, accounts.ID)
)

/*
Create persists a new user record into the users.account table.

Parameters:
  - context: context.Context
  - user: *User (Entity to persist)

Returns:
  - error: apperr.Conflict on unique violations, or connectivity errors
*/
func (repository *PostgresUserRepository) Create(context context.Context, user *User) error {
	now := time.Now()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now

	_, err := repository.pool.Exec(context, insertUserQuery,
		user.ID,
		user.Email,
		user.Username,
		user.FullName,
		user.Avatar,
		user.Role.String(),
		user.PasswordHash,
		user.CreatedAt,
		user.UpdatedAt,
	)

	return dberr.Wrap(err, "create user")
}

// FindByID retrieves a user by primary key.
func (repository *PostgresUserRepository) FindByID(context context.Context, id string) (*User, error) {
	return repository.scanOne(repository.pool.QueryRow(context, findUserByIDQuery, id), "find user by id")
}

// FindByEmail retrieves a user by email (case-insensitive).
func (repository *PostgresUserRepository) FindByEmail(context context.Context, email string) (*User, error) {
	return repository.scanOne(repository.pool.QueryRow(context, findUserByEmailQuery, email), "find user by email")
}

// FindByUsername retrieves a user by username.
func (repository *PostgresUserRepository) FindByUsername(context context.Context, username string) (*User, error) {
	return repository.scanOne(repository.pool.QueryRow(context, findUserByUsernameQuery, username), "find user by username")
}

// UpdateRole replaces the role of an existing account.
func (repository *PostgresUserRepository) UpdateRole(context context.Context, id string, role access.Role) error {
	tag, err := repository.pool.Exec(context, updateUserRoleQuery, id, role.String(), time.Now())
	if err != nil {
		return dberr.Wrap(err, "update user role")
	}
	if tag.RowsAffected() == 0 {
		return dberr.ErrNotFound
	}
	return nil
}

/*
List returns a page of accounts ordered by creation time.

Returns:
  - []*User: Page of accounts
  - int: Total account count
  - error: Database failures
*/
func (repository *PostgresUserRepository) List(context context.Context, limit, offset int) ([]*User, int, error) {
	var total int
	if err := repository.pool.QueryRow(context, countUsersQuery).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(err, "count users")
	}

	rows, err := repository.pool.Query(context, listUsersQuery, limit, offset)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list users")
	}
	defer rows.Close()

	users := make([]*User, 0, limit)
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, 0, dberr.Wrap(err, "scan user")
		}
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, dberr.Wrap(err, "iterate users")
	}

	return users, total, nil
}

func (repository *PostgresUserRepository) scanOne(row pgx.Row, action string) (*User, error) {
	user, err := scanUser(row)
	if err != nil {
		return nil, dberr.Wrap(err, action)
	}
	return user, nil
}

// scanUser hydrates a User from a row selected with userColumns.
func scanUser(row pgx.Row) (*User, error) {
	var (
		user     User
		rawRole  string
		fullName *string
		avatar   *string
	)

	err := row.Scan(
		&user.ID,
		&user.Email,
		&user.Username,
		&fullName,
		&avatar,
		&rawRole,
		&user.PasswordHash,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	role, err := access.ParseRole(rawRole)
	if err != nil {
		return nil, fmt.Errorf("account: user %s: %w", user.ID, err)
	}
	user.Role = role

	if fullName != nil {
		user.FullName = *fullName
	}
	if avatar != nil {
		user.Avatar = *avatar
	}

	return &user, nil
}
