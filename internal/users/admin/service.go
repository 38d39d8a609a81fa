// Copyright (c) 2026 Aegis. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package admin implements user management for administrators: listing accounts
and changing their role.

A role change takes effect for the affected user at their next login or token
refresh; sessions already restored keep the role they were issued with.
*/
package admin

import (
	"context"
	"log/slog"

	"github.com/taibuivan/aegis/internal/access"
	"github.com/taibuivan/aegis/internal/platform/apperr"
	"github.com/taibuivan/aegis/internal/platform/ctxutil"
	"github.com/taibuivan/aegis/internal/platform/validate"
	"github.com/taibuivan/aegis/internal/users/account"
	"github.com/taibuivan/aegis/pkg/pagination"
)

// # Service Layer

// Service orchestrates account administration.
type Service struct {
	userRepository account.UserRepository
}

// NewService constructs a new [Service] with its repository dependency.
func NewService(users account.UserRepository) *Service {
	return &Service{userRepository: users}
}

/*
ListUsers returns one page of accounts ordered by creation time.

Returns:
  - []*account.User: The page
  - int: Total number of accounts
  - error: Storage failures
*/
func (service *Service) ListUsers(context context.Context, params pagination.Params) ([]*account.User, int, error) {
	return service.userRepository.List(context, params.Limit, params.Offset())
}

// ChangeRoleInput names the target account and its new role.
type ChangeRoleInput struct {
	UserID string
	Role   string
}

/*
ChangeRole assigns a new role to an account.

Description: Only user, moderator and admin are assignable. An administrator
cannot change their own role, which keeps at least one admin in place.

Parameters:
  - context: context.Context
  - actor: The signed-in administrator
  - input: ChangeRoleInput

Returns:
  - *account.User: The updated account
  - error: Validation, Forbidden, NotFound or storage failures
*/
func (service *Service) ChangeRole(context context.Context, actor *account.User, input ChangeRoleInput) (*account.User, error) {
	validator := &validate.Validator{}
	validator.UUID(account.FieldID, input.UserID).AssignableRole(account.FieldRole, input.Role)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	if actor != nil && actor.ID == input.UserID {
		return nil, apperr.Forbidden("Administrators cannot change their own role")
	}

	role, _ := access.ParseRole(input.Role)

	target, err := service.userRepository.FindByID(context, input.UserID)
	if err != nil {
		return nil, err
	}
	previous := target.Role

	if previous != role {
		if err := service.userRepository.UpdateRole(context, input.UserID, role); err != nil {
			return nil, err
		}
	}

	ctxutil.GetLogger(context).InfoContext(context, "user_role_changed",
		slog.String("target_id", input.UserID),
		slog.String("from", previous.String()),
		slog.String("to", role.String()),
	)

	return service.userRepository.FindByID(context, input.UserID)
}
