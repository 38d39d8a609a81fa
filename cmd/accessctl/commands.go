// Copyright (c) 2026 Aegis. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package main

import (
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"text/tabwriter"
	"time"

	"github.com/gorilla/securecookie"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/taibuivan/aegis/internal/access"
	"github.com/taibuivan/aegis/internal/guard"
	"github.com/taibuivan/aegis/internal/platform/constants"
	"github.com/taibuivan/aegis/internal/platform/migration"
	"github.com/taibuivan/aegis/internal/session"
	"github.com/taibuivan/aegis/internal/users/account"
)

// Key sizes written by the keys command. The block key selects AES-256.
const (
	hashKeyLength  = 64
	blockKeyLength = 32
)

// # Root

func newRootCommand() *cobra.Command {
	var fallback string

	root := &cobra.Command{
		Use:           "accessctl",
		Short:         "Inspect Aegis access rules and run operator tasks",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Variables already exported win over the file.
			if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
				return fmt.Errorf("read .env: %w", err)
			}
			return nil
		},
	}

	root.PersistentFlags().StringVar(&fallback, "fallback", "", "level required by unlisted paths (defaults to UNLISTED_ROUTE_LEVEL, then public)")

	table := func() (*access.RouteTable, error) {
		level, err := access.ParseLevel(firstSet(fallback, os.Getenv("UNLISTED_ROUTE_LEVEL"), access.LevelPublic.String()))
		if err != nil {
			return nil, err
		}
		return access.DefaultRoutes().WithFallback(level), nil
	}

	root.AddCommand(
		newRoutesCommand(table),
		newPermissionsCommand(),
		newCheckCommand(table),
		newKeysCommand(),
		newMigrateCommand(),
	)
	return root
}

// # Access Inspection

func newRoutesCommand(table func() (*access.RouteTable, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "routes",
		Short: "List every route and the level it requires",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			routes, err := table()
			if err != nil {
				return err
			}
			return writeRoutes(cmd.OutOrStdout(), routes)
		},
	}
}

func writeRoutes(out io.Writer, routes *access.RouteTable) error {
	writer := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(writer, "PATH\tLEVEL")
	for _, entry := range routes.Entries() {
		fmt.Fprintf(writer, "%s\t%s\n", entry.Path, entry.Level)
	}
	fmt.Fprintf(writer, "(unlisted)\t%s\n", routes.Fallback())
	return writer.Flush()
}

func newPermissionsCommand() *cobra.Command {
	var roleName string

	command := &cobra.Command{
		Use:   "permissions",
		Short: "List the effective permissions of a role",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			role, err := access.ParseRole(roleName)
			if err != nil {
				return err
			}
			for _, permission := range role.Permissions() {
				fmt.Fprintln(cmd.OutOrStdout(), permission)
			}
			return nil
		},
	}

	command.Flags().StringVar(&roleName, "role", "guest", "guest, user, moderator or admin")
	return command
}

func newCheckCommand(table func() (*access.RouteTable, error)) *cobra.Command {
	var (
		roleName  string
		path      string
		loginPath string
	)

	command := &cobra.Command{
		Use:   "check",
		Short: "Show the guard's decision for a role on a path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			routes, err := table()
			if err != nil {
				return err
			}
			role, err := access.ParseRole(roleName)
			if err != nil {
				return err
			}

			login := firstSet(loginPath, os.Getenv("LOGIN_PATH"), constants.DefaultLoginPath)
			decision := guard.New(routes, login).Decide(path, stateFor(role))
			fmt.Fprintln(cmd.OutOrStdout(), describe(decision))
			return nil
		},
	}

	command.Flags().StringVar(&roleName, "role", "guest", "guest, user, moderator or admin")
	command.Flags().StringVar(&path, "path", "/", "route path to check")
	command.Flags().StringVar(&loginPath, "login-path", "", "where anonymous visitors are sent (defaults to LOGIN_PATH)")
	return command
}

// stateFor builds a settled session holding a synthetic user of role.
func stateFor(role access.Role) session.State {
	if role == access.RoleGuest {
		return session.Anonymous()
	}
	return session.Authenticated(&account.User{
		ID:       "accessctl",
		Email:    role.String() + "@accessctl.local",
		Username: role.String(),
		Role:     role,
	})
}

func describe(decision guard.Decision) string {
	switch decision.Outcome {
	case guard.OutcomeRedirect:
		return fmt.Sprintf("redirect %s (requires %s)", decision.RedirectTo, decision.Required)
	case guard.OutcomeDenied:
		return fmt.Sprintf("denied (requires %s)", decision.Required)
	default:
		return fmt.Sprintf("%s (requires %s)", decision.Outcome, decision.Required)
	}
}

// # Operator Tasks

func newKeysCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "keys",
		Short: "Generate SESSION_HASH_KEY and SESSION_BLOCK_KEY for the cookie backend",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			hashKey := securecookie.GenerateRandomKey(hashKeyLength)
			blockKey := securecookie.GenerateRandomKey(blockKeyLength)
			if hashKey == nil || blockKey == nil {
				return errors.New("keys: random source unavailable")
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "SESSION_HASH_KEY=%s\n", hex.EncodeToString(hashKey))
			fmt.Fprintf(out, "SESSION_BLOCK_KEY=%s\n", hex.EncodeToString(blockKey))
			return nil
		},
	}
}

func newMigrateCommand() *cobra.Command {
	var (
		databaseURL   string
		migrationPath string
	)

	migrate := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the user store schema",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := cmd.Root().PersistentPreRunE(cmd, args); err != nil {
				return err
			}
			databaseURL = firstSet(databaseURL, os.Getenv("DATABASE_URL"))
			migrationPath = firstSet(migrationPath, os.Getenv("MIGRATION_PATH"), "./data/migrations")
			if databaseURL == "" {
				return errors.New("migrate: DATABASE_URL is not set")
			}
			return nil
		},
	}

	migrate.PersistentFlags().StringVar(&databaseURL, "database-url", "", "PostgreSQL URL (defaults to DATABASE_URL)")
	migrate.PersistentFlags().StringVar(&migrationPath, "path", "", "migrations directory (defaults to MIGRATION_PATH)")

	logger := func(cmd *cobra.Command) *slog.Logger {
		return slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), nil)).With(slog.String("app", "accessctl"))
	}

	migrate.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply all pending migrations",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				started := time.Now()
				if err := migration.RunUp(databaseURL, migrationPath, logger(cmd)); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "migrations applied in %s\n", time.Since(started).Round(time.Millisecond))
				return nil
			},
		},
		&cobra.Command{
			Use:   "status",
			Short: "Print the current schema version",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				status, err := migration.CurrentStatus(databaseURL, migrationPath, logger(cmd))
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), formatStatus(status))
				return nil
			},
		},
	)
	return migrate
}

func formatStatus(status migration.Status) string {
	switch {
	case status.Empty:
		return "no migrations applied"
	case status.Dirty:
		return fmt.Sprintf("version %d (dirty)", status.Version)
	default:
		return fmt.Sprintf("version %d", status.Version)
	}
}

// firstSet returns the first non-empty value.
func firstSet(values ...string) string {
	for _, value := range values {
		if value != "" {
			return value
		}
	}
	return ""
}
