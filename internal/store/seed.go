// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/olegiv/shopadmin/internal/auth"
)

// DefaultAdminName is used for the bootstrap admin account.
const DefaultAdminName = "Administrator"

// SeedAdmin creates the bootstrap admin account when no user exists yet.
// It is a no-op when email or password is empty or users are already present.
func SeedAdmin(ctx context.Context, db *sql.DB, email, password string) error {
	if email == "" || password == "" {
		return nil
	}

	queries := New(db)

	count, err := queries.CountUsers(ctx)
	if err != nil {
		return fmt.Errorf("counting users: %w", err)
	}
	if count > 0 {
		slog.Debug("users already exist, skipping admin seed")
		return nil
	}

	user, err := CreateAdmin(ctx, queries, email, password, DefaultAdminName)
	if err != nil {
		return err
	}

	slog.Info("created bootstrap admin user", "id", user.ID, "email", user.Email)
	return nil
}

// CreateAdmin hashes password and inserts a user. An existing account with
// the same email gets its password replaced instead. Emails are stored
// lowercased.
func CreateAdmin(ctx context.Context, queries *Queries, email, password, name string) (User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	passwordHash, err := auth.HashPassword(password)
	if err != nil {
		return User{}, fmt.Errorf("hashing password: %w", err)
	}

	now := time.Now()
	existing, err := queries.GetUserByEmail(ctx, email)
	switch {
	case err == nil:
		if err := queries.UpdateUserPassword(ctx, UpdateUserPasswordParams{
			PasswordHash: passwordHash,
			UpdatedAt:    now,
			ID:           existing.ID,
		}); err != nil {
			return User{}, fmt.Errorf("updating user password: %w", err)
		}
		return queries.GetUserByID(ctx, existing.ID)
	case !errors.Is(err, sql.ErrNoRows):
		return User{}, fmt.Errorf("checking for user: %w", err)
	}

	user, err := queries.CreateUser(ctx, CreateUserParams{
		Email:        email,
		PasswordHash: passwordHash,
		Name:         name,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return User{}, fmt.Errorf("creating user: %w", err)
	}
	return user, nil
}
