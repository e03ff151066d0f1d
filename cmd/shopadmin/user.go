// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/olegiv/shopadmin/internal/store"
)

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage admin accounts",
}

var (
	userEmail    string
	userPassword string
	userName     string
)

var userCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create an admin account or reset its password",
	RunE: func(cmd *cobra.Command, args []string) error {
		if userEmail == "" || userPassword == "" {
			return errors.New("--email and --password are required")
		}

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		db, err := openDatabase(cfg)
		if err != nil {
			return err
		}
		defer func() { _ = db.Close() }()

		user, err := store.CreateAdmin(cmd.Context(), store.New(db), userEmail, userPassword, userName)
		if err != nil {
			return fmt.Errorf("creating user: %w", err)
		}
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "user %d (%s) ready\n", user.ID, user.Email)
		return nil
	},
}

func init() {
	userCreateCmd.Flags().StringVar(&userEmail, "email", "", "Account email")
	userCreateCmd.Flags().StringVar(&userPassword, "password", "", "Account password")
	userCreateCmd.Flags().StringVar(&userName, "name", store.DefaultAdminName, "Display name")
	userCmd.AddCommand(userCreateCmd)
}
