// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"portfolio/internal/config"
	"portfolio/internal/database"
)

var adminCmd = &cobra.Command{
	Use:   "admin",
	Short: "Manage the admin credential",
}

var provisionCmd = &cobra.Command{
	Use:   "provision",
	Short: "Store ADMIN_USERNAME / ADMIN_PASSWORD as the single admin",
	Long: `Hash ADMIN_PASSWORD with bcrypt and make it, together with
ADMIN_USERNAME, the only stored admin credential. An existing admin is
overwritten and any others are removed.

Examples:
  ADMIN_USERNAME=owner ADMIN_PASSWORD=... portfolio admin provision`,
	Args: cobra.NoArgs,
	RunE: runProvision,
}

func init() {
	rootCmd.AddCommand(adminCmd)
	adminCmd.AddCommand(provisionCmd)
}

func runProvision(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}
	slog.SetDefault(cfg.Logger())

	db, err := database.Connect(cfg.DSN())
	if err != nil {
		return err
	}
	defer db.Close()
	if err := database.Migrate(db); err != nil {
		return err
	}

	if err := database.ProvisionAdmin(cmd.Context(), db, cfg.AdminUsername, cfg.AdminPassword); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "admin %q provisioned\n", cfg.AdminUsername)
	return nil
}
