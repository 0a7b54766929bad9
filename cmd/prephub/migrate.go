package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/asealnassar/crna-prep-hub/internal/config"
	"github.com/asealnassar/crna-prep-hub/internal/db"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create database tables",
	Long:  `Create all database tables and indexes if they do not exist.`,
	RunE:  runMigrate,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL environment variable is required")
	}

	ctx := context.Background()
	database, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer database.Close()

	if err := database.CreateTables(ctx); err != nil {
		return err
	}

	fmt.Println("Database tables created")
	return nil
}
