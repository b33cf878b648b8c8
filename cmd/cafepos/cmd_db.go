package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"cafepos/config"
	"cafepos/database/seeders"
	"cafepos/pkg/database"
	"cafepos/pkg/migration"
)

func bootDB() error {
	if err := config.Load(); err != nil {
		return err
	}
	return database.Connect()
}

// cafepos migrate: run all pending migrations in a single batch.
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run pending database migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := bootDB(); err != nil {
			return err
		}
		defer database.Close()

		return migration.New(database.DB).Run()
	},
}

// cafepos migrate:rollback: undo the last batch of migrations.
var migrateRollbackCmd = &cobra.Command{
	Use:   "migrate:rollback",
	Short: "Roll back the last batch of migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := bootDB(); err != nil {
			return err
		}
		defer database.Close()

		return migration.New(database.DB).Rollback()
	},
}

// cafepos migrate:status: show which migrations have run and in what batch.
var migrateStatusCmd = &cobra.Command{
	Use:   "migrate:status",
	Short: "Show migration status",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := bootDB(); err != nil {
			return err
		}
		defer database.Close()

		return migration.New(database.DB).Status()
	},
}

// cafepos seed: populate the database with starter data.
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with starter data",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := bootDB(); err != nil {
			return err
		}
		defer database.Close()

		if err := seeders.RunAll(database.DB); err != nil {
			return err
		}
		fmt.Println("Database seeded.")
		return nil
	},
}
