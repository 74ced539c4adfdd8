package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/zazzles-app/credit-ledger/internal/infrastructure/adapter/database/migration"
)

func migrateCmd() *cobra.Command {
	var seed bool

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations and exit",
		Long: `Apply database migrations and exit.

Creates or updates the ledger tables, constraints and indexes. With --seed,
also creates the demo businesses used in development.

Examples:
  credit-ledger migrate
  ZZ_ENV=development credit-ledger migrate --seed`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMigrate(cmd.Context(), seed)
		},
	}
	cmd.Flags().BoolVar(&seed, "seed", false, "create the demo businesses after migrating")
	return cmd
}

func runMigrate(ctx context.Context, seed bool) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	if err := a.connect(ctx); err != nil {
		return err
	}

	version, err := a.dbManager.MigrationManager().GetCurrentVersion(ctx)
	if err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}
	a.logger.Info("Database schema is up to date", map[string]any{"version": version})

	if !seed {
		return nil
	}
	if a.cfg.IsProduction() {
		return fmt.Errorf("refusing to seed demo businesses in production")
	}

	a.wire()
	created, err := migration.SeedDemoBusinesses(ctx, a.dbManager.DB(), a.businesses)
	if err != nil {
		return fmt.Errorf("failed to seed demo businesses: %w", err)
	}
	for _, account := range created {
		fmt.Printf("%s\t%s\n", account.Business.ID, account.Business.Name)
	}
	return nil
}
