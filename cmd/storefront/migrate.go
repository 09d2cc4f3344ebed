package main

import (
	"fmt"

	"github.com/safar/storefront/internal/database"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var migrateCmd = &cobra.Command{
	Use:       "migrate [up|down]",
	Short:     "Apply or roll back the database schema",
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{string(database.Up), string(database.Down)},
	RunE:      runMigrate,
}

func runMigrate(cmd *cobra.Command, args []string) error {
	direction, err := database.ParseDirection(args[0])
	if err != nil {
		return err
	}

	cfg, logger, err := setup()
	if err != nil {
		return err
	}
	defer logger.Sync()

	ctx := cmd.Context()
	db, err := database.NewConnection(ctx, &cfg.Database)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer db.Close()

	n, err := database.Migrate(ctx, db, direction, logger)
	if err != nil {
		return err
	}

	logger.Info("migrations complete", zap.Int("count", n), zap.String("direction", string(direction)))
	return nil
}
