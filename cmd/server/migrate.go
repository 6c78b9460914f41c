package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/blogify-press/backend-go/internal/config"
	"github.com/blogify-press/backend-go/internal/database"
	"github.com/blogify-press/backend-go/internal/logger"
)

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "migrate [up|down|status]",
		Short:     "Apply or inspect database migrations",
		Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"up", "down", "status"},
		RunE: func(cmd *cobra.Command, args []string) error {
			command := "up"
			if len(args) == 1 {
				command = args[0]
			}

			cfg := config.LoadConfig()
			appLogger := logger.New(cfg)

			db, err := database.OpenSQL(cfg)
			if err != nil {
				return err
			}
			defer db.Close()

			appLogger.Info("🔄 [Migrate] Running goose", "command", command)
			if err := database.Migrate(db, command); err != nil {
				return fmt.Errorf("migrate %s: %w", command, err)
			}
			appLogger.Info("✅ [Migrate] Done", "command", command)
			return nil
		},
	}
}
