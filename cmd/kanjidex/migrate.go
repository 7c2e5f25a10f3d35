package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/at-ishikawa/kanjidex/internal/database"
	"github.com/at-ishikawa/kanjidex/schemas"
)

func newMigrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the database tables used by --save-db",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			db, err := openDB(cfg)
			if err != nil {
				return err
			}
			defer func() { _ = db.Close() }()

			if err := database.Migrate(cmd.Context(), db, schemas.Migrations); err != nil {
				return fmt.Errorf("database.Migrate > %w", err)
			}
			return nil
		},
	}
}
