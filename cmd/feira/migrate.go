package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lribeiro/feira/internal/cli"
)

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
		Long:  `Migrate creates or upgrades the database schema. It is safe to run repeatedly; already applied migrations are skipped.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			// initStorage runs pending migrations as part of opening the database.
			store, err := initStorage(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			fmt.Println(cli.FormatSuccess("Database schema is up to date"))
			return nil
		},
	}
}
