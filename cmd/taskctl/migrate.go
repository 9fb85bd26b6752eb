package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"task-ai-api/internal/wire"
)

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the users and tasks tables",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDataLayer(cmd.Context(), func(ctx context.Context, data *wire.PostgresOnlyDataLayer) error {
				if err := data.PgClient.Migrate(ctx); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "migration completed")
				return nil
			})
		},
	}
}
