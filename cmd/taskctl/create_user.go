package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"task-ai-api/internal/domain/entity"
	"task-ai-api/internal/wire"
)

func createUserCmd() *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "create-user [email]",
		Short: "Create an account; the password is read from TASKCTL_PASSWORD",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			password := os.Getenv("TASKCTL_PASSWORD")
			if len(password) < entity.MinPasswordLength {
				return fmt.Errorf("TASKCTL_PASSWORD must be at least %d characters", entity.MinPasswordLength)
			}

			return withDataLayer(cmd.Context(), func(ctx context.Context, data *wire.PostgresOnlyDataLayer) error {
				exists, err := data.UserRepo.ExistsByEmail(ctx, args[0])
				if err != nil {
					return err
				}
				if exists {
					fmt.Fprintf(cmd.OutOrStdout(), "user %s already exists\n", entity.NormalizeEmail(args[0]))
					return nil
				}

				user := entity.NewUser(args[0], name)
				if err := user.SetPassword(password); err != nil {
					return fmt.Errorf("hash password: %w", err)
				}
				if err := data.UserRepo.Create(ctx, user); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "user %s created with id %s\n", user.Email, user.ID)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&name, "name", "n", "", "Display name")
	return cmd
}
