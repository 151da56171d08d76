package main

import (
	"errors"
	"fmt"

	"interior-planner/internal/auth/repository"
	"interior-planner/internal/auth/service"

	"github.com/spf13/cobra"
)

func newCreateAdminCmd() *cobra.Command {
	var name, email, password, dbPath string

	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Create an administrator or promote an existing user",
		RunE: func(cmd *cobra.Command, args []string) error {
			if email == "" {
				return errors.New("--email is required")
			}

			db, err := repository.OpenSQLite(dbPath)
			if err != nil {
				return err
			}
			defer db.Close()

			repo := repository.New(db)
			if err := repo.Init(cmd.Context()); err != nil {
				return err
			}

			u, err := service.NewAccounts(repo).EnsureAdmin(cmd.Context(), name, email, password)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "admin ready: %s (%s)\n", u.Email, u.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "Admin", "display name")
	cmd.Flags().StringVar(&email, "email", "", "admin email")
	cmd.Flags().StringVar(&password, "password", "", "password for a new account")
	cmd.Flags().StringVar(&dbPath, "db", envOr("AUTH_DB_PATH", "data/db/auth.db"), "auth SQLite database")

	return cmd
}
