package main

import (
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "plannerctl",
		Short:         "Maintenance tool for the interior planner",
		Long:          `plannerctl seeds the furniture catalog, manages administrators and inspects saved projects.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			_ = godotenv.Load()
		},
	}

	cmd.AddCommand(newSeedCmd())
	cmd.AddCommand(newCreateAdminCmd())
	cmd.AddCommand(newProjectsCmd())

	return cmd
}
