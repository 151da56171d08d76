package main

import (
	"fmt"
	"text/tabwriter"

	"interior-planner/internal/planner/repository"

	"github.com/spf13/cobra"
)

func newProjectsCmd() *cobra.Command {
	var owner, dbPath string

	cmd := &cobra.Command{
		Use:   "projects",
		Short: "List saved projects, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := repository.OpenSQLite(cmd.Context(), dbPath)
			if err != nil {
				return err
			}
			defer store.Close()

			projects, err := store.ListProjects(cmd.Context(), owner)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tOWNER\tTITLE\tITEMS\tUPDATED")
			for _, p := range projects {
				fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\n", p.ID, p.OwnerID, p.Title, len(p.Placements), p.UpdatedAt.Format("2006-01-02 15:04"))
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVar(&owner, "owner", "", "only projects of this user")
	cmd.Flags().StringVar(&dbPath, "db", envOr("PLANNER_DB_PATH", "data/db/planner.db"), "planner SQLite database")

	return cmd
}
