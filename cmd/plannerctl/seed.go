package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"interior-planner/internal/planner/models"
	"interior-planner/internal/planner/repository"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

type catalogFile struct {
	Furniture []models.Furniture `yaml:"furniture"`
}

func newSeedCmd() *cobra.Command {
	var file, dbPath string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load furniture catalog entries from a YAML file",
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(file)
			if err != nil {
				return err
			}
			defer f.Close()

			items, err := readCatalog(f)
			if err != nil {
				return err
			}

			store, err := repository.OpenSQLite(cmd.Context(), dbPath)
			if err != nil {
				return err
			}
			defer store.Close()

			created, updated, err := seedCatalog(cmd.Context(), store, items)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "catalog seeded: %d created, %d updated\n", created, updated)
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "catalog.yaml", "catalog YAML file")
	cmd.Flags().StringVar(&dbPath, "db", envOr("PLANNER_DB_PATH", "data/db/planner.db"), "planner SQLite database")

	return cmd
}

// readCatalog разбирает YAML с ключом furniture и проверяет обязательные поля.
func readCatalog(r io.Reader) ([]models.Furniture, error) {
	var doc catalogFile
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	for i, f := range doc.Furniture {
		if f.Name == "" || f.ImageURL == "" {
			return nil, fmt.Errorf("catalog entry %d: name and imageUrl are required", i)
		}
	}
	return doc.Furniture, nil
}

// seedCatalog обновляет записи с известным id и создаёт остальные.
func seedCatalog(ctx context.Context, store repository.Store, items []models.Furniture) (created, updated int, err error) {
	for i := range items {
		f := &items[i]
		if f.ID != "" {
			_, err := store.GetFurniture(ctx, f.ID)
			switch {
			case err == nil:
				if err := store.UpdateFurniture(ctx, f); err != nil {
					return created, updated, fmt.Errorf("update %s: %w", f.ID, err)
				}
				updated++
				continue
			case !errors.Is(err, repository.ErrNotFound):
				return created, updated, err
			}
		}
		if err := store.CreateFurniture(ctx, f); err != nil {
			return created, updated, fmt.Errorf("create %q: %w", f.Name, err)
		}
		created++
	}
	return created, updated, nil
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
