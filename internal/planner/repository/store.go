package repository

import (
	"context"
	"errors"

	"interior-planner/internal/planner/models"
)

var (
	ErrNotFound  = errors.New("not found")
	ErrForbidden = errors.New("forbidden")
)

// Store — каталог мебели и документы проектов.
type Store interface {
	ListFurniture(ctx context.Context) ([]models.Furniture, error)
	GetFurniture(ctx context.Context, id string) (*models.Furniture, error)
	CreateFurniture(ctx context.Context, f *models.Furniture) error
	UpdateFurniture(ctx context.Context, f *models.Furniture) error
	DeleteFurniture(ctx context.Context, id string) error

	LoadProject(ctx context.Context, id string) (*models.Project, error)
	SaveProject(ctx context.Context, p *models.Project) (string, error)
	// UpdateProject возвращает ErrForbidden, если владелец документа не совпадает.
	UpdateProject(ctx context.Context, id string, p *models.Project) error
	// ListProjects возвращает проекты владельца (все при пустом ownerID), новые первыми.
	ListProjects(ctx context.Context, ownerID string) ([]models.Project, error)
	DeleteProject(ctx context.Context, id string) error

	Close() error
}

var (
	_ Store = (*SQLiteStore)(nil)
	_ Store = (*MongoStore)(nil)
	_ Store = (*CachedStore)(nil)
)
