package repository

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"time"

	"interior-planner/internal/planner/models"

	"github.com/google/uuid"
	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
)

//go:embed migrations/*.sql
var migrations embed.FS

// ============================================================
// SQLite Repository
// ============================================================

type SQLiteStore struct {
	db  *sql.DB
	now func() time.Time
}

func NewSQLite(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db, now: func() time.Time { return time.Now().UTC() }}
}

// OpenSQLite открывает sqlite по указанному пути и применяет миграции.
func OpenSQLite(ctx context.Context, dbPath string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("mkdir db dir: %w", err)
	}

	dsn := fmt.Sprintf("file:%s?mode=rwc&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)", dbPath)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	s := NewSQLite(db)
	if err := s.migrate(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrations: %w", err)
	}
	return s, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) migrate(ctx context.Context) error {
	names, err := fs.Glob(migrations, "migrations/*.sql")
	if err != nil {
		return err
	}
	sort.Strings(names)
	for _, name := range names {
		data, err := migrations.ReadFile(name)
		if err != nil {
			return fmt.Errorf("read migration %s: %w", name, err)
		}
		if _, err := s.db.ExecContext(ctx, string(data)); err != nil {
			return fmt.Errorf("apply migration %s: %w", name, err)
		}
	}
	return nil
}

// ============================================================
// Furniture
// ============================================================

const furnitureColumns = `id, name, category, image_url, model_url, width, height, depth, created_at`

func (s *SQLiteStore) ListFurniture(ctx context.Context) ([]models.Furniture, error) {
	rows, err := s.db.QueryContext(ctx, `
        SELECT `+furnitureColumns+`
        FROM furniture
        ORDER BY created_at DESC, rowid DESC
    `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []models.Furniture{}
	for rows.Next() {
		f, err := scanFurniture(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *f)
	}
	return items, rows.Err()
}

func (s *SQLiteStore) GetFurniture(ctx context.Context, id string) (*models.Furniture, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+furnitureColumns+` FROM furniture WHERE id = ?`, id)
	f, err := scanFurniture(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return f, err
}

func (s *SQLiteStore) CreateFurniture(ctx context.Context, f *models.Furniture) error {
	if f.ID == "" {
		f.ID = uuid.NewString()
	}
	if f.CreatedAt.IsZero() {
		f.CreatedAt = s.now()
	}
	_, err := s.db.ExecContext(ctx, `
        INSERT INTO furniture (`+furnitureColumns+`)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
    `,
		f.ID, f.Name, f.Category, f.ImageURL, f.ModelURL,
		f.Dimensions.Width, f.Dimensions.Height, f.Dimensions.Depth,
		f.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("insert furniture: %w", err)
	}
	return nil
}

func (s *SQLiteStore) UpdateFurniture(ctx context.Context, f *models.Furniture) error {
	res, err := s.db.ExecContext(ctx, `
        UPDATE furniture
        SET name = ?, category = ?, image_url = ?, model_url = ?, width = ?, height = ?, depth = ?
        WHERE id = ?
    `,
		f.Name, f.Category, f.ImageURL, f.ModelURL,
		f.Dimensions.Width, f.Dimensions.Height, f.Dimensions.Depth, f.ID,
	)
	if err != nil {
		return fmt.Errorf("update furniture: %w", err)
	}
	return expectOne(res)
}

func (s *SQLiteStore) DeleteFurniture(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM furniture WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete furniture: %w", err)
	}
	return expectOne(res)
}

type scanner interface {
	Scan(dest ...any) error
}

func scanFurniture(row scanner) (*models.Furniture, error) {
	var (
		f       models.Furniture
		created string
	)
	err := row.Scan(&f.ID, &f.Name, &f.Category, &f.ImageURL, &f.ModelURL,
		&f.Dimensions.Width, &f.Dimensions.Height, &f.Dimensions.Depth, &created)
	if err != nil {
		return nil, err
	}
	f.CreatedAt, _ = time.Parse(time.RFC3339Nano, created)
	return &f, nil
}

// ============================================================
// Projects
// ============================================================

const projectColumns = `id, owner_id, title, room_image_ref, placements, created_at, updated_at`

func (s *SQLiteStore) LoadProject(ctx context.Context, id string) (*models.Project, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+projectColumns+` FROM projects WHERE id = ?`, id)
	p, err := scanProject(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return p, err
}

func (s *SQLiteStore) SaveProject(ctx context.Context, p *models.Project) (string, error) {
	placements, err := json.Marshal(nonNil(p.Placements))
	if err != nil {
		return "", fmt.Errorf("encode placements: %w", err)
	}
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	now := s.now()
	p.CreatedAt, p.UpdatedAt = now, now

	_, err = s.db.ExecContext(ctx, `
        INSERT INTO projects (`+projectColumns+`)
        VALUES (?, ?, ?, ?, ?, ?, ?)
    `, p.ID, p.OwnerID, p.Title, p.RoomImageRef, string(placements),
		now.Format(time.RFC3339Nano), now.Format(time.RFC3339Nano))
	if err != nil {
		return "", fmt.Errorf("insert project: %w", err)
	}
	return p.ID, nil
}

// UpdateProject проверяет владельца в том же UPDATE. Пустые title и room_image_ref
// оставляют прежние значения.
func (s *SQLiteStore) UpdateProject(ctx context.Context, id string, p *models.Project) error {
	placements, err := json.Marshal(nonNil(p.Placements))
	if err != nil {
		return fmt.Errorf("encode placements: %w", err)
	}
	now := s.now()

	res, err := s.db.ExecContext(ctx, `
        UPDATE projects
        SET title = COALESCE(NULLIF(?, ''), title),
            room_image_ref = COALESCE(NULLIF(?, ''), room_image_ref),
            placements = ?,
            updated_at = ?
        WHERE id = ? AND owner_id = ?
    `, p.Title, p.RoomImageRef, string(placements), now.Format(time.RFC3339Nano), id, p.OwnerID)
	if err != nil {
		return fmt.Errorf("update project: %w", err)
	}
	if err := expectOne(res); err != nil {
		if _, lerr := s.LoadProject(ctx, id); lerr != nil {
			return lerr
		}
		return ErrForbidden
	}

	stored, err := s.LoadProject(ctx, id)
	if err != nil {
		return err
	}
	p.ID, p.Title, p.RoomImageRef = id, stored.Title, stored.RoomImageRef
	p.CreatedAt, p.UpdatedAt = stored.CreatedAt, stored.UpdatedAt
	return nil
}

func (s *SQLiteStore) ListProjects(ctx context.Context, ownerID string) ([]models.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects`
	var args []any
	if ownerID != "" {
		query += ` WHERE owner_id = ?`
		args = append(args, ownerID)
	}
	query += ` ORDER BY created_at DESC, rowid DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	projects := []models.Project{}
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		projects = append(projects, *p)
	}
	return projects, rows.Err()
}

func (s *SQLiteStore) DeleteProject(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM projects WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete project: %w", err)
	}
	return expectOne(res)
}

func scanProject(row scanner) (*models.Project, error) {
	var (
		p                models.Project
		placements       string
		created, updated string
	)
	if err := row.Scan(&p.ID, &p.OwnerID, &p.Title, &p.RoomImageRef, &placements, &created, &updated); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(placements), &p.Placements); err != nil {
		return nil, fmt.Errorf("decode placements of %s: %w", p.ID, err)
	}
	p.CreatedAt, _ = time.Parse(time.RFC3339Nano, created)
	p.UpdatedAt, _ = time.Parse(time.RFC3339Nano, updated)
	return &p, nil
}

// ============================================================
// Helpers
// ============================================================

func expectOne(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func nonNil(items []models.PersistedItem) []models.PersistedItem {
	if items == nil {
		return []models.PersistedItem{}
	}
	return items
}
