// Package session управляет одной сессией редактирования: загрузка каталога и проекта,
// мутации холста и сохранение документа.
package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"interior-planner/internal/planner/document"
	"interior-planner/internal/planner/geometry"
	"interior-planner/internal/planner/layout"
	"interior-planner/internal/planner/models"

	"golang.org/x/sync/errgroup"
)

// ============================================================
// Collaborators
// ============================================================

type CatalogProvider interface {
	ListFurniture(ctx context.Context) ([]models.Furniture, error)
}

type ProjectStore interface {
	LoadProject(ctx context.Context, id string) (*models.Project, error)
	SaveProject(ctx context.Context, p *models.Project) (string, error)
	UpdateProject(ctx context.Context, id string, p *models.Project) error
}

// ============================================================
// State
// ============================================================

type State int

const (
	Idle State = iota
	Loading
	Ready
	Saving
	Disposed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case Ready:
		return "ready"
	case Saving:
		return "saving"
	case Disposed:
		return "disposed"
	}
	return "unknown"
}

const DefaultTitle = "My New Room Design"

// ============================================================
// Session
// ============================================================

type Session struct {
	mu sync.Mutex

	catalog CatalogProvider
	store   ProjectStore
	ownerID string
	admin   bool

	state     State
	projectID string
	docOwner  string
	title     string
	roomImage string
	index     layout.CatalogIndex
	registry  *layout.Registry
	warning   error
	savedAt   time.Time

	base   context.Context
	cancel context.CancelFunc
	newID  func() layout.SessionID
}

type Option func(*Session)

func WithIDGenerator(gen func() layout.SessionID) Option {
	return func(s *Session) { s.newID = gen }
}

// WithAdmin разрешает открывать и сохранять чужие проекты. Владелец документа не меняется.
func WithAdmin(admin bool) Option {
	return func(s *Session) { s.admin = admin }
}

// New создаёт сессию в состоянии Idle. Dispose отменяет все её внешние вызовы.
func New(catalog CatalogProvider, store ProjectStore, ownerID string, opts ...Option) *Session {
	base, cancel := context.WithCancel(context.Background())
	s := &Session{
		catalog: catalog,
		store:   store,
		ownerID: ownerID,
		title:   DefaultTitle,
		base:    base,
		cancel:  cancel,
	}
	for _, opt := range opts {
		opt(s)
	}
	var regOpts []layout.Option
	if s.newID != nil {
		regOpts = append(regOpts, layout.WithIDGenerator(s.newID))
	}
	s.registry = layout.NewRegistry(geometry.EmptyCanvas, regOpts...)
	return s
}

// Load параллельно получает каталог и (если задан projectID) проект, затем наполняет холст.
// Ошибка каталога фатальна, как и чужой проект без прав администратора.
// Ошибка проекта сохраняется в Warning, холст остаётся пустым.
func (s *Session) Load(ctx context.Context, projectID string) error {
	s.mu.Lock()
	if s.state == Disposed {
		s.mu.Unlock()
		return ErrSessionDisposed
	}
	if s.state != Idle {
		s.mu.Unlock()
		return ErrNotReady
	}
	s.state = Loading
	s.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	stop := context.AfterFunc(s.base, cancel)
	defer stop()

	var (
		items      []models.Furniture
		project    *models.Project
		projectErr error
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		items, err = s.catalog.ListFurniture(gctx)
		return err
	})
	if projectID != "" {
		g.Go(func() error {
			project, projectErr = s.store.LoadProject(gctx, projectID)
			return nil
		})
	}
	catalogErr := g.Wait()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == Disposed {
		return ErrSessionDisposed
	}
	if catalogErr != nil {
		s.state = Idle
		return &CatalogUnavailableError{Err: catalogErr}
	}

	if projectErr == nil && project != nil && project.OwnerID != s.ownerID && !s.admin {
		s.state = Idle
		return ErrProjectForbidden
	}

	s.index = layout.NewCatalogIndex(items)
	s.state = Ready
	if projectID == "" {
		return nil
	}
	if projectErr == nil && project == nil {
		projectErr = errors.New("project not found")
	}
	if projectErr != nil {
		s.warning = &ProjectLoadFailedError{ProjectID: projectID, Err: projectErr}
		return nil
	}

	title, room, placements, err := document.FromDocument(*project, s.registry.NextID)
	if err != nil {
		s.warning = &ProjectLoadFailedError{ProjectID: projectID, Err: err}
		return nil
	}
	s.projectID = projectID
	s.docOwner = project.OwnerID
	s.title = title
	s.setRoomLocked(room)
	s.registry.Replace(placements)
	return nil
}

// Save сериализует холст и передаёт документ хранилищу. Повторов нет.
func (s *Session) Save(ctx context.Context) (string, error) {
	s.mu.Lock()
	if s.state == Disposed {
		s.mu.Unlock()
		return "", ErrSessionDisposed
	}
	if s.state != Ready {
		s.mu.Unlock()
		return "", ErrNotReady
	}
	if s.roomImage == "" {
		s.mu.Unlock()
		return "", &SaveFailedError{Err: ErrRoomImageRequired}
	}
	doc, err := document.ToDocument(s.title, s.roomImage, s.registry.Snapshot())
	if err != nil {
		s.mu.Unlock()
		return "", &SaveFailedError{Err: err}
	}
	doc.OwnerID = s.ownerID
	if s.docOwner != "" {
		doc.OwnerID = s.docOwner
	}
	projectID := s.projectID
	s.state = Saving
	s.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	stop := context.AfterFunc(s.base, cancel)
	defer stop()

	if projectID != "" {
		doc.ID = projectID
		err = s.store.UpdateProject(ctx, projectID, &doc)
	} else {
		projectID, err = s.store.SaveProject(ctx, &doc)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == Disposed {
		return "", ErrSessionDisposed
	}
	s.state = Ready
	if err != nil {
		return "", &SaveFailedError{Err: err}
	}
	if s.docOwner == "" {
		s.docOwner = doc.OwnerID
	}
	s.projectID = projectID
	s.savedAt = time.Now()
	return projectID, nil
}

// Dispose отменяет незавершённые загрузку и сохранение. Их результаты отбрасываются.
func (s *Session) Dispose() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = Disposed
	s.cancel()
}

// ============================================================
// Mutations
// ============================================================

func (s *Session) AddFromCatalog(itemID string) (layout.SessionID, error) {
	var id layout.SessionID
	err := s.edit(func() error {
		item, ok := s.index.Lookup(layout.CatalogID(itemID))
		if !ok {
			return ErrCatalogItemNotFound
		}
		src, category := layout.FromCatalog(item)
		id = s.registry.Add(src, category, geometry.Default())
		return nil
	})
	return id, err
}

// AddCustom добавляет загруженное изображение. Пустые данные не принимаются.
func (s *Session) AddCustom(filename, imageData string) (layout.SessionID, error) {
	var id layout.SessionID
	err := s.edit(func() error {
		if imageData == "" {
			return ErrImageRequired
		}
		src, category := layout.FromUpload(filename, imageData)
		id = s.registry.Add(src, category, geometry.Default())
		return nil
	})
	return id, err
}

func (s *Session) Update(id layout.SessionID, patch layout.Patch) error {
	return s.edit(func() error { s.registry.Update(id, patch); return nil })
}

func (s *Session) Move(id layout.SessionID, dx, dy float64) error {
	return s.edit(func() error { s.registry.Move(id, dx, dy); return nil })
}

func (s *Session) MoveTo(id layout.SessionID, x, y float64) error {
	return s.edit(func() error { s.registry.MoveTo(id, x, y); return nil })
}

func (s *Session) Resize(id layout.SessionID, width, height float64) error {
	return s.edit(func() error { s.registry.Resize(id, width, height); return nil })
}

func (s *Session) Rotate(id layout.SessionID, delta float64) error {
	return s.edit(func() error { s.registry.Rotate(id, delta); return nil })
}

func (s *Session) Remove(id layout.SessionID) error {
	return s.edit(func() error { s.registry.Remove(id); return nil })
}

func (s *Session) Select(id layout.SessionID) error {
	return s.edit(func() error { s.registry.Select(id); return nil })
}

func (s *Session) SetTitle(title string) error {
	return s.edit(func() error {
		if title != "" {
			s.title = title
		}
		return nil
	})
}

// SetRoomImage меняет фон; размер холста зависит от наличия фотографии.
func (s *Session) SetRoomImage(ref string) error {
	return s.edit(func() error { s.setRoomLocked(ref); return nil })
}

func (s *Session) setRoomLocked(ref string) {
	s.roomImage = ref
	if ref == "" {
		s.registry.SetBounds(geometry.EmptyCanvas)
		return
	}
	s.registry.SetBounds(geometry.RoomCanvas)
}

// Saving не блокирует правки: снимок для документа уже сделан.
func (s *Session) edit(fn func() error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch s.state {
	case Ready, Saving:
		return fn()
	case Disposed:
		return ErrSessionDisposed
	}
	return ErrNotReady
}

// ============================================================
// View
// ============================================================

type PlacementView struct {
	ID            layout.SessionID   `json:"id"`
	CatalogItemID string             `json:"catalogItemId,omitempty"`
	Label         string             `json:"label,omitempty"`
	Category      string             `json:"category"`
	Image         string             `json:"image"`
	Transform     geometry.Transform `json:"transform"`
	Selected      bool               `json:"selected"`
}

type View struct {
	State      string          `json:"state"`
	ProjectID  string          `json:"projectId,omitempty"`
	Title      string          `json:"title"`
	RoomImage  string          `json:"roomImage"`
	Canvas     geometry.Bounds `json:"canvas"`
	Placements []PlacementView `json:"placements"`
	Warning    string          `json:"warning,omitempty"`
	SavedAt    *time.Time      `json:"savedAt,omitempty"`
}

// View — снимок состояния для слоя представления.
func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()

	selected, _ := s.registry.Selected()
	snapshot := s.registry.Snapshot()
	views := make([]PlacementView, 0, len(snapshot))
	for _, p := range snapshot {
		v := PlacementView{
			ID:        p.ID,
			Category:  p.Category,
			Image:     layout.DisplayImage(p.Source, s.index),
			Transform: p.Transform,
			Selected:  p.ID == selected,
		}
		switch src := p.Source.(type) {
		case layout.CatalogRef:
			v.CatalogItemID = string(src.ItemID)
		case layout.InlineRef:
			v.Label = src.Label
		}
		views = append(views, v)
	}

	out := View{
		State:      s.state.String(),
		ProjectID:  s.projectID,
		Title:      s.title,
		RoomImage:  s.roomImage,
		Canvas:     s.registry.Bounds(),
		Placements: views,
	}
	if s.warning != nil {
		out.Warning = s.warning.Error()
	}
	if !s.savedAt.IsZero() {
		saved := s.savedAt
		out.SavedAt = &saved
	}
	return out
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Warning возвращает некритичную ошибку загрузки (ProjectLoadFailedError) или nil.
func (s *Session) Warning() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.warning
}

func (s *Session) OwnerID() string {
	return s.ownerID
}

func (s *Session) ProjectID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.projectID
}

// Placements возвращает копию элементов холста.
func (s *Session) Placements() []layout.Placement {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.registry.Snapshot()
}
