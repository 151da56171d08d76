package layout

import (
	"errors"
	"fmt"

	"interior-planner/internal/planner/geometry"

	"github.com/google/uuid"
)

// ErrUnknownPlacement — устаревший или чужой идентификатор. Наружу не выходит:
// мутации с таким id ничего не делают, Get сообщает об этом через ok.
var ErrUnknownPlacement = errors.New("unknown placement")

// ============================================================
// Placement
// ============================================================

// Placement — один элемент мебели на холсте.
type Placement struct {
	ID        SessionID
	Source    Source
	Category  string
	Transform geometry.Transform
}

// Patch — частичное обновление трансформации; nil-поля не меняются.
type Patch struct {
	X        *float64 `json:"x,omitempty"`
	Y        *float64 `json:"y,omitempty"`
	Width    *float64 `json:"width,omitempty"`
	Height   *float64 `json:"height,omitempty"`
	Rotation *float64 `json:"rotationDegrees,omitempty"`
}

// ============================================================
// Registry
// ============================================================

// Registry хранит элементы текущей сессии. Порядок — z-order: последний рисуется сверху.
// Registry не потокобезопасен, синхронизацию обеспечивает владелец (сессия).
type Registry struct {
	items    []Placement
	selected SessionID
	bounds   geometry.Bounds
	newID    func() SessionID
}

type Option func(*Registry)

// WithIDGenerator подменяет генератор идентификаторов (для тестов).
func WithIDGenerator(gen func() SessionID) Option {
	return func(r *Registry) { r.newID = gen }
}

func NewRegistry(bounds geometry.Bounds, opts ...Option) *Registry {
	r := &Registry{
		bounds: bounds,
		newID:  func() SessionID { return SessionID(uuid.NewString()) },
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Add добавляет элемент в конец и возвращает его новый SessionID.
func (r *Registry) Add(src Source, category string, initial geometry.Transform) SessionID {
	id := r.uniqueID()
	r.items = append(r.items, Placement{
		ID:        id,
		Source:    src,
		Category:  category,
		Transform: geometry.Clamp(initial, r.bounds),
	})
	return id
}

// NextID выдаёт идентификатор, не занятый в реестре.
func (r *Registry) NextID() SessionID {
	return r.uniqueID()
}

func (r *Registry) uniqueID() SessionID {
	for {
		id := r.newID()
		if r.index(id) < 0 {
			return id
		}
	}
}

// Update сливает patch в трансформацию элемента.
func (r *Registry) Update(id SessionID, patch Patch) {
	r.mutate(id, func(t geometry.Transform) geometry.Transform {
		if patch.Width != nil || patch.Height != nil {
			w, h := t.Width, t.Height
			if patch.Width != nil {
				w = *patch.Width
			}
			if patch.Height != nil {
				h = *patch.Height
			}
			t = geometry.Resize(t, w, h, true)
		}
		if patch.Rotation != nil {
			t.Rotation = geometry.NormalizeRotation(*patch.Rotation)
		}
		x, y := t.X, t.Y
		if patch.X != nil {
			x = *patch.X
		}
		if patch.Y != nil {
			y = *patch.Y
		}
		return geometry.MoveTo(t, x, y, r.bounds)
	})
}

func (r *Registry) Move(id SessionID, dx, dy float64) {
	r.mutate(id, func(t geometry.Transform) geometry.Transform {
		return geometry.Move(t, dx, dy, r.bounds)
	})
}

func (r *Registry) MoveTo(id SessionID, x, y float64) {
	r.mutate(id, func(t geometry.Transform) geometry.Transform {
		return geometry.MoveTo(t, x, y, r.bounds)
	})
}

// Resize меняет размер с сохранением пропорций, которые были до начала изменения.
func (r *Registry) Resize(id SessionID, width, height float64) {
	r.mutate(id, func(t geometry.Transform) geometry.Transform {
		return geometry.Clamp(geometry.Resize(t, width, height, true), r.bounds)
	})
}

func (r *Registry) Rotate(id SessionID, delta float64) {
	r.mutate(id, func(t geometry.Transform) geometry.Transform {
		return geometry.Rotate(t, delta)
	})
}

func (r *Registry) mutate(id SessionID, fn func(geometry.Transform) geometry.Transform) {
	i, err := r.locate(id)
	if err != nil {
		return
	}
	r.items[i].Transform = fn(r.items[i].Transform)
}

// Remove удаляет элемент и снимает с него выделение.
func (r *Registry) Remove(id SessionID) {
	i, err := r.locate(id)
	if err != nil {
		return
	}
	r.items = append(r.items[:i], r.items[i+1:]...)
	if r.selected == id {
		r.selected = ""
	}
}

// Select выделяет элемент и поднимает его наверх z-order.
func (r *Registry) Select(id SessionID) {
	i, err := r.locate(id)
	if err != nil {
		return
	}
	p := r.items[i]
	r.items = append(append(r.items[:i], r.items[i+1:]...), p)
	r.selected = id
}

func (r *Registry) ClearSelection() {
	r.selected = ""
}

func (r *Registry) Selected() (SessionID, bool) {
	return r.selected, r.selected != ""
}

func (r *Registry) Get(id SessionID) (Placement, bool) {
	i, err := r.locate(id)
	if err != nil {
		return Placement{}, false
	}
	return r.items[i], true
}

func (r *Registry) Len() int {
	return len(r.items)
}

func (r *Registry) Bounds() geometry.Bounds {
	return r.bounds
}

// SetBounds меняет размер холста и возвращает все элементы внутрь.
func (r *Registry) SetBounds(b geometry.Bounds) {
	r.bounds = b
	for i := range r.items {
		r.items[i].Transform = geometry.Clamp(r.items[i].Transform, b)
	}
}

// Snapshot возвращает копию элементов в порядке отрисовки.
func (r *Registry) Snapshot() []Placement {
	out := make([]Placement, len(r.items))
	copy(out, r.items)
	return out
}

// Replace заменяет содержимое элементами из документа, сохраняя их порядок.
func (r *Registry) Replace(items []Placement) {
	r.items = make([]Placement, 0, len(items))
	r.selected = ""
	for _, p := range items {
		if p.ID == "" || r.index(p.ID) >= 0 {
			p.ID = r.uniqueID()
		}
		r.items = append(r.items, p)
	}
}

func (r *Registry) locate(id SessionID) (int, error) {
	if i := r.index(id); i >= 0 {
		return i, nil
	}
	return -1, fmt.Errorf("%w: %s", ErrUnknownPlacement, id)
}

func (r *Registry) index(id SessionID) int {
	for i := range r.items {
		if r.items[i].ID == id {
			return i
		}
	}
	return -1
}
