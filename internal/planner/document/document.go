// Package document переводит состояние холста в сохраняемый документ проекта и обратно.
package document

import (
	"fmt"

	"interior-planner/internal/planner/geometry"
	"interior-planner/internal/planner/layout"
	"interior-planner/internal/planner/models"
)

// MalformedPlacementError — элемент документа без источника или с двумя источниками сразу.
type MalformedPlacementError struct {
	Index  int
	Reason string
}

func (e *MalformedPlacementError) Error() string {
	return fmt.Sprintf("malformed placement %d: %s", e.Index, e.Reason)
}

// ============================================================
// Serialize
// ============================================================

// ToDocument убирает SessionID и производное изображение, сохраняя порядок элементов.
// Элемент без источника даёт MalformedPlacementError, документ не строится.
func ToDocument(title, roomImageRef string, placements []layout.Placement) (models.Project, error) {
	items := make([]models.PersistedItem, 0, len(placements))
	for i, p := range placements {
		item := toItem(p)
		if _, err := resolveSource(i, item); err != nil {
			return models.Project{}, err
		}
		items = append(items, item)
	}
	return models.Project{
		Title:        title,
		RoomImageRef: roomImageRef,
		Placements:   items,
	}, nil
}

func toItem(p layout.Placement) models.PersistedItem {
	width, height := p.Transform.Width, p.Transform.Height
	item := models.PersistedItem{
		Category:        p.Category,
		X:               p.Transform.X,
		Y:               p.Transform.Y,
		Width:           &width,
		Height:          &height,
		RotationDegrees: p.Transform.Rotation,
	}
	switch src := p.Source.(type) {
	case layout.CatalogRef:
		item.CatalogItemID = string(src.ItemID)
	case layout.InlineRef:
		item.ImageData = src.ImageData
		item.Label = src.Label
	}
	return item
}

// ============================================================
// Deserialize
// ============================================================

// FromDocument восстанавливает элементы с новыми SessionID. При ошибке ничего не возвращает.
func FromDocument(p models.Project, newID func() layout.SessionID) (string, string, []layout.Placement, error) {
	placements := make([]layout.Placement, 0, len(p.Placements))
	for i, item := range p.Placements {
		src, err := resolveSource(i, item)
		if err != nil {
			return "", "", nil, err
		}
		placements = append(placements, layout.Placement{
			ID:       newID(),
			Source:   src,
			Category: item.Category,
			Transform: geometry.Transform{
				X:        item.X,
				Y:        item.Y,
				Width:    orDefault(item.Width),
				Height:   orDefault(item.Height),
				Rotation: item.RotationDegrees,
			},
		})
	}
	return p.Title, p.RoomImageRef, placements, nil
}

func resolveSource(i int, item models.PersistedItem) (layout.Source, error) {
	hasCatalog := item.CatalogItemID != ""
	hasInline := item.ImageData != ""
	switch {
	case hasCatalog && hasInline:
		return nil, &MalformedPlacementError{Index: i, Reason: "both catalogItemId and imageData are set"}
	case hasCatalog:
		return layout.CatalogRef{ItemID: layout.CatalogID(item.CatalogItemID)}, nil
	case hasInline:
		return layout.InlineRef{ImageData: item.ImageData, Label: item.Label}, nil
	}
	return nil, &MalformedPlacementError{Index: i, Reason: "neither catalogItemId nor imageData is set"}
}

// Legacy documents may omit the box size.
func orDefault(v *float64) float64 {
	if v == nil || *v == 0 {
		return geometry.DefaultSize
	}
	return *v
}
