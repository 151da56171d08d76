package layout

import (
	"path/filepath"
	"strings"

	"interior-planner/internal/planner/models"
)

// ============================================================
// Identities
// ============================================================

// SessionID живёт только в рамках одной сессии редактирования и никогда не сохраняется.
type SessionID string

// CatalogID — идентификатор мебели в каталоге, попадает в документ проекта.
type CatalogID string

// CustomCategory — категория всех пользовательских элементов.
const CustomCategory = "Custom"

// ============================================================
// Source variants
// ============================================================

// Source — источник изображения элемента: CatalogRef или InlineRef.
// Других реализаций быть не может: интерфейс закрыт неэкспортируемым методом.
type Source interface {
	isSource()
}

// CatalogRef ссылается на элемент каталога.
type CatalogRef struct {
	ItemID CatalogID
}

// InlineRef хранит изображение прямо в элементе.
type InlineRef struct {
	ImageData string
	Label     string
}

func (CatalogRef) isSource() {}
func (InlineRef) isSource()  {}

// ============================================================
// Resolver
// ============================================================

// FromCatalog строит источник и снимок категории для элемента каталога.
func FromCatalog(item models.Furniture) (Source, string) {
	return CatalogRef{ItemID: CatalogID(item.ID)}, item.Category
}

// FromUpload строит источник для загруженного пользователем файла.
func FromUpload(filename, imageData string) (Source, string) {
	base := filepath.Base(filename)
	label := strings.TrimSuffix(base, filepath.Ext(base))
	return InlineRef{ImageData: imageData, Label: label}, CustomCategory
}

// Catalog — только чтение элементов каталога по id.
type Catalog interface {
	Lookup(id CatalogID) (models.Furniture, bool)
}

// DisplayImage возвращает изображение для отображения элемента.
// Для CatalogRef, отсутствующего в каталоге, возвращается пустая строка.
func DisplayImage(src Source, catalog Catalog) string {
	switch s := src.(type) {
	case CatalogRef:
		if catalog == nil {
			return ""
		}
		item, ok := catalog.Lookup(s.ItemID)
		if !ok {
			return ""
		}
		return item.ImageURL
	case InlineRef:
		return s.ImageData
	}
	return ""
}

// CatalogIndex — каталог, проиндексированный по id.
type CatalogIndex map[CatalogID]models.Furniture

func NewCatalogIndex(items []models.Furniture) CatalogIndex {
	idx := make(CatalogIndex, len(items))
	for _, item := range items {
		idx[CatalogID(item.ID)] = item
	}
	return idx
}

func (c CatalogIndex) Lookup(id CatalogID) (models.Furniture, bool) {
	item, ok := c[id]
	return item, ok
}
