package models

import "time"

// ============================================================
// Furniture Catalog
// ============================================================

type Dimensions struct {
	Width  float64 `json:"width" bson:"width" yaml:"width"`
	Height float64 `json:"height" bson:"height" yaml:"height"`
	Depth  float64 `json:"depth" bson:"depth" yaml:"depth"`
}

type Furniture struct {
	ID         string     `json:"id" bson:"_id" yaml:"id"`
	Name       string     `json:"name" bson:"name" yaml:"name"`
	Category   string     `json:"category" bson:"category" yaml:"category"`
	ImageURL   string     `json:"imageUrl" bson:"image_url" yaml:"imageUrl"`
	ModelURL   string     `json:"modelUrl,omitempty" bson:"model_url" yaml:"modelUrl"`
	Dimensions Dimensions `json:"dimensions" bson:"dimensions" yaml:"dimensions"`
	CreatedAt  time.Time  `json:"createdAt" bson:"created_at" yaml:"-"`
}

// ============================================================
// Project Document
// ============================================================

// PersistedItem — элемент в сохранённом проекте. Ровно одно из CatalogItemID / ImageData заполнено.
type PersistedItem struct {
	CatalogItemID   string   `json:"catalogItemId,omitempty" bson:"catalog_item_id,omitempty"`
	ImageData       string   `json:"imageData,omitempty" bson:"image_data,omitempty"`
	Label           string   `json:"label,omitempty" bson:"label,omitempty"`
	Category        string   `json:"category" bson:"category"`
	X               float64  `json:"x" bson:"x"`
	Y               float64  `json:"y" bson:"y"`
	Width           *float64 `json:"width,omitempty" bson:"width,omitempty"`
	Height          *float64 `json:"height,omitempty" bson:"height,omitempty"`
	RotationDegrees float64  `json:"rotationDegrees" bson:"rotation_degrees"`
}

type Project struct {
	ID           string          `json:"id" bson:"_id"`
	OwnerID      string          `json:"ownerId" bson:"owner_id"`
	Title        string          `json:"title" bson:"title"`
	RoomImageRef string          `json:"roomImageRef" bson:"room_image_ref"`
	Placements   []PersistedItem `json:"placements" bson:"placements"`
	CreatedAt    time.Time       `json:"createdAt" bson:"created_at"`
	UpdatedAt    time.Time       `json:"updatedAt" bson:"updated_at"`
}
