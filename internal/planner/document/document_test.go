package document

import (
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"testing"

	"interior-planner/internal/planner/geometry"
	"interior-planner/internal/planner/layout"
	"interior-planner/internal/planner/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func idsWithPrefix(prefix string) func() layout.SessionID {
	n := 0
	return func() layout.SessionID {
		n++
		return layout.SessionID(fmt.Sprintf("%s%d", prefix, n))
	}
}

func f(v float64) *float64 { return &v }

func TestRoundTrip(t *testing.T) {
	placements := []layout.Placement{
		{
			ID:        "a",
			Source:    layout.CatalogRef{ItemID: "sofa-1"},
			Category:  "Sofa",
			Transform: geometry.Transform{X: 10, Y: 20, Width: 200, Height: 100, Rotation: 90},
		},
		{
			ID:        "b",
			Source:    layout.InlineRef{ImageData: "data:abc", Label: "lamp"},
			Category:  layout.CustomCategory,
			Transform: geometry.Transform{X: 300, Y: 40, Width: 50, Height: 75, Rotation: 270},
		},
		{
			ID:        "c",
			Source:    layout.CatalogRef{ItemID: "table-2"},
			Category:  "Table",
			Transform: geometry.Transform{X: 0, Y: 0, Width: 400, Height: 400},
		},
	}

	doc, err := ToDocument("Living room", "/media/u/room.png", placements)
	require.NoError(t, err)
	title, room, restored, err := FromDocument(doc, idsWithPrefix("new-"))
	require.NoError(t, err)

	assert.Equal(t, "Living room", title)
	assert.Equal(t, "/media/u/room.png", room)
	require.Len(t, restored, len(placements))
	for i := range placements {
		assert.NotEqual(t, placements[i].ID, restored[i].ID)
		restored[i].ID = placements[i].ID
	}
	assert.Equal(t, placements, restored)
}

func TestToDocumentSourceExclusivity(t *testing.T) {
	doc, err := ToDocument("t", "r", []layout.Placement{
		{Source: layout.CatalogRef{ItemID: "sofa-1"}, Category: "Sofa", Transform: geometry.Default()},
		{Source: layout.InlineRef{ImageData: "data:abc"}, Category: layout.CustomCategory, Transform: geometry.Default()},
	})
	require.NoError(t, err)
	require.Len(t, doc.Placements, 2)

	catalog := doc.Placements[0]
	assert.Equal(t, "sofa-1", catalog.CatalogItemID)
	assert.Empty(t, catalog.ImageData)

	inline := doc.Placements[1]
	assert.Equal(t, "data:abc", inline.ImageData)
	assert.Empty(t, inline.CatalogItemID)
	assert.Equal(t, "Custom", inline.Category)

	raw, err := json.Marshal(doc.Placements)
	require.NoError(t, err)
	var generic []map[string]any
	require.NoError(t, json.Unmarshal(raw, &generic))
	assert.NotContains(t, generic[0], "imageData")
	assert.NotContains(t, generic[1], "catalogItemId")
	assert.NotContains(t, generic[0], "sessionId")
	assert.NotContains(t, generic[0], "id")
}

func TestToDocumentRejectsEmptySource(t *testing.T) {
	tests := []struct {
		name   string
		source layout.Source
	}{
		{"inline without image", layout.InlineRef{Label: "lamp"}},
		{"catalog without id", layout.CatalogRef{}},
		{"no source", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := ToDocument("Room", "room.png", []layout.Placement{
				{ID: "a", Source: layout.CatalogRef{ItemID: "sofa-1"}, Category: "Sofa", Transform: geometry.Default()},
				{ID: "b", Source: tt.source, Category: layout.CustomCategory, Transform: geometry.Default()},
			})

			var malformed *MalformedPlacementError
			require.ErrorAs(t, err, &malformed)
			assert.Equal(t, 1, malformed.Index)
			assert.Empty(t, doc.Placements)
		})
	}
}

func TestFromDocumentMalformed(t *testing.T) {
	tests := []struct {
		name string
		item models.PersistedItem
	}{
		{"neither", models.PersistedItem{Category: "Sofa"}},
		{"both", models.PersistedItem{CatalogItemID: "sofa-1", ImageData: "data:abc"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := models.Project{Placements: []models.PersistedItem{
				{CatalogItemID: "ok"},
				tt.item,
			}}
			_, _, placements, err := FromDocument(doc, idsWithPrefix("p"))

			var malformed *MalformedPlacementError
			require.ErrorAs(t, err, &malformed)
			assert.Equal(t, 1, malformed.Index)
			assert.Nil(t, placements)
		})
	}
}

func TestFromDocumentDefaultsSize(t *testing.T) {
	doc := models.Project{Placements: []models.PersistedItem{
		{CatalogItemID: "a"},
		{CatalogItemID: "b", Width: f(0), Height: f(150)},
	}}

	_, _, placements, err := FromDocument(doc, idsWithPrefix("p"))
	require.NoError(t, err)
	require.Len(t, placements, 2)
	assert.Equal(t, 100.0, placements[0].Transform.Width)
	assert.Equal(t, 100.0, placements[0].Transform.Height)
	assert.Equal(t, 100.0, placements[1].Transform.Width)
	assert.Equal(t, 150.0, placements[1].Transform.Height)
}

func TestFromDocumentPreservesOrder(t *testing.T) {
	doc := models.Project{Placements: []models.PersistedItem{
		{CatalogItemID: "c"},
		{CatalogItemID: "a"},
		{CatalogItemID: "b"},
	}}

	_, _, placements, err := FromDocument(doc, idsWithPrefix("p"))
	require.NoError(t, err)

	var order []layout.Source
	for _, p := range placements {
		order = append(order, p.Source)
	}
	assert.Equal(t, []layout.Source{
		layout.CatalogRef{ItemID: "c"},
		layout.CatalogRef{ItemID: "a"},
		layout.CatalogRef{ItemID: "b"},
	}, order)
}

func TestCatalogItemLifecycle(t *testing.T) {
	reg := layout.NewRegistry(geometry.EmptyCanvas, layout.WithIDGenerator(idsWithPrefix("s")))

	src, category := layout.FromCatalog(models.Furniture{ID: "sofa-1", Category: "Sofa"})
	id := reg.Add(src, category, geometry.Default())
	require.Equal(t, 1, reg.Len())

	p, _ := reg.Get(id)
	assert.Equal(t, layout.CatalogRef{ItemID: "sofa-1"}, p.Source)
	assert.Equal(t, geometry.Transform{X: 50, Y: 50, Width: 100, Height: 100}, p.Transform)

	reg.Rotate(id, 90)
	reg.Rotate(id, 90)
	p, _ = reg.Get(id)
	assert.Equal(t, 180.0, p.Transform.Rotation)

	doc, err := ToDocument("Room", "room.png", reg.Snapshot())
	require.NoError(t, err)
	require.Len(t, doc.Placements, 1)
	assert.Equal(t, "sofa-1", doc.Placements[0].CatalogItemID)
	assert.Empty(t, doc.Placements[0].ImageData)
	assert.Equal(t, 180.0, doc.Placements[0].RotationDegrees)

	_, _, restored, err := FromDocument(doc, idsWithPrefix("r"))
	require.NoError(t, err)
	require.Len(t, restored, 1)
	assert.NotEqual(t, id, restored[0].ID)
	assert.Equal(t, p.Transform, restored[0].Transform)
	assert.Equal(t, p.Source, restored[0].Source)
}

func TestCustomUploadLifecycle(t *testing.T) {
	reg := layout.NewRegistry(geometry.EmptyCanvas)

	src, category := layout.FromUpload("chair.png", "data:abc")
	reg.Add(src, category, geometry.Default())

	doc, err := ToDocument("Room", "room.png", reg.Snapshot())
	require.NoError(t, err)
	require.Len(t, doc.Placements, 1)
	assert.Equal(t, "data:abc", doc.Placements[0].ImageData)
	assert.Empty(t, doc.Placements[0].CatalogItemID)
	assert.Equal(t, "Custom", doc.Placements[0].Category)
	assert.Equal(t, "chair", doc.Placements[0].Label)
}

func TestMalformedDocumentLeavesRegistryEmpty(t *testing.T) {
	reg := layout.NewRegistry(geometry.EmptyCanvas)
	doc := models.Project{Placements: []models.PersistedItem{{Category: "Sofa", X: 1, Y: 2}}}

	_, _, placements, err := FromDocument(doc, reg.NextID)
	var malformed *MalformedPlacementError
	require.ErrorAs(t, err, &malformed)
	if err == nil {
		reg.Replace(placements)
	}
	assert.Equal(t, 0, reg.Len())
}

func TestRoundTripRandomized(t *testing.T) {
	r := rand.New(rand.NewPCG(29, 31))
	catalog := []models.Furniture{
		{ID: "sofa-1", Category: "Sofa"},
		{ID: "chair-1", Category: "Chair"},
		{ID: "lamp-1", Category: "Lighting"},
	}

	for i := 0; i < 300; i++ {
		bounds := geometry.EmptyCanvas
		if r.IntN(2) == 0 {
			bounds = geometry.RoomCanvas
		}
		reg := layout.NewRegistry(bounds, layout.WithIDGenerator(idsWithPrefix("s")))

		var ids []layout.SessionID
		for step := 0; step < 30; step++ {
			switch op := r.IntN(7); {
			case op == 0 || len(ids) == 0:
				src, category := layout.FromCatalog(catalog[r.IntN(len(catalog))])
				ids = append(ids, reg.Add(src, category, geometry.Default()))
			case op == 1:
				src, category := layout.FromUpload(fmt.Sprintf("item-%d.png", step), fmt.Sprintf("data:image/png;base64,%d", step))
				ids = append(ids, reg.Add(src, category, geometry.Default()))
			case op == 2:
				reg.Move(ids[r.IntN(len(ids))], r.Float64()*400-200, r.Float64()*400-200)
			case op == 3:
				reg.Resize(ids[r.IntN(len(ids))], r.Float64()*500, r.Float64()*500)
			case op == 4:
				reg.Rotate(ids[r.IntN(len(ids))], float64(r.IntN(3)-1)*90)
			case op == 5:
				reg.Select(ids[r.IntN(len(ids))])
			default:
				reg.Remove(ids[r.IntN(len(ids))])
			}
		}

		before := reg.Snapshot()
		doc, err := ToDocument("Room", "room.png", before)
		require.NoError(t, err, "iteration %d", i)

		_, _, after, err := FromDocument(doc, idsWithPrefix("n"))
		require.NoError(t, err, "iteration %d", i)
		require.Len(t, after, len(before))
		for j := range before {
			assert.Equal(t, before[j].Source, after[j].Source, "iteration %d item %d", i, j)
			assert.Equal(t, before[j].Category, after[j].Category)
			assert.Equal(t, before[j].Transform, after[j].Transform)
			assert.GreaterOrEqual(t, after[j].Transform.X, 0.0)
			assert.LessOrEqual(t, after[j].Transform.X, bounds.Width-after[j].Transform.Width)
			assert.LessOrEqual(t, after[j].Transform.Y, bounds.Height-after[j].Transform.Height)
		}
	}
}
