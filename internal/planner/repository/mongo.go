package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"interior-planner/internal/planner/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ============================================================
// MongoDB Repository
// ============================================================

// MongoStore хранит каталог и проекты в коллекциях furniture и projects.
type MongoStore struct {
	client    *mongo.Client
	furniture *mongo.Collection
	projects  *mongo.Collection
}

func OpenMongo(ctx context.Context, uri, database string) (*MongoStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ping: %w", err)
	}

	db := client.Database(database)
	s := &MongoStore{
		client:    client,
		furniture: db.Collection("furniture"),
		projects:  db.Collection("projects"),
	}

	_, err = s.projects.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "owner_id", Value: 1}, {Key: "created_at", Value: -1}},
	})
	if err != nil {
		client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo index: %w", err)
	}
	return s, nil
}

func (s *MongoStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

var newestFirst = options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})

// ============================================================
// Furniture
// ============================================================

func (s *MongoStore) ListFurniture(ctx context.Context) ([]models.Furniture, error) {
	cur, err := s.furniture.Find(ctx, bson.M{}, newestFirst)
	if err != nil {
		return nil, err
	}
	items := []models.Furniture{}
	if err := cur.All(ctx, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (s *MongoStore) GetFurniture(ctx context.Context, id string) (*models.Furniture, error) {
	var f models.Furniture
	if err := s.furniture.FindOne(ctx, bson.M{"_id": id}).Decode(&f); err != nil {
		return nil, mapMongoErr(err)
	}
	return &f, nil
}

func (s *MongoStore) CreateFurniture(ctx context.Context, f *models.Furniture) error {
	if f.ID == "" {
		f.ID = uuid.NewString()
	}
	if f.CreatedAt.IsZero() {
		f.CreatedAt = time.Now().UTC()
	}
	if _, err := s.furniture.InsertOne(ctx, f); err != nil {
		return fmt.Errorf("insert furniture: %w", err)
	}
	return nil
}

func (s *MongoStore) UpdateFurniture(ctx context.Context, f *models.Furniture) error {
	res, err := s.furniture.UpdateOne(ctx, bson.M{"_id": f.ID}, bson.M{"$set": bson.M{
		"name":       f.Name,
		"category":   f.Category,
		"image_url":  f.ImageURL,
		"model_url":  f.ModelURL,
		"dimensions": f.Dimensions,
	}})
	if err != nil {
		return fmt.Errorf("update furniture: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MongoStore) DeleteFurniture(ctx context.Context, id string) error {
	res, err := s.furniture.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete furniture: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// ============================================================
// Projects
// ============================================================

func (s *MongoStore) LoadProject(ctx context.Context, id string) (*models.Project, error) {
	var p models.Project
	if err := s.projects.FindOne(ctx, bson.M{"_id": id}).Decode(&p); err != nil {
		return nil, mapMongoErr(err)
	}
	return &p, nil
}

func (s *MongoStore) SaveProject(ctx context.Context, p *models.Project) (string, error) {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	p.Placements = nonNil(p.Placements)
	now := time.Now().UTC()
	p.CreatedAt, p.UpdatedAt = now, now
	if _, err := s.projects.InsertOne(ctx, p); err != nil {
		return "", fmt.Errorf("insert project: %w", err)
	}
	return p.ID, nil
}

func (s *MongoStore) UpdateProject(ctx context.Context, id string, p *models.Project) error {
	existing, err := s.LoadProject(ctx, id)
	if err != nil {
		return err
	}
	if existing.OwnerID != p.OwnerID {
		return ErrForbidden
	}

	set := bson.M{
		"placements": nonNil(p.Placements),
		"updated_at": time.Now().UTC(),
	}
	if p.Title != "" {
		set["title"] = p.Title
	}
	if p.RoomImageRef != "" {
		set["room_image_ref"] = p.RoomImageRef
	}
	res, err := s.projects.UpdateOne(ctx, bson.M{"_id": id, "owner_id": p.OwnerID}, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("update project: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MongoStore) ListProjects(ctx context.Context, ownerID string) ([]models.Project, error) {
	filter := bson.M{}
	if ownerID != "" {
		filter["owner_id"] = ownerID
	}
	cur, err := s.projects.Find(ctx, filter, newestFirst)
	if err != nil {
		return nil, err
	}
	projects := []models.Project{}
	if err := cur.All(ctx, &projects); err != nil {
		return nil, err
	}
	return projects, nil
}

func (s *MongoStore) DeleteProject(ctx context.Context, id string) error {
	res, err := s.projects.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete project: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func mapMongoErr(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrNotFound
	}
	return err
}
