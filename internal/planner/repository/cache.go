package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"interior-planner/internal/planner/models"

	"github.com/charmbracelet/log"
	"github.com/redis/go-redis/v9"
)

// ============================================================
// Catalog Cache
// ============================================================

const catalogCacheKey = "planner:catalog:v1"

// CachedStore кэширует список мебели в Redis. Любое изменение каталога сбрасывает кэш.
// Ошибки Redis не ломают запросы: чтение уходит в основное хранилище.
type CachedStore struct {
	Store
	rdb    *redis.Client
	ttl    time.Duration
	logger *log.Logger
}

func NewCachedStore(store Store, rdb *redis.Client, ttl time.Duration, logger *log.Logger) *CachedStore {
	return &CachedStore{Store: store, rdb: rdb, ttl: ttl, logger: logger}
}

func (s *CachedStore) ListFurniture(ctx context.Context) ([]models.Furniture, error) {
	data, err := s.rdb.Get(ctx, catalogCacheKey).Bytes()
	if err == nil {
		var items []models.Furniture
		if err := json.Unmarshal(data, &items); err == nil {
			return items, nil
		}
	} else if !errors.Is(err, redis.Nil) {
		s.logger.Warn("catalog cache read", "err", err)
	}

	items, err := s.Store.ListFurniture(ctx)
	if err != nil {
		return nil, err
	}
	if data, err := json.Marshal(items); err == nil {
		if err := s.rdb.Set(ctx, catalogCacheKey, data, s.ttl).Err(); err != nil {
			s.logger.Warn("catalog cache write", "err", err)
		}
	}
	return items, nil
}

func (s *CachedStore) CreateFurniture(ctx context.Context, f *models.Furniture) error {
	if err := s.Store.CreateFurniture(ctx, f); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *CachedStore) UpdateFurniture(ctx context.Context, f *models.Furniture) error {
	if err := s.Store.UpdateFurniture(ctx, f); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *CachedStore) DeleteFurniture(ctx context.Context, id string) error {
	if err := s.Store.DeleteFurniture(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *CachedStore) Close() error {
	rerr := s.rdb.Close()
	if err := s.Store.Close(); err != nil {
		return err
	}
	return rerr
}

func (s *CachedStore) invalidate(ctx context.Context) {
	if err := s.rdb.Del(ctx, catalogCacheKey).Err(); err != nil {
		s.logger.Warn("catalog cache invalidate", "err", err)
	}
}
