package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/deliverlabs/food-ordering-service/internal/domain"
)

const menuCacheKeyPrefix = "menu:item:"

// cachedMenuRepository is a read-through Redis cache in front of a MenuRepository.
// Cache failures fall back to the underlying repository.
type cachedMenuRepository struct {
	MenuRepository
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewCachedMenuRepository wraps next with a Redis item cache. A nil client disables caching.
func NewCachedMenuRepository(next MenuRepository, client *redis.Client, ttl time.Duration, logger *zap.Logger) MenuRepository {
	if client == nil {
		return next
	}
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &cachedMenuRepository{MenuRepository: next, client: client, ttl: ttl, logger: logger}
}

func (r *cachedMenuRepository) GetByID(ctx context.Context, id string) (*domain.MenuItem, error) {
	key := menuCacheKeyPrefix + id
	raw, err := r.client.Get(ctx, key).Bytes()
	if err == nil {
		var item domain.MenuItem
		if jsonErr := json.Unmarshal(raw, &item); jsonErr == nil {
			return &item, nil
		}
	} else if !errors.Is(err, redis.Nil) {
		r.logger.Warn("menu cache read failed", zap.String("menu_item_id", id), zap.Error(err))
	}

	item, err := r.MenuRepository.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if encoded, jsonErr := json.Marshal(item); jsonErr == nil {
		if setErr := r.client.Set(ctx, key, encoded, r.ttl).Err(); setErr != nil {
			r.logger.Warn("menu cache write failed", zap.String("menu_item_id", id), zap.Error(setErr))
		}
	}
	return item, nil
}

func (r *cachedMenuRepository) Update(ctx context.Context, item *domain.MenuItem) error {
	if err := r.MenuRepository.Update(ctx, item); err != nil {
		return err
	}
	r.invalidate(ctx, item.ID)
	return nil
}

func (r *cachedMenuRepository) SetAvailable(ctx context.Context, id string, available bool) error {
	if err := r.MenuRepository.SetAvailable(ctx, id, available); err != nil {
		return err
	}
	r.invalidate(ctx, id)
	return nil
}

func (r *cachedMenuRepository) invalidate(ctx context.Context, id string) {
	if err := r.client.Del(ctx, menuCacheKeyPrefix+id).Err(); err != nil {
		r.logger.Warn("menu cache invalidation failed", zap.String("menu_item_id", id), zap.Error(err))
	}
}
