package repository

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/animation-service/internal/domain"
)

const animationKeyPrefix = "animation:"

// CachedAnimationRepository puts a redis read-through cache in front of an
// AnimationRepository. Cache failures fall back to the wrapped repository.
type CachedAnimationRepository struct {
	next   AnimationRepository
	client redis.Cmdable
	ttl    time.Duration
	logger *zap.Logger
}

// NewCachedAnimationRepository wraps next. A nil client disables caching.
func NewCachedAnimationRepository(next AnimationRepository, client redis.Cmdable, ttl time.Duration, logger *zap.Logger) AnimationRepository {
	if client == nil {
		return next
	}
	return &CachedAnimationRepository{next: next, client: client, ttl: ttl, logger: logger}
}

func (r *CachedAnimationRepository) Create(ctx context.Context, animation *domain.Animation) error {
	return r.next.Create(ctx, animation)
}

func (r *CachedAnimationRepository) Update(ctx context.Context, animation *domain.Animation) error {
	if err := r.next.Update(ctx, animation); err != nil {
		return err
	}
	r.evict(ctx, animation.ID)
	return nil
}

func (r *CachedAnimationRepository) GetByID(ctx context.Context, id int64) (*domain.Animation, error) {
	key := animationKey(id)

	raw, err := r.client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var cached domain.Animation
		if jsonErr := json.Unmarshal(raw, &cached); jsonErr == nil {
			return &cached, nil
		}
		r.evict(ctx, id)
	case !errors.Is(err, redis.Nil):
		r.logger.Warn("animation cache read failed", zap.Int64("animation_id", id), zap.Error(err))
	}

	animation, err := r.next.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if payload, err := json.Marshal(animation); err == nil {
		if err := r.client.Set(ctx, key, payload, r.ttl).Err(); err != nil {
			r.logger.Warn("animation cache write failed", zap.Int64("animation_id", id), zap.Error(err))
		}
	}
	return animation, nil
}

func (r *CachedAnimationRepository) List(ctx context.Context) ([]domain.Animation, error) {
	return r.next.List(ctx)
}

func (r *CachedAnimationRepository) Delete(ctx context.Context, id int64) error {
	if err := r.next.Delete(ctx, id); err != nil {
		return err
	}
	r.evict(ctx, id)
	return nil
}

func (r *CachedAnimationRepository) evict(ctx context.Context, id int64) {
	if err := r.client.Del(ctx, animationKey(id)).Err(); err != nil {
		r.logger.Warn("animation cache evict failed", zap.Int64("animation_id", id), zap.Error(err))
	}
}

func animationKey(id int64) string {
	return animationKeyPrefix + strconv.FormatInt(id, 10)
}
