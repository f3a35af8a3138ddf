package repository

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/animation-service/internal/domain"
)

type fakeRedis struct {
	redis.Cmdable
	data    map[string][]byte
	getErr  error
	setKeys []string
	deleted []string
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{data: make(map[string][]byte)}
}

func (f *fakeRedis) Get(_ context.Context, key string) *redis.StringCmd {
	if f.getErr != nil {
		return redis.NewStringResult("", f.getErr)
	}
	val, ok := f.data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(string(val), nil)
}

func (f *fakeRedis) Set(_ context.Context, key string, value interface{}, _ time.Duration) *redis.StatusCmd {
	f.setKeys = append(f.setKeys, key)
	f.data[key] = value.([]byte)
	return redis.NewStatusResult("OK", nil)
}

func (f *fakeRedis) Del(_ context.Context, keys ...string) *redis.IntCmd {
	for _, key := range keys {
		delete(f.data, key)
		f.deleted = append(f.deleted, key)
	}
	return redis.NewIntResult(int64(len(keys)), nil)
}

func TestCachedAnimationRepository_ReadThrough(t *testing.T) {
	ctx := context.Background()
	base := NewMemoryAnimationRepository()
	cache := newFakeRedis()
	repo := NewCachedAnimationRepository(base, cache, time.Minute, zap.NewNop())

	anim := &domain.Animation{Name: "spin", Data: json.RawMessage(`{"deg":360}`)}
	require.NoError(t, repo.Create(ctx, anim))

	got, err := repo.GetByID(ctx, anim.ID)
	require.NoError(t, err)
	assert.Equal(t, "spin", got.Name)
	assert.Equal(t, []string{"animation:1"}, cache.setKeys)

	// Served from cache even after the base row changes underneath.
	require.NoError(t, base.Update(ctx, &domain.Animation{ID: anim.ID, Name: "changed"}))
	cached, err := repo.GetByID(ctx, anim.ID)
	require.NoError(t, err)
	assert.Equal(t, "spin", cached.Name)
}

func TestCachedAnimationRepository_EvictsOnWrite(t *testing.T) {
	ctx := context.Background()
	cache := newFakeRedis()
	repo := NewCachedAnimationRepository(NewMemoryAnimationRepository(), cache, time.Minute, zap.NewNop())

	anim := &domain.Animation{Name: "fade"}
	require.NoError(t, repo.Create(ctx, anim))
	_, err := repo.GetByID(ctx, anim.ID)
	require.NoError(t, err)

	anim.Name = "fade-out"
	require.NoError(t, repo.Update(ctx, anim))
	got, err := repo.GetByID(ctx, anim.ID)
	require.NoError(t, err)
	assert.Equal(t, "fade-out", got.Name)

	require.NoError(t, repo.Delete(ctx, anim.ID))
	assert.Contains(t, cache.deleted, "animation:1")
	_, err = repo.GetByID(ctx, anim.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCachedAnimationRepository_FallsBackOnCacheError(t *testing.T) {
	ctx := context.Background()
	cache := newFakeRedis()
	cache.getErr = errors.New("connection refused")
	repo := NewCachedAnimationRepository(NewMemoryAnimationRepository(), cache, time.Minute, zap.NewNop())

	anim := &domain.Animation{Name: "wave"}
	require.NoError(t, repo.Create(ctx, anim))

	got, err := repo.GetByID(ctx, anim.ID)
	require.NoError(t, err)
	assert.Equal(t, "wave", got.Name)
}

func TestNewCachedAnimationRepository_NilClient(t *testing.T) {
	base := NewMemoryAnimationRepository()
	repo := NewCachedAnimationRepository(base, nil, time.Minute, zap.NewNop())
	assert.Same(t, base, repo)
}
