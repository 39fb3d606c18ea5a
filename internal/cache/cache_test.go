package cache

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/Varun5711/attendly/internal/logger"
	usermodel "github.com/Varun5711/attendly/internal/models/user"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *logger.Logger {
	return logger.NewWithConfig("cache-test", logger.Config{Out: &bytes.Buffer{}})
}

func newRedisCache(t *testing.T, capacity int) (*ProfileCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewProfileCache(capacity, client, time.Minute, testLogger()), mr
}

func sampleProfile(id string) *usermodel.Profile {
	return &usermodel.Profile{
		UserID:    id,
		Email:     id + "@example.com",
		Name:      "User " + id,
		CreatedAt: time.Date(2025, 3, 10, 1, 0, 0, 0, time.UTC),
	}
}

func TestProfileCache_L1Only(t *testing.T) {
	ctx := context.Background()
	c := NewProfileCache(10, nil, time.Minute, testLogger())

	_, found := c.Get(ctx, "u1")
	assert.False(t, found)

	require.NoError(t, c.Set(ctx, sampleProfile("u1")))

	got, found := c.Get(ctx, "u1")
	require.True(t, found)
	assert.Equal(t, "u1@example.com", got.Email)

	got.Name = "mutated"
	again, _ := c.Get(ctx, "u1")
	assert.Equal(t, "User u1", again.Name)

	require.NoError(t, c.Delete(ctx, "u1"))
	_, found = c.Get(ctx, "u1")
	assert.False(t, found)
}

func TestProfileCache_WritesThroughToRedis(t *testing.T) {
	ctx := context.Background()
	c, mr := newRedisCache(t, 10)

	require.NoError(t, c.Set(ctx, sampleProfile("u1")))

	assert.True(t, mr.Exists(profileKey("u1")))
	assert.Equal(t, time.Minute, mr.TTL(profileKey("u1")))
}

func TestProfileCache_FallsBackToRedis(t *testing.T) {
	ctx := context.Background()
	c, _ := newRedisCache(t, 1)

	require.NoError(t, c.Set(ctx, sampleProfile("u1")))
	require.NoError(t, c.Set(ctx, sampleProfile("u2")))

	got, found := c.Get(ctx, "u1")
	require.True(t, found)
	assert.Equal(t, sampleProfile("u1"), got)
}

func TestProfileCache_ExpiredInRedis(t *testing.T) {
	ctx := context.Background()
	c, mr := newRedisCache(t, 1)

	require.NoError(t, c.Set(ctx, sampleProfile("u1")))
	require.NoError(t, c.Set(ctx, sampleProfile("u2")))
	mr.FastForward(2 * time.Minute)

	_, found := c.Get(ctx, "u1")
	assert.False(t, found)
}

func TestProfileCache_RedisDownIsAMiss(t *testing.T) {
	ctx := context.Background()
	c, mr := newRedisCache(t, 1)

	require.NoError(t, c.Set(ctx, sampleProfile("u1")))
	require.NoError(t, c.Set(ctx, sampleProfile("u2")))
	mr.Close()

	_, found := c.Get(ctx, "u1")
	assert.False(t, found)

	got, found := c.Get(ctx, "u2")
	require.True(t, found)
	assert.Equal(t, "u2", got.UserID)
}

func TestProfileCache_CorruptEntry(t *testing.T) {
	ctx := context.Background()
	c, mr := newRedisCache(t, 10)

	require.NoError(t, mr.Set(profileKey("u1"), "{not json"))

	_, found := c.Get(ctx, "u1")
	assert.False(t, found)
}
