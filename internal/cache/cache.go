package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/Varun5711/attendly/internal/logger"
	usermodel "github.com/Varun5711/attendly/internal/models/user"
	"github.com/redis/go-redis/v9"
)

const profileKeyPrefix = "attendly:profile:"

// ProfileCache keeps user profiles in an in-process LRU backed by an
// optional shared Redis tier. With a nil Redis client it is L1 only.
type ProfileCache struct {
	l1    *LRU[usermodel.Profile]
	l2    *redis.Client
	l2TTL time.Duration
	log   *logger.Logger
}

func NewProfileCache(l1Capacity int, redisClient *redis.Client, l2TTL time.Duration, log *logger.Logger) *ProfileCache {
	return &ProfileCache{
		l1:    NewLRU[usermodel.Profile](l1Capacity),
		l2:    redisClient,
		l2TTL: l2TTL,
		log:   log,
	}
}

// Get returns a copy of the cached profile. Redis failures are logged and
// treated as a miss.
func (c *ProfileCache) Get(ctx context.Context, userID string) (*usermodel.Profile, bool) {
	if profile, found := c.l1.Get(userID); found {
		return &profile, true
	}

	if c.l2 == nil {
		return nil, false
	}

	val, err := c.l2.Get(ctx, profileKey(userID)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.log.Warn("Profile cache read failed for %s: %v", userID, err)
		}
		return nil, false
	}

	var profile usermodel.Profile
	if err := json.Unmarshal(val, &profile); err != nil {
		c.log.Warn("Discarding corrupt cached profile for %s: %v", userID, err)
		return nil, false
	}

	c.l1.Set(userID, profile)
	return &profile, true
}

func (c *ProfileCache) Set(ctx context.Context, profile *usermodel.Profile) error {
	c.l1.Set(profile.UserID, *profile)

	if c.l2 == nil {
		return nil
	}

	data, err := json.Marshal(profile)
	if err != nil {
		return err
	}

	return c.l2.Set(ctx, profileKey(profile.UserID), data, c.l2TTL).Err()
}

func (c *ProfileCache) Delete(ctx context.Context, userID string) error {
	c.l1.Delete(userID)

	if c.l2 == nil {
		return nil
	}

	return c.l2.Del(ctx, profileKey(userID)).Err()
}

func profileKey(userID string) string {
	return profileKeyPrefix + userID
}
