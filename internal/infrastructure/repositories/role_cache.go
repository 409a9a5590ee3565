package repositories

import (
	"context"

	"github.com/redis/go-redis/v9"

	"github.com/you/portalsvc/domain"
)

// RoleCacheImpl implements domain.RoleCache using Redis. It is a
// read-through cache only: the profile store always wins on conflict.
// Entries share the extended session window so a cached role never
// outlives the longest possible session.
type RoleCacheImpl struct {
	client *redis.Client
	prefix string
}

// NewRoleCache creates a new role cache
func NewRoleCache(client *redis.Client) domain.RoleCache {
	return &RoleCacheImpl{client: client, prefix: "role:"}
}

// Put implements domain.RoleCache
func (c *RoleCacheImpl) Put(ctx context.Context, phone, role string) error {
	return c.client.Set(ctx, c.prefix+phone, role, domain.ExtendedSessionExpiry).Err()
}

// Get implements domain.RoleCache. A miss returns an empty role with no
// error.
func (c *RoleCacheImpl) Get(ctx context.Context, phone string) (string, error) {
	val, err := c.client.Get(ctx, c.prefix+phone).Result()
	if err != nil {
		if err == redis.Nil {
			return "", nil
		}
		return "", err
	}
	return val, nil
}
