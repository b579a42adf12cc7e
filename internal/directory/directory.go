// Package directory resolves user display names for appointment listings.
package directory

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/go-redis/redis/v8"

	"tutor-scheduling-api/internal/model"
	"tutor-scheduling-api/internal/scheduling"
)

type Users interface {
	GetUser(ctx context.Context, id string) (model.User, error)
}

// Store reads names straight from the user table.
type Store struct {
	users Users
}

func New(users Users) *Store {
	return &Store{users: users}
}

func (d *Store) DisplayName(ctx context.Context, userID string) (string, error) {
	u, err := d.users.GetUser(ctx, userID)
	if err != nil {
		return "", err
	}
	return u.Name, nil
}

const namePrefix = "tutor-scheduling:name:" // string key per user id

func nameKey(userID string) string {
	return namePrefix + userID
}

// Cached is a read-through Redis cache in front of another directory.
// Redis failures fall back to the wrapped directory.
type Cached struct {
	next scheduling.UserDirectory
	rdb  *redis.Client
	ttl  time.Duration
	log  *log.Logger
}

func NewCached(next scheduling.UserDirectory, rdb *redis.Client, ttl time.Duration, l *log.Logger) *Cached {
	if l == nil {
		l = log.Default()
	}
	return &Cached{next: next, rdb: rdb, ttl: ttl, log: l}
}

func (c *Cached) DisplayName(ctx context.Context, userID string) (string, error) {
	name, err := c.rdb.Get(ctx, nameKey(userID)).Result()
	if err == nil {
		return name, nil
	}
	if !errors.Is(err, redis.Nil) {
		c.log.Printf("name cache get %s: %v", userID, err)
	}

	name, err = c.next.DisplayName(ctx, userID)
	if err != nil {
		return "", err
	}
	if name != "" {
		if err := c.rdb.Set(ctx, nameKey(userID), name, c.ttl).Err(); err != nil {
			c.log.Printf("name cache set %s: %v", userID, err)
		}
	}
	return name, nil
}

// Forget drops cached names, e.g. after a profile sync renamed users.
func (c *Cached) Forget(ctx context.Context, userIDs ...string) error {
	if len(userIDs) == 0 {
		return nil
	}
	pipe := c.rdb.Pipeline()
	for _, id := range userIDs {
		pipe.Del(ctx, nameKey(id))
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("forget cached names: %w", err)
	}
	return nil
}

// Dial connects to addr and checks the connection.
func Dial(ctx context.Context, addr string) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("redis ping %s: %w", addr, err)
	}
	return rdb, nil
}
