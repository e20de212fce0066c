package redis

import (
	"errors"
	"time"

	"github.com/namebid/goapi/base/ctx"
)

var (
	// ErrNotFound is returned when the key does not exist
	ErrNotFound = errors.New("redis key not found")
)

// Service abstracts the redis commands the app uses
type Service interface {
	// Get returns the value of key, ErrNotFound if the key does not exist
	Get(context ctx.Ctx, key string) ([]byte, error)

	// Set stores value under key with a ttl, ttl 0 means no expiration
	Set(context ctx.Ctx, key string, value interface{}, ttl time.Duration) error

	// Del removes keys, returns how many of them existed
	Del(context ctx.Ctx, keys ...string) (int, error)

	// Exists reports whether the key exists
	Exists(context ctx.Ctx, key string) (bool, error)

	// TTL returns the remaining ttl of key in seconds, -1 when the key has
	// no expire, ErrNotFound when the key does not exist
	TTL(context ctx.Ctx, key string) (int, error)

	// Incrby increments the number stored at key by val
	Incrby(context ctx.Ctx, key string, val int) (int64, error)

	// Ping checks the connection
	Ping(context ctx.Ctx) error
}
