package redis

import (
	"time"

	"github.com/gomodule/redigo/redis"

	"github.com/namebid/goapi/base/ctx"
	"github.com/namebid/goapi/base/metrics"
	"github.com/namebid/goapi/domain/keys"
)

const (
	// retTTLNoKey is the return value of TTL when the key does not exist
	retTTLNoKey = -2
)

type redImpl struct {
	name  string
	met   metrics.Service
	pools *Pools
}

// Pools represents different pool types
type Pools struct {
	Src *redis.Pool
}

// New redis pool
func New(name string, metrics metrics.Service, pools *Pools) Service {
	return &redImpl{
		name:  name,
		met:   metrics,
		pools: pools,
	}
}

// NewPool builds a redigo pool toward addr
func NewPool(addr string, maxIdle, maxActive int) *redis.Pool {
	return &redis.Pool{
		MaxIdle:     maxIdle,
		MaxActive:   maxActive,
		IdleTimeout: 240 * time.Second,
		Wait:        true,
		Dial: func() (redis.Conn, error) {
			return redis.Dial("tcp", addr)
		},
		TestOnBorrow: func(c redis.Conn, t time.Time) error {
			if time.Since(t) < time.Minute {
				return nil
			}
			_, err := c.Do("PING")
			return err
		},
	}
}

func (r *redImpl) getConn() (redis.Conn, error) {
	defer r.met.BumpTime("getconn.time", "cluster", r.name).End()

	conn := r.pools.Src.Get()
	if err := conn.Err(); err != nil {
		r.met.BumpSum("getConn.err", 1, "cluster", r.name, "reason", err.Error())
		return nil, err
	}

	return conn, nil
}

func (r *redImpl) connDo(context ctx.Ctx, commandName string, args ...interface{}) (interface{}, error) {
	conn, err := r.getConn()
	if err != nil {
		return nil, err
	}

	reply, err := conn.Do(commandName, args...)

	// Closing conn explicitly asap improves redigo's performance,
	// bacause longer an connection is hold and not closed, the
	// pool need to handle more connections at the same time and
	// getConn time might burst.
	if closeErr := conn.Close(); closeErr != nil {
		r.met.BumpSum("conn.Close.err", 1, "cluster", r.name)
	}
	return reply, err
}

func (r *redImpl) Get(context ctx.Ctx, key string) ([]byte, error) {
	tags := []string{"func", "get", "cluster", r.name, "prefix", keys.GetPrefix(key)}
	defer r.met.BumpTime("time", tags...).End()

	val, err := redis.Bytes(r.connDo(context, "GET", key))
	if err == redis.ErrNil {
		r.met.BumpSum("get.miss", 1, tags...)
		return nil, ErrNotFound
	} else if err != nil {
		r.met.BumpSum("get.err", 1, tags...)
		return nil, err
	}
	return val, nil
}

func (r *redImpl) Set(context ctx.Ctx, key string, value interface{}, ttl time.Duration) error {
	tags := []string{"func", "set", "cluster", r.name, "prefix", keys.GetPrefix(key)}
	defer r.met.BumpTime("time", tags...).End()

	var err error
	if ttl > 0 {
		_, err = r.connDo(context, "SETEX", key, int(ttl.Seconds()), value)
	} else {
		_, err = r.connDo(context, "SET", key, value)
	}
	if err != nil {
		r.met.BumpSum("set.err", 1, tags...)
		return err
	}
	return nil
}

func (r *redImpl) Del(context ctx.Ctx, delKeys ...string) (int, error) {
	tags := []string{"func", "del", "cluster", r.name}
	defer r.met.BumpTime("time", tags...).End()

	args := make([]interface{}, 0, len(delKeys))
	for _, k := range delKeys {
		args = append(args, k)
	}

	cnt, err := redis.Int(r.connDo(context, "DEL", args...))
	if err != nil {
		r.met.BumpSum("del.err", 1, tags...)
		return 0, err
	}
	return cnt, nil
}

func (r *redImpl) Exists(context ctx.Ctx, key string) (bool, error) {
	tags := []string{"func", "exists", "cluster", r.name, "prefix", keys.GetPrefix(key)}
	defer r.met.BumpTime("time", tags...).End()

	res, err := redis.Int(r.connDo(context, "EXISTS", key))
	if err != nil {
		r.met.BumpSum("exists.err", 1, tags...)
		return false, err
	}
	return res == 1, nil
}

func (r *redImpl) TTL(context ctx.Ctx, key string) (int, error) {
	tags := []string{"func", "ttl", "cluster", r.name, "prefix", keys.GetPrefix(key)}
	defer r.met.BumpTime("time", tags...).End()

	ttl, err := redis.Int(r.connDo(context, "TTL", key))
	if err != nil {
		r.met.BumpSum("ttl.err", 1, tags...)
		return 0, err
	}
	if ttl == retTTLNoKey {
		return 0, ErrNotFound
	}
	return ttl, nil
}

func (r *redImpl) Incrby(context ctx.Ctx, key string, val int) (int64, error) {
	tags := []string{"func", "incrby", "cluster", r.name, "prefix", keys.GetPrefix(key)}
	defer r.met.BumpTime("time", tags...).End()

	res, err := redis.Int64(r.connDo(context, "INCRBY", key, val))
	if err != nil {
		r.met.BumpSum("incrby.err", 1, tags...)
		return 0, err
	}
	return res, nil
}

func (r *redImpl) Ping(context ctx.Ctx) error {
	defer r.met.BumpTime("time", "func", "ping", "cluster", r.name).End()

	if _, err := r.connDo(context, "PING"); err != nil {
		r.met.BumpSum("ping.err", 1, "cluster", r.name)
		return err
	}
	return nil
}
