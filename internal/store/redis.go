// internal/store/redis.go
//
// Redis implementation of the Store interface.
//
// Keys (with the configured prefix, default "rummy:"):
//   - <prefix>room:<CODE>          JSON room document
//   - <prefix>room:<CODE>:version  integer version counter
//
// Writes that touch both keys run in MULTI/EXEC; CompareAndSwap WATCHes
// both so a concurrent writer aborts the transaction (redis.TxFailedErr).

package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/rummy-rooms/internal/game"
)

// RedisStore keeps rooms as JSON strings in Redis.
type RedisStore struct {
	client    *redis.Client
	keyPrefix string
}

// NewRedisStore wraps an existing client. An empty prefix defaults to "rummy:".
func NewRedisStore(client *redis.Client, keyPrefix string) *RedisStore {
	if client == nil {
		panic("redis client cannot be nil for RedisStore")
	}
	if keyPrefix == "" {
		keyPrefix = "rummy:"
	}
	return &RedisStore{client: client, keyPrefix: keyPrefix}
}

// DialRedis parses a redis:// URL, connects and pings.
func DialRedis(ctx context.Context, url, keyPrefix string) (*RedisStore, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("redis: parse url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis: ping %s: %w", opts.Addr, err)
	}
	return NewRedisStore(client, keyPrefix), nil
}

func (r *RedisStore) roomKey(code string) string {
	return fmt.Sprintf("%sroom:%s", r.keyPrefix, code)
}

func (r *RedisStore) versionKey(code string) string {
	return fmt.Sprintf("%sroom:%s:version", r.keyPrefix, code)
}

func (r *RedisStore) Get(ctx context.Context, code string) (*game.Room, Version, error) {
	vals, err := r.client.MGet(ctx, r.roomKey(code), r.versionKey(code)).Result()
	if err != nil {
		return nil, 0, fmt.Errorf("redis: get room %s: %w", code, err)
	}
	return parseRedisRoom(code, vals[0], vals[1])
}

func (r *RedisStore) Create(ctx context.Context, room *game.Room) error {
	data, err := json.Marshal(room)
	if err != nil {
		return err
	}
	key := r.roomKey(room.Code)
	err = r.client.Watch(ctx, func(tx *redis.Tx) error {
		n, err := tx.Exists(ctx, key).Result()
		if err != nil {
			return err
		}
		if n > 0 {
			return ErrExists
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, data, 0)
			pipe.Set(ctx, r.versionKey(room.Code), 1, 0)
			return nil
		})
		return err
	}, key)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrExists), errors.Is(err, redis.TxFailedErr):
		// Someone else took the code between WATCH and EXEC.
		return ErrExists
	default:
		return fmt.Errorf("redis: create room %s: %w", room.Code, err)
	}
}

func (r *RedisStore) Put(ctx context.Context, room *game.Room) (Version, error) {
	data, err := json.Marshal(room)
	if err != nil {
		return 0, err
	}
	var incr *redis.IntCmd
	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, r.roomKey(room.Code), data, 0)
		incr = pipe.Incr(ctx, r.versionKey(room.Code))
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("redis: put room %s: %w", room.Code, err)
	}
	return Version(incr.Val()), nil
}

// errStaleVersion aborts a WATCH callback when the stored version moved on.
var errStaleVersion = errors.New("redis: stale version")

func (r *RedisStore) CompareAndSwap(ctx context.Context, expected Version, room *game.Room) (bool, error) {
	data, err := json.Marshal(room)
	if err != nil {
		return false, err
	}
	key, vkey := r.roomKey(room.Code), r.versionKey(room.Code)

	err = r.client.Watch(ctx, func(tx *redis.Tx) error {
		vals, err := tx.MGet(ctx, key, vkey).Result()
		if err != nil {
			return err
		}
		_, current, err := parseRedisRoom(room.Code, vals[0], vals[1])
		if err != nil {
			return err
		}
		if current != expected {
			return errStaleVersion
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, data, 0)
			pipe.Incr(ctx, vkey)
			return nil
		})
		return err
	}, key, vkey)

	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, errStaleVersion), errors.Is(err, redis.TxFailedErr):
		log.Debug().Str("room", room.Code).Uint64("expected", uint64(expected)).Msg("redis cas lost race")
		return false, nil
	case errors.Is(err, ErrNotFound):
		return false, ErrNotFound
	default:
		return false, fmt.Errorf("redis: cas room %s: %w", room.Code, err)
	}
}

// Close closes the Redis client.
func (r *RedisStore) Close() error { return r.client.Close() }

// parseRedisRoom turns MGET results (nil or string) into a room + version.
func parseRedisRoom(code string, rawRoom, rawVersion interface{}) (*game.Room, Version, error) {
	s, ok := rawRoom.(string)
	if !ok {
		return nil, 0, ErrNotFound
	}
	room, err := decodeRoom([]byte(s))
	if err != nil {
		return nil, 0, fmt.Errorf("redis: room %s: %w", code, err)
	}
	var v uint64
	if vs, ok := rawVersion.(string); ok {
		v, err = strconv.ParseUint(vs, 10, 64)
		if err != nil {
			return nil, 0, fmt.Errorf("redis: parse version %q for room %s: %w", vs, code, err)
		}
	}
	return room, Version(v), nil
}
