package store

import (
	"context"
	stderrors "errors"
	"net"
	"slices"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/matzehuels/cartpile/pkg/config"
	"github.com/matzehuels/cartpile/pkg/errors"
	"github.com/matzehuels/cartpile/pkg/observability"
)

const (
	redisKeyPrefix = "cartpile:cart:"
	redisAttempts  = 3
	redisDelay     = 100 * time.Millisecond
)

// RedisStore keeps each snapshot as a JSON string under
// "cartpile:cart:<id>". Expiry uses Redis TTLs.
type RedisStore struct {
	client redis.UniversalClient
	ttl    time.Duration
}

// RedisOptions configures [OpenRedis].
type RedisOptions struct {
	Addr     string
	Password string
	DB       int
}

// NewRedisStore wraps an existing client. The store closes it on Close.
func NewRedisStore(client redis.UniversalClient, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

// OpenRedis connects to Redis and checks the connection with PING.
func OpenRedis(ctx context.Context, opts RedisOptions, ttl time.Duration) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, errors.Wrap(errors.ErrCodeStore, err, "connect to redis at %s", opts.Addr)
	}
	return NewRedisStore(client, ttl), nil
}

func redisKey(id string) string { return redisKeyPrefix + id }

func (s *RedisStore) Get(ctx context.Context, id string) (*Snapshot, error) {
	start := time.Now()
	if err := errors.ValidateCartID(id); err != nil {
		return nil, err
	}

	var data []byte
	err := retry(ctx, redisAttempts, redisDelay, func() error {
		var err error
		data, err = s.client.Get(ctx, redisKey(id)).Bytes()
		return redisErr(err)
	})
	hit := err == nil
	observability.Store().OnLoad(ctx, config.BackendRedis, hit, time.Since(start))

	switch {
	case stderrors.Is(err, redis.Nil):
		return nil, notFound(id)
	case err != nil:
		return nil, wrapStoreErr(err, "get snapshot %s", id)
	}
	return decode(data)
}

func (s *RedisStore) Set(ctx context.Context, snap *Snapshot) error {
	start := time.Now()
	if err := errors.ValidateCartID(snap.ID); err != nil {
		return err
	}
	snap.stamp(s.ttl)
	data, err := encode(snap)
	if err == nil {
		err = retry(ctx, redisAttempts, redisDelay, func() error {
			return redisErr(s.client.Set(ctx, redisKey(snap.ID), data, s.ttl).Err())
		})
		if err != nil {
			err = wrapStoreErr(err, "set snapshot %s", snap.ID)
		}
	}
	observability.Store().OnSave(ctx, config.BackendRedis, len(data), time.Since(start), err)
	return err
}

func (s *RedisStore) Delete(ctx context.Context, id string) error {
	if err := errors.ValidateCartID(id); err != nil {
		return err
	}
	err := retry(ctx, redisAttempts, redisDelay, func() error {
		return redisErr(s.client.Del(ctx, redisKey(id)).Err())
	})
	if err != nil {
		return wrapStoreErr(err, "delete snapshot %s", id)
	}
	return nil
}

func (s *RedisStore) List(ctx context.Context) ([]string, error) {
	var keys []string
	iter := s.client.Scan(ctx, 0, redisKeyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return nil, wrapStoreErr(err, "list snapshots")
	}
	return idsFromKeys(keys), nil
}

// idsFromKeys strips the key prefix and returns the sorted, unique cart IDs.
// SCAN may return a key more than once; keys outside the prefix are skipped.
func idsFromKeys(keys []string) []string {
	ids := make([]string, 0, len(keys))
	for _, k := range keys {
		id, ok := strings.CutPrefix(k, redisKeyPrefix)
		if !ok || id == "" {
			continue
		}
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return slices.Compact(ids)
}

func (s *RedisStore) Close() error { return s.client.Close() }

// redisErr marks network failures as retryable. redis.Nil is a miss, not a
// failure, and is passed through.
func redisErr(err error) error {
	var netErr net.Error
	if err != nil && stderrors.As(err, &netErr) {
		return retryable(err)
	}
	return err
}

// wrapStoreErr assigns STORE_TIMEOUT to deadline errors and STORE_ERROR to
// everything else.
func wrapStoreErr(err error, format string, args ...any) error {
	var netErr net.Error
	if stderrors.Is(err, context.DeadlineExceeded) || (stderrors.As(err, &netErr) && netErr.Timeout()) {
		return errors.Wrap(errors.ErrCodeStoreTimeout, err, format, args...)
	}
	return errors.Wrap(errors.ErrCodeStore, err, format, args...)
}

var _ Store = (*RedisStore)(nil)
