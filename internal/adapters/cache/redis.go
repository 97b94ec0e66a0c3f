package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/okian/portal/internal/domain/types"
	"github.com/okian/portal/pkg/logger"
	"github.com/okian/portal/pkg/metrics"
)

const (
	defaultTTL    = 10 * time.Minute
	defaultPrefix = "portal:report:"
	pingTimeout   = 2 * time.Second
)

// Redis shares computed reports between replicas: keys carry the dataset
// fingerprint, so replicas serving the same content read each other's
// entries. Backend failures are
// logged and counted, then treated as misses so queries never fail
// because of the cache.
type Redis struct {
	client   *redis.Client
	ttl      time.Duration
	prefix   string
	db       int
	password string
	logger   logger.Logger
}

// NewRedis connects to the server at addr and verifies it with a ping.
func NewRedis(ctx context.Context, addr string, opts ...RedisOption) (*Redis, error) {
	r := newRedis(opts...)
	r.client = redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: r.password,
		DB:       r.db,
	})

	pctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := r.client.Ping(pctx).Err(); err != nil {
		_ = r.client.Close()
		return nil, fmt.Errorf("%w: ping %s: %v", ErrUnavailable, addr, err)
	}
	return r, nil
}

func newRedis(opts ...RedisOption) *Redis {
	r := &Redis{ttl: defaultTTL, prefix: defaultPrefix}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = logger.Named("cache")
	}
	return r
}

func (r *Redis) key(k string) string { return r.prefix + k }

// Get fetches and decodes the report stored under key.
func (r *Redis) Get(ctx context.Context, key string) (types.Report, bool) {
	data, err := r.client.Get(ctx, r.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return types.Report{}, false
	}
	if err != nil {
		r.fail(ctx, "get", key, err)
		return types.Report{}, false
	}
	report, err := DecodeReport(data)
	if err != nil {
		r.fail(ctx, "decode", key, err)
		return types.Report{}, false
	}
	return report, true
}

// Set encodes r and stores it under key with the configured TTL.
func (r *Redis) Set(ctx context.Context, key string, report types.Report) {
	data, err := EncodeReport(report)
	if err != nil {
		r.fail(ctx, "encode", key, err)
		return
	}
	if err := r.client.Set(ctx, r.key(key), data, r.ttl).Err(); err != nil {
		r.fail(ctx, "set", key, err)
	}
}

// Close releases the connection pool.
func (r *Redis) Close() error {
	return r.client.Close()
}

func (r *Redis) fail(ctx context.Context, op, key string, err error) {
	metrics.RecordCacheError()
	r.logger.Warn(ctx, "redis cache "+op+" failed", logger.String("key", key), logger.Error(err))
}

// EncodeReport serializes a report for an external cache.
func EncodeReport(r types.Report) ([]byte, error) {
	return json.Marshal(r)
}

// DecodeReport is the inverse of EncodeReport.
func DecodeReport(data []byte) (types.Report, error) {
	var r types.Report
	if err := json.Unmarshal(data, &r); err != nil {
		return types.Report{}, fmt.Errorf("%w: %v", ErrCorruptEntry, err)
	}
	return r, nil
}
