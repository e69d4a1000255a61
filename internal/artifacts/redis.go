package artifacts

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisGetter is the subset of the go-redis client the source reads with.
type RedisGetter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	MGet(ctx context.Context, keys ...string) *redis.SliceCmd
}

// RedisSource reads documents stored under <prefix>:<version>:scaler and
// <prefix>:<version>:classifier. An empty version resolves <prefix>:latest.
type RedisSource struct {
	client  RedisGetter
	prefix  string
	version string
}

func NewRedisSource(client RedisGetter, prefix, version string) *RedisSource {
	if prefix == "" {
		prefix = "cardiorisk"
	}
	return &RedisSource{client: client, prefix: prefix, version: version}
}

func (s *RedisSource) Name() string {
	if s.version == "" {
		return "redis:" + s.prefix + ":latest"
	}
	return "redis:" + s.prefix + ":" + s.version
}

func (s *RedisSource) Fetch(ctx context.Context) (RawPair, error) {
	version := s.version
	if version == "" {
		v, err := s.client.Get(ctx, latestKey(s.prefix)).Result()
		if errors.Is(err, redis.Nil) {
			return RawPair{}, fmt.Errorf("%w: no latest version under %s", ErrArtifactLoadFailure, s.prefix)
		}
		if err != nil {
			return RawPair{}, fmt.Errorf("get latest version: %w", err)
		}
		version = v
	}

	vals, err := s.client.MGet(ctx, documentKey(s.prefix, version, "scaler"), documentKey(s.prefix, version, "classifier")).Result()
	if err != nil {
		return RawPair{}, fmt.Errorf("get documents: %w", err)
	}
	if len(vals) != 2 {
		return RawPair{}, fmt.Errorf("get documents: expected 2 values, got %d", len(vals))
	}

	scalerRaw, ok := vals[0].(string)
	if !ok {
		return RawPair{}, fmt.Errorf("%w: scaler %s not found", ErrArtifactLoadFailure, version)
	}
	classifierRaw, ok := vals[1].(string)
	if !ok {
		return RawPair{}, fmt.Errorf("%w: classifier %s not found", ErrArtifactLoadFailure, version)
	}

	return RawPair{Scaler: []byte(scalerRaw), Classifier: []byte(classifierRaw)}, nil
}

// SaveToRedis validates raw and stores it, moving the latest pointer to
// its version in the same transaction.
func SaveToRedis(ctx context.Context, client redis.Cmdable, prefix string, raw RawPair) (*Bundle, error) {
	bundle, err := FromRaw(raw)
	if err != nil {
		return nil, err
	}
	if prefix == "" {
		prefix = "cardiorisk"
	}

	version := bundle.Info().Version
	_, err = client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, documentKey(prefix, version, "scaler"), raw.Scaler, 0)
		pipe.Set(ctx, documentKey(prefix, version, "classifier"), raw.Classifier, 0)
		pipe.Set(ctx, latestKey(prefix), version, 0)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("save artifacts %s: %w", version, err)
	}
	return bundle, nil
}

func documentKey(prefix, version, kind string) string {
	return fmt.Sprintf("%s:%s:%s", prefix, version, kind)
}

func latestKey(prefix string) string {
	return prefix + ":latest"
}
