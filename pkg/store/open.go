package store

import (
	"context"

	"github.com/matzehuels/cartpile/pkg/config"
	"github.com/matzehuels/cartpile/pkg/errors"
)

// Open returns the store selected by cfg.Backend.
func Open(ctx context.Context, cfg config.StoreConfig) (Store, error) {
	switch cfg.Backend {
	case config.BackendMemory, "":
		return NewMemoryStore(cfg.TTL), nil
	case config.BackendFile:
		dir := cfg.Dir
		if dir == "" {
			var err error
			if dir, err = config.DataDir(); err != nil {
				return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "resolve store dir")
			}
		}
		return NewFileStore(dir, cfg.TTL)
	case config.BackendRedis:
		return OpenRedis(ctx, RedisOptions{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		}, cfg.TTL)
	case config.BackendMongo:
		return OpenMongo(ctx, MongoOptions{
			URI:        cfg.MongoURI,
			Database:   cfg.MongoDatabase,
			Collection: cfg.MongoCollection,
		}, cfg.TTL)
	default:
		return nil, errors.New(errors.ErrCodeUnsupported, "unknown store backend %q", cfg.Backend)
	}
}
