package store

import (
	"context"
	"fmt"

	"prouni-simulator/internal/common/config"
	"prouni-simulator/internal/common/database"
	"prouni-simulator/internal/common/logger"
)

// Open builds the repository named by cfg.Store.Driver and wraps it in a
// RecordStore. The returned close function releases the connection.
func Open(ctx context.Context, cfg *config.Config, log logger.Logger) (*RecordStore, func() error, error) {
	switch cfg.Store.Driver {
	case config.StoreMemory, "":
		return NewRecordStore(NewMemoryRepository(), cfg.Store, log), func() error { return nil }, nil

	case config.StorePostgres:
		pg, err := database.NewPostgres(ctx, cfg.Database.Postgres)
		if err != nil {
			return nil, nil, err
		}
		repo := NewPostgresRepository(pg.DB)
		if err := repo.EnsureSchema(ctx); err != nil {
			pg.Close()
			return nil, nil, err
		}
		log.Info("record store connected", map[string]interface{}{
			"driver": config.StorePostgres,
			"host":   cfg.Database.Postgres.Host,
		})
		return NewRecordStore(repo, cfg.Store, log), pg.Close, nil

	case config.StoreRedis:
		rc, err := database.NewRedis(ctx, cfg.Database.Redis)
		if err != nil {
			return nil, nil, err
		}
		log.Info("record store connected", map[string]interface{}{
			"driver":  config.StoreRedis,
			"address": cfg.Database.Redis.Address,
		})
		repo := NewRedisRepository(rc.Client, rc.KeyPrefix())
		return NewRecordStore(repo, cfg.Store, log), rc.Close, nil

	default:
		return nil, nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
}
