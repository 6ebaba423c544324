// Package repository selects and opens the configured store backend.
package repository

import (
	"fmt"
	"taskmanager/internal/domain/errors"
	"taskmanager/internal/server"
	"taskmanager/repository/breaker"
	"taskmanager/repository/db"
	storage "taskmanager/repository/inmemory"
	"taskmanager/repository/mongodb"

	"github.com/sirupsen/logrus"
)

// Open connects the backend named by cfg.Store. Postgres migrations are
// applied before the pool is opened.
func Open(cfg *server.Config, logger *logrus.Logger) (breaker.Store, error) {
	switch cfg.Store {
	case server.StoreMemory:
		return storage.NewStorage(), nil
	case server.StorePostgres:
		if err := db.Migration(cfg.DBStr, cfg.MigratePath); err != nil {
			return nil, err
		}
		logger.WithField("event", "MIGRATIONS_APPLIED").Info("migrations applied")
		st, err := db.NewStorage(cfg.DBStr, logger)
		if err != nil {
			return nil, err
		}
		return st, nil
	case server.StoreMongo:
		st, err := mongodb.NewStorage(cfg.MongoURI, cfg.MongoDB, logger)
		if err != nil {
			return nil, err
		}
		return st, nil
	default:
		return nil, fmt.Errorf("%w: %q", errors.ErrUnknownStore, cfg.Store)
	}
}

// OpenGuarded opens the backend and wraps it in the circuit breaker.
func OpenGuarded(cfg *server.Config, logger *logrus.Logger) (*breaker.Storage, error) {
	st, err := Open(cfg, logger)
	if err != nil {
		return nil, err
	}
	return breaker.New(st, breaker.DefaultOptions, logger), nil
}
