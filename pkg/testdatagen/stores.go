package testdatagen

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/Taskana/TaskanaTestDataGenerator/pkg/config"
	"github.com/Taskana/TaskanaTestDataGenerator/pkg/store"
	"github.com/Taskana/TaskanaTestDataGenerator/pkg/store/postgres"
	"github.com/Taskana/TaskanaTestDataGenerator/pkg/store/surrealdb"
)

// OpenStore connects every store kind of cfg. Several kinds are written in
// the configured order through a tee.
func OpenStore(ctx context.Context, cfg *config.Config, log zerolog.Logger) (store.Store, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	kinds := cfg.Stores()
	opened := make(map[string]store.Store, len(kinds))
	closeAll := func() {
		for _, s := range opened {
			_ = s.Close()
		}
	}

	for _, kind := range kinds {
		storeLog := log.With().Str("store", kind).Logger()
		var (
			s   store.Store
			err error
		)
		switch kind {
		case config.StoreMemory:
			s = store.NewMemory()
		case config.StorePostgres:
			s, err = postgres.New(cfg.PostgresDSN, postgres.WithLogger(storeLog))
		case config.StoreSurrealDB:
			s, err = surrealdb.New(ctx, surrealdb.Config{
				URL:       cfg.SurrealURL,
				Namespace: cfg.SurrealNamespace,
				Database:  cfg.SurrealDatabase,
				Username:  cfg.DBUserName,
				Password:  cfg.DBPassword,
			}, surrealdb.WithLogger(storeLog))
		default:
			err = errors.New("unknown store")
		}
		if err != nil {
			closeAll()
			return nil, fmt.Errorf("open %s store: %w", kind, err)
		}
		opened[kind] = s
		storeLog.Debug().Msg("store opened")
	}

	s, err := store.NewTee(opened, kinds)
	if err != nil {
		closeAll()
		return nil, err
	}
	return s, nil
}
