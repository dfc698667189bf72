package dagflow

import (
	"github.com/juju/errors"
	"github.com/warriorguo/dagflow/runtime"
	"github.com/warriorguo/dagflow/store"
	"github.com/warriorguo/dagflow/store/badger"
	"github.com/warriorguo/dagflow/store/mem"
	"github.com/warriorguo/dagflow/store/postgres"
	"github.com/warriorguo/dagflow/types"
)

// NewEngine creates a workflow engine with the given options
func NewEngine(opts ...types.Option) (types.Engine, error) {
	options := types.NewOptions()
	for _, opt := range opts {
		opt(options)
	}

	var s store.Store
	var err error

	// PostgresConfig takes precedence over BadgerConfig and MemStore
	if options.PostgresConfig != nil {
		pgConfig := &postgres.Config{
			Host:     options.PostgresConfig.Host,
			Port:     options.PostgresConfig.Port,
			User:     options.PostgresConfig.User,
			Password: options.PostgresConfig.Password,
			Database: options.PostgresConfig.Database,
			SSLMode:  options.PostgresConfig.SSLMode,
		}

		s, err = postgres.NewPostgresStore(pgConfig)
		if err != nil {
			return nil, errors.Annotatef(err, "failed to create PostgreSQL store")
		}
	} else if options.BadgerConfig != nil {
		bConfig := &badger.Config{
			Path:       options.BadgerConfig.Path,
			InMemory:   options.BadgerConfig.InMemory,
			SyncWrites: options.BadgerConfig.SyncWrites,
		}

		s, err = badger.NewBadgerStore(bConfig)
		if err != nil {
			return nil, errors.Annotatef(err, "failed to create badger store")
		}
	} else if options.MemStore {
		s = mem.NewMemStore()
	} else {
		// Default to mem store if not specified
		s = mem.NewMemStore()
	}

	return runtime.NewEngine(s, options), nil
}
