package taskpipe

import (
	"github.com/juju/errors"

	"github.com/quarrydata/taskpipe/engine"
	"github.com/quarrydata/taskpipe/store"
	"github.com/quarrydata/taskpipe/store/mem"
	"github.com/quarrydata/taskpipe/store/postgres"
	"github.com/quarrydata/taskpipe/store/sqlite"
	"github.com/quarrydata/taskpipe/types"
)

// StoreOptions selects the backing store for run records. Postgres takes
// precedence over sqlite, sqlite over the in-memory default.
type StoreOptions struct {
	PostgresDSN string
	SQLitePath  string
}

// OpenStore builds the run-record store from options.
func OpenStore(opts StoreOptions) (store.Store, error) {
	if opts.PostgresDSN != "" {
		config, err := postgres.ParseDSN(opts.PostgresDSN)
		if err != nil {
			return nil, errors.Annotatef(err, "invalid postgres dsn")
		}
		s, err := postgres.NewPostgresStore(config)
		if err != nil {
			return nil, errors.Annotatef(err, "failed to create postgres store")
		}
		return s, nil
	}
	if opts.SQLitePath != "" {
		s, err := sqlite.NewSQLiteStore(opts.SQLitePath)
		if err != nil {
			return nil, errors.Annotatef(err, "failed to create sqlite store")
		}
		return s, nil
	}
	return mem.NewMemStore(), nil
}

// NewExecutor builds an executor over the graph with the given run options.
func NewExecutor(graph *engine.Graph, opts ...types.RunOption) *engine.Executor {
	return engine.NewExecutor(graph, opts...)
}
