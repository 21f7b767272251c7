package persist

import (
	"log/slog"

	"github.com/syssam/persist/dialect"
	"github.com/syssam/persist/schema"
)

// Option configures an EntityManager.
type Option func(*EntityManager)

// WithLogger sets the logger statements and lifecycle transitions are
// written to at debug level. Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(em *EntityManager) {
		if logger != nil {
			em.logger = logger
		}
	}
}

// WithDialect sets the dialect used for DDL. By default it is derived from
// the executor, falling back to H2.
func WithDialect(d dialect.Dialect) Option {
	return func(em *EntityManager) {
		em.dialect = d
	}
}

// WithRegistry sets the descriptor registry. Default is the process wide
// registry used by schema.Describe.
func WithRegistry(r *schema.Registry) Option {
	return func(em *EntityManager) {
		em.registry = r
	}
}

// WithContext sets the persistence context, letting several managers over
// different executors share tracked entities.
func WithContext(pc *PersistenceContext) Option {
	return func(em *EntityManager) {
		em.pc = pc
	}
}
