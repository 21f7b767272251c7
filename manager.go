package persist

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/syssam/persist/dialect"
	"github.com/syssam/persist/dialect/sql"
	"github.com/syssam/persist/dialect/sql/sqlgen"
	"github.com/syssam/persist/dialect/sql/sqlgraph"
	"github.com/syssam/persist/schema"
	"github.com/syssam/persist/snapshot"
)

// Executor runs generated statements. *sql.Driver implements it.
type Executor = sql.Executor

// EntityManager loads and stores entities through an Executor and tracks
// them in a PersistenceContext.
type EntityManager struct {
	exec     Executor
	closer   io.Closer
	dialect  dialect.Dialect
	registry *schema.Registry
	pc       *PersistenceContext
	logger   *slog.Logger
}

// New returns an EntityManager executing statements with exec.
func New(exec Executor, opts ...Option) *EntityManager {
	em := &EntityManager{
		exec:     exec,
		registry: schema.DefaultRegistry(),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(em)
	}
	if em.pc == nil {
		em.pc = NewPersistenceContext()
	}
	if em.dialect == nil {
		em.dialect = dialect.H2Dialect()
		if d, err := dialect.For(sql.DialectOf(exec)); err == nil {
			em.dialect = d
		}
	}
	return em
}

// Context returns the persistence context of the manager.
func (em *EntityManager) Context() *PersistenceContext { return em.pc }

// Dialect returns the dialect used for DDL.
func (em *EntityManager) Dialect() dialect.Dialect { return em.dialect }

// Close releases the executor if the manager opened it.
func (em *EntityManager) Close() error {
	if em.closer == nil {
		return nil
	}
	return em.closer.Close()
}

// Find loads the entity of type typ identified by id. typ is an entity
// value, a pointer to one, or its reflect.Type. The result is a pointer to
// a new entity tracked as Managed.
func (em *EntityManager) Find(ctx context.Context, typ, id any) (any, error) {
	d, err := em.registry.Describe(typ)
	if err != nil {
		return nil, err
	}
	q, err := sqlgen.SelectByID(d, id)
	if err != nil {
		return nil, err
	}
	entities, err := em.load(ctx, d, q, "find")
	if err != nil {
		return nil, err
	}
	if len(entities) == 0 {
		return nil, NewNotFoundError(d.Name, id)
	}
	return entities[0], nil
}

// FindAll loads every entity of type typ.
func (em *EntityManager) FindAll(ctx context.Context, typ any) ([]any, error) {
	d, err := em.registry.Describe(typ)
	if err != nil {
		return nil, err
	}
	return em.load(ctx, d, sqlgen.SelectAll(d), "find all")
}

// load runs q, hydrates its rows and tracks the entities and their eager
// children as Managed.
func (em *EntityManager) load(ctx context.Context, d *schema.Descriptor, q *sqlgen.Query, op string) ([]any, error) {
	em.logger.DebugContext(ctx, "persist: query", "op", op, "entity", d.Name, "statement", q.SQL)
	rs, err := em.exec.Query(ctx, q.SQL)
	if err != nil {
		return nil, &ExecutionError{Entity: d.Name, Op: op, Statement: q.SQL, Err: err}
	}
	if err := rs.Relabel(q.Columns); err != nil {
		return nil, &ExecutionError{Entity: d.Name, Op: op, Statement: q.SQL, Err: err}
	}
	entities, err := sqlgraph.Hydrate(rs, d)
	if err != nil {
		return nil, err
	}
	for _, e := range entities {
		if err := em.track(d, e); err != nil {
			return nil, err
		}
	}
	return entities, nil
}

// track registers entity and its eager children as Managed.
func (em *EntityManager) track(d *schema.Descriptor, entity any) error {
	if err := em.pc.manage(d, entity); err != nil {
		return err
	}
	for _, a := range d.EagerAssociations() {
		children, err := a.Children(entity)
		if err != nil {
			return err
		}
		for _, child := range children {
			if err := em.track(a.Target, child); err != nil {
				return err
			}
		}
	}
	return nil
}

// Persist inserts a new entity, assigns the generated identifier and tracks
// the entity as Managed. Persisting a Managed entity is a no-op.
func (em *EntityManager) Persist(ctx context.Context, entity any) error {
	d, err := em.describe(entity)
	if err != nil {
		return err
	}
	switch em.pc.Status(entity) {
	case StatusManaged:
		return nil
	case StatusRemoved:
		return fmt.Errorf("persist: persist %s: %w", d.Name, ErrRemoved)
	}
	return em.insert(ctx, d, entity)
}

func (em *EntityManager) insert(ctx context.Context, d *schema.Descriptor, entity any) error {
	hasID, err := d.HasID(entity)
	if err != nil {
		return err
	}
	if !hasID && !d.ID.Type.Integer() {
		return fmt.Errorf("persist: persist %s: %w: %s identifiers are not generated", d.Name, ErrNoIdentifier, d.ID.Type)
	}
	query, err := sqlgen.Insert(entity, d)
	if err != nil {
		return err
	}
	em.logger.DebugContext(ctx, "persist: insert", "entity", d.Name, "statement", query)
	if hasID {
		if err := em.exec.Exec(ctx, query); err != nil {
			return &ExecutionError{Entity: d.Name, Op: "persist", Statement: query, Err: err}
		}
	} else {
		id, err := em.exec.Insert(ctx, query, d.ID.Name)
		if err != nil {
			return &ExecutionError{Entity: d.Name, Op: "persist", Statement: query, Err: err}
		}
		if err := d.SetID(entity, id); err != nil {
			return err
		}
	}
	if err := em.pc.manage(d, entity); err != nil {
		return err
	}
	em.logger.DebugContext(ctx, "persist: managed", "entity", d.Name, "status", StatusManaged)
	return nil
}

// Merge writes the columns of entity that changed since it was last loaded
// or written. An untracked entity with an identifier is compared with its
// stored row, and one without an identifier or without a stored row is
// persisted. Columns holding NULL are never written.
func (em *EntityManager) Merge(ctx context.Context, entity any) error {
	d, err := em.describe(entity)
	if err != nil {
		return err
	}
	base, tracked := em.pc.lookup(entity)
	if tracked && base.status == StatusRemoved {
		return fmt.Errorf("persist: merge %s: %w", d.Name, ErrRemoved)
	}
	if !tracked {
		hasID, err := d.HasID(entity)
		if err != nil {
			return err
		}
		if !hasID {
			return em.insert(ctx, d, entity)
		}
		base, err = em.stored(ctx, d, entity)
		switch {
		case IsNotFound(err):
			return em.insert(ctx, d, entity)
		case err != nil:
			return err
		}
	}
	query, err := sqlgen.Update(entity, base.snap, d)
	if err != nil {
		return err
	}
	if query == "" {
		if tracked {
			return nil
		}
		return em.pc.manage(d, entity)
	}
	em.logger.DebugContext(ctx, "persist: update", "entity", d.Name, "statement", query)
	if err := em.exec.Exec(ctx, query); err != nil {
		return &ExecutionError{Entity: d.Name, Op: "merge", Statement: query, Err: err}
	}
	return em.pc.manage(d, entity)
}

// stored loads the columns of the row of entity, without associations,
// into a detached entry.
func (em *EntityManager) stored(ctx context.Context, d *schema.Descriptor, entity any) (*entry, error) {
	id, err := d.IDValue(entity)
	if err != nil {
		return nil, err
	}
	q, err := sqlgen.SelectRow(d, id)
	if err != nil {
		return nil, err
	}
	em.logger.DebugContext(ctx, "persist: query", "op", "merge", "entity", d.Name, "statement", q.SQL)
	rs, err := em.exec.Query(ctx, q.SQL)
	if err != nil {
		return nil, &ExecutionError{Entity: d.Name, Op: "merge", Statement: q.SQL, Err: err}
	}
	if err := rs.Relabel(q.Columns); err != nil {
		return nil, &ExecutionError{Entity: d.Name, Op: "merge", Statement: q.SQL, Err: err}
	}
	row, err := sqlgraph.HydrateRow(rs, d)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, NewNotFoundError(d.Name, id)
	}
	snap, err := snapshot.Capture(d, row)
	if err != nil {
		return nil, err
	}
	return &entry{desc: d, snap: snap, status: StatusManaged}, nil
}

// Remove deletes the row of entity and stops tracking it. If the delete
// fails the entity keeps its previous state.
func (em *EntityManager) Remove(ctx context.Context, entity any) error {
	d, err := em.describe(entity)
	if err != nil {
		return err
	}
	hasID, err := d.HasID(entity)
	if err != nil {
		return err
	}
	if !hasID {
		return fmt.Errorf("persist: remove %s: %w", d.Name, ErrNoIdentifier)
	}
	id, err := d.IDValue(entity)
	if err != nil {
		return err
	}
	query, err := sqlgen.Delete(id, d)
	if err != nil {
		return err
	}
	restore := em.pc.mark(d, entity, StatusRemoved)
	em.logger.DebugContext(ctx, "persist: delete", "entity", d.Name, "statement", query)
	if err := em.exec.Exec(ctx, query); err != nil {
		restore()
		return &ExecutionError{Entity: d.Name, Op: "remove", Statement: query, Err: err}
	}
	em.pc.Detach(entity)
	em.logger.DebugContext(ctx, "persist: removed", "entity", d.Name, "id", id)
	return nil
}

// CreateTable creates the table of the entity type of entity.
func (em *EntityManager) CreateTable(ctx context.Context, entity any) error {
	d, err := em.registry.Describe(entity)
	if err != nil {
		return err
	}
	return em.ddl(ctx, d, "create table", sqlgen.CreateTable(d, em.dialect))
}

// DropTable drops the table of the entity type of entity.
func (em *EntityManager) DropTable(ctx context.Context, entity any) error {
	d, err := em.registry.Describe(entity)
	if err != nil {
		return err
	}
	return em.ddl(ctx, d, "drop table", sqlgen.DropTable(d))
}

func (em *EntityManager) ddl(ctx context.Context, d *schema.Descriptor, op, query string) error {
	em.logger.DebugContext(ctx, "persist: ddl", "entity", d.Name, "statement", query)
	if err := em.exec.Exec(ctx, query); err != nil {
		return &ExecutionError{Entity: d.Name, Op: op, Statement: query, Err: err}
	}
	return nil
}

// describe resolves the descriptor of entity and checks entity is a
// non-nil pointer to it.
func (em *EntityManager) describe(entity any) (*schema.Descriptor, error) {
	d, err := em.registry.Describe(entity)
	if err != nil {
		return nil, err
	}
	if err := d.Check(entity); err != nil {
		return nil, err
	}
	return d, nil
}

// Find loads the entity of type T identified by id.
func Find[T any](ctx context.Context, em *EntityManager, id any) (*T, error) {
	var zero T
	e, err := em.Find(ctx, &zero, id)
	if err != nil {
		return nil, err
	}
	return e.(*T), nil
}

// FindAll loads every entity of type T.
func FindAll[T any](ctx context.Context, em *EntityManager) ([]*T, error) {
	var zero T
	entities, err := em.FindAll(ctx, &zero)
	if err != nil {
		return nil, err
	}
	all := make([]*T, len(entities))
	for i, e := range entities {
		all[i] = e.(*T)
	}
	return all, nil
}
