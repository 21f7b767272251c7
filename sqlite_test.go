package persist_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/syssam/persist"
	"github.com/syssam/persist/dialect"
	"github.com/syssam/persist/dialect/sql"
	"github.com/syssam/persist/internal/domain"
)

func openSQLite(t *testing.T) (*persist.EntityManager, *sql.Driver) {
	t.Helper()
	drv, err := sql.Open("sqlite", "file:"+filepath.Join(t.TempDir(), "persist.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = drv.Close() })
	em := persist.New(drv)
	require.Equal(t, dialect.SQLite, em.Dialect().Name())
	return em, drv
}

func TestSQLite_Lifecycle(t *testing.T) {
	ctx := context.Background()
	em, _ := openSQLite(t)
	require.NoError(t, em.CreateTable(ctx, &domain.Person{}))

	p := domain.NewPerson("test1", 30, "test1@gmail.com")
	require.NoError(t, em.Persist(ctx, p))
	require.NotNil(t, p.ID)
	require.NoError(t, em.Persist(ctx, domain.NewPerson("test2", 40, "test2@gmail.com")))

	got, err := persist.Find[domain.Person](ctx, em, *p.ID)
	require.NoError(t, err)
	if diff := cmp.Diff(p, got); diff != "" {
		t.Errorf("find mismatch (-want +got):\n%s", diff)
	}

	got.SetName("B")
	require.NoError(t, em.Merge(ctx, got))
	again, err := persist.Find[domain.Person](ctx, em, *p.ID)
	require.NoError(t, err)
	assert.Equal(t, "B", again.Name())
	assert.Equal(t, 30, *again.Old)

	all, err := persist.FindAll[domain.Person](ctx, em)
	require.NoError(t, err)
	require.Len(t, all, 2, spew.Sdump(all))

	require.NoError(t, em.Remove(ctx, again))
	_, err = persist.Find[domain.Person](ctx, em, *p.ID)
	require.True(t, persist.IsNotFound(err))

	require.NoError(t, em.DropTable(ctx, &domain.Person{}))
	_, err = persist.FindAll[domain.Person](ctx, em)
	require.True(t, persist.IsExecutionError(err))
}

func TestSQLite_Constraint(t *testing.T) {
	ctx := context.Background()
	em, _ := openSQLite(t)
	require.NoError(t, em.CreateTable(ctx, &domain.Person{}))
	require.NoError(t, em.Persist(ctx, domain.NewPerson("a", 1, "a@b.c")))

	// Inserting into the generated id column twice breaks the primary key.
	dup := domain.NewPerson("b", 2, "b@c.d")
	id := int64(1)
	dup.ID = &id
	err := em.Persist(ctx, dup)
	require.Error(t, err)
	assert.True(t, persist.IsConstraintError(err))
	assert.False(t, em.Context().Contains(dup))
}

func TestSQLite_EagerJoin(t *testing.T) {
	ctx := context.Background()
	em, drv := openSQLite(t)
	require.NoError(t, em.CreateTable(ctx, &domain.Order{}))
	require.NoError(t, drv.Exec(ctx, "CREATE TABLE order_items (id INTEGER PRIMARY KEY AUTOINCREMENT,product VARCHAR,quantity INTEGER,order_id INTEGER);"))

	o := domain.NewOrder("A-1")
	require.NoError(t, em.Persist(ctx, o))
	require.NoError(t, drv.Exec(ctx, "INSERT INTO order_items (product, quantity, order_id) VALUES ('pen', 2, 1), ('ink', 5, 1);"))

	got, err := persist.Find[domain.Order](ctx, em, *o.ID)
	require.NoError(t, err)
	want := domain.NewOrder("A-1")
	want.ID = o.ID
	pen, ink := domain.NewOrderItem("pen", 2), domain.NewOrderItem("ink", 5)
	one, two := int64(1), int64(2)
	pen.ID, ink.ID = &one, &two
	want.OrderItems = []*domain.OrderItem{pen, ink}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("order mismatch (-want +got):\n%s", diff)
	}
	for _, item := range got.OrderItems {
		assert.Equal(t, persist.StatusManaged, em.Context().Status(item))
	}

	// Merging the order snapshot ignores the association.
	got.OrderNumber = nil
	require.NoError(t, em.Merge(ctx, got))
	number := "A-2"
	got.OrderNumber = &number
	require.NoError(t, em.Merge(ctx, got))

	fresh := persist.New(drv)
	reloaded, err := persist.Find[domain.Order](ctx, fresh, *o.ID)
	require.NoError(t, err)
	assert.Equal(t, "A-2", *reloaded.OrderNumber)
	assert.Len(t, reloaded.OrderItems, 2)
}
