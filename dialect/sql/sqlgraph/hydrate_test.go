package sqlgraph_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/persist/dialect/sql"
	"github.com/syssam/persist/dialect/sql/sqlgen"
	"github.com/syssam/persist/dialect/sql/sqlgraph"
	"github.com/syssam/persist/internal/domain"
	"github.com/syssam/persist/schema"
)

func ptr[T any](v T) *T { return &v }

func TestHydrate_Plain(t *testing.T) {
	d := schema.MustDescribe(domain.Person{})
	rs := sql.NewResultSet(sqlgen.SelectAll(d).Columns,
		[]any{int64(1), "test1", int64(30), "test1@gmail.com"},
		[]any{int64(2), nil, nil, []byte("test2@gmail.com")},
	)
	entities, err := sqlgraph.Hydrate(rs, d)
	require.NoError(t, err)
	require.Len(t, entities, 2)
	assert.Equal(t, &domain.Person{ID: ptr(int64(1)), NickName: ptr("test1"), Old: ptr(30), Email: "test1@gmail.com"}, entities[0])
	assert.Equal(t, &domain.Person{ID: ptr(int64(2)), Email: "test2@gmail.com"}, entities[1])
}

func TestHydrate_BareColumns(t *testing.T) {
	d := schema.MustDescribe(domain.Person{})
	rs := sql.NewResultSet([]string{"id", "nick_name", "old", "email"},
		[]any{int64(1), "test1", int64(30), "test1@gmail.com"},
	)
	e, err := sqlgraph.HydrateOne(rs, d)
	require.NoError(t, err)
	p := e.(*domain.Person)
	assert.Equal(t, int64(1), *p.ID)
	assert.Equal(t, "test1", p.Name())
}

func TestHydrate_Join(t *testing.T) {
	d := schema.MustDescribe(domain.Order{})
	rs := sql.NewResultSet(sqlgen.SelectAll(d).Columns,
		[]any{int64(1), "A-1", int64(10), "pen", int64(2), int64(1)},
		[]any{int64(2), "A-2", int64(12), "cup", int64(1), int64(2)},
		[]any{int64(1), "A-1", int64(11), "ink", int64(5), int64(1)},
	)
	entities, err := sqlgraph.Hydrate(rs, d)
	require.NoError(t, err)
	require.Len(t, entities, 2)

	first := entities[0].(*domain.Order)
	assert.Equal(t, int64(1), *first.ID)
	assert.Equal(t, "A-1", *first.OrderNumber)
	require.Len(t, first.OrderItems, 2)
	assert.Equal(t, &domain.OrderItem{ID: ptr(int64(10)), Product: ptr("pen"), Quantity: ptr(2)}, first.OrderItems[0])
	assert.Equal(t, &domain.OrderItem{ID: ptr(int64(11)), Product: ptr("ink"), Quantity: ptr(5)}, first.OrderItems[1])

	second := entities[1].(*domain.Order)
	assert.Equal(t, "A-2", *second.OrderNumber)
	require.Len(t, second.OrderItems, 1)
	assert.Equal(t, "cup", *second.OrderItems[0].Product)
}

type invoice struct {
	schema.Entity `persist:"table=invoices"`

	ID    *int64         `persist:"id"`
	Lines []*invoiceLine `persist:"onetomany,fetch=eager,joincolumn=invoice_id"`
	Pays  []*payment     `persist:"onetomany,fetch=eager,joincolumn=invoice_id"`
}

type invoiceLine struct {
	schema.Entity `persist:"table=invoice_lines"`

	ID      *int64 `persist:"id"`
	Product *string
}

type payment struct {
	schema.Entity `persist:"table=payments"`

	ID     *int64 `persist:"id"`
	Amount *int64
}

func TestHydrate_TwoEagerAssociations(t *testing.T) {
	d := schema.MustDescribe(invoice{})
	q := sqlgen.SelectAll(d)
	require.Equal(t, []string{
		"invoices.id",
		"invoice_lines.id", "invoice_lines.product", "invoice_lines.invoice_id",
		"payments.id", "payments.amount", "payments.invoice_id",
	}, q.Columns)
	rs := sql.NewResultSet(q.Columns,
		[]any{int64(1), int64(10), "pen", int64(1), int64(20), int64(5), int64(1)},
		[]any{int64(1), int64(10), "pen", int64(1), int64(21), int64(7), int64(1)},
		[]any{int64(1), int64(11), "ink", int64(1), int64(20), int64(5), int64(1)},
		[]any{int64(1), int64(11), "ink", int64(1), int64(21), int64(7), int64(1)},
		[]any{int64(2), int64(12), "cup", int64(2), nil, nil, nil},
	)
	entities, err := sqlgraph.Hydrate(rs, d)
	require.NoError(t, err)
	require.Len(t, entities, 2)

	first := entities[0].(*invoice)
	require.Len(t, first.Lines, 2)
	assert.Equal(t, "pen", *first.Lines[0].Product)
	assert.Equal(t, "ink", *first.Lines[1].Product)
	require.Len(t, first.Pays, 2)
	assert.Equal(t, int64(20), *first.Pays[0].ID)
	assert.Equal(t, int64(21), *first.Pays[1].ID)

	second := entities[1].(*invoice)
	require.Len(t, second.Lines, 1)
	assert.Empty(t, second.Pays)
}

func TestHydrate_NullChild(t *testing.T) {
	d := schema.MustDescribe(domain.Order{})
	rs := sql.NewResultSet(sqlgen.SelectAll(d).Columns,
		[]any{int64(3), "A-3", nil, nil, nil, nil},
	)
	e, err := sqlgraph.HydrateOne(rs, d)
	require.NoError(t, err)
	o := e.(*domain.Order)
	assert.Equal(t, int64(3), *o.ID)
	assert.Empty(t, o.OrderItems)
}

func TestHydrate_Empty(t *testing.T) {
	d := schema.MustDescribe(domain.Order{})
	e, err := sqlgraph.HydrateOne(sql.NewResultSet(sqlgen.SelectAll(d).Columns), d)
	require.NoError(t, err)
	assert.Nil(t, e)
	entities, err := sqlgraph.Hydrate(sql.NewResultSet(sqlgen.SelectAll(d).Columns), d)
	require.NoError(t, err)
	assert.Empty(t, entities)
}

func TestHydrate_Errors(t *testing.T) {
	person := schema.MustDescribe(domain.Person{})
	_, err := sqlgraph.Hydrate(sql.NewResultSet([]string{"id", "email"}, []any{int64(1), "a"}), person)
	require.ErrorContains(t, err, "users.nick_name")

	_, err = sqlgraph.Hydrate(sql.NewResultSet(sqlgen.SelectAll(person).Columns,
		[]any{"not a number", nil, nil, "a"}), person)
	require.True(t, schema.IsAccessError(err))

	order := schema.MustDescribe(domain.Order{})
	_, err = sqlgraph.Hydrate(sql.NewResultSet(sqlgen.SelectAll(order).Columns,
		[]any{nil, "A-1", int64(10), "pen", int64(2), nil}), order)
	require.ErrorContains(t, err, "orders.id is NULL")
}

func TestHydrateRow(t *testing.T) {
	d := schema.MustDescribe(domain.Order{})
	q, err := sqlgen.SelectRow(d, 1)
	require.NoError(t, err)
	e, err := sqlgraph.HydrateRow(sql.NewResultSet(q.Columns, []any{int64(1), "A-1"}), d)
	require.NoError(t, err)
	assert.Equal(t, &domain.Order{ID: ptr(int64(1)), OrderNumber: ptr("A-1")}, e)

	e, err = sqlgraph.HydrateRow(sql.NewResultSet(q.Columns), d)
	require.NoError(t, err)
	assert.Nil(t, e)
}
