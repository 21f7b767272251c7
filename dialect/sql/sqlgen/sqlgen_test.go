package sqlgen_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/persist/dialect"
	"github.com/syssam/persist/dialect/sql/sqlgen"
	"github.com/syssam/persist/internal/domain"
	"github.com/syssam/persist/schema"
	"github.com/syssam/persist/snapshot"
)

type tag struct {
	schema.Entity `persist:"table=tags"`

	Code  string `persist:"id"`
	Label string `persist:"size=40,unique,notnull"`
}

func person(id int64) *domain.Person {
	p := domain.NewPerson("test1", 30, "test1@gmail.com")
	p.ID = &id
	return p
}

func TestCreateTable(t *testing.T) {
	d := schema.MustDescribe(domain.Person{})
	assert.Equal(t,
		"CREATE TABLE users (id BIGINT AUTO_INCREMENT PRIMARY KEY,nick_name VARCHAR,old INT,email VARCHAR NOT NULL);",
		sqlgen.CreateTable(d, dialect.H2Dialect()),
	)
	assert.Equal(t,
		"CREATE TABLE users (id INTEGER PRIMARY KEY AUTOINCREMENT,nick_name VARCHAR,old INTEGER,email VARCHAR NOT NULL);",
		sqlgen.CreateTable(d, dialect.SQLiteDialect()),
	)
	assert.Equal(t,
		"CREATE TABLE orders (id BIGINT AUTO_INCREMENT PRIMARY KEY,order_number VARCHAR);",
		sqlgen.CreateTable(schema.MustDescribe(domain.Order{}), dialect.H2Dialect()),
	)
	assert.Equal(t,
		"CREATE TABLE order_items (id BIGINT AUTO_INCREMENT PRIMARY KEY,product VARCHAR,quantity INT);",
		sqlgen.CreateTable(schema.MustDescribe(domain.OrderItem{}), dialect.H2Dialect()),
	)
	assert.Equal(t,
		"CREATE TABLE tags (code VARCHAR(255) PRIMARY KEY,label VARCHAR(40) NOT NULL UNIQUE);",
		sqlgen.CreateTable(schema.MustDescribe(tag{}), dialect.MySQLDialect()),
	)
}

func TestDropTable(t *testing.T) {
	assert.Equal(t, "DROP TABLE users;", sqlgen.DropTable(schema.MustDescribe(domain.Person{})))
}

func TestSelect(t *testing.T) {
	d := schema.MustDescribe(domain.Person{})
	q := sqlgen.SelectAll(d)
	assert.Equal(t, "SELECT users.id, users.nick_name, users.old, users.email FROM users;", q.SQL)
	assert.Equal(t, []string{"users.id", "users.nick_name", "users.old", "users.email"}, q.Columns)

	q, err := sqlgen.SelectByID(d, int64(1))
	require.NoError(t, err)
	assert.Equal(t, "SELECT users.id, users.nick_name, users.old, users.email FROM users WHERE users.id = 1;", q.SQL)

	id := int64(2)
	q, err = sqlgen.SelectByID(d, &id)
	require.NoError(t, err)
	assert.Equal(t, "SELECT users.id, users.nick_name, users.old, users.email FROM users WHERE users.id = 2;", q.SQL)

	q, err = sqlgen.SelectByID(schema.MustDescribe(tag{}), "a'b")
	require.NoError(t, err)
	assert.Equal(t, "SELECT tags.code, tags.label FROM tags WHERE tags.code = 'a''b';", q.SQL)

	_, err = sqlgen.SelectByID(d, nil)
	require.ErrorIs(t, err, sqlgen.ErrNoIdentifier)
	var none *int64
	_, err = sqlgen.SelectByID(d, none)
	require.ErrorIs(t, err, sqlgen.ErrNoIdentifier)
	_, err = sqlgen.SelectByID(d, struct{}{})
	require.Error(t, err)
}

func TestSelect_Join(t *testing.T) {
	d := schema.MustDescribe(domain.Order{})
	q := sqlgen.SelectAll(d)
	assert.Equal(t,
		"SELECT orders.id, orders.order_number, order_items.id, order_items.product, order_items.quantity, order_items.order_id FROM orders JOIN order_items ON orders.id = order_items.order_id;",
		q.SQL,
	)
	assert.Equal(t, []string{
		"orders.id", "orders.order_number",
		"order_items.id", "order_items.product", "order_items.quantity", "order_items.order_id",
	}, q.Columns)

	q, err := sqlgen.SelectByID(d, 1)
	require.NoError(t, err)
	assert.Equal(t,
		"SELECT orders.id, orders.order_number, order_items.id, order_items.product, order_items.quantity, order_items.order_id FROM orders JOIN order_items ON orders.id = order_items.order_id WHERE orders.id = 1;",
		q.SQL,
	)
}

type shipment struct {
	schema.Entity `persist:"table=orders"`

	ID      *int64    `persist:"id"`
	Parcels []*parcel `persist:"onetomany,fetch=eager,joincolumn=order_id"`
}

type parcel struct {
	schema.Entity `persist:"table=order_items"`

	ID      *int64 `persist:"id"`
	OrderID *int64
}

func TestSelect_JoinMappedForeignKey(t *testing.T) {
	q := sqlgen.SelectAll(schema.MustDescribe(shipment{}))
	assert.Equal(t,
		"SELECT orders.id, order_items.id, order_items.order_id FROM orders JOIN order_items ON orders.id = order_items.order_id;",
		q.SQL,
	)
	assert.Equal(t, []string{"orders.id", "order_items.id", "order_items.order_id"}, q.Columns)
}

func TestSelectRow(t *testing.T) {
	q, err := sqlgen.SelectRow(schema.MustDescribe(domain.Order{}), 1)
	require.NoError(t, err)
	assert.Equal(t, "SELECT orders.id, orders.order_number FROM orders WHERE orders.id = 1;", q.SQL)
	assert.Equal(t, []string{"orders.id", "orders.order_number"}, q.Columns)

	_, err = sqlgen.SelectRow(schema.MustDescribe(domain.Order{}), nil)
	require.ErrorIs(t, err, sqlgen.ErrNoIdentifier)
}

func TestInsert(t *testing.T) {
	d := schema.MustDescribe(domain.Person{})
	query, err := sqlgen.Insert(domain.NewPerson("test1", 30, "test1@gmail.com"), d)
	require.NoError(t, err)
	assert.Equal(t, "INSERT INTO users (nick_name, old, email) VALUES ('test1', 30, 'test1@gmail.com');", query)

	// NULL columns are omitted.
	query, err = sqlgen.Insert(&domain.Person{Email: "x@y.z"}, d)
	require.NoError(t, err)
	assert.Equal(t, "INSERT INTO users (email) VALUES ('x@y.z');", query)

	// A zero identifier is database assigned, any other is written.
	zero := int64(0)
	p := domain.NewPerson("test1", 30, "test1@gmail.com")
	p.ID = &zero
	query, err = sqlgen.Insert(p, d)
	require.NoError(t, err)
	assert.Equal(t, "INSERT INTO users (nick_name, old, email) VALUES ('test1', 30, 'test1@gmail.com');", query)
	query, err = sqlgen.Insert(person(5), d)
	require.NoError(t, err)
	assert.Equal(t, "INSERT INTO users (id, nick_name, old, email) VALUES (5, 'test1', 30, 'test1@gmail.com');", query)

	query, err = sqlgen.Insert(&domain.OrderItem{}, schema.MustDescribe(domain.OrderItem{}))
	require.NoError(t, err)
	assert.Equal(t, "INSERT INTO order_items DEFAULT VALUES;", query)

	_, err = sqlgen.Insert(domain.Person{}, d)
	require.True(t, schema.IsAccessError(err))
}

func TestUpdate(t *testing.T) {
	d := schema.MustDescribe(domain.Person{})
	p := person(1)
	snap, err := snapshot.Capture(d, p)
	require.NoError(t, err)

	query, err := sqlgen.Update(p, snap, d)
	require.NoError(t, err)
	assert.Empty(t, query)

	p.SetName("B")
	query, err = sqlgen.Update(p, snap, d)
	require.NoError(t, err)
	assert.Equal(t, "UPDATE users SET nick_name = 'B' WHERE users.id = 1;", query)

	p.ID = nil
	_, err = sqlgen.Update(p, snap, d)
	require.ErrorIs(t, err, sqlgen.ErrNoIdentifier)
}

func TestDelete(t *testing.T) {
	d := schema.MustDescribe(domain.Person{})
	query, err := sqlgen.Delete(int64(1), d)
	require.NoError(t, err)
	assert.Equal(t, "DELETE FROM users WHERE users.id = 1;", query)

	_, err = sqlgen.Delete(nil, d)
	require.ErrorIs(t, err, sqlgen.ErrNoIdentifier)
}
