package sqlgen

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/syssam/persist/dialect"
	"github.com/syssam/persist/dialect/sql"
	"github.com/syssam/persist/schema"
	"github.com/syssam/persist/snapshot"
)

// ErrNoIdentifier is returned when a statement needs the identifier of an
// entity that has none.
var ErrNoIdentifier = errors.New("entity has no identifier")

// Query is a rendered SELECT statement.
type Query struct {
	// SQL is the statement text.
	SQL string
	// Columns holds the table qualified label of every output column.
	Columns []string
}

// CreateTable renders the CREATE TABLE statement of d. The identifier column
// comes first, followed by the remaining columns in declaration order.
func CreateTable(d *schema.Descriptor, dl dialect.Dialect) string {
	defs := make([]string, 0, len(d.Columns))
	defs = append(defs, columnDef(d.ID, dl))
	for _, c := range d.Columns {
		if !c.Primary {
			defs = append(defs, columnDef(c, dl))
		}
	}
	return "CREATE TABLE " + d.Table + " (" + strings.Join(defs, ",") + ");"
}

func columnDef(c *schema.Column, dl dialect.Dialect) string {
	def := []string{c.Name, dl.ColumnType(c.Type, c.Size)}
	if c.Primary {
		return strings.Join(append(def, dl.PrimaryKey(c.Type)), " ")
	}
	if c.NotNull {
		def = append(def, dl.NotNull())
	}
	if c.Unique {
		def = append(def, dl.Unique())
	}
	return strings.Join(def, " ")
}

// DropTable renders the DROP TABLE statement of d.
func DropTable(d *schema.Descriptor) string {
	return "DROP TABLE " + d.Table + ";"
}

// SelectAll renders a select of every row of d. Eager associations are
// joined.
func SelectAll(d *schema.Descriptor) *Query {
	return selectFrom(d, "", d.EagerAssociations())
}

// SelectByID renders a select of the row of d identified by id.
func SelectByID(d *schema.Descriptor, id any) (*Query, error) {
	where, err := whereID(d, id)
	if err != nil {
		return nil, err
	}
	return selectFrom(d, where, d.EagerAssociations()), nil
}

// SelectRow renders a select of the columns of the row of d identified by
// id. Associations are never joined.
func SelectRow(d *schema.Descriptor, id any) (*Query, error) {
	where, err := whereID(d, id)
	if err != nil {
		return nil, err
	}
	return selectFrom(d, where, nil), nil
}

func selectFrom(d *schema.Descriptor, where string, joins []*schema.Association) *Query {
	q := &Query{Columns: qualified(d)}
	from := d.Table
	for _, a := range joins {
		q.Columns = append(q.Columns, qualified(a.Target)...)
		if _, ok := a.Target.Column(a.JoinColumn); !ok {
			q.Columns = append(q.Columns, a.Target.Table+"."+a.JoinColumn)
		}
		from += " JOIN " + a.Target.Table + " ON " + d.Table + "." + d.ID.Name + " = " + a.Target.Table + "." + a.JoinColumn
	}
	var b strings.Builder
	b.WriteString("SELECT ")
	b.WriteString(strings.Join(q.Columns, ", "))
	b.WriteString(" FROM ")
	b.WriteString(from)
	if where != "" {
		b.WriteString(" WHERE ")
		b.WriteString(where)
	}
	b.WriteByte(';')
	q.SQL = b.String()
	return q
}

// qualified returns the table qualified column names of d.
func qualified(d *schema.Descriptor) []string {
	names := make([]string, len(d.Columns))
	for i, c := range d.Columns {
		names[i] = d.Table + "." + c.Name
	}
	return names
}

// Insert renders the INSERT statement of entity. NULL columns are left out,
// as is an identifier holding its zero value, so the database assigns it.
func Insert(entity any, d *schema.Descriptor) (string, error) {
	var columns, values []string
	for _, c := range d.Columns {
		v, err := c.Get(entity)
		if err != nil {
			return "", err
		}
		if v == nil || (c.Primary && reflect.ValueOf(v).IsZero()) {
			continue
		}
		lit, err := sql.Literal(v)
		if err != nil {
			return "", fmt.Errorf("sqlgen: insert %s.%s: %w", d.Table, c.Name, err)
		}
		columns = append(columns, c.Name)
		values = append(values, lit)
	}
	if len(columns) == 0 {
		return "INSERT INTO " + d.Table + " DEFAULT VALUES;", nil
	}
	return "INSERT INTO " + d.Table + " (" + strings.Join(columns, ", ") + ") VALUES (" + strings.Join(values, ", ") + ");", nil
}

// Update renders the UPDATE statement of the columns of entity that changed
// since snap was captured. It returns "" if nothing changed.
func Update(entity any, snap *snapshot.Snapshot, d *schema.Descriptor) (string, error) {
	changed, set, err := snapshot.Diff(entity, snap, d)
	if err != nil || !changed {
		return "", err
	}
	id, err := d.IDValue(entity)
	if err != nil {
		return "", err
	}
	where, err := whereID(d, id)
	if err != nil {
		return "", err
	}
	return "UPDATE " + d.Table + " SET " + set + " WHERE " + where + ";", nil
}

// Delete renders the DELETE statement of the row of d identified by id.
func Delete(id any, d *schema.Descriptor) (string, error) {
	where, err := whereID(d, id)
	if err != nil {
		return "", err
	}
	return "DELETE FROM " + d.Table + " WHERE " + where + ";", nil
}

func whereID(d *schema.Descriptor, id any) (string, error) {
	if id == nil {
		return "", fmt.Errorf("sqlgen: %s: %w", d.Name, ErrNoIdentifier)
	}
	if rv := reflect.ValueOf(id); rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return "", fmt.Errorf("sqlgen: %s: %w", d.Name, ErrNoIdentifier)
		}
		id = rv.Elem().Interface()
	}
	lit, err := sql.Literal(id)
	if err != nil {
		return "", fmt.Errorf("sqlgen: %s identifier: %w", d.Name, err)
	}
	return d.Table + "." + d.ID.Name + " = " + lit, nil
}
