// Package snapshot captures the column values of an entity and reports which
// columns changed since the capture.
package snapshot

import (
	"bytes"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/syssam/persist/dialect/sql"
	"github.com/syssam/persist/schema"
)

// Snapshot is a deep copy of the mapped column values of an entity, keyed
// by column name. NULL is stored as nil.
type Snapshot struct {
	values map[string]any
}

// Capture copies every mapped column of entity. Pointer fields are
// dereferenced and byte slices cloned, so later mutations of the entity do
// not affect the snapshot.
func Capture(d *schema.Descriptor, entity any) (*Snapshot, error) {
	s := &Snapshot{values: make(map[string]any, len(d.Columns))}
	for _, c := range d.Columns {
		v, err := c.Get(entity)
		if err != nil {
			return nil, err
		}
		if b, ok := v.([]byte); ok {
			v = bytes.Clone(b)
		}
		s.values[c.Name] = v
	}
	return s, nil
}

// Get returns the captured value of a column.
func (s *Snapshot) Get(column string) (any, bool) {
	v, ok := s.values[column]
	return v, ok
}

// Len returns the number of captured columns.
func (s *Snapshot) Len() int { return len(s.values) }

// Change is a column whose current value differs from its snapshot.
type Change struct {
	Column *schema.Column
	Old    any
	New    any
}

// String renders the change as a SET fragment.
func (c Change) String() string {
	lit, err := sql.Literal(c.New)
	if err != nil {
		return fmt.Sprintf("%s = <%v>", c.Column.Name, err)
	}
	return c.Column.Name + " = " + lit
}

// Compare returns the changed columns of current in column order. The
// identifier is never reported and a NULL current value is not a change.
func Compare(current any, snap *Snapshot, d *schema.Descriptor) ([]Change, error) {
	if snap == nil {
		return nil, fmt.Errorf("snapshot: nil snapshot of %s", d.Name)
	}
	var changes []Change
	for _, c := range d.Columns {
		if c.Primary {
			continue
		}
		cur, err := c.Get(current)
		if err != nil {
			return nil, err
		}
		if cur == nil {
			continue
		}
		old := snap.values[c.Name]
		if !Equal(old, cur) {
			changes = append(changes, Change{Column: c, Old: old, New: cur})
		}
	}
	return changes, nil
}

// Diff reports whether current differs from snap and returns the SET
// fragment of the changed columns joined by ", ".
func Diff(current any, snap *Snapshot, d *schema.Descriptor) (bool, string, error) {
	changes, err := Compare(current, snap, d)
	if err != nil || len(changes) == 0 {
		return false, "", err
	}
	set := make([]string, len(changes))
	for i, ch := range changes {
		lit, err := sql.Literal(ch.New)
		if err != nil {
			return false, "", fmt.Errorf("snapshot: column %s: %w", ch.Column.Name, err)
		}
		set[i] = ch.Column.Name + " = " + lit
	}
	return true, strings.Join(set, ", "), nil
}

// Equal reports value equality of two column values. Times are compared
// with time.Time.Equal and byte slices by content.
func Equal(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	switch a := a.(type) {
	case time.Time:
		t, ok := b.(time.Time)
		return ok && a.Equal(t)
	case []byte:
		bb, ok := b.([]byte)
		return ok && bytes.Equal(a, bb)
	}
	return reflect.DeepEqual(a, b)
}
