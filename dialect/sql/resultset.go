package sql

import (
	"errors"
	"fmt"
)

// ResultSet is a fully read query result. Values are the driver values
// reported by database/sql, NULL is nil.
type ResultSet struct {
	columns []string
	index   map[string]int
	rows    [][]any
}

// NewResultSet returns a ResultSet holding the given rows. Every row must
// have one value per column.
func NewResultSet(columns []string, rows ...[]any) *ResultSet {
	rs := &ResultSet{rows: rows}
	rs.label(columns)
	return rs
}

// ScanResultSet drains and closes rows.
func ScanResultSet(rows ColumnScanner) (rs *ResultSet, rerr error) {
	defer func() { rerr = errors.Join(rerr, rows.Close()) }()
	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("columns: %w", err)
	}
	rs = &ResultSet{}
	rs.label(columns)
	for rows.Next() {
		values := make([]any, len(columns))
		dest := make([]any, len(columns))
		for i := range values {
			dest[i] = &values[i]
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scan row %d: %w", len(rs.rows), err)
		}
		rs.rows = append(rs.rows, values)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return rs, nil
}

// label resets the column labels. The first occurrence of a duplicate
// label wins on lookup.
func (rs *ResultSet) label(columns []string) {
	rs.columns = columns
	rs.index = make(map[string]int, len(columns))
	for i, c := range columns {
		if _, ok := rs.index[c]; !ok {
			rs.index[c] = i
		}
	}
}

// Relabel replaces the column labels positionally.
func (rs *ResultSet) Relabel(columns []string) error {
	if len(columns) != len(rs.columns) {
		return fmt.Errorf("dialect/sql: relabel %d columns with %d labels", len(rs.columns), len(columns))
	}
	rs.label(columns)
	return nil
}

// Columns returns the column labels.
func (rs *ResultSet) Columns() []string { return rs.columns }

// Len returns the number of rows.
func (rs *ResultSet) Len() int { return len(rs.rows) }

// Row returns the i-th row.
func (rs *ResultSet) Row(i int) Row { return Row{rs: rs, values: rs.rows[i]} }

// Rows returns all rows in arrival order.
func (rs *ResultSet) Rows() []Row {
	rows := make([]Row, len(rs.rows))
	for i, v := range rs.rows {
		rows[i] = Row{rs: rs, values: v}
	}
	return rows
}

// Row is a single row of a ResultSet.
type Row struct {
	rs     *ResultSet
	values []any
}

// Get returns the value of the column labeled name. The boolean reports
// whether such a column exists.
func (r Row) Get(name string) (any, bool) {
	i, ok := r.rs.index[name]
	if !ok {
		return nil, false
	}
	return r.values[i], true
}

// Values returns the row values in column order.
func (r Row) Values() []any { return r.values }
