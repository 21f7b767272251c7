package sql_test

import (
	"database/sql/driver"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/persist/dialect/sql"
)

type status string

type failingValuer struct{}

func (failingValuer) Value() (driver.Value, error) { return nil, errors.New("boom") }

func TestLiteral(t *testing.T) {
	name := "test1"
	var none *string
	id := uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")
	tests := []struct {
		in   any
		want string
	}{
		{nil, "NULL"},
		{none, "NULL"},
		{[]byte(nil), "NULL"},
		{"test1", "'test1'"},
		{&name, "'test1'"},
		{"O'Brien", "'O''Brien'"},
		{`back\slash`, `'back\slash'`},
		{30, "30"},
		{int64(-7), "-7"},
		{int8(3), "3"},
		{uint32(9), "9"},
		{3.5, "3.5"},
		{float32(0.25), "0.25"},
		{true, "TRUE"},
		{false, "FALSE"},
		{[]byte{0xca, 0xfe}, "X'CAFE'"},
		{status("active"), "'active'"},
		{id, "'6ba7b810-9dad-11d1-80b4-00c04fd430c8'"},
		{time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC), "'2024-01-02 03:04:05+00:00'"},
		{sql.NullString{String: "x", Valid: true}, "'x'"},
		{sql.NullInt64{}, "NULL"},
	}
	for _, tt := range tests {
		got, err := sql.Literal(tt.in)
		require.NoError(t, err, "%#v", tt.in)
		assert.Equal(t, tt.want, got, "%#v", tt.in)
	}
}

func TestLiteral_Errors(t *testing.T) {
	for _, in := range []any{struct{}{}, []int{1}, map[string]int{}, failingValuer{}} {
		_, err := sql.Literal(in)
		require.Error(t, err, "%#v", in)
	}
}

func TestLiteral_NonFiniteFloat(t *testing.T) {
	inf := math.Inf(1)
	for _, in := range []any{math.NaN(), inf, math.Inf(-1), &inf, float32(math.Inf(1)), float32(math.NaN())} {
		got, err := sql.Literal(in)
		require.ErrorContains(t, err, "non-finite float", "%#v", in)
		assert.Empty(t, got)
	}
}
