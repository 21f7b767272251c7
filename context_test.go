package persist

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/persist/internal/domain"
	"github.com/syssam/persist/schema"
)

func TestPersistenceContext(t *testing.T) {
	d := schema.MustDescribe(domain.Person{})
	pc := NewPersistenceContext()
	p := domain.NewPerson("a", 1, "a@b.c")
	id := int64(1)
	p.ID = &id

	assert.Equal(t, StatusNew, pc.Status(p))
	assert.False(t, pc.Contains(p))
	_, ok := pc.Snapshot(p)
	assert.False(t, ok)

	require.NoError(t, pc.manage(d, p))
	assert.Equal(t, StatusManaged, pc.Status(p))
	assert.Equal(t, 1, pc.Len())
	snap, ok := pc.Snapshot(p)
	require.True(t, ok)
	v, _ := snap.Get("nick_name")
	assert.Equal(t, "a", v)

	// Equal values at different addresses are distinct entities.
	twin := domain.NewPerson("a", 1, "a@b.c")
	twin.ID = &id
	assert.False(t, pc.Contains(twin))

	pc.Detach(p)
	assert.Zero(t, pc.Len())

	require.NoError(t, pc.manage(d, p))
	require.NoError(t, pc.manage(d, twin))
	assert.Equal(t, 2, pc.Len())
	pc.Clear()
	assert.Zero(t, pc.Len())
}

func TestPersistenceContext_Mark(t *testing.T) {
	d := schema.MustDescribe(domain.Person{})
	pc := NewPersistenceContext()
	p := domain.NewPerson("a", 1, "a@b.c")

	restore := pc.mark(d, p, StatusRemoved)
	assert.Equal(t, StatusRemoved, pc.Status(p))
	restore()
	assert.False(t, pc.Contains(p))

	require.NoError(t, pc.manage(d, p))
	restore = pc.mark(d, p, StatusRemoved)
	assert.Equal(t, StatusRemoved, pc.Status(p))
	restore()
	assert.Equal(t, StatusManaged, pc.Status(p))
	_, ok := pc.Snapshot(p)
	assert.True(t, ok)
}

func TestPersistenceContext_Shared(t *testing.T) {
	pc := NewPersistenceContext()
	a := New(nil, WithContext(pc))
	b := New(nil, WithContext(pc))
	assert.Same(t, a.Context(), b.Context())
	assert.NotSame(t, pc, New(nil).Context())
}
