package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryGetSetDelete(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	_, found, err := m.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, m.Set(ctx, "k", []byte("v1")))
	v, found, err := m.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "v1", string(v))

	// last writer wins, whole value replaced
	require.NoError(t, m.Set(ctx, "k", []byte("v2")))
	v, _, _ = m.Get(ctx, "k")
	assert.Equal(t, "v2", string(v))

	require.NoError(t, m.Delete(ctx, "k"))
	_, found, err = m.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestMemoryReturnsCopies(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	require.NoError(t, m.Set(ctx, "k", []byte("abc")))
	v, _, _ := m.Get(ctx, "k")
	v[0] = 'X'

	again, _, _ := m.Get(ctx, "k")
	assert.Equal(t, "abc", string(again), "callers must not be able to mutate stored bytes")
}

func TestMemorySubscribe(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	var got []string
	cancel := m.Subscribe("watched", func(key string) { got = append(got, key) })

	require.NoError(t, m.Set(ctx, "watched", []byte("1")))
	require.NoError(t, m.Set(ctx, "other", []byte("2")))
	require.NoError(t, m.Delete(ctx, "watched"))
	assert.Equal(t, []string{"watched", "watched"}, got, "set and delete both notify, other keys do not")

	cancel()
	require.NoError(t, m.Set(ctx, "watched", []byte("3")))
	assert.Len(t, got, 2, "cancelled subscription must not fire")
}

func TestJSONHelpers(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	type doc struct {
		Name  string `json:"name"`
		Count int    `json:"count"`
	}

	var out doc
	found, err := GetJSON(ctx, m, "doc", &out)
	require.NoError(t, err)
	assert.False(t, found, "absent key decodes to the zero value without error")

	require.NoError(t, SetJSON(ctx, m, "doc", doc{Name: "ledger", Count: 3}))
	found, err = GetJSON(ctx, m, "doc", &out)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, doc{Name: "ledger", Count: 3}, out)
}
