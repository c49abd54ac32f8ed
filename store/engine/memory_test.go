package engine

import (
	"testing"

	"github.com/nvkalinin/openhours/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeSchedule(t *testing.T) *store.Schedule {
	s, err := store.New(map[string]store.TimeFrames{
		"mon": {"10:00", "20:00"},
	}, "UTC", nil, nil)
	require.NoError(t, err)
	return s
}

func TestMemory(t *testing.T) {
	m := NewMemory()

	_, ok := m.Find("cafe")
	assert.False(t, ok)

	s := makeSchedule(t)
	require.NoError(t, m.Put("cafe", s))
	require.NoError(t, m.Put("bar", s))

	found, ok := m.Find("cafe")
	assert.True(t, ok)
	assert.Same(t, s, found)

	names, err := m.Names()
	assert.NoError(t, err)
	assert.Equal(t, []string{"bar", "cafe"}, names)
}
