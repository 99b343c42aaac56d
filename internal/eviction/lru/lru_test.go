package lru

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lucasew/lrudirs/internal/eviction"
)

func TestLRU(t *testing.T) {
	require := require.New(t)
	l := New()

	require.Equal(int64(10), l.OnAdd("a", 10))
	require.Equal(int64(20), l.OnAdd("b", 20))
	require.Equal(int64(30), l.OnAdd("c", 30))

	// Order, oldest first: a, b, c. Total 60.
	require.Equal([]string{"a", "b", "c"}, l.Keys())

	l.OnAccess("a")
	// Order: b, c, a
	require.Equal([]string{"b", "c", "a"}, l.Keys())

	// Target 40 from 60: b (20) is enough.
	victims := l.GetVictims(60, 40)
	require.Equal([]eviction.Victim{{Key: "b", Size: 20}}, victims)

	// Target 10 from 60: b then c. a is newest and never returned.
	victims = l.GetVictims(60, 10)
	require.Equal([]eviction.Victim{{Key: "b", Size: 20}, {Key: "c", Size: 30}}, victims)

	// GetVictims does not modify the order.
	require.Equal(3, l.Len())
}

func TestLRU_NeverReturnsNewest(t *testing.T) {
	require := require.New(t)
	l := New()

	l.OnAdd("big", 100)
	require.Empty(l.GetVictims(100, 10))

	l.OnAdd("small", 1)
	victims := l.GetVictims(101, 10)
	require.Equal([]eviction.Victim{{Key: "big", Size: 100}}, victims)
}

func TestLRU_ReAddUpdatesSize(t *testing.T) {
	require := require.New(t)
	l := New()

	l.OnAdd("a", 10)
	l.OnAdd("b", 10)
	require.Equal(int64(5), l.OnAdd("a", 15))
	require.Equal(int64(0), l.OnAdd("a", 15))
	require.Equal([]string{"b", "a"}, l.Keys())

	size, ok := l.Remove("a")
	require.True(ok)
	require.Equal(int64(15), size)
}

func TestLRU_Remove(t *testing.T) {
	require := require.New(t)
	l := New()
	l.OnAdd("a", 10)
	l.OnAdd("b", 10)

	_, ok := l.Remove("a")
	require.True(ok)
	_, ok = l.Remove("a")
	require.False(ok)

	require.Empty(l.GetVictims(10, 0))

	l.Reset()
	require.Zero(l.Len())
	require.Empty(l.Keys())
}

func TestRegistered(t *testing.T) {
	strat, err := eviction.GetStrategy("lru")
	require.NoError(t, err)
	require.IsType(t, &LRU{}, strat)

	_, err = eviction.GetStrategy("nope")
	require.Error(t, err)
}
