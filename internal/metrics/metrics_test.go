package metrics

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestMetrics(t *testing.T) {
	require := require.New(t)

	registry := prometheus.NewRegistry()
	m, err := New("lrudirs", registry)
	require.NoError(err)

	m.Lookup(true)
	m.Lookup(true)
	m.Lookup(false)
	m.Added()
	m.Evicted(3, nil)
	m.Evicted(2, errors.New("boom"))
	m.Observe(2, 5, 10)

	require.Equal(2.0, testutil.ToFloat64(m.lookups.With(hitLabels)))
	require.Equal(1.0, testutil.ToFloat64(m.lookups.With(missLabels)))
	require.Equal(1.0, testutil.ToFloat64(m.adds))
	require.Equal(2.0, testutil.ToFloat64(m.evictions))
	require.Equal(5.0, testutil.ToFloat64(m.evictedSize))
	require.Equal(1.0, testutil.ToFloat64(m.deleteErrors))
	require.Equal(2.0, testutil.ToFloat64(m.entries))
	require.Equal(0.5, testutil.ToFloat64(m.portionFilled))

	count, err := testutil.GatherAndCount(registry)
	require.NoError(err)
	require.Positive(count)
}

func TestMetrics_DuplicateRegistration(t *testing.T) {
	registry := prometheus.NewRegistry()
	_, err := New("dup", registry)
	require.NoError(t, err)

	_, err = New("dup", registry)
	require.Error(t, err)
}

func TestMetrics_Nil(t *testing.T) {
	var m *Metrics
	m.Lookup(true)
	m.Added()
	m.Evicted(1, nil)
	m.Observe(1, 1, 1)
}
