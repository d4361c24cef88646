package metric

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	m := New()
	require.NotNil(t, m.Registry())

	m.FetchesTotal.WithLabelValues(KindOntology, "ok").Inc()
	m.CacheLookups.WithLabelValues("hit").Add(2)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.FetchesTotal.WithLabelValues(KindOntology, "ok")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.CacheLookups.WithLabelValues("hit")))
}

func TestInstancesAreIndependent(t *testing.T) {
	a := New()
	b := New()

	a.LabelsResolved.WithLabelValues("synthetic").Inc()

	assert.Equal(t, 0.0, testutil.ToFloat64(b.LabelsResolved.WithLabelValues("synthetic")))
}

func TestWriteTextfile(t *testing.T) {
	m := New()
	m.ElementsTotal.WithLabelValues("class").Set(3)

	path := filepath.Join(t.TempDir(), "ontodoc.prom")
	require.NoError(t, m.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `ontodoc_elements{type="class"} 3`)
}
