package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func counterValue(t *testing.T, reg *prometheus.Registry, name, kind string) float64 {
	t.Helper()
	mfs, err := reg.Gather()
	require.NoError(t, err)
	for _, mf := range mfs {
		if mf.GetName() != name {
			continue
		}
		for _, m := range mf.GetMetric() {
			if kind == "" {
				return m.GetCounter().GetValue()
			}
			for _, l := range m.GetLabel() {
				if l.GetName() == "kind" && l.GetValue() == kind {
					return m.GetCounter().GetValue()
				}
			}
		}
	}
	t.Fatalf("metric %s not found", name)
	return 0
}

func TestCollectorRecordsBulkCalls(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordBulkCall("var", 3, time.Millisecond)
	c.RecordBulkCall("var", 2, time.Millisecond)
	c.RecordBulkCall("constr", 5, time.Millisecond)
	c.RecordSync()

	assert.Equal(t, 5.0, counterValue(t, reg, "tabsolver_entities_created_total", "var"))
	assert.Equal(t, 5.0, counterValue(t, reg, "tabsolver_entities_created_total", "constr"))
	assert.Equal(t, 2.0, counterValue(t, reg, "tabsolver_bulk_calls_total", "var"))
	assert.Equal(t, 1.0, counterValue(t, reg, "tabsolver_bulk_calls_total", "constr"))
	assert.Equal(t, 1.0, counterValue(t, reg, "tabsolver_sync_calls_total", ""))
}

func TestDefaultIsSingleton(t *testing.T) {
	assert.Same(t, Default(), Default())
}
