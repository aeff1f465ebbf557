package telemetry

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestBusinessMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewBusinessMetrics(reg)

	m.DocumentExported("pdf")
	m.DocumentExported("pdf")
	m.DocumentExported("xlsx")
	m.ImportRows("csv", 3, 2)
	m.WorkspaceMutation("add_item")

	assert.InDelta(t, 2.0, testutil.ToFloat64(m.documentsExported.WithLabelValues("pdf")), 0.0001)
	assert.InDelta(t, 1.0, testutil.ToFloat64(m.documentsExported.WithLabelValues("xlsx")), 0.0001)
	assert.InDelta(t, 3.0, testutil.ToFloat64(m.importRows.WithLabelValues("csv", OutcomeImported)), 0.0001)
	assert.InDelta(t, 2.0, testutil.ToFloat64(m.importRows.WithLabelValues("csv", OutcomeDropped)), 0.0001)
	assert.InDelta(t, 1.0, testutil.ToFloat64(m.workspaceMutations.WithLabelValues("add_item")), 0.0001)

	count, err := testutil.GatherAndCount(reg)
	assert.NoError(t, err)
	assert.Equal(t, 5, count)
}

func TestBusinessMetrics_NilIsNoop(t *testing.T) {
	var m *BusinessMetrics

	assert.NotPanics(t, func() {
		m.DocumentExported("pdf")
		m.ImportRows("csv", 1, 0)
		m.WorkspaceMutation("clear_items")
	})
}
