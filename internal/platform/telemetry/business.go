package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Import row outcomes.
const (
	OutcomeImported = "imported"
	OutcomeDropped  = "dropped"
)

// BusinessMetrics counts document activity for the /-/metrics endpoint.
type BusinessMetrics struct {
	documentsExported  *prometheus.CounterVec
	importRows         *prometheus.CounterVec
	workspaceMutations *prometheus.CounterVec
}

// NewBusinessMetrics registers the counters with reg. A nil reg uses the
// default Prometheus registerer.
func NewBusinessMetrics(reg prometheus.Registerer) *BusinessMetrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	factory := promauto.With(reg)

	return &BusinessMetrics{
		documentsExported: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "invoice_documents_exported_total",
			Help: "Documents exported, by output format.",
		}, []string{"format"}),
		importRows: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "invoice_import_rows_total",
			Help: "Line-item rows seen by imports, by source and outcome.",
		}, []string{"source", "outcome"}),
		workspaceMutations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "invoice_workspace_mutations_total",
			Help: "Changes applied to the working document, by operation.",
		}, []string{"operation"}),
	}
}

// DocumentExported records one exported file.
func (m *BusinessMetrics) DocumentExported(format string) {
	if m == nil {
		return
	}

	m.documentsExported.WithLabelValues(format).Inc()
}

// ImportRows records the outcome of one import.
func (m *BusinessMetrics) ImportRows(source string, imported, dropped int) {
	if m == nil {
		return
	}

	m.importRows.WithLabelValues(source, OutcomeImported).Add(float64(imported))
	m.importRows.WithLabelValues(source, OutcomeDropped).Add(float64(dropped))
}

// WorkspaceMutation records one change to the working document.
func (m *BusinessMetrics) WorkspaceMutation(operation string) {
	if m == nil {
		return
	}

	m.workspaceMutations.WithLabelValues(operation).Inc()
}
