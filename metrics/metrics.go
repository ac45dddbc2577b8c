package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics tracks payments flowing through the wallet. All methods are safe to
// call on a nil *Metrics.
type Metrics struct {
	PendingPayments prometheus.Gauge
	EventsHandled   *prometheus.CounterVec
	OrphanedEvents  prometheus.Counter
	SendOutcomes    *prometheus.CounterVec
	SendDuration    prometheus.Histogram
	Invoices        *prometheus.CounterVec
	LspConnected    prometheus.Gauge
}

// New creates the wallet metrics and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		PendingPayments: factory.NewGauge(prometheus.GaugeOpts{
			Name: "payd_pending_payments",
			Help: "Number of sends waiting for their outcome",
		}),
		EventsHandled: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "payd_node_events_total",
			Help: "Node events handled by the dispatch loop, by kind",
		}, []string{"kind"}),
		OrphanedEvents: factory.NewCounter(prometheus.CounterOpts{
			Name: "payd_orphaned_events_total",
			Help: "Terminal payment events that matched no pending send",
		}),
		SendOutcomes: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "payd_sends_total",
			Help: "Completed sends, by outcome",
		}, []string{"outcome"}),
		SendDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "payd_send_duration_seconds",
			Help:    "Time from submission until the outcome of a send is known",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		}),
		Invoices: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "payd_invoices_total",
			Help: "Invoices issued by receive, by kind",
		}, []string{"kind"}),
		LspConnected: factory.NewGauge(prometheus.GaugeOpts{
			Name: "payd_lsp_connected",
			Help: "1 if the liquidity provider is connected",
		}),
	}
}

func (m *Metrics) PaymentRegistered() {
	if m == nil {
		return
	}
	m.PendingPayments.Inc()
}

func (m *Metrics) PaymentResolved() {
	if m == nil {
		return
	}
	m.PendingPayments.Dec()
}

func (m *Metrics) EventHandled(kind string) {
	if m == nil {
		return
	}
	m.EventsHandled.WithLabelValues(kind).Inc()
}

func (m *Metrics) EventOrphaned() {
	if m == nil {
		return
	}
	m.OrphanedEvents.Inc()
}

// ObserveSend records the outcome of a send that was submitted at start.
func (m *Metrics) ObserveSend(outcome string, start time.Time) {
	if m == nil {
		return
	}
	m.SendOutcomes.WithLabelValues(outcome).Inc()
	m.SendDuration.Observe(time.Since(start).Seconds())
}

func (m *Metrics) InvoiceIssued(jit bool) {
	if m == nil {
		return
	}

	kind := "direct"
	if jit {
		kind = "jit"
	}
	m.Invoices.WithLabelValues(kind).Inc()
}

func (m *Metrics) SetLspConnected(connected bool) {
	if m == nil {
		return
	}

	if connected {
		m.LspConnected.Set(1)
	} else {
		m.LspConnected.Set(0)
	}
}
