package triage

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const metricsNamespace = "mailtriage"

// Metrics holds the Prometheus collectors for classification. A nil
// *Metrics records nothing.
type Metrics struct {
	classifications *prometheus.CounterVec
	alertFailures   prometheus.Counter
	appointments    prometheus.Counter
	testimonials    prometheus.Counter
	oracleDuration  prometheus.Histogram
}

// NewMetrics registers collectors with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		// Labels: category (wire label), importance (after age escalation)
		classifications: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "classifications_total",
			Help:      "Emails classified, by category and final importance",
		}, []string{"category", "importance"}),
		alertFailures: f.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "alert_failures_total",
			Help:      "Complaint alerts that could not be delivered",
		}),
		appointments: f.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "appointments_total",
			Help:      "Scheduling events emitted for appointment requests",
		}),
		testimonials: f.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "testimonials_total",
			Help:      "Testimonials appended to the store",
		}),
		oracleDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "oracle_duration_seconds",
			Help:      "Latency of classification oracle calls",
			Buckets:   []float64{.1, .25, .5, 1, 2.5, 5, 10, 30},
		}),
	}
}

// Classified counts one completed classification by category and final importance.
func (m *Metrics) Classified(c Category, i Importance) {
	if m == nil {
		return
	}
	m.classifications.WithLabelValues(c.String(), i.String()).Inc()
}

// AlertFailed counts a complaint alert the transport did not accept.
func (m *Metrics) AlertFailed() {
	if m == nil {
		return
	}
	m.alertFailures.Inc()
}

// AppointmentScheduled counts one emitted scheduling event.
func (m *Metrics) AppointmentScheduled() {
	if m == nil {
		return
	}
	m.appointments.Inc()
}

// TestimonialSaved counts one testimonial appended to the store.
func (m *Metrics) TestimonialSaved() {
	if m == nil {
		return
	}
	m.testimonials.Inc()
}

// OracleObserved records the latency of one oracle call.
func (m *Metrics) OracleObserved(d time.Duration) {
	if m == nil {
		return
	}
	m.oracleDuration.Observe(d.Seconds())
}
