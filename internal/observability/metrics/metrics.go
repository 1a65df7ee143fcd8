package metrics

import "github.com/prometheus/client_golang/prometheus"

// CalendarMetrics exposes counters/histograms for the booking calendar.
type CalendarMetrics struct {
	viewsTotal       *prometheus.CounterVec
	transitionsTotal *prometheus.CounterVec
	requestLatency   *prometheus.HistogramVec
}

func NewCalendarMetrics(reg prometheus.Registerer) *CalendarMetrics {
	m := &CalendarMetrics{
		viewsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "salonbook",
			Subsystem: "calendar",
			Name:      "views_total",
			Help:      "Total calendar view renders by view type",
		}, []string{"view"}),
		transitionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "salonbook",
			Subsystem: "bookings",
			Name:      "transitions_total",
			Help:      "Total booking status transitions",
		}, []string{"from", "to"}),
		requestLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "salonbook",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Latency of HTTP request handling",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.viewsTotal, m.transitionsTotal, m.requestLatency)
	return m
}

func (m *CalendarMetrics) ObserveView(view string) {
	if m == nil {
		return
	}
	m.viewsTotal.WithLabelValues(view).Inc()
}

func (m *CalendarMetrics) ObserveTransition(from, to string) {
	if m == nil {
		return
	}
	m.transitionsTotal.WithLabelValues(from, to).Inc()
}

func (m *CalendarMetrics) ObserveRequestLatency(route string, seconds float64) {
	if m == nil {
		return
	}
	m.requestLatency.WithLabelValues(route).Observe(seconds)
}
