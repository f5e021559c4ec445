package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics набор prometheus-метрик сервиса
type Metrics struct {
	// HTTP
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// БД
	DBQueryDuration   *prometheus.HistogramVec
	DBQueryErrors     *prometheus.CounterVec
	DBOpenConnections *prometheus.GaugeVec
	DBInUse           *prometheus.GaugeVec
	DBIdle            *prometheus.GaugeVec

	// Гейт бронирований
	GateWaitDuration *prometheus.HistogramVec
	GateHoldDuration *prometheus.HistogramVec
	GateTimeouts     *prometheus.CounterVec

	// Бизнес-метрики
	BookingsTotal   *prometheus.CounterVec
	EventsPublished *prometheus.CounterVec
}

// New создает метрики и регистрирует их в глобальном registry (его отдает promhttp.Handler)
func New(serviceName string) *Metrics {
	return NewWithRegistry(prometheus.DefaultRegisterer, serviceName)
}

// NewWithRegistry создает метрики в указанном registry (для тестов)
func NewWithRegistry(reg prometheus.Registerer, serviceName string) *Metrics {
	m := &Metrics{
		HTTPRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"service", "method", "path", "status"}),

		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"service", "method", "path"}),

		DBQueryDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "db_query_duration_seconds",
			Help:    "Database query duration in seconds",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		}, []string{"service", "operation"}),

		DBQueryErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "db_query_errors_total",
			Help: "Total number of failed database queries",
		}, []string{"service", "operation"}),

		DBOpenConnections: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "db_open_connections",
			Help: "Number of established connections",
		}, []string{"service"}),

		DBInUse: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "db_in_use_connections",
			Help: "Number of connections currently in use",
		}, []string{"service"}),

		DBIdle: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "db_idle_connections",
			Help: "Number of idle connections",
		}, []string{"service"}),

		GateWaitDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "booking_gate_wait_seconds",
			Help:    "Time spent waiting for the booking gate",
			Buckets: []float64{.0005, .001, .005, .01, .05, .1, .5, 1, 5, 10},
		}, []string{"service"}),

		GateHoldDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "booking_gate_hold_seconds",
			Help:    "Time the booking gate was held",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		}, []string{"service"}),

		GateTimeouts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "booking_gate_timeouts_total",
			Help: "Number of gate acquisitions that timed out",
		}, []string{"service"}),

		BookingsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "bookings_total",
			Help: "Booking attempts by outcome",
		}, []string{"service", "outcome"}),

		EventsPublished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "booking_events_published_total",
			Help: "Booking events by type and result",
		}, []string{"service", "type", "result"}),
	}

	reg.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.DBQueryDuration,
		m.DBQueryErrors,
		m.DBOpenConnections,
		m.DBInUse,
		m.DBIdle,
		m.GateWaitDuration,
		m.GateHoldDuration,
		m.GateTimeouts,
		m.BookingsTotal,
		m.EventsPublished,
	)

	return m
}
