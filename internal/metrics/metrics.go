// Package metrics collects and exposes Prometheus metrics.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector records booking outcomes and HTTP traffic.
type Collector struct {
	reservationsCreated   prometheus.Counter
	reservationConflicts  prometheus.Counter
	restrictionRejections *prometheus.CounterVec
	notificationsSent     prometheus.Counter
	notificationsFailed   prometheus.Counter
	httpStatus            *prometheus.CounterVec
	httpLatency           prometheus.Histogram
}

// NewCollector registers all metrics on the given registry.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		reservationsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "worklab_reservations_created_total",
			Help: "Reservations successfully created",
		}),
		reservationConflicts: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "worklab_reservation_conflicts_total",
			Help: "Bookings rejected because the window overlapped an active reservation",
		}),
		restrictionRejections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "worklab_restriction_rejections_total",
			Help: "Bookings rejected by a resource restriction, by rule",
		}, []string{"reason"}),
		notificationsSent: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "worklab_notifications_sent_total",
			Help: "Notification jobs delivered",
		}),
		notificationsFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "worklab_notifications_failed_total",
			Help: "Notification delivery attempts that failed",
		}),
		httpStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "worklab_http_status_total",
			Help: "HTTP responses by status code",
		}, []string{"status_code"}),
		httpLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "worklab_http_latency_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		}),
	}

	reg.MustRegister(
		c.reservationsCreated,
		c.reservationConflicts,
		c.restrictionRejections,
		c.notificationsSent,
		c.notificationsFailed,
		c.httpStatus,
		c.httpLatency,
	)

	return c
}

func (c *Collector) ReservationCreated() {
	c.reservationsCreated.Inc()
}

func (c *Collector) ReservationConflict() {
	c.reservationConflicts.Inc()
}

func (c *Collector) RestrictionRejected(reason string) {
	c.restrictionRejections.WithLabelValues(reason).Inc()
}

func (c *Collector) NotificationSent() {
	c.notificationsSent.Inc()
}

func (c *Collector) NotificationFailed() {
	c.notificationsFailed.Inc()
}

func (c *Collector) RecordHTTPStatus(statusCode int) {
	c.httpStatus.WithLabelValues(strconv.Itoa(statusCode)).Inc()
}

func (c *Collector) RecordHTTPLatency(duration time.Duration) {
	c.httpLatency.Observe(duration.Seconds())
}

// Handler returns the scrape endpoint for the given gatherer.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
