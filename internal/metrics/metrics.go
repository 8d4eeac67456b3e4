// internal/metrics/metrics.go
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector aggregates the Prometheus metrics the service exports.
type Collector struct {
	httpRequests  *prometheus.CounterVec
	httpLatency   prometheus.Histogram
	ordersBegun   prometheus.Counter
	ordersDone    *prometheus.CounterVec
	reviewsWri    prometheus.Counter
	messagesSent  prometheus.Counter
	activeStreams prometheus.Gauge
}

// NewCollector registers the collectors with reg and returns them.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "skillswap_http_requests_total",
			Help: "HTTP requests by method and status code.",
		}, []string{"method", "status"}),
		httpLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "skillswap_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds.",
			Buckets: prometheus.DefBuckets,
		}),
		ordersBegun: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "skillswap_orders_begun_total",
			Help: "Orders created at checkout start.",
		}),
		ordersDone: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "skillswap_orders_finished_total",
			Help: "Orders reaching a terminal status.",
		}, []string{"status"}),
		reviewsWri: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "skillswap_reviews_submitted_total",
			Help: "Reviews accepted and persisted.",
		}),
		messagesSent: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "skillswap_chat_messages_sent_total",
			Help: "Chat messages appended.",
		}),
		activeStreams: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "skillswap_active_streams",
			Help: "Currently open live-query subscriptions.",
		}),
	}

	reg.MustRegister(
		c.httpRequests,
		c.httpLatency,
		c.ordersBegun,
		c.ordersDone,
		c.reviewsWri,
		c.messagesSent,
		c.activeStreams,
	)
	return c
}

func (c *Collector) RecordHTTPRequest(method string, status int, duration time.Duration) {
	c.httpRequests.WithLabelValues(method, strconv.Itoa(status)).Inc()
	c.httpLatency.Observe(duration.Seconds())
}

func (c *Collector) RecordOrderBegun() { c.ordersBegun.Inc() }

func (c *Collector) RecordOrderFinished(status string) {
	c.ordersDone.WithLabelValues(status).Inc()
}

func (c *Collector) RecordReviewSubmitted() { c.reviewsWri.Inc() }
func (c *Collector) RecordMessageSent()     { c.messagesSent.Inc() }
func (c *Collector) StreamOpened()          { c.activeStreams.Inc() }
func (c *Collector) StreamClosed()          { c.activeStreams.Dec() }

// Handler exposes the registry for the /metrics endpoint.
func Handler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}
