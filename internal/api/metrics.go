package api

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

const metricsNamespace = "nyaysetu"

// Metrics holds the HTTP and decision counters exported on /metrics.
type Metrics struct {
	requestDuration *prometheus.HistogramVec
	chatRoutes      *prometheus.CounterVec
	ipcOutcomes     *prometheus.CounterVec
}

// NewMetrics registers collectors on reg. Collectors that are already
// registered are reused.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	m := &Metrics{
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "http_request_duration_seconds",
			Help:      "Latency of HTTP requests by route and status.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
		chatRoutes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "chat_answers_total",
			Help:      "Chat answers by terminal route.",
		}, []string{"route"}),
		ipcOutcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "ipc_predictions_total",
			Help:      "IPC predictions by outcome.",
		}, []string{"outcome"}),
	}

	var err error
	if m.requestDuration, err = register(reg, m.requestDuration); err != nil {
		return nil, err
	}
	if m.chatRoutes, err = register(reg, m.chatRoutes); err != nil {
		return nil, err
	}
	if m.ipcOutcomes, err = register(reg, m.ipcOutcomes); err != nil {
		return nil, err
	}
	return m, nil
}

func register[T prometheus.Collector](reg prometheus.Registerer, collector T) (T, error) {
	if err := reg.Register(collector); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(T); ok {
				return existing, nil
			}
		}
		return collector, fmt.Errorf("register metric: %w", err)
	}
	return collector, nil
}

// Middleware observes request latency using the matched route template.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		if m == nil {
			return
		}
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.requestDuration.
			WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).
			Observe(time.Since(start).Seconds())
	}
}

func (m *Metrics) recordChat(route string) {
	if m == nil {
		return
	}
	m.chatRoutes.WithLabelValues(route).Inc()
}

func (m *Metrics) recordPrediction(outcome string) {
	if m == nil {
		return
	}
	m.ipcOutcomes.WithLabelValues(outcome).Inc()
}
