package middleware

import (
	"errors"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/basicauth"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	registry        *prometheus.Registry
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	authRejections  *prometheus.CounterVec
}

func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"path", "method", "status"},
		),
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "Duration of HTTP requests",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"path", "method"},
		),
		authRejections: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "auth_rejections_total",
				Help: "Total number of unauthorized or forbidden requests",
			},
			[]string{"reason"},
		),
	}
	m.registry.MustRegister(
		m.requestsTotal,
		m.requestDuration,
		m.authRejections,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Monitor records request counts and latency labelled by route template, so
// ids in the path do not explode the label set.
func (m *Metrics) Monitor() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			status = fiberErr.Code
		} else if err != nil {
			status = fiber.StatusInternalServerError
		}

		path := c.Route().Path
		m.requestsTotal.WithLabelValues(path, c.Method(), strconv.Itoa(status)).Inc()
		m.requestDuration.WithLabelValues(path, c.Method()).Observe(time.Since(start).Seconds())

		switch status {
		case fiber.StatusUnauthorized:
			m.authRejections.WithLabelValues("401_unauthorized").Inc()
		case fiber.StatusForbidden:
			m.authRejections.WithLabelValues("403_forbidden").Inc()
		}
		return err
	}
}

// Handler serves the registry behind basic auth.
func (m *Metrics) Handler(user, pass string) []fiber.Handler {
	return []fiber.Handler{
		basicauth.New(basicauth.Config{
			Users: map[string]string{user: pass},
			Realm: "Metrics",
		}),
		adaptor.HTTPHandler(promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})),
	}
}
