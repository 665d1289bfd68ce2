package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	BookingsCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "bookings_created_total",
			Help: "Total checkout sessions created",
		},
	)

	BookingsConfirmed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "bookings_confirmed_total",
			Help: "Total bookings confirmed by gateway webhook",
		},
	)

	WhatsAppDispatched = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "whatsapp_notifications_total",
			Help: "Total WhatsApp confirmations dispatched",
		},
	)

	SystemCPUPercent = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "system_cpu_percent",
			Help: "Host CPU utilisation percent",
		},
	)

	SystemMemoryPercent = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "system_memory_percent",
			Help: "Host memory utilisation percent",
		},
	)
)
