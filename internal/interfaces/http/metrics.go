package http

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

// Metrics colectores Prometheus de la API sobre un registry propio.
type Metrics struct {
	registry         *prometheus.Registry
	requestDuration  *prometheus.HistogramVec
	requestsTotal    *prometheus.CounterVec
	receiptsCreated  *prometheus.CounterVec
	productsCreated  prometheus.Counter
	stockEgressTotal prometheus.Counter
}

// NewMetrics registra los colectores.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "almacen_http_request_duration_seconds",
			Help:    "Duración de las peticiones HTTP en segundos",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		requestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "almacen_http_requests_total",
			Help: "Total de peticiones HTTP por ruta y status",
		}, []string{"method", "route", "status"}),
		receiptsCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "almacen_receipts_created_total",
			Help: "Remitos registrados por origen (manual, pdf, csv, image)",
		}, []string{"source"}),
		productsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "almacen_receipt_products_created_total",
			Help: "Productos dados de alta automáticamente desde remitos",
		}),
		stockEgressTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "almacen_stock_egress_total",
			Help: "Egresos de stock registrados",
		}),
	}
	m.registry.MustRegister(
		collectors.NewGoCollector(),
		m.requestDuration, m.requestsTotal, m.receiptsCreated, m.productsCreated, m.stockEgressTotal,
	)
	return m
}

// Middleware mide duración y status por ruta registrada (no por path crudo).
func (m *Metrics) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}
		route := c.Route().Path
		m.requestDuration.WithLabelValues(c.Method(), route).Observe(time.Since(start).Seconds())
		m.requestsTotal.WithLabelValues(c.Method(), route, strconv.Itoa(status)).Inc()
		return err
	}
}

// Handler expone /metrics.
func (m *Metrics) Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}))
}

func (m *Metrics) receiptCreated(source string, productsCreated int) {
	if m == nil {
		return
	}
	m.receiptsCreated.WithLabelValues(source).Inc()
	m.productsCreated.Add(float64(productsCreated))
}

func (m *Metrics) egress() {
	if m == nil {
		return
	}
	m.stockEgressTotal.Inc()
}

// RequestLogger registra cada petición con su request id (middleware requestid antes).
func RequestLogger(log zerolog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		status := c.Response().StatusCode()
		ev := log.Info()
		switch {
		case err != nil || status >= fiber.StatusInternalServerError:
			ev = log.Error().Err(err)
		case status >= fiber.StatusBadRequest:
			ev = log.Warn()
		}
		ev.Str("request_id", c.GetRespHeader(fiber.HeaderXRequestID)).
			Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Msg("http")
		return err
	}
}
