package prometheus

import (
	"goods-tracker/pkg/config"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP request metrics
	HttpRequestsTotal   *prometheus.CounterVec
	HttpRequestDuration *prometheus.HistogramVec

	// Admin login metrics
	LoginAttemptsCounter prometheus.Counter
	LoginSuccessCounter  prometheus.Counter
	LoginFailureCounter  prometheus.Counter

	// Storage operation metrics
	StorageOperationDuration *prometheus.HistogramVec

	// Product metrics
	ProductOperationsCounter *prometheus.CounterVec

	// Units still to ship per product
	ProductQuantityLeftGauge *prometheus.GaugeVec
)

// InitMetrics initializes Prometheus metrics with configuration
func InitMetrics(config *config.Config) {
	prefix := config.Metrics.Prefix

	HttpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HttpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    prefix + "_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	LoginAttemptsCounter = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: prefix + "_admin_login_attempts_total",
			Help: "Total number of admin login attempts",
		},
	)

	LoginSuccessCounter = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: prefix + "_admin_login_success_total",
			Help: "Total number of successful admin logins",
		},
	)

	LoginFailureCounter = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: prefix + "_admin_login_failures_total",
			Help: "Total number of rejected admin logins",
		},
	)

	StorageOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    prefix + "_storage_operation_duration_seconds",
			Help:    "Duration of goods document reads and writes in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"driver", "operation"},
	)

	ProductOperationsCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_product_operations_total",
			Help: "Total number of product operations",
		},
		[]string{"operation", "result"},
	)

	ProductQuantityLeftGauge = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: prefix + "_product_quantity_left",
			Help: "Units not yet shipped per product",
		},
		[]string{"transaction_id"},
	)
}

// TrackStorageOperation returns a function that records the duration of a storage operation.
// Metrics are optional; nothing is recorded before InitMetrics.
func TrackStorageOperation(driver, operation string) func(startTime time.Time) {
	return func(startTime time.Time) {
		if StorageOperationDuration == nil {
			return
		}
		StorageOperationDuration.WithLabelValues(driver, operation).Observe(time.Since(startTime).Seconds())
	}
}

// RecordProductOperation increments the counter for product operations
func RecordProductOperation(operation, result string) {
	if ProductOperationsCounter == nil {
		return
	}
	ProductOperationsCounter.WithLabelValues(operation, result).Inc()
}

// SetQuantityLeft updates the gauge for a product's outstanding units
func SetQuantityLeft(transactionID string, left int) {
	if ProductQuantityLeftGauge == nil {
		return
	}
	ProductQuantityLeftGauge.WithLabelValues(transactionID).Set(float64(left))
}

// DeleteQuantityLeft drops the gauge series of a removed product
func DeleteQuantityLeft(transactionID string) {
	if ProductQuantityLeftGauge == nil {
		return
	}
	ProductQuantityLeftGauge.DeleteLabelValues(transactionID)
}

// RecordLogin records an admin login attempt and its outcome
func RecordLogin(success bool) {
	if LoginAttemptsCounter == nil {
		return
	}
	LoginAttemptsCounter.Inc()
	if success {
		LoginSuccessCounter.Inc()
	} else {
		LoginFailureCounter.Inc()
	}
}

// MetricsMiddleware adds prometheus metrics to track HTTP requests
func MetricsMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)

			if HttpRequestsTotal == nil {
				return err
			}

			duration := time.Since(start).Seconds()
			method := c.Request().Method
			path := c.Path()
			status := strconv.Itoa(c.Response().Status)

			HttpRequestsTotal.WithLabelValues(method, path, status).Inc()
			HttpRequestDuration.WithLabelValues(method, path, status).Observe(duration)

			return err
		}
	}
}
