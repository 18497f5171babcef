package database

import (
	"context"
	"time"

	"github.com/hatlonely/litedb/log/logger"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

type metrics struct {
	operations *prometheus.CounterVec
	duration   *prometheus.HistogramVec
	pending    *prometheus.GaugeVec
}

func newMetrics(name string) (*metrics, error) {
	operations, err := register(prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: name + "_operations_total",
			Help: "Total number of database jobs",
		},
		[]string{"file", "operation", "status"},
	))
	if err != nil {
		return nil, err
	}
	duration, err := register(prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    name + "_operation_duration_seconds",
			Help:    "Duration of database jobs in seconds",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0, 5.0},
		},
		[]string{"file", "operation"},
	))
	if err != nil {
		return nil, err
	}
	pending, err := register(prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: name + "_pending_jobs",
			Help: "Number of queued or running database jobs",
		},
		[]string{"file"},
	))
	if err != nil {
		return nil, err
	}
	return &metrics{operations: operations, duration: duration, pending: pending}, nil
}

// register 注册到默认 registry，同名指标已存在时复用已有的
func register[T prometheus.Collector](c T) (T, error) {
	if err := prometheus.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(T); ok {
				return existing, nil
			}
		}
		return c, errors.Wrap(err, "prometheus.Register failed")
	}
	return c, nil
}

// observer 为 worker 上的每个任务记录指标、链路和失败日志
type observer struct {
	file    string
	logger  logger.Logger
	metrics *metrics
	tracer  trace.Tracer
}

func newObserver(file string, options *Options, l logger.Logger) (*observer, error) {
	obs := &observer{file: file, logger: l.WithGroup("db")}
	if options.EnableMetrics {
		name := options.MetricsName
		if name == "" {
			name = "litedb"
		}
		m, err := newMetrics(name)
		if err != nil {
			return nil, err
		}
		obs.metrics = m
	}
	if options.EnableTracing {
		obs.tracer = otel.Tracer("litedb.db")
	}
	return obs, nil
}

func (o *observer) enqueued() {
	if o.metrics != nil {
		o.metrics.pending.WithLabelValues(o.file).Inc()
	}
}

func (o *observer) dequeued() {
	if o.metrics != nil {
		o.metrics.pending.WithLabelValues(o.file).Dec()
	}
}

func (o *observer) observe(op string, sql string, fn func(ctx context.Context) Result) Result {
	ctx := context.Background()
	start := time.Now()

	var span trace.Span
	if o.tracer != nil {
		ctx, span = o.tracer.Start(ctx, "db."+op,
			trace.WithAttributes(
				attribute.String("db.file", o.file),
				attribute.String("db.statement", sql),
			),
		)
		defer span.End()
	}

	result := fn(ctx)
	duration := time.Since(start)

	if span != nil {
		if result.IsError() {
			span.SetStatus(codes.Error, result.Message)
			span.SetAttributes(attribute.Int("db.code", result.Code))
		} else {
			span.SetStatus(codes.Ok, "")
		}
	}

	if o.metrics != nil {
		status := "success"
		if result.IsError() {
			status = "error"
		}
		o.metrics.operations.WithLabelValues(o.file, op, status).Inc()
		o.metrics.duration.WithLabelValues(o.file, op).Observe(duration.Seconds())
	}

	if result.IsError() {
		msg := "db update failed"
		if op == "query" {
			msg = "db query failed"
		}
		o.logger.ErrorContext(ctx, msg,
			"file", o.file,
			"operation", op,
			"sql", sql,
			"code", result.Code,
			"message", result.Message,
			"duration_ms", duration.Milliseconds(),
		)
	}

	return result
}
