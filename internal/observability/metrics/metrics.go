package metrics

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Config configures the metrics provider.
type Config struct {
	Enabled          bool
	ExporterEndpoint string
	ExporterProtocol string
	ServiceName      string
	Environment      string
}

// Metrics exposes application-level instruments.
type Metrics struct {
	recordWrites     metric.Int64Counter
	authAttempts     metric.Int64Counter
	rateLimitDenied  metric.Int64Counter
	reconcilePushes  metric.Int64Counter
}

// NewProvider configures and registers the meter provider.
func NewProvider(lc fx.Lifecycle, cfg Config, log *zap.Logger) (metric.MeterProvider, error) {
	if !cfg.Enabled {
		provider := noop.NewMeterProvider()
		otel.SetMeterProvider(provider)
		return provider, nil
	}

	exporter, err := newExporter(cfg.ExporterProtocol, cfg.ExporterEndpoint)
	if err != nil {
		return nil, err
	}

	reader := sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(10*time.Second))
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	otel.SetMeterProvider(provider)

	if lc != nil {
		lc.Append(fx.Hook{
			OnStop: func(ctx context.Context) error {
				if log != nil {
					log.Info("shutting down meter provider")
				}
				return provider.Shutdown(ctx)
			},
		})
	}

	return provider, nil
}

// New configures the domain metrics instruments.
func New(cfg Config, provider metric.MeterProvider) (*Metrics, error) {
	name := strings.TrimSpace(cfg.ServiceName)
	if name == "" {
		name = "printtrack"
	}
	meter := provider.Meter(name)

	recordWrites, err := meter.Int64Counter("printtrack_record_writes_total")
	if err != nil {
		return nil, err
	}
	authAttempts, err := meter.Int64Counter("printtrack_auth_attempts_total")
	if err != nil {
		return nil, err
	}
	rateLimitDenied, err := meter.Int64Counter("printtrack_rate_limit_denied_total")
	if err != nil {
		return nil, err
	}
	reconcilePushes, err := meter.Int64Counter("printtrack_reconcile_pushes_total")
	if err != nil {
		return nil, err
	}

	return &Metrics{
		recordWrites:    recordWrites,
		authAttempts:    authAttempts,
		rateLimitDenied: rateLimitDenied,
		reconcilePushes: reconcilePushes,
	}, nil
}

// RecordWrite counts a create/update/delete against one collection.
func (m *Metrics) RecordWrite(ctx context.Context, collection, operation string) {
	if m == nil {
		return
	}
	m.recordWrites.Add(ctx, 1, metric.WithAttributes(filterAttributes(
		attribute.String("collection", strings.TrimSpace(collection)),
		attribute.String("operation", strings.TrimSpace(operation)),
	)...))
}

// RecordAuthAttempt counts a login/verify attempt and its outcome.
func (m *Metrics) RecordAuthAttempt(ctx context.Context, action string, success bool) {
	if m == nil {
		return
	}
	m.authAttempts.Add(ctx, 1, metric.WithAttributes(filterAttributes(
		attribute.String("action", strings.TrimSpace(action)),
		attribute.Bool("success", success),
	)...))
}

// RecordRateLimitDenied counts a denied request.
func (m *Metrics) RecordRateLimitDenied(ctx context.Context, endpoint string) {
	if m == nil {
		return
	}
	m.rateLimitDenied.Add(ctx, 1, metric.WithAttributes(filterAttributes(
		attribute.String("endpoint", strings.TrimSpace(endpoint)),
	)...))
}

// RecordReconcilePush counts one reconciliation push and its result.
func (m *Metrics) RecordReconcilePush(ctx context.Context, result string) {
	if m == nil {
		return
	}
	m.reconcilePushes.Add(ctx, 1, metric.WithAttributes(filterAttributes(
		attribute.String("result", strings.TrimSpace(result)),
	)...))
}

func newExporter(protocol, endpoint string) (sdkmetric.Exporter, error) {
	protocol = strings.ToLower(strings.TrimSpace(protocol))
	switch protocol {
	case "http", "http/protobuf":
		opts := []otlpmetrichttp.Option{}
		if endpoint != "" {
			opts = append(opts, otlpmetrichttp.WithEndpoint(endpoint))
		}
		return otlpmetrichttp.New(context.Background(), opts...)
	case "grpc", "grpc/protobuf", "":
		opts := []otlpmetricgrpc.Option{otlpmetricgrpc.WithInsecure()}
		if endpoint != "" {
			opts = append(opts, otlpmetricgrpc.WithEndpoint(endpoint))
		}
		return otlpmetricgrpc.New(context.Background(), opts...)
	default:
		return nil, fmt.Errorf("unsupported OTLP protocol %q", protocol)
	}
}

var allowedLabelKeys = map[attribute.Key]struct{}{
	"collection": {},
	"operation":  {},
	"action":     {},
	"success":    {},
	"endpoint":   {},
	"result":     {},
}

// filterAttributes strips disallowed labels to keep metrics low-cardinality.
func filterAttributes(attrs ...attribute.KeyValue) []attribute.KeyValue {
	filtered := make([]attribute.KeyValue, 0, len(attrs))
	for _, attr := range attrs {
		if _, ok := allowedLabelKeys[attr.Key]; !ok {
			continue
		}
		filtered = append(filtered, attr)
	}
	return filtered
}
