// Package metrics exposes application-level instruments for the
// derived-state maintainers.
package metrics

import (
	"context"
	"fmt"
	"time"

	"github.com/refacia/refacia/internal/config"
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

var Module = fx.Module("metrics",
	fx.Provide(NewProvider),
	fx.Provide(New),
)

// Metrics carries the domain instruments. A nil *Metrics is a valid
// no-op receiver so callers never need to guard.
type Metrics struct {
	ordersRecomputed metric.Int64Counter
	stockMovements   metric.Int64Counter
	alertsEmitted    metric.Int64Counter
}

// NewProvider configures and registers the meter provider.
func NewProvider(lc fx.Lifecycle, cfg config.Config, log *zap.Logger) (metric.MeterProvider, error) {
	if !cfg.MetricsEnabled {
		provider := noop.NewMeterProvider()
		otel.SetMeterProvider(provider)
		return provider, nil
	}

	exporter, err := newExporter(cfg.MetricsExporter, cfg.MetricsEndpoint)
	if err != nil {
		return nil, err
	}

	reader := sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(10*time.Second))
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	otel.SetMeterProvider(provider)

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			log.Info("shutting down meter provider")
			return provider.Shutdown(ctx)
		},
	})

	return provider, nil
}

// New configures the domain metrics instruments.
func New(cfg config.Config, provider metric.MeterProvider) (*Metrics, error) {
	meter := provider.Meter(cfg.AppName)

	ordersRecomputed, err := meter.Int64Counter("refacia_orders_recomputed_total",
		metric.WithDescription("Order total recomputations performed."))
	if err != nil {
		return nil, err
	}
	stockMovements, err := meter.Int64Counter("refacia_stock_movements_total",
		metric.WithDescription("Stock quantity mutations applied."))
	if err != nil {
		return nil, err
	}
	alertsEmitted, err := meter.Int64Counter("refacia_stock_alerts_total",
		metric.WithDescription("Stock alerts emitted, labelled by status."))
	if err != nil {
		return nil, err
	}

	return &Metrics{
		ordersRecomputed: ordersRecomputed,
		stockMovements:   stockMovements,
		alertsEmitted:    alertsEmitted,
	}, nil
}

func (m *Metrics) RecordOrderRecomputed(ctx context.Context) {
	if m == nil {
		return
	}
	m.ordersRecomputed.Add(ctx, 1)
}

func (m *Metrics) RecordStockMovement(ctx context.Context, movementType string) {
	if m == nil {
		return
	}
	m.stockMovements.Add(ctx, 1, metric.WithAttributes(attribute.String("type", movementType)))
}

func (m *Metrics) RecordAlertEmitted(ctx context.Context, status string) {
	if m == nil {
		return
	}
	m.alertsEmitted.Add(ctx, 1, metric.WithAttributes(attribute.String("status", status)))
}

func newExporter(protocol, endpoint string) (sdkmetric.Exporter, error) {
	switch protocol {
	case "http":
		return otlpmetrichttp.New(context.Background(),
			otlpmetrichttp.WithEndpoint(endpoint),
			otlpmetrichttp.WithInsecure(),
		)
	case "grpc":
		return otlpmetricgrpc.New(context.Background(),
			otlpmetricgrpc.WithEndpoint(endpoint),
			otlpmetricgrpc.WithInsecure(),
		)
	default:
		return nil, fmt.Errorf("unsupported metrics exporter %q", protocol)
	}
}
