package metrics

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
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
	ServiceName      string
	Environment      string
}

// Metrics exposes application-level instruments.
type Metrics struct {
	ticketsCreated   metric.Int64Counter
	benefitsApplied  metric.Int64Counter
	paymentsSettled  metric.Int64Counter
	lookupFailures   metric.Int64Counter
	benefitsRejected metric.Int64Counter
}

// NewProvider configures and registers the meter provider.
func NewProvider(lc fx.Lifecycle, cfg Config, log *zap.Logger) (metric.MeterProvider, error) {
	if !cfg.Enabled {
		provider := noop.NewMeterProvider()
		otel.SetMeterProvider(provider)
		return provider, nil
	}

	exporter, err := otlpmetricgrpc.New(context.Background(),
		otlpmetricgrpc.WithEndpoint(cfg.ExporterEndpoint),
		otlpmetricgrpc.WithInsecure(),
	)
	if err != nil {
		return nil, fmt.Errorf("create metric exporter: %w", err)
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
		name = "rotativo"
	}
	meter := provider.Meter(name)

	ticketsCreated, err := meter.Int64Counter("rotativo_tickets_created_total")
	if err != nil {
		return nil, err
	}
	benefitsApplied, err := meter.Int64Counter("rotativo_benefits_applied_total")
	if err != nil {
		return nil, err
	}
	paymentsSettled, err := meter.Int64Counter("rotativo_payments_settled_total")
	if err != nil {
		return nil, err
	}
	lookupFailures, err := meter.Int64Counter("rotativo_invoice_lookup_failures_total")
	if err != nil {
		return nil, err
	}
	benefitsRejected, err := meter.Int64Counter("rotativo_benefits_rejected_total")
	if err != nil {
		return nil, err
	}

	return &Metrics{
		ticketsCreated:   ticketsCreated,
		benefitsApplied:  benefitsApplied,
		paymentsSettled:  paymentsSettled,
		lookupFailures:   lookupFailures,
		benefitsRejected: benefitsRejected,
	}, nil
}

// RecordTicketCreated increments created ticket counts per catalog hours.
func (m *Metrics) RecordTicketCreated(ctx context.Context, hours int) {
	if m == nil {
		return
	}
	m.ticketsCreated.Add(ctx, 1, metric.WithAttributes(attribute.Int("hours", hours)))
}

// RecordBenefitApplied increments applied benefit counts per policy.
func (m *Metrics) RecordBenefitApplied(ctx context.Context, policy string) {
	if m == nil {
		return
	}
	m.benefitsApplied.Add(ctx, 1, metric.WithAttributes(attribute.String("policy", policy)))
}

// RecordBenefitRejected increments rejected benefit counts per reason.
func (m *Metrics) RecordBenefitRejected(ctx context.Context, reason string) {
	if m == nil {
		return
	}
	m.benefitsRejected.Add(ctx, 1, metric.WithAttributes(attribute.String("reason", reason)))
}

// RecordPaymentSettled increments settled payment counts.
func (m *Metrics) RecordPaymentSettled(ctx context.Context, method string) {
	if m == nil {
		return
	}
	if method == "" {
		method = "unspecified"
	}
	m.paymentsSettled.Add(ctx, 1, metric.WithAttributes(attribute.String("method", method)))
}

// RecordLookupFailure increments upstream invoice lookup failures per kind.
func (m *Metrics) RecordLookupFailure(ctx context.Context, kind string) {
	if m == nil {
		return
	}
	m.lookupFailures.Add(ctx, 1, metric.WithAttributes(attribute.String("kind", kind)))
}
