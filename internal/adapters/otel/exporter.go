package otel

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/emiliopalmerini/adpulse/internal/domain"
)

const (
	serviceName    = "adpulse"
	serviceVersion = "1.0.0"
)

// Exporter exports recorded campaign results to an OTEL Collector.
type Exporter struct {
	provider     *sdkmetric.MeterProvider
	spend        metric.Float64Counter
	revenue      metric.Float64Counter
	impressions  metric.Int64Counter
	clicks       metric.Int64Counter
	conversions  metric.Int64Counter
	testsTotal   metric.Int64Counter
	testLiftHist metric.Float64Histogram
}

// NewExporter creates a new OTEL metrics exporter.
func NewExporter(ctx context.Context, cfg Config) (*Exporter, error) {
	if !cfg.Enabled || cfg.Endpoint == "" {
		return nil, fmt.Errorf("OTEL exporter is disabled or endpoint not configured")
	}

	opts := []otlpmetricgrpc.Option{
		otlpmetricgrpc.WithEndpoint(cfg.Endpoint),
	}
	if cfg.Insecure {
		opts = append(opts, otlpmetricgrpc.WithDialOption(grpc.WithTransportCredentials(insecure.NewCredentials())))
		opts = append(opts, otlpmetricgrpc.WithInsecure())
	}

	exp, err := otlpmetricgrpc.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating OTLP exporter: %w", err)
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(serviceName),
			semconv.ServiceVersion(serviceVersion),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	provider := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exp)),
		sdkmetric.WithResource(res),
	)
	otel.SetMeterProvider(provider)

	e, err := newExporter(provider)
	if err != nil {
		_ = provider.Shutdown(ctx)
		return nil, err
	}
	return e, nil
}

// newExporter registers the instruments on provider. Tests pass a provider
// backed by a manual reader.
func newExporter(provider *sdkmetric.MeterProvider) (*Exporter, error) {
	meter := provider.Meter(serviceName)
	e := &Exporter{provider: provider}

	var err error
	if e.spend, err = meter.Float64Counter(
		"adpulse_campaign_spend_total",
		metric.WithDescription("Ad spend recorded per campaign"),
		metric.WithUnit("{currency}"),
	); err != nil {
		return nil, fmt.Errorf("creating spend counter: %w", err)
	}
	if e.revenue, err = meter.Float64Counter(
		"adpulse_campaign_revenue_total",
		metric.WithDescription("Attributed revenue recorded per campaign"),
		metric.WithUnit("{currency}"),
	); err != nil {
		return nil, fmt.Errorf("creating revenue counter: %w", err)
	}
	if e.impressions, err = meter.Int64Counter(
		"adpulse_campaign_impressions_total",
		metric.WithDescription("Impressions recorded per campaign"),
		metric.WithUnit("{impression}"),
	); err != nil {
		return nil, fmt.Errorf("creating impressions counter: %w", err)
	}
	if e.clicks, err = meter.Int64Counter(
		"adpulse_campaign_clicks_total",
		metric.WithDescription("Clicks recorded per campaign"),
		metric.WithUnit("{click}"),
	); err != nil {
		return nil, fmt.Errorf("creating clicks counter: %w", err)
	}
	if e.conversions, err = meter.Int64Counter(
		"adpulse_campaign_conversions_total",
		metric.WithDescription("Conversions recorded per campaign"),
		metric.WithUnit("{conversion}"),
	); err != nil {
		return nil, fmt.Errorf("creating conversions counter: %w", err)
	}
	if e.testsTotal, err = meter.Int64Counter(
		"adpulse_ab_tests_completed_total",
		metric.WithDescription("Completed A/B tests by verdict"),
		metric.WithUnit("{test}"),
	); err != nil {
		return nil, fmt.Errorf("creating tests counter: %w", err)
	}
	if e.testLiftHist, err = meter.Float64Histogram(
		"adpulse_ab_test_lift",
		metric.WithDescription("Relative lift of the variant over the control"),
	); err != nil {
		return nil, fmt.Errorf("creating lift histogram: %w", err)
	}
	return e, nil
}

// ExportCampaignMetrics exports one recorded day of campaign delivery.
func (e *Exporter) ExportCampaignMetrics(ctx context.Context, c *domain.Campaign, m *domain.CampaignMetrics) error {
	opt := metric.WithAttributes(
		attribute.String("campaign_id", c.ID),
		attribute.String("campaign_name", c.Name),
		attribute.String("platform", c.Platform),
		attribute.String("funnel_stage", string(c.FunnelStage)),
	)

	e.spend.Add(ctx, m.Spend, opt)
	e.revenue.Add(ctx, m.Revenue, opt)
	e.impressions.Add(ctx, m.Impressions, opt)
	e.clicks.Add(ctx, m.Clicks, opt)
	e.conversions.Add(ctx, m.Conversions, opt)
	return nil
}

// ExportTestResult exports the verdict of a completed A/B test.
func (e *Exporter) ExportTestResult(ctx context.Context, t *domain.Test, r domain.SignificanceResult) error {
	opt := metric.WithAttributes(
		attribute.String("element", t.Element),
		attribute.String("winner", string(r.Winner)),
		attribute.Bool("significant", r.Significant),
	)

	e.testsTotal.Add(ctx, 1, opt)
	e.testLiftHist.Record(ctx, r.Lift, opt)
	return nil
}

// Close shuts down the exporter and flushes any pending metrics.
func (e *Exporter) Close(ctx context.Context) error {
	return e.provider.Shutdown(ctx)
}
