package app

import (
	"context"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	metricsdk "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.17.0"
	oteltrace "go.opentelemetry.io/otel/trace"

	clmmtypes "github.com/paw-chain/paw-clmm/x/clmm/types"
)

const serviceName = "paw-clmm"

// TelemetryConfig holds the configuration for telemetry
type TelemetryConfig struct {
	Enabled      bool
	OTLPEndpoint string
	SampleRate   float64
	Metrics      bool
}

// Telemetry manages OpenTelemetry tracing and message metrics
type Telemetry struct {
	config       TelemetryConfig
	tracer       oteltrace.Tracer
	meter        metric.Meter
	shutdownFunc []func(context.Context) error
}

// InitTelemetry initializes OpenTelemetry tracing and metrics. With tracing
// disabled it returns an inert Telemetry.
func InitTelemetry(cfg TelemetryConfig) (*Telemetry, error) {
	if !cfg.Enabled {
		return &Telemetry{config: cfg}, nil
	}

	res, err := resource.New(
		context.Background(),
		resource.WithAttributes(
			semconv.ServiceName(serviceName),
			attribute.String("module", clmmtypes.ModuleName),
		),
	)
	if err != nil {
		return nil, err
	}

	tel := &Telemetry{config: cfg}
	if err := tel.initTracing(res); err != nil {
		return nil, err
	}
	if err := tel.initMetrics(res); err != nil {
		return nil, err
	}
	return tel, nil
}

// initTracing sets up OTLP/HTTP tracing
func (t *Telemetry) initTracing(res *resource.Resource) error {
	if _, err := url.Parse(t.config.OTLPEndpoint); err != nil {
		return err
	}

	endpoint := strings.TrimPrefix(t.config.OTLPEndpoint, "http://")
	exp, err := otlptracehttp.New(context.Background(), otlptracehttp.WithEndpoint(endpoint), otlptracehttp.WithInsecure())
	if err != nil {
		return err
	}

	tp := trace.NewTracerProvider(
		trace.WithBatcher(exp),
		trace.WithResource(res),
		trace.WithSampler(trace.ParentBased(
			trace.TraceIDRatioBased(t.config.SampleRate),
		)),
	)

	otel.SetTracerProvider(tp)
	t.tracer = tp.Tracer(serviceName)
	t.shutdownFunc = append(t.shutdownFunc, tp.Shutdown)
	return nil
}

// initMetrics exports message metrics through the Prometheus registry
func (t *Telemetry) initMetrics(res *resource.Resource) error {
	if !t.config.Metrics {
		t.meter = otel.GetMeterProvider().Meter(serviceName)
		return nil
	}

	exporter, err := prometheus.New()
	if err != nil {
		return err
	}
	provider := metricsdk.NewMeterProvider(
		metricsdk.WithResource(res),
		metricsdk.WithReader(exporter),
	)

	otel.SetMeterProvider(provider)
	t.meter = provider.Meter(serviceName)
	t.shutdownFunc = append(t.shutdownFunc, provider.Shutdown)
	return nil
}

// Enabled reports whether messages are traced.
func (t *Telemetry) Enabled() bool {
	return t.config.Enabled
}

// Shutdown gracefully shuts down telemetry
func (t *Telemetry) Shutdown(ctx context.Context) error {
	for _, fn := range t.shutdownFunc {
		if err := fn(ctx); err != nil {
			return err
		}
	}
	return nil
}

// tracedMsgServer wraps every message in a span and records its outcome.
type tracedMsgServer struct {
	next       clmmtypes.MsgServer
	tracer     oteltrace.Tracer
	msgCounter metric.Int64Counter
	msgLatency metric.Float64Histogram
}

var _ clmmtypes.MsgServer = tracedMsgServer{}

// NewTracedMsgServer instruments next with the spans and meters of tel.
func NewTracedMsgServer(next clmmtypes.MsgServer, tel *Telemetry) (clmmtypes.MsgServer, error) {
	msgCounter, err := tel.meter.Int64Counter(
		"clmm.msg.total",
		metric.WithDescription("Total number of CLMM messages handled"),
		metric.WithUnit("{message}"),
	)
	if err != nil {
		return nil, err
	}
	msgLatency, err := tel.meter.Float64Histogram(
		"clmm.msg.processing_time",
		metric.WithDescription("CLMM message processing time"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}
	return tracedMsgServer{next: next, tracer: tel.tracer, msgCounter: msgCounter, msgLatency: msgLatency}, nil
}

// trace starts the span of one message. The returned func ends it.
func (s tracedMsgServer) trace(ctx context.Context, msgType string, attrs ...attribute.KeyValue) (context.Context, func(error)) {
	start := time.Now()
	ctx, span := s.tracer.Start(ctx, "clmm."+msgType)
	span.SetAttributes(attrs...)

	return ctx, func(err error) {
		status := "success"
		if err != nil {
			status = "failed"
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		labels := metric.WithAttributes(
			attribute.String("msg.type", msgType),
			attribute.String("msg.status", status),
		)
		s.msgCounter.Add(ctx, 1, labels)
		s.msgLatency.Record(ctx, float64(time.Since(start).Microseconds())/1000, labels)
		span.End()
	}
}

func (s tracedMsgServer) OpenPool(ctx context.Context, msg *clmmtypes.MsgOpenPool) (_ *clmmtypes.MsgOpenPoolResponse, err error) {
	ctx, end := s.trace(ctx, "open_pool",
		attribute.String("asset_a", msg.AssetA),
		attribute.String("asset_b", msg.AssetB),
	)
	defer func() { end(err) }()
	return s.next.OpenPool(ctx, msg)
}

func (s tracedMsgServer) AddLiquidity(ctx context.Context, msg *clmmtypes.MsgAddLiquidity) (_ *clmmtypes.MsgAddLiquidityResponse, err error) {
	ctx, end := s.trace(ctx, "add_liquidity", positionAttributes(msg.PositionRef)...)
	defer func() { end(err) }()
	return s.next.AddLiquidity(ctx, msg)
}

func (s tracedMsgServer) RemoveLiquidity(ctx context.Context, msg *clmmtypes.MsgRemoveLiquidity) (_ *clmmtypes.MsgRemoveLiquidityResponse, err error) {
	ctx, end := s.trace(ctx, "remove_liquidity", positionAttributes(msg.PositionRef)...)
	defer func() { end(err) }()
	return s.next.RemoveLiquidity(ctx, msg)
}

func (s tracedMsgServer) CollectFees(ctx context.Context, msg *clmmtypes.MsgCollectFees) (_ *clmmtypes.MsgCollectFeesResponse, err error) {
	ctx, end := s.trace(ctx, "collect_fees", positionAttributes(msg.PositionRef)...)
	defer func() { end(err) }()
	return s.next.CollectFees(ctx, msg)
}

func (s tracedMsgServer) ClosePosition(ctx context.Context, msg *clmmtypes.MsgClosePosition) (_ *clmmtypes.MsgClosePositionResponse, err error) {
	ctx, end := s.trace(ctx, "close_position", positionAttributes(msg.PositionRef)...)
	defer func() { end(err) }()
	return s.next.ClosePosition(ctx, msg)
}

func (s tracedMsgServer) SwapExactIn(ctx context.Context, msg *clmmtypes.MsgSwapExactIn) (_ *clmmtypes.MsgSwapResponse, err error) {
	ctx, end := s.trace(ctx, "swap_exact_in",
		attribute.String("pool_id", msg.PoolId.String()),
		attribute.String("direction", msg.Direction.String()),
	)
	defer func() { end(err) }()
	return s.next.SwapExactIn(ctx, msg)
}

func (s tracedMsgServer) SwapExactOut(ctx context.Context, msg *clmmtypes.MsgSwapExactOut) (_ *clmmtypes.MsgSwapResponse, err error) {
	ctx, end := s.trace(ctx, "swap_exact_out",
		attribute.String("pool_id", msg.PoolId.String()),
		attribute.String("direction", msg.Direction.String()),
	)
	defer func() { end(err) }()
	return s.next.SwapExactOut(ctx, msg)
}

func positionAttributes(ref clmmtypes.PositionRef) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String("pool_id", ref.PoolId.String()),
		attribute.Int64("tick_lower", int64(ref.TickLower)),
		attribute.Int64("tick_upper", int64(ref.TickUpper)),
	}
}
