package observability

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/runtime"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/ototamirci/backend"

// Metrics holds all application metrics
type Metrics struct {
	RequestCount          metric.Int64Counter
	RequestDuration       metric.Float64Histogram
	ReviewSubmissions     metric.Int64Counter
	AppointmentTransition metric.Int64Counter
	RateLimitRejections   metric.Int64Counter
	NearbySearchResults   metric.Int64Histogram
}

// Setup initializes OpenTelemetry tracing, metrics and runtime instrumentation
func Setup(ctx context.Context, serviceName, serviceVersion, endpoint string) (func(context.Context) error, error) {
	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(serviceName),
			semconv.ServiceVersion(serviceVersion),
		),
	)
	if err != nil {
		return nil, err
	}

	traceExporter, err := otlptracegrpc.New(ctx,
		otlptracegrpc.WithEndpoint(endpoint),
		otlptracegrpc.WithInsecure(),
	)
	if err != nil {
		return nil, err
	}

	tracerProvider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(traceExporter),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tracerProvider)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	metricExporter, err := otlpmetricgrpc.New(ctx,
		otlpmetricgrpc.WithEndpoint(endpoint),
		otlpmetricgrpc.WithInsecure(),
	)
	if err != nil {
		_ = tracerProvider.Shutdown(ctx)
		return nil, err
	}

	meterProvider := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(metricExporter, sdkmetric.WithInterval(30*time.Second))),
		sdkmetric.WithResource(res),
	)
	otel.SetMeterProvider(meterProvider)

	if err := runtime.Start(runtime.WithMeterProvider(meterProvider)); err != nil {
		_ = tracerProvider.Shutdown(ctx)
		_ = meterProvider.Shutdown(ctx)
		return nil, err
	}

	shutdown := func(ctx context.Context) error {
		return errors.Join(tracerProvider.Shutdown(ctx), meterProvider.Shutdown(ctx))
	}

	return shutdown, nil
}

// InitMetrics initializes application metrics against the global meter provider.
// Without Setup the global provider is a no-op, so recording is always safe.
func InitMetrics() (*Metrics, error) {
	meter := otel.Meter(instrumentationName)

	requestCount, err := meter.Int64Counter(
		"http.server.request.count",
		metric.WithDescription("Number of HTTP requests"),
	)
	if err != nil {
		return nil, err
	}

	requestDuration, err := meter.Float64Histogram(
		"http.server.request.duration",
		metric.WithDescription("HTTP request duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	reviewSubmissions, err := meter.Int64Counter(
		"reviews.submitted",
		metric.WithDescription("Number of review upserts committed"),
	)
	if err != nil {
		return nil, err
	}

	appointmentTransition, err := meter.Int64Counter(
		"appointments.status_changes",
		metric.WithDescription("Number of appointment status changes"),
	)
	if err != nil {
		return nil, err
	}

	rateLimitRejections, err := meter.Int64Counter(
		"ratelimit.rejections",
		metric.WithDescription("Number of requests rejected by a rate limiter"),
	)
	if err != nil {
		return nil, err
	}

	nearbyResults, err := meter.Int64Histogram(
		"shops.nearby.results",
		metric.WithDescription("Number of shops returned by proximity search"),
	)
	if err != nil {
		return nil, err
	}

	return &Metrics{
		RequestCount:          requestCount,
		RequestDuration:       requestDuration,
		ReviewSubmissions:     reviewSubmissions,
		AppointmentTransition: appointmentTransition,
		RateLimitRejections:   rateLimitRejections,
		NearbySearchResults:   nearbyResults,
	}, nil
}

// StartSpan starts a new trace span
func StartSpan(ctx context.Context, spanName string) (context.Context, trace.Span) {
	return otel.Tracer(instrumentationName).Start(ctx, spanName)
}

// RecordError records an error in the current span
func RecordError(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
	}
}

// RecordRequestMetric records an HTTP request
func RecordRequestMetric(ctx context.Context, metrics *Metrics, method, path string, statusCode int, duration time.Duration) {
	if metrics == nil {
		return
	}
	attrs := metric.WithAttributes(
		attribute.String("http.method", method),
		attribute.String("http.route", path),
		attribute.Int("http.status_code", statusCode),
	)

	metrics.RequestCount.Add(ctx, 1, attrs)
	metrics.RequestDuration.Record(ctx, float64(duration.Milliseconds()), attrs)
}

// RecordReviewSubmission records a committed review upsert
func RecordReviewSubmission(ctx context.Context, metrics *Metrics, rating int) {
	if metrics == nil {
		return
	}
	metrics.ReviewSubmissions.Add(ctx, 1, metric.WithAttributes(attribute.Int("review.rating", rating)))
}

// RecordAppointmentTransition records an appointment status change
func RecordAppointmentTransition(ctx context.Context, metrics *Metrics, from, to string) {
	if metrics == nil {
		return
	}
	metrics.AppointmentTransition.Add(ctx, 1, metric.WithAttributes(
		attribute.String("appointment.from", from),
		attribute.String("appointment.to", to),
	))
}

// RecordRateLimitRejection records a request refused by the named limiter
func RecordRateLimitRejection(ctx context.Context, metrics *Metrics, limiter string) {
	if metrics == nil {
		return
	}
	metrics.RateLimitRejections.Add(ctx, 1, metric.WithAttributes(attribute.String("ratelimit.name", limiter)))
}

// RecordNearbySearch records the size of a proximity search result
func RecordNearbySearch(ctx context.Context, metrics *Metrics, category string, results int) {
	if metrics == nil {
		return
	}
	metrics.NearbySearchResults.Record(ctx, int64(results), metric.WithAttributes(attribute.String("shop.category", category)))
}
