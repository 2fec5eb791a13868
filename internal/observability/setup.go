package observability

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	promreg "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"

	"github.com/hskaicoach/backend/internal/config"
)

// Provider bundles the tracing and metrics instruments shared across the service.
type Provider struct {
	tracerProvider *sdktrace.TracerProvider
	promHandler    http.Handler
	shutdownFuncs  []func(context.Context) error

	httpRequestCounter *promreg.CounterVec
	httpRequestLatency *promreg.HistogramVec
	providerLatency    *promreg.HistogramVec
	providerFallbacks  *promreg.CounterVec
	cacheEvents        *promreg.CounterVec
	quotaRejections    promreg.Counter
}

func Setup(ctx context.Context, cfg config.ObservabilityConfig) (*Provider, error) {
	if !cfg.EnableOTLP && !cfg.EnableMetrics {
		return nil, nil
	}

	provider := &Provider{}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName("hsk-ai-coach"),
		),
	)
	if err != nil {
		return nil, err
	}

	if cfg.EnableOTLP {
		endpoint := strings.TrimSpace(cfg.OTLPEndpoint)
		if endpoint == "" {
			endpoint = "localhost:4317"
		}
		opts := []otlptracegrpc.Option{}
		switch {
		case strings.HasPrefix(endpoint, "http://"):
			endpoint = strings.TrimPrefix(endpoint, "http://")
			opts = append(opts, otlptracegrpc.WithInsecure())
		case strings.HasPrefix(endpoint, "https://"):
			endpoint = strings.TrimPrefix(endpoint, "https://")
		default:
			opts = append(opts, otlptracegrpc.WithInsecure())
		}
		opts = append(opts, otlptracegrpc.WithEndpoint(endpoint))

		client := otlptracegrpc.NewClient(opts...)
		exporter, err := otlptrace.New(ctx, client)
		if err != nil {
			return nil, err
		}
		tp := sdktrace.NewTracerProvider(
			sdktrace.WithBatcher(exporter),
			sdktrace.WithResource(res),
		)
		otel.SetTracerProvider(tp)
		provider.tracerProvider = tp
		provider.shutdownFuncs = append(provider.shutdownFuncs, tp.Shutdown)
	}

	if cfg.EnableMetrics {
		registry := promreg.NewRegistry()
		provider.promHandler = promhttp.HandlerFor(registry, promhttp.HandlerOpts{EnableOpenMetrics: true})

		latencyBuckets := []float64{0.05, 0.1, 0.2, 0.5, 1, 2, 5, 10, 30}
		httpRequests := promreg.NewCounterVec(
			promreg.CounterOpts{
				Namespace: "hsk_ai_coach",
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests processed.",
			},
			[]string{"method", "route", "status"},
		)
		httpLatency := promreg.NewHistogramVec(
			promreg.HistogramOpts{
				Namespace: "hsk_ai_coach",
				Name:      "http_request_duration_seconds",
				Help:      "Duration of HTTP requests in seconds.",
				Buckets:   latencyBuckets,
			},
			[]string{"method", "route", "status"},
		)
		providerLatency := promreg.NewHistogramVec(
			promreg.HistogramOpts{
				Namespace: "hsk_ai_coach",
				Name:      "ai_provider_duration_seconds",
				Help:      "Duration of AI provider attempts.",
				Buckets:   latencyBuckets,
			},
			[]string{"provider", "outcome"},
		)
		providerFallbacks := promreg.NewCounterVec(
			promreg.CounterOpts{
				Namespace: "hsk_ai_coach",
				Name:      "ai_provider_fallbacks_total",
				Help:      "Fallback transitions within the provider chain.",
			},
			[]string{"from"},
		)
		cacheEvents := promreg.NewCounterVec(
			promreg.CounterOpts{
				Namespace: "hsk_ai_coach",
				Name:      "ai_cache_events_total",
				Help:      "AI response cache hits and misses.",
			},
			[]string{"result"},
		)
		quotaRejections := promreg.NewCounter(
			promreg.CounterOpts{
				Namespace: "hsk_ai_coach",
				Name:      "quota_rejections_total",
				Help:      "Requests rejected by the daily usage quota.",
			},
		)

		for _, c := range []promreg.Collector{httpRequests, httpLatency, providerLatency, providerFallbacks, cacheEvents, quotaRejections} {
			if err := registry.Register(c); err != nil {
				return nil, err
			}
		}

		provider.httpRequestCounter = httpRequests
		provider.httpRequestLatency = httpLatency
		provider.providerLatency = providerLatency
		provider.providerFallbacks = providerFallbacks
		provider.cacheEvents = cacheEvents
		provider.quotaRejections = quotaRejections
	}

	return provider, nil
}

func (p *Provider) PrometheusHandler() http.Handler {
	if p == nil || p.promHandler == nil {
		return nil
	}
	return p.promHandler
}

func (p *Provider) TracerProvider() *sdktrace.TracerProvider {
	if p == nil {
		return nil
	}
	return p.tracerProvider
}

func (p *Provider) Shutdown(ctx context.Context) error {
	if p == nil {
		return nil
	}
	for _, fn := range p.shutdownFuncs {
		if err := fn(ctx); err != nil {
			return err
		}
	}
	return nil
}

func (p *Provider) RecordHTTPRequest(_ context.Context, method, route string, status int, duration time.Duration) {
	if p == nil {
		return
	}

	statusLabel := strconv.Itoa(status)

	if p.httpRequestCounter != nil {
		p.httpRequestCounter.WithLabelValues(method, route, statusLabel).Inc()
	}
	if p.httpRequestLatency != nil {
		p.httpRequestLatency.WithLabelValues(method, route, statusLabel).Observe(duration.Seconds())
	}
}

// RecordProviderAttempt tracks one attempt against an AI vendor.
func (p *Provider) RecordProviderAttempt(provider string, success bool, duration time.Duration) {
	if p == nil || p.providerLatency == nil {
		return
	}
	outcome := "error"
	if success {
		outcome = "ok"
	}
	p.providerLatency.WithLabelValues(provider, outcome).Observe(duration.Seconds())
}

// RecordFallback tracks the chain moving past a failed provider.
func (p *Provider) RecordFallback(from string) {
	if p == nil || p.providerFallbacks == nil {
		return
	}
	p.providerFallbacks.WithLabelValues(from).Inc()
}

// Hit implements the response cache stats sink.
func (p *Provider) Hit() {
	if p == nil || p.cacheEvents == nil {
		return
	}
	p.cacheEvents.WithLabelValues("hit").Inc()
}

// Miss implements the response cache stats sink.
func (p *Provider) Miss() {
	if p == nil || p.cacheEvents == nil {
		return
	}
	p.cacheEvents.WithLabelValues("miss").Inc()
}

// RecordQuotaRejection counts a request blocked by the daily ceiling.
func (p *Provider) RecordQuotaRejection() {
	if p == nil || p.quotaRejections == nil {
		return
	}
	p.quotaRejections.Inc()
}
