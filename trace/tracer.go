// Copyright (C) 2024, Galactic Council. All rights reserved.
// See the file LICENSE for licensing terms.

package trace

import (
	"context"
	"time"

	"github.com/ava-labs/avalanchego/trace"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/zipkin"
	"go.opentelemetry.io/otel/sdk/resource"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.4.0"
	oteltrace "go.opentelemetry.io/otel/trace"
)

const (
	AppName = "amm"

	defaultEndpoint = "http://localhost:9411/api/v2/spans"

	tracerExportTimeout = 10 * time.Second
	// Longer than [tracerExportTimeout] so in-flight exports can finish.
	tracerProviderShutdownTimeout = 15 * time.Second
)

type Config struct {
	Enabled bool `json:"enabled"`

	// The fraction of traces to sample.
	// If >= 1 always samples.
	// If <= 0 never samples.
	SampleRate float64 `json:"sampleRate"`

	// Zipkin collector receiving the spans.
	Endpoint string `json:"endpoint"`
	Agent    string `json:"agent"`
	Version  string `json:"version"`
}

func NewDefaultConfig() Config {
	return Config{
		SampleRate: 1,
		Endpoint:   defaultEndpoint,
		Agent:      "amm-simulator",
	}
}

var _ trace.Tracer = (*tracer)(nil)

type tracer struct {
	oteltrace.Tracer

	tp *sdktrace.TracerProvider
}

func (t *tracer) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), tracerProviderShutdownTimeout)
	defer cancel()
	return t.tp.Shutdown(ctx)
}

// New returns a tracer exporting to the zipkin collector of [config], or a
// no-op tracer when tracing is disabled.
func New(config Config) (trace.Tracer, error) {
	if !config.Enabled {
		return Noop(), nil
	}

	exporter, err := zipkin.New(config.Endpoint)
	if err != nil {
		return nil, err
	}
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter, sdktrace.WithExportTimeout(tracerExportTimeout)),
		sdktrace.WithResource(
			resource.NewWithAttributes(
				semconv.SchemaURL,
				attribute.String("version", config.Version),
				semconv.ServiceNameKey.String(config.Agent),
			),
		),
		sdktrace.WithSampler(sdktrace.TraceIDRatioBased(config.SampleRate)),
	)
	return &tracer{
		Tracer: tp.Tracer(AppName),
		tp:     tp,
	}, nil
}
