// Copyright 2025 Kadir Pekel
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package observability

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// TracerConfig configures the OTLP/gRPC tracer. NewTracerConfig builds one
// from config.ObservabilityConfig rather than requiring callers to
// assemble the struct by hand.
type TracerConfig struct {
	Enabled      bool
	EndpointURL  string
	SamplingRate float64
	ServiceName  string
}

// ObservabilityConfig is the subset of config.ObservabilityConfig the
// tracer needs. Defined here rather than importing pkg/config directly, to
// avoid a dependency from this low-level package back up to the config
// tree; cmd/assistant wires the two together.
type ObservabilityConfig struct {
	TracingEnabled bool
	ServiceName    string
	OTLPEndpoint   string
	SamplingRate   float64
}

// NewTracerConfig adapts an ObservabilityConfig into the shape
// InitGlobalTracer expects.
func NewTracerConfig(cfg ObservabilityConfig) TracerConfig {
	return TracerConfig{
		Enabled:      cfg.TracingEnabled,
		EndpointURL:  cfg.OTLPEndpoint,
		SamplingRate: cfg.SamplingRate,
		ServiceName:  cfg.ServiceName,
	}
}

// InitGlobalTracer installs a global OTLP/gRPC tracer provider and returns
// it so the caller can shut it down on exit. When cfg.Enabled is false (the
// default; tracing is opt-in), it installs a no-op provider instead of
// dialing an exporter.
func InitGlobalTracer(ctx context.Context, cfg TracerConfig) (trace.TracerProvider, error) {
	if !cfg.Enabled {
		return noop.NewTracerProvider(), nil
	}

	exporter, err := otlptracegrpc.New(ctx,
		otlptracegrpc.WithEndpoint(cfg.EndpointURL),
		otlptracegrpc.WithInsecure(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create OTLP exporter: %w", err)
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(cfg.ServiceName),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithSampler(sdktrace.TraceIDRatioBased(cfg.SamplingRate)),
		sdktrace.WithResource(res),
	)

	otel.SetTracerProvider(tp)
	return tp, nil
}

// GetTracer returns a named tracer off the global provider installed by
// InitGlobalTracer (or a no-op tracer if tracing was never initialized).
func GetTracer(name string) trace.Tracer {
	return otel.Tracer(name)
}
