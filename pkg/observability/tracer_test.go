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
	"testing"
)

func TestNewTracerConfig(t *testing.T) {
	cfg := NewTracerConfig(ObservabilityConfig{
		TracingEnabled: true,
		ServiceName:    "aide-test",
		OTLPEndpoint:   "collector:4317",
		SamplingRate:   0.5,
	})

	if !cfg.Enabled {
		t.Error("Expected Enabled=true")
	}
	if cfg.ServiceName != "aide-test" {
		t.Errorf("ServiceName = %q, want %q", cfg.ServiceName, "aide-test")
	}
	if cfg.EndpointURL != "collector:4317" {
		t.Errorf("EndpointURL = %q, want %q", cfg.EndpointURL, "collector:4317")
	}
	if cfg.SamplingRate != 0.5 {
		t.Errorf("SamplingRate = %v, want %v", cfg.SamplingRate, 0.5)
	}
}

func TestInitGlobalTracer_DisabledReturnsNoop(t *testing.T) {
	tp, err := InitGlobalTracer(context.Background(), NewTracerConfig(ObservabilityConfig{
		TracingEnabled: false,
	}))
	if err != nil {
		t.Fatalf("InitGlobalTracer() error = %v, want nil", err)
	}
	if tp == nil {
		t.Fatal("InitGlobalTracer() returned nil provider")
	}

	if _, ok := tp.(interface{ Shutdown(context.Context) error }); ok {
		t.Error("expected the no-op provider, which has no Shutdown method")
	}
}

func TestGetTracer_ReturnsUsableTracer(t *testing.T) {
	tracer := GetTracer("test")
	_, span := tracer.Start(context.Background(), "test-span")
	defer span.End()

	if span.SpanContext().IsValid() {
		// A no-op tracer (the default with no provider set) yields an
		// invalid span context; a real provider yields a valid one. Either
		// is acceptable here as long as Start doesn't panic.
		return
	}
}
