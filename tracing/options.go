// Copyright 2025 The Rivaas Authors
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
package tracing

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"go.opentelemetry.io/otel/trace"
)

// Option defines functional options for Tracer configuration.
type Option func(*Tracer)

// WithTracerProvider allows you to provide a custom OpenTelemetry
// [trace.TracerProvider]. Its lifecycle stays with the caller.
//
// Example:
//
//	tp := sdktrace.NewTracerProvider(...)
//	tracer := tracing.MustNew(tracing.WithTracerProvider(tp))
//	defer tp.Shutdown(context.Background())
func WithTracerProvider(provider trace.TracerProvider) Option {
	return func(t *Tracer) {
		if provider == nil {
			t.validationErrors = append(t.validationErrors, errors.New("tracer provider cannot be nil"))
			return
		}
		t.tracerProvider = provider
		t.customTracerProvider = true
	}
}

// WithGlobalTracerProvider registers the tracer provider as the global
// OpenTelemetry tracer provider via otel.SetTracerProvider().
func WithGlobalTracerProvider() Option {
	return func(t *Tracer) {
		t.registerGlobal = true
	}
}

// WithServiceName sets the service name resource attribute.
func WithServiceName(name string) Option {
	return func(t *Tracer) {
		t.serviceName = name
	}
}

// WithSampleRate sets the fraction of calls that are traced, from 0 to 1.
func WithSampleRate(rate float64) Option {
	return func(t *Tracer) {
		if rate < 0 || rate > 1 {
			t.validationErrors = append(t.validationErrors, fmt.Errorf("sample rate must be between 0 and 1, got %v", rate))
			return
		}
		t.sampleRate = rate
	}
}

// WithStdout writes finished spans as JSON to w, or to os.Stdout when w is
// nil. Meant for development/debugging.
func WithStdout(w io.Writer) Option {
	return func(t *Tracer) {
		t.provider = StdoutProvider
		t.providerSetCount++
		if w != nil {
			t.stdoutWriter = w
		}
	}
}

// OTLPOption configures the OTLP gRPC exporter.
type OTLPOption func(*otlpConfig)

type otlpConfig struct {
	insecure bool
}

// OTLPInsecure disables TLS for the OTLP gRPC connection. Meant for a local
// collector.
func OTLPInsecure() OTLPOption {
	return func(c *otlpConfig) {
		c.insecure = true
	}
}

// WithOTLP exports spans over OTLP gRPC to endpoint ("host:port", e.g.
// "localhost:4317").
//
// Example:
//
//	tracer := tracing.MustNew(tracing.WithOTLP("localhost:4317", tracing.OTLPInsecure()))
func WithOTLP(endpoint string, opts ...OTLPOption) Option {
	return func(t *Tracer) {
		t.provider = OTLPProvider
		t.providerSetCount++
		t.otlpEndpoint = endpoint

		cfg := &otlpConfig{}
		for _, opt := range opts {
			opt(cfg)
		}
		t.otlpInsecure = cfg.insecure
	}
}

// WithOTLPHTTP exports spans over OTLP HTTP to endpoint (e.g.
// "http://localhost:4318"). An http:// endpoint disables TLS.
func WithOTLPHTTP(endpoint string) Option {
	return func(t *Tracer) {
		t.provider = OTLPHTTPProvider
		t.providerSetCount++
		t.otlpEndpoint = endpoint
	}
}

// WithNoop creates spans that are never exported. This is the default.
func WithNoop() Option {
	return func(t *Tracer) {
		t.provider = NoopProvider
		t.providerSetCount++
	}
}

// WithLogger sets the logger for internal operational events.
func WithLogger(logger *slog.Logger) Option {
	return func(t *Tracer) {
		t.logger = logger
	}
}
