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
	"context"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	otelsemconv "go.opentelemetry.io/otel/semconv/v1.17.0"
)

// initializeProvider initializes the tracing provider based on configuration.
func (t *Tracer) initializeProvider() error {
	var err error
	switch {
	case t.customTracerProvider:
		t.emitDebug("Using custom user-provided tracer provider")
	case t.provider == NoopProvider:
		t.sdkProvider = t.newSDKProvider()
	case t.provider == StdoutProvider:
		err = t.initStdoutProvider()
	case t.provider == OTLPProvider:
		err = t.initOTLPProvider()
	case t.provider == OTLPHTTPProvider:
		err = t.initOTLPHTTPProvider()
	default:
		err = fmt.Errorf("unsupported tracing provider: %s", t.provider)
	}
	if err != nil {
		return err
	}

	if t.sdkProvider != nil {
		t.tracerProvider = t.sdkProvider
	}
	if t.registerGlobal {
		t.emitDebug("Setting global OpenTelemetry tracer provider", "provider", t.provider)
		otel.SetTracerProvider(t.tracerProvider)
	}

	t.tracer = t.tracerProvider.Tracer(tracerName)

	return nil
}

// initStdoutProvider initializes the stdout trace exporter.
func (t *Tracer) initStdoutProvider() error {
	exporter, err := stdouttrace.New(stdouttrace.WithWriter(t.stdoutWriter))
	if err != nil {
		return fmt.Errorf("failed to create stdout exporter: %w", err)
	}

	t.sdkProvider = t.newSDKProvider(sdktrace.WithSyncer(exporter))

	return nil
}

// initOTLPProvider initializes the OTLP gRPC trace exporter. The gRPC
// connection is established lazily on first export.
func (t *Tracer) initOTLPProvider() error {
	var opts []otlptracegrpc.Option
	if t.otlpEndpoint != "" {
		opts = append(opts, otlptracegrpc.WithEndpoint(t.otlpEndpoint))
	}
	if t.otlpInsecure {
		opts = append(opts, otlptracegrpc.WithInsecure())
	}

	exporter, err := otlptracegrpc.New(context.Background(), opts...)
	if err != nil {
		return fmt.Errorf("failed to create OTLP gRPC exporter: %w", err)
	}

	t.sdkProvider = t.newSDKProvider(sdktrace.WithBatcher(exporter))

	return nil
}

// initOTLPHTTPProvider initializes the OTLP HTTP trace exporter.
func (t *Tracer) initOTLPHTTPProvider() error {
	var opts []otlptracehttp.Option

	if t.otlpEndpoint != "" {
		endpoint := t.otlpEndpoint
		insecure := false

		if rest, ok := strings.CutPrefix(endpoint, "http://"); ok {
			endpoint, insecure = rest, true
		} else {
			endpoint = strings.TrimPrefix(endpoint, "https://")
		}
		if idx := strings.Index(endpoint, "/"); idx != -1 {
			endpoint = endpoint[:idx]
		}

		opts = append(opts, otlptracehttp.WithEndpoint(endpoint))
		if insecure {
			opts = append(opts, otlptracehttp.WithInsecure())
		}
	}

	exporter, err := otlptracehttp.New(context.Background(), opts...)
	if err != nil {
		return fmt.Errorf("failed to create OTLP HTTP exporter: %w", err)
	}

	t.sdkProvider = t.newSDKProvider(sdktrace.WithBatcher(exporter))

	return nil
}

func (t *Tracer) newSDKProvider(opts ...sdktrace.TracerProviderOption) *sdktrace.TracerProvider {
	opts = append(opts,
		sdktrace.WithResource(createResource(t.serviceName)),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(t.sampleRate))),
	)

	return sdktrace.NewTracerProvider(opts...)
}

// createResource creates an OpenTelemetry resource with service information.
func createResource(serviceName string) *resource.Resource {
	return resource.NewWithAttributes(
		otelsemconv.SchemaURL,
		otelsemconv.ServiceName(serviceName),
	)
}
