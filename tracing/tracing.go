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
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"

	"rivaas.dev/borsh"
	"rivaas.dev/borsh/telemetry/semconv"
)

const tracerName = "rivaas.dev/borsh/tracing"

// Provider represents the available tracing providers.
type Provider string

const (
	// NoopProvider records spans without exporting them (default).
	NoopProvider Provider = "noop"
	// StdoutProvider exports spans to stdout (development/testing).
	StdoutProvider Provider = "stdout"
	// OTLPProvider exports spans over OTLP gRPC.
	OTLPProvider Provider = "otlp"
	// OTLPHTTPProvider exports spans over OTLP HTTP.
	OTLPHTTPProvider Provider = "otlp-http"
)

// Tracer creates spans for codec calls. All methods are safe for
// concurrent use.
type Tracer struct {
	tracer         trace.Tracer
	tracerProvider trace.TracerProvider
	sdkProvider    *sdktrace.TracerProvider // Owned provider, shut down by Shutdown
	logger         *slog.Logger
	stdoutWriter   io.Writer

	validationErrors []error

	serviceName  string
	sampleRate   float64
	otlpEndpoint string
	otlpInsecure bool

	provider             Provider
	providerSetCount     int
	customTracerProvider bool
	registerGlobal       bool
}

// New creates a new [Tracer] with the given options.
// For a version that panics on error, use [MustNew].
func New(opts ...Option) (*Tracer, error) {
	t := &Tracer{
		serviceName:  "rivaas-service",
		sampleRate:   1.0,
		provider:     NoopProvider,
		stdoutWriter: os.Stdout,
		logger:       slog.New(slog.DiscardHandler),
	}

	for _, opt := range opts {
		opt(t)
	}

	if err := t.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	if err := t.initializeProvider(); err != nil {
		return nil, fmt.Errorf("failed to initialize tracing: %w", err)
	}

	return t, nil
}

// MustNew creates a new [Tracer] with the given options.
// It panics if the tracer cannot be created.
func MustNew(opts ...Option) *Tracer {
	t, err := New(opts...)
	if err != nil {
		panic(fmt.Sprintf("tracing.MustNew: %v", err))
	}

	return t
}

func (t *Tracer) validate() error {
	errs := slices.Clone(t.validationErrors)

	if t.providerSetCount > 1 {
		errs = append(errs, errors.New("only one provider option can be used"))
	}
	if t.customTracerProvider && t.providerSetCount > 0 {
		errs = append(errs, errors.New("WithTracerProvider cannot be combined with provider options"))
	}
	if t.serviceName == "" {
		errs = append(errs, errors.New("service name cannot be empty"))
	}
	if t.logger == nil {
		errs = append(errs, errors.New("logger cannot be nil"))
	}

	return errors.Join(errs...)
}

// Events returns codec hooks that record a span per call under ctx.
//
// Example:
//
//	value, err := borsh.Decode(data, schema, borsh.WithEvents(tracer.Events(ctx)))
func (t *Tracer) Events(ctx context.Context) borsh.Events {
	return borsh.Events{
		Done: func(stats borsh.Stats) {
			t.Record(ctx, stats)
		},
	}
}

// Record records a span for one finished codec call. The span ends now and
// starts stats.Duration earlier. A nil tracer records nothing.
func (t *Tracer) Record(ctx context.Context, stats borsh.Stats) {
	if t == nil {
		return
	}

	end := time.Now()
	_, span := t.tracer.Start(ctx, "borsh."+string(stats.Op),
		trace.WithTimestamp(end.Add(-stats.Duration)),
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.Int(semconv.Bytes, stats.Bytes),
			attribute.Int(semconv.Values, stats.Values),
		),
	)

	if stats.Err != nil {
		span.RecordError(stats.Err)
		span.SetStatus(codes.Error, stats.Err.Error())

		var codecErr *borsh.Error
		if errors.As(stats.Err, &codecErr) {
			span.SetAttributes(
				attribute.String(semconv.ErrorKind, codecErr.Code()),
				attribute.String(semconv.ErrorPath, codecErr.Path),
			)
		}
	}

	span.End(trace.WithTimestamp(end))
}

// Shutdown flushes and shuts down a provider the tracer owns. A custom
// tracer provider is left to its owner.
func (t *Tracer) Shutdown(ctx context.Context) error {
	if t.sdkProvider == nil {
		return nil
	}
	t.emitDebug("Shutting down tracer provider")

	if err := t.sdkProvider.Shutdown(ctx); err != nil {
		return fmt.Errorf("tracing: shutdown: %w", err)
	}

	return nil
}

// Provider returns the configured export provider, or an empty string when a
// custom tracer provider is used.
func (t *Tracer) Provider() Provider {
	if t.customTracerProvider {
		return ""
	}

	return t.provider
}

// ServiceName returns the service name resource attribute.
func (t *Tracer) ServiceName() string {
	return t.serviceName
}

func (t *Tracer) emitDebug(msg string, args ...any) {
	t.logger.Debug(msg, args...)
}
