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
//go:build !integration

package tracing

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"rivaas.dev/borsh"
	"rivaas.dev/borsh/telemetry/semconv"
)

func attrsOf(span sdktrace.ReadOnlySpan) map[string]attribute.Value {
	out := make(map[string]attribute.Value)
	for _, kv := range span.Attributes() {
		out[string(kv.Key)] = kv.Value
	}

	return out
}

func TestTracer_Events(t *testing.T) {
	t.Parallel()

	tracer, spans := TestingTracer(t)
	events := borsh.WithEvents(tracer.Events(context.Background()))

	data, err := borsh.Encode("ab", borsh.String, events)
	require.NoError(t, err)

	_, err = borsh.Decode(data, borsh.String, events)
	require.NoError(t, err)

	ended := spans.Ended()
	require.Len(t, ended, 2)

	assert.Equal(t, "borsh.encode", ended[0].Name())
	assert.Equal(t, "borsh.decode", ended[1].Name())

	for _, span := range ended {
		attrs := attrsOf(span)
		assert.Equal(t, int64(6), attrs[semconv.Bytes].AsInt64())
		assert.Equal(t, codes.Unset, span.Status().Code)
		assert.False(t, span.EndTime().Before(span.StartTime()))
	}
}

func TestTracer_DecodeError(t *testing.T) {
	t.Parallel()

	tracer, spans := TestingTracer(t)

	_, err := borsh.Decode([]byte{1, 0}, borsh.Struct(borsh.Field("n", borsh.U32)),
		borsh.WithEvents(tracer.Events(context.Background())))
	require.Error(t, err)

	ended := spans.Ended()
	require.Len(t, ended, 1)

	span := ended[0]
	assert.Equal(t, codes.Error, span.Status().Code)
	assert.Equal(t, err.Error(), span.Status().Description)

	attrs := attrsOf(span)
	assert.Equal(t, "buffer_underflow", attrs[semconv.ErrorKind].AsString())
	assert.Equal(t, "value.n", attrs[semconv.ErrorPath].AsString())

	require.NotEmpty(t, span.Events())
	assert.Equal(t, "exception", span.Events()[0].Name)
}

func TestTracer_RecordTiming(t *testing.T) {
	t.Parallel()

	tracer, spans := TestingTracer(t)
	tracer.Record(context.Background(), borsh.Stats{Op: borsh.OpEncode, Duration: 5 * time.Millisecond})

	ended := spans.Ended()
	require.Len(t, ended, 1)
	assert.Equal(t, 5*time.Millisecond, ended[0].EndTime().Sub(ended[0].StartTime()))
}

func TestTracer_ParentSpan(t *testing.T) {
	t.Parallel()

	tracer, spans := TestingTracer(t)

	ctx, parent := tracer.tracer.Start(context.Background(), "request")
	tracer.Record(ctx, borsh.Stats{Op: borsh.OpDecode})
	parent.End()

	ended := spans.Ended()
	require.Len(t, ended, 2)

	child := ended[0]
	assert.Equal(t, "borsh.decode", child.Name())
	assert.Equal(t, parent.SpanContext().SpanID(), child.Parent().SpanID())
	assert.Equal(t, parent.SpanContext().TraceID(), child.SpanContext().TraceID())
}

func TestTracer_NilIsNoop(t *testing.T) {
	t.Parallel()

	var tracer *Tracer
	assert.NotPanics(t, func() {
		tracer.Record(context.Background(), borsh.Stats{Op: borsh.OpEncode})
	})
}

func TestNew_Defaults(t *testing.T) {
	t.Parallel()

	tracer, err := New()
	require.NoError(t, err)
	assert.Equal(t, "rivaas-service", tracer.ServiceName())
	assert.Equal(t, NoopProvider, tracer.Provider())

	tracer.Record(context.Background(), borsh.Stats{Op: borsh.OpEncode})
	require.NoError(t, tracer.Shutdown(context.Background()))
}

func TestNew_Validation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		opts []Option
		want string
	}{
		{"nil provider", []Option{WithTracerProvider(nil)}, "tracer provider cannot be nil"},
		{"two providers", []Option{WithNoop(), WithStdout(nil)}, "only one provider option"},
		{"otlp and stdout", []Option{WithOTLP("localhost:4317"), WithStdout(nil)}, "only one provider option"},
		{
			"custom with provider option",
			[]Option{WithTracerProvider(sdktrace.NewTracerProvider()), WithStdout(nil)},
			"cannot be combined",
		},
		{"empty service name", []Option{WithServiceName("")}, "service name cannot be empty"},
		{"sample rate", []Option{WithSampleRate(1.5)}, "sample rate must be between 0 and 1"},
		{"nil logger", []Option{WithLogger(nil)}, "logger cannot be nil"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := New(tt.opts...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}

	assert.Panics(t, func() { MustNew(WithServiceName("")) })
}

func TestTracer_StdoutProvider(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	tracer := MustNew(WithStdout(&buf), WithServiceName("borsh-test"))

	_, err := borsh.Encode(uint8(7), borsh.U8, borsh.WithEvents(tracer.Events(context.Background())))
	require.NoError(t, err)
	require.NoError(t, tracer.Shutdown(context.Background()))

	assert.Contains(t, buf.String(), "borsh.encode")
	assert.Contains(t, buf.String(), "borsh-test")
}

func TestTracer_SampleRateZero(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	tracer := MustNew(WithStdout(&buf), WithSampleRate(0))

	tracer.Record(context.Background(), borsh.Stats{Op: borsh.OpEncode})
	require.NoError(t, tracer.Shutdown(context.Background()))

	assert.Empty(t, buf.String())
}

func TestTracer_CustomProviderNotShutDown(t *testing.T) {
	t.Parallel()

	tracer, spans := TestingTracer(t)
	require.NoError(t, tracer.Shutdown(context.Background()))

	tracer.Record(context.Background(), borsh.Stats{Op: borsh.OpEncode})
	assert.Len(t, spans.Ended(), 1)
}

func TestTracer_OTLPProviders(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		opt  Option
		want Provider
	}{
		{"grpc", WithOTLP("localhost:4317", OTLPInsecure()), OTLPProvider},
		{"http", WithOTLPHTTP("http://localhost:4318/v1/traces"), OTLPHTTPProvider},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			tracer, err := New(tt.opt)
			require.NoError(t, err)
			assert.Equal(t, tt.want, tracer.Provider())

			ctx, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()
			_ = tracer.Shutdown(ctx)
		})
	}
}
