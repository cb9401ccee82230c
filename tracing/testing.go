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
	"testing"
	"time"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

// TestingTracer creates a [Tracer] whose finished spans are kept in the
// returned recorder. The provider is shut down on cleanup.
//
// Example:
//
//	func TestSomething(t *testing.T) {
//	    t.Parallel()
//	    tracer, spans := tracing.TestingTracer(t)
//	    _, _ = borsh.Decode(data, schema, borsh.WithEvents(tracer.Events(ctx)))
//	    ended := spans.Ended()
//	}
func TestingTracer(t testing.TB, opts ...Option) (*Tracer, *tracetest.SpanRecorder) {
	t.Helper()

	spans := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(spans))

	tracer, err := New(append([]Option{WithTracerProvider(provider)}, opts...)...)
	if err != nil {
		t.Fatalf("TestingTracer: failed to create tracer: %v", err)
	}

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := provider.Shutdown(ctx); err != nil {
			t.Logf("TestingTracer: shutdown warning: %v", err)
		}
	})

	return tracer, spans
}
