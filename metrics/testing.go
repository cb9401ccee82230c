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
package metrics

import (
	"context"
	"testing"
	"time"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

// TestingRecorder creates a [Recorder] backed by a manual reader, so tests
// can collect measurements synchronously. The provider is shut down on
// cleanup.
//
// Example:
//
//	func TestSomething(t *testing.T) {
//	    t.Parallel()
//	    recorder, reader := metrics.TestingRecorder(t)
//	    codec := borsh.MustNew(borsh.WithEvents(recorder.Events()))
//	    // Use codec...
//	    got := metrics.Collect(t, reader)
//	}
func TestingRecorder(t testing.TB, opts ...Option) (*Recorder, *sdkmetric.ManualReader) {
	t.Helper()

	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))

	recorder, err := New(append([]Option{WithMeterProvider(provider)}, opts...)...)
	if err != nil {
		t.Fatalf("TestingRecorder: failed to create recorder: %v", err)
	}

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := provider.Shutdown(ctx); err != nil {
			t.Logf("TestingRecorder: shutdown warning: %v", err)
		}
	})

	return recorder, reader
}

// Collect reads the current measurements from reader and returns them by
// instrument name.
func Collect(t testing.TB, reader *sdkmetric.ManualReader) map[string]metricdata.Metrics {
	t.Helper()

	var rm metricdata.ResourceMetrics
	if err := reader.Collect(context.Background(), &rm); err != nil {
		t.Fatalf("Collect: %v", err)
	}

	out := make(map[string]metricdata.Metrics)
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			out[m.Name] = m
		}
	}

	return out
}
