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
// Package metrics records OpenTelemetry metrics for rivaas.dev/borsh calls.
//
// A [Recorder] turns the [borsh.Stats] of every finished Encode or Decode
// into four instruments:
//
//   - borsh.operations: calls, by op and outcome
//   - borsh.errors: failed calls, by op and error kind
//   - borsh.payload.size: bytes written or consumed per call
//   - borsh.duration: call duration in seconds
//
// # Basic Usage
//
//	recorder := metrics.MustNew(metrics.WithServiceName("indexer"))
//	defer recorder.Shutdown(context.Background())
//
//	codec := borsh.MustNew(borsh.WithEvents(recorder.Events()))
//
//	handler, _ := recorder.Handler()
//	http.Handle("/metrics", handler)
//
// # Providers
//
// By default the recorder exports through Prometheus with a private registry,
// served by [Recorder.Handler]. [WithPrometheusRegisterer] registers the
// collectors with an existing registry instead, and [WithMeterProvider] hands
// instrument creation to a provider the caller owns.
//
// # Global State
//
// By default, this package does NOT set the global OpenTelemetry meter provider.
// Use [WithGlobalMeterProvider] to register it.
package metrics
