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
// Package tracing records OpenTelemetry spans for rivaas.dev/borsh calls.
//
// Encode and Decode are synchronous and take no context, so spans are
// created when a call finishes: each span starts at the call's start time
// and ends when it returned. Pass the context that should parent the span to
// [Tracer.Events].
//
// # Basic Usage
//
//	tracer := tracing.MustNew(tracing.WithStdout(nil))
//	defer tracer.Shutdown(context.Background())
//
//	value, err := borsh.Decode(data, schema, borsh.WithEvents(tracer.Events(ctx)))
//
// # Providers
//
// Spans are recorded but not exported by default ([WithNoop]). [WithStdout]
// writes them as JSON, [WithOTLP] and [WithOTLPHTTP] send them to an
// OpenTelemetry collector, and [WithTracerProvider] hands recording to a
// provider the caller owns.
//
// # Global State
//
// By default, this package does NOT set the global OpenTelemetry tracer
// provider. Use [WithGlobalTracerProvider] to register it.
package tracing
