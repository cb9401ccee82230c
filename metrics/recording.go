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
	"errors"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"rivaas.dev/borsh"
	"rivaas.dev/borsh/telemetry/semconv"
)

// Record records one finished codec call. A nil recorder records nothing.
func (r *Recorder) Record(ctx context.Context, stats borsh.Stats) {
	if r == nil {
		return
	}

	outcome := "ok"
	if stats.Err != nil {
		outcome = "error"
	}

	attrs := metric.WithAttributes(
		r.serviceAttr,
		attribute.String(semconv.Op, string(stats.Op)),
		attribute.String(semconv.Outcome, outcome),
	)

	r.operations.Add(ctx, 1, attrs)
	r.size.Record(ctx, int64(stats.Bytes), attrs)
	r.duration.Record(ctx, stats.Duration.Seconds(), attrs)

	if stats.Err != nil {
		r.failures.Add(ctx, 1, metric.WithAttributes(
			r.serviceAttr,
			attribute.String(semconv.Op, string(stats.Op)),
			attribute.String(semconv.ErrorKind, errorKind(stats.Err)),
		))
	}
}

// Events returns codec hooks that record every call.
//
// Example:
//
//	codec := borsh.MustNew(borsh.WithEvents(recorder.Events()))
func (r *Recorder) Events() borsh.Events {
	return borsh.Events{
		Done: func(stats borsh.Stats) {
			r.Record(context.Background(), stats)
		},
	}
}

// errorKind returns the codec error code, or "other" for errors that did not
// come from the codec, such as binding failures.
func errorKind(err error) string {
	var codecErr *borsh.Error
	if errors.As(err, &codecErr) {
		return codecErr.Code()
	}

	return "other"
}
