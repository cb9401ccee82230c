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
	"errors"
	"io"
	"log/slog"
	"time"

	promclient "github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/metric"
)

// Option defines functional options for Recorder configuration.
type Option func(*Recorder)

// WithMeterProvider allows you to provide a custom OpenTelemetry [metric.MeterProvider].
// The recorder creates its instruments from it and leaves its lifecycle to
// the caller; [Recorder.Handler] is unavailable.
//
// Example:
//
//	mp := sdkmetric.NewMeterProvider(...)
//	recorder := metrics.MustNew(metrics.WithMeterProvider(mp))
//	defer mp.Shutdown(context.Background())
func WithMeterProvider(provider metric.MeterProvider) Option {
	return func(r *Recorder) {
		if provider == nil {
			r.validationErrors = append(r.validationErrors, errors.New("meter provider cannot be nil"))
			return
		}
		r.meterProvider = provider
		r.customMeterProvider = true
	}
}

// WithPrometheusRegisterer registers the Prometheus collectors with reg
// instead of a private registry. [Recorder.Handler] serves reg when it is
// also a [promclient.Gatherer], as [promclient.Registry] is.
//
// Example:
//
//	recorder := metrics.MustNew(
//	    metrics.WithPrometheusRegisterer(prometheus.DefaultRegisterer),
//	)
func WithPrometheusRegisterer(reg promclient.Registerer) Option {
	return func(r *Recorder) {
		if reg == nil {
			r.validationErrors = append(r.validationErrors, errors.New("prometheus registerer cannot be nil"))
			return
		}
		r.registerer = reg
	}
}

// WithOTLP configures the OTLP HTTP provider with endpoint. An "http://"
// endpoint is dialed without TLS; an empty endpoint uses the exporter's
// environment defaults.
//
// Example:
//
//	recorder := metrics.MustNew(metrics.WithOTLP("http://localhost:4318"))
func WithOTLP(endpoint string) Option {
	return func(r *Recorder) {
		r.provider = OTLPProvider
		r.providerSetCount++
		r.otlpEndpoint = endpoint
	}
}

// WithStdout configures the stdout provider for development/debugging.
// Measurements are written as JSON to w, or to os.Stdout when w is nil.
//
// Example:
//
//	recorder := metrics.MustNew(
//	    metrics.WithStdout(nil),
//	    metrics.WithExportInterval(time.Second),
//	)
func WithStdout(w io.Writer) Option {
	return func(r *Recorder) {
		r.provider = StdoutProvider
		r.providerSetCount++
		if w != nil {
			r.stdoutWriter = w
		}
	}
}

// WithExportInterval sets how often the OTLP and stdout providers export.
// Prometheus is pull-based and ignores it.
func WithExportInterval(interval time.Duration) Option {
	return func(r *Recorder) {
		r.exportInterval = interval
	}
}

// WithGlobalMeterProvider registers the meter provider as the global
// OpenTelemetry meter provider via otel.SetMeterProvider().
func WithGlobalMeterProvider() Option {
	return func(r *Recorder) {
		r.registerGlobal = true
	}
}

// WithServiceName sets the service.name attribute on every measurement.
func WithServiceName(name string) Option {
	return func(r *Recorder) {
		r.serviceName = name
	}
}

// WithDurationBuckets sets custom histogram bucket boundaries for call
// duration. Buckets are specified in seconds. If not set,
// DefaultDurationBuckets is used.
func WithDurationBuckets(buckets ...float64) Option {
	return func(r *Recorder) {
		if len(buckets) == 0 {
			r.validationErrors = append(r.validationErrors, errors.New("duration buckets cannot be empty"))
			return
		}
		r.durationBuckets = buckets
	}
}

// WithSizeBuckets sets custom histogram bucket boundaries for payload size.
// Buckets are specified in bytes. If not set, DefaultSizeBuckets is used.
func WithSizeBuckets(buckets ...float64) Option {
	return func(r *Recorder) {
		if len(buckets) == 0 {
			r.validationErrors = append(r.validationErrors, errors.New("size buckets cannot be empty"))
			return
		}
		r.sizeBuckets = buckets
	}
}

// WithLogger sets the logger for internal operational events.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Recorder) {
		r.logger = logger
	}
}
