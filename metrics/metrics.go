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
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"slices"
	"time"

	promclient "github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"rivaas.dev/borsh/telemetry/semconv"
)

var (
	// DefaultDurationBuckets are histogram boundaries for call duration in seconds.
	// Codec calls are short, so the range starts at ten microseconds.
	DefaultDurationBuckets = []float64{0.00001, 0.00005, 0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1}

	// DefaultSizeBuckets are histogram boundaries for payload size in bytes.
	DefaultSizeBuckets = []float64{16, 64, 256, 1024, 4096, 16384, 65536, 262144, 1048576}
)

// ErrNoHandler is returned by [Recorder.Handler] when the recorder has no
// Prometheus registry to serve.
var ErrNoHandler = errors.New("metrics: no prometheus handler for this recorder")

const meterName = "rivaas.dev/borsh/metrics"

// Provider represents the available metrics providers.
type Provider string

const (
	// PrometheusProvider uses Prometheus exporter for metrics (default).
	PrometheusProvider Provider = "prometheus"
	// OTLPProvider uses OTLP HTTP exporter for metrics.
	OTLPProvider Provider = "otlp"
	// StdoutProvider uses stdout exporter for metrics (development/testing).
	StdoutProvider Provider = "stdout"
)

// Recorder holds OpenTelemetry metrics configuration and runtime state.
// All methods are safe for concurrent use.
type Recorder struct {
	meter         metric.Meter
	meterProvider metric.MeterProvider
	sdkProvider   *sdkmetric.MeterProvider // Owned provider, shut down by Shutdown
	registerer    promclient.Registerer
	handler       http.Handler
	logger        *slog.Logger

	operations metric.Int64Counter
	failures   metric.Int64Counter
	size       metric.Int64Histogram
	duration   metric.Float64Histogram

	durationBuckets []float64
	sizeBuckets     []float64

	validationErrors []error // Collected during option application

	exportInterval time.Duration
	otlpEndpoint   string
	stdoutWriter   io.Writer

	serviceName string
	serviceAttr attribute.KeyValue

	provider            Provider
	providerSetCount    int // Tracks how many times a provider option was called
	customMeterProvider bool
	registerGlobal      bool
}

// New creates a new [Recorder] with the given options.
// Returns an error if the metrics provider fails to initialize.
// For a version that panics on error, use [MustNew].
func New(opts ...Option) (*Recorder, error) {
	recorder := newDefaultRecorder()

	for _, opt := range opts {
		opt(recorder)
	}

	if err := recorder.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	recorder.serviceAttr = attribute.String(semconv.ServiceName, recorder.serviceName)

	if err := recorder.initializeProvider(); err != nil {
		return nil, fmt.Errorf("failed to initialize metrics: %w", err)
	}

	return recorder, nil
}

// MustNew creates a new [Recorder] with the given options.
// It panics if the recorder cannot be created.
func MustNew(opts ...Option) *Recorder {
	recorder, err := New(opts...)
	if err != nil {
		panic(fmt.Sprintf("metrics.MustNew: %v", err))
	}

	return recorder
}

func newDefaultRecorder() *Recorder {
	return &Recorder{
		serviceName:     "rivaas-service",
		provider:        PrometheusProvider,
		exportInterval:  30 * time.Second,
		stdoutWriter:    os.Stdout,
		durationBuckets: DefaultDurationBuckets,
		sizeBuckets:     DefaultSizeBuckets,
		logger:          slog.New(slog.DiscardHandler),
	}
}

func (r *Recorder) validate() error {
	errs := slices.Clone(r.validationErrors)

	if r.providerSetCount > 1 {
		errs = append(errs, errors.New("only one provider option can be used"))
	}
	if r.customMeterProvider && (r.providerSetCount > 0 || r.registerer != nil) {
		errs = append(errs, errors.New("WithMeterProvider cannot be combined with provider options"))
	}
	if r.registerer != nil && r.provider != PrometheusProvider {
		errs = append(errs, fmt.Errorf("WithPrometheusRegisterer requires the %s provider", PrometheusProvider))
	}
	if r.exportInterval <= 0 {
		errs = append(errs, errors.New("export interval must be positive"))
	}
	if r.serviceName == "" {
		errs = append(errs, errors.New("service name cannot be empty"))
	}
	if !slices.IsSorted(r.durationBuckets) {
		errs = append(errs, errors.New("duration buckets must be sorted"))
	}
	if !slices.IsSorted(r.sizeBuckets) {
		errs = append(errs, errors.New("size buckets must be sorted"))
	}
	if r.logger == nil {
		errs = append(errs, errors.New("logger cannot be nil"))
	}

	return errors.Join(errs...)
}

// Handler returns an HTTP handler serving the Prometheus registry.
// It returns [ErrNoHandler] for the OTLP and stdout providers, for a custom
// meter provider, and when the configured registerer cannot be gathered from.
func (r *Recorder) Handler() (http.Handler, error) {
	if r.handler == nil {
		return nil, ErrNoHandler
	}

	return r.handler, nil
}

// Provider returns the configured provider. It is empty when a custom meter
// provider is in use.
func (r *Recorder) Provider() Provider {
	if r.customMeterProvider {
		return ""
	}

	return r.provider
}

// ServiceName returns the service name attached to measurements.
func (r *Recorder) ServiceName() string {
	return r.serviceName
}

// ForceFlush flushes pending measurements of a provider the recorder owns.
// It is a no-op for a custom meter provider.
func (r *Recorder) ForceFlush(ctx context.Context) error {
	if r.sdkProvider == nil {
		return nil
	}

	return r.sdkProvider.ForceFlush(ctx)
}

// Shutdown shuts down a provider the recorder owns. A custom meter provider
// is left to its owner.
func (r *Recorder) Shutdown(ctx context.Context) error {
	if r.sdkProvider == nil {
		return nil
	}
	r.emitDebug("Shutting down meter provider")

	if err := r.sdkProvider.Shutdown(ctx); err != nil {
		return fmt.Errorf("metrics: shutdown: %w", err)
	}

	return nil
}

func (r *Recorder) emitWarning(msg string, args ...any) {
	r.logger.Warn(msg, args...)
}

func (r *Recorder) emitDebug(msg string, args ...any) {
	r.logger.Debug(msg, args...)
}
