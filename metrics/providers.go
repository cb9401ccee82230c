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
	"fmt"
	"strings"

	promclient "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/prometheus/otlptranslator"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

// initializeProvider initializes the metrics provider based on configuration.
func (r *Recorder) initializeProvider() error {
	var err error
	switch {
	case r.customMeterProvider:
		r.emitDebug("Using custom user-provided meter provider")
	case r.provider == PrometheusProvider:
		err = r.initPrometheusProvider()
	case r.provider == OTLPProvider:
		err = r.initOTLPProvider()
	case r.provider == StdoutProvider:
		err = r.initStdoutProvider()
	default:
		err = fmt.Errorf("unsupported metrics provider: %s", r.provider)
	}
	if err != nil {
		return err
	}

	if r.registerGlobal {
		r.emitDebug("Setting global OpenTelemetry meter provider")
		otel.SetMeterProvider(r.meterProvider)
	}

	r.meter = r.meterProvider.Meter(meterName)

	return r.initializeMetrics()
}

// initPrometheusProvider builds an SDK provider that exports through
// Prometheus. Without a registerer a private registry is used so recorders
// never collide on the global one.
func (r *Recorder) initPrometheusProvider() error {
	reg := r.registerer
	var gatherer promclient.Gatherer
	if reg == nil {
		registry := promclient.NewRegistry()
		reg, gatherer = registry, registry
	} else if g, ok := reg.(promclient.Gatherer); ok {
		gatherer = g
	} else {
		r.emitWarning("Prometheus registerer is not a gatherer, Handler is unavailable")
	}

	exporter, err := prometheus.New(
		prometheus.WithRegisterer(reg),
		prometheus.WithTranslationStrategy(otlptranslator.UnderscoreEscapingWithSuffixes),
	)
	if err != nil {
		return fmt.Errorf("failed to create Prometheus exporter: %w", err)
	}

	r.sdkProvider = sdkmetric.NewMeterProvider(sdkmetric.WithReader(exporter))
	r.meterProvider = r.sdkProvider

	if gatherer != nil {
		r.handler = promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
	}

	return nil
}

// initOTLPProvider initializes the OTLP metrics provider.
func (r *Recorder) initOTLPProvider() error {
	var opts []otlpmetrichttp.Option

	if r.otlpEndpoint != "" {
		endpoint := r.otlpEndpoint
		insecure := false

		if rest, ok := strings.CutPrefix(endpoint, "http://"); ok {
			endpoint, insecure = rest, true
		} else {
			endpoint = strings.TrimPrefix(endpoint, "https://")
		}
		if idx := strings.Index(endpoint, "/"); idx != -1 {
			endpoint = endpoint[:idx]
		}

		opts = append(opts, otlpmetrichttp.WithEndpoint(endpoint))
		if insecure {
			opts = append(opts, otlpmetrichttp.WithInsecure())
		}
	}

	exporter, err := otlpmetrichttp.New(context.Background(), opts...)
	if err != nil {
		return fmt.Errorf("failed to create OTLP exporter: %w", err)
	}

	r.sdkProvider = sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(r.exportInterval))),
	)
	r.meterProvider = r.sdkProvider

	return nil
}

// initStdoutProvider initializes the stdout metrics provider.
func (r *Recorder) initStdoutProvider() error {
	exporter, err := stdoutmetric.New(stdoutmetric.WithWriter(r.stdoutWriter))
	if err != nil {
		return fmt.Errorf("failed to create stdout exporter: %w", err)
	}

	r.sdkProvider = sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(r.exportInterval))),
	)
	r.meterProvider = r.sdkProvider

	return nil
}

// initializeMetrics creates the codec instruments.
func (r *Recorder) initializeMetrics() error {
	var err error

	r.operations, err = r.meter.Int64Counter(
		"borsh.operations",
		metric.WithDescription("Encode and decode calls"),
		metric.WithUnit("{call}"),
	)
	if err != nil {
		return fmt.Errorf("failed to create operations counter: %w", err)
	}

	r.failures, err = r.meter.Int64Counter(
		"borsh.errors",
		metric.WithDescription("Failed encode and decode calls"),
		metric.WithUnit("{call}"),
	)
	if err != nil {
		return fmt.Errorf("failed to create errors counter: %w", err)
	}

	r.size, err = r.meter.Int64Histogram(
		"borsh.payload.size",
		metric.WithDescription("Bytes written by encode or consumed by decode"),
		metric.WithUnit("By"),
		metric.WithExplicitBucketBoundaries(r.sizeBuckets...),
	)
	if err != nil {
		return fmt.Errorf("failed to create payload size histogram: %w", err)
	}

	r.duration, err = r.meter.Float64Histogram(
		"borsh.duration",
		metric.WithDescription("Duration of encode and decode calls"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(r.durationBuckets...),
	)
	if err != nil {
		return fmt.Errorf("failed to create duration histogram: %w", err)
	}

	return nil
}
