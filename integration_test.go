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
//go:build integration

package borsh_test

import (
	"context"
	"math/big"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.opentelemetry.io/otel/codes"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"rivaas.dev/borsh"
	"rivaas.dev/borsh/cbor"
	"rivaas.dev/borsh/metrics"
	"rivaas.dev/borsh/tracing"
	"rivaas.dev/borsh/yaml"
)

type tokenAccount struct {
	Owner     borsh.PublicKey   `borsh:"owner"`
	Amount    *big.Int          `borsh:"amount"`
	Memo      *string           `borsh:"memo"`
	Delegates map[string]uint64 `borsh:"delegates"`
}

var accountSchema = borsh.Struct(
	borsh.Field("owner", borsh.Pubkey),
	borsh.Field("amount", borsh.U128),
	borsh.Field("memo", borsh.Optional(borsh.String)),
	borsh.Field("delegates", borsh.Map(borsh.String, borsh.U64)),
)

var instructionSchema = borsh.Enum(
	borsh.Variant("initialize", borsh.Struct(borsh.Field("decimals", borsh.U8))),
	borsh.Variant("transfer", borsh.Struct(
		borsh.Field("to", borsh.Pubkey),
		borsh.Field("amount", borsh.U64),
	)),
	borsh.Variant("freeze", borsh.Struct()),
)

// counterTotal sums every data point of the named int64 counter.
func counterTotal(reader *sdkmetric.ManualReader, name string) int64 {
	var rm metricdata.ResourceMetrics
	Expect(reader.Collect(context.Background(), &rm)).To(Succeed())

	var total int64
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != name {
				continue
			}
			sum, ok := m.Data.(metricdata.Sum[int64])
			Expect(ok).To(BeTrue())
			for _, dp := range sum.DataPoints {
				total += dp.Value
			}
		}
	}

	return total
}

var _ = Describe("Codec Integration", func() {
	var (
		codec  *borsh.Codec
		reader *sdkmetric.ManualReader
		spans  *tracetest.SpanRecorder
		owner  borsh.PublicKey
	)

	BeforeEach(func() {
		ctx := context.Background()

		reader = sdkmetric.NewManualReader()
		meterProvider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
		DeferCleanup(meterProvider.Shutdown, ctx)

		spans = tracetest.NewSpanRecorder()
		tracerProvider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(spans))
		DeferCleanup(tracerProvider.Shutdown, ctx)

		recorder := metrics.MustNew(metrics.WithMeterProvider(meterProvider))
		tracer := tracing.MustNew(tracing.WithTracerProvider(tracerProvider))

		codec = borsh.MustNew(
			borsh.WithDisallowTrailingBytes(),
			borsh.WithEvents(borsh.Events{
				Done: func(stats borsh.Stats) {
					recorder.Record(ctx, stats)
					tracer.Record(ctx, stats)
				},
			}),
		)

		owner = borsh.PublicKey{}
		owner[0], owner[31] = 0x10, 0x20
	})

	Describe("Typed values", func() {
		It("should round-trip a Go struct through the codec", func() {
			memo := "savings"
			in := tokenAccount{
				Owner:     owner,
				Amount:    new(big.Int).Lsh(big.NewInt(1), 100),
				Memo:      &memo,
				Delegates: map[string]uint64{"bob": 10, "alice": 5},
			}

			data, err := codec.Encode(in, accountSchema)
			Expect(err).NotTo(HaveOccurred())

			out, err := borsh.DecodeWith[tokenAccount](codec, data, accountSchema)
			Expect(err).NotTo(HaveOccurred())
			Expect(out.Owner).To(Equal(owner))
			Expect(out.Amount.String()).To(Equal(in.Amount.String()))
			Expect(out.Memo).To(HaveValue(Equal("savings")))
			Expect(out.Delegates).To(Equal(in.Delegates))

			Expect(spans.Ended()).To(HaveLen(2))
			Expect(counterTotal(reader, "borsh.operations")).To(Equal(int64(2)))
			Expect(counterTotal(reader, "borsh.errors")).To(BeZero())
		})

		It("should decode enum instructions into records", func() {
			data, err := codec.Encode(map[string]any{
				"transfer": map[string]any{"to": owner, "amount": uint64(7)},
			}, instructionSchema)
			Expect(err).NotTo(HaveOccurred())
			Expect(data[0]).To(Equal(byte(1)))
			Expect(data).To(HaveLen(1 + 32 + 8))

			value, err := codec.Decode(data, instructionSchema)
			Expect(err).NotTo(HaveOccurred())

			record, ok := value.(*borsh.Record)
			Expect(ok).To(BeTrue())
			Expect(record.Names()).To(Equal([]string{"transfer"}))
		})
	})

	Describe("Failures", func() {
		It("should report trailing bytes to both metrics and tracing", func() {
			data, err := codec.Encode(map[string]any{"freeze": map[string]any{}}, instructionSchema)
			Expect(err).NotTo(HaveOccurred())

			_, err = codec.Decode(append(data, 0xFF), instructionSchema)
			Expect(err).To(MatchError(borsh.ErrTrailingBytes))

			ended := spans.Ended()
			Expect(ended).To(HaveLen(2))
			Expect(ended[1].Name()).To(Equal("borsh.decode"))
			Expect(ended[1].Status().Code).To(Equal(codes.Error))

			Expect(counterTotal(reader, "borsh.errors")).To(Equal(int64(1)))
		})

		It("should reject an unknown variant index", func() {
			_, err := codec.Decode([]byte{9}, instructionSchema)
			Expect(err).To(MatchError(borsh.ErrUnknownVariant))
		})
	})

	Describe("Transcoding", func() {
		It("should carry a YAML document through CBOR without changing the bytes", func() {
			body := []byte(`
owner: ` + owner.String() + `
amount: "340282366920938463463374607431768211455"
memo: null
delegates:
  carol: 3
`)

			fromYAML, err := yaml.ToBorsh(body, accountSchema)
			Expect(err).NotTo(HaveOccurred())

			doc, err := cbor.FromBorsh(fromYAML, accountSchema)
			Expect(err).NotTo(HaveOccurred())

			fromCBOR, err := cbor.ToBorsh(doc, accountSchema)
			Expect(err).NotTo(HaveOccurred())
			Expect(fromCBOR).To(Equal(fromYAML))

			out, err := borsh.DecodeWith[tokenAccount](codec, fromCBOR, accountSchema)
			Expect(err).NotTo(HaveOccurred())
			Expect(out.Memo).To(BeNil())
			Expect(out.Delegates).To(HaveKeyWithValue("carol", uint64(3)))
		})
	})
})
