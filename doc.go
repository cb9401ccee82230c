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

// Package borsh implements the Borsh binary serialization format, driven by
// a schema built at run time.
//
// A [Schema] describes the shape of a value: scalars, options, fixed and
// dynamic arrays, vectors, sets, maps, structs and enums (tagged unions).
// [Encode] walks a dynamic Go value alongside the schema and produces the
// canonical byte sequence; [Decode] reads it back.
//
// # Quick Start
//
//	schema := borsh.Struct(
//	    borsh.Field("x", borsh.U8),
//	    borsh.Field("y", borsh.String),
//	)
//
//	data, err := borsh.Encode(map[string]any{"x": 7, "y": "ab"}, schema)
//	// 07 02 00 00 00 61 62
//
//	v, err := borsh.Decode(data, schema)
//	rec := v.(*borsh.Record)
//
// # Wire Format
//
// All integers and length prefixes are little-endian. Lengths of strings,
// bytes, vectors, sets, maps and dynamic arrays are u32. Booleans and option
// presence flags are one byte (0 or 1). Enum discriminants are one byte, the
// 0-based position of the variant in the schema. Fixed arrays and public keys
// carry no prefix.
//
// # Values
//
// Decode produces these Go values:
//
//	u8 u16 u32 i8 i16 i32      uint8 uint16 uint32 int8 int16 int32
//	u64 u128 i64 i128          *big.Int
//	f32 f64                    float32 float64
//	bool                       bool
//	string                     string
//	bytes                      []byte
//	publicKey                  PublicKey
//	option                     nil or the inner value
//	array, vec                 []any
//	set                        *OrderedSet
//	map                        *OrderedMap
//	struct, enum               *Record (an enum record has exactly one field)
//
// Encode accepts these and more: any Go integer or integral float for
// integer schemas, decimal strings for wide integers, base58 strings for
// public keys, plain Go maps, slices and structs. Go structs are read through
// their exported fields, named by the "borsh" struct tag when present.
// Anything implementing [Keyed] can stand in for a struct, enum, map or set.
//
// Use [DecodeInto] or [DecodeAs] to bind a decoded value into Go structs, and
// [Export] to turn it into plain maps and slices.
//
// # Errors
//
// Every failure is an [*Error] with a [Kind] and the dot-joined path of the
// offending field, e.g. "value.accounts.0.owner":
//
//	_, err := borsh.Encode(value, schema)
//	if errors.Is(err, borsh.ErrSizeMismatch) {
//	    // ...
//	}
//
// # Configuration
//
// Package-level functions take options per call. For repeated use, build a
// [Codec] once:
//
//	codec := borsh.MustNew(
//	    borsh.WithMaxLength(1<<20),
//	    borsh.WithDisallowTrailingBytes(),
//	    borsh.WithLogger(logger),
//	)
//
// Schemas and codecs are safe for concurrent use; every call keeps its own
// buffer and field path.
//
// # Sub-packages
//
// The msgpack, yaml, toml, cbor and proto packages translate between those
// formats and Borsh using the same schema. The metrics and tracing packages
// record call statistics and spans with OpenTelemetry, under the attribute
// keys in telemetry/semconv.
package borsh
