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

package borsh

import (
	"fmt"
	"time"
)

// Encode serializes value according to schema.
//
// The value is validated against the schema at every node; on failure no
// bytes are returned and the error is an [*Error] naming the offending field
// path.
//
// Example:
//
//	schema := borsh.Struct(
//	    borsh.Field("x", borsh.U8),
//	    borsh.Field("y", borsh.String),
//	)
//	data, err := borsh.Encode(map[string]any{"x": 7, "y": "ab"}, schema)
//	// data = 07 02 00 00 00 61 62
func Encode(value any, schema Schema, opts ...Option) ([]byte, error) {
	cfg, err := applyOptions(opts)
	if err != nil {
		return nil, err
	}

	return encodeWith(cfg, value, schema)
}

// Decode deserializes data according to schema. See the package
// documentation for the Go type produced by each schema kind.
//
// Bytes left after the root value are ignored unless
// [WithDisallowTrailingBytes] is set. The input slice is never modified, and
// the returned value does not alias it.
func Decode(data []byte, schema Schema, opts ...Option) (any, error) {
	cfg, err := applyOptions(opts)
	if err != nil {
		return nil, err
	}

	return decodeWith(cfg, data, schema)
}

// Codec is a reusable, configured encoder/decoder.
//
// Use [New] or [MustNew] to create one, or use the package-level functions
// for one-off calls. Codec is safe for concurrent use by multiple goroutines;
// every call allocates its own state.
//
// Example:
//
//	codec := borsh.MustNew(
//	    borsh.WithMaxLength(1<<20),
//	    borsh.WithDisallowTrailingBytes(),
//	)
//	data, err := codec.Encode(value, schema)
type Codec struct {
	cfg *config
}

// New creates a [Codec] with the given options.
// Returns an error if configuration is invalid.
func New(opts ...Option) (*Codec, error) {
	cfg, err := applyOptions(opts)
	if err != nil {
		return nil, err
	}

	return &Codec{cfg: cfg}, nil
}

// With returns a new [Codec] with opts applied on top of c's options. c is
// left unchanged.
//
// Example:
//
//	strict, err := codec.With(borsh.WithDisallowTrailingBytes())
func (c *Codec) With(opts ...Option) (*Codec, error) {
	cfg := c.cfg.clone()
	for _, opt := range opts {
		opt(cfg)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &Codec{cfg: cfg}, nil
}

// MustNew creates a [Codec] with the given options.
// Panics if configuration is invalid.
func MustNew(opts ...Option) *Codec {
	c, err := New(opts...)
	if err != nil {
		panic(fmt.Sprintf("borsh.MustNew: %v", err))
	}

	return c
}

// Encode serializes value according to schema using the codec's options.
func (c *Codec) Encode(value any, schema Schema) ([]byte, error) {
	return encodeWith(c.cfg, value, schema)
}

// Decode deserializes data according to schema using the codec's options.
func (c *Codec) Decode(data []byte, schema Schema) (any, error) {
	return decodeWith(c.cfg, data, schema)
}

// DecodeInto decodes data and binds the result into out, which must be a
// non-nil pointer.
func (c *Codec) DecodeInto(data []byte, schema Schema, out any) error {
	return decodeInto(c.cfg, data, schema, out)
}

// DecodeWith decodes data into a new T using the codec's options.
//
// Example:
//
//	account, err := borsh.DecodeWith[Account](codec, data, accountSchema)
func DecodeWith[T any](c *Codec, data []byte, schema Schema) (T, error) {
	var result T
	if err := decodeInto(c.cfg, data, schema, &result); err != nil {
		return result, err
	}

	return result, nil
}

func encodeWith(cfg *config, value any, schema Schema) ([]byte, error) {
	start := time.Now()
	enc := newEncoder(cfg)

	data, err := enc.encode(value, schema)
	stats := Stats{
		Op:       OpEncode,
		Bytes:    len(data),
		Values:   enc.values,
		Duration: time.Since(start),
		Err:      err,
	}
	cfg.finish(stats)

	if err != nil {
		return nil, err
	}

	return data, nil
}

func decodeWith(cfg *config, data []byte, schema Schema) (any, error) {
	start := time.Now()
	dec := newDecoder(cfg, data)

	v, err := dec.decode(schema)
	cfg.finish(Stats{
		Op:       OpDecode,
		Bytes:    dec.buf.off,
		Values:   dec.values,
		Duration: time.Since(start),
		Err:      err,
	})

	if err != nil {
		return nil, err
	}

	return v, nil
}
