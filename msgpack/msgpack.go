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
// Package msgpack transcodes between MessagePack documents and Borsh bytes.
//
// This package extends rivaas.dev/borsh with MessagePack support, using
// github.com/vmihailenco/msgpack/v5 for parsing. The same schema drives both
// directions.
//
// Example:
//
//	schema := borsh.Struct(
//	    borsh.Field("id", borsh.U32),
//	    borsh.Field("name", borsh.String),
//	)
//
//	data, err := msgpack.ToBorsh(body, schema)
//	if err != nil {
//	    // handle error
//	}
//	body, err = msgpack.FromBorsh(data, schema)
package msgpack

import (
	"bytes"
	"fmt"
	"io"
	"math/big"

	"github.com/vmihailenco/msgpack/v5"

	"rivaas.dev/borsh"
)

// ToBorsh encodes a MessagePack document into Borsh bytes.
//
// Document values are coerced to the schema, so integers may arrive as any
// MessagePack integer type and wide integers as decimal strings. Options are
// applied after that default and may turn strict type checking back on.
func ToBorsh(body []byte, schema borsh.Schema, opts ...borsh.Option) ([]byte, error) {
	return ToBorshReader(bytes.NewReader(body), schema, opts...)
}

// ToBorshReader is like [ToBorsh] but reads the document from r.
//
// Example:
//
//	data, err := msgpack.ToBorshReader(r.Body, schema)
func ToBorshReader(r io.Reader, schema borsh.Schema, opts ...borsh.Option) ([]byte, error) {
	dec := msgpack.NewDecoder(r)
	dec.SetMapDecoder(func(d *msgpack.Decoder) (any, error) {
		return d.DecodeUntypedMap()
	})

	var doc any
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("msgpack: %w", err)
	}

	return borsh.Encode(doc, schema, coerce(opts)...)
}

// FromBorsh decodes Borsh bytes and renders the value as MessagePack.
//
// Wide integers that fit in 64 bits become MessagePack integers and larger
// ones decimal strings. Public keys and byte strings become binary values.
// String-keyed maps are written with sorted keys.
func FromBorsh(data []byte, schema borsh.Schema, opts ...borsh.Option) ([]byte, error) {
	value, err := borsh.Decode(data, schema, opts...)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	enc.SetSortMapKeys(true)
	if err := enc.Encode(native(borsh.Export(value))); err != nil {
		return nil, fmt.Errorf("msgpack: %w", err)
	}

	return buf.Bytes(), nil
}

func coerce(opts []borsh.Option) []borsh.Option {
	return append([]borsh.Option{borsh.WithTypeChecking(false)}, opts...)
}

// native replaces the values MessagePack has no type for.
func native(value any) any {
	switch v := value.(type) {
	case map[string]any:
		for k, item := range v {
			v[k] = native(item)
		}
		return v
	case map[any]any:
		out := make(map[any]any, len(v))
		for k, item := range v {
			out[native(k)] = native(item)
		}
		return out
	case []any:
		for i, item := range v {
			v[i] = native(item)
		}
		return v
	case *big.Int:
		switch {
		case v == nil:
			return nil
		case v.IsInt64():
			return v.Int64()
		case v.IsUint64():
			return v.Uint64()
		}
		return v.String()
	case borsh.PublicKey:
		return v.Bytes()
	}

	return value
}
