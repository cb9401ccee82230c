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
// Package proto transcodes between protobuf well-known struct values and Borsh
// bytes.
//
// This package extends rivaas.dev/borsh with google.golang.org/protobuf
// support. Values travel as *structpb.Value, which protobuf messages can embed
// as google.protobuf.Value fields, or as their canonical JSON form through
// protojson. Numbers in a struct value are doubles, so wide integers travel
// as decimal strings, public keys as base58 strings and byte strings as
// number lists.
//
// Example:
//
//	v, err := proto.FromBorsh(data, schema)
//	if err != nil {
//	    // handle error
//	}
//	msg.Payload = v
package proto

import (
	"errors"
	"fmt"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	"rivaas.dev/borsh"
)

// ErrNilValue is returned when ToBorsh is given a nil value.
var ErrNilValue = errors.New("proto: nil value")

// ToBorsh encodes a struct value into Borsh bytes.
//
// Values are coerced to the schema, so a whole number held as a double fits
// any integer schema. Options are applied after that default and may turn
// strict type checking back on.
func ToBorsh(v *structpb.Value, schema borsh.Schema, opts ...borsh.Option) ([]byte, error) {
	if v == nil {
		return nil, ErrNilValue
	}

	return borsh.Encode(v.AsInterface(), schema, append([]borsh.Option{borsh.WithTypeChecking(false)}, opts...)...)
}

// ToBorshJSON is like [ToBorsh] but reads the protobuf JSON form of a value.
//
// Example:
//
//	data, err := proto.ToBorshJSON([]byte(`{"id": 7, "name": "ab"}`), schema)
func ToBorshJSON(body []byte, schema borsh.Schema, opts ...borsh.Option) ([]byte, error) {
	var v structpb.Value
	if err := protojson.Unmarshal(body, &v); err != nil {
		return nil, fmt.Errorf("proto: %w", err)
	}

	return ToBorsh(&v, schema, opts...)
}

// FromBorsh decodes Borsh bytes into a struct value.
func FromBorsh(data []byte, schema borsh.Schema, opts ...borsh.Option) (*structpb.Value, error) {
	value, err := borsh.Decode(data, schema, opts...)
	if err != nil {
		return nil, err
	}

	v, err := structpb.NewValue(borsh.ExportText(value))
	if err != nil {
		return nil, fmt.Errorf("proto: %w", err)
	}

	return v, nil
}

// FromBorshJSON is like [FromBorsh] but returns the protobuf JSON form.
func FromBorshJSON(data []byte, schema borsh.Schema, opts ...borsh.Option) ([]byte, error) {
	v, err := FromBorsh(data, schema, opts...)
	if err != nil {
		return nil, err
	}

	out, err := protojson.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("proto: %w", err)
	}

	return out, nil
}
