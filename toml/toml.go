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
// Package toml transcodes between TOML documents and Borsh bytes.
//
// This package extends rivaas.dev/borsh with TOML support, using
// github.com/BurntSushi/toml for parsing. A TOML document is always a table,
// so the root schema must be a struct or a map with string keys.
//
// Example:
//
//	schema := borsh.Struct(
//	    borsh.Field("title", borsh.String),
//	    borsh.Field("port", borsh.U16),
//	)
//
//	data, err := toml.ToBorsh([]byte("title = \"node\"\nport = 8080\n"), schema)
//	if err != nil {
//	    // handle error
//	}
package toml

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/BurntSushi/toml"

	"rivaas.dev/borsh"
)

// ErrUnsupportedSchema is returned when the root schema cannot describe a
// TOML table.
var ErrUnsupportedSchema = errors.New("toml: root schema must be a struct or a string-keyed map")

// ToBorsh encodes a TOML document into Borsh bytes.
//
// Document values are coerced to the schema. Options are applied after that
// default and may turn strict type checking back on. Absent options are
// written by leaving the key out.
func ToBorsh(body []byte, schema borsh.Schema, opts ...borsh.Option) ([]byte, error) {
	if err := checkRoot(schema); err != nil {
		return nil, err
	}

	var doc map[string]any
	if err := toml.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("toml: %w", err)
	}

	return borsh.Encode(doc, schema, append([]borsh.Option{borsh.WithTypeChecking(false)}, opts...)...)
}

// FromBorsh decodes Borsh bytes and renders the value as TOML.
//
// TOML has no null, so absent options are left out. A sequence holding an
// absent option cannot be written and fails.
func FromBorsh(data []byte, schema borsh.Schema, opts ...borsh.Option) ([]byte, error) {
	if err := checkRoot(schema); err != nil {
		return nil, err
	}

	value, err := borsh.Decode(data, schema, opts...)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(borsh.ExportText(value)); err != nil {
		return nil, fmt.Errorf("toml: %w", err)
	}

	return buf.Bytes(), nil
}

func checkRoot(schema borsh.Schema) error {
	switch s := schema.(type) {
	case *borsh.StructSchema:
		return nil
	case *borsh.MapSchema:
		if s.Key == borsh.String {
			return nil
		}
	}

	return ErrUnsupportedSchema
}
