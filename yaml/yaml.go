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
// Package yaml transcodes between YAML documents and Borsh bytes.
//
// This package extends rivaas.dev/borsh with YAML support, using
// gopkg.in/yaml.v3 for parsing. Wide integers travel as decimal strings,
// public keys as base58 strings and byte strings as integer lists, so every
// Borsh value survives a trip through YAML.
//
// Example:
//
//	schema := borsh.Struct(
//	    borsh.Field("name", borsh.String),
//	    borsh.Field("supply", borsh.U128),
//	)
//
//	data, err := yaml.ToBorsh([]byte("name: token\nsupply: \"1000\"\n"), schema)
//	if err != nil {
//	    // handle error
//	}
package yaml

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"rivaas.dev/borsh"
)

// ToBorsh encodes a YAML document into Borsh bytes.
//
// Document values are coerced to the schema. Options are applied after that
// default and may turn strict type checking back on.
func ToBorsh(body []byte, schema borsh.Schema, opts ...borsh.Option) ([]byte, error) {
	return ToBorshReader(bytes.NewReader(body), schema, opts...)
}

// ToBorshReader is like [ToBorsh] but reads the document from r. Only the
// first document of a multi-document stream is used.
//
// Example:
//
//	f, _ := os.Open("account.yaml")
//	data, err := yaml.ToBorshReader(f, schema)
func ToBorshReader(r io.Reader, schema borsh.Schema, opts ...borsh.Option) ([]byte, error) {
	var root yaml.Node
	if err := yaml.NewDecoder(r).Decode(&root); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("yaml: %w", err)
	}

	doc, err := nodeValue(&root, schema)
	if err != nil {
		return nil, fmt.Errorf("yaml: %w", err)
	}

	return borsh.Encode(doc, schema, append([]borsh.Option{borsh.WithTypeChecking(false)}, opts...)...)
}

// nodeValue converts n into a Go value, guided by schema. Scalars bound to
// text-carried types keep their source text, so an unquoted public key or
// 128-bit integer is never routed through float64.
func nodeValue(n *yaml.Node, schema borsh.Schema) (any, error) {
	switch n.Kind {
	case 0:
		return nil, nil
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return nil, nil
		}
		return nodeValue(n.Content[0], schema)
	case yaml.AliasNode:
		return nodeValue(n.Alias, schema)
	}

	if n.Kind == yaml.ScalarNode && n.ShortTag() == "!!null" {
		return nil, nil
	}

	switch s := schema.(type) {
	case borsh.Scalar:
		if n.Kind == yaml.ScalarNode && keepsSourceText(s) {
			return n.Value, nil
		}
	case *borsh.OptionSchema:
		return nodeValue(n, s.Inner)
	case *borsh.ArraySchema:
		return sequenceValue(n, s.Elem)
	case *borsh.VecSchema:
		return sequenceValue(n, s.Elem)
	case *borsh.SetSchema:
		return sequenceValue(n, s.Elem)
	case *borsh.MapSchema:
		if n.Kind == yaml.MappingNode {
			return mapValue(n, s)
		}
	case *borsh.StructSchema:
		if n.Kind == yaml.MappingNode {
			return recordValue(n, s.Fields)
		}
	case *borsh.EnumSchema:
		if n.Kind == yaml.MappingNode {
			fields := make([]borsh.StructField, 0, len(s.Variants))
			for _, v := range s.Variants {
				if v != nil && len(v.Fields) == 1 {
					fields = append(fields, v.Fields[0])
				}
			}
			return recordValue(n, fields)
		}
	}

	var v any
	if err := n.Decode(&v); err != nil {
		return nil, err
	}

	return v, nil
}

func keepsSourceText(s borsh.Scalar) bool {
	switch s {
	case borsh.String, borsh.Pubkey, borsh.U64, borsh.U128, borsh.I64, borsh.I128:
		return true
	default:
		return false
	}
}

func sequenceValue(n *yaml.Node, elem borsh.Schema) (any, error) {
	if n.Kind != yaml.SequenceNode {
		return nodeValue(n, nil)
	}

	out := make([]any, len(n.Content))
	for i, c := range n.Content {
		v, err := nodeValue(c, elem)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}

	return out, nil
}

func mapValue(n *yaml.Node, s *borsh.MapSchema) (any, error) {
	m := borsh.NewOrderedMap(len(n.Content) / 2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		k, err := nodeValue(n.Content[i], s.Key)
		if err != nil {
			return nil, err
		}
		v, err := nodeValue(n.Content[i+1], s.Value)
		if err != nil {
			return nil, err
		}
		m.Set(k, v)
	}

	return m, nil
}

// recordValue keeps document order. Keys with no matching field are decoded
// without a schema and left for the encoder to ignore.
func recordValue(n *yaml.Node, fields []borsh.StructField) (any, error) {
	r := borsh.NewRecord()
	for i := 0; i+1 < len(n.Content); i += 2 {
		key := n.Content[i].Value
		var fs borsh.Schema
		for _, f := range fields {
			if f.Name == key {
				fs = f.Schema
				break
			}
		}
		v, err := nodeValue(n.Content[i+1], fs)
		if err != nil {
			return nil, err
		}
		r.Set(key, v)
	}

	return r, nil
}

// FromBorsh decodes Borsh bytes and renders the value as YAML.
func FromBorsh(data []byte, schema borsh.Schema, opts ...borsh.Option) ([]byte, error) {
	value, err := borsh.Decode(data, schema, opts...)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(borsh.ExportText(value)); err != nil {
		return nil, fmt.Errorf("yaml: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("yaml: %w", err)
	}

	return buf.Bytes(), nil
}
