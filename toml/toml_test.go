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
//go:build !integration

package toml

import (
	"math/big"
	"testing"

	"github.com/BurntSushi/toml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rivaas.dev/borsh"
)

var nodeSchema = borsh.Struct(
	borsh.Field("title", borsh.String),
	borsh.Field("port", borsh.U16),
	borsh.Field("stake", borsh.U64),
	borsh.Field("ratio", borsh.F32),
	borsh.Field("peers", borsh.Vec(borsh.String)),
	borsh.Field("backup", borsh.Optional(borsh.String)),
	borsh.Field("limits", borsh.Struct(
		borsh.Field("conns", borsh.U32),
		borsh.Field("debug", borsh.Bool),
	)),
)

func TestToBorsh(t *testing.T) {
	t.Parallel()

	body := []byte(`
title = "node"
port = 8080
stake = "18446744073709551615"
ratio = 0.5
peers = ["a", "b"]

[limits]
conns = 64
debug = true
`)

	got, err := ToBorsh(body, nodeSchema)
	require.NoError(t, err)

	want, err := borsh.Encode(borsh.RecordOf(
		"title", "node",
		"port", uint16(8080),
		"stake", new(big.Int).SetUint64(^uint64(0)),
		"ratio", float32(0.5),
		"peers", []string{"a", "b"},
		"backup", nil,
		"limits", borsh.RecordOf("conns", uint32(64), "debug", true),
	), nodeSchema)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestFromBorsh_RoundTrip(t *testing.T) {
	t.Parallel()

	data, err := borsh.Encode(borsh.RecordOf(
		"title", "edge",
		"port", 443,
		"stake", 12,
		"ratio", 1.25,
		"peers", []any{},
		"backup", "standby",
		"limits", map[string]any{"conns": 1, "debug": false},
	), nodeSchema)
	require.NoError(t, err)

	body, err := FromBorsh(data, nodeSchema)
	require.NoError(t, err)

	var doc map[string]any
	_, err = toml.Decode(string(body), &doc)
	require.NoError(t, err)
	assert.Equal(t, "edge", doc["title"])
	assert.Equal(t, int64(443), doc["port"])
	assert.Equal(t, "12", doc["stake"])
	assert.Equal(t, "standby", doc["backup"])

	back, err := ToBorsh(body, nodeSchema)
	require.NoError(t, err)
	assert.Equal(t, data, back)
}

func TestFromBorsh_AbsentOptionIsOmitted(t *testing.T) {
	t.Parallel()

	schema := borsh.Struct(borsh.Field("a", borsh.U8), borsh.Field("b", borsh.Optional(borsh.U8)))
	body, err := FromBorsh([]byte{1, 0}, schema)
	require.NoError(t, err)
	assert.Contains(t, string(body), "a = 1")
	assert.NotContains(t, string(body), "b")

	back, err := ToBorsh(body, schema)
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 0}, back)
}

func TestStringKeyedMapRoot(t *testing.T) {
	t.Parallel()

	schema := borsh.Map(borsh.String, borsh.I8)
	got, err := ToBorsh([]byte("b = -1\na = 2\n"), schema)
	require.NoError(t, err)
	assert.Equal(t, []byte{2, 0, 0, 0, 1, 0, 0, 0, 'a', 2, 1, 0, 0, 0, 'b', 0xFF}, got)
}

func TestUnsupportedSchema(t *testing.T) {
	t.Parallel()

	for _, schema := range []borsh.Schema{borsh.U8, borsh.Vec(borsh.U8), borsh.Map(borsh.U8, borsh.U8)} {
		_, err := ToBorsh(nil, schema)
		require.ErrorIs(t, err, ErrUnsupportedSchema)

		_, err = FromBorsh(nil, schema)
		require.ErrorIs(t, err, ErrUnsupportedSchema)
	}
}

func TestToBorsh_Errors(t *testing.T) {
	t.Parallel()

	_, err := ToBorsh([]byte("title = "), nodeSchema)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "toml:")

	_, err = ToBorsh([]byte("title = \"x\"\n"), nodeSchema)
	borsh.AssertError(t, err, borsh.KindTypeMismatch, "value.port")
}
