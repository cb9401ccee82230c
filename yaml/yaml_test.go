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

package yaml

import (
	"math/big"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"rivaas.dev/borsh"
)

var tokenSchema = borsh.Struct(
	borsh.Field("name", borsh.String),
	borsh.Field("decimals", borsh.U8),
	borsh.Field("supply", borsh.U128),
	borsh.Field("mint", borsh.Pubkey),
	borsh.Field("holders", borsh.Map(borsh.String, borsh.U64)),
	borsh.Field("checksum", borsh.Array(borsh.U8, 4)),
	borsh.Field("kind", borsh.Enum(
		borsh.Variant("fungible", borsh.Struct()),
		borsh.Variant("nft", borsh.Struct(borsh.Field("edition", borsh.U32))),
	)),
)

func TestToBorsh(t *testing.T) {
	t.Parallel()

	var mint borsh.PublicKey
	mint[31] = 1

	body := []byte(`
name: token
decimals: 9
supply: "1000000000000000000000"
mint: ` + mint.String() + `
holders:
  alice: 5
checksum: [1, 2, 3, 4]
kind:
  nft:
    edition: 3
`)

	got, err := ToBorsh(body, tokenSchema)
	require.NoError(t, err)

	supply, ok := new(big.Int).SetString("1000000000000000000000", 10)
	require.True(t, ok)
	want, err := borsh.Encode(borsh.RecordOf(
		"name", "token",
		"decimals", uint8(9),
		"supply", supply,
		"mint", mint,
		"holders", map[string]any{"alice": uint64(5)},
		"checksum", []byte{1, 2, 3, 4},
		"kind", borsh.RecordOf("nft", borsh.RecordOf("edition", uint32(3))),
	), tokenSchema)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	fromReader, err := ToBorshReader(strings.NewReader(string(body)), tokenSchema)
	require.NoError(t, err)
	assert.Equal(t, want, fromReader)
}

func TestToBorsh_UnquotedScalarsKeepPrecision(t *testing.T) {
	t.Parallel()

	schema := borsh.Struct(
		borsh.Field("owner", borsh.Pubkey),
		borsh.Field("max", borsh.U128),
		borsh.Field("min", borsh.I128),
		borsh.Field("label", borsh.String),
		borsh.Field("delegate", borsh.Optional(borsh.Pubkey)),
		borsh.Field("limits", borsh.Map(borsh.Pubkey, borsh.U64)),
	)

	var owner borsh.PublicKey
	owner[31] = 2

	body := []byte(`
owner: ` + owner.String() + `
max: 340282366920938463463374607431768211455
min: -170141183460469231731687303715884105728
label: 1.50
delegate: ~
limits:
  ` + owner.String() + `: 9007199254740993
`)

	got, err := ToBorsh(body, schema)
	require.NoError(t, err)

	maxU128 := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 128), big.NewInt(1))
	minI128 := new(big.Int).Neg(new(big.Int).Lsh(big.NewInt(1), 127))
	want, err := borsh.Encode(borsh.RecordOf(
		"owner", owner,
		"max", maxU128,
		"min", minI128,
		"label", "1.50",
		"delegate", nil,
		"limits", borsh.OrderedMapOf(owner, uint64(9007199254740993)),
	), schema)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestToBorsh_AliasesAndSets(t *testing.T) {
	t.Parallel()

	schema := borsh.Struct(
		borsh.Field("a", borsh.U128),
		borsh.Field("b", borsh.U128),
		borsh.Field("tags", borsh.Set(borsh.String)),
	)

	got, err := ToBorsh([]byte(`a: &n 18446744073709551617
b: *n
tags: [x, 2]
`), schema)
	require.NoError(t, err)

	n, ok := new(big.Int).SetString("18446744073709551617", 10)
	require.True(t, ok)
	want, err := borsh.Encode(borsh.RecordOf(
		"a", n,
		"b", n,
		"tags", []any{"x", "2"},
	), schema)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestFromBorsh_RoundTrip(t *testing.T) {
	t.Parallel()

	var mint borsh.PublicKey
	mint[0] = 200

	data, err := borsh.Encode(borsh.RecordOf(
		"name", "coin",
		"decimals", 6,
		"supply", new(big.Int).Lsh(big.NewInt(1), 90),
		"mint", mint,
		"holders", map[string]any{"bob": 1, "carol": 2},
		"checksum", []byte{9, 8, 7, 6},
		"kind", map[string]any{"fungible": map[string]any{}},
	), tokenSchema)
	require.NoError(t, err)

	body, err := FromBorsh(data, tokenSchema)
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, yaml.Unmarshal(body, &doc))
	assert.Equal(t, "coin", doc["name"])
	assert.Equal(t, "1237940039285380274899124224", doc["supply"])
	assert.Equal(t, mint.String(), doc["mint"])
	assert.Equal(t, []any{9, 8, 7, 6}, doc["checksum"])
	assert.Equal(t, map[string]any{"bob": "1", "carol": "2"}, doc["holders"])

	back, err := ToBorsh(body, tokenSchema)
	require.NoError(t, err)
	assert.Equal(t, data, back)
}

func TestToBorsh_Errors(t *testing.T) {
	t.Parallel()

	_, err := ToBorsh([]byte("name: [unclosed"), tokenSchema)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "yaml:")

	_, err = ToBorsh([]byte("name: x\ndecimals: many\n"), tokenSchema)
	borsh.AssertError(t, err, borsh.KindTypeMismatch, "value.decimals")

	_, err = ToBorsh(nil, borsh.Optional(borsh.String))
	require.NoError(t, err, "an empty document is an absent option")
}
