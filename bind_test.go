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

package borsh

import (
	"math/big"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type bindAccount struct {
	Owner    PublicKey         `borsh:"owner"`
	Lamports uint64            `borsh:"lamports"`
	Name     string            `borsh:"name" validate:"required"`
	Tags     []string          `borsh:"tags"`
	Memo     *string           `borsh:"memo"`
	Limits   map[string]uint16 `borsh:"limits"`
}

var bindAccountSchema = Struct(
	Field("owner", Pubkey),
	Field("lamports", U64),
	Field("name", String),
	Field("tags", Vec(String)),
	Field("memo", Optional(String)),
	Field("limits", Map(String, U16)),
)

func TestDecodeInto_GoStructRoundTrip(t *testing.T) {
	t.Parallel()

	var owner PublicKey
	owner[0] = 7
	memo := "hello"

	in := bindAccount{
		Owner:    owner,
		Lamports: 1 << 40,
		Name:     "main",
		Tags:     []string{"a", "b"},
		Memo:     &memo,
		Limits:   map[string]uint16{"daily": 500},
	}

	data, err := Encode(in, bindAccountSchema)
	require.NoError(t, err)

	var out bindAccount
	require.NoError(t, DecodeInto(data, bindAccountSchema, &out))
	assert.Equal(t, in, out)

	generic, err := DecodeAs[bindAccount](data, bindAccountSchema)
	require.NoError(t, err)
	assert.Equal(t, in, generic)
}

func TestDecodeInto_AbsentOptionLeavesNil(t *testing.T) {
	t.Parallel()

	data, err := Encode(bindAccount{Name: "x"}, bindAccountSchema)
	require.NoError(t, err)

	out, err := DecodeAs[bindAccount](data, bindAccountSchema)
	require.NoError(t, err)
	assert.Nil(t, out.Memo)
	assert.Equal(t, "x", out.Name)
}

func TestDecodeInto_WideIntegerTargets(t *testing.T) {
	t.Parallel()

	data, err := Encode(200, U64)
	require.NoError(t, err)

	t.Run("fits", func(t *testing.T) {
		t.Parallel()

		var small uint8
		require.NoError(t, DecodeInto(data, U64, &small))
		assert.Equal(t, uint8(200), small)

		var text string
		require.NoError(t, DecodeInto(data, U64, &text))
		assert.Equal(t, "200", text)

		var signed int64
		require.NoError(t, DecodeInto(data, U64, &signed))
		assert.Equal(t, int64(200), signed)

		var b *big.Int
		require.NoError(t, DecodeInto(data, U64, &b))
		assert.Equal(t, 0, b.Cmp(big.NewInt(200)))
	})

	t.Run("overflow", func(t *testing.T) {
		t.Parallel()

		var tiny int8
		err := DecodeInto(data, U64, &tiny)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "overflows")
	})
}

func TestDecodeInto_PublicKeyTargets(t *testing.T) {
	t.Parallel()

	var pk PublicKey
	pk[1] = 9

	data, err := Encode(pk, Pubkey)
	require.NoError(t, err)

	var text string
	require.NoError(t, DecodeInto(data, Pubkey, &text))
	assert.Equal(t, pk.String(), text)

	var raw []byte
	require.NoError(t, DecodeInto(data, Pubkey, &raw))
	assert.Equal(t, pk.Bytes(), raw)
}

func TestDecodeInto_InvalidTarget(t *testing.T) {
	t.Parallel()

	var out bindAccount
	err := DecodeInto([]byte{0}, U8, out)
	require.ErrorIs(t, err, ErrInvalidTarget)

	err = DecodeInto([]byte{0}, U8, (*bindAccount)(nil))
	require.ErrorIs(t, err, ErrInvalidTarget)
}

func TestDecodeInto_DecodeErrorsPassThrough(t *testing.T) {
	t.Parallel()

	var out bindAccount
	err := DecodeInto([]byte{1}, bindAccountSchema, &out)
	AssertError(t, err, KindBufferUnderflow, "value.owner")
}

func TestDecodeInto_Validation(t *testing.T) {
	t.Parallel()

	data, err := Encode(bindAccount{}, bindAccountSchema)
	require.NoError(t, err)

	_, err = DecodeAs[bindAccount](data, bindAccountSchema)
	require.NoError(t, err, "validation is off by default")

	_, err = DecodeAs[bindAccount](data, bindAccountSchema, WithValidation(true))
	require.Error(t, err)

	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Equal(t, "Name", verrs[0].Field())
}

func TestDecodeInto_StructTag(t *testing.T) {
	t.Parallel()

	type renamed struct {
		Value uint8 `wire:"v"`
	}

	schema := Struct(Field("v", U8))

	data, err := Encode(renamed{Value: 3}, schema, WithStructTag("wire"))
	require.NoError(t, err)

	out, err := DecodeAs[renamed](data, schema, WithStructTag("wire"))
	require.NoError(t, err)
	assert.Equal(t, uint8(3), out.Value)
}
