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
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestError_Message(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{
			name: "expected and got",
			err:  typeMismatch(rootPath("value").child("x"), "u8", "abc"),
			want: "borsh: type mismatch at value.x: expected u8, got string",
		},
		{
			name: "variant",
			err:  unknownVariant(rootPath("value"), "burn"),
			want: "borsh: unknown variant at value: variant burn",
		},
		{
			name: "reason",
			err:  malformed(rootPath("value"), "enum has no variants"),
			want: "borsh: malformed schema at value: enum has no variants",
		},
		{
			name: "wrapped error",
			err:  invalidIdentifier(rootPath("value"), ErrInvalidPublicKey),
			want: "borsh: invalid identifier at value: invalid public key",
		},
		{
			name: "no path",
			err:  &Error{Kind: KindUnknown},
			want: "borsh: unknown",
		},
		{
			name: "nil value",
			err:  typeMismatch(nil, "bool", nil),
			want: "borsh: type mismatch: expected bool, got nil",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestError_Is(t *testing.T) {
	t.Parallel()

	kinds := map[Kind]error{
		KindTypeMismatch:      ErrTypeMismatch,
		KindSizeMismatch:      ErrSizeMismatch,
		KindUnknownVariant:    ErrUnknownVariant,
		KindInvalidIdentifier: ErrInvalidIdentifier,
		KindBufferUnderflow:   ErrBufferUnderflow,
		KindMalformedSchema:   ErrMalformedSchema,
		KindLimitExceeded:     ErrLimitExceeded,
		KindTrailingBytes:     ErrTrailingBytes,
	}

	for kind, sentinel := range kinds {
		t.Run(kind.String(), func(t *testing.T) {
			t.Parallel()

			err := error(&Error{Kind: kind})
			require.ErrorIs(t, err, sentinel)
			assert.Equal(t, kind.String(), sentinel.Error())

			for other, otherSentinel := range kinds {
				if other != kind {
					assert.NotErrorIs(t, err, otherSentinel)
				}
			}
		})
	}

	assert.False(t, errors.Is(&Error{Kind: KindUnknown}, ErrTypeMismatch))
}

func TestError_Code(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "type_mismatch", (&Error{Kind: KindTypeMismatch}).Code())
	assert.Equal(t, "buffer_underflow", (&Error{Kind: KindBufferUnderflow}).Code())
	assert.Equal(t, "unknown", (&Error{Kind: Kind(99)}).Code())
}

func TestError_Unwrap(t *testing.T) {
	t.Parallel()

	inner := errors.New("inner")
	err := &Error{Kind: KindInvalidIdentifier, Err: inner}

	require.ErrorIs(t, err, inner)
	require.ErrorIs(t, err, ErrInvalidIdentifier)

	var codecErr *Error
	require.ErrorAs(t, error(err), &codecErr)
	assert.Same(t, err, codecErr)
}
