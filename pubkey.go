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
	"errors"
	"fmt"

	"github.com/mr-tron/base58"
)

// PublicKeySize is the encoded size of a [PublicKey].
const PublicKeySize = 32

// ErrInvalidPublicKey is wrapped by every public key conversion failure.
var ErrInvalidPublicKey = errors.New("invalid public key")

// PublicKey is a fixed 32-byte identifier. Its canonical text form is base58.
type PublicKey [PublicKeySize]byte

// ParsePublicKey decodes the base58 text form of a public key.
func ParsePublicKey(s string) (PublicKey, error) {
	var pk PublicKey
	if s == "" {
		return pk, fmt.Errorf("%w: empty string", ErrInvalidPublicKey)
	}

	raw, err := base58.Decode(s)
	if err != nil {
		return pk, fmt.Errorf("%w: %q: %w", ErrInvalidPublicKey, s, err)
	}

	return PublicKeyFromBytes(raw)
}

// MustParsePublicKey is like [ParsePublicKey] but panics on error.
func MustParsePublicKey(s string) PublicKey {
	pk, err := ParsePublicKey(s)
	if err != nil {
		panic(err)
	}

	return pk
}

// PublicKeyFromBytes copies a 32-byte slice into a public key.
func PublicKeyFromBytes(b []byte) (PublicKey, error) {
	var pk PublicKey
	if len(b) != PublicKeySize {
		return pk, fmt.Errorf("%w: %d bytes, want %d", ErrInvalidPublicKey, len(b), PublicKeySize)
	}
	copy(pk[:], b)

	return pk, nil
}

// String returns the base58 text form.
func (pk PublicKey) String() string {
	return base58.Encode(pk[:])
}

// Bytes returns a copy of the raw key.
func (pk PublicKey) Bytes() []byte {
	b := make([]byte, PublicKeySize)
	copy(b, pk[:])

	return b
}

// MarshalText implements [encoding.TextMarshaler].
func (pk PublicKey) MarshalText() ([]byte, error) {
	return []byte(pk.String()), nil
}

// UnmarshalText implements [encoding.TextUnmarshaler].
func (pk *PublicKey) UnmarshalText(text []byte) error {
	parsed, err := ParsePublicKey(string(text))
	if err != nil {
		return err
	}
	*pk = parsed

	return nil
}
