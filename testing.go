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
	"testing"
)

// TestCodec creates a Codec configured for testing: trailing bytes are
// rejected so that tests notice schemas that under-read.
//
// Example:
//
//	func TestAccount(t *testing.T) {
//	    codec := borsh.TestCodec(t)
//	    data := borsh.MustEncode(t, codec, account, accountSchema)
//	}
func TestCodec(t testing.TB, opts ...Option) *Codec {
	t.Helper()

	allOpts := append([]Option{WithDisallowTrailingBytes()}, opts...)

	codec, err := New(allOpts...)
	if err != nil {
		t.Fatalf("TestCodec: failed to create codec: %v", err)
	}

	return codec
}

// MustEncode encodes value and fails the test on error.
func MustEncode(t testing.TB, c *Codec, value any, schema Schema) []byte {
	t.Helper()

	data, err := c.Encode(value, schema)
	if err != nil {
		t.Fatalf("MustEncode: %v", err)
	}

	return data
}

// MustDecode decodes data and fails the test on error.
func MustDecode(t testing.TB, c *Codec, data []byte, schema Schema) any {
	t.Helper()

	v, err := c.Decode(data, schema)
	if err != nil {
		t.Fatalf("MustDecode: %v", err)
	}

	return v
}

// AssertError checks that err is an [*Error] of the expected kind at the
// expected field path. Returns the error if found, fails the test otherwise.
//
// Example:
//
//	_, err := borsh.Encode(value, schema)
//	codecErr := borsh.AssertError(t, err, borsh.KindSizeMismatch, "value.hash")
//	assert.Equal(t, "32", codecErr.Expected)
func AssertError(t testing.TB, err error, kind Kind, path string) *Error {
	t.Helper()

	if err == nil {
		t.Fatalf("AssertError: expected %s error at %q, got nil", kind, path)
	}

	var codecErr *Error
	if !errors.As(err, &codecErr) {
		t.Fatalf("AssertError: expected *borsh.Error, got %T: %v", err, err)
	}

	if codecErr.Kind != kind {
		t.Fatalf("AssertError: expected kind %s, got %s: %v", kind, codecErr.Kind, err)
	}

	if codecErr.Path != path {
		t.Fatalf("AssertError: expected path %q, got %q", path, codecErr.Path)
	}

	return codecErr
}
