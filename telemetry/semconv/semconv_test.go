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

package semconv

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCodecConstants(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		constant string
		want     string
	}{
		{name: "Op", constant: Op, want: "borsh.op"},
		{name: "Outcome", constant: Outcome, want: "borsh.outcome"},
		{name: "Bytes", constant: Bytes, want: "borsh.bytes"},
		{name: "Values", constant: Values, want: "borsh.values"},
		{name: "Duration", constant: Duration, want: "borsh.duration"},
		{name: "ErrorKind", constant: ErrorKind, want: "borsh.error.kind"},
		{name: "ErrorPath", constant: ErrorPath, want: "borsh.error.path"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, tt.constant)
			assert.True(t, strings.HasPrefix(tt.constant, "borsh."), "codec keys share the borsh namespace")
		})
	}
}

func TestServiceMetadataConstants(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "service.name", ServiceName)
	assert.Equal(t, "service.version", ServiceVersion)
}
