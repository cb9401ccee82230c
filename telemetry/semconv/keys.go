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
package semconv

// Service metadata constants.
//
// These identify the service instance and are set once, when a logger or a
// provider is created.
const (
	// ServiceName identifies the service that generated the telemetry data.
	ServiceName = "service.name"

	// ServiceVersion identifies the version of the service.
	ServiceVersion = "service.version"
)

// Codec call constants.
//
// These describe one finished Encode or Decode call.
const (
	// Op stores the operation that ran: "encode" or "decode".
	Op = "borsh.op"

	// Outcome stores "ok" or "error".
	Outcome = "borsh.outcome"

	// Bytes stores the payload size: bytes written by an encode or consumed
	// by a decode.
	Bytes = "borsh.bytes"

	// Values stores the number of schema nodes visited.
	Values = "borsh.values"

	// Duration stores the wall time of the call.
	Duration = "borsh.duration"
)

// Error constants.
const (
	// ErrorKind stores the snake_case error kind, e.g. "buffer_underflow".
	ErrorKind = "borsh.error.kind"

	// ErrorPath stores the dotted field path where the error occurred,
	// e.g. "value.accounts.0.owner".
	ErrorPath = "borsh.error.path"
)
