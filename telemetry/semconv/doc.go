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
// Package semconv provides semantic conventions for borsh telemetry data.
//
// The constants are shared attribute keys for logs, metrics, and traces, so
// a decode failure carries the same field names in a log line as on its span
// and in its counter. Service metadata follows OpenTelemetry semantic
// conventions.
//
// # Usage
//
// Use these constants as keys when logging structured data:
//
//	logger.Info("account decoded",
//	    semconv.Op, "decode",
//	    semconv.Bytes, len(data),
//	)
//
// Or as OpenTelemetry attribute keys:
//
//	attribute.String(semconv.ErrorKind, codecErr.Code())
package semconv
