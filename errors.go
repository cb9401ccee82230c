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
	"strconv"
	"strings"
)

// Kind classifies codec errors.
type Kind int

const (
	// KindUnknown is an unclassified error.
	KindUnknown Kind = iota

	// KindTypeMismatch means the runtime value does not have the category the
	// schema node demands.
	KindTypeMismatch

	// KindSizeMismatch means a fixed-length array value has the wrong length.
	KindSizeMismatch

	// KindUnknownVariant means an enum value names no declared variant, or a
	// decoded discriminant is out of range.
	KindUnknownVariant

	// KindInvalidIdentifier means a public key could not be converted to or
	// from its 32-byte form.
	KindInvalidIdentifier

	// KindBufferUnderflow means decoding needed more bytes than remain.
	KindBufferUnderflow

	// KindMalformedSchema means a schema node is internally inconsistent.
	KindMalformedSchema

	// KindLimitExceeded means a configured depth or length limit was hit.
	KindLimitExceeded

	// KindTrailingBytes means bytes were left after decoding and
	// [WithDisallowTrailingBytes] is set.
	KindTrailingBytes
)

// String returns the string representation of the kind.
func (k Kind) String() string {
	switch k {
	case KindTypeMismatch:
		return "type mismatch"
	case KindSizeMismatch:
		return "size mismatch"
	case KindUnknownVariant:
		return "unknown variant"
	case KindInvalidIdentifier:
		return "invalid identifier"
	case KindBufferUnderflow:
		return "buffer underflow"
	case KindMalformedSchema:
		return "malformed schema"
	case KindLimitExceeded:
		return "limit exceeded"
	case KindTrailingBytes:
		return "trailing bytes"
	default:
		return "unknown"
	}
}

// Sentinel errors, one per [Kind]. An [*Error] matches the sentinel of its
// kind under [errors.Is].
var (
	ErrTypeMismatch      = errors.New("type mismatch")
	ErrSizeMismatch      = errors.New("size mismatch")
	ErrUnknownVariant    = errors.New("unknown variant")
	ErrInvalidIdentifier = errors.New("invalid identifier")
	ErrBufferUnderflow   = errors.New("buffer underflow")
	ErrMalformedSchema   = errors.New("malformed schema")
	ErrLimitExceeded     = errors.New("limit exceeded")
	ErrTrailingBytes     = errors.New("trailing bytes")
)

func (k Kind) sentinel() error {
	switch k {
	case KindTypeMismatch:
		return ErrTypeMismatch
	case KindSizeMismatch:
		return ErrSizeMismatch
	case KindUnknownVariant:
		return ErrUnknownVariant
	case KindInvalidIdentifier:
		return ErrInvalidIdentifier
	case KindBufferUnderflow:
		return ErrBufferUnderflow
	case KindMalformedSchema:
		return ErrMalformedSchema
	case KindLimitExceeded:
		return ErrLimitExceeded
	case KindTrailingBytes:
		return ErrTrailingBytes
	default:
		return nil
	}
}

// Error is returned by every failing Encode and Decode call. It records what
// went wrong and where in the value the failure happened.
//
// Use [errors.As] to inspect it, or [errors.Is] with a sentinel:
//
//	var codecErr *borsh.Error
//	if errors.As(err, &codecErr) {
//	    fmt.Println(codecErr.Kind, codecErr.Path)
//	}
//	if errors.Is(err, borsh.ErrSizeMismatch) {
//	    // ...
//	}
type Error struct {
	Kind     Kind   // What went wrong
	Path     string // Dot-joined field path from the root, e.g. "value.accounts.0.owner"
	Expected string // Expected category, length or byte count
	Got      string // Observed category, length or byte count
	Variant  string // Offending enum key or discriminant
	Reason   string // Human-readable detail
	Err      error  // Underlying error
}

// Error returns a formatted error message.
func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString("borsh: ")
	b.WriteString(e.Kind.String())
	if e.Path != "" {
		b.WriteString(" at ")
		b.WriteString(e.Path)
	}

	switch {
	case e.Reason != "":
		b.WriteString(": ")
		b.WriteString(e.Reason)
	case e.Variant != "":
		b.WriteString(": variant ")
		b.WriteString(e.Variant)
	case e.Expected != "" || e.Got != "":
		fmt.Fprintf(&b, ": expected %s, got %s", e.Expected, e.Got)
	}

	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}

	return b.String()
}

// Unwrap returns the underlying error for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is the sentinel for e's kind.
func (e *Error) Is(target error) bool {
	s := e.Kind.sentinel()
	return s != nil && target == s
}

// Code returns a stable machine-readable error code.
func (e *Error) Code() string {
	return strings.ReplaceAll(e.Kind.String(), " ", "_")
}

func typeMismatch(p *fieldPath, expected string, value any) *Error {
	return &Error{
		Kind:     KindTypeMismatch,
		Path:     p.String(),
		Expected: expected,
		Got:      describe(value),
	}
}

func sizeMismatch(p *fieldPath, expected, got int) *Error {
	return &Error{
		Kind:     KindSizeMismatch,
		Path:     p.String(),
		Expected: strconv.Itoa(expected),
		Got:      strconv.Itoa(got),
	}
}

func unknownVariant(p *fieldPath, variant string) *Error {
	return &Error{
		Kind:    KindUnknownVariant,
		Path:    p.String(),
		Variant: variant,
	}
}

func invalidIdentifier(p *fieldPath, err error) *Error {
	return &Error{
		Kind: KindInvalidIdentifier,
		Path: p.String(),
		Err:  err,
	}
}

func underflow(p *fieldPath, need, remaining int) *Error {
	return &Error{
		Kind:     KindBufferUnderflow,
		Path:     p.String(),
		Expected: strconv.Itoa(need) + " bytes",
		Got:      strconv.Itoa(remaining) + " bytes",
	}
}

func malformed(p *fieldPath, reason string) *Error {
	return &Error{
		Kind:   KindMalformedSchema,
		Path:   p.String(),
		Reason: reason,
	}
}

func limitExceeded(p *fieldPath, reason string) *Error {
	return &Error{
		Kind:   KindLimitExceeded,
		Path:   p.String(),
		Reason: reason,
	}
}

// describe names the runtime category of a value for error messages.
func describe(value any) string {
	if value == nil {
		return "nil"
	}

	return fmt.Sprintf("%T", value)
}
