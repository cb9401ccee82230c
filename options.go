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
	"context"
	"errors"
	"log/slog"
	"time"

	"rivaas.dev/borsh/telemetry/semconv"
)

// DefaultStructTag is the struct tag consulted when encoding Go structs and
// when binding decoded values with [DecodeInto].
const DefaultStructTag = "borsh"

// Op identifies a codec operation in [Stats].
type Op string

const (
	// OpEncode is an Encode call.
	OpEncode Op = "encode"
	// OpDecode is a Decode call (including DecodeInto).
	OpDecode Op = "decode"
)

// Stats describes one finished Encode or Decode call.
type Stats struct {
	Op       Op            // Operation that ran
	Bytes    int           // Bytes written (encode) or consumed (decode)
	Values   int           // Schema nodes visited
	Duration time.Duration // Wall time of the call
	Err      error         // Non-nil when the call failed
}

// Events provides hooks for observability without coupling.
type Events struct {
	// Done is called at the end of every call, including failed ones.
	Done func(stats Stats)
}

// config holds codec settings. It is immutable once a call or a [Codec]
// starts using it.
type config struct {
	checkTypes      bool
	maxDepth        int
	maxLength       int
	rejectTrailing  bool
	rootName        string
	structTag       string
	initialCapacity int
	validateStructs bool
	logger          *slog.Logger
	events          Events
}

// Option configures codec behavior.
type Option func(*config)

func defaultConfig() *config {
	return &config{
		checkTypes:      true,
		rootName:        defaultRootName,
		structTag:       DefaultStructTag,
		initialCapacity: DefaultInitialCapacity,
		logger:          slog.New(slog.DiscardHandler),
	}
}

func applyOptions(opts []Option) (*config, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *config) validate() error {
	var errs []error
	if c.maxDepth < 0 {
		errs = append(errs, errors.New("max depth must be non-negative"))
	}
	if c.maxLength < 0 {
		errs = append(errs, errors.New("max length must be non-negative"))
	}
	if c.rootName == "" {
		errs = append(errs, errors.New("root name cannot be empty"))
	}
	if c.structTag == "" {
		errs = append(errs, errors.New("struct tag cannot be empty"))
	}
	if c.logger == nil {
		errs = append(errs, errors.New("logger cannot be nil"))
	}

	return errors.Join(errs...)
}

func (c *config) clone() *config {
	cp := *c
	return &cp
}

// WithTypeChecking toggles runtime validation of value categories against
// the schema. It is on by default. With checking off, scalars are coerced
// instead of validated; values that cannot be coerced still fail with
// [KindTypeMismatch].
func WithTypeChecking(enabled bool) Option {
	return func(c *config) {
		c.checkTypes = enabled
	}
}

// WithMaxDepth bounds schema nesting depth visited per call. Zero, the
// default, means unlimited. Exceeding it fails with [KindLimitExceeded].
func WithMaxDepth(depth int) Option {
	return func(c *config) {
		c.maxDepth = depth
	}
}

// WithMaxLength bounds every length prefix and collection size. Zero, the
// default, means unlimited. Exceeding it fails with [KindLimitExceeded].
//
// Example:
//
//	value, err := borsh.Decode(data, schema, borsh.WithMaxLength(1<<16))
func WithMaxLength(n int) Option {
	return func(c *config) {
		c.maxLength = n
	}
}

// WithDisallowTrailingBytes makes Decode fail with [KindTrailingBytes] when
// input remains after the root value.
func WithDisallowTrailingBytes() Option {
	return func(c *config) {
		c.rejectTrailing = true
	}
}

// WithRootName sets the first segment of error field paths ("value" by
// default).
func WithRootName(name string) Option {
	return func(c *config) {
		c.rootName = name
	}
}

// WithStructTag sets the struct tag used to name Go struct fields ("borsh"
// by default). Untagged fields use their Go name.
func WithStructTag(tag string) Option {
	return func(c *config) {
		c.structTag = tag
	}
}

// WithInitialCapacity sets the starting size of the encode buffer.
func WithInitialCapacity(n int) Option {
	return func(c *config) {
		c.initialCapacity = n
	}
}

// WithValidation runs struct validation (`validate` tags) on the target of
// [DecodeInto] after binding.
func WithValidation(enabled bool) Option {
	return func(c *config) {
		c.validateStructs = enabled
	}
}

// WithLogger sets the logger for per-call debug records. By default nothing
// is logged.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

// WithEvents sets observability hooks.
//
// Example:
//
//	borsh.WithEvents(borsh.Events{
//	    Done: func(s borsh.Stats) {
//	        log.Printf("%s: %d bytes in %s", s.Op, s.Bytes, s.Duration)
//	    },
//	})
func WithEvents(events Events) Option {
	return func(c *config) {
		c.events = events
	}
}

// finish reports a finished call to the logger and the Done hook.
func (c *config) finish(stats Stats) {
	if c.logger.Enabled(context.Background(), slog.LevelDebug) {
		attrs := []slog.Attr{
			slog.String(semconv.Op, string(stats.Op)),
			slog.Int(semconv.Bytes, stats.Bytes),
			slog.Int(semconv.Values, stats.Values),
			slog.Duration(semconv.Duration, stats.Duration),
		}
		msg := "borsh call completed"
		if stats.Err != nil {
			msg = "borsh call failed"
			attrs = append(attrs, slog.Any("error", stats.Err))
			var codecErr *Error
			if errors.As(stats.Err, &codecErr) {
				attrs = append(attrs,
					slog.String(semconv.ErrorKind, codecErr.Code()),
					slog.String(semconv.ErrorPath, codecErr.Path))
			}
		}
		c.logger.LogAttrs(context.Background(), slog.LevelDebug, msg, attrs...)
	}

	if c.events.Done != nil {
		c.events.Done(stats)
	}
}
