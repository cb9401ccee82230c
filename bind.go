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
	"math/big"
	"reflect"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/go-viper/mapstructure/v2"
)

// ErrInvalidTarget is returned when the target of [DecodeInto] is not a
// non-nil pointer.
var ErrInvalidTarget = errors.New("borsh: target must be a non-nil pointer")

var structValidator = sync.OnceValue(func() *validator.Validate {
	return validator.New(validator.WithRequiredStructEnabled())
})

// DecodeInto decodes data according to schema and binds the result into out,
// which must be a non-nil pointer. Records bind to Go structs by field name
// (struct tag "borsh" by default, see [WithStructTag]), maps to Go maps, and
// sequences to slices or arrays. Wide integers bind to any Go integer type
// they fit, to string, or to *big.Int.
//
// Example:
//
//	type Account struct {
//	    Owner    borsh.PublicKey `borsh:"owner"`
//	    Lamports uint64          `borsh:"lamports"`
//	}
//
//	var acct Account
//	err := borsh.DecodeInto(data, accountSchema, &acct)
func DecodeInto(data []byte, schema Schema, out any, opts ...Option) error {
	cfg, err := applyOptions(opts)
	if err != nil {
		return err
	}

	return decodeInto(cfg, data, schema, out)
}

// DecodeAs decodes data according to schema into a new T.
//
// Example:
//
//	acct, err := borsh.DecodeAs[Account](data, accountSchema)
func DecodeAs[T any](data []byte, schema Schema, opts ...Option) (T, error) {
	var result T
	if err := DecodeInto(data, schema, &result, opts...); err != nil {
		return result, err
	}

	return result, nil
}

func decodeInto(cfg *config, data []byte, schema Schema, out any) error {
	rv := reflect.ValueOf(out)
	if rv.Kind() != reflect.Ptr || rv.IsNil() {
		return fmt.Errorf("%w, got %s", ErrInvalidTarget, describe(out))
	}

	v, err := decodeWith(cfg, data, schema)
	if err != nil {
		return err
	}

	if err = bindValue(Export(v), out, cfg.structTag); err != nil {
		return err
	}

	if cfg.validateStructs && rv.Elem().Kind() == reflect.Struct {
		if err = structValidator().Struct(out); err != nil {
			return fmt.Errorf("borsh: validation failed: %w", err)
		}
	}

	return nil
}

// bindValue copies an exported value into out.
func bindValue(value, out any, tag string) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          tag,
		Squash:           true,
		WeaklyTypedInput: true,
		Result:           out,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			bigIntHook,
			publicKeyHook,
			mapstructure.TextUnmarshallerHookFunc(),
		),
	})
	if err != nil {
		return fmt.Errorf("borsh: failed to create decoder: %w", err)
	}

	if err = dec.Decode(value); err != nil {
		return fmt.Errorf("borsh: failed to bind value: %w", err)
	}

	return nil
}

// bigIntHook converts *big.Int to the Go number or string the target needs.
func bigIntHook(from, to reflect.Type, data any) (any, error) {
	if from != bigIntPtrType {
		return data, nil
	}
	b, _ := data.(*big.Int)
	if b == nil {
		return data, nil
	}

	switch to.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if !b.IsInt64() || overflowsInt(b.Int64(), to) {
			return nil, fmt.Errorf("%s overflows %s", b, to)
		}
		return b.Int64(), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		if !b.IsUint64() || overflowsUint(b.Uint64(), to) {
			return nil, fmt.Errorf("%s overflows %s", b, to)
		}
		return b.Uint64(), nil
	case reflect.Float32, reflect.Float64:
		f, _ := new(big.Float).SetInt(b).Float64()
		return f, nil
	case reflect.String:
		return b.String(), nil
	}

	return data, nil
}

// publicKeyHook converts a public key to its text form for string targets
// and to a byte slice for []byte targets.
func publicKeyHook(from, to reflect.Type, data any) (any, error) {
	pk, ok := data.(PublicKey)
	if !ok {
		return data, nil
	}

	switch {
	case to.Kind() == reflect.String:
		return pk.String(), nil
	case to.Kind() == reflect.Slice && to.Elem().Kind() == reflect.Uint8:
		return pk.Bytes(), nil
	}

	return data, nil
}

func overflowsInt(v int64, to reflect.Type) bool {
	return reflect.Zero(to).OverflowInt(v)
}

func overflowsUint(v uint64, to reflect.Type) bool {
	return reflect.Zero(to).OverflowUint(v)
}
