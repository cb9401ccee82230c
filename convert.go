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
	"encoding/json"
	"math"
	"math/big"
	"reflect"
	"strings"

	"github.com/spf13/cast"
)

var (
	bigIntType    = reflect.TypeFor[big.Int]()
	bigIntPtrType = reflect.TypeFor[*big.Int]()
	mask64        = new(big.Int).SetUint64(math.MaxUint64)
)

// integerBits returns the two's-complement bit pattern of an integer value,
// truncated to 64 bits. Callers write the low bytes they need.
func integerBits(value any, checked bool) (uint64, bool) {
	switch v := value.(type) {
	case *big.Int:
		if v == nil {
			return 0, false
		}
		return bigBits(v), true
	case big.Int:
		return bigBits(&v), true
	case json.Number:
		b, ok := parseBigInt(string(v))
		if !ok {
			return 0, false
		}
		return bigBits(b), true
	}

	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return uint64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return rv.Uint(), true
	case reflect.Float32, reflect.Float64:
		b, ok := floatToBig(rv.Float())
		if !ok {
			return 0, false
		}
		return bigBits(b), true
	}

	if checked {
		return 0, false
	}

	i, err := cast.ToInt64E(value)
	if err != nil {
		return 0, false
	}

	return uint64(i), true
}

// floatValue returns a numeric value as float64.
func floatValue(value any, checked bool) (float64, bool) {
	switch v := value.(type) {
	case *big.Int:
		if v == nil {
			return 0, false
		}
		f, _ := new(big.Float).SetInt(v).Float64()
		return f, true
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	}

	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return float64(rv.Uint()), true
	}

	if checked {
		return 0, false
	}

	f, err := cast.ToFloat64E(value)

	return f, err == nil
}

// bigValue returns a value as an arbitrary-precision integer. Decimal
// strings (and 0x/0o/0b prefixed strings) are accepted in both modes; that is
// how wide integers usually travel through text formats.
func bigValue(value any, checked bool) (*big.Int, bool) {
	switch v := value.(type) {
	case *big.Int:
		if v == nil {
			return nil, false
		}
		return v, true
	case big.Int:
		return &v, true
	case string:
		return parseBigInt(v)
	case json.Number:
		return parseBigInt(string(v))
	}

	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return big.NewInt(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return new(big.Int).SetUint64(rv.Uint()), true
	case reflect.Float32, reflect.Float64:
		return floatToBig(rv.Float())
	case reflect.String:
		return parseBigInt(rv.String())
	}

	if rv.IsValid() && rv.Type().ConvertibleTo(bigIntType) && rv.Type() != bigIntPtrType {
		b := rv.Convert(bigIntType).Interface().(big.Int)
		return &b, true
	}

	if checked {
		return nil, false
	}

	s, err := cast.ToStringE(value)
	if err != nil {
		return nil, false
	}

	return parseBigInt(s)
}

func boolValue(value any, checked bool) (bool, bool) {
	rv := reflect.ValueOf(value)
	if rv.Kind() == reflect.Bool {
		return rv.Bool(), true
	}
	if checked {
		return false, false
	}

	b, err := cast.ToBoolE(value)

	return b, err == nil
}

func stringValue(value any, checked bool) (string, bool) {
	rv := reflect.ValueOf(value)
	if rv.Kind() == reflect.String {
		return rv.String(), true
	}
	if checked {
		return "", false
	}

	s, err := cast.ToStringE(value)

	return s, err == nil
}

func parseBigInt(s string) (*big.Int, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, false
	}

	return new(big.Int).SetString(s, 0)
}

// maxExactFloat is the largest magnitude below which every integer has an
// exact float64 representation.
const maxExactFloat = 1 << 53

// floatToBig converts an integral float exactly. Fractions, infinities, NaN
// and magnitudes above 2^53 are rejected: a larger float may already have
// been rounded by the document parser.
func floatToBig(f float64) (*big.Int, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) || math.Abs(f) > maxExactFloat {
		return nil, false
	}
	b, _ := big.NewFloat(f).Int(nil)

	return b, true
}

// bigBits returns the low 64 bits of b in two's complement.
func bigBits(b *big.Int) uint64 {
	if b.IsUint64() {
		return b.Uint64()
	}
	if b.IsInt64() {
		return uint64(b.Int64())
	}

	return new(big.Int).And(b, mask64).Uint64()
}
