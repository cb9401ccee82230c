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
	"fmt"
	"math/big"
	"reflect"
)

// Export converts a decoded value into plain Go values:
//
//   - [*Record] becomes map[string]any
//   - [*OrderedMap] becomes map[string]any when every key is a string, and
//     map[any]any otherwise
//   - [*OrderedSet] becomes []any
//   - []any is converted element by element
//
// Scalars, including *big.Int, [PublicKey] and []byte, are kept. Map keys
// that are not comparable in Go ([]byte, []any) are replaced by their
// printed form. Export loses the field order of records and maps.
func Export(value any) any {
	return export(value, false)
}

// ExportText is like [Export] but produces values every text format can
// carry. *big.Int becomes its decimal string and [PublicKey] its base58
// string. Byte strings become lists of integers, which encode back into
// byte schemas unchanged. Every map becomes map[string]any with printed keys.
//
// Example:
//
//	v, _ := borsh.Decode(data, schema)
//	out, _ := json.Marshal(borsh.ExportText(v))
func ExportText(value any) any {
	return export(value, true)
}

func export(value any, text bool) any {
	switch v := value.(type) {
	case *Record:
		m := make(map[string]any, v.Len())
		for _, name := range v.Names() {
			field, _ := v.Get(name)
			m[name] = export(field, text)
		}
		return m

	case *OrderedMap:
		return exportMap(v, text)

	case *OrderedSet:
		out := make([]any, 0, v.Len())
		for _, item := range v.Values() {
			out = append(out, export(item, text))
		}
		return out

	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = export(item, text)
		}
		return out

	case *big.Int:
		if text && v != nil {
			return v.String()
		}
		return v

	case PublicKey:
		if text {
			return v.String()
		}
		return v

	case []byte:
		if text {
			out := make([]any, len(v))
			for i, b := range v {
				out[i] = b
			}
			return out
		}
		return v
	}

	return value
}

func exportMap(m *OrderedMap, text bool) any {
	entries := m.Entries()
	stringKeys := true
	for _, e := range entries {
		if _, ok := e.Key.(string); !ok {
			stringKeys = false
			break
		}
	}

	if stringKeys || text {
		out := make(map[string]any, m.Len())
		for _, e := range entries {
			out[textKey(e.Key)] = export(e.Value, text)
		}
		return out
	}

	out := make(map[any]any, m.Len())
	for _, e := range entries {
		out[nativeKey(export(e.Key, false))] = export(e.Value, false)
	}

	return out
}

func textKey(key any) string {
	switch k := key.(type) {
	case string:
		return k
	case []byte:
		return string(k)
	case nil:
		return "null"
	case fmt.Stringer:
		return k.String()
	}

	return fmt.Sprint(export(key, true))
}

// nativeKey keeps comparable keys and prints the rest.
func nativeKey(key any) any {
	if key == nil {
		return nil
	}
	if b, ok := key.([]byte); ok {
		return string(b)
	}
	if reflect.TypeOf(key).Comparable() {
		switch reflect.ValueOf(key).Kind() {
		case reflect.Interface, reflect.Array, reflect.Struct:
			// May hold non-comparable values at run time.
			if !reflect.ValueOf(key).Comparable() {
				return fmt.Sprint(key)
			}
		}
		return key
	}

	return fmt.Sprint(key)
}
