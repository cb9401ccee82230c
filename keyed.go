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
	"cmp"
	"fmt"
	"reflect"
	"slices"
)

var emptyStructType = reflect.TypeFor[struct{}]()

// asKeyed adapts value to the [Keyed] capability. Plain Go maps enumerate
// their keys in sorted order so that encoding them is deterministic; Go
// structs expose their exported fields.
func asKeyed(value any, tag string) (Keyed, bool) {
	switch v := value.(type) {
	case nil:
		return nil, false
	case Keyed:
		return v, true
	case map[string]any:
		return stringMap(v), true
	}

	rv := reflect.ValueOf(value)
	for rv.Kind() == reflect.Ptr {
		if rv.IsNil() {
			return nil, false
		}
		rv = rv.Elem()
	}

	switch rv.Kind() {
	case reflect.Map:
		return newReflectMap(rv), true
	case reflect.Struct:
		return &structKeyed{rv: rv, info: getStructInfo(rv.Type(), tag)}, true
	default:
		return nil, false
	}
}

// stringMap adapts map[string]any without reflection.
type stringMap map[string]any

func (m stringMap) Keys() []any {
	names := make([]string, 0, len(m))
	for k := range m {
		names = append(names, k)
	}
	slices.Sort(names)

	keys := make([]any, len(names))
	for i, n := range names {
		keys[i] = n
	}

	return keys
}

func (m stringMap) Lookup(key any) (any, bool) {
	name, ok := key.(string)
	if !ok {
		return nil, false
	}
	v, ok := m[name]

	return v, ok
}

// reflectMap adapts an arbitrary Go map.
type reflectMap struct {
	rv   reflect.Value
	keys []reflect.Value
}

func newReflectMap(rv reflect.Value) *reflectMap {
	keys := rv.MapKeys()
	slices.SortFunc(keys, compareValues)

	return &reflectMap{rv: rv, keys: keys}
}

func (m *reflectMap) Keys() []any {
	out := make([]any, len(m.keys))
	for i, k := range m.keys {
		out[i] = k.Interface()
	}

	return out
}

func (m *reflectMap) Lookup(key any) (any, bool) {
	kt := m.rv.Type().Key()
	kv := reflect.ValueOf(key)
	if !kv.IsValid() {
		kv = reflect.Zero(kt)
	}
	if !kv.Type().AssignableTo(kt) {
		if !kv.Type().ConvertibleTo(kt) {
			return nil, false
		}
		kv = kv.Convert(kt)
	}
	v := m.rv.MapIndex(kv)
	if !v.IsValid() {
		return nil, false
	}

	return v.Interface(), true
}

// setLike reports whether the map is a Go-style set (map[T]struct{}), whose
// members are its keys rather than its values.
func (m *reflectMap) setLike() bool {
	return m.rv.Type().Elem() == emptyStructType
}

// structKeyed adapts a Go struct. Keys lists the fields that are present:
// nil pointers, interfaces, maps and slices are omitted, which is what lets
// a struct of pointer fields act as an enum value. Lookup finds every field.
type structKeyed struct {
	rv   reflect.Value
	info *structInfo
}

func (s *structKeyed) Keys() []any {
	keys := make([]any, 0, len(s.info.fields))
	for i := range s.info.fields {
		f := &s.info.fields[i]
		fv, err := s.rv.FieldByIndexErr(f.index)
		if err != nil {
			continue
		}
		if f.nilable && fv.IsNil() {
			continue
		}
		keys = append(keys, f.name)
	}

	return keys
}

func (s *structKeyed) Lookup(key any) (any, bool) {
	name, ok := key.(string)
	if !ok {
		return nil, false
	}
	f, ok := s.info.lookup(name)
	if !ok {
		return nil, false
	}
	fv, err := s.rv.FieldByIndexErr(f.index)
	if err != nil {
		return nil, false
	}

	return fv.Interface(), true
}

// sequence is a read-only view over an ordered collection of elements.
type sequence struct {
	items []any
	rv    reflect.Value
	n     int
}

func (s sequence) len() int {
	return s.n
}

func (s sequence) at(i int) any {
	if s.items != nil {
		return s.items[i]
	}

	return s.rv.Index(i).Interface()
}

// asSequence adapts slices and arrays of any element type.
func asSequence(value any) (sequence, bool) {
	switch v := value.(type) {
	case nil:
		return sequence{}, false
	case []any:
		return sequence{items: v, n: len(v)}, true
	}

	rv := reflect.ValueOf(value)
	for rv.Kind() == reflect.Ptr && !rv.IsNil() {
		rv = rv.Elem()
	}
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		return sequence{rv: rv, n: rv.Len()}, true
	default:
		return sequence{}, false
	}
}

// rawBytes returns the bytes of []byte, [N]byte and named byte slice or
// array values without copying when possible.
func rawBytes(value any) ([]byte, bool) {
	if b, ok := value.([]byte); ok {
		return b, true
	}

	rv := reflect.ValueOf(value)
	for rv.Kind() == reflect.Ptr && !rv.IsNil() {
		rv = rv.Elem()
	}
	switch rv.Kind() {
	case reflect.Slice:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			return rv.Bytes(), true
		}
	case reflect.Array:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			b := make([]byte, rv.Len())
			reflect.Copy(reflect.ValueOf(b), rv)
			return b, true
		}
	}

	return nil, false
}

// compareValues orders map keys: numbers numerically, strings lexically,
// false before true, and anything else by type and then printed form.
func compareValues(a, b reflect.Value) int {
	for a.Kind() == reflect.Interface && !a.IsNil() {
		a = a.Elem()
	}
	for b.Kind() == reflect.Interface && !b.IsNil() {
		b = b.Elem()
	}

	ca, cb := keyClass(a), keyClass(b)
	if ca != cb {
		return cmp.Compare(ca, cb)
	}

	switch ca {
	case classInt:
		return cmp.Compare(a.Int(), b.Int())
	case classUint:
		return cmp.Compare(a.Uint(), b.Uint())
	case classFloat:
		return cmp.Compare(a.Float(), b.Float())
	case classString:
		return cmp.Compare(a.String(), b.String())
	case classBool:
		return cmp.Compare(boolRank(a.Bool()), boolRank(b.Bool()))
	}

	if c := cmp.Compare(typeName(a), typeName(b)); c != 0 {
		return c
	}

	return cmp.Compare(fmt.Sprint(valueOrNil(a)), fmt.Sprint(valueOrNil(b)))
}

const (
	classBool = iota
	classInt
	classUint
	classFloat
	classString
	classOther
)

func keyClass(v reflect.Value) int {
	switch v.Kind() {
	case reflect.Bool:
		return classBool
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return classInt
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return classUint
	case reflect.Float32, reflect.Float64:
		return classFloat
	case reflect.String:
		return classString
	default:
		return classOther
	}
}

func boolRank(b bool) int {
	if b {
		return 1
	}

	return 0
}

func typeName(v reflect.Value) string {
	if !v.IsValid() {
		return ""
	}

	return v.Type().String()
}

func valueOrNil(v reflect.Value) any {
	if !v.IsValid() || !v.CanInterface() {
		return nil
	}

	return v.Interface()
}
