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
	"math/big"
	"reflect"
)

// Keyed is a collection with an ordered key enumeration and key lookup.
//
// The encoder accepts any Keyed value wherever a struct, enum, map or set is
// expected: structs and enums look fields up by name, maps enumerate
// key/value pairs and sets enumerate values. [*Record], [*OrderedMap] and
// [*OrderedSet] implement it, and plain Go maps are adapted automatically.
type Keyed interface {
	// Keys returns the keys in iteration order.
	Keys() []any

	// Lookup returns the value stored under key.
	Lookup(key any) (any, bool)
}

// Record is a string-keyed value whose fields keep insertion order. Decode
// returns structs and enums as records.
//
// The zero value is an empty record ready to use.
type Record struct {
	names  []string
	values map[string]any
}

// NewRecord returns an empty record.
func NewRecord() *Record {
	return &Record{}
}

// RecordOf builds a record from alternating name/value arguments. It panics
// when a name is not a string or the argument count is odd.
//
// Example:
//
//	r := borsh.RecordOf("x", uint8(7), "y", "ab")
func RecordOf(pairs ...any) *Record {
	if len(pairs)%2 != 0 {
		panic("borsh: RecordOf requires name/value pairs")
	}

	r := &Record{
		names:  make([]string, 0, len(pairs)/2),
		values: make(map[string]any, len(pairs)/2),
	}
	for i := 0; i < len(pairs); i += 2 {
		name, ok := pairs[i].(string)
		if !ok {
			panic("borsh: RecordOf field names must be strings")
		}
		r.Set(name, pairs[i+1])
	}

	return r
}

// Set stores value under name, appending name when it is new, and returns
// the record for chaining.
func (r *Record) Set(name string, value any) *Record {
	if r.values == nil {
		r.values = make(map[string]any)
	}
	if _, ok := r.values[name]; !ok {
		r.names = append(r.names, name)
	}
	r.values[name] = value

	return r
}

// Get returns the value of the named field.
func (r *Record) Get(name string) (any, bool) {
	if r == nil {
		return nil, false
	}
	v, ok := r.values[name]

	return v, ok
}

// Names returns the field names in order.
func (r *Record) Names() []string {
	if r == nil {
		return nil
	}

	return append([]string(nil), r.names...)
}

// Len returns the number of fields.
func (r *Record) Len() int {
	if r == nil {
		return 0
	}

	return len(r.names)
}

// Keys implements [Keyed].
func (r *Record) Keys() []any {
	if r == nil {
		return nil
	}
	keys := make([]any, len(r.names))
	for i, n := range r.names {
		keys[i] = n
	}

	return keys
}

// Lookup implements [Keyed]. Non-string keys are never present.
func (r *Record) Lookup(key any) (any, bool) {
	name, ok := key.(string)
	if !ok {
		return nil, false
	}

	return r.Get(name)
}

// Map returns the fields as a plain map. Nested values are not converted; use
// [Export] for a deep conversion.
func (r *Record) Map() map[string]any {
	m := make(map[string]any, r.Len())
	if r == nil {
		return m
	}
	for _, n := range r.names {
		m[n] = r.values[n]
	}

	return m
}

// MapEntry is one key/value pair of an [OrderedMap].
type MapEntry struct {
	Key   any
	Value any
}

// OrderedMap is a map that keeps insertion order and accepts any key the
// codec can produce, including *big.Int, []byte and []any keys. Decode
// returns maps as ordered maps.
//
// The zero value is an empty map ready to use.
type OrderedMap struct {
	entries []MapEntry
	index   map[any]int
}

// NewOrderedMap returns an empty map with room for capacity entries.
func NewOrderedMap(capacity int) *OrderedMap {
	return &OrderedMap{entries: make([]MapEntry, 0, max(capacity, 0))}
}

// OrderedMapOf builds a map from alternating key/value arguments. It panics
// when the argument count is odd.
func OrderedMapOf(pairs ...any) *OrderedMap {
	if len(pairs)%2 != 0 {
		panic("borsh: OrderedMapOf requires key/value pairs")
	}

	m := NewOrderedMap(len(pairs) / 2)
	for i := 0; i < len(pairs); i += 2 {
		m.Set(pairs[i], pairs[i+1])
	}

	return m
}

// Set stores value under key. An existing key keeps its position.
func (m *OrderedMap) Set(key, value any) *OrderedMap {
	if i, ok := m.find(key); ok {
		m.entries[i].Value = value
		return m
	}

	if hk, ok := hashKey(key); ok {
		if m.index == nil {
			m.index = make(map[any]int)
		}
		m.index[hk] = len(m.entries)
	}
	m.entries = append(m.entries, MapEntry{Key: key, Value: value})

	return m
}

// Get returns the value stored under key.
func (m *OrderedMap) Get(key any) (any, bool) {
	if m == nil {
		return nil, false
	}
	if i, ok := m.find(key); ok {
		return m.entries[i].Value, true
	}

	return nil, false
}

// Len returns the number of entries.
func (m *OrderedMap) Len() int {
	if m == nil {
		return 0
	}

	return len(m.entries)
}

// Entries returns the entries in order.
func (m *OrderedMap) Entries() []MapEntry {
	if m == nil {
		return nil
	}

	return append([]MapEntry(nil), m.entries...)
}

// Keys implements [Keyed].
func (m *OrderedMap) Keys() []any {
	if m == nil {
		return nil
	}
	keys := make([]any, len(m.entries))
	for i, e := range m.entries {
		keys[i] = e.Key
	}

	return keys
}

// Lookup implements [Keyed].
func (m *OrderedMap) Lookup(key any) (any, bool) {
	return m.Get(key)
}

func (m *OrderedMap) find(key any) (int, bool) {
	if hk, ok := hashKey(key); ok {
		i, found := m.index[hk]
		return i, found
	}
	for i, e := range m.entries {
		if keysEqual(e.Key, key) {
			return i, true
		}
	}

	return 0, false
}

// OrderedSet is a set that keeps insertion order. Decode returns sets as
// ordered sets.
//
// The zero value is an empty set ready to use.
type OrderedSet struct {
	m OrderedMap
}

// NewOrderedSet returns an empty set with room for capacity values.
func NewOrderedSet(capacity int) *OrderedSet {
	return &OrderedSet{m: OrderedMap{entries: make([]MapEntry, 0, max(capacity, 0))}}
}

// OrderedSetOf builds a set from values.
func OrderedSetOf(values ...any) *OrderedSet {
	s := NewOrderedSet(len(values))
	for _, v := range values {
		s.Add(v)
	}

	return s
}

// Add inserts value unless it is already present.
func (s *OrderedSet) Add(value any) *OrderedSet {
	if _, ok := s.m.find(value); !ok {
		s.m.Set(value, nil)
	}

	return s
}

// Has reports whether value is present.
func (s *OrderedSet) Has(value any) bool {
	if s == nil {
		return false
	}
	_, ok := s.m.find(value)

	return ok
}

// Len returns the number of values.
func (s *OrderedSet) Len() int {
	if s == nil {
		return 0
	}

	return s.m.Len()
}

// Values returns the values in order.
func (s *OrderedSet) Values() []any {
	if s == nil {
		return nil
	}

	return s.m.Keys()
}

// Keys implements [Keyed]; a set's keys are its values.
func (s *OrderedSet) Keys() []any {
	return s.Values()
}

// Lookup implements [Keyed].
func (s *OrderedSet) Lookup(key any) (any, bool) {
	if s.Has(key) {
		return key, true
	}

	return nil, false
}

type (
	nilKey   struct{}
	bigKey   string
	bytesKey string
)

// hashKey maps a key to a comparable stand-in with value semantics. It
// reports false for keys that can only be compared with [keysEqual].
func hashKey(key any) (any, bool) {
	switch k := key.(type) {
	case nil:
		return nilKey{}, true
	case *big.Int:
		if k == nil {
			return nilKey{}, true
		}
		return bigKey(k.String()), true
	case []byte:
		return bytesKey(k), true
	case PublicKey, string, bool,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64:
		return k, true
	}

	return nil, false
}

func keysEqual(a, b any) bool {
	ha, okA := hashKey(a)
	hb, okB := hashKey(b)
	if okA && okB {
		return ha == hb
	}
	if okA != okB {
		return false
	}

	return reflect.DeepEqual(a, b)
}
