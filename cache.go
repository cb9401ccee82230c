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
	"maps"
	"reflect"
	"strings"
	"sync"
	"sync/atomic"
)

var (
	// RCU pattern: atomic pointer to immutable map
	structInfoCachePtr atomic.Pointer[map[cacheKey]*structInfo]

	// Write-side lock (only for cache updates)
	structInfoCacheMu sync.Mutex
)

func init() {
	m := make(map[cacheKey]*structInfo)
	structInfoCachePtr.Store(&m)
}

type cacheKey struct {
	typ reflect.Type
	tag string
}

// fieldInfo describes one encodable field of a Go struct.
type fieldInfo struct {
	index   []int  // Field index path (supports promoted fields)
	name    string // Schema-facing name: tag value or Go field name
	nilable bool   // Pointer, interface, map or slice: nil means "not present"
}

// structInfo holds the encodable fields of a struct type for one tag name.
type structInfo struct {
	fields []fieldInfo
	byName map[string]int
}

// lookup finds a field by exact name, then case-insensitively.
func (si *structInfo) lookup(name string) (*fieldInfo, bool) {
	if i, ok := si.byName[name]; ok {
		return &si.fields[i], true
	}
	for i := range si.fields {
		if strings.EqualFold(si.fields[i].name, name) {
			return &si.fields[i], true
		}
	}

	return nil, false
}

// getStructInfo retrieves or parses struct field metadata. Reads are
// lock-free; concurrent misses for the same type parse it once.
func getStructInfo(typ reflect.Type, tag string) *structInfo {
	if typ.Kind() == reflect.Ptr {
		typ = typ.Elem()
	}
	if typ.Kind() != reflect.Struct {
		panic(fmt.Sprintf("borsh: getStructInfo expects struct, got %s", typ.Kind()))
	}

	key := cacheKey{typ: typ, tag: tag}

	m := structInfoCachePtr.Load()
	if si, ok := (*m)[key]; ok {
		return si
	}

	structInfoCacheMu.Lock()
	defer structInfoCacheMu.Unlock()

	m = structInfoCachePtr.Load()
	if si, ok := (*m)[key]; ok {
		return si
	}

	si := parseStructInfo(typ, tag)

	newMap := make(map[cacheKey]*structInfo, len(*m)+1)
	maps.Copy(newMap, *m)
	newMap[key] = si
	structInfoCachePtr.Store(&newMap)

	return si
}

func parseStructInfo(typ reflect.Type, tag string) *structInfo {
	si := &structInfo{byName: make(map[string]int)}

	for _, f := range reflect.VisibleFields(typ) {
		if !f.IsExported() {
			continue
		}

		name := f.Name
		tagValue, tagged := f.Tag.Lookup(tag)
		if tagged {
			tagValue, _, _ = strings.Cut(tagValue, ",")
			if tagValue == "-" {
				continue
			}
			if tagValue != "" {
				name = tagValue
			}
		}

		// Untagged embedded structs contribute their promoted fields.
		if f.Anonymous && !tagged {
			ft := f.Type
			if ft.Kind() == reflect.Ptr {
				ft = ft.Elem()
			}
			if ft.Kind() == reflect.Struct {
				continue
			}
		}

		if _, dup := si.byName[name]; dup {
			continue
		}

		si.byName[name] = len(si.fields)
		si.fields = append(si.fields, fieldInfo{
			index:   f.Index,
			name:    name,
			nilable: isNilableKind(f.Type.Kind()),
		})
	}

	return si
}

func isNilableKind(k reflect.Kind) bool {
	switch k {
	case reflect.Ptr, reflect.Interface, reflect.Map, reflect.Slice:
		return true
	default:
		return false
	}
}

// WarmupCache pre-parses the field metadata of the given struct values for
// the default struct tag, so the first Encode of each type does not pay for
// reflection. Non-struct values are skipped.
//
// Example:
//
//	borsh.WarmupCache(Account{}, Transfer{})
func WarmupCache(types ...any) {
	for _, t := range types {
		typ := reflect.TypeOf(t)
		if typ == nil {
			continue
		}
		if typ.Kind() == reflect.Ptr {
			typ = typ.Elem()
		}
		if typ.Kind() != reflect.Struct {
			continue
		}
		getStructInfo(typ, DefaultStructTag)
	}
}
