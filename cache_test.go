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

//go:build !integration

package borsh

import (
	"reflect"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cacheBase struct {
	ID uint32 `borsh:"id"`
}

type cacheSample struct {
	cacheBase
	Name    string  `borsh:"name,omitempty"`
	Skip    string  `borsh:"-"`
	Memo    *string `json:"memo"`
	private int
}

func TestGetStructInfo(t *testing.T) {
	t.Parallel()

	si := getStructInfo(reflect.TypeFor[cacheSample](), DefaultStructTag)

	names := make([]string, 0, len(si.fields))
	for _, f := range si.fields {
		names = append(names, f.name)
	}
	assert.Equal(t, []string{"id", "name", "Memo"}, names)

	f, ok := si.lookup("memo")
	require.True(t, ok, "lookup falls back to case-insensitive match")
	assert.True(t, f.nilable)

	_, ok = si.lookup("private")
	assert.False(t, ok)

	t.Run("tag name selects the names", func(t *testing.T) {
		t.Parallel()

		jsonInfo := getStructInfo(reflect.TypeFor[*cacheSample](), "json")
		_, ok := jsonInfo.byName["memo"]
		assert.True(t, ok)
		_, ok = jsonInfo.byName["Skip"]
		assert.True(t, ok)
	})

	t.Run("panics on non-struct", func(t *testing.T) {
		t.Parallel()

		assert.Panics(t, func() { getStructInfo(reflect.TypeFor[int](), DefaultStructTag) })
	})
}

func TestGetStructInfo_Concurrent(t *testing.T) {
	t.Parallel()

	type concurrentSample struct {
		A int `borsh:"a"`
	}

	var wg sync.WaitGroup
	infos := make([]*structInfo, 32)
	for i := range infos {
		wg.Go(func() {
			infos[i] = getStructInfo(reflect.TypeFor[concurrentSample](), DefaultStructTag)
		})
	}
	wg.Wait()

	for _, si := range infos {
		assert.Same(t, infos[0], si)
	}
}

func TestWarmupCache(t *testing.T) {
	t.Parallel()

	type warm struct {
		A uint8 `borsh:"a"`
	}

	WarmupCache(warm{}, &cacheSample{}, 5, nil)

	m := structInfoCachePtr.Load()
	_, ok := (*m)[cacheKey{typ: reflect.TypeFor[warm](), tag: DefaultStructTag}]
	assert.True(t, ok)
}

func TestEncode_EmbeddedStruct(t *testing.T) {
	t.Parallel()

	got, err := Encode(cacheSample{cacheBase: cacheBase{ID: 1}, Name: "n"}, Struct(
		Field("id", U32),
		Field("name", String),
		Field("memo", Optional(String)),
	))
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 0, 0, 0, 1, 0, 0, 0, 'n', 0}, got)
}
