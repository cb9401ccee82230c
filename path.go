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
	"strconv"
	"strings"
)

// defaultRootName is the first segment of every field path.
const defaultRootName = "value"

// fieldPath is an immutable, parent-linked chain of path segments. A child
// never modifies its parent, so a path can be shared freely between sibling
// calls and never leaks between concurrent Encode/Decode calls.
type fieldPath struct {
	parent *fieldPath
	name   string
	index  int
	isIdx  bool
}

func rootPath(name string) *fieldPath {
	return &fieldPath{name: name}
}

func (p *fieldPath) child(name string) *fieldPath {
	return &fieldPath{parent: p, name: name}
}

func (p *fieldPath) elem(i int) *fieldPath {
	return &fieldPath{parent: p, index: i, isIdx: true}
}

// segments returns the path from the root.
func (p *fieldPath) segments() []string {
	n := 0
	for q := p; q != nil; q = q.parent {
		n++
	}

	out := make([]string, n)
	for q := p; q != nil; q = q.parent {
		n--
		if q.isIdx {
			out[n] = strconv.Itoa(q.index)
		} else {
			out[n] = q.name
		}
	}

	return out
}

// String joins the segments with dots, e.g. "value.accounts.0.owner".
func (p *fieldPath) String() string {
	if p == nil {
		return ""
	}

	return strings.Join(p.segments(), ".")
}
