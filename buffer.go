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
	"encoding/binary"
	"slices"
)

// DefaultInitialCapacity is the starting size of the encode buffer.
const DefaultInitialCapacity = 1024

// writeBuffer is the append-only byte sink used by one Encode call.
type writeBuffer struct {
	buf []byte
	off int
}

func newWriteBuffer(capacity int) *writeBuffer {
	if capacity <= 0 {
		capacity = DefaultInitialCapacity
	}

	return &writeBuffer{buf: make([]byte, capacity)}
}

// reserve ensures n bytes of spare capacity, at least doubling the storage
// when it has to grow.
func (w *writeBuffer) reserve(n int) {
	if len(w.buf)-w.off >= n {
		return
	}

	size := max(2*len(w.buf), w.off+n)
	grown := make([]byte, size)
	copy(grown, w.buf[:w.off])
	w.buf = grown
}

func (w *writeBuffer) writeByte(b byte) {
	w.reserve(1)
	w.buf[w.off] = b
	w.off++
}

// writeUint writes the low width bytes of v in little-endian order.
func (w *writeBuffer) writeUint(v uint64, width int) {
	w.reserve(width)
	dst := w.buf[w.off : w.off+width]
	switch width {
	case 1:
		dst[0] = byte(v)
	case 2:
		binary.LittleEndian.PutUint16(dst, uint16(v))
	case 4:
		binary.LittleEndian.PutUint32(dst, uint32(v))
	case 8:
		binary.LittleEndian.PutUint64(dst, v)
	default:
		for i := range dst {
			dst[i] = byte(v)
			v >>= 8
		}
	}
	w.off += width
}

// writeLength writes a four-byte little-endian length prefix.
func (w *writeBuffer) writeLength(n int) {
	w.writeUint(uint64(uint32(n)), 4)
}

// putLength overwrites the four-byte length prefix previously written at
// offset at.
func (w *writeBuffer) putLength(at, n int) {
	binary.LittleEndian.PutUint32(w.buf[at:at+4], uint32(n))
}

func (w *writeBuffer) writeRaw(b []byte) {
	w.reserve(len(b))
	w.off += copy(w.buf[w.off:], b)
}

// bytes returns exactly the bytes written, with no spare capacity.
func (w *writeBuffer) bytes() []byte {
	return slices.Clip(w.buf[:w.off])
}

func (w *writeBuffer) len() int {
	return w.off
}

// readBuffer is the bounds-checked byte source used by one Decode call. It
// never modifies the slice it reads from.
type readBuffer struct {
	data []byte
	off  int
}

func newReadBuffer(data []byte) *readBuffer {
	return &readBuffer{data: data}
}

func (r *readBuffer) remaining() int {
	return len(r.data) - r.off
}

// readUint reads width bytes as a little-endian unsigned integer. Widths
// above eight are not supported here; wide integers go through readRaw.
func (r *readBuffer) readUint(width int, p *fieldPath) (uint64, error) {
	src, err := r.readRaw(width, p)
	if err != nil {
		return 0, err
	}

	switch width {
	case 1:
		return uint64(src[0]), nil
	case 2:
		return uint64(binary.LittleEndian.Uint16(src)), nil
	case 4:
		return uint64(binary.LittleEndian.Uint32(src)), nil
	case 8:
		return binary.LittleEndian.Uint64(src), nil
	}

	var v uint64
	for i := len(src) - 1; i >= 0; i-- {
		v = v<<8 | uint64(src[i])
	}

	return v, nil
}

func (r *readBuffer) readByte(p *fieldPath) (byte, error) {
	if r.remaining() < 1 {
		return 0, underflow(p, 1, r.remaining())
	}
	b := r.data[r.off]
	r.off++

	return b, nil
}

// readLength reads a four-byte little-endian length prefix.
func (r *readBuffer) readLength(p *fieldPath) (int, error) {
	n, err := r.readUint(4, p)
	if err != nil {
		return 0, err
	}

	return int(n), nil
}

// readRaw returns a view of the next n bytes. The view aliases the input.
func (r *readBuffer) readRaw(n int, p *fieldPath) ([]byte, error) {
	if n < 0 || r.remaining() < n {
		return nil, underflow(p, n, r.remaining())
	}
	b := r.data[r.off : r.off+n : r.off+n]
	r.off += n

	return b, nil
}

// readBytes returns a copy of the next n bytes.
func (r *readBuffer) readBytes(n int, p *fieldPath) ([]byte, error) {
	b, err := r.readRaw(n, p)
	if err != nil {
		return nil, err
	}

	return slices.Clone(b), nil
}
