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
	"math"
	"math/big"
	"strconv"
	"strings"
	"unicode/utf8"
)

// decoder holds the state of one Decode call.
type decoder struct {
	cfg    *config
	buf    *readBuffer
	depth  int
	values int
}

func newDecoder(cfg *config, data []byte) *decoder {
	return &decoder{
		cfg: cfg,
		buf: newReadBuffer(data),
	}
}

func (d *decoder) decode(schema Schema) (any, error) {
	p := rootPath(d.cfg.rootName)

	v, err := d.decodeValue(schema, p)
	if err != nil {
		return nil, err
	}

	if d.cfg.rejectTrailing && d.buf.remaining() > 0 {
		return nil, &Error{
			Kind:     KindTrailingBytes,
			Path:     p.String(),
			Expected: "0 bytes",
			Got:      strconv.Itoa(d.buf.remaining()) + " bytes",
		}
	}

	return v, nil
}

func (d *decoder) decodeValue(schema Schema, p *fieldPath) (any, error) {
	if err := checkNode(schema, p); err != nil {
		return nil, err
	}

	d.values++
	d.depth++
	defer func() { d.depth-- }()
	if d.cfg.maxDepth > 0 && d.depth > d.cfg.maxDepth {
		return nil, limitExceeded(p, fmt.Sprintf("depth exceeds %d", d.cfg.maxDepth))
	}

	switch s := schema.(type) {
	case Scalar:
		return d.decodeScalar(s, p)
	case *OptionSchema:
		return d.decodeOption(s, p)
	case *ArraySchema:
		if s.Len > 0 {
			return d.decodeElems(s.Len, s.Elem, p)
		}
		return d.decodeSequence(s.Elem, p)
	case *VecSchema:
		return d.decodeSequence(s.Elem, p)
	case *SetSchema:
		return d.decodeSet(s, p)
	case *MapSchema:
		return d.decodeMap(s, p)
	case *StructSchema:
		return d.decodeStruct(s, p)
	case *EnumSchema:
		return d.decodeEnum(s, p)
	default:
		return nil, malformed(p, fmt.Sprintf("unsupported schema node %T", schema))
	}
}

func (d *decoder) decodeScalar(s Scalar, p *fieldPath) (any, error) {
	switch s {
	case U8, U16, U32, I8, I16, I32, F32, F64:
		bits, err := d.buf.readUint(s.width(), p)
		if err != nil {
			return nil, err
		}
		return narrowValue(s, bits), nil

	case U64, U128, I64, I128:
		raw, err := d.buf.readRaw(s.width(), p)
		if err != nil {
			return nil, err
		}
		return decodeBig(raw, s.signed()), nil

	case Bool:
		b, err := d.buf.readByte(p)
		if err != nil {
			return nil, err
		}
		return b != 0, nil

	case String:
		n, err := d.readLength(p)
		if err != nil {
			return nil, err
		}
		raw, err := d.buf.readRaw(n, p)
		if err != nil {
			return nil, err
		}
		return decodeUTF8(raw), nil

	case Bytes:
		n, err := d.readLength(p)
		if err != nil {
			return nil, err
		}
		return d.buf.readBytes(n, p)

	case Pubkey:
		raw, err := d.buf.readRaw(PublicKeySize, p)
		if err != nil {
			return nil, err
		}
		return PublicKey(raw), nil
	}

	return nil, malformed(p, "unknown scalar "+s.String())
}

func narrowValue(s Scalar, bits uint64) any {
	switch s {
	case U8:
		return uint8(bits)
	case U16:
		return uint16(bits)
	case U32:
		return uint32(bits)
	case I8:
		return int8(bits)
	case I16:
		return int16(bits)
	case I32:
		return int32(bits)
	case F32:
		return math.Float32frombits(uint32(bits))
	default:
		return math.Float64frombits(bits)
	}
}

// decodeBig reads a little-endian two's-complement integer of len(raw) bytes.
func decodeBig(raw []byte, signed bool) *big.Int {
	be := make([]byte, len(raw))
	for i, b := range raw {
		be[len(raw)-1-i] = b
	}

	v := new(big.Int).SetBytes(be)
	if signed && len(raw) > 0 && raw[len(raw)-1]&0x80 != 0 {
		v.Sub(v, new(big.Int).Lsh(big.NewInt(1), uint(8*len(raw))))
	}

	return v
}

// decodeUTF8 reads UTF-8 forward, one scalar at a time. Each maximal
// ill-formed subpart becomes a single U+FFFD.
func decodeUTF8(b []byte) string {
	var sb strings.Builder
	sb.Grow(len(b))

	for i := 0; i < len(b); {
		c := b[i]
		if c < 0x80 {
			sb.WriteByte(c)
			i++
			continue
		}

		var (
			need   int
			r      rune
			lo, hi byte = 0x80, 0xBF
		)
		switch {
		case c >= 0xC2 && c <= 0xDF:
			need, r = 1, rune(c&0x1F)
		case c >= 0xE0 && c <= 0xEF:
			need, r = 2, rune(c&0x0F)
			if c == 0xE0 {
				lo = 0xA0
			} else if c == 0xED {
				hi = 0x9F
			}
		case c >= 0xF0 && c <= 0xF4:
			need, r = 3, rune(c&0x07)
			if c == 0xF0 {
				lo = 0x90
			} else if c == 0xF4 {
				hi = 0x8F
			}
		default:
			sb.WriteRune(utf8.RuneError)
			i++
			continue
		}

		j := i + 1
		for k := 0; k < need; k++ {
			if j >= len(b) || b[j] < lo || b[j] > hi {
				break
			}
			r = r<<6 | rune(b[j]&0x3F)
			lo, hi = 0x80, 0xBF
			j++
		}

		if j-i-1 == need {
			sb.WriteRune(r)
		} else {
			sb.WriteRune(utf8.RuneError)
		}
		i = j
	}

	return sb.String()
}

func (d *decoder) decodeOption(s *OptionSchema, p *fieldPath) (any, error) {
	flag, err := d.buf.readByte(p)
	if err != nil {
		return nil, err
	}

	switch flag {
	case 0:
		return nil, nil
	case 1:
		return d.decodeValue(s.Inner, p)
	default:
		return nil, &Error{
			Kind:     KindTypeMismatch,
			Path:     p.String(),
			Expected: "option flag 0 or 1",
			Got:      strconv.Itoa(int(flag)),
		}
	}
}

func (d *decoder) decodeSequence(elem Schema, p *fieldPath) (any, error) {
	n, err := d.readLength(p)
	if err != nil {
		return nil, err
	}

	return d.decodeElems(n, elem, p)
}

func (d *decoder) decodeElems(n int, elem Schema, p *fieldPath) ([]any, error) {
	out := make([]any, 0, d.capacity(n))
	for i := range n {
		v, err := d.decodeValue(elem, p.elem(i))
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}

	return out, nil
}

func (d *decoder) decodeSet(s *SetSchema, p *fieldPath) (any, error) {
	n, err := d.readLength(p)
	if err != nil {
		return nil, err
	}

	set := NewOrderedSet(d.capacity(n))
	for i := range n {
		v, err := d.decodeValue(s.Elem, p.elem(i))
		if err != nil {
			return nil, err
		}
		set.Add(v)
	}

	return set, nil
}

func (d *decoder) decodeMap(s *MapSchema, p *fieldPath) (any, error) {
	n, err := d.readLength(p)
	if err != nil {
		return nil, err
	}

	m := NewOrderedMap(d.capacity(n))
	for i := range n {
		ep := p.elem(i)
		k, err := d.decodeValue(s.Key, ep.child("key"))
		if err != nil {
			return nil, err
		}
		v, err := d.decodeValue(s.Value, ep.child("value"))
		if err != nil {
			return nil, err
		}
		m.Set(k, v)
	}

	return m, nil
}

func (d *decoder) decodeStruct(s *StructSchema, p *fieldPath) (*Record, error) {
	r := &Record{
		names:  make([]string, 0, len(s.Fields)),
		values: make(map[string]any, len(s.Fields)),
	}
	for _, f := range s.Fields {
		v, err := d.decodeValue(f.Schema, p.child(f.Name))
		if err != nil {
			return nil, err
		}
		r.Set(f.Name, v)
	}

	return r, nil
}

func (d *decoder) decodeEnum(s *EnumSchema, p *fieldPath) (any, error) {
	disc, err := d.buf.readByte(p)
	if err != nil {
		return nil, err
	}
	if int(disc) >= len(s.Variants) {
		return nil, unknownVariant(p, strconv.Itoa(int(disc)))
	}

	return d.decodeStruct(s.Variants[disc], p)
}

// readLength reads a u32 prefix and applies the configured length limit.
func (d *decoder) readLength(p *fieldPath) (int, error) {
	n, err := d.buf.readLength(p)
	if err != nil {
		return 0, err
	}
	if d.cfg.maxLength > 0 && n > d.cfg.maxLength {
		return 0, limitExceeded(p, fmt.Sprintf("length %d exceeds %d", n, d.cfg.maxLength))
	}

	return n, nil
}

// capacity bounds preallocation by the bytes left, so a forged length prefix
// cannot force a large allocation.
func (d *decoder) capacity(n int) int {
	return min(n, d.buf.remaining())
}
