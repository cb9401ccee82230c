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
	"reflect"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/spf13/cast"
)

// encoder holds the state of one Encode call.
type encoder struct {
	cfg    *config
	buf    *writeBuffer
	depth  int
	values int
}

func newEncoder(cfg *config) *encoder {
	return &encoder{
		cfg: cfg,
		buf: newWriteBuffer(cfg.initialCapacity),
	}
}

func (e *encoder) encode(value any, schema Schema) ([]byte, error) {
	if err := e.encodeValue(value, schema, rootPath(e.cfg.rootName)); err != nil {
		return nil, err
	}

	return e.buf.bytes(), nil
}

func (e *encoder) encodeValue(value any, schema Schema, p *fieldPath) error {
	if err := checkNode(schema, p); err != nil {
		return err
	}

	e.values++
	e.depth++
	defer func() { e.depth-- }()
	if e.cfg.maxDepth > 0 && e.depth > e.cfg.maxDepth {
		return limitExceeded(p, fmt.Sprintf("depth exceeds %d", e.cfg.maxDepth))
	}

	switch s := schema.(type) {
	case Scalar:
		return e.encodeScalar(indirect(value), s, p)
	case *OptionSchema:
		return e.encodeOption(value, s, p)
	case *ArraySchema:
		return e.encodeArray(value, s, p)
	case *VecSchema:
		return e.encodeSequence(value, s.Elem, 0, p)
	case *SetSchema:
		return e.encodeSet(value, s, p)
	case *MapSchema:
		return e.encodeMap(value, s, p)
	case *StructSchema:
		return e.encodeStruct(value, s, p)
	case *EnumSchema:
		return e.encodeEnum(value, s, p)
	default:
		return malformed(p, fmt.Sprintf("unsupported schema node %T", schema))
	}
}

func (e *encoder) encodeScalar(value any, s Scalar, p *fieldPath) error {
	checked := e.cfg.checkTypes

	switch s {
	case U8, U16, U32, I8, I16, I32:
		bits, ok := integerBits(value, checked)
		if !ok {
			return typeMismatch(p, s.String(), value)
		}
		e.buf.writeUint(bits, s.width())

	case U64, U128, I64, I128:
		b, ok := bigValue(value, checked)
		if !ok {
			return typeMismatch(p, s.String(), value)
		}
		e.writeBig(b, s.width())

	case F32:
		f, ok := floatValue(value, checked)
		if !ok {
			return typeMismatch(p, s.String(), value)
		}
		e.buf.writeUint(uint64(math.Float32bits(float32(f))), 4)

	case F64:
		f, ok := floatValue(value, checked)
		if !ok {
			return typeMismatch(p, s.String(), value)
		}
		e.buf.writeUint(math.Float64bits(f), 8)

	case Bool:
		b, ok := boolValue(value, checked)
		if !ok {
			return typeMismatch(p, s.String(), value)
		}
		if b {
			e.buf.writeByte(1)
		} else {
			e.buf.writeByte(0)
		}

	case String:
		return e.encodeString(value, p)

	case Bytes:
		return e.encodeBytes(value, p)

	case Pubkey:
		pk, err := e.publicKey(value, p)
		if err != nil {
			return err
		}
		e.buf.writeRaw(pk[:])
	}

	return nil
}

// writeBig writes the low width bytes of b in two's complement, least
// significant byte first. Out-of-range values wrap.
func (e *encoder) writeBig(b *big.Int, width int) {
	if width <= 8 {
		e.buf.writeUint(bigBits(b), width)
		return
	}

	v := b
	for written := 0; written < width; written += 8 {
		e.buf.writeUint(bigBits(v), min(8, width-written))
		v = new(big.Int).Rsh(v, 64)
	}
}

// encodeString writes the UTF-8 form of a string with a u32 byte-length
// prefix. Go strings are walked rune by rune, so invalid bytes are written as
// U+FFFD; []uint16 input is treated as UTF-16 and surrogate pairs are combined.
func (e *encoder) encodeString(value any, p *fieldPath) error {
	start := e.buf.len()
	e.buf.writeLength(0)

	switch v := value.(type) {
	case []uint16:
		for i := 0; i < len(v); i++ {
			r := rune(v[i])
			if utf16.IsSurrogate(r) {
				r = utf8.RuneError
				if i+1 < len(v) {
					if pair := utf16.DecodeRune(rune(v[i]), rune(v[i+1])); pair != utf8.RuneError {
						r = pair
						i++
					}
				}
			}
			e.writeRune(r)
		}
	default:
		s, ok := stringValue(value, e.cfg.checkTypes)
		if !ok {
			return typeMismatch(p, String.String(), value)
		}
		for _, r := range s {
			e.writeRune(r)
		}
	}

	n := e.buf.len() - start - 4
	if err := e.checkLength(n, p); err != nil {
		return err
	}
	e.buf.putLength(start, n)

	return nil
}

// writeRune writes one Unicode scalar in its one to four byte UTF-8 form.
func (e *encoder) writeRune(r rune) {
	if r < 0 || r > utf8.MaxRune || (r >= 0xD800 && r <= 0xDFFF) {
		r = utf8.RuneError
	}

	switch {
	case r < 0x80:
		e.buf.writeByte(byte(r))
	case r < 0x800:
		e.buf.writeByte(0xC0 | byte(r>>6))
		e.buf.writeByte(0x80 | byte(r)&0x3F)
	case r < 0x10000:
		e.buf.writeByte(0xE0 | byte(r>>12))
		e.buf.writeByte(0x80 | byte(r>>6)&0x3F)
		e.buf.writeByte(0x80 | byte(r)&0x3F)
	default:
		e.buf.writeByte(0xF0 | byte(r>>18))
		e.buf.writeByte(0x80 | byte(r>>12)&0x3F)
		e.buf.writeByte(0x80 | byte(r>>6)&0x3F)
		e.buf.writeByte(0x80 | byte(r)&0x3F)
	}
}

func (e *encoder) encodeBytes(value any, p *fieldPath) error {
	raw, ok := rawBytes(value)
	if s, isString := value.(string); isString && !e.cfg.checkTypes {
		// Text documents can only carry map keys as strings.
		raw, ok = []byte(s), true
	}
	if ok {
		if err := e.checkLength(len(raw), p); err != nil {
			return err
		}
		e.buf.writeLength(len(raw))
		e.buf.writeRaw(raw)
		return nil
	}

	seq, ok := asSequence(value)
	if !ok {
		return typeMismatch(p, Bytes.String(), value)
	}
	if err := e.checkLength(seq.len(), p); err != nil {
		return err
	}

	e.buf.writeLength(seq.len())
	for i := range seq.len() {
		item := seq.at(i)
		bits, ok := integerBits(item, e.cfg.checkTypes)
		if !ok {
			return typeMismatch(p.elem(i), U8.String(), item)
		}
		e.buf.writeByte(byte(bits))
	}

	return nil
}

func (e *encoder) publicKey(value any, p *fieldPath) (PublicKey, error) {
	switch v := value.(type) {
	case PublicKey:
		return v, nil
	case [PublicKeySize]byte:
		return PublicKey(v), nil
	case []byte:
		pk, err := PublicKeyFromBytes(v)
		if err != nil {
			return pk, invalidIdentifier(p, err)
		}
		return pk, nil
	case string:
		pk, err := ParsePublicKey(v)
		if err != nil {
			return pk, invalidIdentifier(p, err)
		}
		return pk, nil
	}

	if e.cfg.checkTypes {
		return PublicKey{}, typeMismatch(p, Pubkey.String(), value)
	}

	s, err := cast.ToStringE(value)
	if err != nil {
		return PublicKey{}, invalidIdentifier(p, fmt.Errorf("%w: %s", ErrInvalidPublicKey, describe(value)))
	}
	pk, err := ParsePublicKey(s)
	if err != nil {
		return pk, invalidIdentifier(p, err)
	}

	return pk, nil
}

func (e *encoder) encodeOption(value any, s *OptionSchema, p *fieldPath) error {
	if isAbsent(value) {
		e.buf.writeByte(0)
		return nil
	}

	e.buf.writeByte(1)

	return e.encodeValue(value, s.Inner, p)
}

func (e *encoder) encodeArray(value any, s *ArraySchema, p *fieldPath) error {
	if s.Len == 0 {
		return e.encodeSequence(value, s.Elem, 0, p)
	}

	return e.encodeSequence(value, s.Elem, s.Len, p)
}

// encodeSequence writes the elements of an array-like value. A positive
// fixed length is enforced and suppresses the length prefix.
func (e *encoder) encodeSequence(value any, elem Schema, fixed int, p *fieldPath) error {
	if elem == U8 {
		if raw, ok := rawBytes(value); ok {
			if err := e.writeCount(len(raw), fixed, p); err != nil {
				return err
			}
			e.values += len(raw)
			e.buf.writeRaw(raw)
			return nil
		}
	}

	seq, ok := asSequence(value)
	if !ok {
		return typeMismatch(p, "array-like", value)
	}
	if err := e.writeCount(seq.len(), fixed, p); err != nil {
		return err
	}

	for i := range seq.len() {
		if err := e.encodeValue(seq.at(i), elem, p.elem(i)); err != nil {
			return err
		}
	}

	return nil
}

// writeCount writes a u32 length prefix, or checks n against a fixed length.
func (e *encoder) writeCount(n, fixed int, p *fieldPath) error {
	if fixed > 0 {
		if n != fixed {
			return sizeMismatch(p, fixed, n)
		}
		return nil
	}
	if err := e.checkLength(n, p); err != nil {
		return err
	}
	e.buf.writeLength(n)

	return nil
}

func (e *encoder) encodeSet(value any, s *SetSchema, p *fieldPath) error {
	if seq, ok := asSequence(value); ok {
		if err := e.writeCount(seq.len(), 0, p); err != nil {
			return err
		}
		for i := range seq.len() {
			if err := e.encodeValue(seq.at(i), s.Elem, p.elem(i)); err != nil {
				return err
			}
		}
		return nil
	}

	k, ok := asKeyed(value, e.cfg.structTag)
	if !ok {
		return typeMismatch(p, "set", value)
	}

	keys := k.Keys()
	members := keys
	if rm, isMap := k.(*reflectMap); !isMap || !rm.setLike() {
		members = make([]any, len(keys))
		for i, key := range keys {
			members[i], _ = k.Lookup(key)
		}
	}

	if err := e.writeCount(len(members), 0, p); err != nil {
		return err
	}
	for i, m := range members {
		if err := e.encodeValue(m, s.Elem, p.elem(i)); err != nil {
			return err
		}
	}

	return nil
}

func (e *encoder) encodeMap(value any, s *MapSchema, p *fieldPath) error {
	if entries, ok := value.([]MapEntry); ok {
		return e.encodeEntries(entries, s, p)
	}

	k, ok := asKeyed(value, e.cfg.structTag)
	if !ok {
		return typeMismatch(p, "map", value)
	}

	keys := k.Keys()
	entries := make([]MapEntry, len(keys))
	for i, key := range keys {
		v, _ := k.Lookup(key)
		entries[i] = MapEntry{Key: key, Value: v}
	}

	return e.encodeEntries(entries, s, p)
}

func (e *encoder) encodeEntries(entries []MapEntry, s *MapSchema, p *fieldPath) error {
	if err := e.writeCount(len(entries), 0, p); err != nil {
		return err
	}

	for i, entry := range entries {
		ep := p.elem(i)
		if err := e.encodeValue(entry.Key, s.Key, ep.child("key")); err != nil {
			return err
		}
		if err := e.encodeValue(entry.Value, s.Value, ep.child("value")); err != nil {
			return err
		}
	}

	return nil
}

func (e *encoder) encodeStruct(value any, s *StructSchema, p *fieldPath) error {
	k, ok := asKeyed(value, e.cfg.structTag)
	if !ok {
		return typeMismatch(p, "struct", value)
	}

	return e.encodeFields(k, s, p)
}

func (e *encoder) encodeFields(k Keyed, s *StructSchema, p *fieldPath) error {
	for _, f := range s.Fields {
		fp := p.child(f.Name)
		v, found := k.Lookup(f.Name)
		if !found {
			if _, optional := f.Schema.(*OptionSchema); optional {
				v = nil
			} else {
				return &Error{
					Kind:     KindTypeMismatch,
					Path:     fp.String(),
					Expected: schemaString(f.Schema),
					Got:      "missing field",
				}
			}
		}
		if err := e.encodeValue(v, f.Schema, fp); err != nil {
			return err
		}
	}

	return nil
}

func (e *encoder) encodeEnum(value any, s *EnumSchema, p *fieldPath) error {
	k, ok := asKeyed(value, e.cfg.structTag)
	if !ok {
		return typeMismatch(p, "enum", value)
	}

	keys := k.Keys()
	if len(keys) != 1 && (e.cfg.checkTypes || len(keys) == 0) {
		return &Error{
			Kind:     KindTypeMismatch,
			Path:     p.String(),
			Expected: "exactly one variant key",
			Got:      fmt.Sprintf("%d keys", len(keys)),
		}
	}

	name, isString := keys[0].(string)
	if !isString {
		return unknownVariant(p, fmt.Sprint(keys[0]))
	}

	for i := range s.Variants {
		if s.variantName(i) != name {
			continue
		}
		e.buf.writeByte(byte(i))
		return e.encodeFields(k, s.Variants[i], p)
	}

	return unknownVariant(p, name)
}

// checkLength enforces the u32 prefix range and the configured length limit.
func (e *encoder) checkLength(n int, p *fieldPath) error {
	if uint64(n) > math.MaxUint32 {
		return limitExceeded(p, fmt.Sprintf("length %d does not fit a u32 prefix", n))
	}
	if e.cfg.maxLength > 0 && n > e.cfg.maxLength {
		return limitExceeded(p, fmt.Sprintf("length %d exceeds %d", n, e.cfg.maxLength))
	}

	return nil
}

// isAbsent reports whether an option value is "not present": untyped nil or
// a nil pointer. Nil slices and maps are present, empty collections.
func isAbsent(value any) bool {
	if value == nil {
		return true
	}
	rv := reflect.ValueOf(value)

	return rv.Kind() == reflect.Ptr && rv.IsNil()
}

// indirect dereferences non-nil pointers to scalar values. *big.Int is kept
// as is.
func indirect(value any) any {
	if _, ok := value.(*big.Int); ok {
		return value
	}
	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.Ptr {
		return value
	}
	for rv.Kind() == reflect.Ptr && !rv.IsNil() && rv.Type() != bigIntPtrType {
		rv = rv.Elem()
	}

	return rv.Interface()
}
