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
	"strings"
)

// Schema describes the binary shape of a value.
//
// The set of implementations is closed: [Scalar], [*OptionSchema],
// [*ArraySchema], [*VecSchema], [*SetSchema], [*MapSchema], [*StructSchema]
// and [*EnumSchema]. Build schemas with the constructors in this file and
// treat them as immutable once they are handed to the codec; a schema may then
// be shared by any number of concurrent Encode and Decode calls.
type Schema interface {
	fmt.Stringer
	isSchema()
}

// Scalar is a leaf schema node.
type Scalar uint8

// Scalar kinds. Pubkey is the fixed 32-byte identifier.
const (
	U8 Scalar = iota + 1
	U16
	U32
	U64
	U128
	I8
	I16
	I32
	I64
	I128
	F32
	F64
	Bool
	String
	Bytes
	Pubkey
)

var scalarNames = [...]string{
	U8:     "u8",
	U16:    "u16",
	U32:    "u32",
	U64:    "u64",
	U128:   "u128",
	I8:     "i8",
	I16:    "i16",
	I32:    "i32",
	I64:    "i64",
	I128:   "i128",
	F32:    "f32",
	F64:    "f64",
	Bool:   "bool",
	String: "string",
	Bytes:  "bytes",
	Pubkey: "publicKey",
}

func (Scalar) isSchema() {}

// String returns the schema name of the scalar, e.g. "u64" or "publicKey".
func (s Scalar) String() string {
	if s.valid() {
		return scalarNames[s]
	}

	return fmt.Sprintf("scalar(%d)", uint8(s))
}

func (s Scalar) valid() bool {
	return s >= U8 && s <= Pubkey
}

// width returns the encoded size in bytes of fixed-width numeric scalars and
// zero for everything else.
func (s Scalar) width() int {
	switch s {
	case U8, I8:
		return 1
	case U16, I16:
		return 2
	case U32, I32, F32:
		return 4
	case U64, I64, F64:
		return 8
	case U128, I128:
		return 16
	default:
		return 0
	}
}

func (s Scalar) signed() bool {
	switch s {
	case I8, I16, I32, I64, I128:
		return true
	default:
		return false
	}
}

// wide reports whether values of the scalar are carried as arbitrary-precision
// integers.
func (s Scalar) wide() bool {
	switch s {
	case U64, U128, I64, I128:
		return true
	default:
		return false
	}
}

// OptionSchema is an optional value: a presence byte followed by Inner when
// present.
type OptionSchema struct {
	Inner Schema
}

func (*OptionSchema) isSchema() {}

func (s *OptionSchema) String() string {
	return "option<" + schemaString(s.Inner) + ">"
}

// ArraySchema is a sequence of Elem values. When Len is positive the array
// has exactly Len elements and no length prefix; when Len is zero the length
// is absent and the array is length-prefixed like a [VecSchema].
type ArraySchema struct {
	Elem Schema
	Len  int
}

func (*ArraySchema) isSchema() {}

func (s *ArraySchema) String() string {
	if s.Len > 0 {
		return fmt.Sprintf("[%s; %d]", schemaString(s.Elem), s.Len)
	}

	return "[" + schemaString(s.Elem) + "]"
}

// VecSchema is a length-prefixed sequence of Elem values.
type VecSchema struct {
	Elem Schema
}

func (*VecSchema) isSchema() {}

func (s *VecSchema) String() string {
	return "vec<" + schemaString(s.Elem) + ">"
}

// SetSchema is a length-prefixed collection of distinct Elem values.
type SetSchema struct {
	Elem Schema
}

func (*SetSchema) isSchema() {}

func (s *SetSchema) String() string {
	return "set<" + schemaString(s.Elem) + ">"
}

// MapSchema is a length-prefixed collection of Key/Value entries.
type MapSchema struct {
	Key   Schema
	Value Schema
}

func (*MapSchema) isSchema() {}

func (s *MapSchema) String() string {
	return "map<" + schemaString(s.Key) + ", " + schemaString(s.Value) + ">"
}

// StructField is a named member of a [StructSchema].
type StructField struct {
	Name   string
	Schema Schema
}

// StructSchema is an ordered list of named fields. Fields are encoded in
// declaration order.
type StructSchema struct {
	Fields []StructField
}

func (*StructSchema) isSchema() {}

func (s *StructSchema) String() string {
	var b strings.Builder
	b.WriteString("struct{")
	for i, f := range s.Fields {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(f.Name)
		b.WriteString(": ")
		b.WriteString(schemaString(f.Schema))
	}
	b.WriteByte('}')

	return b.String()
}

// field returns the schema of the named field.
func (s *StructSchema) field(name string) (Schema, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f.Schema, true
		}
	}

	return nil, false
}

// EnumSchema is a tagged union. Each variant is a single-field struct whose
// field name is the variant name; the variant's position in Variants is its
// one-byte discriminant.
type EnumSchema struct {
	Variants []*StructSchema
}

func (*EnumSchema) isSchema() {}

func (s *EnumSchema) String() string {
	names := make([]string, 0, len(s.Variants))
	for _, v := range s.Variants {
		if v != nil && len(v.Fields) == 1 {
			names = append(names, v.Fields[0].Name+"("+schemaString(v.Fields[0].Schema)+")")
			continue
		}
		names = append(names, "?")
	}

	return "enum{" + strings.Join(names, " | ") + "}"
}

// variantName returns the name of variant i, or "" when the variant is not a
// single-field struct.
func (s *EnumSchema) variantName(i int) string {
	v := s.Variants[i]
	if v == nil || len(v.Fields) != 1 {
		return ""
	}

	return v.Fields[0].Name
}

// Optional returns an optional schema around inner.
func Optional(inner Schema) *OptionSchema {
	return &OptionSchema{Inner: inner}
}

// Array returns an array schema. A positive length fixes the number of
// elements; zero leaves the length absent.
func Array(elem Schema, length int) *ArraySchema {
	return &ArraySchema{Elem: elem, Len: length}
}

// Vec returns a length-prefixed sequence schema.
func Vec(elem Schema) *VecSchema {
	return &VecSchema{Elem: elem}
}

// Set returns a set schema.
func Set(elem Schema) *SetSchema {
	return &SetSchema{Elem: elem}
}

// Map returns a map schema.
func Map(key, value Schema) *MapSchema {
	return &MapSchema{Key: key, Value: value}
}

// Field returns a struct field for use with [Struct].
func Field(name string, schema Schema) StructField {
	return StructField{Name: name, Schema: schema}
}

// Struct returns a struct schema with fields in the given order.
//
// Example:
//
//	account := borsh.Struct(
//	    borsh.Field("owner", borsh.Pubkey),
//	    borsh.Field("lamports", borsh.U64),
//	)
func Struct(fields ...StructField) *StructSchema {
	return &StructSchema{Fields: fields}
}

// Variant returns a single-field struct used as an [Enum] variant.
func Variant(name string, payload Schema) *StructSchema {
	return Struct(Field(name, payload))
}

// Enum returns a tagged-union schema. Discriminants follow argument order.
//
// Example:
//
//	instruction := borsh.Enum(
//	    borsh.Variant("transfer", borsh.Struct(borsh.Field("amount", borsh.U64))),
//	    borsh.Variant("close", borsh.Struct()),
//	)
func Enum(variants ...*StructSchema) *EnumSchema {
	return &EnumSchema{Variants: variants}
}

func schemaString(s Schema) string {
	if s == nil {
		return "<nil>"
	}

	return s.String()
}

// maxVariants is the number of discriminants a one-byte tag can address.
const maxVariants = 256

// Validate checks a whole schema tree for internal consistency and returns a
// [KindMalformedSchema] error describing the first problem found. The codec
// checks each node again when it visits it, so calling Validate is optional;
// it is useful to reject a bad schema at construction time.
//
// Validate does not detect cycles.
func Validate(schema Schema) error {
	return validateSchema(schema, rootPath(defaultRootName))
}

func validateSchema(schema Schema, p *fieldPath) error {
	if err := checkNode(schema, p); err != nil {
		return err
	}

	switch s := schema.(type) {
	case Scalar:
		return nil
	case *OptionSchema:
		return validateSchema(s.Inner, p)
	case *ArraySchema:
		return validateSchema(s.Elem, p)
	case *VecSchema:
		return validateSchema(s.Elem, p)
	case *SetSchema:
		return validateSchema(s.Elem, p)
	case *MapSchema:
		if err := validateSchema(s.Key, p.child("key")); err != nil {
			return err
		}
		return validateSchema(s.Value, p.child("value"))
	case *StructSchema:
		seen := make(map[string]struct{}, len(s.Fields))
		for _, f := range s.Fields {
			if _, dup := seen[f.Name]; dup {
				return malformed(p, fmt.Sprintf("duplicate field %q", f.Name))
			}
			seen[f.Name] = struct{}{}
			if err := validateSchema(f.Schema, p.child(f.Name)); err != nil {
				return err
			}
		}
		return nil
	case *EnumSchema:
		seen := make(map[string]struct{}, len(s.Variants))
		for i := range s.Variants {
			name := s.variantName(i)
			if _, dup := seen[name]; dup {
				return malformed(p, fmt.Sprintf("duplicate variant %q", name))
			}
			seen[name] = struct{}{}
			if err := validateSchema(s.Variants[i], p); err != nil {
				return err
			}
		}
		return nil
	default:
		return malformed(p, fmt.Sprintf("unsupported schema node %T", schema))
	}
}

// checkNode validates a single node without descending. It is called by the
// encoder and decoder on every visit.
func checkNode(schema Schema, p *fieldPath) error {
	switch s := schema.(type) {
	case nil:
		return malformed(p, "nil schema")
	case Scalar:
		if !s.valid() {
			return malformed(p, "unknown scalar "+s.String())
		}
	case *OptionSchema:
		if s == nil {
			return malformed(p, "nil option schema")
		}
	case *ArraySchema:
		if s == nil {
			return malformed(p, "nil array schema")
		}
		if s.Len < 0 {
			return malformed(p, fmt.Sprintf("negative array length %d", s.Len))
		}
	case *VecSchema:
		if s == nil {
			return malformed(p, "nil vec schema")
		}
	case *SetSchema:
		if s == nil {
			return malformed(p, "nil set schema")
		}
	case *MapSchema:
		if s == nil {
			return malformed(p, "nil map schema")
		}
	case *StructSchema:
		if s == nil {
			return malformed(p, "nil struct schema")
		}
		for _, f := range s.Fields {
			if f.Name == "" {
				return malformed(p, "empty field name")
			}
		}
	case *EnumSchema:
		if s == nil {
			return malformed(p, "nil enum schema")
		}
		if len(s.Variants) == 0 {
			return malformed(p, "enum has no variants")
		}
		if len(s.Variants) > maxVariants {
			return malformed(p, fmt.Sprintf("enum has %d variants, at most %d fit a one-byte discriminant", len(s.Variants), maxVariants))
		}
		for i := range s.Variants {
			if s.variantName(i) == "" {
				return malformed(p, fmt.Sprintf("variant %d is not a single-field struct", i))
			}
		}
	}

	return nil
}
