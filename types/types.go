// Package types implements the type lattice of spec.md §3.4: the set of
// types a Zinc expression can have, plus the flat-size computation that
// drives data-stack addressing in package generator.
package types

import (
	"fmt"
	"strings"
)

// Type is implemented by every member of the type lattice.
type Type interface {
	// FlatSize is the number of contiguous data-stack slots a value of this
	// type occupies, per spec.md §3.4.
	FlatSize() int
	String() string
	Equal(Type) bool
}

// Unit is "()".
type Unit struct{}

func (Unit) FlatSize() int    { return 0 }
func (Unit) String() string   { return "()" }
func (Unit) Equal(t Type) bool { _, ok := t.(Unit); return ok }

// Bool is "bool".
type Bool struct{}

func (Bool) FlatSize() int    { return 1 }
func (Bool) String() string   { return "bool" }
func (Bool) Equal(t Type) bool { _, ok := t.(Bool); return ok }

// Integer is u{N}/i{N}, 8 <= N <= 248, N a multiple of 8.
type Integer struct {
	Signed bool
	Bits   int
}

func (Integer) FlatSize() int { return 1 }
func (i Integer) String() string {
	if i.Signed {
		return fmt.Sprintf("i%d", i.Bits)
	}
	return fmt.Sprintf("u%d", i.Bits)
}
func (i Integer) Equal(t Type) bool {
	o, ok := t.(Integer)
	return ok && o.Signed == i.Signed && o.Bits == i.Bits
}

// bound returns the exclusive upper bound 2^Bits for an unsigned value of
// this width, or the magnitude bound for a signed one (same value: the
// range check differs by sign, see InRange).
func (i Integer) bound() uint64 {
	if i.Bits >= 64 {
		return 0 // caller must use big.Int path; see semantic package
	}
	return uint64(1) << uint(i.Bits)
}

// Field is the native BN256 scalar field.
type Field struct{}

func (Field) FlatSize() int    { return 1 }
func (Field) String() string   { return "field" }
func (Field) Equal(t Type) bool { _, ok := t.(Field); return ok }

// Array is "[T; N]".
type Array struct {
	Element Type
	Size    int
}

func (a Array) FlatSize() int { return a.Element.FlatSize() * a.Size }
func (a Array) String() string {
	return fmt.Sprintf("[%s; %d]", a.Element, a.Size)
}
func (a Array) Equal(t Type) bool {
	o, ok := t.(Array)
	return ok && o.Size == a.Size && a.Element.Equal(o.Element)
}

// Tuple is "(T1, T2, ...)".
type Tuple struct {
	Elements []Type
}

func (tt Tuple) FlatSize() int {
	n := 0
	for _, e := range tt.Elements {
		n += e.FlatSize()
	}
	return n
}
func (tt Tuple) String() string {
	parts := make([]string, len(tt.Elements))
	for i, e := range tt.Elements {
		parts[i] = e.String()
	}
	return "(" + strings.Join(parts, ", ") + ")"
}
func (tt Tuple) Equal(t Type) bool {
	o, ok := t.(Tuple)
	if !ok || len(o.Elements) != len(tt.Elements) {
		return false
	}
	for i := range tt.Elements {
		if !tt.Elements[i].Equal(o.Elements[i]) {
			return false
		}
	}
	return true
}

// StructField is one named, typed field of a Struct.
type StructField struct {
	Name string
	Type Type
}

// Struct is "struct Name { f1: T1, ... }". Identity is nominal: two structs
// with the same name are equal regardless of field identity, matching the
// language's declaration-based (not structural) typing for user types.
type Struct struct {
	Name   string
	Fields []StructField
}

func (s *Struct) FlatSize() int {
	n := 0
	for _, f := range s.Fields {
		n += f.Type.FlatSize()
	}
	return n
}
func (s *Struct) String() string { return s.Name }
func (s *Struct) Equal(t Type) bool {
	o, ok := t.(*Struct)
	return ok && o.Name == s.Name
}

// Field looks up a struct field by name, returning its type, flat offset
// (in data-stack slots from the start of the struct) and whether it exists.
func (s *Struct) Field(name string) (typ Type, offset int, ok bool) {
	off := 0
	for _, f := range s.Fields {
		if f.Name == name {
			return f.Type, off, true
		}
		off += f.Type.FlatSize()
	}
	return nil, 0, false
}

// EnumVariant is one "Name = value" member of an Enum.
type EnumVariant struct {
	Name  string
	Value uint64
}

// Enum is "enum Name { V1 = c1, ... }"; variants are unsigned-integer
// valued and occupy a single flat slot (spec.md §3.4).
type Enum struct {
	Name     string
	Variants []EnumVariant
}

func (*Enum) FlatSize() int  { return 1 }
func (e *Enum) String() string { return e.Name }
func (e *Enum) Equal(t Type) bool {
	o, ok := t.(*Enum)
	return ok && o.Name == e.Name
}

// Variant returns the discriminant for a named variant.
func (e *Enum) Variant(name string) (uint64, bool) {
	for _, v := range e.Variants {
		if v.Name == name {
			return v.Value, true
		}
	}
	return 0, false
}

// Function is "fn(...) -> T", first-class only through paths (spec.md
// §3.4). Its flat size is zero: a function value never occupies data-stack
// slots, only its call sites do.
type Function struct {
	Params  []Type
	Returns Type
}

func (Function) FlatSize() int { return 0 }
func (f Function) String() string {
	parts := make([]string, len(f.Params))
	for i, p := range f.Params {
		parts[i] = p.String()
	}
	ret := "()"
	if f.Returns != nil {
		ret = f.Returns.String()
	}
	return fmt.Sprintf("fn(%s) -> %s", strings.Join(parts, ", "), ret)
}
func (f Function) Equal(t Type) bool {
	o, ok := t.(Function)
	if !ok || len(o.Params) != len(f.Params) {
		return false
	}
	for i := range f.Params {
		if !f.Params[i].Equal(o.Params[i]) {
			return false
		}
	}
	if (f.Returns == nil) != (o.Returns == nil) {
		return false
	}
	return f.Returns == nil || f.Returns.Equal(o.Returns)
}

// ContractStorageField is one storage slot of a Contract, in declaration
// order; the first two are always the implicit address and balance-list
// fields inserted by the analyser (spec.md §4.3.10).
type ContractStorageField struct {
	Name string
	Type Type
}

// Contract is "contract Name { ... }": a structure with a storage layout
// plus methods. As a *value* its flat size is zero (spec.md §3.4); its
// storage size (StorageSize) is the sum of its storage fields' flat sizes.
type Contract struct {
	Name    string
	Storage []ContractStorageField
}

func (*Contract) FlatSize() int    { return 0 }
func (c *Contract) String() string { return c.Name }
func (c *Contract) Equal(t Type) bool {
	o, ok := t.(*Contract)
	return ok && o.Name == c.Name
}

// StorageSize is the flat size of the contract's storage layout.
func (c *Contract) StorageSize() int {
	n := 0
	for _, f := range c.Storage {
		n += f.Type.FlatSize()
	}
	return n
}

// StorageField looks up a storage field by name, returning its type, flat
// offset within storage, and whether it exists.
func (c *Contract) StorageField(name string) (typ Type, offset int, ok bool) {
	off := 0
	for _, f := range c.Storage {
		if f.Name == name {
			return f.Type, off, true
		}
		off += f.Type.FlatSize()
	}
	return nil, 0, false
}

// MTreeMap is std::collections::MTreeMap<K, V>, an intrinsic associative
// container. Its flat size as a value is zero (spec.md §3.4): it is only
// ever addressed through the contract storage Merkle tree.
type MTreeMap struct {
	Key   Type
	Value Type
}

func (MTreeMap) FlatSize() int { return 0 }
func (m MTreeMap) String() string {
	return fmt.Sprintf("std::collections::MTreeMap<%s, %s>", m.Key, m.Value)
}
func (m MTreeMap) Equal(t Type) bool {
	o, ok := t.(MTreeMap)
	return ok && m.Key.Equal(o.Key) && m.Value.Equal(o.Value)
}

// IsInteger reports whether t is an Integer of any width/sign.
func IsInteger(t Type) (Integer, bool) {
	i, ok := t.(Integer)
	return i, ok
}

// IsUnsignedInteger reports whether t is an unsigned Integer.
func IsUnsignedInteger(t Type) bool {
	i, ok := t.(Integer)
	return ok && !i.Signed
}
