// Package abi describes the self-describing metadata every compiled Mun
// assembly exports, and the writeable LUT slots the linker patches at
// load/link time.
//
// The upstream Mun runtime reads this metadata as a raw C-ABI blob out of
// a dlopen'd shared library's data section. Go's equivalent of "load a
// shared library and resolve well-known exported symbols by name" is the
// standard library's plugin package, which hands back typed Go values
// instead of raw pointers — so here AssemblyInfo is a Go struct tree that
// both the host and a compiled assembly import, rather than a byte
// layout with cstr/*void fields. Every field spec.md §6 names still has a
// home below; see SPEC_FULL.md §0 for the full rationale.
package abi

import "reflect"

// MemoryKind selects value semantics (inlined, copied) or GC semantics
// (heap-allocated behind an indirect handle) for a struct type.
type MemoryKind int

const (
	MemoryKindValue MemoryKind = iota
	MemoryKindGC
)

func (k MemoryKind) String() string {
	if k == MemoryKindGC {
		return "gc"
	}
	return "value"
}

// TypeIdKind discriminates the three shapes a TypeId can take.
type TypeIdKind int

const (
	TypeIdConcrete TypeIdKind = iota
	TypeIdPointer
	TypeIdArray
)

// TypeId names a type as referenced from a function prototype or a
// struct field: a concrete (Guid-identified) type, a pointer to another
// TypeId, or an array of another TypeId.
type TypeId struct {
	Kind    TypeIdKind
	Concr   Guid    // valid when Kind == TypeIdConcrete
	Pointee *TypeId // valid when Kind == TypeIdPointer
	Mutable bool    // valid when Kind == TypeIdPointer
	Element *TypeId // valid when Kind == TypeIdArray
}

func ConcreteTypeId(g Guid) TypeId { return TypeId{Kind: TypeIdConcrete, Concr: g} }

func PointerTypeId(pointee TypeId, mutable bool) TypeId {
	return TypeId{Kind: TypeIdPointer, Pointee: &pointee, Mutable: mutable}
}

func ArrayTypeId(elem TypeId) TypeId {
	return TypeId{Kind: TypeIdArray, Element: &elem}
}

// Equal reports structural equality of two TypeIds.
func (t TypeId) Equal(o TypeId) bool {
	if t.Kind != o.Kind {
		return false
	}
	switch t.Kind {
	case TypeIdConcrete:
		return t.Concr == o.Concr
	case TypeIdPointer:
		return t.Mutable == o.Mutable && t.Pointee.Equal(*o.Pointee)
	case TypeIdArray:
		return t.Element.Equal(*o.Element)
	default:
		return false
	}
}

// FieldInfo describes one field of a struct definition as exported by an
// assembly: its name, its type, and its byte offset within the struct.
type FieldInfo struct {
	Name   string
	Type   TypeId
	Offset uint32
}

// TypeDef describes one concrete type defined by an assembly.
type TypeDef struct {
	Name      string
	SizeBits  uint32
	Alignment uint8
	Guid      Guid

	// Struct-only fields. IsStruct == false means this def describes a
	// primitive, not a struct; Fields and MemoryKind are then ignored.
	IsStruct   bool
	Fields     []FieldInfo
	MemoryKind MemoryKind
}

// FunctionPrototypeSignature is the argument/return shape of a function,
// compared structurally by Guid when the linker checks for a name clash
// with a mismatched prototype.
type FunctionPrototypeSignature struct {
	ArgTypes   []TypeId
	ReturnType TypeId
}

// FunctionPrototype names a function and its signature.
type FunctionPrototype struct {
	Name      string
	Signature FunctionPrototypeSignature
}

// Equal reports whether two prototypes have the same name and
// structurally identical signature.
func (p FunctionPrototype) Equal(o FunctionPrototype) bool {
	if p.Name != o.Name {
		return false
	}
	if len(p.Signature.ArgTypes) != len(o.Signature.ArgTypes) {
		return false
	}
	for i := range p.Signature.ArgTypes {
		if !p.Signature.ArgTypes[i].Equal(o.Signature.ArgTypes[i]) {
			return false
		}
	}
	return p.Signature.ReturnType.Equal(o.Signature.ReturnType)
}

// FunctionDef pairs a prototype with the actual callable Go function, as
// obtained by the assembly via reflect.ValueOf(fn). Fn's Kind must be
// reflect.Func.
type FunctionDef struct {
	Prototype FunctionPrototype
	Fn        reflect.Value
}

// ModuleInfo lists everything one assembly module defines.
type ModuleInfo struct {
	Path      string
	Functions []FunctionDef
	Types     []TypeDef
}

// DispatchTableInfo is the assembly's writeable dispatch LUT: every
// external function this module calls, with a slot the linker patches.
type DispatchTableInfo struct {
	Slots []*DispatchSlot
}

// TypeLutInfo is the assembly's writeable type LUT: every concrete type
// this module references, with a slot the linker patches to point at the
// live type descriptor.
type TypeLutInfo struct {
	Slots []*TypeSlot
}

// AssemblyInfo is the metadata blob returned by an assembly's exported
// get_info symbol.
type AssemblyInfo struct {
	Module        ModuleInfo
	DispatchTable DispatchTableInfo
	TypeLut       TypeLutInfo
	Dependencies  []string
}
