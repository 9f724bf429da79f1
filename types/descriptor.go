// Package types implements the runtime's type registry and per-runtime
// type table: deduplicated, reference-counted descriptors keyed by
// content-derived Guid, built from ABI metadata via a two-pass,
// deferred-resolution construction that tolerates mutually recursive and
// cyclic struct graphs.
package types

import (
	"sync"
	"sync/atomic"

	"github.com/mun-lang/mun/abi"
)

// Kind discriminates the four shapes a descriptor can take.
type Kind int

const (
	KindPrimitive Kind = iota
	KindStruct
	KindPointer
	KindArray
)

// Layout is the size/alignment of a type's in-memory representation.
type Layout struct {
	Size  uint32
	Align uint8
}

// Field describes one resolved field of a struct descriptor.
type Field struct {
	Name   string
	Type   *Descriptor
	Offset uint32
}

// Descriptor is an immutable (after construction) runtime type
// descriptor. It is never moved once allocated by a Registry — callers
// keep a stable pointer — and is never freed while any other descriptor
// references it or any live GC object is typed by it (enforced by
// externalRefCount plus the registry's own strong references; see
// Registry's doc comment for the reclamation policy).
type Descriptor struct {
	Name   string
	Layout Layout
	Kind   Kind

	// externalRefCount counts Retain calls not yet matched by a Release
	// call on this descriptor. It does not gate
	// reclamation on its own: the registry never reclaims a registered
	// descriptor (see Registry).
	externalRefCount int64

	// KindPrimitive / KindStruct
	Guid       abi.Guid
	Fields     []Field        // KindStruct only
	MemoryKind abi.MemoryKind // KindStruct only

	// KindPointer
	Pointee *Descriptor
	Mutable bool

	// KindArray
	Element *Descriptor

	// pointer-type cache, guarded by its own lock per spec (fast path is
	// a read lock, slow path double-checks after acquiring write).
	ptrMu      sync.RWMutex
	ptrMutTo   *Descriptor
	ptrConstTo *Descriptor

	arrMu   sync.RWMutex
	arrTo   *Descriptor
}

// Retain increments the external reference count. Call from the
// constructor of any host-facing handle that wraps this descriptor.
func (d *Descriptor) Retain() { atomic.AddInt64(&d.externalRefCount, 1) }

// Release decrements the external reference count. Per spec, reclamation
// is conservative: the registry's policy is to never reclaim a
// registered descriptor, so Release never frees d; it only keeps the
// count accurate for diagnostics.
func (d *Descriptor) Release() { atomic.AddInt64(&d.externalRefCount, -1) }

// ExternalRefCount returns the current external reference count.
func (d *Descriptor) ExternalRefCount() int64 { return atomic.LoadInt64(&d.externalRefCount) }

// Equal reports whether d and o describe the same type. Primitive and
// struct descriptors compare by Guid; pointer descriptors compare by
// pointee identity and mutability; array descriptors compare by element
// identity.
func (d *Descriptor) Equal(o *Descriptor) bool {
	if d == o {
		return true
	}
	if d == nil || o == nil || d.Kind != o.Kind {
		return false
	}
	switch d.Kind {
	case KindPrimitive, KindStruct:
		return d.Guid == o.Guid
	case KindPointer:
		return d.Mutable == o.Mutable && d.Pointee.Equal(o.Pointee)
	case KindArray:
		return d.Element.Equal(o.Element)
	default:
		return false
	}
}

// IsGC reports whether d is a GC-memory-kind struct (heap-allocated
// behind an indirect handle, re-mappable across reload).
func (d *Descriptor) IsGC() bool {
	return d.Kind == KindStruct && d.MemoryKind == abi.MemoryKindGC
}

// FieldByName looks up a struct field by name.
func (d *Descriptor) FieldByName(name string) (Field, bool) {
	for _, f := range d.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}
