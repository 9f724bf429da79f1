package types

import (
	"sync"

	"github.com/mun-lang/mun/abi"
)

// Registry is a thread-safe store of TypeDescriptors. It backs every
// Table: a Table is a cheap, cloneable view (GUID/name -> pointer) over
// descriptors that all live here. There is no process-wide instance:
// each Facade creates its own with NewRegistry, so descriptors are not
// shared between runtimes.
//
// Reclamation policy: because struct types may be cyclic (struct A has
// field *B, struct B has field *A), pure reference counting cannot
// reclaim cycles. Rather than add a cycle collector, the registry simply
// never frees a registered descriptor. Memory impact is bounded by the
// set of distinct types the host ever loads over the process lifetime,
// which in practice is small and slow-growing.
type Registry struct {
	mu   sync.Mutex
	byGuid map[abi.Guid]*Descriptor
}

// NewRegistry returns an empty registry seeded with nothing; callers
// typically call Primitive for each builtin type they need before
// constructing any Table.
func NewRegistry() *Registry {
	return &Registry{byGuid: make(map[abi.Guid]*Descriptor)}
}

// lookupLocked returns the already-registered descriptor for guid, if
// any. Caller holds r.mu.
func (r *Registry) lookupLocked(guid abi.Guid) (*Descriptor, bool) {
	d, ok := r.byGuid[guid]
	return d, ok
}

// Primitive returns the (possibly newly allocated) descriptor for a
// primitive type named name with the given layout. Primitive descriptors
// have no dependencies, so allocation is a single pass.
func (r *Registry) Primitive(name string, layout Layout) *Descriptor {
	guid := abi.NewPrimitiveGuid(name)
	r.mu.Lock()
	defer r.mu.Unlock()
	if d, ok := r.lookupLocked(guid); ok {
		return d
	}
	d := &Descriptor{Name: name, Layout: layout, Kind: KindPrimitive, Guid: guid}
	r.byGuid[guid] = d
	return d
}

// allocateUninitStruct reserves a descriptor for a struct def before its
// fields are known, so mutually recursive struct graphs can reference it
// from the working table during a two-pass construction. Fields is left
// nil until TryFromABI's field-resolution loop patches it.
func (r *Registry) allocateUninitStruct(def abi.TypeDef) *Descriptor {
	r.mu.Lock()
	defer r.mu.Unlock()
	if d, ok := r.lookupLocked(def.Guid); ok {
		return d
	}
	d := &Descriptor{
		Name:       def.Name,
		Layout:     Layout{Size: def.SizeBits / 8, Align: def.Alignment},
		Kind:       KindStruct,
		Guid:       def.Guid,
		MemoryKind: def.MemoryKind,
	}
	r.byGuid[def.Guid] = d
	return d
}

// allocateStructGeneration always allocates a brand-new descriptor for
// def, even when one with the same Guid is already registered. GC-kind
// struct Guids are name-derived only (abi.NewStructGuid), so they stay
// identical across a relink that adds, removes, or retypes fields —
// exactly the case a reload needs to detect, not dedupe away. The
// registry's own byGuid map is updated to the newest generation; any
// Table that already cloned a prior generation keeps its own reference
// to that old *Descriptor untouched, which is what lets the linker diff
// "old Foo" against "new Foo" instead of silently losing the distinction.
func (r *Registry) allocateStructGeneration(def abi.TypeDef) *Descriptor {
	r.mu.Lock()
	defer r.mu.Unlock()
	d := &Descriptor{
		Name:       def.Name,
		Layout:     Layout{Size: def.SizeBits / 8, Align: def.Alignment},
		Kind:       KindStruct,
		Guid:       def.Guid,
		MemoryKind: def.MemoryKind,
	}
	r.byGuid[def.Guid] = d
	return d
}

// PointerType returns the cached descriptor for *[mut|const] base,
// creating it if absent. The fast path takes base's pointer-cache read
// lock; the slow path upgrades to a write lock and double-checks, since
// two goroutines can race to create the same pointer type.
func (r *Registry) PointerType(base *Descriptor, mutable bool) *Descriptor {
	base.ptrMu.RLock()
	if mutable && base.ptrMutTo != nil {
		d := base.ptrMutTo
		base.ptrMu.RUnlock()
		return d
	}
	if !mutable && base.ptrConstTo != nil {
		d := base.ptrConstTo
		base.ptrMu.RUnlock()
		return d
	}
	base.ptrMu.RUnlock()

	base.ptrMu.Lock()
	defer base.ptrMu.Unlock()
	if mutable {
		if base.ptrMutTo == nil {
			base.ptrMutTo = &Descriptor{
				Name:    pointerName(base.Name, mutable),
				Layout:  Layout{Size: 8, Align: 8},
				Kind:    KindPointer,
				Pointee: base,
				Mutable: true,
			}
		}
		return base.ptrMutTo
	}
	if base.ptrConstTo == nil {
		base.ptrConstTo = &Descriptor{
			Name:    pointerName(base.Name, mutable),
			Layout:  Layout{Size: 8, Align: 8},
			Kind:    KindPointer,
			Pointee: base,
			Mutable: false,
		}
	}
	return base.ptrConstTo
}

func pointerName(base string, mutable bool) string {
	if mutable {
		return "*mut " + base
	}
	return "*const " + base
}

// ArrayType returns the cached descriptor for an array of elem, creating
// it if absent. Array support is partial (§9 open question): element
// layout is fixed at construction and a remap that changes the element
// type is always a full reallocation with zero-initialized elements (see
// package mapper), never a field-level remap.
func (r *Registry) ArrayType(elem *Descriptor) *Descriptor {
	elem.arrMu.RLock()
	if elem.arrTo != nil {
		d := elem.arrTo
		elem.arrMu.RUnlock()
		return d
	}
	elem.arrMu.RUnlock()

	elem.arrMu.Lock()
	defer elem.arrMu.Unlock()
	if elem.arrTo == nil {
		elem.arrTo = &Descriptor{
			Name:    "[]" + elem.Name,
			Layout:  Layout{Size: 24, Align: 8}, // slice header: ptr+len+cap
			Kind:    KindArray,
			Element: elem,
		}
	}
	return elem.arrTo
}
