package types

import (
	"github.com/mun-lang/mun/abi"
	"github.com/mun-lang/mun/internal/errs"
)

// resolveTypeId resolves an abi.TypeId against working, constructing
// pointer/array wrapper descriptors as needed via r. It returns false if
// a concrete dependency has not been registered yet (the caller should
// defer and retry on a later pass).
func resolveTypeId(r *Registry, working *Table, id abi.TypeId) (*Descriptor, bool) {
	switch id.Kind {
	case abi.TypeIdConcrete:
		d, ok := working.ByGuid(id.Concr)
		return d, ok
	case abi.TypeIdPointer:
		pointee, ok := resolveTypeId(r, working, *id.Pointee)
		if !ok {
			return nil, false
		}
		return r.PointerType(pointee, id.Mutable), true
	case abi.TypeIdArray:
		elem, ok := resolveTypeId(r, working, *id.Element)
		if !ok {
			return nil, false
		}
		return r.ArrayType(elem), true
	default:
		return nil, false
	}
}

// TryFromABI allocates an uninitialized descriptor for every value-kind
// struct definition in defs not already present in current and for every
// GC-kind struct definition (present or not), then resolves every
// struct's fields against the augmented table in a fixpoint loop: each
// pass must resolve at least one previously-unresolved struct, or
// construction fails with UnresolvedType. The two-pass shape (allocate
// everything first, resolve fields second, retried to a fixpoint) is
// what lets mutually recursive and cyclic struct definitions — A holding
// a *B field while B holds a *A field — resolve at all.
//
// current is never mutated; on success the returned table is a new
// clone layered on top of it, and the returned descriptor slice lists
// every descriptor newly allocated by this call (for the caller to patch
// assembly type-LUT slots with). On failure both return values are nil
// and current is untouched, preserving the linker's clone-and-swap
// discipline.
func (r *Registry) TryFromABI(defs []abi.TypeDef, current *Table) (*Table, []*Descriptor, error) {
	working := current.Clone()

	type pending struct {
		def *abi.TypeDef
		d   *Descriptor
	}
	var unresolved []pending
	var allocated []*Descriptor

	for i := range defs {
		def := &defs[i]
		if !def.IsStruct {
			// Primitive def: register if missing, nothing to resolve.
			d := r.Primitive(def.Name, Layout{Size: def.SizeBits / 8, Align: def.Alignment})
			working.Insert(d)
			continue
		}
		if def.MemoryKind != abi.MemoryKindGC {
			// Value-kind struct Guids are content-derived (every field's
			// name and type folded in), so an existing match really is
			// the same definition; reuse it.
			if _, ok := working.ByGuid(def.Guid); ok {
				continue
			}
			d := r.allocateUninitStruct(*def)
			working.Insert(d)
			allocated = append(allocated, d)
			unresolved = append(unresolved, pending{def: def, d: d})
			continue
		}
		// GC-kind struct Guids are name-only and so cannot distinguish
		// "unchanged" from "redefined with different fields" on their
		// own; always allocate a fresh descriptor and let the field
		// resolution below (and the linker's struct diff) discover
		// whether anything actually changed.
		d := r.allocateStructGeneration(*def)
		working.Insert(d)
		allocated = append(allocated, d)
		unresolved = append(unresolved, pending{def: def, d: d})
	}

	for len(unresolved) > 0 {
		progressed := false
		remaining := unresolved[:0]
		for _, p := range unresolved {
			fields := make([]Field, len(p.def.Fields))
			ok := true
			for i, fi := range p.def.Fields {
				ft, resolvedOK := resolveTypeId(r, working, fi.Type)
				if !resolvedOK {
					ok = false
					break
				}
				fields[i] = Field{Name: fi.Name, Type: ft, Offset: fi.Offset}
			}
			if !ok {
				remaining = append(remaining, p)
				continue
			}
			p.d.Fields = fields
			progressed = true
		}
		unresolved = remaining
		if !progressed && len(unresolved) > 0 {
			names := make([]string, 0, len(unresolved))
			for _, p := range unresolved {
				names = append(names, p.def.Name)
			}
			return nil, nil, errs.New(errs.UnresolvedType, "unresolved type dependency among: %v", names)
		}
	}

	return working, allocated, nil
}
