package gc

import "github.com/mun-lang/mun/types"

// ForEachOfType calls fn, under the heap lock, for every live object
// whose current descriptor is exactly old (compared by pointer
// identity — the linker always passes the precise descriptor being
// replaced, never a structurally-equal lookalike). Used by package
// mapper to find every object that needs remapping after a reload
// changes old's layout.
func (h *Heap) ForEachOfType(old *types.Descriptor, fn func(*Handle)) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for obj := range h.objects {
		if obj.typ == old {
			fn(&Handle{heap: h, obj: obj})
		}
	}
}

// Rewrite replaces h's type, data, and GC-field map in place. The
// object's address (and therefore every other Handle value pointing at
// the same object) is untouched, so the handle-identity invariant holds:
// for every live handle, the outer identity survives the rewrite, while
// the newType/newData/newGCRefs the mapper computed become the "inner"
// content reachable through that same identity.
func (h *Handle) Rewrite(newType *types.Descriptor, newData []byte, newGCRefs map[uint32]*Handle) {
	h.obj.typ = newType
	h.obj.data = newData
	h.obj.gcRefs = newGCRefs
}

// MarkDeletedType flags every live object of descriptor old as typed by
// a definition no longer present in the live type table. They are not
// collected immediately — the runtime keeps old alive until the next GC
// cycle drains them — but can be queried (e.g. by tests asserting the
// "deleted-type" property from spec.md §4.6) via IsDeletedType.
func (h *Heap) MarkDeletedType(old *types.Descriptor) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for obj := range h.objects {
		if obj.typ == old {
			obj.deletedType = true
		}
	}
}

// IsDeletedType reports whether h's object was typed by a definition the
// linker has since removed from the live type table.
func (h *Handle) IsDeletedType() bool { return h.obj.deletedType }
