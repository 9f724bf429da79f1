// Package linker implements the runtime's load/link/relink transaction:
// turning a set of loaded assemblies into a new type table and dispatch
// table, patching each assembly's writeable LUT slots, and computing the
// GC struct diffs package mapper needs — all under the clone-and-swap
// discipline spec.md §4.3/§7 requires: a failed link leaves the
// currently-live tables completely untouched.
package linker

import (
	"github.com/mun-lang/mun/abi"
	"github.com/mun-lang/mun/assembly"
	"github.com/mun-lang/mun/diff"
	"github.com/mun-lang/mun/dispatch"
	"github.com/mun-lang/mun/gc"
	"github.com/mun-lang/mun/types"
)

// LinkResult is the product of a successful link transaction: the new
// live type table and dispatch table, plus the GC struct diffs that must
// be applied (by package mapper, through Heap) before these tables
// become visible to any other caller.
type LinkResult struct {
	Types    *types.Table
	Dispatch *dispatch.Table
	GCDiffs  []diff.StructOp
}

// LoadSet loads every assembly at paths (in the platform Load function
// of package assembly), then orders them by declared dependency so that
// a later Link pass can resolve symbols regardless of the order paths
// were given in. Cyclic dependencies fail fast with CyclicDependency
// before any linking is attempted.
func LoadSet(paths []string, heap *gc.Heap) ([]*assembly.Assembly, error) {
	return LoadSetExpectingVersion(paths, heap, abi.CurrentVersion)
}

// LoadSetExpectingVersion is LoadSet with the expected ABI version
// overridden, threaded through from muntime.WithVersion.
func LoadSetExpectingVersion(paths []string, heap *gc.Heap, wantVersion uint32) ([]*assembly.Assembly, error) {
	loaded := make([]*assembly.Assembly, 0, len(paths))
	for _, p := range paths {
		a, err := assembly.LoadExpectingVersion(p, heap, wantVersion)
		if err != nil {
			return nil, err
		}
		loaded = append(loaded, a)
	}
	return orderByDependency(loaded)
}

// orderByDependency runs topoOrder over loaded and converts the result
// back to concrete *assembly.Assembly values.
func orderByDependency(loaded []*assembly.Assembly) ([]*assembly.Assembly, error) {
	sources := make([]assemblySource, len(loaded))
	byPath := make(map[string]*assembly.Assembly, len(loaded))
	for i, a := range loaded {
		sources[i] = a
		byPath[a.SourcePath()] = a
	}
	ordered, err := topoOrder(sources)
	if err != nil {
		return nil, err
	}
	out := make([]*assembly.Assembly, len(ordered))
	for i, s := range ordered {
		out[i] = byPath[s.SourcePath()]
	}
	return out, nil
}

// LinkAll runs the full link transaction described in spec.md §4.3/§4.4
// against assemblies (already ordered by LoadSet), layering their type
// definitions and function definitions onto the currently-live
// curTypes/curDispatch. It never mutates curTypes or curDispatch: on any
// error it returns the zero LinkResult, both tables are untouched, and
// the caller's live state is exactly as it was before the call.
//
// On success, every assembly's DispatchTable and TypeLut slots are
// patched to point into the new tables, and GCDiffs lists every GC-kind
// struct whose field list changed, ready for package mapper to apply to
// the heap before the new tables are swapped in as live.
func LinkAll(assemblies []*assembly.Assembly, curTypes *types.Table, curDispatch *dispatch.Table, registry *types.Registry) (LinkResult, error) {
	newTypes := curTypes
	for _, a := range assemblies {
		next, _, err := registry.TryFromABI(a.Info.Module.Types, newTypes)
		if err != nil {
			return LinkResult{}, err
		}
		newTypes = next
	}

	newDispatch := curDispatch.Clone()
	for _, a := range assemblies {
		for _, fd := range a.Info.Module.Functions {
			def := &dispatch.FunctionDefinition{Prototype: fd.Prototype, Fn: fd}
			if err := newDispatch.Insert(def); err != nil {
				return LinkResult{}, err
			}
		}
	}

	for _, a := range assemblies {
		if err := patchTypeLut(a.Info.TypeLut.Slots, newTypes, registry); err != nil {
			return LinkResult{}, err
		}
		if err := dispatch.ResolveSlots(newDispatch, a.Info.DispatchTable.Slots); err != nil {
			return LinkResult{}, err
		}
	}

	gcDiffs := computeGCDiffs(curTypes, newTypes)

	return LinkResult{Types: newTypes, Dispatch: newDispatch, GCDiffs: gcDiffs}, nil
}

// patchTypeLut resolves each assembly's writeable type-LUT slot against
// table, by concrete Guid (pointer/array TypeIds are resolved the same
// way types.TryFromABI resolves field types). Unlike dispatch slots,
// type slots never need a fixpoint retry here: by the time LinkAll calls
// this, every type defined by any assembly in this link transaction is
// already present in table.
func patchTypeLut(slots []*abi.TypeSlot, table *types.Table, registry *types.Registry) error {
	for _, s := range slots {
		d, ok := resolveSlotType(s.Id, table, registry)
		if !ok {
			return errUnresolvedTypeSlot(s)
		}
		s.Set(d)
	}
	return nil
}

func resolveSlotType(id abi.TypeId, table *types.Table, registry *types.Registry) (*types.Descriptor, bool) {
	switch id.Kind {
	case abi.TypeIdConcrete:
		return table.ByGuid(id.Concr)
	case abi.TypeIdPointer, abi.TypeIdArray:
		// Pointer/array type-LUT slots reference a TypeId shape rather
		// than a single concrete Guid; the concrete base must already be
		// registered, and package types' own pointer/array caches (keyed
		// off the base descriptor) hand back the right wrapper.
		if id.Kind == abi.TypeIdPointer {
			base, ok := resolveSlotType(*id.Pointee, table, registry)
			if !ok {
				return nil, false
			}
			return registry.PointerType(base, id.Mutable), true
		}
		elem, ok := resolveSlotType(*id.Element, table, registry)
		if !ok {
			return nil, false
		}
		return registry.ArrayType(elem), true
	default:
		return nil, false
	}
}

// computeGCDiffs compares every GC-kind struct descriptor present in
// curTypes against newTypes, by name, and returns the field diffs needed
// to remap live heap objects. Only struct descriptors participate;
// primitive/pointer/array descriptors never need remapping.
func computeGCDiffs(curTypes, newTypes *types.Table) []diff.StructOp {
	var oldStructs, newStructs []*types.Descriptor
	if curTypes != nil {
		for _, d := range curTypes.All() {
			if d.IsGC() {
				oldStructs = append(oldStructs, d)
			}
		}
	}
	for _, d := range newTypes.All() {
		if d.IsGC() {
			newStructs = append(newStructs, d)
		}
	}
	return diff.ComputeStructDiff(oldStructs, newStructs)
}
