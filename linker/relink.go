package linker

import (
	"github.com/mun-lang/mun/abi"
	"github.com/mun-lang/mun/assembly"
	"github.com/mun-lang/mun/dispatch"
	"github.com/mun-lang/mun/gc"
	"github.com/mun-lang/mun/mapper"
	"github.com/mun-lang/mun/types"
)

// RelinkAll runs a complete reload: load every assembly at paths, link
// them against the currently-live tables, and apply every resulting GC
// struct remap to heap. It returns the new tables for the caller (the
// muntime facade) to swap in as live under its own lock — this package
// never holds the facade's lock and never mutates curTypes/curDispatch,
// keeping the whole operation atomic from an outside observer's point of
// view: either RelinkAll fails and nothing changed, or it succeeds and
// the caller installs a fully-formed, already-remapped new state in one
// assignment.
//
// Per spec.md §7, the heap remap always happens before the new tables
// become visible: a GC object is never observed typed by a descriptor
// the table swap hasn't caught up to yet.
func RelinkAll(paths []string, heap *gc.Heap, curTypes *types.Table, curDispatch *dispatch.Table, registry *types.Registry) (LinkResult, []*assembly.Assembly, error) {
	return RelinkAllExpectingVersion(paths, heap, curTypes, curDispatch, registry, abi.CurrentVersion)
}

// RelinkAllExpectingVersion is RelinkAll with the expected ABI version
// overridden.
func RelinkAllExpectingVersion(paths []string, heap *gc.Heap, curTypes *types.Table, curDispatch *dispatch.Table, registry *types.Registry, wantVersion uint32) (LinkResult, []*assembly.Assembly, error) {
	assemblies, err := LoadSetExpectingVersion(paths, heap, wantVersion)
	if err != nil {
		return LinkResult{}, nil, err
	}
	result, err := RelinkAssemblies(assemblies, heap, curTypes, curDispatch, registry)
	if err != nil {
		return LinkResult{}, nil, err
	}
	return result, assemblies, nil
}

// RelinkAssemblies is RelinkAll's core, taking already-loaded (and,
// ideally, already dependency-ordered — see LoadSet) assemblies directly
// rather than paths. Exposed separately so callers that construct
// assemblies in-process (tests, and any embedder that resolves
// assemblies through a mechanism other than a filesystem path) can drive
// the same link-then-remap transaction without going through a platform
// loader.
func RelinkAssemblies(assemblies []*assembly.Assembly, heap *gc.Heap, curTypes *types.Table, curDispatch *dispatch.Table, registry *types.Registry) (LinkResult, error) {
	result, err := LinkAll(assemblies, curTypes, curDispatch, registry)
	if err != nil {
		return LinkResult{}, err
	}
	mapper.RemapAll(heap, result.GCDiffs)
	return result, nil
}
