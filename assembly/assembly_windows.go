//go:build windows

package assembly

import (
	"github.com/mun-lang/mun/gc"
	"github.com/mun-lang/mun/internal/errs"
)

// Load is unavailable on windows: the standard library's plugin package
// only implements plugin.Open on linux, darwin, and freebsd. Assemblies
// on windows must be brought into the runtime through FromInfo instead,
// which accepts an already-resolved AssemblyInfo from any host-specific
// loading mechanism a caller wires up.
func Load(path string, heap *gc.Heap) (*Assembly, error) {
	return nil, errs.New(errs.IoError,
		"dynamic assembly loading is unsupported on windows; use assembly.FromInfo with a host-provided AssemblyInfo")
}

// LoadExpectingVersion mirrors Load's windows stub.
func LoadExpectingVersion(path string, heap *gc.Heap, wantVersion uint32) (*Assembly, error) {
	return Load(path, heap)
}
