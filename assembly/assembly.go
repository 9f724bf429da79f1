// Package assembly represents one loaded shared library unit: it owns
// the library handle, the ABI metadata the library exported, and (while
// loaded) the runtime's allocator handle wiring. Cross-platform dynamic
// loading is implemented in assembly_unix.go / assembly_windows.go; this
// file holds the platform-independent parts.
package assembly

import "github.com/mun-lang/mun/abi"

// Assembly is one loaded library, live once Load or FromInfo has
// returned successfully. It stays alive until a relink replaces it and
// the last GC object typed by one of its deleted types has been remapped
// or collected (see package linker).
type Assembly struct {
	Path string
	Info *abi.AssemblyInfo

	// closer, when non-nil, releases platform loader resources (the
	// plugin handle). nil for assemblies constructed via FromInfo, which
	// is how tests and the linker's in-process fixtures stand up an
	// assembly without a real shared library.
	closer interface{ Close() error }
}

// FromInfo constructs an Assembly directly from an already-obtained
// AssemblyInfo, skipping the platform loader. Real Load implementations
// call this once they've resolved GetInfo(); tests and any in-process
// assembly use it directly.
func FromInfo(path string, info *abi.AssemblyInfo) *Assembly {
	return &Assembly{Path: path, Info: info}
}

// Dependencies returns the paths of assemblies this one declares a
// dependency on.
func (a *Assembly) Dependencies() []string {
	if a.Info == nil {
		return nil
	}
	return a.Info.Dependencies
}

// SourcePath and SourceDependencies satisfy package linker's
// assemblySource interface (named distinctly from the Path field and
// Dependencies method above, which a method named Path could not
// coexist with).
func (a *Assembly) SourcePath() string           { return a.Path }
func (a *Assembly) SourceDependencies() []string { return a.Dependencies() }

// Close releases any platform loader resources. Shared libraries loaded
// via Go's plugin package are never actually unloaded by the Go runtime
// (plugin.Open has no corresponding Close in the standard library); Close
// exists so Assembly satisfies a uniform lifecycle regardless of
// platform, and so a future loader backed by cgo dlclose has a place to
// plug in.
func (a *Assembly) Close() error {
	if a.closer == nil {
		return nil
	}
	return a.closer.Close()
}
