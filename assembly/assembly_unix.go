//go:build unix

package assembly

import (
	"plugin"
	"reflect"

	"github.com/mun-lang/mun/abi"
	"github.com/mun-lang/mun/gc"
	"github.com/mun-lang/mun/internal/errs"
)

// pluginCloser adapts a *plugin.Plugin to Assembly's closer field. The
// standard library's plugin package has no Close/unload operation — once
// opened, a plugin's code and data stay mapped for the process lifetime
// — so this exists only to keep Assembly.Close uniform across platforms.
type pluginCloser struct{ p *plugin.Plugin }

func (pluginCloser) Close() error { return nil }

// Load opens path as a Go plugin and resolves the three symbols every
// assembly must export: GetVersion, SetAllocatorHandle, and GetInfo (see
// abi.SymbolGetVersion and friends), checking the declared version
// against abi.CurrentVersion. Use LoadExpectingVersion to check against
// a different expected version (tests, and hosts that pin an older ABI).
func Load(path string, heap *gc.Heap) (*Assembly, error) {
	return LoadExpectingVersion(path, heap, abi.CurrentVersion)
}

// LoadExpectingVersion is Load with the expected ABI version overridden.
// It fails fast with VersionMismatch before touching anything else if
// the assembly's declared version disagrees with wantVersion.
func LoadExpectingVersion(path string, heap *gc.Heap, wantVersion uint32) (*Assembly, error) {
	p, err := plugin.Open(path)
	if err != nil {
		return nil, errs.Wrap(errs.IoError, err, "opening assembly %q", path)
	}

	getVersion, err := lookupVersionFunc(p, path)
	if err != nil {
		return nil, err
	}
	if v := getVersion(); v != wantVersion {
		return nil, errs.New(errs.VersionMismatch,
			"assembly %q declares ABI version %d, runtime expects %d", path, v, wantVersion)
	}

	if err := callSetAllocatorHandle(p, path, heap); err != nil {
		return nil, err
	}

	info, err := lookupInfo(p, path)
	if err != nil {
		return nil, err
	}

	a := FromInfo(path, info)
	a.closer = pluginCloser{p}
	return a, nil
}

func lookupVersionFunc(p *plugin.Plugin, path string) (func() uint32, error) {
	sym, err := p.Lookup(abi.SymbolGetVersion)
	if err != nil {
		return nil, errs.Wrap(errs.IoError, err, "assembly %q missing %s", path, abi.SymbolGetVersion)
	}
	fn, ok := sym.(func() uint32)
	if !ok {
		return nil, errs.New(errs.IoError, "assembly %q: %s has an unexpected signature", path, abi.SymbolGetVersion)
	}
	return fn, nil
}

func callSetAllocatorHandle(p *plugin.Plugin, path string, heap *gc.Heap) error {
	sym, err := p.Lookup(abi.SymbolSetAllocatorHandle)
	if err != nil {
		return errs.Wrap(errs.IoError, err, "assembly %q missing %s", path, abi.SymbolSetAllocatorHandle)
	}
	fn := reflect.ValueOf(sym)
	if fn.Kind() != reflect.Func || fn.Type().NumIn() != 1 {
		return errs.New(errs.IoError, "assembly %q: %s has an unexpected signature", path, abi.SymbolSetAllocatorHandle)
	}
	fn.Call([]reflect.Value{reflect.ValueOf(heap)})
	return nil
}

func lookupInfo(p *plugin.Plugin, path string) (*abi.AssemblyInfo, error) {
	sym, err := p.Lookup(abi.SymbolGetInfo)
	if err != nil {
		return nil, errs.Wrap(errs.IoError, err, "assembly %q missing %s", path, abi.SymbolGetInfo)
	}
	fn, ok := sym.(func() *abi.AssemblyInfo)
	if !ok {
		return nil, errs.New(errs.IoError, "assembly %q: %s has an unexpected signature", path, abi.SymbolGetInfo)
	}
	return fn(), nil
}
