// Package muntime is the runtime's host-facing façade: the single entry
// point a host process uses to load assemblies, invoke their functions,
// look up types, and drive reloads. Internally it owns the heap, type
// registry, live type/dispatch tables, and (optionally) a filesystem
// watcher, and serializes every mutating operation behind one mutex —
// spec.md §5 describes the runtime as single-threaded with respect to
// the façade, with only the heap's allocation path and root-count updates
// needing their own fine-grained locking (see package gc).
package muntime

import (
	"sync"

	"github.com/mun-lang/mun/abi"
	"github.com/mun-lang/mun/assembly"
	"github.com/mun-lang/mun/dispatch"
	"github.com/mun-lang/mun/gc"
	"github.com/mun-lang/mun/internal/errs"
	"github.com/mun-lang/mun/internal/logx"
	"github.com/mun-lang/mun/linker"
	"github.com/mun-lang/mun/types"
)

// Facade is a live runtime instance: one heap, one registry, and the
// currently-live type/dispatch tables and assembly set.
type Facade struct {
	mu sync.Mutex

	opts     Options
	log      *logx.Helper
	heap     *gc.Heap
	registry *types.Registry

	liveTypes    *types.Table
	liveDispatch *dispatch.Table
	assemblies   map[string]*assembly.Assembly

	watcher *watcher

	updating bool // reentrancy guard for Update, per spec.md §5
}

// New constructs a Facade with builtin primitive types registered and no
// assemblies loaded yet.
func New(options ...Option) *Facade {
	opts := defaultOptions()
	for _, o := range options {
		o(&opts)
	}

	registry := types.NewRegistry()
	liveTypes := types.NewTable()
	types.RegisterBuiltins(registry, liveTypes)

	f := &Facade{
		opts:         opts,
		log:          opts.logger,
		heap:         gc.NewHeap(),
		registry:     registry,
		liveTypes:    liveTypes,
		liveDispatch: dispatch.NewTable(),
		assemblies:   make(map[string]*assembly.Assembly),
	}
	if opts.watchEnabled {
		w, err := newWatcher(f.log)
		if err != nil {
			f.log.Warnf("file watcher unavailable, falling back to manual Update: %v", err)
		} else {
			f.watcher = w
		}
	}
	return f
}

// Load brings paths into the runtime: loading each assembly, linking them
// against the currently-live tables, remapping the heap, and — only once
// every step above has succeeded — swapping the new tables in as live.
// A failure at any step leaves the previously-live state completely
// untouched, per the linker's clone-and-swap discipline.
func (f *Facade) Load(paths ...string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.loadLocked(paths)
}

func (f *Facade) loadLocked(paths []string) error {
	result, loaded, err := linker.RelinkAllExpectingVersion(paths, f.heap, f.liveTypes, f.liveDispatch, f.registry, f.opts.version)
	if err != nil {
		return err
	}
	f.commitLocked(result, loaded)
	return nil
}

// LoadAssemblies links already-constructed assemblies (typically built
// via assembly.FromInfo) directly, bypassing the platform path loader.
// Tests and embedders that resolve assemblies through a mechanism other
// than a filesystem path use this instead of Load.
func (f *Facade) LoadAssemblies(assemblies ...*assembly.Assembly) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	result, err := linker.RelinkAssemblies(assemblies, f.heap, f.liveTypes, f.liveDispatch, f.registry)
	if err != nil {
		return err
	}
	f.commitLocked(result, assemblies)
	return nil
}

// commitLocked installs result as the new live state and records every
// newly loaded assembly. Caller holds f.mu.
func (f *Facade) commitLocked(result linker.LinkResult, loaded []*assembly.Assembly) {
	f.liveTypes = result.Types
	f.liveDispatch = result.Dispatch
	for _, a := range loaded {
		f.assemblies[a.Path] = a
		if f.watcher != nil {
			if err := f.watcher.add(a.Path); err != nil {
				f.log.Warnf("could not watch %q for changes: %v", a.Path, err)
			}
		}
	}
	f.log.Infof("loaded %d assembl(y/ies), %d live types, %d live functions", len(loaded), f.liveTypes.Len(), f.liveDispatch.Len())
}

// GetTypeByName looks up a live type descriptor by its declared name.
func (f *Facade) GetTypeByName(name string) (*types.Descriptor, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.liveTypes.ByName(name)
}

// GetTypeByID looks up a live type descriptor by its content-derived
// Guid.
func (f *Facade) GetTypeByID(id abi.Guid) (*types.Descriptor, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.liveTypes.ByGuid(id)
}

// Heap exposes the runtime's GC heap, for hosts that allocate or root
// objects directly (e.g. to pass a struct argument into Invoke).
func (f *Facade) Heap() *gc.Heap { return f.heap }

// Stats returns a snapshot of heap bookkeeping, as reported by the
// munhost load command.
func (f *Facade) Stats() gc.Stats { return f.heap.Stats() }

// Collect runs one GC cycle and returns the number of objects reclaimed.
func (f *Facade) Collect() int { return f.heap.Collect() }

// Close releases every loaded assembly and stops the file watcher, if
// any.
func (f *Facade) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.watcher != nil {
		f.watcher.close()
	}
	for _, a := range f.assemblies {
		if err := a.Close(); err != nil {
			return err
		}
	}
	return nil
}

var errReentrantUpdate = errs.New(errs.InvalidArgument, "Update called re-entrantly from within another Update")
