package muntime

// Update drains any pending file-change events from the watcher (if one
// is enabled) and, when anything changed, reruns Load for the full
// current assembly set. It reports whether a reload actually happened.
//
// Per spec.md §5, a single-entry reentrancy guard rejects a call to
// Update made from within another Update already in flight — this only
// matters for a call arriving from a user function invoked through
// Invoke, since neither Load nor loadLocked ever calls back into user
// code, and Invoke itself never holds f.mu while the function runs (see
// invoke.go), so such a reentrant call is free to acquire f.mu without
// deadlocking on its own outer frame.
func (f *Facade) Update() (bool, error) {
	f.mu.Lock()
	if f.updating {
		f.mu.Unlock()
		return false, errReentrantUpdate
	}
	f.updating = true
	defer func() {
		f.mu.Lock()
		f.updating = false
		f.mu.Unlock()
	}()

	if f.watcher == nil {
		f.mu.Unlock()
		return false, nil
	}
	changed := f.watcher.drain()
	if len(changed) == 0 {
		f.mu.Unlock()
		return false, nil
	}

	paths := f.allPathsLocked()
	err := f.loadLocked(paths)
	f.mu.Unlock()
	if err != nil {
		return false, err
	}
	return true, nil
}

// allPathsLocked returns every currently-loaded assembly's path. Caller
// holds f.mu.
func (f *Facade) allPathsLocked() []string {
	paths := make([]string, 0, len(f.assemblies))
	for p := range f.assemblies {
		paths = append(paths, p)
	}
	return paths
}
