package muntime

import (
	"github.com/fsnotify/fsnotify"

	"github.com/mun-lang/mun/internal/logx"
)

// watcher wraps an fsnotify.Watcher, draining write/create/rename events for
// every assembly path the façade has loaded and collapsing them into a
// set of changed paths for Update to act on. spec.md §4.8 describes
// update() as host-driven polling of exactly this kind of signal.
type watcher struct {
	fsw *fsnotify.Watcher
	log *logx.Helper

	changed map[string]struct{}
}

func newWatcher(log *logx.Helper) (*watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &watcher{fsw: fsw, log: log, changed: make(map[string]struct{})}, nil
}

func (w *watcher) add(path string) error {
	return w.fsw.Add(path)
}

func (w *watcher) close() {
	w.fsw.Close()
}

// drain collects every path with a pending write/create/rename event
// since the last drain, without blocking.
func (w *watcher) drain() []string {
	for {
		select {
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return w.flush()
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
				w.changed[ev.Name] = struct{}{}
			}
		case err, ok := <-w.fsw.Errors:
			if ok && err != nil {
				w.log.Warnf("file watcher error: %v", err)
			}
		default:
			return w.flush()
		}
	}
}

func (w *watcher) flush() []string {
	if len(w.changed) == 0 {
		return nil
	}
	out := make([]string, 0, len(w.changed))
	for p := range w.changed {
		out = append(out, p)
	}
	w.changed = make(map[string]struct{})
	return out
}
