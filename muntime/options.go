package muntime

import (
	"github.com/mun-lang/mun/internal/logx"
)

// Options configures a Facade at construction time, built up with the
// functional-options pattern (mirroring tinyrange-rtg's server
// configuration surface, generalized here instead of a single global
// config struct since a host process may run more than one runtime).
type Options struct {
	logger       *logx.Helper
	watchEnabled bool
	version      uint32
}

// Option mutates an Options being built.
type Option func(*Options)

func defaultOptions() Options {
	return Options{
		logger:  logx.Default(),
		version: 1,
	}
}

// WithLogger overrides the runtime's logger. Defaults to logx.Default().
func WithLogger(l *logx.Helper) Option {
	return func(o *Options) { o.logger = l }
}

// WithWatcher enables the fsnotify-backed file watcher that lets Update
// detect on-disk assembly changes without the host polling manually.
func WithWatcher() Option {
	return func(o *Options) { o.watchEnabled = true }
}

// WithVersion overrides the ABI version the runtime expects loaded
// assemblies to declare. Defaults to abi.CurrentVersion; exposed mainly
// for tests that want to exercise VersionMismatch.
func WithVersion(v uint32) Option {
	return func(o *Options) { o.version = v }
}
