package profile

// Stopper stops a running profiler and flushes its output.
type Stopper interface{ Stop() }

// Settings describes one profiling session.
type Settings struct {
	Mode  string
	Path  string
	Quiet bool
}

// Option applies a configuration option to Settings.
type Option func(Settings) Settings

// apply applies multiple options to a Settings.
func apply(s Settings, opts ...Option) Settings {
	for _, opt := range opts {
		s = opt(s)
	}

	return s
}

// Start starts a profiler configured by opts and returns it.
//
// If build tag pprof is unset, or the mode is empty or unknown, Start returns
// a no-op implementation. Both Start and Stop are always safely callable.
func Start(opts ...Option) Stopper {
	s := apply(Settings{}, opts...)

	if s.Mode == "" {
		return ignore{}
	}

	return start(s)
}

// WithMode returns a functional option for setting a profiler's mode.
func WithMode(mode string) Option {
	return func(s Settings) Settings {
		s.Mode = mode

		return s
	}
}

// WithPath returns a functional option for setting a profiler's output path.
func WithPath(path string) Option {
	return func(s Settings) Settings {
		s.Path = path

		return s
	}
}

// WithQuiet returns a functional option for suppressing the profiler's own
// log output.
func WithQuiet(quiet bool) Option {
	return func(s Settings) Settings {
		s.Quiet = quiet

		return s
	}
}

type ignore struct{}

func (ignore) Stop() {}
