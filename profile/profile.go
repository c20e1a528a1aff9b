package profile

// Tag is the build tag that enables profiling.
const Tag = "pprof"

// Stopper ends a profiling session and flushes its output.
type Stopper interface{ Stop() }

// Profiler describes a profiling session. The zero Profiler profiles
// nothing.
type Profiler struct {
	Mode  string
	Dir   string
	Quiet bool
}

// Option modifies a [Profiler].
type Option func(Profiler) Profiler

func WithMode(mode string) Option {
	return func(p Profiler) Profiler {
		p.Mode = mode

		return p
	}
}

// WithDir writes profiles into dir instead of the working directory.
func WithDir(dir string) Option {
	return func(p Profiler) Profiler {
		p.Dir = dir

		return p
	}
}

// WithQuiet suppresses the profiler's own log output.
func WithQuiet(quiet bool) Option {
	return func(p Profiler) Profiler {
		p.Quiet = quiet

		return p
	}
}

// New returns a Profiler configured by opts.
func New(opts ...Option) Profiler {
	var p Profiler
	for _, opt := range opts {
		p = opt(p)
	}

	return p
}

// Start begins profiling. It returns a no-op [Stopper] when Mode is empty,
// names no supported mode, or the binary was built without [Tag].
func (p Profiler) Start() Stopper {
	if p.Mode == "" {
		return ignore{}
	}

	return start(p)
}

type ignore struct{}

func (ignore) Stop() {}
