package profile

// Tag is the build tag required to enable profiling.
const Tag = `pprof`

// Stopper ends a profiling session and flushes its output.
type Stopper interface{ Stop() }

// Profiler describes a profiling session.
type Profiler struct {
	Mode  string // one of [Modes]; empty disables profiling
	Dir   string // output directory; empty uses a temporary directory
	Quiet bool   // suppress the profiler's own log output
}

// Start begins profiling and returns a Stopper that ends it.
// The result is a no-op when p.Mode is empty or unknown, or when the binary
// was built without [Tag].
func (p Profiler) Start() Stopper {
	if p.Mode == "" {
		return ignore{}
	}

	return start(p)
}

type ignore struct{}

func (ignore) Stop() {}
