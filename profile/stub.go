//go:build !pprof

package profile

// Enabled reports whether the binary was built with [Tag].
const Enabled = false

// Modes returns nil: no mode is supported without [Tag].
func Modes() []string { return nil }

func start(Profiler) Stopper { return ignore{} }
