//go:build pprof

package profile

import (
	"maps"
	"slices"

	"github.com/pkg/profile"
)

// Enabled reports whether the binary was built with [Tag].
const Enabled = true

var modes = map[string]func(*profile.Profile){
	"allocs":    profile.MemProfileAllocs,
	"block":     profile.BlockProfile,
	"clock":     profile.ClockProfile,
	"cpu":       profile.CPUProfile,
	"goroutine": profile.GoroutineProfile,
	"heap":      profile.MemProfileHeap,
	"mem":       profile.MemProfile,
	"mutex":     profile.MutexProfile,
	"thread":    profile.ThreadcreationProfile,
	"trace":     profile.TraceProfile,
}

// Modes returns the supported profiling modes in sorted order.
func Modes() []string { return slices.Sorted(maps.Keys(modes)) }

func start(p Profiler) Stopper {
	mode, ok := modes[p.Mode]
	if !ok {
		return ignore{}
	}

	opts := []func(*profile.Profile){mode, profile.NoShutdownHook}

	if p.Dir != "" {
		opts = append(opts, profile.ProfilePath(p.Dir))
	}

	if p.Quiet {
		opts = append(opts, profile.Quiet)
	}

	return profile.Start(opts...)
}
