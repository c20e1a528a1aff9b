// Package profile wraps [github.com/pkg/profile] for optional runtime
// profiling of empl.
//
// Profiling is compiled in only with the pprof build tag:
//
//	go build -tags pprof .
//	empl --pprof-mode=cpu eval main.lisp
//
// Without the tag, [Modes] is empty and [Profiler.Start] does nothing.
//
// A session is described by a [Profiler] and ended by the returned
// [Stopper]:
//
//	s := profile.New(profile.WithMode("heap"), profile.WithDir(dir)).Start()
//	defer s.Stop()
//
// Each mode writes one file into the directory, named after the mode (for
// example cpu.pprof), for use with go tool pprof.
package profile
