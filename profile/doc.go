// Package profile provides optional runtime profiling for the optbind
// command.
//
// Profiling is built on [github.com/pkg/profile] and compiled in only with
// the "pprof" build tag:
//
//	go build -tags pprof ./...
//	optbind --pprof-mode cpu parse spec.yaml -- -v input.txt
//
// Without the tag [Start] returns a no-op [Stopper] and [Modes] is empty.
// With it, profile files are written to the directory given by [WithPath]
// (the CLI defaults to a "pprof" directory under the user cache directory)
// and can be inspected with:
//
//	go tool pprof -http=: cpu.pprof
//
// The tagged build also imports [net/http/pprof], which registers handlers
// under /debug/pprof/ on [net/http.DefaultServeMux].
package profile

// Tag is the build tag required to enable pprof profiling.
const Tag = `pprof`
