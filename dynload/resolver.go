// Package dynload supplies reference Resolver implementations for the
// func(string) unsafe.Pointer a generated binding's LoadWith expects.
// Runtime Vulkan loading is explicitly out of scope for the generator core
// (spec.md §1's "Non-goals"); this package exists only so the ambient
// golang.org/x/sys dependency the rest of the retrieved pack exercises
// (_examples/gogpu-wgpu) has a genuine, exercised home, and so a host
// application has something real to pass to LoadWith on the platform that
// supports it without writing its own loader first.
package dynload

import "unsafe"

// Resolver maps a Vulkan command name to its raw function-pointer address,
// or nil if the name is not exported by the loaded library. It is exactly
// the func(string) unsafe.Pointer shape accepted by the LoadWith functions
// that emit.WriteGlobal and emit.WriteStruct generate.
type Resolver func(name string) unsafe.Pointer
