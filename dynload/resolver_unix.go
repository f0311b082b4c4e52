//go:build !windows

package dynload

// This module has no cgo-free way to call dlopen/dlsym: golang.org/x/sys
// exposes the POSIX syscall numbers but not a dynamic-loader helper the way
// x/sys/windows wraps LoadLibrary/GetProcAddress, and adding cgo here would
// be the only thing in this module that needs it. A POSIX Resolver belongs
// in a host application that already carries cgo (or a cgo-based Vulkan
// loader it links against) and can adapt its dlsym handle into the
// dynload.Resolver func(string) unsafe.Pointer shape directly; this package
// does not attempt to fake one.
