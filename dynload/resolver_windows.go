//go:build windows

package dynload

import (
	"unsafe"

	"golang.org/x/sys/windows"
)

// WindowsResolver loads vulkan-1.dll once and resolves command names through
// its export table, the same windows.NewLazySystemDLL + NewProc + Addr shape
// _examples/gogpu-wgpu's window_windows.go uses for user32/kernel32.
type WindowsResolver struct {
	dll *windows.LazyDLL
}

// NewWindowsResolver opens vulkan-1.dll. The DLL is not actually touched
// until the first Resolve call, matching LazyDLL's own load-on-first-use
// contract.
func NewWindowsResolver() *WindowsResolver {
	return &WindowsResolver{dll: windows.NewLazySystemDLL("vulkan-1.dll")}
}

// Resolve implements Resolver. A name vulkan-1.dll does not export resolves
// to nil, which LoadWith treats as "still missing" rather than an error.
func (r *WindowsResolver) Resolve(name string) unsafe.Pointer {
	proc := r.dll.NewProc(name)
	if err := proc.Find(); err != nil {
		return nil
	}
	return unsafe.Pointer(proc.Addr())
}
