// Package callharness is the thin FFI dispatch layer every generated
// command wrapper calls through. It exists because Go has no calling-
// convention annotation the way C++ does: the ABI is fixed entirely by
// whichever FFI bridge resolves and invokes the function pointer, and that
// bridge here is github.com/go-webgpu/goffi, the same one
// _examples/gogpu-wgpu's generated command methods call through
// (ffi.CallFunction(&cif, fnPtr, resultPtr, args)).
package callharness

import (
	"fmt"
	"unsafe"

	"github.com/go-webgpu/goffi/ffi"
	"github.com/go-webgpu/goffi/types"
)

// ErrUnloaded is returned by Invoke when fn is nil: a command slot that was
// never resolved by LoadWith. The emitters leave an unloaded slot nil, and
// the generated command wrapper panics on a nil slot before it reaches
// Invoke (matching the teacher-family convention that a *generated* call
// through an unloaded pointer is a programmer error); callharness itself
// treats a nil raw pointer as a reportable error rather than a crash for
// callers that invoke it directly.
var ErrUnloaded = fmt.Errorf("callharness: function pointer not loaded")

// Prepare builds a *types.CallInterface for a function returning ret and
// accepting params, using the platform default calling convention. Callers
// normally do this once (e.g. guarded by sync.Once) and reuse the result
// across every Invoke of that command, exactly as
// _examples/gogpu-wgpu/hal/metal/metal.go prepares each CallInterface once
// at init time.
func Prepare(ret *types.TypeDescriptor, params []*types.TypeDescriptor) (*types.CallInterface, error) {
	var cif types.CallInterface
	if err := ffi.PrepareCallInterface(&cif, types.DefaultCall, ret, params); err != nil {
		return nil, fmt.Errorf("callharness: prepare call interface: %w", err)
	}
	return &cif, nil
}

// MustPrepare is Prepare, panicking on error. Every generated command's call
// interface is built exactly once behind a sync.Once at first use, the same
// "parse once, panic if malformed, reuse forever" shape templates.go's own
// template.Must(template.New(...).Parse(...)) uses for its template set.
func MustPrepare(ret *types.TypeDescriptor, params []*types.TypeDescriptor) *types.CallInterface {
	cif, err := Prepare(ret, params)
	if err != nil {
		panic(err)
	}
	return cif
}

// Invoke dispatches through fn using the goffi call interface sig, writing
// the call's return value (if any) through result. args must already be
// pointers-to-argument-storage, matching goffi's calling convention (the
// args slice holds &argN, never argN itself).
func Invoke(sig *types.CallInterface, fn unsafe.Pointer, result unsafe.Pointer, args ...unsafe.Pointer) error {
	if fn == nil {
		return ErrUnloaded
	}
	return ffi.CallFunction(sig, fn, result, args)
}
