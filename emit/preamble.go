package emit

import (
	"fmt"
	"io"
	"sort"

	"github.com/vkreg/vkgen/lower"
)

// preambleHeader is the Go translation of templates.go's {{ define "header" }}
// block: the C++ Flags<EnumType, T> template becomes a generic Flags[T]
// wrapper with the same operator set expressed as methods (Go has no
// operator overloading), and the handle-wrapper class becomes a pair of
// named integer types rather than a C++ class wrapping a raw handle.
const preambleHeader = `// The CXxx aliases below are the explicit C-width names UseLibcTypes emits
// in place of Go's own builtin types, for a host that wants the primitive
// widths spelled out at the type level instead of inferred from "byte",
// "int32", and friends.
type (
	CChar   = byte
	CFloat  = float32
	CDouble = float64
	CInt    = int32
	CUint8  = uint8
	CUint16 = uint16
	CUint32 = uint32
	CUint64 = uint64
	CInt8   = int8
	CInt16  = int16
	CInt32  = int32
	CInt64  = int64
	CSizeT  = uintptr
)

// Flags is the generic bitmask wrapper every WrapBitmasks-enabled bitmask
// type composes with, translated from templates.go's C++ Flags<EnumType, T>
// template: T is the underlying storage width, and the named bit constants
// of the enum it wraps are valid operands to Or/And/Xor/Sub.
type Flags[T ~uint32 | ~uint64] struct {
	mask T
}

// MakeFlags wraps a raw mask value, mirroring Flags's explicit T constructor.
func MakeFlags[T ~uint32 | ~uint64](mask T) Flags[T] { return Flags[T]{mask: mask} }

func (f Flags[T]) Or(bit T) Flags[T]  { return Flags[T]{mask: f.mask | bit} }
func (f Flags[T]) And(bit T) Flags[T] { return Flags[T]{mask: f.mask & bit} }
func (f Flags[T]) Xor(bit T) Flags[T] { return Flags[T]{mask: f.mask ^ bit} }

// Sub clears bit from the mask, the Go method equivalent of the C++
// template's "&~" idiom for removing a single flag.
func (f Flags[T]) Sub(bit T) Flags[T] { return Flags[T]{mask: f.mask &^ bit} }
func (f Flags[T]) Has(bit T) bool     { return f.mask&bit != 0 }
func (f Flags[T]) Raw() T             { return f.mask }
func (f Flags[T]) IsZero() bool       { return f.mask == 0 }

// DispatchableHandle is the Go equivalent of templates.go's handle wrapper
// class for handles backed by a real pointer-sized native handle
// (VK_DEFINE_HANDLE).
type DispatchableHandle uintptr

// NonDispatchableHandle is the Go equivalent for handles backed by a 64-bit
// opaque integer (VK_DEFINE_NON_DISPATCHABLE_HANDLE) when
// WrapNonDispatchableHandles is set.
type NonDispatchableHandle uint64

// NullHandle is the zero value shared by every handle wrapper, mirroring
// templates.go's NullHandle/nullHandle sentinel.
const NullHandle = 0
`

// WritePreamble writes the package declaration, shared imports, and the
// Flags/handle-wrapper scaffolding every emitted file needs regardless of
// WrapBitmasks/WrapNonDispatchableHandles (the options only change whether a
// given type actually uses them).
func WritePreamble(w Sink, packageName string) error {
	if _, err := fmt.Fprintf(w, "// Code generated by vkgen. DO NOT EDIT.\n\npackage %s\n\n", packageName); err != nil {
		return err
	}
	if _, err := io.WriteString(w, "import (\n\t\"unsafe\"\n\n\t\"github.com/vkreg/vkgen/callharness\"\n)\n\n"); err != nil {
		return err
	}
	_, err := io.WriteString(w, preambleHeader)
	return err
}

// knownDefineBodies maps the handful of <type category="define"> names this
// repo knows the literal body of to a Go constant expression. The crawler
// never retains a define's body text (registry.NewDefine records only its
// name), so anything not in this table is emitted only as a comment naming
// the define, with no constant declared, rather than a made-up value.
var knownDefineBodies = map[string]string{
	"VK_API_VERSION_1_0": "MakeAPIVersion(0, 1, 0, 0)",
	"VK_API_VERSION_1_1": "MakeAPIVersion(0, 1, 1, 0)",
	"VK_API_VERSION_1_2": "MakeAPIVersion(0, 1, 2, 0)",
	"VK_API_VERSION_1_3": "MakeAPIVersion(0, 1, 3, 0)",
}

// writeDefines emits the handful of #define-derived constants this repo
// hand-codes rather than parses (spec.md §9): VK_API_VERSION_1_x version
// packing and its component accessors, matching the Vulkan registry's own
// define bodies verbatim in spirit.
func writeDefines(w Sink, defines []lower.LoweredDefine) error {
	if len(defines) == 0 {
		return nil
	}
	sorted := make([]lower.LoweredDefine, len(defines))
	copy(sorted, defines)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].GoName < sorted[j].GoName })

	if _, err := io.WriteString(w, "\nfunc MakeAPIVersion(variant, major, minor, patch uint32) uint32 {\n\treturn (variant << 29) | (major << 22) | (minor << 12) | patch\n}\n\nfunc APIVersionMajor(v uint32) uint32 { return (v >> 22) & 0x7f }\nfunc APIVersionMinor(v uint32) uint32 { return (v >> 12) & 0x3ff }\nfunc APIVersionPatch(v uint32) uint32 { return v & 0xfff }\n"); err != nil {
		return err
	}
	for _, d := range sorted {
		body, known := knownDefineBodies[d.VkName]
		if !known {
			if _, err := fmt.Fprintf(w, "\n// %s has no hand-coded body (the registry crawler does not retain\n// #define text); define it in emit/preamble.go's knownDefineBodies if a\n// generated module needs it.\n", d.VkName); err != nil {
				return err
			}
			continue
		}
		if _, err := fmt.Fprintf(w, "\n// %s corresponds to the registry #define of the same name.\nconst %s = %s\n", d.VkName, d.GoName, body); err != nil {
			return err
		}
	}
	return nil
}
