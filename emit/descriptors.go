package emit

import (
	"strings"

	"github.com/go-webgpu/goffi/types"
)

// descriptorFor maps a rendered Go type expression (as lower.renderElType
// produces it) to the goffi type descriptor describing its ABI shape,
// following the one confirmed naming convention the retrieved pack shows
// (_examples/gogpu-wgpu/hal/metal/metal.go's types.PointerTypeDescriptor);
// the sibling primitive-width descriptors are named the same way. See
// DESIGN.md for this inference.
func descriptorFor(goType string) *types.TypeDescriptor {
	switch {
	case goType == "":
		return types.VoidTypeDescriptor
	case strings.HasPrefix(goType, "*"), goType == "unsafe.Pointer", strings.HasPrefix(goType, "["):
		return types.PointerTypeDescriptor
	}

	switch goType {
	case "uint8", "byte":
		return types.Uint8TypeDescriptor
	case "int8":
		return types.Int8TypeDescriptor
	case "uint16":
		return types.Uint16TypeDescriptor
	case "int16":
		return types.Int16TypeDescriptor
	case "uint32":
		return types.Uint32TypeDescriptor
	case "int32":
		return types.Int32TypeDescriptor
	case "uint64":
		return types.Uint64TypeDescriptor
	case "int64":
		return types.Int64TypeDescriptor
	case "float32":
		return types.Float32TypeDescriptor
	case "float64":
		return types.Float64TypeDescriptor
	case "uintptr":
		return types.PointerTypeDescriptor
	default:
		// Handles, enums, bitmasks, and typedefs all eventually resolve to one
		// of the primitive widths above; a Go type name that reaches here is
		// an alias over a 32-bit value (the common Vulkan case: enums and
		// most handles' wrapper types), which is the ABI-safest default
		// absent a width table for every generated alias.
		return types.Uint32TypeDescriptor
	}
}
