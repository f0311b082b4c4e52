package lower

import (
	"strconv"
	"strings"

	"github.com/vkreg/vkgen/registry"
)

// primitiveGoTypes maps the handful of bare C primitives the Vulkan
// registry's members/params use directly (as opposed to through one of its
// own typedefs) to a Go equivalent. With UseLibcTypes the names point at
// the explicit C-width aliases the preamble defines instead of Go's own
// builtins, so a host that cares about exact platform width can see it at
// the type level.
var primitiveGoTypes = map[string][2]string{
	"void":     {"", ""}, // handled structurally, never looked up directly
	"char":     {"byte", "CChar"},
	"float":    {"float32", "CFloat"},
	"double":   {"float64", "CDouble"},
	"int":      {"int32", "CInt"},
	"uint8_t":  {"uint8", "CUint8"},
	"uint16_t": {"uint16", "CUint16"},
	"uint32_t": {"uint32", "CUint32"},
	"uint64_t": {"uint64", "CUint64"},
	"int8_t":   {"int8", "CInt8"},
	"int16_t":  {"int16", "CInt16"},
	"int32_t":  {"int32", "CInt32"},
	"int64_t":  {"int64", "CInt64"},
	"size_t":   {"uintptr", "CSizeT"},
}

// baseGoType resolves a base type name (not yet composed with
// pointer/array) to the Go identifier that names it: a primitive mapping
// if the table above lists the name (even when the registry also declares
// it as an extern <type>, as vk.xml does for the stdint names), otherwise a
// lowered registry type if one was included in the selection, otherwise
// the bare name unchanged (an uncommon escape hatch for a primitive the
// table above does not list).
func baseGoType(vkName string, names map[string]string, opts Options) string {
	if pair, ok := primitiveGoTypes[vkName]; ok {
		if opts.UseLibcTypes {
			return pair[1]
		}
		return pair[0]
	}
	if goName, ok := names[vkName]; ok {
		return goName
	}
	return vkName
}

// renderElType renders a composed ElType as a Go type expression. names
// maps every included VkType's original name to its lowered Go name;
// constNames does the same for included constants, needed to size a
// ConstArrayEnum/MutArrayEnum.
func renderElType(e registry.ElType, names, constNames map[string]string, opts Options) string {
	switch e.Kind {
	case registry.KindVoid:
		return "unsafe.Pointer"
	case registry.KindVar, registry.KindConst:
		sym, _ := e.TypeSym()
		return baseGoType(sym.String(), names, opts)
	case registry.KindConstPtr, registry.KindMutPtr:
		sym, _ := e.TypeSym()
		base := sym.String()
		if base == "void" {
			return "unsafe.Pointer"
		}
		return strings.Repeat("*", e.N) + baseGoType(base, names, opts)
	case registry.KindConstArray, registry.KindMutArray:
		sym, _ := e.TypeSym()
		return "[" + strconv.Itoa(e.N) + "]" + baseGoType(sym.String(), names, opts)
	case registry.KindConstArrayEnum, registry.KindMutArrayEnum:
		sym, _ := e.TypeSym()
		sizeName := e.Size.String()
		goSize, ok := constNames[sizeName]
		if !ok {
			goSize = sizeName
		}
		return "[" + goSize + "]" + baseGoType(sym.String(), names, opts)
	default:
		return "unsafe.Pointer"
	}
}
