package lower

import "strings"

// NamedConst is one renamed, literal-cleaned constant: either a core "API
// Constants" entry (sel.Consts) or an extension-defined literal
// (sel.LocalConsts).
type NamedConst struct {
	VkName string
	GoName string
	Value  string
}

// constGoName renders a Vulkan constant/macro name as an exported Go
// identifier: optionally strip the "VK_" prefix, then camel-case the rest,
// exactly the way nsf-vulkangen's enum-value naming camel-cases after
// stripping its own "VK_" prefix special case.
func constGoName(vkName string, opts Options) string {
	name := vkName
	if opts.RemoveConstPrefix {
		name = strings.TrimPrefix(name, "VK_")
	}
	return toCamelCase(name)
}

// convertCLiteral cleans up the handful of C literal suffixes/casts the
// Vulkan registry's "API Constants" and extension ConstDef values use
// (1000U, (~0ULL), 1000.0F), ported from gogpu-wgpu's cmd/vk-gen
// convertCValue, into a Go-legal constant expression.
func convertCLiteral(v string) string {
	v = strings.TrimSpace(v)

	if strings.HasSuffix(v, "F") || strings.HasSuffix(v, "f") {
		return strings.TrimSuffix(strings.TrimSuffix(v, "F"), "f")
	}

	if strings.Contains(v, "ULL") {
		v = strings.ReplaceAll(v, "(~0ULL)", "^uint64(0)")
		v = strings.ReplaceAll(v, "~0ULL", "^uint64(0)")
		v = strings.ReplaceAll(v, "ULL", "")
		return v
	}

	if strings.HasPrefix(v, "(~") && strings.HasSuffix(v, "U)") {
		inner := strings.TrimSuffix(strings.TrimPrefix(v, "(~"), "U)")
		return "^uint32(" + inner + ")"
	}
	if strings.HasSuffix(v, "U") {
		return strings.TrimSuffix(v, "U")
	}

	return v
}
