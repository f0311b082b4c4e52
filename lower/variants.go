package lower

import (
	"strings"

	"github.com/vkreg/vkgen/registry"
)

// derivePrefix computes the SCREAMING_SNAKE_CASE prefix an enum/bitmask's
// own variants are expected to share, from the type's own Vulkan name,
// mirroring nsf-vulkangen's convertEnumValueName: snake-case the type name
// (after trimming a trailing "FlagBits"/"Flags" bitmask suffix) and append
// a trailing underscore. VkResult is the one registry-wide exception: its
// variants (VK_SUCCESS, VK_ERROR_OUT_OF_HOST_MEMORY, ...) never share a
// "VK_RESULT_" prefix, so it strips only the bare "VK_" prefix instead, when
// RemoveVkResultPrefix allows it. RemoveBitmaskPrefix gates the equivalent
// special case for bitmasks: some bitmask names derive a prefix that does
// not actually match any of their variants (the "Flags"/"FlagBits" stripped
// form can differ from the historical FlagBits enum name), so a caller can
// turn this special-casing off and fall back to the generic snake-cased
// type name.
func derivePrefix(vkTypeName string, isBitmask bool, opts Options) string {
	if vkTypeName == "VkResult" {
		if !opts.RemoveVkResultPrefix {
			return toSnakeCase(vkTypeName) + "_"
		}
		return "VK_"
	}
	trimmed := vkTypeName
	if isBitmask && opts.RemoveBitmaskPrefix {
		trimmed = strings.TrimSuffix(trimmed, "FlagBits")
		trimmed = strings.TrimSuffix(trimmed, "Flags")
	}
	return toSnakeCase(trimmed) + "_"
}

// variantCase applies CamelCaseVariants to a tag-trimmed SCREAMING_SNAKE_CASE
// suffix: camel-cases it when the option is set, otherwise leaves it as the
// raw SCREAMING_SNAKE_CASE form (still a valid Go identifier, underscores
// and all).
func variantCase(s string, opts Options) string {
	if opts.CamelCaseVariants {
		return toCamelCase(s)
	}
	return s
}

// buildVariants renders vs into collision-resolved LoweredVariants. Every
// final identifier is GoName-qualified (goTypeName + suffix) so that no two
// enums/bitmasks can ever collide at package scope regardless of padding
// mode; VariantPadding only controls whether the type-derived prefix is
// trimmed from the suffix before that qualification. Within one enum,
// candidates that collide after stripping (most commonly two vendor
// variants whose tag-suffix-stripped names coincide) fall back to the
// untrimmed, merely tag-normalized form for exactly the colliding set, per
// spec.md §4.E's explicit collision-handling requirement.
func buildVariants(vkTypeName, goTypeName string, isBitmask bool, vs []registry.Variant, opts Options, logger registry.Logger) []LoweredVariant {
	if len(vs) == 0 {
		return nil
	}
	prefix := derivePrefix(vkTypeName, isBitmask, opts)

	type candidate struct {
		v       registry.Variant
		trimmed string // candidate suffix with the enum prefix stripped
		full    string // candidate suffix with only tag-suffix handling, never prefix-stripped
	}
	cands := make([]candidate, len(vs))
	trimmedCount := map[string]int{}

	for i, v := range vs {
		name := v.Name.String()
		base, _ := trimTagSuffix(name)

		full := variantCase(base, opts)

		trimmed := full
		if opts.VariantPadding == RemovePrefix && strings.HasPrefix(name, prefix) {
			rest := strings.TrimPrefix(name, prefix)
			restBase, _ := trimTagSuffix(rest)
			if restBase != "" {
				trimmed = variantCase(restBase, opts)
			}
		}

		cands[i] = candidate{v: v, trimmed: trimmed, full: full}
		trimmedCount[trimmed]++
	}

	out := make([]LoweredVariant, len(vs))
	for i, c := range cands {
		suffix := c.trimmed
		if trimmedCount[c.trimmed] > 1 {
			suffix = c.full
			logger.Warn("variant name collision after prefix stripping, falling back to untrimmed form",
				"type", vkTypeName, "variant", c.v.Name.String())
		}
		out[i] = LoweredVariant{
			VkName: c.v.Name.String(),
			GoName: goTypeName + suffix,
			Value:  c.v.IntValue(),
		}
	}
	return out
}
