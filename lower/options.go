// Package lower renames every identifier a closure.Selection includes and
// resolves cross-references against the renamed set, producing a Lowered
// model the emit package can render directly into source text. Naming
// rules are ported from nsf-vulkangen's convertXxxName family and its
// toCamelCase/toSnakeCase/trimTagSuffix helpers (generator.go), extended
// with the collision fallback SPEC_FULL.md's lowering section adds.
package lower

// VariantPadding controls whether a variant name keeps the prefix derived
// from its enum/bitmask's own name.
type VariantPadding uint8

const (
	// Keep leaves the enum-derived prefix in place (VkResult's VK_SUCCESS
	// lowers to "ResultVkSuccess": the type's Go name followed by the
	// camel-cased variant name).
	Keep VariantPadding = iota
	// RemovePrefix trims it when unambiguous ("ResultSuccess"), falling back to
	// Keep's behavior for any variant whose stripped form collides with
	// another variant of the same enum.
	RemovePrefix
)

// Options is the configurable name/type lowering pipeline, field-for-field
// the table in SPEC_FULL.md §4.E (ported from the GenConfig struct in
// original_source/vk_generator/src/registry/mod.rs's test fixtures).
type Options struct {
	RemoveTypePrefix          bool
	RemoveCommandPrefix       bool
	RemoveVkResultPrefix      bool
	RemoveBitmaskPrefix       bool
	RemoveConstPrefix         bool
	VariantPadding            VariantPadding
	SnakeCaseCommands         bool
	SnakeCaseMembers          bool
	CamelCaseVariants         bool
	UseNativeEnums            bool
	UseNativeUnions           bool
	WrapBitmasks              bool
	WrapNonDispatchableHandles bool
	UseLibcTypes              bool
}

// DefaultOptions mirrors the "all options have defaults" contract in
// SPEC_FULL.md §6: the idiomatic-Go defaults this repo ships with, close
// to what a hand-written binding would choose.
func DefaultOptions() Options {
	return Options{
		RemoveTypePrefix:           true,
		RemoveCommandPrefix:        true,
		RemoveVkResultPrefix:       true,
		RemoveBitmaskPrefix:        true,
		RemoveConstPrefix:          true,
		VariantPadding:             RemovePrefix,
		SnakeCaseCommands:          false,
		SnakeCaseMembers:           false,
		CamelCaseVariants:          true,
		UseNativeEnums:             false,
		UseNativeUnions:            false,
		WrapBitmasks:               true,
		WrapNonDispatchableHandles: true,
		UseLibcTypes:               false,
	}
}
