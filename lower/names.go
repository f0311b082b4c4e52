package lower

import (
	"bytes"
	"strings"
	"unicode"
)

// knownTags are the vendor/extension-author tag suffixes this repo knows
// to strip, ported verbatim from nsf-vulkangen's knownTags.
var knownTags = []string{"KHR", "EXT"}

// trimTagSuffix strips a trailing "_TAG" or "TAG" vendor suffix, returning
// the trimmed string and the tag that was removed (empty if none matched).
func trimTagSuffix(s string) (string, string) {
	for _, tag := range knownTags {
		if strings.HasSuffix(s, "_"+tag) {
			return strings.TrimSuffix(s, "_"+tag), tag
		}
		if strings.HasSuffix(s, tag) {
			return strings.TrimSuffix(s, tag), tag
		}
	}
	return s, ""
}

// toCamelCase ports nsf-vulkangen's generator.go verbatim: it turns a
// SCREAMING_SNAKE_CASE identifier into UpperCamelCase, treating a digit or
// underscore as a word boundary.
//
//	PIPELINE_DEPTH_STENCIL_STATE_CREATE_INFO -> PipelineDepthStencilStateCreateInfo
func toCamelCase(s string) string {
	if len(s) <= 1 {
		return s
	}
	var b bytes.Buffer
	var prev rune
	for i, r := range s {
		if r != '_' {
			if i == 0 || prev == '_' || unicode.IsDigit(prev) {
				b.WriteRune(r)
			} else {
				b.WriteRune(unicode.ToLower(r))
			}
		}
		prev = r
	}
	return b.String()
}

// toSnakeCase is toCamelCase's inverse, ported the same way: it turns an
// UpperCamelCase identifier into SCREAMING_SNAKE_CASE.
//
//	PipelineDepthStencilStateCreateInfo -> PIPELINE_DEPTH_STENCIL_STATE_CREATE_INFO
func toSnakeCase(s string) string {
	if len(s) <= 1 {
		return s
	}
	var b bytes.Buffer
	var prev rune
	for i, r := range s {
		if i != 0 && unicode.IsUpper(r) && (unicode.IsLower(prev) || unicode.IsDigit(prev)) {
			b.WriteRune('_')
		}
		b.WriteRune(unicode.ToUpper(r))
		prev = r
	}
	return b.String()
}

// stripTypePrefix removes the "Vk" type prefix nsf-vulkangen's
// convertVkName strips, when enabled.
func stripTypePrefix(name string, enabled bool) string {
	if enabled {
		return strings.TrimPrefix(name, "Vk")
	}
	return name
}

// goCommandName mirrors nsf-vulkangen's convertCommandName: strip the "vk"
// prefix (when RemoveCommandPrefix is set) and either snake_case the
// remainder or lower-case just its leading letter, the lowerCamelCase
// method name Go idiom favors.
func goCommandName(vkName string, opts Options) string {
	stripped := vkName
	if opts.RemoveCommandPrefix {
		stripped = strings.TrimPrefix(vkName, "vk")
	}
	if opts.SnakeCaseCommands {
		return toSnakeCase(stripped)
	}
	if !opts.RemoveCommandPrefix {
		return vkName
	}
	if stripped == "" {
		return stripped
	}
	return strings.ToLower(stripped[:1]) + stripped[1:]
}

// goMemberName renders a struct field/parameter name, honoring
// SnakeCaseMembers.
func goMemberName(name string, opts Options) string {
	if opts.SnakeCaseMembers {
		return toSnakeCase(name)
	}
	if name == "" {
		return name
	}
	return strings.ToUpper(name[:1]) + name[1:]
}
