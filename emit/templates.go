package emit

import (
	"text/template"

	"github.com/vkreg/vkgen/lower"
)

// bodyTemplates is the Go equivalent of templates.go's tpl/FuncMap: one
// named sub-template per category, driven by the same "render every
// category across the whole model" structure as the teacher's "body"
// template, translated from C++ class/enum-class/using declarations into Go
// type declarations, const blocks, and struct declarations.
var bodyTemplates = template.Must(template.New("").Parse(`
{{ define "externtype" -}}
// {{ .GoName }} is declared outside the registry (a platform type this
// binding forward-references but does not define).
type {{ .GoName }} = uintptr
{{ end }}

{{ define "typedef" -}}
type {{ .GoName }} {{ .GoUnderlying }}
{{ end }}

{{ define "handle" -}}
{{- if .Dispatchable -}}
type {{ .GoName }} DispatchableHandle
{{ else -}}
type {{ .GoName }} NonDispatchableHandle
{{ end -}}
{{ end }}

{{ define "handle-native" -}}
{{- if .Dispatchable -}}
type {{ .GoName }} = uintptr
{{ else -}}
type {{ .GoName }} = uint64
{{ end -}}
{{ end }}

{{ define "enum" -}}
type {{ .GoName }} int32

const (
{{- range .Variants }}
	{{ .GoName }} {{ $.GoName }} = {{ .Value }}
{{- end }}
)
{{ end }}

{{ define "enum-native" -}}
const (
{{- range .Variants }}
	{{ .GoName }} int32 = {{ .Value }}
{{- end }}
)
{{ end }}

{{ define "bitmask" -}}
type {{ .GoName }}Bits uint32

const (
{{- range .Variants }}
	{{ .GoName }} {{ $.GoName }}Bits = {{ .Value }}
{{- end }}
)

type {{ .GoName }} = Flags[{{ .GoName }}Bits]
{{ end }}

{{ define "bitmask-native" -}}
type {{ .GoName }} uint32

const (
{{- range .Variants }}
	{{ .GoName }} {{ $.GoName }} = {{ .Value }}
{{- end }}
)
{{ end }}

{{ define "struct" -}}
type {{ .GoName }} struct {
{{- range .Fields }}
	{{ .GoName }} {{ .GoType }}
{{- end }}
}
{{ end }}

{{ define "union-native" -}}
// {{ .GoName }} is a native union: its Go representation is the first
// member's type, matching that member's layout exactly; the other members
// alias the same bytes and are reached by re-interpreting the pointer, the
// same way a C union reader would cast between member types.
type {{ .GoName }} = {{ (index .Fields 0).GoType }}
{{ end }}

{{ define "union-accessors" -}}
// {{ .GoName }} is a union: raw holds the bytes of whichever member was
// last written, sized to its first (and in every Vulkan union, largest)
// member; the accessor methods below reinterpret those bytes as each
// member's type rather than exposing every member as a live struct field.
type {{ .GoName }} struct {
	raw {{ (index .Fields 0).GoType }}
}
{{ range .Fields }}
func (u *{{ $.GoName }}) {{ .GoName }}() *{{ .GoType }} {
	return (*{{ .GoType }})(unsafe.Pointer(&u.raw))
}
{{ end }}
{{ end }}

{{ define "funcpointer" -}}
type {{ .GoName }} func({{ range $i, $p := .Params }}{{ if $i }}, {{ end }}{{ $p.GoName }} {{ $p.GoType }}{{ end }}){{ if .Ret }} {{ .Ret }}{{ end }}
{{ end }}

{{ define "consts" -}}
const (
{{- range . }}
	{{ .GoName }} = {{ .Value }}
{{- end }}
)
{{ end }}
`))

// WriteBody renders every non-command category of lw, in the model's
// already-deterministic order: externtypes, typedefs, handles, enums,
// bitmasks, unions, structs, funcpointers, then constants, then defines. Commands are
// rendered separately by the Global/Struct emitters since their call shape
// differs between the two.
func WriteBody(w Sink, lw *lower.Lowered) error {
	for _, t := range lw.ExternTypes {
		if err := bodyTemplates.ExecuteTemplate(w, "externtype", t); err != nil {
			return err
		}
	}
	for _, t := range lw.TypeDefs {
		if err := bodyTemplates.ExecuteTemplate(w, "typedef", t); err != nil {
			return err
		}
	}
	handleTpl := "handle"
	if !lw.Options.WrapNonDispatchableHandles {
		handleTpl = "handle-native"
	}
	for _, h := range lw.Handles {
		if h.Dispatchable {
			// Dispatchable handles are always wrapped: WrapNonDispatchableHandles
			// governs only the 64-bit opaque handle family.
			if err := bodyTemplates.ExecuteTemplate(w, "handle", h); err != nil {
				return err
			}
			continue
		}
		if err := bodyTemplates.ExecuteTemplate(w, handleTpl, h); err != nil {
			return err
		}
	}

	enumTpl := "enum"
	if lw.Options.UseNativeEnums {
		enumTpl = "enum-native"
	}
	for _, e := range lw.Enums {
		if err := bodyTemplates.ExecuteTemplate(w, enumTpl, e); err != nil {
			return err
		}
	}

	bitmaskTpl := "bitmask"
	if !lw.Options.WrapBitmasks {
		bitmaskTpl = "bitmask-native"
	}
	for _, b := range lw.Bitmasks {
		if err := bodyTemplates.ExecuteTemplate(w, bitmaskTpl, b); err != nil {
			return err
		}
	}

	unionTpl := "union-accessors"
	if lw.Options.UseNativeUnions {
		unionTpl = "union-native"
	}
	for _, u := range lw.Unions {
		if len(u.Fields) == 0 {
			continue
		}
		if err := bodyTemplates.ExecuteTemplate(w, unionTpl, u); err != nil {
			return err
		}
	}
	for _, s := range lw.Structs {
		if err := bodyTemplates.ExecuteTemplate(w, "struct", s); err != nil {
			return err
		}
	}
	for _, f := range lw.FuncPointers {
		if err := bodyTemplates.ExecuteTemplate(w, "funcpointer", f); err != nil {
			return err
		}
	}
	if len(lw.Consts) > 0 {
		if err := bodyTemplates.ExecuteTemplate(w, "consts", lw.Consts); err != nil {
			return err
		}
	}
	if len(lw.LocalConsts) > 0 {
		if err := bodyTemplates.ExecuteTemplate(w, "consts", lw.LocalConsts); err != nil {
			return err
		}
	}
	return writeDefines(w, lw.Defines)
}
