// Package emit renders a *lower.Lowered model into Go source text: a shared
// preamble (the Flags[T] wrapper type and handle wrapper types, translated
// from templates.go's C++ Flags<T> template and handle class), a shared
// text/template body renderer ported from templates.go's tpl/FuncMap, and
// two emitters — Global (package-level function-pointer vars) and Struct (a
// Commands struct) — covering the same two output shapes spec.md §4.F
// requires.
package emit

import "io"

// Sink is the output target every render function writes to.
type Sink = io.Writer
