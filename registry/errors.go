package registry

import "fmt"

// StructureError is the "input-structure violation" error kind: unexpected
// element nesting, a duplicate name attribute, or an illegal ElType
// composition, reported with the offending element path.
type StructureError struct {
	Path   string
	Reason string
}

func (e *StructureError) Error() string {
	return fmt.Sprintf("registry: structure violation at %s: %s", e.Path, e.Reason)
}

// NewStructureError builds a StructureError.
func NewStructureError(path, reason string) error {
	return &StructureError{Path: path, Reason: reason}
}

// UndefinedReferenceError is the "undefined reference" error kind: a
// required type or command the closure solver needs is absent from the
// registry, reported together with the feature/extension that named it.
type UndefinedReferenceError struct {
	Symbol   string
	Referrer string
}

func (e *UndefinedReferenceError) Error() string {
	return fmt.Sprintf("registry: %q required by %s is not defined in the registry", e.Symbol, e.Referrer)
}

// NewUndefinedReferenceError builds an UndefinedReferenceError.
func NewUndefinedReferenceError(symbol, referrer string) error {
	return &UndefinedReferenceError{Symbol: symbol, Referrer: referrer}
}

// UnknownExtensionError reports a requested extension that does not
// appear in the registry at all.
type UnknownExtensionError struct {
	Name string
}

func (e *UnknownExtensionError) Error() string {
	return fmt.Sprintf("registry: unknown extension requested: %q", e.Name)
}
