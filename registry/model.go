package registry

import "fmt"

// VariantKind tags whether an enum/bitmask variant carries an absolute
// value or a bit position.
type VariantKind uint8

const (
	VariantValue VariantKind = iota
	VariantBitpos
)

// Variant is one member of an Enum or Bitmask. Bitpos(n) is semantically
// 1<<n but is stored distinctly because the registry distinguishes them.
// The closure solver's dedup pass compares variants by name only.
type Variant struct {
	Kind   VariantKind
	Name   Sym
	Value  int64  // meaningful when Kind == VariantValue
	Bitpos uint32 // meaningful when Kind == VariantBitpos
}

// IntValue returns the variant's emitted integer value.
func (v Variant) IntValue() int64 {
	if v.Kind == VariantBitpos {
		return int64(1) << v.Bitpos
	}
	return v.Value
}

// TypeKind tags the ten closed VkType variants plus the Unhandled
// discard sentinel.
type TypeKind uint8

const (
	TypeUnhandled TypeKind = iota
	TypeStruct
	TypeUnion
	TypeEnum
	TypeBitmask
	TypeHandle
	TypeTypeDef
	TypeApiConst
	TypeDefine
	TypeFuncPointer
	TypeExternType
)

// VkType is the sum type over every form a registry <type> entry can take.
// Exactly one of the field groups below is meaningful, selected by Kind;
// this mirrors the original's enum-with-payload shape without inheritance.
type VkType struct {
	Kind TypeKind
	Name Sym

	// Struct / Union
	Fields []Member

	// Enum / Bitmask
	Variants []Variant

	// Handle
	Dispatchable bool

	// TypeDef
	Alias    Sym // the type being aliased ("typ" in the source)
	Requires Sym // back-reference, also used by Handle/ExternType/ApiConst

	// ApiConst
	Value Sym

	// FuncPointer
	Ret    ElType
	Params []ElType
}

func newVkType(kind TypeKind, name Sym) VkType {
	return VkType{Kind: kind, Name: name}
}

func NewStruct(name Sym) VkType  { return newVkType(TypeStruct, name) }
func NewUnion(name Sym) VkType   { return newVkType(TypeUnion, name) }
func NewEnum(name Sym) VkType    { return newVkType(TypeEnum, name) }
func NewBitmask(name Sym) VkType { return newVkType(TypeBitmask, name) }

func NewHandle(name Sym, dispatchable bool) VkType {
	t := newVkType(TypeHandle, name)
	t.Dispatchable = dispatchable
	return t
}

func NewTypeDef(name, alias, requires Sym) VkType {
	t := newVkType(TypeTypeDef, name)
	t.Alias = alias
	t.Requires = requires
	return t
}

func NewApiConst(name, value Sym) VkType {
	t := newVkType(TypeApiConst, name)
	t.Value = value
	return t
}

func NewDefine(name Sym) VkType { return newVkType(TypeDefine, name) }

func NewFuncPointer(name Sym) VkType {
	t := newVkType(TypeFuncPointer, name)
	t.Ret = ElType{Kind: KindUnknown}
	return t
}

func NewExternType(name, requires Sym) VkType {
	t := newVkType(TypeExternType, name)
	t.Requires = requires
	return t
}

// Unhandled is the discard sentinel: inserting it into a Registry is a
// no-op that reports failure, per the discardable-failure error kind.
var Unhandled = VkType{Kind: TypeUnhandled}

// Command is a Vulkan entry point: a return type, a name, and parameters.
// Trailing Unknown parameters must be truncated before a Command is
// pushed into a Registry (see Registry.PushCommand); a mid-list Unknown
// is a crawler-level abort, not something Command itself guards against.
type Command struct {
	Ret    ElType
	Name   Sym
	Params []Param
}

// Version is a Vulkan API version, ordered first by Major then Minor.
type Version struct {
	Major, Minor uint16
}

func (v Version) Less(o Version) bool {
	if v.Major != o.Major {
		return v.Major < o.Major
	}
	return v.Minor < o.Minor
}

func (v Version) String() string { return fmt.Sprintf("%d.%d", v.Major, v.Minor) }

// InterfaceKind tags the five forms a <require>/<remove> entry can take.
type InterfaceKind uint8

const (
	IfaceCommand InterfaceKind = iota
	IfaceType
	IfaceConstDef
	IfaceApiConst
	IfaceExtnEnum
)

// Interface is one atomic require/remove directive within a Feature or
// Extension.
type Interface struct {
	Kind    InterfaceKind
	Name    Sym // Command / Type / ConstDef / ApiConst
	Profile Sym // optional API profile tag, zero Sym if absent
	Value   Sym // ConstDef's literal value

	// ExtnEnum
	Extends Sym
	Variant Variant
}

// Feature is a core API version's declared contents.
type Feature struct {
	Name    Sym
	Version Version
	Require []Interface
	Remove  []Interface
}

// Extension is a named, numbered, optional bundle of require/remove
// directives, possibly injecting new enum/bitmask variants.
type Extension struct {
	Name    Sym
	Number  int
	Require []Interface
	Remove  []Interface
}

// Registry is the top-level, exhaustively-populated model: the string
// arena plus the five collections the crawler builds. It is mutable only
// during crawling; every later pipeline stage treats it as read-only.
type Registry struct {
	Arena      *Arena
	Types      map[string]*VkType
	CoreConsts []Sym
	Commands   map[string]*Command
	Features   map[Version]*Feature
	Extensions map[string]*Extension

	// FeatureOrder/ExtensionOrder record insertion order so downstream
	// passes can iterate deterministically instead of over a Go map,
	// per the determinism requirement on the closure solver.
	FeatureOrder   []Version
	ExtensionOrder []string
}

// NewRegistry creates an empty registry backed by the given arena.
func NewRegistry(a *Arena) *Registry {
	return &Registry{
		Arena:      a,
		Types:      make(map[string]*VkType),
		Commands:   make(map[string]*Command),
		Features:   make(map[Version]*Feature),
		Extensions: make(map[string]*Extension),
	}
}

// pseudoAPIConstants is the reserved <enums name="API Constants"> type
// name that never becomes a registered VkType of its own.
const pseudoAPIConstants = "API Constants"

// PushType registers t, unless it is Unhandled or the reserved "API
// Constants" pseudo-type, either of which is a discardable no-op.
// ApiConst entries are additionally recorded into CoreConsts.
func (r *Registry) PushType(t VkType) bool {
	if t.Kind == TypeApiConst {
		r.CoreConsts = append(r.CoreConsts, t.Name)
	}
	if t.Kind == TypeUnhandled {
		return false
	}
	name := t.Name.String()
	if name == pseudoAPIConstants {
		return false
	}
	cp := t
	r.Types[name] = &cp
	return true
}

// PushCommand registers cmd after truncating trailing Unknown
// parameters. A nil cmd is a discardable no-op. An Unknown parameter
// anywhere but the trailing run is a structure violation: the crawler
// could not resolve that parameter's type and there is no safe way to
// drop it without shifting every parameter after it, so this aborts
// rather than silently mis-binding the command.
func (r *Registry) PushCommand(cmd *Command) (bool, error) {
	if cmd == nil {
		return false, nil
	}
	for len(cmd.Params) > 0 && cmd.Params[len(cmd.Params)-1].Type.Kind == KindUnknown {
		cmd.Params = cmd.Params[:len(cmd.Params)-1]
	}
	for _, p := range cmd.Params {
		if p.Type.Kind == KindUnknown {
			return false, NewStructureError("command/"+cmd.Name.String(), "unresolved parameter type in the middle of the parameter list")
		}
	}
	r.Commands[cmd.Name.String()] = cmd
	return true, nil
}

// PushFeature registers feat, recording its version in FeatureOrder.
func (r *Registry) PushFeature(feat *Feature) bool {
	if feat == nil {
		return false
	}
	if _, exists := r.Features[feat.Version]; !exists {
		r.FeatureOrder = append(r.FeatureOrder, feat.Version)
	}
	r.Features[feat.Version] = feat
	return true
}

// PushExtension registers ext, recording its name in ExtensionOrder.
func (r *Registry) PushExtension(ext *Extension) bool {
	if ext == nil {
		return false
	}
	name := ext.Name.String()
	if _, exists := r.Extensions[name]; !exists {
		r.ExtensionOrder = append(r.ExtensionOrder, name)
	}
	r.Extensions[name] = ext
	return true
}

// SortedFeatureVersions returns the registered feature versions in
// ascending order, independent of FeatureOrder (used by the closure
// solver, which must walk features by version regardless of crawl order).
func (r *Registry) SortedFeatureVersions() []Version {
	out := make([]Version, len(r.FeatureOrder))
	copy(out, r.FeatureOrder)
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j].Less(out[j-1]); j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	return out
}
