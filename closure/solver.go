// Package closure computes the require/remove closure over a registry for
// a requested API version and extension list: the subset of types,
// commands, and constants that a generated binding for that target
// actually needs, plus the final (core + extension-injected, deduplicated)
// variant list for every included enum and bitmask.
package closure

import (
	"github.com/vkreg/vkgen/registry"
)

// LocalConst is a constant an extension's <require> block defines
// literally (VkInterface.ConstDef), rather than referencing an existing
// "API Constants" entry.
type LocalConst struct {
	Name  string
	Value string
}

// Selection is the closure solver's output: everything a lowering/emit
// pass needs to render a binding for the requested version + extensions.
// Every slice is in deterministic, first-seen order (ascending feature
// version, then requested extension order), never Go-map iteration order.
type Selection struct {
	Registry *registry.Registry

	Types    []string
	Commands []string
	Consts   []string // referenced "API Constants" entries

	LocalConsts []LocalConst

	// Variants holds, per included Enum/Bitmask type name, the final
	// variant list: core variants first (in declaration order), then
	// extension-injected variants in request order, deduplicated by name
	// with first-wins.
	Variants map[string][]registry.Variant
}

// solver accumulates the closure as require/remove directives are applied.
// Order slices hold every name ever added; membership maps record whether
// a remove has since retracted it. A later re-require (which the Vulkan
// registry never does, but nothing stops it structurally) appends the name
// to its order slice again; build keeps only each name's first position,
// so the Selection never lists a name twice.
type solver struct {
	reg    *registry.Registry
	logger registry.Logger

	types    map[string]bool
	typeOrd  []string
	commands map[string]bool
	cmdOrd   []string
	consts   map[string]bool
	constOrd []string

	localConsts    []LocalConst
	localConstSeen map[string]bool

	variants    map[string][]registry.Variant
	variantSeen map[string]map[string]bool
}

func newSolver(reg *registry.Registry, logger registry.Logger) *solver {
	return &solver{
		reg:            reg,
		logger:         logger,
		types:          map[string]bool{},
		commands:       map[string]bool{},
		consts:         map[string]bool{},
		localConstSeen: map[string]bool{},
		variants:       map[string][]registry.Variant{},
		variantSeen:    map[string]map[string]bool{},
	}
}

// Solve walks every feature whose version is <= target in ascending
// version order, then every requested extension in request order,
// applying each one's require block followed by its remove block, per
// SPEC_FULL.md §4 "Closure Solver". logger is an optional trailing
// parameter, defaulting to registry.Nop, that the stage logs its Debug
// item counts and Warns its dropped-variant dedup decisions through.
func Solve(reg *registry.Registry, target registry.Version, extensions []string, logger ...registry.Logger) (*Selection, error) {
	s := newSolver(reg, registry.PickLogger(logger...))

	for _, v := range reg.SortedFeatureVersions() {
		if target.Less(v) {
			continue
		}
		feat := reg.Features[v]
		if err := s.applyBlock(feat.Require, feat.Remove, "feature "+feat.Name.String()); err != nil {
			return nil, err
		}
	}

	for _, name := range extensions {
		ext, ok := reg.Extensions[name]
		if !ok {
			return nil, &registry.UnknownExtensionError{Name: name}
		}
		if err := s.applyBlock(ext.Require, ext.Remove, "extension "+name); err != nil {
			return nil, err
		}
	}

	sel := s.build()
	s.logger.Debug("solved closure", "types", len(sel.Types), "commands", len(sel.Commands),
		"consts", len(sel.Consts), "local_consts", len(sel.LocalConsts))
	return sel, nil
}

func (s *solver) applyBlock(require, remove []registry.Interface, referrer string) error {
	for _, iface := range require {
		if err := s.applyInterface(iface, referrer, true); err != nil {
			return err
		}
	}
	for _, iface := range remove {
		if err := s.applyInterface(iface, referrer, false); err != nil {
			return err
		}
	}
	return nil
}

func (s *solver) applyInterface(iface registry.Interface, referrer string, isRequire bool) error {
	switch iface.Kind {
	case registry.IfaceCommand:
		name := iface.Name.String()
		if isRequire {
			cmd, ok := s.reg.Commands[name]
			if !ok {
				return registry.NewUndefinedReferenceError(name, referrer)
			}
			s.addCommand(name)
			if sym, ok := cmd.Ret.TypeSym(); ok {
				s.addTypeTransitive(sym.String())
			}
			for _, p := range cmd.Params {
				if sym, ok := p.Type.TypeSym(); ok {
					s.addTypeTransitive(sym.String())
				}
			}
		} else {
			delete(s.commands, name)
		}

	case registry.IfaceType:
		name := iface.Name.String()
		if isRequire {
			if _, ok := s.reg.Types[name]; !ok {
				return registry.NewUndefinedReferenceError(name, referrer)
			}
			s.addTypeTransitive(name)
		} else {
			delete(s.types, name)
		}

	case registry.IfaceApiConst:
		name := iface.Name.String()
		if isRequire {
			if _, ok := s.reg.Types[name]; ok {
				s.addConst(name)
			}
		} else {
			delete(s.consts, name)
		}

	case registry.IfaceConstDef:
		if isRequire {
			s.addLocalConst(iface.Name.String(), iface.Value.String())
		}
		// Removing a locally-defined constant is not a case the Vulkan
		// registry ever exercises; nothing in spec.md names it either.

	case registry.IfaceExtnEnum:
		extends := iface.Extends.String()
		if isRequire {
			s.injectVariant(extends, iface.Variant)
		} else {
			s.removeVariant(extends, iface.Variant.Name.String())
		}
	}
	return nil
}

func (s *solver) addCommand(name string) {
	if s.commands[name] {
		return
	}
	s.commands[name] = true
	s.cmdOrd = append(s.cmdOrd, name)
}

func (s *solver) addConst(name string) {
	if s.consts[name] {
		return
	}
	s.consts[name] = true
	s.constOrd = append(s.constOrd, name)
}

func (s *solver) addLocalConst(name, value string) {
	if s.localConstSeen[name] {
		return
	}
	s.localConstSeen[name] = true
	s.localConsts = append(s.localConsts, LocalConst{Name: name, Value: value})
}

// addTypeTransitive includes name and, per SPEC_FULL.md §4.D step 4,
// transitively includes every type it depends on. A dependency absent
// from the registry (a bare C primitive like "float" never declared as
// its own <type>) is silently skipped rather than erroring: only a
// directly-required type or command missing from the registry is an
// undefined-reference error.
func (s *solver) addTypeTransitive(name string) {
	if s.types[name] {
		return
	}
	t, ok := s.reg.Types[name]
	if !ok {
		return
	}
	s.types[name] = true
	s.typeOrd = append(s.typeOrd, name)

	switch t.Kind {
	case registry.TypeStruct, registry.TypeUnion:
		for _, f := range t.Fields {
			if sym, ok := f.Type.TypeSym(); ok {
				s.addTypeTransitive(sym.String())
			}
		}
	case registry.TypeFuncPointer:
		if sym, ok := t.Ret.TypeSym(); ok {
			s.addTypeTransitive(sym.String())
		}
		for _, p := range t.Params {
			if sym, ok := p.TypeSym(); ok {
				s.addTypeTransitive(sym.String())
			}
		}
	case registry.TypeTypeDef:
		if !t.Alias.Zero() {
			s.addTypeTransitive(t.Alias.String())
		}
	case registry.TypeHandle, registry.TypeExternType, registry.TypeDefine, registry.TypeApiConst:
		if !t.Requires.Zero() {
			s.addTypeTransitive(t.Requires.String())
		}
	case registry.TypeEnum, registry.TypeBitmask:
		s.seedVariants(name, t.Variants)
	}
}

// seedVariants records an enum/bitmask's own declared variants as the
// first-wins base of its final variant list, before any extension
// injection is considered.
func (s *solver) seedVariants(typeName string, variants []registry.Variant) {
	if s.variantSeen[typeName] == nil {
		s.variantSeen[typeName] = map[string]bool{}
	}
	for _, v := range variants {
		vname := v.Name.String()
		if s.variantSeen[typeName][vname] {
			continue
		}
		s.variantSeen[typeName][vname] = true
		s.variants[typeName] = append(s.variants[typeName], v)
	}
}

// injectVariant adds an extension-contributed variant to typeName's final
// list, first ensuring typeName itself is in the selection (an
// extension's require block is not required to separately name the enum
// it extends). Dedup is first-wins, matching SPEC_FULL.md §4.D step 6.
func (s *solver) injectVariant(typeName string, v registry.Variant) {
	s.addTypeTransitive(typeName)
	if s.variantSeen[typeName] == nil {
		s.variantSeen[typeName] = map[string]bool{}
	}
	vname := v.Name.String()
	if s.variantSeen[typeName][vname] {
		s.logger.Warn("dropping duplicate extension-injected variant, first wins",
			"type", typeName, "variant", vname)
		return
	}
	s.variantSeen[typeName][vname] = true
	s.variants[typeName] = append(s.variants[typeName], v)
}

func (s *solver) removeVariant(typeName, variantName string) {
	vs := s.variants[typeName]
	out := vs[:0]
	for _, v := range vs {
		if v.Name.String() == variantName {
			continue
		}
		out = append(out, v)
	}
	s.variants[typeName] = out
	if seen := s.variantSeen[typeName]; seen != nil {
		delete(seen, variantName)
	}
}

func (s *solver) build() *Selection {
	sel := &Selection{
		Registry: s.reg,
		Variants: s.variants,
	}
	seen := map[string]bool{}
	for _, n := range s.typeOrd {
		if s.types[n] && !seen["t:"+n] {
			seen["t:"+n] = true
			sel.Types = append(sel.Types, n)
		}
	}
	for _, n := range s.cmdOrd {
		if s.commands[n] && !seen["c:"+n] {
			seen["c:"+n] = true
			sel.Commands = append(sel.Commands, n)
		}
	}
	for _, n := range s.constOrd {
		if s.consts[n] && !seen["k:"+n] {
			seen["k:"+n] = true
			sel.Consts = append(sel.Consts, n)
		}
	}
	sel.LocalConsts = s.localConsts
	return sel
}
