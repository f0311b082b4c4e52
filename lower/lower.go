package lower

import (
	"sort"
	"strconv"
	"strings"

	"github.com/vkreg/vkgen/closure"
	"github.com/vkreg/vkgen/registry"
)

// Lower renames every identifier sel includes and resolves every
// cross-reference against the renamed set, per SPEC_FULL.md §4.E. logger
// is an optional trailing parameter, defaulting to registry.Nop, through
// which this stage logs its Debug item counts and Warns every
// variant-name collision fallback it has to apply.
func Lower(sel *closure.Selection, opts Options, logger ...registry.Logger) (*Lowered, error) {
	log := registry.PickLogger(logger...)
	reg := sel.Registry

	names := make(map[string]string, len(sel.Types))
	for _, n := range sel.Types {
		names[n] = typeGoName(reg.Types[n], opts)
	}

	lw := &Lowered{Options: opts}

	constNames := make(map[string]string, len(sel.Consts)+len(sel.LocalConsts))
	for _, n := range sel.Consts {
		t := reg.Types[n]
		goName := constGoName(n, opts)
		constNames[n] = goName
		lw.Consts = append(lw.Consts, NamedConst{VkName: n, GoName: goName, Value: convertCLiteral(t.Value.String())})
	}
	for _, lc := range sel.LocalConsts {
		goName := constGoName(lc.Name, opts)
		constNames[lc.Name] = goName
		lw.LocalConsts = append(lw.LocalConsts, NamedConst{VkName: lc.Name, GoName: goName, Value: convertCLiteral(lc.Value)})
	}

	for _, n := range sel.Types {
		t := reg.Types[n]
		goName := names[n]

		switch t.Kind {
		case registry.TypeStruct, registry.TypeUnion:
			ls := buildStructOrUnion(t, names, constNames, opts)
			if t.Kind == registry.TypeUnion {
				ls.Union = true
				lw.Unions = append(lw.Unions, ls)
			} else {
				lw.Structs = append(lw.Structs, ls)
			}

		case registry.TypeEnum:
			lw.Enums = append(lw.Enums, LoweredEnum{
				VkName:   n,
				GoName:   goName,
				Variants: buildVariants(n, goName, false, sel.Variants[n], opts, log),
			})

		case registry.TypeBitmask:
			lw.Bitmasks = append(lw.Bitmasks, LoweredBitmask{
				VkName:   n,
				GoName:   goName,
				Variants: buildVariants(n, goName, true, sel.Variants[n], opts, log),
			})

		case registry.TypeHandle:
			lw.Handles = append(lw.Handles, LoweredHandle{VkName: n, GoName: goName, Dispatchable: t.Dispatchable})

		case registry.TypeTypeDef:
			underlying := "uintptr"
			if !t.Alias.Zero() {
				underlying = baseGoType(t.Alias.String(), names, opts)
			}
			lw.TypeDefs = append(lw.TypeDefs, LoweredTypeDef{VkName: n, GoName: goName, GoUnderlying: underlying})

		case registry.TypeDefine:
			lw.Defines = append(lw.Defines, LoweredDefine{VkName: n, GoName: goName})

		case registry.TypeExternType:
			lw.ExternTypes = append(lw.ExternTypes, LoweredExternType{VkName: n, GoName: goName})

		case registry.TypeApiConst:
			if _, ok := constNames[n]; !ok {
				goName := constGoName(n, opts)
				constNames[n] = goName
				lw.Consts = append(lw.Consts, NamedConst{VkName: n, GoName: goName, Value: convertCLiteral(t.Value.String())})
			}

		case registry.TypeFuncPointer:
			params := make([]LoweredParam, len(t.Params))
			for i, p := range t.Params {
				params[i] = LoweredParam{GoName: "a" + strconv.Itoa(i), GoType: renderElType(p, names, constNames, opts)}
			}
			lw.FuncPointers = append(lw.FuncPointers, LoweredFuncPointer{
				VkName: n,
				GoName: goName,
				Ret:    renderElType(t.Ret, names, constNames, opts),
				Params: params,
			})
		}
	}

	for _, n := range sel.Commands {
		cmd := reg.Commands[n]
		lw.Commands = append(lw.Commands, buildCommand(cmd, names, constNames, opts))
	}

	sortStructsByDeps(lw.Structs)
	sortStructsByDeps(lw.Unions)

	log.Debug("lowered registry", "structs", len(lw.Structs), "unions", len(lw.Unions),
		"enums", len(lw.Enums), "bitmasks", len(lw.Bitmasks), "handles", len(lw.Handles),
		"commands", len(lw.Commands))

	return lw, nil
}

func typeGoName(t *registry.VkType, opts Options) string {
	name := t.Name.String()
	switch t.Kind {
	case registry.TypeDefine:
		if opts.RemoveConstPrefix {
			return strings.TrimPrefix(name, "VK_")
		}
		return name
	case registry.TypeApiConst:
		return constGoName(name, opts)
	case registry.TypeFuncPointer:
		return funcPointerGoName(name, opts)
	default:
		return stripTypePrefix(name, opts.RemoveTypePrefix)
	}
}

// funcPointerGoName strips the PFN_ and vk/Vk prefixes a function-pointer
// typedef's name carries (PFN_vkDebugReportCallbackEXT), rather than the
// plain "Vk" stripping other type categories use.
func funcPointerGoName(name string, opts Options) string {
	if !opts.RemoveTypePrefix {
		return name
	}
	trimmed := strings.TrimPrefix(name, "PFN_")
	trimmed = strings.TrimPrefix(trimmed, "vk")
	trimmed = strings.TrimPrefix(trimmed, "Vk")
	if trimmed == "" {
		return name
	}
	return strings.ToUpper(trimmed[:1]) + trimmed[1:]
}

func buildStructOrUnion(t *registry.VkType, names, constNames map[string]string, opts Options) LoweredStruct {
	fields := make([]LoweredMember, len(t.Fields))
	for i, f := range t.Fields {
		goType := renderElType(f.Type, names, constNames, opts)
		var dep string
		if sym, ok := f.Type.TypeSym(); ok {
			if goName, ok := names[sym.String()]; ok && !f.Type.IsPointer() {
				dep = goName
			}
		}
		fields[i] = LoweredMember{
			VkName:   f.Name.String(),
			GoName:   goMemberName(f.Name.String(), opts),
			GoType:   goType,
			DepName:  dep,
			Optional: f.Optional,
		}
	}
	return LoweredStruct{
		VkName: t.Name.String(),
		GoName: names[t.Name.String()],
		Fields: fields,
	}
}

func buildCommand(cmd *registry.Command, names, constNames map[string]string, opts Options) LoweredCommand {
	params := make([]LoweredParam, len(cmd.Params))
	for i, p := range cmd.Params {
		params[i] = LoweredParam{
			VkName: p.Name.String(),
			GoName: goMemberName(p.Name.String(), opts),
			GoType: renderElType(p.Type, names, constNames, opts),
		}
	}
	ret := renderElType(cmd.Ret, names, constNames, opts)
	if cmd.Ret.Kind == registry.KindVoid {
		ret = ""
	}
	return LoweredCommand{
		VkName: cmd.Name.String(),
		GoName: goCommandName(cmd.Name.String(), opts),
		Ret:    ret,
		Params: params,
	}
}

// sortStructsByDeps topologically sorts structs by same-selection field
// dependency, ported from nsf-vulkangen's Context.SortStructsByDeps: repeatedly
// peel off every struct with no remaining dependency in the working set,
// breaking ties by GoName for determinism, and treating a leftover cycle
// (which well-formed Vulkan registries never produce) as a fatal bug
// rather than silently mis-ordering output.
func sortStructsByDeps(structs []LoweredStruct) {
	if len(structs) == 0 {
		return
	}
	set := make(map[string]LoweredStruct, len(structs))
	for _, s := range structs {
		set[s.GoName] = s
	}

	out := make([]LoweredStruct, 0, len(structs))
	lastOutLen := 0
	for len(set) > 0 {
		var ready []string
		for name, s := range set {
			hasDep := false
			for _, f := range s.Fields {
				if f.DepName == "" {
					continue
				}
				if f.DepName == name {
					continue // self-referential pointer (e.g. a linked-list pNext shape), not a real ordering dependency
				}
				if _, ok := set[f.DepName]; ok {
					hasDep = true
					break
				}
			}
			if !hasDep {
				ready = append(ready, name)
			}
		}
		if len(ready) == 0 {
			panic("lower: circular struct dependency detected")
		}
		sort.Strings(ready)
		for _, name := range ready {
			out = append(out, set[name])
			delete(set, name)
		}
		if len(out) == lastOutLen {
			panic("lower: circular struct dependency detected")
		}
		lastOutLen = len(out)
	}
	copy(structs, out)
}
