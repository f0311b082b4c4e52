package emit

import (
	"fmt"
	"io"
	"strings"

	"github.com/vkreg/vkgen/lower"
)

func slotVarName(cmd lower.LoweredCommand) string { return "fn" + cmd.GoName }
func cifVarName(cmd lower.LoweredCommand) string  { return "cif" + cmd.GoName }
func cifOnceName(cmd lower.LoweredCommand) string { return "cif" + cmd.GoName + "Once" }
func cifFuncName(cmd lower.LoweredCommand) string { return "cif" + cmd.GoName + "Interface" }

// writeCIFHelper emits the lazily-built *types.CallInterface accessor for
// cmd, shared by both emitters since the interface shape depends only on
// the command's signature, not on which slot storage shape calls through
// it.
func writeCIFHelper(w Sink, cmd lower.LoweredCommand) error {
	ret := "nil"
	if cmd.Ret != "" {
		ret = fmt.Sprintf("descriptorFor(%q)", cmd.Ret)
	}
	var params strings.Builder
	for i, p := range cmd.Params {
		if i > 0 {
			params.WriteString(", ")
		}
		fmt.Fprintf(&params, "descriptorFor(%q)", p.GoType)
	}
	_, err := fmt.Fprintf(w, `
var %s sync.Once
var %s *types.CallInterface

func %s() *types.CallInterface {
	%s.Do(func() {
		%s = callharness.MustPrepare(%s, []*types.TypeDescriptor{%s})
	})
	return %s
}
`, cifOnceName(cmd), cifVarName(cmd), cifFuncName(cmd), cifOnceName(cmd), cifVarName(cmd), ret, params.String(), cifVarName(cmd))
	return err
}

// writeCommandBody renders the shared dispatch body of cmd: the unloaded
// panic guard, the argument-pointer array, the callharness.Invoke call, and
// the return. slot is the expression naming the loaded unsafe.Pointer (a
// bare variable for the global emitter, "c.fieldName" for the struct
// emitter).
func writeCommandBody(w io.Writer, cmd lower.LoweredCommand, slot string) error {
	if _, err := fmt.Fprintf(w, "\tif %s == nil {\n\t\tpanic(%q)\n\t}\n", slot, "vkgen: "+cmd.VkName+" not loaded"); err != nil {
		return err
	}
	for i, p := range cmd.Params {
		if _, err := fmt.Fprintf(w, "\targ%d := %s\n", i, p.GoName); err != nil {
			return err
		}
	}
	if _, err := io.WriteString(w, "\targs := []unsafe.Pointer{"); err != nil {
		return err
	}
	for i := range cmd.Params {
		if i > 0 {
			if _, err := io.WriteString(w, ", "); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintf(w, "unsafe.Pointer(&arg%d)", i); err != nil {
			return err
		}
	}
	if _, err := io.WriteString(w, "}\n"); err != nil {
		return err
	}

	resultPtr := "nil"
	if cmd.Ret != "" {
		if _, err := fmt.Fprintf(w, "\tvar result %s\n", cmd.Ret); err != nil {
			return err
		}
		resultPtr = "unsafe.Pointer(&result)"
	}
	if _, err := fmt.Fprintf(w, "\t_ = callharness.Invoke(%s(), %s, %s, args...)\n", cifFuncName(cmd), slot, resultPtr); err != nil {
		return err
	}
	if cmd.Ret != "" {
		if _, err := io.WriteString(w, "\treturn result\n"); err != nil {
			return err
		}
	}
	return nil
}

func paramList(cmd lower.LoweredCommand) string {
	var b strings.Builder
	for i, p := range cmd.Params {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%s %s", p.GoName, p.GoType)
	}
	return b.String()
}
