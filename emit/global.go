package emit

import (
	"fmt"
	"io"
	"sort"

	"github.com/vkreg/vkgen/lower"
)

// WriteGlobal renders the "global" shape: package-level unsafe.Pointer
// slots, one per command, plus a LoadWith entry point and one package-level
// wrapper function per command that dispatches through its slot via
// callharness, per spec.md §4.F and SPEC_FULL.md §4.F's Global emitter.
func WriteGlobal(w Sink, lw *lower.Lowered, packageName string) error {
	if err := WritePreamble(w, packageName); err != nil {
		return err
	}
	if _, err := io.WriteString(w, "\nimport (\n\t\"sync\"\n\n\t\"github.com/go-webgpu/goffi/types\"\n)\n"); err != nil {
		return err
	}
	if err := WriteBody(w, lw); err != nil {
		return err
	}

	for _, cmd := range lw.Commands {
		if _, err := fmt.Fprintf(w, "\nvar %s unsafe.Pointer\n", slotVarName(cmd)); err != nil {
			return err
		}
	}

	if err := writeGlobalLoadWith(w, lw.Commands); err != nil {
		return err
	}

	for _, cmd := range lw.Commands {
		if err := writeCIFHelper(w, cmd); err != nil {
			return err
		}
		ret := ""
		if cmd.Ret != "" {
			ret = " " + cmd.Ret
		}
		if _, err := fmt.Fprintf(w, "\nfunc %s(%s)%s {\n", cmd.GoName, paramList(cmd), ret); err != nil {
			return err
		}
		if err := writeCommandBody(w, cmd, slotVarName(cmd)); err != nil {
			return err
		}
		if _, err := io.WriteString(w, "}\n"); err != nil {
			return err
		}
	}
	return nil
}

// writeGlobalLoadWith renders LoadWith(resolve) []string: resolve is called
// once per command name; a non-nil result overwrites that command's slot,
// a nil result leaves a previously-loaded slot untouched (the idempotent-
// reload property spec.md §8 names), and every command resolve never
// satisfied is returned so the caller can decide whether a partial load is
// acceptable.
func writeGlobalLoadWith(w Sink, commands []lower.LoweredCommand) error {
	sorted := make([]lower.LoweredCommand, len(commands))
	copy(sorted, commands)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].VkName < sorted[j].VkName })

	if _, err := io.WriteString(w, "\n// LoadWith resolves every command's function pointer via resolve, called\n// once per Vulkan entry point name. A slot resolve returns nil for is left\n// untouched if it was already loaded by a previous call. It returns the\n// names of the commands that are still unloaded after this call.\nfunc LoadWith(resolve func(name string) unsafe.Pointer) []string {\n\tvar missing []string\n"); err != nil {
		return err
	}
	for _, cmd := range sorted {
		if _, err := fmt.Fprintf(w, "\tif p := resolve(%q); p != nil {\n\t\t%s = p\n\t} else if %s == nil {\n\t\tmissing = append(missing, %q)\n\t}\n", cmd.VkName, slotVarName(cmd), slotVarName(cmd), cmd.VkName); err != nil {
			return err
		}
	}
	_, err := io.WriteString(w, "\treturn missing\n}\n")
	return err
}
