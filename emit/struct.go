package emit

import (
	"fmt"
	"io"
	"sort"

	"github.com/vkreg/vkgen/lower"
)

// WriteStruct renders the "struct" shape: a Commands type with one
// unsafe.Pointer field per command, a New constructor, a (*Commands)
// LoadWith with the same idempotent-reload contract as the global emitter,
// and one method per command, per spec.md §4.F's Struct emitter.
func WriteStruct(w Sink, lw *lower.Lowered, packageName string) error {
	if err := WritePreamble(w, packageName); err != nil {
		return err
	}
	if _, err := io.WriteString(w, "\nimport (\n\t\"sync\"\n\n\t\"github.com/go-webgpu/goffi/types\"\n)\n"); err != nil {
		return err
	}
	if err := WriteBody(w, lw); err != nil {
		return err
	}

	if _, err := io.WriteString(w, "\n// Commands holds one loaded function pointer per Vulkan entry point this\n// binding was generated for.\ntype Commands struct {\n"); err != nil {
		return err
	}
	for _, cmd := range lw.Commands {
		if _, err := fmt.Fprintf(w, "\t%s unsafe.Pointer\n", fieldName(cmd)); err != nil {
			return err
		}
	}
	if _, err := io.WriteString(w, "}\n\n// New returns a Commands with every slot unloaded.\nfunc New() *Commands {\n\treturn &Commands{}\n}\n"); err != nil {
		return err
	}

	if err := writeStructLoadWith(w, lw.Commands); err != nil {
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
		if _, err := fmt.Fprintf(w, "\nfunc (c *Commands) %s(%s)%s {\n", cmd.GoName, paramList(cmd), ret); err != nil {
			return err
		}
		if err := writeCommandBody(w, cmd, "c."+fieldName(cmd)); err != nil {
			return err
		}
		if _, err := io.WriteString(w, "}\n"); err != nil {
			return err
		}
	}
	return nil
}

// fieldName is the Commands struct field storing cmd's loaded pointer. It
// cannot reuse cmd.GoName: that is also the method name generated below, and
// Go forbids a field and a method sharing one identifier on the same type.
func fieldName(cmd lower.LoweredCommand) string { return "fn" + cmd.GoName }

func writeStructLoadWith(w Sink, commands []lower.LoweredCommand) error {
	sorted := make([]lower.LoweredCommand, len(commands))
	copy(sorted, commands)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].VkName < sorted[j].VkName })

	if _, err := io.WriteString(w, "\n// LoadWith resolves every command's function pointer via resolve, the same\n// idempotent-reload contract as the package-level LoadWith.\nfunc (c *Commands) LoadWith(resolve func(name string) unsafe.Pointer) []string {\n\tvar missing []string\n"); err != nil {
		return err
	}
	for _, cmd := range sorted {
		if _, err := fmt.Fprintf(w, "\tif p := resolve(%q); p != nil {\n\t\tc.%s = p\n\t} else if c.%s == nil {\n\t\tmissing = append(missing, %q)\n\t}\n", cmd.VkName, fieldName(cmd), fieldName(cmd), cmd.VkName); err != nil {
			return err
		}
	}
	_, err := io.WriteString(w, "\treturn missing\n}\n")
	return err
}
