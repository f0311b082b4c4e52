// Command vkgen is the build-time front end for the binding generator: it
// reads a Vulkan registry XML file, resolves the require/remove closure for
// a requested API version and extension list, lowers the result to
// idiomatic Go names, and writes either the "global" or "struct" emitter's
// output to a file or stdout.
//
// Flags and a YAML config file populate the same lower.Options fields
// (flags win field-by-field over a loaded config), mirroring
// _examples/MacroPower-x's pflag + config-file CLI shape.
package main

import (
	"bytes"
	"fmt"
	"os"
	"strconv"
	"strings"

	charmlog "charm.land/log/v2"
	"github.com/goccy/go-yaml"
	"github.com/spf13/pflag"

	"github.com/vkreg/vkgen/closure"
	"github.com/vkreg/vkgen/crawler"
	"github.com/vkreg/vkgen/emit"
	"github.com/vkreg/vkgen/lower"
	"github.com/vkreg/vkgen/registry"
)

// config is the union of everything a run needs: the lower.Options table
// plus the closure target/extensions and the emitter selection. It decodes
// straight from YAML (goccy/go-yaml, the same decoder
// _examples/MacroPower-x and _examples/other_examples' config loaders use)
// and is also the struct pflag.FlagSet values are written into, so a config
// file and flags share one field set with no separate translation layer.
type config struct {
	Input      string   `yaml:"input"`
	Output     string   `yaml:"output"`
	Package    string   `yaml:"package"`
	Mode       string   `yaml:"mode"` // "global" or "struct"
	Target     string   `yaml:"target"`
	Extensions []string `yaml:"extensions"`
	LogLevel   string   `yaml:"log_level"`

	RemoveTypePrefix           bool `yaml:"remove_type_prefix"`
	RemoveCommandPrefix        bool `yaml:"remove_command_prefix"`
	RemoveVkResultPrefix       bool `yaml:"remove_vk_result_prefix"`
	RemoveBitmaskPrefix        bool `yaml:"remove_bitmask_prefix"`
	RemoveConstPrefix          bool `yaml:"remove_const_prefix"`
	VariantPaddingRemovePrefix bool `yaml:"variant_padding_remove_prefix"`
	SnakeCaseCommands          bool `yaml:"snake_case_commands"`
	SnakeCaseMembers           bool `yaml:"snake_case_members"`
	CamelCaseVariants          bool `yaml:"camel_case_variants"`
	UseNativeEnums             bool `yaml:"use_native_enums"`
	UseNativeUnions            bool `yaml:"use_native_unions"`
	WrapBitmasks               bool `yaml:"wrap_bitmasks"`
	WrapNonDispatchableHandles bool `yaml:"wrap_non_dispatchable_handles"`
	UseLibcTypes               bool `yaml:"use_libc_types"`
}

func configFromOptions(opts lower.Options) config {
	return config{
		Package:                    "vk",
		Mode:                       "global",
		Target:                     "1.3",
		LogLevel:                   "info",
		RemoveTypePrefix:           opts.RemoveTypePrefix,
		RemoveCommandPrefix:        opts.RemoveCommandPrefix,
		RemoveVkResultPrefix:       opts.RemoveVkResultPrefix,
		RemoveBitmaskPrefix:        opts.RemoveBitmaskPrefix,
		RemoveConstPrefix:          opts.RemoveConstPrefix,
		VariantPaddingRemovePrefix: opts.VariantPadding == lower.RemovePrefix,
		SnakeCaseCommands:          opts.SnakeCaseCommands,
		SnakeCaseMembers:           opts.SnakeCaseMembers,
		CamelCaseVariants:          opts.CamelCaseVariants,
		UseNativeEnums:             opts.UseNativeEnums,
		UseNativeUnions:            opts.UseNativeUnions,
		WrapBitmasks:               opts.WrapBitmasks,
		WrapNonDispatchableHandles: opts.WrapNonDispatchableHandles,
		UseLibcTypes:               opts.UseLibcTypes,
	}
}

func (c config) options() lower.Options {
	padding := lower.Keep
	if c.VariantPaddingRemovePrefix {
		padding = lower.RemovePrefix
	}
	return lower.Options{
		RemoveTypePrefix:           c.RemoveTypePrefix,
		RemoveCommandPrefix:        c.RemoveCommandPrefix,
		RemoveVkResultPrefix:       c.RemoveVkResultPrefix,
		RemoveBitmaskPrefix:        c.RemoveBitmaskPrefix,
		RemoveConstPrefix:          c.RemoveConstPrefix,
		VariantPadding:             padding,
		SnakeCaseCommands:          c.SnakeCaseCommands,
		SnakeCaseMembers:           c.SnakeCaseMembers,
		CamelCaseVariants:          c.CamelCaseVariants,
		UseNativeEnums:             c.UseNativeEnums,
		UseNativeUnions:            c.UseNativeUnions,
		WrapBitmasks:               c.WrapBitmasks,
		WrapNonDispatchableHandles: c.WrapNonDispatchableHandles,
		UseLibcTypes:               c.UseLibcTypes,
	}
}

func registerFlags(fs *pflag.FlagSet, cfg *config) {
	fs.StringVarP(&cfg.Input, "input", "i", cfg.Input, "path to the Vulkan registry XML file (required)")
	fs.StringVarP(&cfg.Output, "output", "o", cfg.Output, "output file path (default: stdout)")
	fs.StringVar(&cfg.Package, "package", cfg.Package, "generated package name")
	fs.StringVar(&cfg.Mode, "mode", cfg.Mode, `emitter mode: "global" or "struct"`)
	fs.StringVar(&cfg.Target, "target", cfg.Target, "target Vulkan API version, e.g. 1.3")
	fs.StringSliceVar(&cfg.Extensions, "extension", cfg.Extensions, "extension name to include (repeatable)")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level: debug, info, warn, error")

	fs.BoolVar(&cfg.RemoveTypePrefix, "remove-type-prefix", cfg.RemoveTypePrefix, "strip the Vk prefix from type names")
	fs.BoolVar(&cfg.RemoveCommandPrefix, "remove-command-prefix", cfg.RemoveCommandPrefix, "strip the vk prefix from command names")
	fs.BoolVar(&cfg.RemoveVkResultPrefix, "remove-vk-result-prefix", cfg.RemoveVkResultPrefix, "strip VK_ from VkResult variants")
	fs.BoolVar(&cfg.RemoveBitmaskPrefix, "remove-bitmask-prefix", cfg.RemoveBitmaskPrefix, "strip the common prefix from bitmask variant names")
	fs.BoolVar(&cfg.RemoveConstPrefix, "remove-const-prefix", cfg.RemoveConstPrefix, "strip VK_ from API constant names")
	fs.BoolVar(&cfg.VariantPaddingRemovePrefix, "variant-padding-remove-prefix", cfg.VariantPaddingRemovePrefix, "trim the enum-derived prefix from variant names")
	fs.BoolVar(&cfg.SnakeCaseCommands, "snake-case-commands", cfg.SnakeCaseCommands, "convert command names to snake_case")
	fs.BoolVar(&cfg.SnakeCaseMembers, "snake-case-members", cfg.SnakeCaseMembers, "convert struct field names to snake_case")
	fs.BoolVar(&cfg.CamelCaseVariants, "camel-case-variants", cfg.CamelCaseVariants, "convert enum variant names to CamelCase")
	fs.BoolVar(&cfg.UseNativeEnums, "use-native-enums", cfg.UseNativeEnums, "emit enums as opaque integer constants instead of sum-type wrappers")
	fs.BoolVar(&cfg.UseNativeUnions, "use-native-unions", cfg.UseNativeUnions, "emit unions as raw unions instead of typed accessors")
	fs.BoolVar(&cfg.WrapBitmasks, "wrap-bitmasks", cfg.WrapBitmasks, "emit an operator-bearing wrapper around bitmask integers")
	fs.BoolVar(&cfg.WrapNonDispatchableHandles, "wrap-non-dispatchable-handles", cfg.WrapNonDispatchableHandles, "emit a typed wrapper around uint64 handles")
	fs.BoolVar(&cfg.UseLibcTypes, "use-libc-types", cfg.UseLibcTypes, "use the platform C-types aliases instead of Go builtins")
}

func parseVersion(s string) (registry.Version, error) {
	parts := strings.SplitN(s, ".", 2)
	if len(parts) != 2 {
		return registry.Version{}, fmt.Errorf("malformed version %q, want MAJOR.MINOR", s)
	}
	major, err := strconv.ParseUint(parts[0], 10, 16)
	if err != nil {
		return registry.Version{}, fmt.Errorf("malformed version %q: %w", s, err)
	}
	minor, err := strconv.ParseUint(parts[1], 10, 16)
	if err != nil {
		return registry.Version{}, fmt.Errorf("malformed version %q: %w", s, err)
	}
	return registry.Version{Major: uint16(major), Minor: uint16(minor)}, nil
}

// scanConfigFlag finds --config/--config=VALUE's value without running a
// full flag parse, since the config file must be loaded before the rest of
// the flag set (whose defaults it can override) is even registered.
func scanConfigFlag(args []string) string {
	for i, a := range args {
		switch {
		case a == "--config":
			if i+1 < len(args) {
				return args[i+1]
			}
		case strings.HasPrefix(a, "--config="):
			return strings.TrimPrefix(a, "--config=")
		}
	}
	return ""
}

func logLevel(s string) charmlog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return charmlog.DebugLevel
	case "warn", "warning":
		return charmlog.WarnLevel
	case "error":
		return charmlog.ErrorLevel
	default:
		return charmlog.InfoLevel
	}
}

func main() {
	cfg := configFromOptions(lower.DefaultOptions())

	if configPath := scanConfigFlag(os.Args[1:]); configPath != "" {
		data, err := os.ReadFile(configPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, "vkgen: reading config file:", err)
			os.Exit(1)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			fmt.Fprintln(os.Stderr, "vkgen: parsing config file:", err)
			os.Exit(1)
		}
	}

	// Flags are registered bound to the (possibly config-updated) defaults,
	// so that an explicit flag always wins over the config file's value for
	// the same field, per SPEC_FULL.md's "[AMBIENT] Configuration".
	fs := pflag.NewFlagSet("vkgen", pflag.ExitOnError)
	fs.String("config", "", "path to a YAML config file (flags override its values field-by-field)")
	registerFlags(fs, &cfg)
	fs.Parse(os.Args[1:])

	logger := charmlog.NewWithOptions(os.Stderr, charmlog.Options{
		ReportTimestamp: false,
		Level:           logLevel(cfg.LogLevel),
	})

	if err := run(cfg, logger); err != nil {
		logger.Error("vkgen failed", "err", err)
		os.Exit(1)
	}
}

func run(cfg config, logger *charmlog.Logger) error {
	if cfg.Input == "" {
		return fmt.Errorf("--input is required")
	}

	xmlBytes, err := os.ReadFile(cfg.Input)
	if err != nil {
		return fmt.Errorf("reading registry: %w", err)
	}

	arena := registry.NewArena()
	arena.Reserve(len(xmlBytes))
	reg := registry.NewRegistry(arena)

	// logger is passed down as a plain parameter to every stage (crawl,
	// solve, lower); each logs its own Debug item counts and Warns its own
	// discardable drops rather than the CLI reconstructing them after the
	// fact.
	src := crawler.NewXMLSource(bytes.NewReader(xmlBytes))
	if err := crawler.New(src, reg, logger).Crawl(); err != nil {
		return fmt.Errorf("crawling registry: %w", err)
	}

	target, err := parseVersion(cfg.Target)
	if err != nil {
		return err
	}
	sel, err := closure.Solve(reg, target, cfg.Extensions, logger)
	if err != nil {
		return fmt.Errorf("solving closure: %w", err)
	}

	lw, err := lower.Lower(sel, cfg.options(), logger)
	if err != nil {
		return fmt.Errorf("lowering registry: %w", err)
	}

	out := os.Stdout
	if cfg.Output != "" {
		f, err := os.Create(cfg.Output)
		if err != nil {
			return fmt.Errorf("creating output: %w", err)
		}
		defer f.Close()
		out = f
	}

	pkg := cfg.Package
	if pkg == "" {
		pkg = "vk"
	}

	switch strings.ToLower(cfg.Mode) {
	case "", "global":
		err = emit.WriteGlobal(out, lw, pkg)
	case "struct":
		err = emit.WriteStruct(out, lw, pkg)
	default:
		return fmt.Errorf("unknown mode %q, want \"global\" or \"struct\"", cfg.Mode)
	}
	if err != nil {
		return fmt.Errorf("emitting output: %w", err)
	}

	logger.Info("generated Vulkan bindings", "commands", len(lw.Commands), "mode", cfg.Mode, "package", pkg)
	return nil
}
