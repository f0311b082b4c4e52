package crawler

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/vkreg/vkgen/registry"
)

// Crawler drives a Source through the registry grammar described in
// SPEC_FULL.md §4.C, populating a registry.Registry as it goes. Each
// nested production (types, a single type, a single member, commands, a
// single command, features, extensions) is its own method; the method
// call stack is the crawler's path stack, and every method consumes
// exactly the events between the StartElement that invoked it and the
// matching EndElement.
type Crawler struct {
	src    Source
	reg    *registry.Registry
	path   []string
	logger registry.Logger
}

// New creates a Crawler that will populate reg from src. logger is an
// optional trailing parameter (SPEC_FULL.md's "[AMBIENT] Logging" passes
// it down as a plain parameter to every stage); it defaults to
// registry.Nop when omitted.
func New(src Source, reg *registry.Registry, logger ...registry.Logger) *Crawler {
	return &Crawler{src: src, reg: reg, logger: registry.PickLogger(logger...)}
}

// Crawl reads the entire document and populates the registry. A malformed
// ElType composition or other structural violation anywhere in the
// document aborts the whole crawl; Crawl recovers the panic registry's
// composition methods raise and reports it as a registry.StructureError,
// so no panic escapes this package's public surface.
func (c *Crawler) Crawl() (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = registry.NewStructureError(c.pathString(), fmt.Sprint(r))
		}
	}()

	for {
		ev, nerr := c.next()
		if nerr != nil {
			return nerr
		}
		if ev.Kind == EOF {
			return nil
		}
		if ev.Kind == StartElement && ev.Name == "registry" {
			if err := c.parseRegistry(); err != nil {
				return err
			}
			c.logger.Debug("crawled registry",
				"types", len(c.reg.Types), "commands", len(c.reg.Commands),
				"features", len(c.reg.Features), "extensions", len(c.reg.Extensions))
			return nil
		}
	}
}

// warn logs a discardable drop at Warn level: an Unhandled type, an
// unparseable variant value, an empty command, or similar — all cases
// spec.md §7 classifies as silently-dropped-not-surfaced-as-an-error, but
// which SPEC_FULL.md's logging section still wants visible at Warn.
func (c *Crawler) warn(msg string, keyvals ...interface{}) {
	c.logger.Warn(msg, append([]interface{}{"path", c.pathString()}, keyvals...)...)
}

func (c *Crawler) next() (Event, error) { return c.src.Next() }

func (c *Crawler) pathString() string { return "/" + strings.Join(c.path, "/") }

func (c *Crawler) push(name string) { c.path = append(c.path, name) }
func (c *Crawler) pop()             { c.path = c.path[:len(c.path)-1] }

func (c *Crawler) fail(reason string) error {
	return registry.NewStructureError(c.pathString(), reason)
}

// skipElement consumes events until the EndElement matching the
// StartElement that was just read, discarding everything in between
// (including further nested elements).
func (c *Crawler) skipElement() error {
	depth := 1
	for depth > 0 {
		ev, err := c.next()
		if err != nil {
			return err
		}
		switch ev.Kind {
		case EOF:
			return c.fail("unexpected end of document while skipping an element")
		case StartElement:
			depth++
		case EndElement:
			depth--
		}
	}
	return nil
}

// consumeLeafText reads events until the EndElement matching name,
// concatenating any Characters in between. It is used for <type>, <name>
// and <enum> children that carry only text.
func (c *Crawler) consumeLeafText(name string) (string, error) {
	var sb strings.Builder
	for {
		ev, err := c.next()
		if err != nil {
			return "", err
		}
		switch ev.Kind {
		case EOF:
			return "", c.fail("unexpected end of document inside <" + name + ">")
		case Characters:
			sb.WriteString(ev.Text)
		case StartElement:
			if err := c.skipElement(); err != nil {
				return "", err
			}
		case EndElement:
			return strings.TrimSpace(sb.String()), nil
		}
	}
}

func attrBool(attrs map[string]string, key string) bool {
	v, ok := attrs[key]
	if !ok {
		return false
	}
	return strings.HasPrefix(v, "true")
}

// ---- <registry> ----------------------------------------------------------

func (c *Crawler) parseRegistry() error {
	c.push("registry")
	defer c.pop()

	for {
		ev, err := c.next()
		if err != nil {
			return err
		}
		switch {
		case ev.Kind == EOF:
			return c.fail("unexpected end of document inside <registry>")
		case ev.Kind == EndElement && ev.Name == "registry":
			return nil
		case ev.Kind == StartElement && ev.Name == "types":
			if err := c.parseTypes(); err != nil {
				return err
			}
		case ev.Kind == StartElement && ev.Name == "enums":
			if err := c.parseEnums(ev.Attrs); err != nil {
				return err
			}
		case ev.Kind == StartElement && ev.Name == "commands":
			if err := c.parseCommands(); err != nil {
				return err
			}
		case ev.Kind == StartElement && ev.Name == "feature":
			if err := c.parseFeature(ev.Attrs); err != nil {
				return err
			}
		case ev.Kind == StartElement && ev.Name == "extensions":
			if err := c.parseExtensions(); err != nil {
				return err
			}
		case ev.Kind == StartElement:
			if err := c.skipElement(); err != nil {
				return err
			}
		}
	}
}

// ---- <types> ---------------------------------------------------------------

func (c *Crawler) parseTypes() error {
	c.push("types")
	defer c.pop()

	for {
		ev, err := c.next()
		if err != nil {
			return err
		}
		switch {
		case ev.Kind == EOF:
			return c.fail("unexpected end of document inside <types>")
		case ev.Kind == EndElement && ev.Name == "types":
			return nil
		case ev.Kind == StartElement && ev.Name == "type":
			if err := c.parseType(ev.Attrs); err != nil {
				return err
			}
		case ev.Kind == StartElement:
			if err := c.skipElement(); err != nil {
				return err
			}
		}
	}
}

// innerNameType scans a <type> element's body for child <name>/<type>
// leaf elements, returning whichever text each carries. Used by every
// type category whose name/underlying-type comes from nested elements
// instead of attributes (bitmask, handle, basetype).
func (c *Crawler) innerNameType() (innerName, innerType string, err error) {
	for {
		ev, nerr := c.next()
		if nerr != nil {
			return "", "", nerr
		}
		switch {
		case ev.Kind == EOF:
			return "", "", c.fail("unexpected end of document inside <type>")
		case ev.Kind == EndElement && ev.Name == "type":
			return innerName, innerType, nil
		case ev.Kind == StartElement && ev.Name == "name":
			innerName, err = c.consumeLeafText("name")
			if err != nil {
				return "", "", err
			}
		case ev.Kind == StartElement && ev.Name == "type":
			innerType, err = c.consumeLeafText("type")
			if err != nil {
				return "", "", err
			}
		case ev.Kind == StartElement:
			if err := c.skipElement(); err != nil {
				return "", "", err
			}
		}
	}
}

func (c *Crawler) parseType(attrs map[string]string) error {
	c.push("type")
	defer c.pop()

	category := attrs["category"]
	arena := c.reg.Arena

	switch category {
	case "struct", "union":
		name := attrs["name"]
		fields, err := c.parseStructBody()
		if err != nil {
			return err
		}
		var t registry.VkType
		if category == "struct" {
			t = registry.NewStruct(arena.Intern(name))
		} else {
			t = registry.NewUnion(arena.Intern(name))
		}
		t.Fields = fields
		c.reg.PushType(t)
		return nil

	case "enum":
		if err := c.skipElement(); err != nil {
			return err
		}
		name := attrs["name"]
		if name == "" {
			return nil
		}
		c.reg.PushType(registry.NewEnum(arena.Intern(name)))
		return nil

	case "bitmask":
		innerName, _, err := c.innerNameType()
		if err != nil {
			return err
		}
		name := attrs["name"]
		if name == "" {
			name = innerName
		}
		if name == "" {
			return c.fail("bitmask type has no name")
		}
		c.reg.PushType(registry.NewBitmask(arena.Intern(name)))
		return nil

	case "handle":
		innerName, innerType, err := c.innerNameType()
		if err != nil {
			return err
		}
		name := attrs["name"]
		if name == "" {
			name = innerName
		}
		if name == "" {
			return c.fail("handle type has no name")
		}
		dispatchable := innerType != "VK_DEFINE_NON_DISPATCHABLE_HANDLE"
		c.reg.PushType(registry.NewHandle(arena.Intern(name), dispatchable))
		return nil

	case "basetype":
		innerName, innerType, err := c.innerNameType()
		if err != nil {
			return err
		}
		name := attrs["name"]
		if name == "" {
			name = innerName
		}
		if name == "" {
			return c.fail("basetype has no name")
		}
		var aliasSym, requiresSym registry.Sym
		if innerType != "" {
			aliasSym = arena.Intern(innerType)
		}
		if req := attrs["requires"]; req != "" {
			requiresSym = arena.Intern(req)
		}
		c.reg.PushType(registry.NewTypeDef(arena.Intern(name), aliasSym, requiresSym))
		return nil

	case "funcpointer":
		return c.parseFuncPointer(attrs)

	case "define":
		name := attrs["name"]
		if name == "" {
			innerName, _, err := c.innerNameType()
			if err != nil {
				return err
			}
			name = innerName
		} else {
			if err := c.skipElement(); err != nil {
				return err
			}
		}
		if name == "" {
			return nil
		}
		c.reg.PushType(registry.NewDefine(arena.Intern(name)))
		return nil

	default:
		// No category: an extern type reference, e.g. a platform handle
		// forward-declared outside the registry. Any other category is one
		// this crawler does not handle; the type is dropped with a warning.
		name := attrs["name"]
		if err := c.skipElement(); err != nil {
			return err
		}
		if category != "" {
			c.warn("dropping type with unhandled category", "category", category, "name", name)
			return nil
		}
		if name == "" {
			return nil
		}
		var requiresSym registry.Sym
		if req := attrs["requires"]; req != "" {
			requiresSym = arena.Intern(req)
		}
		c.reg.PushType(registry.NewExternType(arena.Intern(name), requiresSym))
		return nil
	}
}

func (c *Crawler) parseStructBody() ([]registry.Member, error) {
	var fields []registry.Member
	for {
		ev, err := c.next()
		if err != nil {
			return nil, err
		}
		switch {
		case ev.Kind == EOF:
			return nil, c.fail("unexpected end of document inside struct/union body")
		case ev.Kind == EndElement && ev.Name == "type":
			return fields, nil
		case ev.Kind == StartElement && ev.Name == "member":
			m, err := c.parseMember(ev.Attrs)
			if err != nil {
				return nil, err
			}
			fields = append(fields, m)
		case ev.Kind == StartElement:
			if err := c.skipElement(); err != nil {
				return nil, err
			}
		}
	}
}

func (c *Crawler) parseMember(attrs map[string]string) (registry.Member, error) {
	c.push("member")
	defer c.pop()

	et, nameSym, err := c.parseElTypeBody("member")
	if err != nil {
		return registry.Member{}, err
	}
	return registry.Member{Type: et, Name: nameSym, Optional: attrBool(attrs, "optional")}, nil
}

// parseElTypeBody implements the mixed chardata/children composition
// grammar shared by <member>, <param> and <proto>: a run of chardata and
// <type>/<name>/<enum> children, consumed until the matching end tag.
// const-ness and pointer depth are applied once, at the end, in that
// fixed order; this collapses the source grammar's fully interleaved
// per-token transitions into two composition calls, which produces the
// same composed ElType for every construction actually used in the
// Vulkan registry (a single run of pointer stars, optionally preceded by
// "const"), at the cost of not modelling multiply-qualified pointer
// chains token-by-token.
func (c *Crawler) parseElTypeBody(elementName string) (registry.ElType, registry.Sym, error) {
	var (
		et          registry.ElType
		nameSym     registry.Sym
		sawConst    bool
		starCount   int
		sawArray    bool
		arraySize   int
		arrayConst  registry.Sym
		arrayOpened bool
	)
	arena := c.reg.Arena

	for {
		ev, err := c.next()
		if err != nil {
			return registry.ElType{}, registry.Sym{}, err
		}
		switch {
		case ev.Kind == EOF:
			return registry.ElType{}, registry.Sym{}, c.fail("unexpected end of document inside <" + elementName + ">")

		case ev.Kind == EndElement && ev.Name == elementName:
			// An illegal composition panics; it is turned into a
			// StructureError here, while the element path is still on the
			// stack, so the error names the offending element.
			var failure error
			func() {
				defer func() {
					if r := recover(); r != nil {
						failure = c.fail(fmt.Sprint(r))
					}
				}()
				if sawConst {
					et.MakeConst()
				}
				if starCount > 0 {
					et.MakePtr(starCount)
				}
				if sawArray {
					if arraySize == 0 {
						et.MakeArray(0)
						et.SetArrayConst(arrayConst)
					} else {
						et.MakeArray(arraySize)
					}
				}
			}()
			if failure != nil {
				return registry.ElType{}, registry.Sym{}, failure
			}
			return et, nameSym, nil

		case ev.Kind == Characters:
			text := strings.TrimSpace(ev.Text)
			if strings.Contains(text, "const") {
				sawConst = true
			}
			starCount += strings.Count(text, "*")
			if idx := strings.IndexByte(text, '['); idx >= 0 {
				arrayOpened = true
				rest := text[idx+1:]
				if end := strings.IndexByte(rest, ']'); end >= 0 {
					digits := strings.TrimSpace(rest[:end])
					if digits != "" {
						n, perr := strconv.Atoi(digits)
						if perr != nil {
							return registry.ElType{}, registry.Sym{}, c.fail("unparseable array size " + strconv.Quote(digits))
						}
						sawArray = true
						arraySize = n
					}
				}
			}

		case ev.Kind == StartElement && ev.Name == "type":
			txt, err := c.consumeLeafText("type")
			if err != nil {
				return registry.ElType{}, registry.Sym{}, err
			}
			if txt == "void" && !arrayOpened && starCount == 0 && !sawConst {
				et.MakeVoid()
			} else {
				et.SetType(arena.Intern(txt))
			}

		case ev.Kind == StartElement && ev.Name == "name":
			txt, err := c.consumeLeafText("name")
			if err != nil {
				return registry.ElType{}, registry.Sym{}, err
			}
			nameSym = arena.Intern(txt)

		case ev.Kind == StartElement && ev.Name == "enum":
			txt, err := c.consumeLeafText("enum")
			if err != nil {
				return registry.ElType{}, registry.Sym{}, err
			}
			if arrayOpened {
				sawArray = true
				arraySize = 0
				arrayConst = arena.Intern(txt)
			}

		case ev.Kind == StartElement:
			if err := c.skipElement(); err != nil {
				return registry.ElType{}, registry.Sym{}, err
			}
		}
	}
}

func (c *Crawler) parseFuncPointer(attrs map[string]string) error {
	var (
		name    string
		retWord string
		params  []registry.ElType
		sawName bool
	)
	arena := c.reg.Arena
	for {
		ev, err := c.next()
		if err != nil {
			return err
		}
		switch {
		case ev.Kind == EOF:
			return c.fail("unexpected end of document inside funcpointer <type>")
		case ev.Kind == EndElement && ev.Name == "type":
			if name == "" {
				return nil
			}
			t := registry.NewFuncPointer(arena.Intern(name))
			if retWord != "" {
				t.Ret.SetType(arena.Intern(retWord))
			} else {
				t.Ret.MakeVoid()
			}
			t.Params = params
			c.reg.PushType(t)
			return nil
		case ev.Kind == Characters:
			if !sawName && retWord == "" {
				fields := strings.Fields(strings.TrimSpace(ev.Text))
				if len(fields) > 0 {
					retWord = fields[0]
				}
			}
		case ev.Kind == StartElement && ev.Name == "name":
			txt, err := c.consumeLeafText("name")
			if err != nil {
				return err
			}
			name = txt
			sawName = true
		case ev.Kind == StartElement && ev.Name == "type":
			txt, err := c.consumeLeafText("type")
			if err != nil {
				return err
			}
			if sawName {
				var pt registry.ElType
				pt.SetType(arena.Intern(txt))
				params = append(params, pt)
			}
		case ev.Kind == StartElement:
			if err := c.skipElement(); err != nil {
				return err
			}
		}
	}
}

// ---- <enums> ---------------------------------------------------------------

const pseudoAPIConstantsName = "API Constants"

func (c *Crawler) parseEnums(attrs map[string]string) error {
	c.push("enums")
	defer c.pop()

	groupName := attrs["name"]

	for {
		ev, err := c.next()
		if err != nil {
			return err
		}
		switch {
		case ev.Kind == EOF:
			return c.fail("unexpected end of document inside <enums>")
		case ev.Kind == EndElement && ev.Name == "enums":
			return nil
		case ev.Kind == StartElement && ev.Name == "enum":
			if err := c.parseEnumEntry(ev.Attrs, groupName); err != nil {
				return err
			}
		case ev.Kind == StartElement:
			if err := c.skipElement(); err != nil {
				return err
			}
		}
	}
}

func (c *Crawler) parseEnumEntry(attrs map[string]string, groupName string) error {
	arena := c.reg.Arena
	name := attrs["name"]
	if name == "" {
		return nil
	}

	if groupName == pseudoAPIConstantsName {
		if v := attrs["value"]; v != "" {
			c.reg.PushType(registry.NewApiConst(arena.Intern(name), arena.Intern(v)))
		}
		return nil
	}

	if attrs["alias"] != "" {
		// A renamed duplicate of an existing variant; the original
		// already carries the value, nothing further to record.
		return nil
	}

	var variant registry.Variant
	variant.Name = arena.Intern(name)
	switch {
	case attrs["bitpos"] != "":
		n, err := strconv.ParseUint(attrs["bitpos"], 10, 32)
		if err != nil {
			c.warn("dropping variant with unparseable bitpos", "name", name, "bitpos", attrs["bitpos"])
			return nil // discardable: unparseable bitpos
		}
		variant.Kind = registry.VariantBitpos
		variant.Bitpos = uint32(n)
	case attrs["value"] != "":
		n, err := strconv.ParseInt(attrs["value"], 0, 64)
		if err != nil {
			c.warn("dropping variant with unparseable value", "name", name, "value", attrs["value"])
			return nil // discardable: unparseable value
		}
		variant.Kind = registry.VariantValue
		variant.Value = n
	default:
		return nil
	}

	target, ok := c.reg.Types[groupName]
	if !ok {
		placeholder := registry.NewEnum(arena.Intern(groupName))
		c.reg.PushType(placeholder)
		target = c.reg.Types[groupName]
	}
	target.Variants = append(target.Variants, variant)
	return nil
}

// ---- <commands> ------------------------------------------------------------

func (c *Crawler) parseCommands() error {
	c.push("commands")
	defer c.pop()

	for {
		ev, err := c.next()
		if err != nil {
			return err
		}
		switch {
		case ev.Kind == EOF:
			return c.fail("unexpected end of document inside <commands>")
		case ev.Kind == EndElement && ev.Name == "commands":
			return nil
		case ev.Kind == StartElement && ev.Name == "command":
			if err := c.parseCommand(ev.Attrs); err != nil {
				return err
			}
		case ev.Kind == StartElement:
			if err := c.skipElement(); err != nil {
				return err
			}
		}
	}
}

func (c *Crawler) parseCommand(attrs map[string]string) error {
	c.push("command")
	defer c.pop()

	var (
		ret    registry.ElType
		name   registry.Sym
		params []registry.Param
	)

	for {
		ev, err := c.next()
		if err != nil {
			return err
		}
		switch {
		case ev.Kind == EOF:
			return c.fail("unexpected end of document inside <command>")
		case ev.Kind == EndElement && ev.Name == "command":
			if name.Zero() {
				// Alias commands (<command name="X" alias="Y"/>) and other
				// proto-less forms are discardable per the spec's
				// empty-command rule.
				c.warn("dropping proto-less command")
				return nil
			}
			cmd := &registry.Command{Ret: ret, Name: name, Params: params}
			if _, err := c.reg.PushCommand(cmd); err != nil {
				return err
			}
			return nil
		case ev.Kind == StartElement && ev.Name == "proto":
			r, n, err := c.parseElTypeBody("proto")
			if err != nil {
				return err
			}
			ret, name = r, n
		case ev.Kind == StartElement && ev.Name == "param":
			p, n, err := c.parseElTypeBody("param")
			if err != nil {
				return err
			}
			params = append(params, registry.Param{Type: p, Name: n})
		case ev.Kind == StartElement:
			if err := c.skipElement(); err != nil {
				return err
			}
		}
	}
}

// ---- <feature> ---------------------------------------------------------------

func (c *Crawler) parseFeature(attrs map[string]string) error {
	c.push("feature")
	defer c.pop()

	arena := c.reg.Arena
	name := attrs["name"]
	version, err := parseFeatureNumber(attrs["number"])
	if err != nil {
		return c.fail(err.Error())
	}

	feat := &registry.Feature{Name: arena.Intern(name), Version: version}

	for {
		ev, err := c.next()
		if err != nil {
			return err
		}
		switch {
		case ev.Kind == EOF:
			return c.fail("unexpected end of document inside <feature>")
		case ev.Kind == EndElement && ev.Name == "feature":
			c.reg.PushFeature(feat)
			return nil
		case ev.Kind == StartElement && ev.Name == "require":
			items, err := c.parseRequireRemove(ev.Attrs, 0)
			if err != nil {
				return err
			}
			feat.Require = append(feat.Require, items...)
		case ev.Kind == StartElement && ev.Name == "remove":
			items, err := c.parseRequireRemove(ev.Attrs, 0)
			if err != nil {
				return err
			}
			feat.Remove = append(feat.Remove, items...)
		case ev.Kind == StartElement:
			if err := c.skipElement(); err != nil {
				return err
			}
		}
	}
}

func parseFeatureNumber(s string) (registry.Version, error) {
	parts := strings.SplitN(s, ".", 2)
	if len(parts) != 2 {
		return registry.Version{}, fmt.Errorf("malformed feature number %q", s)
	}
	major, err := strconv.ParseUint(parts[0], 10, 16)
	if err != nil {
		return registry.Version{}, fmt.Errorf("malformed feature number %q", s)
	}
	minor, err := strconv.ParseUint(parts[1], 10, 16)
	if err != nil {
		return registry.Version{}, fmt.Errorf("malformed feature number %q", s)
	}
	return registry.Version{Major: uint16(major), Minor: uint16(minor)}, nil
}

// ---- <extensions> ------------------------------------------------------------

func (c *Crawler) parseExtensions() error {
	c.push("extensions")
	defer c.pop()

	for {
		ev, err := c.next()
		if err != nil {
			return err
		}
		switch {
		case ev.Kind == EOF:
			return c.fail("unexpected end of document inside <extensions>")
		case ev.Kind == EndElement && ev.Name == "extensions":
			return nil
		case ev.Kind == StartElement && ev.Name == "extension":
			if err := c.parseExtension(ev.Attrs); err != nil {
				return err
			}
		case ev.Kind == StartElement:
			if err := c.skipElement(); err != nil {
				return err
			}
		}
	}
}

func (c *Crawler) parseExtension(attrs map[string]string) error {
	c.push("extension")
	defer c.pop()

	arena := c.reg.Arena
	name := attrs["name"]
	number := 0
	if n, err := strconv.Atoi(attrs["number"]); err == nil {
		number = n
	}
	// Disabled extensions (supported="disabled") still parse, per the
	// spec's closure solver being the thing that decides inclusion; the
	// crawler just records what's in the document.

	ext := &registry.Extension{Name: arena.Intern(name), Number: number}

	for {
		ev, err := c.next()
		if err != nil {
			return err
		}
		switch {
		case ev.Kind == EOF:
			return c.fail("unexpected end of document inside <extension>")
		case ev.Kind == EndElement && ev.Name == "extension":
			c.reg.PushExtension(ext)
			return nil
		case ev.Kind == StartElement && ev.Name == "require":
			items, err := c.parseRequireRemove(ev.Attrs, number)
			if err != nil {
				return err
			}
			ext.Require = append(ext.Require, items...)
		case ev.Kind == StartElement && ev.Name == "remove":
			items, err := c.parseRequireRemove(ev.Attrs, number)
			if err != nil {
				return err
			}
			ext.Remove = append(ext.Remove, items...)
		case ev.Kind == StartElement:
			if err := c.skipElement(); err != nil {
				return err
			}
		}
	}
}

// parseRequireRemove parses the children of a <require>/<remove> block.
// extNumber is 0 inside a <feature>; inside an <extension> it is that
// extension's number, needed to compute injected enum values from an
// offset (1_000_000_000 + (extNumber-1)*1000 + offset, negated when
// dir="-").
func (c *Crawler) parseRequireRemove(attrs map[string]string, extNumber int) ([]registry.Interface, error) {
	c.push("require")
	defer c.pop()

	arena := c.reg.Arena
	var profile registry.Sym
	if p := attrs["profile"]; p != "" {
		profile = arena.Intern(p)
	}

	var out []registry.Interface
	for {
		ev, err := c.next()
		if err != nil {
			return nil, err
		}
		switch {
		case ev.Kind == EOF:
			return nil, c.fail("unexpected end of document inside <require>/<remove>")
		case (ev.Kind == EndElement) && (ev.Name == "require" || ev.Name == "remove"):
			return out, nil
		case ev.Kind == StartElement && ev.Name == "command":
			if err := c.skipElement(); err != nil {
				return nil, err
			}
			out = append(out, registry.Interface{Kind: registry.IfaceCommand, Name: arena.Intern(ev.Attrs["name"]), Profile: profile})
		case ev.Kind == StartElement && ev.Name == "type":
			if err := c.skipElement(); err != nil {
				return nil, err
			}
			out = append(out, registry.Interface{Kind: registry.IfaceType, Name: arena.Intern(ev.Attrs["name"]), Profile: profile})
		case ev.Kind == StartElement && ev.Name == "enum":
			item, ok, err := c.parseRequireEnum(ev.Attrs, extNumber, profile)
			if err != nil {
				return nil, err
			}
			if err := c.skipElement(); err != nil {
				return nil, err
			}
			if ok {
				out = append(out, item)
			}
		case ev.Kind == StartElement:
			if err := c.skipElement(); err != nil {
				return nil, err
			}
		}
	}
}

// parseRequireEnum classifies a <require>/<remove>'s <enum> child: it is
// either a plain named reference to an existing constant/variant
// (IfaceApiConst/IfaceType-like reference), a #define-style literal
// (IfaceConstDef), or an extension-injected enum/bitmask variant
// (IfaceExtnEnum), computed per the offset/bitpos/value/dir grammar.
func (c *Crawler) parseRequireEnum(attrs map[string]string, extNumber int, profile registry.Sym) (registry.Interface, bool, error) {
	arena := c.reg.Arena
	name := attrs["name"]
	if name == "" {
		return registry.Interface{}, false, nil
	}

	extends := attrs["extends"]
	switch {
	case extends != "":
		v := registry.Variant{Name: arena.Intern(name)}
		switch {
		case attrs["bitpos"] != "":
			n, err := strconv.ParseUint(attrs["bitpos"], 10, 32)
			if err != nil {
				c.warn("dropping enum with unparseable bitpos", "name", name, "bitpos", attrs["bitpos"])
				return registry.Interface{}, false, nil
			}
			v.Kind = registry.VariantBitpos
			v.Bitpos = uint32(n)
		case attrs["offset"] != "":
			off, err := strconv.ParseInt(attrs["offset"], 10, 64)
			if err != nil {
				c.warn("dropping enum with unparseable offset", "name", name, "offset", attrs["offset"])
				return registry.Interface{}, false, nil
			}
			val := 1_000_000_000 + (int64(extNumber)-1)*1000 + off
			if attrs["dir"] == "-" {
				val = -val
			}
			v.Kind = registry.VariantValue
			v.Value = val
		case attrs["value"] != "":
			n, err := strconv.ParseInt(attrs["value"], 0, 64)
			if err != nil {
				c.warn("dropping enum with unparseable value", "name", name, "value", attrs["value"])
				return registry.Interface{}, false, nil
			}
			v.Kind = registry.VariantValue
			v.Value = n
		default:
			return registry.Interface{}, false, nil
		}
		return registry.Interface{
			Kind:    registry.IfaceExtnEnum,
			Name:    arena.Intern(name),
			Profile: profile,
			Extends: arena.Intern(extends),
			Variant: v,
		}, true, nil

	case attrs["value"] != "":
		return registry.Interface{
			Kind:    registry.IfaceConstDef,
			Name:    arena.Intern(name),
			Profile: profile,
			Value:   arena.Intern(attrs["value"]),
		}, true, nil

	default:
		return registry.Interface{
			Kind:    registry.IfaceApiConst,
			Name:    arena.Intern(name),
			Profile: profile,
		}, true, nil
	}
}
