package emit_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vkreg/vkgen/closure"
	"github.com/vkreg/vkgen/crawler"
	"github.com/vkreg/vkgen/emit"
	"github.com/vkreg/vkgen/lower"
	"github.com/vkreg/vkgen/registry"
)

const fixtureDoc = `<?xml version="1.0"?>
<registry>
  <types>
    <type name="uint32_t" requires="stdint.h"/>
    <type category="basetype">typedef <type>uint32_t</type> <name>VkFlags</name>;</type>
    <type category="handle" objtypeenum="VK_OBJECT_TYPE_INSTANCE"><type>VK_DEFINE_HANDLE</type>(<name>VkInstance</name>)</type>
    <type category="handle"><type>VK_DEFINE_NON_DISPATCHABLE_HANDLE</type>(<name>VkSurfaceKHR</name>)</type>
    <type category="enum" name="VkResult"/>
    <type category="enum" name="VkColorSpaceKHR"/>
    <type category="bitmask">typedef <type>VkFlags</type> <name>VkCullModeFlags</name>;</type>
  </types>
  <enums name="API Constants" type="enum">
    <enum value="16" name="VK_UUID_SIZE"/>
  </enums>
  <enums name="VkResult" type="enum">
    <enum value="0" name="VK_SUCCESS"/>
    <enum value="1" name="VK_NOT_READY"/>
    <enum value="-1" name="VK_ERROR_OUT_OF_HOST_MEMORY"/>
  </enums>
  <enums name="VkColorSpaceKHR" type="enum">
  </enums>
  <enums name="VkCullModeFlags" type="bitmask">
    <enum bitpos="0" name="VK_CULL_MODE_FRONT_BIT"/>
    <enum bitpos="1" name="VK_CULL_MODE_BACK_BIT"/>
  </enums>
  <commands>
    <command>
      <proto><type>void</type><name>vkDestroyInstance</name></proto>
      <param><type>VkInstance</type><name>instance</name></param>
    </command>
    <command>
      <proto><type>void</type><name>vkDestroySurfaceKHR</name></proto>
      <param><type>VkSurfaceKHR</type><name>surface</name></param>
    </command>
  </commands>
  <feature api="vulkan" name="VK_VERSION_1_0" number="1.0">
    <require>
      <type name="VkCullModeFlags"/>
      <type name="VkResult"/>
      <command name="vkDestroyInstance"/>
      <enum name="VK_UUID_SIZE"/>
    </require>
  </feature>
  <extensions>
    <extension name="VK_KHR_surface" number="1">
      <require>
        <type name="VkSurfaceKHR"/>
        <command name="vkDestroySurfaceKHR"/>
        <enum offset="0" extends="VkColorSpaceKHR" name="VK_COLOR_SPACE_SRGB_NONLINEAR_KHR"/>
      </require>
    </extension>
  </extensions>
</registry>
`

func fixtureLowered(t *testing.T, opts lower.Options, extensions ...string) *lower.Lowered {
	t.Helper()
	a := registry.NewArena()
	a.Reserve(len(fixtureDoc) * 2)
	reg := registry.NewRegistry(a)
	c := crawler.New(crawler.NewXMLSource(strings.NewReader(fixtureDoc)), reg)
	require.NoError(t, c.Crawl())
	sel, err := closure.Solve(reg, registry.Version{Major: 1, Minor: 0}, extensions)
	require.NoError(t, err)
	lw, err := lower.Lower(sel, opts)
	require.NoError(t, err)
	return lw
}

// Scenario 2: with remove_type_prefix, VkInstance -> Instance, VkResult -> Result.
func TestLowerTypePrefixRemoval(t *testing.T) {
	lw := fixtureLowered(t, lower.DefaultOptions())
	require.Len(t, lw.Handles, 1)
	assert.Equal(t, "Instance", lw.Handles[0].GoName)
}

// Scenario 3: struct emitter, with VK_KHR_surface, declares a field named
// after vkDestroySurfaceKHR and a New() factory.
func TestWriteStructHasSurfaceCommandFieldAndConstructor(t *testing.T) {
	lw := fixtureLowered(t, lower.DefaultOptions(), "VK_KHR_surface")

	var buf bytes.Buffer
	require.NoError(t, emit.WriteStruct(&buf, lw, "vk"))
	out := buf.String()

	assert.Contains(t, out, "func New() *Commands")
	assert.Contains(t, out, "func (c *Commands) destroySurfaceKHR(")
	assert.Contains(t, out, "type Commands struct")
	assert.Contains(t, out, "fndestroySurfaceKHR unsafe.Pointer")
	assert.Contains(t, out, "c.fndestroySurfaceKHR")
}

// Scenario 4: wrap_bitmasks=true produces a Flags[T] wrapper whose Or/Sub
// methods compose bits; wrap_bitmasks=false emits a plain named integer.
func TestWriteGlobalBitmaskWrapping(t *testing.T) {
	wrapped := fixtureLowered(t, lower.DefaultOptions())
	var buf bytes.Buffer
	require.NoError(t, emit.WriteGlobal(&buf, wrapped, "vk"))
	out := buf.String()
	assert.Contains(t, out, "type CullModeFlags = Flags[CullModeFlagsBits]")
	assert.Contains(t, out, "func (f Flags[T]) Or(bit T) Flags[T]")
	assert.Contains(t, out, "func (f Flags[T]) Sub(bit T) Flags[T]")

	opts := lower.DefaultOptions()
	opts.WrapBitmasks = false
	unwrapped := fixtureLowered(t, opts)
	buf.Reset()
	require.NoError(t, emit.WriteGlobal(&buf, unwrapped, "vk"))
	out = buf.String()
	assert.Contains(t, out, "type CullModeFlags uint32")
	assert.NotContains(t, out, "Flags[CullModeFlags")
}

// Scenario 5: global emitter, LoadWith(resolver that always returns nil)
// returns every command name.
func TestGlobalLoadWithReturnsAllNamesOnFullMiss(t *testing.T) {
	lw := fixtureLowered(t, lower.DefaultOptions(), "VK_KHR_surface")
	var buf bytes.Buffer
	require.NoError(t, emit.WriteGlobal(&buf, lw, "vk"))
	out := buf.String()

	require.Len(t, lw.Commands, 2)
	for _, cmd := range lw.Commands {
		assert.Contains(t, out, "missing = append(missing, "+quoted(cmd.VkName)+")")
	}
}

// Scenario 6: an extension-injected variant computed from offset=0,
// extnumber=1 is exactly 1_000_000_000; the enum template must render that
// exact literal.
func TestWriteGlobalRendersExtensionEnumOffsetValue(t *testing.T) {
	lw := fixtureLowered(t, lower.DefaultOptions(), "VK_KHR_surface")
	var buf bytes.Buffer
	require.NoError(t, emit.WriteGlobal(&buf, lw, "vk"))
	out := buf.String()
	assert.Contains(t, out, "= 1000000000")
}

// use_native_enums emits opaque integer constants, no named enum type.
func TestWriteGlobalNativeEnums(t *testing.T) {
	opts := lower.DefaultOptions()
	opts.UseNativeEnums = true
	lw := fixtureLowered(t, opts)
	var buf bytes.Buffer
	require.NoError(t, emit.WriteGlobal(&buf, lw, "vk"))
	out := buf.String()
	assert.NotContains(t, out, "type Result int32")
	assert.Contains(t, out, "ResultSuccess int32 = 0")
}

func quoted(s string) string { return `"` + s + `"` }
