package lower_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vkreg/vkgen/closure"
	"github.com/vkreg/vkgen/crawler"
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
    <type category="bitmask">typedef <type>VkFlags</type> <name>VkCullModeFlags</name>;</type>
    <type category="struct" name="VkExtent2D">
      <member><type>uint32_t</type><name>width</name></member>
      <member><type>uint32_t</type><name>height</name></member>
    </type>
    <type category="struct" name="VkApplicationInfo">
      <member><type>VkExtent2D</type><name>extent</name></member>
      <member><type>uint32_t</type><name>apiVersion</name></member>
    </type>
  </types>
  <enums name="API Constants" type="enum">
    <enum value="16" name="VK_UUID_SIZE"/>
  </enums>
  <enums name="VkResult" type="enum">
    <enum value="0" name="VK_SUCCESS"/>
    <enum value="-1" name="VK_ERROR_OUT_OF_HOST_MEMORY"/>
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
  </commands>
  <feature api="vulkan" name="VK_VERSION_1_0" number="1.0">
    <require>
      <type name="VkApplicationInfo"/>
      <type name="VkCullModeFlags"/>
      <type name="VkResult"/>
      <command name="vkDestroyInstance"/>
      <enum name="VK_UUID_SIZE"/>
    </require>
  </feature>
</registry>
`

func fixtureSelection(t *testing.T) *closure.Selection {
	t.Helper()
	a := registry.NewArena()
	a.Reserve(len(fixtureDoc) * 2)
	reg := registry.NewRegistry(a)
	c := crawler.New(crawler.NewXMLSource(strings.NewReader(fixtureDoc)), reg)
	require.NoError(t, c.Crawl())
	sel, err := closure.Solve(reg, registry.Version{Major: 1, Minor: 0}, nil)
	require.NoError(t, err)
	return sel
}

func TestLowerRemovesTypeAndResultPrefixes(t *testing.T) {
	sel := fixtureSelection(t)
	lw, err := lower.Lower(sel, lower.DefaultOptions())
	require.NoError(t, err)

	var handleName string
	for _, h := range lw.Handles {
		if h.VkName == "VkInstance" {
			handleName = h.GoName
		}
	}
	assert.Equal(t, "Instance", handleName)

	var resultEnum *lower.LoweredEnum
	for i := range lw.Enums {
		if lw.Enums[i].VkName == "VkResult" {
			resultEnum = &lw.Enums[i]
		}
	}
	require.NotNil(t, resultEnum)
	assert.Equal(t, "Result", resultEnum.GoName)
}

func TestLowerVariantPrefixStripping(t *testing.T) {
	sel := fixtureSelection(t)
	lw, err := lower.Lower(sel, lower.DefaultOptions())
	require.NoError(t, err)

	var resultEnum *lower.LoweredEnum
	for i := range lw.Enums {
		if lw.Enums[i].VkName == "VkResult" {
			resultEnum = &lw.Enums[i]
		}
	}
	require.NotNil(t, resultEnum)

	byVk := map[string]string{}
	for _, v := range resultEnum.Variants {
		byVk[v.VkName] = v.GoName
	}
	assert.Equal(t, "ResultSuccess", byVk["VK_SUCCESS"])
	assert.Equal(t, "ResultErrorOutOfHostMemory", byVk["VK_ERROR_OUT_OF_HOST_MEMORY"])
}

func TestLowerBitmaskVariantPrefixStripping(t *testing.T) {
	sel := fixtureSelection(t)
	lw, err := lower.Lower(sel, lower.DefaultOptions())
	require.NoError(t, err)

	var cullMask *lower.LoweredBitmask
	for i := range lw.Bitmasks {
		if lw.Bitmasks[i].VkName == "VkCullModeFlags" {
			cullMask = &lw.Bitmasks[i]
		}
	}
	require.NotNil(t, cullMask)

	byVk := map[string]string{}
	for _, v := range cullMask.Variants {
		byVk[v.VkName] = v.GoName
	}
	assert.Equal(t, "CullModeFlagsFrontBit", byVk["VK_CULL_MODE_FRONT_BIT"])
	assert.Equal(t, "CullModeFlagsBackBit", byVk["VK_CULL_MODE_BACK_BIT"])

	var backBitValue int64
	for _, v := range cullMask.Variants {
		if v.VkName == "VK_CULL_MODE_BACK_BIT" {
			backBitValue = v.Value
		}
	}
	assert.Equal(t, int64(2), backBitValue)
}

func TestLowerStructFieldsOrderedByDependency(t *testing.T) {
	sel := fixtureSelection(t)
	lw, err := lower.Lower(sel, lower.DefaultOptions())
	require.NoError(t, err)

	require.Len(t, lw.Structs, 2)
	// VkExtent2D has no struct-typed field dependency inside the selection, so
	// it must sort before VkApplicationInfo, which embeds it by value.
	assert.Equal(t, "Extent2D", lw.Structs[0].GoName)
	assert.Equal(t, "ApplicationInfo", lw.Structs[1].GoName)
}

func TestLowerCommandNameStripsVkPrefix(t *testing.T) {
	sel := fixtureSelection(t)
	lw, err := lower.Lower(sel, lower.DefaultOptions())
	require.NoError(t, err)

	require.Len(t, lw.Commands, 1)
	assert.Equal(t, "destroyInstance", lw.Commands[0].GoName)
}

// CamelCaseVariants=false must leave variant suffixes in their raw
// SCREAMING_SNAKE_CASE, tag-trimmed form instead of camel-casing them.
func TestLowerVariantCamelCaseToggle(t *testing.T) {
	sel := fixtureSelection(t)

	opts := lower.DefaultOptions()
	opts.CamelCaseVariants = false
	lw, err := lower.Lower(sel, opts)
	require.NoError(t, err)

	var resultEnum *lower.LoweredEnum
	for i := range lw.Enums {
		if lw.Enums[i].VkName == "VkResult" {
			resultEnum = &lw.Enums[i]
		}
	}
	require.NotNil(t, resultEnum)

	byVk := map[string]string{}
	for _, v := range resultEnum.Variants {
		byVk[v.VkName] = v.GoName
	}
	assert.Equal(t, "ResultSUCCESS", byVk["VK_SUCCESS"])
	assert.Equal(t, "ResultERROR_OUT_OF_HOST_MEMORY", byVk["VK_ERROR_OUT_OF_HOST_MEMORY"])
}

// UseLibcTypes=true renders bare primitive members as the CXxx aliases
// emit's preamble declares, instead of Go's own builtin names.
func TestLowerUseLibcTypesRendersCAliases(t *testing.T) {
	sel := fixtureSelection(t)

	opts := lower.DefaultOptions()
	opts.UseLibcTypes = true
	lw, err := lower.Lower(sel, opts)
	require.NoError(t, err)

	var extent *lower.LoweredStruct
	for i := range lw.Structs {
		if lw.Structs[i].VkName == "VkExtent2D" {
			extent = &lw.Structs[i]
		}
	}
	require.NotNil(t, extent)
	for _, f := range extent.Fields {
		assert.Equal(t, "CUint32", f.GoType)
	}
}
