package crawler

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vkreg/vkgen/registry"
)

const testDoc = `<?xml version="1.0"?>
<registry>
  <types>
    <type name="uint32_t" requires="stdint.h"/>
    <type category="basetype">typedef <type>uint32_t</type> <name>VkFlags</name>;</type>
    <type requires="VkFlags" category="bitmask">typedef <type>VkFlags</type> <name>VkCullModeFlags</name>;</type>
    <type category="handle" objtypeenum="VK_OBJECT_TYPE_INSTANCE"><type>VK_DEFINE_HANDLE</type>(<name>VkInstance</name>)</type>
    <type category="handle"><type>VK_DEFINE_NON_DISPATCHABLE_HANDLE</type>(<name>VkSurfaceKHR</name>)</type>
    <type category="enum" name="VkResult"/>
    <type category="struct" name="VkApplicationInfo">
      <member>const <type>void</type>*<name>pNext</name></member>
      <member><type>uint32_t</type><name>apiVersion</name></member>
      <member><type>uint8_t</type><name>pipelineCacheUUID</name>[<enum>VK_UUID_SIZE</enum>]</member>
    </type>
    <type category="define" name="VK_API_VERSION_1_0">#define VK_API_VERSION_1_0 1</type>
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
      <param optional="true"><type>void</type>*<name>pAllocator</name></param>
    </command>
  </commands>
  <feature api="vulkan" name="VK_VERSION_1_0" number="1.0">
    <require>
      <type name="VkApplicationInfo"/>
      <command name="vkDestroyInstance"/>
      <enum name="VK_UUID_SIZE"/>
    </require>
  </feature>
  <extensions>
    <extension name="VK_KHR_surface" number="1">
      <require>
        <type name="VkSurfaceKHR"/>
        <enum offset="0" extends="VkResult" name="VK_ERROR_SURFACE_LOST_KHR"/>
        <enum offset="0" dir="-" extends="VkResult" name="VK_ERROR_NATIVE_WINDOW_IN_USE_KHR"/>
      </require>
    </extension>
  </extensions>
</registry>
`

func crawlFixture(t *testing.T) *registry.Registry {
	t.Helper()
	a := registry.NewArena()
	a.Reserve(len(testDoc) * 2)
	reg := registry.NewRegistry(a)
	c := New(NewXMLSource(strings.NewReader(testDoc)), reg)
	require.NoError(t, c.Crawl())
	return reg
}

func TestCrawlRegistersAllTypeCategories(t *testing.T) {
	reg := crawlFixture(t)

	for _, name := range []string{
		"uint32_t", "VkFlags", "VkCullModeFlags", "VkInstance", "VkSurfaceKHR",
		"VkResult", "VkApplicationInfo", "VK_API_VERSION_1_0",
	} {
		assert.Contains(t, reg.Types, name, "expected %s to be registered", name)
	}
}

func TestCrawlHandleDispatchability(t *testing.T) {
	reg := crawlFixture(t)
	assert.True(t, reg.Types["VkInstance"].Dispatchable)
	assert.False(t, reg.Types["VkSurfaceKHR"].Dispatchable)
}

func TestCrawlStructMemberComposition(t *testing.T) {
	reg := crawlFixture(t)
	st := reg.Types["VkApplicationInfo"]
	require.Len(t, st.Fields, 3)

	pNext := st.Fields[0]
	assert.Equal(t, "pNext", pNext.Name.String())
	assert.True(t, pNext.Type.IsPointer())
	assert.True(t, pNext.Type.IsConst())

	apiVersion := st.Fields[1]
	assert.Equal(t, "apiVersion", apiVersion.Name.String())
	assert.Equal(t, registry.KindVar, apiVersion.Type.Kind)

	uuid := st.Fields[2]
	assert.Equal(t, "pipelineCacheUUID", uuid.Name.String())
	assert.True(t, uuid.Type.IsArray())
	assert.Equal(t, "VK_UUID_SIZE", uuid.Type.Size.String())
}

func TestCrawlApiConstants(t *testing.T) {
	reg := crawlFixture(t)
	require.Contains(t, reg.Types, "VK_UUID_SIZE")
	assert.Equal(t, "16", reg.Types["VK_UUID_SIZE"].Value.String())
	require.Len(t, reg.CoreConsts, 1)
	assert.Equal(t, "VK_UUID_SIZE", reg.CoreConsts[0].String())
}

func TestCrawlEnumVariants(t *testing.T) {
	reg := crawlFixture(t)
	result := reg.Types["VkResult"]
	require.Len(t, result.Variants, 2)
	assert.Equal(t, int64(0), result.Variants[0].IntValue())
	assert.Equal(t, int64(-1), result.Variants[1].IntValue())
}

func TestCrawlBitmaskVariantsBitpos(t *testing.T) {
	reg := crawlFixture(t)
	cull := reg.Types["VkCullModeFlags"]
	require.Len(t, cull.Variants, 2)
	assert.Equal(t, int64(1), cull.Variants[0].IntValue())
	assert.Equal(t, int64(2), cull.Variants[1].IntValue())
}

func TestCrawlCommandParams(t *testing.T) {
	reg := crawlFixture(t)
	cmd := reg.Commands["vkDestroyInstance"]
	require.NotNil(t, cmd)
	require.Len(t, cmd.Params, 2)
	assert.Equal(t, "instance", cmd.Params[0].Name.String())
	assert.True(t, cmd.Params[1].Type.IsPointer())
}

func TestCrawlFeatureRequireContents(t *testing.T) {
	reg := crawlFixture(t)
	feat := reg.Features[registry.Version{Major: 1, Minor: 0}]
	require.NotNil(t, feat)
	require.Len(t, feat.Require, 3)
	assert.Equal(t, registry.IfaceType, feat.Require[0].Kind)
	assert.Equal(t, registry.IfaceCommand, feat.Require[1].Kind)
	assert.Equal(t, registry.IfaceApiConst, feat.Require[2].Kind)
}

func TestCrawlExtensionOffsetEnumMath(t *testing.T) {
	reg := crawlFixture(t)
	ext := reg.Extensions["VK_KHR_surface"]
	require.NotNil(t, ext)
	require.Len(t, ext.Require, 3)

	lost := ext.Require[1]
	require.Equal(t, registry.IfaceExtnEnum, lost.Kind)
	assert.Equal(t, "VkResult", lost.Extends.String())
	assert.Equal(t, int64(1_000_000_000), lost.Variant.IntValue())

	inUse := ext.Require[2]
	assert.Equal(t, int64(-1_000_000_000), inUse.Variant.IntValue())
}

func TestCrawlRejectsMalformedComposition(t *testing.T) {
	const bad = `<registry>
  <types>
    <type category="struct" name="Bad">
      <member><type>void</type>*<name>p</name>[4]</member>
    </type>
  </types>
</registry>`
	a := registry.NewArena()
	a.Reserve(len(bad) * 2)
	reg := registry.NewRegistry(a)
	c := New(NewXMLSource(strings.NewReader(bad)), reg)
	err := c.Crawl()
	require.Error(t, err)
	var structErr *registry.StructureError
	assert.ErrorAs(t, err, &structErr)
}
