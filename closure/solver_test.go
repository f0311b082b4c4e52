package closure_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vkreg/vkgen/closure"
	"github.com/vkreg/vkgen/crawler"
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
    <type category="struct" name="VkApplicationInfo">
      <member><type>uint32_t</type><name>apiVersion</name></member>
    </type>
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
  <commands>
    <command>
      <proto><type>void</type><name>vkDestroyInstance</name></proto>
      <param><type>VkInstance</type><name>instance</name></param>
    </command>
    <command>
      <proto><type>void</type><name>vkDestroySurfaceKHR</name></proto>
      <param><type>VkSurfaceKHR</type><name>surface</name></param>
    </command>
    <command>
      <proto><type>void</type><name>vkNewCommand11</name></proto>
    </command>
  </commands>
  <feature api="vulkan" name="VK_VERSION_1_0" number="1.0">
    <require>
      <type name="VkApplicationInfo"/>
      <type name="VkResult"/>
      <command name="vkDestroyInstance"/>
      <enum name="VK_UUID_SIZE"/>
    </require>
  </feature>
  <feature api="vulkan" name="VK_VERSION_1_1" number="1.1">
    <require>
      <command name="vkNewCommand11"/>
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
    <extension name="VK_KHR_withdrawn" number="2">
      <require>
        <type name="VkApplicationInfo"/>
      </require>
      <remove>
        <command name="vkDestroyInstance"/>
      </remove>
    </extension>
  </extensions>
</registry>
`

func fixture(t *testing.T) *registry.Registry {
	t.Helper()
	a := registry.NewArena()
	a.Reserve(len(fixtureDoc) * 2)
	reg := registry.NewRegistry(a)
	c := crawler.New(crawler.NewXMLSource(strings.NewReader(fixtureDoc)), reg)
	require.NoError(t, c.Crawl())
	return reg
}

func TestSolveIncludesOnlyFeaturesUpToTarget(t *testing.T) {
	reg := fixture(t)
	sel, err := closure.Solve(reg, registry.Version{Major: 1, Minor: 0}, nil)
	require.NoError(t, err)
	assert.Contains(t, sel.Commands, "vkDestroyInstance")
	assert.NotContains(t, sel.Commands, "vkNewCommand11")
}

func TestSolveIncludesNewerCoreVersionWhenRequested(t *testing.T) {
	reg := fixture(t)
	sel, err := closure.Solve(reg, registry.Version{Major: 1, Minor: 1}, nil)
	require.NoError(t, err)
	assert.Contains(t, sel.Commands, "vkDestroyInstance")
	assert.Contains(t, sel.Commands, "vkNewCommand11")
}

func TestSolveVkResultCoreVariants(t *testing.T) {
	reg := fixture(t)
	sel, err := closure.Solve(reg, registry.Version{Major: 1, Minor: 0}, nil)
	require.NoError(t, err)
	variants := sel.Variants["VkResult"]
	require.Len(t, variants, 3)
	byName := map[string]int64{}
	for _, v := range variants {
		byName[v.Name.String()] = v.IntValue()
	}
	assert.Equal(t, int64(0), byName["VK_SUCCESS"])
	assert.Equal(t, int64(1), byName["VK_NOT_READY"])
	assert.Equal(t, int64(-1), byName["VK_ERROR_OUT_OF_HOST_MEMORY"])
}

func TestSolveExtensionRequiresTransitiveTypes(t *testing.T) {
	reg := fixture(t)
	sel, err := closure.Solve(reg, registry.Version{Major: 1, Minor: 0}, []string{"VK_KHR_surface"})
	require.NoError(t, err)
	assert.Contains(t, sel.Types, "VkSurfaceKHR")
	assert.Contains(t, sel.Commands, "vkDestroySurfaceKHR")
}

func TestSolveExtensionEnumInjectionOffset(t *testing.T) {
	reg := fixture(t)
	sel, err := closure.Solve(reg, registry.Version{Major: 1, Minor: 0}, []string{"VK_KHR_surface"})
	require.NoError(t, err)
	variants := sel.Variants["VkColorSpaceKHR"]
	require.Len(t, variants, 1)
	assert.Equal(t, "VK_COLOR_SPACE_SRGB_NONLINEAR_KHR", variants[0].Name.String())
	assert.Equal(t, int64(1_000_000_000), variants[0].IntValue())
}

func TestSolveRemoveAfterRequireLeavesCommandAbsent(t *testing.T) {
	reg := fixture(t)
	sel, err := closure.Solve(reg, registry.Version{Major: 1, Minor: 0}, []string{"VK_KHR_withdrawn"})
	require.NoError(t, err)
	assert.NotContains(t, sel.Commands, "vkDestroyInstance")
}

func TestSolveUnknownExtensionAborts(t *testing.T) {
	reg := fixture(t)
	_, err := closure.Solve(reg, registry.Version{Major: 1, Minor: 0}, []string{"VK_totally_made_up"})
	require.Error(t, err)
	var unkErr *registry.UnknownExtensionError
	assert.ErrorAs(t, err, &unkErr)
}

func TestSolveIsDeterministicAcrossRuns(t *testing.T) {
	reg := fixture(t)
	sel1, err := closure.Solve(reg, registry.Version{Major: 1, Minor: 1}, []string{"VK_KHR_surface"})
	require.NoError(t, err)
	sel2, err := closure.Solve(reg, registry.Version{Major: 1, Minor: 1}, []string{"VK_KHR_surface"})
	require.NoError(t, err)
	assert.Equal(t, sel1.Types, sel2.Types)
	assert.Equal(t, sel1.Commands, sel2.Commands)
}
