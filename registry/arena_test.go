package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArenaInternStability(t *testing.T) {
	a := NewArena()
	a.Reserve(128)

	names := []string{"VkInstance", "VkResult", "vkCreateInstance", "VK_SUCCESS"}
	syms := make([]Sym, len(names))
	for i, n := range names {
		syms[i] = a.Intern(n)
	}

	// Interning more strings must not change any previously returned Sym's
	// bytes; this is the arena-stability property from the spec.
	a.Intern("a later string that must not disturb earlier interns")

	for i, n := range names {
		assert.Equal(t, n, syms[i].String())
	}
}

func TestArenaInternPanicsWithoutReserve(t *testing.T) {
	a := NewArena()
	assert.Panics(t, func() { a.Intern("x") })
}

func TestArenaReserveTwicePanics(t *testing.T) {
	a := NewArena()
	a.Reserve(8)
	assert.Panics(t, func() { a.Reserve(8) })
}

func TestArenaOverflowPanics(t *testing.T) {
	a := NewArena()
	a.Reserve(2)
	require.NotPanics(t, func() { a.Intern("ab") })
	assert.Panics(t, func() { a.Intern("c") })
}

func TestSymEquality(t *testing.T) {
	a := NewArena()
	a.Reserve(32)
	s1 := a.Intern("VkInstance")

	b := NewArena()
	b.Reserve(32)
	s2 := b.Intern("VkInstance")

	assert.True(t, s1.Equal(s2), "Syms from different arenas with equal bytes must compare equal")
	assert.False(t, s1.Equal(a.Intern("VkDevice")))
}
