// Package registry holds the in-memory model of a Vulkan registry: the
// interned string arena and the typed inventory of types, commands,
// features, and extensions that the crawler populates.
package registry

import "fmt"

// Sym is a stable handle into an Arena's backing buffer. Two Syms compare
// equal iff they reference the same bytes of the same arena; this is the
// index-based stand-in for the raw "*const str into a stable buffer"
// comparisons the original implementation used.
type Sym struct {
	arena *Arena
	off   int
	n     int
}

// Zero reports whether s was never assigned (the zero value of Sym).
func (s Sym) Zero() bool { return s.arena == nil }

// String returns the interned text s refers to.
func (s Sym) String() string {
	if s.arena == nil {
		return ""
	}
	return string(s.arena.buf[s.off : s.off+s.n])
}

// Equal compares two Syms by underlying bytes, which is the "equally
// correct" alternative to pointer-identity comparison the spec allows.
func (s Sym) Equal(o Sym) bool {
	if s.arena == o.arena && s.off == o.off && s.n == o.n {
		return true
	}
	return s.String() == o.String()
}

// Arena is a single append-only character buffer. Intern returns a stable
// Sym into the buffer that remains valid for the arena's lifetime. The
// buffer is reserved up front from the expected input size and must never
// reallocate after the first intern: reallocation would invalidate every
// Sym issued so far, so it is treated as a fatal implementation bug rather
// than something callers can recover from.
type Arena struct {
	buf      []byte
	reserved bool
}

// NewArena creates an arena with no reserved capacity. Callers must call
// Reserve before the first Intern.
func NewArena() *Arena {
	return &Arena{}
}

// Reserve pre-sizes the backing buffer. It is the caller's responsibility
// to reserve at least as many bytes as will ever be interned; Reserve is
// typically called once with the length of the source XML, which is an
// upper bound on the total interned text.
func (a *Arena) Reserve(n int) {
	if a.reserved {
		panic("registry: Arena.Reserve called more than once")
	}
	a.buf = make([]byte, 0, n)
	a.reserved = true
}

// Intern appends s to the arena and returns a stable Sym referencing it.
// It panics if the append would force the backing slice to reallocate,
// since that would invalidate every Sym already handed out.
func (a *Arena) Intern(s string) Sym {
	if !a.reserved {
		panic("registry: Arena.Intern called before Reserve")
	}
	prevCap := cap(a.buf)
	off := len(a.buf)
	a.buf = append(a.buf, s...)
	if cap(a.buf) != prevCap {
		panic(fmt.Sprintf("registry: arena reallocated while interning %q; Reserve was undersized", s))
	}
	return Sym{arena: a, off: off, n: len(s)}
}

// Len returns the number of bytes interned so far.
func (a *Arena) Len() int { return len(a.buf) }

// Cap returns the arena's reserved capacity.
func (a *Arena) Cap() int { return cap(a.buf) }
