// Package arena implements the slab allocators that own demangled node trees.
//
// An Arena hands out regions from the most recently allocated slab by bumping
// a frontier index. Individual regions are never freed; Reset rewinds the
// frontier to the start of the newest (largest) slab and drops the older ones.
// Slab capacity only ever grows, so a session that is cleared and reused keeps
// allocating from the same memory.
package arena

import (
	"fmt"
	"unsafe"
)

// MinSlabSize is the smallest slab capacity, in elements, an arena will use.
const MinSlabSize = 64

type slab[T any] struct {
	buf      []T
	previous *slab[T]
}

// Arena is a bump allocator for values of type T.
//
// The zero value is ready to use.
type Arena[T any] struct {
	cur      *slab[T]
	used     int
	slabSize int
	numSlabs int
}

// New returns an arena whose first slab holds at least 2*initial elements.
func New[T any](initial int) *Arena[T] {
	if initial < MinSlabSize/2 {
		initial = MinSlabSize / 2
	}
	return &Arena[T]{slabSize: initial}
}

// Allocate returns count zeroed elements. The returned slice has len and cap
// equal to count.
func (a *Arena[T]) Allocate(count int) []T {
	return a.allocate(count, 1)
}

// New returns a pointer to a single zeroed element.
func (a *Arena[T]) New() *T {
	return &a.allocate(1, 1)[0]
}

// GrowInPlace makes room for at least additional more elements in s.
//
// If s ends exactly at the frontier of the current slab and the slab has
// headroom, the frontier is advanced and the result shares its base with s.
// Otherwise a new region of cap(s)+growth elements is allocated, where growth
// is at least additional, 4 and cap(s); the contents of s are copied and s is
// abandoned until the next Reset.
func (a *Arena[T]) GrowInPlace(s []T, additional int) []T {
	return a.grow(s, 1, additional, 1)
}

// Reset rewinds the arena to the start of its newest slab and releases every
// older slab. The slab size reached so far is kept.
func (a *Arena[T]) Reset() {
	if a.cur == nil {
		return
	}
	clear(a.cur.buf[:a.used])
	a.cur.previous = nil
	a.used = 0
	a.numSlabs = 1
}

// SlabSize reports the capacity, in elements, of the newest slab.
func (a *Arena[T]) SlabSize() int {
	return a.slabSize
}

// NumSlabs reports how many slabs are currently held.
func (a *Arena[T]) NumSlabs() int {
	return a.numSlabs
}

// Used reports how many elements of the newest slab have been handed out.
func (a *Arena[T]) Used() int {
	return a.used
}

func (a *Arena[T]) allocate(count, align int) []T {
	if count < 0 {
		panic(fmt.Sprintf("arena: negative allocation count %d", count))
	}
	if align <= 0 || align&(align-1) != 0 {
		panic(fmt.Sprintf("arena: alignment %d is not a power of two", align))
	}
	if a.cur != nil {
		pad := a.padding(align)
		if a.used+pad+count <= len(a.cur.buf) {
			return a.take(pad, count)
		}
	}
	a.newSlab(count + align - 1)
	return a.take(a.padding(align), count)
}

func (a *Arena[T]) take(pad, count int) []T {
	start := a.used + pad
	a.used = start + count
	return a.cur.buf[start : start+count : start+count]
}

// padding returns the number of elements needed to move the frontier to an
// address that is a multiple of align bytes.
func (a *Arena[T]) padding(align int) int {
	if align == 1 {
		return 0
	}
	var zero T
	size := unsafe.Sizeof(zero)
	if size == 0 {
		return 0
	}
	addr := uintptr(unsafe.Pointer(unsafe.SliceData(a.cur.buf))) + uintptr(a.used)*size
	rem := addr % uintptr(align)
	if rem == 0 {
		return 0
	}
	return int((uintptr(align) - rem + size - 1) / size)
}

func (a *Arena[T]) newSlab(min int) {
	if a.slabSize < MinSlabSize/2 {
		a.slabSize = MinSlabSize / 2
	}
	size := a.slabSize * 2
	if size < min {
		size = min
	}
	a.slabSize = size
	a.cur = &slab[T]{buf: make([]T, size), previous: a.cur}
	a.used = 0
	a.numSlabs++
}

// atFrontier reports whether the last element of s's capacity is the last
// element handed out from the current slab.
func (a *Arena[T]) atFrontier(s []T) bool {
	if cap(s) == 0 || a.cur == nil || a.used == 0 || cap(s) > a.used {
		return false
	}
	return &s[:cap(s)][cap(s)-1] == &a.cur.buf[a.used-1]
}

// grow extends s by additional objects of unit elements each.
func (a *Arena[T]) grow(s []T, unit, additional, align int) []T {
	if additional <= 0 {
		return s
	}
	extra := additional * unit
	if a.atFrontier(s) && a.used+extra <= len(a.cur.buf) {
		start := a.used - cap(s)
		a.used += extra
		return a.cur.buf[start : start+len(s) : start+cap(s)+extra]
	}
	oldCount := cap(s) / unit
	growth := max(additional, 4, oldCount)
	fresh := a.allocate((oldCount+growth)*unit, align)
	copy(fresh, s)
	return fresh[:len(s)]
}
