package arena

import (
	"fmt"
	"unsafe"
)

// MaxAlign is the largest object alignment Bytes supports.
const MaxAlign = 16

// Bytes is a raw byte arena for auxiliary buffers such as node text.
//
// The zero value is ready to use.
type Bytes struct {
	Arena[byte]
}

// NewBytes returns a byte arena whose first slab holds at least 2*initial bytes.
func NewBytes(initial int) *Bytes {
	return &Bytes{Arena: *New[byte](initial)}
}

// AllocateObjects returns room for count objects of objectSize bytes whose
// first byte is aligned to objectAlignment.
func (b *Bytes) AllocateObjects(objectSize, objectAlignment, count int) []byte {
	checkObject(objectSize, objectAlignment)
	if count < 0 {
		panic(fmt.Sprintf("arena: negative object count %d", count))
	}
	return b.allocate(objectSize*count, objectAlignment)
}

// GrowObjects is GrowInPlace for a region holding objects of objectSize bytes.
// The region keeps objectAlignment when it has to move.
func (b *Bytes) GrowObjects(region []byte, objectSize, objectAlignment, additionalCount int) []byte {
	checkObject(objectSize, objectAlignment)
	return b.grow(region, objectSize, additionalCount, objectAlignment)
}

// CopyString copies s into the arena and returns a string backed by arena
// memory. The result is only valid until the next Reset.
func (b *Bytes) CopyString(s string) string {
	if s == "" {
		return ""
	}
	buf := b.Allocate(len(s))
	copy(buf, s)
	return String(buf)
}

// String returns a string sharing buf's memory.
func String(buf []byte) string {
	if len(buf) == 0 {
		return ""
	}
	return unsafe.String(unsafe.SliceData(buf), len(buf))
}

func checkObject(size, align int) {
	if size <= 0 {
		panic(fmt.Sprintf("arena: invalid object size %d", size))
	}
	if align <= 0 || align > MaxAlign || align&(align-1) != 0 {
		panic(fmt.Sprintf("arena: unsupported alignment %d", align))
	}
}
