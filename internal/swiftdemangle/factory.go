package swiftdemangle

import (
	"strconv"

	"github.com/appsworld/go-swiftdemangle/internal/arena"
)

// Initial slab sizes. The node slab mirrors the classic 100-node first slab.
const (
	initialNodeSlab  = 100
	initialChildSlab = 256
	initialTextSlab  = 1024
)

// Factory owns the memory of every node it creates.
//
// Nodes, child arrays and copied text live in arena slabs; nothing is freed
// individually. Clear releases everything at once and keeps the grown slab
// capacity for the next session. A Factory is not safe for concurrent use.
type Factory struct {
	nodes    arena.Arena[Node]
	children arena.Arena[*Node]
	text     arena.Bytes
}

// NewFactory returns an empty factory.
func NewFactory() *Factory {
	return &Factory{
		nodes:    *arena.New[Node](initialNodeSlab),
		children: *arena.New[*Node](initialChildSlab),
		text:     *arena.NewBytes(initialTextSlab),
	}
}

// Clear invalidates every node created so far and rewinds the arenas.
func (f *Factory) Clear() {
	f.nodes.Reset()
	f.children.Reset()
	f.text.Reset()
}

// SlabSize reports the capacity of the newest node slab.
func (f *Factory) SlabSize() int {
	return f.nodes.SlabSize()
}

// NumSlabs reports how many node slabs are held.
func (f *Factory) NumSlabs() int {
	return f.nodes.NumSlabs()
}

func (f *Factory) CreateNode(kind NodeKind) *Node {
	n := f.nodes.New()
	n.kind = kind
	return n
}

func (f *Factory) CreateNodeWithIndex(kind NodeKind, index uint64) *Node {
	n := f.CreateNode(kind)
	n.payload = payloadIndex
	n.index = index
	return n
}

// CreateNodeWithText creates a text node that aliases text. Use it for
// literals and for slices of the input being demangled.
func (f *Factory) CreateNodeWithText(kind NodeKind, text string) *Node {
	n := f.CreateNode(kind)
	n.payload = payloadText
	n.text = text
	return n
}

// CreateNodeWithAllocatedText creates a text node holding a copy of text in
// arena memory.
func (f *Factory) CreateNodeWithAllocatedText(kind NodeKind, text string) *Node {
	return f.CreateNodeWithText(kind, f.text.CopyString(text))
}

// CreateNodeWithChildren creates a node of kind with the given children. It
// returns nil if any child is nil.
func (f *Factory) CreateNodeWithChildren(kind NodeKind, children ...*Node) *Node {
	for _, c := range children {
		if c == nil {
			return nil
		}
	}
	n := f.CreateNode(kind)
	for _, c := range children {
		f.addChild(n, c)
	}
	return n
}

// addChild appends child to parent, growing the child array in place when it
// sits at the arena frontier.
func (f *Factory) addChild(parent, child *Node) {
	if len(parent.children) == cap(parent.children) {
		parent.children = f.children.GrowInPlace(parent.children, 1)
	}
	parent.children = append(parent.children, child)
}

// cloneWithKind returns a new node of kind carrying n's payload and children.
func (f *Factory) cloneWithKind(n *Node, kind NodeKind) *Node {
	out := f.CreateNode(kind)
	out.payload = n.payload
	out.index = n.index
	out.text = n.text
	if len(n.children) > 0 {
		out.children = f.children.Allocate(len(n.children))
		copy(out.children, n.children)
	}
	return out
}

// textBuilder accumulates text directly in the factory's byte arena.
type textBuilder struct {
	f   *Factory
	buf []byte
}

func (f *Factory) newTextBuilder() textBuilder {
	return textBuilder{f: f}
}

func (b *textBuilder) reserve(n int) {
	if free := cap(b.buf) - len(b.buf); free < n {
		b.buf = b.f.text.GrowInPlace(b.buf, n-free)
	}
}

func (b *textBuilder) appendString(s string) {
	b.reserve(len(s))
	b.buf = append(b.buf, s...)
}

func (b *textBuilder) appendByte(c byte) {
	b.reserve(1)
	b.buf = append(b.buf, c)
}

func (b *textBuilder) appendInt(v int64) {
	b.reserve(20)
	b.buf = strconv.AppendInt(b.buf, v, 10)
}

func (b *textBuilder) len() int {
	return len(b.buf)
}

func (b *textBuilder) String() string {
	return arena.String(b.buf)
}
