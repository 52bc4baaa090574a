package swiftdemangle

type payloadKind uint8

const (
	payloadNone payloadKind = iota
	payloadIndex
	payloadText
)

// Node represents a demangled element.
//
// Nodes are owned by the Factory that created them and stay valid until that
// factory is cleared. A node reached through a substitution is shared: the
// same *Node may hang below several parents.
type Node struct {
	kind     NodeKind
	payload  payloadKind
	index    uint64
	text     string
	children []*Node
}

// Kind returns the node kind.
func (n *Node) Kind() NodeKind {
	return n.kind
}

func (n *Node) HasText() bool {
	return n.payload == payloadText
}

// Text returns the text payload, or "" when the node carries none.
func (n *Node) Text() string {
	return n.text
}

func (n *Node) HasIndex() bool {
	return n.payload == payloadIndex
}

// Index returns the integer payload, or 0 when the node carries none.
func (n *Node) Index() uint64 {
	return n.index
}

func (n *Node) NumChildren() int {
	return len(n.children)
}

// Child returns the i-th child or nil when i is out of range.
func (n *Node) Child(i int) *Node {
	if i < 0 || i >= len(n.children) {
		return nil
	}
	return n.children[i]
}

func (n *Node) FirstChild() *Node {
	return n.Child(0)
}

func (n *Node) LastChild() *Node {
	return n.Child(len(n.children) - 1)
}

// Children returns the child list. The slice aliases arena memory and must
// not be modified.
func (n *Node) Children() []*Node {
	return n.children[:len(n.children):len(n.children)]
}

// reverseChildren reverses the children from index start onwards.
func (n *Node) reverseChildren(start int) {
	for i, j := start, len(n.children)-1; i < j; i, j = i+1, j-1 {
		n.children[i], n.children[j] = n.children[j], n.children[i]
	}
}
