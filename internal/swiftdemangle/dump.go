package swiftdemangle

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

// maxDumpNodes bounds the output of a dump. Shared subtrees are printed once
// per parent, so a small tree can expand to a very large listing.
const maxDumpNodes = 1 << 16

// DumpTree renders n as an indented listing with one node per line:
//
//	kind=Global
//	  kind=Function
//	    kind=Module, text="main"
func DumpTree(n *Node) (string, error) {
	var sb strings.Builder
	if err := PrintTree(&sb, n, DefaultMaxDepth); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// PrintTree writes the listing produced by DumpTree to w, failing with
// ErrBudgetExceeded when the tree nests deeper than maxDepth.
func PrintTree(w io.Writer, n *Node, maxDepth int) error {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	t := treeDumper{w: w, maxDepth: maxDepth}
	t.dump(n, 0)
	return t.err
}

type treeDumper struct {
	w        io.Writer
	maxDepth int
	nodes    int
	buf      []byte
	err      error
}

func (t *treeDumper) dump(n *Node, depth int) {
	if t.err != nil {
		return
	}
	if depth > t.maxDepth {
		t.err = fmt.Errorf("%w: tree deeper than %d", ErrBudgetExceeded, t.maxDepth)
		return
	}
	if t.nodes++; t.nodes > maxDumpNodes {
		t.err = fmt.Errorf("%w: more than %d nodes", ErrBudgetExceeded, maxDumpNodes)
		return
	}

	t.buf = t.buf[:0]
	for i := 0; i < depth; i++ {
		t.buf = append(t.buf, "  "...)
	}
	if n == nil {
		t.buf = append(t.buf, "<<NULL>>\n"...)
		_, t.err = t.w.Write(t.buf)
		return
	}
	t.buf = append(t.buf, "kind="...)
	t.buf = append(t.buf, n.kind...)
	switch n.payload {
	case payloadText:
		t.buf = append(t.buf, ", text="...)
		t.buf = strconv.AppendQuote(t.buf, n.text)
	case payloadIndex:
		t.buf = append(t.buf, ", index="...)
		t.buf = strconv.AppendUint(t.buf, n.index, 10)
	}
	t.buf = append(t.buf, '\n')
	if _, t.err = t.w.Write(t.buf); t.err != nil {
		return
	}
	for _, child := range n.children {
		t.dump(child, depth+1)
	}
}
