package swiftdemangle

import "testing"

func TestFactoryNodes(t *testing.T) {
	f := NewFactory()
	leaf := f.CreateNode(KindEmptyList)
	if leaf.HasText() || leaf.HasIndex() || leaf.NumChildren() != 0 {
		t.Fatalf("plain node carries a payload")
	}
	idx := f.CreateNodeWithIndex(KindIndex, 7)
	if !idx.HasIndex() || idx.Index() != 7 || idx.HasText() {
		t.Fatalf("index node: got %d", idx.Index())
	}
	txt := f.CreateNodeWithText(KindIdentifier, "foo")
	if !txt.HasText() || txt.Text() != "foo" || txt.HasIndex() {
		t.Fatalf("text node: got %q", txt.Text())
	}

	parent := f.CreateNodeWithChildren(KindTuple, leaf, idx, txt)
	if parent.NumChildren() != 3 {
		t.Fatalf("got %d children want 3", parent.NumChildren())
	}
	if parent.FirstChild() != leaf || parent.LastChild() != txt || parent.Child(1) != idx {
		t.Fatalf("children out of order")
	}
	if parent.Child(3) != nil || parent.Child(-1) != nil {
		t.Fatalf("out of range Child should be nil")
	}
	if f.CreateNodeWithChildren(KindTuple, leaf, nil) != nil {
		t.Fatalf("nil child should fail the construction")
	}
}

func TestFactoryAllocatedText(t *testing.T) {
	f := NewFactory()
	buf := []byte("hello")
	n := f.CreateNodeWithAllocatedText(KindIdentifier, string(buf))
	buf[0] = 'j'
	if n.Text() != "hello" {
		t.Fatalf("got %q want %q", n.Text(), "hello")
	}
}

func TestFactoryAddChildGrowth(t *testing.T) {
	f := NewFactory()
	parent := f.CreateNode(KindTypeList)
	var want []*Node
	for i := 0; i < 100; i++ {
		child := f.CreateNodeWithIndex(KindIndex, uint64(i))
		// Interleave another parent so growth cannot always happen in place.
		if i%10 == 0 {
			f.addChild(f.CreateNode(KindTypeList), child)
		}
		f.addChild(parent, child)
		want = append(want, child)
	}
	for i, c := range parent.Children() {
		if c != want[i] || c.Index() != uint64(i) {
			t.Fatalf("child %d: got index %d", i, c.Index())
		}
	}
}

func TestFactoryClearKeepsCapacity(t *testing.T) {
	f := NewFactory()
	for i := 0; i < 10000; i++ {
		f.CreateNode(KindType)
	}
	size := f.SlabSize()
	if f.NumSlabs() < 2 {
		t.Fatalf("expected the node arena to have grown, NumSlabs = %d", f.NumSlabs())
	}
	f.Clear()
	if f.NumSlabs() != 1 || f.SlabSize() != size {
		t.Fatalf("after Clear: NumSlabs = %d SlabSize = %d, want 1 and %d", f.NumSlabs(), f.SlabSize(), size)
	}
	n := f.CreateNode(KindModule)
	if n.Kind() != KindModule || n.NumChildren() != 0 || n.HasText() {
		t.Fatalf("node from a cleared factory is not zeroed")
	}
}

func TestCloneWithKind(t *testing.T) {
	f := NewFactory()
	ident := f.CreateNodeWithText(KindIdentifier, "main")
	mod := f.cloneWithKind(ident, KindModule)
	if mod == ident || mod.Kind() != KindModule || mod.Text() != "main" {
		t.Fatalf("cloneWithKind: got %s %q", mod.Kind(), mod.Text())
	}
	if ident.Kind() != KindIdentifier {
		t.Fatalf("cloneWithKind modified its input")
	}
}
