package swiftdemangle

import (
	"errors"
	"fmt"
	"testing"
)

type resolverCall struct {
	control  byte
	offset   int32
	refIndex int
}

type stubResolver struct {
	calls []resolverCall
	fail  bool
}

func (r *stubResolver) ResolveType(f *Factory, control byte, offset int32, refIndex int) (*Node, error) {
	r.calls = append(r.calls, resolverCall{control, offset, refIndex})
	if r.fail {
		return nil, fmt.Errorf("no symbol at offset %d", offset)
	}
	return f.CreateNodeWithChildren(KindType,
		f.CreateNodeWithChildren(KindStructure,
			f.CreateNodeWithText(KindModule, "main"),
			f.CreateNodeWithText(KindIdentifier, "Resolved"))), nil
}

func TestSymbolicReference(t *testing.T) {
	r := &stubResolver{}
	d := New(WithResolver(r))
	node, err := d.DemangleType("\x01\x10\x00\x00\x00Sg")
	if err != nil {
		t.Fatalf("DemangleType: %v", err)
	}
	if len(r.calls) != 1 {
		t.Fatalf("resolver called %d times want 1", len(r.calls))
	}
	if got, want := r.calls[0], (resolverCall{control: 1, offset: 16, refIndex: 1}); got != want {
		t.Fatalf("resolver call: got %+v want %+v", got, want)
	}
	opt := node.FirstChild()
	if opt.Kind() != KindBoundGenericEnum {
		t.Fatalf("got %s want BoundGenericEnum", opt.Kind())
	}
	if got := opt.Child(1).FirstChild().FirstChild().Child(1).Text(); got != "Resolved" {
		t.Fatalf("argument: got %q want %q", got, "Resolved")
	}
}

func TestSymbolicReferenceNegativeOffset(t *testing.T) {
	r := &stubResolver{}
	d := New(WithResolver(r))
	if _, err := d.DemangleType("Si_\x02\xfc\xff\xff\xfft"); err != nil {
		t.Fatalf("DemangleType: %v", err)
	}
	if got, want := r.calls[0], (resolverCall{control: 2, offset: -4, refIndex: 4}); got != want {
		t.Fatalf("resolver call: got %+v want %+v", got, want)
	}
}

func TestSymbolicReferenceIsSubstitution(t *testing.T) {
	d := New(WithResolver(&stubResolver{}))
	node, err := d.DemangleType("\x01\x10\x00\x00\x00_AAt")
	if err != nil {
		t.Fatalf("DemangleType: %v", err)
	}
	tuple := node.FirstChild()
	if tuple.NumChildren() != 2 {
		t.Fatalf("tuple has %d elements want 2", tuple.NumChildren())
	}
	if tuple.Child(0).FirstChild() != tuple.Child(1).FirstChild() {
		t.Fatalf("AA did not refer to the resolved node")
	}
}

func TestSymbolicReferenceErrors(t *testing.T) {
	cases := []struct {
		name string
		opts []Option
		in   string
	}{
		{name: "NoResolver", in: "\x01\x10\x00\x00\x00"},
		{name: "ResolverError", opts: []Option{WithResolver(&stubResolver{fail: true})}, in: "\x01\x10\x00\x00\x00"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := New(tc.opts...).DemangleType(tc.in)
			if !errors.Is(err, ErrUnresolvedSymbolicRef) {
				t.Fatalf("got %v want ErrUnresolvedSymbolicRef", err)
			}
		})
	}

	// A truncated offset is a plain syntax error.
	_, err := New(WithResolver(&stubResolver{})).DemangleType("\x01\x10\x00")
	if !errors.Is(err, ErrMalformed) {
		t.Fatalf("truncated reference: got %v want ErrMalformed", err)
	}
}
