package dwarfsyms

import (
	"errors"
	"testing"

	"github.com/blacktop/go-dwarf"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/appsworld/go-swiftdemangle/swift/demangle"
)

type sliceReader struct {
	entries []*dwarf.Entry
	err     error
}

func (r *sliceReader) Next() (*dwarf.Entry, error) {
	if len(r.entries) == 0 {
		return nil, r.err
	}
	e := r.entries[0]
	r.entries = r.entries[1:]
	return e, nil
}

func unit(off dwarf.Offset) *dwarf.Entry {
	return &dwarf.Entry{Offset: off, Tag: dwarf.TagCompileUnit, Children: true}
}

func subprogram(off dwarf.Offset, name string, attr dwarf.Attr, linkage string) *dwarf.Entry {
	return &dwarf.Entry{
		Offset: off,
		Tag:    dwarf.TagSubprogram,
		Field: []dwarf.Field{
			{Attr: dwarf.AttrName, Val: name},
			{Attr: attr, Val: linkage},
		},
	}
}

func testEntries() []*dwarf.Entry {
	return []*dwarf.Entry{
		unit(0x0b),
		subprogram(0x20, "foo", dwarf.AttrLinkageName, "$s4main3fooyyF"),
		subprogram(0x40, "bar", dwarf.AttrLinkageName, "$s4main3FooV3barSivg"),
		subprogram(0x60, "main", dwarf.AttrName, "main"),
		unit(0x100),
		subprogram(0x120, "foo", attrMIPSLinkageName, "_TF5other3fooFT_T_"),
		subprogram(0x140, "broken", dwarf.AttrLinkageName, "$s4main3fo"),
		subprogram(0x160, "c_func", dwarf.AttrLinkageName, "_c_func"),
	}
}

func TestCollect(t *testing.T) {
	syms, err := Collect(&sliceReader{entries: testEntries()})
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	want := []Symbol{
		{Offset: 0x20, Tag: dwarf.TagSubprogram, Name: "foo", LinkageName: "$s4main3fooyyF", Scheme: demangle.SchemeCurrent, Kind: demangle.KindFunction, Module: "main"},
		{Offset: 0x40, Tag: dwarf.TagSubprogram, Name: "bar", LinkageName: "$s4main3FooV3barSivg", Scheme: demangle.SchemeCurrent, Kind: "Getter", Module: "main"},
		{Offset: 0x120, Tag: dwarf.TagSubprogram, Name: "foo", LinkageName: "_TF5other3fooFT_T_", Scheme: demangle.SchemeOld, Kind: demangle.KindFunction, Module: "other"},
		{Offset: 0x140, Tag: dwarf.TagSubprogram, Name: "broken", LinkageName: "$s4main3fo", Scheme: demangle.SchemeCurrent},
	}
	if diff := cmp.Diff(want, syms, cmpopts.IgnoreFields(Symbol{}, "Err")); diff != "" {
		t.Fatalf("Collect mismatch (-want +got):\n%s", diff)
	}
	if !errors.Is(syms[3].Err, demangle.ErrMalformed) {
		t.Fatalf("broken symbol: got %v want ErrMalformed", syms[3].Err)
	}
}

func TestWalkerStatsAndClear(t *testing.T) {
	w := NewWalker()
	var firstUnit *demangle.Node
	err := w.Walk(&sliceReader{entries: testEntries()}, func(sym Symbol, node *demangle.Node) error {
		if sym.Offset == 0x20 {
			firstUnit = node
			if got := EntityKind(node); got != demangle.KindFunction {
				t.Fatalf("EntityKind = %s want Function", got)
			}
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Walk: %v", err)
	}
	if firstUnit == nil {
		t.Fatalf("visitor never saw the first symbol")
	}
	want := Stats{Units: 2, Entries: 8, Demangled: 3, Failed: 1}
	if diff := cmp.Diff(want, w.Stats()); diff != "" {
		t.Fatalf("Stats mismatch (-want +got):\n%s", diff)
	}
	if n := w.ctx.Factory().NumSlabs(); n != 1 {
		t.Fatalf("NumSlabs = %d want 1", n)
	}
}

func TestWalkStop(t *testing.T) {
	var seen int
	err := NewWalker().Walk(&sliceReader{entries: testEntries()}, func(Symbol, *demangle.Node) error {
		seen++
		return ErrStop
	})
	if err != nil {
		t.Fatalf("Walk: %v", err)
	}
	if seen != 1 {
		t.Fatalf("visited %d symbols want 1", seen)
	}
}

func TestWalkErrors(t *testing.T) {
	readErr := errors.New("truncated .debug_info")
	_, err := Collect(&sliceReader{entries: testEntries()[:2], err: readErr})
	if !errors.Is(err, readErr) {
		t.Fatalf("got %v want %v", err, readErr)
	}

	visitErr := errors.New("visitor failed")
	err = NewWalker().Walk(&sliceReader{entries: testEntries()}, func(Symbol, *demangle.Node) error {
		return visitErr
	})
	if !errors.Is(err, visitErr) {
		t.Fatalf("got %v want %v", err, visitErr)
	}
}

func TestEntityKindSkipsSuffix(t *testing.T) {
	node, err := demangle.DemangleSymbol("$s4main3FooVN.cold")
	if err != nil {
		t.Fatalf("DemangleSymbol: %v", err)
	}
	if got := EntityKind(node); got != "TypeMetadata" {
		t.Fatalf("EntityKind = %s want TypeMetadata", got)
	}
	if got := ModuleName(node); got != "main" {
		t.Fatalf("ModuleName = %q want %q", got, "main")
	}
	if EntityKind(nil) != "" || ModuleName(nil) != "" {
		t.Fatalf("nil node should yield empty results")
	}
}

func TestCollectModuleOutlivesUnit(t *testing.T) {
	entries := []*dwarf.Entry{
		unit(0x0b),
		subprogram(0x20, "Foo", dwarf.AttrLinkageName, "$s007caf_dma3FooVN"),
		unit(0x100),
		subprogram(0x120, "bar", dwarf.AttrLinkageName, "$s006wgvHBa3FooVN"),
	}
	syms, err := Collect(&sliceReader{entries: entries})
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	if len(syms) != 2 {
		t.Fatalf("got %d symbols want 2", len(syms))
	}
	if syms[0].Module != "café" {
		t.Fatalf("Module after the next unit = %q want %q", syms[0].Module, "café")
	}
	if syms[1].Module != "日本" {
		t.Fatalf("Module = %q want %q", syms[1].Module, "日本")
	}
}
