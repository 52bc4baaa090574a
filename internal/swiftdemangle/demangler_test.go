package swiftdemangle

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func mustDump(t *testing.T, n *Node) string {
	t.Helper()
	out, err := DumpTree(n)
	if err != nil {
		t.Fatalf("DumpTree: %v", err)
	}
	return out
}

func TestDemangleTypeStandardSubstitution(t *testing.T) {
	d := New()
	node, err := d.DemangleType("Si")
	if err != nil {
		t.Fatalf("DemangleType(Si): %v", err)
	}
	want := `kind=Type
  kind=Structure
    kind=Module, text="Swift"
    kind=Identifier, text="Int"
`
	if diff := cmp.Diff(want, mustDump(t, node)); diff != "" {
		t.Fatalf("DemangleType(Si) mismatch (-want +got):\n%s", diff)
	}
	if len(d.nodeStack) != 1 {
		t.Fatalf("stack depth after DemangleType = %d want 1", len(d.nodeStack))
	}
}

func TestDemangleTypeBuiltin(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Bw", "Builtin.Word"},
		{"Bo", "Builtin.NativeObject"},
		{"Bp", "Builtin.RawPointer"},
		{"Bi32_", "Builtin.Int32"},
		{"Bf64_", "Builtin.Float64"},
		{"Bi8_Bv4_", "Builtin.Vec4xInt8"},
	}
	for _, tc := range cases {
		node, err := New().DemangleType(tc.in)
		if err != nil {
			t.Fatalf("DemangleType(%q): %v", tc.in, err)
		}
		if node.Kind() != KindType || node.NumChildren() != 1 {
			t.Fatalf("DemangleType(%q): got %s with %d children", tc.in, node.Kind(), node.NumChildren())
		}
		leaf := node.FirstChild()
		if leaf.Kind() != KindBuiltinTypeName || !leaf.HasText() || leaf.NumChildren() != 0 {
			t.Fatalf("DemangleType(%q): unexpected leaf %s", tc.in, leaf.Kind())
		}
		if got := leaf.Text(); got != tc.want {
			t.Fatalf("DemangleType(%q): got %q want %q", tc.in, got, tc.want)
		}
	}
}

func TestDemangleTypeNominal(t *testing.T) {
	node, err := New().DemangleType("4main3FooV")
	if err != nil {
		t.Fatalf("DemangleType: %v", err)
	}
	want := `kind=Type
  kind=Structure
    kind=Module, text="main"
    kind=Identifier, text="Foo"
`
	if diff := cmp.Diff(want, mustDump(t, node)); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
}

func TestSubstitutionSharesNode(t *testing.T) {
	d := New()
	// Substitution 2 is the struct type; AC refers back to it.
	node, err := d.DemangleType("4main3FooV_ACt")
	if err != nil {
		t.Fatalf("DemangleType: %v", err)
	}
	tuple := node.FirstChild()
	if tuple.Kind() != KindTuple || tuple.NumChildren() != 2 {
		t.Fatalf("got %s with %d children, want Tuple with 2", tuple.Kind(), tuple.NumChildren())
	}
	first := tuple.Child(0).FirstChild()
	second := tuple.Child(1).FirstChild()
	if first != second {
		t.Fatalf("back reference produced a copy, want the shared node")
	}
	if diff := cmp.Diff(mustDump(t, first), mustDump(t, second)); diff != "" {
		t.Fatalf("shared subtree differs:\n%s", diff)
	}
}

func TestSubstitutionOfIdentifier(t *testing.T) {
	node, err := New().DemangleType("4main3FooV_AA3BarVt")
	if err != nil {
		t.Fatalf("DemangleType: %v", err)
	}
	want := `kind=Type
  kind=Tuple
    kind=TupleElement
      kind=Type
        kind=Structure
          kind=Module, text="main"
          kind=Identifier, text="Foo"
    kind=TupleElement
      kind=Type
        kind=Structure
          kind=Module, text="main"
          kind=Identifier, text="Bar"
`
	if diff := cmp.Diff(want, mustDump(t, node)); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
}

func TestBoundGenericAndOptional(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{
			in: "SaySiG",
			want: `kind=Type
  kind=BoundGenericStructure
    kind=Type
      kind=Structure
        kind=Module, text="Swift"
        kind=Identifier, text="Array"
    kind=TypeList
      kind=Type
        kind=Structure
          kind=Module, text="Swift"
          kind=Identifier, text="Int"
`,
		},
		{
			in: "SiSg",
			want: `kind=Type
  kind=BoundGenericEnum
    kind=Type
      kind=Enum
        kind=Module, text="Swift"
        kind=Identifier, text="Optional"
    kind=TypeList
      kind=Type
        kind=Structure
          kind=Module, text="Swift"
          kind=Identifier, text="Int"
`,
		},
	}
	for _, tc := range cases {
		node, err := New().DemangleType(tc.in)
		if err != nil {
			t.Fatalf("DemangleType(%q): %v", tc.in, err)
		}
		if diff := cmp.Diff(tc.want, mustDump(t, node)); diff != "" {
			t.Fatalf("DemangleType(%q) mismatch (-want +got):\n%s", tc.in, diff)
		}
	}
}

func TestFunctionTypeThrows(t *testing.T) {
	node, err := New().DemangleType("SiSbKc")
	if err != nil {
		t.Fatalf("DemangleType: %v", err)
	}
	fn := node.FirstChild()
	if fn.Kind() != KindFunctionType || fn.NumChildren() != 3 {
		t.Fatalf("got %s with %d children", fn.Kind(), fn.NumChildren())
	}
	kinds := []NodeKind{KindThrowsAnnotation, KindArgumentTuple, KindReturnType}
	for i, k := range kinds {
		if got := fn.Child(i).Kind(); got != k {
			t.Fatalf("child %d: got %s want %s", i, got, k)
		}
	}
	if got := fn.Child(1).FirstChild().FirstChild().Child(1).Text(); got != "Bool" {
		t.Fatalf("argument type: got %q want %q", got, "Bool")
	}
	if got := fn.Child(2).FirstChild().FirstChild().Child(1).Text(); got != "Int" {
		t.Fatalf("return type: got %q want %q", got, "Int")
	}
}

func TestDemangleSymbol(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "Function",
			in:   "$s4main3fooyyF",
			want: `kind=Global
  kind=Function
    kind=Module, text="main"
    kind=Identifier, text="foo"
    kind=Type
      kind=FunctionType
        kind=ArgumentTuple
          kind=Type
            kind=Tuple
        kind=ReturnType
          kind=Type
            kind=Tuple
`,
		},
		{
			name: "NominalUnwrapped",
			in:   "$s4main3FooV",
			want: `kind=Global
  kind=Structure
    kind=Module, text="main"
    kind=Identifier, text="Foo"
`,
		},
		{
			name: "Getter",
			in:   "_$s4main3FooV3barSivg",
			want: `kind=Global
  kind=Getter
    kind=Variable
      kind=Structure
        kind=Module, text="main"
        kind=Identifier, text="Foo"
      kind=Identifier, text="bar"
      kind=Type
        kind=Structure
          kind=Module, text="Swift"
          kind=Identifier, text="Int"
`,
		},
		{
			name: "FunctionAttribute",
			in:   "$s4main3fooyyFTo",
			want: `kind=Global
  kind=ObjCAttribute
  kind=Function
    kind=Module, text="main"
    kind=Identifier, text="foo"
    kind=Type
      kind=FunctionType
        kind=ArgumentTuple
          kind=Type
            kind=Tuple
        kind=ReturnType
          kind=Type
            kind=Tuple
`,
		},
		{
			name: "Suffix",
			in:   "$s4main3FooVN.cold",
			want: `kind=Global
  kind=TypeMetadata
    kind=Type
      kind=Structure
        kind=Module, text="main"
        kind=Identifier, text="Foo"
  kind=Suffix, text=".cold"
`,
		},
		{
			name: "ObjCClass",
			in:   "_TtC4main3Foo",
			want: `kind=Global
  kind=TypeMangling
    kind=Type
      kind=Class
        kind=Module, text="main"
        kind=Identifier, text="Foo"
`,
		},
		{
			name: "ObjCProtocol",
			in:   "_TtP4main5Proto_",
			want: `kind=Global
  kind=TypeMangling
    kind=Type
      kind=ProtocolList
        kind=TypeList
          kind=Type
            kind=Protocol
              kind=Module, text="main"
              kind=Identifier, text="Proto"
`,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			node, err := New().DemangleSymbol(tc.in)
			if err != nil {
				t.Fatalf("DemangleSymbol(%q): %v", tc.in, err)
			}
			if diff := cmp.Diff(tc.want, mustDump(t, node)); diff != "" {
				t.Fatalf("DemangleSymbol(%q) mismatch (-want +got):\n%s", tc.in, diff)
			}
		})
	}
}

func TestGenericSignature(t *testing.T) {
	node, err := New().DemangleSymbol("$s4main3fooyxSHRzlF")
	if err != nil {
		t.Fatalf("DemangleSymbol: %v", err)
	}
	fn := node.FirstChild()
	if fn.Kind() != KindFunction {
		t.Fatalf("got %s want Function", fn.Kind())
	}
	generic := fn.Child(2).FirstChild()
	if generic.Kind() != KindDependentGenericType {
		t.Fatalf("got %s want DependentGenericType", generic.Kind())
	}
	sig := generic.FirstChild()
	if sig.Kind() != KindDependentGenericSignature || sig.NumChildren() != 2 {
		t.Fatalf("got %s with %d children", sig.Kind(), sig.NumChildren())
	}
	if got := sig.Child(0); got.Kind() != KindDependentGenericParamCount || got.Index() != 1 {
		t.Fatalf("param count: got %s index %d", got.Kind(), got.Index())
	}
	req := sig.Child(1)
	if req.Kind() != KindDependentGenericConformanceRequirement {
		t.Fatalf("got %s want DependentGenericConformanceRequirement", req.Kind())
	}
	param := req.FirstChild().FirstChild()
	if param.Kind() != KindDependentGenericParamType || param.Text() != "A" {
		t.Fatalf("param: got %s %q", param.Kind(), param.Text())
	}
	if got := req.Child(1).FirstChild().Child(1).Text(); got != "Hashable" {
		t.Fatalf("protocol: got %q want %q", got, "Hashable")
	}
}

func TestStaticAccessor(t *testing.T) {
	node, err := New().DemangleSymbol("$s4main3FooV3barSivgZ")
	if err != nil {
		t.Fatalf("DemangleSymbol: %v", err)
	}
	static := node.FirstChild()
	if static.Kind() != KindStatic || static.FirstChild().Kind() != KindGetter {
		t.Fatalf("got %s(%s) want Static(Getter)", static.Kind(), static.FirstChild().Kind())
	}
}

func TestTruncatedInputFails(t *testing.T) {
	cases := []struct {
		in     string
		symbol bool
	}{
		{"$s4main3fooyyF", true},
		{"$s4main3FooV", true},
		{"4main3FooV_ACt", false},
		{"Si_Sit", false},
		{"SaySiG", false},
		{"SiSbKc", false},
	}
	for _, tc := range cases {
		d := New()
		demangle := d.DemangleType
		if tc.symbol {
			demangle = d.DemangleSymbol
		}
		if _, err := demangle(tc.in); err != nil {
			t.Fatalf("%q: %v", tc.in, err)
		}
		truncated := tc.in[:len(tc.in)-1]
		if node, err := demangle(truncated); err == nil {
			t.Fatalf("%q: expected failure, got %s", truncated, node.Kind())
		}
	}
}

func TestErrors(t *testing.T) {
	cases := []struct {
		name   string
		in     string
		symbol bool
		want   error
	}{
		{name: "EmptySymbol", in: "", symbol: true, want: ErrEmptyInput},
		{name: "EmptyType", in: "", want: ErrEmptyInput},
		{name: "BadPrefix", in: "foo", symbol: true, want: ErrInvalidPrefix},
		{name: "Unbalanced", in: "SiSi", want: ErrUnbalancedStack},
		{name: "SubstitutionOutOfRange", in: "4main3FooVAD", want: ErrMalformed},
		{name: "WordOutOfRange", in: "0A3fooV", want: ErrMalformed},
		{name: "IdentifierTooLong", in: "9main", want: ErrMalformed},
		{name: "UnknownStandardType", in: "S@", want: ErrMalformed},
		{name: "TrailingObjCText", in: "_TtC4main3Foox", symbol: true, want: ErrMalformed},
		{name: "SymbolicWithoutResolver", in: "\x01\x10\x00\x00\x00", want: ErrUnresolvedSymbolicRef},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d := New()
			var err error
			if tc.symbol {
				_, err = d.DemangleSymbol(tc.in)
			} else {
				_, err = d.DemangleType(tc.in)
			}
			if !errors.Is(err, tc.want) {
				t.Fatalf("got %v want %v", err, tc.want)
			}
		})
	}
}

func TestNestingBudget(t *testing.T) {
	// Three generic levels: C<Int> nested in B<Int> nested in A<Int>.
	const in = "4main1AV1BV1CVySi_Si_SiG"
	node, err := New().DemangleType(in)
	if err != nil {
		t.Fatalf("DemangleType: %v", err)
	}
	if got := node.FirstChild().Kind(); got != KindBoundGenericStructure {
		t.Fatalf("got %s want BoundGenericStructure", got)
	}
	_, err = New(WithMaxDepth(2)).DemangleType(in)
	if !errors.Is(err, ErrBudgetExceeded) {
		t.Fatalf("got %v want ErrBudgetExceeded", err)
	}
}

func TestRepeatCount(t *testing.T) {
	d := New()
	_, err := d.DemangleType("S3i")
	if !errors.Is(err, ErrUnbalancedStack) {
		t.Fatalf("got %v want ErrUnbalancedStack", err)
	}
	if len(d.nodeStack) != 3 {
		t.Fatalf("stack depth = %d want 3", len(d.nodeStack))
	}
	for _, e := range d.nodeStack[1:] {
		if e.node != d.nodeStack[0].node {
			t.Fatalf("repeated substitution pushed a different node")
		}
	}
	if _, err := d.DemangleType("S2049i"); !errors.Is(err, ErrMalformed) {
		t.Fatalf("got %v want ErrMalformed", err)
	}
}

func TestClearRestartsSession(t *testing.T) {
	d := New()
	for i := 0; i < 200; i++ {
		if _, err := d.DemangleType("4main3FooV_ACt"); err != nil {
			t.Fatalf("DemangleType: %v", err)
		}
	}
	grown := d.Factory().SlabSize()
	d.Clear()
	if got := d.Factory().NumSlabs(); got != 1 {
		t.Fatalf("NumSlabs after Clear = %d want 1", got)
	}
	if got := d.Factory().SlabSize(); got != grown {
		t.Fatalf("SlabSize after Clear = %d want %d", got, grown)
	}

	// Index 0 must name this call's first identifier.
	node, err := d.DemangleType("3FooAAV")
	if err != nil {
		t.Fatalf("DemangleType after Clear: %v", err)
	}
	want := `kind=Type
  kind=Structure
    kind=Module, text="Foo"
    kind=Identifier, text="Foo"
`
	if diff := cmp.Diff(want, mustDump(t, node)); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
	if len(d.substitutions) != 2 {
		t.Fatalf("substitutions = %d want 2", len(d.substitutions))
	}
}

func TestIsMangledName(t *testing.T) {
	for _, in := range []string{"$s4main3FooV", "_$s4main3FooV", "$S4main3FooV", "_T04main3FooV", "_TtC4main3Foo"} {
		if !IsMangledName(in) {
			t.Fatalf("IsMangledName(%q) = false", in)
		}
	}
	for _, in := range []string{"", "main", "_T", "$x"} {
		if IsMangledName(in) {
			t.Fatalf("IsMangledName(%q) = true", in)
		}
	}
}

func TestMultiCharacterSubstitution(t *testing.T) {
	cases := []struct {
		in   string
		want uint64
	}{
		{"AZ", 25},
		{"A_", 26},
		{"A0_", 27},
		{"A1_", 28},
	}
	for _, tc := range cases {
		d := New()
		d.init(tc.in)
		for i := 0; i < 30; i++ {
			d.addSubstitution(d.createNodeWithIndex(KindIndex, uint64(i)))
		}
		n := d.demangleOperator()
		if n == nil {
			t.Fatalf("%q: no node", tc.in)
		}
		if n.Index() != tc.want {
			t.Fatalf("%q: got substitution %d want %d", tc.in, n.Index(), tc.want)
		}
		if d.pos != len(tc.in) {
			t.Fatalf("%q: consumed %d bytes", tc.in, d.pos)
		}
	}

	d := New()
	d.init("A2cB")
	for i := 0; i < 30; i++ {
		d.addSubstitution(d.createNodeWithIndex(KindIndex, uint64(i)))
	}
	n := d.demangleOperator()
	if n == nil || n.Index() != 1 {
		t.Fatalf("A2cB: got %v want substitution 1", n)
	}
	if len(d.nodeStack) != 2 || d.nodeStack[0].node.Index() != 2 || d.nodeStack[1].node.Index() != 2 {
		t.Fatalf("A2cB: lowercase code with repeat count should push substitution 2 twice, stack %s", d.stackTrail())
	}

	d.init("A3_")
	for i := 0; i < 30; i++ {
		d.addSubstitution(d.createNodeWithIndex(KindIndex, uint64(i)))
	}
	if n := d.demangleOperator(); n != nil {
		t.Fatalf("A3_ with 30 substitutions: got %s want nil", n.Kind())
	}
}

func TestWitnessPayloads(t *testing.T) {
	cases := []struct {
		in   string
		kind NodeKind
		want string
	}{
		{"$s4main3FooVwxx", KindValueWitness, "destroy"},
		{"$s4main3FooVwcp", KindValueWitness, "initializeWithCopy"},
		{"$s4main3FooVwug", KindValueWitness, "getEnumTag"},
		{"$s4main3FooV3barSivpWvd", KindFieldOffset, "direct"},
		{"$s4main3FooV3barSivpWvi", KindFieldOffset, "indirect"},
	}
	for _, tc := range cases {
		global, err := New().DemangleSymbol(tc.in)
		if err != nil {
			t.Fatalf("%q: %v", tc.in, err)
		}
		n := global.FirstChild()
		if n.Kind() != tc.kind {
			t.Fatalf("%q: got %s want %s", tc.in, n.Kind(), tc.kind)
		}
		var got string
		switch tc.kind {
		case KindValueWitness:
			got = ValueWitnessKind(n.Index()).String()
		case KindFieldOffset:
			dir := n.FirstChild()
			if dir.Kind() != KindDirectness {
				t.Fatalf("%q: first child %s want Directness", tc.in, dir.Kind())
			}
			if v := n.Child(1); v.Kind() != KindVariable {
				t.Fatalf("%q: second child %s want Variable", tc.in, v.Kind())
			}
			got = Directness(dir.Index()).String()
		}
		if got != tc.want {
			t.Fatalf("%q: got %q want %q", tc.in, got, tc.want)
		}
	}
	if got := ValueWitnessKind(99).String(); got != "unknown" {
		t.Fatalf("out of range witness: got %q want %q", got, "unknown")
	}
}
