package swiftdemangle

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func recordedWords(d *Demangler) []string {
	return append([]string(nil), d.words[:d.numWords]...)
}

func TestRecordWords(t *testing.T) {
	cases := []struct {
		in   string
		want []string
	}{
		{"_ObjectiveCBridgeable", []string{"Objective", "CBridgeable"}},
		{"_forceBridgeFrom", []string{"force", "Bridge", "From"}},
		{"URLSession", []string{"URLSession"}},
		{"a_b_cd", []string{"cd"}},
		{"x9y", []string{"x9y"}},
	}
	for _, tc := range cases {
		d := New()
		d.init("")
		d.recordWords(tc.in)
		if diff := cmp.Diff(tc.want, recordedWords(d)); diff != "" {
			t.Fatalf("recordWords(%q) mismatch (-want +got):\n%s", tc.in, diff)
		}
	}
}

func TestWordSubstitution(t *testing.T) {
	d := New()
	d.init("016_forceBridgeFromA1C_6resulty")
	d.recordWords("_ObjectiveCBridgeable")

	ident := d.demangleIdentifier()
	if ident == nil {
		t.Fatalf("demangleIdentifier failed at pos %d", d.pos)
	}
	if got, want := ident.Text(), "_forceBridgeFromObjectiveC"; got != want {
		t.Fatalf("got %q want %q", got, want)
	}
	if got := d.text[d.pos:]; got != "_6resulty" {
		t.Fatalf("remaining input: got %q want %q", got, "_6resulty")
	}
	want := []string{"Objective", "CBridgeable", "force", "Bridge", "From"}
	if diff := cmp.Diff(want, recordedWords(d)); diff != "" {
		t.Fatalf("words mismatch (-want +got):\n%s", diff)
	}
}

func TestWordOnlyIdentifier(t *testing.T) {
	node, err := New().DemangleType("4main3FooV0A0V")
	if err != nil {
		t.Fatalf("DemangleType: %v", err)
	}
	st := node.FirstChild()
	if st.Kind() != KindStructure {
		t.Fatalf("got %s want Structure", st.Kind())
	}
	if got := st.Child(1).Text(); got != "main" {
		t.Fatalf("got %q want %q", got, "main")
	}
	if got := st.FirstChild().Child(1).Text(); got != "Foo" {
		t.Fatalf("parent: got %q want %q", got, "Foo")
	}
}

func TestWordTableCapacity(t *testing.T) {
	var sb strings.Builder
	for i := 0; i < maxNumWords; i++ {
		sb.WriteByte('Q')
		sb.WriteByte(byte('a' + i))
	}
	sb.WriteString("Ra")

	d := New()
	d.init("0Z0")
	d.recordWords(sb.String())
	if d.numWords != maxNumWords {
		t.Fatalf("numWords = %d want %d", d.numWords, maxNumWords)
	}
	if got := d.words[maxNumWords-1]; got != "Qz" {
		t.Fatalf("last word = %q want %q", got, "Qz")
	}
	ident := d.demangleIdentifier()
	if ident == nil || ident.Text() != "Qz" {
		t.Fatalf("word Z did not resolve to the 26th word")
	}
}

func TestPunycodeIdentifier(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"007caf_dma", "café"},
		{"006wgvHBa", "日本"},
		{"009Strae_oqa", "Straße"},
	}
	for _, tc := range cases {
		d := New()
		d.init(tc.in)
		ident := d.demangleIdentifier()
		if ident == nil {
			t.Fatalf("demangleIdentifier(%q) failed", tc.in)
		}
		if got := ident.Text(); got != tc.want {
			t.Fatalf("demangleIdentifier(%q): got %q want %q", tc.in, got, tc.want)
		}
		if d.pos != len(tc.in) {
			t.Fatalf("demangleIdentifier(%q): consumed %d of %d bytes", tc.in, d.pos, len(tc.in))
		}
	}
}

func TestDecodeSwiftPunycodeRejectsBadDigits(t *testing.T) {
	for _, in := range []string{"", "caf_dm!", "abc_9"} {
		if _, err := decodeSwiftPunycode(in); err == nil {
			t.Fatalf("decodeSwiftPunycode(%q): expected error", in)
		}
	}
}

func TestOperatorIdentifier(t *testing.T) {
	cases := []struct {
		in   string
		kind NodeKind
		want string
	}{
		{"2ppoi", KindInfixOperator, "++"},
		{"1sop", KindPrefixOperator, "-"},
		{"1noP", KindPostfixOperator, "!"},
		{"2eeoi", KindInfixOperator, "=="},
	}
	for _, tc := range cases {
		d := New()
		d.init(tc.in)
		ident := d.demangleIdentifier()
		if ident == nil {
			t.Fatalf("%q: identifier failed", tc.in)
		}
		d.pushNode(ident)
		if d.nextChar() != 'o' {
			t.Fatalf("%q: missing operator marker", tc.in)
		}
		op := d.demangleOperatorIdentifier()
		if op == nil {
			t.Fatalf("%q: operator failed", tc.in)
		}
		if op.Kind() != tc.kind || op.Text() != tc.want {
			t.Fatalf("%q: got %s %q want %s %q", tc.in, op.Kind(), op.Text(), tc.kind, tc.want)
		}
	}
}
