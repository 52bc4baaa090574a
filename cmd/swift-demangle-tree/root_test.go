package main

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestPrintTrees(t *testing.T) {
	maxDepth, printDepth = 1024, 768
	ctx := newContext()

	var buf bytes.Buffer
	if err := printTrees(&buf, []string{"Si"}, ctx.DemangleType); err != nil {
		t.Fatalf("printTrees: %v", err)
	}
	if got := buf.String(); !strings.HasPrefix(got, "kind=Type\n") || !strings.Contains(got, `text="Int"`) {
		t.Fatalf("got %q", got)
	}

	buf.Reset()
	if err := printTrees(&buf, []string{"$s4main3fooyyF", "_TF4main3fooFT_T_"}, ctx.Demangle); err != nil {
		t.Fatalf("printTrees: %v", err)
	}
	if got := buf.String(); !strings.HasPrefix(got, "$s4main3fooyyF:\nkind=Global\n") || !strings.Contains(got, "\n\n_TF4main3fooFT_T_:\nkind=Global\n") {
		t.Fatalf("got %q", got)
	}

	buf.Reset()
	err := printTrees(&buf, []string{"Si", "4mai"}, ctx.DemangleType)
	if err == nil || !strings.Contains(err.Error(), "1 of 2") {
		t.Fatalf("got %v want a failure count", err)
	}
}

func TestOutputFileClosedOnFailure(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trees.txt")
	t.Cleanup(func() {
		outputFile = ""
		rootCmd.SetArgs(nil)
		rootCmd.SetErr(nil)
	})
	rootCmd.SetArgs([]string{"type", "--output", path, "Si", "4mai"})
	rootCmd.SetErr(io.Discard)
	if err := rootCmd.Execute(); err == nil {
		t.Fatalf("Execute succeeded with a malformed name")
	}
	f, ok := output.(*os.File)
	if !ok || f == os.Stdout {
		t.Fatalf("output is %T, want the --output file", output)
	}
	if err := closeOutput(); err != nil {
		t.Fatalf("closeOutput: %v", err)
	}
	if err := f.Close(); !errors.Is(err, os.ErrClosed) {
		t.Fatalf("second Close: got %v want os.ErrClosed", err)
	}
	if err := closeOutput(); err != nil {
		t.Fatalf("closeOutput without an open file: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !strings.HasPrefix(string(data), "Si:\nkind=Type\n") {
		t.Fatalf("got %q", data)
	}
}
