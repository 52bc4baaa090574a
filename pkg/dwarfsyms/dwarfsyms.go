// Package dwarfsyms demangles the Swift linkage names recorded in DWARF debug
// information.
package dwarfsyms

import (
	"errors"
	"fmt"
	"strings"

	"github.com/blacktop/go-dwarf"

	"github.com/appsworld/go-swiftdemangle/swift/demangle"
)

// DW_AT_MIPS_linkage_name, still emitted by some producers.
const attrMIPSLinkageName dwarf.Attr = 0x2007

// ErrStop ends a Walk early without reporting an error.
var ErrStop = errors.New("dwarfsyms: stop")

// EntryReader yields DWARF entries in order. *dwarf.Reader satisfies it.
type EntryReader interface {
	Next() (*dwarf.Entry, error)
}

// Symbol describes one entry carrying a Swift linkage name.
type Symbol struct {
	Offset      dwarf.Offset
	Tag         dwarf.Tag
	Name        string
	LinkageName string
	Scheme      demangle.Scheme
	// Kind is the kind of the demangled entity, e.g. Function or Getter.
	Kind   demangle.NodeKind
	Module string
	Err    error
}

// VisitFunc is called for every Swift symbol. node is nil when demangling
// failed and is only valid until the walk leaves the current compile unit.
type VisitFunc func(sym Symbol, node *demangle.Node) error

// Stats counts what a Walker has seen.
type Stats struct {
	Units     int
	Entries   int
	Demangled int
	Failed    int
}

// Walker demangles linkage names with a single session that is cleared at
// every compile unit boundary.
type Walker struct {
	ctx   *demangle.Context
	stats Stats
}

func NewWalker(opts ...demangle.Option) *Walker {
	return &Walker{ctx: demangle.New(opts...)}
}

func (w *Walker) Stats() Stats {
	return w.stats
}

// Walk reads r to the end and calls fn for each entry whose linkage name is a
// Swift mangled name. Returning ErrStop from fn ends the walk cleanly.
func (w *Walker) Walk(r EntryReader, fn VisitFunc) error {
	for {
		e, err := r.Next()
		if err != nil {
			return fmt.Errorf("dwarfsyms: failed to read entry: %w", err)
		}
		if e == nil {
			return nil
		}
		w.stats.Entries++
		if e.Tag == dwarf.TagCompileUnit {
			w.ctx.Clear()
			w.stats.Units++
			continue
		}
		linkage := LinkageName(e)
		scheme := demangle.Classify(linkage)
		if scheme == demangle.SchemeNone {
			continue
		}
		sym := Symbol{
			Offset:      e.Offset,
			Tag:         e.Tag,
			LinkageName: linkage,
			Scheme:      scheme,
		}
		if name, ok := e.Val(dwarf.AttrName).(string); ok {
			sym.Name = name
		}
		node, err := w.ctx.Demangle(linkage)
		if err != nil {
			w.stats.Failed++
			sym.Err = err
			node = nil
		} else {
			w.stats.Demangled++
			sym.Kind = EntityKind(node)
			sym.Module = ModuleName(node)
		}
		if err := fn(sym, node); err != nil {
			if errors.Is(err, ErrStop) {
				return nil
			}
			return err
		}
	}
}

// Collect walks r and returns every Swift symbol found.
func Collect(r EntryReader, opts ...demangle.Option) ([]Symbol, error) {
	var syms []Symbol
	err := NewWalker(opts...).Walk(r, func(sym Symbol, _ *demangle.Node) error {
		syms = append(syms, sym)
		return nil
	})
	return syms, err
}

// LinkageName returns the entry's linkage name, preferring DW_AT_linkage_name.
func LinkageName(e *dwarf.Entry) string {
	if name, ok := e.Val(dwarf.AttrLinkageName).(string); ok {
		return name
	}
	if name, ok := e.Val(attrMIPSLinkageName).(string); ok {
		return name
	}
	return ""
}

// EntityKind returns the kind of the entity a Global node describes, skipping
// function attributes and the trailing suffix.
func EntityKind(global *demangle.Node) demangle.NodeKind {
	if global == nil {
		return ""
	}
	if global.Kind() != demangle.KindGlobal {
		return global.Kind()
	}
	children := global.Children()
	for i := len(children) - 1; i >= 0; i-- {
		if k := children[i].Kind(); k != demangle.KindSuffix {
			return k
		}
	}
	return ""
}

// ModuleName returns the text of the first Module node in depth-first order.
// The result is a copy and outlives the session that produced n.
func ModuleName(n *demangle.Node) string {
	return moduleName(n, make(map[*demangle.Node]bool))
}

// Shared subtrees are searched once.
func moduleName(n *demangle.Node, seen map[*demangle.Node]bool) string {
	if n == nil || seen[n] {
		return ""
	}
	seen[n] = true
	if n.Kind() == demangle.KindModule {
		return strings.Clone(n.Text())
	}
	for _, child := range n.Children() {
		if name := moduleName(child, seen); name != "" {
			return name
		}
	}
	return ""
}
