// Package demangle exposes the Swift symbol demangler as node trees.
//
// A Context is a demangling session. Every tree it returns is owned by the
// session and stays valid until Clear is called, so a consumer that walks many
// symbols can demangle, inspect, and Clear without growing memory.
package demangle

import (
	"fmt"
	"io"
	"strings"

	"github.com/appsworld/go-swiftdemangle/internal/swiftdemangle"
)

type (
	Node                      = swiftdemangle.Node
	NodeKind                  = swiftdemangle.NodeKind
	Factory                   = swiftdemangle.Factory
	Option                    = swiftdemangle.Option
	SymbolicReferenceResolver = swiftdemangle.SymbolicReferenceResolver
)

// Node kinds most consumers look at. The full set lives on the nodes
// themselves; compare Kind() against these or against NodeKind strings.
const (
	KindGlobal          = swiftdemangle.KindGlobal
	KindType            = swiftdemangle.KindType
	KindTypeMangling    = swiftdemangle.KindTypeMangling
	KindModule          = swiftdemangle.KindModule
	KindIdentifier      = swiftdemangle.KindIdentifier
	KindFunction        = swiftdemangle.KindFunction
	KindVariable        = swiftdemangle.KindVariable
	KindStructure       = swiftdemangle.KindStructure
	KindClass           = swiftdemangle.KindClass
	KindEnum            = swiftdemangle.KindEnum
	KindProtocol        = swiftdemangle.KindProtocol
	KindBuiltinTypeName = swiftdemangle.KindBuiltinTypeName
	KindSuffix          = swiftdemangle.KindSuffix
)

var (
	ErrEmptyInput            = swiftdemangle.ErrEmptyInput
	ErrInvalidPrefix         = swiftdemangle.ErrInvalidPrefix
	ErrMalformed             = swiftdemangle.ErrMalformed
	ErrUnbalancedStack       = swiftdemangle.ErrUnbalancedStack
	ErrBudgetExceeded        = swiftdemangle.ErrBudgetExceeded
	ErrUnresolvedSymbolicRef = swiftdemangle.ErrUnresolvedSymbolicRef
)

const DefaultMaxDepth = swiftdemangle.DefaultMaxDepth

// WithResolver installs the resolver used for symbolic references.
func WithResolver(r SymbolicReferenceResolver) Option {
	return swiftdemangle.WithResolver(r)
}

// WithMaxDepth bounds the nesting of recursive productions.
func WithMaxDepth(depth int) Option {
	return swiftdemangle.WithMaxDepth(depth)
}

// Context is a demangling session. It is not safe for concurrent use.
type Context struct {
	d    *swiftdemangle.Demangler
	opts []Option
}

// New returns a session with its own node factory.
func New(opts ...Option) *Context {
	return &Context{d: swiftdemangle.New(opts...), opts: opts}
}

// DemangleSymbol demangles a symbol of the current scheme (`$s`, `_$s`,
// `$S`, `_$S`, `_T0`) or an Objective-C runtime name (`_Tt`).
func (c *Context) DemangleSymbol(name string) (*Node, error) {
	return c.d.DemangleSymbol(name)
}

// DemangleType demangles a bare type mangling.
func (c *Context) DemangleType(name string) (*Node, error) {
	return c.d.DemangleType(name)
}

// DemangleOldSymbol demangles a legacy `_T` symbol into this session.
func (c *Context) DemangleOldSymbol(name string) (*Node, error) {
	return swiftdemangle.DemangleOldSymbolAsNode(name, c.d.Factory(), c.opts...)
}

// Demangle picks the scheme from the prefix of name: the current scheme and
// `_Tt` names go to DemangleSymbol, any other `_T` name to DemangleOldSymbol.
func (c *Context) Demangle(name string) (*Node, error) {
	switch Classify(name) {
	case SchemeCurrent, SchemeObjC:
		return c.d.DemangleSymbol(name)
	case SchemeOld:
		return c.DemangleOldSymbol(name)
	}
	if name == "" {
		return nil, ErrEmptyInput
	}
	return nil, fmt.Errorf("%w: %q", ErrInvalidPrefix, name)
}

// Clear invalidates every tree returned by this session.
func (c *Context) Clear() {
	c.d.Clear()
}

// Factory returns the factory that owns the session's nodes.
func (c *Context) Factory() *Factory {
	return c.d.Factory()
}

// NewFactory returns an empty factory for the legacy entry points.
func NewFactory() *Factory {
	return swiftdemangle.NewFactory()
}

// DemangleOldSymbolAsNode demangles a legacy `_T` symbol into f.
func DemangleOldSymbolAsNode(name string, f *Factory, opts ...Option) (*Node, error) {
	return swiftdemangle.DemangleOldSymbolAsNode(name, f, opts...)
}

// DemangleOldTypeAsNode demangles a legacy type mangling into f.
func DemangleOldTypeAsNode(name string, f *Factory, opts ...Option) (*Node, error) {
	return swiftdemangle.DemangleOldTypeAsNode(name, f, opts...)
}

// DemangleSymbol demangles name in a throwaway session.
func DemangleSymbol(name string, opts ...Option) (*Node, error) {
	return New(opts...).DemangleSymbol(name)
}

// DemangleType demangles a type mangling in a throwaway session.
func DemangleType(name string, opts ...Option) (*Node, error) {
	return New(opts...).DemangleType(name)
}

// IsMangledName reports whether name uses the current scheme or is an
// Objective-C runtime name.
func IsMangledName(name string) bool {
	return swiftdemangle.IsMangledName(name)
}

// Scheme identifies the mangling scheme of a symbol name.
type Scheme int

const (
	SchemeNone Scheme = iota
	SchemeCurrent
	SchemeObjC
	SchemeOld
)

func (s Scheme) String() string {
	switch s {
	case SchemeCurrent:
		return "current"
	case SchemeObjC:
		return "objc"
	case SchemeOld:
		return "old"
	}
	return "none"
}

// Classify returns the scheme a symbol name would be demangled with.
func Classify(name string) Scheme {
	switch {
	case strings.HasPrefix(name, "_Tt"):
		return SchemeObjC
	case swiftdemangle.IsMangledName(name):
		return SchemeCurrent
	case strings.HasPrefix(name, "_T"):
		return SchemeOld
	}
	return SchemeNone
}

// DumpTree renders n as an indented listing, one node per line.
func DumpTree(n *Node) (string, error) {
	return swiftdemangle.DumpTree(n)
}

// PrintTree writes the DumpTree listing of n to w, failing when the tree is
// nested deeper than maxDepth.
func PrintTree(w io.Writer, n *Node, maxDepth int) error {
	return swiftdemangle.PrintTree(w, n, maxDepth)
}
